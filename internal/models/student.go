package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StudentStatus represents the admission state of a student.
type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "Active"
	StudentStatusHold     StudentStatus = "Hold"
	StudentStatusInactive StudentStatus = "Inactive"
)

// Valid returns true when the status is a supported value.
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentStatusActive, StudentStatusHold, StudentStatusInactive:
		return true
	default:
		return false
	}
}

// Student represents a learner admitted to a branch.
type Student struct {
	ID               string         `db:"id" json:"id"`
	StudentCode      string         `db:"student_code" json:"student_code"`
	FirstName        string         `db:"first_name" json:"first_name"`
	LastName         string         `db:"last_name" json:"last_name"`
	Gender           string         `db:"gender" json:"gender"`
	DateOfBirth      *Date          `db:"date_of_birth" json:"date_of_birth,omitempty"`
	PlaceOfBirth     string         `db:"place_of_birth" json:"place_of_birth"`
	Nationality      string         `db:"nationality" json:"nationality"`
	BranchID         string         `db:"branch_id" json:"branch_id"`
	Address          string         `db:"address" json:"address"`
	Phone            string         `db:"phone" json:"phone"`
	Email            string         `db:"email" json:"email"`
	Status           StudentStatus  `db:"status" json:"status"`
	AdmissionDate    *Date          `db:"admission_date" json:"admission_date,omitempty"`
	FatherName       string         `db:"father_name" json:"father_name"`
	FatherOccupation string         `db:"father_occupation" json:"father_occupation"`
	MotherName       string         `db:"mother_name" json:"mother_name"`
	MotherOccupation string         `db:"mother_occupation" json:"mother_occupation"`
	ParentPhone      string         `db:"parent_phone" json:"parent_phone"`
	ImageURL         string         `db:"image_url" json:"image_url,omitempty"`
	Insurance        *InsuranceInfo `db:"insurance_info" json:"insurance_info,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	CreatedBy        string         `db:"created_by" json:"created_by"`
	ModifiedAt       time.Time      `db:"modified_at" json:"modified_at"`
	ModifiedBy       string         `db:"modified_by" json:"modified_by"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	BranchID  string
	Status    StudentStatus
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Value marshals the insurance block to JSONB.
func (i InsuranceInfo) Value() (driver.Value, error) {
	data, err := json.Marshal(i)
	if err != nil {
		return nil, fmt.Errorf("marshal insurance info: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB insurance block.
func (i *InsuranceInfo) Scan(value interface{}) error {
	if value == nil {
		*i = InsuranceInfo{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for InsuranceInfo", value)
	}
	if len(data) == 0 {
		*i = InsuranceInfo{}
		return nil
	}
	if err := json.Unmarshal(data, i); err != nil {
		return fmt.Errorf("unmarshal insurance info: %w", err)
	}
	return nil
}
