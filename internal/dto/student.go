package dto

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// StudentRequest captures POST/PUT /students payloads. Dates use YYYY-MM-DD.
type StudentRequest struct {
	StudentCode      string               `json:"student_code" validate:"omitempty,max=32"`
	FirstName        string               `json:"first_name" validate:"required,max=80"`
	LastName         string               `json:"last_name" validate:"required,max=80"`
	Gender           string               `json:"gender" validate:"required,oneof=Male Female"`
	DateOfBirth      string               `json:"date_of_birth" validate:"omitempty,ymd"`
	PlaceOfBirth     string               `json:"place_of_birth"`
	Nationality      string               `json:"nationality"`
	BranchID         string               `json:"branch_id" validate:"required"`
	Address          string               `json:"address"`
	Phone            string               `json:"phone"`
	Email            string               `json:"email" validate:"omitempty,email"`
	Status           models.StudentStatus `json:"status" validate:"omitempty,student_status"`
	AdmissionDate    string               `json:"admission_date" validate:"omitempty,ymd"`
	FatherName       string               `json:"father_name"`
	FatherOccupation string               `json:"father_occupation"`
	MotherName       string               `json:"mother_name"`
	MotherOccupation string               `json:"mother_occupation"`
	ParentPhone      string               `json:"parent_phone"`
	ImageURL         string               `json:"image_url" validate:"omitempty,url"`
	Insurance        *InsuranceRequest    `json:"insurance_info" validate:"omitempty"`
}

// InsuranceRequest is the optional insurance block of a student.
type InsuranceRequest struct {
	Provider       string           `json:"provider" validate:"required"`
	PolicyNumber   string           `json:"policy_number" validate:"required"`
	Type           string           `json:"type"`
	CoverageAmount *decimal.Decimal `json:"coverage_amount"`
	StartDate      string           `json:"start_date" validate:"required,ymd"`
	EndDate        string           `json:"end_date" validate:"required,ymd"`
}
