package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive    EnrollmentStatus = "Active"
	EnrollmentStatusHold      EnrollmentStatus = "Hold"
	EnrollmentStatusCompleted EnrollmentStatus = "Completed"
	EnrollmentStatusDropped   EnrollmentStatus = "Dropped"
)

// Valid returns true when the status is a supported value.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusHold, EnrollmentStatusCompleted, EnrollmentStatusDropped:
		return true
	default:
		return false
	}
}

// PaymentStatus is derived from the enrollment amounts and never set directly.
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "Paid"
	PaymentStatusUnpaid PaymentStatus = "Unpaid"
)

// PaymentType enumerates accepted payment channels.
type PaymentType string

const (
	PaymentTypeCash         PaymentType = "Cash"
	PaymentTypeABA          PaymentType = "ABA"
	PaymentTypeBankTransfer PaymentType = "Bank Transfer"
)

// Valid returns true when the payment type is supported.
func (p PaymentType) Valid() bool {
	switch p {
	case PaymentTypeCash, PaymentTypeABA, PaymentTypeBankTransfer:
		return true
	default:
		return false
	}
}

// Enrollment captures a student's registration to a class with its billing state.
type Enrollment struct {
	ID             string           `db:"id" json:"id"`
	StudentID      string           `db:"student_id" json:"student_id"`
	ClassID        string           `db:"class_id" json:"class_id"`
	Term           string           `db:"term" json:"term,omitempty"`
	StartSession   int              `db:"start_session" json:"start_session"`
	TotalAmount    decimal.Decimal  `db:"total_amount" json:"total_amount"`
	Discount       decimal.Decimal  `db:"discount" json:"discount"`
	PaidAmount     decimal.Decimal  `db:"paid_amount" json:"paid_amount"`
	PaymentStatus  PaymentStatus    `db:"payment_status" json:"payment_status"`
	PaymentType    PaymentType      `db:"payment_type" json:"payment_type"`
	PaymentExpired *Date            `db:"payment_expired" json:"payment_expired,omitempty"`
	Status         EnrollmentStatus `db:"enrollment_status" json:"enrollment_status"`
	EnrolledAt     time.Time        `db:"enrolled_at" json:"enrolled_at"`
	CreatedBy      string           `db:"created_by" json:"created_by"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
	UpdatedBy      string           `db:"updated_by" json:"updated_by"`
}

// EnrollmentDetail enriches Enrollment with student and class info.
type EnrollmentDetail struct {
	Enrollment
	StudentName string          `db:"student_name" json:"student_name"`
	StudentCode string          `db:"student_code" json:"student_code"`
	ClassName   string          `db:"class_name" json:"class_name"`
	Balance     decimal.Decimal `db:"-" json:"balance"`
}

// EnrollmentTotals aggregates enrollment counts and amounts.
type EnrollmentTotals struct {
	Active      int             `db:"active"`
	Unpaid      int             `db:"unpaid"`
	Outstanding decimal.Decimal `db:"outstanding"`
	Collected   decimal.Decimal `db:"collected"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID string
	ClassID   string
	Status    EnrollmentStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
