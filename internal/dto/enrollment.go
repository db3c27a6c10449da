package dto

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// CreateEnrollmentRequest captures POST /enrollments payloads. Amounts accept
// JSON numbers or decimal strings.
type CreateEnrollmentRequest struct {
	StudentID      string             `json:"student_id" validate:"required"`
	ClassID        string             `json:"class_id" validate:"required"`
	Term           string             `json:"term"`
	StartSession   int                `json:"start_session" validate:"required,min=1"`
	TotalAmount    *decimal.Decimal   `json:"total_amount" validate:"required"`
	Discount       *decimal.Decimal   `json:"discount"`
	PaidAmount     *decimal.Decimal   `json:"paid_amount"`
	PaymentType    models.PaymentType `json:"payment_type" validate:"required,payment_type"`
	PaymentExpired string             `json:"payment_expired" validate:"omitempty,ymd"`
}

// UpdatePaymentRequest captures PATCH /enrollments/:id/payment. Omitted fields
// keep their stored value.
type UpdatePaymentRequest struct {
	TotalAmount    *decimal.Decimal    `json:"total_amount"`
	Discount       *decimal.Decimal    `json:"discount"`
	PaidAmount     *decimal.Decimal    `json:"paid_amount"`
	PaymentType    *models.PaymentType `json:"payment_type" validate:"omitempty,payment_type"`
	PaymentExpired *string             `json:"payment_expired" validate:"omitempty,ymd"`
}

// UpdateEnrollmentStatusRequest captures PATCH /enrollments/:id/status.
type UpdateEnrollmentStatusRequest struct {
	Status models.EnrollmentStatus `json:"enrollment_status" validate:"required,enrollment_status"`
}

// DeleteEnrollmentResponse reports what a delete removed.
type DeleteEnrollmentResponse struct {
	ID                string `json:"id"`
	AttendanceRemoved int64  `json:"attendance_removed"`
}
