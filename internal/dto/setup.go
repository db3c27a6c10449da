package dto

import "github.com/shopspring/decimal"

// BranchRequest captures POST/PUT /branches payloads.
type BranchRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email" validate:"omitempty,email"`
	Location string `json:"location"`
}

// CreateProgramRequest captures POST /programs payloads.
type CreateProgramRequest struct {
	BranchID      string           `json:"branch_id" validate:"required"`
	Name          string           `json:"name" validate:"required,max=120"`
	Description   string           `json:"description"`
	TotalSessions int              `json:"total_sessions" validate:"required,min=1"`
	Price         *decimal.Decimal `json:"price" validate:"required"`
}

// CreateClassRequest captures POST /classes payloads. TotalSessions defaults
// to the program's when omitted.
type CreateClassRequest struct {
	BranchID      string   `json:"branch_id" validate:"required"`
	ProgramID     string   `json:"program_id" validate:"required"`
	ClassName     string   `json:"class_name" validate:"required,max=120"`
	Days          []string `json:"days" validate:"required,min=1,dive,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	StartTime     string   `json:"start_time" validate:"required,hhmm"`
	EndTime       string   `json:"end_time" validate:"required,hhmm"`
	MaxStudents   int      `json:"max_students" validate:"min=0"`
	TotalSessions *int     `json:"total_sessions" validate:"omitempty,min=1"`
}
