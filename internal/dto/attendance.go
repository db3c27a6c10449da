package dto

import "github.com/noah-isme/school-portal-api/internal/models"

// CreateAttendanceRequest captures POST /attendance payloads.
type CreateAttendanceRequest struct {
	EnrollmentID  string                  `json:"enrollment_id" validate:"required"`
	ClassID       string                  `json:"class_id" validate:"required"`
	StudentID     string                  `json:"student_id" validate:"required"`
	SessionNumber int                     `json:"session_number" validate:"required,min=1"`
	SessionDate   string                  `json:"session_date" validate:"required,ymd"`
	Status        models.AttendanceStatus `json:"status" validate:"required,attendance_status"`
	Reason        string                  `json:"reason" validate:"max=500"`
}

// UpdateAttendanceRequest captures PUT /attendance(/:id) payloads.
// AttendanceID is only read from the body on the legacy route.
type UpdateAttendanceRequest struct {
	AttendanceID string                  `json:"attendance_id"`
	Status       models.AttendanceStatus `json:"status" validate:"required,attendance_status"`
	Reason       string                  `json:"reason" validate:"max=500"`
}

// QuickMarkRequest captures POST /attendance/quick-mark payloads.
type QuickMarkRequest struct {
	EnrollmentID  string `json:"enrollment_id" validate:"required"`
	SessionNumber int    `json:"session_number" validate:"required,min=1"`
	SessionDate   string `json:"session_date" validate:"required,ymd"`
	Token         string `json:"token" validate:"required,max=16"`
	Note          string `json:"note" validate:"max=500"`
}

// QuickMarkResponse reports the effect of a quick mark.
type QuickMarkResponse struct {
	Outcome string             `json:"outcome"`
	Display string             `json:"display"`
	Record  *models.Attendance `json:"record"`
}

// Quick mark outcomes.
const (
	QuickMarkCreated   = "created"
	QuickMarkUpdated   = "updated"
	QuickMarkUnchanged = "unchanged"
)
