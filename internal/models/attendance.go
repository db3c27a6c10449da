package models

import "time"

// AttendanceStatus is the stored attendance outcome of one session.
type AttendanceStatus string

const (
	AttendanceStatusPresent    AttendanceStatus = "Present"
	AttendanceStatusAbsent     AttendanceStatus = "Absent"
	AttendanceStatusPermission AttendanceStatus = "Permission"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusPermission:
		return true
	default:
		return false
	}
}

// MakeUpReasonPrefix marks a Present record as a make-up session.
const MakeUpReasonPrefix = "Make up: "

// Attendance is the record of one session for one enrollment.
type Attendance struct {
	ID            string           `db:"id" json:"id"`
	EnrollmentID  string           `db:"enrollment_id" json:"enrollment_id"`
	ClassID       string           `db:"class_id" json:"class_id"`
	StudentID     string           `db:"student_id" json:"student_id"`
	SessionNumber int              `db:"session_number" json:"session_number"`
	SessionDate   Date             `db:"session_date" json:"session_date"`
	Status        AttendanceStatus `db:"status" json:"status"`
	Reason        string           `db:"reason" json:"reason,omitempty"`
	RecordedAt    time.Time        `db:"recorded_at" json:"recorded_at"`
	RecordedBy    string           `db:"recorded_by" json:"recorded_by"`
}

// AttendanceFilter scopes listing queries. Page and PageSize window the
// result; both zero returns every match.
type AttendanceFilter struct {
	ClassID      string
	EnrollmentID string
	SessionDate  *Date
	Page         int
	PageSize     int
}

// Paged reports whether a result window was requested.
func (f AttendanceFilter) Paged() bool {
	return f.Page > 0 || f.PageSize > 0
}

// Empty reports whether no filter criteria were supplied.
func (f AttendanceFilter) Empty() bool {
	return f.ClassID == "" && f.EnrollmentID == "" && f.SessionDate == nil
}

// AttendanceSplit counts records per status.
type AttendanceSplit struct {
	Present    int `db:"present" json:"present"`
	Absent     int `db:"absent" json:"absent"`
	Permission int `db:"permission" json:"permission"`
}
