package models

import "time"

// AttendanceGrade buckets an attendance percentage.
type AttendanceGrade string

const (
	AttendanceGradeGood     AttendanceGrade = "Good"
	AttendanceGradeWarning  AttendanceGrade = "Warning"
	AttendanceGradeCritical AttendanceGrade = "Critical"
)

// StudentAttendanceStats summarises one enrollment within a class report.
type StudentAttendanceStats struct {
	EnrollmentID  string          `json:"enrollment_id"`
	StudentID     string          `json:"student_id"`
	StudentName   string          `json:"student_name"`
	StudentCode   string          `json:"student_code"`
	Presents      int             `json:"presents"`
	MakeUps       int             `json:"make_ups"`
	Absents       int             `json:"absents"`
	Permissions   int             `json:"permissions"`
	TotalRecorded int             `json:"total_recorded"`
	Percentage    int             `json:"percentage"`
	Grade         AttendanceGrade `json:"grade"`
}

// AttendanceReport is the class-level attendance roll-up.
type AttendanceReport struct {
	ClassID     string                   `json:"class_id"`
	ClassName   string                   `json:"class_name"`
	Denominator string                   `json:"denominator"`
	Sessions    int                      `json:"sessions"`
	GeneratedAt time.Time                `json:"generated_at"`
	Students    []StudentAttendanceStats `json:"students"`
}
