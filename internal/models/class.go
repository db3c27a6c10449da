package models

import (
	"time"

	"github.com/lib/pq"
)

// Class is a scheduled group of students following one program.
type Class struct {
	ID            string         `db:"id" json:"id"`
	BranchID      string         `db:"branch_id" json:"branch_id"`
	ProgramID     string         `db:"program_id" json:"program_id"`
	ClassName     string         `db:"class_name" json:"class_name"`
	Days          pq.StringArray `db:"days" json:"days"`
	StartTime     string         `db:"start_time" json:"start_time"`
	EndTime       string         `db:"end_time" json:"end_time"`
	MaxStudents   int            `db:"max_students" json:"max_students"`
	TotalSessions int            `db:"total_sessions" json:"total_sessions"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// ClassDetail extends Class with names and the current head count.
type ClassDetail struct {
	Class
	BranchName        string `db:"branch_name" json:"branch_name"`
	ProgramName       string `db:"program_name" json:"program_name"`
	ActiveEnrollments int    `db:"active_enrollments" json:"active_enrollments"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	BranchID  string
	ProgramID string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
