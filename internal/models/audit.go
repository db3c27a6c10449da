package models

import "time"

// Audit actions written by the audit middleware. Enrollment transitions get
// their own actions so payment and status changes can be told apart.
const (
	AuditActionCreate        = "CREATE"
	AuditActionUpdate        = "UPDATE"
	AuditActionDelete        = "DELETE"
	AuditActionUpdatePayment = "UPDATE_PAYMENT"
	AuditActionUpdateStatus  = "UPDATE_STATUS"
	AuditActionMark          = "MARK_ATTENDANCE"
	AuditActionQuickMark     = "QUICK_MARK"
	AuditActionExport        = "REQUEST_EXPORT"
)

// Audited resources.
const (
	AuditResourceBranch     = "branch"
	AuditResourceProgram    = "program"
	AuditResourceClass      = "class"
	AuditResourceStudent    = "student"
	AuditResourceEnrollment = "enrollment"
	AuditResourceAttendance = "attendance"
	AuditResourceExport     = "export"
)

// AuditLog is one row of the audit trail. ResourceID is the path id of the
// touched record, absent for collection-level writes such as quick mark.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Details    []byte    `db:"details" json:"details,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
