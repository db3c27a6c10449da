package rules

import "github.com/noah-isme/school-portal-api/internal/models"

// CanRecordAttendance decides whether a new attendance record may be created
// for sessionNumber. Rules are applied in order: the enrollment must exist,
// the session must not precede the enrollment's start session, the
// enrollment must not be on hold, and no record may exist yet for the
// session. Updates of an existing record by id do not go through this guard.
func CanRecordAttendance(enrollment *models.Enrollment, sessionNumber int, existing bool) error {
	if enrollment == nil {
		return reject(ReasonNotFound, "Enrollment not found")
	}
	if sessionNumber < enrollment.StartSession {
		return reject(ReasonBeforeStartSession, "Cannot record attendance. Student starts at session %d", enrollment.StartSession)
	}
	if enrollment.Status == models.EnrollmentStatusHold {
		return reject(ReasonEnrollmentOnHold, "Student enrollment is on Hold")
	}
	if existing {
		return reject(ReasonDuplicateSession, "Attendance already recorded for this session")
	}
	return nil
}
