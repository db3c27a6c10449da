package rules

import "github.com/noah-isme/school-portal-api/internal/models"

// DenominatorMode selects what a report percentage is measured against.
type DenominatorMode string

const (
	// DenominatorRecorded uses the highest session number recorded for the class.
	DenominatorRecorded DenominatorMode = "recorded"
	// DenominatorConfigured uses the class's configured total sessions.
	DenominatorConfigured DenominatorMode = "configured"
)

// ParseDenominatorMode normalises raw, falling back to def for unknown values.
func ParseDenominatorMode(raw string, def DenominatorMode) DenominatorMode {
	switch DenominatorMode(raw) {
	case DenominatorRecorded, DenominatorConfigured:
		return DenominatorMode(raw)
	default:
		return def
	}
}

// MaxSessionNumber returns the highest session number in records.
func MaxSessionNumber(records []models.Attendance) int {
	highest := 0
	for _, r := range records {
		if r.SessionNumber > highest {
			highest = r.SessionNumber
		}
	}
	return highest
}

// Denominator resolves the session count percentages are computed against.
func Denominator(mode DenominatorMode, records []models.Attendance, totalSessions int) int {
	if mode == DenominatorConfigured && totalSessions > 0 {
		return totalSessions
	}
	return MaxSessionNumber(records)
}

// Percentage returns round(attended/denominator*100), half rounding up,
// capped at 100. A zero denominator yields zero.
func Percentage(attended, denominator int) int {
	if denominator <= 0 || attended <= 0 {
		return 0
	}
	pct := (attended*200 + denominator) / (denominator * 2)
	if pct > 100 {
		return 100
	}
	return pct
}

// GradeFor buckets a percentage.
func GradeFor(percentage int) models.AttendanceGrade {
	switch {
	case percentage >= 90:
		return models.AttendanceGradeGood
	case percentage >= 70:
		return models.AttendanceGradeWarning
	default:
		return models.AttendanceGradeCritical
	}
}

// BuildReport rolls records up per enrollment, in enrollment order.
// Present records count as presents whether or not they are make-ups;
// permissions count toward attendance, absences do not.
func BuildReport(enrollments []models.EnrollmentDetail, records []models.Attendance, denominator int) []models.StudentAttendanceStats {
	byEnrollment := make(map[string][]models.Attendance, len(enrollments))
	for _, r := range records {
		byEnrollment[r.EnrollmentID] = append(byEnrollment[r.EnrollmentID], r)
	}

	stats := make([]models.StudentAttendanceStats, 0, len(enrollments))
	for _, e := range enrollments {
		row := models.StudentAttendanceStats{
			EnrollmentID: e.ID,
			StudentID:    e.StudentID,
			StudentName:  e.StudentName,
			StudentCode:  e.StudentCode,
		}
		for _, r := range byEnrollment[e.ID] {
			row.TotalRecorded++
			switch r.Status {
			case models.AttendanceStatusPresent:
				row.Presents++
				if DisplayToken(r.Status, r.Reason) == MarkPresentMakeUp.Display() {
					row.MakeUps++
				}
			case models.AttendanceStatusAbsent:
				row.Absents++
			case models.AttendanceStatusPermission:
				row.Permissions++
			}
		}
		row.Percentage = Percentage(row.Presents+row.Permissions, denominator)
		row.Grade = GradeFor(row.Percentage)
		stats = append(stats, row)
	}
	return stats
}
