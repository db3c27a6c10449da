package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/database"
)

// AttendanceSessionKey is the unique index guarding one record per enrollment session.
const AttendanceSessionKey = "attendance_enrollment_session_key"

// ErrDuplicateSession is returned when the enrollment already has a record for the session.
var ErrDuplicateSession = errors.New("attendance already recorded for session")

const attendanceColumns = `id, enrollment_id, class_id, student_id, session_number, session_date, status, reason, recorded_at, recorded_by`

// AttendanceRepository persists per-session attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create inserts a record. A second record for the same enrollment session
// yields ErrDuplicateSession.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attendance (` + attendanceColumns + `)
VALUES (:id, :enrollment_id, :class_id, :student_id, :session_number, :session_date, :status, :reason, :recorded_at, :recorded_by)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		if database.IsUniqueViolation(err, AttendanceSessionKey) {
			return ErrDuplicateSession
		}
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// FindByID fetches a record; sql.ErrNoRows is returned unwrapped.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.Attendance, error) {
	var record models.Attendance
	if err := r.db.GetContext(ctx, &record, "SELECT "+attendanceColumns+" FROM attendance WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindBySession fetches the record of one enrollment session; sql.ErrNoRows
// is returned unwrapped.
func (r *AttendanceRepository) FindBySession(ctx context.Context, enrollmentID string, session int) (*models.Attendance, error) {
	query := "SELECT " + attendanceColumns + " FROM attendance WHERE enrollment_id = $1 AND session_number = $2"
	var record models.Attendance
	if err := r.db.GetContext(ctx, &record, query, enrollmentID, session); err != nil {
		return nil, err
	}
	return &record, nil
}

// Exists reports whether the enrollment session has a record.
func (r *AttendanceRepository) Exists(ctx context.Context, enrollmentID string, session int) (bool, error) {
	var exists int
	query := "SELECT 1 FROM attendance WHERE enrollment_id = $1 AND session_number = $2 LIMIT 1"
	if err := r.db.GetContext(ctx, &exists, query, enrollmentID, session); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check attendance: %w", err)
	}
	return true, nil
}

// ExistsForEnrollment reports whether any record references the enrollment.
func (r *AttendanceRepository) ExistsForEnrollment(ctx context.Context, enrollmentID string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM attendance WHERE enrollment_id = $1 LIMIT 1", enrollmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment attendance: %w", err)
	}
	return true, nil
}

// UpdateMark rewrites status and reason of an existing record.
func (r *AttendanceRepository) UpdateMark(ctx context.Context, record *models.Attendance) error {
	record.RecordedAt = time.Now().UTC()
	const query = `UPDATE attendance SET status = :status, reason = :reason, session_date = :session_date,
    recorded_at = :recorded_at, recorded_by = :recorded_by
WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns records matching filter ordered by session then recording time.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error) {
	w := &where{}
	if filter.ClassID != "" {
		w.add("class_id = ?", filter.ClassID)
	}
	if filter.EnrollmentID != "" {
		w.add("enrollment_id = ?", filter.EnrollmentID)
	}
	if filter.SessionDate != nil {
		w.add("session_date = ?", *filter.SessionDate)
	}
	query := fmt.Sprintf("SELECT %s FROM attendance %s ORDER BY session_number ASC, recorded_at ASC", attendanceColumns, w)
	if filter.Paged() {
		limit, offset := pageWindow(filter.Page, filter.PageSize)
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}
	var records []models.Attendance
	if err := r.db.SelectContext(ctx, &records, query, w.args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// Split counts the records of one date per status.
func (r *AttendanceRepository) Split(ctx context.Context, day models.Date) (*models.AttendanceSplit, error) {
	const query = `SELECT
    COUNT(*) FILTER (WHERE status = 'Present') AS present,
    COUNT(*) FILTER (WHERE status = 'Absent') AS absent,
    COUNT(*) FILTER (WHERE status = 'Permission') AS permission
FROM attendance WHERE session_date = $1`
	var split models.AttendanceSplit
	if err := r.db.GetContext(ctx, &split, query, day); err != nil {
		return nil, fmt.Errorf("attendance split: %w", err)
	}
	return &split, nil
}
