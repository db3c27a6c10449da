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

const enrollmentColumns = `e.id, e.student_id, e.class_id, e.term, e.start_session, e.total_amount, e.discount, e.paid_amount,
    e.payment_status, e.payment_type, e.payment_expired, e.enrollment_status, e.enrolled_at, e.created_by, e.updated_at, e.updated_by`

const enrollmentDetailSelect = `SELECT ` + enrollmentColumns + `,
    COALESCE(TRIM(s.first_name || ' ' || s.last_name), '') AS student_name, COALESCE(s.student_code, '') AS student_code,
    COALESCE(c.class_name, '') AS class_name
FROM enrollments e
LEFT JOIN students s ON s.id = e.student_id
LEFT JOIN classes c ON c.id = e.class_id`

// EnrollmentRepository handles persistence for enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollment details matching filter.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	w := &where{}
	if filter.StudentID != "" {
		w.add("e.student_id = ?", filter.StudentID)
	}
	if filter.ClassID != "" {
		w.add("e.class_id = ?", filter.ClassID)
	}
	if filter.Status != "" {
		w.add("e.enrollment_status = ?", filter.Status)
	}

	order := orderBy(map[string]string{
		"enrolled_at":  "e.enrolled_at",
		"student_name": "student_name",
		"start":        "e.start_session",
	}, filter.SortBy, "enrolled_at", filter.SortOrder, "DESC")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("%s %s ORDER BY %s LIMIT %d OFFSET %d", enrollmentDetailSelect, w, order, limit, offset)
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, w.args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM enrollments e %s", w), w.args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// ListByClass returns every enrollment of a class ordered by student name.
func (r *EnrollmentRepository) ListByClass(ctx context.Context, classID string) ([]models.EnrollmentDetail, error) {
	query := enrollmentDetailSelect + " WHERE e.class_id = $1 ORDER BY student_name ASC, e.enrolled_at ASC"
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, classID); err != nil {
		return nil, fmt.Errorf("list class enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByID fetches an enrollment; sql.ErrNoRows is returned unwrapped.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	query := "SELECT " + enrollmentColumns + " FROM enrollments e WHERE e.id = $1"
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindDetailByID fetches an enrollment with student and class names.
func (r *EnrollmentRepository) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, enrollmentDetailSelect+" WHERE e.id = $1", id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CountActiveByClass counts Active enrollments of a class.
func (r *EnrollmentRepository) CountActiveByClass(ctx context.Context, classID string) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM enrollments WHERE class_id = $1 AND enrollment_status = $2"
	if err := r.db.GetContext(ctx, &count, query, classID, models.EnrollmentStatusActive); err != nil {
		return 0, fmt.Errorf("count class enrollments: %w", err)
	}
	return count, nil
}

// ExistsForStudent reports whether any enrollment references the student.
func (r *EnrollmentRepository) ExistsForStudent(ctx context.Context, studentID string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM enrollments WHERE student_id = $1 LIMIT 1", studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check student enrollments: %w", err)
	}
	return true, nil
}

// Create inserts a new enrollment.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = now
	}
	enrollment.UpdatedAt = now
	const query = `INSERT INTO enrollments (id, student_id, class_id, term, start_session, total_amount, discount, paid_amount,
    payment_status, payment_type, payment_expired, enrollment_status, enrolled_at, created_by, updated_at, updated_by)
VALUES (:id, :student_id, :class_id, :term, :start_session, :total_amount, :discount, :paid_amount,
    :payment_status, :payment_type, :payment_expired, :enrollment_status, :enrolled_at, :created_by, :updated_at, :updated_by)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// UpdatePayment persists the amounts together with the derived payment status.
func (r *EnrollmentRepository) UpdatePayment(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE enrollments SET total_amount = :total_amount, discount = :discount, paid_amount = :paid_amount,
    payment_status = :payment_status, payment_type = :payment_type, payment_expired = :payment_expired,
    updated_at = :updated_at, updated_by = :updated_by
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("update enrollment payment: %w", err)
	}
	return nil
}

// UpdateStatus changes the enrollment lifecycle status.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus, actor string) error {
	query := "UPDATE enrollments SET enrollment_status = $1, updated_at = $2, updated_by = $3 WHERE id = $4"
	if _, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), actor, id); err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	return nil
}

// Delete removes an enrollment. With cascade the attendance records of the
// enrollment are deleted in the same transaction; without it the foreign key
// refuses the delete while records exist.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string, cascade bool) (int64, error) {
	var removed int64
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if cascade {
			res, err := tx.ExecContext(ctx, "DELETE FROM attendance WHERE enrollment_id = $1", id)
			if err != nil {
				return fmt.Errorf("delete enrollment attendance: %w", err)
			}
			removed, _ = res.RowsAffected()
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM enrollments WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("delete enrollment: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Totals aggregates the dashboard enrollment figures.
func (r *EnrollmentRepository) Totals(ctx context.Context) (*models.EnrollmentTotals, error) {
	const query = `SELECT
    COUNT(*) FILTER (WHERE enrollment_status = 'Active') AS active,
    COUNT(*) FILTER (WHERE payment_status = 'Unpaid' AND enrollment_status <> 'Dropped') AS unpaid,
    COALESCE(SUM(GREATEST(GREATEST(total_amount - discount, 0) - paid_amount, 0)) FILTER (WHERE enrollment_status <> 'Dropped'), 0) AS outstanding,
    COALESCE(SUM(paid_amount), 0) AS collected
FROM enrollments`
	var totals models.EnrollmentTotals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("enrollment totals: %w", err)
	}
	return &totals, nil
}
