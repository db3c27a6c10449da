package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

const classDetailSelect = `SELECT c.id, c.branch_id, c.program_id, c.class_name, c.days, c.start_time, c.end_time,
    c.max_students, c.total_sessions, c.created_at, c.updated_at,
    COALESCE(b.name, '') AS branch_name, COALESCE(p.name, '') AS program_name,
    (SELECT COUNT(*) FROM enrollments e WHERE e.class_id = c.id AND e.enrollment_status = 'Active') AS active_enrollments
FROM classes c
LEFT JOIN branches b ON b.id = c.branch_id
LEFT JOIN programs p ON p.id = c.program_id`

// ClassRepository manages class persistence.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes with branch/program names and head counts.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, int, error) {
	w := &where{}
	if filter.BranchID != "" {
		w.add("c.branch_id = ?", filter.BranchID)
	}
	if filter.ProgramID != "" {
		w.add("c.program_id = ?", filter.ProgramID)
	}
	if filter.Search != "" {
		w.add("c.class_name ILIKE ?", "%"+filter.Search+"%")
	}

	order := orderBy(map[string]string{
		"class_name": "c.class_name",
		"created_at": "c.created_at",
	}, filter.SortBy, "class_name", filter.SortOrder, "ASC")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("%s %s ORDER BY %s LIMIT %d OFFSET %d", classDetailSelect, w, order, limit, offset)
	var classes []models.ClassDetail
	if err := r.db.SelectContext(ctx, &classes, query, w.args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM classes c %s", w), w.args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}
	return classes, total, nil
}

// FindByID fetches a class detail; sql.ErrNoRows is returned unwrapped.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.ClassDetail, error) {
	var class models.ClassDetail
	if err := r.db.GetContext(ctx, &class, classDetailSelect+" WHERE c.id = $1", id); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now
	const query = `INSERT INTO classes (id, branch_id, program_id, class_name, days, start_time, end_time, max_students, total_sessions, created_at, updated_at)
VALUES (:id, :branch_id, :program_id, :class_name, :days, :start_time, :end_time, :max_students, :total_sessions, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}
