package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

const programColumns = `id, branch_id, name, description, total_sessions, price, created_at, updated_at`

// ProgramRepository persists programs.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository constructs a ProgramRepository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// List returns programs, optionally restricted to a branch.
func (r *ProgramRepository) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, error) {
	w := &where{}
	if filter.BranchID != "" {
		w.add("branch_id = ?", filter.BranchID)
	}
	query := fmt.Sprintf(`SELECT %s FROM programs %s ORDER BY name ASC`, programColumns, w)
	var programs []models.Program
	if err := r.db.SelectContext(ctx, &programs, query, w.args...); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// FindByID fetches a program; sql.ErrNoRows is returned unwrapped.
func (r *ProgramRepository) FindByID(ctx context.Context, id string) (*models.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE id = $1`
	var program models.Program
	if err := r.db.GetContext(ctx, &program, query, id); err != nil {
		return nil, err
	}
	return &program, nil
}

// Create inserts a program.
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now
	const query = `INSERT INTO programs (id, branch_id, name, description, total_sessions, price, created_at, updated_at)
VALUES (:id, :branch_id, :name, :description, :total_sessions, :price, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, program); err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}
