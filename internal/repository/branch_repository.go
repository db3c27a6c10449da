package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

const branchColumns = `id, name, address, phone, email, location, created_at, updated_at`

// BranchRepository persists school branches.
type BranchRepository struct {
	db *sqlx.DB
}

// NewBranchRepository constructs a BranchRepository.
func NewBranchRepository(db *sqlx.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

// List returns every branch ordered by name.
func (r *BranchRepository) List(ctx context.Context) ([]models.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches ORDER BY name ASC`
	var branches []models.Branch
	if err := r.db.SelectContext(ctx, &branches, query); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return branches, nil
}

// FindByID fetches a branch; sql.ErrNoRows is returned unwrapped.
func (r *BranchRepository) FindByID(ctx context.Context, id string) (*models.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = $1`
	var branch models.Branch
	if err := r.db.GetContext(ctx, &branch, query, id); err != nil {
		return nil, err
	}
	return &branch, nil
}

// Create inserts a branch.
func (r *BranchRepository) Create(ctx context.Context, branch *models.Branch) error {
	if branch.ID == "" {
		branch.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	branch.CreatedAt = now
	branch.UpdatedAt = now
	const query = `INSERT INTO branches (id, name, address, phone, email, location, created_at, updated_at)
VALUES (:id, :name, :address, :phone, :email, :location, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, branch); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}

// Update overwrites the mutable branch fields.
func (r *BranchRepository) Update(ctx context.Context, branch *models.Branch) error {
	branch.UpdatedAt = time.Now().UTC()
	const query = `UPDATE branches SET name = :name, address = :address, phone = :phone, email = :email, location = :location, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, branch); err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	return nil
}

// Delete removes a branch.
func (r *BranchRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM branches WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	return nil
}

// HasDependents reports whether programs, classes or students reference the branch.
func (r *BranchRepository) HasDependents(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM programs WHERE branch_id = $1)
    OR EXISTS (SELECT 1 FROM classes WHERE branch_id = $1)
    OR EXISTS (SELECT 1 FROM students WHERE branch_id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("check branch dependents: %w", err)
	}
	return exists, nil
}
