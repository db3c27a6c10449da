package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

const studentColumns = `id, student_code, first_name, last_name, gender, date_of_birth, place_of_birth, nationality,
    branch_id, address, phone, email, status, admission_date, father_name, father_occupation, mother_name,
    mother_occupation, parent_phone, image_url, insurance_info, created_at, created_by, modified_at, modified_by`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	w := &where{}
	if filter.BranchID != "" {
		w.add("branch_id = ?", filter.BranchID)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.Search != "" {
		w.add("(LOWER(first_name || ' ' || last_name) LIKE ? OR LOWER(student_code) LIKE ?)", "%"+strings.ToLower(filter.Search)+"%")
	}

	order := orderBy(map[string]string{
		"first_name":   "first_name",
		"student_code": "student_code",
		"created_at":   "created_at",
	}, filter.SortBy, "created_at", filter.SortOrder, "DESC")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s FROM students %s ORDER BY %s LIMIT %d OFFSET %d", studentColumns, w, order, limit, offset)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, w.args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM students %s", w), w.args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// ListInsured returns every student carrying an insurance block.
func (r *StudentRepository) ListInsured(ctx context.Context) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE insurance_info IS NOT NULL ORDER BY first_name ASC", studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list insured students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student; sql.ErrNoRows is returned unwrapped.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := r.db.GetContext(ctx, &student, fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns), id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByCode checks if a student code is taken, optionally excluding an ID.
func (r *StudentRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE student_code = $1"
	args := []interface{}{code}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check student code: %w", err)
	}
	return true, nil
}

// Count returns the number of students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM students"); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	student.CreatedAt = now
	student.ModifiedAt = now
	const query = `INSERT INTO students (id, student_code, first_name, last_name, gender, date_of_birth, place_of_birth, nationality,
    branch_id, address, phone, email, status, admission_date, father_name, father_occupation, mother_name,
    mother_occupation, parent_phone, image_url, insurance_info, created_at, created_by, modified_at, modified_by)
VALUES (:id, :student_code, :first_name, :last_name, :gender, :date_of_birth, :place_of_birth, :nationality,
    :branch_id, :address, :phone, :email, :status, :admission_date, :father_name, :father_occupation, :mother_name,
    :mother_occupation, :parent_phone, :image_url, :insurance_info, :created_at, :created_by, :modified_at, :modified_by)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student. created_at/created_by are never touched.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.ModifiedAt = time.Now().UTC()
	const query = `UPDATE students SET student_code = :student_code, first_name = :first_name, last_name = :last_name,
    gender = :gender, date_of_birth = :date_of_birth, place_of_birth = :place_of_birth, nationality = :nationality,
    branch_id = :branch_id, address = :address, phone = :phone, email = :email, status = :status,
    admission_date = :admission_date, father_name = :father_name, father_occupation = :father_occupation,
    mother_name = :mother_name, mother_occupation = :mother_occupation, parent_phone = :parent_phone,
    image_url = :image_url, insurance_info = :insurance_info, modified_at = :modified_at, modified_by = :modified_by
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
