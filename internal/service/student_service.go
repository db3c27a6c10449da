package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/database"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

const studentCodeAttempts = 5

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type studentEnrollmentChecker interface {
	ExistsForStudent(ctx context.Context, studentID string) (bool, error)
}

// StudentService handles admission and student record use-cases.
type StudentService struct {
	repo        studentRepository
	enrollments studentEnrollmentChecker
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, enrollments studentEnrollmentChecker, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, enrollments: enrollments, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Storage(err, "failed to list students")
	}
	return students, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns a student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	return student, nil
}

// Create admits a new student. A student code is generated when none is given.
func (s *StudentService) Create(ctx context.Context, req dto.StudentRequest, actor string) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailed(err, "invalid student payload")
	}
	student := &models.Student{CreatedBy: actor}
	if err := s.apply(student, req, actor); err != nil {
		return nil, err
	}

	if student.StudentCode == "" {
		code, err := s.generateCode(ctx)
		if err != nil {
			return nil, err
		}
		student.StudentCode = code
	} else if err := s.ensureCodeFree(ctx, student.StudentCode, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, student); err != nil {
		if database.IsUniqueViolation(err, "students_student_code_key") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student_code already used")
		}
		return nil, appErrors.Storage(err, "failed to create student")
	}
	s.invalidate(ctx, student.Insurance != nil)
	s.logger.Info("student admitted", zap.String("student_id", student.ID), zap.String("student_code", student.StudentCode), zap.String("actor", actor))
	return student, nil
}

// Update replaces the student's mutable fields. Creation metadata is preserved.
func (s *StudentService) Update(ctx context.Context, id string, req dto.StudentRequest, actor string) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailed(err, "invalid student payload")
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	hadInsurance := student.Insurance != nil
	code := student.StudentCode
	if err := s.apply(student, req, actor); err != nil {
		return nil, err
	}
	if student.StudentCode == "" {
		student.StudentCode = code
	}
	if student.StudentCode != code {
		if err := s.ensureCodeFree(ctx, student.StudentCode, id); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, student); err != nil {
		if database.IsUniqueViolation(err, "students_student_code_key") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student_code already used")
		}
		return nil, appErrors.Storage(err, "failed to update student")
	}
	s.invalidate(ctx, hadInsurance || student.Insurance != nil)
	return student, nil
}

// Delete removes a student without enrollments.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	student, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	enrolled, err := s.enrollments.ExistsForStudent(ctx, id)
	if err != nil {
		return appErrors.Storage(err, "failed to check student enrollments")
	}
	if enrolled {
		return appErrors.Clone(appErrors.ErrConflict, "student has enrollments")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if database.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "student has enrollments")
		}
		return appErrors.Storage(err, "failed to delete student")
	}
	s.invalidate(ctx, student.Insurance != nil)
	return nil
}

func (s *StudentService) apply(student *models.Student, req dto.StudentRequest, actor string) error {
	student.StudentCode = req.StudentCode
	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.Gender = req.Gender
	student.DateOfBirth = parseOptionalDate(req.DateOfBirth)
	student.PlaceOfBirth = req.PlaceOfBirth
	student.Nationality = req.Nationality
	student.BranchID = req.BranchID
	student.Address = req.Address
	student.Phone = req.Phone
	student.Email = req.Email
	student.Status = req.Status
	if student.Status == "" {
		student.Status = models.StudentStatusActive
	}
	student.AdmissionDate = parseOptionalDate(req.AdmissionDate)
	if student.AdmissionDate == nil {
		today := models.NewDate(s.now())
		student.AdmissionDate = &today
	}
	student.FatherName = req.FatherName
	student.FatherOccupation = req.FatherOccupation
	student.MotherName = req.MotherName
	student.MotherOccupation = req.MotherOccupation
	student.ParentPhone = req.ParentPhone
	student.ImageURL = req.ImageURL
	student.ModifiedBy = actor

	student.Insurance = nil
	if req.Insurance != nil {
		info := &models.InsuranceInfo{
			Provider:       req.Insurance.Provider,
			PolicyNumber:   req.Insurance.PolicyNumber,
			Type:           req.Insurance.Type,
			CoverageAmount: amountOf(req.Insurance.CoverageAmount),
			StartDate:      parseOptionalDate(req.Insurance.StartDate),
			EndDate:        parseOptionalDate(req.Insurance.EndDate),
		}
		if err := nonNegative("coverage_amount", info.CoverageAmount); err != nil {
			return err
		}
		if info.StartDate != nil && info.EndDate != nil && info.EndDate.Before(info.StartDate.Time) {
			return appErrors.Clone(appErrors.ErrValidation, "insurance end_date must not precede start_date")
		}
		student.Insurance = info
	}
	return nil
}

func (s *StudentService) ensureCodeFree(ctx context.Context, code, excludeID string) error {
	exists, err := s.repo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return appErrors.Storage(err, "failed to validate student_code")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "student_code already used")
	}
	return nil
}

// generateCode derives STU-nnnnnn from the clock, probing forward on collision.
func (s *StudentService) generateCode(ctx context.Context) (string, error) {
	seed := s.now().UnixMilli() % 1000000
	for i := int64(0); i < studentCodeAttempts; i++ {
		code := fmt.Sprintf("STU-%06d", (seed+i)%1000000)
		exists, err := s.repo.ExistsByCode(ctx, code, "")
		if err != nil {
			return "", appErrors.Storage(err, "failed to validate student_code")
		}
		if !exists {
			return code, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrConflict, "could not allocate a student_code, supply one explicitly")
}

func (s *StudentService) invalidate(ctx context.Context, insurance bool) {
	patterns := []string{dashboardCachePattern}
	if insurance {
		patterns = append(patterns, insuranceCachePattern)
	}
	_ = s.cache.Invalidate(ctx, patterns...)
}
