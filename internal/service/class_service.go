package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.ClassDetail, error)
	Create(ctx context.Context, class *models.Class) error
}

type programFinder interface {
	FindByID(ctx context.Context, id string) (*models.Program, error)
}

// ClassService handles class scheduling use-cases.
type ClassService struct {
	repo      classRepository
	programs  programFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs the class service.
func NewClassService(repo classRepository, programs programFinder, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, programs: programs, validator: validate, logger: logger}
}

// List returns classes with pagination metadata.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, *models.Pagination, error) {
	classes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Storage(err, "failed to list classes")
	}
	return classes, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns one class with its head count.
func (s *ClassService) Get(ctx context.Context, id string) (*models.ClassDetail, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "class not found", "failed to load class")
	}
	return class, nil
}

// Create schedules a class for a program. The session count defaults to the
// program's when not given.
func (s *ClassService) Create(ctx context.Context, req dto.CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailed(err, "invalid class payload")
	}
	if req.EndTime <= req.StartTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	program, err := s.programs.FindByID(ctx, req.ProgramID)
	if err != nil {
		return nil, lookupError(err, "program not found", "failed to load program")
	}
	if program.BranchID != req.BranchID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "program does not belong to branch")
	}

	total := program.TotalSessions
	if req.TotalSessions != nil {
		total = *req.TotalSessions
	}
	class := &models.Class{
		BranchID:      req.BranchID,
		ProgramID:     req.ProgramID,
		ClassName:     req.ClassName,
		Days:          req.Days,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		MaxStudents:   req.MaxStudents,
		TotalSessions: total,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Storage(err, "failed to create class")
	}
	return class, nil
}
