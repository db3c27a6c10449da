package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type programRepository interface {
	List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, error)
	FindByID(ctx context.Context, id string) (*models.Program, error)
	Create(ctx context.Context, program *models.Program) error
}

type branchFinder interface {
	FindByID(ctx context.Context, id string) (*models.Branch, error)
}

// ProgramService manages course programs offered by branches.
type ProgramService struct {
	repo      programRepository
	branches  branchFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgramService constructs the program service.
func NewProgramService(repo programRepository, branches branchFinder, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, branches: branches, validator: validate, logger: logger}
}

// List returns programs, optionally scoped to a branch.
func (s *ProgramService) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, error) {
	programs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to list programs")
	}
	return programs, nil
}

// Create registers a program under an existing branch.
func (s *ProgramService) Create(ctx context.Context, req dto.CreateProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailed(err, "invalid program payload")
	}
	if _, err := s.branches.FindByID(ctx, req.BranchID); err != nil {
		return nil, lookupError(err, "branch not found", "failed to load branch")
	}
	program := &models.Program{
		BranchID:      req.BranchID,
		Name:          req.Name,
		Description:   req.Description,
		TotalSessions: req.TotalSessions,
		Price:         amountOf(req.Price),
	}
	if err := nonNegative("price", program.Price); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, program); err != nil {
		return nil, appErrors.Storage(err, "failed to create program")
	}
	return program, nil
}
