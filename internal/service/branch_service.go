package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/database"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type branchRepository interface {
	List(ctx context.Context) ([]models.Branch, error)
	FindByID(ctx context.Context, id string) (*models.Branch, error)
	Create(ctx context.Context, branch *models.Branch) error
	Update(ctx context.Context, branch *models.Branch) error
	Delete(ctx context.Context, id string) error
	HasDependents(ctx context.Context, id string) (bool, error)
}

// BranchService manages school branches.
type BranchService struct {
	repo      branchRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBranchService constructs the branch service.
func NewBranchService(repo branchRepository, validate *validator.Validate, logger *zap.Logger) *BranchService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BranchService{repo: repo, validator: validate, logger: logger}
}

// List returns every branch ordered by name.
func (s *BranchService) List(ctx context.Context) ([]models.Branch, error) {
	branches, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to list branches")
	}
	return branches, nil
}

// Get returns a single branch.
func (s *BranchService) Get(ctx context.Context, id string) (*models.Branch, error) {
	branch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "branch not found", "failed to load branch")
	}
	return branch, nil
}

// Create registers a branch.
func (s *BranchService) Create(ctx context.Context, req dto.BranchRequest) (*models.Branch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailed(err, "invalid branch payload")
	}
	branch := &models.Branch{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		Email:    req.Email,
		Location: req.Location,
	}
	if err := s.repo.Create(ctx, branch); err != nil {
		return nil, appErrors.Storage(err, "failed to create branch")
	}
	return branch, nil
}

// Update replaces the mutable branch fields.
func (s *BranchService) Update(ctx context.Context, id string, req dto.BranchRequest) (*models.Branch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailed(err, "invalid branch payload")
	}
	branch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	branch.Name = req.Name
	branch.Address = req.Address
	branch.Phone = req.Phone
	branch.Email = req.Email
	branch.Location = req.Location
	if err := s.repo.Update(ctx, branch); err != nil {
		return nil, appErrors.Storage(err, "failed to update branch")
	}
	return branch, nil
}

// Delete removes a branch nothing references.
func (s *BranchService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	inUse, err := s.repo.HasDependents(ctx, id)
	if err != nil {
		return appErrors.Storage(err, "failed to check branch usage")
	}
	if inUse {
		return appErrors.Clone(appErrors.ErrConflict, "branch still has programs, classes or students")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if database.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "branch still has programs, classes or students")
		}
		return appErrors.Storage(err, "failed to delete branch")
	}
	s.logger.Info("branch deleted", zap.String("branch_id", id))
	return nil
}
