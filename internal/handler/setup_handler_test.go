package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type branchServiceMock struct {
	deleted string
	created dto.BranchRequest
}

func (m *branchServiceMock) List(ctx context.Context) ([]models.Branch, error) {
	return []models.Branch{{ID: "br-1", Name: "Central"}}, nil
}

func (m *branchServiceMock) Get(ctx context.Context, id string) (*models.Branch, error) {
	return &models.Branch{ID: id}, nil
}

func (m *branchServiceMock) Create(ctx context.Context, req dto.BranchRequest) (*models.Branch, error) {
	m.created = req
	return &models.Branch{ID: "br-2", Name: req.Name}, nil
}

func (m *branchServiceMock) Update(ctx context.Context, id string, req dto.BranchRequest) (*models.Branch, error) {
	return &models.Branch{ID: id, Name: req.Name}, nil
}

func (m *branchServiceMock) Delete(ctx context.Context, id string) error {
	m.deleted = id
	return nil
}

type programServiceMock struct {
	filter models.ProgramFilter
}

func (m *programServiceMock) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, error) {
	m.filter = filter
	return nil, nil
}

func (m *programServiceMock) Create(ctx context.Context, req dto.CreateProgramRequest) (*models.Program, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "branch not found")
}

type classServiceMock struct {
	filter models.ClassFilter
}

func (m *classServiceMock) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, *models.Pagination, error) {
	m.filter = filter
	return nil, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (m *classServiceMock) Get(ctx context.Context, id string) (*models.ClassDetail, error) {
	return &models.ClassDetail{}, nil
}

func (m *classServiceMock) Create(ctx context.Context, req dto.CreateClassRequest) (*models.Class, error) {
	return &models.Class{}, nil
}

func TestSetupHandlerBranchCRUD(t *testing.T) {
	branches := &branchServiceMock{}
	h := NewSetupHandler(branches, &programServiceMock{}, &classServiceMock{})

	c, w := newGinContext(http.MethodPost, "/branches", []byte(`{"name":"North"}`))
	h.CreateBranch(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "North", branches.created.Name)

	c, w = newGinContext(http.MethodDelete, "/branches/br-2", nil)
	c.AddParam("id", "br-2")
	h.DeleteBranch(c)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "br-2", branches.deleted)
}

func TestSetupHandlerProgramErrors(t *testing.T) {
	programs := &programServiceMock{}
	h := NewSetupHandler(&branchServiceMock{}, programs, &classServiceMock{})

	c, w := newGinContext(http.MethodGet, "/programs?branchId=br-1", nil)
	h.ListPrograms(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "br-1", programs.filter.BranchID)

	c, w = newGinContext(http.MethodPost, "/programs", []byte(`{"branch_id":"missing","name":"Piano","total_sessions":12,"price":"100"}`))
	h.CreateProgram(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetupHandlerListClassesDefaults(t *testing.T) {
	classes := &classServiceMock{}
	h := NewSetupHandler(&branchServiceMock{}, &programServiceMock{}, classes)

	c, w := newGinContext(http.MethodGet, "/classes?programId=prog-1&page=abc", nil)
	h.ListClasses(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "prog-1", classes.filter.ProgramID)
	assert.Equal(t, 1, classes.filter.Page)
	assert.Equal(t, 20, classes.filter.PageSize)
}
