package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type branchService interface {
	List(ctx context.Context) ([]models.Branch, error)
	Get(ctx context.Context, id string) (*models.Branch, error)
	Create(ctx context.Context, req dto.BranchRequest) (*models.Branch, error)
	Update(ctx context.Context, id string, req dto.BranchRequest) (*models.Branch, error)
	Delete(ctx context.Context, id string) error
}

type programService interface {
	List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, error)
	Create(ctx context.Context, req dto.CreateProgramRequest) (*models.Program, error)
}

type classService interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.ClassDetail, error)
	Create(ctx context.Context, req dto.CreateClassRequest) (*models.Class, error)
}

// SetupHandler exposes branch, program and class endpoints.
type SetupHandler struct {
	branches branchService
	programs programService
	classes  classService
}

// NewSetupHandler constructs SetupHandler.
func NewSetupHandler(branches branchService, programs programService, classes classService) *SetupHandler {
	return &SetupHandler{branches: branches, programs: programs, classes: classes}
}

// ListBranches godoc
// @Summary List branches
// @Tags Setup
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /branches [get]
func (h *SetupHandler) ListBranches(c *gin.Context) {
	branches, err := h.branches.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, branches)
}

// GetBranch godoc
// @Summary Get branch
// @Tags Setup
// @Produce json
// @Param id path string true "Branch ID"
// @Success 200 {object} response.Envelope
// @Router /branches/{id} [get]
func (h *SetupHandler) GetBranch(c *gin.Context) {
	branch, err := h.branches.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, branch)
}

// CreateBranch godoc
// @Summary Create branch
// @Tags Setup
// @Accept json
// @Produce json
// @Param payload body dto.BranchRequest true "Branch payload"
// @Success 201 {object} response.Envelope
// @Router /branches [post]
func (h *SetupHandler) CreateBranch(c *gin.Context) {
	var req dto.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	branch, err := h.branches.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, branch)
}

// UpdateBranch godoc
// @Summary Update branch
// @Tags Setup
// @Accept json
// @Produce json
// @Param id path string true "Branch ID"
// @Param payload body dto.BranchRequest true "Branch payload"
// @Success 200 {object} response.Envelope
// @Router /branches/{id} [put]
func (h *SetupHandler) UpdateBranch(c *gin.Context) {
	var req dto.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	branch, err := h.branches.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, branch)
}

// DeleteBranch godoc
// @Summary Delete branch
// @Tags Setup
// @Param id path string true "Branch ID"
// @Success 204
// @Router /branches/{id} [delete]
func (h *SetupHandler) DeleteBranch(c *gin.Context) {
	if err := h.branches.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListPrograms godoc
// @Summary List programs
// @Tags Setup
// @Produce json
// @Param branchId query string false "Filter by branch"
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *SetupHandler) ListPrograms(c *gin.Context) {
	programs, err := h.programs.List(c.Request.Context(), models.ProgramFilter{BranchID: strings.TrimSpace(c.Query("branchId"))})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, programs)
}

// CreateProgram godoc
// @Summary Create program
// @Tags Setup
// @Accept json
// @Produce json
// @Param payload body dto.CreateProgramRequest true "Program payload"
// @Success 201 {object} response.Envelope
// @Router /programs [post]
func (h *SetupHandler) CreateProgram(c *gin.Context) {
	var req dto.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	program, err := h.programs.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, program)
}

// ListClasses godoc
// @Summary List classes
// @Tags Setup
// @Produce json
// @Param branchId query string false "Filter by branch"
// @Param programId query string false "Filter by program"
// @Param search query string false "Search by class name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *SetupHandler) ListClasses(c *gin.Context) {
	filter := models.ClassFilter{
		BranchID:  strings.TrimSpace(c.Query("branchId")),
		ProgramID: strings.TrimSpace(c.Query("programId")),
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	filter.Page, filter.PageSize = pageParams(c)
	classes, pagination, err := h.classes.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, pagination)
}

// GetClass godoc
// @Summary Get class detail
// @Tags Setup
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id} [get]
func (h *SetupHandler) GetClass(c *gin.Context) {
	class, err := h.classes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, class)
}

// CreateClass godoc
// @Summary Create class
// @Tags Setup
// @Accept json
// @Produce json
// @Param payload body dto.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Router /classes [post]
func (h *SetupHandler) CreateClass(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	class, err := h.classes.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}
