package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/service"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type reportService interface {
	AttendanceReport(ctx context.Context, classID, denominator string) (*models.AttendanceReport, bool, error)
}

type exportService interface {
	CreateJob(ctx context.Context, classID string, req dto.ExportRequest, actor string) (*dto.ExportJobResponse, error)
	GetStatus(ctx context.Context, id string, claims *models.JWTClaims) (*dto.ExportStatusResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ExportDownload, error)
}

// ReportHandler exposes attendance report and export endpoints.
type ReportHandler struct {
	reports reportService
	exports exportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports reportService, exports exportService) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

// AttendanceReport godoc
// @Summary Class attendance report
// @Tags Reports
// @Produce json
// @Param id path string true "Class ID"
// @Param denominator query string false "recorded or configured"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/attendance-report [get]
func (h *ReportHandler) AttendanceReport(c *gin.Context) {
	report, hit, err := h.reports.AttendanceReport(c.Request.Context(), c.Param("id"), strings.TrimSpace(c.Query("denominator")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil, cacheMeta(hit))
}

// CreateExport godoc
// @Summary Queue attendance report export
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body dto.ExportRequest true "Export payload"
// @Success 202 {object} response.Envelope
// @Router /classes/{id}/attendance-report/exports [post]
func (h *ReportHandler) CreateExport(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	job, err := h.exports.CreateJob(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	auditResource(c, job.ID)
	response.Accepted(c, job)
}

// ExportStatus godoc
// @Summary Export job status
// @Tags Reports
// @Produce json
// @Param id path string true "Export job ID"
// @Success 200 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ReportHandler) ExportStatus(c *gin.Context) {
	status, err := h.exports.GetStatus(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}

// Download godoc
// @Summary Download a finished export
// @Tags Reports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Router /exports/download [get]
func (h *ReportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	file, err := h.exports.ResolveDownload(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Body.Close()
	response.Stream(c, file.Filename, file.ContentType, file.Size, file.Body)
}
