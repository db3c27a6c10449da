package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type attendanceService interface {
	Create(ctx context.Context, req dto.CreateAttendanceRequest, actor string) (*models.Attendance, error)
	Update(ctx context.Context, id string, req dto.UpdateAttendanceRequest, actor string) (*models.Attendance, error)
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error)
	QuickMark(ctx context.Context, req dto.QuickMarkRequest, actor string) (*dto.QuickMarkResponse, error)
}

// AttendanceHandler exposes attendance recording endpoints.
type AttendanceHandler struct {
	attendance attendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance attendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Create godoc
// @Summary Record attendance for a session
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.CreateAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Create(c *gin.Context) {
	var req dto.CreateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	record, err := h.attendance.Create(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	auditResource(c, record.ID)
	response.Created(c, record)
}

// Update godoc
// @Summary Update attendance record
// @Description The record id comes from the path, or from attendance_id in the body on PUT /attendance.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string false "Attendance ID"
// @Param payload body dto.UpdateAttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Router /attendance/{id} [put]
func (h *AttendanceHandler) Update(c *gin.Context) {
	var req dto.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	id := c.Param("id")
	if id == "" {
		id = strings.TrimSpace(req.AttendanceID)
	}
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "attendance id is required"))
		return
	}
	record, err := h.attendance.Update(c.Request.Context(), id, req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param classId query string false "Filter by class"
// @Param enrollmentId query string false "Filter by enrollment"
// @Param sessionDate query string false "Session date (YYYY-MM-DD)"
// @Param page query int false "Page, applied when page or limit is set or no filter is given"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	filter := models.AttendanceFilter{
		ClassID:      strings.TrimSpace(c.Query("classId")),
		EnrollmentID: strings.TrimSpace(c.Query("enrollmentId")),
	}
	if raw := strings.TrimSpace(c.Query("sessionDate")); raw != "" {
		date, err := models.ParseDate(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "sessionDate must be YYYY-MM-DD"))
			return
		}
		filter.SessionDate = &date
	}
	if c.Query("page") != "" || c.Query("limit") != "" {
		filter.Page, filter.PageSize = pageParams(c)
	}
	records, err := h.attendance.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil, map[string]interface{}{"total": len(records)})
}

// QuickMark godoc
// @Summary Mark a session with a shorthand token
// @Description Tokens: P present, A absent, L leave, M make-up (note required).
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.QuickMarkRequest true "Quick mark payload"
// @Success 200 {object} response.Envelope
// @Router /attendance/quick-mark [post]
func (h *AttendanceHandler) QuickMark(c *gin.Context) {
	var req dto.QuickMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.attendance.QuickMark(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Record != nil {
		auditResource(c, result.Record.ID)
	}
	status := http.StatusOK
	if result.Outcome == dto.QuickMarkCreated {
		status = http.StatusCreated
	}
	response.JSON(c, status, result, nil)
}
