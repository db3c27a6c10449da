package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type insuranceService interface {
	Policies(ctx context.Context, filter models.InsuranceFilter) ([]models.InsurancePolicy, error)
	Stats(ctx context.Context) (*models.InsuranceStats, error)
	CardPNG(ctx context.Context, studentID string) ([]byte, error)
}

// InsuranceHandler exposes student insurance endpoints.
type InsuranceHandler struct {
	insurance insuranceService
}

// NewInsuranceHandler constructs InsuranceHandler.
func NewInsuranceHandler(insurance insuranceService) *InsuranceHandler {
	return &InsuranceHandler{insurance: insurance}
}

// Policies godoc
// @Summary List insurance policies
// @Tags Insurance
// @Produce json
// @Param status query string false "Active, Expiring or Expired"
// @Param search query string false "Search by student, provider or policy number"
// @Success 200 {object} response.Envelope
// @Router /insurance/policies [get]
func (h *InsuranceHandler) Policies(c *gin.Context) {
	filter := models.InsuranceFilter{
		Status: models.InsuranceStatus(strings.TrimSpace(c.Query("status"))),
		Search: strings.TrimSpace(c.Query("search")),
	}
	policies, err := h.insurance.Policies(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, policies, nil, map[string]interface{}{"total": len(policies)})
}

// Stats godoc
// @Summary Insurance statistics
// @Tags Insurance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /insurance/stats [get]
func (h *InsuranceHandler) Stats(c *gin.Context) {
	stats, err := h.insurance.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// Card godoc
// @Summary Digital insurance card QR code
// @Tags Insurance
// @Produce png
// @Param studentId path string true "Student ID"
// @Success 200 {file} binary
// @Router /insurance/policies/{studentId}/card.png [get]
func (h *InsuranceHandler) Card(c *gin.Context) {
	png, err := h.insurance.CardPNG(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Image(c, "image/png", png, 300)
}
