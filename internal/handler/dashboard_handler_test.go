package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
)

type dashboardServiceMock struct {
	hit bool
}

func (m *dashboardServiceMock) Summary(ctx context.Context) (*models.DashboardSummary, bool, error) {
	return &models.DashboardSummary{
		Students:           40,
		ActiveEnrollments:  32,
		UnpaidEnrollments:  5,
		OutstandingBalance: decimal.RequireFromString("1250.50"),
	}, m.hit, nil
}

func TestDashboardHandlerSummary(t *testing.T) {
	h := NewDashboardHandler(&dashboardServiceMock{hit: true})
	c, w := newGinContext(http.MethodGet, "/dashboard/summary", nil)

	h.Summary(c)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, true, env.Meta["cache_hit"])
	assert.Contains(t, env.Meta, "processing_time_ms")
	assert.Contains(t, string(env.Data), `"outstanding_balance":"1250.5"`)
}

func TestDashboardHandlerWithoutService(t *testing.T) {
	h := NewDashboardHandler(nil)
	c, w := newGinContext(http.MethodGet, "/dashboard/summary", nil)

	h.Summary(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
