package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates headline counts for the admin dashboard.
type DashboardSummary struct {
	Students           int             `json:"students"`
	ActiveEnrollments  int             `json:"active_enrollments"`
	UnpaidEnrollments  int             `json:"unpaid_enrollments"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	CollectedAmount    decimal.Decimal `json:"collected_amount"`
	Today              AttendanceSplit `json:"today"`
	GeneratedAt        time.Time       `json:"generated_at"`
}
