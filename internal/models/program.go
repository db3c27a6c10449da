package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are rendered as JSON numbers rather than quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Program is a course offering with a fixed number of sessions and a price.
type Program struct {
	ID            string          `db:"id" json:"id"`
	BranchID      string          `db:"branch_id" json:"branch_id"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description"`
	TotalSessions int             `db:"total_sessions" json:"total_sessions"`
	Price         decimal.Decimal `db:"price" json:"price"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// ProgramFilter scopes program listings.
type ProgramFilter struct {
	BranchID string
}
