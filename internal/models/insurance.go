package models

import "github.com/shopspring/decimal"

// InsuranceInfo is the policy block stored on a student.
type InsuranceInfo struct {
	Provider       string          `json:"provider"`
	PolicyNumber   string          `json:"policy_number"`
	Type           string          `json:"type"`
	CoverageAmount decimal.Decimal `json:"coverage_amount"`
	StartDate      *Date           `json:"start_date,omitempty"`
	EndDate        *Date           `json:"end_date,omitempty"`
}

// InsuranceStatus is derived from the policy end date.
type InsuranceStatus string

const (
	InsuranceStatusActive   InsuranceStatus = "Active"
	InsuranceStatusExpired  InsuranceStatus = "Expired"
	InsuranceStatusExpiring InsuranceStatus = "Expiring"
)

// InsurancePolicy is the flattened view of a student's policy.
type InsurancePolicy struct {
	StudentID      string          `json:"student_id"`
	StudentCode    string          `json:"student_code"`
	StudentName    string          `json:"student_name"`
	BranchID       string          `json:"branch_id"`
	Provider       string          `json:"provider"`
	PolicyNumber   string          `json:"policy_number"`
	Type           string          `json:"type"`
	CoverageAmount decimal.Decimal `json:"coverage_amount"`
	StartDate      *Date           `json:"start_date,omitempty"`
	EndDate        *Date           `json:"end_date,omitempty"`
	Status         InsuranceStatus `json:"status"`
	ExpiringSoon   bool            `json:"expiring_soon"`
	DaysRemaining  int             `json:"days_remaining"`
}

// InsuranceFilter narrows policy listings. Status accepts Active, Expired or Expiring.
type InsuranceFilter struct {
	Status InsuranceStatus
	Search string
}

// InsuranceStats aggregates policy counts.
type InsuranceStats struct {
	Total         int             `json:"total"`
	Active        int             `json:"active"`
	Expired       int             `json:"expired"`
	ExpiringSoon  int             `json:"expiring_soon"`
	TotalCoverage decimal.Decimal `json:"total_coverage"`
}
