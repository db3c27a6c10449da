package rules

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// FinalTotal is the amount due after discount, floored at zero.
func FinalTotal(total, discount decimal.Decimal) decimal.Decimal {
	final := total.Sub(discount)
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}

// DerivePaymentStatus classifies an enrollment as Paid or Unpaid. A free
// enrollment is always Paid; otherwise the paid amount must cover the final
// total. There is no partial state.
func DerivePaymentStatus(total, discount, paid decimal.Decimal) models.PaymentStatus {
	final := FinalTotal(total, discount)
	if final.IsZero() || paid.GreaterThanOrEqual(final) {
		return models.PaymentStatusPaid
	}
	return models.PaymentStatusUnpaid
}

// OutstandingBalance is what remains to be collected, never negative.
func OutstandingBalance(total, discount, paid decimal.Decimal) decimal.Decimal {
	due := FinalTotal(total, discount).Sub(paid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// ValidateAmounts rejects negative amounts and discounts above the total.
func ValidateAmounts(total, discount, paid decimal.Decimal) error {
	switch {
	case total.IsNegative():
		return reject(ReasonInvalidAmount, "total_amount must not be negative")
	case discount.IsNegative():
		return reject(ReasonInvalidAmount, "discount must not be negative")
	case paid.IsNegative():
		return reject(ReasonInvalidAmount, "paid_amount must not be negative")
	case discount.GreaterThan(total):
		return reject(ReasonInvalidAmount, "discount must not exceed total_amount")
	}
	return nil
}

// ApplyPayment recomputes the derived payment status of e in place.
func ApplyPayment(e *models.Enrollment) {
	e.PaymentStatus = DerivePaymentStatus(e.TotalAmount, e.Discount, e.PaidAmount)
}
