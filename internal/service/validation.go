package service

import (
	"database/sql"
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// NewValidator returns a validator with the portal's custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("payment_type", func(fl validator.FieldLevel) bool {
		return models.PaymentType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("enrollment_status", func(fl validator.FieldLevel) bool {
		return models.EnrollmentStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("student_status", func(fl validator.FieldLevel) bool {
		return models.StudentStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDate(fl.Field().String())
		return err == nil
	})
	return v
}

func validationFailed(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// lookupError maps a repository lookup failure onto NotFound or a storage error.
func lookupError(err error, notFound, failed string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Storage(err, failed)
}

// amountOf rounds an optional amount to cents; nil means zero.
func amountOf(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return d.Round(2)
}

// nonNegative rejects a negative amount, naming the offending field.
func nonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return appErrors.Clone(appErrors.ErrValidation, field+" must not be negative")
	}
	return nil
}

// parseOptionalDate parses a validated YYYY-MM-DD string; empty means nil.
func parseOptionalDate(raw string) *models.Date {
	if raw == "" {
		return nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil
	}
	return &d
}

func paginate(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return models.NewPagination(page, size, total)
}
