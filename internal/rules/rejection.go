package rules

import (
	"errors"
	"fmt"

	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

// Reason identifies the rule that refused an operation.
type Reason string

const (
	ReasonNotFound           Reason = "NOT_FOUND"
	ReasonBeforeStartSession Reason = "BEFORE_START_SESSION"
	ReasonEnrollmentOnHold   Reason = "ENROLLMENT_ON_HOLD"
	ReasonDuplicateSession   Reason = "DUPLICATE_SESSION"
	ReasonInvalidAmount      Reason = "INVALID_AMOUNT"
	ReasonInvalidToken       Reason = "INVALID_TOKEN"
	ReasonNoteRequired       Reason = "NOTE_REQUIRED"
)

// Rejection is returned when a rule refuses an operation.
type Rejection struct {
	Reason  Reason
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

func reject(reason Reason, format string, args ...interface{}) *Rejection {
	return &Rejection{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the rejection reason from err, if any.
func ReasonOf(err error) (Reason, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}

// AsAppError maps a rejection onto the API error taxonomy. Other errors are
// returned unchanged.
func AsAppError(err error) error {
	var rej *Rejection
	if !errors.As(err, &rej) {
		return err
	}
	switch rej.Reason {
	case ReasonNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, rej.Message)
	case ReasonDuplicateSession:
		return appErrors.Clone(appErrors.ErrConflict, rej.Message)
	case ReasonBeforeStartSession, ReasonEnrollmentOnHold:
		return appErrors.RuleViolation(string(rej.Reason), rej.Message)
	default:
		return appErrors.Clone(appErrors.ErrValidation, rej.Message)
	}
}
