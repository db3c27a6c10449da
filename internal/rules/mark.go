package rules

import (
	"fmt"
	"strings"

	"github.com/noah-isme/school-portal-api/internal/models"
)

const makeUpMarker = "Make up"

// MarkKind is the attendance outcome as the rules see it. A make-up session
// is its own kind even though it is stored as Present.
type MarkKind int

const (
	MarkUnknown MarkKind = iota
	MarkPresent
	MarkPresentMakeUp
	MarkAbsent
	MarkPermission
)

// NeedsNote reports whether the kind cannot be finalised without a note.
func (k MarkKind) NeedsNote() bool {
	return k == MarkPresentMakeUp
}

// Display is the one-letter token shown for the kind.
func (k MarkKind) Display() string {
	switch k {
	case MarkPresent:
		return "P"
	case MarkPresentMakeUp:
		return "M"
	case MarkAbsent:
		return "A"
	case MarkPermission:
		return "L"
	default:
		return ""
	}
}

// Mark is a resolved attendance outcome. Note carries the make-up note for
// MarkPresentMakeUp and the free-text reason for the other kinds.
type Mark struct {
	Kind MarkKind
	Note string
}

// MakeUp builds a make-up mark.
func MakeUp(note string) Mark {
	return Mark{Kind: MarkPresentMakeUp, Note: note}
}

// Encode flattens the mark into the stored {status, reason} pair.
func (m Mark) Encode() (models.AttendanceStatus, string) {
	switch m.Kind {
	case MarkPresentMakeUp:
		return models.AttendanceStatusPresent, models.MakeUpReasonPrefix + m.Note
	case MarkAbsent:
		return models.AttendanceStatusAbsent, m.Note
	case MarkPermission:
		return models.AttendanceStatusPermission, m.Note
	default:
		return models.AttendanceStatusPresent, m.Note
	}
}

// DecodeMark lifts a stored {status, reason} pair into a mark. A Present
// record whose reason mentions "Make up" is a make-up session.
func DecodeMark(status models.AttendanceStatus, reason string) (Mark, error) {
	switch status {
	case models.AttendanceStatusPresent:
		if strings.Contains(reason, makeUpMarker) {
			return MakeUp(strings.Replace(reason, models.MakeUpReasonPrefix, "", 1)), nil
		}
		return Mark{Kind: MarkPresent, Note: reason}, nil
	case models.AttendanceStatusAbsent:
		return Mark{Kind: MarkAbsent, Note: reason}, nil
	case models.AttendanceStatusPermission:
		return Mark{Kind: MarkPermission, Note: reason}, nil
	default:
		return Mark{}, fmt.Errorf("unknown attendance status %q", status)
	}
}

// DisplayToken maps a stored record onto its P/A/L/M token. Unknown
// statuses render as an empty cell.
func DisplayToken(status models.AttendanceStatus, reason string) string {
	mark, err := DecodeMark(status, reason)
	if err != nil {
		return ""
	}
	return mark.Kind.Display()
}
