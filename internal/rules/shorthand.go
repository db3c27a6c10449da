package rules

import (
	"strings"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// ParseToken resolves a typed shorthand token by its first letter, checked in
// the order M, P, A, L. Whole words follow the same rule, so PERMISSION reads
// as Present and LEAVE as Permission.
func ParseToken(text string) (MarkKind, bool) {
	raw := strings.ToUpper(strings.TrimSpace(text))
	switch {
	case strings.HasPrefix(raw, "M"):
		return MarkPresentMakeUp, true
	case strings.HasPrefix(raw, "P"):
		return MarkPresent, true
	case strings.HasPrefix(raw, "A"):
		return MarkAbsent, true
	case strings.HasPrefix(raw, "L"):
		return MarkPermission, true
	}
	return MarkUnknown, false
}

// CellState is the position of a Cell in its edit workflow.
type CellState int

const (
	CellIdle CellState = iota
	CellEditing
	CellPending
	CellAwaitingNote
)

func (s CellState) String() string {
	switch s {
	case CellEditing:
		return "editing"
	case CellPending:
		return "pending"
	case CellAwaitingNote:
		return "awaiting_note"
	default:
		return "idle"
	}
}

// Outcome reports what Commit did with the typed text.
type Outcome int

const (
	// OutcomeReverted means the token was not recognised and the previous
	// value was restored.
	OutcomeReverted Outcome = iota
	// OutcomeUnchanged means the token matched the saved record.
	OutcomeUnchanged
	OutcomePending
	OutcomeAwaitingNote
)

// Change is the flat record update emitted for persistence.
type Change struct {
	Status models.AttendanceStatus
	Reason string
}

func changeOf(m Mark) Change {
	status, reason := m.Encode()
	return Change{Status: status, Reason: reason}
}

// Cell is the shorthand entry workflow for one (enrollment, session) slot.
//
//	Idle -> Editing -> Pending -> Idle        (Save or Cancel)
//	Idle -> Editing -> AwaitingNote -> Idle   (ConfirmNote or CancelNote)
//
// Single-letter marks wait in Pending for an explicit Save so a stray key
// cannot overwrite history. A make-up is finalised by confirming its note.
type Cell struct {
	saved    *Mark
	original string
	value    string
	state    CellState

	restoreState CellState
	restoreValue string

	pending *Mark
	note    string
}

// NewCell starts a cell from the saved record, nil when none exists.
func NewCell(saved *Mark) *Cell {
	c := &Cell{}
	if saved != nil {
		m := *saved
		c.saved = &m
		c.original = m.Kind.Display()
	}
	c.value = c.original
	return c
}

// State returns the current workflow state.
func (c *Cell) State() CellState { return c.state }

// Value returns the text currently shown in the cell.
func (c *Cell) Value() string { return c.value }

// NoteDraft returns the prefilled note while a make-up note is awaited.
func (c *Cell) NoteDraft() string { return c.note }

// Pending returns the unsaved change, if any.
func (c *Cell) Pending() (Change, bool) {
	if c.state != CellPending || c.pending == nil {
		return Change{}, false
	}
	return changeOf(*c.pending), true
}

// Type replaces the cell text. It is ignored while a note is awaited.
func (c *Cell) Type(text string) {
	if c.state == CellAwaitingNote {
		return
	}
	if c.state != CellEditing {
		c.restoreState = c.state
		c.restoreValue = c.value
	}
	c.state = CellEditing
	c.value = text
}

// Commit resolves the typed text.
func (c *Cell) Commit() Outcome {
	switch c.state {
	case CellAwaitingNote:
		return OutcomeAwaitingNote
	case CellPending:
		return OutcomePending
	case CellIdle:
		return OutcomeUnchanged
	}

	kind, ok := ParseToken(c.value)
	if !ok {
		c.value = c.restoreValue
		c.state = c.restoreState
		return OutcomeReverted
	}

	if kind.NeedsNote() {
		c.state = CellAwaitingNote
		c.note = ""
		if c.saved != nil {
			c.note = c.saved.Note
		}
		return OutcomeAwaitingNote
	}

	if c.saved != nil && c.saved.Kind == kind {
		c.value = c.original
		c.pending = nil
		c.state = CellIdle
		return OutcomeUnchanged
	}

	mark := Mark{Kind: kind}
	c.pending = &mark
	c.value = kind.Display()
	c.state = CellPending
	return OutcomePending
}

// ConfirmNote finalises a make-up session and returns the change to persist.
func (c *Cell) ConfirmNote(note string) (Change, bool) {
	if c.state != CellAwaitingNote {
		return Change{}, false
	}
	mark := MakeUp(strings.TrimSpace(note))
	c.markSaved(mark)
	return changeOf(mark), true
}

// CancelNote abandons the make-up and restores the saved value.
func (c *Cell) CancelNote() {
	if c.state != CellAwaitingNote {
		return
	}
	c.reset()
}

// Save emits the pending change and makes it the saved value.
func (c *Cell) Save() (Change, bool) {
	if c.state != CellPending || c.pending == nil {
		return Change{}, false
	}
	mark := *c.pending
	c.markSaved(mark)
	return changeOf(mark), true
}

// Cancel drops any unsaved change and restores the saved value.
func (c *Cell) Cancel() {
	c.reset()
}

func (c *Cell) markSaved(m Mark) {
	c.saved = &m
	c.original = m.Kind.Display()
	c.value = c.original
	c.pending = nil
	c.note = ""
	c.state = CellIdle
}

func (c *Cell) reset() {
	c.value = c.original
	c.pending = nil
	c.note = ""
	c.state = CellIdle
}

// Apply runs one complete entry through a fresh cell: the token is typed and
// committed, then saved or, for a make-up, confirmed with note. An empty note
// falls back to the note of a saved make-up. It returns the change to persist
// and false when the saved record already matches.
func Apply(saved *Mark, token, note string) (Change, bool, error) {
	cell := NewCell(saved)
	cell.Type(token)
	switch cell.Commit() {
	case OutcomeReverted:
		return Change{}, false, reject(ReasonInvalidToken, "Unrecognised attendance token %q", strings.TrimSpace(token))
	case OutcomeUnchanged:
		return Change{}, false, nil
	case OutcomeAwaitingNote:
		note = strings.TrimSpace(note)
		if note == "" {
			note = cell.NoteDraft()
		}
		if note == "" {
			cell.CancelNote()
			return Change{}, false, reject(ReasonNoteRequired, "A note is required for a make-up session")
		}
		if saved != nil && saved.Kind == MarkPresentMakeUp && saved.Note == note {
			cell.CancelNote()
			return Change{}, false, nil
		}
		change, ok := cell.ConfirmNote(note)
		return change, ok, nil
	default:
		change, ok := cell.Save()
		return change, ok, nil
	}
}
