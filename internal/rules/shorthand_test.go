package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
)

func TestParseToken(t *testing.T) {
	cases := map[string]MarkKind{
		"p":          MarkPresent,
		" Present ":  MarkPresent,
		"absent":     MarkAbsent,
		"a":          MarkAbsent,
		"l":          MarkPermission,
		"leave":      MarkPermission,
		"permission": MarkPresent,
		"PERMISSION": MarkPresent,
		"m":          MarkPresentMakeUp,
		"makeup":     MarkPresentMakeUp,
		"Make-up 3":  MarkPresentMakeUp,
		"pres":       MarkPresent,
	}
	for input, want := range cases {
		got, ok := ParseToken(input)
		require.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"", "   ", "xyz", "1", "?"} {
		_, ok := ParseToken(input)
		assert.False(t, ok, input)
	}
}

func TestMarkEncodeDecode(t *testing.T) {
	status, reason := MakeUp("Recovering 12/05").Encode()
	assert.Equal(t, models.AttendanceStatusPresent, status)
	assert.Equal(t, "Make up: Recovering 12/05", reason)

	mark, err := DecodeMark(status, reason)
	require.NoError(t, err)
	assert.Equal(t, MakeUp("Recovering 12/05"), mark)

	mark, err = DecodeMark(models.AttendanceStatusAbsent, "sick")
	require.NoError(t, err)
	assert.Equal(t, Mark{Kind: MarkAbsent, Note: "sick"}, mark)

	_, err = DecodeMark("Late", "")
	assert.Error(t, err)
}

func TestDisplayToken(t *testing.T) {
	assert.Equal(t, "P", DisplayToken(models.AttendanceStatusPresent, ""))
	assert.Equal(t, "M", DisplayToken(models.AttendanceStatusPresent, "Make up: week 3"))
	assert.Equal(t, "A", DisplayToken(models.AttendanceStatusAbsent, "Make up: ignored"))
	assert.Equal(t, "L", DisplayToken(models.AttendanceStatusPermission, ""))
	assert.Equal(t, "", DisplayToken("Unknown", ""))
}

func TestCellSingleLetterGoesPending(t *testing.T) {
	cell := NewCell(nil)
	cell.Type("p")
	assert.Equal(t, CellEditing, cell.State())

	require.Equal(t, OutcomePending, cell.Commit())
	assert.Equal(t, "P", cell.Value())
	pending, ok := cell.Pending()
	require.True(t, ok)
	assert.Equal(t, Change{Status: models.AttendanceStatusPresent}, pending)

	change, ok := cell.Save()
	require.True(t, ok)
	assert.Equal(t, models.AttendanceStatusPresent, change.Status)
	assert.Equal(t, CellIdle, cell.State())
	assert.Equal(t, "P", cell.Value())

	_, ok = cell.Save()
	assert.False(t, ok)
}

func TestCellAbsentWord(t *testing.T) {
	cell := NewCell(&Mark{Kind: MarkPresent})
	cell.Type("absent")
	require.Equal(t, OutcomePending, cell.Commit())
	assert.Equal(t, "A", cell.Value())

	change, ok := cell.Save()
	require.True(t, ok)
	assert.Equal(t, Change{Status: models.AttendanceStatusAbsent}, change)
}

func TestCellCancelRevertsToSaved(t *testing.T) {
	cell := NewCell(&Mark{Kind: MarkPermission})
	cell.Type("a")
	require.Equal(t, OutcomePending, cell.Commit())

	cell.Cancel()
	assert.Equal(t, CellIdle, cell.State())
	assert.Equal(t, "L", cell.Value())
	_, ok := cell.Pending()
	assert.False(t, ok)
}

func TestCellUnrecognisedTokenReverts(t *testing.T) {
	cell := NewCell(&Mark{Kind: MarkAbsent})
	cell.Type("xyz")
	assert.Equal(t, OutcomeReverted, cell.Commit())
	assert.Equal(t, CellIdle, cell.State())
	assert.Equal(t, "A", cell.Value())

	cell.Type("p")
	require.Equal(t, OutcomePending, cell.Commit())
	cell.Type("??")
	assert.Equal(t, OutcomeReverted, cell.Commit())
	assert.Equal(t, CellPending, cell.State())
	assert.Equal(t, "P", cell.Value())
}

func TestCellSameAsSavedIsUnchanged(t *testing.T) {
	cell := NewCell(&Mark{Kind: MarkAbsent, Note: "sick"})
	cell.Type("absent")
	assert.Equal(t, OutcomeUnchanged, cell.Commit())
	assert.Equal(t, CellIdle, cell.State())
	assert.Equal(t, "A", cell.Value())
}

func TestCellPresentOverMakeUpIsAChange(t *testing.T) {
	cell := NewCell(&Mark{Kind: MarkPresentMakeUp, Note: "week 2"})
	assert.Equal(t, "M", cell.Value())
	cell.Type("p")
	require.Equal(t, OutcomePending, cell.Commit())
	change, ok := cell.Save()
	require.True(t, ok)
	assert.Equal(t, Change{Status: models.AttendanceStatusPresent}, change)
}

func TestCellMakeUpAwaitsNote(t *testing.T) {
	cell := NewCell(&Mark{Kind: MarkPresentMakeUp, Note: "old note"})
	cell.Type("m")
	require.Equal(t, OutcomeAwaitingNote, cell.Commit())
	assert.Equal(t, CellAwaitingNote, cell.State())
	assert.Equal(t, "old note", cell.NoteDraft())

	_, ok := cell.Pending()
	assert.False(t, ok, "make-up is not finalised before the note")
	_, ok = cell.Save()
	assert.False(t, ok)

	cell.Type("p")
	assert.Equal(t, CellAwaitingNote, cell.State())

	change, ok := cell.ConfirmNote(" Recovering class 12/05 ")
	require.True(t, ok)
	assert.Equal(t, Change{Status: models.AttendanceStatusPresent, Reason: "Make up: Recovering class 12/05"}, change)
	assert.Equal(t, "M", cell.Value())
	assert.Equal(t, CellIdle, cell.State())
}

func TestCellMakeUpCancelNote(t *testing.T) {
	cell := NewCell(&Mark{Kind: MarkAbsent})
	cell.Type("MAKEUP")
	require.Equal(t, OutcomeAwaitingNote, cell.Commit())

	cell.CancelNote()
	assert.Equal(t, CellIdle, cell.State())
	assert.Equal(t, "A", cell.Value())

	_, ok := cell.ConfirmNote("late")
	assert.False(t, ok)
}

func TestApply(t *testing.T) {
	saved := &Mark{Kind: MarkAbsent}

	change, ok, err := Apply(saved, "p", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Change{Status: models.AttendanceStatusPresent}, change)

	_, ok, err = Apply(saved, "absent", "")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = Apply(saved, "x", "")
	reason, _ := ReasonOf(err)
	assert.Equal(t, ReasonInvalidToken, reason)

	_, _, err = Apply(nil, "m", "  ")
	reason, _ = ReasonOf(err)
	assert.Equal(t, ReasonNoteRequired, reason)

	change, ok, err = Apply(nil, "m", "Sat class")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Make up: Sat class", change.Reason)

	_, ok, err = Apply(&Mark{Kind: MarkPresentMakeUp, Note: "Sat class"}, "M", "")
	require.NoError(t, err)
	assert.False(t, ok, "same make-up note is not a change")
}
