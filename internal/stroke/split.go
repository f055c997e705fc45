package stroke

import (
	"errors"
	"fmt"

	"github.com/yalev/strokelab/internal/model"
)

// Split preconditions that callers can test for with errors.Is.
var (
	ErrNotMoveEvent   = errors.New("can only slice at a move event")
	ErrStrokeBoundary = errors.New("cannot slice at the edge of a stroke")
	ErrNoStroke       = errors.New("event is not inside any stroke")
)

// Split slices the stroke containing event eventIdx into two strokes by
// relabeling: the move event at eventIdx becomes the release of the first
// half and the move after it becomes the press of the second half. No
// events are inserted, so downstream event indices are unchanged and stroke
// ids after the split stroke shift by exactly one. Letter stroke-id
// bindings on the word are renumbered to match; letters on the split stroke
// stay bound to the first half.
//
// Both halves must keep at least two events, so eventIdx has to sit at
// least one move away from either edge of the stroke.
//
// Returns the id of the stroke that was split. On any precondition failure
// the word is left unmodified.
func Split(word *model.Word, eventIdx int) (int, error) {
	if eventIdx < 0 || eventIdx >= len(word.Events) {
		return 0, fmt.Errorf("event %d out of range: %w", eventIdx, ErrNoStroke)
	}
	if word.Events[eventIdx].Type != model.Move {
		return 0, ErrNotMoveEvent
	}

	// An unreleased final stroke ends at the last event of the stream.
	starts, ends := Indices(word.Events)
	splitID := -1
	var spanStart, spanEnd int
	for i, s := range starts {
		e := len(word.Events) - 1
		if i < len(ends) {
			e = ends[i]
		}
		if eventIdx >= s && eventIdx <= e {
			splitID, spanStart, spanEnd = i, s, e
			break
		}
	}
	if splitID < 0 {
		return 0, ErrNoStroke
	}
	if eventIdx == spanStart || eventIdx >= spanEnd-1 {
		return 0, ErrStrokeBoundary
	}

	word.Events[eventIdx].Type = model.Release
	word.Events[eventIdx+1].Type = model.Press

	for li := range word.Letters {
		ids := word.Letters[li].StrokeIDs
		for k, id := range ids {
			if id > splitID {
				ids[k] = id + 1
			}
		}
	}
	return splitID, nil
}
