// Package letters maps target-word characters onto strokes and scores the
// resulting transcription against the target word.
package letters

import (
	"sort"

	"github.com/yalev/strokelab/internal/model"
	"github.com/yalev/strokelab/internal/stroke"
)

// FromAssigned converts the legacy assigned_letters form (event index ->
// character, keys sorted numerically) into letter objects. Each key resolves
// to the stroke containing it; blockers (empty values) are preserved.
func FromAssigned(assigned map[int]string, strokeStarts []int) []model.Letter {
	if len(assigned) == 0 {
		return nil
	}
	indices := sortedKeys(assigned)
	out := make([]model.Letter, 0, len(indices))
	for _, eventIdx := range indices {
		id := stroke.IDForEvent(eventIdx, strokeStarts)
		out = append(out, model.Letter{Char: assigned[eventIdx], StrokeIDs: []int{id}})
	}
	return out
}

// ToAssigned flattens letter objects back into the legacy event-index map.
// Each letter is keyed by the start event of its first stroke; letters with
// no strokes are dropped. Multi-stroke letters collapse to one key, so the
// round trip is lossy: the letter objects stay the source of truth and this
// map is a compatibility view only.
func ToAssigned(letters []model.Letter, strokeStarts []int) map[int]string {
	assigned := make(map[int]string)
	for _, l := range letters {
		first := l.FirstStroke()
		if first < 0 || first >= len(strokeStarts) {
			continue
		}
		assigned[strokeStarts[first]] = l.Char
	}
	return assigned
}

// Assign binds char to the given stroke ids on the word, evicting every
// existing letter that claims any of them. An empty char still creates a
// letter (a blocker). Letters are re-sorted by their first stroke id.
func Assign(word *model.Word, strokeIDs []int, char string) {
	if len(strokeIDs) == 0 {
		return
	}
	ids := append([]int(nil), strokeIDs...)
	sort.Ints(ids)
	kept := evict(word.Letters, ids)
	kept = append(kept, model.Letter{Char: char, StrokeIDs: ids})
	sortByFirstStroke(kept)
	word.Letters = kept
}

// Unassign removes every letter claiming any of the given stroke ids.
func Unassign(word *model.Word, strokeIDs []int) {
	if len(strokeIDs) == 0 {
		return
	}
	kept := evict(word.Letters, strokeIDs)
	sortByFirstStroke(kept)
	word.Letters = kept
}

func evict(letters []model.Letter, strokeIDs []int) []model.Letter {
	claimed := make(map[int]struct{}, len(strokeIDs))
	for _, id := range strokeIDs {
		claimed[id] = struct{}{}
	}
	kept := make([]model.Letter, 0, len(letters))
	for _, l := range letters {
		overlaps := false
		for _, id := range l.StrokeIDs {
			if _, ok := claimed[id]; ok {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, l)
		}
	}
	return kept
}

func sortByFirstStroke(letters []model.Letter) {
	sort.SliceStable(letters, func(i, j int) bool {
		fi, fj := letters[i].FirstStroke(), letters[j].FirstStroke()
		if fi < 0 {
			fi = int(^uint(0) >> 1)
		}
		if fj < 0 {
			fj = int(^uint(0) >> 1)
		}
		return fi < fj
	})
}

// Segment is one letter's slice of the event stream for export.
type Segment struct {
	Char       string
	FirstEvent int
	LastEvent  int
}

// Segments orders the assigned event indices and assigns each letter the
// events from its own index up to one before the next letter's index; the
// last letter runs to the end of the stream.
func Segments(assigned map[int]string, numEvents int) []Segment {
	if len(assigned) == 0 {
		return nil
	}
	indices := sortedKeys(assigned)
	segments := make([]Segment, 0, len(indices))
	for i, startIdx := range indices {
		endIdx := numEvents - 1
		if i < len(indices)-1 {
			endIdx = indices[i+1] - 1
		}
		segments = append(segments, Segment{
			Char:       assigned[startIdx],
			FirstEvent: startIdx,
			LastEvent:  endIdx,
		})
	}
	return segments
}

func sortedKeys(assigned map[int]string) []int {
	keys := make([]int, 0, len(assigned))
	for k := range assigned {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
