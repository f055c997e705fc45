package letters

import (
	"reflect"
	"testing"

	"github.com/yalev/strokelab/internal/model"
)

func TestFromAssigned(t *testing.T) {
	starts := []int{0, 5, 9}
	assigned := map[int]string{9: "ל", 0: "ש", 5: ""}
	got := FromAssigned(assigned, starts)
	want := []model.Letter{
		{Char: "ש", StrokeIDs: []int{0}},
		{Char: "", StrokeIDs: []int{1}},
		{Char: "ל", StrokeIDs: []int{2}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestToAssigned(t *testing.T) {
	starts := []int{0, 5, 9}
	ls := []model.Letter{
		{Char: "ש", StrokeIDs: []int{0}},
		{Char: "ל", StrokeIDs: []int{2, 1}}, // multi-stroke, unsorted ids
		{Char: "ם", StrokeIDs: nil},         // no strokes: dropped
	}
	got := ToAssigned(ls, starts)
	want := map[int]string{0: "ש", 5: "ל"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRoundTripSingleStroke(t *testing.T) {
	starts := []int{0, 5, 9}
	assigned := map[int]string{0: "ש", 5: "", 9: "ל"}
	back := ToAssigned(FromAssigned(assigned, starts), starts)
	if !reflect.DeepEqual(back, assigned) {
		t.Fatalf("round trip changed map: %v -> %v", assigned, back)
	}
}

func TestAssignEvictsOverlap(t *testing.T) {
	w := &model.Word{Letters: []model.Letter{
		{Char: "ש", StrokeIDs: []int{0, 1}},
		{Char: "ל", StrokeIDs: []int{2}},
	}}
	Assign(w, []int{1}, "ו")
	if len(w.Letters) != 2 {
		t.Fatalf("expected evicted overlap, got %+v", w.Letters)
	}
	if w.Letters[0].Char != "ו" || w.Letters[0].StrokeIDs[0] != 1 {
		t.Fatalf("new letter not first by stroke order: %+v", w.Letters)
	}
	if w.Letters[1].Char != "ל" {
		t.Fatalf("non-overlapping letter lost: %+v", w.Letters)
	}
}

func TestAssignSortsStrokeIDs(t *testing.T) {
	w := &model.Word{}
	Assign(w, []int{3, 1, 2}, "ש")
	if !reflect.DeepEqual(w.Letters[0].StrokeIDs, []int{1, 2, 3}) {
		t.Fatalf("stroke ids not sorted: %v", w.Letters[0].StrokeIDs)
	}
}

func TestAssignBlocker(t *testing.T) {
	w := &model.Word{}
	Assign(w, []int{0}, "")
	if len(w.Letters) != 1 || !w.Letters[0].IsBlocker() {
		t.Fatalf("expected a blocker letter, got %+v", w.Letters)
	}
}

func TestUnassign(t *testing.T) {
	w := &model.Word{Letters: []model.Letter{
		{Char: "ש", StrokeIDs: []int{0}},
		{Char: "ל", StrokeIDs: []int{1, 2}},
	}}
	Unassign(w, []int{2})
	if len(w.Letters) != 1 || w.Letters[0].Char != "ש" {
		t.Fatalf("unassign kept wrong letters: %+v", w.Letters)
	}
}

func TestSegments(t *testing.T) {
	assigned := map[int]string{0: "ש", 4: "ל", 7: "ם"}
	got := Segments(assigned, 12)
	want := []Segment{
		{Char: "ש", FirstEvent: 0, LastEvent: 3},
		{Char: "ל", FirstEvent: 4, LastEvent: 6},
		{Char: "ם", FirstEvent: 7, LastEvent: 11},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSegmentsEmpty(t *testing.T) {
	if got := Segments(nil, 10); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
