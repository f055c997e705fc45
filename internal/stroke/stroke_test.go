package stroke

import (
	"testing"

	"github.com/yalev/strokelab/internal/model"
)

func ev(t model.EventType, x, y float64) model.PenEvent {
	return model.PenEvent{Type: t, X: x, Y: y}
}

func twoStrokes() []model.PenEvent {
	return []model.PenEvent{
		ev(model.Press, 0, 0),
		ev(model.Move, 1, 0),
		ev(model.Move, 2, 0),
		ev(model.Release, 3, 0),
		ev(model.Press, 10, 5),
		ev(model.Move, 11, 5),
		ev(model.Release, 12, 5),
	}
}

func TestIndices(t *testing.T) {
	starts, ends := Indices(twoStrokes())
	if len(starts) != 2 || starts[0] != 0 || starts[1] != 4 {
		t.Fatalf("unexpected starts: %v", starts)
	}
	if len(ends) != 2 || ends[0] != 3 || ends[1] != 6 {
		t.Fatalf("unexpected ends: %v", ends)
	}
}

func TestIndicesEmpty(t *testing.T) {
	starts, ends := Indices(nil)
	if len(starts) != 0 || len(ends) != 0 {
		t.Fatalf("expected no strokes, got %v / %v", starts, ends)
	}
}

func TestSpansZipsExcessPresses(t *testing.T) {
	events := []model.PenEvent{
		ev(model.Press, 0, 0),
		ev(model.Move, 1, 0),
		ev(model.Release, 2, 0),
		ev(model.Press, 3, 0), // never released
		ev(model.Move, 4, 0),
	}
	spans := Spans(events)
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Start != 0 || spans[0].End != 2 {
		t.Fatalf("unexpected span: %+v", spans[0])
	}
}

func TestSpansDropsInvertedPairs(t *testing.T) {
	// A stray release before the first press zips that press with an
	// earlier release; the inverted pair must be dropped, not returned.
	events := []model.PenEvent{
		ev(model.Release, 0, 0),
		ev(model.Press, 1, 0),
		ev(model.Release, 2, 0),
	}
	spans := Spans(events)
	for _, s := range spans {
		if s.End < s.Start {
			t.Fatalf("inverted span survived: %+v", s)
		}
	}
	if len(spans) != 0 {
		t.Fatalf("expected no valid spans, got %+v", spans)
	}

	// A well-formed stroke after the stray pair is still dropped by the
	// positional zip; only ordering guarantees matter here.
	events = append(events, ev(model.Press, 3, 0), ev(model.Release, 4, 0))
	for _, s := range Spans(events) {
		if s.End < s.Start {
			t.Fatalf("inverted span survived: %+v", s)
		}
	}
}

func TestBounds(t *testing.T) {
	events := []model.PenEvent{
		ev(model.Press, 3, -2),
		ev(model.Move, -1, 7),
		ev(model.Release, 5, 0),
	}
	minX, minY, maxX, maxY := Bounds(events)
	if minX != -1 || minY != -2 || maxX != 5 || maxY != 7 {
		t.Fatalf("unexpected bounds: %v %v %v %v", minX, minY, maxX, maxY)
	}
}

func TestBoundsEmpty(t *testing.T) {
	minX, minY, maxX, maxY := Bounds(nil)
	if minX != 0 || minY != 0 || maxX != 0 || maxY != 0 {
		t.Fatalf("expected zero bounds, got %v %v %v %v", minX, minY, maxX, maxY)
	}
}

func TestIDForEvent(t *testing.T) {
	starts := []int{0, 4, 9}
	cases := []struct {
		idx  int
		want int
	}{
		{0, 0},
		{3, 0},
		{4, 1},
		{8, 1},
		{9, 2},
		{100, 2},
	}
	for _, c := range cases {
		if got := IDForEvent(c.idx, starts); got != c.want {
			t.Errorf("IDForEvent(%d) = %d, want %d", c.idx, got, c.want)
		}
	}
	if got := IDForEvent(5, nil); got != 0 {
		t.Errorf("IDForEvent with no strokes = %d, want 0", got)
	}
}
