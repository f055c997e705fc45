// Package stroke derives stroke structure from ordered pen event streams.
package stroke

import "github.com/yalev/strokelab/internal/model"

// Span is one stroke as a closed interval of event indices: Start is the
// index of the press event, End the index of the matching release.
type Span struct {
	Start int
	End   int
}

// Indices returns the parallel (starts, ends) index lists: starts[i] is the
// i-th press event, ends[i] the i-th release event, in stream order. On
// malformed streams the shorter side wins when the two are zipped; callers
// that need pairs should use Spans.
func Indices(events []model.PenEvent) (starts, ends []int) {
	for i, e := range events {
		switch e.Type {
		case model.Press:
			starts = append(starts, i)
		case model.Release:
			ends = append(ends, i)
		}
	}
	return starts, ends
}

// Spans zips press and release indices positionally into stroke spans,
// ignoring any excess presses or releases on either side. A stray release
// ahead of its positional press zips into an inverted interval; such pairs
// are dropped so every returned span satisfies Start <= End.
func Spans(events []model.PenEvent) []Span {
	starts, ends := Indices(events)
	n := len(starts)
	if len(ends) < n {
		n = len(ends)
	}
	spans := make([]Span, 0, n)
	for i := 0; i < n; i++ {
		if ends[i] < starts[i] {
			continue
		}
		spans = append(spans, Span{Start: starts[i], End: ends[i]})
	}
	return spans
}

// Bounds returns the axis-aligned bounding box (minX, minY, maxX, maxY) of
// all event positions. An empty stream yields all zeros.
func Bounds(events []model.PenEvent) (minX, minY, maxX, maxY float64) {
	if len(events) == 0 {
		return 0, 0, 0, 0
	}
	minX, maxX = events[0].X, events[0].X
	minY, maxY = events[0].Y, events[0].Y
	for _, e := range events[1:] {
		if e.X < minX {
			minX = e.X
		}
		if e.X > maxX {
			maxX = e.X
		}
		if e.Y < minY {
			minY = e.Y
		}
		if e.Y > maxY {
			maxY = e.Y
		}
	}
	return minX, minY, maxX, maxY
}

// IDForEvent returns the id of the last stroke whose start index is <=
// eventIdx. Returns 0 when no stroke starts at or before the index; callers
// must guard the empty-stream case themselves.
func IDForEvent(eventIdx int, starts []int) int {
	for i := len(starts) - 1; i >= 0; i-- {
		if eventIdx >= starts[i] {
			return i
		}
	}
	return 0
}
