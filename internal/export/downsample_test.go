package export

import (
	"testing"

	"github.com/yalev/strokelab/internal/model"
)

func denseStroke(moves int, dtSec, dx float64) []model.PenEvent {
	events := []model.PenEvent{{Type: model.Press, X: 0, Y: 0, AbsoluteTime: 0}}
	t := 0.0
	x := 0.0
	for i := 0; i < moves; i++ {
		t += dtSec
		x += dx
		events = append(events, model.PenEvent{Type: model.Move, X: x, Y: 0, AbsoluteTime: t})
	}
	events = append(events, model.PenEvent{Type: model.Release, X: x + dx, Y: 0, AbsoluteTime: t + dtSec})
	return events
}

func TestDownsampleKeepsEndpoints(t *testing.T) {
	events := denseStroke(100, 0.005, 1) // 5 ms / 1 px spacing
	kept := Downsample(events, model.DefaultExportConfig())

	if len(kept) >= len(events) {
		t.Fatalf("no reduction: %d -> %d", len(events), len(kept))
	}
	if kept[0] != events[0] {
		t.Fatalf("first event changed: %+v", kept[0])
	}
	if kept[len(kept)-1] != events[len(events)-1] {
		t.Fatalf("last event changed: %+v", kept[len(kept)-1])
	}
	// Interior moves: 102 -> fewer, and strictly less than the 100 moves.
	if interior := len(kept) - 2; interior >= 100 {
		t.Fatalf("interior moves not thinned: %d", interior)
	}
}

func TestDownsampleTimeThreshold(t *testing.T) {
	// 1 px steps every 30 ms: distance never triggers, time always does.
	events := denseStroke(10, 0.030, 1)
	cfg := model.ExportConfig{TargetIntervalMs: 25, MinDistancePx: 3}
	kept := Downsample(events, cfg)
	if len(kept) != len(events) {
		t.Fatalf("time-spaced moves dropped: %d -> %d", len(events), len(kept))
	}
}

func TestDownsampleDistanceThreshold(t *testing.T) {
	// 5 px steps every 1 ms: time never triggers, distance always does.
	events := denseStroke(10, 0.001, 5)
	cfg := model.ExportConfig{TargetIntervalMs: 25, MinDistancePx: 3}
	kept := Downsample(events, cfg)
	if len(kept) != len(events) {
		t.Fatalf("distance-spaced moves dropped: %d -> %d", len(events), len(kept))
	}
}

func TestDownsampleShortStroke(t *testing.T) {
	events := []model.PenEvent{
		{Type: model.Press},
		{Type: model.Release},
	}
	kept := Downsample(events, model.DefaultExportConfig())
	if len(kept) != 2 {
		t.Fatalf("short stroke modified: %d events", len(kept))
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(25, 100); got != 0.75 {
		t.Fatalf("Ratio(25, 100) = %v", got)
	}
	if got := Ratio(0, 0); got != 0 {
		t.Fatalf("Ratio(0, 0) = %v", got)
	}
}
