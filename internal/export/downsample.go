// Package export produces ML-ready datasets from annotated recordings.
package export

import (
	"math"

	"github.com/yalev/strokelab/internal/model"
)

// Downsample thins one stroke's events for training export. The first and
// last events (press/release) are always kept verbatim; an interior move
// survives only when enough time or distance has passed since the last kept
// event. Single pass, no lookahead, so the output order and endpoints are
// exactly those of the input.
func Downsample(events []model.PenEvent, cfg model.ExportConfig) []model.PenEvent {
	if len(events) <= 2 {
		return events
	}

	kept := make([]model.PenEvent, 0, len(events))
	var last *model.PenEvent
	for i := range events {
		e := events[i]
		if e.Type == model.Press || e.Type == model.Release || last == nil {
			kept = append(kept, e)
			last = &kept[len(kept)-1]
			continue
		}

		deltaMs := (e.AbsoluteTime - last.AbsoluteTime) * 1000
		dist := math.Hypot(e.X-last.X, e.Y-last.Y)
		if deltaMs >= cfg.TargetIntervalMs || dist >= cfg.MinDistancePx {
			kept = append(kept, e)
			last = &kept[len(kept)-1]
		}
	}
	return kept
}

// Ratio returns the compression ratio 1 - kept/total, or 0 for empty input.
func Ratio(kept, total int) float64 {
	if total == 0 {
		return 0
	}
	return 1 - float64(kept)/float64(total)
}
