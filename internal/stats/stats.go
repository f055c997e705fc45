// Package stats computes per-word timing metrics and renders report tables.
package stats

import (
	"fmt"

	"github.com/yalev/strokelab/internal/model"
	"github.com/yalev/strokelab/internal/stroke"
)

// WordMetrics summarizes one word's writing timeline relative to the audio
// window start.
type WordMetrics struct {
	StrokeCount     int
	AvgIntervalMs   float64 // mean gap between consecutive stroke starts
	ReadingEndSec   float64 // audio window length, 0 when unset
	WritingStartSec float64 // first press relative to audio start
	WritingEndSec   float64 // last release relative to audio start
}

// Compute derives the timing metrics for a word. Words without pen events
// yield zero metrics.
func Compute(word *model.Word) WordMetrics {
	var m WordMetrics
	if len(word.Events) == 0 {
		return m
	}
	starts, ends := stroke.Indices(word.Events)
	m.StrokeCount = len(starts)

	audioStart := word.AudioStart()
	if word.AudioEndTime != nil {
		m.ReadingEndSec = *word.AudioEndTime - audioStart
	}
	if len(starts) > 0 {
		m.WritingStartSec = word.Events[starts[0]].AbsoluteTime - audioStart
	}
	if len(ends) > 0 {
		m.WritingEndSec = word.Events[ends[len(ends)-1]].AbsoluteTime - audioStart
	} else {
		m.WritingEndSec = m.WritingStartSec
	}

	if len(starts) > 1 {
		var sum float64
		for i := 1; i < len(starts); i++ {
			sum += word.Events[starts[i]].AbsoluteTime - word.Events[starts[i-1]].AbsoluteTime
		}
		m.AvgIntervalMs = sum / float64(len(starts)-1) * 1000
	}
	return m
}

// FormatTime renders seconds as MM:SS.mmm.
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := int(seconds) / 60
	secs := seconds - float64(minutes*60)
	return fmt.Sprintf("%02d:%06.3f", minutes, secs)
}
