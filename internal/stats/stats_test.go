package stats

import (
	"math"
	"testing"

	"github.com/yalev/strokelab/internal/model"
)

func f64(v float64) *float64 { return &v }

func TestFormatTime(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00.000"},
		{1.5, "00:01.500"},
		{65.25, "01:05.250"},
		{-3, "00:00.000"},
	}
	for _, c := range cases {
		if got := FormatTime(c.in); got != c.want {
			t.Errorf("FormatTime(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestComputeMetrics(t *testing.T) {
	w := &model.Word{
		AudioStartTime: f64(10),
		AudioEndTime:   f64(12),
		Events: []model.PenEvent{
			{Type: model.Press, AbsoluteTime: 13},
			{Type: model.Move, AbsoluteTime: 13.1},
			{Type: model.Release, AbsoluteTime: 13.2},
			{Type: model.Press, AbsoluteTime: 14},
			{Type: model.Release, AbsoluteTime: 14.5},
			{Type: model.Press, AbsoluteTime: 15},
			{Type: model.Release, AbsoluteTime: 15.3},
		},
	}
	m := Compute(w)
	if m.StrokeCount != 3 {
		t.Fatalf("stroke count = %d", m.StrokeCount)
	}
	if math.Abs(m.ReadingEndSec-2) > 1e-9 {
		t.Errorf("reading end = %v", m.ReadingEndSec)
	}
	if math.Abs(m.WritingStartSec-3) > 1e-9 {
		t.Errorf("writing start = %v", m.WritingStartSec)
	}
	if math.Abs(m.WritingEndSec-5.3) > 1e-9 {
		t.Errorf("writing end = %v", m.WritingEndSec)
	}
	// Stroke starts at 13, 14, 15: mean interval 1000 ms.
	if math.Abs(m.AvgIntervalMs-1000) > 1e-6 {
		t.Errorf("avg interval = %v", m.AvgIntervalMs)
	}
}

func TestComputeMetricsEmpty(t *testing.T) {
	m := Compute(&model.Word{})
	if m != (WordMetrics{}) {
		t.Fatalf("expected zero metrics, got %+v", m)
	}
}

func TestComputeMetricsSingleStroke(t *testing.T) {
	w := &model.Word{Events: []model.PenEvent{
		{Type: model.Press, AbsoluteTime: 5},
		{Type: model.Release, AbsoluteTime: 5.4},
	}}
	m := Compute(w)
	if m.AvgIntervalMs != 0 {
		t.Fatalf("single stroke interval = %v", m.AvgIntervalMs)
	}
	// No audio window: times are relative to the first event.
	if m.WritingStartSec != 0 || math.Abs(m.WritingEndSec-0.4) > 1e-9 {
		t.Fatalf("writing window = %v..%v", m.WritingStartSec, m.WritingEndSec)
	}
}
