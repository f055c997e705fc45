// Package model defines shared data structures.
package model

import (
	"encoding/json"
	"fmt"
)

// EventType classifies a pen sample.
type EventType string

// Pen event types as they appear in participant JSON.
const (
	Press   EventType = "press"
	Move    EventType = "move"
	Release EventType = "release"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case Press, Move, Release:
		return true
	}
	return false
}

// PenEvent is one sample of pen contact on the tablet: canvas coordinates,
// pressure 0..1, and a wall-clock capture time in seconds. Speed is derived
// at capture time and advisory only. Type is the only field rewritten after
// capture (the split editor relabels Move events).
type PenEvent struct {
	Type         EventType `json:"type"`
	X            float64   `json:"x"`
	Y            float64   `json:"y"`
	Pressure     float64   `json:"pressure"`
	AbsoluteTime float64   `json:"absolute_time"`
	Speed        float64   `json:"speed"`
}

// Letter binds one target-word character to the strokes that drew it.
// An empty Char marks a blocker: a letter exists here but was not
// transcribed. StrokeIDs is kept sorted ascending; no stroke id is ever
// claimed by two letters of the same word.
type Letter struct {
	Char      string `json:"char"`
	StrokeIDs []int  `json:"stroke_ids"`
}

// IsBlocker reports whether the letter is an intentionally empty placeholder.
func (l Letter) IsBlocker() bool {
	return l.Char == ""
}

// FirstStroke returns the smallest stroke id bound to the letter, or -1 if
// the letter has no strokes.
func (l Letter) FirstStroke() int {
	if len(l.StrokeIDs) == 0 {
		return -1
	}
	first := l.StrokeIDs[0]
	for _, id := range l.StrokeIDs[1:] {
		if id < first {
			first = id
		}
	}
	return first
}

// Trainability is the annotation-quality tier controlling dataset inclusion.
type Trainability string

// Trainability tiers.
const (
	Trainable           Trainability = "trainable"
	LowQualityTrainable Trainability = "low-quality"
	Untrainable         Trainability = "untrainable"
)

// Display returns the human-readable label for the tier.
func (t Trainability) Display() string {
	switch t {
	case LowQualityTrainable:
		return "Low-Quality Trainable"
	case Untrainable:
		return "Untrainable"
	default:
		return "Trainable"
	}
}

// ParseTrainability maps a stored string to a tier, defaulting to Trainable.
func ParseTrainability(s string) Trainability {
	switch Trainability(s) {
	case LowQualityTrainable:
		return LowQualityTrainable
	case Untrainable:
		return Untrainable
	default:
		return Trainable
	}
}

// Word is one recorded writing trial: the target word, its pen events, and
// the letter annotations layered on top. WrittenWord and IsCorrect are
// cached views of (Letters, Word) maintained exclusively by
// participant.Recompute; they are never authoritative on their own.
type Word struct {
	Word           string     `json:"word"`
	Cell           int        `json:"cell"`
	Group          string     `json:"group"`
	AudioStartTime *float64   `json:"audio_start_time"`
	AudioEndTime   *float64   `json:"audio_end_time"`
	Events         []PenEvent `json:"pen_events"`
	Letters        []Letter   `json:"letters,omitempty"`

	Trainability Trainability `json:"trainability,omitempty"`
	WrittenWord  string       `json:"written_word,omitempty"`
	IsCorrect    bool         `json:"is_correct,omitempty"`
}

// AudioStart returns the playback window start, falling back to the first
// event's capture time when the window was never set.
func (w *Word) AudioStart() float64 {
	if w.AudioStartTime != nil {
		return *w.AudioStartTime
	}
	if len(w.Events) > 0 {
		return w.Events[0].AbsoluteTime
	}
	return 0
}

// Participant is one source file's worth of words plus demographics.
// Read-only once loaded except for word-level annotation edits.
type Participant struct {
	FilePath          string          `json:"-"`
	ParticipantNumber string          `json:"participant_number"`
	Timestamp         string          `json:"timestamp"`
	Age               json.RawMessage `json:"participant_age,omitempty"`
	Gender            string          `json:"participant_gender,omitempty"`
	Group             string          `json:"group,omitempty"`
	Calibration       json.RawMessage `json:"calibration,omitempty"`
	Words             []*Word         `json:"words"`
}

// AgeString renders the raw age field (number or string in the wild) for
// display and CSV output.
func (p *Participant) AgeString() string {
	if len(p.Age) == 0 || string(p.Age) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(p.Age, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(p.Age, &n); err == nil {
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%g", n)
	}
	return string(p.Age)
}

// ExportConfig holds downsampling parameters for trainable export.
type ExportConfig struct {
	TargetIntervalMs float64
	MinDistancePx    float64
}

// DefaultExportConfig returns the 40 Hz / 3 px defaults.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{TargetIntervalMs: 25, MinDistancePx: 3}
}

// ReviewConfig holds review TUI settings.
type ReviewConfig struct {
	HebrewKeys bool
}

// Annotation is one journal row: the outcome of reviewing a single word.
type Annotation struct {
	Participant  string
	Cell         int
	Word         string
	WrittenWord  string
	IsCorrect    bool
	Trainability Trainability
}
