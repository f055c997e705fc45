package participant

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/yalev/strokelab/internal/model"
)

const sampleJSON = `{
	"participant_number": "7",
	"timestamp": "2024-03-01T10:00:00",
	"participant_age": 29,
	"participant_gender": "F",
	"group": "pilot",
	"words": [
		{
			"word": "שלום",
			"cell": 3,
			"group": "list-a",
			"audio_start_time": 1.0,
			"audio_end_time": 2.5,
			"pen_events": [
				{"type": "press", "x": 0, "y": 0, "pressure": 0.5, "absolute_time": 3.0, "speed": 0},
				{"type": "move", "x": 1, "y": 0, "pressure": 0.5, "absolute_time": 3.1, "speed": 10},
				{"type": "release", "x": 2, "y": 0, "pressure": 0.0, "absolute_time": 3.2, "speed": 10},
				{"type": "press", "x": 5, "y": 0, "pressure": 0.5, "absolute_time": 4.0, "speed": 0},
				{"type": "release", "x": 6, "y": 0, "pressure": 0.0, "absolute_time": 4.2, "speed": 5}
			],
			"assigned_letters": {"0": "ש", "3": "ל"}
		}
	]
}`

func TestParseObjectFormat(t *testing.T) {
	p, warnings, err := Parse([]byte(sampleJSON), "sample.json")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if p.ParticipantNumber != "7" || p.Gender != "F" || p.AgeString() != "29" {
		t.Fatalf("demographics wrong: %+v", p)
	}
	if len(p.Words) != 1 {
		t.Fatalf("expected 1 word, got %d", len(p.Words))
	}
	w := p.Words[0]
	if w.Word != "שלום" || w.Cell != 3 || len(w.Events) != 5 {
		t.Fatalf("word fields wrong: %+v", w)
	}
	if w.Trainability != model.Trainable {
		t.Fatalf("default trainability = %v", w.Trainability)
	}
}

func TestParseConvertsAssignedLetters(t *testing.T) {
	p, _, err := Parse([]byte(sampleJSON), "sample.json")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	w := p.Words[0]
	if len(w.Letters) != 2 {
		t.Fatalf("expected 2 letters, got %+v", w.Letters)
	}
	if w.Letters[0].Char != "ש" || w.Letters[0].StrokeIDs[0] != 0 {
		t.Fatalf("first letter wrong: %+v", w.Letters[0])
	}
	if w.Letters[1].Char != "ל" || w.Letters[1].StrokeIDs[0] != 1 {
		t.Fatalf("second letter wrong: %+v", w.Letters[1])
	}
}

func TestParseRecomputesOnLoad(t *testing.T) {
	p, _, err := Parse([]byte(sampleJSON), "sample.json")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	w := p.Words[0]
	if !w.IsCorrect || w.WrittenWord != "שלום" {
		t.Fatalf("recompute on load: got (%v, %q)", w.IsCorrect, w.WrittenWord)
	}
}

func TestParseLegacyArray(t *testing.T) {
	raw := `[{"word": "אב", "cell": 1, "pen_events": [
		{"type": "press", "x": 0, "y": 0, "pressure": 1, "absolute_time": 0, "speed": 0},
		{"type": "release", "x": 1, "y": 0, "pressure": 0, "absolute_time": 0.1, "speed": 0}
	]}]`
	p, warnings, err := Parse([]byte(raw), "legacy.json")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p.ParticipantNumber != "Unknown" {
		t.Fatalf("legacy participant number = %q", p.ParticipantNumber)
	}
	if len(p.Words) != 1 || p.Words[0].Word != "אב" {
		t.Fatalf("legacy words wrong: %+v", p.Words)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestParseWarnsOnMalformedStream(t *testing.T) {
	raw := `{"words": [
		{"word": "א", "pen_events": [
			{"type": "press", "x": 0, "y": 0, "pressure": 1, "absolute_time": 0, "speed": 0},
			{"type": "press", "x": 1, "y": 0, "pressure": 1, "absolute_time": 0.1, "speed": 0},
			{"type": "release", "x": 2, "y": 0, "pressure": 0, "absolute_time": 0.2, "speed": 0}
		]},
		{"word": "ב", "pen_events": []}
	]}`
	p, warnings, err := Parse([]byte(raw), "bad.json")
	if err != nil {
		t.Fatalf("malformed stream must not be a hard error: %v", err)
	}
	if len(p.Words) != 2 {
		t.Fatalf("expected both words kept, got %d", len(p.Words))
	}
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "presses") {
		t.Errorf("missing press/release warning: %v", warnings)
	}
	if !strings.Contains(warnings[1], "no pen events") {
		t.Errorf("missing empty-events warning: %v", warnings)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, _, err := Parse([]byte("not json"), "x.json"); err == nil {
		t.Fatal("expected an error for unparseable input")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	p, _, err := Parse([]byte(sampleJSON), "sample.json")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	p.Words[0].Trainability = model.LowQualityTrainable

	path := filepath.Join(t.TempDir(), "annotated.json")
	if err := Save(path, p); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, warnings, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	w := loaded.Words[0]
	if w.Trainability != model.LowQualityTrainable {
		t.Errorf("trainability lost: %v", w.Trainability)
	}
	if len(w.Letters) != 2 || w.Letters[0].Char != "ש" {
		t.Errorf("letters lost: %+v", w.Letters)
	}
	if !w.IsCorrect || w.WrittenWord != "שלום" {
		t.Errorf("derived fields not recomputed: (%v, %q)", w.IsCorrect, w.WrittenWord)
	}
}

func TestPromoteLowQualityIsOneWay(t *testing.T) {
	p, _, err := Parse([]byte(sampleJSON), "sample.json")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	w := p.Words[0]

	// Matching annotation starting at the first stroke: no promotion.
	PromoteLowQuality(w)
	if w.Trainability != model.Trainable {
		t.Fatalf("unexpected promotion: %v", w.Trainability)
	}

	// A blocker triggers promotion.
	w.Letters[1] = model.Letter{Char: "", StrokeIDs: []int{1}}
	PromoteLowQuality(w)
	if w.Trainability != model.LowQualityTrainable {
		t.Fatalf("expected promotion, got %v", w.Trainability)
	}

	// An explicit user tier is never overridden.
	w.Trainability = model.Untrainable
	PromoteLowQuality(w)
	if w.Trainability != model.Untrainable {
		t.Fatalf("explicit tier overridden: %v", w.Trainability)
	}
}
