// Package participant loads participant recordings and owns the derived
// annotation state on each word.
package participant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/yalev/strokelab/internal/letters"
	"github.com/yalev/strokelab/internal/model"
	"github.com/yalev/strokelab/internal/stroke"
)

// wireWord accepts both annotation schemas found in recordings: the legacy
// assigned_letters index map and the stroke-grouped letters list.
type wireWord struct {
	Word            string            `json:"word"`
	Cell            int               `json:"cell"`
	Group           string            `json:"group"`
	AudioStartTime  *float64          `json:"audio_start_time"`
	AudioEndTime    *float64          `json:"audio_end_time"`
	PenEvents       []model.PenEvent  `json:"pen_events"`
	AssignedLetters map[string]string `json:"assigned_letters"`
	Letters         []model.Letter    `json:"letters"`
	Trainability    string            `json:"trainability"`
}

type wireParticipant struct {
	ParticipantNumber string          `json:"participant_number"`
	Timestamp         string          `json:"timestamp"`
	Age               json.RawMessage `json:"participant_age"`
	Gender            string          `json:"participant_gender"`
	Group             string          `json:"group"`
	Calibration       json.RawMessage `json:"calibration"`
	Words             []wireWord      `json:"words"`
}

// Load reads one participant file. Both formats are accepted: an object
// with demographics and a words array, or the legacy bare array of words.
// Structural defects that can be tolerated (missing events, mismatched
// press/release counts, unparseable letter keys) are reported as warnings;
// only unparseable JSON is an error. Recompute runs on every loaded word.
func Load(path string) (*model.Participant, []string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(raw, path)
}

// Parse decodes participant JSON. The path is used only for warnings and
// the FilePath field.
func Parse(raw []byte, path string) (*model.Participant, []string, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	var wire wireParticipant
	if len(trimmed) > 0 && trimmed[0] == '[' {
		// Legacy format: a bare array of words, no demographics.
		wire.ParticipantNumber = "Unknown"
		wire.Timestamp = "Unknown"
		if err := json.Unmarshal(raw, &wire.Words); err != nil {
			return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if wire.ParticipantNumber == "" {
			wire.ParticipantNumber = "Unknown"
		}
	}

	p := &model.Participant{
		FilePath:          path,
		ParticipantNumber: wire.ParticipantNumber,
		Timestamp:         wire.Timestamp,
		Age:               wire.Age,
		Gender:            wire.Gender,
		Group:             wire.Group,
		Calibration:       wire.Calibration,
	}

	var warnings []string
	for i, ww := range wire.Words {
		word, ws := buildWord(ww, fmt.Sprintf("%s word %d", path, i+1))
		warnings = append(warnings, ws...)
		p.Words = append(p.Words, word)
	}
	return p, warnings, nil
}

func buildWord(ww wireWord, where string) (*model.Word, []string) {
	var warnings []string
	word := &model.Word{
		Word:           ww.Word,
		Cell:           ww.Cell,
		Group:          ww.Group,
		AudioStartTime: ww.AudioStartTime,
		AudioEndTime:   ww.AudioEndTime,
		Events:         ww.PenEvents,
		Trainability:   model.ParseTrainability(ww.Trainability),
	}

	if len(word.Events) == 0 {
		warnings = append(warnings, fmt.Sprintf("%s: no pen events", where))
	}
	for _, e := range word.Events {
		if !e.Type.Valid() {
			warnings = append(warnings, fmt.Sprintf("%s: unknown event type %q", where, e.Type))
			break
		}
	}
	starts, ends := stroke.Indices(word.Events)
	if len(starts) != len(ends) {
		warnings = append(warnings, fmt.Sprintf("%s: %d presses vs %d releases; strokes zipped positionally",
			where, len(starts), len(ends)))
	}

	// The stroke-grouped letters list is the source of truth; the legacy
	// index map is converted once on load and never kept alongside it.
	switch {
	case len(ww.Letters) > 0:
		word.Letters = ww.Letters
	case len(ww.AssignedLetters) > 0:
		assigned := make(map[int]string, len(ww.AssignedLetters))
		for key, char := range ww.AssignedLetters {
			idx, err := strconv.Atoi(key)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: bad assigned_letters key %q", where, key))
				continue
			}
			assigned[idx] = char
		}
		word.Letters = letters.FromAssigned(assigned, starts)
	}

	Recompute(word)
	return word, warnings
}

// Save writes the participant with all annotations as JSON, via a temp file
// renamed into place so a failed write never leaves a partial file. Callers
// are responsible for choosing a path that is not the source recording.
func Save(path string, p *model.Participant) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "participant-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	enc := json.NewEncoder(tmpFile)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to encode participant: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close participant file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write participant: %w", err)
	}
	return nil
}

// Recompute refreshes the cached WrittenWord and IsCorrect fields from the
// word's letters and target. It is the only permitted writer of those
// fields and must run after every letter mutation or structural edit.
func Recompute(word *model.Word) {
	starts, _ := stroke.Indices(word.Events)
	assigned := letters.ToAssigned(word.Letters, starts)
	word.IsCorrect, word.WrittenWord = letters.Compute(assigned, word.Word)
}

// PromoteLowQuality applies the one-way auto-promotion from Trainable to
// LowQualityTrainable when the annotation state warrants it. Explicit user
// tiers (including a manual downgrade back to Trainable afterwards) are
// never touched here; only the default tier is promoted.
func PromoteLowQuality(word *model.Word) {
	if word.Trainability != model.Trainable {
		return
	}
	starts, _ := stroke.Indices(word.Events)
	assigned := letters.ToAssigned(word.Letters, starts)
	if letters.ShouldBeLowQuality(assigned, starts) {
		word.Trainability = model.LowQualityTrainable
	}
}
