package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yalev/strokelab/internal/model"
	"github.com/yalev/strokelab/internal/participant"
	"github.com/yalev/strokelab/internal/stroke"
)

type trainableStroke struct {
	StrokeID int              `json:"stroke_id"`
	Events   []model.PenEvent `json:"events"`
}

type trainableWord struct {
	WrittenWord    string             `json:"written_word"`
	Trainability   model.Trainability `json:"trainability"`
	AudioStartTime *float64           `json:"audio_start_time"`
	AudioEndTime   *float64           `json:"audio_end_time"`
	Strokes        []trainableStroke  `json:"strokes"`
	Letters        []model.Letter     `json:"letters"`
}

type trainableParticipant struct {
	ParticipantNumber string          `json:"participant_number"`
	ParticipantAge    json.RawMessage `json:"participant_age"`
	ParticipantGender string          `json:"participant_gender"`
	Timestamp         string          `json:"timestamp"`
	Calibration       json.RawMessage `json:"calibration"`
	Group             string          `json:"group"`
	Words             []trainableWord `json:"words"`
}

// Logf receives per-word compression reports; it is advisory output only.
type Logf func(format string, args ...any)

// WriteTrainable exports the trainable JSON dataset: per word, the written
// word, trainability tier, audio window, per-stroke downsampled events, and
// the letter annotations. One participant is written as a single object,
// several as an array. The file is written atomically.
func WriteTrainable(path string, participants []*model.Participant, cfg model.ExportConfig, logf Logf) error {
	if len(participants) == 0 {
		return fmt.Errorf("no participants to export")
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}

	out := make([]trainableParticipant, 0, len(participants))
	for _, p := range participants {
		tp := trainableParticipant{
			ParticipantNumber: p.ParticipantNumber,
			ParticipantAge:    p.Age,
			ParticipantGender: p.Gender,
			Timestamp:         p.Timestamp,
			Calibration:       p.Calibration,
			Group:             p.Group,
			Words:             make([]trainableWord, 0, len(p.Words)),
		}
		for _, w := range p.Words {
			tp.Words = append(tp.Words, buildTrainableWord(w, cfg, logf))
		}
		out = append(out, tp)
	}

	var payload any = out
	if len(out) == 1 {
		payload = out[0]
	}
	return writeJSONAtomic(path, payload)
}

func buildTrainableWord(w *model.Word, cfg model.ExportConfig, logf Logf) trainableWord {
	participant.Recompute(w)

	spans := stroke.Spans(w.Events)
	strokes := make([]trainableStroke, 0, len(spans))
	total, kept := 0, 0
	for id, s := range spans {
		events := w.Events[s.Start : s.End+1]
		downsampled := Downsample(events, cfg)
		total += len(events)
		kept += len(downsampled)
		strokes = append(strokes, trainableStroke{StrokeID: id, Events: downsampled})
	}
	if total > 0 {
		logf("word %q: %d -> %d events (%.1f%% reduction)", w.Word, total, kept, Ratio(kept, total)*100)
	}

	letters := w.Letters
	if letters == nil {
		letters = []model.Letter{}
	}
	return trainableWord{
		WrittenWord:    w.WrittenWord,
		Trainability:   w.Trainability,
		AudioStartTime: w.AudioStartTime,
		AudioEndTime:   w.AudioEndTime,
		Strokes:        strokes,
		Letters:        letters,
	}
}

// writeJSONAtomic writes to a temp file in the target directory and renames
// it into place, so a failed export never leaves a partial file.
func writeJSONAtomic(path string, payload any) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "export-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp export file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	enc := json.NewEncoder(tmpFile)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
