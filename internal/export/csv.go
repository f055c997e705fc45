package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yalev/strokelab/internal/letters"
	"github.com/yalev/strokelab/internal/model"
	"github.com/yalev/strokelab/internal/participant"
	"github.com/yalev/strokelab/internal/stats"
	"github.com/yalev/strokelab/internal/stroke"
)

var csvHeader = []string{
	"Exp Step", "Participant", "Age", "Gender", "Word", "Correct", "Written Word",
	"Reading End", "Writing Start", "Writing End", "Strokes", "Avg Interval (ms)",
	"Letters",
}

// WriteCSV exports the per-word analysis table. Time columns are MM:SS.mmm
// relative to the audio window start; the Letters column lists each letter
// with its segment start/end in milliseconds. Words without pen events are
// skipped. The file starts with a UTF-8 BOM so spreadsheet tools detect the
// encoding, and is written atomically.
func WriteCSV(path string, participants []*model.Participant) error {
	if len(participants) == 0 {
		return fmt.Errorf("no participants to export")
	}

	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "export-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp export file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.WriteString("\ufeff"); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	writer := csv.NewWriter(tmpFile)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range participants {
		for wordIdx, w := range p.Words {
			if len(w.Events) == 0 {
				continue
			}
			if err := writer.Write(csvRow(p, w, wordIdx)); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func csvRow(p *model.Participant, w *model.Word, wordIdx int) []string {
	participant.Recompute(w)
	m := stats.Compute(w)

	correct := "No"
	if w.IsCorrect {
		correct = "Yes"
	}
	return []string{
		fmt.Sprintf("%d", wordIdx+1),
		p.ParticipantNumber,
		p.AgeString(),
		p.Gender,
		w.Word,
		correct,
		w.WrittenWord,
		stats.FormatTime(m.ReadingEndSec),
		stats.FormatTime(m.WritingStartSec),
		stats.FormatTime(m.WritingEndSec),
		fmt.Sprintf("%d", m.StrokeCount),
		fmt.Sprintf("%.1f", m.AvgIntervalMs),
		lettersColumn(w),
	}
}

// lettersColumn formats each letter as "<char> <start_ms>/<end_ms>", times
// relative to the audio window start, using the same sorted-key segment
// boundaries as the trainable export.
func lettersColumn(w *model.Word) string {
	starts, _ := stroke.Indices(w.Events)
	assigned := letters.ToAssigned(w.Letters, starts)
	if len(assigned) == 0 {
		return ""
	}
	audioStart := w.AudioStart()
	parts := make([]string, 0, len(assigned))
	for _, seg := range letters.Segments(assigned, len(w.Events)) {
		startMs := int((w.Events[seg.FirstEvent].AbsoluteTime - audioStart) * 1000)
		endMs := int((w.Events[seg.LastEvent].AbsoluteTime - audioStart) * 1000)
		parts = append(parts, fmt.Sprintf("%s %d/%d", seg.Char, startMs, endMs))
	}
	return strings.Join(parts, ", ")
}
