// Package store handles SQLite persistence of the annotation journal.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/yalev/strokelab/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for annotation outcomes.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS annotations (
			participant TEXT NOT NULL,
			cell INTEGER NOT NULL,
			word TEXT NOT NULL,
			written_word TEXT NOT NULL,
			is_correct INTEGER NOT NULL,
			trainability TEXT NOT NULL,
			reviewed_at TEXT NOT NULL,
			PRIMARY KEY (participant, cell, word)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_annotations_participant ON annotations(participant);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordAnnotation upserts one reviewed word; a later review of the same
// word replaces the earlier row.
func (s *Store) RecordAnnotation(ctx context.Context, a model.Annotation) error {
	correct := 0
	if a.IsCorrect {
		correct = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO annotations (participant, cell, word, written_word, is_correct, trainability, reviewed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(participant, cell, word) DO UPDATE SET
			written_word = excluded.written_word,
			is_correct = excluded.is_correct,
			trainability = excluded.trainability,
			reviewed_at = excluded.reviewed_at`,
		a.Participant, a.Cell, a.Word, a.WrittenWord, correct, string(a.Trainability),
		time.Now().Format(time.RFC3339Nano),
	)
	return err
}

// Progress summarizes one participant's review coverage.
type Progress struct {
	Participant  string
	Reviewed     int
	Correct      int
	Trainable    int
	LowQuality   int
	Untrainable  int
	LastReviewed time.Time
}

// ListProgress aggregates the journal per participant, oldest first.
func (s *Store) ListProgress(ctx context.Context) ([]Progress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT participant,
			COUNT(*),
			SUM(is_correct),
			SUM(CASE WHEN trainability = 'trainable' THEN 1 ELSE 0 END),
			SUM(CASE WHEN trainability = 'low-quality' THEN 1 ELSE 0 END),
			SUM(CASE WHEN trainability = 'untrainable' THEN 1 ELSE 0 END),
			MAX(reviewed_at)
		 FROM annotations
		 GROUP BY participant
		 ORDER BY MAX(reviewed_at) ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []Progress
	for rows.Next() {
		var p Progress
		var reviewedAt string
		if err := rows.Scan(&p.Participant, &p.Reviewed, &p.Correct, &p.Trainable, &p.LowQuality, &p.Untrainable, &reviewedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, reviewedAt)
		if err != nil {
			return nil, err
		}
		p.LastReviewed = parsed
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
