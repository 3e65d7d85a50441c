// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists a journal of analysis runs in SQLite so past
// verdicts can be reviewed without re-running the pipeline.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sciencetwins/twin-engine/pkg/types"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID        int64     `json:"id" yaml:"id"`
	Mode      string    `json:"mode" yaml:"mode"`
	Query     string    `json:"query,omitempty" yaml:"query,omitempty"`
	Outcome   string    `json:"outcome" yaml:"outcome"`
	Score     float64   `json:"score" yaml:"score"`
	Count     int       `json:"count" yaml:"count"`
	Report    string    `json:"report,omitempty" yaml:"report,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Store manages the run journal database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the journal database at cfg.DBPath, creating
// the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			query TEXT,
			outcome TEXT NOT NULL,
			score REAL,
			count INTEGER,
			report TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordPlagiarism journals a plagiarism run. The full report is stored as
// JSON alongside the headline fields.
func (s *Store) RecordPlagiarism(ctx context.Context, query string, report types.PlagiarismReport) (int64, error) {
	score := report.MaxSimilarity
	if report.Type == types.OutcomePlagiarism {
		score = report.Probability
	}
	return s.record(ctx, Run{
		Mode:    "plagiarism",
		Query:   query,
		Outcome: string(report.Type),
		Score:   score,
		Report:  marshalReport(report),
	})
}

// RecordDoppelganger journals a doppelgänger run.
func (s *Store) RecordDoppelganger(ctx context.Context, query string, report types.DoppelgangerReport) (int64, error) {
	return s.record(ctx, Run{
		Mode:    "doppelganger",
		Query:   query,
		Outcome: string(report.Type),
		Count:   report.Count,
		Report:  marshalReport(report),
	})
}

func (s *Store) record(ctx context.Context, r Run) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (mode, query, outcome, score, count, report, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Mode, r.Query, r.Outcome, r.Score, r.Count, r.Report,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

// Recent returns the newest runs, optionally filtered by mode. A limit of
// zero uses the store default.
func (s *Store) Recent(ctx context.Context, mode string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	query := `SELECT id, mode, query, outcome, score, count, report, created_at
		FROM runs`
	args := []any{}
	if mode != "" {
		query += ` WHERE mode = ?`
		args = append(args, mode)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			q, report sql.NullString
			score     sql.NullFloat64
			count     sql.NullInt64
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.Mode, &q, &r.Outcome, &score, &count, &report, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Query = q.String
		r.Score = score.Float64
		r.Count = int(count.Int64)
		r.Report = report.String
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func marshalReport(report any) string {
	data, err := json.Marshal(report)
	if err != nil {
		return ""
	}
	return string(data)
}
