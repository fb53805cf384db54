// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history archives completed research runs in a SQLite database so
// past answers can be listed, searched full-text, and re-rendered without
// re-running the pipeline.
// See docs/ARCHITECTURE.md § Run History.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/design-research/pkg/types"
)

const dbFile = "history.db"

// Store manages the run-history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the history database at cfg.Dir/history.db,
// creating the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = ".design-research"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
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
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			question TEXT NOT NULL,
			classification TEXT,
			summary TEXT,
			created_at TEXT NOT NULL,
			response_json TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='runs_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE runs_fts USING fts5(question, summary, content=runs, content_rowid=rowid)`,
			`CREATE TRIGGER runs_ai AFTER INSERT ON runs BEGIN
				INSERT INTO runs_fts(rowid, question, summary) VALUES (new.rowid, new.question, new.summary);
			END`,
			`CREATE TRIGGER runs_ad AFTER DELETE ON runs BEGIN
				INSERT INTO runs_fts(runs_fts, rowid, question, summary) VALUES('delete', old.rowid, old.question, old.summary);
			END`,
			`CREATE TRIGGER runs_au AFTER UPDATE ON runs BEGIN
				INSERT INTO runs_fts(runs_fts, rowid, question, summary) VALUES('delete', old.rowid, old.question, old.summary);
				INSERT INTO runs_fts(rowid, question, summary) VALUES (new.rowid, new.question, new.summary);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Run is one archived research run.
type Run struct {
	ID             string                  `json:"id" yaml:"id"`
	Question       string                  `json:"question" yaml:"question"`
	Classification string                  `json:"classification" yaml:"classification"`
	Summary        string                  `json:"summary" yaml:"summary"`
	CreatedAt      time.Time               `json:"created_at" yaml:"created_at"`
	Response       *types.ResearchResponse `json:"response,omitempty" yaml:"response,omitempty"`
}

// Save archives one completed run and returns its ID. IDs are derived from
// the creation time plus a question digest, so re-running the same question
// produces distinct entries.
func (s *Store) Save(ctx context.Context, question string, resp *types.ResearchResponse) (string, error) {
	now := time.Now().UTC()
	digest := sha256.Sum256([]byte(question + now.Format(time.RFC3339Nano)))
	id := now.Format("20060102-150405") + "-" + hex.EncodeToString(digest[:4])

	responseJSON, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("marshaling response: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, question, classification, summary, created_at, response_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, question, resp.QueryClassification, resp.Summary,
		now.Format(time.RFC3339Nano), string(responseJSON),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// List returns archived runs, newest first, without the full response
// payload. Zero limit uses the store default.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, classification, summary, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Search runs an FTS5 match over archived questions and summaries, ranked
// by relevance. Zero limit uses the store default.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.question, r.classification, r.summary, r.created_at
		 FROM runs_fts
		 JOIN runs r ON r.rowid = runs_fts.rowid
		 WHERE runs_fts MATCH ?
		 ORDER BY runs_fts.rank LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Get returns one archived run including its full response.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	var (
		run          Run
		createdAt    string
		responseJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, question, classification, summary, created_at, response_json
		 FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Question, &run.Classification, &run.Summary, &createdAt, &responseJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run %s not found", id)
		}
		return nil, fmt.Errorf("looking up run: %w", err)
	}

	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

	var resp types.ResearchResponse
	if err := json.Unmarshal([]byte(responseJSON), &resp); err != nil {
		return nil, fmt.Errorf("decoding stored response: %w", err)
	}
	run.Response = &resp
	return &run, nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var (
			run            Run
			classification sql.NullString
			summary        sql.NullString
			createdAt      string
		)
		if err := rows.Scan(&run.ID, &run.Question, &classification, &summary, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if classification.Valid {
			run.Classification = classification.String
		}
		if summary.Valid {
			run.Summary = summary.String
		}
		run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
