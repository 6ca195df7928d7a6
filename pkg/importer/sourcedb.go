// CLAUDE:SUMMARY SQLite store (modernc) for import source URLs, availability checks and the history of import runs.
package importer

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Source represents a row from the import_sources table.
type Source struct {
	AdapterID   string
	DictID      string
	Description string
	SourceURL   string
	License     string
	LastCheck   *int64
	LastStatus  *int
	LastError   *string
	UpdatedAt   int64
}

// ImportRun represents a row from the import_runs table.
type ImportRun struct {
	ID         int64
	AdapterID  string
	StartedAt  int64
	FinishedAt int64
	Entries    int
	Collisions int
	Skipped    int
	Normalize  string
	Error      *string
}

// SourceDB manages the import_sources and import_runs SQLite tables.
type SourceDB struct {
	db *sql.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS import_sources (
		adapter_id   TEXT PRIMARY KEY,
		dict_id      TEXT NOT NULL,
		description  TEXT NOT NULL,
		source_url   TEXT NOT NULL,
		license      TEXT NOT NULL DEFAULT '',
		last_check   INTEGER,
		last_status  INTEGER,
		last_error   TEXT,
		updated_at   INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS import_runs (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		adapter_id   TEXT NOT NULL,
		started_at   INTEGER NOT NULL,
		finished_at  INTEGER NOT NULL,
		entries      INTEGER NOT NULL DEFAULT 0,
		collisions   INTEGER NOT NULL DEFAULT 0,
		skipped      INTEGER NOT NULL DEFAULT 0,
		normalize    TEXT NOT NULL DEFAULT '',
		error        TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS import_runs_adapter ON import_runs (adapter_id, started_at)`,
}

// OpenSourceDB opens (or creates) the SQLite database at path and ensures
// the schema exists.
func OpenSourceDB(path string) (*SourceDB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open source db: %w", err)
	}
	for _, ddl := range schema {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &SourceDB{db: db}, nil
}

// Close closes the database.
func (s *SourceDB) Close() error {
	return s.db.Close()
}

// Seed inserts default rows for each adapter. Existing rows are left alone
// so manual URL overrides survive restarts.
func (s *SourceDB) Seed(adapters []Adapter) error {
	const q = `INSERT OR IGNORE INTO import_sources
		(adapter_id, dict_id, description, source_url, license, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	now := time.Now().Unix()
	for _, a := range adapters {
		if _, err := s.db.Exec(q, a.ID(), a.DictID(), a.Description(), a.DefaultURL(), a.License(), now); err != nil {
			return fmt.Errorf("seed %s: %w", a.ID(), err)
		}
	}
	return nil
}

// GetURL returns the current source URL for a given adapter ID.
func (s *SourceDB) GetURL(adapterID string) (string, error) {
	var url string
	err := s.db.QueryRow(`SELECT source_url FROM import_sources WHERE adapter_id = ?`, adapterID).Scan(&url)
	if err != nil {
		return "", fmt.Errorf("get url for %s: %w", adapterID, err)
	}
	return url, nil
}

// SetURL updates the source URL for a given adapter.
func (s *SourceDB) SetURL(adapterID, url string) error {
	res, err := s.db.Exec(
		`UPDATE import_sources SET source_url = ?, updated_at = ? WHERE adapter_id = ?`,
		url, time.Now().Unix(), adapterID,
	)
	if err != nil {
		return fmt.Errorf("set url for %s: %w", adapterID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("adapter %s not found in import_sources", adapterID)
	}
	return nil
}

// UpdateCheck persists the result of an availability check.
func (s *SourceDB) UpdateCheck(adapterID string, status int, checkErr string) error {
	_, err := s.db.Exec(
		`UPDATE import_sources SET last_check = ?, last_status = ?, last_error = ? WHERE adapter_id = ?`,
		time.Now().Unix(), status, nullString(checkErr), adapterID,
	)
	if err != nil {
		return fmt.Errorf("update check for %s: %w", adapterID, err)
	}
	return nil
}

// ListSources returns all rows from import_sources ordered by adapter_id.
func (s *SourceDB) ListSources() ([]Source, error) {
	rows, err := s.db.Query(`SELECT adapter_id, dict_id, description, source_url, license,
		last_check, last_status, last_error, updated_at
		FROM import_sources ORDER BY adapter_id`)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.AdapterID, &src.DictID, &src.Description, &src.SourceURL,
			&src.License, &src.LastCheck, &src.LastStatus, &src.LastError, &src.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// RecordRun stores the outcome of one import. stats is nil for a failed run.
func (s *SourceDB) RecordRun(adapterID string, started time.Time, stats *Stats, runErr error) error {
	var run Stats
	if stats != nil {
		run = *stats
	}
	var msg string
	if runErr != nil {
		msg = runErr.Error()
	}
	_, err := s.db.Exec(`INSERT INTO import_runs
		(adapter_id, started_at, finished_at, entries, collisions, skipped, normalize, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		adapterID, started.Unix(), time.Now().Unix(),
		run.Entries, run.Collisions, run.Skipped, run.Normalize, nullString(msg),
	)
	if err != nil {
		return fmt.Errorf("record run for %s: %w", adapterID, err)
	}
	return nil
}

// Runs returns the most recent import runs of adapterID, newest first.
func (s *SourceDB) Runs(adapterID string, limit int) ([]ImportRun, error) {
	rows, err := s.db.Query(`SELECT id, adapter_id, started_at, finished_at, entries,
		collisions, skipped, normalize, error
		FROM import_runs WHERE adapter_id = ? ORDER BY id DESC LIMIT ?`, adapterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs for %s: %w", adapterID, err)
	}
	defer rows.Close()

	var runs []ImportRun
	for rows.Next() {
		var r ImportRun
		if err := rows.Scan(&r.ID, &r.AdapterID, &r.StartedAt, &r.FinishedAt, &r.Entries,
			&r.Collisions, &r.Skipped, &r.Normalize, &r.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
