package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps a SQLite connection holding run and link history.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// Open opens (creating if necessary) the SQLite database at path and
// applies the core schema. The returned Store is safe for concurrent
// use by multiple goroutines; SQLite itself is serialized to a single
// connection to avoid "database is locked" errors under WAL.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("store: create directory %s: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", path, err)
	}

	s := &Store{db: db, path: path}
	if err := s.InitSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// InitSchema applies CoreSchema inside a transaction and records the
// schema version. Safe to call on an already-initialized database.
func (s *Store) InitSchema() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin schema init: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(CoreSchema); err != nil {
		return fmt.Errorf("store: apply schema: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`,
		SchemaVersion,
	); err != nil {
		return fmt.Errorf("store: record schema version: %w", err)
	}

	return tx.Commit()
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// DB exposes the underlying *sql.DB for callers that need raw access
// (migrations tooling, ad-hoc inspection).
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Exec(query string, args ...any) (sql.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Exec(query, args...)
}

func (s *Store) Query(query string, args ...any) (*sql.Rows, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.Query(query, args...)
}

func (s *Store) QueryRow(query string, args ...any) *sql.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.QueryRow(query, args...)
}

func (s *Store) Begin() (*sql.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Begin()
}

// GetSchemaVersion returns the highest applied schema version.
func (s *Store) GetSchemaVersion() (int, error) {
	var version int
	err := s.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("store: get schema version: %w", err)
	}
	return version, nil
}

// TableExists reports whether a table with the given name exists.
func (s *Store) TableExists(name string) (bool, error) {
	var found string
	err := s.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, name,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: check table %s: %w", name, err)
	}
	return true, nil
}

// CountRows returns the row count of table.
func (s *Store) CountRows(table string) (int, error) {
	var count int
	err := s.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("store: count rows in %s: %w", table, err)
	}
	return count, nil
}

// Vacuum reclaims space freed by deleted runs.
func (s *Store) Vacuum() error {
	_, err := s.Exec("VACUUM")
	return err
}

// Checkpoint forces a WAL checkpoint.
func (s *Store) Checkpoint() error {
	_, err := s.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

// Stats summarizes the store's contents for diagnostics (the doctor
// command and health endpoints).
type Stats struct {
	Path          string `json:"path"`
	SchemaVersion int    `json:"schema_version"`
	RunCount      int    `json:"run_count"`
	LinkCount     int    `json:"link_count"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// GetStats gathers a Stats snapshot.
func (s *Store) GetStats() (*Stats, error) {
	version, err := s.GetSchemaVersion()
	if err != nil {
		return nil, err
	}
	runCount, err := s.CountRows("runs")
	if err != nil {
		return nil, err
	}
	linkCount, err := s.CountRows("links")
	if err != nil {
		return nil, err
	}

	var size int64
	if info, err := os.Stat(s.path); err == nil {
		size = info.Size()
	}

	return &Stats{
		Path:          s.path,
		SchemaVersion: version,
		RunCount:      runCount,
		LinkCount:     linkCount,
		FileSizeBytes: size,
	}, nil
}
