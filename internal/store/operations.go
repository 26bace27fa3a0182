package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jtai-dev/record-matcher/pkg/recordmatcher"
)

// ConfigSnapshot is the JSON-serializable subset of a Config: its six
// column-wiring sub-maps. A Config itself holds unexported state (the
// scorer registry, in particular) and cannot be marshaled directly.
type ConfigSnapshot struct {
	ColumnsToMatch     map[string][]string `json:"columns_to_match"`
	ColumnsToGet       map[string]string   `json:"columns_to_get"`
	ColumnsToGroup     map[string]string   `json:"columns_to_group"`
	ScorersByColumn    map[string]string   `json:"scorers_by_column"`
	ThresholdsByColumn map[string]float64  `json:"thresholds_by_column"`
	CutoffsByColumn    map[string]bool     `json:"cutoffs_by_column"`
}

// NewConfigSnapshot captures cfg's wiring for storage.
func NewConfigSnapshot(cfg *recordmatcher.Config) ConfigSnapshot {
	return ConfigSnapshot{
		ColumnsToMatch:     cfg.ColumnsToMatch(),
		ColumnsToGet:       cfg.ColumnsToGet(),
		ColumnsToGroup:     cfg.ColumnsToGroup(),
		ScorersByColumn:    cfg.ScorersByColumn(),
		ThresholdsByColumn: cfg.ThresholdsByColumn(),
		CutoffsByColumn:    cfg.CutoffsByColumn(),
	}
}

// Run captures the metadata of one matcher invocation.
type Run struct {
	ID                 string
	CreatedAt           time.Time
	XSource             string
	YSource             string
	XRowCount           int
	YRowCount           int
	RequiredThreshold   float64
	DuplicateThreshold  float64
	Config              ConfigSnapshot
	Summary             recordmatcher.Summary
	DurationMS          int64
}

// Link captures one X row's outcome within a run.
type Link struct {
	RunID       string
	XID         int
	YIDs        string
	MatchStatus string
	MatchScore  string
}

// CreateRun persists a Run and its links in a single transaction.
func (s *Store) CreateRun(run Run, links []Link) error {
	configJSON, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("store: marshal config: %w", err)
	}
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("store: marshal summary: %w", err)
	}

	tx, err := s.Begin()
	if err != nil {
		return fmt.Errorf("store: begin create run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, x_source, y_source, x_row_count, y_row_count,
			required_threshold, duplicate_threshold, config_json, summary_json, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.XSource, run.YSource, run.XRowCount, run.YRowCount,
		run.RequiredThreshold, run.DuplicateThreshold, string(configJSON), string(summaryJSON), run.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO links (run_id, x_id, y_ids, match_status, match_score) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("store: prepare link insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range links {
		if _, err := stmt.Exec(run.ID, l.XID, l.YIDs, l.MatchStatus, l.MatchScore); err != nil {
			return fmt.Errorf("store: insert link x_id=%d: %w", l.XID, err)
		}
	}

	return tx.Commit()
}

// LinksFromResult extracts Link rows from a matcher result table using
// the reserved column names the Matcher wrote.
func LinksFromResult(result recordmatcher.Table, cols recordmatcher.ResultColumns) []Link {
	links := make([]Link, 0, len(result))
	for _, id := range result.IDs() {
		rec := result[id]
		links = append(links, Link{
			XID:         id,
			YIDs:        rec[cols.MatchedWithRow],
			MatchStatus: rec[cols.MatchStatus],
			MatchScore:  rec[cols.MatchScore],
		})
	}
	return links
}

// GetRun loads a run's metadata by id.
func (s *Store) GetRun(id string) (*Run, error) {
	var run Run
	var configJSON, summaryJSON string
	err := s.QueryRow(
		`SELECT id, created_at, x_source, y_source, x_row_count, y_row_count,
			required_threshold, duplicate_threshold, config_json, summary_json, duration_ms
		 FROM runs WHERE id = ?`, id,
	).Scan(
		&run.ID, &run.CreatedAt, &run.XSource, &run.YSource, &run.XRowCount, &run.YRowCount,
		&run.RequiredThreshold, &run.DuplicateThreshold, &configJSON, &summaryJSON, &run.DurationMS,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("store: run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get run %s: %w", id, err)
	}

	var cfg ConfigSnapshot
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return nil, fmt.Errorf("store: unmarshal config for run %s: %w", id, err)
	}
	run.Config = cfg

	var summary recordmatcher.Summary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		return nil, fmt.Errorf("store: unmarshal summary for run %s: %w", id, err)
	}
	run.Summary = summary

	return &run, nil
}

// ListRuns returns up to limit runs, most recent first. limit <= 0
// means unlimited.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	query := `SELECT id, created_at, x_source, y_source, x_row_count, y_row_count,
		required_threshold, duplicate_threshold, duration_ms
		FROM runs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.CreatedAt, &run.XSource, &run.YSource, &run.XRowCount, &run.YRowCount,
			&run.RequiredThreshold, &run.DuplicateThreshold, &run.DurationMS,
		); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetLinks returns every link recorded for a run, ordered by X id.
func (s *Store) GetLinks(runID string) ([]Link, error) {
	rows, err := s.Query(
		`SELECT run_id, x_id, y_ids, match_status, match_score FROM links WHERE run_id = ? ORDER BY x_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: get links for run %s: %w", runID, err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.RunID, &l.XID, &l.YIDs, &l.MatchStatus, &l.MatchScore); err != nil {
			return nil, fmt.Errorf("store: scan link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// DeleteRun removes a run and its links (cascading via foreign key).
func (s *Store) DeleteRun(id string) error {
	result, err := s.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete run %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete run %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("store: run %s: %w", id, ErrNotFound)
	}
	return nil
}
