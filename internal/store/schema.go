package store

// SchemaVersion identifies the current schema. Bump it and add a
// migration in InitSchema whenever CoreSchema changes shape.
const SchemaVersion = 1

// CoreSchema creates the tables that back run history. It is safe to
// run against an already-initialized database: every statement is
// IF NOT EXISTS.
const CoreSchema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS schema_version (
	version    INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- runs records one execution of the matcher: which config it used and
-- the resulting status histogram.
CREATE TABLE IF NOT EXISTS runs (
	id                  TEXT PRIMARY KEY,
	created_at          DATETIME DEFAULT CURRENT_TIMESTAMP,
	x_source            TEXT NOT NULL,
	y_source            TEXT NOT NULL,
	x_row_count         INTEGER NOT NULL DEFAULT 0,
	y_row_count         INTEGER NOT NULL DEFAULT 0,
	required_threshold  REAL NOT NULL,
	duplicate_threshold REAL NOT NULL,
	config_json         TEXT NOT NULL,
	summary_json        TEXT NOT NULL,
	duration_ms         INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);

-- links records, for one X row in one run, which Y row(s) it resolved
-- to and under what status. y_ids is the empty string for rows left
-- with no Y row (UNMATCHED, and rows demoted to UNMATCHED).
CREATE TABLE IF NOT EXISTS links (
	run_id        TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	x_id          INTEGER NOT NULL,
	y_ids         TEXT NOT NULL DEFAULT '',
	match_status  TEXT NOT NULL CHECK (match_status IN ('UNMATCHED', 'MATCHED', 'AMBIGUOUS', 'REVIEW', 'DUPLICATE')),
	match_score   TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, x_id)
);

CREATE INDEX IF NOT EXISTS idx_links_run_status ON links(run_id, match_status);
CREATE INDEX IF NOT EXISTS idx_links_run_y ON links(run_id, y_ids);
`
