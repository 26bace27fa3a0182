package matchengine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jtai-dev/record-matcher/internal/logging"
	"github.com/jtai-dev/record-matcher/internal/store"
	"github.com/jtai-dev/record-matcher/pkg/recordmatcher"
)

var log = logging.GetLogger("matchengine")

// Engine executes match runs and records them.
type Engine struct {
	store *store.Store
}

// NewEngine returns an Engine that persists runs to s.
func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s}
}

// RunOptions describes one match invocation.
type RunOptions struct {
	XSource string
	YSource string
	X       recordmatcher.Table
	Y       recordmatcher.Table
	Config  *recordmatcher.Config
	Matcher *recordmatcher.Matcher
	// Progress, if set, is forwarded to the matcher's progress
	// callback; useful for CLI progress bars.
	Progress recordmatcher.ProgressFunc
}

// RunResult bundles a persisted run's metadata with the full result
// table returned by the engine, for callers that want both the
// durable record and the in-memory detail in one call.
type RunResult struct {
	Run    store.Run
	Links  []store.Link
	Result recordmatcher.Table
}

// Run executes opts.Matcher.Match, persists the outcome, and returns
// both the stored run and the live result table.
func (e *Engine) Run(opts RunOptions) (*RunResult, error) {
	if opts.Matcher == nil {
		opts.Matcher = recordmatcher.NewMatcher()
	}

	start := time.Now()
	result, summary, err := opts.Matcher.Match(opts.X, opts.Y, opts.Config, opts.Progress)
	if err != nil {
		log.Error("run failed", "error", err, "x_source", opts.XSource, "y_source", opts.YSource)
		return nil, fmt.Errorf("matchengine: run: %w", err)
	}
	elapsed := time.Since(start)

	run := store.Run{
		ID:                 uuid.NewString(),
		XSource:            opts.XSource,
		YSource:            opts.YSource,
		XRowCount:          len(opts.X),
		YRowCount:          len(opts.Y),
		RequiredThreshold:  opts.Matcher.RequiredThreshold,
		DuplicateThreshold: opts.Matcher.DuplicateThreshold,
		Config:             store.NewConfigSnapshot(opts.Config),
		Summary:            summary,
		DurationMS:         elapsed.Milliseconds(),
	}
	links := store.LinksFromResult(result, opts.Matcher.Columns)

	if err := e.store.CreateRun(run, links); err != nil {
		return nil, fmt.Errorf("matchengine: persist run: %w", err)
	}

	log.Info("run completed", "run_id", run.ID, "x_rows", run.XRowCount, "y_rows", run.YRowCount,
		"duration_ms", run.DurationMS, "summary", summary)

	return &RunResult{Run: run, Links: links, Result: result}, nil
}

// GetRun loads a previously recorded run along with its links.
func (e *Engine) GetRun(id string) (*store.Run, []store.Link, error) {
	run, err := e.store.GetRun(id)
	if err != nil {
		return nil, nil, fmt.Errorf("matchengine: get run %s: %w", id, err)
	}
	links, err := e.store.GetLinks(id)
	if err != nil {
		return nil, nil, fmt.Errorf("matchengine: get links for run %s: %w", id, err)
	}
	return run, links, nil
}

// ListRuns returns the most recent runs, newest first.
func (e *Engine) ListRuns(limit int) ([]store.Run, error) {
	runs, err := e.store.ListRuns(limit)
	if err != nil {
		return nil, fmt.Errorf("matchengine: list runs: %w", err)
	}
	return runs, nil
}
