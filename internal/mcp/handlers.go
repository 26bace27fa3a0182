package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jtai-dev/record-matcher/internal/matchengine"
	"github.com/jtai-dev/record-matcher/pkg/recordmatcher"
)

// handleMatchRecords runs a match and persists it, mirroring the REST
// API's POST /v1/match request shape.
func (s *Server) handleMatchRecords(_ context.Context, argsJSON json.RawMessage) (interface{}, error) {
	var params MatchRecordsParams
	if err := json.Unmarshal(argsJSON, &params); err != nil {
		return nil, fmt.Errorf("invalid match_records arguments: %w", err)
	}

	if len(params.X) == 0 || len(params.Y) == 0 {
		return nil, fmt.Errorf("x and y must each contain at least one row")
	}
	if len(params.ColumnsToMatch) == 0 {
		return nil, fmt.Errorf("columns_to_match must contain at least one column spec")
	}

	x, err := toTable(params.X)
	if err != nil {
		return nil, fmt.Errorf("invalid x table: %w", err)
	}
	y, err := toTable(params.Y)
	if err != nil {
		return nil, fmt.Errorf("invalid y table: %w", err)
	}

	cfg := recordmatcher.NewConfig(s.registry)
	cfg.SetTables(x, y)

	for _, spec := range params.ColumnsToMatch {
		if err := cfg.AddColumnToMatch(spec.XColumn, spec.YColumns...); err != nil {
			return nil, err
		}
		if spec.Scorer != "" {
			if err := cfg.SetScorerForColumn(spec.XColumn, spec.Scorer); err != nil {
				return nil, err
			}
		}
		if spec.Threshold != nil {
			if err := cfg.SetThresholdForColumn(spec.XColumn, *spec.Threshold); err != nil {
				return nil, err
			}
		}
		if spec.Cutoff != nil {
			if err := cfg.SetCutoffForColumn(spec.XColumn, *spec.Cutoff); err != nil {
				return nil, err
			}
		}
	}
	for yCol, dest := range params.ColumnsToGet {
		if err := cfg.SetColumnToGet(yCol, dest); err != nil {
			return nil, err
		}
	}
	for yCol, xCol := range params.ColumnsToGroup {
		if err := cfg.SetColumnToGroup(yCol, xCol); err != nil {
			return nil, err
		}
	}

	matcher := recordmatcher.NewMatcher()
	if params.RequiredThreshold != nil {
		matcher.RequiredThreshold = *params.RequiredThreshold
	}
	if params.DuplicateThreshold != nil {
		matcher.DuplicateThreshold = *params.DuplicateThreshold
	}

	xSource, ySource := params.XSource, params.YSource
	if xSource == "" {
		xSource = "inline"
	}
	if ySource == "" {
		ySource = "inline"
	}

	result, err := s.engine.Run(matchengine.RunOptions{
		XSource: xSource,
		YSource: ySource,
		X:       x,
		Y:       y,
		Config:  cfg,
		Matcher: matcher,
	})
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"run_id":  result.Run.ID,
		"summary": result.Run.Summary,
		"result":  result.Result,
	}, nil
}

// handleListRuns lists recorded runs, newest first.
func (s *Server) handleListRuns(_ context.Context, argsJSON json.RawMessage) (interface{}, error) {
	var params ListRunsParams
	if err := json.Unmarshal(argsJSON, &params); err != nil {
		return nil, fmt.Errorf("invalid list_runs arguments: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	runs, err := s.engine.ListRuns(limit)
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// handleGetRun retrieves a run's metadata and links by id.
func (s *Server) handleGetRun(_ context.Context, argsJSON json.RawMessage) (interface{}, error) {
	var params GetRunParams
	if err := json.Unmarshal(argsJSON, &params); err != nil {
		return nil, fmt.Errorf("invalid get_run arguments: %w", err)
	}
	if params.RunID == "" {
		return nil, fmt.Errorf("run_id is required")
	}

	run, links, err := s.engine.GetRun(params.RunID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"run": run, "links": links}, nil
}

// toTable converts the loosely-typed JSON tool arguments into a
// recordmatcher.Table, keyed by integer row id.
func toTable(raw map[string]map[string]string) (recordmatcher.Table, error) {
	table := make(recordmatcher.Table, len(raw))
	for key, record := range raw {
		id, err := parseRowID(key)
		if err != nil {
			return nil, err
		}
		table[id] = record
	}
	return table, nil
}

func parseRowID(key string) (int, error) {
	var id int
	if _, err := fmt.Sscanf(key, "%d", &id); err != nil {
		return 0, fmt.Errorf("row id %q is not an integer", key)
	}
	return id, nil
}
