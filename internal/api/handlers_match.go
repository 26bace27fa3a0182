package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jtai-dev/record-matcher/internal/matchengine"
	"github.com/jtai-dev/record-matcher/pkg/recordmatcher"
)

func runOptions(xSource, ySource string, x, y recordmatcher.Table, cfg *recordmatcher.Config, matcher *recordmatcher.Matcher) matchengine.RunOptions {
	return matchengine.RunOptions{
		XSource: xSource,
		YSource: ySource,
		X:       x,
		Y:       y,
		Config:  cfg,
		Matcher: matcher,
	}
}

// matchColumnSpec describes how one X column should be matched
// against one or more Y columns in a POST /v1/match request.
type matchColumnSpec struct {
	XColumn    string   `json:"x_column" binding:"required"`
	YColumns   []string `json:"y_columns" binding:"required"`
	Scorer     string   `json:"scorer"`
	Threshold  *float64 `json:"threshold"`
	Cutoff     *bool    `json:"cutoff"`
}

// matchRequest is the POST /v1/match request body. X and Y are
// row-id-keyed tables, matching pkg/recordmatcher.Table's JSON shape.
type matchRequest struct {
	XSource             string                       `json:"x_source"`
	YSource              string                      `json:"y_source"`
	X                    recordmatcher.Table         `json:"x" binding:"required"`
	Y                    recordmatcher.Table         `json:"y" binding:"required"`
	ColumnsToMatch       []matchColumnSpec            `json:"columns_to_match" binding:"required"`
	ColumnsToGet         map[string]string            `json:"columns_to_get"`
	ColumnsToGroup       map[string]string             `json:"columns_to_group"`
	RequiredThreshold    *float64                     `json:"required_threshold"`
	DuplicateThreshold   *float64                     `json:"duplicate_threshold"`
}

func (s *Server) createMatch(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequestError(c, "invalid request body: "+err.Error())
		return
	}
	if len(req.X) == 0 || len(req.Y) == 0 {
		BadRequestError(c, "x and y must each contain at least one row")
		return
	}

	cfg := recordmatcher.NewConfig(s.registry)
	cfg.SetTables(req.X, req.Y)

	for _, spec := range req.ColumnsToMatch {
		if err := cfg.AddColumnToMatch(spec.XColumn, spec.YColumns...); err != nil {
			BadRequestError(c, err.Error())
			return
		}
		if spec.Scorer != "" {
			if err := cfg.SetScorerForColumn(spec.XColumn, spec.Scorer); err != nil {
				BadRequestError(c, err.Error())
				return
			}
		}
		if spec.Threshold != nil {
			if err := cfg.SetThresholdForColumn(spec.XColumn, *spec.Threshold); err != nil {
				BadRequestError(c, err.Error())
				return
			}
		}
		if spec.Cutoff != nil {
			if err := cfg.SetCutoffForColumn(spec.XColumn, *spec.Cutoff); err != nil {
				BadRequestError(c, err.Error())
				return
			}
		}
	}
	for yCol, dest := range req.ColumnsToGet {
		if err := cfg.SetColumnToGet(yCol, dest); err != nil {
			BadRequestError(c, err.Error())
			return
		}
	}
	for yCol, xCol := range req.ColumnsToGroup {
		if err := cfg.SetColumnToGroup(yCol, xCol); err != nil {
			BadRequestError(c, err.Error())
			return
		}
	}

	matcher := recordmatcher.NewMatcher()
	if req.RequiredThreshold != nil {
		matcher.RequiredThreshold = *req.RequiredThreshold
	}
	if req.DuplicateThreshold != nil {
		matcher.DuplicateThreshold = *req.DuplicateThreshold
	}

	xSource, ySource := req.XSource, req.YSource
	if xSource == "" {
		xSource = "inline"
	}
	if ySource == "" {
		ySource = "inline"
	}

	result, err := s.engine.Run(runOptions(xSource, ySource, req.X, req.Y, cfg, matcher))
	if err != nil {
		InternalError(c, "match run failed: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, &Response{
		Success: true,
		Message: "match completed",
		Data: gin.H{
			"run_id":  result.Run.ID,
			"summary": result.Run.Summary,
			"result":  result.Result,
		},
	})
}

func (s *Server) listRuns(c *gin.Context) {
	limit := clampLimit(parseIntQuery(c, "limit", DefaultLimit))
	runs, err := s.engine.ListRuns(limit)
	if err != nil {
		InternalError(c, "failed to list runs: "+err.Error())
		return
	}
	SuccessResponse(c, "ok", runs)
}

func (s *Server) getRun(c *gin.Context) {
	id := c.Param("id")
	run, links, err := s.engine.GetRun(id)
	if err != nil {
		NotFoundErrorWithID(c, id)
		return
	}
	SuccessResponse(c, "ok", gin.H{"run": run, "links": links})
}

func (s *Server) getRunGraph(c *gin.Context) {
	id := c.Param("id")
	graph, err := s.linkingService.MapGraph(id)
	if err != nil {
		NotFoundErrorWithID(c, id)
		return
	}
	SuccessResponse(c, "ok", graph)
}

func (s *Server) getRunClusters(c *gin.Context) {
	id := c.Param("id")
	clusters, err := s.linkingService.FindClusters(id)
	if err != nil {
		NotFoundErrorWithID(c, id)
		return
	}
	SuccessResponse(c, "ok", clusters)
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
