package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jtai-dev/record-matcher/internal/linking"
	"github.com/jtai-dev/record-matcher/internal/logging"
	"github.com/jtai-dev/record-matcher/internal/matchengine"
	"github.com/jtai-dev/record-matcher/internal/ratelimit"
	"github.com/jtai-dev/record-matcher/internal/store"
	"github.com/jtai-dev/record-matcher/pkg/config"
	"github.com/jtai-dev/record-matcher/pkg/recordmatcher"
)

const (
	ProtocolVersion = "2024-11-05"
	ServerName      = "record-matcher"
	ServerVersion   = "1.0.0"
)

// Server implements the MCP server over stdio.
type Server struct {
	store          *store.Store
	cfg            *config.Config
	engine         *matchengine.Engine
	linkingService *linking.Service
	registry       *recordmatcher.Registry
	rateLimiter    *ratelimit.Limiter
	formatter      *Formatter
	log            *logging.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	mu          sync.Mutex
	initialized bool
}

// NewServer creates a new MCP server instance.
func NewServer(db *store.Store, cfg *config.Config, registry *recordmatcher.Registry) *Server {
	log := logging.GetLogger("mcp")
	log.Info("initializing MCP server", "version", ServerVersion, "protocol", ProtocolVersion)

	var rateLimiterInstance *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		rateLimiterInstance = ratelimit.NewLimiter(&cfg.RateLimit)
		log.Info("rate limiting enabled", "global_rps", cfg.RateLimit.Global.RequestsPerSecond)
	}

	return &Server{
		store:          db,
		cfg:            cfg,
		engine:         matchengine.NewEngine(db),
		linkingService: linking.NewService(db),
		registry:       registry,
		rateLimiter:    rateLimiterInstance,
		formatter:      NewFormatter(),
		log:            log,
		stdin:          os.Stdin,
		stdout:         os.Stdout,
		stderr:         os.Stderr,
	}
}

// Run starts the MCP server main loop.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("starting MCP server main loop")
	scanner := bufio.NewScanner(s.stdin)
	scanner.Buffer(make([]byte, 1024*1024), 10*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			s.log.Info("context cancelled, shutting down")
			return ctx.Err()
		default:
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		response := s.handleRequest(ctx, line)
		if response != nil {
			s.sendResponse(response)
		}
	}

	if err := scanner.Err(); err != nil {
		s.log.Error("scanner error", "error", err)
		return fmt.Errorf("scanner error: %w", err)
	}

	s.log.Info("MCP server shutdown complete")
	return nil
}

// handleRequest processes a single JSON-RPC request.
func (s *Server) handleRequest(ctx context.Context, line string) *Response {
	var req Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		s.log.Error("failed to parse request", "error", err)
		return &Response{
			JSONRPC: "2.0",
			Error: &RPCError{
				Code:    ParseError,
				Message: "Parse error",
				Data:    err.Error(),
			},
		}
	}

	s.log.Debug("received request", "method", req.Method, "id", req.ID)

	if req.JSONRPC != "2.0" {
		s.log.Warn("invalid jsonrpc version", "version", req.JSONRPC)
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &RPCError{
				Code:    InvalidRequest,
				Message: "Invalid Request",
				Data:    "jsonrpc must be '2.0'",
			},
		}
	}

	switch req.Method {
	case "initialize":
		s.log.Info("handling initialize request")
		return s.handleInitialize(req)
	case "initialized":
		s.log.Debug("received initialized notification")
		return nil
	case "tools/list":
		s.log.Debug("handling tools/list request")
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		s.log.Debug("handling ping request")
		return &Response{JSONRPC: "2.0", ID: req.ID, Result: map[string]interface{}{}}
	default:
		s.log.Warn("method not found", "method", req.Method)
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &RPCError{
				Code:    MethodNotFound,
				Message: "Method not found",
				Data:    req.Method,
			},
		}
	}
}

// handleInitialize handles the initialize request.
func (s *Server) handleInitialize(req Request) *Response {
	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities: ServerCapabilities{
				Tools: &ToolsCapability{ListChanged: false},
			},
			ServerInfo: ServerInfo{Name: ServerName, Version: ServerVersion},
		},
	}
}

// handleToolsList returns the list of available tools.
func (s *Server) handleToolsList(req Request) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  ToolsListResult{Tools: s.getToolDefinitions()},
	}
}

// handleToolsCall handles tool invocation.
func (s *Server) handleToolsCall(ctx context.Context, req Request) *Response {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.log.Error("failed to parse tool params", "error", err)
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &RPCError{
				Code:    InvalidParams,
				Message: "Invalid params",
				Data:    err.Error(),
			},
		}
	}

	s.log.LogRequest("tools/call", "tool", params.Name)

	if s.rateLimiter != nil {
		result := s.rateLimiter.Allow(params.Name)
		if !result.Allowed {
			s.log.Warn("rate limit exceeded", "tool", params.Name, "limit_type", result.LimitType,
				"retry_after_ms", result.RetryAfter.Milliseconds())
			return &Response{
				JSONRPC: "2.0",
				ID:      req.ID,
				Error: &RPCError{
					Code:    RateLimitExceeded,
					Message: "Rate limit exceeded",
					Data: RateLimitErrorData{
						RetryAfterMs: result.RetryAfter.Milliseconds(),
						LimitType:    result.LimitType,
						Message:      fmt.Sprintf("Rate limit exceeded for %s. Retry after %v.", result.LimitType, result.RetryAfter),
					},
				},
			}
		}
	}

	startTime := time.Now()
	result, err := s.callTool(ctx, params.Name, params.Arguments)
	if err != nil {
		duration := time.Since(startTime).Seconds() * 1000
		s.log.LogError("tool_call", err, "tool", params.Name, "duration_ms", duration)
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: CallToolResult{
				Content: []ContentBlock{
					{Type: "text", Text: fmt.Sprintf("Error\n\n```\n%v\n```", err)},
				},
				IsError: true,
			},
		}
	}

	duration := time.Since(startTime)
	durationMs := duration.Seconds() * 1000
	s.log.LogResponse("tools/call", durationMs, "tool", params.Name)

	formattedOutput := s.formatter.FormatToolResponse(params.Name, result, duration)

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: CallToolResult{
			Content: []ContentBlock{{Type: "text", Text: formattedOutput}},
		},
	}
}

// callTool dispatches to the appropriate tool handler.
func (s *Server) callTool(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal arguments: %w", err)
	}

	switch name {
	case "match_records":
		return s.handleMatchRecords(ctx, argsJSON)
	case "list_runs":
		return s.handleListRuns(ctx, argsJSON)
	case "get_run":
		return s.handleGetRun(ctx, argsJSON)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// sendResponse sends a JSON-RPC response to stdout.
func (s *Server) sendResponse(resp *Response) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("failed to marshal response", "error", err)
		return
	}

	fmt.Fprintln(s.stdout, string(data))
}

// getToolDefinitions returns all tool definitions.
func (s *Server) getToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "match_records",
			Description: "Run fuzzy record linkage between two tables and persist the result",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"x_source": {Type: "string", Description: "Label for the left table's origin"},
					"y_source": {Type: "string", Description: "Label for the right table's origin"},
					"x": {
						Type:                 "object",
						Description:          "Row-id-keyed left table: {\"1\": {\"col\": \"value\"}}",
						AdditionalProperties: &Property{Type: "object"},
					},
					"y": {
						Type:                 "object",
						Description:          "Row-id-keyed right table",
						AdditionalProperties: &Property{Type: "object"},
					},
					"columns_to_match": {
						Type:        "array",
						Description: "Column pairing specs: x_column, y_columns, optional scorer/threshold/cutoff",
						Items:       &Property{Type: "object"},
					},
					"columns_to_get": {
						Type:                 "object",
						Description:          "Extra Y columns to copy into the result, keyed by Y column name",
						AdditionalProperties: &Property{Type: "string"},
					},
					"columns_to_group": {
						Type:                 "object",
						Description:          "Blocking: Y column -> X column; only Y rows whose value equals the X row's value are candidates",
						AdditionalProperties: &Property{Type: "string"},
					},
					"required_threshold":  {Type: "number", Description: "Minimum composite score required for a match"},
					"duplicate_threshold": {Type: "number", Description: "Score gap under which tied matches are flagged DUPLICATE"},
				},
				Required: []string{"x", "y", "columns_to_match"},
			},
		},
		{
			Name:        "list_runs",
			Description: "List recorded match runs, most recent first",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"limit": {Type: "integer", Description: "Maximum number of runs to return", Default: 50},
				},
			},
		},
		{
			Name:        "get_run",
			Description: "Retrieve a recorded match run's metadata and links by id",
			InputSchema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"run_id": {Type: "string", Description: "Run id"}},
				Required:   []string{"run_id"},
			},
		},
	}
}
