package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jtai-dev/record-matcher/internal/api"
	"github.com/jtai-dev/record-matcher/internal/mcp"
	"github.com/jtai-dev/record-matcher/pkg/config"
)

var serveMCP bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API server, or the MCP server with --mcp",
	Long: `Start recordmatcher as a long-running server.

By default serve runs the REST API (see pkg/config for host, port, and
CORS settings). Pass --mcp to instead run the Model Context Protocol
server, which speaks JSON-RPC 2.0 over stdin/stdout for AI agents.`,
	Run: func(cmd *cobra.Command, args []string) {
		if serveMCP {
			runMCPServer()
		} else {
			runAPIServer()
		}
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "run the MCP server (JSON-RPC over stdin/stdout) instead of the REST API")
	rootCmd.AddCommand(serveCmd)
}

func runAPIServer() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	db, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	server := api.NewServer(db, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.StartWithContext(ctx, 10*time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "REST API server error: %v\n", err)
		os.Exit(1)
	}
}

func runMCPServer() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	db, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	registry := api.NewScorerRegistry()
	server := mcp.NewServer(db, cfg, registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}
