// Package mcp provides a Model Context Protocol server implementation.
//
// Implements JSON-RPC 2.0 over stdio, exposing match_records,
// list_runs, and get_run as tools an AI agent can call directly.
package mcp
