// Package matchengine drives pkg/recordmatcher against named tables
// and persists the outcome through internal/store. It is the one
// place the CLI, REST API, and MCP server all call through so a run
// recorded from any surface looks the same in history.
package matchengine
