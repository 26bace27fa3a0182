// Command recordmatcher runs fuzzy record linkage between two tables
// from the command line, as a REST+MCP server, or reports on past runs.
package main

func main() {
	Execute()
}
