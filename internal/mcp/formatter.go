package mcp

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jtai-dev/record-matcher/internal/store"
	"github.com/jtai-dev/record-matcher/pkg/recordmatcher"
)

// Formatter handles UX-friendly output formatting for MCP responses.
type Formatter struct{}

// NewFormatter creates a new formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// FormatToolResponse formats a tool response with rich UX elements.
func (f *Formatter) FormatToolResponse(toolName string, result interface{}, duration time.Duration) string {
	var sb strings.Builder

	icon := f.getToolIcon(toolName)
	sb.WriteString(fmt.Sprintf("\n%s **%s**\n", icon, f.formatToolName(toolName)))
	sb.WriteString(f.getToolTagline(toolName))
	sb.WriteString("\n")
	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	switch toolName {
	case "match_records":
		sb.WriteString(f.formatMatchRecords(result))
	case "list_runs":
		sb.WriteString(f.formatListRuns(result))
	case "get_run":
		sb.WriteString(f.formatGetRun(result))
	default:
		sb.WriteString(f.fallbackJSON(result))
	}

	sb.WriteString("\n\n")
	sb.WriteString(f.formatPerformance(duration))

	suggestions := f.getSuggestions(toolName)
	if len(suggestions) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString("Next Steps\n")
		for _, s := range suggestions {
			sb.WriteString(fmt.Sprintf("   -> %s\n", s))
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString("<details>\n<summary>Raw JSON Response</summary>\n\n```json\n")
	jsonBytes, _ := json.MarshalIndent(result, "", "  ")
	sb.WriteString(string(jsonBytes))
	sb.WriteString("\n```\n</details>")

	return sb.String()
}

func (f *Formatter) getToolIcon(toolName string) string {
	icons := map[string]string{
		"match_records": "\U0001F517",
		"list_runs":     "\U0001F4CB",
		"get_run":       "\U0001F4D6",
	}
	if icon, ok := icons[toolName]; ok {
		return icon
	}
	return "*"
}

func (f *Formatter) formatToolName(name string) string {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		parts[i] = strings.Title(p)
	}
	return strings.Join(parts, " ")
}

func (f *Formatter) getToolTagline(toolName string) string {
	taglines := map[string]string{
		"match_records": "Linking two tables and recording the outcome",
		"list_runs":     "Reviewing prior match runs",
		"get_run":       "Inspecting one run's matches in detail",
	}
	if tagline, ok := taglines[toolName]; ok {
		return fmt.Sprintf("*%s*", tagline)
	}
	return ""
}

func (f *Formatter) formatMatchRecords(result interface{}) string {
	data, ok := result.(map[string]interface{})
	if !ok {
		return f.fallbackJSON(result)
	}

	var sb strings.Builder
	runID, _ := data["run_id"].(string)
	sb.WriteString("Match run completed\n\n")
	sb.WriteString(fmt.Sprintf("Run ID: `%s`\n\n", runID))

	if summary, ok := data["summary"].(recordmatcher.Summary); ok {
		sb.WriteString("```yaml\n")
		for status, count := range summary {
			sb.WriteString(fmt.Sprintf("%s: %d\n", status, count))
		}
		sb.WriteString("```\n\n")
	}

	if table, ok := data["result"].(recordmatcher.Table); ok {
		sb.WriteString(fmt.Sprintf("Rows in result: %d\n", len(table)))
	}

	return sb.String()
}

func (f *Formatter) formatListRuns(result interface{}) string {
	runs, ok := result.([]store.Run)
	if !ok {
		return f.fallbackJSON(result)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found **%d** run(s)\n\n", len(runs)))
	if len(runs) == 0 {
		return sb.String()
	}

	sb.WriteString("```\n")
	sb.WriteString(fmt.Sprintf("%-36s %10s %10s %s\n", "RUN ID", "X ROWS", "Y ROWS", "CREATED"))
	for _, r := range runs {
		sb.WriteString(fmt.Sprintf("%-36s %10d %10d %s\n", r.ID, r.XRowCount, r.YRowCount, r.CreatedAt.Format("2006-01-02 15:04")))
	}
	sb.WriteString("```\n")

	return sb.String()
}

func (f *Formatter) formatGetRun(result interface{}) string {
	data, ok := result.(map[string]interface{})
	if !ok {
		return f.fallbackJSON(result)
	}

	var sb strings.Builder
	if run, ok := data["run"].(*store.Run); ok && run != nil {
		sb.WriteString(fmt.Sprintf("Run `%s`\n\n", run.ID))
		sb.WriteString("```yaml\n")
		sb.WriteString(fmt.Sprintf("x_source: %s\n", run.XSource))
		sb.WriteString(fmt.Sprintf("y_source: %s\n", run.YSource))
		sb.WriteString(fmt.Sprintf("x_rows: %d\n", run.XRowCount))
		sb.WriteString(fmt.Sprintf("y_rows: %d\n", run.YRowCount))
		sb.WriteString(fmt.Sprintf("required_threshold: %.1f\n", run.RequiredThreshold))
		sb.WriteString(fmt.Sprintf("duration_ms: %d\n", run.DurationMS))
		sb.WriteString("```\n\n")
	}

	if links, ok := data["links"].([]store.Link); ok {
		sb.WriteString(fmt.Sprintf("%d link row(s)\n", len(links)))
	}

	return sb.String()
}

func (f *Formatter) formatPerformance(duration time.Duration) string {
	ms := duration.Milliseconds()
	var speedIcon string
	switch {
	case ms < 100:
		speedIcon = "fast"
	case ms < 1000:
		speedIcon = "ok"
	default:
		speedIcon = "slow"
	}
	return fmt.Sprintf("(%s) Completed in %dms", speedIcon, ms)
}

func (f *Formatter) getSuggestions(toolName string) []string {
	suggestions := map[string][]string{
		"match_records": {
			"Use `get_run` with the returned run_id to inspect links",
			"Use `list_runs` to compare against earlier runs",
		},
		"list_runs": {
			"Use `get_run` to see a specific run's matched links",
		},
		"get_run": {
			"Use `list_runs` to find other runs over the same tables",
		},
	}

	if s, ok := suggestions[toolName]; ok {
		return s
	}
	return nil
}

func (f *Formatter) fallbackJSON(result interface{}) string {
	jsonBytes, _ := json.MarshalIndent(result, "", "  ")
	return string(jsonBytes)
}
