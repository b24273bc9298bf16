package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// maxEntryPreview bounds each argument's content in the summary view.
const maxEntryPreview = 300

// LogTool handles the debate_log MCP tool. It prints the append-only
// argument log in seq order.
type LogTool struct {
	debates Debates
}

// NewLogTool creates a LogTool.
func NewLogTool(d Debates) *LogTool {
	return &LogTool{debates: d}
}

// Definition returns the MCP tool definition for registration.
func (t *LogTool) Definition() mcp.Tool {
	return mcp.NewTool("debate_log",
		mcp.WithDescription(
			"Show a debate's arguments in the order they were recorded, "+
				"starting with the motion.",
		),
		mcp.WithString("debate_id",
			mcp.Required(),
			mcp.Description("The debate to read"),
		),
		mcp.WithBoolean("full",
			mcp.Description("If true, show complete argument content instead of previews"),
		),
	)
}

// Handle processes the debate_log tool call.
func (t *LogTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("debate_id", "")
	full := boolArg(req, "full", false)

	args, err := t.debates.Arguments(ctx, id)
	if err != nil {
		return toolError(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Debate Log `%s` (%d arguments)\n", id, len(args))
	for _, a := range args {
		label := string(a.Type)
		if a.Close {
			label += " (close)"
		}
		fmt.Fprintf(&b, "\n## %d. %s by %s\n\n", a.Seq, label, a.Role)
		fmt.Fprintf(&b, "**ID:** `%s`", a.ID)
		if a.ParentID != nil {
			fmt.Fprintf(&b, " | **Replying to:** `%s`", *a.ParentID)
		}
		fmt.Fprintf(&b, " | **At:** %s\n\n", a.CreatedAt)

		content := a.Content
		if !full {
			content = truncate(content, maxEntryPreview)
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
