package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/agora/internal/debate"
	"github.com/HendryAvila/agora/internal/protocol"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListTool handles the debate_list MCP tool.
type ListTool struct {
	debates Debates
}

// NewListTool creates a ListTool.
func NewListTool(d Debates) *ListTool {
	return &ListTool{debates: d}
}

// Definition returns the MCP tool definition for registration.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("debate_list",
		mcp.WithDescription("List debates, newest first, optionally filtered by state."),
		mcp.WithString("state",
			mcp.Description("Only list debates in this state"),
			mcp.Enum(stateValues()...),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of debates to return (default: server setting)"),
		),
	)
}

// Handle processes the debate_list tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var opts debate.ListOptions
	if s := strings.TrimSpace(req.GetString("state", "")); s != "" {
		st, err := protocol.ParseState(strings.ToUpper(s))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts.State = st
	}
	opts.Limit = intArg(req, "limit", 0)
	if opts.Limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	debates, err := t.debates.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing debates: %w", err)
	}
	if len(debates) == 0 {
		return mcp.NewToolResultText("No debates found. Open one with `debate_create`."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Debates (%d)\n\n", len(debates))
	b.WriteString("| ID | Title | Type | State | Arguments | Updated |\n")
	b.WriteString("|----|-------|------|-------|-----------|---------|\n")
	for _, d := range debates {
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %d | %s |\n",
			d.ID, d.Title, d.Type, d.State, d.LastSeq, d.UpdatedAt)
	}
	return mcp.NewToolResultText(b.String()), nil
}
