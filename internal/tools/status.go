package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/agora/internal/protocol"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatusTool handles the debate_status MCP tool.
// It shows the current state and what each role may submit next.
type StatusTool struct {
	debates Debates
}

// NewStatusTool creates a StatusTool.
func NewStatusTool(d Debates) *StatusTool {
	return &StatusTool{debates: d}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("debate_status",
		mcp.WithDescription(
			"Show a debate's current state and the actions available next. "+
				"If `role` is provided, only that role's actions are listed.",
		),
		mcp.WithString("debate_id",
			mcp.Required(),
			mcp.Description("The debate to inspect"),
		),
		mcp.WithString("role",
			mcp.Description("Only list actions for this role"),
			mcp.Enum(roleValues()...),
		),
	)
}

// Handle processes the debate_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roleArg := strings.TrimSpace(req.GetString("role", ""))
	var role protocol.Role
	if roleArg != "" {
		r, err := protocol.ParseRole(roleArg)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		role = r
	}

	st, err := t.debates.Status(ctx, req.GetString("debate_id", ""))
	if err != nil {
		return toolError(err)
	}
	d := st.Debate

	var actions string
	switch {
	case d.State.IsTerminal():
		actions = "The debate is closed. No further arguments are accepted."
	case role != "":
		actions = fmt.Sprintf("**%s:** %s", role, joinActions(st.Actions[role]))
	default:
		actions = actionsTable(st.Actions)
	}

	response := fmt.Sprintf(
		"# Debate Status\n\n"+
			"**ID:** `%s`\n"+
			"**Title:** %s\n"+
			"**Type:** %s\n"+
			"**State:** %s\n"+
			"**Arguments:** %d\n"+
			"**Created:** %s\n"+
			"**Updated:** %s\n\n"+
			"## Available Actions\n\n%s",
		d.ID, d.Title, d.Type, d.State, d.LastSeq, d.CreatedAt, d.UpdatedAt, actions,
	)
	return mcp.NewToolResultText(response), nil
}
