package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/agora/internal/protocol"
	"github.com/mark3labs/mcp-go/mcp"
)

// CheckTool handles the debate_check MCP tool: a stateless dry run of
// the protocol for a given state. It never touches storage, so hosts can
// pre-validate a move before calling debate_submit.
type CheckTool struct{}

// NewCheckTool creates a CheckTool.
func NewCheckTool() *CheckTool {
	return &CheckTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *CheckTool) Definition() mcp.Tool {
	return mcp.NewTool("debate_check",
		mcp.WithDescription(
			"Dry-run the debate protocol: report whether `role` may submit an argument "+
				"of `type` in `state`, and which state it would lead to. Does not read "+
				"or change any debate.",
		),
		mcp.WithString("state",
			mcp.Required(),
			mcp.Description("The debate state to check against"),
			mcp.Enum(stateValues()...),
		),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("Who would submit"),
			mcp.Enum(roleValues()...),
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Argument type to check"),
			mcp.Enum(submittableTypes()...),
		),
		mcp.WithBoolean("close",
			mcp.Description("RULING only. Check a closing ruling"),
		),
	)
}

// Handle processes the debate_check tool call.
func (t *CheckTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := protocol.ParseState(strings.ToUpper(strings.TrimSpace(req.GetString("state", ""))))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	role, err := protocol.ParseRole(strings.TrimSpace(req.GetString("role", "")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	typ, err := protocol.ParseArgumentType(strings.ToUpper(strings.TrimSpace(req.GetString("type", ""))))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ev, ok := protocol.EventForArgument(typ, role, protocol.WithClose(boolArg(req, "close", false)))
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf(
			"# ❌ Invalid Event\n\n%s by %s is never a valid submission.\n\n"+
				"## Allowed in %s\n\n%s",
			typ, role, state, actionsTable(protocol.ActionsByRole(state)),
		)), nil
	}

	next, ok := protocol.ApplyTransition(state, ev)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf(
			"# ❌ Not Allowed\n\n%s is not allowed in %s.\n\n## Allowed in %s\n\n%s",
			ev, state, state, actionsTable(protocol.ActionsByRole(state)),
		)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"# ✅ Allowed\n\n%s is allowed in %s.\n\n**Action:** %s\n**Leads to:** %s\n",
		ev, state, protocol.ActionFor(ev), next,
	)), nil
}
