package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// VerifyTool handles the debate_verify MCP tool. It replays the stored
// log through the protocol engine and compares the result with the
// recorded state.
type VerifyTool struct {
	debates Debates
}

// NewVerifyTool creates a VerifyTool.
func NewVerifyTool(d Debates) *VerifyTool {
	return &VerifyTool{debates: d}
}

// Definition returns the MCP tool definition for registration.
func (t *VerifyTool) Definition() mcp.Tool {
	return mcp.NewTool("debate_verify",
		mcp.WithDescription(
			"Check that a debate's recorded state matches a replay of its argument log.",
		),
		mcp.WithString("debate_id",
			mcp.Required(),
			mcp.Description("The debate to verify"),
		),
	)
}

// Handle processes the debate_verify tool call.
func (t *VerifyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := t.debates.Verify(ctx, req.GetString("debate_id", ""))
	if err != nil {
		return toolError(err)
	}

	verdict := "✅ Consistent"
	if !v.Consistent {
		verdict = "❌ Inconsistent: " + v.Problem
	}
	replayed := string(v.Replayed)
	if replayed == "" {
		replayed = "n/a"
	}

	response := fmt.Sprintf(
		"# Debate Verification\n\n"+
			"**ID:** `%s`\n"+
			"**Stored state:** %s\n"+
			"**Replayed state:** %s\n"+
			"**Arguments:** %d\n\n"+
			"%s\n",
		v.DebateID, v.Stored, replayed, v.Arguments, verdict,
	)
	return mcp.NewToolResultText(response), nil
}
