package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/agora/internal/debate"
	"github.com/HendryAvila/agora/internal/protocol"
	"github.com/mark3labs/mcp-go/mcp"
)

// SubmitTool handles the debate_submit MCP tool. It is the only tool that
// changes a debate's state.
type SubmitTool struct {
	debates Debates
}

// NewSubmitTool creates a SubmitTool.
func NewSubmitTool(d Debates) *SubmitTool {
	return &SubmitTool{debates: d}
}

// Definition returns the MCP tool definition for registration.
func (t *SubmitTool) Definition() mcp.Tool {
	return mcp.NewTool("debate_submit",
		mcp.WithDescription(
			"Submit one argument to a debate as proposer, opponent or arbitrator. "+
				"The protocol decides whether the argument is legal in the debate's "+
				"current state. Rejected submissions report the state and the actions "+
				"each role may take instead. Call debate_status first if unsure.",
		),
		mcp.WithString("debate_id",
			mcp.Required(),
			mcp.Description("The debate ID returned by debate_create"),
		),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("Who is submitting"),
			mcp.Enum(roleValues()...),
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Argument type. CLAIM: proposer or opponent. APPEAL and RESOLUTION: proposer. "+
				"INTERVENTION and RULING: arbitrator."),
			mcp.Enum(submittableTypes()...),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The argument text"),
		),
		mcp.WithString("parent_id",
			mcp.Description("Argument this one responds to (default: the latest argument)"),
		),
		mcp.WithBoolean("close",
			mcp.Description("RULING only. If true, the ruling closes the debate"),
		),
		mcp.WithString("idempotency_key",
			mcp.Description("Client-chosen key. Resubmitting with the same key returns the original argument"),
		),
	)
}

// Handle processes the debate_submit tool call.
func (t *SubmitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := t.debates.Submit(ctx, debate.SubmitParams{
		DebateID:       req.GetString("debate_id", ""),
		Role:           req.GetString("role", ""),
		Type:           req.GetString("type", ""),
		Content:        req.GetString("content", ""),
		ParentID:       req.GetString("parent_id", ""),
		Close:          boolArg(req, "close", false),
		IdempotencyKey: req.GetString("idempotency_key", ""),
	})
	if err != nil {
		return toolError(err)
	}

	header := "# Argument Accepted"
	transition := fmt.Sprintf("%s → %s", res.Previous, res.Debate.State)
	if res.Duplicate {
		header = "# Argument Already Recorded"
		transition = fmt.Sprintf("%s (no change, idempotency key matched)", res.Debate.State)
	}

	next := "The debate is closed. No further arguments are accepted."
	if !res.Debate.State.IsTerminal() {
		next = actionsTable(protocol.ActionsByRole(res.Debate.State))
	}

	response := fmt.Sprintf(
		"%s\n\n"+
			"**Debate:** `%s`\n"+
			"**Argument:** `%s` (seq %d)\n"+
			"**Type:** %s by %s\n"+
			"**State:** %s\n\n"+
			"## Next Actions\n\n%s",
		header, res.Debate.ID, res.Argument.ID, res.Argument.Seq,
		res.Argument.Type, res.Argument.Role, transition, next,
	)
	return mcp.NewToolResultText(response), nil
}
