package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/agora/internal/debate"
	"github.com/HendryAvila/agora/internal/protocol"
	"github.com/mark3labs/mcp-go/mcp"
)

// CreateTool handles the debate_create MCP tool.
// The caller becomes the proposer and the motion is recorded as seq 1.
type CreateTool struct {
	debates Debates
}

// NewCreateTool creates a CreateTool.
func NewCreateTool(d Debates) *CreateTool {
	return &CreateTool{debates: d}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateTool) Definition() mcp.Tool {
	return mcp.NewTool("debate_create",
		mcp.WithDescription(
			"Open a new debate. The motion is the proposer's opening statement; "+
				"the debate starts in AWAITING_OPPONENT. Returns the debate ID "+
				"needed by every other debate tool.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Short title for the debate"),
		),
		mcp.WithString("motion",
			mcp.Required(),
			mcp.Description("The proposal being debated, stated by the proposer"),
		),
		mcp.WithString("type",
			mcp.Description("What the debate is about (default: freeform)"),
			mcp.Enum(string(debate.TypeDesign), string(debate.TypeReview), string(debate.TypeDecision), string(debate.TypeFreeform)),
		),
	)
}

// Handle processes the debate_create tool call.
func (t *CreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, motion, err := t.debates.Create(ctx, debate.CreateParams{
		Title:  req.GetString("title", ""),
		Type:   debate.Type(req.GetString("type", "")),
		Motion: req.GetString("motion", ""),
	})
	if err != nil {
		return toolError(err)
	}

	response := fmt.Sprintf(
		"# Debate Opened\n\n"+
			"**ID:** `%s`\n"+
			"**Title:** %s\n"+
			"**Type:** %s\n"+
			"**State:** %s\n"+
			"**Motion:** `%s` (seq %d)\n\n"+
			"## Next Actions\n\n%s",
		d.ID, d.Title, d.Type, d.State, motion.ID, motion.Seq,
		actionsTable(protocol.ActionsByRole(d.State)),
	)
	return mcp.NewToolResultText(response), nil
}
