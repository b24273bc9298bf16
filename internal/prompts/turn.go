package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/agora/internal/protocol"
	"github.com/mark3labs/mcp-go/mcp"
)

// TurnPrompt handles the debate-turn MCP prompt.
// It instructs the AI to read the debate and act only through legal moves.
type TurnPrompt struct{}

// NewTurnPrompt creates a TurnPrompt.
func NewTurnPrompt() *TurnPrompt {
	return &TurnPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *TurnPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("debate-turn",
		mcp.WithPromptDescription(
			"Take your turn in an existing debate. "+
				"Reads the log and the state, then shows only the moves your role may make.",
		),
		mcp.WithArgument("debate_id",
			mcp.ArgumentDescription("The debate to act in"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("role",
			mcp.ArgumentDescription("Your role: proposer, opponent or arbitrator"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the debate-turn prompt request.
func (p *TurnPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	id := strings.TrimSpace(req.Params.Arguments["debate_id"])
	if id == "" {
		return nil, fmt.Errorf("debate_id is required")
	}
	role, err := protocol.ParseRole(strings.TrimSpace(req.Params.Arguments["role"]))
	if err != nil {
		return nil, err
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Debate turn: %s as %s", id, role),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"It's my turn in debate `%s`. I am the %s.\n\n"+
						"Please:\n"+
						"1. Run `debate_log` with debate_id='%s' and summarize the arguments so far\n"+
						"2. Run `debate_status` with debate_id='%s' and role='%s'\n"+
						"3. If my role has no actions, tell me whose turn it is and stop\n"+
						"4. Otherwise list my actions, help me draft the argument, and submit it with `debate_submit`",
					id, role, id, id, role,
				)),
			},
		},
	}, nil
}
