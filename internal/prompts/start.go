// Package prompts implements MCP prompt handlers for debates.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/agora/internal/protocol"
	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the debate-start MCP prompt.
// It guides the AI to open a debate and play one role in it.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("debate-start",
		mcp.WithPromptDescription(
			"Open a new debate and take part in it. "+
				"Walks through stating the motion and taking turns until an arbitrator closes it.",
		),
		mcp.WithArgument("title",
			mcp.ArgumentDescription("Title of the debate"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("role",
			mcp.ArgumentDescription("Role you will play after opening: proposer, opponent or arbitrator. Default: proposer"),
		),
	)
}

// Handle processes the debate-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	title := strings.TrimSpace(req.Params.Arguments["title"])
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	role := protocol.RoleProposer
	if r := strings.TrimSpace(req.Params.Arguments["role"]); r != "" {
		parsed, err := protocol.ParseRole(r)
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Start debate: %s", title),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to open a debate titled '%s' and take part as the %s.\n\n"+
						"Please:\n"+
						"1. Ask me for the motion (the proposal being debated)\n"+
						"2. Run `debate_create` with title='%s' and my motion\n"+
						"3. Before every move, run `debate_status` with role='%s' and only offer me the actions it lists\n"+
						"4. Submit my arguments with `debate_submit` as role='%s'\n"+
						"5. If a submission is rejected, show me the allowed actions from the error instead of retrying\n\n"+
						"The debate ends when the arbitrator submits a RULING with close=true.",
					title, role, title, role, role,
				)),
			},
		},
	}, nil
}
