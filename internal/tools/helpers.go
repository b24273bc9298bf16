// Package tools implements MCP tool handlers for debates.
//
// Each tool receives its dependencies via its struct and returns a handler
// compatible with mcp-go's CallToolRequest signature.
//
// Design principles:
// - one file per tool
// - tools depend on the Debates interface, not on the SQLite store
// - submitter mistakes are tool errors the host can act on; storage
//   failures are Go errors
package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/HendryAvila/agora/internal/debate"
	"github.com/HendryAvila/agora/internal/protocol"
	"github.com/mark3labs/mcp-go/mcp"
)

// Debates is the subset of *debate.Service the tools call.
type Debates interface {
	Create(ctx context.Context, p debate.CreateParams) (*debate.Debate, *debate.Argument, error)
	Submit(ctx context.Context, p debate.SubmitParams) (*debate.SubmitResult, error)
	Status(ctx context.Context, id string) (*debate.Status, error)
	Arguments(ctx context.Context, id string) ([]debate.Argument, error)
	List(ctx context.Context, opts debate.ListOptions) ([]debate.Debate, error)
	Verify(ctx context.Context, id string) (*debate.Verification, error)
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// toolError converts err into a tool result when the caller can fix it.
// Anything else is returned as a Go error so the server reports it as an
// internal failure.
func toolError(err error) (*mcp.CallToolResult, error) {
	if !debate.IsUserError(err) {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", debate.CodeOf(err), err.Error())

	var ae *debate.ActionNotAllowedError
	if errors.As(err, &ae) {
		fmt.Fprintf(&b, "\n\n**Debate:** `%s`\n**State:** %s\n\n## Allowed Actions\n\n%s",
			ae.DebateID, ae.State, actionsTable(ae.Allowed))
	}
	return mcp.NewToolResultError(b.String()), nil
}

// actionsTable renders role → actions as a markdown table in role order.
func actionsTable(actions map[protocol.Role][]protocol.Action) string {
	var b strings.Builder
	b.WriteString("| Role | Actions |\n")
	b.WriteString("|------|---------|\n")
	for _, r := range protocol.Roles {
		fmt.Fprintf(&b, "| %s | %s |\n", r, joinActions(actions[r]))
	}
	return b.String()
}

func joinActions(acts []protocol.Action) string {
	if len(acts) == 0 {
		return "none"
	}
	names := make([]string, len(acts))
	for i, a := range acts {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

// roleValues returns the role enum for tool schemas.
func roleValues() []string {
	out := make([]string, len(protocol.Roles))
	for i, r := range protocol.Roles {
		out[i] = string(r)
	}
	return out
}

// submittableTypes lists argument types accepted by debate_submit.
// MOTION is excluded: it only opens a debate.
func submittableTypes() []string {
	var out []string
	for _, t := range protocol.ArgumentTypes {
		if t != protocol.ArgumentMotion {
			out = append(out, string(t))
		}
	}
	return out
}

func stateValues() []string {
	out := make([]string, len(protocol.States))
	for i, s := range protocol.States {
		out[i] = string(s)
	}
	return out
}

// truncate shortens s to max bytes at a line boundary when one is close.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	cut := s[:max]
	if nl := strings.LastIndex(cut, "\n"); nl > max/2 {
		cut = cut[:nl]
	}
	return cut + " [...truncated]"
}
