// Package resources implements MCP resource handlers for debates.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (agora://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/agora/internal/debate"
	"github.com/HendryAvila/agora/internal/protocol"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	TransitionsURI = "agora://protocol/transitions"
	DebatesURI     = "agora://debates"
)

// Lister is the part of the debate service the debates resource reads.
type Lister interface {
	List(ctx context.Context, opts debate.ListOptions) ([]debate.Debate, error)
}

// Handler manages debate resource endpoints.
type Handler struct {
	debates Lister
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(debates Lister) *Handler {
	return &Handler{debates: debates}
}

// TransitionsResource returns the MCP resource definition for the protocol table.
func (h *Handler) TransitionsResource() mcp.Resource {
	return mcp.NewResource(
		TransitionsURI,
		"Debate Protocol Transitions",
		mcp.WithResourceDescription("Every legal (state, event, guard) → state transition of the debate protocol"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleTransitions returns the transition table as JSON.
func (h *Handler) HandleTransitions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	doc := struct {
		InitialState protocol.State        `json:"initial_state"`
		States       []protocol.State      `json:"states"`
		Transitions  []protocol.Transition `json:"transitions"`
	}{
		InitialState: protocol.InitialState,
		States:       protocol.States,
		Transitions:  protocol.Transitions(),
	}
	return jsonResource(req.Params.URI, doc)
}

// DebatesResource returns the MCP resource definition for recent debates.
func (h *Handler) DebatesResource() mcp.Resource {
	return mcp.NewResource(
		DebatesURI,
		"Recent Debates",
		mcp.WithResourceDescription("Most recent debates with their current state"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleDebates returns the most recent debates as JSON.
func (h *Handler) HandleDebates(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	debates, err := h.debates.List(ctx, debate.ListOptions{})
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if debates == nil {
		debates = []debate.Debate{}
	}
	return jsonResource(req.Params.URI, debates)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
