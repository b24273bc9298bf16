package resources

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/HendryAvila/agora/internal/debate"
	"github.com/HendryAvila/agora/internal/protocol"
	"github.com/mark3labs/mcp-go/mcp"
)

type fakeLister struct {
	debates []debate.Debate
	err     error
}

func (f fakeLister) List(context.Context, debate.ListOptions) ([]debate.Debate, error) {
	return f.debates, f.err
}

func readText(t *testing.T, contents []mcp.ResourceContents) mcp.TextResourceContents {
	t.Helper()
	if len(contents) != 1 {
		t.Fatalf("len(contents) = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content is %T", contents[0])
	}
	return tc
}

func TestHandleTransitions(t *testing.T) {
	h := NewHandler(fakeLister{})
	if h.TransitionsResource().URI != TransitionsURI {
		t.Errorf("URI = %q", h.TransitionsResource().URI)
	}

	req := mcp.ReadResourceRequest{}
	req.Params.URI = TransitionsURI
	contents, err := h.HandleTransitions(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleTransitions failed: %v", err)
	}
	tc := readText(t, contents)
	if tc.MIMEType != "application/json" {
		t.Errorf("MIMEType = %q", tc.MIMEType)
	}

	var doc struct {
		InitialState string `json:"initial_state"`
		Transitions  []struct {
			From  string `json:"from"`
			To    string `json:"to"`
			Event string `json:"event"`
		} `json:"transitions"`
	}
	if err := json.Unmarshal([]byte(tc.Text), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.InitialState != string(protocol.InitialState) {
		t.Errorf("initial_state = %q", doc.InitialState)
	}
	if len(doc.Transitions) != len(protocol.Transitions()) {
		t.Errorf("transitions = %d, want %d", len(doc.Transitions), len(protocol.Transitions()))
	}
}

func TestHandleDebates(t *testing.T) {
	h := NewHandler(fakeLister{debates: []debate.Debate{{ID: "d1", Title: "one", State: protocol.StateClosed}}})
	req := mcp.ReadResourceRequest{}
	req.Params.URI = DebatesURI
	contents, err := h.HandleDebates(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(readText(t, contents).Text, `"id": "d1"`) {
		t.Errorf("unexpected body: %s", readText(t, contents).Text)
	}
}

func TestHandleDebates_Empty(t *testing.T) {
	h := NewHandler(fakeLister{})
	req := mcp.ReadResourceRequest{}
	req.Params.URI = DebatesURI
	contents, err := h.HandleDebates(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if got := readText(t, contents).Text; got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestHandleDebates_Error(t *testing.T) {
	h := NewHandler(fakeLister{err: errors.New("locked")})
	req := mcp.ReadResourceRequest{}
	req.Params.URI = DebatesURI
	contents, err := h.HandleDebates(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	tc := readText(t, contents)
	if tc.MIMEType != "text/plain" || !strings.Contains(tc.Text, "locked") {
		t.Errorf("error resource = %+v", tc)
	}
}
