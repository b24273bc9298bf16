package tools

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/HendryAvila/agora/internal/debate"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Test helpers ---

// setupService creates a debate service over a temp-dir SQLite store.
func setupService(t *testing.T) *debate.Service {
	t.Helper()
	store, err := debate.NewSQLiteStore(debate.StoreConfig{Path: filepath.Join(t.TempDir(), "agora.db")})
	if err != nil {
		t.Fatalf("setup: open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return debate.NewService(store, debate.ServiceConfig{})
}

// createDebate opens a debate through the create tool and returns its ID.
func createDebate(t *testing.T, svc *debate.Service, title string) string {
	t.Helper()
	result := callTool(t, NewCreateTool(svc).Handle, map[string]interface{}{
		"title":  title,
		"motion": "We should " + title,
	})
	if isErrorResult(result) {
		t.Fatalf("create failed: %s", getResultText(result))
	}
	m := regexp.MustCompile("\\*\\*ID:\\*\\* `([^`]+)`").FindStringSubmatch(getResultText(result))
	if m == nil {
		t.Fatalf("no debate ID in result: %s", getResultText(result))
	}
	return m[1]
}

func submit(t *testing.T, svc *debate.Service, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	if _, ok := args["content"]; !ok {
		args["content"] = "an argument"
	}
	return callTool(t, NewSubmitTool(svc).Handle, args)
}

func callTool(t *testing.T, handle func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	return result
}

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// --- Definitions ---

func TestDefinitions(t *testing.T) {
	svc := setupService(t)
	tests := []struct {
		got  mcp.Tool
		want string
	}{
		{NewCreateTool(svc).Definition(), "debate_create"},
		{NewSubmitTool(svc).Definition(), "debate_submit"},
		{NewStatusTool(svc).Definition(), "debate_status"},
		{NewListTool(svc).Definition(), "debate_list"},
		{NewLogTool(svc).Definition(), "debate_log"},
		{NewVerifyTool(svc).Definition(), "debate_verify"},
		{NewCheckTool().Definition(), "debate_check"},
	}
	for _, tt := range tests {
		if tt.got.Name != tt.want {
			t.Errorf("name = %q, want %q", tt.got.Name, tt.want)
		}
		if tt.got.Description == "" {
			t.Errorf("%s has no description", tt.want)
		}
	}
}

func TestSubmitDefinition_ExcludesMotion(t *testing.T) {
	for _, typ := range submittableTypes() {
		if typ == "MOTION" {
			t.Fatal("MOTION must not be offered to debate_submit")
		}
	}
	if len(submittableTypes()) != 5 {
		t.Errorf("submittable types = %v", submittableTypes())
	}
}

// --- CreateTool ---

func TestCreateTool_Handle(t *testing.T) {
	svc := setupService(t)
	result := callTool(t, NewCreateTool(svc).Handle, map[string]interface{}{
		"title":  "Adopt WAL mode",
		"motion": "Enable WAL on all stores",
		"type":   "decision",
	})
	if isErrorResult(result) {
		t.Fatalf("expected success, got error: %s", getResultText(result))
	}
	text := getResultText(result)
	for _, want := range []string{"Debate Opened", "AWAITING_OPPONENT", "decision", "| opponent | SUBMIT_CLAIM |"} {
		if !strings.Contains(text, want) {
			t.Errorf("result should contain %q:\n%s", want, text)
		}
	}
}

func TestCreateTool_MissingTitle(t *testing.T) {
	svc := setupService(t)
	result := callTool(t, NewCreateTool(svc).Handle, map[string]interface{}{"motion": "m"})
	if !isErrorResult(result) {
		t.Fatal("expected error for missing title")
	}
	if !strings.Contains(getResultText(result), "VALIDATION_FAILED") {
		t.Errorf("error should carry the code: %s", getResultText(result))
	}
}

// --- SubmitTool ---

func TestSubmitTool_Accepted(t *testing.T) {
	svc := setupService(t)
	id := createDebate(t, svc, "accepted")

	result := submit(t, svc, map[string]interface{}{"debate_id": id, "role": "opponent", "type": "CLAIM"})
	if isErrorResult(result) {
		t.Fatalf("expected success, got error: %s", getResultText(result))
	}
	text := getResultText(result)
	if !strings.Contains(text, "AWAITING_OPPONENT → AWAITING_PROPOSER") {
		t.Errorf("result should show the transition:\n%s", text)
	}
	if !strings.Contains(text, "| proposer | SUBMIT_CLAIM, SUBMIT_APPEAL, SUBMIT_RESOLUTION |") {
		t.Errorf("result should list proposer actions:\n%s", text)
	}
}

func TestSubmitTool_NotAllowedReportsActions(t *testing.T) {
	svc := setupService(t)
	id := createDebate(t, svc, "out of turn")

	result := submit(t, svc, map[string]interface{}{"debate_id": id, "role": "proposer", "type": "APPEAL"})
	if !isErrorResult(result) {
		t.Fatal("expected error for out-of-turn appeal")
	}
	text := getResultText(result)
	for _, want := range []string{"ACTION_NOT_ALLOWED", "**State:** AWAITING_OPPONENT", "| opponent | SUBMIT_CLAIM |", "| arbitrator | SUBMIT_INTERVENTION |", "| proposer | none |"} {
		if !strings.Contains(text, want) {
			t.Errorf("error should contain %q:\n%s", want, text)
		}
	}
}

func TestSubmitTool_InvalidEvent(t *testing.T) {
	svc := setupService(t)
	id := createDebate(t, svc, "invalid")

	result := submit(t, svc, map[string]interface{}{"debate_id": id, "role": "opponent", "type": "RULING"})
	if !isErrorResult(result) {
		t.Fatal("expected error for opponent ruling")
	}
	if !strings.Contains(getResultText(result), "INVALID_EVENT") {
		t.Errorf("error should carry INVALID_EVENT: %s", getResultText(result))
	}
}

func TestSubmitTool_UnknownDebate(t *testing.T) {
	svc := setupService(t)
	result := submit(t, svc, map[string]interface{}{"debate_id": "nope", "role": "opponent", "type": "CLAIM"})
	if !isErrorResult(result) || !strings.Contains(getResultText(result), "NOT_FOUND") {
		t.Errorf("expected NOT_FOUND tool error, got %s", getResultText(result))
	}
}

func TestSubmitTool_CloseRuling(t *testing.T) {
	svc := setupService(t)
	id := createDebate(t, svc, "closing")

	submit(t, svc, map[string]interface{}{"debate_id": id, "role": "arbitrator", "type": "INTERVENTION"})
	result := submit(t, svc, map[string]interface{}{"debate_id": id, "role": "arbitrator", "type": "RULING", "close": true})
	if isErrorResult(result) {
		t.Fatalf("expected success, got error: %s", getResultText(result))
	}
	text := getResultText(result)
	if !strings.Contains(text, "→ CLOSED") || !strings.Contains(text, "debate is closed") {
		t.Errorf("result should report closure:\n%s", text)
	}
}

func TestSubmitTool_Duplicate(t *testing.T) {
	svc := setupService(t)
	id := createDebate(t, svc, "dup")

	args := func() map[string]interface{} {
		return map[string]interface{}{"debate_id": id, "role": "opponent", "type": "CLAIM", "idempotency_key": "abc"}
	}
	submit(t, svc, args())
	result := submit(t, svc, args())
	if isErrorResult(result) {
		t.Fatalf("duplicate should succeed: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "Already Recorded") {
		t.Errorf("duplicate should be reported:\n%s", getResultText(result))
	}
}

// --- StatusTool ---

func TestStatusTool_Handle(t *testing.T) {
	svc := setupService(t)
	id := createDebate(t, svc, "status")

	result := callTool(t, NewStatusTool(svc).Handle, map[string]interface{}{"debate_id": id})
	text := getResultText(result)
	if !strings.Contains(text, "Debate Status") || !strings.Contains(text, "| arbitrator | SUBMIT_INTERVENTION |") {
		t.Errorf("unexpected status:\n%s", text)
	}

	result = callTool(t, NewStatusTool(svc).Handle, map[string]interface{}{"debate_id": id, "role": "opponent"})
	if !strings.Contains(getResultText(result), "**opponent:** SUBMIT_CLAIM") {
		t.Errorf("role filter not applied:\n%s", getResultText(result))
	}
}

func TestStatusTool_BadRole(t *testing.T) {
	svc := setupService(t)
	id := createDebate(t, svc, "bad role")
	result := callTool(t, NewStatusTool(svc).Handle, map[string]interface{}{"debate_id": id, "role": "judge"})
	if !isErrorResult(result) {
		t.Fatal("expected error for unknown role")
	}
}

// --- ListTool ---

func TestListTool_Handle(t *testing.T) {
	svc := setupService(t)

	result := callTool(t, NewListTool(svc).Handle, map[string]interface{}{})
	if !strings.Contains(getResultText(result), "No debates found") {
		t.Errorf("empty list:\n%s", getResultText(result))
	}

	a := createDebate(t, svc, "alpha")
	createDebate(t, svc, "beta")
	submit(t, svc, map[string]interface{}{"debate_id": a, "role": "opponent", "type": "CLAIM"})

	result = callTool(t, NewListTool(svc).Handle, map[string]interface{}{})
	text := getResultText(result)
	if !strings.Contains(text, "Debates (2)") {
		t.Errorf("list:\n%s", text)
	}

	result = callTool(t, NewListTool(svc).Handle, map[string]interface{}{"state": "awaiting_proposer"})
	text = getResultText(result)
	if !strings.Contains(text, "Debates (1)") || !strings.Contains(text, "alpha") {
		t.Errorf("filtered list:\n%s", text)
	}

	result = callTool(t, NewListTool(svc).Handle, map[string]interface{}{"limit": float64(1)})
	if !strings.Contains(getResultText(result), "Debates (1)") {
		t.Errorf("limited list:\n%s", getResultText(result))
	}
}

func TestListTool_BadArgs(t *testing.T) {
	svc := setupService(t)
	if r := callTool(t, NewListTool(svc).Handle, map[string]interface{}{"state": "OPEN"}); !isErrorResult(r) {
		t.Error("unknown state should be rejected")
	}
	if r := callTool(t, NewListTool(svc).Handle, map[string]interface{}{"limit": float64(-1)}); !isErrorResult(r) {
		t.Error("negative limit should be rejected")
	}
}

// --- LogTool ---

func TestLogTool_Handle(t *testing.T) {
	svc := setupService(t)
	id := createDebate(t, svc, "log")
	long := strings.Repeat("word ", 100)
	submit(t, svc, map[string]interface{}{"debate_id": id, "role": "opponent", "type": "CLAIM", "content": long})

	result := callTool(t, NewLogTool(svc).Handle, map[string]interface{}{"debate_id": id})
	text := getResultText(result)
	if !strings.Contains(text, "## 1. MOTION by proposer") || !strings.Contains(text, "## 2. CLAIM by opponent") {
		t.Errorf("log should list both arguments in order:\n%s", text)
	}
	if !strings.Contains(text, "[...truncated]") {
		t.Error("long content should be truncated by default")
	}

	result = callTool(t, NewLogTool(svc).Handle, map[string]interface{}{"debate_id": id, "full": true})
	if strings.Contains(getResultText(result), "[...truncated]") {
		t.Error("full=true should not truncate")
	}
}

func TestLogTool_NotFound(t *testing.T) {
	svc := setupService(t)
	result := callTool(t, NewLogTool(svc).Handle, map[string]interface{}{"debate_id": "ghost"})
	if !isErrorResult(result) {
		t.Error("expected error for unknown debate")
	}
}

// --- VerifyTool ---

func TestVerifyTool_Handle(t *testing.T) {
	svc := setupService(t)
	id := createDebate(t, svc, "verify")
	submit(t, svc, map[string]interface{}{"debate_id": id, "role": "opponent", "type": "CLAIM"})

	result := callTool(t, NewVerifyTool(svc).Handle, map[string]interface{}{"debate_id": id})
	text := getResultText(result)
	if !strings.Contains(text, "Consistent") || !strings.Contains(text, "**Replayed state:** AWAITING_PROPOSER") {
		t.Errorf("verification:\n%s", text)
	}
}

// --- CheckTool ---

func TestCheckTool_Handle(t *testing.T) {
	tool := NewCheckTool()
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"allowed", map[string]interface{}{"state": "AWAITING_OPPONENT", "role": "opponent", "type": "CLAIM"}, "**Leads to:** AWAITING_PROPOSER"},
		{"close ruling", map[string]interface{}{"state": "AWAITING_ARBITRATOR", "role": "arbitrator", "type": "RULING", "close": true}, "**Leads to:** CLOSED"},
		{"close ruling action", map[string]interface{}{"state": "INTERVENTION_PENDING", "role": "arbitrator", "type": "RULING", "close": true}, "**Action:** SUBMIT_RULING_CLOSE"},
		{"not allowed", map[string]interface{}{"state": "AWAITING_ARBITRATOR", "role": "arbitrator", "type": "INTERVENTION"}, "Not Allowed"},
		{"invalid event", map[string]interface{}{"state": "AWAITING_OPPONENT", "role": "opponent", "type": "RULING"}, "Invalid Event"},
		{"lowercase input", map[string]interface{}{"state": "awaiting_proposer", "role": "proposer", "type": "appeal"}, "**Leads to:** AWAITING_ARBITRATOR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, tool.Handle, tt.args)
			if isErrorResult(result) {
				t.Fatalf("unexpected tool error: %s", getResultText(result))
			}
			if !strings.Contains(getResultText(result), tt.want) {
				t.Errorf("result should contain %q:\n%s", tt.want, getResultText(result))
			}
		})
	}
}

func TestCheckTool_BadInput(t *testing.T) {
	tool := NewCheckTool()
	result := callTool(t, tool.Handle, map[string]interface{}{"state": "OPEN", "role": "opponent", "type": "CLAIM"})
	if !isErrorResult(result) {
		t.Error("unknown state should be a tool error")
	}
}

// --- Helpers ---

func TestToolError_InfrastructureIsGoError(t *testing.T) {
	result, err := toolError(errors.New("disk I/O error"))
	if err == nil || result != nil {
		t.Errorf("toolError = (%v, %v), want Go error", result, err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	got := truncate("line one\nline two is long", 12)
	if got != "line one [...truncated]" {
		t.Errorf("truncate = %q", got)
	}
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	got := truncate(strings.Repeat("é", 200), 299)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if want := strings.Repeat("é", 149) + " [...truncated]"; got != want {
		t.Errorf("truncate = %q, want %q", got, want)
	}
}
