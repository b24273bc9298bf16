package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HendryAvila/agora/internal/debate"
	"github.com/HendryAvila/agora/internal/updater"
	"github.com/mark3labs/mcp-go/server"
)

// executeCommand runs a fresh root command with args and returns captured output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := root.Execute()
	return buf.String(), err
}

// setupDataDir points AGORA_DATA_DIR at a temp dir.
func setupDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AGORA_DATA_DIR", dir)
	t.Setenv("AGORA_LOG_LEVEL", "error")
	return dir
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	if root.Use != "agora" {
		t.Errorf("Use = %q", root.Use)
	}
	want := map[string]bool{"serve": false, "version": false, "actions": false, "check": false, "verify": false, "export": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %s", name)
		}
	}
}

// --- actions ---

func TestActions_AllRoles(t *testing.T) {
	out, err := executeCommand(t, "actions", "--state", "AWAITING_PROPOSER")
	if err != nil {
		t.Fatalf("actions failed: %v", err)
	}
	for _, want := range []string{
		"proposer   SUBMIT_CLAIM, SUBMIT_APPEAL, SUBMIT_RESOLUTION",
		"opponent   -",
		"arbitrator SUBMIT_INTERVENTION",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestActions_SingleRole(t *testing.T) {
	out, err := executeCommand(t, "actions", "--state", "intervention_pending", "--role", "arbitrator")
	if err != nil {
		t.Fatal(err)
	}
	if out != "SUBMIT_RULING\nSUBMIT_RULING_CLOSE\n" {
		t.Errorf("output = %q", out)
	}
}

func TestActions_BadState(t *testing.T) {
	if _, err := executeCommand(t, "actions", "--state", "OPEN"); err == nil {
		t.Error("unknown state should fail")
	}
	if _, err := executeCommand(t, "actions"); err == nil {
		t.Error("missing --state should fail")
	}
}

// --- check ---

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{"legal claim", []string{"--state", "AWAITING_OPPONENT", "--role", "opponent", "--type", "CLAIM"}, "allowed: AWAITING_OPPONENT -> AWAITING_PROPOSER", ""},
		{"closing ruling", []string{"--state", "AWAITING_ARBITRATOR", "--role", "arbitrator", "--type", "ruling", "--close"}, "-> CLOSED", ""},
		{"continuing ruling", []string{"--state", "AWAITING_ARBITRATOR", "--role", "arbitrator", "--type", "RULING"}, "-> AWAITING_PROPOSER", ""},
		{"out of turn", []string{"--state", "AWAITING_OPPONENT", "--role", "proposer", "--type", "CLAIM"}, "", "not allowed"},
		{"invalid event", []string{"--state", "AWAITING_ARBITRATOR", "--role", "opponent", "--type", "RULING"}, "", "invalid event"},
		{"motion", []string{"--state", "AWAITING_OPPONENT", "--role", "proposer", "--type", "MOTION"}, "", "invalid event"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, append([]string{"check"}, tt.args...)...)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("check failed: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

// --- verify ---

func seedDebate(t *testing.T, dir string) string {
	t.Helper()
	store, err := debate.NewSQLiteStore(debate.StoreConfig{Path: filepath.Join(dir, "agora.db")})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	svc := debate.NewService(store, debate.ServiceConfig{})
	d, _, err := svc.Create(context.Background(), debate.CreateParams{Title: "seeded", Motion: "m"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit(context.Background(), debate.SubmitParams{DebateID: d.ID, Role: "opponent", Type: "CLAIM", Content: "c"}); err != nil {
		t.Fatal(err)
	}
	return d.ID
}

func TestVerify_All(t *testing.T) {
	dir := setupDataDir(t)
	id := seedDebate(t, dir)

	out, err := executeCommand(t, "verify")
	if err != nil {
		t.Fatalf("verify failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "ok   "+id) || !strings.Contains(out, "1 debates, 0 inconsistent") {
		t.Errorf("output:\n%s", out)
	}
}

func TestVerify_One(t *testing.T) {
	dir := setupDataDir(t)
	id := seedDebate(t, dir)

	out, err := executeCommand(t, "verify", id)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "AWAITING_PROPOSER (2 arguments)") {
		t.Errorf("output:\n%s", out)
	}

	if _, err := executeCommand(t, "verify", "ghost"); !errors.Is(err, debate.ErrDebateNotFound) {
		t.Errorf("err = %v, want ErrDebateNotFound", err)
	}
}

func TestVerify_BadConfig(t *testing.T) {
	setupDataDir(t)
	t.Setenv("AGORA_LIST_LIMIT", "0")
	if _, err := executeCommand(t, "verify"); err == nil {
		t.Error("invalid config should fail")
	}
}

// --- export ---

func TestExport(t *testing.T) {
	dir := setupDataDir(t)
	id := seedDebate(t, dir)

	out, err := executeCommand(t, "export")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var exp debate.Export
	if err := json.Unmarshal([]byte(out), &exp); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(exp.Debates) != 1 || exp.Debates[0].Debate.ID != id || len(exp.Debates[0].Arguments) != 2 {
		t.Errorf("export = %+v", exp)
	}
}

func TestExport_ToFile(t *testing.T) {
	dir := setupDataDir(t)
	id := seedDebate(t, dir)
	path := filepath.Join(t.TempDir(), "out.json")

	if _, err := executeCommand(t, "export", id, "-o", path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), id) {
		t.Errorf("file does not contain %s", id)
	}
}

// --- version ---

func TestVersion(t *testing.T) {
	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "agora vdev\n" {
		t.Errorf("output = %q", out)
	}
}

func TestVersion_Check(t *testing.T) {
	orig := checkRelease
	defer func() { checkRelease = orig }()

	checkRelease = func(context.Context, string) *updater.Result {
		return &updater.Result{CurrentVersion: "dev", Err: errors.New("offline")}
	}
	out, err := executeCommand(t, "version", "--check")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "latest: unknown (offline)") {
		t.Errorf("output = %q", out)
	}
}

// --- serve ---

func TestServe_WiresServer(t *testing.T) {
	setupDataDir(t)
	orig := serveStdio
	defer func() { serveStdio = orig }()

	called := false
	serveStdio = func(s *server.MCPServer, _ ...server.StdioOption) error {
		called = s != nil
		return nil
	}
	if _, err := executeCommand(t, "serve", "--no-update-check"); err != nil {
		t.Fatalf("serve failed: %v", err)
	}
	if !called {
		t.Error("serve should hand the server to the stdio transport")
	}
}
