// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools/prompts/resources that depend on abstractions.
// No business logic lives here, only wiring.
package server

import (
	"fmt"
	"log/slog"

	"github.com/HendryAvila/agora/internal/config"
	"github.com/HendryAvila/agora/internal/debate"
	"github.com/HendryAvila/agora/internal/logging"
	"github.com/HendryAvila/agora/internal/prompts"
	"github.com/HendryAvila/agora/internal/resources"
	"github.com/HendryAvila/agora/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// newStore is a package-level var so tests can inject a failing store.
var newStore = func(cfg debate.StoreConfig) (debate.Store, error) {
	return debate.NewSQLiteStore(cfg)
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the debate store and must be
// called on shutdown (typically via defer). It is always non-nil.
func New(cfg config.Config, logger *slog.Logger) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = logging.Discard()
	}

	// --- Create shared dependencies ---

	store, err := newStore(debate.StoreConfig{Path: cfg.DBPath(), BusyTimeout: cfg.BusyTimeout})
	if err != nil {
		return nil, noop, fmt.Errorf("opening debate store: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("debate store close", "error", err)
		}
	}

	svc := debate.NewService(store, debate.ServiceConfig{
		MaxContentLength: cfg.MaxContentLength,
		ListLimit:        cfg.ListLimit,
		Logger:           logger,
	})
	svc.SetObserver(debate.NewLogObserver(logger))

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"agora",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register debate tools ---

	createTool := tools.NewCreateTool(svc)
	s.AddTool(createTool.Definition(), createTool.Handle)

	submitTool := tools.NewSubmitTool(svc)
	s.AddTool(submitTool.Definition(), submitTool.Handle)

	statusTool := tools.NewStatusTool(svc)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	listTool := tools.NewListTool(svc)
	s.AddTool(listTool.Definition(), listTool.Handle)

	logTool := tools.NewLogTool(svc)
	s.AddTool(logTool.Definition(), logTool.Handle)

	verifyTool := tools.NewVerifyTool(svc)
	s.AddTool(verifyTool.Definition(), verifyTool.Handle)

	// debate_check never touches storage.
	checkTool := tools.NewCheckTool()
	s.AddTool(checkTool.Definition(), checkTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	turnPrompt := prompts.NewTurnPrompt()
	s.AddPrompt(turnPrompt.Definition(), turnPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(svc)
	s.AddResource(resourceHandler.TransitionsResource(), resourceHandler.HandleTransitions)
	s.AddResource(resourceHandler.DebatesResource(), resourceHandler.HandleDebates)

	logger.Info("server ready", "version", Version, "db", cfg.DBPath())
	return s, cleanup, nil
}

// noop is the cleanup returned when the store could not be opened.
func noop() {}

func serverInstructions() string {
	return `You have access to Agora, a structured debate MCP server.

## HOW A DEBATE WORKS

Every debate has three roles: proposer, opponent and arbitrator.
The proposer opens it with debate_create and a motion. From then on
the protocol decides whose turn it is:

- AWAITING_OPPONENT: the opponent answers with a CLAIM
- AWAITING_PROPOSER: the proposer answers with a CLAIM, or escalates with an APPEAL,
  or proposes a RESOLUTION
- AWAITING_ARBITRATOR: the arbitrator issues a RULING (close=true ends the debate)
- INTERVENTION_PENDING: the arbitrator intervened and must now issue a RULING
- CLOSED: nothing more is accepted

The arbitrator may INTERVENE while the debate awaits the opponent or the proposer.

## RULES

1. Call debate_status with your role before every move and choose only from its actions
2. Submit with debate_submit. Never claim a move happened unless debate_submit accepted it
3. If debate_submit returns ACTION_NOT_ALLOWED, read the allowed actions from the error;
   do not retry the same move
4. Use debate_check to dry-run a move without touching any debate
5. Pass an idempotency_key when retrying after a transport error so the argument is not recorded twice

## READING DEBATES

- debate_list: recent debates, optionally by state
- debate_log: the ordered argument log
- debate_verify: confirm the stored state matches a replay of the log
- Resource agora://protocol/transitions: the full transition table as JSON`
}
