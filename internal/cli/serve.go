package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	agoraserver "github.com/HendryAvila/agora/internal/server"
	"github.com/HendryAvila/agora/internal/updater"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

// serveStdio is a package-level var so tests can skip the blocking transport.
var serveStdio = server.ServeStdio

func newServeCmd(root *rootOptions) *cobra.Command {
	var noUpdateCheck bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, closeLog, err := root.loadRuntime(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			s, cleanup, err := agoraserver.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Update notices go to the logger (stderr) so they never
			// interleave with the stdio transport on stdout.
			if !noUpdateCheck {
				go func() {
					checkCtx, cancel := context.WithTimeout(ctx, updateCheckTimeout)
					defer cancel()
					if notice := updater.Check(checkCtx, agoraserver.Version).Notice(); notice != "" {
						logger.Info(notice)
					}
				}()
			}

			return serveStdio(s)
		},
	}
	cmd.Flags().BoolVar(&noUpdateCheck, "no-update-check", false, "skip the background release check")
	return cmd
}
