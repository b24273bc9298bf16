// Package cli implements the agora command line.
//
// "serve" runs the MCP server on stdio. The remaining commands work
// without a server: "actions" and "check" dry-run the protocol, and
// "verify" and "export" read the local database.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/HendryAvila/agora/internal/config"
	"github.com/HendryAvila/agora/internal/logging"
	"github.com/spf13/cobra"
)

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

type rootOptions struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "agora",
		Short: "Structured debate MCP server",
		Long: `Agora runs structured debates between a proposer, an opponent and an
arbitrator. A fixed protocol decides whose turn it is and which arguments are
legal, and every accepted argument is appended to a replayable log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", config.DefaultDotEnv, "dotenv file loaded before reading AGORA_* variables")

	cmd.AddCommand(
		newServeCmd(opts),
		newVersionCmd(),
		newActionsCmd(),
		newCheckCmd(),
		newVerifyCmd(opts),
		newExportCmd(opts),
	)
	return cmd
}

// loadRuntime reads configuration and builds the logger every stateful
// command shares. The returned close func flushes the log file, if any.
func (o *rootOptions) loadRuntime(cmd *cobra.Command) (config.Config, *slog.Logger, func() error, error) {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, logger, closeLog, nil
}
