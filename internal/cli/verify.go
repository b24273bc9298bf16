package cli

import (
	"errors"
	"fmt"

	"github.com/HendryAvila/agora/internal/debate"
	"github.com/spf13/cobra"
)

// errInconsistent makes "verify" exit non-zero without repeating the report.
var errInconsistent = errors.New("inconsistent debates found")

func newVerifyCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [debate-id]",
		Short: "Replay debate logs and compare them with stored state",
		Long: `Replay every debate in the local database (or just debate-id) through
the protocol engine and report debates whose stored state does not match.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closeLog, err := root.loadRuntime(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			store, err := debate.NewSQLiteStore(debate.StoreConfig{Path: cfg.DBPath(), BusyTimeout: cfg.BusyTimeout})
			if err != nil {
				return err
			}
			defer store.Close()
			svc := debate.NewService(store, debate.ServiceConfig{Logger: logger})

			var results []debate.Verification
			if len(args) == 1 {
				v, err := svc.Verify(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				results = []debate.Verification{*v}
			} else {
				results, err = svc.VerifyAll(cmd.Context())
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			bad := 0
			for _, v := range results {
				if v.Consistent {
					fmt.Fprintf(out, "ok   %s %s (%d arguments)\n", v.DebateID, v.Stored, v.Arguments)
					continue
				}
				bad++
				fmt.Fprintf(out, "FAIL %s %s\n", v.DebateID, v.Problem)
			}
			fmt.Fprintf(out, "%d debates, %d inconsistent\n", len(results), bad)
			if bad > 0 {
				return errInconsistent
			}
			return nil
		},
	}
}
