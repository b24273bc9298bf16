package cli

import (
	"context"
	"fmt"
	"time"

	agoraserver "github.com/HendryAvila/agora/internal/server"
	"github.com/HendryAvila/agora/internal/updater"
	"github.com/spf13/cobra"
)

const updateCheckTimeout = 10 * time.Second

// checkRelease is a package-level var for test injection.
var checkRelease = updater.Check

func newVersionCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "agora v%s\n", agoraserver.Version)
			if !check {
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), updateCheckTimeout)
			defer cancel()
			r := checkRelease(ctx, agoraserver.Version)
			switch {
			case r.Err != nil:
				fmt.Fprintf(out, "latest: unknown (%v)\n", r.Err)
			case r.UpdateAvailable:
				fmt.Fprintln(out, r.Notice())
			default:
				fmt.Fprintf(out, "latest: v%s (up to date)\n", r.LatestVersion)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "also check GitHub for a newer release")
	return cmd
}
