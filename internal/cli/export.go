package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/HendryAvila/agora/internal/debate"
	"github.com/spf13/cobra"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export [debate-id...]",
		Short: "Export debates and their argument logs as JSON",
		Long: `Write the named debates (or all debates) with their complete argument
logs as a JSON document. Each exported log replays to the exported state.`,
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

			exp, err := svc.Export(cmd.Context(), args...)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(exp, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling export: %w", err)
			}
			data = append(data, '\n')

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			logger.Info("export written", "path", outPath, "debates", len(exp.Debates))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to file instead of stdout")
	return cmd
}
