package cli

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/agora/internal/protocol"
	"github.com/spf13/cobra"
)

// These commands are the client path: they consult the protocol engine
// only and never open the database.

func newActionsCmd() *cobra.Command {
	var stateArg, roleArg string
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List the actions available in a state",
		Long: `List the actions each role may submit in a state. With --role, only that
role's actions are printed, one per line.`,
		Example: "  agora actions --state AWAITING_PROPOSER --role proposer",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := protocol.ParseState(strings.ToUpper(stateArg))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if roleArg != "" {
				role, err := protocol.ParseRole(roleArg)
				if err != nil {
					return err
				}
				for _, a := range protocol.AvailableActions(state, role) {
					fmt.Fprintln(out, a)
				}
				return nil
			}

			actions := protocol.ActionsByRole(state)
			for _, r := range protocol.Roles {
				fmt.Fprintf(out, "%-10s %s\n", r, formatActions(actions[r]))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&stateArg, "state", "", "debate state (required)")
	cmd.Flags().StringVar(&roleArg, "role", "", "only list this role's actions")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var stateArg, roleArg, typeArg string
	var closeFlag bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a move is legal",
		Long: `Check whether role may submit an argument of type in state. Prints the
resulting state and exits 0 when the move is legal; exits non-zero otherwise.`,
		Example: "  agora check --state AWAITING_ARBITRATOR --role arbitrator --type RULING --close",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := protocol.ParseState(strings.ToUpper(stateArg))
			if err != nil {
				return err
			}
			role, err := protocol.ParseRole(roleArg)
			if err != nil {
				return err
			}
			typ, err := protocol.ParseArgumentType(strings.ToUpper(typeArg))
			if err != nil {
				return err
			}

			ev, ok := protocol.EventForArgument(typ, role, protocol.WithClose(closeFlag))
			if !ok {
				return fmt.Errorf("invalid event: %s by %s is never a valid submission", typ, role)
			}
			next, ok := protocol.ApplyTransition(state, ev)
			if !ok {
				return fmt.Errorf("%s is not allowed in %s; %s may: %s",
					ev, state, role, formatActions(protocol.AvailableActions(state, role)))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "allowed: %s -> %s\n", state, next)
			return nil
		},
	}
	cmd.Flags().StringVar(&stateArg, "state", "", "debate state (required)")
	cmd.Flags().StringVar(&roleArg, "role", "", "submitting role (required)")
	cmd.Flags().StringVar(&typeArg, "type", "", "argument type (required)")
	cmd.Flags().BoolVar(&closeFlag, "close", false, "for RULING: rule and close")
	_ = cmd.MarkFlagRequired("state")
	_ = cmd.MarkFlagRequired("role")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func formatActions(acts []protocol.Action) string {
	if len(acts) == 0 {
		return "-"
	}
	names := make([]string, len(acts))
	for i, a := range acts {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}
