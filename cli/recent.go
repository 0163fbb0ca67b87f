package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"blueprint/materialize"
)

func newRecentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently created projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := a.recent.List()
			if len(paths) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recent projects found.")
				return nil
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Check whether a project can be created at path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := materialize.CheckPath(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], status.Message())
			if !status.Usable() {
				return fmt.Errorf("cannot create a project at %s", args[0])
			}
			return nil
		},
	}
}
