package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"blueprint/job"
	"blueprint/materialize"
)

func newCreateCmd(a *app) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "create <preset> <path>",
		Short: "Create a project skeleton from a preset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := materialize.CheckPath(args[1])
			if !status.Usable() {
				return fmt.Errorf("%s: %s", args[1], status.Message())
			}

			j, err := a.jobManager().Start(args[0], args[1])
			if err != nil {
				if errors.Is(err, materialize.ErrUnknownPreset) {
					return fmt.Errorf("template not found: %s", args[0])
				}
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			if quiet {
				out = io.Discard
			}
			last, err := follow(ctx, j, out)
			if err != nil {
				return err
			}
			if !last.Success {
				return errors.New(last.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), last.Message)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the final result")
	return cmd
}

// follow prints a job's progress until its done event. Cancelling ctx
// cancels the job and keeps following until the worker stops.
func follow(ctx context.Context, j *job.Job, out io.Writer) (job.Event, error) {
	seen := 0
	for {
		events, changed := j.Since(seen)
		for _, ev := range events {
			if ev.Type == job.EventDone {
				return ev, nil
			}
			fmt.Fprintf(out, "[%3d%%] %s\n", ev.Percent, ev.Message)
		}
		seen += len(events)

		select {
		case <-changed:
		case <-ctx.Done():
			j.Cancel()
			ctx = context.Background()
		}
	}
}
