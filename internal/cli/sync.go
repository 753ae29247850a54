package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fleetzen/fleetzen/internal/client"
	"github.com/fleetzen/fleetzen/internal/service"
	"github.com/spf13/cobra"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Submit every eligible draft to the intake server",
		Long: `Probe the intake server and, when it is reachable, submit every
local-only draft that has not expired. Drafts the server refuses are marked
sync-failed; resubmit them with 'agent retry'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				services := c.Services()
				if !services.Connectivity.Check(ctx) {
					return fmt.Errorf("%w: no drafts were touched", service.ErrServerUnreachable)
				}

				report, err := services.SyncService.SyncPending(ctx)
				if err != nil {
					return err
				}
				return opts.output(cmd).Success(syncResult{SyncReport: report})
			})
		},
	}
}

// NewRetryCommand creates the retry command.
func NewRetryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <draft-id>",
		Short: "Resubmit a sync-failed draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if err := c.Services().SyncService.Retry(ctx, args[0]); err != nil {
					return err
				}
				return opts.output(cmd).Success(messageResult{
					Message: fmt.Sprintf("Draft %s submitted.", args[0]),
					ID:      args[0],
				})
			})
		},
	}
}

// NewRunCommand creates the run command.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the background sync and cleanup daemon",
		Long: `Run the agent daemon in the foreground. It watches connectivity,
submits drafts whenever the server comes back online or the sync interval
elapses, and removes expired drafts. Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				return c.Run(ctx)
			})
		},
	}
}
