// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cli implements the `agent` command tree of the FleetZen field
// agent: offline draft editing, inspection, manual sync and the daemon.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/fleetzen/fleetzen/internal/client"
	"github.com/fleetzen/fleetzen/internal/config"
	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/models"
	"github.com/spf13/cobra"
)

// ClientFactory opens the agent runtime from the parsed flag values.
type ClientFactory func(ctx context.Context, flags *config.StructuredConfig) (client.Client, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"

	// Flags receives the configuration flags; it is merged with defaults,
	// the config file and the environment when a command opens the client.
	Flags *config.StructuredConfig

	BuildInfo models.AppBuildInfo

	newClient ClientFactory
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the agent CLI.
func NewRootCommand(buildInfo models.AppBuildInfo) *cobra.Command {
	return newRootCommand(buildInfo, openClient)
}

func newRootCommand(buildInfo models.AppBuildInfo, factory ClientFactory) *cobra.Command {
	opts := &RootOptions{BuildInfo: buildInfo, newClient: factory}

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "FleetZen field agent",
		Long: `FleetZen field agent.

Records interventions (washing, fuel delivery, tank fill) as drafts on the
device while offline and submits them once the intake server is reachable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return WrapExitError(ExitCommandError, "invalid flags",
					fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	opts.Flags = config.RegisterClientFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewPhotoCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewReapCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewRetryCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// Execute runs the agent CLI with args and returns the process exit code.
// Errors are printed in the selected output format.
func Execute(ctx context.Context, buildInfo models.AppBuildInfo, args []string) int {
	return execute(ctx, newRootCommand(buildInfo, openClient), args)
}

func execute(ctx context.Context, cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	format, _ := cmd.PersistentFlags().GetString("format")
	if !slices.Contains(ValidFormats, format) {
		format = "text"
	}
	out := &OutputFormatter{Format: format, Writer: cmd.ErrOrStderr()}
	if format == "json" {
		out.Writer = cmd.OutOrStdout()
	}
	_ = out.Error(err)

	return GetExitCode(err)
}

// output returns the formatter for cmd's stdout.
func (o *RootOptions) output(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// withClient opens the agent runtime, runs fn with a context carrying the
// session agent and closes the runtime.
func (o *RootOptions) withClient(cmd *cobra.Command, fn func(ctx context.Context, c client.Client) error) error {
	c, err := o.newClient(cmd.Context(), o.Flags)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot open the draft store", err)
	}
	defer c.Close()

	return fn(c.WithAgent(cmd.Context()), c)
}

// openClient is the production ClientFactory.
func openClient(ctx context.Context, flags *config.StructuredConfig) (client.Client, error) {
	cfg, err := config.GetClientConfig(flags)
	if err != nil {
		return nil, err
	}

	log := logger.NewClientLogger("fleetzen-agent", cfg.App.LogPath).WithLevel(cfg.App.LogLevel)

	return client.NewApp(ctx, cfg, log)
}
