package cli

import "github.com/spf13/cobra"

// NewVersionCommand creates the version command. It never opens the store.
func NewVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.output(cmd).Success(versionResult{AppBuildInfo: opts.BuildInfo})
		},
	}
}
