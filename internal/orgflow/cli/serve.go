package cli

import (
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/app"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the orgflow HTTP API until SIGINT or SIGTERM.

Configuration comes from the environment (and a .env file when present).
Migrations are applied and the org chart is seeded before listening.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.config(true)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			if port > 0 {
				cfg.Port = port
			}

			a, err := app.New(cfg)
			if err != nil {
				return WrapExitError(ExitCommandError, "startup failed", err)
			}
			return a.Run()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default $PORT)")
	return cmd
}
