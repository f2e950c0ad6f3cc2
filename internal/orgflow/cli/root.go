// Package cli is the orgflow command line: the HTTP server plus the
// maintenance commands that work on the database directly.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/app"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Database overrides ORGFLOW_DATABASE_FILE.
	Database string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the orgflow CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "orgflow",
		Short:   "orgflow - org charts, catalog and projects",
		Long:    "An org chart editor with a domain/industry catalog and a per-user project dashboard.",
		Version: app.BuildVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "sqlite database file (default $ORGFLOW_DATABASE_FILE)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewChartCommand(opts))

	return cmd
}

// config reads the environment and applies the global flag overrides.
// Maintenance commands skip validation so they run without a JWT secret.
func (o *RootOptions) config(validate bool) (app.Config, error) {
	cfg, err := app.ParseConfig()
	if err != nil {
		return app.Config{}, err
	}
	if o.Database != "" {
		cfg.DatabaseFile = o.Database
	}
	if o.Verbose {
		cfg.LogLevel = "debug"
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return app.Config{}, err
		}
	}
	return cfg, nil
}
