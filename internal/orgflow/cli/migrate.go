package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/app"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store/drivers/sqlite"
)

// MigrationStatus is the data of migrate results.
type MigrationStatus struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

// NewMigrateCommand creates the migrate command group.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:          "up",
		Short:        "Apply pending migrations",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(st *sqlite.Store, out *output) error {
				if err := st.ApplyMigrations(); err != nil {
					return out.Fail(err)
				}
				return reportVersion(st, out)
			})
		},
	})

	var steps int
	down := &cobra.Command{
		Use:          "down",
		Short:        "Roll back applied migrations",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(st *sqlite.Store, out *output) error {
				if err := st.RollbackMigrations(steps); err != nil {
					return out.Fail(err)
				}
				return reportVersion(st, out)
			})
		},
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:          "version",
		Short:        "Print the applied schema version",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(st *sqlite.Store, out *output) error {
				return reportVersion(st, out)
			})
		},
	})

	return cmd
}

func reportVersion(st *sqlite.Store, out *output) error {
	v, dirty, err := st.MigrationVersion()
	if err != nil {
		return out.Fail(err)
	}
	text := fmt.Sprintf("schema version %d", v)
	if dirty {
		text += " (dirty)"
	}
	return out.Success(MigrationStatus{Version: v, Dirty: dirty}, text)
}

// withStore opens the configured database without migrating it.
func withStore(rootOpts *RootOptions, cmd *cobra.Command, fn func(*sqlite.Store, *output) error) error {
	cfg, err := rootOpts.config(false)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	st, err := sqlite.NewStore(app.DSN(cfg.DatabaseFile))
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer st.Close()

	return fn(st, newOutput(rootOpts, cmd))
}

// withMigratedStore is withStore after bringing the schema up to date.
func withMigratedStore(rootOpts *RootOptions, cmd *cobra.Command, fn func(*sqlite.Store, *output) error) error {
	return withStore(rootOpts, cmd, func(st *sqlite.Store, out *output) error {
		if err := st.ApplyMigrations(); err != nil {
			return WrapExitError(ExitCommandError, "apply migrations", err)
		}
		return fn(st, out)
	})
}
