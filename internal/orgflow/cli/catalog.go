package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/service"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store/drivers/sqlite"
)

// SeedFile is the layout of a catalog seed file:
//
//	domains:
//	  - name: Healthcare
//	    industries: [Pharma, Hospitals]
type SeedFile struct {
	Domains []service.SeedDomain `yaml:"domains"`
}

// LoadSeedFile reads and parses a catalog seed file.
func LoadSeedFile(path string) (SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedFile{}, err
	}

	var f SeedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return SeedFile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(f.Domains) == 0 {
		return SeedFile{}, fmt.Errorf("%s: no domains", path)
	}
	return f, nil
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the domain/industry catalog",
	}
	cmd.AddCommand(newCatalogSeedCommand(rootOpts))
	return cmd
}

func newCatalogSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import domains and industries from YAML",
		Long: `Import domains and industries from a YAML file.

Domains that already exist (by name) are skipped with their industries,
so seeding twice is harmless.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := LoadSeedFile(file)
			if err != nil {
				return WrapExitError(ExitCommandError, "read seed file", err)
			}

			return withMigratedStore(rootOpts, cmd, func(st *sqlite.Store, out *output) error {
				svc := &service.CatalogService{Store: st}
				res, err := svc.Seed(cmd.Context(), seed.Domains)
				if err != nil {
					return out.Fail(err)
				}
				return out.Success(res, fmt.Sprintf("seeded %d domains and %d industries, skipped %d existing domains",
					res.Domains, res.Industries, res.Skipped))
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
