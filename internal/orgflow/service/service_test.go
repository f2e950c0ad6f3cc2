package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/domain"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedCatalog(t *testing.T, cs *CatalogService) domain.Domain {
	t.Helper()
	ctx := context.Background()

	d, err := cs.CreateDomain(ctx, "Healthcare")
	require.NoError(t, err)
	_, err = cs.CreateIndustry(ctx, d.ID, "Pharma")
	require.NoError(t, err)
	_, err = cs.CreateIndustry(ctx, d.ID, "Hospitals")
	require.NoError(t, err)
	return d
}
