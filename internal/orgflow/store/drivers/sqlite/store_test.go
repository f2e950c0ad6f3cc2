package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/domain"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store"
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

func seedUser(t *testing.T, s store.Store, id, email string) {
	t.Helper()
	require.NoError(t, s.Users().CreateUser(context.Background(), domain.User{
		ID: id, Username: id, Email: email, PasswordHash: "x", Role: domain.RoleMember,
	}))
}

func TestMigrations(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	v, dirty, err := s.MigrationVersion()
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(1), v)

	require.NoError(t, s.RollbackMigrations(1))
	require.NoError(t, s.ApplyMigrations())
}

func TestUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	empty, err := s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	seedUser(t, s, "u1", " Ada@Example.com ")

	u, err := s.Users().GetUserByEmail(ctx, "ada@example.COM")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.Equal(t, "ada@example.com", u.Email)

	_, err = s.Users().GetUserByID(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Users().CreateUser(ctx, domain.User{ID: "u2", Email: "ADA@example.com", Role: domain.RoleMember})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	empty, err = s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestCatalog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)
	c := s.Catalog()

	require.NoError(t, c.CreateDomain(ctx, domain.Domain{ID: "d2", Name: "Retail"}))
	require.NoError(t, c.CreateDomain(ctx, domain.Domain{ID: "d1", Name: "Healthcare"}))
	require.ErrorIs(t, c.CreateDomain(ctx, domain.Domain{ID: "d3", Name: "Retail"}), store.ErrAlreadyExists)

	require.NoError(t, c.CreateIndustry(ctx, domain.Industry{ID: "i2", DomainID: "d1", Name: "Pharma"}))
	require.NoError(t, c.CreateIndustry(ctx, domain.Industry{ID: "i1", DomainID: "d1", Name: "Hospitals"}))
	require.ErrorIs(t, c.CreateIndustry(ctx, domain.Industry{ID: "i3", DomainID: "d1", Name: "Pharma"}), store.ErrAlreadyExists)
	require.ErrorIs(t, c.CreateIndustry(ctx, domain.Industry{ID: "i4", DomainID: "missing", Name: "X"}), store.ErrNotFound)

	domains, err := c.ListDomains(ctx)
	require.NoError(t, err)
	require.Len(t, domains, 2)
	require.Equal(t, "Healthcare", domains[0].Name)
	require.Equal(t, []string{"Hospitals", "Pharma"}, []string{domains[0].Industries[0].Name, domains[0].Industries[1].Name})
	require.Equal(t, "Retail", domains[1].Name)
	require.Empty(t, domains[1].Industries)

	d, err := c.GetDomainByName(ctx, "Healthcare")
	require.NoError(t, err)
	require.True(t, d.HasIndustry("Pharma"))

	_, err = c.GetDomain(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	// The industries still reference d1.
	require.Error(t, c.DeleteDomain(ctx, "d1"))

	err = s.WithTx(ctx, func(tx store.Tx) error {
		n, err := tx.Catalog().DeleteIndustriesByDomain(ctx, "d1")
		if err != nil {
			return err
		}
		require.Equal(t, int64(2), n)
		return tx.Catalog().DeleteDomain(ctx, "d1")
	})
	require.NoError(t, err)

	domains, err = c.ListDomains(ctx)
	require.NoError(t, err)
	require.Len(t, domains, 1)

	require.ErrorIs(t, c.DeleteIndustry(ctx, "i1"), store.ErrNotFound)
	require.ErrorIs(t, c.DeleteDomain(ctx, "d1"), store.ErrNotFound)
}

func TestProjects(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)
	seedUser(t, s, "u1", "a@example.com")
	seedUser(t, s, "u2", "b@example.com")

	p := s.Projects()
	for _, pr := range []domain.Project{
		{ID: "p1", OwnerID: "u1", Name: "Apollo Rollout", Domain: "Healthcare", Industry: "Pharma", Start: "2024-01-01", Running: true},
		{ID: "p2", OwnerID: "u1", Name: "Billing", Domain: "Retail", Industry: "Grocery", Start: "2023-01-01", End: "2023-06-01"},
		{ID: "p3", OwnerID: "u2", Name: "apollo two", Domain: "Healthcare", Industry: "Pharma", Start: "2024-01-01", Running: true},
	} {
		require.NoError(t, p.CreateProject(ctx, pr))
	}

	all, err := p.ListProjects(ctx, "u1", domain.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	found, err := p.ListProjects(ctx, "u1", domain.ProjectFilter{Search: "APOLLO"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "p1", found[0].ID)

	found, err = p.ListProjects(ctx, "u1", domain.ProjectFilter{Status: domain.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "p2", found[0].ID)

	found, err = p.ListProjects(ctx, "u1", domain.ProjectFilter{Domain: "Healthcare", Status: domain.StatusRunning})
	require.NoError(t, err)
	require.Len(t, found, 1)

	stats, err := p.ProjectStats(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, domain.ProjectStats{Total: 2, Running: 1, Completed: 1}, stats)

	stats, err = p.ProjectStats(ctx, "nobody")
	require.NoError(t, err)
	require.Equal(t, domain.ProjectStats{}, stats)

	// Another owner's project behaves as missing.
	_, err = p.GetProject(ctx, "u1", "p3")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, p.DeleteProject(ctx, "u1", "p3"), store.ErrNotFound)

	got, err := p.GetProject(ctx, "u1", "p1")
	require.NoError(t, err)
	got.Running = false
	got.End = "2024-02-01"
	require.NoError(t, p.UpdateProject(ctx, got))

	got, err = p.GetProject(ctx, "u1", "p1")
	require.NoError(t, err)
	require.False(t, got.Running)
	require.Equal(t, "2024-02-01", got.End)

	got.OwnerID = "u2"
	require.ErrorIs(t, p.UpdateProject(ctx, got), store.ErrNotFound)

	require.NoError(t, p.DeleteProject(ctx, "u1", "p1"))
	_, err = p.GetProject(ctx, "u1", "p1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSnapshots(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)
	snaps := s.Snapshots()

	_, err := snaps.GetSnapshot(ctx, "k")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = snaps.UpdateSnapshot(ctx, "k", func(blob []byte, ok bool) ([]byte, error) {
		require.False(t, ok)
		require.Nil(t, blob)
		return []byte("one"), nil
	})
	require.NoError(t, err)

	err = snaps.UpdateSnapshot(ctx, "k", func(blob []byte, ok bool) ([]byte, error) {
		require.True(t, ok)
		require.Equal(t, "one", string(blob))
		return []byte("two"), nil
	})
	require.NoError(t, err)

	snap, err := snaps.GetSnapshot(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "two", string(snap.Blob))
	require.Equal(t, int64(2), snap.Version)
	require.False(t, snap.UpdatedAt.IsZero())

	boom := errors.New("boom")
	err = snaps.UpdateSnapshot(ctx, "k", func([]byte, bool) ([]byte, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	snap, err = snaps.GetSnapshot(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "two", string(snap.Blob))
	require.Equal(t, int64(2), snap.Version)
}

func TestSnapshotsInsideTx(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	tx, err := s.Tx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Snapshots().UpdateSnapshot(ctx, "k", func([]byte, bool) ([]byte, error) {
		return []byte("staged"), nil
	}))
	require.NoError(t, tx.Rollback())

	_, err = s.Snapshots().GetSnapshot(ctx, "k")
	require.ErrorIs(t, err, store.ErrNotFound)
}
