package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/domain"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store"
	"github.com/stretchr/testify/require"
)

func newProjectService(t *testing.T) (*ProjectService, string) {
	t.Helper()
	ctx := context.Background()

	st := newTestStore(t)
	seedCatalog(t, &CatalogService{Store: st})

	auth := &AuthService{Store: st}
	u, err := auth.Signup(ctx, SignupRequest{Username: "ada", Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)

	return &ProjectService{
		Store: st,
		Now:   func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) },
	}, u.ID
}

func validInput() ProjectInput {
	return ProjectInput{
		Name:     "Apollo",
		Domain:   "Healthcare",
		Industry: "Pharma",
		Start:    "2024-01-01",
		End:      "2024-03-01",
	}
}

func TestProjectValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ps, owner := newProjectService(t)

	cases := []struct {
		name  string
		edit  func(*ProjectInput)
		field string
	}{
		{"missing name", func(in *ProjectInput) { in.Name = " " }, "name"},
		{"missing domain", func(in *ProjectInput) { in.Domain = "" }, "domain"},
		{"missing industry", func(in *ProjectInput) { in.Industry = "" }, "industry"},
		{"missing start", func(in *ProjectInput) { in.Start = "" }, "start"},
		{"missing end", func(in *ProjectInput) { in.End = "" }, "end"},
		{"bad start", func(in *ProjectInput) { in.Start = "01/02/2024" }, "start"},
		{"future start", func(in *ProjectInput) { in.Start = "2024-06-16"; in.Running = true }, "start"},
		{"future end", func(in *ProjectInput) { in.End = "2024-07-01" }, "end"},
		{"end before start", func(in *ProjectInput) { in.End = "2023-12-31" }, "end"},
		{"unknown domain", func(in *ProjectInput) { in.Domain = "Space" }, "domain"},
		{"foreign industry", func(in *ProjectInput) { in.Industry = "Grocery" }, "industry"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.edit(&in)
			_, err := ps.Create(ctx, owner, in)
			require.ErrorIs(t, err, ErrInvalidRequest)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestProjectLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ps, owner := newProjectService(t)

	done, err := ps.Create(ctx, owner, validInput())
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, done.Status())

	in := validInput()
	in.Name = "Zeus Platform"
	in.Running = true
	in.End = "2024-05-01"
	running, err := ps.Create(ctx, owner, in)
	require.NoError(t, err)
	require.True(t, running.Running)
	require.Empty(t, running.End, "running projects have no end date")

	// Today is allowed.
	in = validInput()
	in.Name = "Today"
	in.End = "2024-06-15"
	_, err = ps.Create(ctx, owner, in)
	require.NoError(t, err)

	stats, err := ps.Stats(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, domain.ProjectStats{Total: 3, Running: 1, Completed: 2}, stats)

	list, err := ps.List(ctx, owner, domain.ProjectFilter{Search: "zeus"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, running.ID, list[0].ID)

	list, err = ps.List(ctx, owner, domain.ProjectFilter{Status: "Running"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = ps.List(ctx, owner, domain.ProjectFilter{Status: "all"})
	require.NoError(t, err)
	require.Len(t, list, 3)

	_, err = ps.List(ctx, owner, domain.ProjectFilter{Status: "paused"})
	require.ErrorIs(t, err, ErrInvalidRequest)

	in = validInput()
	in.Name = "Zeus Platform"
	in.End = "2024-06-01"
	updated, err := ps.Update(ctx, owner, running.ID, in)
	require.NoError(t, err)
	require.False(t, updated.Running)
	require.Equal(t, "2024-06-01", updated.End)

	_, err = ps.Update(ctx, "someone-else", running.ID, in)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, ps.Delete(ctx, "someone-else", running.ID), store.ErrNotFound)

	require.NoError(t, ps.Delete(ctx, owner, running.ID))
	stats, err = ps.Stats(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Total)
}

func TestProjectTodayIsUTC(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ps, owner := newProjectService(t)

	// 01:00 on the 16th in Sydney is still the 15th in UTC.
	sydney := time.FixedZone("AEST", 10*60*60)
	ps.Now = func() time.Time { return time.Date(2024, 6, 16, 1, 0, 0, 0, sydney) }

	in := validInput()
	in.Start, in.End, in.Running = "2024-06-16", "", true
	_, err := ps.Create(ctx, owner, in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "start", verr.Field)

	in.Start = "2024-06-15"
	p, err := ps.Create(ctx, owner, in)
	require.NoError(t, err)
	require.Equal(t, "2024-06-15", p.Start)
}
