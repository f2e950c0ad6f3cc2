package hierarchy_test

import (
	"strings"
	"testing"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/hierarchy"
	"github.com/stretchr/testify/require"
)

func TestTreeNestsInStoreOrder(t *testing.T) {
	t.Parallel()

	s := hierarchy.FromSnapshot(hierarchy.Snapshot{
		Roles: []hierarchy.Role{{ID: "r1", Name: "CEO"}},
		Nodes: []hierarchy.Node{
			{ID: "a", Name: "A", RoleID: "r1"},
			{ID: "b", Name: "B", ParentID: "a"},
			{ID: "c", Name: "C", ParentID: "a"},
			{ID: "orphan", Name: "O", ParentID: "gone"},
			{ID: "d", Name: "D"},
		},
	}, hierarchy.NewMemoryPersistence(nil))

	roots := hierarchy.Tree(s)
	require.Len(t, roots, 2)
	require.Equal(t, "a", roots[0].ID)
	require.Equal(t, "CEO", roots[0].RoleName)
	require.Len(t, roots[0].Children, 2)
	require.Equal(t, "b", roots[0].Children[0].ID)
	require.Equal(t, "c", roots[0].Children[1].ID)
	require.Equal(t, "d", roots[1].ID)
	require.NotNil(t, roots[1].Children)
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	s := hierarchy.FromSnapshot(hierarchy.Snapshot{
		Roles: []hierarchy.Role{{ID: "r1", Name: "CEO"}, {ID: "r2", Name: "CTO"}},
		Nodes: []hierarchy.Node{
			{ID: "a", Name: "Alex Sharma", RoleID: "r1"},
			{ID: "b", Name: "Bea Lin", RoleID: "r2", ParentID: "a"},
			{ID: "c", Name: "Cy", ParentID: "b"},
			{ID: "d", Name: "Dee", ParentID: "a"},
		},
	}, hierarchy.NewMemoryPersistence(nil))

	var out strings.Builder
	require.NoError(t, hierarchy.RenderText(&out, s))
	require.Equal(t, strings.Join([]string{
		"Alex Sharma (CEO)",
		"  Bea Lin (CTO)",
		"    Cy (Unassigned)",
		"  Dee (Unassigned)",
		"",
	}, "\n"), out.String())
}
