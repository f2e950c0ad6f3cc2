package hierarchy_test

import (
	"testing"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/hierarchy"
	"github.com/stretchr/testify/require"
)

func TestEncodeSnapshotWritesEmptyArrays(t *testing.T) {
	t.Parallel()

	blob, err := hierarchy.EncodeSnapshot(hierarchy.Snapshot{})
	require.NoError(t, err)
	require.JSONEq(t, `{"roles":[],"nodes":[]}`, string(blob))
}

func TestDecodeSnapshotNullReferencesAreUnset(t *testing.T) {
	t.Parallel()

	snap, err := hierarchy.DecodeSnapshot([]byte(`{
		"roles": [{"id": "r1", "name": "CEO"}],
		"nodes": [
			{"id": "n1", "name": "A", "roleId": null, "parentId": null},
			{"id": "n2", "name": "B", "parentId": "n1"}
		]
	}`))
	require.NoError(t, err)
	require.Equal(t, []hierarchy.Node{
		{ID: "n1", Name: "A"},
		{ID: "n2", Name: "B", ParentID: "n1"},
	}, snap.Nodes)
}

func TestDecodeSnapshotKeepsDanglingParents(t *testing.T) {
	t.Parallel()

	snap, err := hierarchy.DecodeSnapshot([]byte(`{"roles":[],"nodes":[{"id":"n1","name":"A","parentId":"gone"}]}`))
	require.NoError(t, err)
	require.Equal(t, "gone", snap.Nodes[0].ParentID)
}

func TestDecodeSnapshotRejects(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":          ``,
		"array":          `[]`,
		"missing roles":  `{"nodes":[]}`,
		"null nodes":     `{"roles":[],"nodes":null}`,
		"role no name":   `{"roles":[{"id":"r1"}],"nodes":[]}`,
		"role empty id":  `{"roles":[{"id":"","name":"x"}],"nodes":[]}`,
		"duplicate role": `{"roles":[{"id":"r1","name":"a"},{"id":"r1","name":"b"}],"nodes":[]}`,
		"duplicate node": `{"roles":[],"nodes":[{"id":"n1","name":"a"},{"id":"n1","name":"b"}]}`,
		"self parent":    `{"roles":[],"nodes":[{"id":"n1","name":"a","parentId":"n1"}]}`,
		"long cycle":     `{"roles":[],"nodes":[{"id":"a","parentId":"c"},{"id":"b","parentId":"a"},{"id":"c","parentId":"b"}]}`,
		"wrong type":     `{"roles":[],"nodes":[{"id":7}]}`,
	}

	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := hierarchy.DecodeSnapshot([]byte(blob))
			require.ErrorIs(t, err, hierarchy.ErrMalformedSnapshot)
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	in := hierarchy.Snapshot{
		Roles: []hierarchy.Role{{ID: "r1", Name: "CEO"}, {ID: "r2", Name: "CTO"}},
		Nodes: []hierarchy.Node{
			{ID: "n1", Name: "Alex", RoleID: "r1"},
			{ID: "n2", Name: "Bea", RoleID: "r2", ParentID: "n1"},
			{ID: "n3", Name: "Cy", ParentID: "n2"},
		},
	}

	blob, err := hierarchy.EncodeSnapshot(in)
	require.NoError(t, err)
	out, err := hierarchy.DecodeSnapshot(blob)
	require.NoError(t, err)
	require.Equal(t, in, out)
}
