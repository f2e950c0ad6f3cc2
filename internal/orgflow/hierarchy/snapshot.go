package hierarchy

import (
	"encoding/json"
	"fmt"
)

// Role is a named label assignable to nodes (a job title).
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Node is a single entry in the organization chart. Empty RoleID means
// "Unassigned", empty ParentID marks a root.
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RoleID   string `json:"roleId"`
	ParentID string `json:"parentId"`
}

// IsRoot reports whether n has no parent.
func (n Node) IsRoot() bool { return n.ParentID == "" }

// Snapshot is the serialized form of a Store handed to Persistence.
type Snapshot struct {
	Roles []Role `json:"roles"`
	Nodes []Node `json:"nodes"`
}

// EncodeSnapshot serializes s. Nil slices are written as empty arrays so the
// blob always carries both fields.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	if s.Roles == nil {
		s.Roles = []Role{}
	}
	if s.Nodes == nil {
		s.Nodes = []Node{}
	}
	return json.Marshal(s)
}

// DecodeSnapshot parses and validates a persisted blob. Both arrays must be
// present, every entry needs a non-empty unique id, and the parent links must
// not form a cycle. roleId and parentId may be missing, null or "" and all
// mean unset.
func DecodeSnapshot(blob []byte) (Snapshot, error) {
	var raw struct {
		Roles *[]rawRole `json:"roles"`
		Nodes *[]rawNode `json:"nodes"`
	}
	if err := json.Unmarshal(blob, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if raw.Roles == nil || raw.Nodes == nil {
		return Snapshot{}, fmt.Errorf("%w: roles and nodes are required", ErrMalformedSnapshot)
	}

	snap := Snapshot{
		Roles: make([]Role, 0, len(*raw.Roles)),
		Nodes: make([]Node, 0, len(*raw.Nodes)),
	}

	roleIDs := make(map[string]struct{}, len(*raw.Roles))
	for i, r := range *raw.Roles {
		if r.ID == nil || *r.ID == "" || r.Name == nil {
			return Snapshot{}, fmt.Errorf("%w: role %d is missing id or name", ErrMalformedSnapshot, i)
		}
		if _, dup := roleIDs[*r.ID]; dup {
			return Snapshot{}, fmt.Errorf("%w: duplicate role id %q", ErrMalformedSnapshot, *r.ID)
		}
		roleIDs[*r.ID] = struct{}{}
		snap.Roles = append(snap.Roles, Role{ID: *r.ID, Name: *r.Name})
	}

	nodeIDs := make(map[string]struct{}, len(*raw.Nodes))
	for i, n := range *raw.Nodes {
		if n.ID == nil || *n.ID == "" {
			return Snapshot{}, fmt.Errorf("%w: node %d is missing id", ErrMalformedSnapshot, i)
		}
		if _, dup := nodeIDs[*n.ID]; dup {
			return Snapshot{}, fmt.Errorf("%w: duplicate node id %q", ErrMalformedSnapshot, *n.ID)
		}
		nodeIDs[*n.ID] = struct{}{}
		snap.Nodes = append(snap.Nodes, Node{
			ID:       *n.ID,
			Name:     deref(n.Name),
			RoleID:   deref(n.RoleID),
			ParentID: deref(n.ParentID),
		})
	}

	if id, ok := findCycle(snap.Nodes); ok {
		return Snapshot{}, fmt.Errorf("%w: node %q is its own ancestor", ErrMalformedSnapshot, id)
	}

	return snap, nil
}

type rawRole struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

type rawNode struct {
	ID       *string `json:"id"`
	Name     *string `json:"name"`
	RoleID   *string `json:"roleId"`
	ParentID *string `json:"parentId"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// findCycle walks parent links from every node and reports the first node
// that reaches itself. Dangling parents end the walk.
func findCycle(nodes []Node) (string, bool) {
	parent := make(map[string]string, len(nodes))
	for _, n := range nodes {
		parent[n.ID] = n.ParentID
	}

	// 0 = unvisited, 1 = on the current path, 2 = known acyclic
	state := make(map[string]int, len(nodes))
	for _, n := range nodes {
		var path []string
		cur := n.ID
		for cur != "" && state[cur] == 0 {
			if _, ok := parent[cur]; !ok {
				break
			}
			state[cur] = 1
			path = append(path, cur)
			cur = parent[cur]
		}
		if cur != "" && state[cur] == 1 {
			return cur, true
		}
		for _, id := range path {
			state[id] = 2
		}
	}
	return "", false
}
