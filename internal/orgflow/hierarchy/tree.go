package hierarchy

import (
	"fmt"
	"io"
	"strings"
)

// UnassignedLabel is shown for nodes without a role.
const UnassignedLabel = "Unassigned"

// TreeNode is the nested view of a node used by the full-tree page.
type TreeNode struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	RoleID   string      `json:"roleId"`
	RoleName string      `json:"roleName"`
	ParentID string      `json:"parentId"`
	Children []*TreeNode `json:"children"`
}

// Tree nests the chart under its roots, keeping store order among siblings.
// Nodes whose parent no longer exists are not reachable from a root and are
// left out.
func Tree(s *Store) []*TreeNode {
	nodes := s.Nodes()

	byID := make(map[string]*TreeNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = &TreeNode{
			ID:       n.ID,
			Name:     n.Name,
			RoleID:   n.RoleID,
			RoleName: s.ResolveRoleName(n.RoleID),
			ParentID: n.ParentID,
			Children: []*TreeNode{},
		}
	}

	roots := make([]*TreeNode, 0)
	for _, n := range nodes {
		t := byID[n.ID]
		if n.IsRoot() {
			roots = append(roots, t)
			continue
		}
		if p, ok := byID[n.ParentID]; ok {
			p.Children = append(p.Children, t)
		}
	}
	return roots
}

// RenderText writes the chart as an indented outline, two spaces per level:
//
//	Alex Sharma (CEO)
//	  Bea Lin (CTO)
func RenderText(w io.Writer, s *Store) error {
	type frame struct {
		node  *TreeNode
		depth int
	}

	roots := Tree(s)
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: roots[i]})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		name := f.node.Name
		if name == "" {
			name = "—"
		}
		role := f.node.RoleName
		if role == "" {
			role = UnassignedLabel
		}
		if _, err := fmt.Fprintf(w, "%s%s (%s)\n", strings.Repeat("  ", f.depth), name, role); err != nil {
			return err
		}

		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], depth: f.depth + 1})
		}
	}
	return nil
}
