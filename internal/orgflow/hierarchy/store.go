// Package hierarchy holds the org chart: a forest of nodes with optional
// roles, kept entirely in memory and written out as one snapshot after every
// change.
package hierarchy

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/aussiebroadwan/orgflow/pkg/idx"
)

const (
	// DefaultRoleName is the role a fresh chart starts with.
	DefaultRoleName = "CEO"

	// DefaultRootName is the display name of the root seeded into an empty chart.
	DefaultRootName = "Alex Sharma"
)

// IDFunc generates a fresh identifier. prefix is "n" for nodes and "r" for roles.
type IDFunc func(prefix string) string

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the persistence key (DefaultKey).
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithLogger sets the logger used for swallowed persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithIDFunc replaces the id generator, mostly so tests get predictable ids.
func WithIDFunc(fn IDFunc) Option {
	return func(s *Store) { s.newID = fn }
}

// WithRequiredDurability makes a failed save fail the operation with
// ErrPersistenceUnavailable and restores the state from before it. Without
// this option saves are best effort: failures are logged and the in-memory
// state stays authoritative.
func WithRequiredDurability() Option {
	return func(s *Store) { s.durable = true }
}

// Store owns the roles and nodes of one chart. It is not safe for concurrent
// use; one session drives one Store.
type Store struct {
	key     string
	persist Persistence
	logger  *slog.Logger
	newID   IDFunc
	durable bool

	loaded bool
	roles  []Role
	nodes  []Node
}

// New returns a Store backed by p. Nothing is read until Load is called or the
// first operation runs.
func New(p Persistence, opts ...Option) *Store {
	s := &Store{
		key:     DefaultKey,
		persist: p,
		logger:  slog.Default(),
		newID:   defaultID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromSnapshot returns an already loaded Store holding snap verbatim. No
// default role or root node is seeded.
func FromSnapshot(snap Snapshot, p Persistence, opts ...Option) *Store {
	s := New(p, opts...)
	s.roles = slices.Clone(snap.Roles)
	s.nodes = slices.Clone(snap.Nodes)
	s.loaded = true
	return s
}

func defaultID(prefix string) string {
	return idx.Prefixed(prefix)
}

// Key returns the persistence key.
func (s *Store) Key() string { return s.key }

// Loaded reports whether the snapshot has been read.
func (s *Store) Loaded() bool { return s.loaded }

// Load reads the snapshot under the store key. A missing, unreadable or
// malformed snapshot falls back to the default: one "CEO" role and no nodes.
// If the chart has no nodes afterwards a root node is seeded with the first
// role. Load only fails when that seed cannot be persisted under required
// durability.
func (s *Store) Load() error {
	s.roles = []Role{{ID: s.newID("r"), Name: DefaultRoleName}}
	s.nodes = nil

	blob, ok, err := s.persist.Load(s.key)
	switch {
	case err != nil:
		s.logger.Warn("snapshot load failed, using default chart", "key", s.key, "error", err)
	case ok:
		snap, err := DecodeSnapshot(blob)
		if err != nil {
			s.logger.Warn("snapshot rejected, using default chart", "key", s.key, "error", err)
			break
		}
		s.roles, s.nodes = snap.Roles, snap.Nodes
	}
	s.loaded = true

	if len(s.nodes) > 0 {
		return nil
	}

	roleID := ""
	if len(s.roles) > 0 {
		roleID = s.roles[0].ID
	}
	return s.mutate(func() error {
		s.appendNode("", DefaultRootName, roleID)
		return nil
	})
}

func (s *Store) ensureLoaded() error {
	if s.loaded {
		return nil
	}
	return s.Load()
}

// mutate applies fn and persists the result. The previous state is restored
// when fn fails, or when the save fails under required durability.
func (s *Store) mutate(fn func() error) error {
	roles, nodes := slices.Clone(s.roles), slices.Clone(s.nodes)

	if err := fn(); err != nil {
		s.roles, s.nodes = roles, nodes
		return err
	}

	if err := s.save(); err != nil {
		if s.durable {
			s.roles, s.nodes = roles, nodes
			return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
		}
		s.logger.Warn("snapshot save failed, keeping in-memory chart", "key", s.key, "error", err)
	}
	return nil
}

func (s *Store) save() error {
	blob, err := EncodeSnapshot(s.Snapshot())
	if err != nil {
		return err
	}
	return s.persist.Save(s.key, blob)
}

// AddNode creates a node under parentID (empty for a new root) and returns
// its id. parentID is not checked against existing nodes; passing a stale id
// is the caller's problem.
func (s *Store) AddNode(parentID, name, roleID string) (string, error) {
	if err := s.ensureLoaded(); err != nil {
		return "", err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "must not be empty")
	}
	if roleID != "" && s.roleIndex(roleID) < 0 {
		return "", invalid("roleId", "unknown role "+roleID)
	}

	var id string
	err := s.mutate(func() error {
		id = s.appendNode(parentID, name, roleID)
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) appendNode(parentID, name, roleID string) string {
	n := Node{ID: s.newID("n"), Name: name, RoleID: roleID, ParentID: parentID}
	s.nodes = append(s.nodes, n)
	return n.ID
}

// UpdateNode overwrites the name and role of an existing node. The parent
// and id never change.
func (s *Store) UpdateNode(id, name, roleID string) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	i := s.nodeIndex(id)
	if i < 0 {
		return ErrNotFound
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name", "must not be empty")
	}
	if roleID != "" && s.roleIndex(roleID) < 0 {
		return invalid("roleId", "unknown role "+roleID)
	}

	return s.mutate(func() error {
		s.nodes[i].Name = name
		s.nodes[i].RoleID = roleID
		return nil
	})
}

// DeleteNode removes id together with its whole subtree and returns how many
// nodes were removed.
func (s *Store) DeleteNode(id string) (int, error) {
	if err := s.ensureLoaded(); err != nil {
		return 0, err
	}
	if s.nodeIndex(id) < 0 {
		return 0, ErrNotFound
	}

	doomed := s.subtree(id)
	err := s.mutate(func() error {
		s.nodes = slices.DeleteFunc(s.nodes, func(n Node) bool {
			_, ok := doomed[n.ID]
			return ok
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(doomed), nil
}

// subtree collects id and every node reachable from it through parent links
// using a worklist, so depth never grows the call stack.
func (s *Store) subtree(id string) map[string]struct{} {
	children := make(map[string][]string, len(s.nodes))
	for _, n := range s.nodes {
		if n.ParentID != "" {
			children[n.ParentID] = append(children[n.ParentID], n.ID)
		}
	}

	doomed := map[string]struct{}{id: {}}
	work := []string{id}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		for _, c := range children[cur] {
			if _, seen := doomed[c]; seen {
				continue
			}
			doomed[c] = struct{}{}
			work = append(work, c)
		}
	}
	return doomed
}

// AddRole appends a role and returns its id.
func (s *Store) AddRole(name string) (string, error) {
	if err := s.ensureLoaded(); err != nil {
		return "", err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "must not be empty")
	}

	var id string
	err := s.mutate(func() error {
		id = s.newID("r")
		s.roles = append(s.roles, Role{ID: id, Name: name})
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// RemoveRole deletes a role and unassigns it from every node in the same
// mutation.
func (s *Store) RemoveRole(id string) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	i := s.roleIndex(id)
	if i < 0 {
		return ErrNotFound
	}

	return s.mutate(func() error {
		s.roles = slices.Delete(s.roles, i, i+1)
		for j := range s.nodes {
			if s.nodes[j].RoleID == id {
				s.nodes[j].RoleID = ""
			}
		}
		return nil
	})
}

// ReplaceRoles discards every role and rebuilds the list from names, trimmed
// and with blanks dropped. Every old role is gone afterwards, so every node is
// unassigned, the same as RemoveRole does for a single role.
func (s *Store) ReplaceRoles(names []string) ([]string, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	roles := make([]Role, 0, len(names))
	ids := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id := s.newID("r")
		roles = append(roles, Role{ID: id, Name: name})
		ids = append(ids, id)
	}

	err := s.mutate(func() error {
		s.roles = roles
		for j := range s.nodes {
			s.nodes[j].RoleID = ""
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListRoots returns the nodes without a parent, in store order.
func (s *Store) ListRoots() []Node {
	return s.ListChildren("")
}

// ListChildren returns the nodes whose parent is parentID, in store order.
func (s *Store) ListChildren(parentID string) []Node {
	s.loadForRead()

	out := make([]Node, 0)
	for _, n := range s.nodes {
		if n.ParentID == parentID {
			out = append(out, n)
		}
	}
	return out
}

// ResolveRoleName returns the role's name, or "" when roleID is unset or
// unknown.
func (s *Store) ResolveRoleName(roleID string) string {
	s.loadForRead()

	if roleID == "" {
		return ""
	}
	if i := s.roleIndex(roleID); i >= 0 {
		return s.roles[i].Name
	}
	return ""
}

// Node looks up a single node.
func (s *Store) Node(id string) (Node, bool) {
	s.loadForRead()

	if i := s.nodeIndex(id); i >= 0 {
		return s.nodes[i], true
	}
	return Node{}, false
}

// Roles returns a copy of the role list.
func (s *Store) Roles() []Role {
	s.loadForRead()
	return slices.Clone(s.roles)
}

// Nodes returns a copy of the node list.
func (s *Store) Nodes() []Node {
	s.loadForRead()
	return slices.Clone(s.nodes)
}

// Snapshot returns a copy of the full state.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{Roles: slices.Clone(s.roles), Nodes: slices.Clone(s.nodes)}
}

func (s *Store) loadForRead() {
	if err := s.ensureLoaded(); err != nil {
		s.logger.Warn("chart load failed", "key", s.key, "error", err)
	}
}

func (s *Store) nodeIndex(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.nodes, func(n Node) bool { return n.ID == id })
}

func (s *Store) roleIndex(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.roles, func(r Role) bool { return r.ID == id })
}
