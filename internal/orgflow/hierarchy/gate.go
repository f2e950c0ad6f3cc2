package hierarchy

import "strings"

const (
	// ObjectChart is the authorization object every chart command is checked against.
	ObjectChart = "chart"

	ActionRead  = "read"
	ActionWrite = "write"

	// PrivilegedRole is the caller role allowed to change the chart by default.
	PrivilegedRole = "admin"
)

// Identity is the acting user as supplied by the identity provider.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// Authorizer decides whether a role may perform action on object.
type Authorizer interface {
	Allowed(role, object, action string) (bool, error)
}

// RoleEquals allows writes only for one role and reads for everyone.
type RoleEquals string

func (r RoleEquals) Allowed(role, _, action string) (bool, error) {
	if action == ActionRead {
		return true, nil
	}
	return role != "" && role == string(r), nil
}

// Gate puts access control in front of a Store for one caller. The caller's
// role is captured once when the Gate is opened.
type Gate struct {
	store *Store
	who   Identity
	authz Authorizer
}

// NewGate binds a caller to store. A nil authorizer means
// RoleEquals(PrivilegedRole). An identity without a role is rejected with
// ErrNoIdentity.
func NewGate(store *Store, who Identity, authz Authorizer) (*Gate, error) {
	if strings.TrimSpace(who.Role) == "" {
		return nil, ErrNoIdentity
	}
	if authz == nil {
		authz = RoleEquals(PrivilegedRole)
	}
	return &Gate{store: store, who: who, authz: authz}, nil
}

// Identity returns the caller bound to the gate.
func (g *Gate) Identity() Identity { return g.who }

// Store exposes the underlying store for reads.
func (g *Gate) Store() *Store { return g.store }

// CanWrite reports whether the caller may run mutating commands.
func (g *Gate) CanWrite() bool {
	return g.check(ActionWrite) == nil
}

func (g *Gate) check(action string) error {
	ok, err := g.authz.Allowed(g.who.Role, ObjectChart, action)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPermissionDenied
	}
	return nil
}

func (g *Gate) AddNode(parentID, name, roleID string) (string, error) {
	if err := g.check(ActionWrite); err != nil {
		return "", err
	}
	return g.store.AddNode(parentID, name, roleID)
}

func (g *Gate) UpdateNode(id, name, roleID string) error {
	if err := g.check(ActionWrite); err != nil {
		return err
	}
	return g.store.UpdateNode(id, name, roleID)
}

func (g *Gate) DeleteNode(id string) (int, error) {
	if err := g.check(ActionWrite); err != nil {
		return 0, err
	}
	return g.store.DeleteNode(id)
}

func (g *Gate) AddRole(name string) (string, error) {
	if err := g.check(ActionWrite); err != nil {
		return "", err
	}
	return g.store.AddRole(name)
}

func (g *Gate) RemoveRole(id string) error {
	if err := g.check(ActionWrite); err != nil {
		return err
	}
	return g.store.RemoveRole(id)
}

func (g *Gate) ReplaceRoles(names []string) ([]string, error) {
	if err := g.check(ActionWrite); err != nil {
		return nil, err
	}
	return g.store.ReplaceRoles(names)
}

// Reads are never gated.

func (g *Gate) ListRoots() []Node                   { return g.store.ListRoots() }
func (g *Gate) ListChildren(parentID string) []Node { return g.store.ListChildren(parentID) }
func (g *Gate) ResolveRoleName(roleID string) string {
	return g.store.ResolveRoleName(roleID)
}
