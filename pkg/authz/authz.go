// Package authz answers "may this role do that" with a casbin RBAC model.
package authz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

// Objects guarded by the policy.
const (
	ObjectChart    = "chart"
	ObjectCatalog  = "catalog"
	ObjectProjects = "projects"
	ObjectAdmin    = "admin"
)

// Actions on those objects.
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionAccess = "access"
)

// Roles known to the default policy.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Model is the casbin model every policy is evaluated against. Roles inherit
// through g, and a policy action of "*" matches any action.
const Model = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && (r.act == p.act || p.act == "*")
`

var ErrEmptyRole = errors.New("authz: privileged role is empty")

type Authorizer struct {
	enforcer *casbin.Enforcer
}

// SubjectFromRole maps an application role to a casbin subject. Roles are
// matched exactly: "Admin" is not "admin".
func SubjectFromRole(role string) string {
	if role == "" {
		role = "anonymous"
	}
	return "role:" + role
}

// New builds an Authorizer. With an empty policyPath the default policy is
// installed, with privileged as the role allowed to change the chart and the
// catalog. Otherwise policies are read from the CSV file at policyPath.
func New(policyPath, privileged string) (*Authorizer, error) {
	m, err := model.NewModelFromString(Model)
	if err != nil {
		return nil, fmt.Errorf("authz: model: %w", err)
	}

	if policyPath != "" {
		enforcer, err := casbin.NewEnforcer(m, fileadapter.NewAdapter(policyPath))
		if err != nil {
			return nil, fmt.Errorf("authz: load policy %s: %w", policyPath, err)
		}
		return &Authorizer{enforcer: enforcer}, nil
	}

	if strings.TrimSpace(privileged) == "" {
		return nil, ErrEmptyRole
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: enforcer: %w", err)
	}
	if err := installDefaults(enforcer, SubjectFromRole(privileged)); err != nil {
		return nil, err
	}
	return &Authorizer{enforcer: enforcer}, nil
}

// installDefaults grants members read access and their own projects, and
// gives the privileged role everything members have plus chart, catalog and
// admin area writes.
func installDefaults(e *casbin.Enforcer, privileged string) error {
	member := SubjectFromRole(RoleMember)

	policies := [][]string{
		{member, ObjectChart, ActionRead},
		{member, ObjectCatalog, ActionRead},
		{member, ObjectProjects, "*"},
		{privileged, ObjectChart, "*"},
		{privileged, ObjectCatalog, "*"},
		{privileged, ObjectAdmin, ActionAccess},
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return fmt.Errorf("authz: add policies: %w", err)
	}
	if privileged != member {
		if _, err := e.AddGroupingPolicy(privileged, member); err != nil {
			return fmt.Errorf("authz: add grouping: %w", err)
		}
	}
	return nil
}

// Allowed reports whether role may perform action on object.
func (a *Authorizer) Allowed(role, object, action string) (bool, error) {
	return a.enforcer.Enforce(SubjectFromRole(role), object, action)
}
