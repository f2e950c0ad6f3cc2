package orgsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Chart returns every role and node.
func (s *Session) Chart(ctx context.Context) (*ChartResponse, error) {
	var chart ChartResponse
	if err := s.get(ctx, "/api/chart", &chart); err != nil {
		return nil, err
	}
	return &chart, nil
}

// Tree returns the chart nested under its roots.
func (s *Session) Tree(ctx context.Context) (*TreeResponse, error) {
	var tree TreeResponse
	if err := s.get(ctx, "/api/chart/tree", &tree); err != nil {
		return nil, err
	}
	return &tree, nil
}

func (s *Session) Roots(ctx context.Context) (*NodesResponse, error) {
	var nodes NodesResponse
	if err := s.get(ctx, "/api/chart/roots", &nodes); err != nil {
		return nil, err
	}
	return &nodes, nil
}

func (s *Session) Children(ctx context.Context, parentID string) (*NodesResponse, error) {
	var nodes NodesResponse
	if err := s.get(ctx, "/api/chart/nodes/"+url.PathEscape(parentID)+"/children", &nodes); err != nil {
		return nil, err
	}
	return &nodes, nil
}

// AddNode requires the chart write permission.
func (s *Session) AddNode(ctx context.Context, req CreateNodeRequest) (*Node, error) {
	var node Node
	if err := s.send(ctx, http.MethodPost, "/api/chart/nodes", req, &node, http.StatusCreated); err != nil {
		return nil, err
	}
	return &node, nil
}

func (s *Session) UpdateNode(ctx context.Context, id string, req UpdateNodeRequest) (*Node, error) {
	var node Node
	if err := s.send(ctx, http.MethodPut, "/api/chart/nodes/"+url.PathEscape(id), req, &node, http.StatusOK); err != nil {
		return nil, err
	}
	return &node, nil
}

// DeleteNode removes the node and everything below it.
func (s *Session) DeleteNode(ctx context.Context, id string) (*DeleteNodeResponse, error) {
	var out DeleteNodeResponse
	if err := s.send(ctx, http.MethodDelete, "/api/chart/nodes/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) Roles(ctx context.Context) (*RolesResponse, error) {
	var roles RolesResponse
	if err := s.get(ctx, "/api/chart/roles", &roles); err != nil {
		return nil, err
	}
	return &roles, nil
}

func (s *Session) AddRole(ctx context.Context, name string) (*Role, error) {
	var role Role
	if err := s.send(ctx, http.MethodPost, "/api/chart/roles", CreateRoleRequest{Name: name}, &role, http.StatusCreated); err != nil {
		return nil, err
	}
	return &role, nil
}

// ReplaceRoles swaps the whole role list.
func (s *Session) ReplaceRoles(ctx context.Context, names []string) (*RolesResponse, error) {
	var roles RolesResponse
	if err := s.send(ctx, http.MethodPut, "/api/chart/roles", ReplaceRolesRequest{Names: names}, &roles, http.StatusOK); err != nil {
		return nil, err
	}
	return &roles, nil
}

// RemoveRole deletes a role and unassigns it everywhere.
func (s *Session) RemoveRole(ctx context.Context, id string) error {
	return s.delete(ctx, "/api/chart/roles/"+url.PathEscape(id))
}
