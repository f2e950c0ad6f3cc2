package http

import (
	"net/http"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/hierarchy"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/service"
	"github.com/aussiebroadwan/orgflow/pkg/httpx"
	"github.com/aussiebroadwan/orgflow/pkg/orgsdk"
)

type ChartHandler struct {
	ChartService *service.ChartService
}

func roleDTOs(roles []hierarchy.Role) []orgsdk.Role {
	out := make([]orgsdk.Role, len(roles))
	for i, r := range roles {
		out[i] = orgsdk.Role{ID: r.ID, Name: r.Name}
	}
	return out
}

func nodeDTO(n service.ChartNode) orgsdk.Node {
	return orgsdk.Node{
		ID:       n.ID,
		Name:     n.Name,
		RoleID:   n.RoleID,
		RoleName: n.RoleName,
		ParentID: n.ParentID,
	}
}

func nodeDTOs(nodes []service.ChartNode) []orgsdk.Node {
	out := make([]orgsdk.Node, len(nodes))
	for i, n := range nodes {
		out[i] = nodeDTO(n)
	}
	return out
}

func treeDTO(t *hierarchy.TreeNode) orgsdk.TreeNode {
	out := orgsdk.TreeNode{
		ID:       t.ID,
		Name:     t.Name,
		RoleID:   t.RoleID,
		RoleName: t.RoleName,
		ParentID: t.ParentID,
		Children: make([]orgsdk.TreeNode, len(t.Children)),
	}
	for i, c := range t.Children {
		out.Children[i] = treeDTO(c)
	}
	return out
}

// HandleChart returns the whole chart.
//
//	@Summary		Get chart
//	@Description	Returns every role and every node in store order, with role names resolved.
//	@Tags			Chart
//	@Produce		json
//	@Success		200	{object}	orgsdk.ChartResponse
//	@Failure		401	{object}	orgsdk.ErrorResponse	"Unauthorized - missing or invalid token"
//	@Failure		503	{object}	orgsdk.ErrorResponse	"Chart storage unavailable"
//	@Security		BearerAuth
//	@Router			/api/chart [get].
func (h *ChartHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ChartService.Chart(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	names := make(map[string]string, len(snap.Roles))
	for _, role := range snap.Roles {
		names[role.ID] = role.Name
	}

	resp := orgsdk.ChartResponse{
		Roles: roleDTOs(snap.Roles),
		Nodes: make([]orgsdk.Node, len(snap.Nodes)),
	}
	for i, n := range snap.Nodes {
		resp.Nodes[i] = nodeDTO(service.ChartNode{Node: n, RoleName: names[n.RoleID]})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleTree returns the nested chart.
//
//	@Summary		Get chart tree
//	@Description	Returns the chart nested under its roots. Nodes whose parent is gone are left out.
//	@Tags			Chart
//	@Produce		json
//	@Success		200	{object}	orgsdk.TreeResponse
//	@Failure		401	{object}	orgsdk.ErrorResponse	"Unauthorized - missing or invalid token"
//	@Security		BearerAuth
//	@Router			/api/chart/tree [get].
func (h *ChartHandler) HandleTree(w http.ResponseWriter, r *http.Request) {
	roots, err := h.ChartService.Tree(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := orgsdk.TreeResponse{Roots: make([]orgsdk.TreeNode, len(roots))}
	for i, t := range roots {
		resp.Roots[i] = treeDTO(t)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleRoots lists the nodes without a parent.
//
//	@Summary		List roots
//	@Tags			Chart
//	@Produce		json
//	@Success		200	{object}	orgsdk.NodesResponse
//	@Failure		401	{object}	orgsdk.ErrorResponse	"Unauthorized - missing or invalid token"
//	@Security		BearerAuth
//	@Router			/api/chart/roots [get].
func (h *ChartHandler) HandleRoots(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.ChartService.Roots(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orgsdk.NodesResponse{Nodes: nodeDTOs(nodes)})
}

// HandleChildren lists the direct children of a node.
//
//	@Summary		List children
//	@Description	An unknown node simply has no children.
//	@Tags			Chart
//	@Produce		json
//	@Param			id	path		string	true	"Parent node ID"
//	@Success		200	{object}	orgsdk.NodesResponse
//	@Failure		401	{object}	orgsdk.ErrorResponse	"Unauthorized - missing or invalid token"
//	@Security		BearerAuth
//	@Router			/api/chart/nodes/{id}/children [get].
func (h *ChartHandler) HandleChildren(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.ChartService.Children(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orgsdk.NodesResponse{Nodes: nodeDTOs(nodes)})
}

// HandleRoles lists the chart roles.
//
//	@Summary		List roles
//	@Tags			Chart
//	@Produce		json
//	@Success		200	{object}	orgsdk.RolesResponse
//	@Failure		401	{object}	orgsdk.ErrorResponse	"Unauthorized - missing or invalid token"
//	@Security		BearerAuth
//	@Router			/api/chart/roles [get].
func (h *ChartHandler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.ChartService.Roles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orgsdk.RolesResponse{Roles: roleDTOs(roles)})
}

// HandleAddNode creates a node.
//
//	@Summary		Add node
//	@Description	Creates a node under parentId, or a new root when parentId is empty. Only the privileged role may change the chart.
//	@Tags			Chart
//	@Accept			json
//	@Produce		json
//	@Param			request	body		orgsdk.CreateNodeRequest	true	"Node"
//	@Success		201		{object}	orgsdk.Node
//	@Failure		400		{object}	orgsdk.ErrorResponse	"Invalid input"
//	@Failure		401		{object}	orgsdk.ErrorResponse	"Unauthorized - missing or invalid token"
//	@Failure		403		{object}	orgsdk.ErrorResponse	"Forbidden"
//	@Failure		404		{object}	orgsdk.ErrorResponse	"Unknown parent"
//	@Failure		503		{object}	orgsdk.ErrorResponse	"Chart storage unavailable"
//	@Security		BearerAuth
//	@Router			/api/chart/nodes [post].
func (h *ChartHandler) HandleAddNode(w http.ResponseWriter, r *http.Request) {
	var req orgsdk.CreateNodeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	n, err := h.ChartService.AddNode(r.Context(), identity(r), req.ParentID, req.Name, req.RoleID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, nodeDTO(n))
}

// HandleUpdateNode renames a node and sets its role.
//
//	@Summary		Update node
//	@Tags			Chart
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Node ID"
//	@Param			request	body		orgsdk.UpdateNodeRequest	true	"Node"
//	@Success		200		{object}	orgsdk.Node
//	@Failure		400		{object}	orgsdk.ErrorResponse	"Invalid input"
//	@Failure		403		{object}	orgsdk.ErrorResponse	"Forbidden"
//	@Failure		404		{object}	orgsdk.ErrorResponse	"Unknown node"
//	@Security		BearerAuth
//	@Router			/api/chart/nodes/{id} [put].
func (h *ChartHandler) HandleUpdateNode(w http.ResponseWriter, r *http.Request) {
	var req orgsdk.UpdateNodeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	n, err := h.ChartService.UpdateNode(r.Context(), identity(r), r.PathValue("id"), req.Name, req.RoleID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, nodeDTO(n))
}

// HandleDeleteNode removes a node with its subtree.
//
//	@Summary		Delete node
//	@Tags			Chart
//	@Produce		json
//	@Param			id	path		string	true	"Node ID"
//	@Success		200	{object}	orgsdk.DeleteNodeResponse
//	@Failure		403	{object}	orgsdk.ErrorResponse	"Forbidden"
//	@Failure		404	{object}	orgsdk.ErrorResponse	"Unknown node"
//	@Security		BearerAuth
//	@Router			/api/chart/nodes/{id} [delete].
func (h *ChartHandler) HandleDeleteNode(w http.ResponseWriter, r *http.Request) {
	removed, err := h.ChartService.DeleteNode(r.Context(), identity(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orgsdk.DeleteNodeResponse{Removed: removed})
}

// HandleAddRole appends a role.
//
//	@Summary		Add role
//	@Tags			Chart
//	@Accept			json
//	@Produce		json
//	@Param			request	body		orgsdk.CreateRoleRequest	true	"Role"
//	@Success		201		{object}	orgsdk.Role
//	@Failure		400		{object}	orgsdk.ErrorResponse	"Invalid input"
//	@Failure		403		{object}	orgsdk.ErrorResponse	"Forbidden"
//	@Security		BearerAuth
//	@Router			/api/chart/roles [post].
func (h *ChartHandler) HandleAddRole(w http.ResponseWriter, r *http.Request) {
	var req orgsdk.CreateRoleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	role, err := h.ChartService.AddRole(r.Context(), identity(r), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, orgsdk.Role{ID: role.ID, Name: role.Name})
}

// HandleReplaceRoles swaps the whole role list.
//
//	@Summary		Replace roles
//	@Description	Replaces every role with the given names. Blank names are dropped and every node becomes unassigned.
//	@Tags			Chart
//	@Accept			json
//	@Produce		json
//	@Param			request	body		orgsdk.ReplaceRolesRequest	true	"Role names"
//	@Success		200		{object}	orgsdk.RolesResponse
//	@Failure		403		{object}	orgsdk.ErrorResponse	"Forbidden"
//	@Security		BearerAuth
//	@Router			/api/chart/roles [put].
func (h *ChartHandler) HandleReplaceRoles(w http.ResponseWriter, r *http.Request) {
	var req orgsdk.ReplaceRolesRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	roles, err := h.ChartService.ReplaceRoles(r.Context(), identity(r), req.Names)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orgsdk.RolesResponse{Roles: roleDTOs(roles)})
}

// HandleRemoveRole deletes a role and unassigns it everywhere.
//
//	@Summary		Remove role
//	@Tags			Chart
//	@Param			id	path	string	true	"Role ID"
//	@Success		204
//	@Failure		403	{object}	orgsdk.ErrorResponse	"Forbidden"
//	@Failure		404	{object}	orgsdk.ErrorResponse	"Unknown role"
//	@Security		BearerAuth
//	@Router			/api/chart/roles/{id} [delete].
func (h *ChartHandler) HandleRemoveRole(w http.ResponseWriter, r *http.Request) {
	if err := h.ChartService.RemoveRole(r.Context(), identity(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
