package orgsdk

// ============================================================================
// Common Types
// ============================================================================

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	// Error is the machine readable error code (e.g. "not_found")
	Error string `json:"error" example:"invalid_request"`

	// ErrorDescription is a human readable explanation
	ErrorDescription string `json:"error_description" example:"name must not be empty"`

	// Field names the rejected input on validation errors
	Field string `json:"field,omitempty" example:"name"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains dependency results (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency checked by /readyz.
type HealthChecks struct {
	Database  string `json:"database"`
	Snapshots string `json:"snapshots"`
}

// ============================================================================
// Accounts
// ============================================================================

type SignupRequest struct {
	Username string `json:"username" example:"ada"`
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"correct-horse"`

	// Role is "admin" or "member". Empty means member.
	Role string `json:"role,omitempty" example:"member"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"correct-horse"`
}

// UserInfo is the public view of an account.
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// LoginResponse carries the access token issued on login.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type" example:"Bearer"`
	ExpiresIn   int      `json:"expires_in" example:"7200"`
	User        UserInfo `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Org Chart
// ============================================================================

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Node is a chart node. An empty ParentID marks a root and an empty RoleID
// means unassigned.
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RoleID   string `json:"roleId"`
	RoleName string `json:"roleName"`
	ParentID string `json:"parentId"`
}

// TreeNode is a node with its children nested.
type TreeNode struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	RoleID   string     `json:"roleId"`
	RoleName string     `json:"roleName"`
	ParentID string     `json:"parentId"`
	Children []TreeNode `json:"children"`
}

// ChartResponse is the full chart state.
type ChartResponse struct {
	Roles []Role `json:"roles"`
	Nodes []Node `json:"nodes"`
}

type TreeResponse struct {
	Roots []TreeNode `json:"roots"`
}

type NodesResponse struct {
	Nodes []Node `json:"nodes"`
}

type RolesResponse struct {
	Roles []Role `json:"roles"`
}

type CreateNodeRequest struct {
	// ParentID is empty for a new root
	ParentID string `json:"parentId"`
	Name     string `json:"name" example:"Bea Lin"`
	RoleID   string `json:"roleId"`
}

type UpdateNodeRequest struct {
	Name   string `json:"name" example:"Bea Lin"`
	RoleID string `json:"roleId"`
}

// DeleteNodeResponse reports how many nodes the cascading delete removed.
type DeleteNodeResponse struct {
	Removed int `json:"removed"`
}

type CreateRoleRequest struct {
	Name string `json:"name" example:"CTO"`
}

// ReplaceRolesRequest replaces the whole role list. Every node becomes
// unassigned.
type ReplaceRolesRequest struct {
	Names []string `json:"names"`
}

// ============================================================================
// Catalog
// ============================================================================

type Industry struct {
	ID       string `json:"id"`
	DomainID string `json:"domainId"`
	Name     string `json:"name"`
}

type Domain struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Industries []Industry `json:"industries"`
}

type DomainsResponse struct {
	Domains []Domain `json:"domains"`
}

type CreateDomainRequest struct {
	Name string `json:"name" example:"Healthcare"`
}

type CreateIndustryRequest struct {
	Name string `json:"name" example:"Pharma"`
}

// ============================================================================
// Projects
// ============================================================================

type Project struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Industry string `json:"industry"`
	Start    string `json:"start" example:"2024-01-31"`
	End      string `json:"end" example:"2024-06-30"`
	Running  bool   `json:"running"`
	Status   string `json:"status" example:"completed"`
}

type ProjectRequest struct {
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Industry string `json:"industry"`
	Start    string `json:"start" example:"2024-01-31"`

	// End is ignored while Running is true
	End     string `json:"end,omitempty" example:"2024-06-30"`
	Running bool   `json:"running"`
}

type ProjectsResponse struct {
	Projects []Project `json:"projects"`
}

type ProjectStats struct {
	Total     int `json:"total"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
}

// ProjectFilter narrows ListProjects. Zero values match everything.
type ProjectFilter struct {
	Search string
	Domain string
	Status string // "running", "completed" or empty
}
