package http

import (
	"net/http"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/domain"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/service"
	"github.com/aussiebroadwan/orgflow/pkg/httpx"
	"github.com/aussiebroadwan/orgflow/pkg/orgsdk"
)

type ProjectsHandler struct {
	ProjectService *service.ProjectService
}

func projectDTO(p domain.Project) orgsdk.Project {
	return orgsdk.Project{
		ID:       p.ID,
		Name:     p.Name,
		Domain:   p.Domain,
		Industry: p.Industry,
		Start:    p.Start,
		End:      p.End,
		Running:  p.Running,
		Status:   p.Status(),
	}
}

func projectInput(req orgsdk.ProjectRequest) service.ProjectInput {
	return service.ProjectInput{
		Name:     req.Name,
		Domain:   req.Domain,
		Industry: req.Industry,
		Start:    req.Start,
		End:      req.End,
		Running:  req.Running,
	}
}

// HandleList lists the caller's projects.
//
//	@Summary		List projects
//	@Description	Returns the caller's projects, oldest first.
//	@Tags			Projects
//	@Produce		json
//	@Param			search	query		string	false	"Case-insensitive name substring"
//	@Param			domain	query		string	false	"Exact domain name"
//	@Param			status	query		string	false	"running, completed or all"
//	@Success		200		{object}	orgsdk.ProjectsResponse
//	@Failure		400		{object}	orgsdk.ErrorResponse	"Invalid filter"
//	@Failure		401		{object}	orgsdk.ErrorResponse	"Unauthorized - missing or invalid token"
//	@Security		BearerAuth
//	@Router			/api/projects [get].
func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projects, err := h.ProjectService.List(r.Context(), ownerID(r), domain.ProjectFilter{
		Search: q.Get("search"),
		Domain: q.Get("domain"),
		Status: q.Get("status"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := orgsdk.ProjectsResponse{Projects: make([]orgsdk.Project, len(projects))}
	for i, p := range projects {
		resp.Projects[i] = projectDTO(p)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleStats counts the caller's projects.
//
//	@Summary		Project stats
//	@Tags			Projects
//	@Produce		json
//	@Success		200	{object}	orgsdk.ProjectStats
//	@Failure		401	{object}	orgsdk.ErrorResponse	"Unauthorized - missing or invalid token"
//	@Security		BearerAuth
//	@Router			/api/projects/stats [get].
func (h *ProjectsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.ProjectService.Stats(r.Context(), ownerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orgsdk.ProjectStats{
		Total:     st.Total,
		Running:   st.Running,
		Completed: st.Completed,
	})
}

// HandleCreate adds a project for the caller.
//
//	@Summary		Create project
//	@Description	Dates are YYYY-MM-DD and may not lie in the future. The industry must belong to the domain.
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Param			request	body		orgsdk.ProjectRequest	true	"Project"
//	@Success		201		{object}	orgsdk.Project
//	@Failure		400		{object}	orgsdk.ErrorResponse	"Invalid input"
//	@Failure		401		{object}	orgsdk.ErrorResponse	"Unauthorized - missing or invalid token"
//	@Security		BearerAuth
//	@Router			/api/projects [post].
func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req orgsdk.ProjectRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.ProjectService.Create(r.Context(), ownerID(r), projectInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, projectDTO(p))
}

// HandleUpdate replaces the editable fields of a project.
//
//	@Summary		Update project
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Project ID"
//	@Param			request	body		orgsdk.ProjectRequest	true	"Project"
//	@Success		200		{object}	orgsdk.Project
//	@Failure		400		{object}	orgsdk.ErrorResponse	"Invalid input"
//	@Failure		404		{object}	orgsdk.ErrorResponse	"Unknown project"
//	@Security		BearerAuth
//	@Router			/api/projects/{id} [put].
func (h *ProjectsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req orgsdk.ProjectRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.ProjectService.Update(r.Context(), ownerID(r), r.PathValue("id"), projectInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, projectDTO(p))
}

// HandleDelete removes a project.
//
//	@Summary		Delete project
//	@Tags			Projects
//	@Param			id	path	string	true	"Project ID"
//	@Success		204
//	@Failure		404	{object}	orgsdk.ErrorResponse	"Unknown project"
//	@Security		BearerAuth
//	@Router			/api/projects/{id} [delete].
func (h *ProjectsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ProjectService.Delete(r.Context(), ownerID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
