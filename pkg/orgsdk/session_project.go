package orgsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListProjects returns the caller's own projects.
func (s *Session) ListProjects(ctx context.Context, f ProjectFilter) (*ProjectsResponse, error) {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Domain != "" {
		q.Set("domain", f.Domain)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	path := "/api/projects"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out ProjectsResponse
	if err := s.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) ProjectStats(ctx context.Context) (*ProjectStats, error) {
	var stats ProjectStats
	if err := s.get(ctx, "/api/projects/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Session) CreateProject(ctx context.Context, req ProjectRequest) (*Project, error) {
	var p Project
	if err := s.send(ctx, http.MethodPost, "/api/projects", req, &p, http.StatusCreated); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Session) UpdateProject(ctx context.Context, id string, req ProjectRequest) (*Project, error) {
	var p Project
	if err := s.send(ctx, http.MethodPut, "/api/projects/"+url.PathEscape(id), req, &p, http.StatusOK); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Session) DeleteProject(ctx context.Context, id string) error {
	return s.delete(ctx, "/api/projects/"+url.PathEscape(id))
}
