package orgsdk

import (
	"context"
	"net/http"
	"net/url"
)

// CreateDomain requires the catalog write permission.
func (s *Session) CreateDomain(ctx context.Context, name string) (*Domain, error) {
	var d Domain
	if err := s.send(ctx, http.MethodPost, "/api/domains", CreateDomainRequest{Name: name}, &d, http.StatusCreated); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Session) CreateIndustry(ctx context.Context, domainID, name string) (*Industry, error) {
	var ind Industry
	path := "/api/domains/" + url.PathEscape(domainID) + "/industries"
	if err := s.send(ctx, http.MethodPost, path, CreateIndustryRequest{Name: name}, &ind, http.StatusCreated); err != nil {
		return nil, err
	}
	return &ind, nil
}

// DeleteDomain removes the domain together with its industries.
func (s *Session) DeleteDomain(ctx context.Context, id string) error {
	return s.delete(ctx, "/api/domains/"+url.PathEscape(id))
}

func (s *Session) DeleteIndustry(ctx context.Context, id string) error {
	return s.delete(ctx, "/api/industries/"+url.PathEscape(id))
}
