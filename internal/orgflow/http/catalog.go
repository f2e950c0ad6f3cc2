package http

import (
	"net/http"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/domain"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/service"
	"github.com/aussiebroadwan/orgflow/pkg/httpx"
	"github.com/aussiebroadwan/orgflow/pkg/orgsdk"
)

type CatalogHandler struct {
	CatalogService *service.CatalogService
}

func industryDTO(ind domain.Industry) orgsdk.Industry {
	return orgsdk.Industry{ID: ind.ID, DomainID: ind.DomainID, Name: ind.Name}
}

func domainDTO(d domain.Domain) orgsdk.Domain {
	out := orgsdk.Domain{ID: d.ID, Name: d.Name, Industries: make([]orgsdk.Industry, len(d.Industries))}
	for i, ind := range d.Industries {
		out.Industries[i] = industryDTO(ind)
	}
	return out
}

// HandleList lists the catalog.
//
//	@Summary		List domains
//	@Description	Returns every domain with its industries, both ordered by name.
//	@Tags			Catalog
//	@Produce		json
//	@Success		200	{object}	orgsdk.DomainsResponse
//	@Failure		500	{object}	orgsdk.ErrorResponse	"Internal server error"
//	@Router			/api/domains [get].
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	domains, err := h.CatalogService.ListDomains(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := orgsdk.DomainsResponse{Domains: make([]orgsdk.Domain, len(domains))}
	for i, d := range domains {
		resp.Domains[i] = domainDTO(d)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreateDomain adds a domain.
//
//	@Summary		Create domain
//	@Tags			Catalog
//	@Accept			json
//	@Produce		json
//	@Param			request	body		orgsdk.CreateDomainRequest	true	"Domain"
//	@Success		201		{object}	orgsdk.Domain
//	@Failure		400		{object}	orgsdk.ErrorResponse	"Invalid input"
//	@Failure		401		{object}	orgsdk.ErrorResponse	"Unauthorized - missing or invalid token"
//	@Failure		403		{object}	orgsdk.ErrorResponse	"Forbidden"
//	@Failure		409		{object}	orgsdk.ErrorResponse	"Name taken"
//	@Security		BearerAuth
//	@Router			/api/domains [post].
func (h *CatalogHandler) HandleCreateDomain(w http.ResponseWriter, r *http.Request) {
	var req orgsdk.CreateDomainRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	d, err := h.CatalogService.CreateDomain(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, domainDTO(d))
}

// HandleCreateIndustry adds an industry to a domain.
//
//	@Summary		Create industry
//	@Tags			Catalog
//	@Accept			json
//	@Produce		json
//	@Param			domainId	path		string							true	"Domain ID"
//	@Param			request		body		orgsdk.CreateIndustryRequest	true	"Industry"
//	@Success		201			{object}	orgsdk.Industry
//	@Failure		400			{object}	orgsdk.ErrorResponse	"Invalid input"
//	@Failure		404			{object}	orgsdk.ErrorResponse	"Unknown domain"
//	@Failure		409			{object}	orgsdk.ErrorResponse	"Name taken in this domain"
//	@Security		BearerAuth
//	@Router			/api/domains/{domainId}/industries [post].
func (h *CatalogHandler) HandleCreateIndustry(w http.ResponseWriter, r *http.Request) {
	var req orgsdk.CreateIndustryRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ind, err := h.CatalogService.CreateIndustry(r.Context(), r.PathValue("domainId"), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, industryDTO(ind))
}

// HandleDeleteDomain removes a domain and its industries.
//
//	@Summary		Delete domain
//	@Tags			Catalog
//	@Param			domainId	path	string	true	"Domain ID"
//	@Success		204
//	@Failure		404	{object}	orgsdk.ErrorResponse	"Unknown domain"
//	@Security		BearerAuth
//	@Router			/api/domains/{domainId} [delete].
func (h *CatalogHandler) HandleDeleteDomain(w http.ResponseWriter, r *http.Request) {
	if err := h.CatalogService.DeleteDomain(r.Context(), r.PathValue("domainId")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteIndustry removes one industry.
//
//	@Summary		Delete industry
//	@Tags			Catalog
//	@Param			industryId	path	string	true	"Industry ID"
//	@Success		204
//	@Failure		404	{object}	orgsdk.ErrorResponse	"Unknown industry"
//	@Security		BearerAuth
//	@Router			/api/industries/{industryId} [delete].
func (h *CatalogHandler) HandleDeleteIndustry(w http.ResponseWriter, r *http.Request) {
	if err := h.CatalogService.DeleteIndustry(r.Context(), r.PathValue("industryId")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
