package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/hierarchy"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/service"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store"
	"github.com/aussiebroadwan/orgflow/pkg/httpx"
	"github.com/aussiebroadwan/orgflow/pkg/orgsdk"
	"github.com/aussiebroadwan/orgflow/pkg/slogx"
)

// writeError maps a service error to its HTTP response. Anything unknown is
// logged and reported as a server error without details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		hv *hierarchy.ValidationError
		sv *service.ValidationError
	)

	switch {
	case errors.As(err, &hv):
		invalidField(hv.Field, hv.Reason).WriteError(w)
	case errors.As(err, &sv):
		invalidField(sv.Field, sv.Reason).WriteError(w)
	case errors.Is(err, httpx.ErrBadBody):
		orgsdk.NewAPIError(http.StatusBadRequest, orgsdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)

	case errors.Is(err, hierarchy.ErrNoIdentity):
		orgsdk.NewAPIError(http.StatusUnauthorized, orgsdk.ErrorCodeInvalidToken, "no caller identity").WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		orgsdk.ErrInvalidCredentials.WriteError(w)

	case errors.Is(err, hierarchy.ErrPermissionDenied):
		orgsdk.ErrAccessDenied.WriteError(w)
	case errors.Is(err, service.ErrAdminSignupClosed):
		orgsdk.NewAPIError(http.StatusForbidden, orgsdk.ErrorCodeAccessDenied, err.Error()).WriteError(w)

	case errors.Is(err, hierarchy.ErrNotFound), errors.Is(err, store.ErrNotFound):
		orgsdk.ErrNotFound.WriteError(w)

	case errors.Is(err, service.ErrEmailTaken):
		orgsdk.NewAPIError(http.StatusConflict, orgsdk.ErrorCodeConflict, err.Error()).WriteError(w)
	case errors.Is(err, store.ErrAlreadyExists):
		orgsdk.NewAPIError(http.StatusConflict, orgsdk.ErrorCodeConflict, "already exists").WriteError(w)

	case errors.Is(err, hierarchy.ErrPersistenceUnavailable):
		slogx.FromContext(r.Context()).Warn("chart storage unavailable", "error", err)
		orgsdk.ErrUnavailable.WriteError(w)

	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		orgsdk.ErrServerError.WriteError(w)
	}
}

func invalidField(field, reason string) *orgsdk.APIError {
	e := orgsdk.NewAPIError(http.StatusBadRequest, orgsdk.ErrorCodeInvalidRequest, field+" "+reason)
	e.Field = field
	return e
}

// identity builds the chart caller from the verified token claims.
func identity(r *http.Request) hierarchy.Identity {
	c, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		return hierarchy.Identity{}
	}
	return hierarchy.Identity{UserID: c.Subject, Username: c.Username, Role: c.Role}
}

// ownerID is the authenticated user id; projects are scoped by it.
func ownerID(r *http.Request) string {
	c, _ := httpx.ClaimsFromContext(r.Context())
	return c.Subject
}
