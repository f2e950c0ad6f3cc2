package httpx_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/orgflow/pkg/httpx"
	"github.com/aussiebroadwan/orgflow/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var secret = []byte(strings.Repeat("k", jwtx.MinSecretLength))

func bearer(t *testing.T, role string) string {
	t.Helper()
	signer, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)
	tok, err := signer.Sign(jwtx.NewAccessClaims("u1", "alice", role, "", time.Hour, time.Now()))
	require.NoError(t, err)
	return "Bearer " + tok
}

type roleAuthz map[string]bool

func (a roleAuthz) Allowed(role, _, _ string) (bool, error) { return a[role], nil }

type brokenAuthz struct{}

func (brokenAuthz) Allowed(string, string, string) (bool, error) { return false, errors.New("boom") }

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler, mw("outer"), mw("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	t.Parallel()
	verifier := jwtx.NewVerifierHS256(secret, "", 0)

	var seen jwtx.Claims
	h := httpx.AuthnMiddleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.ClaimsFromContext(r.Context())
	}))

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", bearer(t, "admin"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "admin", seen.Role)
		require.Equal(t, "u1", seen.Subject)
	})
}

func TestRequirePermission(t *testing.T) {
	t.Parallel()
	verifier := jwtx.NewVerifierHS256(secret, "", 0)

	serve := func(authz httpx.Authorizer, role string) *httptest.ResponseRecorder {
		h := httpx.Chain(okHandler,
			httpx.AuthnMiddleware(verifier),
			httpx.RequirePermission(authz, "chart", "write"),
		)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", bearer(t, role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, serve(roleAuthz{"admin": true}, "admin").Code)
	require.Equal(t, http.StatusForbidden, serve(roleAuthz{"admin": true}, "member").Code)
	require.Equal(t, http.StatusInternalServerError, serve(brokenAuthz{}, "admin").Code)
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type body struct {
		Name string `json:"name"`
	}

	decode := func(raw string) (body, error) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
		err := httpx.DecodeJSON(httptest.NewRecorder(), req, &b)
		return b, err
	}

	got, err := decode(`{"name":"x"}`)
	require.NoError(t, err)
	require.Equal(t, "x", got.Name)

	for _, raw := range []string{``, `{`, `{"name":"x","extra":1}`, `{"name":"x"}{}`} {
		_, err := decode(raw)
		require.ErrorIs(t, err, httpx.ErrBadBody, raw)
	}
}
