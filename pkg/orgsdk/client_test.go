package orgsdk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIErrorRoundTrip(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := NewAPIError(http.StatusBadRequest, ErrorCodeInvalidRequest, "name must not be empty")
		e.Field = "name"
		e.WriteError(w)
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL).NewSessionFromToken("t").AddRole(context.Background(), "")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, ErrorCodeInvalidRequest, apiErr.Code)
	require.Equal(t, "name", apiErr.Field)
	require.Equal(t, "name must not be empty", apiErr.Description)
}

func TestNonJSONErrorFallsBack(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL).GetLiveness(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, ErrorCodeServerError, apiErr.Code)
}

func TestSessionSendsBearerToken(t *testing.T) {
	t.Parallel()

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	sess := NewClient(srv.URL).NewSessionFromToken("abc")
	require.NoError(t, sess.DeleteProject(context.Background(), "p1"))
	require.Equal(t, "Bearer abc", got)
	require.True(t, sess.ExpiresAt().IsZero())
}
