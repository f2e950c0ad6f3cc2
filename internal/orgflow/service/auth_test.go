package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/domain"
	"github.com/aussiebroadwan/orgflow/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	signer, err := jwtx.NewSignerHS256([]byte(testSecret))
	require.NoError(t, err)
	return &AuthService{
		Store:  newTestStore(t),
		Signer: signer,
		Issuer: "orgflow-test",
		TTL:    time.Hour,
	}
}

func TestSignup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newAuthService(t)

	t.Run("first user may be admin", func(t *testing.T) {
		u, err := s.Signup(ctx, SignupRequest{Username: " ada ", Email: " Ada@Example.com ", Password: "pw", Role: "admin"})
		require.NoError(t, err)
		require.Equal(t, "ada", u.Username)
		require.Equal(t, "ada@example.com", u.Email)
		require.Equal(t, domain.RoleAdmin, u.Role)
		require.NotEqual(t, "pw", u.PasswordHash)
	})

	t.Run("later admin signup is closed", func(t *testing.T) {
		_, err := s.Signup(ctx, SignupRequest{Username: "bob", Email: "bob@example.com", Password: "pw", Role: "admin"})
		require.ErrorIs(t, err, ErrAdminSignupClosed)
	})

	t.Run("role defaults to member", func(t *testing.T) {
		u, err := s.Signup(ctx, SignupRequest{Username: "cy", Email: "cy@example.com", Password: "pw"})
		require.NoError(t, err)
		require.Equal(t, domain.RoleMember, u.Role)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := s.Signup(ctx, SignupRequest{Username: "ada2", Email: "ADA@example.com", Password: "pw"})
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("validation", func(t *testing.T) {
		for _, req := range []SignupRequest{
			{Email: "x@example.com", Password: "pw"},
			{Username: "x", Password: "pw"},
			{Username: "x", Email: "x@example.com"},
			{Username: "x", Email: "not-an-email", Password: "pw"},
			{Username: "x", Email: "x@example.com", Password: "pw", Role: "owner"},
		} {
			_, err := s.Signup(ctx, req)
			require.ErrorIs(t, err, ErrInvalidRequest, "%+v", req)
		}
	})
}

func TestSignupAllowAdmin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newAuthService(t)
	s.AllowAdminSignup = true

	for _, email := range []string{"a@example.com", "b@example.com"} {
		u, err := s.Signup(ctx, SignupRequest{Username: "x", Email: email, Password: "pw", Role: domain.RoleAdmin})
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, u.Role)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newAuthService(t)

	u, err := s.Signup(ctx, SignupRequest{Username: "ada", Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)

	sess, err := s.Login(ctx, "ADA@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, u.ID, sess.User.ID)
	require.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Minute)

	claims, err := jwtx.NewVerifierHS256([]byte(testSecret), "orgflow-test", 0).Verify(sess.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.Subject)
	require.Equal(t, domain.RoleMember, claims.Role)
	require.Equal(t, "ada", claims.Username)

	_, err = s.Login(ctx, "ada@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(ctx, "nobody@example.com", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
