package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/orgflow/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewAccessClaims(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC().Truncate(time.Second)

	c := jwtx.NewAccessClaims("u1", "alice", "admin", "orgflow", time.Hour, now)
	require.Equal(t, "u1", c.Subject)
	require.Equal(t, "admin", c.Role)
	require.Equal(t, "alice", c.Username)
	require.Equal(t, now.Add(time.Hour), c.ExpiresAt.Time)
	require.NotEmpty(t, c.ID)

	other := jwtx.NewAccessClaims("u1", "alice", "admin", "orgflow", time.Hour, now)
	require.NotEqual(t, c.ID, other.ID)
}

func TestValidateIssuer(t *testing.T) {
	t.Parallel()
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "orgflow"}}

	require.NoError(t, c.ValidateIssuer("orgflow"))
	require.NoError(t, c.ValidateIssuer(""))
	require.ErrorIs(t, c.ValidateIssuer("elsewhere"), jwtx.ErrIssuer)
}

func TestValidateExpiry(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	t.Run("valid token", func(t *testing.T) {
		claims := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		}}
		require.NoError(t, claims.ValidateExpiry())
	})

	t.Run("expired token", func(t *testing.T) {
		claims := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		}}
		require.ErrorIs(t, claims.ValidateExpiry(), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		claims := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(now.Add(time.Minute)),
		}}
		require.ErrorIs(t, claims.ValidateExpiry(), jwtx.ErrNotYetValid)
	})

	t.Run("within leeway", func(t *testing.T) {
		claims := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second)),
		}}
		require.NoError(t, claims.ValidateExpiryWithLeeway(30*time.Second))
	})
}

func TestValidateSubject(t *testing.T) {
	t.Parallel()

	c := &jwtx.Claims{Role: "member"}
	require.ErrorIs(t, c.ValidateSubject(), jwtx.ErrInvalidClaim)

	c.Subject = "u1"
	require.NoError(t, c.ValidateSubject())
}
