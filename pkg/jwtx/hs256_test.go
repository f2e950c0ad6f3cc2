package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/orgflow/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte(strings.Repeat("s", jwtx.MinSecretLength))

func TestHS256RoundTrip(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	require.Equal(t, "HS256", signer.Alg())

	tok, err := signer.Sign(jwtx.NewAccessClaims("u1", "alice", "admin", "orgflow", time.Hour, time.Now()))
	require.NoError(t, err)

	got, err := jwtx.NewVerifierHS256(testSecret, "orgflow", 0).Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "u1", got.Subject)
	require.Equal(t, "admin", got.Role)
}

func TestHS256Rejects(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256(testSecret, "orgflow", 0)

	t.Run("weak secret", func(t *testing.T) {
		_, err := jwtx.NewSignerHS256([]byte("short"))
		require.ErrorIs(t, err, jwtx.ErrWeakSecret)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not-a-token")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("other secret", func(t *testing.T) {
		tok, err := signer.Sign(jwtx.NewAccessClaims("u1", "a", "member", "orgflow", time.Hour, time.Now()))
		require.NoError(t, err)
		other := jwtx.NewVerifierHS256([]byte(strings.Repeat("x", jwtx.MinSecretLength)), "orgflow", 0)
		_, err = other.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := signer.Sign(jwtx.NewAccessClaims("u1", "a", "member", "orgflow", time.Minute, time.Now().Add(-time.Hour)))
		require.NoError(t, err)
		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		tok, err := signer.Sign(jwtx.NewAccessClaims("u1", "a", "member", "someone-else", time.Hour, time.Now()))
		require.NoError(t, err)
		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("no role", func(t *testing.T) {
		tok, err := signer.Sign(jwtx.NewAccessClaims("u1", "a", "", "orgflow", time.Hour, time.Now()))
		require.NoError(t, err)
		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})
}
