package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSigningSecret(t *testing.T) {
	t.Parallel()

	a, err := NewSigningSecret()
	require.NoError(t, err)
	require.Len(t, a, 43)

	b, err := NewSigningSecret()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestRandomStringRejectsBadLength(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -1} {
		s, err := randomString(n)
		require.Error(t, err)
		require.Empty(t, s)
	}
}
