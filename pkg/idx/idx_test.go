package idx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/orgflow/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	t.Parallel()
	id := idx.New()
	require.NotEmpty(t, id.String())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
	require.False(t, id.IsZero())

	_, err = idx.Parse("  ")
	require.ErrorIs(t, err, idx.ErrInvalid)
}

// Not parallel: ids minted at another millisecond in between would reseed
// the entropy.
func TestMonotonicOrder(t *testing.T) {
	at := time.Unix(1700000000, 0).UTC()

	prev := idx.NewAt(at)
	for range 100 {
		next := idx.NewAt(at)
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}

func TestTimeExtraction(t *testing.T) {
	t.Parallel()
	tm := time.Unix(1700000000, 0).UTC()
	require.WithinDuration(t, tm, idx.NewAt(tm).Time(), time.Millisecond)
	require.True(t, idx.Zero.Time().IsZero())
}

func TestPrefixed(t *testing.T) {
	t.Parallel()

	s := idx.Prefixed("n")
	require.True(t, strings.HasPrefix(s, "n_"))

	prefix, id, ok := idx.SplitPrefixed(s)
	require.True(t, ok)
	require.Equal(t, "n", prefix)
	require.False(t, id.IsZero())

	_, _, ok = idx.SplitPrefixed("r1")
	require.False(t, ok)
}
