package redis_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/store"
	redisdriver "github.com/aussiebroadwan/orgflow/internal/orgflow/store/drivers/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a throwaway Redis and returns its URL.
func setupRedis(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in -short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestSnapshotRepository(t *testing.T) {
	url := setupRedis(t)
	ctx := t.Context()

	client, err := redisdriver.Dial(ctx, url)
	require.NoError(t, err)
	repo := redisdriver.NewSnapshotRepository(client, nil, "test:")
	defer repo.Close()

	require.NoError(t, repo.Ping(ctx))

	_, err = repo.GetSnapshot(ctx, "chart")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, repo.UpdateSnapshot(ctx, "chart", func(blob []byte, ok bool) ([]byte, error) {
		require.False(t, ok)
		return []byte(`{"roles":[],"nodes":[]}`), nil
	}))

	snap, err := repo.GetSnapshot(ctx, "chart")
	require.NoError(t, err)
	require.Equal(t, int64(1), snap.Version)
	require.JSONEq(t, `{"roles":[],"nodes":[]}`, string(snap.Blob))

	boom := errors.New("boom")
	err = repo.UpdateSnapshot(ctx, "chart", func([]byte, bool) ([]byte, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	snap, err = repo.GetSnapshot(ctx, "chart")
	require.NoError(t, err)
	require.Equal(t, int64(1), snap.Version)
}

func TestSnapshotRepositoryConcurrentWriters(t *testing.T) {
	url := setupRedis(t)
	ctx := t.Context()

	client, err := redisdriver.Dial(ctx, url)
	require.NoError(t, err)
	repo := redisdriver.NewSnapshotRepository(client, nil, "")
	defer repo.Close()

	const writers = 8
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				err := repo.UpdateSnapshot(ctx, "counter", func(blob []byte, ok bool) ([]byte, error) {
					return append(blob, 'x'), nil
				})
				if errors.Is(err, store.ErrConflict) {
					continue
				}
				assert.NoError(t, err)
				return
			}
		}()
	}
	wg.Wait()

	snap, err := repo.GetSnapshot(ctx, "counter")
	require.NoError(t, err)
	require.Len(t, snap.Blob, writers)
	require.Equal(t, int64(writers), snap.Version)
}
