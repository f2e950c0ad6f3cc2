// Package redis keeps org chart snapshots in Redis so several orgflow
// instances can share one chart. Each snapshot is a hash holding the blob,
// a version counter and the last write time.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/domain"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultKeyPrefix namespaces snapshot hashes.
	DefaultKeyPrefix = "orgflow:snapshot:"

	fieldBlob      = "blob"
	fieldVersion   = "version"
	fieldUpdatedAt = "updated_at"
)

// SnapshotRepository implements store.Snapshots on top of a Redis client.
type SnapshotRepository struct {
	client *redis.Client
	logger *slog.Logger
	prefix string
}

// NewSnapshotRepository wraps an existing client. An empty prefix means
// DefaultKeyPrefix.
func NewSnapshotRepository(client *redis.Client, logger *slog.Logger, prefix string) *SnapshotRepository {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotRepository{client: client, logger: logger, prefix: prefix}
}

// Dial parses a redis:// URL, connects and pings.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Ping verifies the Redis connection is still alive.
func (r *SnapshotRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *SnapshotRepository) Close() error { return r.client.Close() }

func (r *SnapshotRepository) hashKey(key string) string { return r.prefix + key }

func (r *SnapshotRepository) GetSnapshot(ctx context.Context, key string) (domain.ChartSnapshot, error) {
	return readSnapshot(ctx, r.client, key, r.hashKey(key))
}

func readSnapshot(ctx context.Context, c redis.Cmdable, key, hkey string) (domain.ChartSnapshot, error) {
	vals, err := c.HGetAll(ctx, hkey).Result()
	if err != nil {
		return domain.ChartSnapshot{}, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	blob, ok := vals[fieldBlob]
	if !ok {
		return domain.ChartSnapshot{}, store.ErrNotFound
	}

	snap := domain.ChartSnapshot{Key: key, Blob: []byte(blob)}
	if v, err := strconv.ParseInt(vals[fieldVersion], 10, 64); err == nil {
		snap.Version = v
	}
	if ts, err := time.Parse(time.RFC3339Nano, vals[fieldUpdatedAt]); err == nil {
		snap.UpdatedAt = ts
	}
	return snap, nil
}

// UpdateSnapshot runs fn under WATCH so a write by another instance between
// the read and the EXEC aborts the transaction with store.ErrConflict.
func (r *SnapshotRepository) UpdateSnapshot(ctx context.Context, key string, fn store.SnapshotUpdate) error {
	hkey := r.hashKey(key)

	txf := func(tx *redis.Tx) error {
		cur, err := readSnapshot(ctx, tx, key, hkey)
		found := err == nil
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}

		next, err := fn(cur.Blob, found)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, hkey,
				fieldBlob, next,
				fieldUpdatedAt, time.Now().UTC().Format(time.RFC3339Nano),
			)
			pipe.HIncrBy(ctx, hkey, fieldVersion, 1)
			return nil
		})
		return err
	}

	err := r.client.Watch(ctx, txf, hkey)
	if errors.Is(err, redis.TxFailedErr) {
		r.logger.Debug("snapshot changed during update", "key", key)
		return store.ErrConflict
	}
	return err
}

var _ store.Snapshots = (*SnapshotRepository)(nil)
