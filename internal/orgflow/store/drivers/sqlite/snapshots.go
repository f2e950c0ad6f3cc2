package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/domain"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store"
)

type snapshotsRepo struct {
	q querier

	// begin is set outside a Tx so each update gets its own transaction.
	begin func(context.Context, *sql.TxOptions) (*sql.Tx, error)
}

func (r *snapshotsRepo) GetSnapshot(ctx context.Context, key string) (domain.ChartSnapshot, error) {
	return getSnapshot(ctx, r.q, key)
}

func getSnapshot(ctx context.Context, q querier, key string) (domain.ChartSnapshot, error) {
	snap := domain.ChartSnapshot{Key: key}
	err := q.QueryRowContext(ctx,
		`SELECT blob, version, updated_at FROM chart_snapshots WHERE key = ?`, key,
	).Scan(&snap.Blob, &snap.Version, &snap.UpdatedAt)
	if err != nil {
		return domain.ChartSnapshot{}, mapNotFound(err)
	}
	return snap, nil
}

func (r *snapshotsRepo) UpdateSnapshot(ctx context.Context, key string, fn store.SnapshotUpdate) error {
	if r.begin == nil {
		return updateSnapshot(ctx, r.q, key, fn)
	}

	tx, err := r.begin(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := updateSnapshot(ctx, tx, key, fn); err != nil {
		return err
	}
	return tx.Commit()
}

// updateSnapshot writes with a version check so a concurrent writer that got
// in first turns into ErrConflict instead of a lost update.
func updateSnapshot(ctx context.Context, q querier, key string, fn store.SnapshotUpdate) error {
	cur, err := getSnapshot(ctx, q, key)
	found := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	next, err := fn(cur.Blob, found)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if !found {
		_, err := q.ExecContext(ctx,
			`INSERT INTO chart_snapshots (key, blob, version, updated_at) VALUES (?, ?, 1, ?)`,
			key, next, now)
		if errors.Is(mapConstraint(err), store.ErrAlreadyExists) {
			return store.ErrConflict
		}
		return err
	}

	res, err := q.ExecContext(ctx,
		`UPDATE chart_snapshots SET blob = ?, version = version + 1, updated_at = ? WHERE key = ? AND version = ?`,
		next, now, key, cur.Version)
	if err := affectedOrNotFound(res, err); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrConflict
		}
		return err
	}
	return nil
}
