package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict is returned by Snapshots.UpdateSnapshot when another writer
	// changed the snapshot between the read and the write. The caller may
	// retry.
	ErrConflict = errors.New("store: concurrent update")
)

// Store is the root data access interface. Sub-repositories are exposed as
// methods so a Tx hands out repos bound to the same transaction.
type Store interface {
	Users() Users
	Catalog() Catalog
	Projects() Projects
	Snapshots() Snapshots

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up by the lowercased email used at signup.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user. A taken email gives ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Catalog interface {
	// ListDomains returns every domain with its industries, ordered by domain
	// name and then industry name.
	ListDomains(ctx context.Context) ([]domain.Domain, error)

	GetDomain(ctx context.Context, id string) (domain.Domain, error)
	GetDomainByName(ctx context.Context, name string) (domain.Domain, error)

	// CreateDomain fails with ErrAlreadyExists when the name is taken.
	CreateDomain(ctx context.Context, d domain.Domain) error

	// DeleteDomain removes the domain row only. Callers delete its industries
	// first inside the same transaction.
	DeleteDomain(ctx context.Context, id string) error

	// CreateIndustry fails with ErrNotFound for an unknown domain and with
	// ErrAlreadyExists when the domain already has an industry of that name.
	CreateIndustry(ctx context.Context, ind domain.Industry) error

	DeleteIndustry(ctx context.Context, id string) error

	// DeleteIndustriesByDomain returns how many industries were removed.
	DeleteIndustriesByDomain(ctx context.Context, domainID string) (int64, error)
}

// Projects are always scoped to their owner; another owner's id behaves as
// ErrNotFound.
type Projects interface {
	ListProjects(ctx context.Context, ownerID string, f domain.ProjectFilter) ([]domain.Project, error)
	GetProject(ctx context.Context, ownerID, id string) (domain.Project, error)
	CreateProject(ctx context.Context, p domain.Project) error
	UpdateProject(ctx context.Context, p domain.Project) error
	DeleteProject(ctx context.Context, ownerID, id string) error
	ProjectStats(ctx context.Context, ownerID string) (domain.ProjectStats, error)
}

// SnapshotUpdate receives the current blob (ok is false when none is stored)
// and returns the blob to store in its place.
type SnapshotUpdate func(blob []byte, ok bool) ([]byte, error)

// Snapshots persists org chart blobs under a key.
type Snapshots interface {
	// GetSnapshot returns ErrNotFound when nothing is stored under key.
	GetSnapshot(ctx context.Context, key string) (domain.ChartSnapshot, error)

	// UpdateSnapshot reads the blob under key, runs fn and stores its result
	// as one atomic step. An error from fn aborts without writing. When the
	// blob changed underneath, ErrConflict is returned and nothing is written.
	UpdateSnapshot(ctx context.Context, key string, fn SnapshotUpdate) error
}
