package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/hierarchy"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/metrics"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store"
	"github.com/aussiebroadwan/orgflow/pkg/slogx"
)

// DefaultMaxRetries is how often a chart command is retried after losing a
// race with another writer.
const DefaultMaxRetries = 5

// ChartService serves one shared org chart. Every command is a single
// read-compute-write against the snapshot repository: the stored blob is
// loaded into a fresh hierarchy.Store, the command runs through a Gate for
// the caller, and the resulting snapshot replaces the stored one.
type ChartService struct {
	Snapshots store.Snapshots
	Authz     hierarchy.Authorizer

	Key        string // defaults to hierarchy.DefaultKey
	MaxRetries int
	Metrics    *metrics.Metrics

	// IDFunc overrides node and role id generation.
	IDFunc hierarchy.IDFunc
}

// ChartNode is a node with its role name resolved.
type ChartNode struct {
	hierarchy.Node
	RoleName string
}

func (s *ChartService) key() string {
	if s.Key == "" {
		return hierarchy.DefaultKey
	}
	return s.Key
}

func (s *ChartService) options(ctx context.Context) []hierarchy.Option {
	opts := []hierarchy.Option{
		hierarchy.WithKey(s.key()),
		hierarchy.WithLogger(slogx.FromContext(ctx)),
		hierarchy.WithRequiredDurability(),
	}
	if s.IDFunc != nil {
		opts = append(opts, hierarchy.WithIDFunc(s.IDFunc))
	}
	return opts
}

// open loads blob into a Store staged over memory. A missing or malformed
// blob gives the seeded default chart.
func (s *ChartService) open(ctx context.Context, blob []byte, ok bool) (*hierarchy.Store, error) {
	seed := map[string][]byte{}
	if ok {
		seed[s.key()] = blob
	}
	st := hierarchy.New(hierarchy.NewMemoryPersistence(seed), s.options(ctx)...)
	if err := st.Load(); err != nil {
		return nil, err
	}
	return st, nil
}

// Init makes sure a valid, non-empty chart is stored so that reads see
// stable ids. A malformed snapshot is replaced with the default chart.
func (s *ChartService) Init(ctx context.Context) error {
	snap, err := s.Snapshots.GetSnapshot(ctx, s.key())
	switch {
	case err == nil:
		if seeded(snap.Blob) {
			return nil
		}
	case !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %v", hierarchy.ErrPersistenceUnavailable, err)
	}

	err = s.write(ctx, func(st *hierarchy.Store) error { return nil })
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("chart initialized", slog.String("key", s.key()))
	return nil
}

// seeded reports whether blob holds a valid chart with at least one node.
// Anything else would be reseeded on load with ids that are never stored.
func seeded(blob []byte) bool {
	snap, err := hierarchy.DecodeSnapshot(blob)
	return err == nil && len(snap.Nodes) > 0
}

// write runs cmd inside an UpdateSnapshot and retries on ErrConflict. Errors
// from cmd are returned as is; storage errors become
// ErrPersistenceUnavailable.
func (s *ChartService) write(ctx context.Context, cmd func(st *hierarchy.Store) error) error {
	retries := s.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}

	var (
		err    error
		cmdErr error
	)
	for attempt := 0; attempt <= retries; attempt++ {
		cmdErr = nil
		err = s.Snapshots.UpdateSnapshot(ctx, s.key(), func(blob []byte, ok bool) ([]byte, error) {
			st, err := s.open(ctx, blob, ok)
			if err != nil {
				cmdErr = err
				return nil, err
			}
			if err := cmd(st); err != nil {
				cmdErr = err
				return nil, err
			}
			return hierarchy.EncodeSnapshot(st.Snapshot())
		})
		if !errors.Is(err, store.ErrConflict) {
			break
		}
		s.Metrics.ObserveConflict()
		slogx.FromContext(ctx).Debug("chart write conflict, retrying", slog.Int("attempt", attempt+1))
		if attempt == retries {
			break
		}
		if werr := conflictBackoff(ctx, attempt); werr != nil {
			return werr
		}
	}

	if err != nil && cmdErr == nil {
		return fmt.Errorf("%w: %v", hierarchy.ErrPersistenceUnavailable, err)
	}
	return err
}

// conflictBackoff sleeps a jittered, growing delay before the next attempt
// so writers that collided do not collide again in lockstep.
func conflictBackoff(ctx context.Context, attempt int) error {
	d := time.Duration(attempt+1)*5*time.Millisecond + rand.N(10*time.Millisecond)
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// mutate gates cmd behind the caller's identity and counts the outcome.
func (s *ChartService) mutate(ctx context.Context, op string, who hierarchy.Identity, cmd func(g *hierarchy.Gate) error) error {
	if strings.TrimSpace(who.Role) == "" {
		return hierarchy.ErrNoIdentity
	}

	err := s.write(ctx, func(st *hierarchy.Store) error {
		g, err := hierarchy.NewGate(st, who, s.Authz)
		if err != nil {
			return err
		}
		return cmd(g)
	})

	s.Metrics.ObserveChartMutation(op, resultLabel(err))
	if errors.Is(err, hierarchy.ErrPermissionDenied) {
		slogx.FromContext(ctx).Warn("chart command denied",
			slog.String("op", op),
			slog.String("role", who.Role),
		)
	}
	return err
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, hierarchy.ErrPermissionDenied):
		return "denied"
	case errors.Is(err, hierarchy.ErrValidation):
		return "invalid"
	case errors.Is(err, hierarchy.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// read loads the current chart. A missing, malformed or emptied chart is
// seeded and stored first, so the ids a read returns are the stored ones.
func (s *ChartService) read(ctx context.Context) (*hierarchy.Store, error) {
	snap, err := s.Snapshots.GetSnapshot(ctx, s.key())
	if errors.Is(err, store.ErrNotFound) || (err == nil && !seeded(snap.Blob)) {
		if err := s.Init(ctx); err != nil {
			return nil, err
		}
		snap, err = s.Snapshots.GetSnapshot(ctx, s.key())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", hierarchy.ErrPersistenceUnavailable, err)
	}
	return s.open(ctx, snap.Blob, true)
}

// Chart returns every role and node.
func (s *ChartService) Chart(ctx context.Context) (hierarchy.Snapshot, error) {
	st, err := s.read(ctx)
	if err != nil {
		return hierarchy.Snapshot{}, err
	}
	return st.Snapshot(), nil
}

// Tree returns the nested view of the chart.
func (s *ChartService) Tree(ctx context.Context) ([]*hierarchy.TreeNode, error) {
	st, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return hierarchy.Tree(st), nil
}

// RenderText writes the chart as an indented outline.
func (s *ChartService) RenderText(ctx context.Context, w io.Writer) error {
	st, err := s.read(ctx)
	if err != nil {
		return err
	}
	return hierarchy.RenderText(w, st)
}

func (s *ChartService) Roots(ctx context.Context) ([]ChartNode, error) {
	return s.Children(ctx, "")
}

// Children lists the direct children of parentID. An unknown parent simply
// has none.
func (s *ChartService) Children(ctx context.Context, parentID string) ([]ChartNode, error) {
	st, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	nodes := st.ListChildren(parentID)
	out := make([]ChartNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, ChartNode{Node: n, RoleName: st.ResolveRoleName(n.RoleID)})
	}
	return out, nil
}

func (s *ChartService) Roles(ctx context.Context) ([]hierarchy.Role, error) {
	st, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return st.Roles(), nil
}

// AddNode creates a node. Unlike the bare store, a non-empty parentID must
// name an existing node.
func (s *ChartService) AddNode(ctx context.Context, who hierarchy.Identity, parentID, name, roleID string) (ChartNode, error) {
	var out ChartNode
	err := s.mutate(ctx, "add_node", who, func(g *hierarchy.Gate) error {
		if parentID != "" && g.CanWrite() {
			if _, ok := g.Store().Node(parentID); !ok {
				return hierarchy.ErrNotFound
			}
		}
		id, err := g.AddNode(parentID, name, roleID)
		if err != nil {
			return err
		}
		n, _ := g.Store().Node(id)
		out = ChartNode{Node: n, RoleName: g.ResolveRoleName(n.RoleID)}
		return nil
	})
	if err != nil {
		return ChartNode{}, err
	}
	return out, nil
}

func (s *ChartService) UpdateNode(ctx context.Context, who hierarchy.Identity, id, name, roleID string) (ChartNode, error) {
	var out ChartNode
	err := s.mutate(ctx, "update_node", who, func(g *hierarchy.Gate) error {
		if err := g.UpdateNode(id, name, roleID); err != nil {
			return err
		}
		n, _ := g.Store().Node(id)
		out = ChartNode{Node: n, RoleName: g.ResolveRoleName(n.RoleID)}
		return nil
	})
	if err != nil {
		return ChartNode{}, err
	}
	return out, nil
}

// DeleteNode removes the node and its subtree, returning how many nodes went.
func (s *ChartService) DeleteNode(ctx context.Context, who hierarchy.Identity, id string) (int, error) {
	var removed int
	err := s.mutate(ctx, "delete_node", who, func(g *hierarchy.Gate) error {
		n, err := g.DeleteNode(id)
		removed = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *ChartService) AddRole(ctx context.Context, who hierarchy.Identity, name string) (hierarchy.Role, error) {
	var out hierarchy.Role
	err := s.mutate(ctx, "add_role", who, func(g *hierarchy.Gate) error {
		id, err := g.AddRole(name)
		if err != nil {
			return err
		}
		out = hierarchy.Role{ID: id, Name: g.ResolveRoleName(id)}
		return nil
	})
	if err != nil {
		return hierarchy.Role{}, err
	}
	return out, nil
}

func (s *ChartService) RemoveRole(ctx context.Context, who hierarchy.Identity, id string) error {
	return s.mutate(ctx, "remove_role", who, func(g *hierarchy.Gate) error {
		return g.RemoveRole(id)
	})
}

// ReplaceRoles swaps the whole role list. Every node ends up unassigned.
func (s *ChartService) ReplaceRoles(ctx context.Context, who hierarchy.Identity, names []string) ([]hierarchy.Role, error) {
	var out []hierarchy.Role
	err := s.mutate(ctx, "replace_roles", who, func(g *hierarchy.Gate) error {
		if _, err := g.ReplaceRoles(names); err != nil {
			return err
		}
		out = g.Store().Roles()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
