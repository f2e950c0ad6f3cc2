package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/app"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/hierarchy"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/service"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store"
	redisstore "github.com/aussiebroadwan/orgflow/internal/orgflow/store/drivers/redis"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store/drivers/sqlite"
	"github.com/aussiebroadwan/orgflow/pkg/orgsdk"
	"github.com/aussiebroadwan/orgflow/pkg/slogx"
)

// NewChartCommand creates the chart command group.
func NewChartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Inspect the org chart",
	}
	cmd.AddCommand(newChartPrintCommand(rootOpts))
	return cmd
}

type remoteOptions struct {
	Server   string
	Token    string
	Email    string
	Password string
}

func newChartPrintCommand(rootOpts *RootOptions) *cobra.Command {
	var remote remoteOptions

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the chart as an indented outline",
		Long: `Print the org chart, two spaces of indent per level.

Without --server the chart is read from the configured snapshot backend.
With --server it is fetched over HTTP using --token, or a session opened
with --email and --password.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newOutput(rootOpts, cmd)

			var (
				st  *hierarchy.Store
				err error
			)
			if remote.Server != "" {
				st, err = fetchRemoteChart(cmd.Context(), remote)
			} else {
				st, err = readLocalChart(cmd.Context(), rootOpts)
			}
			if err != nil {
				return out.Fail(err)
			}

			var buf bytes.Buffer
			if err := hierarchy.RenderText(&buf, st); err != nil {
				return out.Fail(err)
			}
			return out.Success(hierarchy.Tree(st), strings.TrimSuffix(buf.String(), "\n"))
		},
	}

	cmd.Flags().StringVar(&remote.Server, "server", "", "orgflow base URL, e.g. http://localhost:10000")
	cmd.Flags().StringVar(&remote.Token, "token", "", "bearer token for --server")
	cmd.Flags().StringVar(&remote.Email, "email", "", "login email for --server")
	cmd.Flags().StringVar(&remote.Password, "password", "", "login password for --server")

	return cmd
}

// readLocalChart loads the chart through the chart service so an empty or
// damaged snapshot is seeded the same way the server does it.
func readLocalChart(ctx context.Context, rootOpts *RootOptions) (*hierarchy.Store, error) {
	cfg, err := rootOpts.config(false)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	ctx = slogx.WithContext(ctx, slogx.Discard())

	db, err := sqlite.NewStore(app.DSN(cfg.DatabaseFile))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}
	defer db.Close()
	if err := db.ApplyMigrations(); err != nil {
		return nil, WrapExitError(ExitCommandError, "apply migrations", err)
	}

	var snaps store.Snapshots = db.Snapshots()
	if cfg.SnapshotBackend == app.BackendRedis {
		client, err := redisstore.Dial(ctx, cfg.RedisURL())
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "connect to redis", err)
		}
		repo := redisstore.NewSnapshotRepository(client, slogx.Discard(), "")
		defer repo.Close()
		snaps = repo
	}

	svc := &service.ChartService{Snapshots: snaps, Key: cfg.ChartKey}
	snap, err := svc.Chart(ctx)
	if err != nil {
		return nil, err
	}
	return hierarchy.FromSnapshot(snap, hierarchy.NewMemoryPersistence(nil)), nil
}

func fetchRemoteChart(ctx context.Context, remote remoteOptions) (*hierarchy.Store, error) {
	client := orgsdk.NewClient(remote.Server)

	var sess *orgsdk.Session
	switch {
	case remote.Token != "":
		sess = client.NewSessionFromToken(remote.Token)
	case remote.Email != "":
		s, err := client.Login(ctx, remote.Email, remote.Password)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "login", err)
		}
		sess = s
	default:
		return nil, WrapExitError(ExitCommandError, "--server needs --token or --email", nil)
	}

	chart, err := sess.Chart(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch chart: %w", err)
	}
	return hierarchy.FromSnapshot(snapshotFromResponse(chart), hierarchy.NewMemoryPersistence(nil)), nil
}

func snapshotFromResponse(chart *orgsdk.ChartResponse) hierarchy.Snapshot {
	snap := hierarchy.Snapshot{
		Roles: make([]hierarchy.Role, len(chart.Roles)),
		Nodes: make([]hierarchy.Node, len(chart.Nodes)),
	}
	for i, r := range chart.Roles {
		snap.Roles[i] = hierarchy.Role{ID: r.ID, Name: r.Name}
	}
	for i, n := range chart.Nodes {
		snap.Nodes[i] = hierarchy.Node{ID: n.ID, Name: n.Name, RoleID: n.RoleID, ParentID: n.ParentID}
	}
	return snap
}
