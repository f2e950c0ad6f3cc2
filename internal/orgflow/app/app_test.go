package app

import (
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/orgflow/pkg/orgsdk"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Env:                 "test",
		LogLevel:            "error",
		LogFormat:           "text",
		LogOutput:           io.Discard,
		Port:                10000,
		DatabaseFile:        filepath.Join(t.TempDir(), "orgflow.db"),
		JWTSecret:           "0123456789abcdef0123456789abcdef",
		JWTIssuer:           "orgflow",
		JWTTTL:              time.Hour,
		ChartKey:            "orgflow_v1",
		ChartPrivilegedRole: "admin",
		SnapshotBackend:     BackendSQLite,
		ShutdownGracePeriod: time.Second,
	}
}

func TestApplicationServesChart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	a, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	client := orgsdk.NewClient(srv.URL)

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, BuildVersion, ready.Version)

	_, err = client.Signup(ctx, orgsdk.SignupRequest{
		Username: "ada", Email: "ada@example.com", Password: "correct-horse-battery", Role: "admin",
	})
	require.NoError(t, err)
	sess, err := client.Login(ctx, "ada@example.com", "correct-horse-battery")
	require.NoError(t, err)

	// The chart was seeded at startup.
	chart, err := sess.Chart(ctx)
	require.NoError(t, err)
	require.Len(t, chart.Nodes, 1)
	require.Equal(t, "CEO", chart.Nodes[0].RoleName)
}

func TestApplicationKeepsChartAcrossRestarts(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)

	first, err := New(cfg)
	require.NoError(t, err)
	before, err := first.chartService.Chart(context.Background())
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })
	after, err := second.chartService.Chart(context.Background())
	require.NoError(t, err)

	require.Equal(t, before, after)
}

func TestNewFailsOnBadPolicyFile(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.AuthzPolicyFile = filepath.Join(t.TempDir(), "missing.csv")

	_, err := New(cfg)
	require.Error(t, err)
}
