package orgflow_test

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/app"
	"github.com/aussiebroadwan/orgflow/pkg/httpx"
	"github.com/aussiebroadwan/orgflow/pkg/orgsdk"
)

/*
 * End-to-end helpers: whole orgflow instances served over httptest, with a
 * throwaway Redis when the chart is shared between instances.
 */

const (
	jwtSecret     = "e2e-secret-0123456789abcdef012345"
	adminEmail    = "ada@example.com"
	adminPassword = "Admin123!"
)

// baseConfig returns a config for an instance using dbFile. Rate limits are
// raised so tests do not trip them by accident.
func baseConfig(dbFile string) app.Config {
	generous := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	return app.Config{
		Env:                 "test",
		LogLevel:            "error",
		LogFormat:           "json",
		LogOutput:           io.Discard,
		Port:                10000,
		DatabaseFile:        dbFile,
		JWTSecret:           jwtSecret,
		JWTIssuer:           "orgflow-e2e",
		JWTTTL:              time.Hour,
		ChartKey:            "orgflow_v1",
		ChartPrivilegedRole: "admin",
		SnapshotBackend:     app.BackendSQLite,
		ShutdownGracePeriod: time.Second,
		Limits:              httpx.Limits{Strict: generous, Moderate: generous, Lenient: generous, Public: generous},
	}
}

// startInstance boots an application and serves it on a random port.
func startInstance(t *testing.T, cfg app.Config) *orgsdk.Client {
	t.Helper()
	require.NoError(t, cfg.Validate())

	a, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	return orgsdk.NewClient(srv.URL)
}

// tempDB returns a database path inside the test's temp dir.
func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "orgflow.db")
}

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

// signupAdmin registers the first account as admin and logs it in.
func signupAdmin(t *testing.T, client *orgsdk.Client) *orgsdk.Session {
	t.Helper()
	ctx := t.Context()

	_, err := client.Signup(ctx, orgsdk.SignupRequest{
		Username: "ada",
		Email:    adminEmail,
		Password: adminPassword,
		Role:     "admin",
	})
	require.NoError(t, err)

	sess, err := client.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	return sess
}
