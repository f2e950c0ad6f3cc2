package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/orgflow/internal/orgflow/http"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/metrics"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/service"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store"
	redisstore "github.com/aussiebroadwan/orgflow/internal/orgflow/store/drivers/redis"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store/drivers/sqlite"
	"github.com/aussiebroadwan/orgflow/pkg/authz"
	"github.com/aussiebroadwan/orgflow/pkg/cryptox"
	"github.com/aussiebroadwan/orgflow/pkg/jwtx"
	"github.com/aussiebroadwan/orgflow/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application wires the orgflow service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db        store.Store
	snapshots store.Snapshots
	redis     *redisstore.SnapshotRepository // nil unless SNAPSHOT_BACKEND=redis
	authz     *authz.Authorizer
	signer    jwtx.Signer
	verifier  jwtx.Verifier
	metrics   *metrics.Metrics

	// Services
	authService    *service.AuthService
	catalogService *service.CatalogService
	projectService *service.ProjectService
	chartService   *service.ChartService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the service logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "orgflow",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  cfg.LogOutput,
	})
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:     cfg,
		logger:  NewLogger(cfg),
		metrics: metrics.New(),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := app.initSnapshots(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initAuth(); err != nil {
		app.Close()
		return nil, err
	}

	app.initServices()

	// Seed or repair the chart so every reader sees the same ids.
	if err := app.chartService.Init(slogx.WithContext(ctx, app.logger)); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize org chart: %w", err)
	}

	app.initHTTP()

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("orgflow starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"snapshot_backend", app.cfg.SnapshotBackend,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down orgflow...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.Close(); err != nil {
		return err
	}

	app.logger.Info("orgflow stopped")
	return nil
}

// Close releases the database and the Redis client without touching the
// HTTP server.
func (app *Application) Close() error {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// DSN returns the sqlite connection string for file.
func DSN(file string) string {
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", file)
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

// initSnapshots picks where chart snapshots live.
func (app *Application) initSnapshots(ctx context.Context) error {
	if app.cfg.SnapshotBackend != BackendRedis {
		app.snapshots = app.db.Snapshots()
		return nil
	}

	client, err := redisstore.Dial(ctx, app.cfg.RedisURL())
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.redis = redisstore.NewSnapshotRepository(client, app.logger, "")
	app.snapshots = app.redis

	app.logger.Info("chart snapshots stored in redis")
	return nil
}

func (app *Application) initAuth() error {
	secret := app.cfg.JWTSecret
	if secret == "" {
		generated, err := cryptox.NewSigningSecret()
		if err != nil {
			return fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		secret = generated
		app.logger.Warn("JWT_SECRET not set, using an ephemeral secret; sessions end on restart")
	}

	signer, err := jwtx.NewSignerHS256([]byte(secret))
	if err != nil {
		return fmt.Errorf("failed to create token signer: %w", err)
	}
	app.signer = signer
	app.verifier = jwtx.NewVerifierHS256([]byte(secret), app.cfg.JWTIssuer, 30*time.Second)

	az, err := authz.New(app.cfg.AuthzPolicyFile, app.cfg.ChartPrivilegedRole)
	if err != nil {
		return fmt.Errorf("failed to load authorization policy: %w", err)
	}
	app.authz = az
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:            app.db,
		Signer:           app.signer,
		Issuer:           app.cfg.JWTIssuer,
		TTL:              app.cfg.JWTTTL,
		AllowAdminSignup: app.cfg.AllowAdminSignup,
	}
	app.catalogService = &service.CatalogService{Store: app.db}
	app.projectService = &service.ProjectService{Store: app.db}
	app.chartService = &service.ChartService{
		Snapshots: app.snapshots,
		Authz:     app.authz,
		Key:       app.cfg.ChartKey,
		Metrics:   app.metrics,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		app.authz,
		app.cfg.Limits,
		BuildVersion,
		app.metrics,
		app.logger,
	)

	router.Database = app.db
	if app.redis != nil {
		router.Snapshots = app.redis
	} else {
		router.Snapshots = app.db
	}

	// Wire services to router
	router.AuthService = app.authService
	router.CatalogService = app.catalogService
	router.ProjectService = app.projectService
	router.ChartService = app.chartService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
