package app

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/orgflow/pkg/httpx"
	"github.com/aussiebroadwan/orgflow/pkg/jwtx"
)

// Snapshot backends for the org chart.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	Env       string `env:"ENV" envDefault:"dev"`        // dev, staging, prod
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"` // debug, info, warn, error
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"10000"`

	// LogOutput overrides where logs go. Not read from the environment.
	LogOutput io.Writer

	DatabaseFile string `env:"ORGFLOW_DATABASE_FILE" envDefault:"orgflow.db"`

	// JWTSecret signs session tokens. Outside dev it is required; in dev an
	// ephemeral secret is generated when it is empty.
	JWTSecret string        `env:"JWT_SECRET"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"orgflow"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"2h"`

	ChartKey            string `env:"CHART_KEY" envDefault:"orgflow_v1"`
	ChartPrivilegedRole string `env:"CHART_PRIVILEGED_ROLE" envDefault:"admin"`

	SnapshotBackend string `env:"SNAPSHOT_BACKEND" envDefault:"sqlite"`
	RedisAddr       string `env:"REDIS_ADDR" envDefault:"redis://localhost:6379/0"`

	// AuthzPolicyFile is a casbin CSV policy replacing the built-in one.
	AuthzPolicyFile  string `env:"AUTHZ_POLICY_FILE"`
	AllowAdminSignup bool   `env:"ALLOW_ADMIN_SIGNUP" envDefault:"false"`

	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	Limits httpx.Limits `envPrefix:"RATELIMIT_"`
}

// LoadConfig reads the environment, after loading a .env file from the
// working directory when one exists.
func LoadConfig() (Config, error) {
	cfg, err := ParseConfig()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseConfig is LoadConfig without validation, for maintenance commands
// that only need part of the configuration.
func ParseConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the service runs in the dev environment.
func (c Config) IsDev() bool {
	return strings.EqualFold(c.Env, "dev")
}

func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.JWTSecret == "" && !c.IsDev() {
		errs = append(errs, errors.New("JWT_SECRET is required outside dev"))
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < jwtx.MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", jwtx.MinSecretLength))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if strings.TrimSpace(c.ChartKey) == "" {
		errs = append(errs, errors.New("CHART_KEY must not be empty"))
	}
	if strings.TrimSpace(c.ChartPrivilegedRole) == "" && c.AuthzPolicyFile == "" {
		errs = append(errs, errors.New("CHART_PRIVILEGED_ROLE must not be empty"))
	}
	switch c.SnapshotBackend {
	case BackendSQLite:
	case BackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("SNAPSHOT_BACKEND %q must be sqlite or redis", c.SnapshotBackend))
	}

	return errors.Join(errs...)
}

// RedisURL returns RedisAddr as a redis:// URL. A bare host:port is accepted.
func (c Config) RedisURL() string {
	if strings.Contains(c.RedisAddr, "://") {
		return c.RedisAddr
	}
	return "redis://" + c.RedisAddr
}
