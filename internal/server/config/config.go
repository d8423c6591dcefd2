// Package config handles configuration for the LiftLog server: defaults,
// an optional JSON file, environment variables (with .env support) and
// command-line flags, applied in that order.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/common"
)

// Session strategies.
const (
	SessionStrategyStore  = "store"
	SessionStrategySigned = "signed"
)

// DevSecretKey is the development default for SecretKey. Signed sessions
// refuse to run with it.
const DevSecretKey = "secretKey"

// MinSecretKeyLen is the shortest HMAC key accepted for signed sessions.
const MinSecretKeyLen = 32

// Database drivers, as registered with database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Config holds runtime settings for the LiftLog server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses (web app, health).
//   - DatabaseDriver / DatabaseDSN: "sqlite" (modernc) or "pgx" (PostgreSQL).
//   - DBMaxConns: storage worker slots, equal to the pool's max open conns.
//   - DBAcquireTimeout: how long a request waits for a slot before failing.
//   - SecretKey: HMAC secret for signed session cookies.
//   - SessionStrategy: "store" (server-side tokens) or "signed".
//   - SessionTTL / SessionCleanupInterval: session lifetime and sweep period.
//   - CookieSecure: set the Secure attribute on the session cookie.
//   - S3*: object storage used by history export.
type Config struct {
	EndpointAddrHTTP       string
	EndpointAddrGRPC       string
	DatabaseDriver         string
	DatabaseDSN            string
	DBMaxConns             int
	DBAcquireTimeout       time.Duration
	SecretKey              string
	SessionStrategy        string
	SessionTTL             time.Duration
	SessionCleanupInterval time.Duration
	CookieSecure           bool
	LogLevel               string
	S3RootUser             string
	S3RootPassword         string
	S3Bucket               string
	S3Region               string
	S3BaseEndpoint         string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey and the S3 credentials must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "file:liftlog.db"
	c.DBMaxConns = 8
	c.DBAcquireTimeout = 5 * time.Second
	c.SecretKey = DevSecretKey
	c.SessionStrategy = SessionStrategyStore
	c.SessionTTL = common.DefaultSessionTTL
	c.SessionCleanupInterval = time.Hour
	c.CookieSecure = false
	c.LogLevel = "info"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "liftlog-exports"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// Validate rejects combinations the server cannot run with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	switch c.SessionStrategy {
	case SessionStrategyStore:
	case SessionStrategySigned:
		if c.SecretKey == "" || c.SecretKey == DevSecretKey {
			return fmt.Errorf("signed sessions require a secret key other than the default")
		}
		if len(c.SecretKey) < MinSecretKeyLen {
			return fmt.Errorf("signed sessions require a secret key of at least %d bytes", MinSecretKeyLen)
		}
	default:
		return fmt.Errorf("unsupported session strategy %q", c.SessionStrategy)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("db max conns must be at least 1")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg, args); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvConfig applies defaults and the environment only, for tools that
// parse their own flags.
func LoadEnvConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg, nil); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return cfg, nil
}
