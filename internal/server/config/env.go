package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "LIFTLOG_"

// defaultEnvFile is loaded when present and no -env-file flag is given.
const defaultEnvFile = ".env"

// parseEnv loads a dotenv file (variables already set in the process win)
// and then overlays every LIFTLOG_* variable that is set.
func parseEnv(config *Config, args []string) error {
	if err := loadDotEnv(flagx.EnvFile(args)); err != nil {
		return err
	}

	str := map[string]*string{
		"HTTP_ADDR":        &config.EndpointAddrHTTP,
		"GRPC_ADDR":        &config.EndpointAddrGRPC,
		"DATABASE_DRIVER":  &config.DatabaseDriver,
		"DATABASE_DSN":     &config.DatabaseDSN,
		"SECRET_KEY":       &config.SecretKey,
		"SESSION_STRATEGY": &config.SessionStrategy,
		"LOG_LEVEL":        &config.LogLevel,
		"S3_ROOT_USER":     &config.S3RootUser,
		"S3_ROOT_PASSWORD": &config.S3RootPassword,
		"S3_BUCKET":        &config.S3Bucket,
		"S3_REGION":        &config.S3Region,
		"S3_BASE_ENDPOINT": &config.S3BaseEndpoint,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"DB_ACQUIRE_TIMEOUT":       &config.DBAcquireTimeout,
		"SESSION_TTL":              &config.SessionTTL,
		"SESSION_CLEANUP_INTERVAL": &config.SessionCleanupInterval,
	}
	for key, dst := range durations {
		v, ok := os.LookupEnv(envPrefix + key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = d
	}

	if v, ok := os.LookupEnv(envPrefix + "DB_MAX_CONNS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sDB_MAX_CONNS: %w", envPrefix, err)
		}
		config.DBMaxConns = n
	}
	if v, ok := os.LookupEnv(envPrefix + "COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sCOOKIE_SECURE: %w", envPrefix, err)
		}
		config.CookieSecure = b
	}

	return nil
}

// loadDotEnv loads path, or .env when path is empty. A missing default file
// is fine; a missing explicitly named one is not.
func loadDotEnv(path string) error {
	if path != "" {
		return godotenv.Load(path)
	}
	err := godotenv.Load(defaultEnvFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
