package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/liftlog/internal/flagx"
	"github.com/dmitrijs2005/liftlog/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// either strings ("168h") or integer nanoseconds. Absent keys keep the
// value from the previous layer.
type JsonConfig struct {
	EndpointAddrHTTP       *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC       *string         `json:"endpoint_addr_grpc"`
	DatabaseDriver         *string         `json:"database_driver"`
	DatabaseDSN            *string         `json:"database_dsn"`
	DBMaxConns             *int            `json:"db_max_conns"`
	DBAcquireTimeout       *timex.Duration `json:"db_acquire_timeout"`
	SecretKey              *string         `json:"secret_key"`
	SessionStrategy        *string         `json:"session_strategy"`
	SessionTTL             *timex.Duration `json:"session_ttl"`
	SessionCleanupInterval *timex.Duration `json:"session_cleanup_interval"`
	CookieSecure           *bool           `json:"cookie_secure"`
	LogLevel               *string         `json:"log_level"`
	S3RootUser             *string         `json:"s3_root_user"`
	S3RootPassword         *string         `json:"s3_root_password"`
	S3Bucket               *string         `json:"s3_bucket"`
	S3Region               *string         `json:"s3_region"`
	S3BaseEndpoint         *string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the file named by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	if c.DBMaxConns != nil {
		config.DBMaxConns = *c.DBMaxConns
	}
	if c.DBAcquireTimeout != nil {
		config.DBAcquireTimeout = c.DBAcquireTimeout.Duration
	}
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SessionStrategy, c.SessionStrategy)
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.SessionCleanupInterval != nil {
		config.SessionCleanupInterval = c.SessionCleanupInterval.Duration
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
