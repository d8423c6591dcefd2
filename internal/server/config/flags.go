package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-g string   gRPC health bind address
//	-D string   database driver ("sqlite" or "pgx")
//	-d string   database DSN
//	-w int      storage worker slots (max open connections)
//	-s string   HMAC secret for signed sessions
//	-S string   session strategy ("store" or "signed")
//	-t int      session lifetime, hours
//	-i int      expired-session sweep interval, minutes
//	-l string   log level
//	-u/-p/-b/-r/-e  S3 user, password, bucket, region, endpoint
//
// args are filtered with flagx.FilterArgs first so flags owned by other
// layers (-c, -env-file) do not make parsing fail.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{
		"-a", "-g", "-D", "-d", "-w", "-s", "-S", "-t", "-i", "-l", "-u", "-p", "-b", "-r", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to serve HTTP on")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to serve gRPC health on")
	fs.StringVar(&config.DatabaseDriver, "D", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.DBMaxConns, "w", config.DBMaxConns, "storage worker slots")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.SessionStrategy, "S", config.SessionStrategy, "session strategy")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Hours()), "session lifetime (in hours)")
	cleanupInterval := fs.Int("i", int(config.SessionCleanupInterval.Minutes()), "expired session sweep interval (in minutes)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.SessionTTL = time.Duration(*sessionTTL) * time.Hour
		case "i":
			config.SessionCleanupInterval = time.Duration(*cleanupInterval) * time.Minute
		}
	})

	return nil
}
