package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/cahierdeveille/internal/flagx"
)

var knownFlags = []string{
	"-a", "-driver", "-d", "-sqlite", "-s", "-t", "-env", "-cors", "-rate",
	"-static", "-logo", "-blob", "-blob-dir", "-u", "-p", "-b", "-g", "-e",
	"-log", "-log-level",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string          HTTP bind address (e.g., ":8080")
//	-driver string     database driver: pgx or sqlite
//	-d string          PostgreSQL DSN
//	-sqlite string     SQLite file path
//	-s string          session signing secret
//	-t int             session validity, minutes
//	-env string        development or production
//	-cors string       comma separated allowed origins
//	-rate int          auth requests per minute per client
//	-static string     directory served for UI assets
//	-logo string       PNG logo placed in the PDF header
//	-blob string       blob backend: s3 or fs
//	-blob-dir string   root directory for the fs blob backend
//	-u, -p string      S3 credentials
//	-b, -g, -e string  S3 bucket, region and base endpoint
//	-log string        log backend: slog or zerolog
//	-log-level string  debug, info, warn or error
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// components (the CLI, -c) do not abort parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "driver", config.DatabaseDriver, "database driver (pgx|sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SQLitePath, "sqlite", config.SQLitePath, "sqlite database file")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionValidity.Minutes()), "session validity (in minutes)")

	fs.StringVar(&config.Environment, "env", config.Environment, "environment (development|production)")
	cors := fs.String("cors", strings.Join(config.CORSOrigins, ","), "allowed CORS origins")
	fs.IntVar(&config.RateLimit, "rate", config.RateLimit, "auth requests per minute")
	fs.StringVar(&config.StaticDir, "static", config.StaticDir, "static assets directory")
	fs.StringVar(&config.LogoPath, "logo", config.LogoPath, "logo image for PDF exports")
	fs.StringVar(&config.BlobBackend, "blob", config.BlobBackend, "blob backend (s3|fs)")
	fs.StringVar(&config.BlobDir, "blob-dir", config.BlobDir, "blob directory for the fs backend")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.LogBackend, "log", config.LogBackend, "log backend (slog|zerolog)")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidity = time.Duration(*sessionValidity) * time.Minute
	config.CORSOrigins = splitList(*cors)
}
