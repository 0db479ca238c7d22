package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DotEnvFile is read, when present, before the environment is consulted.
// Variables already set in the process environment win over the file.
var DotEnvFile = ".env"

// parseEnv overlays config with environment variables.
//
// Recognised variables:
//
//	HTTP_ADDR, DATABASE_DRIVER, DATABASE_DSN, SQLITE_PATH, JWT_SECRET,
//	SESSION_VALIDITY (Go duration), ENVIRONMENT, CORS_ORIGINS (comma separated),
//	RATE_LIMIT, STATIC_DIR, LOGO_PATH, BLOB_BACKEND, BLOB_DIR, BLOB_KEY,
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT,
//	LOG_BACKEND, LOG_LEVEL
//
// Malformed numeric or duration values panic, like the other config layers.
func parseEnv(config *Config) {
	if DotEnvFile != "" {
		if _, err := os.Stat(DotEnvFile); err == nil {
			if err := godotenv.Load(DotEnvFile); err != nil {
				panic(err)
			}
		}
	}

	setString(&config.HTTPAddr, os.Getenv("HTTP_ADDR"))
	setString(&config.DatabaseDriver, os.Getenv("DATABASE_DRIVER"))
	setString(&config.DatabaseDSN, os.Getenv("DATABASE_DSN"))
	setString(&config.SQLitePath, os.Getenv("SQLITE_PATH"))
	setString(&config.SecretKey, os.Getenv("JWT_SECRET"))
	setString(&config.Environment, os.Getenv("ENVIRONMENT"))
	setString(&config.StaticDir, os.Getenv("STATIC_DIR"))
	setString(&config.LogoPath, os.Getenv("LOGO_PATH"))
	setString(&config.BlobBackend, os.Getenv("BLOB_BACKEND"))
	setString(&config.BlobDir, os.Getenv("BLOB_DIR"))
	setString(&config.BlobKey, os.Getenv("BLOB_KEY"))
	setString(&config.S3RootUser, os.Getenv("S3_ROOT_USER"))
	setString(&config.S3RootPassword, os.Getenv("S3_ROOT_PASSWORD"))
	setString(&config.S3Bucket, os.Getenv("S3_BUCKET"))
	setString(&config.S3Region, os.Getenv("S3_REGION"))
	setString(&config.S3BaseEndpoint, os.Getenv("S3_BASE_ENDPOINT"))
	setString(&config.LogBackend, os.Getenv("LOG_BACKEND"))
	setString(&config.LogLevel, os.Getenv("LOG_LEVEL"))

	if v := os.Getenv("SESSION_VALIDITY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.SessionValidity = d
	}

	if v := os.Getenv("RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.RateLimit = n
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		config.CORSOrigins = splitList(v)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
