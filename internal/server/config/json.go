package config

import (
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/dmitrijs2005/cahierdeveille/internal/flagx"
	"github.com/dmitrijs2005/cahierdeveille/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "168h" and integer nanoseconds are accepted.
//
// Only keys present in the file override the current values.
type JsonConfig struct {
	HTTPAddr        string         `json:"http_addr"`
	DatabaseDriver  string         `json:"database_driver"`
	DatabaseDSN     string         `json:"database_dsn"`
	SQLitePath      string         `json:"sqlite_path"`
	SecretKey       string         `json:"secret_key"`
	SessionValidity timex.Duration `json:"session_validity"`
	Environment     string         `json:"environment"`
	CORSOrigins     []string       `json:"cors_origins"`
	RateLimit       int            `json:"rate_limit"`
	StaticDir       string         `json:"static_dir"`
	LogoPath        string         `json:"logo_path"`
	BlobBackend     string         `json:"blob_backend"`
	BlobDir         string         `json:"blob_dir"`
	BlobKey         string         `json:"blob_key"`
	S3RootUser      string         `json:"s3_root_user"`
	S3RootPassword  string         `json:"s3_root_password"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	LogBackend      string         `json:"log_backend"`
	LogLevel        string         `json:"log_level"`
}

// parseJson loads configuration values from a JSON file into config.
//
// The file path comes from the -c/-config flags or $CONFIG_PATH
// (flagx.ConfigFilePath). Without a path nothing is loaded. An unreadable
// file or invalid JSON panics; the caller is expected to fail fast at startup.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFilePath()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SQLitePath, c.SQLitePath)
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionValidity.Duration > 0 {
		config.SessionValidity = time.Duration(c.SessionValidity.Duration)
	}
	setString(&config.Environment, c.Environment)
	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}
	if c.RateLimit > 0 {
		config.RateLimit = c.RateLimit
	}
	setString(&config.StaticDir, c.StaticDir)
	setString(&config.LogoPath, c.LogoPath)
	setString(&config.BlobBackend, c.BlobBackend)
	setString(&config.BlobDir, c.BlobDir)
	setString(&config.BlobKey, c.BlobKey)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
