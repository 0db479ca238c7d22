package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-driver", "sqlite", "-d", "db", "-sqlite", "veille.db",
			"-s", "secret", "-t", "60", "-env", "production", "-cors", "https://a.example, https://b.example",
			"-rate", "5", "-static", "public", "-logo", "logo.png", "-blob", "s3", "-blob-dir", "blobs",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			"-log", "zerolog", "-log-level", "debug",
		}, expected: &Config{
			HTTPAddr:        "127.0.0.1:9090",
			DatabaseDriver:  "sqlite",
			DatabaseDSN:     "db",
			SQLitePath:      "veille.db",
			SecretKey:       "secret",
			SessionValidity: time.Hour,
			Environment:     "production",
			CORSOrigins:     []string{"https://a.example", "https://b.example"},
			RateLimit:       5,
			StaticDir:       "public",
			LogoPath:        "logo.png",
			BlobBackend:     "s3",
			BlobDir:         "blobs",
			S3RootUser:      "user",
			S3RootPassword:  "password",
			S3Bucket:        "bucket",
			S3Region:        "us-west-1",
			S3BaseEndpoint:  "http://endpoint",
			LogBackend:      "zerolog",
			LogLevel:        "debug",
		}},
		{name: "unknown flags are ignored", args: []string{"cmd", "serve", "--verbose", "-a", ":1"},
			expected: &Config{HTTPAddr: ":1"}},
		{name: "bad int panics", args: []string{"cmd", "-rate", "lots"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
