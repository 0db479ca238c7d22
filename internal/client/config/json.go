package config

import (
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/dmitrijs2005/cahierdeveille/internal/flagx"
	"github.com/dmitrijs2005/cahierdeveille/internal/timex"
)

// JsonConfig is the on-disk shape of the client configuration file.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	Debounce       timex.Duration `json:"debounce"`
}

// parseJson overlays cfg with the keys present in the JSON file, if any.
// Read and decode errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.Debounce.Duration > 0 {
		cfg.Debounce = time.Duration(jc.Debounce.Duration)
	}
}
