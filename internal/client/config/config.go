package config

import (
	"time"

	"github.com/dmitrijs2005/cahierdeveille/internal/client/editor"
)

// Config holds runtime settings for the terminal client.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	Debounce       time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.Debounce = editor.DefaultDebounce
}

// LoadConfig applies defaults, then the JSON file, then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
