package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/cahierdeveille/internal/flagx"
)

// parseFlags populates Config fields from -a, -timeout and -debounce.
// os.Args is filtered first so flags of other components do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-timeout", "-debounce"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server base URL")
	timeout := fs.Int("timeout", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	debounce := fs.Int("debounce", int(cfg.Debounce.Milliseconds()), "call-sign proposal delay (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.Debounce = time.Duration(*debounce) * time.Millisecond
}
