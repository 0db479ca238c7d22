package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cahierdeveille/internal/client/client"
	"github.com/dmitrijs2005/cahierdeveille/internal/client/config"
	"github.com/dmitrijs2005/cahierdeveille/internal/client/editor"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const watchInterval = 5 * time.Second

type App struct {
	config *config.Config
	api    *client.Client
	editor *editor.Editor
	reader *bufio.Reader

	mu   sync.Mutex // guards out and mode
	out  io.Writer
	mode Mode

	user *models.User
}

func NewApp(c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	api, err := client.New(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	a := &App{config: c, api: api, reader: bufio.NewReader(in), out: out, mode: ModeOnline}
	a.editor = editor.New(api, editor.Options{
		Debounce: c.Debounce,
		OnPropose: func(labels []string) {
			a.printf("Indicatif(s) inconnu(s) : %s (callsign add <label> pour enregistrer)\n", strings.Join(labels, ", "))
		},
	})
	return a, nil
}

func (a *App) printf(format string, args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

// Run restores an existing session if the server still accepts it, then
// runs the REPL until the user exits or input is exhausted.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if u, err := a.api.CurrentUser(ctx); err == nil {
		a.user = u
	}

	go a.StartOnlineStatusWatcher(ctx, watchInterval)

	a.printf("Cahier de veille (type 'help' for commands)\n")
	runREPL(ctx, a)
}

// StartOnlineStatusWatcher pings the server every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.api.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
