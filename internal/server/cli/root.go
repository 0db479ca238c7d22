package cli

import (
	"bufio"
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/cahierdeveille/internal/server"
)

// Opener builds a ready App. The caller closes it.
type Opener func(ctx context.Context) (*server.App, error)

type cli struct {
	open   Opener
	reader *bufio.Reader
	out    io.Writer
}

func okMark() string   { return color.New(color.FgGreen).Sprint("✓") }
func warnMark() string { return color.New(color.FgYellow).Sprint("!") }

// NewRootCmd returns the cahierctl command tree. Prompts read from in and
// everything is printed to out.
func NewRootCmd(open Opener, in io.Reader, out io.Writer) *cobra.Command {
	c := &cli{open: open, reader: bufio.NewReader(in), out: out}

	root := &cobra.Command{
		Use:   "cahierctl",
		Short: "Administration of the cahier de veille server",
		// server configuration flags (-a, -driver, -c...) share os.Args
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		SilenceUsage:       true,
		SilenceErrors:      true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)

	root.AddCommand(c.serveCmd())
	root.AddCommand(c.migrateCmd())
	root.AddCommand(c.userAddCmd())
	root.AddCommand(c.listCmd())
	root.AddCommand(c.exportCmd())

	return root
}

// withApp opens the app, runs fn and closes the app.
func (c *cli) withApp(ctx context.Context, fn func(app *server.App) error) error {
	app, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}
