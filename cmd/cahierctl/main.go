package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/cahierdeveille/internal/server"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/cli"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/config"
)

func open(ctx context.Context) (*server.App, error) {
	cfg := config.LoadConfig()
	return server.NewApp(ctx, cfg, server.NewLogger(cfg))
}

func main() {
	root := cli.NewRootCmd(open, os.Stdin, os.Stdout)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
