package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/cahierdeveille/internal/client/cli"
	"github.com/dmitrijs2005/cahierdeveille/internal/client/config"
)

func main() {

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg, os.Stdin, os.Stdout)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(context.Background())

}
