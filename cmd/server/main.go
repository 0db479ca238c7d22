package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/cahierdeveille/internal/server"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg, server.NewLogger(cfg))

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
