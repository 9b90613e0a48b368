package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/waterbot/internal/buildinfo"
	"github.com/dmitrijs2005/waterbot/internal/server"
	"github.com/dmitrijs2005/waterbot/internal/server/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
