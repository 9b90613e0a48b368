package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/waterbot/internal/buildinfo"
	"github.com/dmitrijs2005/waterbot/internal/client/cli"
	"github.com/dmitrijs2005/waterbot/internal/client/config"
	"github.com/dmitrijs2005/waterbot/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app.Run(ctx)
}
