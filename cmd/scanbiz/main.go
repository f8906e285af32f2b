package main

import (
	"context"
	"log"
	"os"

	"github.com/mikimauro/scanbiz/internal/buildinfo"
	"github.com/mikimauro/scanbiz/internal/cli"
	"github.com/mikimauro/scanbiz/internal/config"
	"github.com/mikimauro/scanbiz/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig(os.Args[1:])
	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
