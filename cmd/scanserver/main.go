// Command scanserver serves the scan service by replaying saved results:
// a CARD request returns <results>/card.json and a TEXT request
// <results>/text.json. It is meant for development and demos.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mikimauro/scanbiz/internal/config"
	"github.com/mikimauro/scanbiz/internal/logging"
	"github.com/mikimauro/scanbiz/internal/models"
	"github.com/mikimauro/scanbiz/internal/scanner"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig(os.Args[1:])
	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	replay := scanner.ExtractorFunc(func(ctx context.Context, req scanner.Request) (models.ScanResult, error) {
		path := filepath.Join(cfg.ResultsDir, strings.ToLower(string(req.Mode))+".json")
		logger.Debug(ctx, "replaying scan result", "path", path, "bytes", len(req.Image))
		return scanner.FileScanner{Path: path}.Scan(ctx, req)
	})

	srv := scanner.NewServer(replay, logger, cfg.ScannerSecret)
	if err := srv.Run(ctx, cfg.ScannerEndpointAddr); err != nil {
		log.Printf("%v", err)
	}

}
