package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mikimauro/scanbiz/internal/common"
	"github.com/mikimauro/scanbiz/internal/config"
	"github.com/mikimauro/scanbiz/internal/images"
	"github.com/mikimauro/scanbiz/internal/kv"
	"github.com/mikimauro/scanbiz/internal/logging"
	"github.com/mikimauro/scanbiz/internal/models"
	"github.com/mikimauro/scanbiz/internal/persistence"
	"github.com/mikimauro/scanbiz/internal/scanner"
	"github.com/mikimauro/scanbiz/internal/store"
	"github.com/mikimauro/scanbiz/internal/view"
)

type App struct {
	config  *config.Config
	ctrl    *view.Controller
	store   *store.Store
	scanner scanner.Scanner
	images  images.Store
	reader  *bufio.Reader
	out     io.Writer
	logger  logging.Logger
	closers []func() error
}

// NewApp opens storage, loads the collections and connects the scan service
// and image store described by c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (app *App, err error) {
	a := &App{
		config: c,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		logger: logger.With("module", "cli"),
	}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	db, err := kv.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	var opts []persistence.Option
	if c.Encrypt {
		codec, err := openSealedCodec(ctx, db)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { codec.Wipe(); return nil })
		opts = append(opts, persistence.WithCodec(codec))
	}

	bridge := persistence.NewBridge(db, logger, opts...)
	if err := bridge.CheckCodec(ctx); err != nil {
		return nil, fmt.Errorf("stored data cannot be read, check the passphrase or the -x flag: %w", err)
	}

	a.store = store.New(bridge, logger)
	a.store.Load(ctx)
	a.ctrl = view.NewController(a.store, &terminalConfirmer{reader: a.reader, w: a.out}, logger)

	sc, err := scanner.NewGRPCScanner(c.ScannerEndpointAddr, clientID(), c.ScannerSecret, c.ScannerTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("scan service: %w", err)
	}
	a.scanner = sc
	a.closers = append(a.closers, sc.Close)

	a.images, err = newImageStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("image store: %w", err)
	}

	return a, nil
}

func openSealedCodec(ctx context.Context, repo kv.Repository) (*persistence.SealedCodec, error) {
	pw, err := GetPassword(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	defer common.WipeByteArray(pw)

	codec, err := persistence.OpenSealedCodec(ctx, repo, pw)
	if err != nil {
		return nil, err
	}
	return codec, nil
}

func newImageStore(ctx context.Context, c *config.Config) (images.Store, error) {
	if c.ImageStore == config.ImageStoreS3 {
		return images.NewS3Store(ctx, images.S3Config{
			Region:       c.S3Region,
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
		})
	}
	return images.NewLocalStore(c.ImageDir)
}

func clientID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "scanbiz-cli"
	}
	return "scanbiz-cli@" + host
}

// Run starts the REPL and releases resources when it ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to ScanBiz CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *App) currentView() models.View {
	return a.ctrl.View()
}

func (a *App) status() string {
	return string(a.ctrl.View())
}
