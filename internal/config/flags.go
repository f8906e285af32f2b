package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/mikimauro/scanbiz/internal/flagx"
)

// parseFlags populates cfg from the flags in args it recognizes (see the
// package doc). Other arguments are filtered out with flagx.FilterArgs so
// they never reach this FlagSet. Parse errors and an unknown image store
// panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args,
		[]string{"-d", "-a", "-s", "-t", "-m", "-o", "-u", "-p", "-b", "-g", "-e", "-r", "-x", "-l"},
		"-x")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.ScannerEndpointAddr, "a", cfg.ScannerEndpointAddr, "address and port of the scan service")
	fs.StringVar(&cfg.ScannerSecret, "s", cfg.ScannerSecret, "scan service token secret")
	scannerTimeout := fs.Int("t", int(cfg.ScannerTimeout.Seconds()), "scan timeout (in seconds)")
	fs.StringVar(&cfg.ImageStore, "m", cfg.ImageStore, "image store: local or s3")
	fs.StringVar(&cfg.ImageDir, "o", cfg.ImageDir, "image directory for the local store")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.ResultsDir, "r", cfg.ResultsDir, "scan results replayed by scanserver")
	fs.BoolVar(&cfg.Encrypt, "x", cfg.Encrypt, "encrypt stored data")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only an explicit -t replaces a sub-second timeout from JSON
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.ScannerTimeout = time.Duration(*scannerTimeout) * time.Second
		}
	})

	if cfg.ImageStore != ImageStoreLocal && cfg.ImageStore != ImageStoreS3 {
		panic(fmt.Sprintf("unknown image store %q", cfg.ImageStore))
	}
}
