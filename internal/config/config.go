package config

import "time"

// Image store kinds.
const (
	ImageStoreLocal = "local"
	ImageStoreS3    = "s3"
)

// Config holds runtime settings for the ScanBiz CLI.
//
// Fields:
//   - DatabaseDSN: SQLite file path, or a postgres:// URL for a shared store.
//   - ScannerEndpointAddr / ScannerSecret: gRPC scan service and the HS256
//     secret used to sign access tokens for it.
//   - ScannerTimeout: per-call deadline for scan requests.
//   - ImageStore: "local" or "s3"; ImageDir is used by the local store.
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint:
//     object storage settings for the s3 image store.
//   - ResultsDir: directory of <mode>.json scan results replayed by scanserver.
//   - Encrypt: seal stored collections with a passphrase asked at startup.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	DatabaseDSN         string
	ScannerEndpointAddr string
	ScannerSecret       string
	ScannerTimeout      time.Duration
	ImageStore          string
	ImageDir            string
	S3RootUser          string
	S3RootPassword      string
	S3Bucket            string
	S3Region            string
	S3BaseEndpoint      string
	ResultsDir          string
	Encrypt             bool
	LogLevel            string
}

// LoadDefaults populates c with development defaults.
// NOTE: the scanner secret and S3 credentials must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "scanbiz.db"
	c.ScannerEndpointAddr = "127.0.0.1:50051"
	c.ScannerSecret = "secretKey"
	c.ScannerTimeout = 30 * time.Second
	c.ImageStore = ImageStoreLocal
	c.ImageDir = "images"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "scanbiz"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.ResultsDir = "results"
	c.Encrypt = false
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, then the optional JSON file, then
// command-line flags taken from args (usually os.Args[1:]).
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
