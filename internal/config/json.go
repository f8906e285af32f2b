package config

import (
	"encoding/json"
	"os"

	"github.com/mikimauro/scanbiz/internal/flagx"
	"github.com/mikimauro/scanbiz/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// tell an absent key from an explicit zero value.
type JsonConfig struct {
	DatabaseDSN         *string         `json:"database_dsn"`
	ScannerEndpointAddr *string         `json:"scanner_endpoint_addr"`
	ScannerSecret       *string         `json:"scanner_secret"`
	ScannerTimeout      *timex.Duration `json:"scanner_timeout"`
	ImageStore          *string         `json:"image_store"`
	ImageDir            *string         `json:"image_dir"`
	S3RootUser          *string         `json:"s3_root_user"`
	S3RootPassword      *string         `json:"s3_root_password"`
	S3Bucket            *string         `json:"s3_bucket"`
	S3Region            *string         `json:"s3_region"`
	S3BaseEndpoint      *string         `json:"s3_base_endpoint"`
	ResultsDir          *string         `json:"results_dir"`
	Encrypt             *bool           `json:"encrypt"`
	LogLevel            *string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c/-config in args.
// Without such a flag it does nothing. Read and unmarshal errors panic.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigPath(args)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.ScannerEndpointAddr, jc.ScannerEndpointAddr)
	setString(&cfg.ScannerSecret, jc.ScannerSecret)
	if jc.ScannerTimeout != nil {
		cfg.ScannerTimeout = jc.ScannerTimeout.Duration
	}
	setString(&cfg.ImageStore, jc.ImageStore)
	setString(&cfg.ImageDir, jc.ImageDir)
	setString(&cfg.S3RootUser, jc.S3RootUser)
	setString(&cfg.S3RootPassword, jc.S3RootPassword)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.ResultsDir, jc.ResultsDir)
	if jc.Encrypt != nil {
		cfg.Encrypt = *jc.Encrypt
	}
	setString(&cfg.LogLevel, jc.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
