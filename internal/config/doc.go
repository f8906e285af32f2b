// Package config loads runtime configuration for the ScanBiz CLI and the
// scanserver replay service.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   database DSN (SQLite path or postgres:// URL)
//	-a string   address:port of the scan service
//	-s string   scan service token secret
//	-t int      scan timeout (seconds)
//	-m string   image store: local or s3
//	-o string   image directory for the local store
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-r string   directory of scan results replayed by scanserver
//	-x          encrypt stored data (asks for a passphrase)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "30s" or integer
// nanoseconds. Keys missing from the file keep their earlier value:
//
//	{
//	  "database_dsn": "scanbiz.db",
//	  "scanner_endpoint_addr": "127.0.0.1:50051",
//	  "scanner_secret": "secretKey",
//	  "scanner_timeout": "30s",
//	  "image_store": "s3",
//	  "image_dir": "images",
//	  "s3_root_user": "admin",
//	  "s3_root_password": "secretpassword",
//	  "s3_bucket": "scanbiz",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000/",
//	  "results_dir": "results",
//	  "encrypt": true,
//	  "log_level": "debug"
//	}
//
// Note: This package does not read environment variables directly.
package config
