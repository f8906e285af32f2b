package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"scanner_endpoint_addr": "ocr.example:9000",
		"scanner_timeout":       "10s",
		"encrypt":               true,
		"s3_bucket":             "cards",
	})

	t.Run("loads from flags", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-config", pathFlag})

		assert.Equal(t, "ocr.example:9000", cfg.ScannerEndpointAddr)
		assert.Equal(t, 10*time.Second, cfg.ScannerTimeout)
		assert.True(t, cfg.Encrypt)
		assert.Equal(t, "cards", cfg.S3Bucket)
		assert.Equal(t, "scanbiz.db", cfg.DatabaseDSN, "absent keys keep defaults")
	})

	t.Run("explicit zero values apply", func(t *testing.T) {
		p := writeTempJSON(t, dir, "zero.json", map[string]any{"encrypt": false, "image_dir": ""})
		cfg := &Config{Encrypt: true, ImageDir: "images"}
		parseJson(cfg, []string{"-c", p})

		assert.False(t, cfg.Encrypt)
		assert.Empty(t, cfg.ImageDir)
	})

	t.Run("no flags → no changes", func(t *testing.T) {
		cfg := &Config{
			ScannerEndpointAddr: "defaults:1234",
			ScannerTimeout:      42 * time.Second,
		}
		parseJson(cfg, []string{"-d", "x.db"})

		assert.Equal(t, "defaults:1234", cfg.ScannerEndpointAddr)
		assert.Equal(t, 42*time.Second, cfg.ScannerTimeout)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg, []string{"-c", bad}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg, []string{"-c", filepath.Join(dir, "nope.json")}) })
	})
}
