package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mikimauro/scanbiz/internal/models"
)

// FileScanner replays a ScanResult saved as JSON. The request image is ignored.
type FileScanner struct {
	Path string
}

func (f FileScanner) Scan(_ context.Context, _ Request) (models.ScanResult, error) {
	return ReadResult(f.Path)
}

// ReadResult loads a ScanResult from a JSON file.
func ReadResult(path string) (models.ScanResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return models.ScanResult{}, fmt.Errorf("read %s: %w", path, err)
	}
	var r models.ScanResult
	if err := json.Unmarshal(b, &r); err != nil {
		return models.ScanResult{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return r, nil
}
