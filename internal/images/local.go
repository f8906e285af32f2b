package images

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/mikimauro/scanbiz/internal/filex"
)

// LocalStore keeps images on the local filesystem.
type LocalStore struct {
	dir string
	now func() time.Time
}

// NewLocalStore creates dir (relative to the working directory unless
// absolute) and stores images under it.
func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filex.EnsureSubDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalStore{dir: abs, now: time.Now}, nil
}

// Put writes data and returns a file:// reference to it.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := objectKey(s.now(), name)
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o770); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	if err := filex.WriteFileAtomic(path, data, 0o640); err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String(), nil
}
