// Package images stores captured page images and hands back the reference
// saved in a contact's avatar or a document's pages.
package images

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Store interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// objectKey returns a unique key for an upload named name, bucketed by day.
// Only the extension of name is kept.
func objectKey(now time.Time, name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return fmt.Sprintf("pages/%d/%02d/%02d/%v%s", now.Year(), now.Month(), now.Day(), uuid.New(), ext)
}

// ContentType guesses the MIME type of an image from its file name.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
