// Package scanner talks to the scan capability: the service that turns a
// captured image into extracted text or contact fields.
package scanner

import (
	"context"
	"errors"

	"github.com/mikimauro/scanbiz/internal/models"
)

var (
	ErrUnavailable  = errors.New("scan service unavailable")
	ErrUnauthorized = errors.New("scan service rejected credentials")
)

// Request is one capture sent for extraction.
type Request struct {
	Mode        models.ScanMode
	Image       []byte
	ContentType string
}

type Scanner interface {
	Scan(ctx context.Context, req Request) (models.ScanResult, error)
}
