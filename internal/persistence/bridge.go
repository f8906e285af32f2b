// Package persistence mirrors the contact and document collections to the
// key-value store: one JSON blob per collection under a fixed key.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mikimauro/scanbiz/internal/kv"
	"github.com/mikimauro/scanbiz/internal/logging"
	"github.com/mikimauro/scanbiz/internal/models"
)

// Storage keys. The _v3 suffix matches the browser storage the data model
// originates from, so exported blobs stay interchangeable.
const (
	ContactsKey  = "scanbiz_contacts_v3"
	DocumentsKey = "scanbiz_docs_v3"
	SaltKey      = "scanbiz_salt"
)

// Bridge reads and writes the two collections.
type Bridge struct {
	repo   kv.Repository
	codec  Codec
	logger logging.Logger
}

type Option func(*Bridge)

// WithCodec replaces the default PlainCodec.
func WithCodec(c Codec) Option {
	return func(b *Bridge) { b.codec = c }
}

func NewBridge(repo kv.Repository, logger logging.Logger, opts ...Option) *Bridge {
	b := &Bridge{
		repo:   repo,
		codec:  PlainCodec{},
		logger: logger.With("module", "persistence"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// LoadContacts returns the stored contacts. Any failure is logged and yields an
// empty collection.
func (b *Bridge) LoadContacts(ctx context.Context) []models.Contact {
	return load[models.Contact](ctx, b, ContactsKey)
}

// LoadDocuments returns the stored documents. Any failure is logged and yields
// an empty collection.
func (b *Bridge) LoadDocuments(ctx context.Context) []models.ScannedDocument {
	return load[models.ScannedDocument](ctx, b, DocumentsKey)
}

// MirrorContacts replaces the stored contacts with items.
func (b *Bridge) MirrorContacts(ctx context.Context, items []models.Contact) error {
	return mirror(ctx, b.repo, b.codec, ContactsKey, items)
}

// MirrorDocuments replaces the stored documents with items.
func (b *Bridge) MirrorDocuments(ctx context.Context, items []models.ScannedDocument) error {
	return mirror(ctx, b.repo, b.codec, DocumentsKey, items)
}

// CheckCodec reports whether every stored collection can be decoded with the
// bridge's codec. Loading treats an undecodable blob as empty, so callers
// check first to avoid overwriting data sealed under another passphrase.
func (b *Bridge) CheckCodec(ctx context.Context) error {
	for _, key := range []string{ContactsKey, DocumentsKey} {
		raw, err := b.repo.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}
		if raw == nil {
			continue
		}
		if _, err := b.codec.Decode(raw); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
	}
	return nil
}

func load[T any](ctx context.Context, b *Bridge, key string) []T {
	empty := []T{}

	raw, err := b.repo.Get(ctx, key)
	if err != nil {
		b.logger.Error(ctx, "storage read failed", "key", key, "error", err)
		return empty
	}
	if raw == nil {
		b.logger.Debug(ctx, "nothing stored yet", "key", key)
		return empty
	}

	plain, err := b.codec.Decode(raw)
	if err != nil {
		b.logger.Error(ctx, "storage decode failed", "key", key, "error", err)
		return empty
	}

	var items []T
	if err := json.Unmarshal(plain, &items); err != nil {
		b.logger.Error(ctx, "storage parse failed", "key", key, "error", err)
		return empty
	}
	if items == nil {
		return empty
	}
	return items
}

func mirror[T any](ctx context.Context, repo kv.Repository, codec Codec, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	plain, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	blob, err := codec.Encode(plain)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := repo.Set(ctx, key, blob); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
