package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mikimauro/scanbiz/internal/kv"
	"github.com/mikimauro/scanbiz/internal/models"
)

// BackupVersion is written into every exported backup.
const BackupVersion = 1

// Backup is a portable snapshot of both collections.
type Backup struct {
	Version    int                      `json:"version"`
	ExportedAt int64                    `json:"exportedAt"`
	Contacts   []models.Contact         `json:"contacts"`
	Documents  []models.ScannedDocument `json:"documents"`
}

// WriteBackup encodes b as indented JSON.
func WriteBackup(w io.Writer, b Backup) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// ReadBackup decodes a backup written by WriteBackup.
func ReadBackup(r io.Reader) (Backup, error) {
	var b Backup
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return Backup{}, fmt.Errorf("decode backup: %w", err)
	}
	if b.Version != BackupVersion {
		return Backup{}, fmt.Errorf("unsupported backup version %d", b.Version)
	}
	if b.Contacts == nil {
		b.Contacts = []models.Contact{}
	}
	if b.Documents == nil {
		b.Documents = []models.ScannedDocument{}
	}
	return b, nil
}

// Restore writes both collections of b. When the repository supports
// transactions both keys are replaced together.
func (b *Bridge) Restore(ctx context.Context, backup Backup) error {
	write := func(ctx context.Context, repo kv.Repository) error {
		if err := mirror(ctx, repo, b.codec, ContactsKey, backup.Contacts); err != nil {
			return err
		}
		return mirror(ctx, repo, b.codec, DocumentsKey, backup.Documents)
	}

	if tx, ok := b.repo.(kv.Transactor); ok {
		return tx.WithTx(ctx, write)
	}
	return write(ctx, b.repo)
}
