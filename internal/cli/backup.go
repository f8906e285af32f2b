package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/mikimauro/scanbiz/internal/filex"
	"github.com/mikimauro/scanbiz/internal/persistence"
)

// Export writes both collections to a JSON backup file.
func (a *App) Export(ctx context.Context, path string) error {
	backup := a.store.Export()

	var buf bytes.Buffer
	if err := persistence.WriteBackup(&buf, backup); err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(path, buf.Bytes(), 0o600); err != nil {
		return err
	}
	a.logger.Info(ctx, "backup exported", "path", path, "contacts", len(backup.Contacts), "documents", len(backup.Documents))
	fmt.Fprintf(a.out, "Exported %d contacts and %d documents.\n", len(backup.Contacts), len(backup.Documents))
	return nil
}

// Import replaces both collections with a backup file after confirmation.
func (a *App) Import(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	backup, err := persistence.ReadBackup(f)
	if err != nil {
		return err
	}

	confirm := &terminalConfirmer{reader: a.reader, w: a.out}
	prompt := fmt.Sprintf("Replace all data with %d contacts and %d documents?", len(backup.Contacts), len(backup.Documents))
	if !confirm.Confirm(ctx, prompt) {
		return nil
	}
	if err := a.store.Import(ctx, backup); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Import done.")
	return nil
}
