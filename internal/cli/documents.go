package cli

import (
	"context"
	"fmt"

	"github.com/mikimauro/scanbiz/internal/common"
)

// Documents switches to the document list and prints it.
func (a *App) Documents(ctx context.Context) error {
	if err := a.ctrl.OpenDocuments(); err != nil {
		return err
	}
	return a.ListDocuments(ctx)
}

func (a *App) ListDocuments(ctx context.Context) error {
	docs := a.store.ListDocuments(false)
	archived := len(a.store.ListDocuments(true))

	if len(docs) == 0 {
		fmt.Fprintln(a.out, "No documents.")
	}
	width := terminalWidth()
	for _, d := range docs {
		renderDocumentLine(a.out, d, width)
	}
	if archived > 0 {
		fmt.Fprintf(a.out, "(%d archived, type 'archived' to list them)\n", archived)
	}
	return nil
}

// ListArchivedDocuments prints the archived documents with their ids.
func (a *App) ListArchivedDocuments(ctx context.Context) error {
	docs := a.store.ListDocuments(true)
	if len(docs) == 0 {
		fmt.Fprintln(a.out, "No archived documents.")
		return nil
	}
	width := terminalWidth()
	for _, d := range docs {
		renderDocumentLine(a.out, d, width)
	}
	return nil
}

// ArchiveDocument flips the archived flag of a listed document by id prefix.
func (a *App) ArchiveDocument(ctx context.Context, id string) error {
	full, err := resolveID(id, documentIDs(a.store.Documents()))
	if err != nil {
		return err
	}
	doc, err := a.store.ToggleDocumentArchive(ctx, full)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s archived: %t\n", doc.Title, doc.IsArchived)
	return nil
}

// Title asks for a new title of the pending document.
func (a *App) Title(ctx context.Context) error {
	d, ok := a.ctrl.PendingDocument()
	if !ok {
		return fmt.Errorf("%w: no document", common.ErrInvalidTransition)
	}
	draft := d.Draft()
	title, err := GetFieldValue(a.reader, "Title", draft.Title, a.out)
	if err != nil {
		return err
	}
	draft.Title = title
	return a.ctrl.UpdateDocument(draft)
}

// Text replaces the content of the pending document.
func (a *App) Text(ctx context.Context) error {
	d, ok := a.ctrl.PendingDocument()
	if !ok {
		return fmt.Errorf("%w: no document", common.ErrInvalidTransition)
	}
	draft := d.Draft()
	text, err := GetMultiline(a.reader, "Enter the document text", a.out)
	if err != nil {
		return err
	}
	draft.Content = text
	return a.ctrl.UpdateDocument(draft)
}
