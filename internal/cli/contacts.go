package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/mikimauro/scanbiz/internal/common"
	"github.com/mikimauro/scanbiz/internal/models"
	"github.com/mikimauro/scanbiz/internal/store"
)

// ListContacts prints active contacts, or archived / favorites ones.
func (a *App) ListContacts(ctx context.Context, filter string) error {
	f := store.Filter{}
	switch filter {
	case "archived":
		f.Archived = true
	case "favorites":
		f.FavoritesOnly = true
	}

	return a.printContacts(f)
}

// Find lists active contacts whose name, company or email contain query.
func (a *App) Find(ctx context.Context, query string) error {
	return a.printContacts(store.Filter{Query: query})
}

// Category lists active contacts of the named category, ignoring case.
func (a *App) Category(ctx context.Context, name string) error {
	return a.printContacts(store.Filter{Category: name})
}

func (a *App) printContacts(f store.Filter) error {
	contacts := a.store.ListContacts(f)
	if len(contacts) == 0 {
		fmt.Fprintln(a.out, "No contacts.")
		return nil
	}
	width := terminalWidth()
	for _, c := range contacts {
		renderContactLine(a.out, c, width)
	}
	return nil
}

// NewContact opens an empty draft and runs the edit form on it.
func (a *App) NewContact(ctx context.Context) error {
	if err := a.ctrl.NewContact(); err != nil {
		return err
	}
	return a.editForm(ctx)
}

// Open selects a contact in LIST or a document in DOC_LIST by id or by an
// unambiguous id prefix.
func (a *App) Open(ctx context.Context, id string) error {
	switch a.ctrl.View() {
	case models.ViewDocList:
		full, err := resolveID(id, documentIDs(a.store.Documents()))
		if err != nil {
			return err
		}
		if err := a.ctrl.SelectDocument(full); err != nil {
			return err
		}
	default:
		full, err := resolveID(id, contactIDs(a.store.Contacts()))
		if err != nil {
			return err
		}
		if err := a.ctrl.SelectContact(full); err != nil {
			return err
		}
	}
	return a.Show(ctx)
}

// Show prints the contact, draft or document of the current view.
func (a *App) Show(ctx context.Context) error {
	switch a.ctrl.View() {
	case models.ViewDetails:
		c, ok := a.ctrl.CurrentContact()
		if !ok {
			return fmt.Errorf("%w: contact is gone", common.ErrInvalidTransition)
		}
		renderContact(a.out, c)
	case models.ViewEdit:
		in, ok := a.ctrl.ContactInput()
		if !ok {
			return fmt.Errorf("%w: no draft", common.ErrInvalidTransition)
		}
		renderContactDraft(a.out, in.Draft())
	case models.ViewDocEdit:
		d, ok := a.ctrl.PendingDocument()
		if !ok {
			return fmt.Errorf("%w: no document", common.ErrInvalidTransition)
		}
		renderDocument(a.out, d)
	default:
		return fmt.Errorf("%w: nothing to show in %s", common.ErrInvalidTransition, a.ctrl.View())
	}
	return nil
}

// Edit opens the selected contact for editing (from DETAILS) or re-runs the
// form on the current draft (from EDIT).
func (a *App) Edit(ctx context.Context) error {
	if a.ctrl.View() == models.ViewDetails {
		if err := a.ctrl.EditContact(); err != nil {
			return err
		}
	}
	return a.editForm(ctx)
}

func (a *App) Favorite(ctx context.Context) error {
	if err := a.ctrl.ToggleFavorite(ctx); err != nil {
		return err
	}
	return a.Show(ctx)
}

// Archive toggles the archived flag: immediately for a contact, on the
// pending document (saved with it) in DOC_EDIT.
func (a *App) Archive(ctx context.Context) error {
	if a.ctrl.View() == models.ViewDocEdit {
		d, ok := a.ctrl.PendingDocument()
		if !ok {
			return fmt.Errorf("%w: no document", common.ErrInvalidTransition)
		}
		draft := d.Draft()
		draft.IsArchived = !draft.IsArchived
		if err := a.ctrl.UpdateDocument(draft); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Archived: %t (not saved yet)\n", draft.IsArchived)
		return nil
	}
	return a.ctrl.ToggleArchive(ctx)
}

func (a *App) Delete(ctx context.Context) error {
	if a.ctrl.View() == models.ViewDocEdit {
		return a.ctrl.DeleteDocument(ctx)
	}
	return a.ctrl.DeleteContact(ctx)
}

func (a *App) Back(ctx context.Context) error {
	return a.ctrl.Back()
}

// Save commits the draft of EDIT or DOC_EDIT.
func (a *App) Save(ctx context.Context) error {
	if a.ctrl.View() == models.ViewDocEdit {
		d, ok := a.ctrl.PendingDocument()
		if !ok {
			return fmt.Errorf("%w: no document", common.ErrInvalidTransition)
		}
		if err := a.ctrl.SaveDocument(ctx, d.Draft()); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Document saved.")
		return nil
	}

	in, ok := a.ctrl.ContactInput()
	if !ok {
		return fmt.Errorf("%w: no draft", common.ErrInvalidTransition)
	}
	if err := a.ctrl.SaveContact(ctx, in.Draft()); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Contact saved.")
	return nil
}

// Cancel leaves EDIT, SCAN or DOC_EDIT without saving.
func (a *App) Cancel(ctx context.Context) error {
	switch a.ctrl.View() {
	case models.ViewScan:
		return a.ctrl.CancelScan()
	case models.ViewDocEdit:
		return a.ctrl.CancelDocument()
	default:
		return a.ctrl.CancelEdit()
	}
}

// editForm prompts for every contact field, pre-filled with the current
// values, and stores the answers in the draft. Saving is a separate command.
func (a *App) editForm(ctx context.Context) error {
	in, ok := a.ctrl.ContactInput()
	if !ok {
		return fmt.Errorf("%w: no draft", common.ErrInvalidTransition)
	}
	d := in.Draft()

	fmt.Fprintln(a.out, "Enter a value, Enter to keep it, '-' to clear it.")
	for _, f := range contactFields {
		p := f.get(&d)
		v, err := GetFieldValue(a.reader, f.label, *p, a.out)
		if err != nil {
			// keep what was entered so far
			_ = a.ctrl.UpdateContact(d)
			return err
		}
		*p = v
	}
	if err := a.ctrl.UpdateContact(d); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Type 'save' to store the contact or 'cancel' to discard it.")
	return nil
}

func contactIDs(cs []models.Contact) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.Id
	}
	return ids
}

func documentIDs(ds []models.ScannedDocument) []string {
	ids := make([]string, len(ds))
	for i, d := range ds {
		ids[i] = d.Id
	}
	return ids
}

// resolveID returns the id equal to or uniquely prefixed by prefix.
func resolveID(prefix string, ids []string) (string, error) {
	var match string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("id %q is ambiguous", prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%s: %w", prefix, common.ErrorNotFound)
	}
	return match, nil
}
