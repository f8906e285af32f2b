// Package view implements the screen state machine. The controller owns the
// active view, the draft being edited, and the selected entity; the entities
// themselves live in the store.
package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mikimauro/scanbiz/internal/common"
	"github.com/mikimauro/scanbiz/internal/intake"
	"github.com/mikimauro/scanbiz/internal/logging"
	"github.com/mikimauro/scanbiz/internal/models"
)

// ErrInvalidScanMode is returned by OpenScanner for an unknown mode.
var ErrInvalidScanMode = errors.New("invalid scan mode")

// Collections is the part of the store the controller mutates.
type Collections interface {
	Contact(id string) (models.Contact, bool)
	Document(id string) (models.ScannedDocument, bool)
	SaveContact(ctx context.Context, in models.ContactInput) (models.Contact, error)
	SaveDocument(ctx context.Context, doc models.ScannedDocument) (models.ScannedDocument, error)
	ToggleFavorite(ctx context.Context, id string) (models.Contact, error)
	ToggleArchive(ctx context.Context, id string) (models.Contact, error)
	DeleteContact(ctx context.Context, id string) error
	DeleteDocument(ctx context.Context, id string) error
}

// Confirmer gates destructive commands.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

type Controller struct {
	view models.View

	scanMode   models.ScanMode
	selectedID string
	contact    *models.ContactInput
	document   *models.ScannedDocument

	store   Collections
	confirm Confirmer
	logger  logging.Logger
	now     func() time.Time
	newID   func() string
}

type Option func(*Controller)

// WithClock overrides time.Now for intake.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator overrides uuid.NewString for intake document ids.
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// NewController starts in the LIST view.
func NewController(store Collections, confirm Confirmer, logger logging.Logger, opts ...Option) *Controller {
	c := &Controller{
		view:    models.ViewList,
		store:   store,
		confirm: confirm,
		logger:  logger.With("module", "view"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// View returns the active view.
func (c *Controller) View() models.View { return c.view }

// ScanMode returns the mode the scanner was opened with.
func (c *Controller) ScanMode() models.ScanMode { return c.scanMode }

// CurrentContact returns the contact shown by the DETAILS view, looked up in
// the store by the selected id.
func (c *Controller) CurrentContact() (models.Contact, bool) {
	if c.view != models.ViewDetails || c.selectedID == "" {
		return models.Contact{}, false
	}
	return c.store.Contact(c.selectedID)
}

// ContactInput returns what the EDIT view is editing.
func (c *Controller) ContactInput() (models.ContactInput, bool) {
	if c.view != models.ViewEdit || c.contact == nil {
		return models.ContactInput{}, false
	}
	return *c.contact, true
}

// PendingDocument returns what the DOC_EDIT view is editing.
func (c *Controller) PendingDocument() (models.ScannedDocument, bool) {
	if c.view != models.ViewDocEdit || c.document == nil {
		return models.ScannedDocument{}, false
	}
	return c.document.Clone(), true
}

func (c *Controller) OpenScanner(mode models.ScanMode) error {
	if err := c.require("open scanner", models.ViewList); err != nil {
		return err
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidScanMode, mode)
	}
	c.scanMode = mode
	c.enter(models.ViewScan)
	return nil
}

// NewContact opens an empty draft in the EDIT view.
func (c *Controller) NewContact() error {
	if err := c.require("new contact", models.ViewList); err != nil {
		return err
	}
	in := models.NewContactInput(models.ContactDraft{Category: common.DefaultCategory})
	c.contact = &in
	c.enter(models.ViewEdit)
	return nil
}

func (c *Controller) OpenDocuments() error {
	if err := c.require("open documents", models.ViewList); err != nil {
		return err
	}
	c.enter(models.ViewDocList)
	return nil
}

// SelectContact shows the contact with id. An unknown id returns
// common.ErrorNotFound and leaves the LIST view active.
func (c *Controller) SelectContact(id string) error {
	if err := c.require("select contact", models.ViewList); err != nil {
		return err
	}
	if _, ok := c.store.Contact(id); !ok {
		return fmt.Errorf("contact %s: %w", id, common.ErrorNotFound)
	}
	c.selectedID = id
	c.enter(models.ViewDetails)
	return nil
}

// CompleteScan routes a capture through intake into EDIT or DOC_EDIT.
func (c *Controller) CompleteScan(ctx context.Context, result models.ScanResult) error {
	if err := c.require("complete scan", models.ViewScan); err != nil {
		return err
	}
	out := intake.Intake(result, c.now(), c.newID)
	c.logger.Debug(ctx, "scan intake", "kind", out.Kind().String(), "mode", string(c.scanMode))

	if doc, ok := out.Document(); ok {
		c.document = &doc
		c.enter(models.ViewDocEdit)
		return nil
	}
	draft, _ := out.Contact()
	in := models.NewContactInput(draft)
	c.contact = &in
	c.enter(models.ViewEdit)
	return nil
}

func (c *Controller) CancelScan() error {
	if err := c.require("cancel scan", models.ViewScan); err != nil {
		return err
	}
	c.enter(models.ViewList)
	return nil
}

// SaveContact commits draft through the store and returns to LIST. If the
// edited contact no longer exists the EDIT view stays active. A storage
// failure is returned after the transition since the store keeps the change.
func (c *Controller) SaveContact(ctx context.Context, draft models.ContactDraft) error {
	if err := c.require("save contact", models.ViewEdit); err != nil {
		return err
	}
	if c.contact == nil {
		return fmt.Errorf("%w: no draft to save", common.ErrInvalidTransition)
	}
	in := c.contact.WithDraft(draft)
	c.contact = &in

	saved, err := c.store.SaveContact(ctx, in)
	if errors.Is(err, common.ErrorNotFound) {
		return err
	}
	c.logger.Info(ctx, "contact saved", "id", saved.Id, "new", in.IsNew())
	c.enter(models.ViewList)
	return err
}

// UpdateContact replaces the fields of the draft being edited without saving.
func (c *Controller) UpdateContact(draft models.ContactDraft) error {
	if err := c.require("update contact", models.ViewEdit); err != nil {
		return err
	}
	if c.contact == nil {
		return fmt.Errorf("%w: no draft to update", common.ErrInvalidTransition)
	}
	in := c.contact.WithDraft(draft)
	c.contact = &in
	return nil
}

func (c *Controller) CancelEdit() error {
	if err := c.require("cancel edit", models.ViewEdit); err != nil {
		return err
	}
	c.enter(models.ViewList)
	return nil
}

// SelectDocument opens a stored document in DOC_EDIT.
func (c *Controller) SelectDocument(id string) error {
	if err := c.require("select document", models.ViewDocList); err != nil {
		return err
	}
	doc, ok := c.store.Document(id)
	if !ok {
		return fmt.Errorf("document %s: %w", id, common.ErrorNotFound)
	}
	c.document = &doc
	c.enter(models.ViewDocEdit)
	return nil
}

// Back returns to LIST from DOC_LIST or DETAILS.
func (c *Controller) Back() error {
	if err := c.require("back", models.ViewDocList, models.ViewDetails); err != nil {
		return err
	}
	c.enter(models.ViewList)
	return nil
}

// SaveDocument applies draft to the pending document, keeping its identity,
// saves it and returns to DOC_LIST.
func (c *Controller) SaveDocument(ctx context.Context, draft models.DocumentDraft) error {
	if err := c.require("save document", models.ViewDocEdit); err != nil {
		return err
	}
	if c.document == nil {
		return fmt.Errorf("%w: no document to save", common.ErrInvalidTransition)
	}
	doc := draft.Commit(c.document.Id, c.document.CreatedAt)

	saved, err := c.store.SaveDocument(ctx, doc)
	c.logger.Info(ctx, "document saved", "id", saved.Id)
	c.enter(models.ViewDocList)
	return err
}

// UpdateDocument replaces the fields of the pending document without saving.
func (c *Controller) UpdateDocument(draft models.DocumentDraft) error {
	if err := c.require("update document", models.ViewDocEdit); err != nil {
		return err
	}
	if c.document == nil {
		return fmt.Errorf("%w: no document to update", common.ErrInvalidTransition)
	}
	doc := draft.Commit(c.document.Id, c.document.CreatedAt)
	c.document = &doc
	return nil
}

func (c *Controller) CancelDocument() error {
	if err := c.require("cancel document", models.ViewDocEdit); err != nil {
		return err
	}
	c.enter(models.ViewDocList)
	return nil
}

// DeleteDocument removes the pending document after confirmation. A refusal
// changes nothing.
func (c *Controller) DeleteDocument(ctx context.Context) error {
	if err := c.require("delete document", models.ViewDocEdit); err != nil {
		return err
	}
	if c.document == nil {
		return fmt.Errorf("%w: no document to delete", common.ErrInvalidTransition)
	}
	if !c.confirm.Confirm(ctx, fmt.Sprintf("Delete document %q?", c.document.Title)) {
		return nil
	}
	err := c.store.DeleteDocument(ctx, c.document.Id)
	c.enter(models.ViewDocList)
	return err
}

// DeleteContact removes the selected contact after confirmation. A refusal
// changes nothing.
func (c *Controller) DeleteContact(ctx context.Context) error {
	current, err := c.current("delete contact")
	if err != nil {
		return err
	}
	if !c.confirm.Confirm(ctx, fmt.Sprintf("Delete contact %s?", current.FullName())) {
		return nil
	}
	err = c.store.DeleteContact(ctx, current.Id)
	c.enter(models.ViewList)
	return err
}

// ToggleArchive flips the selected contact's archived flag and returns to LIST.
func (c *Controller) ToggleArchive(ctx context.Context) error {
	current, err := c.current("toggle archive")
	if err != nil {
		return err
	}
	_, err = c.store.ToggleArchive(ctx, current.Id)
	c.enter(models.ViewList)
	return err
}

// ToggleFavorite flips the selected contact's favorite flag; DETAILS stays
// active and shows the updated contact.
func (c *Controller) ToggleFavorite(ctx context.Context) error {
	current, err := c.current("toggle favorite")
	if err != nil {
		return err
	}
	_, err = c.store.ToggleFavorite(ctx, current.Id)
	return err
}

// EditContact opens the selected contact in EDIT.
func (c *Controller) EditContact() error {
	current, err := c.current("edit contact")
	if err != nil {
		return err
	}
	in := models.SavedContactInput(current)
	c.contact = &in
	c.enter(models.ViewEdit)
	return nil
}

func (c *Controller) current(cmd string) (models.Contact, error) {
	if err := c.require(cmd, models.ViewDetails); err != nil {
		return models.Contact{}, err
	}
	current, ok := c.CurrentContact()
	if !ok {
		return models.Contact{}, fmt.Errorf("%w: %s: contact %s is gone", common.ErrInvalidTransition, cmd, c.selectedID)
	}
	return current, nil
}

func (c *Controller) require(cmd string, allowed ...models.View) error {
	for _, v := range allowed {
		if c.view == v {
			return nil
		}
	}
	return fmt.Errorf("%w: %s from %s", common.ErrInvalidTransition, cmd, c.view)
}

// enter switches view and drops state the new view does not use.
func (c *Controller) enter(v models.View) {
	switch v {
	case models.ViewList:
		c.selectedID = ""
		c.contact = nil
		c.document = nil
	case models.ViewDocList:
		c.document = nil
	case models.ViewEdit:
		c.document = nil
	case models.ViewDocEdit:
		c.contact = nil
	}
	c.view = v
}
