package view

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mikimauro/scanbiz/internal/common"
	"github.com/mikimauro/scanbiz/internal/kv"
	"github.com/mikimauro/scanbiz/internal/logging"
	"github.com/mikimauro/scanbiz/internal/models"
	"github.com/mikimauro/scanbiz/internal/persistence"
	"github.com/mikimauro/scanbiz/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (f *fakeConfirmer) Confirm(_ context.Context, prompt string) bool {
	f.prompts = append(f.prompts, prompt)
	return f.answer
}

var now = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

func newController(t *testing.T, answer bool) (*Controller, *store.Store, *fakeConfirmer) {
	t.Helper()
	n := 0
	ids := func() string { n++; return fmt.Sprintf("id-%d", n) }
	clock := func() time.Time { return now }

	st := store.New(persistence.NewBridge(kv.NewMemoryRepository(), logging.Nop{}), logging.Nop{},
		store.WithClock(clock), store.WithIDGenerator(ids))
	confirm := &fakeConfirmer{answer: answer}
	c := NewController(st, confirm, logging.Nop{}, WithClock(clock), WithIDGenerator(ids))
	return c, st, confirm
}

func TestController_StartsInList(t *testing.T) {
	c, _, _ := newController(t, true)
	require.Equal(t, models.ViewList, c.View())
	_, ok := c.CurrentContact()
	require.False(t, ok)
}

func TestController_NewContactSaveAndCancel(t *testing.T) {
	ctx := context.Background()
	c, st, _ := newController(t, true)

	require.NoError(t, c.NewContact())
	require.Equal(t, models.ViewEdit, c.View())
	in, ok := c.ContactInput()
	require.True(t, ok)
	require.True(t, in.IsNew())
	require.Equal(t, models.ContactDraft{Category: "Altro"}, in.Draft())

	require.NoError(t, c.SaveContact(ctx, models.ContactDraft{FirstName: "A", LastName: "B", Category: "Altro"}))
	require.Equal(t, models.ViewList, c.View())
	require.Len(t, st.Contacts(), 1)
	require.Equal(t, "A", st.Contacts()[0].FirstName)

	require.NoError(t, c.NewContact())
	require.NoError(t, c.CancelEdit())
	require.Equal(t, models.ViewList, c.View())
	require.Len(t, st.Contacts(), 1)
}

func TestController_InvalidTransitionsChangeNothing(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newController(t, true)

	cases := map[string]func() error{
		"cancel scan":     c.CancelScan,
		"cancel edit":     c.CancelEdit,
		"back":            c.Back,
		"edit contact":    c.EditContact,
		"cancel document": c.CancelDocument,
		"delete document": func() error { return c.DeleteDocument(ctx) },
		"delete contact":  func() error { return c.DeleteContact(ctx) },
		"toggle favorite": func() error { return c.ToggleFavorite(ctx) },
		"save contact":    func() error { return c.SaveContact(ctx, models.ContactDraft{}) },
		"complete scan":   func() error { return c.CompleteScan(ctx, models.ScanResult{}) },
		"select document": func() error { return c.SelectDocument("x") },
	}
	for name, cmd := range cases {
		t.Run(name, func(t *testing.T) {
			err := cmd()
			require.ErrorIs(t, err, common.ErrInvalidTransition)
			require.Equal(t, models.ViewList, c.View())
		})
	}

	require.NoError(t, c.OpenDocuments())
	require.ErrorIs(t, c.NewContact(), common.ErrInvalidTransition)
	require.Equal(t, models.ViewDocList, c.View())
}

func TestController_ScanToDocumentAndBack(t *testing.T) {
	ctx := context.Background()
	c, st, _ := newController(t, true)

	require.ErrorIs(t, c.OpenScanner("PHOTO"), ErrInvalidScanMode)
	require.Equal(t, models.ViewList, c.View())

	require.NoError(t, c.OpenScanner(models.ScanModeText))
	require.Equal(t, models.ViewScan, c.View())
	require.Equal(t, models.ScanModeText, c.ScanMode())

	require.NoError(t, c.CompleteScan(ctx, models.ScanResult{IsDoc: true, Data: models.TextPayload("hello"), ImageURL: "img1"}))
	require.Equal(t, models.ViewDocEdit, c.View())

	doc, ok := c.PendingDocument()
	require.True(t, ok)
	assert.Equal(t, "hello", doc.Content)
	assert.Equal(t, []string{"img1"}, doc.Pages)
	assert.Equal(t, "Documento 19/10/2026 08:00", doc.Title)

	require.NoError(t, c.SaveDocument(ctx, models.DocumentDraft{Title: "Fattura", Content: doc.Content, Pages: doc.Pages}))
	require.Equal(t, models.ViewDocList, c.View())

	docs := st.Documents()
	require.Len(t, docs, 1)
	require.Equal(t, doc.Id, docs[0].Id)
	require.Equal(t, "Fattura", docs[0].Title)
	require.Equal(t, now.UnixMilli(), docs[0].CreatedAt)

	require.NoError(t, c.SelectDocument(doc.Id))
	require.NoError(t, c.SaveDocument(ctx, models.DocumentDraft{Title: "Fattura 2", Pages: doc.Pages}))
	require.Len(t, st.Documents(), 1)

	require.NoError(t, c.Back())
	require.Equal(t, models.ViewList, c.View())
}

func TestController_ScanToContact(t *testing.T) {
	ctx := context.Background()
	c, st, _ := newController(t, true)

	require.NoError(t, c.OpenScanner(models.ScanModeCard))
	require.NoError(t, c.CompleteScan(ctx, models.ScanResult{
		Data:     []byte(`{"firstName":"Mario","company":"ACME"}`),
		ImageURL: "card.jpg",
	}))
	require.Equal(t, models.ViewEdit, c.View())

	in, ok := c.ContactInput()
	require.True(t, ok)
	require.Equal(t, "card.jpg", in.Draft().AvatarURL)

	require.NoError(t, c.SaveContact(ctx, in.Draft()))
	require.Equal(t, "ACME", st.Contacts()[0].Company)
}

func TestController_CancelScan(t *testing.T) {
	c, _, _ := newController(t, true)
	require.NoError(t, c.OpenScanner(models.ScanModeCard))
	require.NoError(t, c.CancelScan())
	require.Equal(t, models.ViewList, c.View())
}

func seedContact(t *testing.T, c *Controller) string {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.NewContact())
	require.NoError(t, c.SaveContact(ctx, models.ContactDraft{FirstName: "Anna", LastName: "Bianchi", Category: "Altro"}))
	return "id-1"
}

func TestController_DetailsDerivesContactFromStore(t *testing.T) {
	ctx := context.Background()
	c, st, _ := newController(t, true)
	id := seedContact(t, c)

	require.ErrorIs(t, c.SelectContact("missing"), common.ErrorNotFound)
	require.Equal(t, models.ViewList, c.View())

	require.NoError(t, c.SelectContact(id))
	require.Equal(t, models.ViewDetails, c.View())

	require.NoError(t, c.ToggleFavorite(ctx))
	require.Equal(t, models.ViewDetails, c.View())
	current, ok := c.CurrentContact()
	require.True(t, ok)
	require.True(t, current.IsFavorite, "details must show the updated contact")

	// removed behind the controller's back
	require.NoError(t, st.DeleteContact(ctx, id))
	_, ok = c.CurrentContact()
	require.False(t, ok)
	require.ErrorIs(t, c.EditContact(), common.ErrInvalidTransition)
	require.Equal(t, models.ViewDetails, c.View())
}

func TestController_EditExistingContact(t *testing.T) {
	ctx := context.Background()
	c, st, _ := newController(t, true)
	id := seedContact(t, c)
	before, _ := st.Contact(id)

	require.NoError(t, c.SelectContact(id))
	require.NoError(t, c.EditContact())
	in, ok := c.ContactInput()
	require.True(t, ok)
	require.False(t, in.IsNew())

	d := in.Draft()
	d.Company = "ACME"
	require.NoError(t, c.SaveContact(ctx, d))

	after, ok := st.Contact(id)
	require.True(t, ok)
	require.Equal(t, "ACME", after.Company)
	require.Equal(t, before.CreatedAt, after.CreatedAt)
	require.Len(t, st.Contacts(), 1)
}

func TestController_SaveEditedContactThatWasDeleted(t *testing.T) {
	ctx := context.Background()
	c, st, _ := newController(t, true)
	id := seedContact(t, c)

	require.NoError(t, c.SelectContact(id))
	require.NoError(t, c.EditContact())
	require.NoError(t, st.DeleteContact(ctx, id))

	err := c.SaveContact(ctx, models.ContactDraft{FirstName: "X"})
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.Equal(t, models.ViewEdit, c.View())
	require.Empty(t, st.Contacts())
}

func TestController_ArchiveReturnsToList(t *testing.T) {
	ctx := context.Background()
	c, st, _ := newController(t, true)
	id := seedContact(t, c)

	require.NoError(t, c.SelectContact(id))
	require.NoError(t, c.ToggleArchive(ctx))
	require.Equal(t, models.ViewList, c.View())

	got, _ := st.Contact(id)
	require.True(t, got.IsArchived)
}

func TestController_DeleteContactConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("rejected", func(t *testing.T) {
		c, st, confirm := newController(t, false)
		id := seedContact(t, c)
		require.NoError(t, c.SelectContact(id))

		require.NoError(t, c.DeleteContact(ctx))
		require.Equal(t, models.ViewDetails, c.View())
		require.Len(t, st.Contacts(), 1)
		require.Len(t, confirm.prompts, 1)
		require.Contains(t, confirm.prompts[0], "Anna Bianchi")
	})

	t.Run("accepted", func(t *testing.T) {
		c, st, _ := newController(t, true)
		id := seedContact(t, c)
		require.NoError(t, c.SelectContact(id))

		require.NoError(t, c.DeleteContact(ctx))
		require.Equal(t, models.ViewList, c.View())
		require.Empty(t, st.Contacts())
	})
}

func TestController_DeleteDocumentConfirmation(t *testing.T) {
	ctx := context.Background()

	open := func(t *testing.T, c *Controller, st *store.Store) {
		t.Helper()
		_, err := st.SaveDocument(ctx, models.ScannedDocument{Id: "d1", Title: "Contratto"})
		require.NoError(t, err)
		require.NoError(t, c.OpenDocuments())
		require.NoError(t, c.SelectDocument("d1"))
	}

	t.Run("rejected", func(t *testing.T) {
		c, st, _ := newController(t, false)
		open(t, c, st)
		before := st.Documents()

		require.NoError(t, c.DeleteDocument(ctx))
		require.Equal(t, models.ViewDocEdit, c.View())
		require.Equal(t, before, st.Documents())
	})

	t.Run("accepted", func(t *testing.T) {
		c, st, _ := newController(t, true)
		open(t, c, st)

		require.NoError(t, c.DeleteDocument(ctx))
		require.Equal(t, models.ViewDocList, c.View())
		require.Empty(t, st.Documents())
	})
}

func TestController_ConfirmFunc(t *testing.T) {
	var got string
	f := ConfirmFunc(func(_ context.Context, prompt string) bool {
		got = prompt
		return true
	})
	require.True(t, f.Confirm(context.Background(), "ok?"))
	require.Equal(t, "ok?", got)
}

func TestController_UpdateDraftsWithoutSaving(t *testing.T) {
	ctx := context.Background()
	c, st, _ := newController(t, true)

	require.ErrorIs(t, c.UpdateContact(models.ContactDraft{}), common.ErrInvalidTransition)
	require.ErrorIs(t, c.UpdateDocument(models.DocumentDraft{}), common.ErrInvalidTransition)

	require.NoError(t, c.NewContact())
	require.NoError(t, c.UpdateContact(models.ContactDraft{FirstName: "Draft"}))
	in, _ := c.ContactInput()
	require.Equal(t, "Draft", in.Draft().FirstName)
	require.Empty(t, st.Contacts())
	require.NoError(t, c.CancelEdit())

	require.NoError(t, c.OpenScanner(models.ScanModeText))
	require.NoError(t, c.CompleteScan(ctx, models.ScanResult{IsDoc: true, ImageURL: "p"}))
	before, _ := c.PendingDocument()

	d := before.Draft()
	d.Title = "Renamed"
	require.NoError(t, c.UpdateDocument(d))
	after, _ := c.PendingDocument()
	require.Equal(t, "Renamed", after.Title)
	require.Equal(t, before.Id, after.Id)
	require.Equal(t, before.CreatedAt, after.CreatedAt)
	require.Empty(t, st.Documents())
}
