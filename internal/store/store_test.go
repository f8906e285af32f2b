package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mikimauro/scanbiz/internal/common"
	"github.com/mikimauro/scanbiz/internal/kv"
	"github.com/mikimauro/scanbiz/internal/logging"
	"github.com/mikimauro/scanbiz/internal/models"
	"github.com/mikimauro/scanbiz/internal/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *kv.MemoryRepository) {
	t.Helper()
	repo := kv.NewMemoryRepository()
	bridge := persistence.NewBridge(repo, logging.Nop{})
	n := 0
	s := New(bridge, logging.Nop{},
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
	return s, repo
}

func storedContacts(t *testing.T, repo *kv.MemoryRepository) []models.Contact {
	t.Helper()
	raw, err := repo.Get(context.Background(), persistence.ContactsKey)
	require.NoError(t, err)
	var out []models.Contact
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func storedDocuments(t *testing.T, repo *kv.MemoryRepository) []models.ScannedDocument {
	t.Helper()
	raw, err := repo.Get(context.Background(), persistence.DocumentsKey)
	require.NoError(t, err)
	var out []models.ScannedDocument
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func ids(cs []models.Contact) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Id
	}
	return out
}

func TestSaveContact_NewDraftIsPrependedWithIdentity(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()

	_, err := s.SaveContact(ctx, models.NewContactInput(models.ContactDraft{FirstName: "Z"}))
	require.NoError(t, err)

	saved, err := s.SaveContact(ctx, models.NewContactInput(models.ContactDraft{
		FirstName: "A", LastName: "B", Category: "Altro",
	}))
	require.NoError(t, err)

	first := s.Contacts()[0]
	require.Equal(t, saved, first)
	assert.Equal(t, "id-2", first.Id)
	assert.Equal(t, fixedNow.UnixMilli(), first.CreatedAt)
	assert.Equal(t, "A", first.FirstName)
	assert.Equal(t, "B", first.LastName)
	assert.Equal(t, "Altro", first.Category)

	require.Equal(t, s.Contacts(), storedContacts(t, repo))
}

func TestSaveContact_NewIdsAlwaysPrepend(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.SaveContact(ctx, models.NewContactInput(models.ContactDraft{FirstName: fmt.Sprint(i)}))
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("id-%d", i+1), s.Contacts()[0].Id)
	}
	require.Equal(t, []string{"id-5", "id-4", "id-3", "id-2", "id-1"}, ids(s.Contacts()))
}

func TestSaveContact_UpdateKeepsLengthAndOrder(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.SaveContact(ctx, models.NewContactInput(models.ContactDraft{FirstName: fmt.Sprint(i)}))
		require.NoError(t, err)
	}
	before := s.Contacts()

	middle := before[1]
	edited := middle.Draft()
	edited.Company = "ACME"
	edited.FirstName = "Renamed"

	// a tampered CreatedAt on the edit must not leak into storage
	tampered := middle
	tampered.CreatedAt = 1
	updated, err := s.SaveContact(ctx, models.SavedContactInput(tampered).WithDraft(edited))
	require.NoError(t, err)

	after := s.Contacts()
	require.Len(t, after, 3)
	require.Equal(t, ids(before), ids(after))
	require.Equal(t, "ACME", after[1].Company)
	require.Equal(t, middle.CreatedAt, updated.CreatedAt)
	require.Equal(t, before[0], after[0])
	require.Equal(t, before[2], after[2])
	require.Equal(t, after, storedContacts(t, repo))
}

func TestSaveContact_UnknownSavedIdIsNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.SaveContact(context.Background(), models.SavedContactInput(models.Contact{Id: "ghost"}))
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.Empty(t, s.Contacts())
}

func TestToggles_FlipOnlyTargetField(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	c, err := s.SaveContact(ctx, models.NewContactInput(models.ContactDraft{
		FirstName: "A", Email: "a@b.it", Notes: "n",
	}))
	require.NoError(t, err)

	fav, err := s.ToggleFavorite(ctx, c.Id)
	require.NoError(t, err)
	want := c
	want.IsFavorite = true
	if diff := cmp.Diff(want, fav); diff != "" {
		t.Fatalf("favorite toggle changed more than the flag (-want +got):\n%s", diff)
	}

	arch, err := s.ToggleArchive(ctx, c.Id)
	require.NoError(t, err)
	want.IsArchived = true
	if diff := cmp.Diff(want, arch); diff != "" {
		t.Fatalf("archive toggle changed more than the flag (-want +got):\n%s", diff)
	}

	back, err := s.ToggleFavorite(ctx, c.Id)
	require.NoError(t, err)
	require.False(t, back.IsFavorite)
	require.True(t, back.IsArchived)

	got, ok := s.Contact(c.Id)
	require.True(t, ok)
	require.Equal(t, back, got)
	require.Equal(t, s.Contacts(), storedContacts(t, repo))

	_, err = s.ToggleArchive(ctx, "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteContact_RemovesExactlyOne(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.SaveContact(ctx, models.NewContactInput(models.ContactDraft{}))
		require.NoError(t, err)
	}

	require.NoError(t, s.DeleteContact(ctx, "id-2"))
	require.Equal(t, []string{"id-3", "id-1"}, ids(s.Contacts()))

	require.NoError(t, s.DeleteContact(ctx, "id-2"))
	require.Len(t, s.Contacts(), 2)
	require.Equal(t, s.Contacts(), storedContacts(t, repo))
}

func TestSaveDocument_PrependOrReplace(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()

	d1 := models.ScannedDocument{Id: "d1", Title: "one", Content: "a", Pages: []string{"p1"}, CreatedAt: 10}
	d2 := models.ScannedDocument{Id: "d2", Title: "two", Content: "b", Pages: []string{"p2", "p3"}, CreatedAt: 20}

	_, err := s.SaveDocument(ctx, d1)
	require.NoError(t, err)
	_, err = s.SaveDocument(ctx, d2)
	require.NoError(t, err)

	docs := s.Documents()
	require.Equal(t, "d2", docs[0].Id)
	require.Equal(t, "d1", docs[1].Id)

	d1.Content = "edited"
	d1.CreatedAt = 999
	saved, err := s.SaveDocument(ctx, d1)
	require.NoError(t, err)
	require.Equal(t, int64(10), saved.CreatedAt)

	docs = s.Documents()
	require.Len(t, docs, 2)
	require.Equal(t, "d2", docs[0].Id)
	require.Equal(t, "edited", docs[1].Content)
	require.Equal(t, []string{"p2", "p3"}, docs[0].Pages)
	require.Equal(t, docs, storedDocuments(t, repo))
}

func TestSaveDocument_EmptyIdGetsIdentity(t *testing.T) {
	s, _ := newTestStore(t)

	saved, err := s.SaveDocument(context.Background(), models.ScannedDocument{Title: "x"})
	require.NoError(t, err)
	require.Equal(t, "id-1", saved.Id)
	require.Equal(t, fixedNow.UnixMilli(), saved.CreatedAt)
}

func TestDocuments_AreIsolatedCopies(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	pages := []string{"p1"}
	_, err := s.SaveDocument(ctx, models.ScannedDocument{Id: "d", Pages: pages})
	require.NoError(t, err)
	pages[0] = "mutated"

	docs := s.Documents()
	require.Equal(t, "p1", docs[0].Pages[0])
	docs[0].Pages[0] = "again"

	d, ok := s.Document("d")
	require.True(t, ok)
	require.Equal(t, "p1", d.Pages[0])
}

func TestDeleteAndArchiveDocument(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	_, err := s.SaveDocument(ctx, models.ScannedDocument{Id: "a"})
	require.NoError(t, err)
	_, err = s.SaveDocument(ctx, models.ScannedDocument{Id: "b"})
	require.NoError(t, err)

	arch, err := s.ToggleDocumentArchive(ctx, "a")
	require.NoError(t, err)
	require.True(t, arch.IsArchived)
	require.Len(t, s.ListDocuments(false), 1)
	require.Len(t, s.ListDocuments(true), 1)

	require.NoError(t, s.DeleteDocument(ctx, "a"))
	require.NoError(t, s.DeleteDocument(ctx, "missing"))
	require.Len(t, s.Documents(), 1)
	require.Equal(t, s.Documents(), storedDocuments(t, repo))

	_, err = s.ToggleDocumentArchive(ctx, "a")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLoad_ReadsMirroredCollections(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	_, err := s.SaveContact(ctx, models.NewContactInput(models.ContactDraft{FirstName: "A"}))
	require.NoError(t, err)

	fresh := New(persistence.NewBridge(repo, logging.Nop{}), logging.Nop{})
	fresh.Load(ctx)
	require.Equal(t, s.Contacts(), fresh.Contacts())
	require.Empty(t, fresh.Documents())
}

func TestLoad_CorruptedContactsKey(t *testing.T) {
	repo := kv.NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, persistence.ContactsKey, []byte("\x00garbage")))

	s := New(persistence.NewBridge(repo, logging.Nop{}), logging.Nop{})
	require.NotPanics(t, func() { s.Load(ctx) })
	require.Empty(t, s.Contacts())
}

type brokenMirror struct {
	err error
}

func (b *brokenMirror) LoadContacts(context.Context) []models.Contact { return nil }
func (b *brokenMirror) LoadDocuments(context.Context) []models.ScannedDocument {
	return nil
}
func (b *brokenMirror) MirrorContacts(context.Context, []models.Contact) error { return b.err }
func (b *brokenMirror) MirrorDocuments(context.Context, []models.ScannedDocument) error {
	return b.err
}
func (b *brokenMirror) Restore(context.Context, persistence.Backup) error { return b.err }

func TestMirrorFailure_ReturnsErrorKeepsMutation(t *testing.T) {
	boom := errors.New("disk full")
	s := New(&brokenMirror{err: boom}, logging.Nop{})
	ctx := context.Background()

	_, err := s.SaveContact(ctx, models.NewContactInput(models.ContactDraft{FirstName: "A"}))
	require.ErrorIs(t, err, boom)
	require.Len(t, s.Contacts(), 1)

	err = s.Import(ctx, persistence.Backup{Version: persistence.BackupVersion})
	require.ErrorIs(t, err, boom)
	require.Len(t, s.Contacts(), 1, "failed import must not touch memory")
}

func TestExportImport(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	_, err := s.SaveContact(ctx, models.NewContactInput(models.ContactDraft{FirstName: "A"}))
	require.NoError(t, err)
	_, err = s.SaveDocument(ctx, models.ScannedDocument{Id: "d", Pages: []string{"p"}})
	require.NoError(t, err)

	backup := s.Export()
	require.Equal(t, persistence.BackupVersion, backup.Version)
	require.Equal(t, fixedNow.UnixMilli(), backup.ExportedAt)

	other, otherRepo := newTestStore(t)
	require.NoError(t, other.Import(ctx, backup))
	require.Equal(t, s.Contacts(), other.Contacts())
	require.Equal(t, s.Documents(), other.Documents())
	require.Equal(t, storedContacts(t, repo), storedContacts(t, otherRepo))
}

// gatedMirror holds the first contacts write until release is closed.
type gatedMirror struct {
	*persistence.Bridge
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedMirror) MirrorContacts(ctx context.Context, items []models.Contact) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.Bridge.MirrorContacts(ctx, items)
}

func TestConcurrentSaves_StorageMatchesMemory(t *testing.T) {
	repo := kv.NewMemoryRepository()
	gate := &gatedMirror{
		Bridge:  persistence.NewBridge(repo, logging.Nop{}),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := New(gate, logging.Nop{})
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := s.SaveContact(ctx, models.NewContactInput(models.ContactDraft{FirstName: "A"}))
		assert.NoError(t, err)
	}()
	<-gate.entered

	secondDone := make(chan struct{})
	go func() {
		defer wg.Done()
		defer close(secondDone)
		_, err := s.SaveContact(ctx, models.NewContactInput(models.ContactDraft{FirstName: "B"}))
		assert.NoError(t, err)
	}()

	select {
	case <-secondDone:
		t.Fatal("second save finished while the first mirror write was pending")
	case <-time.After(50 * time.Millisecond):
	}
	// readers are not blocked by a pending write
	assert.Len(t, s.Contacts(), 1)

	close(gate.release)
	wg.Wait()

	require.Len(t, s.Contacts(), 2)
	assert.Empty(t, cmp.Diff(s.Contacts(), storedContacts(t, repo)))
}
