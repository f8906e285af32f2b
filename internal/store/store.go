// Package store holds the canonical in-memory contact and document
// collections. Every mutation is mirrored to storage before the method
// returns.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mikimauro/scanbiz/internal/common"
	"github.com/mikimauro/scanbiz/internal/logging"
	"github.com/mikimauro/scanbiz/internal/models"
	"github.com/mikimauro/scanbiz/internal/persistence"
)

// Mirror is the persistence side of the store.
type Mirror interface {
	LoadContacts(ctx context.Context) []models.Contact
	LoadDocuments(ctx context.Context) []models.ScannedDocument
	MirrorContacts(ctx context.Context, items []models.Contact) error
	MirrorDocuments(ctx context.Context, items []models.ScannedDocument) error
	Restore(ctx context.Context, backup persistence.Backup) error
}

// Store owns both collections, most recent first.
type Store struct {
	// writeMu serializes each mutation with its mirror write so storage
	// receives snapshots in the order they were taken.
	writeMu sync.Mutex

	mu        sync.RWMutex
	contacts  []models.Contact
	documents []models.ScannedDocument

	mirror Mirror
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

type Option func(*Store)

// WithClock overrides time.Now for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides uuid.NewString for new ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func New(mirror Mirror, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		contacts:  []models.Contact{},
		documents: []models.ScannedDocument{},
		mirror:    mirror,
		logger:    logger.With("module", "store"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces both collections with what the mirror holds.
func (s *Store) Load(ctx context.Context) {
	contacts := s.mirror.LoadContacts(ctx)
	documents := s.mirror.LoadDocuments(ctx)

	s.mu.Lock()
	s.contacts = contacts
	s.documents = documents
	s.mu.Unlock()

	s.logger.Info(ctx, "collections loaded", "contacts", len(contacts), "documents", len(documents))
}

// Contacts returns a copy of the contact collection.
func (s *Store) Contacts() []models.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.contacts)
}

// Documents returns a deep copy of the document collection.
func (s *Store) Documents() []models.ScannedDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ScannedDocument, len(s.documents))
	for i, d := range s.documents {
		out[i] = d.Clone()
	}
	return out
}

// Contact looks a contact up by id.
func (s *Store) Contact(id string) (models.Contact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOfContact(s.contacts, id)
	if i < 0 {
		return models.Contact{}, false
	}
	return s.contacts[i], true
}

// Document looks a document up by id.
func (s *Store) Document(id string) (models.ScannedDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOfDocument(s.documents, id)
	if i < 0 {
		return models.ScannedDocument{}, false
	}
	return s.documents[i].Clone(), true
}

// SaveContact commits in. A new draft gets a fresh id and creation time and is
// prepended. A saved contact replaces the entry with the same id in place;
// an unknown id returns common.ErrorNotFound.
func (s *Store) SaveContact(ctx context.Context, in models.ContactInput) (models.Contact, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()

	var saved models.Contact
	if existing, ok := in.Saved(); ok {
		i := indexOfContact(s.contacts, existing.Id)
		if i < 0 {
			s.mu.Unlock()
			return models.Contact{}, fmt.Errorf("contact %s: %w", existing.Id, common.ErrorNotFound)
		}
		// identity comes from the stored entry, never from the edit
		saved = in.Draft().ApplyTo(s.contacts[i])
		next := slices.Clone(s.contacts)
		next[i] = saved
		s.contacts = next
	} else {
		saved = in.Draft().Commit(s.newID(), s.now().UnixMilli())
		s.contacts = append([]models.Contact{saved}, s.contacts...)
	}
	snapshot := s.contacts
	s.mu.Unlock()

	return saved, s.mirrorContacts(ctx, snapshot)
}

// SaveDocument replaces the document with the same id in place, or prepends
// it when the id is not in the collection. A document without id gets a fresh
// id and creation time.
func (s *Store) SaveDocument(ctx context.Context, doc models.ScannedDocument) (models.ScannedDocument, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	doc = doc.Clone()

	s.mu.Lock()
	if doc.Id == "" {
		doc.Id = s.newID()
		doc.CreatedAt = s.now().UnixMilli()
	}
	if i := indexOfDocument(s.documents, doc.Id); i >= 0 {
		// CreatedAt is set once
		doc.CreatedAt = s.documents[i].CreatedAt
		next := slices.Clone(s.documents)
		next[i] = doc
		s.documents = next
	} else {
		if doc.CreatedAt == 0 {
			doc.CreatedAt = s.now().UnixMilli()
		}
		s.documents = append([]models.ScannedDocument{doc}, s.documents...)
	}
	snapshot := s.documents
	s.mu.Unlock()

	return doc.Clone(), s.mirrorDocuments(ctx, snapshot)
}

// ToggleFavorite flips IsFavorite on the contact with id.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (models.Contact, error) {
	return s.updateContact(ctx, id, func(c models.Contact) models.Contact {
		c.IsFavorite = !c.IsFavorite
		return c
	})
}

// ToggleArchive flips IsArchived on the contact with id.
func (s *Store) ToggleArchive(ctx context.Context, id string) (models.Contact, error) {
	return s.updateContact(ctx, id, func(c models.Contact) models.Contact {
		c.IsArchived = !c.IsArchived
		return c
	})
}

// ToggleDocumentArchive flips IsArchived on the document with id.
func (s *Store) ToggleDocumentArchive(ctx context.Context, id string) (models.ScannedDocument, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	i := indexOfDocument(s.documents, id)
	if i < 0 {
		s.mu.Unlock()
		return models.ScannedDocument{}, fmt.Errorf("document %s: %w", id, common.ErrorNotFound)
	}
	updated := s.documents[i].Clone()
	updated.IsArchived = !updated.IsArchived
	next := slices.Clone(s.documents)
	next[i] = updated
	s.documents = next
	snapshot := s.documents
	s.mu.Unlock()

	return updated.Clone(), s.mirrorDocuments(ctx, snapshot)
}

// DeleteContact removes the contact with id. Removing an absent id changes
// nothing and is not an error.
func (s *Store) DeleteContact(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if indexOfContact(s.contacts, id) < 0 {
		s.mu.Unlock()
		return nil
	}
	s.contacts = slices.DeleteFunc(slices.Clone(s.contacts), func(c models.Contact) bool { return c.Id == id })
	snapshot := s.contacts
	s.mu.Unlock()

	return s.mirrorContacts(ctx, snapshot)
}

// DeleteDocument removes the document with id. Removing an absent id changes
// nothing and is not an error.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if indexOfDocument(s.documents, id) < 0 {
		s.mu.Unlock()
		return nil
	}
	s.documents = slices.DeleteFunc(slices.Clone(s.documents), func(d models.ScannedDocument) bool { return d.Id == id })
	snapshot := s.documents
	s.mu.Unlock()

	return s.mirrorDocuments(ctx, snapshot)
}

// Export snapshots both collections.
func (s *Store) Export() persistence.Backup {
	return persistence.Backup{
		Version:    persistence.BackupVersion,
		ExportedAt: s.now().UnixMilli(),
		Contacts:   s.Contacts(),
		Documents:  s.Documents(),
	}
}

// Import replaces both collections with the backup's. Storage is written first;
// on failure the in-memory collections are left untouched.
func (s *Store) Import(ctx context.Context, backup persistence.Backup) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.mirror.Restore(ctx, backup); err != nil {
		s.logger.Error(ctx, "import failed", "error", err)
		return fmt.Errorf("import: %w", err)
	}

	s.mu.Lock()
	s.contacts = slices.Clone(backup.Contacts)
	s.documents = make([]models.ScannedDocument, len(backup.Documents))
	for i, d := range backup.Documents {
		s.documents[i] = d.Clone()
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) updateContact(ctx context.Context, id string, fn func(models.Contact) models.Contact) (models.Contact, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	i := indexOfContact(s.contacts, id)
	if i < 0 {
		s.mu.Unlock()
		return models.Contact{}, fmt.Errorf("contact %s: %w", id, common.ErrorNotFound)
	}
	updated := fn(s.contacts[i])
	next := slices.Clone(s.contacts)
	next[i] = updated
	s.contacts = next
	snapshot := s.contacts
	s.mu.Unlock()

	return updated, s.mirrorContacts(ctx, snapshot)
}

// mirrorContacts runs under writeMu but outside mu, so readers are not
// blocked by storage. Published snapshots are never mutated.
func (s *Store) mirrorContacts(ctx context.Context, snapshot []models.Contact) error {
	if err := s.mirror.MirrorContacts(ctx, snapshot); err != nil {
		s.logger.Error(ctx, "contacts mirror failed", "error", err)
		return err
	}
	return nil
}

func (s *Store) mirrorDocuments(ctx context.Context, snapshot []models.ScannedDocument) error {
	if err := s.mirror.MirrorDocuments(ctx, snapshot); err != nil {
		s.logger.Error(ctx, "documents mirror failed", "error", err)
		return err
	}
	return nil
}

func indexOfContact(items []models.Contact, id string) int {
	return slices.IndexFunc(items, func(c models.Contact) bool { return c.Id == id })
}

func indexOfDocument(items []models.ScannedDocument, id string) int {
	return slices.IndexFunc(items, func(d models.ScannedDocument) bool { return d.Id == id })
}
