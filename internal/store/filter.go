package store

import (
	"strings"

	"github.com/mikimauro/scanbiz/internal/models"
)

// Filter selects contacts for listing. The zero value lists active
// (non-archived) contacts.
type Filter struct {
	Archived      bool
	FavoritesOnly bool
	Category      string
	Query         string
}

func (f Filter) match(c models.Contact) bool {
	if c.IsArchived != f.Archived {
		return false
	}
	if f.FavoritesOnly && !c.IsFavorite {
		return false
	}
	if f.Category != "" && !strings.EqualFold(c.Category, f.Category) {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		for _, v := range []string{c.FirstName, c.LastName, c.Company, c.Email} {
			if strings.Contains(strings.ToLower(v), q) {
				return true
			}
		}
		return false
	}
	return true
}

// ListContacts returns the contacts matching f in collection order.
func (s *Store) ListContacts(f Filter) []models.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		if f.match(c) {
			out = append(out, c)
		}
	}
	return out
}

// ListDocuments returns documents with the given archived state in
// collection order.
func (s *Store) ListDocuments(archived bool) []models.ScannedDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ScannedDocument, 0, len(s.documents))
	for _, d := range s.documents {
		if d.IsArchived == archived {
			out = append(out, d.Clone())
		}
	}
	return out
}
