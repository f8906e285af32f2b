// Package intake turns the output of the scan capability into either a
// contact draft or a pending document. It performs no I/O.
package intake

import (
	"encoding/json"
	"time"

	"github.com/mikimauro/scanbiz/internal/common"
	"github.com/mikimauro/scanbiz/internal/models"
)

// Kind tells which half of an Outcome is populated.
type Kind int

const (
	KindContact Kind = iota
	KindDocument
)

func (k Kind) String() string {
	if k == KindDocument {
		return "document"
	}
	return "contact"
}

// Outcome is the result of one intake: a contact draft for the EDIT view or a
// pending document for the DOC_EDIT view, never both.
type Outcome struct {
	kind     Kind
	contact  models.ContactDraft
	document models.ScannedDocument
}

func (o Outcome) Kind() Kind { return o.kind }

// Contact returns the draft and true for contact outcomes.
func (o Outcome) Contact() (models.ContactDraft, bool) {
	return o.contact, o.kind == KindContact
}

// Document returns the pending document and true for document outcomes.
func (o Outcome) Document() (models.ScannedDocument, bool) {
	return o.document.Clone(), o.kind == KindDocument
}

const titleLayout = "02/01/2006 15:04"

// Intake routes result. Documents get an id from newID and now as creation
// time; contact drafts carry no identity until they are saved.
func Intake(result models.ScanResult, now time.Time, newID func() string) Outcome {
	switch {
	case result.IsDoc:
		return documentOutcome(result, now, newID)
	case result.IsCode:
		draft, ok := contactFields(result)
		if !ok || !draft.HasContactFields() {
			return documentOutcome(result, now, newID)
		}
		draft.Notes = "Importato da codice " + result.CodeType
		return contactOutcome(draft, result.ImageURL)
	default:
		draft, ok := contactFields(result)
		if !ok {
			if text, isText := result.Text(); isText {
				draft.Notes = text
			}
		}
		return contactOutcome(draft, result.ImageURL)
	}
}

// Title is the default title of a document captured at t.
func Title(t time.Time) string {
	return "Documento " + t.Format(titleLayout)
}

func documentOutcome(result models.ScanResult, now time.Time, newID func() string) Outcome {
	draft := models.DocumentDraft{
		Title:   Title(now),
		Content: documentContent(result),
		Pages:   []string{result.ImageURL},
	}
	return Outcome{
		kind:     KindDocument,
		document: draft.Commit(newID(), now.UnixMilli()),
	}
}

func contactOutcome(draft models.ContactDraft, imageURL string) Outcome {
	draft.AvatarURL = imageURL
	if draft.Category == "" {
		draft.Category = common.DefaultCategory
	}
	return Outcome{kind: KindContact, contact: draft}
}

func documentContent(result models.ScanResult) string {
	if text, ok := result.Text(); ok {
		return text
	}
	if !result.IsObject() {
		return ""
	}
	var obj struct {
		Content string `json:"content"`
	}
	// a non-string content field reads as empty
	_ = json.Unmarshal(result.Data, &obj)
	return obj.Content
}

func contactFields(result models.ScanResult) (models.ContactDraft, bool) {
	var draft models.ContactDraft
	if !result.IsObject() {
		return draft, false
	}
	// a mistyped field is skipped, the well-typed ones are kept
	_ = json.Unmarshal(result.Data, &draft)

	// flags never come from a capture
	draft.IsFavorite = false
	draft.IsArchived = false
	return draft, true
}
