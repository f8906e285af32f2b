package models

// ScannedDocument is a committed text document. Pages keep capture order.
type ScannedDocument struct {
	Id      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Pages   []string `json:"pages"`

	// CreatedAt is a unix timestamp in milliseconds.
	CreatedAt  int64 `json:"createdAt"`
	IsArchived bool  `json:"isArchived,omitempty"`
}

// DocumentDraft is a document without identity or creation time.
type DocumentDraft struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Pages      []string `json:"pages"`
	IsArchived bool     `json:"isArchived,omitempty"`
}

// Commit builds a ScannedDocument from the draft with the given identity.
// The pages slice is copied.
func (d DocumentDraft) Commit(id string, createdAt int64) ScannedDocument {
	return ScannedDocument{
		Id:         id,
		Title:      d.Title,
		Content:    d.Content,
		Pages:      append([]string(nil), d.Pages...),
		CreatedAt:  createdAt,
		IsArchived: d.IsArchived,
	}
}

// Draft returns the editable part of d.
func (d ScannedDocument) Draft() DocumentDraft {
	return DocumentDraft{
		Title:      d.Title,
		Content:    d.Content,
		Pages:      append([]string(nil), d.Pages...),
		IsArchived: d.IsArchived,
	}
}

// Clone returns a copy of d that shares no slice with it.
func (d ScannedDocument) Clone() ScannedDocument {
	if d.Pages != nil {
		d.Pages = append([]string(nil), d.Pages...)
	}
	return d
}
