// Package models defines the ScanBiz entities, their drafts, and the values
// exchanged with the scan capability.
package models

// Contact is a committed business-card contact.
// Id and CreatedAt are assigned once by the store and never change.
type Contact struct {
	Id         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Company    string `json:"company,omitempty"`
	JobTitle   string `json:"jobTitle,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Fax        string `json:"fax,omitempty"`
	Email      string `json:"email,omitempty"`
	Website    string `json:"website,omitempty"`
	Address    string `json:"address,omitempty"`
	VatNumber  string `json:"vatNumber,omitempty"`
	FiscalCode string `json:"fiscalCode,omitempty"`
	WhatsApp   string `json:"whatsapp,omitempty"`
	Category   string `json:"category,omitempty"`
	Notes      string `json:"notes,omitempty"`
	AvatarURL  string `json:"avatarUrl,omitempty"`

	// CreatedAt is a unix timestamp in milliseconds.
	CreatedAt  int64 `json:"createdAt"`
	IsFavorite bool  `json:"isFavorite,omitempty"`
	IsArchived bool  `json:"isArchived,omitempty"`
}

// ContactDraft is a contact being edited before it is committed. It carries
// every editable field of Contact but no identity or creation time.
type ContactDraft struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Company    string `json:"company,omitempty"`
	JobTitle   string `json:"jobTitle,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Fax        string `json:"fax,omitempty"`
	Email      string `json:"email,omitempty"`
	Website    string `json:"website,omitempty"`
	Address    string `json:"address,omitempty"`
	VatNumber  string `json:"vatNumber,omitempty"`
	FiscalCode string `json:"fiscalCode,omitempty"`
	WhatsApp   string `json:"whatsapp,omitempty"`
	Category   string `json:"category,omitempty"`
	Notes      string `json:"notes,omitempty"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
	IsFavorite bool   `json:"isFavorite,omitempty"`
	IsArchived bool   `json:"isArchived,omitempty"`
}

// Draft returns the editable part of c.
func (c Contact) Draft() ContactDraft {
	return ContactDraft{
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Company:    c.Company,
		JobTitle:   c.JobTitle,
		Mobile:     c.Mobile,
		Phone:      c.Phone,
		Fax:        c.Fax,
		Email:      c.Email,
		Website:    c.Website,
		Address:    c.Address,
		VatNumber:  c.VatNumber,
		FiscalCode: c.FiscalCode,
		WhatsApp:   c.WhatsApp,
		Category:   c.Category,
		Notes:      c.Notes,
		AvatarURL:  c.AvatarURL,
		IsFavorite: c.IsFavorite,
		IsArchived: c.IsArchived,
	}
}

// Commit builds a Contact from the draft with the given identity.
func (d ContactDraft) Commit(id string, createdAt int64) Contact {
	c := d.apply(Contact{})
	c.Id = id
	c.CreatedAt = createdAt
	return c
}

// ApplyTo returns c with every editable field replaced by the draft's values.
// Id and CreatedAt are preserved.
func (d ContactDraft) ApplyTo(c Contact) Contact {
	return d.apply(c)
}

func (d ContactDraft) apply(c Contact) Contact {
	c.FirstName = d.FirstName
	c.LastName = d.LastName
	c.Company = d.Company
	c.JobTitle = d.JobTitle
	c.Mobile = d.Mobile
	c.Phone = d.Phone
	c.Fax = d.Fax
	c.Email = d.Email
	c.Website = d.Website
	c.Address = d.Address
	c.VatNumber = d.VatNumber
	c.FiscalCode = d.FiscalCode
	c.WhatsApp = d.WhatsApp
	c.Category = d.Category
	c.Notes = d.Notes
	c.AvatarURL = d.AvatarURL
	c.IsFavorite = d.IsFavorite
	c.IsArchived = d.IsArchived
	return c
}

// HasContactFields reports whether any name or business field is filled in.
// Category, notes and avatar alone do not make a draft contact-shaped.
func (d ContactDraft) HasContactFields() bool {
	for _, v := range []string{
		d.FirstName, d.LastName, d.Company, d.JobTitle, d.Mobile, d.Phone, d.Fax,
		d.Email, d.Website, d.Address, d.VatNumber, d.FiscalCode, d.WhatsApp,
	} {
		if v != "" {
			return true
		}
	}
	return false
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// ContactInput is what a save operation receives: either a new draft or an
// edited, already committed contact. Build it with NewContactInput or
// SavedContactInput.
type ContactInput struct {
	draft ContactDraft
	saved *Contact
}

// NewContactInput wraps a draft that has never been saved.
func NewContactInput(d ContactDraft) ContactInput {
	return ContactInput{draft: d}
}

// SavedContactInput wraps a committed contact whose fields were edited.
func SavedContactInput(c Contact) ContactInput {
	return ContactInput{draft: c.Draft(), saved: &c}
}

// Saved returns the committed contact and true for the saved variant.
func (in ContactInput) Saved() (Contact, bool) {
	if in.saved == nil {
		return Contact{}, false
	}
	return *in.saved, true
}

// Draft returns the editable fields carried by either variant.
func (in ContactInput) Draft() ContactDraft {
	return in.draft
}

// IsNew reports whether the input is the draft variant.
func (in ContactInput) IsNew() bool {
	return in.saved == nil
}

// WithDraft returns a copy of in whose editable fields are replaced by d,
// keeping the variant (and, for saved inputs, the identity).
func (in ContactInput) WithDraft(d ContactDraft) ContactInput {
	if in.saved == nil {
		return NewContactInput(d)
	}
	return SavedContactInput(d.ApplyTo(*in.saved))
}
