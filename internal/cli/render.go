package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mikimauro/scanbiz/internal/models"
	"golang.org/x/term"
)

// terminalWidth is a test seam; it falls back to 80 columns off a terminal.
var terminalWidth = func() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	if width == 1 {
		return string(r[:1])
	}
	return string(r[:width-1]) + "…"
}

func formatTime(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).Local().Format("02/01/2006 15:04")
}

func renderContactLine(w io.Writer, c models.Contact, width int) {
	mark := " "
	if c.IsFavorite {
		mark = "*"
	}
	line := fmt.Sprintf("%s %-8s  %-28s %-20s %s", mark, shortID(c.Id), c.FullName(), c.Company, c.Category)
	fmt.Fprintln(w, truncate(strings.TrimRight(line, " "), width))
}

func renderDocumentLine(w io.Writer, d models.ScannedDocument, width int) {
	line := fmt.Sprintf("  %-8s  %-32s %d page(s)  %s", shortID(d.Id), d.Title, len(d.Pages), formatTime(d.CreatedAt))
	fmt.Fprintln(w, truncate(line, width))
}

type field struct {
	label string
	get   func(*models.ContactDraft) *string
}

var contactFields = []field{
	{"First name", func(d *models.ContactDraft) *string { return &d.FirstName }},
	{"Last name", func(d *models.ContactDraft) *string { return &d.LastName }},
	{"Company", func(d *models.ContactDraft) *string { return &d.Company }},
	{"Job title", func(d *models.ContactDraft) *string { return &d.JobTitle }},
	{"Mobile", func(d *models.ContactDraft) *string { return &d.Mobile }},
	{"Phone", func(d *models.ContactDraft) *string { return &d.Phone }},
	{"Fax", func(d *models.ContactDraft) *string { return &d.Fax }},
	{"Email", func(d *models.ContactDraft) *string { return &d.Email }},
	{"Website", func(d *models.ContactDraft) *string { return &d.Website }},
	{"Address", func(d *models.ContactDraft) *string { return &d.Address }},
	{"VAT number", func(d *models.ContactDraft) *string { return &d.VatNumber }},
	{"Fiscal code", func(d *models.ContactDraft) *string { return &d.FiscalCode }},
	{"WhatsApp", func(d *models.ContactDraft) *string { return &d.WhatsApp }},
	{"Category", func(d *models.ContactDraft) *string { return &d.Category }},
	{"Notes", func(d *models.ContactDraft) *string { return &d.Notes }},
}

func renderContactDraft(w io.Writer, d models.ContactDraft) {
	for _, f := range contactFields {
		if v := *f.get(&d); v != "" {
			fmt.Fprintf(w, "%-12s %s\n", f.label+":", v)
		}
	}
	if d.AvatarURL != "" {
		fmt.Fprintf(w, "%-12s %s\n", "Image:", d.AvatarURL)
	}
	var flags []string
	if d.IsFavorite {
		flags = append(flags, "favorite")
	}
	if d.IsArchived {
		flags = append(flags, "archived")
	}
	if len(flags) > 0 {
		fmt.Fprintf(w, "%-12s %s\n", "Flags:", strings.Join(flags, ", "))
	}
}

func renderContact(w io.Writer, c models.Contact) {
	fmt.Fprintf(w, "%-12s %s\n", "Id:", c.Id)
	renderContactDraft(w, c.Draft())
	fmt.Fprintf(w, "%-12s %s\n", "Created:", formatTime(c.CreatedAt))
}

func renderDocument(w io.Writer, d models.ScannedDocument) {
	fmt.Fprintf(w, "%-8s %s\n", "Id:", d.Id)
	fmt.Fprintf(w, "%-8s %s\n", "Title:", d.Title)
	fmt.Fprintf(w, "%-8s %s\n", "Created:", formatTime(d.CreatedAt))
	if d.IsArchived {
		fmt.Fprintf(w, "%-8s %s\n", "Flags:", "archived")
	}
	for i, p := range d.Pages {
		fmt.Fprintf(w, "Page %d:  %s\n", i+1, p)
	}
	fmt.Fprintln(w, "---")
	fmt.Fprintln(w, d.Content)
	fmt.Fprintln(w, "---")
}
