package catalog

import (
	"net/url"
	"strings"
)

// Placeholders shown when a book field is missing.
const (
	UntitledPlaceholder = "Untitled"
	UnknownPlaceholder  = "Unknown"
	NAPlaceholder       = "N/A"
)

// Book is a catalog record. Only ID is required; the rest are optional
// display strings.
type Book struct {
	ID     string `json:"id" db:"id"`
	Title  string `json:"title,omitempty" db:"title"`
	Author string `json:"author,omitempty" db:"author"`
	Theme  string `json:"theme,omitempty" db:"theme"`
	Level  string `json:"level,omitempty" db:"level"`
}

func (b Book) DisplayTitle() string  { return orDefault(b.Title, UntitledPlaceholder) }
func (b Book) DisplayAuthor() string { return orDefault(b.Author, UnknownPlaceholder) }
func (b Book) DisplayTheme() string  { return orDefault(b.Theme, NAPlaceholder) }
func (b Book) DisplayLevel() string  { return orDefault(b.Level, NAPlaceholder) }

// DetailsHref is the detail page link for the book.
func (b Book) DetailsHref() string {
	return "book_details.html?id=" + url.QueryEscape(b.ID)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
