package catalog

import (
	"context"
	"net/url"
	"strings"

	"github.com/ziadkadry99/bookgraph/internal/logger"
)

// Fixed user-facing messages.
const (
	MsgNoBookID     = "No Book ID Provided"
	MsgErrorLoading = "Error loading book"
	MsgNoBooks      = "No books found."
	MsgIDRequired   = "The Book ID is required!"
	MsgSaved        = "Book saved successfully!"
	MsgSaveFailed   = "Error saving book."
)

// API is the subset of the catalog API the renderer needs.
type API interface {
	ListBooks(ctx context.Context) ([]Book, error)
	GetBook(ctx context.Context, id string) (*Book, error)
	AddBook(ctx context.Context, book Book) error
}

// Renderer turns catalog API calls into view state for the list and
// detail pages.
type Renderer struct {
	api API
}

// NewRenderer creates a renderer backed by api.
func NewRenderer(api API) *Renderer {
	return &Renderer{api: api}
}

// DetailView holds the text of each field on the detail page.
type DetailView struct {
	Title  string
	Author string
	Theme  string
	Level  string
	ID     string
	Failed bool
}

// LoadDetails reads the id parameter from query and fetches that book.
// Without an id no request is made.
func (r *Renderer) LoadDetails(ctx context.Context, query url.Values) DetailView {
	id := query.Get("id")
	if id == "" {
		return DetailView{Title: MsgNoBookID}
	}

	book, err := r.api.GetBook(ctx, id)
	if err != nil {
		log := logger.Get()
		log.Error().Err(err).Str("id", id).Msg("fetch error")
		return DetailView{Title: MsgErrorLoading, Failed: true}
	}

	return DetailView{
		Title:  book.DisplayTitle(),
		Author: book.DisplayAuthor(),
		Theme:  book.DisplayTheme(),
		Level:  book.DisplayLevel(),
		ID:     book.ID,
	}
}

// BookRow is one clickable entry of the book list.
type BookRow struct {
	Title  string
	Author string
	Href   string
}

// ListView is the rendered book list. Loaded is false when the fetch failed
// and the caller should leave whatever it already shows untouched.
type ListView struct {
	Rows   []BookRow
	Empty  string
	Loaded bool
}

// LoadBooks fetches the whole collection. Failures are logged only.
func (r *Renderer) LoadBooks(ctx context.Context) ListView {
	books, err := r.api.ListBooks(ctx)
	if err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("error loading books")
		return ListView{}
	}

	view := ListView{Loaded: true}
	for _, b := range books {
		view.Rows = append(view.Rows, BookRow{
			Title:  b.DisplayTitle(),
			Author: b.DisplayAuthor(),
			Href:   b.DetailsHref(),
		})
	}
	if len(view.Rows) == 0 {
		view.Empty = MsgNoBooks
	}
	return view
}

// Form holds the five inputs of the add-book form.
type Form struct {
	ID     string
	Title  string
	Author string
	Theme  string
	Level  string
}

// FormFromValues reads the add-book form fields from submitted values.
func FormFromValues(v url.Values) Form {
	return Form{
		ID:     v.Get("id"),
		Title:  v.Get("title"),
		Author: v.Get("author"),
		Theme:  v.Get("theme"),
		Level:  v.Get("level"),
	}
}

// Book converts the form into the creation payload.
func (f Form) Book() Book {
	return Book{ID: f.ID, Title: f.Title, Author: f.Author, Theme: f.Theme, Level: f.Level}
}

// FormResult describes what the page shows after a submit. Alert is a
// blocking message; an empty Alert means nothing is shown.
type FormResult struct {
	Alert  string
	Form   Form
	Reload bool
}

// AddBook submits the form. An empty ID is rejected before any request.
// On success the form is cleared and the list should be reloaded.
func (r *Renderer) AddBook(ctx context.Context, form Form) FormResult {
	if strings.TrimSpace(form.ID) == "" {
		return FormResult{Alert: MsgIDRequired, Form: form}
	}

	err := r.api.AddBook(ctx, form.Book())
	if err == nil {
		return FormResult{Alert: MsgSaved, Reload: true}
	}

	if isStatusError(err) {
		return FormResult{Alert: MsgSaveFailed, Form: form}
	}

	log := logger.Get()
	log.Error().Err(err).Str("id", form.ID).Msg("submission error")
	return FormResult{Form: form}
}
