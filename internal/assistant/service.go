// Package assistant is the chat service behind the catalog's chat widget:
// retrieval-augmented answers, conversation starters and book search.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ziadkadry99/bookgraph/internal/bookrdf"
	"github.com/ziadkadry99/bookgraph/internal/catalog"
	"github.com/ziadkadry99/bookgraph/internal/llm"
	"github.com/ziadkadry99/bookgraph/internal/logger"
	"github.com/ziadkadry99/bookgraph/internal/vectordb"
)

// Page contexts sent by the widget.
const (
	ContextIndex       = "index"
	ContextBookDetails = "book_details"
)

const (
	defaultTopK = 3
	cacheTTL    = 5 * time.Minute
)

// Catalog is the book storage the assistant reads from.
type Catalog interface {
	List(ctx context.Context) ([]catalog.Book, error)
	Get(ctx context.Context, id string) (*catalog.Book, error)
	Search(ctx context.Context, author, theme string) ([]catalog.Book, error)
}

// Service answers widget requests.
type Service struct {
	books    Catalog
	store    vectordb.VectorStore
	provider llm.Provider
	cache    Cache
	topK     int
}

// NewService creates a service. A nil cache disables caching.
func NewService(books Catalog, store vectordb.VectorStore, provider llm.Provider, cache Cache) *Service {
	return &Service{
		books:    books,
		store:    store,
		provider: provider,
		cache:    cache,
		topK:     defaultTopK,
	}
}

// Answer retrieves the facts most relevant to message, adds the current
// book's facts on a detail page, and asks the model.
func (s *Service) Answer(ctx context.Context, message, pageCtx string, bookID *string) (string, error) {
	facts, err := s.retrieve(ctx, message)
	if err != nil {
		return "", err
	}

	if pageCtx == ContextBookDetails && bookID != nil {
		if b, err := s.books.Get(ctx, *bookID); err == nil {
			facts = mergeFacts(bookFacts(*b), facts)
		}
	}

	resp, err := s.provider.Complete(ctx, llm.Prompt(BuildPrompt(facts, message)))
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", s.provider.Name(), err)
	}

	log := logger.Get()
	log.Debug().
		Str("provider", s.provider.Name()).
		Int("facts", len(facts)).
		Int("input_tokens", resp.InputTokens).
		Int("output_tokens", resp.OutputTokens).
		Msg("chat answered")
	return resp.Content, nil
}

func (s *Service) retrieve(ctx context.Context, query string) ([]string, error) {
	if s.store == nil {
		return nil, nil
	}
	results, err := s.store.Search(ctx, query, s.topK, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieve facts: %w", err)
	}
	facts := make([]string, 0, len(results))
	for _, r := range results {
		facts = append(facts, r.Document.Content)
	}
	return facts, nil
}

// BuildPrompt formats retrieved facts and the user's question.
func BuildPrompt(facts []string, question string) string {
	return fmt.Sprintf("Using this data:\n%s\n\nUser asked: %s", strings.Join(facts, "\n"), question)
}

func bookFacts(b catalog.Book) []string {
	var out []string
	for _, f := range bookrdf.Facts(b) {
		out = append(out, f.String())
	}
	return out
}

// mergeFacts appends extra to base, skipping duplicates.
func mergeFacts(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, f := range base {
		seen[f] = true
	}
	for _, f := range extra {
		if !seen[f] {
			seen[f] = true
			base = append(base, f)
		}
	}
	return base
}

// Starters suggests prompts for a page. Detail pages of known books get
// prompts about that book.
func (s *Service) Starters(ctx context.Context, pageCtx string, bookID *string) ([]string, error) {
	key := "starters:" + pageCtx
	if bookID != nil {
		key += ":" + *bookID
	}

	var starters []string
	err := s.cached(ctx, key, &starters, func() (any, error) {
		if pageCtx == ContextBookDetails && bookID != nil {
			b, err := s.books.Get(ctx, *bookID)
			if err == nil {
				return BookStarters(*b), nil
			}
		}
		books, err := s.books.List(ctx)
		if err != nil {
			return nil, err
		}
		return CatalogStarters(books), nil
	})
	return starters, err
}

// CatalogStarters are the prompts shown on the list page. When a book has
// both an author and a theme, a structured search example is offered.
func CatalogStarters(books []catalog.Book) []string {
	starters := []string{
		"What books are in the catalog?",
		"What themes are available?",
		"Recommend a book for a beginner",
	}
	for _, b := range books {
		if b.Author != "" && b.Theme != "" {
			starters = append(starters, searchStarter(b))
			break
		}
	}
	return starters
}

// BookStarters are the prompts shown on a book's detail page.
func BookStarters(b catalog.Book) []string {
	starters := []string{fmt.Sprintf("Tell me about \"%s\"", b.DisplayTitle())}
	if b.Author != "" {
		starters = append(starters, fmt.Sprintf("What else has %s written?", b.Author))
	}
	if b.Level != "" {
		starters = append(starters, fmt.Sprintf("Is this book right for %s readers?", b.Level))
	} else {
		starters = append(starters, "Who is this book for?")
	}
	if b.Author != "" && b.Theme != "" {
		starters = append(starters, searchStarter(b))
	}
	return starters
}

// searchStarter builds a query the widget routes to book search. Values
// are single words because the widget captures one word per criterion.
func searchStarter(b catalog.Book) string {
	return fmt.Sprintf("Find books with author: %s theme: %s", lastWord(b.Author), firstWord(b.Theme))
}

func lastWord(s string) string {
	f := strings.FieldsFunc(s, isSeparator)
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}

func firstWord(s string) string {
	f := strings.FieldsFunc(s, isSeparator)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

func isSeparator(r rune) bool {
	return r == ',' || r == ' ' || r == '\t' || r == '\n'
}

// SearchBooks finds books by author and theme substrings.
func (s *Service) SearchBooks(ctx context.Context, author, theme string) ([]catalog.Book, error) {
	key := "search:" + strings.ToLower(author) + "|" + strings.ToLower(theme)

	var books []catalog.Book
	err := s.cached(ctx, key, &books, func() (any, error) {
		return s.books.Search(ctx, author, theme)
	})
	if books == nil && err == nil {
		books = []catalog.Book{}
	}
	return books, err
}

// cached decodes the value at key into out, or computes it with fill and
// stores it. Cache failures are logged and otherwise ignored.
func (s *Service) cached(ctx context.Context, key string, out any, fill func() (any, error)) error {
	log := logger.Get()

	if s.cache != nil {
		data, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache get")
		} else if ok && json.Unmarshal(data, out) == nil {
			return nil
		}
	}

	v, err := fill()
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, data, cacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set")
		}
	}
	return nil
}
