// Package chatwidget holds the state and behavior of the chat widget
// shown on every catalog page.
package chatwidget

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/ziadkadry99/bookgraph/internal/catalog"
	"github.com/ziadkadry99/bookgraph/internal/logger"
)

// Context names the page the widget is embedded in.
type Context string

const (
	ContextIndex       Context = "index"
	ContextBookDetails Context = "book_details"
)

// Fixed bot messages.
const (
	MsgChatError   = "Sorry, I encountered an error. Please make sure the chatbot service is running."
	MsgSearchError = "Sorry, I encountered an error while searching for books."
)

// DefaultStarters are shown when the assistant cannot provide any.
var DefaultStarters = []string{
	"Tell me about the books",
	"What genres are available?",
	"Recommend a book for me",
}

var (
	authorPattern = regexp.MustCompile(`(?i)author[:\s]+([^,\s]+)`)
	themePattern  = regexp.MustCompile(`(?i)theme[:\s]+([^,\s]+)`)
)

// Service is the assistant backend the widget talks to.
type Service interface {
	Starters(ctx context.Context, pageCtx Context, bookID *string) ([]string, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
	SearchBooks(ctx context.Context, author, theme string) ([]catalog.Book, error)
}

// Controller is one chat widget instance.
type Controller struct {
	svc        Service
	pageCtx    Context
	bookID     *string
	transcript *Transcript

	mu       sync.Mutex
	open     bool
	starters []string
}

// New creates a widget for the page at pagePath with the given query.
// Detail pages carry their book identifier.
func New(svc Service, pagePath string, query url.Values) *Controller {
	c := &Controller{
		svc:        svc,
		pageCtx:    ContextIndex,
		transcript: NewTranscript(),
	}
	if strings.Contains(pagePath, "book_details.html") {
		c.pageCtx = ContextBookDetails
		if query.Has("id") {
			id := query.Get("id")
			c.bookID = &id
		}
	}
	return c
}

// Context returns the page context.
func (c *Controller) Context() Context { return c.pageCtx }

// BookID returns the current book identifier, or nil off the detail page.
func (c *Controller) BookID() *string { return c.bookID }

// Transcript returns the widget transcript.
func (c *Controller) Transcript() *Transcript { return c.transcript }

// Toggle flips the window between open and closed and returns the new state.
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = !c.open
	return c.open
}

// Close hides the window.
func (c *Controller) Close() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
}

// IsOpen reports whether the window is shown.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// LoadConversationStarters fetches prompts scoped to the page, falling
// back to DefaultStarters on any failure.
func (c *Controller) LoadConversationStarters(ctx context.Context) []string {
	starters, err := c.svc.Starters(ctx, c.pageCtx, c.bookID)
	if err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("error loading conversation starters")
		starters = append([]string(nil), DefaultStarters...)
	}

	c.mu.Lock()
	c.starters = starters
	c.mu.Unlock()
	return starters
}

// Starters returns the prompts loaded last.
func (c *Controller) Starters() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.starters...)
}

// SelectStarter sends a starter as if the user had typed it.
func (c *Controller) SelectStarter(ctx context.Context, starter string) {
	c.SendMessage(ctx, starter)
}

// SendMessage handles one submit of the input field. Blank input is
// ignored. Book search queries go to the search endpoint, everything else
// to the chat endpoint.
func (c *Controller) SendMessage(ctx context.Context, input string) {
	message := strings.TrimSpace(input)
	if message == "" {
		return
	}

	c.transcript.AddMessage(SenderUser, message)

	if IsBookSearchQuery(message) {
		c.HandleBookSearch(ctx, message)
		return
	}

	typing := c.transcript.AddTypingIndicator()
	reply, err := c.svc.Chat(ctx, ChatRequest{Message: message, Context: c.pageCtx, BookID: c.bookID})
	c.transcript.Remove(typing.ID)

	if err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("error sending message")
		c.transcript.AddMessage(SenderBot, MsgChatError)
		return
	}
	c.transcript.AddMessage(SenderBot, reply)
}

// IsBookSearchQuery reports whether message mentions both an author and
// a theme.
func IsBookSearchQuery(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "author") && strings.Contains(lower, "theme")
}

// ExtractCriteria pulls the author and theme values out of a search
// query. Each value is the first run of characters after the keyword that
// contains no whitespace or comma.
func ExtractCriteria(message string) (author, theme string) {
	if m := authorPattern.FindStringSubmatch(message); m != nil {
		author = strings.TrimSpace(m[1])
	}
	if m := themePattern.FindStringSubmatch(message); m != nil {
		theme = strings.TrimSpace(m[1])
	}
	return author, theme
}

// HandleBookSearch runs a structured search and appends the reply.
func (c *Controller) HandleBookSearch(ctx context.Context, message string) {
	author, theme := ExtractCriteria(message)

	typing := c.transcript.AddTypingIndicator()
	results, err := c.svc.SearchBooks(ctx, author, theme)
	c.transcript.Remove(typing.ID)

	if err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("error searching books")
		c.transcript.AddMessage(SenderBot, MsgSearchError)
		return
	}
	c.transcript.AddMessage(SenderBot, SearchReply(author, theme, results))
}

// SearchReply phrases search results for the transcript.
func SearchReply(author, theme string, results []catalog.Book) string {
	switch len(results) {
	case 0:
		return fmt.Sprintf("I couldn't find any books with author \"%s\" and theme \"%s\".", author, theme)
	case 1:
		b := results[0]
		return fmt.Sprintf("I found \"%s\" by %s. It's a %s book suitable for %s readers.", b.Title, b.Author, b.Theme, b.Level)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "I found %d books:\n\n", len(results))
	for _, b := range results {
		fmt.Fprintf(&sb, "• \"%s\" by %s (%s, %s)\n", b.Title, b.Author, b.Theme, b.Level)
	}
	return sb.String()
}
