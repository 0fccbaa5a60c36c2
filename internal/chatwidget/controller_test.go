package chatwidget

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/bookgraph/internal/catalog"
)

type fakeService struct {
	mu           sync.Mutex
	starters     []string
	startersErr  error
	reply        string
	chatErr      error
	results      []catalog.Book
	searchErr    error
	chatCalls    []ChatRequest
	searchCalls  [][2]string
	starterCalls []StartersRequest
}

func (f *fakeService) Starters(_ context.Context, pageCtx Context, bookID *string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starterCalls = append(f.starterCalls, StartersRequest{Context: pageCtx, BookID: bookID})
	return f.starters, f.startersErr
}

func (f *fakeService) Chat(_ context.Context, req ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCalls = append(f.chatCalls, req)
	return f.reply, f.chatErr
}

func (f *fakeService) SearchBooks(_ context.Context, author, theme string) ([]catalog.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, [2]string{author, theme})
	return f.results, f.searchErr
}

func TestNewDetectsContext(t *testing.T) {
	svc := &fakeService{}

	c := New(svc, "/index.html", url.Values{"id": {"ignored"}})
	assert.Equal(t, ContextIndex, c.Context())
	assert.Nil(t, c.BookID())

	c = New(svc, "/book_details.html", url.Values{"id": {"hobbit"}})
	assert.Equal(t, ContextBookDetails, c.Context())
	require.NotNil(t, c.BookID())
	assert.Equal(t, "hobbit", *c.BookID())

	c = New(svc, "/static/book_details.html", url.Values{})
	assert.Equal(t, ContextBookDetails, c.Context())
	assert.Nil(t, c.BookID())
}

func TestToggleAndClose(t *testing.T) {
	c := New(&fakeService{}, "/", nil)

	assert.False(t, c.IsOpen())
	assert.True(t, c.Toggle())
	assert.False(t, c.Toggle())
	c.Toggle()
	c.Close()
	assert.False(t, c.IsOpen())
	c.Close()
	assert.False(t, c.IsOpen())
}

func TestLoadConversationStarters(t *testing.T) {
	svc := &fakeService{starters: []string{"Tell me about The Hobbit"}}
	c := New(svc, "/book_details.html", url.Values{"id": {"hobbit"}})

	got := c.LoadConversationStarters(context.Background())

	assert.Equal(t, []string{"Tell me about The Hobbit"}, got)
	assert.Equal(t, got, c.Starters())
	require.Len(t, svc.starterCalls, 1)
	assert.Equal(t, ContextBookDetails, svc.starterCalls[0].Context)
	assert.Equal(t, "hobbit", *svc.starterCalls[0].BookID)
}

func TestLoadConversationStartersFallback(t *testing.T) {
	svc := &fakeService{startersErr: errors.New("connection refused")}
	c := New(svc, "/", nil)

	got := c.LoadConversationStarters(context.Background())

	assert.Equal(t, []string{
		"Tell me about the books",
		"What genres are available?",
		"Recommend a book for me",
	}, got)
}

func TestSendMessageIgnoresBlankInput(t *testing.T) {
	svc := &fakeService{}
	c := New(svc, "/", nil)

	c.SendMessage(context.Background(), "   \t")

	assert.Empty(t, c.Transcript().Entries())
	assert.Empty(t, svc.chatCalls)
}

func TestSendMessageChat(t *testing.T) {
	svc := &fakeService{reply: "We have three fantasy books."}
	c := New(svc, "/book_details.html", url.Values{"id": {"hobbit"}})

	var events []Event
	c.Transcript().Subscribe(func(ev Event) { events = append(events, ev) })

	c.SendMessage(context.Background(), "  what do you have?  ")

	entries := c.Transcript().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{ID: entries[0].ID, Sender: SenderUser, Text: "what do you have?"}, entries[0])
	assert.Equal(t, SenderBot, entries[1].Sender)
	assert.Equal(t, "We have three fantasy books.", entries[1].Text)

	require.Len(t, svc.chatCalls, 1)
	assert.Equal(t, "what do you have?", svc.chatCalls[0].Message)
	assert.Equal(t, ContextBookDetails, svc.chatCalls[0].Context)
	assert.Equal(t, "hobbit", *svc.chatCalls[0].BookID)

	kinds := make([]EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	assert.Equal(t, []EventKind{EventAdded, EventAdded, EventRemoved, EventAdded}, kinds)
	assert.True(t, events[1].Entry.Typing)
}

func TestSendMessageChatFailure(t *testing.T) {
	svc := &fakeService{chatErr: errors.New("service down")}
	c := New(svc, "/", nil)

	removed := 0
	c.Transcript().Subscribe(func(ev Event) {
		if ev.Kind == EventRemoved && ev.Entry.Typing {
			removed++
		}
	})

	c.SendMessage(context.Background(), "hello")

	last, ok := c.Transcript().Last()
	require.True(t, ok)
	assert.Equal(t, MsgChatError, last.Text)
	assert.Equal(t, SenderBot, last.Sender)
	assert.Equal(t, 1, removed, "typing placeholder removed exactly once")
	for _, e := range c.Transcript().Entries() {
		assert.False(t, e.Typing)
	}
}

func TestIsBookSearchQuery(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"author: Tolkien theme: fantasy", true},
		{"Find a BOOK by AUTHOR x with THEME y", true},
		{"who is the author?", false},
		{"any fantasy theme?", false},
		{"book author", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsBookSearchQuery(tt.msg), tt.msg)
	}
}

func TestExtractCriteria(t *testing.T) {
	tests := []struct {
		msg, author, theme string
	}{
		{"author: Tolkien theme: fantasy", "Tolkien", "fantasy"},
		{"Author:Herbert, Theme:scifi", "Herbert", "scifi"},
		{"books with theme   poetry and author Keats", "Keats", "poetry"},
		{"author theme", "theme", ""},
	}
	for _, tt := range tests {
		a, th := ExtractCriteria(tt.msg)
		assert.Equal(t, tt.author, a, tt.msg)
		assert.Equal(t, tt.theme, th, tt.msg)
	}
}

func TestHandleBookSearchPostsCriteria(t *testing.T) {
	svc := &fakeService{results: []catalog.Book{}}
	c := New(svc, "/", nil)

	c.SendMessage(context.Background(), "author: Tolkien theme: fantasy")

	require.Len(t, svc.searchCalls, 1)
	assert.Equal(t, [2]string{"Tolkien", "fantasy"}, svc.searchCalls[0])
	assert.Empty(t, svc.chatCalls, "search queries bypass chat")

	last, _ := c.Transcript().Last()
	assert.Equal(t, `I couldn't find any books with author "Tolkien" and theme "fantasy".`, last.Text)
}

func TestHandleBookSearchOneResult(t *testing.T) {
	svc := &fakeService{results: []catalog.Book{
		{ID: "hobbit", Title: "The Hobbit", Author: "Tolkien", Theme: "fantasy", Level: "beginner"},
	}}
	c := New(svc, "/", nil)

	c.HandleBookSearch(context.Background(), "author: Tolkien theme: fantasy")

	last, _ := c.Transcript().Last()
	assert.Equal(t, `I found "The Hobbit" by Tolkien. It's a fantasy book suitable for beginner readers.`, last.Text)
}

func TestHandleBookSearchManyResults(t *testing.T) {
	svc := &fakeService{results: []catalog.Book{
		{Title: "The Hobbit", Author: "Tolkien", Theme: "fantasy", Level: "beginner"},
		{Title: "The Silmarillion", Author: "Tolkien", Theme: "fantasy", Level: "advanced"},
	}}
	c := New(svc, "/", nil)

	c.HandleBookSearch(context.Background(), "author: Tolkien theme: fantasy")

	last, _ := c.Transcript().Last()
	want := "I found 2 books:\n\n" +
		"• \"The Hobbit\" by Tolkien (fantasy, beginner)\n" +
		"• \"The Silmarillion\" by Tolkien (fantasy, advanced)\n"
	assert.Equal(t, want, last.Text)
}

func TestHandleBookSearchFailure(t *testing.T) {
	svc := &fakeService{searchErr: errors.New("boom")}
	c := New(svc, "/", nil)

	c.HandleBookSearch(context.Background(), "author: x theme: y")

	entries := c.Transcript().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, MsgSearchError, entries[0].Text)
}

func TestSelectStarterSends(t *testing.T) {
	svc := &fakeService{reply: "Sure."}
	c := New(svc, "/", nil)

	c.SelectStarter(context.Background(), "Recommend a book for me")

	require.Len(t, svc.chatCalls, 1)
	assert.Equal(t, "Recommend a book for me", svc.chatCalls[0].Message)
}
