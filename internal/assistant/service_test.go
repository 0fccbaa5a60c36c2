package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/bookgraph/internal/catalog"
	"github.com/ziadkadry99/bookgraph/internal/chatwidget"
	"github.com/ziadkadry99/bookgraph/internal/db"
	"github.com/ziadkadry99/bookgraph/internal/library"
	"github.com/ziadkadry99/bookgraph/internal/llm"
	"github.com/ziadkadry99/bookgraph/internal/progress"
	"github.com/ziadkadry99/bookgraph/internal/vectordb"
)

// mockProvider records prompts and returns a canned answer.
type mockProvider struct {
	mu      sync.Mutex
	prompts []string
	answer  string
	err     error
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, req.Messages[len(req.Messages)-1].Content)
	if m.err != nil {
		return nil, m.err
	}
	return &llm.CompletionResponse{Content: m.answer}, nil
}

func (m *mockProvider) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// mockEmbedder returns deterministic character-histogram vectors.
type mockEmbedder struct{}

func (mockEmbedder) Dimensions() int { return 64 }
func (mockEmbedder) Name() string    { return "mock" }

func (mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 64)
		for j, ch := range strings.ToLower(text) {
			vec[(int(ch)+j)%64]++
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		norm = math.Sqrt(norm)
		for k := range vec {
			vec[k] = float32(float64(vec[k]) / norm)
		}
		out[i] = vec
	}
	return out, nil
}

var seedBooks = []catalog.Book{
	{ID: "hobbit", Title: "The Hobbit", Author: "J.R.R. Tolkien", Theme: "fantasy", Level: "beginner"},
	{ID: "silmarillion", Title: "The Silmarillion", Author: "Tolkien", Theme: "fantasy", Level: "advanced"},
	{ID: "dune", Title: "Dune", Author: "Frank Herbert", Theme: "scifi", Level: "intermediate"},
}

type fixture struct {
	books    *library.Store
	store    *vectordb.ChromemStore
	provider *mockProvider
	svc      *Service
	router   http.Handler
}

func setup(t *testing.T, cache Cache) *fixture {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	books := library.NewStore(database)
	if _, err := books.Import(context.Background(), seedBooks); err != nil {
		t.Fatalf("Import: %v", err)
	}

	store, err := vectordb.NewChromemStore(mockEmbedder{})
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	if _, err := NewIndexer(books, store, "").IndexAll(context.Background(), progress.Discard); err != nil {
		t.Fatalf("IndexAll: %v", err)
	}

	provider := &mockProvider{answer: "Try The Hobbit."}
	svc := NewService(books, store, provider, cache)

	r := chi.NewRouter()
	RegisterRoutes(r, svc)
	return &fixture{books: books, store: store, provider: provider, svc: svc, router: r}
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return w
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt([]string{"fact one", "fact two"}, "what?")
	want := "Using this data:\nfact one\nfact two\n\nUser asked: what?"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestChatUsesRetrievedFacts(t *testing.T) {
	f := setup(t, nil)

	w := post(t, f.router, "/chat", `{"message":"Book: dune has hasAuthor value Frank Herbert","context":"index","bookId":null}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["response"] != "Try The Hobbit." {
		t.Errorf("response = %q", resp["response"])
	}

	prompt := f.provider.lastPrompt()
	if !strings.HasPrefix(prompt, "Using this data:\n") || !strings.HasSuffix(prompt, "\n\nUser asked: Book: dune has hasAuthor value Frank Herbert") {
		t.Errorf("unexpected prompt %q", prompt)
	}
	if !strings.Contains(prompt, "Book: dune has hasAuthor value Frank Herbert\n") {
		t.Errorf("best matching fact missing from prompt %q", prompt)
	}
	facts := strings.Split(strings.SplitN(strings.TrimPrefix(prompt, "Using this data:\n"), "\n\n", 2)[0], "\n")
	if len(facts) != 3 {
		t.Errorf("expected 3 retrieved facts, got %d", len(facts))
	}
}

func TestChatIncludesCurrentBookFacts(t *testing.T) {
	f := setup(t, nil)

	w := post(t, f.router, "/chat", `{"message":"Is it good?","context":"book_details","bookId":"silmarillion"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	prompt := f.provider.lastPrompt()
	for _, want := range []string{
		"Book: silmarillion has hasTitle value The Silmarillion",
		"Book: silmarillion has suitableForLevel value advanced",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	f := setup(t, nil)
	if w := post(t, f.router, "/chat", `{"message":"  "}`); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if w := post(t, f.router, "/chat", `not json`); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestChatProviderFailure(t *testing.T) {
	f := setup(t, nil)
	f.provider.err = errors.New("model not loaded")

	if w := post(t, f.router, "/chat", `{"message":"hi"}`); w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestStarters(t *testing.T) {
	f := setup(t, nil)

	w := post(t, f.router, "/conversation-starters", `{"context":"index","bookId":null}`)
	var resp struct{ Starters []string }
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Starters) != 4 {
		t.Fatalf("unexpected starters %q", resp.Starters)
	}
	if resp.Starters[3] != "Find books with author: Tolkien theme: fantasy" {
		t.Errorf("search starter = %q", resp.Starters[3])
	}
	if !chatwidget.IsBookSearchQuery(resp.Starters[3]) {
		t.Error("search starter should be routed to book search")
	}

	w = post(t, f.router, "/conversation-starters", `{"context":"book_details","bookId":"dune"}`)
	resp.Starters = nil
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Starters) == 0 || resp.Starters[0] != `Tell me about "Dune"` {
		t.Errorf("unexpected book starters %q", resp.Starters)
	}

	w = post(t, f.router, "/conversation-starters", `{"context":"book_details","bookId":"unknown"}`)
	resp.Starters = nil
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Starters) != 4 {
		t.Errorf("unknown book should fall back to catalog starters, got %q", resp.Starters)
	}
}

func TestBookStartersWithoutAuthor(t *testing.T) {
	got := BookStarters(catalog.Book{ID: "x"})
	want := []string{`Tell me about "Untitled"`, "Who is this book for?"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %q", got)
	}
}

func TestSearchBooks(t *testing.T) {
	f := setup(t, NewMemoryCache())

	w := post(t, f.router, "/search-books", `{"author":"tolkien","theme":"FANTASY"}`)
	var resp struct{ Results []catalog.Book }
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Results) != 2 {
		t.Errorf("expected 2 results, got %+v", resp.Results)
	}

	w = post(t, f.router, "/search-books", `{"author":"nobody","theme":""}`)
	if got := strings.TrimSpace(w.Body.String()); got != `{"results":[]}` {
		t.Errorf("empty search body = %s", got)
	}
}

func TestSearchBooksIsCached(t *testing.T) {
	cache := NewMemoryCache()
	f := setup(t, cache)
	ctx := context.Background()

	first, err := f.svc.SearchBooks(ctx, "Herbert", "scifi")
	if err != nil || len(first) != 1 {
		t.Fatalf("first search: %v, %v", first, err)
	}

	if _, err := f.books.Upsert(ctx, catalog.Book{ID: "children", Title: "Children of Dune", Author: "Frank Herbert", Theme: "scifi"}); err != nil {
		t.Fatal(err)
	}

	second, err := f.svc.SearchBooks(ctx, "herbert", "SCIFI")
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 1 {
		t.Errorf("expected cached result with 1 book, got %d", len(second))
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Minute)
	if v, ok, _ := c.Get(ctx, "k"); !ok || !bytes.Equal(v, []byte("v")) {
		t.Fatalf("expected hit, got %q %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expected entry to expire")
	}

	c.Set(ctx, "forever", []byte("x"), 0)
	now = now.Add(24 * time.Hour)
	if _, ok, _ := c.Get(ctx, "forever"); !ok {
		t.Error("zero ttl should not expire")
	}
}

func TestIndexerEnsureIndex(t *testing.T) {
	f := setup(t, nil)
	dir := t.TempDir()
	ctx := context.Background()

	if _, err := NewIndexer(f.books, f.store, dir).IndexAll(ctx, progress.Discard); err != nil {
		t.Fatalf("IndexAll: %v", err)
	}
	if !vectordb.Exists(dir) {
		t.Fatal("index should be persisted")
	}

	fresh, err := vectordb.NewChromemStore(mockEmbedder{})
	if err != nil {
		t.Fatal(err)
	}
	if err := NewIndexer(f.books, fresh, dir).EnsureIndex(ctx); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if fresh.Count() != f.store.Count() {
		t.Errorf("loaded %d facts, want %d", fresh.Count(), f.store.Count())
	}

	empty, _ := vectordb.NewChromemStore(mockEmbedder{})
	if err := NewIndexer(f.books, empty, "").EnsureIndex(ctx); err != nil {
		t.Fatalf("EnsureIndex without dir: %v", err)
	}
	if empty.Count() != 15 {
		t.Errorf("built %d facts, want 15", empty.Count())
	}
}

// loadCounter counts Load calls on a wrapped store.
type loadCounter struct {
	vectordb.VectorStore
	loads int
}

func (l *loadCounter) Load(ctx context.Context, dir string) error {
	l.loads++
	return l.VectorStore.Load(ctx, dir)
}

func TestIndexerEnsureIndexKeepsLoadedStore(t *testing.T) {
	f := setup(t, nil)
	dir := t.TempDir()
	ctx := context.Background()

	if _, err := NewIndexer(f.books, f.store, dir).IndexAll(ctx, progress.Discard); err != nil {
		t.Fatalf("IndexAll: %v", err)
	}

	fresh, err := vectordb.NewChromemStore(mockEmbedder{})
	if err != nil {
		t.Fatal(err)
	}
	if err := fresh.Load(ctx, dir); err != nil {
		t.Fatalf("Load: %v", err)
	}

	counted := &loadCounter{VectorStore: fresh}
	if err := NewIndexer(f.books, counted, dir).EnsureIndex(ctx); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if counted.loads != 0 {
		t.Errorf("index loaded %d more times", counted.loads)
	}
	if fresh.Count() != f.store.Count() {
		t.Errorf("count = %d, want %d", fresh.Count(), f.store.Count())
	}
}

func TestIndexBookReplacesFacts(t *testing.T) {
	f := setup(t, nil)
	ix := NewIndexer(f.books, f.store, "")
	before := f.store.Count()

	if err := ix.IndexBook(context.Background(), catalog.Book{ID: "dune", Title: "Dune"}); err != nil {
		t.Fatal(err)
	}
	if got := f.store.Count(); got != before-3 {
		t.Errorf("count = %d, want %d", got, before-3)
	}
}

// The widget's HTTP client and these routes agree on the wire format.
func TestWidgetAgainstService(t *testing.T) {
	f := setup(t, NewMemoryCache())
	srv := httptest.NewServer(f.router)
	t.Cleanup(srv.Close)

	client := chatwidget.NewClient(srv.URL, 5*time.Second)
	c := chatwidget.New(client, "/book_details.html", map[string][]string{"id": {"hobbit"}})
	ctx := context.Background()

	starters := c.LoadConversationStarters(ctx)
	if len(starters) == 0 || starters[0] != `Tell me about "The Hobbit"` {
		t.Errorf("unexpected starters %q", starters)
	}

	c.SendMessage(ctx, "Who wrote it?")
	if last, _ := c.Transcript().Last(); last.Text != "Try The Hobbit." {
		t.Errorf("chat reply = %q", last.Text)
	}

	c.SendMessage(ctx, "author: Tolkien theme: fantasy")
	last, _ := c.Transcript().Last()
	if !strings.HasPrefix(last.Text, "I found 2 books:\n\n") {
		t.Errorf("search reply = %q", last.Text)
	}
}
