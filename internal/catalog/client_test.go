package catalog

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGetBookNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, time.Second).GetBook(t.Context(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestClientGetBookEscapesID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"id":"a b"}`))
	}))
	t.Cleanup(srv.Close)

	b, err := NewClient(srv.URL+"/", time.Second).GetBook(t.Context(), "a b")
	require.NoError(t, err)
	assert.Equal(t, "a b", b.ID)
	assert.Equal(t, "/api/book/a%20b", gotPath)
}

func TestClientAddBookStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Book ID is required.", http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	err := NewClient(srv.URL, time.Second).AddBook(t.Context(), Book{})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Contains(t, se.Error(), "Book ID is required.")
}

func TestClientUploadSendsMultipart(t *testing.T) {
	var gotName, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotName, gotBody = hdr.Filename, string(data)
		w.Write([]byte(`{"nodes":[],"edges":[]}`))
	}))
	t.Cleanup(srv.Close)

	body, err := NewClient(srv.URL, time.Second).Upload(t.Context(), "books.ttl", strings.NewReader("<a> <b> <c> ."))
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes":[],"edges":[]}`, string(body))
	assert.Equal(t, "books.ttl", gotName)
	assert.Equal(t, "<a> <b> <c> .", gotBody)
}

func TestBookDisplayFallbacks(t *testing.T) {
	var b Book
	assert.Equal(t, "Untitled", b.DisplayTitle())
	assert.Equal(t, "Unknown", b.DisplayAuthor())
	assert.Equal(t, "N/A", b.DisplayTheme())
	assert.Equal(t, "N/A", b.DisplayLevel())
}

func TestBookDetailsHrefEscapesID(t *testing.T) {
	assert.Equal(t, "book_details.html?id=hobbit", Book{ID: "hobbit"}.DetailsHref())
	assert.Equal(t, "book_details.html?id=C%2B%2BPrimer", Book{ID: "C++Primer"}.DetailsHref())
	assert.Equal(t, "book_details.html?id=ISBN%2F978-0+x", Book{ID: "ISBN/978-0 x"}.DetailsHref())
}
