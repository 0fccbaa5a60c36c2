// Package web serves the catalog pages: the book list with its add and
// upload forms, the detail page, and the chat widget socket.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"

	"github.com/ziadkadry99/bookgraph/internal/catalog"
	"github.com/ziadkadry99/bookgraph/internal/chatwidget"
	"github.com/ziadkadry99/bookgraph/internal/graph"
)

//go:embed templates/*.html
var templateFS embed.FS

// API is the catalog API the pages are built from.
type API interface {
	catalog.API
	graph.Transport
}

// Web holds the page handlers.
type Web struct {
	renderer  *catalog.Renderer
	transport graph.Transport
	chat      chatwidget.Service
	md        goldmark.Markdown
	pages     *template.Template
}

// New creates the page handlers. chat may be nil, in which case the
// widget socket is not mounted.
func New(api API, chat chatwidget.Service) (*Web, error) {
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Web{
		renderer:  catalog.NewRenderer(api),
		transport: api,
		chat:      chat,
		md:        newMarkdown(),
		pages:     pages,
	}, nil
}

// RegisterRoutes mounts all page routes onto the given router.
func (wb *Web) RegisterRoutes(r chi.Router) {
	r.Get("/", wb.handleIndex)
	r.Get("/index.html", wb.handleIndex)
	r.Get("/book_details.html", wb.handleDetails)
	r.Post("/addBook", wb.handleAddBook)
	r.Post("/upload", wb.handleUpload)
	if wb.chat != nil {
		r.Get("/ws/chat", wb.handleWebSocket)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
