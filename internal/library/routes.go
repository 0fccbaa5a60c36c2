package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/bookgraph/internal/bookrdf"
	"github.com/ziadkadry99/bookgraph/internal/catalog"
	"github.com/ziadkadry99/bookgraph/internal/logger"
)

// maxUploadSize bounds the multipart form kept in memory.
const maxUploadSize = 32 << 20

// RegisterRoutes mounts the catalog API under /api on the given router.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/books", handleList(store))
		r.Get("/book/{id}", handleGet(store))
		r.Post("/addBook", handleAdd(store))
		r.Post("/upload", handleUpload(store))
		r.Get("/uploads", handleUploads(store))
	})
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		books, err := store.List(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, books)
	}
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookID(r)
		if err != nil {
			http.Error(w, "invalid book id", http.StatusBadRequest)
			return
		}

		book, err := store.Get(r.Context(), id)
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, book)
	}
}

// bookID returns the decoded id path parameter. chi matches on the escaped
// path whenever the request carries one, so the segment is unescaped then.
func bookID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id, nil
	}
	return url.PathUnescape(id)
}

func handleAdd(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var book catalog.Book
		if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
			http.Error(w, "Error: "+err.Error(), http.StatusBadRequest)
			return
		}
		if book.ID == "" {
			http.Error(w, "Book ID is required.", http.StatusBadRequest)
			return
		}

		if _, err := store.Upsert(r.Context(), book); err != nil {
			if errors.Is(err, ErrIDRequired) {
				http.Error(w, "Book ID is required.", http.StatusBadRequest)
				return
			}
			log := logger.Get()
			log.Error().Err(err).Str("id", book.ID).Msg("saving book")
			http.Error(w, "Error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "Book '%s' saved successfully!", book.ID)
	}
}

func handleUpload(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			http.Error(w, `{"error":"invalid multipart form"}`, http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, `{"error":"missing file"}`, http.StatusBadRequest)
			return
		}
		defer file.Close()

		log := logger.Get()
		triples, err := bookrdf.ParseFile(file, header.Filename)
		if err != nil {
			log.Error().Err(err).Str("file", header.Filename).Msg("parsing upload")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		g := bookrdf.ToGraph(triples)
		_, err = store.RecordUpload(r.Context(), Upload{
			Filename: header.Filename,
			Format:   bookrdf.FormatName(bookrdf.FormatFor(header.Filename)),
			Triples:  len(triples),
			Nodes:    len(g.Nodes),
			Edges:    len(g.Edges),
		})
		if err != nil {
			log.Warn().Err(err).Msg("recording upload")
		}

		writeJSON(w, http.StatusOK, g)
	}
}

func handleUploads(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		uploads, err := store.RecentUploads(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, uploads)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
