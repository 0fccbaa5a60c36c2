package assistant

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/bookgraph/internal/logger"
)

type startersRequest struct {
	Context string  `json:"context"`
	BookID  *string `json:"bookId"`
}

type chatRequest struct {
	Message string  `json:"message"`
	Context string  `json:"context"`
	BookID  *string `json:"bookId"`
}

type searchRequest struct {
	Author string `json:"author"`
	Theme  string `json:"theme"`
}

// RegisterRoutes mounts the widget endpoints on the given router.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/conversation-starters", handleStarters(svc))
	r.Post("/chat", handleChat(svc))
	r.Post("/search-books", handleSearch(svc))
}

func handleStarters(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startersRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		starters, err := svc.Starters(r.Context(), req.Context, req.BookID)
		if err != nil {
			log := logger.Get()
			log.Error().Err(err).Msg("conversation starters")
			http.Error(w, `{"error":"failed to load starters"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"starters": starters})
	}
}

func handleChat(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
			return
		}

		answer, err := svc.Answer(r.Context(), req.Message, req.Context, req.BookID)
		if err != nil {
			log := logger.Get()
			log.Error().Err(err).Msg("chat")
			http.Error(w, `{"error":"failed to answer"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"response": answer})
	}
}

func handleSearch(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		books, err := svc.SearchBooks(r.Context(), strings.TrimSpace(req.Author), strings.TrimSpace(req.Theme))
		if err != nil {
			log := logger.Get()
			log.Error().Err(err).Msg("search books")
			http.Error(w, `{"error":"search failed"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"results": books})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
