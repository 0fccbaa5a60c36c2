package chatwidget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ziadkadry99/bookgraph/internal/catalog"
)

// Request and response bodies of the assistant service.
type (
	StartersRequest struct {
		Context Context `json:"context"`
		BookID  *string `json:"bookId"`
	}
	StartersResponse struct {
		Starters []string `json:"starters"`
	}
	ChatRequest struct {
		Message string  `json:"message"`
		Context Context `json:"context"`
		BookID  *string `json:"bookId"`
	}
	ChatResponse struct {
		Response *string `json:"response"`
	}
	SearchRequest struct {
		Author string `json:"author"`
		Theme  string `json:"theme"`
	}
	SearchResponse struct {
		Results []catalog.Book `json:"results"`
	}
)

// ErrMissingField is returned when a response lacks its payload field.
var ErrMissingField = errors.New("response is missing its payload")

// Client talks to the assistant service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the assistant at baseURL
// (e.g. http://localhost:5000).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Starters fetches suggested prompts for a page.
func (c *Client) Starters(ctx context.Context, pageCtx Context, bookID *string) ([]string, error) {
	var resp StartersResponse
	if err := c.post(ctx, "/conversation-starters", StartersRequest{Context: pageCtx, BookID: bookID}, &resp); err != nil {
		return nil, fmt.Errorf("conversation starters: %w", err)
	}
	if resp.Starters == nil {
		return nil, fmt.Errorf("conversation starters: %w", ErrMissingField)
	}
	return resp.Starters, nil
}

// Chat sends one user message and returns the reply text.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	var resp ChatResponse
	if err := c.post(ctx, "/chat", req, &resp); err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	if resp.Response == nil {
		return "", fmt.Errorf("chat: %w", ErrMissingField)
	}
	return *resp.Response, nil
}

// SearchBooks runs a structured author/theme search.
func (c *Client) SearchBooks(ctx context.Context, author, theme string) ([]catalog.Book, error) {
	var resp SearchResponse
	if err := c.post(ctx, "/search-books", SearchRequest{Author: author, Theme: theme}, &resp); err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	if resp.Results == nil {
		return nil, fmt.Errorf("search books: %w", ErrMissingField)
	}
	return resp.Results, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("assistant returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
