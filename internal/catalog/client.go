package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client calls the catalog HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the catalog API at baseURL
// (e.g. http://localhost:8080). A zero timeout means no timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListBooks fetches the full collection from GET /api/books.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/books", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var books []Book
	if err := c.doJSON(req, &books); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// GetBook fetches one book from GET /api/book/{id}. A 404 yields ErrNotFound.
func (c *Client) GetBook(ctx context.Context, id string) (*Book, error) {
	endpoint := c.baseURL + "/api/book/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var book Book
	if err := c.doJSON(req, &book); err != nil {
		return nil, fmt.Errorf("get book %q: %w", id, err)
	}
	return &book, nil
}

// AddBook posts a creation request to /api/addBook. Any 2xx is success.
func (c *Client) AddBook(ctx context.Context, book Book) error {
	body, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/addBook", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.doJSON(req, nil); err != nil {
		return fmt.Errorf("add book: %w", err)
	}
	return nil
}

// Upload posts an RDF document as multipart field "file" to /api/upload and
// returns the raw response body.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}

// doJSON executes req and decodes a JSON body into out when out is non-nil.
func (c *Client) doJSON(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && req.Method == http.MethodGet {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
