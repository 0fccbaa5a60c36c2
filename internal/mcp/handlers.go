package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/bookgraph/internal/bookrdf"
	"github.com/ziadkadry99/bookgraph/internal/catalog"
	"github.com/ziadkadry99/bookgraph/internal/graph"
	"github.com/ziadkadry99/bookgraph/internal/vectordb"
)

func (s *Server) handleListBooks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing books failed: %v", err)), nil
	}
	if len(books) == 0 {
		return mcp.NewToolResultText("The catalog is empty. Run `bookgraph import` to load RDF files."), nil
	}
	return mcp.NewToolResultText(formatBooks(books)), nil
}

func (s *Server) handleGetBook(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	b, err := s.books.Get(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("No book with id %q.", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading book failed: %v", err)), nil
	}
	return mcp.NewToolResultText(formatBook(*b)), nil
}

func (s *Server) handleSearchBooks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	author := strings.TrimSpace(request.GetString("author", ""))
	theme := strings.TrimSpace(request.GetString("theme", ""))

	books, err := s.books.Search(ctx, author, theme)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(books) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No books with author %q and theme %q.", author, theme)), nil
	}
	return mcp.NewToolResultText(formatBooks(books)), nil
}

// handleGetBookGraph renders the statements of one book, or the whole
// catalog, as a Mermaid diagram.
func (s *Server) handleGetBookGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var books []catalog.Book
	if id := request.GetString("id", ""); id != "" {
		b, err := s.books.Get(ctx, id)
		if errors.Is(err, catalog.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("No book with id %q.", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading book failed: %v", err)), nil
		}
		books = []catalog.Book{*b}
	} else {
		all, err := s.books.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing books failed: %v", err)), nil
		}
		books = all
	}

	triples, err := bookrdf.Triples(books)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("building statements failed: %v", err)), nil
	}
	return mcp.NewToolResultText(graph.Mermaid(bookrdf.ToGraph(triples))), nil
}

func (s *Server) handleSearchFacts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	if s.store == nil {
		return mcp.NewToolResultError("No fact index is loaded. Run `bookgraph index` first."), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	results, err := s.store.Search(ctx, query, limit, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. The catalog may not be indexed yet. Run `bookgraph index` to index it."), nil
	}
	return mcp.NewToolResultText(formatFacts(results)), nil
}

func formatBook(b catalog.Book) string {
	return fmt.Sprintf("ID: %s\nTitle: %s\nAuthor: %s\nTheme: %s\nLevel: %s\n",
		b.ID, b.DisplayTitle(), b.DisplayAuthor(), b.DisplayTheme(), b.DisplayLevel())
}

func formatBooks(books []catalog.Book) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d book(s):\n", len(books)))
	for _, b := range books {
		sb.WriteString("\n")
		sb.WriteString(formatBook(b))
	}
	return sb.String()
}

func formatFacts(results []vectordb.SearchResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d fact(s):\n", len(results)))
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("- %s (%.1f%%)\n", r.Document.Content, r.Similarity*100))
	}
	return sb.String()
}
