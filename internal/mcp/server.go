package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/bookgraph/internal/catalog"
	"github.com/ziadkadry99/bookgraph/internal/vectordb"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Catalog is the book storage the tools read from.
type Catalog interface {
	List(ctx context.Context) ([]catalog.Book, error)
	Get(ctx context.Context, id string) (*catalog.Book, error)
	Search(ctx context.Context, author, theme string) ([]catalog.Book, error)
}

// Server wraps an MCP server that exposes the book catalog.
type Server struct {
	books Catalog
	store vectordb.VectorStore
	mcp   *server.MCPServer
}

// NewServer creates a new MCP server. store may be nil, in which case
// search_facts reports that no index is available.
func NewServer(books Catalog, store vectordb.VectorStore) *Server {
	s := &Server{
		books: books,
		store: store,
	}

	s.mcp = server.NewMCPServer(
		"bookgraph",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listBooksTool, s.handleListBooks)
	s.mcp.AddTool(getBookTool, s.handleGetBook)
	s.mcp.AddTool(searchBooksTool, s.handleSearchBooks)
	s.mcp.AddTool(getBookGraphTool, s.handleGetBookGraph)
	s.mcp.AddTool(searchFactsTool, s.handleSearchFacts)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
