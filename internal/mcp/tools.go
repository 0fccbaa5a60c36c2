package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listBooksTool defines the list_books MCP tool.
var listBooksTool = mcp.NewTool("list_books",
	mcp.WithDescription("List every book in the catalog with its title, author, theme and level."),
)

// getBookTool defines the get_book MCP tool.
var getBookTool = mcp.NewTool("get_book",
	mcp.WithDescription("Get one catalog book by its identifier."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Book identifier"),
	),
)

// searchBooksTool defines the search_books MCP tool.
var searchBooksTool = mcp.NewTool("search_books",
	mcp.WithDescription("Find books whose author and theme contain the given text, ignoring case. An empty criterion matches every book."),
	mcp.WithString("author",
		mcp.Description("Part of the author name"),
	),
	mcp.WithString("theme",
		mcp.Description("Part of the theme"),
	),
)

// getBookGraphTool defines the get_book_graph MCP tool.
var getBookGraphTool = mcp.NewTool("get_book_graph",
	mcp.WithDescription("Get a Mermaid diagram of the RDF statements of one book, or of the whole catalog when no id is given."),
	mcp.WithString("id",
		mcp.Description("Book identifier (optional)"),
	),
)

// searchFactsTool defines the search_facts MCP tool.
var searchFactsTool = mcp.NewTool("search_facts",
	mcp.WithDescription("Semantic search over the indexed catalog facts the chat assistant answers from."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
)
