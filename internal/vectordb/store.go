package vectordb

import "context"

// VectorStore stores catalog facts and finds the ones closest to a query.
type VectorStore interface {
	// AddDocuments adds or replaces documents.
	AddDocuments(ctx context.Context, docs []Document) error

	// Search returns up to limit documents most similar to query.
	Search(ctx context.Context, query string, limit int, filter *SearchFilter) ([]SearchResult, error)

	// DeleteByBook removes every fact about the given book.
	DeleteByBook(ctx context.Context, bookID string) error

	// Persist saves the store under dir.
	Persist(ctx context.Context, dir string) error

	// Load restores the store from dir.
	Load(ctx context.Context, dir string) error

	// Count returns the number of stored documents.
	Count() int
}
