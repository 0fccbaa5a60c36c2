package vectordb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/bookgraph/internal/embeddings"
)

const (
	collectionName = "books"
	exportFile     = "facts.gob.gz"
)

// ChromemStore implements VectorStore using chromem-go.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// NewChromemStore creates an empty in-memory store.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemStore{db: db, collection: col, embedFunc: ef}, nil
}

func (s *ChromemStore) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	chromDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromDocs[i] = chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: metadataToMap(doc.Metadata),
		}
	}

	return s.collection.AddDocuments(ctx, chromDocs, runtime.NumCPU())
}

func (s *ChromemStore) Search(ctx context.Context, query string, limit int, filter *SearchFilter) ([]SearchResult, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 3
	}
	// chromem-go rejects nResults larger than the collection.
	limit = min(limit, count)

	results, err := s.collection.Query(ctx, query, limit, buildWhereClause(filter), nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{
			Document: Document{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: mapToMetadata(r.Metadata),
			},
			Similarity: r.Similarity,
		}
	}
	return out, nil
}

func (s *ChromemStore) DeleteByBook(ctx context.Context, bookID string) error {
	return s.collection.Delete(ctx, map[string]string{"book_id": bookID}, nil)
}

func (s *ChromemStore) Persist(_ context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	return s.db.ExportToFile(filepath.Join(dir, exportFile), true, "")
}

func (s *ChromemStore) Load(_ context.Context, dir string) error {
	if err := s.db.ImportFromFile(filepath.Join(dir, exportFile), ""); err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Imported collections have no embedding func; re-acquire with ours.
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

// Exists reports whether a persisted index is present in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, exportFile))
	return err == nil
}

func metadataToMap(m DocumentMetadata) map[string]string {
	return map[string]string{
		"book_id":   m.BookID,
		"predicate": m.Predicate,
	}
}

func mapToMetadata(m map[string]string) DocumentMetadata {
	return DocumentMetadata{
		BookID:    m["book_id"],
		Predicate: m["predicate"],
	}
}

func buildWhereClause(filter *SearchFilter) map[string]string {
	if filter == nil {
		return nil
	}

	where := make(map[string]string)
	if filter.BookID != nil {
		where["book_id"] = *filter.BookID
	}
	if filter.Predicate != nil {
		where["predicate"] = *filter.Predicate
	}
	if len(where) == 0 {
		return nil
	}
	return where
}
