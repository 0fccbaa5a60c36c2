package assistant

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/bookgraph/internal/catalog"
	"github.com/ziadkadry99/bookgraph/internal/logger"
	"github.com/ziadkadry99/bookgraph/internal/progress"
	"github.com/ziadkadry99/bookgraph/internal/vectordb"
)

// Indexer embeds catalog facts into the vector store.
type Indexer struct {
	books Catalog
	store vectordb.VectorStore
	dir   string
}

// NewIndexer creates an indexer that persists the store under dir.
func NewIndexer(books Catalog, store vectordb.VectorStore, dir string) *Indexer {
	return &Indexer{books: books, store: store, dir: dir}
}

// IndexAll embeds every book, reporting progress per book, and persists
// the result. It returns the number of books indexed.
func (ix *Indexer) IndexAll(ctx context.Context, reporter progress.Reporter) (int, error) {
	books, err := ix.books.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list books: %w", err)
	}

	reporter.Start(len(books))
	for i, b := range books {
		if err := ix.IndexBook(ctx, b); err != nil {
			reporter.Finish()
			return i, err
		}
		reporter.Update(i+1, b.ID)
	}
	reporter.Finish()

	if ix.dir != "" {
		if err := ix.store.Persist(ctx, ix.dir); err != nil {
			return len(books), fmt.Errorf("persist index: %w", err)
		}
	}
	return len(books), nil
}

// IndexBook replaces the stored facts of one book.
func (ix *Indexer) IndexBook(ctx context.Context, b catalog.Book) error {
	if err := ix.store.DeleteByBook(ctx, b.ID); err != nil {
		return fmt.Errorf("delete facts of %q: %w", b.ID, err)
	}
	if err := ix.store.AddDocuments(ctx, vectordb.BookDocuments(b)); err != nil {
		return fmt.Errorf("index %q: %w", b.ID, err)
	}
	return nil
}

// EnsureIndex keeps a store that already holds facts. Otherwise it loads
// a persisted index, or builds one when none exists or the loaded one is
// empty.
func (ix *Indexer) EnsureIndex(ctx context.Context) error {
	log := logger.Get()

	if n := ix.store.Count(); n > 0 {
		log.Debug().Int("facts", n).Msg("index already loaded")
		return nil
	}

	if ix.dir != "" && vectordb.Exists(ix.dir) {
		if err := ix.store.Load(ctx, ix.dir); err != nil {
			log.Warn().Err(err).Msg("loading index failed, rebuilding")
		} else if ix.store.Count() > 0 {
			log.Info().Int("facts", ix.store.Count()).Msg("index loaded")
			return nil
		}
	}

	n, err := ix.IndexAll(ctx, progress.Discard)
	if err != nil {
		return err
	}
	log.Info().Int("books", n).Int("facts", ix.store.Count()).Msg("index built")
	return nil
}
