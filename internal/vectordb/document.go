package vectordb

import (
	"fmt"

	"github.com/ziadkadry99/bookgraph/internal/bookrdf"
	"github.com/ziadkadry99/bookgraph/internal/catalog"
)

// Document is one embedded catalog fact.
type Document struct {
	ID       string
	Content  string
	Metadata DocumentMetadata
}

// DocumentMetadata says which book and property a fact is about.
type DocumentMetadata struct {
	BookID    string
	Predicate string
}

// SearchResult pairs a document with its similarity score.
type SearchResult struct {
	Document   Document
	Similarity float32
}

// SearchFilter narrows a search by metadata.
type SearchFilter struct {
	BookID    *string
	Predicate *string
}

// BookDocuments returns one document per fact of b. IDs are stable so
// re-indexing a book replaces its earlier facts.
func BookDocuments(b catalog.Book) []Document {
	facts := bookrdf.Facts(b)
	docs := make([]Document, 0, len(facts))
	for _, f := range facts {
		docs = append(docs, Document{
			ID:      fmt.Sprintf("%s#%s", f.BookID, f.Predicate),
			Content: f.String(),
			Metadata: DocumentMetadata{
				BookID:    f.BookID,
				Predicate: f.Predicate,
			},
		})
	}
	return docs
}
