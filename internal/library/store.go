// Package library is the catalog API: book storage plus the HTTP routes
// the catalog pages call.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ziadkadry99/bookgraph/internal/bookrdf"
	"github.com/ziadkadry99/bookgraph/internal/catalog"
	"github.com/ziadkadry99/bookgraph/internal/db"
)

// ErrIDRequired is returned when a book has no usable identifier.
var ErrIDRequired = errors.New("book id is required")

// Upload records one RDF document that was visualized.
type Upload struct {
	ID        string    `json:"id" db:"id"`
	Filename  string    `json:"filename" db:"filename"`
	Format    string    `json:"format" db:"format"`
	Triples   int       `json:"triples" db:"triples"`
	Nodes     int       `json:"nodes" db:"nodes"`
	Edges     int       `json:"edges" db:"edges"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Store provides book persistence on top of the SQLite database.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: sqlx.NewDb(database.DB, db.DriverName)}
}

const bookColumns = `id, title, author, theme, level`

const upsertBook = `
	INSERT INTO books (id, title, author, theme, level)
	VALUES (:id, :title, :author, :theme, :level)
	ON CONFLICT(id) DO UPDATE SET
		title  = CASE WHEN excluded.title  <> '' THEN excluded.title  ELSE books.title  END,
		author = CASE WHEN excluded.author <> '' THEN excluded.author ELSE books.author END,
		theme  = CASE WHEN excluded.theme  <> '' THEN excluded.theme  ELSE books.theme  END,
		level  = CASE WHEN excluded.level  <> '' THEN excluded.level  ELSE books.level  END,
		updated_at = datetime('now')`

// List returns every book ordered by insertion time.
func (s *Store) List(ctx context.Context) ([]catalog.Book, error) {
	books := []catalog.Book{}
	err := s.db.SelectContext(ctx, &books,
		`SELECT `+bookColumns+` FROM books ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	return books, nil
}

// Get returns one book or catalog.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*catalog.Book, error) {
	var b catalog.Book
	err := s.db.GetContext(ctx, &b, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting book %q: %w", id, err)
	}
	return &b, nil
}

// Upsert creates the book or updates it. Whitespace is stripped from the
// identifier and only non-empty fields overwrite stored values. The stored
// record is returned.
func (s *Store) Upsert(ctx context.Context, b catalog.Book) (*catalog.Book, error) {
	b.ID = bookrdf.SanitizeID(b.ID)
	if b.ID == "" {
		return nil, ErrIDRequired
	}

	_, err := s.db.NamedExecContext(ctx, upsertBook, b)
	if err != nil {
		return nil, fmt.Errorf("saving book %q: %w", b.ID, err)
	}
	return s.Get(ctx, b.ID)
}

// Search returns books whose author and theme contain the given strings,
// ignoring case. An empty criterion matches every book.
func (s *Store) Search(ctx context.Context, author, theme string) ([]catalog.Book, error) {
	books := []catalog.Book{}
	err := s.db.SelectContext(ctx, &books, `
		SELECT `+bookColumns+` FROM books
		WHERE (? = '' OR instr(lower(author), lower(?)) > 0)
		  AND (? = '' OR instr(lower(theme), lower(?)) > 0)
		ORDER BY created_at, rowid`,
		author, author, theme, theme)
	if err != nil {
		return nil, fmt.Errorf("searching books: %w", err)
	}
	return books, nil
}

// Count returns the number of stored books.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM books`); err != nil {
		return 0, fmt.Errorf("counting books: %w", err)
	}
	return n, nil
}

// RecordUpload stores upload statistics. A UUID is generated when ID is empty.
func (s *Store) RecordUpload(ctx context.Context, u Upload) (string, error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO uploads (id, filename, format, triples, nodes, edges)
		VALUES (:id, :filename, :format, :triples, :nodes, :edges)`, u)
	if err != nil {
		return "", fmt.Errorf("recording upload: %w", err)
	}
	return u.ID, nil
}

// RecentUploads returns the newest uploads first.
func (s *Store) RecentUploads(ctx context.Context, limit int) ([]Upload, error) {
	if limit <= 0 {
		limit = 20
	}
	uploads := []Upload{}
	err := s.db.SelectContext(ctx, &uploads, `
		SELECT id, filename, format, triples, nodes, edges, created_at
		FROM uploads ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	return uploads, nil
}

// Import upserts every book in one transaction and returns how many were
// written.
func (s *Store) Import(ctx context.Context, books []catalog.Book) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	n := 0
	for _, b := range books {
		b.ID = bookrdf.SanitizeID(b.ID)
		if b.ID == "" {
			continue
		}
		_, err := tx.NamedExecContext(ctx, upsertBook, b)
		if err != nil {
			return 0, fmt.Errorf("importing book %q: %w", b.ID, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return n, nil
}
