// Package bookrdf maps RDF documents to book records and network graphs.
package bookrdf

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/knakk/rdf"

	"github.com/ziadkadry99/bookgraph/internal/catalog"
	"github.com/ziadkadry99/bookgraph/internal/graph"
)

// Bookstore vocabulary.
const (
	NS            = "http://example.org/bookstore#"
	TypeBook      = NS + "Book"
	PredTitle     = NS + "hasTitle"
	PredAuthor    = NS + "hasAuthor"
	PredTheme     = NS + "hasTheme"
	PredLevel     = NS + "suitableForLevel"
	RDFType       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	defaultFormat = rdf.RDFXML
)

// ErrUnsupportedFormat is returned when a format cannot be written.
var ErrUnsupportedFormat = errors.New("unsupported rdf format")

// FormatFor picks a serialization from a file name. Anything that is not
// Turtle or N-Triples is read as RDF/XML.
func FormatFor(filename string) rdf.Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ttl", ".turtle":
		return rdf.Turtle
	case ".nt":
		return rdf.NTriples
	default:
		return defaultFormat
	}
}

// Parse decodes every triple in r.
func Parse(r io.Reader, format rdf.Format) ([]rdf.Triple, error) {
	dec := rdf.NewTripleDecoder(r, format)
	var triples []rdf.Triple
	for {
		t, err := dec.Decode()
		if err == io.EOF {
			return triples, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse rdf: %w", err)
		}
		triples = append(triples, t)
	}
}

// ParseFile decodes r choosing the format from filename.
func ParseFile(r io.Reader, filename string) ([]rdf.Triple, error) {
	return Parse(r, FormatFor(filename))
}

// ShortLabel returns the part of s after its last '#', or s itself.
func ShortLabel(s string) string {
	if i := strings.LastIndex(s, "#"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// LocalName returns the local part of an IRI: after the last '#', or
// after the last '/' when there is no fragment.
func LocalName(iri string) string {
	if i := strings.LastIndex(iri, "#"); i >= 0 {
		return iri[i+1:]
	}
	if i := strings.LastIndex(iri, "/"); i >= 0 {
		return iri[i+1:]
	}
	return iri
}

// ToGraph converts triples into a network: one subject node and one
// object node per distinct term, one edge per triple.
func ToGraph(triples []rdf.Triple) *graph.Graph {
	b := graph.NewBuilder()
	for _, t := range triples {
		s := t.Subj.String()
		o := t.Obj.String()
		b.AddNode(graph.Node{ID: s, Label: ShortLabel(s), Color: graph.SubjectColor})
		b.AddNode(graph.Node{ID: o, Label: ShortLabel(o), Color: graph.ObjectColor})
		b.AddEdge(graph.Edge{From: s, To: o, Label: LocalName(t.Pred.String()), Arrows: "to"})
	}
	return b.Graph()
}

// Books collects book records from triples about bookstore resources.
// Books are returned in the order their subjects first appear.
func Books(triples []rdf.Triple) []catalog.Book {
	byID := make(map[string]*catalog.Book)
	var order []string

	get := func(subj string) *catalog.Book {
		id := strings.TrimPrefix(subj, NS)
		if b, ok := byID[id]; ok {
			return b
		}
		b := &catalog.Book{ID: id}
		byID[id] = b
		order = append(order, id)
		return b
	}

	for _, t := range triples {
		if t.Subj.Type() != rdf.TermIRI {
			continue
		}
		subj := t.Subj.String()
		if !strings.HasPrefix(subj, NS) || subj == NS {
			continue
		}

		val := t.Obj.String()
		switch t.Pred.String() {
		case RDFType:
			if val == TypeBook {
				get(subj)
			}
		case PredTitle:
			get(subj).Title = val
		case PredAuthor:
			get(subj).Author = val
		case PredTheme:
			get(subj).Theme = val
		case PredLevel:
			get(subj).Level = val
		}
	}

	books := make([]catalog.Book, 0, len(order))
	for _, id := range order {
		books = append(books, *byID[id])
	}
	return books
}

// Triples converts books back into bookstore triples. Empty fields are
// omitted.
func Triples(books []catalog.Book) ([]rdf.Triple, error) {
	typ, err := rdf.NewIRI(RDFType)
	if err != nil {
		return nil, err
	}
	bookClass, err := rdf.NewIRI(TypeBook)
	if err != nil {
		return nil, err
	}

	var out []rdf.Triple
	for _, bk := range books {
		subj, err := rdf.NewIRI(NS + SanitizeID(bk.ID))
		if err != nil {
			return nil, fmt.Errorf("book %q: %w", bk.ID, err)
		}
		out = append(out, rdf.Triple{Subj: subj, Pred: typ, Obj: bookClass})

		for _, p := range []struct{ pred, val string }{
			{PredTitle, bk.Title},
			{PredAuthor, bk.Author},
			{PredTheme, bk.Theme},
			{PredLevel, bk.Level},
		} {
			if p.val == "" {
				continue
			}
			pred, err := rdf.NewIRI(p.pred)
			if err != nil {
				return nil, err
			}
			lit, err := rdf.NewLiteral(p.val)
			if err != nil {
				return nil, fmt.Errorf("book %q: %w", bk.ID, err)
			}
			out = append(out, rdf.Triple{Subj: subj, Pred: pred, Obj: lit})
		}
	}
	return out, nil
}

// Encode writes books to w as Turtle or N-Triples.
func Encode(w io.Writer, books []catalog.Book, format rdf.Format) error {
	if format != rdf.Turtle && format != rdf.NTriples {
		return ErrUnsupportedFormat
	}

	triples, err := Triples(books)
	if err != nil {
		return err
	}

	enc := rdf.NewTripleEncoder(w, format)
	for _, t := range triples {
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("encode triple: %w", err)
		}
	}
	return enc.Close()
}

// SanitizeID strips all whitespace from a book identifier.
func SanitizeID(id string) string {
	return strings.Join(strings.Fields(id), "")
}

// Fact is one property of a book in sentence form.
type Fact struct {
	BookID    string
	Predicate string
	Value     string
}

func (f Fact) String() string {
	return fmt.Sprintf("Book: %s has %s value %s", f.BookID, f.Predicate, f.Value)
}

// Facts lists the stored properties of a book, starting with its type.
func Facts(b catalog.Book) []Fact {
	facts := []Fact{{BookID: b.ID, Predicate: "type", Value: "Book"}}
	for _, p := range []struct{ pred, val string }{
		{PredTitle, b.Title},
		{PredAuthor, b.Author},
		{PredTheme, b.Theme},
		{PredLevel, b.Level},
	} {
		if p.val == "" {
			continue
		}
		facts = append(facts, Fact{BookID: b.ID, Predicate: LocalName(p.pred), Value: p.val})
	}
	return facts
}

// FormatName is a short name for a serialization.
func FormatName(f rdf.Format) string {
	switch f {
	case rdf.Turtle:
		return "turtle"
	case rdf.NTriples:
		return "ntriples"
	default:
		return "rdfxml"
	}
}

// ParseFormatName is the inverse of FormatName for the formats Encode
// can write.
func ParseFormatName(name string) (rdf.Format, error) {
	switch strings.ToLower(name) {
	case "turtle", "ttl":
		return rdf.Turtle, nil
	case "ntriples", "nt":
		return rdf.NTriples, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}
