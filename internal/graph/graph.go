// Package graph turns an uploaded RDF document into a drawable node/edge
// network.
package graph

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Node colors used by the catalog API.
const (
	SubjectColor = "#97c2fc"
	ObjectColor  = "#ffff00"
)

// Node is one vertex of the network.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// Edge is a directed, labeled link between two nodes.
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Label  string `json:"label,omitempty"`
	Arrows string `json:"arrows,omitempty"`
}

// Graph is the typed form of a network description.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Payload is a network description exactly as the server returned it.
// The drawer receives it without any reshaping.
type Payload struct {
	Nodes json.RawMessage `json:"nodes"`
	Edges json.RawMessage `json:"edges"`
}

// ErrMalformed is returned when a response lacks nodes or edges.
var ErrMalformed = errors.New("graph response must contain nodes and edges")

// ParsePayload extracts nodes and edges from a raw response body.
func ParsePayload(body []byte) (*Payload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("decode graph response: %w", err)
	}

	nodes, okN := fields["nodes"]
	edges, okE := fields["edges"]
	if !okN || !okE || isNull(nodes) || isNull(edges) {
		return nil, ErrMalformed
	}
	return &Payload{Nodes: nodes, Edges: edges}, nil
}

// Decode converts the payload into a typed Graph.
func (p *Payload) Decode() (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(p.Nodes, &g.Nodes); err != nil {
		return nil, fmt.Errorf("decode nodes: %w", err)
	}
	if err := json.Unmarshal(p.Edges, &g.Edges); err != nil {
		return nil, fmt.Errorf("decode edges: %w", err)
	}
	return &g, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// Builder accumulates nodes and edges, adding each node ID once.
type Builder struct {
	g    Graph
	seen map[string]bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		g:    Graph{Nodes: []Node{}, Edges: []Edge{}},
		seen: make(map[string]bool),
	}
}

// AddNode adds a node unless one with the same ID exists already.
func (b *Builder) AddNode(n Node) {
	if b.seen[n.ID] {
		return
	}
	b.seen[n.ID] = true
	b.g.Nodes = append(b.g.Nodes, n)
}

// AddEdge appends an edge. Duplicate edges are kept.
func (b *Builder) AddEdge(e Edge) {
	b.g.Edges = append(b.g.Edges, e)
}

// Graph returns the accumulated graph.
func (b *Builder) Graph() *Graph {
	return &b.g
}
