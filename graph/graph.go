// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package graph

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/docgraph/core"
)

// Graph is a directed relation graph of documents, sections, and glossary
// terms. Mutations take a write lock; queries take a read lock, so
// concurrent reads run in parallel. There are no staged transactions:
// every mutation is immediately visible to subsequent reads.
type Graph struct {
	mu     sync.RWMutex
	nodes  map[string]*Node
	out    map[string]map[string]*Edge
	in     map[string]map[string]*Edge
	docs   map[string]*core.Document
	terms  map[string]*core.Term
	logger *slog.Logger
}

// Option configures a Graph.
type Option func(*Graph) error

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		g.logger = logger
		return nil
	}
}

// New creates an empty relation graph.
func New(opts ...Option) (*Graph, error) {
	g := &Graph{
		nodes:  make(map[string]*Node),
		out:    make(map[string]map[string]*Edge),
		in:     make(map[string]map[string]*Edge),
		docs:   make(map[string]*core.Document),
		terms:  make(map[string]*core.Term),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	g.logger = g.logger.With("component", "relation_graph")
	return g, nil
}

// AddNode adds or replaces a node.
func (g *Graph) AddNode(node Node) error {
	if node.ID == "" {
		return ErrEmptyNodeID
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes[node.ID] = &node
	return nil
}

// HasNode reports whether a node exists.
func (g *Graph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// AddEdge adds a directed edge between two existing nodes. Both endpoints
// must already exist; a dangling edge is rejected, never silently created.
// Adding an edge over an existing (source, target) pair replaces it.
func (g *Graph) AddEdge(source, target string, kind core.RelationKind, confidence float64, description string) error {
	if confidence < 0 || confidence > 1 {
		return fmt.Errorf("%w: %f", ErrInvalidConfidence, confidence)
	}
	if source == target {
		return fmt.Errorf("%w: %q", ErrSelfEdge, source)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[source]; !ok {
		return fmt.Errorf("%w: edge source %q", ErrNodeNotFound, source)
	}
	if _, ok := g.nodes[target]; !ok {
		return fmt.Errorf("%w: edge target %q", ErrNodeNotFound, target)
	}

	edge := &Edge{
		Source:      source,
		Target:      target,
		Kind:        kind,
		Confidence:  confidence,
		Description: description,
	}
	if g.out[source] == nil {
		g.out[source] = make(map[string]*Edge)
	}
	if g.in[target] == nil {
		g.in[target] = make(map[string]*Edge)
	}
	g.out[source][target] = edge
	g.in[target][source] = edge
	return nil
}

// RemoveEdge removes the edge from source to target.
func (g *Graph) RemoveEdge(source, target string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.out[source][target]; !ok {
		return fmt.Errorf("%w: %s -> %s", ErrEdgeNotFound, source, target)
	}
	delete(g.out[source], target)
	delete(g.in[target], source)
	return nil
}

// RemoveNode removes a node and cascades to all its incident edges.
func (g *Graph) RemoveNode(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}

	for target := range g.out[id] {
		delete(g.in[target], id)
	}
	for source := range g.in[id] {
		delete(g.out[source], id)
	}
	delete(g.out, id)
	delete(g.in, id)
	delete(g.nodes, id)
	delete(g.docs, id)
	return nil
}

// SetDocument attaches metadata to a document node, creating the node if it
// does not exist yet.
func (g *Graph) SetDocument(doc *core.Document) error {
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[doc.ID]; !ok {
		g.nodes[doc.ID] = &Node{ID: doc.ID, Kind: NodeDocument, Label: doc.Title}
	}
	g.docs[doc.ID] = doc
	return nil
}

// Document returns the metadata attached to a document node.
func (g *Graph) Document(id string) (*core.Document, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	doc, ok := g.docs[id]
	return doc, ok
}

// SetTerm adds or replaces a glossary term, creating its node if missing.
func (g *Graph) SetTerm(term *core.Term) error {
	if term.Name == "" {
		return fmt.Errorf("%w: term name", ErrEmptyNodeID)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[term.Name]; !ok {
		g.nodes[term.Name] = &Node{ID: term.Name, Kind: NodeTerm, Label: term.Name}
	}
	g.terms[term.Name] = term
	return nil
}

// Load bulk-loads nodes, edges, document metadata, and glossary terms.
// Edges with a missing endpoint are skipped and counted, not fatal: a
// single bad row must not abort a corpus load. Parsing the source files
// into these records is the dataset package's job.
func (g *Graph) Load(nodes []Node, edges []Edge, docs []*core.Document, terms []*core.Term) (*LoadReport, error) {
	report := &LoadReport{}

	for _, node := range nodes {
		if err := g.AddNode(node); err != nil {
			return report, err
		}
		report.Nodes++
	}
	for _, doc := range docs {
		if err := g.SetDocument(doc); err != nil {
			return report, err
		}
		report.Documents++
	}
	for _, term := range terms {
		if err := g.SetTerm(term); err != nil {
			return report, err
		}
		report.Terms++
	}
	for _, edge := range edges {
		err := g.AddEdge(edge.Source, edge.Target, edge.Kind, edge.Confidence, edge.Description)
		if err != nil {
			g.logger.Warn("skipping edge", "source", edge.Source, "target", edge.Target, "error", err)
			report.SkippedEdges++
			continue
		}
		report.Edges++
	}

	g.logger.Info("graph loaded",
		"nodes", report.Nodes,
		"edges", report.Edges,
		"skipped_edges", report.SkippedEdges,
		"documents", report.Documents,
		"terms", report.Terms)
	return report, nil
}
