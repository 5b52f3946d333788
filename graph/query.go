package graph

import (
	"slices"
	"strings"

	"github.com/poiesic/docgraph/core"
)

// Traverse walks the graph breadth-first from a start node, following both
// outgoing and incoming edges, up to maxDepth hops. Each node is visited at
// most once regardless of how many paths reach it. The start node itself is
// excluded from the results. An unknown start node yields an empty list,
// not an error.
func (g *Graph) Traverse(startID string, maxDepth int) []Neighbor {
	g.mu.RLock()
	defer g.mu.RUnlock()

	results := []Neighbor{}
	if _, ok := g.nodes[startID]; !ok || maxDepth <= 0 {
		return results
	}

	type frontierEntry struct {
		id    string
		depth int
	}

	visited := map[string]bool{startID: true}
	frontier := []frontierEntry{{id: startID, depth: 0}}

	// Explicit queue, never recursion: the graph may be deep or cyclic.
	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]
		if current.depth >= maxDepth {
			continue
		}

		for _, next := range g.expand(current.id) {
			if visited[next.ID] {
				continue
			}
			visited[next.ID] = true
			next.Depth = current.depth + 1
			results = append(results, next)
			frontier = append(frontier, frontierEntry{id: next.ID, depth: next.Depth})
		}
	}

	return results
}

// expand lists a node's direct neighbors in both directions, sorted by ID
// within each direction so traversal order is deterministic.
// Caller holds at least a read lock.
func (g *Graph) expand(id string) []Neighbor {
	neighbors := make([]Neighbor, 0, len(g.out[id])+len(g.in[id]))
	for target, edge := range g.out[id] {
		neighbors = append(neighbors, Neighbor{
			ID:         target,
			Kind:       edge.Kind,
			Confidence: edge.Confidence,
			Direction:  DirectionOut,
		})
	}
	for source, edge := range g.in[id] {
		neighbors = append(neighbors, Neighbor{
			ID:         source,
			Kind:       edge.Kind,
			Confidence: edge.Confidence,
			Direction:  DirectionIn,
		})
	}
	slices.SortFunc(neighbors, func(a, b Neighbor) int {
		if a.Direction != b.Direction {
			return int(a.Direction) - int(b.Direction)
		}
		return strings.Compare(a.ID, b.ID)
	})
	return neighbors
}

// FindConflicts scans all CONTRADICTS edges and reports them as unordered
// pairs: a conflict stored A->B and one stored B->A collapse into a single
// record. When scopeIDs is non-empty, only conflicts touching at least one
// of the given ids are returned.
func (g *Graph) FindConflicts(scopeIDs ...string) []*core.ConflictRecord {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var scope map[string]struct{}
	if len(scopeIDs) > 0 {
		scope = make(map[string]struct{}, len(scopeIDs))
		for _, id := range scopeIDs {
			scope[id] = struct{}{}
		}
	}

	// When both directions of a pair carry a CONTRADICTS edge, the edge
	// whose source is the smaller ID wins, so the reported description
	// and severity do not depend on map iteration order.
	type pairEdge struct {
		record *core.ConflictRecord
		source string
	}
	byPair := make(map[string]*pairEdge)
	for _, targets := range g.out {
		for _, edge := range targets {
			if edge.Kind != core.RelationContradicts {
				continue
			}
			if scope != nil {
				_, srcIn := scope[edge.Source]
				_, tgtIn := scope[edge.Target]
				if !srcIn && !tgtIn {
					continue
				}
			}

			record := &core.ConflictRecord{
				Doc1ID:      min(edge.Source, edge.Target),
				Doc2ID:      max(edge.Source, edge.Target),
				Kind:        edge.Kind.String(),
				Description: edge.Description,
				Severity:    severityForConfidence(edge.Confidence),
			}
			key := record.PairKey()
			if existing, dup := byPair[key]; dup {
				if edge.Source < existing.source {
					existing.record = record
					existing.source = edge.Source
				}
				continue
			}
			byPair[key] = &pairEdge{record: record, source: edge.Source}
		}
	}

	conflicts := make([]*core.ConflictRecord, 0, len(byPair))
	for _, entry := range byPair {
		conflicts = append(conflicts, entry.record)
	}
	slices.SortFunc(conflicts, func(a, b *core.ConflictRecord) int {
		return strings.Compare(a.PairKey(), b.PairKey())
	})
	return conflicts
}

// severityForConfidence buckets edge confidence into a reporting severity.
func severityForConfidence(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return "high"
	case confidence >= 0.5:
		return "medium"
	default:
		return "low"
	}
}

// replacementMarkers are the description fragments that mark a RELATES_TO
// edge as a replacement relation.
var replacementMarkers = []string{"заменён", "заменен", "replaced"}

func isReplacementEdge(edge *Edge) bool {
	if edge.Kind != core.RelationRelatesTo {
		return false
	}
	description := strings.ToLower(edge.Description)
	for _, marker := range replacementMarkers {
		if strings.Contains(description, marker) {
			return true
		}
	}
	return false
}

// FindDocumentsByKeyword returns the documents whose keyword list contains
// the given keyword, matched case-insensitively as a substring. Results are
// sorted by type, then title, then id.
func (g *Graph) FindDocumentsByKeyword(keyword string) []*core.Document {
	g.mu.RLock()
	defer g.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(keyword))
	docs := []*core.Document{}
	if needle == "" {
		return docs
	}
	for _, doc := range g.docs {
		for _, kw := range doc.Keywords {
			if strings.Contains(strings.ToLower(kw), needle) {
				docs = append(docs, doc)
				break
			}
		}
	}
	sortDocuments(docs)
	return docs
}

// ImpactAnalysis returns the documents that directly depend on the given
// one: the sources of its incoming RELATES_TO edges. Dependents without
// metadata are reported as id-only records. Results are sorted by type,
// then title, then id.
func (g *Graph) ImpactAnalysis(docID string) []*core.Document {
	g.mu.RLock()
	defer g.mu.RUnlock()

	docs := []*core.Document{}
	for source, edge := range g.in[docID] {
		if edge.Kind != core.RelationRelatesTo {
			continue
		}
		if doc, ok := g.docs[source]; ok {
			docs = append(docs, doc)
		} else {
			docs = append(docs, &core.Document{ID: source})
		}
	}
	sortDocuments(docs)
	return docs
}

func sortDocuments(docs []*core.Document) {
	slices.SortFunc(docs, func(a, b *core.Document) int {
		if a.Type != b.Type {
			return int(a.Type) - int(b.Type)
		}
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// ReplacementChain walks the replacement relations backwards from a
// superseded document and returns its successors in hop order: documents
// whose replacement-marked RELATES_TO edges point (directly or through
// further replacements) at the given one.
func (g *Graph) ReplacementChain(oldDocID string) []ReplacementStep {
	g.mu.RLock()
	defer g.mu.RUnlock()

	steps := []ReplacementStep{}
	if _, ok := g.nodes[oldDocID]; !ok {
		return steps
	}

	visited := map[string]bool{oldDocID: true}
	frontier := []ReplacementStep{{DocumentID: oldDocID, Steps: 0}}
	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]

		successors := []string{}
		for source, edge := range g.in[current.DocumentID] {
			if !visited[source] && isReplacementEdge(edge) {
				successors = append(successors, source)
			}
		}
		slices.Sort(successors)
		for _, id := range successors {
			visited[id] = true
			step := ReplacementStep{DocumentID: id, Steps: current.Steps + 1}
			steps = append(steps, step)
			frontier = append(frontier, step)
		}
	}
	return steps
}

// FindDocumentsByTerm returns the ids of documents whose MENTIONS edge
// targets the given term, sorted.
func (g *Graph) FindDocumentsByTerm(term string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	docs := []string{}
	for source, edge := range g.in[term] {
		if edge.Kind == core.RelationMentions {
			docs = append(docs, source)
		}
	}
	slices.Sort(docs)
	return docs
}

// TermDefinition returns the glossary entry for a term, or false if the
// term is unknown.
func (g *Graph) TermDefinition(name string) (*core.Term, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	term, ok := g.terms[name]
	return term, ok
}

// ObsoleteReferences returns the HAS_OBSOLETE_REFERENCE edges leaving a
// document.
func (g *Graph) ObsoleteReferences(docID string) []ObsoleteReference {
	g.mu.RLock()
	defer g.mu.RUnlock()

	refs := []ObsoleteReference{}
	for target, edge := range g.out[docID] {
		if edge.Kind == core.RelationHasObsoleteReference {
			refs = append(refs, ObsoleteReference{
				DocumentID:  docID,
				TargetID:    target,
				Description: edge.Description,
			})
		}
	}
	slices.SortFunc(refs, func(a, b ObsoleteReference) int {
		return strings.Compare(a.TargetID, b.TargetID)
	})
	return refs
}

// CheckFreshness reports per-document obsolescence state. With no ids it
// covers every document with metadata, sorted by id; unknown ids are
// skipped.
func (g *Graph) CheckFreshness(docIDs ...string) []FreshnessInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(docIDs) == 0 {
		docIDs = make([]string, 0, len(g.docs))
		for id := range g.docs {
			docIDs = append(docIDs, id)
		}
		slices.Sort(docIDs)
	}

	infos := []FreshnessInfo{}
	for _, id := range docIDs {
		doc, ok := g.docs[id]
		if !ok {
			continue
		}
		infos = append(infos, FreshnessInfo{
			DocumentID: id,
			IssueDate:  doc.IssueDate,
			Status:     doc.Status,
			IsObsolete: doc.Status.IsObsolete(),
		})
	}
	return infos
}

// Statistics summarizes node/edge counts, density, per-kind edge counts,
// and the top five nodes by degree centrality.
// Density is edges / (n*(n-1)) for a directed graph with n nodes;
// degree centrality is (in-degree + out-degree) / (n-1).
func (g *Graph) Statistics() Statistics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := Statistics{
		NodeCount:      len(g.nodes),
		EdgeKindCounts: make(map[core.RelationKind]int),
	}

	for _, targets := range g.out {
		for _, edge := range targets {
			stats.EdgeCount++
			stats.EdgeKindCounts[edge.Kind]++
		}
	}

	n := stats.NodeCount
	if n > 1 {
		stats.Density = float64(stats.EdgeCount) / float64(n*(n-1))
	}

	if n > 1 {
		entries := make([]CentralityEntry, 0, n)
		for id := range g.nodes {
			degree := len(g.out[id]) + len(g.in[id])
			entries = append(entries, CentralityEntry{
				ID:         id,
				Centrality: float64(degree) / float64(n-1),
			})
		}
		slices.SortFunc(entries, func(a, b CentralityEntry) int {
			if a.Centrality > b.Centrality {
				return -1
			}
			if a.Centrality < b.Centrality {
				return 1
			}
			return strings.Compare(a.ID, b.ID)
		})
		if len(entries) > 5 {
			entries = entries[:5]
		}
		stats.TopByCentrality = entries
	}

	return stats
}
