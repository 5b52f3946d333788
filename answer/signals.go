package answer

import (
	"fmt"
	"strings"

	"github.com/poiesic/docgraph/core"
	"github.com/poiesic/docgraph/graph"
)

// DefaultSignalDepth is how many hops the signal source follows from the
// top hit's document.
const DefaultSignalDepth = 2

// GraphSignals is the relation-graph evidence attached to a query: related
// documents around the top hit, known conflicts touching them, obsolete
// references, and stale documents.
type GraphSignals struct {
	RelatedDocuments   []graph.Neighbor
	Conflicts          []*core.ConflictRecord
	ObsoleteReferences []graph.ObsoleteReference
	StaleDocuments     []graph.FreshnessInfo
}

// Empty reports whether the signals carry no information.
func (s *GraphSignals) Empty() bool {
	return s == nil ||
		(len(s.RelatedDocuments) == 0 &&
			len(s.Conflicts) == 0 &&
			len(s.ObsoleteReferences) == 0 &&
			len(s.StaleDocuments) == 0)
}

// Render formats the signals as a delimited secondary context section. The
// generation step is instructed to use it only to enrich the answer, never
// as primary sourced fact.
func (s *GraphSignals) Render() string {
	if s.Empty() {
		return ""
	}

	var b strings.Builder
	b.WriteString("<BEGIN GRAPH CONTEXT>\n")
	b.WriteString("Advisory knowledge-graph signals. Use them only to enrich the answer, not as primary sourced fact.\n")

	if len(s.RelatedDocuments) > 0 {
		b.WriteString("Related documents:\n")
		for _, rel := range s.RelatedDocuments {
			fmt.Fprintf(&b, "- %s (%s, depth %d, %s)\n", rel.ID, rel.Kind, rel.Depth, rel.Direction)
		}
	}
	if len(s.Conflicts) > 0 {
		b.WriteString("Known conflicts:\n")
		for _, c := range s.Conflicts {
			fmt.Fprintf(&b, "- %s vs %s: %s [severity: %s]\n", c.Doc1ID, c.Doc2ID, c.Description, c.Severity)
		}
	}
	if len(s.ObsoleteReferences) > 0 {
		b.WriteString("Obsolete references:\n")
		for _, ref := range s.ObsoleteReferences {
			fmt.Fprintf(&b, "- %s cites %s: %s\n", ref.DocumentID, ref.TargetID, ref.Description)
		}
	}
	if len(s.StaleDocuments) > 0 {
		b.WriteString("Stale documents:\n")
		for _, info := range s.StaleDocuments {
			fmt.Fprintf(&b, "- %s (status: %s)\n", info.DocumentID, info.Status)
		}
	}

	b.WriteString("<END GRAPH CONTEXT>")
	return b.String()
}

// SignalSource collects graph signals for a query. The relation graph is an
// optional capability: a source built over a nil graph reports absent and
// collects empty signals, so callers never branch on graph availability.
type SignalSource struct {
	graph *graph.Graph
	depth int
}

// NewSignalSource creates a signal source over the given graph.
// The graph may be nil.
func NewSignalSource(g *graph.Graph) *SignalSource {
	return &SignalSource{graph: g, depth: DefaultSignalDepth}
}

// Present reports whether a relation graph is available.
func (s *SignalSource) Present() bool {
	return s != nil && s.graph != nil
}

// Collect gathers signals seeded by the given document: related documents
// within the signal depth, conflicts touching the seed or its neighborhood,
// obsolete references of the seed, and stale documents in the neighborhood.
func (s *SignalSource) Collect(docID string) *GraphSignals {
	if !s.Present() || docID == "" {
		return &GraphSignals{}
	}

	related := s.graph.Traverse(docID, s.depth)

	scope := make([]string, 0, len(related)+1)
	scope = append(scope, docID)
	for _, rel := range related {
		scope = append(scope, rel.ID)
	}

	var stale []graph.FreshnessInfo
	for _, info := range s.graph.CheckFreshness(scope...) {
		if info.IsObsolete {
			stale = append(stale, info)
		}
	}

	return &GraphSignals{
		RelatedDocuments:   related,
		Conflicts:          s.graph.FindConflicts(scope...),
		ObsoleteReferences: s.graph.ObsoleteReferences(docID),
		StaleDocuments:     stale,
	}
}
