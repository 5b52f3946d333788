package graph

import (
	"strings"
	"time"

	"github.com/poiesic/docgraph/core"
)

// NodeKind classifies graph nodes.
type NodeKind int

const (
	NodeDocument NodeKind = iota
	NodeSection
	NodeTerm
	NodeOther
)

// String returns the string representation of the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeDocument:
		return "document"
	case NodeSection:
		return "section"
	case NodeTerm:
		return "term"
	default:
		return "other"
	}
}

// ParseNodeKind parses a node kind from its string form.
// Unknown strings map to NodeOther.
func ParseNodeKind(s string) NodeKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "document", "doc":
		return NodeDocument
	case "section", "chapter":
		return NodeSection
	case "term", "glossary":
		return NodeTerm
	default:
		return NodeOther
	}
}

// Node is a graph vertex: a document, a document section, or a glossary term.
type Node struct {
	ID    string
	Kind  NodeKind
	Label string
}

// Edge is a directed, typed, confidence-weighted relation between two nodes.
type Edge struct {
	Source      string
	Target      string
	Kind        core.RelationKind
	Confidence  float64
	Description string
}

// Direction marks which way an edge was followed during traversal.
type Direction int

const (
	DirectionOut Direction = iota
	DirectionIn
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	if d == DirectionIn {
		return "in"
	}
	return "out"
}

// Neighbor is a single traversal result: a node reached from the start node,
// with the edge that reached it first.
type Neighbor struct {
	ID         string
	Kind       core.RelationKind
	Confidence float64
	Direction  Direction
	Depth      int
}

// FreshnessInfo reports per-document obsolescence state.
type FreshnessInfo struct {
	DocumentID string
	IssueDate  time.Time
	Status     core.DocumentStatus
	IsObsolete bool
}

// ObsoleteReference is a HAS_OBSOLETE_REFERENCE edge from a document to a
// target it should no longer cite.
type ObsoleteReference struct {
	DocumentID  string
	TargetID    string
	Description string
}

// ReplacementStep is one hop in a document replacement chain: a successor
// reached by following replacement relations from a superseded document.
type ReplacementStep struct {
	DocumentID string
	Steps      int
}

// CentralityEntry pairs a node with its degree centrality.
type CentralityEntry struct {
	ID         string
	Centrality float64
}

// Statistics summarizes the shape of the graph.
type Statistics struct {
	NodeCount       int
	EdgeCount       int
	Density         float64
	EdgeKindCounts  map[core.RelationKind]int
	TopByCentrality []CentralityEntry
}

// LoadReport summarizes a bulk load.
type LoadReport struct {
	Nodes        int
	Edges        int
	SkippedEdges int
	Documents    int
	Terms        int
}
