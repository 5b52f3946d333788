package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/poiesic/docgraph/core"
	"github.com/poiesic/docgraph/graph"
)

// relationsFile mirrors the relations JSON layout: a node/edge list plus
// side lists of known conflicts and obsolete references.
type relationsFile struct {
	GraphRelations struct {
		Nodes []nodeRow `json:"nodes"`
		Edges []edgeRow `json:"edges"`
	} `json:"graph_relations"`
	Conflicts     []conflictRow `json:"conflicts"`
	ObsoleteLinks []obsoleteRow `json:"obsolete_links"`
}

type nodeRow struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
}

type edgeRow struct {
	Source     string   `json:"source"`
	Target     string   `json:"target"`
	Relation   string   `json:"relation"`
	Confidence *float64 `json:"confidence"`
}

type conflictRow struct {
	Doc1        string `json:"doc1"`
	Doc2        string `json:"doc2"`
	Type        string `json:"conflict_type"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

type obsoleteRow struct {
	Document          string `json:"document"`
	ObsoleteReference string `json:"obsolete_reference"`
	CurrentStandard   string `json:"current_standard"`
	Description       string `json:"description"`
}

// LoadRelations parses a relations JSON file into graph nodes and edges.
// Conflict rows become CONTRADICTS edges whose confidence encodes the row's
// severity; obsolete-link rows become HAS_OBSOLETE_REFERENCE edges. Nodes
// referenced only by those side lists are synthesized so the edges are
// never dangling.
func LoadRelations(path string) ([]graph.Node, []graph.Edge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrRelationsLoad, err)
	}

	var file relationsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrRelationsLoad, err)
	}

	known := make(map[string]struct{})
	nodes := make([]graph.Node, 0, len(file.GraphRelations.Nodes))
	addNode := func(id, kind, label string) {
		if id == "" {
			return
		}
		if _, ok := known[id]; ok {
			return
		}
		known[id] = struct{}{}
		if label == "" {
			label = id
		}
		nodes = append(nodes, graph.Node{ID: id, Kind: graph.ParseNodeKind(kind), Label: label})
	}

	for _, row := range file.GraphRelations.Nodes {
		addNode(row.ID, row.Type, row.Label)
	}

	edges := make([]graph.Edge, 0, len(file.GraphRelations.Edges))
	for _, row := range file.GraphRelations.Edges {
		confidence := 1.0
		if row.Confidence != nil {
			confidence = *row.Confidence
		}
		edges = append(edges, graph.Edge{
			Source:     row.Source,
			Target:     row.Target,
			Kind:       core.ParseRelationKind(row.Relation),
			Confidence: confidence,
		})
	}

	for _, row := range file.Conflicts {
		addNode(row.Doc1, "document", "")
		addNode(row.Doc2, "document", "")
		edges = append(edges, graph.Edge{
			Source:      row.Doc1,
			Target:      row.Doc2,
			Kind:        core.RelationContradicts,
			Confidence:  confidenceForSeverity(row.Severity),
			Description: row.Description,
		})
	}

	for _, row := range file.ObsoleteLinks {
		addNode(row.Document, "document", "")
		addNode(row.ObsoleteReference, "document", "")
		description := row.Description
		if row.CurrentStandard != "" {
			description = fmt.Sprintf("%s (current: %s)", row.Description, row.CurrentStandard)
		}
		edges = append(edges, graph.Edge{
			Source:      row.Document,
			Target:      row.ObsoleteReference,
			Kind:        core.RelationHasObsoleteReference,
			Confidence:  1,
			Description: description,
		})
	}

	return nodes, edges, nil
}

// confidenceForSeverity maps a conflict row's severity label onto edge
// confidence so conflict reporting round-trips the severity buckets.
func confidenceForSeverity(severity string) float64 {
	switch severity {
	case "high", "critical":
		return 0.9
	case "low":
		return 0.3
	default:
		return 0.6
	}
}
