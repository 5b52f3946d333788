package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/poiesic/docgraph/core"
	"github.com/poiesic/docgraph/graph"
)

// glossaryFile mirrors the glossary JSON layout: term entries plus
// abbreviation entries.
type glossaryFile struct {
	Terms         []termRow `json:"terms"`
	Abbreviations []abbrRow `json:"abbreviations"`
}

type termRow struct {
	Term         string   `json:"term"`
	Definition   string   `json:"definition"`
	En           string   `json:"en"`
	Category     string   `json:"category"`
	RelatedTerms []string `json:"related_terms"`
	Examples     []string `json:"examples"`
}

type abbrRow struct {
	Abbreviation string `json:"abbreviation"`
	FullName     string `json:"full_name"`
	Category     string `json:"category"`
	Description  string `json:"description"`
}

// LoadGlossary parses a glossary JSON file into Term records plus the
// RELATED_TO edges connecting related terms. Abbreviations become terms in
// the "abbreviation" category. Edge endpoints for related terms that have
// no entry of their own are synthesized as bare terms.
func LoadGlossary(path string) ([]*core.Term, []graph.Edge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrGlossaryLoad, err)
	}

	var file glossaryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrGlossaryLoad, err)
	}

	known := make(map[string]struct{})
	terms := make([]*core.Term, 0, len(file.Terms)+len(file.Abbreviations))
	addTerm := func(term *core.Term) {
		if term.Name == "" {
			return
		}
		if _, ok := known[term.Name]; ok {
			return
		}
		known[term.Name] = struct{}{}
		terms = append(terms, term)
	}

	var edges []graph.Edge
	for _, row := range file.Terms {
		addTerm(&core.Term{
			Name:         row.Term,
			Definition:   row.Definition,
			Translation:  row.En,
			Category:     row.Category,
			RelatedTerms: row.RelatedTerms,
			Examples:     row.Examples,
		})
		for _, related := range row.RelatedTerms {
			if related == "" || related == row.Term {
				continue
			}
			addTerm(&core.Term{Name: related})
			edges = append(edges, graph.Edge{
				Source:     row.Term,
				Target:     related,
				Kind:       core.RelationRelatedTo,
				Confidence: 1,
			})
		}
	}

	for _, row := range file.Abbreviations {
		addTerm(&core.Term{
			Name:        row.Abbreviation,
			Definition:  row.FullName,
			Translation: row.Description,
			Category:    "abbreviation",
		})
	}

	return terms, edges, nil
}
