package consistency

import (
	"fmt"
	"log/slog"

	"github.com/poiesic/docgraph/core"
	"github.com/poiesic/docgraph/graph"
)

// OutdatedReference is a citation from an active document to one that is
// no longer current. It is derived either from an explicit
// HAS_OBSOLETE_REFERENCE edge or from the cited document's status.
type OutdatedReference struct {
	DocumentID  string
	TargetID    string
	Description string
}

// CorpusReport is a corpus-wide validation result.
type CorpusReport struct {
	ObsoleteDocuments  []*core.Document
	Conflicts          []*core.ConflictRecord
	OutdatedReferences []OutdatedReference
	Freshness          []graph.FreshnessInfo
}

// Clean reports whether validation found nothing to flag.
func (r *CorpusReport) Clean() bool {
	return len(r.ObsoleteDocuments) == 0 &&
		len(r.Conflicts) == 0 &&
		len(r.OutdatedReferences) == 0
}

// Validator cross-checks the whole corpus against the relation graph.
// Where Checker looks at a single document's text, Validator looks at
// relationships between documents.
type Validator struct {
	graph  *graph.Graph
	logger *slog.Logger
}

// NewValidator creates a corpus validator backed by a relation graph.
func NewValidator(g *graph.Graph) (*Validator, error) {
	if g == nil {
		return nil, ErrGraphRequired
	}
	return &Validator{
		graph:  g,
		logger: slog.Default().With("component", "consistency"),
	}, nil
}

// ValidateDocuments validates the given documents, or the whole corpus
// when no ids are passed. Every finding is data; the report is never an
// error.
func (v *Validator) ValidateDocuments(docIDs ...string) *CorpusReport {
	report := &CorpusReport{
		ObsoleteDocuments:  []*core.Document{},
		Conflicts:          v.graph.FindConflicts(docIDs...),
		OutdatedReferences: []OutdatedReference{},
		Freshness:          v.graph.CheckFreshness(docIDs...),
	}

	for _, info := range report.Freshness {
		if !info.IsObsolete {
			continue
		}
		if doc, ok := v.graph.Document(info.DocumentID); ok {
			report.ObsoleteDocuments = append(report.ObsoleteDocuments, doc)
		}
	}

	for _, info := range report.Freshness {
		report.OutdatedReferences = append(report.OutdatedReferences, v.outdatedReferences(info.DocumentID)...)
	}

	v.logger.Info("corpus validated",
		"documents", len(report.Freshness),
		"obsolete", len(report.ObsoleteDocuments),
		"conflicts", len(report.Conflicts),
		"outdated_references", len(report.OutdatedReferences))
	return report
}

// outdatedReferences lists a document's problem citations: explicit
// obsolete-reference edges plus direct successors whose own status is
// obsolete.
func (v *Validator) outdatedReferences(docID string) []OutdatedReference {
	refs := []OutdatedReference{}
	seen := map[string]bool{}

	for _, ref := range v.graph.ObsoleteReferences(docID) {
		refs = append(refs, OutdatedReference(ref))
		seen[ref.TargetID] = true
	}

	for _, neighbor := range v.graph.Traverse(docID, 1) {
		if neighbor.Direction != graph.DirectionOut || seen[neighbor.ID] {
			continue
		}
		doc, ok := v.graph.Document(neighbor.ID)
		if !ok || !doc.Status.IsObsolete() {
			continue
		}
		refs = append(refs, OutdatedReference{
			DocumentID:  docID,
			TargetID:    neighbor.ID,
			Description: fmt.Sprintf("references document %q with status %q", doc.Title, doc.Status),
		})
	}
	return refs
}
