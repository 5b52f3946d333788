package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for chunk records.
// It is generated by content-based hashing so that re-ingesting the same
// text produces the same chunk ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentType classifies a document within the technical corpus.
type DocumentType int

const (
	// DocumentTypeDrawing represents an engineering drawing.
	DocumentTypeDrawing DocumentType = iota + 1
	// DocumentTypeSpecification represents a design specification.
	DocumentTypeSpecification
	// DocumentTypeStandard represents an industry standard.
	DocumentTypeStandard
	// DocumentTypeManual represents a maintenance or repair manual.
	DocumentTypeManual
	// DocumentTypeCertificate represents a material certificate.
	DocumentTypeCertificate
	// DocumentTypeReport represents a test report.
	DocumentTypeReport
	// DocumentTypeOther represents any other document kind.
	DocumentTypeOther
)

var documentTypeNames = map[DocumentType]string{
	DocumentTypeDrawing:       "drawing",
	DocumentTypeSpecification: "specification",
	DocumentTypeStandard:      "standard",
	DocumentTypeManual:        "manual",
	DocumentTypeCertificate:   "certificate",
	DocumentTypeReport:        "report",
	DocumentTypeOther:         "other",
}

// String returns the canonical lowercase name of the document type.
func (t DocumentType) String() string {
	if name, ok := documentTypeNames[t]; ok {
		return name
	}
	return "other"
}

// ParseDocumentType maps a textual type label to a DocumentType.
// Unknown labels map to DocumentTypeOther.
func ParseDocumentType(s string) DocumentType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drawing", "чертеж", "чертёж":
		return DocumentTypeDrawing
	case "specification", "spec", "спецификация":
		return DocumentTypeSpecification
	case "standard", "стандарт", "гост":
		return DocumentTypeStandard
	case "manual", "repair_manual", "руководство":
		return DocumentTypeManual
	case "certificate", "material_cert", "сертификат":
		return DocumentTypeCertificate
	case "report", "test_report", "отчет", "отчёт":
		return DocumentTypeReport
	default:
		return DocumentTypeOther
	}
}

// DocumentStatus tracks the lifecycle state of a document.
type DocumentStatus int

const (
	// StatusActive marks a document that is currently in force.
	StatusActive DocumentStatus = iota + 1
	// StatusDeprecated marks a document slated for replacement.
	StatusDeprecated
	// StatusObsolete marks a document that has been superseded.
	StatusObsolete
	// StatusArchived marks a document retained for historical reference.
	StatusArchived
)

var documentStatusNames = map[DocumentStatus]string{
	StatusActive:     "active",
	StatusDeprecated: "deprecated",
	StatusObsolete:   "obsolete",
	StatusArchived:   "archived",
}

// String returns the canonical lowercase name of the status.
func (s DocumentStatus) String() string {
	if name, ok := documentStatusNames[s]; ok {
		return name
	}
	return "active"
}

// ParseDocumentStatus maps a textual status label to a DocumentStatus.
// Matching is case-insensitive; Russian status labels from legacy metadata
// files are recognized. Unknown labels map to StatusActive.
func ParseDocumentStatus(s string) DocumentStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deprecated", "устаревающий":
		return StatusDeprecated
	case "obsolete", "устаревший", "устарел":
		return StatusObsolete
	case "archived", "архивный":
		return StatusArchived
	default:
		return StatusActive
	}
}

// IsObsolete reports whether the status marks the document as no longer
// authoritative.
func (s DocumentStatus) IsObsolete() bool {
	return s == StatusDeprecated || s == StatusObsolete
}

// Document is a corpus document's metadata record.
// Documents are created at ingestion, mutated only by explicit update, and
// removed only by an explicit delete that also removes dependent graph edges.
type Document struct {
	ID        string
	Title     string
	Type      DocumentType
	Version   string
	Status    DocumentStatus
	IssueDate time.Time // zero when unknown
	Author    string
	Keywords  []string
	CreatedAt time.Time
}

// ChunkRecord is a bounded text segment of a document, carrying its
// embedding vector and citation metadata. Records are immutable once stored
// except via full replace (delete + re-add).
type ChunkRecord struct {
	Id         ID
	DocumentID string
	Text       string
	Vector     []float32
	DocName    string // document title for citations
	Chapter    string // chapter/section label for citations
	Extra      map[string]string
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// CollectionMeta fixes the identity and vector dimensionality of a named
// vector collection. The dimension is set at creation time; every vector
// added to the collection must match it.
type CollectionMeta struct {
	Name      string
	Dimension int
	CreatedAt time.Time
}

// Term is a glossary entry linked to documents that mention it.
// Related terms are advisory and symmetric.
type Term struct {
	Name         string
	Definition   string
	Translation  string
	Category     string
	RelatedTerms []string
	Examples     []string
}

// RelationKind types an edge in the relation graph.
type RelationKind int

const (
	// RelationRelatesTo is a generic document-to-document reference.
	RelationRelatesTo RelationKind = iota + 1
	// RelationContradicts marks two documents with conflicting requirements.
	// Semantically symmetric; conflict queries treat it as undirected.
	RelationContradicts
	// RelationMentions links a document to a glossary term it uses.
	RelationMentions
	// RelationHasSection links a document to one of its sections.
	RelationHasSection
	// RelationHasObsoleteReference marks a reference to a superseded document.
	RelationHasObsoleteReference
	// RelationRelatedTo links two glossary terms.
	RelationRelatedTo
)

var relationKindNames = map[RelationKind]string{
	RelationRelatesTo:            "RELATES_TO",
	RelationContradicts:          "CONTRADICTS",
	RelationMentions:             "MENTIONS",
	RelationHasSection:           "HAS_SECTION",
	RelationHasObsoleteReference: "HAS_OBSOLETE_REFERENCE",
	RelationRelatedTo:            "RELATED_TO",
}

// String returns the canonical edge label.
func (k RelationKind) String() string {
	if name, ok := relationKindNames[k]; ok {
		return name
	}
	return "RELATES_TO"
}

// ParseRelationKind maps a relation label to a RelationKind.
// Legacy relation files carry free-form Russian labels; anything not
// recognized maps to RelationRelatesTo.
func ParseRelationKind(s string) RelationKind {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CONTRADICTS", "ПРОТИВОРЕЧИТ":
		return RelationContradicts
	case "MENTIONS", "УПОМИНАЕТ":
		return RelationMentions
	case "HAS_SECTION":
		return RelationHasSection
	case "HAS_OBSOLETE_REFERENCE":
		return RelationHasObsoleteReference
	case "RELATED_TO":
		return RelationRelatedTo
	default:
		return RelationRelatesTo
	}
}

// Citation is a provenance record attached to an assembled answer context.
// Citations are derived, never persisted independently.
type Citation struct {
	DocumentName string
	Chapter      string
	ChunkID      ID
	Excerpt      string
}

// ConflictRecord reports a contradiction between two documents.
// The pair is unordered for reporting purposes: the same conflict must not
// be reported twice when queried from either endpoint.
type ConflictRecord struct {
	Doc1ID      string
	Doc2ID      string
	Kind        string
	Description string
	Severity    string
}

// PairKey returns an order-independent key identifying the conflicting pair.
func (c ConflictRecord) PairKey() string {
	if c.Doc1ID <= c.Doc2ID {
		return c.Doc1ID + "\x00" + c.Doc2ID
	}
	return c.Doc2ID + "\x00" + c.Doc1ID
}

// VectorHit is a chunk record matched by vector similarity search,
// with its score mapped to [0,1].
type VectorHit struct {
	Record *ChunkRecord
	Score  float32
}
