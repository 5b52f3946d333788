package answer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/docgraph/core"
)

const (
	// DefaultTokenBudget is the default context budget in whitespace-
	// delimited words.
	DefaultTokenBudget = 1000

	// NoInformationSentinel is returned instead of an empty context when
	// neither vector hits nor graph signals exist.
	NoInformationSentinel = "No relevant information is available in the document corpus."

	// UnknownDocument and UnspecifiedChapter are citation placeholders for
	// hits with missing metadata. Partial data must never make a citation
	// vanish silently.
	UnknownDocument    = "unknown document"
	UnspecifiedChapter = "unspecified chapter"

	// excerptLength bounds the citation excerpt in characters.
	excerptLength = 120
)

// Assembler merges vector hits and graph signals into a single budgeted
// context with an ordered citation list.
type Assembler struct {
	budget int
	logger *slog.Logger
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithTokenBudget sets the context budget in whitespace-delimited words.
func WithTokenBudget(budget int) AssemblerOption {
	return func(a *Assembler) { a.budget = budget }
}

// NewAssembler creates a context assembler.
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		budget: DefaultTokenBudget,
		logger: slog.Default().With("component", "assembler"),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.budget < 1 {
		a.budget = DefaultTokenBudget
	}
	return a
}

// AssembledContext is the budgeted evidence for one query.
type AssembledContext struct {
	// Text is the primary vector-derived context, one "[Chunk N]" part per
	// accumulated hit. Holds the no-information sentinel when Sentinel is set.
	Text string
	// GraphText is the delimited advisory section, empty without signals.
	GraphText string
	Citations []core.Citation
	Tokens    int
	Sentinel  bool
}

// Build greedily accumulates hits (already sorted by score) into the
// context, counting tokens as whitespace-delimited words. Accumulation
// stops after the chunk that overruns the budget; that chunk is still
// included, so the context is at least the budget but never over by more
// than one chunk. Each accumulated chunk yields one citation in order.
func (a *Assembler) Build(hits []*core.VectorHit, signals *GraphSignals) *AssembledContext {
	result := &AssembledContext{Citations: []core.Citation{}}

	var parts []string
	for _, hit := range hits {
		if hit == nil || hit.Record == nil {
			continue
		}
		text := hit.Record.Text
		parts = append(parts, fmt.Sprintf("[Chunk %d] %s", len(parts)+1, text))
		result.Citations = append(result.Citations, citationFor(hit.Record))

		result.Tokens += len(strings.Fields(text))
		if result.Tokens > a.budget {
			break
		}
	}

	result.GraphText = signals.Render()

	if len(parts) == 0 && result.GraphText == "" {
		result.Text = NoInformationSentinel
		result.Sentinel = true
		return result
	}

	result.Text = strings.Join(parts, "\n")
	a.logger.Debug("context assembled",
		"chunks", len(parts),
		"tokens", result.Tokens,
		"graph_signals", result.GraphText != "")
	return result
}

// citationFor derives a citation from a chunk record, substituting
// placeholders for missing metadata.
func citationFor(record *core.ChunkRecord) core.Citation {
	docName := record.DocName
	if docName == "" {
		docName = UnknownDocument
	}
	chapter := record.Chapter
	if chapter == "" {
		chapter = UnspecifiedChapter
	}
	excerpt := record.Text
	if len(excerpt) > excerptLength {
		excerpt = excerpt[:excerptLength] + "..."
	}
	return core.Citation{
		DocumentName: docName,
		Chapter:      chapter,
		ChunkID:      record.Id,
		Excerpt:      excerpt,
	}
}
