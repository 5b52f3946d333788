package answer

import (
	"strings"
	"testing"

	"github.com/poiesic/docgraph/core"
	"github.com/poiesic/docgraph/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hitWithWords(doc, chapter string, words int) *core.VectorHit {
	text := strings.TrimSpace(strings.Repeat("word ", words))
	return &core.VectorHit{
		Record: &core.ChunkRecord{
			Id:         core.IDFromContent(doc + text),
			DocumentID: doc,
			Text:       text,
			DocName:    doc,
			Chapter:    chapter,
		},
		Score: 0.9,
	}
}

func TestBuild_StopAfterOverrun(t *testing.T) {
	// Budget 50, three hits of 20 words each: the third overruns the
	// budget (total 60) but is still included.
	assembler := NewAssembler(WithTokenBudget(50))

	hits := []*core.VectorHit{
		hitWithWords("doc-1", "1", 20),
		hitWithWords("doc-2", "2", 20),
		hitWithWords("doc-3", "3", 20),
	}

	result := assembler.Build(hits, nil)

	assert.Len(t, result.Citations, 3)
	assert.Equal(t, 60, result.Tokens)
	assert.Contains(t, result.Text, "[Chunk 3]")
	assert.False(t, result.Sentinel)
}

func TestBuild_BudgetExcludesLaterChunks(t *testing.T) {
	assembler := NewAssembler(WithTokenBudget(30))

	hits := []*core.VectorHit{
		hitWithWords("doc-1", "1", 20),
		hitWithWords("doc-2", "2", 20),
		hitWithWords("doc-3", "3", 20),
	}

	result := assembler.Build(hits, nil)

	// Second chunk overruns (40 > 30) and is kept; the third is not.
	assert.Len(t, result.Citations, 2)
	assert.NotContains(t, result.Text, "[Chunk 3]")
}

func TestBuild_CitationOrderAndContent(t *testing.T) {
	assembler := NewAssembler()

	hits := []*core.VectorHit{
		hitWithWords("Assembly Manual", "3", 5),
		hitWithWords("Welding Standard", "1", 5),
	}

	result := assembler.Build(hits, nil)

	require.Len(t, result.Citations, 2)
	assert.Equal(t, "Assembly Manual", result.Citations[0].DocumentName)
	assert.Equal(t, "3", result.Citations[0].Chapter)
	assert.Equal(t, "Welding Standard", result.Citations[1].DocumentName)
	assert.NotZero(t, result.Citations[0].ChunkID)
	assert.NotEmpty(t, result.Citations[0].Excerpt)
}

func TestBuild_PlaceholdersForMissingMetadata(t *testing.T) {
	assembler := NewAssembler()

	hit := &core.VectorHit{
		Record: &core.ChunkRecord{Id: 7, DocumentID: "doc-1", Text: "orphan chunk"},
		Score:  0.8,
	}

	result := assembler.Build([]*core.VectorHit{hit}, nil)

	require.Len(t, result.Citations, 1)
	assert.Equal(t, UnknownDocument, result.Citations[0].DocumentName)
	assert.Equal(t, UnspecifiedChapter, result.Citations[0].Chapter)
}

func TestBuild_Sentinel(t *testing.T) {
	assembler := NewAssembler()

	result := assembler.Build(nil, nil)

	assert.True(t, result.Sentinel)
	assert.Equal(t, NoInformationSentinel, result.Text)
	assert.Empty(t, result.Citations)
}

func TestBuild_GraphSignalsOnly(t *testing.T) {
	assembler := NewAssembler()

	signals := &GraphSignals{
		Conflicts: []*core.ConflictRecord{
			{Doc1ID: "a", Doc2ID: "b", Description: "torque differs", Severity: "high"},
		},
	}

	result := assembler.Build(nil, signals)

	assert.False(t, result.Sentinel)
	assert.Empty(t, result.Citations)
	assert.Contains(t, result.GraphText, "torque differs")
	assert.Contains(t, result.GraphText, "<BEGIN GRAPH CONTEXT>")
}

func TestBuild_GraphSectionSeparateFromCitations(t *testing.T) {
	assembler := NewAssembler()

	signals := &GraphSignals{
		RelatedDocuments: []graph.Neighbor{
			{ID: "doc-2", Kind: core.RelationRelatesTo, Depth: 1, Direction: graph.DirectionOut},
		},
	}

	result := assembler.Build([]*core.VectorHit{hitWithWords("doc-1", "1", 5)}, signals)

	// Graph evidence enriches the context but never produces citations.
	assert.Len(t, result.Citations, 1)
	assert.Contains(t, result.GraphText, "doc-2")
	assert.NotContains(t, result.Text, "doc-2")
}

func TestRenderSignals_Empty(t *testing.T) {
	assert.Empty(t, (&GraphSignals{}).Render())
	var nilSignals *GraphSignals
	assert.Empty(t, nilSignals.Render())
}
