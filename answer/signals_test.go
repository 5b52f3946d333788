package answer

import (
	"testing"

	"github.com/poiesic/docgraph/core"
	"github.com/poiesic/docgraph/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSignalGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.New()
	require.NoError(t, err)

	for _, id := range []string{"manual", "standard", "old-spec"} {
		require.NoError(t, g.AddNode(graph.Node{ID: id, Kind: graph.NodeDocument, Label: id}))
	}
	require.NoError(t, g.AddEdge("manual", "standard", core.RelationRelatesTo, 0.9, ""))
	require.NoError(t, g.AddEdge("standard", "old-spec", core.RelationContradicts, 0.9, "limits differ"))
	require.NoError(t, g.AddEdge("manual", "old-spec", core.RelationHasObsoleteReference, 1, "superseded"))
	require.NoError(t, g.SetDocument(&core.Document{
		ID:     "old-spec",
		Title:  "Old Spec",
		Status: core.StatusObsolete,
	}))
	return g
}

func TestSignalSource_Collect(t *testing.T) {
	source := NewSignalSource(newSignalGraph(t))
	require.True(t, source.Present())

	signals := source.Collect("manual")

	assert.Len(t, signals.RelatedDocuments, 2)

	require.Len(t, signals.Conflicts, 1)
	assert.Equal(t, "limits differ", signals.Conflicts[0].Description)

	require.Len(t, signals.ObsoleteReferences, 1)
	assert.Equal(t, "old-spec", signals.ObsoleteReferences[0].TargetID)

	require.Len(t, signals.StaleDocuments, 1)
	assert.Equal(t, "old-spec", signals.StaleDocuments[0].DocumentID)
}

func TestSignalSource_AbsentGraph(t *testing.T) {
	source := NewSignalSource(nil)

	assert.False(t, source.Present())
	signals := source.Collect("manual")
	assert.True(t, signals.Empty())
}

func TestSignalSource_UnknownSeed(t *testing.T) {
	source := NewSignalSource(newSignalGraph(t))

	signals := source.Collect("ghost")
	assert.Empty(t, signals.RelatedDocuments)
	assert.Empty(t, signals.Conflicts)

	signals = source.Collect("")
	assert.True(t, signals.Empty())
}
