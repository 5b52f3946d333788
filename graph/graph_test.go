package graph

import (
	"testing"
	"time"

	"github.com/poiesic/docgraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := New()
	require.NoError(t, err)
	return g
}

func addDocNodes(t *testing.T, g *Graph, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, g.AddNode(Node{ID: id, Kind: NodeDocument, Label: id}))
	}
}

func TestAddNode(t *testing.T) {
	g := newTestGraph(t)

	require.NoError(t, g.AddNode(Node{ID: "doc-a", Kind: NodeDocument}))
	assert.True(t, g.HasNode("doc-a"))
	assert.Equal(t, 1, g.NodeCount())

	err := g.AddNode(Node{})
	assert.ErrorIs(t, err, ErrEmptyNodeID)
}

func TestAddEdge(t *testing.T) {
	g := newTestGraph(t)
	addDocNodes(t, g, "a", "b")

	t.Run("valid edge", func(t *testing.T) {
		err := g.AddEdge("a", "b", core.RelationRelatesTo, 0.9, "")
		require.NoError(t, err)
	})

	t.Run("rejects dangling source", func(t *testing.T) {
		err := g.AddEdge("ghost", "b", core.RelationRelatesTo, 0.9, "")
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})

	t.Run("rejects dangling target", func(t *testing.T) {
		err := g.AddEdge("a", "ghost", core.RelationRelatesTo, 0.9, "")
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})

	t.Run("rejects self edge", func(t *testing.T) {
		err := g.AddEdge("a", "a", core.RelationRelatesTo, 0.9, "")
		assert.ErrorIs(t, err, ErrSelfEdge)
	})

	t.Run("rejects confidence out of range", func(t *testing.T) {
		err := g.AddEdge("a", "b", core.RelationRelatesTo, 1.5, "")
		assert.ErrorIs(t, err, ErrInvalidConfidence)
	})
}

func TestRemoveEdge(t *testing.T) {
	g := newTestGraph(t)
	addDocNodes(t, g, "a", "b")
	require.NoError(t, g.AddEdge("a", "b", core.RelationRelatesTo, 0.9, ""))

	require.NoError(t, g.RemoveEdge("a", "b"))
	assert.Empty(t, g.Traverse("a", 1))

	err := g.RemoveEdge("a", "b")
	assert.ErrorIs(t, err, ErrEdgeNotFound)
}

func TestRemoveNode_CascadesEdges(t *testing.T) {
	g := newTestGraph(t)
	addDocNodes(t, g, "a", "b", "c")
	require.NoError(t, g.AddEdge("a", "b", core.RelationRelatesTo, 0.9, ""))
	require.NoError(t, g.AddEdge("c", "b", core.RelationMentions, 0.9, ""))

	require.NoError(t, g.RemoveNode("b"))

	assert.False(t, g.HasNode("b"))
	assert.Empty(t, g.Traverse("a", 2))
	assert.Empty(t, g.Traverse("c", 2))
	assert.Equal(t, 0, g.Statistics().EdgeCount)

	err := g.RemoveNode("b")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestTraverse(t *testing.T) {
	// a -> b (RELATES_TO), b -> c (CONTRADICTS)
	g := newTestGraph(t)
	addDocNodes(t, g, "a", "b", "c")
	require.NoError(t, g.AddEdge("a", "b", core.RelationRelatesTo, 0.9, ""))
	require.NoError(t, g.AddEdge("b", "c", core.RelationContradicts, 0.8, ""))

	t.Run("bounded breadth-first with direction", func(t *testing.T) {
		results := g.Traverse("a", 2)
		require.Len(t, results, 2)

		assert.Equal(t, "b", results[0].ID)
		assert.Equal(t, 1, results[0].Depth)
		assert.Equal(t, DirectionOut, results[0].Direction)
		assert.Equal(t, core.RelationRelatesTo, results[0].Kind)

		assert.Equal(t, "c", results[1].ID)
		assert.Equal(t, 2, results[1].Depth)
		assert.Equal(t, DirectionOut, results[1].Direction)
		assert.Equal(t, core.RelationContradicts, results[1].Kind)
	})

	t.Run("depth limit excludes deeper nodes", func(t *testing.T) {
		results := g.Traverse("a", 1)
		require.Len(t, results, 1)
		assert.Equal(t, "b", results[0].ID)
	})

	t.Run("incoming edges are followed", func(t *testing.T) {
		results := g.Traverse("c", 1)
		require.Len(t, results, 1)
		assert.Equal(t, "b", results[0].ID)
		assert.Equal(t, DirectionIn, results[0].Direction)
	})

	t.Run("unknown start yields empty list", func(t *testing.T) {
		assert.Empty(t, g.Traverse("ghost", 3))
	})

	t.Run("zero depth yields empty list", func(t *testing.T) {
		assert.Empty(t, g.Traverse("a", 0))
	})
}

func TestTraverse_CycleSafety(t *testing.T) {
	g := newTestGraph(t)
	addDocNodes(t, g, "a", "b", "c")
	require.NoError(t, g.AddEdge("a", "b", core.RelationRelatesTo, 0.9, ""))
	require.NoError(t, g.AddEdge("b", "c", core.RelationRelatesTo, 0.9, ""))
	require.NoError(t, g.AddEdge("c", "a", core.RelationRelatesTo, 0.9, ""))

	results := g.Traverse("a", 10)

	seen := make(map[string]int)
	for _, r := range results {
		seen[r.ID]++
		assert.LessOrEqual(t, r.Depth, 10)
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "node %s visited more than once", id)
	}
	assert.NotContains(t, seen, "a")
}

func TestFindConflicts(t *testing.T) {
	g := newTestGraph(t)
	addDocNodes(t, g, "a", "b", "c")
	require.NoError(t, g.AddEdge("b", "c", core.RelationContradicts, 0.9, "torque values differ"))
	require.NoError(t, g.AddEdge("a", "b", core.RelationRelatesTo, 0.9, ""))

	t.Run("finds contradiction pair", func(t *testing.T) {
		conflicts := g.FindConflicts()
		require.Len(t, conflicts, 1)
		assert.Equal(t, "b", conflicts[0].Doc1ID)
		assert.Equal(t, "c", conflicts[0].Doc2ID)
		assert.Equal(t, "torque values differ", conflicts[0].Description)
		assert.Equal(t, "high", conflicts[0].Severity)
	})

	t.Run("same logical pair from either scope endpoint", func(t *testing.T) {
		fromB := g.FindConflicts("b")
		fromC := g.FindConflicts("c")
		require.Len(t, fromB, 1)
		require.Len(t, fromC, 1)
		assert.Equal(t, fromB[0].PairKey(), fromC[0].PairKey())
	})

	t.Run("scope excludes untouched conflicts", func(t *testing.T) {
		assert.Empty(t, g.FindConflicts("a"))
	})

	t.Run("reverse edge does not double-count", func(t *testing.T) {
		require.NoError(t, g.AddEdge("c", "b", core.RelationContradicts, 0.6, "stored both ways"))
		conflicts := g.FindConflicts()
		assert.Len(t, conflicts, 1)
	})
}

func TestFindConflicts_DeterministicDescription(t *testing.T) {
	g := newTestGraph(t)
	addDocNodes(t, g, "b", "c")
	require.NoError(t, g.AddEdge("c", "b", core.RelationContradicts, 0.6, "seen from c"))
	require.NoError(t, g.AddEdge("b", "c", core.RelationContradicts, 0.9, "seen from b"))

	// Both directions carry the conflict; the edge sourced at the smaller
	// id wins, whatever order the edges were added or iterated in.
	for range 5 {
		conflicts := g.FindConflicts()
		require.Len(t, conflicts, 1)
		assert.Equal(t, "seen from b", conflicts[0].Description)
		assert.Equal(t, "high", conflicts[0].Severity)
	}
}

func TestFindDocumentsByKeyword(t *testing.T) {
	g := newTestGraph(t)
	require.NoError(t, g.SetDocument(&core.Document{
		ID:       "std-1",
		Title:    "Welding Standard",
		Type:     core.DocumentTypeStandard,
		Keywords: []string{"сварка", "welding"},
	}))
	require.NoError(t, g.SetDocument(&core.Document{
		ID:       "man-1",
		Title:    "Assembly Manual",
		Type:     core.DocumentTypeManual,
		Keywords: []string{"Welding Procedures", "torque"},
	}))
	require.NoError(t, g.SetDocument(&core.Document{
		ID:    "man-2",
		Title: "Facilities Guide",
		Type:  core.DocumentTypeManual,
	}))

	docs := g.FindDocumentsByKeyword("welding")
	require.Len(t, docs, 2)
	// Substring match is case-insensitive; order is type, then title.
	assert.Equal(t, "std-1", docs[0].ID)
	assert.Equal(t, "man-1", docs[1].ID)

	assert.Empty(t, g.FindDocumentsByKeyword("hydraulics"))
	assert.Empty(t, g.FindDocumentsByKeyword("  "))
}

func TestImpactAnalysis(t *testing.T) {
	g := newTestGraph(t)
	require.NoError(t, g.SetDocument(&core.Document{
		ID:    "spec-1",
		Title: "Wing Spec",
		Type:  core.DocumentTypeSpecification,
	}))
	addDocNodes(t, g, "std-1", "bare-doc")
	require.NoError(t, g.AddEdge("spec-1", "std-1", core.RelationRelatesTo, 0.9, ""))
	require.NoError(t, g.AddEdge("bare-doc", "std-1", core.RelationRelatesTo, 0.9, ""))
	require.NoError(t, g.AddEdge("std-1", "bare-doc", core.RelationMentions, 0.9, ""))

	dependents := g.ImpactAnalysis("std-1")
	require.Len(t, dependents, 2)

	ids := []string{dependents[0].ID, dependents[1].ID}
	assert.Contains(t, ids, "spec-1")
	// A dependent without metadata still shows up, id-only.
	assert.Contains(t, ids, "bare-doc")

	assert.Empty(t, g.ImpactAnalysis("bare-doc"))
}

func TestReplacementChain(t *testing.T) {
	// rev-c replaces rev-b replaces rev-a; side-doc merely relates.
	g := newTestGraph(t)
	addDocNodes(t, g, "rev-a", "rev-b", "rev-c", "side-doc")
	require.NoError(t, g.AddEdge("rev-b", "rev-a", core.RelationRelatesTo, 1, "устарел, заменён на GOST-2"))
	require.NoError(t, g.AddEdge("rev-c", "rev-b", core.RelationRelatesTo, 1, "replaced by revision C"))
	require.NoError(t, g.AddEdge("side-doc", "rev-a", core.RelationRelatesTo, 0.9, "same assembly"))

	chain := g.ReplacementChain("rev-a")
	require.Len(t, chain, 2)
	assert.Equal(t, ReplacementStep{DocumentID: "rev-b", Steps: 1}, chain[0])
	assert.Equal(t, ReplacementStep{DocumentID: "rev-c", Steps: 2}, chain[1])

	assert.Empty(t, g.ReplacementChain("rev-c"))
	assert.Empty(t, g.ReplacementChain("ghost"))
}

func TestFindDocumentsByTerm(t *testing.T) {
	g := newTestGraph(t)
	addDocNodes(t, g, "doc-1", "doc-2")
	require.NoError(t, g.SetTerm(&core.Term{Name: "fuselage", Definition: "aircraft body"}))
	require.NoError(t, g.AddEdge("doc-2", "fuselage", core.RelationMentions, 1, ""))
	require.NoError(t, g.AddEdge("doc-1", "fuselage", core.RelationMentions, 1, ""))

	docs := g.FindDocumentsByTerm("fuselage")
	assert.Equal(t, []string{"doc-1", "doc-2"}, docs)

	assert.Empty(t, g.FindDocumentsByTerm("unknown"))
}

func TestTermDefinition(t *testing.T) {
	g := newTestGraph(t)
	require.NoError(t, g.SetTerm(&core.Term{
		Name:        "longeron",
		Definition:  "longitudinal structural member",
		Translation: "лонжерон",
		Category:    "structure",
	}))

	term, ok := g.TermDefinition("longeron")
	require.True(t, ok)
	assert.Equal(t, "лонжерон", term.Translation)

	_, ok = g.TermDefinition("unknown")
	assert.False(t, ok)
}

func TestObsoleteReferences(t *testing.T) {
	g := newTestGraph(t)
	addDocNodes(t, g, "manual", "old-standard")
	require.NoError(t, g.AddEdge("manual", "old-standard", core.RelationHasObsoleteReference, 1, "superseded in 2020"))

	refs := g.ObsoleteReferences("manual")
	require.Len(t, refs, 1)
	assert.Equal(t, "old-standard", refs[0].TargetID)
	assert.Equal(t, "superseded in 2020", refs[0].Description)

	assert.Empty(t, g.ObsoleteReferences("old-standard"))
}

func TestCheckFreshness(t *testing.T) {
	g := newTestGraph(t)
	require.NoError(t, g.SetDocument(&core.Document{
		ID:        "active-doc",
		Title:     "Active Manual",
		Status:    core.StatusActive,
		IssueDate: time.Now().AddDate(0, -1, 0),
	}))
	require.NoError(t, g.SetDocument(&core.Document{
		ID:        "old-doc",
		Title:     "Old Standard",
		Status:    core.ParseDocumentStatus("устаревший"),
		IssueDate: time.Now().AddDate(-2, 0, 0),
	}))

	t.Run("marks obsolete statuses", func(t *testing.T) {
		infos := g.CheckFreshness("old-doc")
		require.Len(t, infos, 1)
		assert.True(t, infos[0].IsObsolete)
	})

	t.Run("active document is fresh", func(t *testing.T) {
		infos := g.CheckFreshness("active-doc")
		require.Len(t, infos, 1)
		assert.False(t, infos[0].IsObsolete)
	})

	t.Run("no ids covers all documents", func(t *testing.T) {
		infos := g.CheckFreshness()
		assert.Len(t, infos, 2)
	})

	t.Run("unknown ids are skipped", func(t *testing.T) {
		assert.Empty(t, g.CheckFreshness("ghost"))
	})
}

func TestStatistics(t *testing.T) {
	g := newTestGraph(t)
	addDocNodes(t, g, "a", "b", "c")
	require.NoError(t, g.AddEdge("a", "b", core.RelationRelatesTo, 0.9, ""))
	require.NoError(t, g.AddEdge("b", "c", core.RelationContradicts, 0.8, ""))

	stats := g.Statistics()
	assert.Equal(t, 3, stats.NodeCount)
	assert.Equal(t, 2, stats.EdgeCount)
	assert.InDelta(t, 2.0/6.0, stats.Density, 1e-9)
	assert.Equal(t, 1, stats.EdgeKindCounts[core.RelationRelatesTo])
	assert.Equal(t, 1, stats.EdgeKindCounts[core.RelationContradicts])

	require.NotEmpty(t, stats.TopByCentrality)
	assert.Equal(t, "b", stats.TopByCentrality[0].ID)
	assert.InDelta(t, 1.0, stats.TopByCentrality[0].Centrality, 1e-9)
}

func TestStatistics_Empty(t *testing.T) {
	g := newTestGraph(t)
	stats := g.Statistics()
	assert.Equal(t, 0, stats.NodeCount)
	assert.Zero(t, stats.Density)
	assert.Empty(t, stats.TopByCentrality)
}

func TestLoad(t *testing.T) {
	g := newTestGraph(t)

	nodes := []Node{
		{ID: "a", Kind: NodeDocument},
		{ID: "b", Kind: NodeDocument},
	}
	edges := []Edge{
		{Source: "a", Target: "b", Kind: core.RelationRelatesTo, Confidence: 0.9},
		{Source: "a", Target: "ghost", Kind: core.RelationRelatesTo, Confidence: 0.9},
	}
	docs := []*core.Document{
		{ID: "a", Title: "Doc A", Status: core.StatusActive},
	}
	terms := []*core.Term{
		{Name: "spar", Definition: "wing structural member"},
	}

	report, err := g.Load(nodes, edges, docs, terms)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Nodes)
	assert.Equal(t, 1, report.Edges)
	assert.Equal(t, 1, report.SkippedEdges)
	assert.Equal(t, 1, report.Documents)
	assert.Equal(t, 1, report.Terms)

	// The term load created its node alongside the two explicit ones.
	assert.Equal(t, 3, g.NodeCount())
}
