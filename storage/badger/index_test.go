package badger

import (
	"context"
	"testing"

	"github.com/poiesic/docgraph/core"
	"github.com/poiesic/docgraph/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) storage.VectorIndex {
	t.Helper()
	index, _, err := NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })
	return index
}

func chunkWithVector(docID, text string, vector []float32) *core.ChunkRecord {
	return &core.ChunkRecord{
		DocumentID: docID,
		Text:       text,
		Vector:     vector,
		DocName:    docID + ".pdf",
		Chapter:    "1",
	}
}

func TestCreateCollection(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	t.Run("creates and reports dimension", func(t *testing.T) {
		err := index.CreateCollection(ctx, "docs", 3)
		require.NoError(t, err)

		dim, err := index.CollectionDimension(ctx, "docs")
		require.NoError(t, err)
		assert.Equal(t, 3, dim)
	})

	t.Run("idempotent with same dimension", func(t *testing.T) {
		err := index.CreateCollection(ctx, "docs", 3)
		require.NoError(t, err)
	})

	t.Run("rejects dimension conflict", func(t *testing.T) {
		err := index.CreateCollection(ctx, "docs", 5)
		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrDimensionMismatch)
	})

	t.Run("rejects invalid name", func(t *testing.T) {
		require.Error(t, index.CreateCollection(ctx, "", 3))
		require.Error(t, index.CreateCollection(ctx, "a:b", 3))
	})

	t.Run("rejects invalid dimension", func(t *testing.T) {
		require.Error(t, index.CreateCollection(ctx, "bad", 0))
	})
}

func TestCollectionDimension_Unknown(t *testing.T) {
	index := newTestIndex(t)

	_, err := index.CollectionDimension(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrCollectionNotFound)
}

func TestUpsert(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()
	require.NoError(t, index.CreateCollection(ctx, "docs", 3))

	t.Run("assigns content ID and timestamps", func(t *testing.T) {
		records, err := index.Upsert(ctx, "docs",
			chunkWithVector("doc-1", "first chunk", []float32{1, 0, 0}))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, core.IDFromContent("first chunk"), records[0].Id)
		assert.False(t, records[0].InsertedAt.IsZero())
		assert.False(t, records[0].UpdatedAt.IsZero())
	})

	t.Run("round-trips through Get", func(t *testing.T) {
		record := chunkWithVector("doc-1", "second chunk", []float32{0, 1, 0})
		record.Extra = map[string]string{"page": "4"}
		_, err := index.Upsert(ctx, "docs", record)
		require.NoError(t, err)

		got, err := index.Get(ctx, "docs", record.Id)
		require.NoError(t, err)
		assert.Equal(t, "second chunk", got.Text)
		assert.Equal(t, "doc-1", got.DocumentID)
		assert.Equal(t, "4", got.Extra["page"])
		assert.Equal(t, []float32{0, 1, 0}, got.Vector)
	})

	t.Run("replaces existing record", func(t *testing.T) {
		record := chunkWithVector("doc-1", "third chunk", []float32{0, 0, 1})
		_, err := index.Upsert(ctx, "docs", record)
		require.NoError(t, err)

		record.Chapter = "9"
		_, err = index.Upsert(ctx, "docs", record)
		require.NoError(t, err)

		got, err := index.Get(ctx, "docs", record.Id)
		require.NoError(t, err)
		assert.Equal(t, "9", got.Chapter)

		count, err := index.Count(ctx, "docs")
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("rejects wrong dimension", func(t *testing.T) {
		_, err := index.Upsert(ctx, "docs",
			chunkWithVector("doc-1", "wrong", []float32{1, 0}))
		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrDimensionMismatch)
	})

	t.Run("rejects unknown collection", func(t *testing.T) {
		_, err := index.Upsert(ctx, "missing",
			chunkWithVector("doc-1", "text", []float32{1, 0, 0}))
		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrCollectionNotFound)
	})

	t.Run("rejects invalid record", func(t *testing.T) {
		_, err := index.Upsert(ctx, "docs",
			chunkWithVector("doc-1", "", []float32{1, 0, 0}))
		require.Error(t, err)
	})
}

func TestDelete(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()
	require.NoError(t, index.CreateCollection(ctx, "docs", 3))

	record := chunkWithVector("doc-1", "to delete", []float32{1, 0, 0})
	_, err := index.Upsert(ctx, "docs", record)
	require.NoError(t, err)

	err = index.Delete(ctx, "docs", record.Id)
	require.NoError(t, err)

	_, err = index.Get(ctx, "docs", record.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = index.Delete(ctx, "docs", record.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSearch(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()
	require.NoError(t, index.CreateCollection(ctx, "docs", 3))

	// Scores against query (1,0,0): aligned 1.0, orthogonal 0.5, opposed 0.0.
	_, err := index.Upsert(ctx, "docs",
		chunkWithVector("doc-a", "aligned", []float32{2, 0, 0}),
		chunkWithVector("doc-b", "orthogonal", []float32{0, 1, 0}),
		chunkWithVector("doc-c", "opposed", []float32{-1, 0, 0}))
	require.NoError(t, err)

	query := []float32{1, 0, 0}

	t.Run("threshold filters low scores", func(t *testing.T) {
		hits, err := index.Search(ctx, "docs", query, 0.65, 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "aligned", hits[0].Record.Text)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	})

	t.Run("every hit meets the threshold", func(t *testing.T) {
		hits, err := index.Search(ctx, "docs", query, 0.4, 10)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		for _, hit := range hits {
			assert.GreaterOrEqual(t, hit.Score, float32(0.4))
		}
	})

	t.Run("sorted descending by score", func(t *testing.T) {
		hits, err := index.Search(ctx, "docs", query, 0, 10)
		require.NoError(t, err)
		require.Len(t, hits, 3)
		assert.Equal(t, "aligned", hits[0].Record.Text)
		assert.Equal(t, "orthogonal", hits[1].Record.Text)
		assert.Equal(t, "opposed", hits[2].Record.Text)
	})

	t.Run("limit caps results", func(t *testing.T) {
		hits, err := index.Search(ctx, "docs", query, 0, 2)
		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})

	t.Run("allow-list restricts documents", func(t *testing.T) {
		hits, err := index.Search(ctx, "docs", query, 0, 10, "doc-b")
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "doc-b", hits[0].Record.DocumentID)
	})

	t.Run("magnitude does not affect score", func(t *testing.T) {
		hits, err := index.Search(ctx, "docs", []float32{5, 0, 0}, 0.9, 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	})

	t.Run("empty collection returns empty not error", func(t *testing.T) {
		require.NoError(t, index.CreateCollection(ctx, "empty", 3))
		hits, err := index.Search(ctx, "empty", query, 0.65, 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("unknown collection errors", func(t *testing.T) {
		_, err := index.Search(ctx, "missing", query, 0.65, 10)
		assert.ErrorIs(t, err, storage.ErrCollectionNotFound)
	})

	t.Run("query dimension mismatch errors", func(t *testing.T) {
		_, err := index.Search(ctx, "docs", []float32{1, 0}, 0.65, 10)
		assert.ErrorIs(t, err, storage.ErrDimensionMismatch)
	})
}

func TestCosineSimilarity01(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity01([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-6)
	assert.InDelta(t, 0.5, cosineSimilarity01([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity01([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Equal(t, float32(0), cosineSimilarity01([]float32{0, 0}, []float32{1, 0}))
}
