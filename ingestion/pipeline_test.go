package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/docgraph/ai/mock"
	"github.com/poiesic/docgraph/core"
	"github.com/poiesic/docgraph/storage"
	"github.com/poiesic/docgraph/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDimension = 32

func newTestPipeline(t *testing.T, opts ...Option) (*Pipeline, storage.VectorIndex, *mock.MockEmbedder) {
	t.Helper()

	index, _, err := badger.NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	embedder := mock.NewMockEmbedder()
	embedder.Dimension = testDimension

	pipeline, err := NewPipeline(index, embedder, "docs", testDimension, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return pipeline, index, embedder
}

func TestNewPipeline_Validation(t *testing.T) {
	index, _, err := badger.NewMemoryIndex()
	require.NoError(t, err)
	defer index.Close()
	embedder := mock.NewMockEmbedder()

	_, err = NewPipeline(nil, embedder, "docs", testDimension)
	assert.ErrorIs(t, err, ErrVectorIndexRequired)

	_, err = NewPipeline(index, nil, "docs", testDimension)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewPipeline(index, embedder, "", testDimension)
	assert.ErrorIs(t, err, ErrCollectionRequired)
}

func TestIngestDocument(t *testing.T) {
	pipeline, index, _ := newTestPipeline(t)
	ctx := context.Background()

	doc := DocumentInput{
		ID:      "manual-1",
		Name:    "Assembly Manual",
		Chapter: "3",
	}
	text := "The wing spar must be inspected before assembly. " +
		"Torque values are listed in section four. " +
		"All fasteners require a corrosion check."

	records, err := pipeline.IngestDocument(ctx, doc, text)
	require.NoError(t, err)
	require.NotEmpty(t, records)

	for _, record := range records {
		assert.Equal(t, "manual-1", record.DocumentID)
		assert.Equal(t, "Assembly Manual", record.DocName)
		assert.Equal(t, "3", record.Chapter)
		assert.Len(t, record.Vector, testDimension)
		assert.NotZero(t, record.Id)
	}

	count, err := index.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, len(records), count)
}

func TestIngestDocument_Idempotent(t *testing.T) {
	pipeline, index, _ := newTestPipeline(t)
	ctx := context.Background()

	doc := DocumentInput{ID: "doc-1", Name: "Doc"}
	text := "Identical content produces identical chunk ids on every run."

	first, err := pipeline.IngestDocument(ctx, doc, text)
	require.NoError(t, err)
	second, err := pipeline.IngestDocument(ctx, doc, text)
	require.NoError(t, err)
	require.Equal(t, len(first), len(second))

	count, err := index.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, len(first), count)
}

func TestIngestDocument_EmbedderFailureFallsBack(t *testing.T) {
	pipeline, _, embedder := newTestPipeline(t)
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}

	records, err := pipeline.IngestDocument(context.Background(),
		DocumentInput{ID: "doc-1", Name: "Doc"},
		"Content that cannot be embedded right now.")
	require.NoError(t, err)
	require.NotEmpty(t, records)

	for _, record := range records {
		assert.Equal(t, make([]float32, testDimension), record.Vector)
	}
}

func TestIngestDocument_EmptyText(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t)

	records, err := pipeline.IngestDocument(context.Background(),
		DocumentInput{ID: "doc-1"}, "   ")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestIngestDocument_MissingID(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t)

	_, err := pipeline.IngestDocument(context.Background(), DocumentInput{}, "text")
	assert.ErrorIs(t, err, core.ErrEmptyDocumentID)
}

func TestIngestDocument_Batching(t *testing.T) {
	pipeline, _, embedder := newTestPipeline(t,
		WithBatchSize(2),
		WithPoolSize(1),
		WithChunker(mustChunker(t, WithChunkSize(20), WithOverlap(0))))

	text := "one two three four. five six seven eight. nine ten eleven twelve. thirteen fourteen."
	records, err := pipeline.IngestDocument(context.Background(),
		DocumentInput{ID: "doc-1"}, text)
	require.NoError(t, err)
	require.Greater(t, len(records), 2)

	// More than one batch means more than one embedder call.
	assert.Greater(t, embedder.CallCount(), 1)
}

func mustChunker(t *testing.T, opts ...ChunkerOption) *Chunker {
	t.Helper()
	c, err := NewChunker(opts...)
	require.NoError(t, err)
	return c
}
