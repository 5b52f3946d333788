package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/docgraph/ai"
	"github.com/poiesic/docgraph/core"
	"github.com/poiesic/docgraph/storage"
)

// defaultBatchSize is the number of chunk texts embedded per call.
const defaultBatchSize = 16

// Pipeline turns raw document text into embedded chunk records in the
// vector index. Embedding batches run concurrently on a worker pool; an
// embedder failure degrades that batch to fallback vectors instead of
// failing the whole document.
type Pipeline struct {
	index      storage.VectorIndex
	embedder   ai.Embedder
	chunker    *Chunker
	collection string
	dimension  int
	batchSize  int
	pool       *ants.Pool
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many chunk texts are embedded per call.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithChunker sets a custom chunker.
func WithChunker(chunker *Chunker) Option {
	return func(p *Pipeline) error {
		if chunker == nil {
			return ErrInvalidChunkSize
		}
		p.chunker = chunker
		return nil
	}
}

// WithPipelineLogger sets a custom logger.
// Default is slog.Default().
func WithPipelineLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline writing to the named
// collection. The collection is created (idempotently) with the given
// dimension on first ingestion.
func NewPipeline(
	index storage.VectorIndex,
	embedder ai.Embedder,
	collection string,
	dimension int,
	opts ...Option,
) (*Pipeline, error) {
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if collection == "" {
		return nil, ErrCollectionRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	chunker, err := NewChunker()
	if err != nil {
		pool.Release()
		return nil, err
	}

	p := &Pipeline{
		index:      index,
		embedder:   embedder,
		chunker:    chunker,
		collection: collection,
		dimension:  dimension,
		batchSize:  defaultBatchSize,
		pool:       pool,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingestion")

	return p, nil
}

// DocumentInput carries the citation metadata attached to every chunk of a
// document.
type DocumentInput struct {
	ID      string
	Name    string
	Chapter string
	Extra   map[string]string
}

// IngestDocument chunks the text, embeds the chunks in concurrent batches,
// and upserts the resulting records. Chunk IDs are content hashes, so
// re-ingesting the same document replaces its records in place.
// An embedder failure is logged and the affected batch falls back to zero
// vectors; structural storage errors are returned.
func (p *Pipeline) IngestDocument(ctx context.Context, doc DocumentInput, text string) ([]*core.ChunkRecord, error) {
	if doc.ID == "" {
		return nil, core.ErrEmptyDocumentID
	}
	if err := p.index.CreateCollection(ctx, p.collection, p.dimension); err != nil {
		return nil, err
	}

	var records []*core.ChunkRecord
	for chunk := range p.chunker.Chunk(text) {
		records = append(records, &core.ChunkRecord{
			DocumentID: doc.ID,
			Text:       chunk,
			DocName:    doc.Name,
			Chapter:    doc.Chapter,
			Extra:      doc.Extra,
		})
	}
	if len(records) == 0 {
		p.logger.Debug("document produced no chunks", "document", doc.ID)
		return nil, nil
	}

	var wg sync.WaitGroup
	for batchStart := 0; batchStart < len(records); batchStart += p.batchSize {
		batch := records[batchStart:min(batchStart+p.batchSize, len(records))]
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			p.embedBatch(ctx, batch)
		})
		if submitErr != nil {
			// Pool rejected the task; embed inline rather than drop chunks.
			p.embedBatch(ctx, batch)
			wg.Done()
		}
	}
	wg.Wait()

	stored, err := p.index.Upsert(ctx, p.collection, records...)
	if err != nil {
		return nil, err
	}

	p.logger.Info("document ingested", "document", doc.ID, "chunks", len(stored))
	return stored, nil
}

// embedBatch fills in the vectors for one batch of records, substituting
// zero vectors when the embedder fails.
func (p *Pipeline) embedBatch(ctx context.Context, batch []*core.ChunkRecord) {
	texts := make([]string, len(batch))
	for i, record := range batch {
		texts[i] = record.Text
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil || len(vectors) != len(batch) {
		p.logger.Error("embedding failed, using fallback vectors", "chunks", len(batch), "err", err)
		for _, record := range batch {
			record.Vector = ai.FallbackVector(p.dimension)
		}
		return
	}
	for i, record := range batch {
		record.Vector = vectors[i]
	}
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
