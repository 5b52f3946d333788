package storage

import (
	"context"

	"github.com/poiesic/docgraph/core"
)

// VectorIndex stores chunk vectors and payloads per named collection and
// serves similarity search with a score threshold.
// Implementations must be thread-safe: concurrent reads may run in
// parallel, mutations are serialized per collection.
type VectorIndex interface {
	// CreateCollection creates a named collection with a fixed vector
	// dimensionality. Creation is idempotent: calling it when the collection
	// already exists with the same dimension is a no-op. A dimension
	// conflict returns ErrDimensionMismatch.
	CreateCollection(ctx context.Context, name string, dimension int) error

	// CollectionDimension returns the dimensionality of a collection.
	// Returns ErrCollectionNotFound for an unknown collection.
	CollectionDimension(ctx context.Context, name string) (int, error)

	// Upsert adds or replaces chunk records in a collection.
	// Records with Id=0 get a content-hash ID from their text.
	// Sets InsertedAt/UpdatedAt timestamps.
	// Returns ErrCollectionNotFound for an unknown collection and
	// ErrDimensionMismatch when a record's vector length does not match
	// the collection dimension; nothing is partially applied.
	Upsert(ctx context.Context, collection string, records ...*core.ChunkRecord) ([]*core.ChunkRecord, error)

	// Get retrieves a single chunk record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	Get(ctx context.Context, collection string, id core.ID) (*core.ChunkRecord, error)

	// Delete removes chunk records by their IDs.
	// Returns ErrNotFound if any record doesn't exist.
	Delete(ctx context.Context, collection string, ids ...core.ID) error

	// Search finds chunk records similar to the query vector.
	// The similarity score is cosine similarity mapped to [0,1]; only
	// matches with score >= threshold are returned, sorted descending by
	// score with insertion-order tie-breaking, up to limit results. This is
	// the single quality gate of the retrieval path: callers do not
	// re-filter. When allowedDocIDs is non-empty, results are restricted to
	// chunks whose DocumentID is in the set.
	// A search on an existing but empty collection returns an empty list;
	// a search on an unknown collection returns ErrCollectionNotFound.
	Search(ctx context.Context, collection string, vector []float32, threshold float32, limit int, allowedDocIDs ...string) ([]*core.VectorHit, error)

	// Count returns the number of chunk records in a collection.
	Count(ctx context.Context, collection string) (int, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
