// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docgraph/core"
	"github.com/poiesic/docgraph/storage"
)

// Index is a BadgerDB-backed vector index. Chunk records live under
// per-collection key prefixes; a collection metadata record fixes the
// vector dimensionality at creation time.
type Index struct {
	backend *Backend
	mu      sync.Mutex
	logger  *slog.Logger
}

var _ storage.VectorIndex = (*Index)(nil)

// NewIndex creates a vector index on top of an open backend.
func NewIndex(backend *Backend) (*Index, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	return &Index{
		backend: backend,
		logger:  slog.Default().With("component", "vector_index"),
	}, nil
}

// CreateCollection creates a named collection with a fixed dimensionality.
// Idempotent when called with the same name and dimension.
func (ix *Index) CreateCollection(ctx context.Context, name string, dimension int) error {
	if name == "" || strings.Contains(name, ":") {
		return fmt.Errorf("invalid collection name %q", name)
	}
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	return ix.backend.WithTx(func(tx *badger.Txn) error {
		existing, err := readCollectionMeta(tx, name)
		if err != nil && !errors.Is(err, storage.ErrCollectionNotFound) {
			return err
		}
		if existing != nil {
			if existing.Dimension != dimension {
				return fmt.Errorf("%w: collection %q has dimension %d, requested %d",
					storage.ErrDimensionMismatch, name, existing.Dimension, dimension)
			}
			return nil
		}

		meta := &core.CollectionMeta{
			Name:      name,
			Dimension: dimension,
			CreatedAt: time.Now(),
		}
		if err := tx.Set(makeCollectionMetaKey(name), storage.MarshalCollectionMeta(meta)); err != nil {
			return err
		}
		ix.logger.Info("collection created", "name", name, "dimension", dimension)
		return tx.Commit()
	}, true)
}

// CollectionDimension returns the dimensionality of a collection.
func (ix *Index) CollectionDimension(ctx context.Context, name string) (int, error) {
	var dimension int
	err := ix.backend.WithTx(func(tx *badger.Txn) error {
		meta, err := readCollectionMeta(tx, name)
		if err != nil {
			return err
		}
		dimension = meta.Dimension
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return dimension, nil
}

// Upsert adds or replaces chunk records in a collection. Records with Id=0
// get a content-hash ID from their text. All records are validated and
// dimension-checked before anything is written.
func (ix *Index) Upsert(ctx context.Context, collection string, records ...*core.ChunkRecord) ([]*core.ChunkRecord, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	now := time.Now()
	err := ix.backend.WithTx(func(tx *badger.Txn) error {
		meta, err := readCollectionMeta(tx, collection)
		if err != nil {
			return err
		}

		for _, record := range records {
			if err := core.ValidateChunkRecord(record); err != nil {
				return err
			}
			if len(record.Vector) != meta.Dimension {
				return fmt.Errorf("%w: record has %d dimensions, collection %q requires %d",
					storage.ErrDimensionMismatch, len(record.Vector), collection, meta.Dimension)
			}
		}

		for _, record := range records {
			if record.Id == 0 {
				record.Id = core.IDFromContent(record.Text)
			}
			if record.InsertedAt.IsZero() {
				record.InsertedAt = now
			}
			record.UpdatedAt = now

			key := makeChunkRecordKey(collection, uint64(record.Id))
			if err := tx.Set(key, storage.MarshalChunkRecord(record)); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	ix.logger.Debug("records upserted", "collection", collection, "count", len(records))
	return records, nil
}

// Get retrieves a single chunk record by ID.
func (ix *Index) Get(ctx context.Context, collection string, id core.ID) (*core.ChunkRecord, error) {
	var record *core.ChunkRecord
	err := ix.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := readCollectionMeta(tx, collection); err != nil {
			return err
		}

		item, err := tx.Get(makeChunkRecordKey(collection, uint64(id)))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: chunk %d", storage.ErrNotFound, id)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			record, err = storage.UnmarshalChunkRecord(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes chunk records by their IDs.
func (ix *Index) Delete(ctx context.Context, collection string, ids ...core.ID) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	return ix.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := readCollectionMeta(tx, collection); err != nil {
			return err
		}

		for _, id := range ids {
			key := makeChunkRecordKey(collection, uint64(id))
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("%w: chunk %d", storage.ErrNotFound, id)
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)
}

// Search finds chunk records similar to the query vector. Scores are cosine
// similarity mapped to [0,1]; only matches with score >= threshold are
// returned, sorted descending, up to limit. A non-empty allowedDocIDs set
// restricts results to chunks of those documents.
func (ix *Index) Search(ctx context.Context, collection string, vector []float32, threshold float32, limit int, allowedDocIDs ...string) ([]*core.VectorHit, error) {
	var allowed map[string]struct{}
	if len(allowedDocIDs) > 0 {
		allowed = make(map[string]struct{}, len(allowedDocIDs))
		for _, id := range allowedDocIDs {
			allowed[id] = struct{}{}
		}
	}

	results := []*core.VectorHit{}
	err := ix.backend.WithTx(func(tx *badger.Txn) error {
		meta, err := readCollectionMeta(tx, collection)
		if err != nil {
			return err
		}
		if len(vector) != meta.Dimension {
			return fmt.Errorf("%w: query has %d dimensions, collection %q requires %d",
				storage.ErrDimensionMismatch, len(vector), collection, meta.Dimension)
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkScanPrefix(collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.ChunkRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalChunkRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil || len(record.Vector) == 0 {
				continue
			}

			if allowed != nil {
				if _, ok := allowed[record.DocumentID]; !ok {
					continue
				}
			}

			score := cosineSimilarity01(vector, record.Vector)
			if score >= threshold {
				results = append(results, &core.VectorHit{
					Record: record,
					Score:  score,
				})
			}
		}

		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by score descending; ties break by insertion time, then ID.
	slices.SortFunc(results, func(a, b *core.VectorHit) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if c := a.Record.InsertedAt.Compare(b.Record.InsertedAt); c != 0 {
			return c
		}
		if a.Record.Id < b.Record.Id {
			return -1
		}
		if a.Record.Id > b.Record.Id {
			return 1
		}
		return 0
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// Count returns the number of chunk records in a collection.
func (ix *Index) Count(ctx context.Context, collection string) (int, error) {
	count := 0
	err := ix.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := readCollectionMeta(tx, collection); err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkScanPrefix(collection)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Close closes the underlying backend.
func (ix *Index) Close() error {
	return ix.backend.Close()
}

// readCollectionMeta loads collection metadata within a transaction.
// Maps a missing key to storage.ErrCollectionNotFound.
func readCollectionMeta(tx *badger.Txn, name string) (*core.CollectionMeta, error) {
	item, err := tx.Get(makeCollectionMetaKey(name))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %q", storage.ErrCollectionNotFound, name)
		}
		return nil, err
	}

	var meta *core.CollectionMeta
	err = item.Value(func(val []byte) error {
		meta, err = storage.UnmarshalCollectionMeta(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// cosineSimilarity01 computes the cosine similarity of two vectors mapped
// from [-1,1] to [0,1]. Zero-magnitude vectors score 0.
func cosineSimilarity01(a, b []float32) float32 {
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
	return (1 + cos) / 2
}
