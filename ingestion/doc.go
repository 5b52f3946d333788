// Package ingestion feeds document text into the vector index: the Chunker
// splits raw text into overlapping bounded segments, and the Pipeline embeds
// them in concurrent batches and stores the resulting chunk records.
//
// Chunk IDs are content hashes, so ingestion is idempotent: re-running the
// same document replaces its chunks in place rather than duplicating them.
package ingestion
