package badger

import "fmt"

// Key prefixes for different record types.
const (
	collectionMetaPrefix = "colmeta"
	chunkRecordPrefix    = "chunk"
)

// makeCollectionMetaKey creates a key for collection metadata.
// Format: colmeta:{name}
func makeCollectionMetaKey(name string) []byte {
	return []byte(fmt.Sprintf("%s:%s", collectionMetaPrefix, name))
}

// makeChunkRecordKey creates a key for a chunk record within a collection.
// Format: chunk:{collection}:{id}
func makeChunkRecordKey(collection string, id uint64) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", chunkRecordPrefix, collection, id))
}

// makeChunkScanPrefix creates the iteration prefix for all chunk records
// of a collection. Format: chunk:{collection}:
func makeChunkScanPrefix(collection string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", chunkRecordPrefix, collection))
}
