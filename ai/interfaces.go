package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer generates chat completions from a message sequence.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends the messages to the completion service and returns the
	// generated answer text. Returns an error on service failure or timeout;
	// callers on the query path are expected to degrade rather than abort.
	Complete(ctx context.Context, messages []Message, temperature float64) (string, error)
}

// Message is a single turn in a completion conversation.
type Message struct {
	// Role is one of RoleSystem or RoleUser.
	Role string

	// Content is the message text.
	Content string
}

// Message roles understood by Completer implementations.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Completer instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Completer returns the chat completion service.
	// The returned Completer is safe for concurrent use.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
