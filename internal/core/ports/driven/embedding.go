package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The underlying model is a process-wide resource: implementations must
// initialise it exactly once, race-safe under concurrent first use, and
// treat it as read-only afterwards. Embeddings are deterministic for a
// fixed model version and input.
//
// Implementations may include:
//   - Ollama (all-minilm, 384 dimensions)
//   - OpenAI (text-embedding-3-small)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text. Input
	// beyond the model's maximum length is truncated before encoding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size. This must match
	// domain.EmbeddingDimensions for vectors stored in the corpus.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
