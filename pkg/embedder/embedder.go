// Package embedder turns free text into fixed-dimension vectors for
// similarity search. The backend is optional: a deployment may run without
// one, in which case search falls back to lexical scoring.
package embedder

import "context"

// Embedder converts text to vector embeddings.
// Implementations: OpenAIEmbedder (any OpenAI-compatible endpoint),
// MockEmbedder (tests).
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}
