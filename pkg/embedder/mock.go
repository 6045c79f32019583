package embedder

import (
	"context"
	"hash/fnv"
	"math"
)

// MockEmbedder generates deterministic embeddings from a text hash, so tests
// get stable vectors without a backend. Identical texts always produce
// identical (unit-normalized) vectors.
type MockEmbedder struct {
	dimensions int

	// EmbedFunc overrides Embed when set, for failure-injection tests.
	EmbedFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedCalls counts invocations for verification.
	EmbedCalls int
}

// NewMockEmbedder creates a mock embedder with the given dimensionality.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &MockEmbedder{dimensions: dimensions}
}

var _ Embedder = (*MockEmbedder)(nil)

// Embed creates a deterministic embedding from the text hash.
func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.EmbedCalls++
	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text)
	}

	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, m.dimensions)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}
	return normalize(vec), nil
}

// Dimensions returns the embedding size.
func (m *MockEmbedder) Dimensions() int {
	return m.dimensions
}

func normalize(vec []float32) []float32 {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
