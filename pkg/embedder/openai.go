package embedder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ledgermind/ledgermind-engine/pkg/apperrors"
	"github.com/ledgermind/ledgermind-engine/pkg/logging"
)

// Config holds configuration for the OpenAI-compatible embedding client.
type Config struct {
	Endpoint   string        // Base URL, e.g. "https://api.openai.com/v1" or a local inference server
	Model      string        // Model name, e.g. "text-embedding-3-small"
	APIKey     string        // Optional for local endpoints
	Dimensions int           // Expected vector size
	Timeout    time.Duration // Per-request bound; exceeded requests degrade the row to lexical search
}

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
	timeout    time.Duration
	logger     *zap.Logger
}

// NewOpenAIEmbedder creates an embedding client for an OpenAI-compatible endpoint.
func NewOpenAIEmbedder(cfg *Config, logger *zap.Logger) (*OpenAIEmbedder, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	dimensions := cfg.Dimensions
	if dimensions == 0 {
		dimensions = 1536
	}

	return &OpenAIEmbedder{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.Model,
		dimensions: dimensions,
		timeout:    timeout,
		logger:     logger.Named("embedder"),
	}, nil
}

var _ Embedder = (*OpenAIEmbedder)(nil)

// Embed generates an embedding vector for the input text. Failures and
// timeouts are reported as ErrEmbedderUnavailable so callers can degrade to
// lexical search instead of failing the write.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		e.logger.Warn("Embedding request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrEmbedderUnavailable, err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", apperrors.ErrEmbedderUnavailable)
	}

	vec := resp.Data[0].Embedding
	if len(vec) != e.dimensions {
		return nil, fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(vec), e.dimensions)
	}

	e.logger.Debug("Embedding created",
		zap.Int("text_len", len(text)),
		zap.Duration("elapsed", time.Since(start)))
	return vec, nil
}

// Dimensions returns the embedding vector size.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}
