package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/ledgermind/ledgermind-engine/pkg/logging"
)

// Config holds configuration for the Anthropic client.
type Config struct {
	APIKey    string
	Model     string // e.g. "claude-3-5-haiku-latest"
	MaxTokens int
}

// AnthropicClient calls the Anthropic messages API.
type AnthropicClient struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewAnthropicClient creates an Anthropic messages client.
func NewAnthropicClient(cfg *Config, logger *zap.Logger) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	return &AnthropicClient{
		client:    anthropic.NewClient(cfg.APIKey),
		model:     cfg.Model,
		maxTokens: maxTokens,
		logger:    logger.Named("llm"),
	}, nil
}

var _ Client = (*AnthropicClient)(nil)

// Complete sends a single-turn prompt and returns the first text block of
// the response.
func (c *AnthropicClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		System:    systemPrompt,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(userPrompt),
		},
	})
	if err != nil {
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error", logging.SanitizeError(err)))
		return "", fmt.Errorf("failed to create message: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	c.logger.Info("LLM request completed",
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))
	return text, nil
}

func extractText(resp anthropic.MessagesResponse) string {
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			return *block.Text
		}
	}
	return ""
}
