// Package llm provides the language-model client used for memory summary
// generation.
package llm

import "context"

// Client generates text completions. Implementations: AnthropicClient
// (production), MockClient (tests).
type Client interface {
	// Complete sends a single-turn prompt and returns the generated text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
