package llm

import "context"

// MockClient is a configurable mock for testing summary generation.
// Set the function field to control behavior in tests.
type MockClient struct {
	// CompleteFunc is called when Complete is invoked.
	// If nil, returns an empty string and nil error.
	CompleteFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// CompleteCalls counts invocations for verification.
	CompleteCalls int
}

// NewMockClient creates a new mock client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

var _ Client = (*MockClient)(nil)

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.CompleteCalls++
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, userPrompt)
	}
	return "", nil
}
