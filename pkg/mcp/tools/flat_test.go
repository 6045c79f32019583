package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ledgermind/ledgermind-engine/pkg/services"
)

// mockFlatService implements services.FlatMemoryService with overridable
// behavior per test.
type mockFlatService struct {
	AddFunc       func(ctx context.Context, userID, content string, metadata map[string]any) ([]*services.MemoryItem, error)
	SearchFunc    func(ctx context.Context, userID, query string, limit int) ([]*services.MemoryItem, error)
	GetAllFunc    func(ctx context.Context, userID string) ([]*services.MemoryItem, error)
	DeleteFunc    func(ctx context.Context, userID string, id uuid.UUID) (bool, error)
	DeleteAllFunc func(ctx context.Context, userID string) (bool, error)
}

var _ services.FlatMemoryService = (*mockFlatService)(nil)

func (m *mockFlatService) Add(ctx context.Context, userID, content string, metadata map[string]any) ([]*services.MemoryItem, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, userID, content, metadata)
	}
	return nil, fmt.Errorf("Add not configured")
}

func (m *mockFlatService) Search(ctx context.Context, userID, query string, limit int) ([]*services.MemoryItem, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, userID, query, limit)
	}
	return nil, nil
}

func (m *mockFlatService) GetAll(ctx context.Context, userID string) ([]*services.MemoryItem, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockFlatService) Delete(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return false, nil
}

func (m *mockFlatService) DeleteAll(ctx context.Context, userID string) (bool, error) {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx, userID)
	}
	return true, nil
}

func setupFlatTest(t *testing.T, mock *mockFlatService) *server.MCPServer {
	t.Helper()

	mcpServer := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	deps := &FlatToolDeps{
		Flat:   mock,
		Logger: zap.NewNop(),
		UserID: "test-user",
	}
	RegisterFlatMemoryTools(mcpServer, deps)
	return mcpServer
}

func TestRegisterFlatMemoryTools(t *testing.T) {
	s := setupFlatTest(t, &mockFlatService{})

	listRequest := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	response := s.HandleMessage(context.Background(), []byte(listRequest))

	responseBytes, err := json.Marshal(response)
	require.NoError(t, err)

	var parsed struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(responseBytes, &parsed))

	names := make([]string, 0, len(parsed.Result.Tools))
	for _, tool := range parsed.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"add_memory", "search_memory", "list_memories", "delete_memory"}, names)
}

func TestAddMemory(t *testing.T) {
	var gotContent string
	var gotMetadata map[string]any
	mock := &mockFlatService{
		AddFunc: func(ctx context.Context, userID, content string, metadata map[string]any) ([]*services.MemoryItem, error) {
			gotContent = content
			gotMetadata = metadata
			return []*services.MemoryItem{
				{ID: uuid.New(), Text: content, CreatedAt: time.Now()},
			}, nil
		},
	}
	s := setupFlatTest(t, mock)

	text, isError := callTool(t, s, "add_memory", map[string]any{
		"content":    "Prefers meetings before noon",
		"importance": "important",
	})
	require.False(t, isError, "unexpected error result: %s", text)

	assert.Equal(t, "Prefers meetings before noon", gotContent)
	assert.Equal(t, map[string]any{"importance": "important"}, gotMetadata)

	var response flatMemoriesResponse
	require.NoError(t, json.Unmarshal([]byte(text), &response))
	assert.Equal(t, 1, response.Count)
	assert.Equal(t, "Prefers meetings before noon", response.Memories[0].Text)
}

func TestAddMemory_EmptyContent(t *testing.T) {
	s := setupFlatTest(t, &mockFlatService{})

	text, isError := callTool(t, s, "add_memory", map[string]any{"content": "   "})
	require.True(t, isError)
	assert.Contains(t, text, "invalid_parameters")
}

func TestFlatSearchMemory(t *testing.T) {
	var gotLimit int
	mock := &mockFlatService{
		SearchFunc: func(ctx context.Context, userID, query string, limit int) ([]*services.MemoryItem, error) {
			gotLimit = limit
			return []*services.MemoryItem{
				{ID: uuid.New(), Text: "Drinks oat milk lattes", Score: 0.88},
			}, nil
		},
	}
	s := setupFlatTest(t, mock)

	text, isError := callTool(t, s, "search_memory", map[string]any{
		"query": "coffee",
		"limit": 3,
	})
	require.False(t, isError, "unexpected error result: %s", text)
	assert.Equal(t, 3, gotLimit)

	var response flatMemoriesResponse
	require.NoError(t, json.Unmarshal([]byte(text), &response))
	require.Equal(t, 1, response.Count)
	assert.Equal(t, 0.88, response.Memories[0].Score)
}

func TestFlatSearchMemory_DefaultLimit(t *testing.T) {
	var gotLimit int
	mock := &mockFlatService{
		SearchFunc: func(ctx context.Context, userID, query string, limit int) ([]*services.MemoryItem, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	s := setupFlatTest(t, mock)

	_, isError := callTool(t, s, "search_memory", map[string]any{"query": "coffee"})
	require.False(t, isError)
	assert.Equal(t, services.DefaultSearchLimit, gotLimit)
}

func TestListMemories(t *testing.T) {
	mock := &mockFlatService{
		GetAllFunc: func(ctx context.Context, userID string) ([]*services.MemoryItem, error) {
			return []*services.MemoryItem{
				{ID: uuid.New(), Text: "Lives in Berlin"},
				{ID: uuid.New(), Text: "Prefers tea"},
			}, nil
		},
	}
	s := setupFlatTest(t, mock)

	text, isError := callTool(t, s, "list_memories", map[string]any{})
	require.False(t, isError, "unexpected error result: %s", text)

	var response flatMemoriesResponse
	require.NoError(t, json.Unmarshal([]byte(text), &response))
	assert.Equal(t, 2, response.Count)
}

func TestDeleteMemory(t *testing.T) {
	id := uuid.New()
	mock := &mockFlatService{
		DeleteFunc: func(ctx context.Context, userID string, gotID uuid.UUID) (bool, error) {
			return gotID == id, nil
		},
	}
	s := setupFlatTest(t, mock)

	text, isError := callTool(t, s, "delete_memory", map[string]any{"memory_id": id.String()})
	require.False(t, isError, "unexpected error result: %s", text)
	assert.Contains(t, text, `"deleted":true`)
}

func TestDeleteMemory_NotFound(t *testing.T) {
	s := setupFlatTest(t, &mockFlatService{})

	text, isError := callTool(t, s, "delete_memory", map[string]any{"memory_id": uuid.NewString()})
	require.True(t, isError)
	assert.Contains(t, text, "memory_not_found")
}

func TestDeleteMemory_InvalidID(t *testing.T) {
	s := setupFlatTest(t, &mockFlatService{})

	text, isError := callTool(t, s, "delete_memory", map[string]any{"memory_id": "not-a-uuid"})
	require.True(t, isError)
	assert.Contains(t, text, "invalid_parameters")
}
