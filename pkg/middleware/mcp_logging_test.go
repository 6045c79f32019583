package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMCPRequestLogger(t *testing.T) {
	t.Run("logs successful tool call", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		logger := zap.New(core)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"text","text":"ok"}]}}`))
		})

		wrapped := MCPRequestLogger(logger)(handler)

		reqBody := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"search_memory","arguments":{"query":"coffee"}}}`
		req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(reqBody))
		rec := httptest.NewRecorder()

		wrapped.ServeHTTP(rec, req)

		assert.Equal(t, 2, logs.Len(), "Should log request and response")

		requestLog := logs.All()[0]
		assert.Equal(t, "MCP request", requestLog.Message)
		assert.Equal(t, "tools/call", requestLog.ContextMap()["method"])
		assert.Equal(t, "search_memory", requestLog.ContextMap()["tool"])
		assert.NotNil(t, requestLog.ContextMap()["arguments"])

		responseLog := logs.All()[1]
		assert.Equal(t, "MCP response success", responseLog.Message)
		assert.Equal(t, "search_memory", responseLog.ContextMap()["tool"])
		assert.NotNil(t, responseLog.ContextMap()["duration"])
	})

	t.Run("logs protocol error response", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		logger := zap.New(core)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK) // JSON-RPC errors return HTTP 200
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"unknown tool"}}`))
		})

		wrapped := MCPRequestLogger(logger)(handler)

		reqBody := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"bogus_tool","arguments":{}}}`
		req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(reqBody))
		rec := httptest.NewRecorder()

		wrapped.ServeHTTP(rec, req)

		assert.Equal(t, 2, logs.Len())

		responseLog := logs.All()[1]
		assert.Equal(t, "MCP response error", responseLog.Message)
		assert.Equal(t, int64(-32602), responseLog.ContextMap()["error_code"])
		assert.Equal(t, "unknown tool", responseLog.ContextMap()["error_message"])
	})

	t.Run("distinguishes tool error results", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		logger := zap.New(core)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"isError":true,"content":[{"type":"text","text":"{\"error\":\"entity_not_found\"}"}]}}`))
		})

		wrapped := MCPRequestLogger(logger)(handler)

		reqBody := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_entity","arguments":{"name":"Ghost"}}}`
		req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(reqBody))
		rec := httptest.NewRecorder()

		wrapped.ServeHTTP(rec, req)

		assert.Equal(t, 2, logs.Len())

		responseLog := logs.All()[1]
		assert.Equal(t, "MCP tool error result", responseLog.Message)
		assert.Equal(t, "get_entity", responseLog.ContextMap()["tool"])
	})

	t.Run("nil logger passes through", func(t *testing.T) {
		called := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		wrapped := MCPRequestLogger(nil)(handler)

		req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()

		wrapped.ServeHTTP(rec, req)

		assert.True(t, called)
	})

	t.Run("response body reaches the client unchanged", func(t *testing.T) {
		logger := zap.NewNop()

		body := `{"jsonrpc":"2.0","id":1,"result":{"content":[]}}`
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})

		wrapped := MCPRequestLogger(logger)(handler)

		req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()

		wrapped.ServeHTTP(rec, req)

		assert.Equal(t, body, rec.Body.String())
	})
}

func TestTruncateArguments(t *testing.T) {
	long := strings.Repeat("a", 300)

	result := truncateArguments(map[string]any{
		"observation": long,
		"entity_name": "Jane Doe",
		"limit":       float64(5),
	})

	truncated, ok := result["observation"].(string)
	assert.True(t, ok)
	assert.Len(t, truncated, 203)
	assert.True(t, strings.HasSuffix(truncated, "..."))
	assert.Equal(t, "Jane Doe", result["entity_name"])
	assert.Equal(t, float64(5), result["limit"])

	assert.Nil(t, truncateArguments(nil))
}
