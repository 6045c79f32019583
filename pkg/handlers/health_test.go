package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/ledgermind/ledgermind-engine/pkg/config"
)

func TestHealthHandler_Health(t *testing.T) {
	cfg := &config.Config{
		Version: "test-version",
		Env:     "test",
	}
	handler := NewHealthHandler(cfg, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("expected body 'ok', got '%s'", rec.Body.String())
	}
}

func TestHealthHandler_Ping(t *testing.T) {
	cfg := &config.Config{
		Version: "1.2.3",
		Env:     "local",
	}
	handler := NewHealthHandler(cfg, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()

	handler.Ping(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response PingResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Status != "ok" {
		t.Errorf("expected status 'ok', got '%s'", response.Status)
	}
	if response.Version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got '%s'", response.Version)
	}
	if response.Service != "ledgermind-engine" {
		t.Errorf("expected service 'ledgermind-engine', got '%s'", response.Service)
	}
	if response.Environment != "local" {
		t.Errorf("expected environment 'local', got '%s'", response.Environment)
	}
	if response.GoVersion == "" {
		t.Error("expected non-empty go version")
	}
}
