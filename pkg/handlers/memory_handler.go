package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ledgermind/ledgermind-engine/pkg/apperrors"
	"github.com/ledgermind/ledgermind-engine/pkg/services"
)

// AddMemoryRequest for POST /api/users/{uid}/memories
type AddMemoryRequest struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// MemoryListResponse for endpoints returning memory items.
type MemoryListResponse struct {
	Memories []*services.MemoryItem `json:"memories"`
	Total    int                    `json:"total"`
}

// SummaryResponse for GET /api/users/{uid}/memory/summary
type SummaryResponse struct {
	Summary     string    `json:"summary"`
	Stale       bool      `json:"stale"`
	GeneratedAt time.Time `json:"generated_at"`
}

// MemoryHandler exposes the flat memory API over HTTP: memory as a list of
// short strings per user, in the shape generic context-injection clients
// expect. The structured graph stays behind the MCP tool surface.
type MemoryHandler struct {
	flat    services.FlatMemoryService
	memory  services.GraphMemoryService
	summary services.SummaryService
	logger  *zap.Logger
}

// NewMemoryHandler creates a new memory handler.
func NewMemoryHandler(
	flat services.FlatMemoryService,
	memory services.GraphMemoryService,
	summary services.SummaryService,
	logger *zap.Logger,
) *MemoryHandler {
	return &MemoryHandler{
		flat:    flat,
		memory:  memory,
		summary: summary,
		logger:  logger,
	}
}

// RegisterRoutes registers the memory handler's routes on the given mux.
func (h *MemoryHandler) RegisterRoutes(mux *http.ServeMux) {
	base := "/api/users/{uid}/memories"

	mux.HandleFunc("POST "+base, h.Add)
	mux.HandleFunc("GET "+base, h.GetAll)
	mux.HandleFunc("GET "+base+"/search", h.Search)
	mux.HandleFunc("DELETE "+base+"/{mid}", h.Delete)
	mux.HandleFunc("DELETE "+base, h.DeleteAll)

	mux.HandleFunc("GET /api/users/{uid}/memory/stats", h.Stats)
	mux.HandleFunc("GET /api/users/{uid}/memory/summary", h.GetSummary)
	mux.HandleFunc("POST /api/users/{uid}/memory/summary/refresh", h.RefreshSummary)
}

// Add handles POST /api/users/{uid}/memories
func (h *MemoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := ParseUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req AddMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.Content == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "content is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	items, err := h.flat.Add(r.Context(), userID, req.Content, req.Metadata)
	if err != nil {
		h.logger.Error("Failed to add memory",
			zap.String("user_id", userID),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "add_memory_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := MemoryListResponse{Memories: items, Total: len(items)}
	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Search handles GET /api/users/{uid}/memories/search?q=...&limit=...
func (h *MemoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := ParseUserID(w, r, h.logger)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "query parameter 'q' is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	limit := services.DefaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	items, err := h.flat.Search(r.Context(), userID, query, limit)
	if err != nil {
		h.logger.Error("Failed to search memories",
			zap.String("user_id", userID),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "search_memory_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := MemoryListResponse{Memories: items, Total: len(items)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetAll handles GET /api/users/{uid}/memories
func (h *MemoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := ParseUserID(w, r, h.logger)
	if !ok {
		return
	}

	items, err := h.flat.GetAll(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list memories",
			zap.String("user_id", userID),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_memories_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := MemoryListResponse{Memories: items, Total: len(items)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/users/{uid}/memories/{mid}
func (h *MemoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := ParseUserID(w, r, h.logger)
	if !ok {
		return
	}
	memoryID, ok := ParseMemoryID(w, r, h.logger)
	if !ok {
		return
	}

	deleted, err := h.flat.Delete(r.Context(), userID, memoryID)
	if err != nil {
		h.logger.Error("Failed to delete memory",
			zap.String("user_id", userID),
			zap.String("memory_id", memoryID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "delete_memory_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if !deleted {
		if err := ErrorResponse(w, http.StatusNotFound, "memory_not_found", "Memory not found"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]bool{"deleted": true}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteAll handles DELETE /api/users/{uid}/memories
func (h *MemoryHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := ParseUserID(w, r, h.logger)
	if !ok {
		return
	}

	deleted, err := h.flat.DeleteAll(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to delete all memories",
			zap.String("user_id", userID),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "delete_all_memories_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]bool{"deleted": deleted}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Stats handles GET /api/users/{uid}/memory/stats
func (h *MemoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := ParseUserID(w, r, h.logger)
	if !ok {
		return
	}

	stats, err := h.memory.GetStats(r.Context(), userID, nil)
	if err != nil {
		h.logger.Error("Failed to get memory stats",
			zap.String("user_id", userID),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "memory_stats_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: stats}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetSummary handles GET /api/users/{uid}/memory/summary
func (h *MemoryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := ParseUserID(w, r, h.logger)
	if !ok {
		return
	}

	summary, stale, err := h.summary.Get(r.Context(), userID, nil)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "summary_not_found", "No summary has been generated yet"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to get memory summary",
			zap.String("user_id", userID),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "get_summary_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := SummaryResponse{
		Summary:     summary.SummaryText,
		Stale:       stale,
		GeneratedAt: summary.GeneratedAt,
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// RefreshSummary handles POST /api/users/{uid}/memory/summary/refresh
func (h *MemoryHandler) RefreshSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := ParseUserID(w, r, h.logger)
	if !ok {
		return
	}

	summary, err := h.summary.Refresh(r.Context(), userID, nil)
	if err != nil {
		h.logger.Error("Failed to refresh memory summary",
			zap.String("user_id", userID),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "refresh_summary_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := SummaryResponse{
		Summary:     summary.SummaryText,
		Stale:       false,
		GeneratedAt: summary.GeneratedAt,
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
