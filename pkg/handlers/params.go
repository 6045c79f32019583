package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ParseUserID extracts the {uid} path value. Writes a 400 response and
// returns ok=false when it is missing.
func ParseUserID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	userID := r.PathValue("uid")
	if userID == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_user_id", "user id is required"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return "", false
	}
	return userID, true
}

// ParseMemoryID extracts and validates the {mid} path value as a UUID.
// Writes a 400 response and returns ok=false when it is missing or invalid.
func ParseMemoryID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	raw := r.PathValue("mid")
	id, err := uuid.Parse(raw)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_memory_id", "memory id must be a UUID"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}
