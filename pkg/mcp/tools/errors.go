package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ledgermind/ledgermind-engine/pkg/apperrors"
	"github.com/ledgermind/ledgermind-engine/pkg/services"
)

// ErrorResponse represents a structured error in tool results.
// This is used to return actionable error information to the calling model
// as a successful tool result, ensuring error details are visible
// rather than being swallowed by the MCP client.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for recoverable/actionable errors the calling model should see
// and can potentially fix (invalid parameters, entity not found).
//
// Do NOT use this for system failures (store unavailable, internal errors);
// those should still return Go errors.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// NewErrorResultWithDetails creates an error result with additional context.
// The details field can contain any information that helps the calling model
// understand and respond to the error.
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// HandleServiceError converts service-layer errors into tool results.
// NotFound and missing-entity errors become structured error results the
// calling model can act on. Anything else stays a Go error so the MCP layer
// reports the call as failed.
func HandleServiceError(err error, fallbackCode string) (*mcp.CallToolResult, error) {
	var missing *services.MissingEntitiesError
	if errors.As(err, &missing) {
		return NewErrorResultWithDetails(
			"entity_not_found",
			missing.Error(),
			map[string]any{"missing_entities": missing.Names},
		), nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return NewErrorResult("not_found", err.Error()), nil
	}
	return nil, fmt.Errorf("%s: %w", fallbackCode, err)
}

// inputErrorPatterns are substrings that indicate an error is caused by
// caller input rather than a server failure. These are logged at DEBUG
// level, not ERROR.
var inputErrorPatterns = []string{
	"not found",
	"already exists",
	"cannot be empty",
	"invalid input",
	"missing required",
}

// IsInputError returns true if the error appears to be caused by caller
// input rather than a server failure.
func IsInputError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, pattern := range inputErrorPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
