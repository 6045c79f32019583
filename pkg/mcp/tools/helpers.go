package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ledgermind/ledgermind-engine/pkg/jsonutil"
	"github.com/ledgermind/ledgermind-engine/pkg/models"
)

// trimString removes leading and trailing whitespace from a string.
func trimString(s string) string {
	return strings.TrimSpace(s)
}

// marshalToolResult serializes a response payload as a successful tool
// result.
func marshalToolResult(v any) (*mcp.CallToolResult, error) {
	jsonResult, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonResult)), nil
}

// getOptionalString extracts an optional string argument from the request,
// coercing numbers and booleans the way LLM callers send them.
func getOptionalString(req mcp.CallToolRequest, key string) string {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return ""
	}
	val, ok := args[key]
	if !ok {
		return ""
	}
	return jsonutil.FlexibleString(val)
}

// getOptionalBool extracts an optional bool argument, accepting the string
// and numeric spellings LLM callers produce.
func getOptionalBool(req mcp.CallToolRequest, key string, fallback bool) bool {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return fallback
	}
	val, ok := args[key]
	if !ok {
		return fallback
	}
	return jsonutil.FlexibleBool(val, fallback)
}

// getOptionalInt extracts an optional integer argument, accepting numeric
// strings.
func getOptionalInt(req mcp.CallToolRequest, key string, fallback int) int {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return fallback
	}
	val, ok := args[key]
	if !ok {
		return fallback
	}
	return jsonutil.FlexibleInt(val, fallback)
}

// getOptionalStringSlice extracts an optional array-of-strings argument,
// coercing each element.
func getOptionalStringSlice(req mcp.CallToolRequest, key string) []string {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s := trimString(jsonutil.FlexibleString(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// normalizeEntityType coerces an LLM-supplied entity type into the closed
// enum. Plural spellings ("people", "businesses") are singularized before
// parsing; unrecognized values fall back to "other".
func normalizeEntityType(raw string) models.EntityType {
	normalized := strings.ToLower(trimString(raw))
	if normalized == "people" {
		// inflection singularizes "people" to "person" too, but the mapping
		// matters enough to be explicit.
		return models.EntityTypePerson
	}
	return models.ParseEntityType(inflection.Singular(normalized))
}

// rawArguments returns the request arguments as a map for audit scanning.
func rawArguments(req mcp.CallToolRequest) map[string]any {
	if args, ok := req.Params.Arguments.(map[string]any); ok {
		return args
	}
	return nil
}
