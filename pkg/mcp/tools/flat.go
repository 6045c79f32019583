package tools

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ledgermind/ledgermind-engine/pkg/audit"
	"github.com/ledgermind/ledgermind-engine/pkg/services"
)

// FlatToolDeps contains dependencies for the flat memory tools. Like the
// graph tools, user scope is fixed for the whole connection at startup.
type FlatToolDeps struct {
	Flat    services.FlatMemoryService
	Auditor *audit.SecurityAuditor
	Logger  *zap.Logger
	UserID  string
}

func (d *FlatToolDeps) auditCall(ctx context.Context, toolName string, req mcp.CallToolRequest) {
	if d.Auditor == nil {
		return
	}
	d.Auditor.AuditToolCall(ctx, d.UserID, "", toolName, rawArguments(req))
}

// RegisterFlatMemoryTools registers the flat-facade tool set: memory as an
// unordered list of short strings, for clients that do not model entities.
func RegisterFlatMemoryTools(s *server.MCPServer, deps *FlatToolDeps) {
	registerAddMemoryTool(s, deps)
	registerSearchMemoriesTool(s, deps)
	registerListMemoriesTool(s, deps)
	registerDeleteMemoryTool(s, deps)
}

func registerAddMemoryTool(s *server.MCPServer, deps *FlatToolDeps) {
	tool := mcp.NewTool(
		"add_memory",
		mcp.WithDescription(
			"Remember a fact about the user. Store one short, self-contained statement per call. "+
				"Example: content='Prefers meetings before noon', importance='important'",
		),
		mcp.WithString(
			"content",
			mcp.Required(),
			mcp.Description("The fact to remember, as a short standalone sentence"),
		),
		mcp.WithString(
			"importance",
			mcp.Description("Optional - one of: 'critical', 'important', 'normal', 'temporary'. Defaults to 'normal'."),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deps.auditCall(ctx, "add_memory", req)

		content, err := req.RequireString("content")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		content = trimString(content)
		if content == "" {
			return NewErrorResult("invalid_parameters", "parameter 'content' cannot be empty"), nil
		}

		var metadata map[string]any
		if importance := trimString(getOptionalString(req, "importance")); importance != "" {
			metadata = map[string]any{"importance": importance}
		}

		items, err := deps.Flat.Add(ctx, deps.UserID, content, metadata)
		if err != nil {
			return HandleServiceError(err, "add_memory_failed")
		}

		return marshalToolResult(flatMemoriesResponse{
			Memories: toFlatMemoryEntries(items),
			Count:    len(items),
		})
	})
}

func registerSearchMemoriesTool(s *server.MCPServer, deps *FlatToolDeps) {
	tool := mcp.NewTool(
		"search_memory",
		mcp.WithDescription(
			"Search the user's memories by relevance. Returns the best-matching facts with scores. "+
				"Example: query='coffee preferences'",
		),
		mcp.WithString(
			"query",
			mcp.Required(),
			mcp.Description("Natural-language description of what to look for"),
		),
		mcp.WithNumber(
			"limit",
			mcp.Description("Optional - maximum results to return (default 10)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deps.auditCall(ctx, "search_memory", req)

		query, err := req.RequireString("query")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		query = trimString(query)
		if query == "" {
			return NewErrorResult("invalid_parameters", "parameter 'query' cannot be empty"), nil
		}

		limit := getOptionalInt(req, "limit", services.DefaultSearchLimit)
		if limit <= 0 {
			limit = services.DefaultSearchLimit
		}

		items, err := deps.Flat.Search(ctx, deps.UserID, query, limit)
		if err != nil {
			return HandleServiceError(err, "search_memory_failed")
		}

		return marshalToolResult(flatMemoriesResponse{
			Memories: toFlatMemoryEntries(items),
			Count:    len(items),
		})
	})
}

func registerListMemoriesTool(s *server.MCPServer, deps *FlatToolDeps) {
	tool := mcp.NewTool(
		"list_memories",
		mcp.WithDescription("List everything remembered about the user."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items, err := deps.Flat.GetAll(ctx, deps.UserID)
		if err != nil {
			return HandleServiceError(err, "list_memories_failed")
		}

		return marshalToolResult(flatMemoriesResponse{
			Memories: toFlatMemoryEntries(items),
			Count:    len(items),
		})
	})
}

func registerDeleteMemoryTool(s *server.MCPServer, deps *FlatToolDeps) {
	tool := mcp.NewTool(
		"delete_memory",
		mcp.WithDescription(
			"Forget one memory by its id. Use list_memories or search_memory to find the id first.",
		),
		mcp.WithString(
			"memory_id",
			mcp.Required(),
			mcp.Description("The id of the memory to delete"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deps.auditCall(ctx, "delete_memory", req)

		rawID, err := req.RequireString("memory_id")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		id, err := uuid.Parse(trimString(rawID))
		if err != nil {
			return NewErrorResult("invalid_parameters", "parameter 'memory_id' must be a UUID"), nil
		}

		deleted, err := deps.Flat.Delete(ctx, deps.UserID, id)
		if err != nil {
			return HandleServiceError(err, "delete_memory_failed")
		}
		if !deleted {
			return NewErrorResult("memory_not_found", "no memory with that id"), nil
		}

		return marshalToolResult(map[string]any{"memory_id": id.String(), "deleted": true})
	})
}

type flatMemoryEntry struct {
	MemoryID  string    `json:"memory_id"`
	Text      string    `json:"text"`
	Score     float64   `json:"score,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type flatMemoriesResponse struct {
	Memories []flatMemoryEntry `json:"memories"`
	Count    int               `json:"count"`
}

func toFlatMemoryEntries(items []*services.MemoryItem) []flatMemoryEntry {
	entries := make([]flatMemoryEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, flatMemoryEntry{
			MemoryID:  item.ID.String(),
			Text:      item.Text,
			Score:     item.Score,
			CreatedAt: item.CreatedAt,
		})
	}
	return entries
}
