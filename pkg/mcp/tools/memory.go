// Package tools provides the MCP tool implementations for ledgermind-engine.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ledgermind/ledgermind-engine/pkg/apperrors"
	"github.com/ledgermind/ledgermind-engine/pkg/audit"
	"github.com/ledgermind/ledgermind-engine/pkg/models"
	"github.com/ledgermind/ledgermind-engine/pkg/services"
)

// MemoryToolDeps contains dependencies for the memory tools.
// UserID and ProjectID fix the scope for the whole connection; stdio
// sessions have no per-request identity, so scope is decided at startup.
type MemoryToolDeps struct {
	Memory    services.GraphMemoryService
	Auditor   *audit.SecurityAuditor
	Logger    *zap.Logger
	UserID    string
	ProjectID *uuid.UUID
}

func (d *MemoryToolDeps) projectIDString() string {
	if d.ProjectID == nil {
		return ""
	}
	return d.ProjectID.String()
}

// auditCall scans LLM-supplied arguments for injection patterns. Detections
// are logged only; memory text legitimately quotes hostile-looking content.
func (d *MemoryToolDeps) auditCall(ctx context.Context, toolName string, req mcp.CallToolRequest) {
	if d.Auditor == nil {
		return
	}
	d.Auditor.AuditToolCall(ctx, d.UserID, d.projectIDString(), toolName, rawArguments(req))
}

// RegisterMemoryTools registers the nine memory tools on the MCP server.
func RegisterMemoryTools(s *server.MCPServer, deps *MemoryToolDeps) {
	registerStoreEntityTool(s, deps)
	registerStoreObservationTool(s, deps)
	registerStoreRelationTool(s, deps)
	registerSearchMemoryTool(s, deps)
	registerGetEntityTool(s, deps)
	registerListEntitiesTool(s, deps)
	registerDeleteEntityTool(s, deps)
	registerClearAllMemoriesTool(s, deps)
	registerMemoryStatsTool(s, deps)
}

// registerStoreEntityTool adds the store_entity tool for creating entities.
func registerStoreEntityTool(s *server.MCPServer, deps *MemoryToolDeps) {
	tool := mcp.NewTool(
		"store_entity",
		mcp.WithDescription(
			"Create an entity in the user's memory graph: a person, business, concept, or event worth remembering. "+
				"Creation is idempotent - storing an entity whose name already exists (any casing) merges the new "+
				"observations into the existing entity instead of failing. "+
				"Example: name='Acme Corp', entity_type='business', observations=['Revenue target: $500k by Dec 2025']",
		),
		mcp.WithString(
			"name",
			mcp.Required(),
			mcp.Description("Entity name as the conversation uses it (e.g., 'Acme Corp', 'Sarah'). Matched case-insensitively."),
		),
		mcp.WithString(
			"entity_type",
			mcp.Required(),
			mcp.Description("One of: 'person', 'business', 'concept', 'event', 'other'. Unknown values are stored as 'other'."),
		),
		mcp.WithArray(
			"observations",
			mcp.Description("Optional - initial facts about the entity, one string each"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deps.auditCall(ctx, "store_entity", req)

		name, err := req.RequireString("name")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		name = trimString(name)
		if name == "" {
			return NewErrorResult("invalid_parameters", "parameter 'name' cannot be empty"), nil
		}

		typeStr, err := req.RequireString("entity_type")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		entityType := normalizeEntityType(typeStr)

		observations := getOptionalStringSlice(req, "observations")

		entity, err := deps.Memory.CreateEntity(ctx, deps.UserID, deps.ProjectID, name, entityType, observations)
		if err != nil {
			return HandleServiceError(err, "store_entity_failed")
		}

		result := storeEntityResponse{
			EntityID:         entity.ID.String(),
			Name:             entity.Name,
			EntityType:       string(entity.Type),
			ObservationCount: len(entity.Observations),
			CreatedAt:        entity.CreatedAt,
		}

		jsonResult, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}

// registerStoreObservationTool adds the store_observation tool for attaching
// facts to an existing entity.
func registerStoreObservationTool(s *server.MCPServer, deps *MemoryToolDeps) {
	tool := mcp.NewTool(
		"store_observation",
		mcp.WithDescription(
			"Attach a fact to an existing entity. The entity must already exist - use store_entity first. "+
				"Adding the same fact twice is a no-op that refreshes its recency; importance only ever escalates "+
				"on re-assertion, never downgrades. "+
				"Importance levels: 'critical' (goals, deadlines), 'important' (stable facts), "+
				"'normal' (default), 'temporary' (short-lived context).",
		),
		mcp.WithString(
			"entity_name",
			mcp.Required(),
			mcp.Description("Name of the entity this fact is about. Matched case-insensitively."),
		),
		mcp.WithString(
			"observation",
			mcp.Required(),
			mcp.Description("The fact to remember (e.g., 'Prefers morning meetings')"),
		),
		mcp.WithString(
			"importance",
			mcp.Description("Optional - 'critical', 'important', 'normal', or 'temporary'. Defaults to 'normal'."),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deps.auditCall(ctx, "store_observation", req)

		entityName, err := req.RequireString("entity_name")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		entityName = trimString(entityName)
		if entityName == "" {
			return NewErrorResult("invalid_parameters", "parameter 'entity_name' cannot be empty"), nil
		}

		text, err := req.RequireString("observation")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		text = trimString(text)
		if text == "" {
			return NewErrorResult("invalid_parameters", "parameter 'observation' cannot be empty"), nil
		}

		importance := models.ParseImportance(getOptionalString(req, "importance"))

		obs, err := deps.Memory.AddObservation(ctx, deps.UserID, deps.ProjectID, entityName, text, importance, false)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return NewErrorResult(
					"entity_not_found",
					fmt.Sprintf("no entity named %q found; create it first with store_entity", entityName),
				), nil
			}
			return HandleServiceError(err, "store_observation_failed")
		}

		result := storeObservationResponse{
			ObservationID: obs.ID.String(),
			EntityName:    entityName,
			Observation:   obs.Text,
			Importance:    string(obs.Importance),
			CreatedAt:     obs.CreatedAt,
		}

		jsonResult, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}

// registerStoreRelationTool adds the store_relation tool for linking entities.
func registerStoreRelationTool(s *server.MCPServer, deps *MemoryToolDeps) {
	tool := mcp.NewTool(
		"store_relation",
		mcp.WithDescription(
			"Create a directed, typed relation between two existing entities "+
				"(e.g., 'John Smith' works_for 'Acme Corp'). Both entities must already exist; "+
				"if either is missing the result names it so you can store_entity it first. "+
				"Storing an existing relation again is a no-op.",
		),
		mcp.WithString(
			"from_entity",
			mcp.Required(),
			mcp.Description("Name of the source entity"),
		),
		mcp.WithString(
			"to_entity",
			mcp.Required(),
			mcp.Description("Name of the target entity"),
		),
		mcp.WithString(
			"relation_type",
			mcp.Required(),
			mcp.Description("Relation type in snake_case (e.g., 'works_for', 'owns', 'attended')"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deps.auditCall(ctx, "store_relation", req)

		from, err := req.RequireString("from_entity")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		to, err := req.RequireString("to_entity")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		relationType, err := req.RequireString("relation_type")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		from, to, relationType = trimString(from), trimString(to), trimString(relationType)
		if from == "" || to == "" || relationType == "" {
			return NewErrorResult("invalid_parameters", "parameters 'from_entity', 'to_entity', and 'relation_type' cannot be empty"), nil
		}

		relation, err := deps.Memory.CreateRelation(ctx, deps.UserID, deps.ProjectID, from, to, relationType)
		alreadyExisted := false
		if err != nil {
			if errors.Is(err, apperrors.ErrAlreadyExists) && relation != nil {
				alreadyExisted = true
			} else {
				return HandleServiceError(err, "store_relation_failed")
			}
		}

		result := storeRelationResponse{
			RelationID:     relation.ID.String(),
			FromEntity:     from,
			ToEntity:       to,
			RelationType:   relation.Type,
			AlreadyExisted: alreadyExisted,
		}

		jsonResult, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}

// registerSearchMemoryTool adds the search_memory tool for relevance-ranked
// recall.
func registerSearchMemoryTool(s *server.MCPServer, deps *MemoryToolDeps) {
	tool := mcp.NewTool(
		"search_memory",
		mcp.WithDescription(
			"Search the user's memory for facts relevant to a query. Results are ranked by relevance "+
				"(semantic similarity when embeddings are available, keyword overlap otherwise) weighted "+
				"by each fact's importance. Returns up to 'limit' results, best first.",
		),
		mcp.WithString(
			"query",
			mcp.Required(),
			mcp.Description("What to look for (e.g., 'revenue goals', 'meeting preferences')"),
		),
		mcp.WithNumber(
			"limit",
			mcp.Description("Optional - maximum results to return. Defaults to 10."),
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

		results, err := deps.Memory.SearchMemory(ctx, deps.UserID, deps.ProjectID, query, limit)
		if err != nil {
			return HandleServiceError(err, "search_memory_failed")
		}

		response := searchMemoryResponse{
			Query:   query,
			Results: make([]searchResultEntry, 0, len(results)),
		}
		for _, r := range results {
			response.Results = append(response.Results, searchResultEntry{
				EntityName:  r.Entity.Name,
				EntityType:  string(r.Entity.Type),
				Observation: r.Observation.Text,
				Importance:  string(r.Observation.Importance),
				Score:       r.Score,
			})
		}

		jsonResult, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}

// registerGetEntityTool adds the get_entity tool for retrieving a single
// entity with its facts and relations.
func registerGetEntityTool(s *server.MCPServer, deps *MemoryToolDeps) {
	tool := mcp.NewTool(
		"get_entity",
		mcp.WithDescription(
			"Retrieve everything remembered about one entity: its observations "+
				"(ordered by importance, then recency) and, optionally, its relations to other entities.",
		),
		mcp.WithString(
			"name",
			mcp.Required(),
			mcp.Description("Entity name. Matched case-insensitively."),
		),
		mcp.WithBoolean(
			"include_relations",
			mcp.Description("Optional - include relations touching this entity. Defaults to true."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		name = trimString(name)
		if name == "" {
			return NewErrorResult("invalid_parameters", "parameter 'name' cannot be empty"), nil
		}

		includeRelations := getOptionalBool(req, "include_relations", true)

		entity, err := deps.Memory.GetEntity(ctx, deps.UserID, deps.ProjectID, name, includeRelations)
		if err != nil {
			return HandleServiceError(err, "get_entity_failed")
		}

		result := getEntityResponse{
			EntityID:     entity.ID.String(),
			Name:         entity.Name,
			EntityType:   string(entity.Type),
			CreatedAt:    entity.CreatedAt,
			UpdatedAt:    entity.UpdatedAt,
			Observations: make([]observationEntry, 0, len(entity.Observations)),
		}
		for _, obs := range entity.Observations {
			result.Observations = append(result.Observations, observationEntry{
				ObservationID: obs.ID.String(),
				Text:          obs.Text,
				Importance:    string(obs.Importance),
				IsUserEdit:    obs.IsUserEdit,
				CreatedAt:     obs.CreatedAt,
			})
		}
		if includeRelations {
			result.Relations = make([]relationEntry, 0, len(entity.Relations))
			for _, rel := range entity.Relations {
				result.Relations = append(result.Relations, relationEntry{
					RelationID:   rel.Relation.ID.String(),
					RelationType: rel.Relation.Type,
					Direction:    string(rel.Direction),
					PeerName:     rel.Peer.Name,
					PeerType:     string(rel.Peer.Type),
				})
			}
		}

		jsonResult, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}

// registerListEntitiesTool adds the list_entities tool.
func registerListEntitiesTool(s *server.MCPServer, deps *MemoryToolDeps) {
	tool := mcp.NewTool(
		"list_entities",
		mcp.WithDescription(
			"List every entity in the user's memory, alphabetically. "+
				"Use get_entity to see a specific entity's facts and relations.",
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entities, err := deps.Memory.ListEntities(ctx, deps.UserID, deps.ProjectID)
		if err != nil {
			return HandleServiceError(err, "list_entities_failed")
		}

		result := listEntitiesResponse{
			Count:    len(entities),
			Entities: make([]entitySummary, 0, len(entities)),
		}
		for _, e := range entities {
			result.Entities = append(result.Entities, entitySummary{
				Name:       e.Name,
				EntityType: string(e.Type),
			})
		}

		jsonResult, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}

// registerDeleteEntityTool adds the delete_entity tool.
func registerDeleteEntityTool(s *server.MCPServer, deps *MemoryToolDeps) {
	tool := mcp.NewTool(
		"delete_entity",
		mcp.WithDescription(
			"Delete an entity and everything attached to it: all of its observations "+
				"and every relation where it is source or target. Other entities are untouched.",
		),
		mcp.WithString(
			"name",
			mcp.Required(),
			mcp.Description("Name of the entity to delete. Matched case-insensitively."),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		name = trimString(name)
		if name == "" {
			return NewErrorResult("invalid_parameters", "parameter 'name' cannot be empty"), nil
		}

		if err := deps.Memory.DeleteEntity(ctx, deps.UserID, deps.ProjectID, name); err != nil {
			return HandleServiceError(err, "delete_entity_failed")
		}

		result := deleteEntityResponse{Name: name, Deleted: true}
		jsonResult, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}

// registerClearAllMemoriesTool adds the clear_all_memories tool. Without the
// confirm flag the call is a no-op that explains what confirmation would do.
func registerClearAllMemoriesTool(s *server.MCPServer, deps *MemoryToolDeps) {
	tool := mcp.NewTool(
		"clear_all_memories",
		mcp.WithDescription(
			"Permanently delete every entity, observation, and relation in the user's memory. "+
				"This cannot be undone. Requires confirm=true; without it nothing is deleted and "+
				"the result explains what confirmation would remove.",
		),
		mcp.WithBoolean(
			"confirm",
			mcp.Required(),
			mcp.Description("Must be true to actually delete. False returns a preview of what would be removed."),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		confirm := getOptionalBool(req, "confirm", false)

		stats, err := deps.Memory.GetStats(ctx, deps.UserID, deps.ProjectID)
		if err != nil {
			return HandleServiceError(err, "clear_all_memories_failed")
		}

		if !confirm {
			result := clearMemoriesResponse{
				Cleared: false,
				Message: fmt.Sprintf(
					"Nothing was deleted. Confirmation required: calling again with confirm=true would permanently remove %d entities, %d observations, and %d relations.",
					stats.EntityCount, stats.ObservationCount, stats.RelationCount,
				),
			}
			jsonResult, err := json.Marshal(result)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal result: %w", err)
			}
			return mcp.NewToolResultText(string(jsonResult)), nil
		}

		if err := deps.Memory.ClearUserMemory(ctx, deps.UserID, deps.ProjectID); err != nil {
			return HandleServiceError(err, "clear_all_memories_failed")
		}

		removed := stats.EntityCount + stats.ObservationCount + stats.RelationCount
		if deps.Auditor != nil {
			deps.Auditor.LogDestructiveOperation(ctx, deps.UserID, deps.projectIDString(), "clear_all_memories", removed)
		}
		deps.Logger.Warn("All memories cleared",
			zap.String("user_id", deps.UserID),
			zap.Int("items_removed", removed))

		result := clearMemoriesResponse{
			Cleared: true,
			Message: fmt.Sprintf("Removed %d entities, %d observations, and %d relations.",
				stats.EntityCount, stats.ObservationCount, stats.RelationCount),
		}
		jsonResult, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}

// registerMemoryStatsTool adds the memory_stats tool.
func registerMemoryStatsTool(s *server.MCPServer, deps *MemoryToolDeps) {
	tool := mcp.NewTool(
		"memory_stats",
		mcp.WithDescription(
			"Report how much the user's memory currently holds: entity, observation, and relation counts.",
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := deps.Memory.GetStats(ctx, deps.UserID, deps.ProjectID)
		if err != nil {
			return HandleServiceError(err, "memory_stats_failed")
		}

		result := memoryStatsResponse{
			EntityCount:      stats.EntityCount,
			ObservationCount: stats.ObservationCount,
			RelationCount:    stats.RelationCount,
		}
		jsonResult, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}

// Response formats for the memory tools.

type storeEntityResponse struct {
	EntityID         string    `json:"entity_id"`
	Name             string    `json:"name"`
	EntityType       string    `json:"entity_type"`
	ObservationCount int       `json:"observation_count"`
	CreatedAt        time.Time `json:"created_at"`
}

type storeObservationResponse struct {
	ObservationID string    `json:"observation_id"`
	EntityName    string    `json:"entity_name"`
	Observation   string    `json:"observation"`
	Importance    string    `json:"importance"`
	CreatedAt     time.Time `json:"created_at"`
}

type storeRelationResponse struct {
	RelationID     string `json:"relation_id"`
	FromEntity     string `json:"from_entity"`
	ToEntity       string `json:"to_entity"`
	RelationType   string `json:"relation_type"`
	AlreadyExisted bool   `json:"already_existed"`
}

type searchMemoryResponse struct {
	Query   string              `json:"query"`
	Results []searchResultEntry `json:"results"`
}

type searchResultEntry struct {
	EntityName  string  `json:"entity_name"`
	EntityType  string  `json:"entity_type"`
	Observation string  `json:"observation"`
	Importance  string  `json:"importance"`
	Score       float64 `json:"score"`
}

type getEntityResponse struct {
	EntityID     string             `json:"entity_id"`
	Name         string             `json:"name"`
	EntityType   string             `json:"entity_type"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Observations []observationEntry `json:"observations"`
	Relations    []relationEntry    `json:"relations,omitempty"`
}

type observationEntry struct {
	ObservationID string    `json:"observation_id"`
	Text          string    `json:"text"`
	Importance    string    `json:"importance"`
	IsUserEdit    bool      `json:"is_user_edit"`
	CreatedAt     time.Time `json:"created_at"`
}

type relationEntry struct {
	RelationID   string `json:"relation_id"`
	RelationType string `json:"relation_type"`
	Direction    string `json:"direction"`
	PeerName     string `json:"peer_name"`
	PeerType     string `json:"peer_type"`
}

type listEntitiesResponse struct {
	Count    int             `json:"count"`
	Entities []entitySummary `json:"entities"`
}

type entitySummary struct {
	Name       string `json:"name"`
	EntityType string `json:"entity_type"`
}

type deleteEntityResponse struct {
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
}

type clearMemoriesResponse struct {
	Cleared bool   `json:"cleared"`
	Message string `json:"message"`
}

type memoryStatsResponse struct {
	EntityCount      int `json:"entity_count"`
	ObservationCount int `json:"observation_count"`
	RelationCount    int `json:"relation_count"`
}
