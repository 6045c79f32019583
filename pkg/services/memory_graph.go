package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgermind/ledgermind-engine/pkg/models"
)

// GraphMemoryService is the structured entity-graph facade, used by
// tool-calling callers that let an upstream model name entities and relation
// types explicitly. It is a call-shape adapter over the graph and search
// engines - never a second data store.
type GraphMemoryService interface {
	CreateEntity(ctx context.Context, userID string, projectID *uuid.UUID, name string, entityType models.EntityType, observations []string) (*models.EntityWithObservations, error)
	AddObservation(ctx context.Context, userID string, projectID *uuid.UUID, entityName, text string, importance models.Importance, isUserEdit bool) (*models.Observation, error)
	CreateRelation(ctx context.Context, userID string, projectID *uuid.UUID, from, to, relationType string) (*models.Relation, error)
	SearchMemory(ctx context.Context, userID string, projectID *uuid.UUID, query string, limit int) ([]*models.SearchResult, error)
	GetEntity(ctx context.Context, userID string, projectID *uuid.UUID, name string, includeRelations bool) (*models.EntityWithObservations, error)
	ListEntities(ctx context.Context, userID string, projectID *uuid.UUID) ([]*models.Entity, error)
	DeleteEntity(ctx context.Context, userID string, projectID *uuid.UUID, name string) error
	ClearUserMemory(ctx context.Context, userID string, projectID *uuid.UUID) error
	GetStats(ctx context.Context, userID string, projectID *uuid.UUID) (*models.MemoryStats, error)
}

type graphMemoryService struct {
	graph  GraphService
	search SearchService
}

// NewGraphMemoryService creates the graph facade over shared engine
// instances.
func NewGraphMemoryService(graph GraphService, search SearchService) GraphMemoryService {
	return &graphMemoryService{graph: graph, search: search}
}

var _ GraphMemoryService = (*graphMemoryService)(nil)

func (s *graphMemoryService) CreateEntity(ctx context.Context, userID string, projectID *uuid.UUID, name string, entityType models.EntityType, observations []string) (*models.EntityWithObservations, error) {
	return s.graph.CreateEntity(ctx, userID, projectID, name, entityType, observations)
}

// AddObservation resolves the entity by name before delegating, so callers
// address entities the way the conversation does.
func (s *graphMemoryService) AddObservation(ctx context.Context, userID string, projectID *uuid.UUID, entityName, text string, importance models.Importance, isUserEdit bool) (*models.Observation, error) {
	entity, err := s.graph.GetEntity(ctx, userID, projectID, entityName, false)
	if err != nil {
		return nil, err
	}
	return s.graph.AddObservation(ctx, entity.ID, text, importance, isUserEdit)
}

func (s *graphMemoryService) CreateRelation(ctx context.Context, userID string, projectID *uuid.UUID, from, to, relationType string) (*models.Relation, error) {
	return s.graph.CreateRelation(ctx, userID, projectID, from, to, relationType)
}

func (s *graphMemoryService) SearchMemory(ctx context.Context, userID string, projectID *uuid.UUID, query string, limit int) ([]*models.SearchResult, error) {
	return s.search.Search(ctx, userID, projectID, query, limit)
}

func (s *graphMemoryService) GetEntity(ctx context.Context, userID string, projectID *uuid.UUID, name string, includeRelations bool) (*models.EntityWithObservations, error) {
	return s.graph.GetEntity(ctx, userID, projectID, name, includeRelations)
}

func (s *graphMemoryService) ListEntities(ctx context.Context, userID string, projectID *uuid.UUID) ([]*models.Entity, error) {
	return s.graph.ListEntities(ctx, userID, projectID)
}

func (s *graphMemoryService) DeleteEntity(ctx context.Context, userID string, projectID *uuid.UUID, name string) error {
	return s.graph.DeleteEntity(ctx, userID, projectID, name)
}

func (s *graphMemoryService) ClearUserMemory(ctx context.Context, userID string, projectID *uuid.UUID) error {
	return s.graph.ClearScope(ctx, userID, projectID)
}

func (s *graphMemoryService) GetStats(ctx context.Context, userID string, projectID *uuid.UUID) (*models.MemoryStats, error) {
	return s.graph.GetStats(ctx, userID, projectID)
}
