package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgermind/ledgermind-engine/pkg/models"
)

// FlatEntityName is the canonical entity that receives every flat-facade
// write. Callers of the flat API never see entity structure; their memories
// are observations on this one well-known entity per user.
const FlatEntityName = "User Preferences"

// MemoryItem is a flat-facade view of one stored memory.
type MemoryItem struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Score     float64   `json:"score,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// FlatMemoryService is the mem0-style flat facade: memory as an unordered
// list of short strings per user. Backed by the same graph and search
// engines as the structured facade - a fact added here is visible to a graph
// search and vice versa.
type FlatMemoryService interface {
	// Add stores content as an observation on the canonical entity.
	// Metadata may carry "importance" (critical/important/normal/temporary)
	// and "user_edit" (bool); anything else is ignored.
	Add(ctx context.Context, userID, content string, metadata map[string]any) ([]*MemoryItem, error)

	// Search returns scope-wide relevant memories, not just flat-facade
	// writes.
	Search(ctx context.Context, userID, query string, limit int) ([]*MemoryItem, error)

	// GetAll returns every memory in the user's global scope.
	GetAll(ctx context.Context, userID string) ([]*MemoryItem, error)

	// Delete removes one memory by id. Returns false when the id does not
	// exist or belongs to another user.
	Delete(ctx context.Context, userID string, id uuid.UUID) (bool, error)

	// DeleteAll clears the user's global scope.
	DeleteAll(ctx context.Context, userID string) (bool, error)
}

type flatMemoryService struct {
	graph  GraphService
	search SearchService
	logger *zap.Logger
}

// NewFlatMemoryService creates the flat facade over shared engine instances.
func NewFlatMemoryService(graph GraphService, search SearchService, logger *zap.Logger) FlatMemoryService {
	return &flatMemoryService{
		graph:  graph,
		search: search,
		logger: logger.Named("flat_memory"),
	}
}

var _ FlatMemoryService = (*flatMemoryService)(nil)

func (s *flatMemoryService) Add(ctx context.Context, userID, content string, metadata map[string]any) ([]*MemoryItem, error) {
	entity, err := s.graph.CreateEntity(ctx, userID, nil, FlatEntityName, models.EntityTypeConcept, nil)
	if err != nil {
		return nil, err
	}

	importance := models.ImportanceNormal
	isUserEdit := false
	if metadata != nil {
		if v, ok := metadata["importance"].(string); ok {
			importance = models.ParseImportance(v)
		}
		if v, ok := metadata["user_edit"].(bool); ok {
			isUserEdit = v
		}
	}

	obs, err := s.graph.AddObservation(ctx, entity.ID, content, importance, isUserEdit)
	if err != nil {
		return nil, err
	}

	return []*MemoryItem{{ID: obs.ID, Text: obs.Text, CreatedAt: obs.CreatedAt}}, nil
}

func (s *flatMemoryService) Search(ctx context.Context, userID, query string, limit int) ([]*MemoryItem, error) {
	results, err := s.search.Search(ctx, userID, nil, query, limit)
	if err != nil {
		return nil, err
	}

	items := make([]*MemoryItem, 0, len(results))
	for _, r := range results {
		items = append(items, &MemoryItem{
			ID:        r.Observation.ID,
			Text:      r.Observation.Text,
			Score:     r.Score,
			CreatedAt: r.Observation.CreatedAt,
		})
	}
	return items, nil
}

func (s *flatMemoryService) GetAll(ctx context.Context, userID string) ([]*MemoryItem, error) {
	entities, err := s.graph.ListEntities(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	var items []*MemoryItem
	for _, entity := range entities {
		full, err := s.graph.GetEntity(ctx, userID, nil, entity.Name, false)
		if err != nil {
			return nil, err
		}
		for _, obs := range full.Observations {
			items = append(items, &MemoryItem{ID: obs.ID, Text: obs.Text, CreatedAt: obs.CreatedAt})
		}
	}
	return items, nil
}

func (s *flatMemoryService) Delete(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	return s.graph.DeleteObservation(ctx, userID, id)
}

func (s *flatMemoryService) DeleteAll(ctx context.Context, userID string) (bool, error) {
	if err := s.graph.ClearScope(ctx, userID, nil); err != nil {
		return false, err
	}
	return true, nil
}
