package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgermind/ledgermind-engine/pkg/apperrors"
	"github.com/ledgermind/ledgermind-engine/pkg/models"
	"github.com/ledgermind/ledgermind-engine/pkg/repositories"
)

var (
	_ repositories.EntityRepository      = (*fakeEntityRepo)(nil)
	_ repositories.ObservationRepository = (*fakeObservationRepo)(nil)
	_ repositories.SummaryRepository     = (*fakeSummaryRepo)(nil)
)

// mockGraphService implements GraphService with overridable behavior per
// test. Facade tests need to verify call shapes, not graph semantics.
type mockGraphService struct {
	CreateEntityFunc      func(ctx context.Context, userID string, projectID *uuid.UUID, name string, entityType models.EntityType, initialObservations []string) (*models.EntityWithObservations, error)
	AddObservationFunc    func(ctx context.Context, entityID uuid.UUID, text string, importance models.Importance, isUserEdit bool) (*models.Observation, error)
	CreateRelationFunc    func(ctx context.Context, userID string, projectID *uuid.UUID, fromEntityName, toEntityName, relationType string) (*models.Relation, error)
	GetEntityFunc         func(ctx context.Context, userID string, projectID *uuid.UUID, name string, includeRelations bool) (*models.EntityWithObservations, error)
	ListEntitiesFunc      func(ctx context.Context, userID string, projectID *uuid.UUID) ([]*models.Entity, error)
	DeleteEntityFunc      func(ctx context.Context, userID string, projectID *uuid.UUID, name string) error
	DeleteRelationFunc    func(ctx context.Context, userID string, projectID *uuid.UUID, fromEntityName, toEntityName, relationType string) error
	DeleteObservationFunc func(ctx context.Context, userID string, observationID uuid.UUID) (bool, error)
	ClearScopeFunc        func(ctx context.Context, userID string, projectID *uuid.UUID) error
	GetStatsFunc          func(ctx context.Context, userID string, projectID *uuid.UUID) (*models.MemoryStats, error)
}

var _ GraphService = (*mockGraphService)(nil)

func (m *mockGraphService) CreateEntity(ctx context.Context, userID string, projectID *uuid.UUID, name string, entityType models.EntityType, initialObservations []string) (*models.EntityWithObservations, error) {
	if m.CreateEntityFunc != nil {
		return m.CreateEntityFunc(ctx, userID, projectID, name, entityType, initialObservations)
	}
	return nil, fmt.Errorf("CreateEntity not configured")
}

func (m *mockGraphService) AddObservation(ctx context.Context, entityID uuid.UUID, text string, importance models.Importance, isUserEdit bool) (*models.Observation, error) {
	if m.AddObservationFunc != nil {
		return m.AddObservationFunc(ctx, entityID, text, importance, isUserEdit)
	}
	return nil, fmt.Errorf("AddObservation not configured")
}

func (m *mockGraphService) CreateRelation(ctx context.Context, userID string, projectID *uuid.UUID, fromEntityName, toEntityName, relationType string) (*models.Relation, error) {
	if m.CreateRelationFunc != nil {
		return m.CreateRelationFunc(ctx, userID, projectID, fromEntityName, toEntityName, relationType)
	}
	return nil, fmt.Errorf("CreateRelation not configured")
}

func (m *mockGraphService) GetEntity(ctx context.Context, userID string, projectID *uuid.UUID, name string, includeRelations bool) (*models.EntityWithObservations, error) {
	if m.GetEntityFunc != nil {
		return m.GetEntityFunc(ctx, userID, projectID, name, includeRelations)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockGraphService) ListEntities(ctx context.Context, userID string, projectID *uuid.UUID) ([]*models.Entity, error) {
	if m.ListEntitiesFunc != nil {
		return m.ListEntitiesFunc(ctx, userID, projectID)
	}
	return nil, nil
}

func (m *mockGraphService) DeleteEntity(ctx context.Context, userID string, projectID *uuid.UUID, name string) error {
	if m.DeleteEntityFunc != nil {
		return m.DeleteEntityFunc(ctx, userID, projectID, name)
	}
	return apperrors.ErrNotFound
}

func (m *mockGraphService) DeleteRelation(ctx context.Context, userID string, projectID *uuid.UUID, fromEntityName, toEntityName, relationType string) error {
	if m.DeleteRelationFunc != nil {
		return m.DeleteRelationFunc(ctx, userID, projectID, fromEntityName, toEntityName, relationType)
	}
	return apperrors.ErrNotFound
}

func (m *mockGraphService) DeleteObservation(ctx context.Context, userID string, observationID uuid.UUID) (bool, error) {
	if m.DeleteObservationFunc != nil {
		return m.DeleteObservationFunc(ctx, userID, observationID)
	}
	return false, nil
}

func (m *mockGraphService) ClearScope(ctx context.Context, userID string, projectID *uuid.UUID) error {
	if m.ClearScopeFunc != nil {
		return m.ClearScopeFunc(ctx, userID, projectID)
	}
	return nil
}

func (m *mockGraphService) GetStats(ctx context.Context, userID string, projectID *uuid.UUID) (*models.MemoryStats, error) {
	if m.GetStatsFunc != nil {
		return m.GetStatsFunc(ctx, userID, projectID)
	}
	return &models.MemoryStats{}, nil
}

// mockSearchService implements SearchService for facade tests.
type mockSearchService struct {
	SearchFunc func(ctx context.Context, userID string, projectID *uuid.UUID, query string, limit int) ([]*models.SearchResult, error)
}

var _ SearchService = (*mockSearchService)(nil)

func (m *mockSearchService) Search(ctx context.Context, userID string, projectID *uuid.UUID, query string, limit int) ([]*models.SearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, userID, projectID, query, limit)
	}
	return nil, nil
}

// fakeEntityRepo serves a fixed entity list; search only reads by scope.
type fakeEntityRepo struct {
	entities []*models.Entity
}

func (f *fakeEntityRepo) Create(ctx context.Context, entity *models.Entity) error { return nil }
func (f *fakeEntityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Entity, error) {
	for _, e := range f.entities {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}
func (f *fakeEntityRepo) GetByName(ctx context.Context, userID string, projectID *uuid.UUID, name string) (*models.Entity, error) {
	return nil, apperrors.ErrNotFound
}
func (f *fakeEntityRepo) ListByScope(ctx context.Context, userID string, projectID *uuid.UUID) ([]*models.Entity, error) {
	return f.entities, nil
}
func (f *fakeEntityRepo) Touch(ctx context.Context, id uuid.UUID, at time.Time) error { return nil }
func (f *fakeEntityRepo) Delete(ctx context.Context, id uuid.UUID) error              { return nil }
func (f *fakeEntityRepo) DeleteByScope(ctx context.Context, userID string, projectID *uuid.UUID) error {
	return nil
}
func (f *fakeEntityRepo) CountByScope(ctx context.Context, userID string, projectID *uuid.UUID) (int, error) {
	return len(f.entities), nil
}

// fakeObservationRepo serves a fixed observation list; search only reads by
// scope.
type fakeObservationRepo struct {
	observations []*models.Observation
}

func (f *fakeObservationRepo) Create(ctx context.Context, obs *models.Observation) error { return nil }
func (f *fakeObservationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Observation, error) {
	return nil, apperrors.ErrNotFound
}
func (f *fakeObservationRepo) GetByText(ctx context.Context, entityID uuid.UUID, text string) (*models.Observation, error) {
	return nil, apperrors.ErrNotFound
}
func (f *fakeObservationRepo) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.Observation, error) {
	return nil, nil
}
func (f *fakeObservationRepo) ListByScope(ctx context.Context, userID string, projectID *uuid.UUID) ([]*models.Observation, error) {
	return f.observations, nil
}
func (f *fakeObservationRepo) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}
func (f *fakeObservationRepo) UpdateImportance(ctx context.Context, id uuid.UUID, importance models.Importance) error {
	return nil
}
func (f *fakeObservationRepo) DeleteOwned(ctx context.Context, id uuid.UUID, userID string) (int64, error) {
	return 0, nil
}
func (f *fakeObservationRepo) CountByScope(ctx context.Context, userID string, projectID *uuid.UUID) (int, error) {
	return len(f.observations), nil
}

// fakeSummaryRepo stores one summary per scope key, mirroring the table's
// uniqueness.
type fakeSummaryRepo struct {
	summaries map[string]*models.MemorySummary
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{summaries: make(map[string]*models.MemorySummary)}
}

func summaryKey(userID string, projectID *uuid.UUID) string {
	if projectID == nil {
		return userID
	}
	return userID + "/" + projectID.String()
}

func (f *fakeSummaryRepo) Upsert(ctx context.Context, summary *models.MemorySummary) error {
	f.summaries[summaryKey(summary.UserID, summary.ProjectID)] = summary
	return nil
}

func (f *fakeSummaryRepo) Get(ctx context.Context, userID string, projectID *uuid.UUID) (*models.MemorySummary, error) {
	summary, ok := f.summaries[summaryKey(userID, projectID)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return summary, nil
}

func (f *fakeSummaryRepo) DeleteByScope(ctx context.Context, userID string, projectID *uuid.UUID) error {
	delete(f.summaries, summaryKey(userID, projectID))
	return nil
}
