//go:build integration

package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ledgermind/ledgermind-engine/pkg/apperrors"
	"github.com/ledgermind/ledgermind-engine/pkg/database"
	"github.com/ledgermind/ledgermind-engine/pkg/embedder"
	"github.com/ledgermind/ledgermind-engine/pkg/models"
	"github.com/ledgermind/ledgermind-engine/pkg/repositories"
)

type engineFixture struct {
	graph     GraphService
	search    SearchService
	summaries repositories.SummaryRepository
}

// setupEngine migrates a fresh temp-file store and wires the full engine
// over it. The mock embedder gives deterministic vectors so the vector path
// gets exercised without network access.
func setupEngine(t *testing.T) *engineFixture {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "engine.db")
	require.NoError(t, database.RunMigrations(dbPath, zap.NewNop()))

	db, err := database.NewConnection(context.Background(), &database.Config{Path: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	entities := repositories.NewEntityRepository(db)
	observations := repositories.NewObservationRepository(db)
	relations := repositories.NewRelationRepository(db)
	summaries := repositories.NewSummaryRepository(db)
	emb := embedder.NewMockEmbedder(8)

	return &engineFixture{
		graph:     NewGraphService(entities, observations, relations, summaries, emb, zap.NewNop()),
		search:    NewSearchService(entities, observations, emb, zap.NewNop()),
		summaries: summaries,
	}
}

func TestIntegrationEntityLifecycle(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	created, err := f.graph.CreateEntity(ctx, "user-1", nil, "Acme Corp", models.EntityTypeBusiness, []string{"Ships anvils"})
	require.NoError(t, err)
	require.Len(t, created.Observations, 1)

	// Re-creating under a different casing merges instead of duplicating.
	merged, err := f.graph.CreateEntity(ctx, "user-1", nil, "acme corp", models.EntityTypeBusiness, []string{"Founded 1998"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, merged.ID)
	assert.Len(t, merged.Observations, 2)

	got, err := f.graph.GetEntity(ctx, "user-1", nil, "ACME CORP", false)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Acme Corp", got.Name, "original casing is preserved")

	list, err := f.graph.ListEntities(ctx, "user-1", nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestIntegrationObservationDedupAndEscalation(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	entity, err := f.graph.CreateEntity(ctx, "user-1", nil, "Alice", models.EntityTypePerson, nil)
	require.NoError(t, err)

	first, err := f.graph.AddObservation(ctx, entity.ID, "Allergic to peanuts", models.ImportanceNormal, false)
	require.NoError(t, err)

	// Same text, different casing, higher importance: the stored row is
	// reused and escalated.
	second, err := f.graph.AddObservation(ctx, entity.ID, "ALLERGIC TO PEANUTS", models.ImportanceCritical, false)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.ImportanceCritical, second.Importance)

	// Re-adding at a lower level never downgrades.
	third, err := f.graph.AddObservation(ctx, entity.ID, "allergic to peanuts", models.ImportanceTemporary, false)
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)
	assert.Equal(t, models.ImportanceCritical, third.Importance)

	stats, err := f.graph.GetStats(ctx, "user-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ObservationCount)
}

func TestIntegrationRelationPreconditions(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	_, err := f.graph.CreateEntity(ctx, "user-1", nil, "Alice", models.EntityTypePerson, nil)
	require.NoError(t, err)

	// Both endpoints must exist; the error names the missing one.
	_, err = f.graph.CreateRelation(ctx, "user-1", nil, "Alice", "Acme Corp", "works_at")
	var missing *MissingEntitiesError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"Acme Corp"}, missing.Names)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = f.graph.CreateEntity(ctx, "user-1", nil, "Acme Corp", models.EntityTypeBusiness, nil)
	require.NoError(t, err)

	rel, err := f.graph.CreateRelation(ctx, "user-1", nil, "Alice", "Acme Corp", "works_at")
	require.NoError(t, err)
	require.NotNil(t, rel)

	// The duplicate tuple reports the existing relation.
	dup, err := f.graph.CreateRelation(ctx, "user-1", nil, "alice", "acme corp", "WORKS_AT")
	require.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	require.NotNil(t, dup)
	assert.Equal(t, rel.ID, dup.ID)

	got, err := f.graph.GetEntity(ctx, "user-1", nil, "Alice", true)
	require.NoError(t, err)
	require.Len(t, got.Relations, 1)
	assert.Equal(t, models.RelationFrom, got.Relations[0].Direction)
	assert.Equal(t, "Acme Corp", got.Relations[0].Peer.Name)
}

func TestIntegrationTenantIsolation(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	_, err := f.graph.CreateEntity(ctx, "user-a", nil, "Secret Project", models.EntityTypeConcept, []string{"Launches in May"})
	require.NoError(t, err)

	projectID := uuid.New()
	_, err = f.graph.CreateEntity(ctx, "user-a", &projectID, "Scoped Entity", models.EntityTypeConcept, nil)
	require.NoError(t, err)

	// Another user sees nothing.
	_, err = f.graph.GetEntity(ctx, "user-b", nil, "Secret Project", false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	list, err := f.graph.ListEntities(ctx, "user-b", nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	// The project scope and the global scope are disjoint for the same user.
	global, err := f.graph.ListEntities(ctx, "user-a", nil)
	require.NoError(t, err)
	require.Len(t, global, 1)
	assert.Equal(t, "Secret Project", global[0].Name)

	scoped, err := f.graph.ListEntities(ctx, "user-a", &projectID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "Scoped Entity", scoped[0].Name)

	results, err := f.search.Search(ctx, "user-b", nil, "Secret Project", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIntegrationDeleteEntityCascades(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	_, err := f.graph.CreateEntity(ctx, "user-1", nil, "Alice", models.EntityTypePerson, []string{"Lives in Berlin"})
	require.NoError(t, err)
	_, err = f.graph.CreateEntity(ctx, "user-1", nil, "Acme Corp", models.EntityTypeBusiness, nil)
	require.NoError(t, err)
	_, err = f.graph.CreateRelation(ctx, "user-1", nil, "Alice", "Acme Corp", "works_at")
	require.NoError(t, err)

	require.NoError(t, f.graph.DeleteEntity(ctx, "user-1", nil, "Alice"))

	stats, err := f.graph.GetStats(ctx, "user-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EntityCount, "peer entity survives")
	assert.Equal(t, 0, stats.ObservationCount)
	assert.Equal(t, 0, stats.RelationCount, "relations touching the entity are gone")

	assert.ErrorIs(t, f.graph.DeleteEntity(ctx, "user-1", nil, "Alice"), apperrors.ErrNotFound)
}

func TestIntegrationClearScope(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	_, err := f.graph.CreateEntity(ctx, "user-1", nil, "Alice", models.EntityTypePerson, []string{"Lives in Berlin"})
	require.NoError(t, err)
	_, err = f.graph.CreateEntity(ctx, "user-1", nil, "Acme Corp", models.EntityTypeBusiness, nil)
	require.NoError(t, err)
	_, err = f.graph.CreateRelation(ctx, "user-1", nil, "Alice", "Acme Corp", "works_at")
	require.NoError(t, err)
	require.NoError(t, f.summaries.Upsert(ctx, &models.MemorySummary{UserID: "user-1", SummaryText: "digest"}))

	// A different user's memory must survive the clear.
	_, err = f.graph.CreateEntity(ctx, "user-2", nil, "Bob", models.EntityTypePerson, nil)
	require.NoError(t, err)

	require.NoError(t, f.graph.ClearScope(ctx, "user-1", nil))

	stats, err := f.graph.GetStats(ctx, "user-1", nil)
	require.NoError(t, err)
	assert.Equal(t, &models.MemoryStats{}, stats)

	_, err = f.summaries.Get(ctx, "user-1", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	other, err := f.graph.ListEntities(ctx, "user-2", nil)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestIntegrationDeleteObservationOwnership(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	entity, err := f.graph.CreateEntity(ctx, "user-1", nil, "Alice", models.EntityTypePerson, nil)
	require.NoError(t, err)
	obs, err := f.graph.AddObservation(ctx, entity.ID, "Lives in Berlin", models.ImportanceNormal, false)
	require.NoError(t, err)

	// Another user cannot delete it.
	deleted, err := f.graph.DeleteObservation(ctx, "user-2", obs.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = f.graph.DeleteObservation(ctx, "user-1", obs.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.graph.DeleteObservation(ctx, "user-1", obs.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestIntegrationSearchEndToEnd(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	entity, err := f.graph.CreateEntity(ctx, "user-1", nil, "Preferences", models.EntityTypeConcept, nil)
	require.NoError(t, err)

	_, err = f.graph.AddObservation(ctx, entity.ID, "Prefers dark mode everywhere", models.ImportanceNormal, false)
	require.NoError(t, err)
	_, err = f.graph.AddObservation(ctx, entity.ID, "Drinks tea in the afternoon", models.ImportanceNormal, false)
	require.NoError(t, err)

	results, err := f.search.Search(ctx, "user-1", nil, "Prefers dark mode everywhere", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Prefers dark mode everywhere", results[0].Observation.Text)
	assert.Equal(t, "Preferences", results[0].Entity.Name)
}
