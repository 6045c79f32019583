// Package services implements the memory engine: the entity graph, the
// search ranking, the two compatibility facades, and summary maintenance.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgermind/ledgermind-engine/pkg/apperrors"
	"github.com/ledgermind/ledgermind-engine/pkg/embedder"
	"github.com/ledgermind/ledgermind-engine/pkg/models"
	"github.com/ledgermind/ledgermind-engine/pkg/repositories"
)

// MissingEntitiesError reports which named entities could not be resolved in
// scope. The message names every missing entity so an LLM caller knows to
// create them first. Unwraps to apperrors.ErrNotFound.
type MissingEntitiesError struct {
	Names []string
}

func (e *MissingEntitiesError) Error() string {
	return fmt.Sprintf("entities not found: %s (create them first with store_entity)",
		strings.Join(e.Names, ", "))
}

func (e *MissingEntitiesError) Unwrap() error {
	return apperrors.ErrNotFound
}

// GraphService owns entity/observation/relation CRUD, the dedup rules and
// the cascade semantics. All operations are scoped to (userID, projectID);
// a nil projectID means the user's global scope.
type GraphService interface {
	// CreateEntity creates an entity, or merges initial observations into the
	// existing entity with the same case-insensitive name. Idempotent with
	// respect to entity identity.
	CreateEntity(ctx context.Context, userID string, projectID *uuid.UUID, name string, entityType models.EntityType, initialObservations []string) (*models.EntityWithObservations, error)

	// AddObservation attaches a fact to an existing entity. Re-adding the
	// same text (any case) refreshes updated_at and escalates importance if
	// the new level outranks the stored one; it never creates a duplicate
	// and never downgrades. Returns apperrors.ErrNotFound if the entity id
	// is unknown.
	AddObservation(ctx context.Context, entityID uuid.UUID, text string, importance models.Importance, isUserEdit bool) (*models.Observation, error)

	// CreateRelation links two existing entities. Returns a
	// *MissingEntitiesError naming any endpoint that does not exist in
	// scope, or apperrors.ErrAlreadyExists (with the existing relation) if
	// the tuple is already recorded.
	CreateRelation(ctx context.Context, userID string, projectID *uuid.UUID, fromEntityName, toEntityName, relationType string) (*models.Relation, error)

	// GetEntity resolves an entity by case-insensitive name, with its
	// observations ordered by importance then recency. When includeRelations
	// is set, every relation touching the entity is returned with the peer
	// entity and the direction relative to the queried entity.
	GetEntity(ctx context.Context, userID string, projectID *uuid.UUID, name string, includeRelations bool) (*models.EntityWithObservations, error)

	// ListEntities returns all entities in scope, ordered by name.
	ListEntities(ctx context.Context, userID string, projectID *uuid.UUID) ([]*models.Entity, error)

	// DeleteEntity removes an entity by name, cascading to its observations
	// and to every relation where it is an endpoint. Returns
	// apperrors.ErrNotFound when no such entity exists; callers report that
	// rather than failing.
	DeleteEntity(ctx context.Context, userID string, projectID *uuid.UUID, name string) error

	// DeleteRelation removes a relation identified by its endpoint names and
	// type.
	DeleteRelation(ctx context.Context, userID string, projectID *uuid.UUID, fromEntityName, toEntityName, relationType string) error

	// DeleteObservation removes a single observation owned by userID.
	DeleteObservation(ctx context.Context, userID string, observationID uuid.UUID) (bool, error)

	// ClearScope removes all entities, observations, relations and the
	// cached summary for the scope. Relations are deleted before entities so
	// no relation row ever references a missing endpoint.
	ClearScope(ctx context.Context, userID string, projectID *uuid.UUID) error

	// GetStats returns aggregate counts for the scope.
	GetStats(ctx context.Context, userID string, projectID *uuid.UUID) (*models.MemoryStats, error)
}

type graphService struct {
	entities     repositories.EntityRepository
	observations repositories.ObservationRepository
	relations    repositories.RelationRepository
	summaries    repositories.SummaryRepository
	embedder     embedder.Embedder // nil when embeddings are disabled
	logger       *zap.Logger
}

// NewGraphService creates the graph engine. Pass a nil embedder to run
// lexical-only; writes then store no embedding and search falls back.
func NewGraphService(
	entities repositories.EntityRepository,
	observations repositories.ObservationRepository,
	relations repositories.RelationRepository,
	summaries repositories.SummaryRepository,
	emb embedder.Embedder,
	logger *zap.Logger,
) GraphService {
	return &graphService{
		entities:     entities,
		observations: observations,
		relations:    relations,
		summaries:    summaries,
		embedder:     emb,
		logger:       logger.Named("graph"),
	}
}

var _ GraphService = (*graphService)(nil)

func (s *graphService) CreateEntity(ctx context.Context, userID string, projectID *uuid.UUID, name string, entityType models.EntityType, initialObservations []string) (*models.EntityWithObservations, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("entity name cannot be empty")
	}
	if !entityType.IsValid() {
		return nil, fmt.Errorf("invalid entity type %q", entityType)
	}

	entity, err := s.entities.GetByName(ctx, userID, projectID, name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if entity == nil {
		entity = &models.Entity{
			UserID:    userID,
			ProjectID: projectID,
			Name:      name,
			Type:      entityType,
		}
		err = s.entities.Create(ctx, entity)
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			// Lost a create race; the unique index on the scoped name is the
			// authority, so fetch the winner and merge into it.
			entity, err = s.entities.GetByName(ctx, userID, projectID, name)
		}
		if err != nil {
			return nil, err
		}
		s.logger.Info("Entity created",
			zap.String("user_id", userID),
			zap.String("name", entity.Name),
			zap.String("entity_type", string(entity.Type)))
	}

	for _, text := range initialObservations {
		if strings.TrimSpace(text) == "" {
			continue
		}
		if _, err := s.AddObservation(ctx, entity.ID, text, models.ImportanceNormal, false); err != nil {
			return nil, err
		}
	}

	observations, err := s.observations.ListByEntity(ctx, entity.ID)
	if err != nil {
		return nil, err
	}

	return &models.EntityWithObservations{Entity: *entity, Observations: observations}, nil
}

func (s *graphService) AddObservation(ctx context.Context, entityID uuid.UUID, text string, importance models.Importance, isUserEdit bool) (*models.Observation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("observation text cannot be empty")
	}
	if importance == "" {
		importance = models.ImportanceNormal
	}

	entity, err := s.entities.GetByID(ctx, entityID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	existing, err := s.observations.GetByText(ctx, entityID, text)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return s.refreshObservation(ctx, entity, existing, importance, now)
	}

	obs := &models.Observation{
		EntityID:   entityID,
		Text:       text,
		Importance: importance,
		IsUserEdit: isUserEdit,
		Embedding:  s.embed(ctx, text),
	}

	err = s.observations.Create(ctx, obs)
	if errors.Is(err, apperrors.ErrAlreadyExists) {
		// Concurrent writer inserted the same fact first; treat ours as the
		// duplicate re-assertion it is.
		existing, err = s.observations.GetByText(ctx, entityID, text)
		if err != nil {
			return nil, err
		}
		return s.refreshObservation(ctx, entity, existing, importance, now)
	}
	if err != nil {
		return nil, err
	}

	if err := s.entities.Touch(ctx, entity.ID, now); err != nil {
		return nil, err
	}
	return obs, nil
}

// refreshObservation applies the duplicate-fact policy: updated_at advances,
// importance only ever escalates, and is_user_edit is left untouched.
func (s *graphService) refreshObservation(ctx context.Context, entity *models.Entity, obs *models.Observation, importance models.Importance, now time.Time) (*models.Observation, error) {
	if err := s.observations.Touch(ctx, obs.ID, now); err != nil {
		return nil, err
	}
	obs.UpdatedAt = now

	if importance.Outranks(obs.Importance) {
		if err := s.observations.UpdateImportance(ctx, obs.ID, importance); err != nil {
			return nil, err
		}
		s.logger.Debug("Observation importance escalated",
			zap.String("observation_id", obs.ID.String()),
			zap.String("from", string(obs.Importance)),
			zap.String("to", string(importance)))
		obs.Importance = importance
	}

	if err := s.entities.Touch(ctx, entity.ID, now); err != nil {
		return nil, err
	}
	return obs, nil
}

// embed computes an embedding for new observation text. Any embedder failure
// degrades the row to lexical-only search; it never fails the write.
func (s *graphService) embed(ctx context.Context, text string) []float32 {
	if s.embedder == nil {
		return nil
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		s.logger.Warn("Storing observation without embedding", zap.Error(err))
		return nil
	}
	return vec
}

func (s *graphService) CreateRelation(ctx context.Context, userID string, projectID *uuid.UUID, fromEntityName, toEntityName, relationType string) (*models.Relation, error) {
	relationType = strings.TrimSpace(relationType)
	if relationType == "" {
		return nil, fmt.Errorf("relation type cannot be empty")
	}

	from, to, err := s.resolveEndpoints(ctx, userID, projectID, fromEntityName, toEntityName)
	if err != nil {
		return nil, err
	}

	rel := &models.Relation{
		UserID:       userID,
		ProjectID:    projectID,
		FromEntityID: from.ID,
		ToEntityID:   to.ID,
		Type:         relationType,
	}

	err = s.relations.Create(ctx, rel)
	if errors.Is(err, apperrors.ErrAlreadyExists) {
		existing, getErr := s.relations.GetByTuple(ctx, userID, projectID, from.ID, to.ID, relationType)
		if getErr != nil {
			return nil, getErr
		}
		return existing, apperrors.ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Relation created",
		zap.String("user_id", userID),
		zap.String("from", from.Name),
		zap.String("to", to.Name),
		zap.String("relation_type", relationType))
	return rel, nil
}

// resolveEndpoints looks up both relation endpoints and collects every
// missing name, so the caller is told about all of them at once.
func (s *graphService) resolveEndpoints(ctx context.Context, userID string, projectID *uuid.UUID, fromName, toName string) (*models.Entity, *models.Entity, error) {
	var missing []string

	from, err := s.entities.GetByName(ctx, userID, projectID, fromName)
	if errors.Is(err, apperrors.ErrNotFound) {
		missing = append(missing, fromName)
	} else if err != nil {
		return nil, nil, err
	}

	to, err := s.entities.GetByName(ctx, userID, projectID, toName)
	if errors.Is(err, apperrors.ErrNotFound) {
		missing = append(missing, toName)
	} else if err != nil {
		return nil, nil, err
	}

	if len(missing) > 0 {
		return nil, nil, &MissingEntitiesError{Names: missing}
	}
	return from, to, nil
}

func (s *graphService) GetEntity(ctx context.Context, userID string, projectID *uuid.UUID, name string, includeRelations bool) (*models.EntityWithObservations, error) {
	entity, err := s.entities.GetByName(ctx, userID, projectID, name)
	if err != nil {
		return nil, err
	}

	observations, err := s.observations.ListByEntity(ctx, entity.ID)
	if err != nil {
		return nil, err
	}

	result := &models.EntityWithObservations{Entity: *entity, Observations: observations}
	if !includeRelations {
		return result, nil
	}

	relations, err := s.relations.ListByEntity(ctx, entity.ID)
	if err != nil {
		return nil, err
	}
	for _, rel := range relations {
		related, err := s.resolveRelated(ctx, entity.ID, rel)
		if err != nil {
			return nil, err
		}
		result.Relations = append(result.Relations, related)
	}
	return result, nil
}

// resolveRelated loads the peer entity on the other end of rel and records
// the direction relative to the queried entity.
func (s *graphService) resolveRelated(ctx context.Context, queriedID uuid.UUID, rel *models.Relation) (*models.RelatedEntity, error) {
	direction := models.RelationFrom
	peerID := rel.ToEntityID
	if rel.ToEntityID == queriedID {
		direction = models.RelationTo
		peerID = rel.FromEntityID
	}

	peer, err := s.entities.GetByID(ctx, peerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load relation peer: %w", err)
	}
	return &models.RelatedEntity{Relation: rel, Peer: peer, Direction: direction}, nil
}

func (s *graphService) ListEntities(ctx context.Context, userID string, projectID *uuid.UUID) ([]*models.Entity, error) {
	return s.entities.ListByScope(ctx, userID, projectID)
}

func (s *graphService) DeleteEntity(ctx context.Context, userID string, projectID *uuid.UUID, name string) error {
	entity, err := s.entities.GetByName(ctx, userID, projectID, name)
	if err != nil {
		return err
	}
	if err := s.entities.Delete(ctx, entity.ID); err != nil {
		return err
	}
	s.logger.Info("Entity deleted",
		zap.String("user_id", userID),
		zap.String("name", entity.Name))
	return nil
}

func (s *graphService) DeleteRelation(ctx context.Context, userID string, projectID *uuid.UUID, fromEntityName, toEntityName, relationType string) error {
	from, to, err := s.resolveEndpoints(ctx, userID, projectID, fromEntityName, toEntityName)
	if err != nil {
		return err
	}

	affected, err := s.relations.DeleteByTuple(ctx, userID, projectID, from.ID, to.ID, relationType)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *graphService) DeleteObservation(ctx context.Context, userID string, observationID uuid.UUID) (bool, error) {
	affected, err := s.observations.DeleteOwned(ctx, observationID, userID)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *graphService) ClearScope(ctx context.Context, userID string, projectID *uuid.UUID) error {
	// Relations first: they reference entity ids by foreign key.
	if err := s.relations.DeleteByScope(ctx, userID, projectID); err != nil {
		return err
	}
	if err := s.entities.DeleteByScope(ctx, userID, projectID); err != nil {
		return err
	}
	if err := s.summaries.DeleteByScope(ctx, userID, projectID); err != nil {
		return err
	}
	s.logger.Info("Memory scope cleared", zap.String("user_id", userID))
	return nil
}

func (s *graphService) GetStats(ctx context.Context, userID string, projectID *uuid.UUID) (*models.MemoryStats, error) {
	entityCount, err := s.entities.CountByScope(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	observationCount, err := s.observations.CountByScope(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	relationCount, err := s.relations.CountByScope(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return &models.MemoryStats{
		EntityCount:      entityCount,
		ObservationCount: observationCount,
		RelationCount:    relationCount,
	}, nil
}
