package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgermind/ledgermind-engine/pkg/apperrors"
	"github.com/ledgermind/ledgermind-engine/pkg/database"
	"github.com/ledgermind/ledgermind-engine/pkg/models"
)

// RelationRepository provides data access for relations between entities.
type RelationRepository interface {
	Create(ctx context.Context, rel *models.Relation) error
	// GetByTuple resolves a relation by its unique identifying tuple.
	// The type match is case-insensitive.
	GetByTuple(ctx context.Context, userID string, projectID *uuid.UUID, fromEntityID, toEntityID uuid.UUID, relType string) (*models.Relation, error)
	// ListByEntity returns every relation where the entity is source or target.
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.Relation, error)
	DeleteByTuple(ctx context.Context, userID string, projectID *uuid.UUID, fromEntityID, toEntityID uuid.UUID, relType string) (int64, error)
	// DeleteByScope removes all relations for a scope. Called before entity
	// deletion during a scope clear so no relation row ever outlives its
	// endpoints.
	DeleteByScope(ctx context.Context, userID string, projectID *uuid.UUID) error
	CountByScope(ctx context.Context, userID string, projectID *uuid.UUID) (int, error)
}

type relationRepository struct {
	db *database.DB
}

// NewRelationRepository creates a new RelationRepository.
func NewRelationRepository(db *database.DB) RelationRepository {
	return &relationRepository{db: db}
}

var _ RelationRepository = (*relationRepository)(nil)

const relationColumns = `id, user_id, project_id, from_entity_id, to_entity_id, relation_type, created_at`

func (r *relationRepository) Create(ctx context.Context, rel *models.Relation) error {
	if rel.ID == uuid.Nil {
		rel.ID = uuid.New()
	}
	if rel.CreatedAt.IsZero() {
		rel.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO memory_relations (id, user_id, project_id, from_entity_id, to_entity_id, relation_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		rel.ID.String(), rel.UserID, projectIDValue(rel.ProjectID),
		rel.FromEntityID.String(), rel.ToEntityID.String(), rel.Type, rel.CreatedAt,
	)
	if isUniqueViolation(err) {
		return apperrors.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create relation: %w", err)
	}
	return nil
}

func (r *relationRepository) GetByTuple(ctx context.Context, userID string, projectID *uuid.UUID, fromEntityID, toEntityID uuid.UUID, relType string) (*models.Relation, error) {
	query := `
		SELECT ` + relationColumns + `
		FROM memory_relations
		WHERE user_id = ? AND project_id IS ?
		  AND from_entity_id = ? AND to_entity_id = ?
		  AND lower(relation_type) = lower(?)`

	rel, err := scanRelation(r.db.QueryRowContext(ctx, query,
		userID, projectIDValue(projectID), fromEntityID.String(), toEntityID.String(), relType))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return rel, err
}

func (r *relationRepository) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.Relation, error) {
	query := `
		SELECT ` + relationColumns + `
		FROM memory_relations
		WHERE from_entity_id = ? OR to_entity_id = ?
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, entityID.String(), entityID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query relations: %w", err)
	}
	defer rows.Close()

	var relations []*models.Relation
	for rows.Next() {
		rel, err := scanRelation(rows)
		if err != nil {
			return nil, err
		}
		relations = append(relations, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating relations: %w", err)
	}
	return relations, nil
}

func (r *relationRepository) DeleteByTuple(ctx context.Context, userID string, projectID *uuid.UUID, fromEntityID, toEntityID uuid.UUID, relType string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM memory_relations
		WHERE user_id = ? AND project_id IS ?
		  AND from_entity_id = ? AND to_entity_id = ?
		  AND lower(relation_type) = lower(?)`,
		userID, projectIDValue(projectID), fromEntityID.String(), toEntityID.String(), relType)
	if err != nil {
		return 0, fmt.Errorf("failed to delete relation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}

func (r *relationRepository) DeleteByScope(ctx context.Context, userID string, projectID *uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM memory_relations WHERE user_id = ? AND project_id IS ?`,
		userID, projectIDValue(projectID))
	if err != nil {
		return fmt.Errorf("failed to delete relations for scope: %w", err)
	}
	return nil
}

func (r *relationRepository) CountByScope(ctx context.Context, userID string, projectID *uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memory_relations WHERE user_id = ? AND project_id IS ?`,
		userID, projectIDValue(projectID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count relations: %w", err)
	}
	return count, nil
}

func scanRelation(s rowScanner) (*models.Relation, error) {
	var (
		rel       models.Relation
		idStr     string
		projectID sql.NullString
		fromStr   string
		toStr     string
	)
	if err := s.Scan(&idStr, &rel.UserID, &projectID, &fromStr, &toStr, &rel.Type, &rel.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan relation: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid relation id %q: %w", idStr, err)
	}
	fromID, err := uuid.Parse(fromStr)
	if err != nil {
		return nil, fmt.Errorf("invalid from_entity_id %q: %w", fromStr, err)
	}
	toID, err := uuid.Parse(toStr)
	if err != nil {
		return nil, fmt.Errorf("invalid to_entity_id %q: %w", toStr, err)
	}
	rel.ID = id
	rel.FromEntityID = fromID
	rel.ToEntityID = toID
	rel.ProjectID, err = scanProjectID(projectID)
	if err != nil {
		return nil, err
	}
	return &rel, nil
}
