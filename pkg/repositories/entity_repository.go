// Package repositories provides data access over the embedded SQLite store.
//
// Every query that touches user data filters by (user_id, project_id) in SQL.
// Tenant isolation is enforced here, at the query boundary, never as a
// post-filter on results.
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

// EntityRepository provides data access for memory entities.
type EntityRepository interface {
	Create(ctx context.Context, entity *models.Entity) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Entity, error)
	// GetByName resolves an entity by case-insensitive name within a scope.
	GetByName(ctx context.Context, userID string, projectID *uuid.UUID, name string) (*models.Entity, error)
	ListByScope(ctx context.Context, userID string, projectID *uuid.UUID) ([]*models.Entity, error)
	// Touch bumps updated_at, marking that an observation was added.
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByScope(ctx context.Context, userID string, projectID *uuid.UUID) error
	CountByScope(ctx context.Context, userID string, projectID *uuid.UUID) (int, error)
}

type entityRepository struct {
	db *database.DB
}

// NewEntityRepository creates a new EntityRepository.
func NewEntityRepository(db *database.DB) EntityRepository {
	return &entityRepository{db: db}
}

var _ EntityRepository = (*entityRepository)(nil)

const entityColumns = `id, user_id, project_id, name, entity_type, created_at, updated_at`

func (r *entityRepository) Create(ctx context.Context, entity *models.Entity) error {
	now := time.Now().UTC()
	if entity.ID == uuid.Nil {
		entity.ID = uuid.New()
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = now
	}
	entity.UpdatedAt = entity.CreatedAt

	query := `
		INSERT INTO memory_entities (id, user_id, project_id, name, entity_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		entity.ID.String(), entity.UserID, projectIDValue(entity.ProjectID),
		entity.Name, string(entity.Type), entity.CreatedAt, entity.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return apperrors.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create entity: %w", err)
	}
	return nil
}

func (r *entityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM memory_entities WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id.String()))
}

func (r *entityRepository) GetByName(ctx context.Context, userID string, projectID *uuid.UUID, name string) (*models.Entity, error) {
	query := `
		SELECT ` + entityColumns + `
		FROM memory_entities
		WHERE user_id = ? AND project_id IS ? AND lower(name) = lower(?)`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID, projectIDValue(projectID), name))
}

func (r *entityRepository) ListByScope(ctx context.Context, userID string, projectID *uuid.UUID) ([]*models.Entity, error) {
	query := `
		SELECT ` + entityColumns + `
		FROM memory_entities
		WHERE user_id = ? AND project_id IS ?
		ORDER BY lower(name)`

	rows, err := r.db.QueryContext(ctx, query, userID, projectIDValue(projectID))
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	var entities []*models.Entity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entities: %w", err)
	}
	return entities, nil
}

func (r *entityRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE memory_entities SET updated_at = ? WHERE id = ?`, at, id.String())
	if err != nil {
		return fmt.Errorf("failed to touch entity: %w", err)
	}
	return nil
}

func (r *entityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// ON DELETE CASCADE removes the entity's observations and every relation
	// where it is an endpoint.
	_, err := r.db.ExecContext(ctx, `DELETE FROM memory_entities WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	return nil
}

func (r *entityRepository) DeleteByScope(ctx context.Context, userID string, projectID *uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM memory_entities WHERE user_id = ? AND project_id IS ?`,
		userID, projectIDValue(projectID))
	if err != nil {
		return fmt.Errorf("failed to delete entities for scope: %w", err)
	}
	return nil
}

func (r *entityRepository) CountByScope(ctx context.Context, userID string, projectID *uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memory_entities WHERE user_id = ? AND project_id IS ?`,
		userID, projectIDValue(projectID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count entities: %w", err)
	}
	return count, nil
}

func (r *entityRepository) scanOne(row *sql.Row) (*models.Entity, error) {
	entity, err := scanEntityRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return entity, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntityRow(row *sql.Row) (*models.Entity, error) {
	return scanEntity(row)
}

func scanEntity(s rowScanner) (*models.Entity, error) {
	var (
		entity    models.Entity
		idStr     string
		projectID sql.NullString
		typeStr   string
	)
	if err := s.Scan(&idStr, &entity.UserID, &projectID, &entity.Name, &typeStr,
		&entity.CreatedAt, &entity.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan entity: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid entity id %q: %w", idStr, err)
	}
	entity.ID = id
	entity.Type = models.EntityType(typeStr)
	entity.ProjectID, err = scanProjectID(projectID)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}
