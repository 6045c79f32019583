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

// ObservationRepository provides data access for observations.
type ObservationRepository interface {
	Create(ctx context.Context, obs *models.Observation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Observation, error)
	// GetByText resolves an observation by case-insensitive text within an entity.
	GetByText(ctx context.Context, entityID uuid.UUID, text string) (*models.Observation, error)
	// ListByEntity returns observations ordered by importance (critical
	// first), then recency.
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.Observation, error)
	// ListByScope returns every observation whose owning entity belongs to
	// the scope. This is the search candidate set; the scope filter happens
	// in SQL, before any scoring.
	ListByScope(ctx context.Context, userID string, projectID *uuid.UUID) ([]*models.Observation, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateImportance(ctx context.Context, id uuid.UUID, importance models.Importance) error
	// DeleteOwned deletes an observation only if its owning entity belongs
	// to userID. Returns the number of rows removed.
	DeleteOwned(ctx context.Context, id uuid.UUID, userID string) (int64, error)
	CountByScope(ctx context.Context, userID string, projectID *uuid.UUID) (int, error)
}

type observationRepository struct {
	db *database.DB
}

// NewObservationRepository creates a new ObservationRepository.
func NewObservationRepository(db *database.DB) ObservationRepository {
	return &observationRepository{db: db}
}

var _ ObservationRepository = (*observationRepository)(nil)

const observationColumns = `id, entity_id, text, importance, embedding, is_user_edit, created_at, updated_at`

// importanceOrder sorts critical -> important -> normal -> temporary in SQL.
const importanceOrder = `
	CASE importance
		WHEN 'critical' THEN 0
		WHEN 'important' THEN 1
		WHEN 'normal' THEN 2
		ELSE 3
	END`

func (r *observationRepository) Create(ctx context.Context, obs *models.Observation) error {
	now := time.Now().UTC()
	if obs.ID == uuid.Nil {
		obs.ID = uuid.New()
	}
	if obs.CreatedAt.IsZero() {
		obs.CreatedAt = now
	}
	obs.UpdatedAt = obs.CreatedAt
	if obs.Importance == "" {
		obs.Importance = models.ImportanceNormal
	}

	query := `
		INSERT INTO memory_observations (id, entity_id, text, importance, embedding, is_user_edit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		obs.ID.String(), obs.EntityID.String(), obs.Text, string(obs.Importance),
		encodeEmbedding(obs.Embedding), obs.IsUserEdit, obs.CreatedAt, obs.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return apperrors.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create observation: %w", err)
	}
	return nil
}

func (r *observationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Observation, error) {
	query := `SELECT ` + observationColumns + ` FROM memory_observations WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id.String()))
}

func (r *observationRepository) GetByText(ctx context.Context, entityID uuid.UUID, text string) (*models.Observation, error) {
	query := `
		SELECT ` + observationColumns + `
		FROM memory_observations
		WHERE entity_id = ? AND lower(text) = lower(?)`
	return r.scanOne(r.db.QueryRowContext(ctx, query, entityID.String(), text))
}

func (r *observationRepository) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.Observation, error) {
	query := `
		SELECT ` + observationColumns + `
		FROM memory_observations
		WHERE entity_id = ?
		ORDER BY ` + importanceOrder + `, updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, entityID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()
	return collectObservations(rows)
}

func (r *observationRepository) ListByScope(ctx context.Context, userID string, projectID *uuid.UUID) ([]*models.Observation, error) {
	query := `
		SELECT o.id, o.entity_id, o.text, o.importance, o.embedding, o.is_user_edit, o.created_at, o.updated_at
		FROM memory_observations o
		JOIN memory_entities e ON e.id = o.entity_id
		WHERE e.user_id = ? AND e.project_id IS ?`

	rows, err := r.db.QueryContext(ctx, query, userID, projectIDValue(projectID))
	if err != nil {
		return nil, fmt.Errorf("failed to query scoped observations: %w", err)
	}
	defer rows.Close()
	return collectObservations(rows)
}

func (r *observationRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE memory_observations SET updated_at = ? WHERE id = ?`, at, id.String())
	if err != nil {
		return fmt.Errorf("failed to touch observation: %w", err)
	}
	return nil
}

func (r *observationRepository) UpdateImportance(ctx context.Context, id uuid.UUID, importance models.Importance) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE memory_observations SET importance = ? WHERE id = ?`,
		string(importance), id.String())
	if err != nil {
		return fmt.Errorf("failed to update observation importance: %w", err)
	}
	return nil
}

func (r *observationRepository) DeleteOwned(ctx context.Context, id uuid.UUID, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM memory_observations
		WHERE id = ?
		  AND entity_id IN (SELECT id FROM memory_entities WHERE user_id = ?)`,
		id.String(), userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete observation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}

func (r *observationRepository) CountByScope(ctx context.Context, userID string, projectID *uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM memory_observations o
		JOIN memory_entities e ON e.id = o.entity_id
		WHERE e.user_id = ? AND e.project_id IS ?`,
		userID, projectIDValue(projectID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count observations: %w", err)
	}
	return count, nil
}

func (r *observationRepository) scanOne(row *sql.Row) (*models.Observation, error) {
	obs, err := scanObservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return obs, err
}

func collectObservations(rows *sql.Rows) ([]*models.Observation, error) {
	var observations []*models.Observation
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, err
		}
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observations: %w", err)
	}
	return observations, nil
}

func scanObservation(s rowScanner) (*models.Observation, error) {
	var (
		obs           models.Observation
		idStr         string
		entityIDStr   string
		importanceStr string
		embedding     []byte
	)
	if err := s.Scan(&idStr, &entityIDStr, &obs.Text, &importanceStr, &embedding,
		&obs.IsUserEdit, &obs.CreatedAt, &obs.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan observation: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid observation id %q: %w", idStr, err)
	}
	entityID, err := uuid.Parse(entityIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid entity id %q: %w", entityIDStr, err)
	}
	obs.ID = id
	obs.EntityID = entityID
	obs.Importance = models.Importance(importanceStr)
	obs.Embedding, err = decodeEmbedding(embedding)
	if err != nil {
		return nil, err
	}
	return &obs, nil
}
