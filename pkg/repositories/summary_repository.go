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

// SummaryRepository provides data access for cached memory summaries.
// At most one summary row exists per (user_id, project_id) scope.
type SummaryRepository interface {
	Upsert(ctx context.Context, summary *models.MemorySummary) error
	Get(ctx context.Context, userID string, projectID *uuid.UUID) (*models.MemorySummary, error)
	DeleteByScope(ctx context.Context, userID string, projectID *uuid.UUID) error
}

type summaryRepository struct {
	db *database.DB
}

// NewSummaryRepository creates a new SummaryRepository.
func NewSummaryRepository(db *database.DB) SummaryRepository {
	return &summaryRepository{db: db}
}

var _ SummaryRepository = (*summaryRepository)(nil)

func (r *summaryRepository) Upsert(ctx context.Context, summary *models.MemorySummary) error {
	if summary.GeneratedAt.IsZero() {
		summary.GeneratedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO memory_summaries (user_id, project_id, summary_text, entity_count_snapshot, observation_count_snapshot, generated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, COALESCE(project_id, ''))
		DO UPDATE SET
			summary_text = excluded.summary_text,
			entity_count_snapshot = excluded.entity_count_snapshot,
			observation_count_snapshot = excluded.observation_count_snapshot,
			generated_at = excluded.generated_at`

	_, err := r.db.ExecContext(ctx, query,
		summary.UserID, projectIDValue(summary.ProjectID), summary.SummaryText,
		summary.EntityCountSnapshot, summary.ObservationCountSnapshot, summary.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert memory summary: %w", err)
	}
	return nil
}

func (r *summaryRepository) Get(ctx context.Context, userID string, projectID *uuid.UUID) (*models.MemorySummary, error) {
	query := `
		SELECT user_id, project_id, summary_text, entity_count_snapshot, observation_count_snapshot, generated_at
		FROM memory_summaries
		WHERE user_id = ? AND project_id IS ?`

	var (
		summary     models.MemorySummary
		projectCol  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, userID, projectIDValue(projectID)).Scan(
		&summary.UserID, &projectCol, &summary.SummaryText,
		&summary.EntityCountSnapshot, &summary.ObservationCountSnapshot, &summary.GeneratedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get memory summary: %w", err)
	}

	summary.ProjectID, err = scanProjectID(projectCol)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *summaryRepository) DeleteByScope(ctx context.Context, userID string, projectID *uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM memory_summaries WHERE user_id = ? AND project_id IS ?`,
		userID, projectIDValue(projectID))
	if err != nil {
		return fmt.Errorf("failed to delete memory summary: %w", err)
	}
	return nil
}
