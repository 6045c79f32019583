package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgermind/ledgermind-engine/pkg/llm"
	"github.com/ledgermind/ledgermind-engine/pkg/models"
	"github.com/ledgermind/ledgermind-engine/pkg/repositories"
)

const summarySystemPrompt = `You summarize what an assistant knows about a user. ` +
	`Write a concise third-person digest of the facts below, grouped by subject. ` +
	`Keep critical and important facts; drop temporary trivia. Plain prose, no preamble.`

// SummaryService maintains the cached natural-language digest of a scope's
// memory. The snapshot counts stored alongside the text drive the staleness
// signal; regeneration is explicit, never automatic on write.
type SummaryService interface {
	// Get returns the stored summary and whether it is stale against live
	// counts. Returns apperrors.ErrNotFound when no summary exists yet.
	Get(ctx context.Context, userID string, projectID *uuid.UUID) (*models.MemorySummary, bool, error)

	// Refresh regenerates the summary text from the current graph and
	// stores it with matching snapshot counts. On generation failure the
	// previous summary is left intact.
	Refresh(ctx context.Context, userID string, projectID *uuid.UUID) (*models.MemorySummary, error)
}

type summaryService struct {
	graph     GraphService
	summaries repositories.SummaryRepository
	client    llm.Client // nil when summary generation is not configured
	logger    *zap.Logger
}

// NewSummaryService creates the summary service. A nil client disables
// Refresh; Get and the staleness signal still work.
func NewSummaryService(graph GraphService, summaries repositories.SummaryRepository, client llm.Client, logger *zap.Logger) SummaryService {
	return &summaryService{
		graph:     graph,
		summaries: summaries,
		client:    client,
		logger:    logger.Named("summary"),
	}
}

var _ SummaryService = (*summaryService)(nil)

func (s *summaryService) Get(ctx context.Context, userID string, projectID *uuid.UUID) (*models.MemorySummary, bool, error) {
	summary, err := s.summaries.Get(ctx, userID, projectID)
	if err != nil {
		return nil, false, err
	}

	stats, err := s.graph.GetStats(ctx, userID, projectID)
	if err != nil {
		return nil, false, err
	}
	return summary, summary.IsStale(stats.EntityCount, stats.ObservationCount), nil
}

func (s *summaryService) Refresh(ctx context.Context, userID string, projectID *uuid.UUID) (*models.MemorySummary, error) {
	if s.client == nil {
		return nil, fmt.Errorf("summary generation is not configured")
	}

	// Snapshot the counts before generating: writes landing mid-generation
	// leave the new summary already stale, which is the honest signal.
	stats, err := s.graph.GetStats(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	prompt, err := s.renderMemory(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if prompt == "" {
		return nil, fmt.Errorf("no memory to summarize")
	}

	text, err := s.client.Complete(ctx, summarySystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	summary := &models.MemorySummary{
		UserID:                   userID,
		ProjectID:                projectID,
		SummaryText:              strings.TrimSpace(text),
		EntityCountSnapshot:      stats.EntityCount,
		ObservationCountSnapshot: stats.ObservationCount,
		GeneratedAt:              time.Now().UTC(),
	}
	if err := s.summaries.Upsert(ctx, summary); err != nil {
		return nil, err
	}

	s.logger.Info("Memory summary regenerated",
		zap.String("user_id", userID),
		zap.Int("entities", stats.EntityCount),
		zap.Int("observations", stats.ObservationCount))
	return summary, nil
}

// renderMemory flattens the scope's graph into the prompt fed to the model.
func (s *summaryService) renderMemory(ctx context.Context, userID string, projectID *uuid.UUID) (string, error) {
	entities, err := s.graph.ListEntities(ctx, userID, projectID)
	if err != nil {
		return "", err
	}
	if len(entities) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, entity := range entities {
		full, err := s.graph.GetEntity(ctx, userID, projectID, entity.Name, true)
		if err != nil {
			return "", err
		}

		fmt.Fprintf(&b, "%s (%s)\n", full.Name, full.Type)
		for _, obs := range full.Observations {
			fmt.Fprintf(&b, "- [%s] %s\n", obs.Importance, obs.Text)
		}
		for _, rel := range full.Relations {
			if rel.Direction == models.RelationFrom {
				fmt.Fprintf(&b, "- %s %s %s\n", full.Name, rel.Relation.Type, rel.Peer.Name)
			} else {
				fmt.Fprintf(&b, "- %s %s %s\n", rel.Peer.Name, rel.Relation.Type, full.Name)
			}
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
