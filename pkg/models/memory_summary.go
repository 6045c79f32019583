package models

import (
	"time"

	"github.com/google/uuid"
)

// MemorySummary is a cached natural-language digest of a scope's memory,
// plus the entity/observation counts it was generated from.
// Stored in memory_summaries, at most one row per (user_id, project_id).
// Staleness is derived from live counts, never stored.
type MemorySummary struct {
	UserID                   string     `json:"user_id"`
	ProjectID                *uuid.UUID `json:"project_id,omitempty"`
	SummaryText              string     `json:"summary_text"`
	EntityCountSnapshot      int        `json:"entity_count_snapshot"`
	ObservationCountSnapshot int        `json:"observation_count_snapshot"`
	GeneratedAt              time.Time  `json:"generated_at"`
}

// IsStale reports whether the live counts for the scope have drifted from
// the counts this summary was generated against.
func (s *MemorySummary) IsStale(entityCount, observationCount int) bool {
	return s.EntityCountSnapshot != entityCount || s.ObservationCountSnapshot != observationCount
}
