package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Importance is a four-level weight biasing search ranking.
type Importance string

const (
	ImportanceCritical  Importance = "critical"
	ImportanceImportant Importance = "important"
	ImportanceNormal    Importance = "normal"
	ImportanceTemporary Importance = "temporary"
)

// IsValid reports whether i is one of the known importance levels.
func (i Importance) IsValid() bool {
	switch i {
	case ImportanceCritical, ImportanceImportant, ImportanceNormal, ImportanceTemporary:
		return true
	}
	return false
}

// ParseImportance normalizes a caller-supplied importance string,
// defaulting to "normal" for empty or unknown values.
func ParseImportance(s string) Importance {
	i := Importance(strings.ToLower(strings.TrimSpace(s)))
	if i.IsValid() {
		return i
	}
	return ImportanceNormal
}

// Multiplier returns the search-score multiplier for this importance level.
// Applied after base matching so a near-miss critical fact can outrank a
// temporary exact match only when the importance gap is large enough.
func (i Importance) Multiplier() float64 {
	switch i {
	case ImportanceCritical:
		return 1.2
	case ImportanceImportant:
		return 1.1
	case ImportanceTemporary:
		return 0.8
	default:
		return 1.0
	}
}

// Rank returns the sort rank for this importance level, critical first.
func (i Importance) Rank() int {
	switch i {
	case ImportanceCritical:
		return 0
	case ImportanceImportant:
		return 1
	case ImportanceNormal:
		return 2
	case ImportanceTemporary:
		return 3
	default:
		return 2
	}
}

// Outranks reports whether i is a higher importance level than other.
// Used by the escalation policy: re-asserting a known fact can raise its
// importance but never lower it.
func (i Importance) Outranks(other Importance) bool {
	return i.Rank() < other.Rank()
}

// Observation represents a single fact attached to an entity.
// Stored in memory_observations. (entity_id, lower(text)) is unique;
// re-adding the same fact text refreshes updated_at instead of duplicating.
type Observation struct {
	ID         uuid.UUID  `json:"id"`
	EntityID   uuid.UUID  `json:"entity_id"`
	Text       string     `json:"text"`
	Importance Importance `json:"importance"`
	Embedding  []float32  `json:"-"`            // nil when the embedder was disabled or timed out
	IsUserEdit bool       `json:"is_user_edit"` // true when the human authored this fact directly
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
