package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EntityType classifies what kind of thing an entity is.
type EntityType string

const (
	EntityTypePerson   EntityType = "person"
	EntityTypeBusiness EntityType = "business"
	EntityTypeConcept  EntityType = "concept"
	EntityTypeEvent    EntityType = "event"
	EntityTypeOther    EntityType = "other"
)

// ValidEntityTypes lists the accepted entity types, for validation messages.
var ValidEntityTypes = []EntityType{
	EntityTypePerson,
	EntityTypeBusiness,
	EntityTypeConcept,
	EntityTypeEvent,
	EntityTypeOther,
}

// IsValid reports whether t is one of the known entity types.
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypePerson, EntityTypeBusiness, EntityTypeConcept, EntityTypeEvent, EntityTypeOther:
		return true
	}
	return false
}

// ParseEntityType normalizes a caller-supplied type string. Unknown values
// fall back to "other" rather than failing - the upstream caller is an LLM
// and free-form types are common.
func ParseEntityType(s string) EntityType {
	t := EntityType(strings.ToLower(strings.TrimSpace(s)))
	if t.IsValid() {
		return t
	}
	return EntityTypeOther
}

// Entity represents a named thing the assistant remembers about a user:
// a person, a business, a concept, an event, or "other".
// Stored in memory_entities. (user_id, project_id, lower(name)) is unique;
// name lookup is always case-insensitive.
type Entity struct {
	ID        uuid.UUID  `json:"id"`
	UserID    string     `json:"user_id"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"` // nil = global to the user
	Name      string     `json:"name"`
	Type      EntityType `json:"entity_type"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// EntityWithObservations is an entity hydrated with its observations and,
// optionally, the relations touching it.
type EntityWithObservations struct {
	Entity
	Observations []*Observation   `json:"observations"`
	Relations    []*RelatedEntity `json:"relations,omitempty"`
}
