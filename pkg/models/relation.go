package models

import (
	"time"

	"github.com/google/uuid"
)

// RelationDirection indicates which end of a relation the queried entity
// occupies, so callers can render "X works_for Y" vs "Y works_for X".
type RelationDirection string

const (
	RelationFrom RelationDirection = "from" // queried entity is the source
	RelationTo   RelationDirection = "to"   // queried entity is the target
)

// Relation represents a directed, labeled edge between two entities owned by
// the same user (and, if scoped, the same project).
// Stored in memory_relations. (user_id, project_id, from_entity_id,
// to_entity_id, lower(type)) is unique. Endpoints must already exist;
// relations never implicitly create entities.
type Relation struct {
	ID           uuid.UUID  `json:"id"`
	UserID       string     `json:"user_id"`
	ProjectID    *uuid.UUID `json:"project_id,omitempty"`
	FromEntityID uuid.UUID  `json:"from_entity_id"`
	ToEntityID   uuid.UUID  `json:"to_entity_id"`
	Type         string     `json:"relation_type"` // free-form label, e.g. "works_for"
	CreatedAt    time.Time  `json:"created_at"`
}

// RelatedEntity describes one relation touching a queried entity: the peer
// on the other end and the direction relative to the queried entity.
type RelatedEntity struct {
	Relation  *Relation         `json:"relation"`
	Peer      *Entity           `json:"peer"`
	Direction RelationDirection `json:"direction"`
}
