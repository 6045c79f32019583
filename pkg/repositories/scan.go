package repositories

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// projectIDValue converts an optional project scope to its bound SQL value.
// nil stays NULL so that user-global rows are distinct from any project.
func projectIDValue(projectID *uuid.UUID) any {
	if projectID == nil {
		return nil
	}
	return projectID.String()
}

// scanProjectID converts a nullable project_id column back to a *uuid.UUID.
func scanProjectID(ns sql.NullString) (*uuid.UUID, error) {
	if !ns.Valid {
		return nil, nil
	}
	id, err := uuid.Parse(ns.String)
	if err != nil {
		return nil, fmt.Errorf("invalid project_id %q: %w", ns.String, err)
	}
	return &id, nil
}
