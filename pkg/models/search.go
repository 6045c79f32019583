package models

// SearchResult pairs an observation with its owning entity and the final
// relevance score assigned by the search engine.
type SearchResult struct {
	Entity      *Entity      `json:"entity"`
	Observation *Observation `json:"observation"`
	Score       float64      `json:"score"`
}

// MemoryStats holds aggregate counts for one (user, project) scope.
// Used for UI display and for the memory-summary staleness check.
type MemoryStats struct {
	EntityCount      int `json:"entity_count"`
	ObservationCount int `json:"observation_count"`
	RelationCount    int `json:"relation_count"`
}
