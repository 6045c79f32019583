package services

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgermind/ledgermind-engine/pkg/embedder"
	"github.com/ledgermind/ledgermind-engine/pkg/models"
	"github.com/ledgermind/ledgermind-engine/pkg/repositories"
)

// DefaultSearchLimit caps search results when the caller does not ask for a
// specific limit.
const DefaultSearchLimit = 10

// SearchService ranks observations against a free-text query. The two
// scoring paths (vector similarity vs. lexical overlap) are interchangeable
// at the call site: callers never know which one executed.
type SearchService interface {
	// Search returns the top-ranked observations in scope, highest score
	// first. The candidate set is scope-filtered in SQL before any scoring.
	Search(ctx context.Context, userID string, projectID *uuid.UUID, query string, limit int) ([]*models.SearchResult, error)
}

type searchService struct {
	entities     repositories.EntityRepository
	observations repositories.ObservationRepository
	embedder     embedder.Embedder // nil = lexical-only deployment
	logger       *zap.Logger
}

// NewSearchService creates the search engine. A nil embedder (or one that
// fails at query time) drops every candidate to the lexical path.
func NewSearchService(
	entities repositories.EntityRepository,
	observations repositories.ObservationRepository,
	emb embedder.Embedder,
	logger *zap.Logger,
) SearchService {
	return &searchService{
		entities:     entities,
		observations: observations,
		embedder:     emb,
		logger:       logger.Named("search"),
	}
}

var _ SearchService = (*searchService)(nil)

func (s *searchService) Search(ctx context.Context, userID string, projectID *uuid.UUID, query string, limit int) ([]*models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	candidates, err := s.observations.ListByScope(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	entities, err := s.entities.ListByScope(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	entitiesByID := make(map[uuid.UUID]*models.Entity, len(entities))
	for _, e := range entities {
		entitiesByID[e.ID] = e
	}

	queryVec := s.embedQuery(ctx, query)
	lex := newLexicalMatcher(query)

	results := make([]*models.SearchResult, 0, len(candidates))
	for _, obs := range candidates {
		entity, ok := entitiesByID[obs.EntityID]
		if !ok {
			continue
		}

		base, ok := baseScore(queryVec, lex, obs)
		if !ok {
			continue
		}

		results = append(results, &models.SearchResult{
			Entity:      entity,
			Observation: obs,
			Score:       base * obs.Importance.Multiplier(),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// embedQuery embeds the query text when an embedder is configured. Failures
// degrade the whole search to the lexical path rather than erroring out.
func (s *searchService) embedQuery(ctx context.Context, query string) []float32 {
	if s.embedder == nil {
		return nil
	}
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Warn("Query embedding failed, using lexical scoring", zap.Error(err))
		return nil
	}
	return vec
}

// baseScore computes the pre-importance match score for one candidate.
// Vector similarity applies only when both the query and the row carry an
// embedding of the same dimension; rows that predate embedding (or whole
// deployments without an embedder) score lexically. The second return is
// false when the candidate matches nothing and must be excluded.
func baseScore(queryVec []float32, lex *lexicalMatcher, obs *models.Observation) (float64, bool) {
	if queryVec != nil && obs.Embedding != nil && len(obs.Embedding) == len(queryVec) {
		return cosineSimilarity(queryVec, obs.Embedding), true
	}
	return lex.score(obs.Text)
}

// lexicalMatcher scores candidates by token overlap with the query.
// Tokens of length <= 2 are dropped so stopword-ish fragments ("a", "of",
// "to") do not inflate matches.
type lexicalMatcher struct {
	query  string // lowercased full query for verbatim matching
	tokens []string
}

func newLexicalMatcher(query string) *lexicalMatcher {
	lowered := strings.ToLower(query)
	var tokens []string
	for _, tok := range strings.Fields(lowered) {
		if len(tok) > 2 {
			tokens = append(tokens, tok)
		}
	}
	return &lexicalMatcher{query: lowered, tokens: tokens}
}

// score returns the lexical base score for a candidate text. A verbatim
// (case-insensitive) occurrence of the whole query scores 1.0; otherwise the
// score is the matched share of query tokens, damped by 0.8 so partial
// matches never tie an exact phrase. Candidates matching nothing are
// excluded, not kept at zero.
func (m *lexicalMatcher) score(text string) (float64, bool) {
	lowered := strings.ToLower(text)
	if strings.Contains(lowered, m.query) {
		return 1.0, true
	}
	if len(m.tokens) == 0 {
		return 0, false
	}

	matched := 0
	for _, tok := range m.tokens {
		if strings.Contains(lowered, tok) {
			matched++
		}
	}
	if matched == 0 {
		return 0, false
	}
	return float64(matched) / float64(len(m.tokens)) * 0.8, true
}

// cosineSimilarity computes the cosine of the angle between two equal-length
// vectors, in [-1, 1].
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
