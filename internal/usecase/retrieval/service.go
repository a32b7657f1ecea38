// Package retrieval ranks catalog resources against a question.
package retrieval

import (
	"context"
	"fmt"

	"github.com/peroute/hackwest-project/internal/domain/candidate"
)

// Service loads the candidate pool and scores it.
type Service struct {
	repo          Repository
	scorer        *Scorer
	maxCandidates int
}

// New creates a retrieval service. maxCandidates bounds the pool loaded per query.
func New(repo Repository, scorer *Scorer, maxCandidates int) *Service {
	if maxCandidates <= 0 {
		maxCandidates = 1000
	}
	return &Service{repo: repo, scorer: scorer, maxCandidates: maxCandidates}
}

// Retrieve returns up to limit candidates whose similarity reaches threshold.
func (s *Service) Retrieve(
	ctx context.Context, query string, limit int, threshold float64,
) ([]candidate.Scored, error) {
	if limit <= 0 {
		return []candidate.Scored{}, nil
	}
	pool, err := s.repo.Candidates(ctx, s.maxCandidates)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	return s.scorer.Score(query, pool, limit, threshold), nil
}
