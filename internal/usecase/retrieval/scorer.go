package retrieval

import (
	"sort"
	"strings"
	"unicode"

	"github.com/peroute/hackwest-project/internal/domain/candidate"
	"github.com/peroute/hackwest-project/internal/domain/resource"
)

// Score weights.
const (
	categoryWeight    = 20
	titleWeight       = 10
	descriptionWeight = 5
	tagWeight         = 3

	// fullScore is the raw score that maps to similarity 1.0.
	fullScore = 20.0
)

// Scorer ranks catalog resources against a query with a fixed keyword vocabulary.
// It is safe for concurrent use.
type Scorer struct {
	categoryTerms map[string]string // term -> lowercase category label
	tracked       map[string]struct{}
}

// NewScorer builds a scorer. Tracked terms are the category term keys plus keyTerms.
func NewScorer(categoryTerms map[string]string, keyTerms []string) *Scorer {
	s := &Scorer{
		categoryTerms: make(map[string]string, len(categoryTerms)),
		tracked:       make(map[string]struct{}, len(categoryTerms)+len(keyTerms)),
	}
	for term, label := range categoryTerms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		s.categoryTerms[term] = strings.ToLower(strings.TrimSpace(label))
		s.tracked[term] = struct{}{}
	}
	for _, term := range keyTerms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			s.tracked[term] = struct{}{}
		}
	}
	return s
}

// Score returns candidates ordered by raw score (stable), truncated to limit.
// Only when no candidate matches any rule does it fall back to a plain
// substring scan with score 0. Matches below threshold are dropped, not replaced.
func (s *Scorer) Score(
	query string, candidates []resource.Resource, limit int, threshold float64,
) []candidate.Scored {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 || len(candidates) == 0 {
		return []candidate.Scored{}
	}

	terms := tokenize(q)

	scored := make([]candidate.Scored, 0, len(candidates))
	matched := false
	for i := range candidates {
		raw := s.rawScore(terms, &candidates[i])
		if raw == 0 {
			continue
		}
		matched = true
		sim := float64(raw) / fullScore
		if sim > 1 {
			sim = 1
		}
		if sim < threshold {
			continue
		}
		scored = append(scored, candidate.New(candidates[i], raw, sim))
	}

	if !matched {
		return substringFallback(q, candidates, limit)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RawScore() > scored[j].RawScore()
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func (s *Scorer) rawScore(terms []string, r *resource.Resource) int {
	title := strings.ToLower(r.Title())
	desc := strings.ToLower(r.Description())
	category := strings.ToLower(r.Category())
	tags := make([]string, len(r.Tags()))
	for i, t := range r.Tags() {
		tags[i] = strings.ToLower(t)
	}

	score := 0
	if category != "" {
		for _, term := range terms {
			if label, ok := s.categoryTerms[term]; ok && label == category {
				score += categoryWeight
				break
			}
		}
	}

	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		if _, ok := s.tracked[term]; !ok {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}

		if strings.Contains(title, term) {
			score += titleWeight
		}
		if strings.Contains(desc, term) {
			score += descriptionWeight
		}
		for _, tag := range tags {
			if strings.Contains(tag, term) {
				score += tagWeight
				break
			}
		}
	}
	return score
}

func substringFallback(q string, candidates []resource.Resource, limit int) []candidate.Scored {
	out := []candidate.Scored{}
	for i := range candidates {
		r := &candidates[i]
		if strings.Contains(strings.ToLower(r.Title()), q) ||
			strings.Contains(strings.ToLower(r.Description()), q) ||
			strings.Contains(strings.ToLower(r.Category()), q) {
			out = append(out, candidate.New(*r, 0, 0))
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// tokenize splits lowercase text on whitespace and trims surrounding punctuation from each term.
func tokenize(q string) []string {
	fields := strings.Fields(q)
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
