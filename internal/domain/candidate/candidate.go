package candidate

import "github.com/peroute/hackwest-project/internal/domain/resource"

// Scored is a resource ranked against one query. Built fresh per call.
type Scored struct {
	resource   resource.Resource
	similarity float64
	raw        int
}

// New creates a scored candidate. Similarity is clamped to [0,1].
func New(r resource.Resource, raw int, similarity float64) Scored {
	if similarity < 0 {
		similarity = 0
	}
	if similarity > 1 {
		similarity = 1
	}
	return Scored{resource: r, similarity: similarity, raw: raw}
}

// Resource returns the ranked resource.
func (s Scored) Resource() resource.Resource { return s.resource }

// Similarity returns the normalized score in [0,1].
func (s Scored) Similarity() float64 { return s.similarity }

// RawScore returns the unnormalized weighted match score.
func (s Scored) RawScore() int { return s.raw }
