package resource

import (
	"time"

	"github.com/peroute/hackwest-project/internal/domain/resource/patch"
)

// Apply returns a copy with the patch applied and UpdatedAt bumped.
// The result is held to the same field limits as New.
// The embedding is carried over; callers re-embed when p.TouchesEmbeddingText().
func (r *Resource) Apply(p patch.Patch) (Resource, error) {
	out := *r
	if v := p.Title(); v != nil {
		out.title = *v
	}
	if v := p.Description(); v != nil {
		out.description = *v
	}
	if v := p.URL(); v != nil {
		out.url = *v
	}
	if v := p.Category(); v != nil {
		out.category = *v
	}
	if tags, ok := p.Tags(); ok {
		out.tags = cloneTags(tags)
	}
	if v := p.Public(); v != nil {
		out.public = *v
	}
	if err := validate(out.title, out.url, out.category, out.tags); err != nil {
		return Resource{}, err
	}
	out.updatedAt = time.Now().UTC()
	return out, nil
}
