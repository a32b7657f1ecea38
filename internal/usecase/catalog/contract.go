package catalog

import (
	"context"

	"github.com/peroute/hackwest-project/internal/domain/candidate"
	"github.com/peroute/hackwest-project/internal/domain/resource"
)

// Repository persists catalog resources.
type Repository interface {
	Insert(ctx context.Context, r *resource.Resource) error
	Update(ctx context.Context, r *resource.Resource) error
	Get(ctx context.Context, id string) (resource.Resource, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f resource.Filter, skip, limit int) ([]resource.Resource, error)
	Count(ctx context.Context, f resource.Filter) (int, error)
}

// Embedder vectorizes resource text. It never fails.
type Embedder interface {
	Embed(ctx context.Context, text string) []float32
}

// Retriever ranks resources against a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, limit int, threshold float64) ([]candidate.Scored, error)
}
