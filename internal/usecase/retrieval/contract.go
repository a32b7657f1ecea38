package retrieval

import (
	"context"

	"github.com/peroute/hackwest-project/internal/domain/resource"
)

// Repository supplies the candidate pool, in store order.
type Repository interface {
	Candidates(ctx context.Context, n int) ([]resource.Resource, error)
}
