package retention

import "context"

// Pruner trims every user's history down to keep turns.
type Pruner interface {
	PruneAll(ctx context.Context, keep int) (int64, error)
}
