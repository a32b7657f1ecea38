package domain

import "context"

// DefaultDimensions is the vector length used when no model dictates otherwise.
const DefaultDimensions = 384

// Embedder is the shared text vectorization contract between layers.
// Implementations used on the request path never fail; model errors are absorbed by the fallback.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// HealthChecker verifies availability of an external collaborator.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
