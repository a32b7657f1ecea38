package health

import "context"

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker checks an external collaborator.
type Checker interface {
	HealthCheck(ctx context.Context) error
}
