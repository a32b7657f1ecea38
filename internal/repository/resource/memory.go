package resource

import (
	"context"
	"fmt"
	"sync"

	"github.com/peroute/hackwest-project/internal/domain"
	domres "github.com/peroute/hackwest-project/internal/domain/resource"
)

// Memory is a process-local resource repository, used when no Redis is configured.
type Memory struct {
	mu    sync.RWMutex
	items map[string]domres.Resource
	order []string
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]domres.Resource)}
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

// Insert stores a new resource.
func (m *Memory) Insert(_ context.Context, res *domres.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[res.ID()]; ok {
		return fmt.Errorf("resource %s: %w", res.ID(), domain.ErrAlreadyExists)
	}
	m.items[res.ID()] = *res
	m.order = append(m.order, res.ID())
	return nil
}

// Update overwrites an existing resource.
func (m *Memory) Update(_ context.Context, res *domres.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[res.ID()]; !ok {
		return domain.ErrResourceNotFound
	}
	m.items[res.ID()] = *res
	return nil
}

// Get returns a resource by id.
func (m *Memory) Get(_ context.Context, id string) (domres.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res, ok := m.items[id]
	if !ok {
		return domres.Resource{}, domain.ErrResourceNotFound
	}
	return res, nil
}

// Delete removes a resource.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return domain.ErrResourceNotFound
	}
	delete(m.items, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns filtered resources in insertion order.
func (m *Memory) List(_ context.Context, f domres.Filter, skip, limit int) ([]domres.Resource, error) {
	return paginate(filter(m.snapshot(), f), skip, limit), nil
}

// Count returns the number of resources passing the filter.
func (m *Memory) Count(_ context.Context, f domres.Filter) (int, error) {
	return len(filter(m.snapshot(), f)), nil
}

// Candidates returns up to n resources in insertion order.
func (m *Memory) Candidates(_ context.Context, n int) ([]domres.Resource, error) {
	return paginate(m.snapshot(), 0, n), nil
}

func (m *Memory) snapshot() []domres.Resource {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domres.Resource, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	return out
}
