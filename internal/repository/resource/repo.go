package resource

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/peroute/hackwest-project/internal/db"
	"github.com/peroute/hackwest-project/internal/domain"
	domres "github.com/peroute/hackwest-project/internal/domain/resource"
)

// store is the consumer interface for resource hashes (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo stores resources as Redis hashes under <prefix>resource:<id>.
// Implements usecase/catalog.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a Redis-backed resource repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix + "resource:"}
}

// Insert stores a new resource. An existing id yields ErrAlreadyExists.
func (r *Repo) Insert(ctx context.Context, res *domres.Resource) error {
	key := r.key(res.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if exists {
		return fmt.Errorf("resource %s: %w", res.ID(), domain.ErrAlreadyExists)
	}

	if err := r.store.HSet(ctx, key, buildHashFields(res)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Update overwrites an existing resource.
func (r *Repo) Update(ctx context.Context, res *domres.Resource) error {
	key := r.key(res.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrResourceNotFound
	}

	if err := r.store.HSet(ctx, key, buildHashFields(res)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Get returns a resource by id.
func (r *Repo) Get(ctx context.Context, id string) (domres.Resource, error) {
	key := r.key(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domres.Resource{}, domain.ErrResourceNotFound
		}
		return domres.Resource{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return domres.Resource{}, domain.ErrResourceNotFound
	}
	return parseHashFields(id, m), nil
}

// Delete removes a resource.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.key(id)
	existed, err := r.store.Del(ctx, key)
	if err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	if !existed {
		return domain.ErrResourceNotFound
	}
	return nil
}

// List returns filtered resources in insertion order, skipping skip and returning at most limit.
func (r *Repo) List(ctx context.Context, f domres.Filter, skip, limit int) ([]domres.Resource, error) {
	all, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return paginate(filter(all, f), skip, limit), nil
}

// Count returns the number of resources passing the filter.
func (r *Repo) Count(ctx context.Context, f domres.Filter) (int, error) {
	all, err := r.loadAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(filter(all, f)), nil
}

// Candidates returns up to n resources in insertion order for scoring.
func (r *Repo) Candidates(ctx context.Context, n int) ([]domres.Resource, error) {
	all, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return paginate(all, 0, n), nil
}

// loadAll scans every resource key and hydrates the hashes in one pipelined round-trip.
func (r *Repo) loadAll(ctx context.Context) ([]domres.Resource, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan resources: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}

	out := make([]domres.Resource, 0, len(keys))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		out = append(out, parseHashFields(strings.TrimPrefix(keys[i], r.prefix), m))
	}
	sortByCreation(out)
	return out, nil
}

func (r *Repo) key(id string) string {
	return r.prefix + id
}

// sortByCreation orders by created_at, then id, giving a stable store order.
func sortByCreation(rs []domres.Resource) {
	sort.SliceStable(rs, func(i, j int) bool {
		ci, cj := rs[i].CreatedAt(), rs[j].CreatedAt()
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return rs[i].ID() < rs[j].ID()
	})
}

func filter(rs []domres.Resource, f domres.Filter) []domres.Resource {
	if f.IsZero() {
		return rs
	}
	out := make([]domres.Resource, 0, len(rs))
	for i := range rs {
		if f.Matches(&rs[i]) {
			out = append(out, rs[i])
		}
	}
	return out
}

func paginate(rs []domres.Resource, skip, limit int) []domres.Resource {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(rs) || limit <= 0 {
		return []domres.Resource{}
	}
	end := skip + limit
	if end > len(rs) {
		end = len(rs)
	}
	return rs[skip:end]
}
