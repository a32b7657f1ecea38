// Package catalog manages university resources: CRUD, batch creation and bulk import.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/peroute/hackwest-project/internal/domain"
	dombatch "github.com/peroute/hackwest-project/internal/domain/batch"
	"github.com/peroute/hackwest-project/internal/domain/candidate"
	"github.com/peroute/hackwest-project/internal/domain/resource"
	"github.com/peroute/hackwest-project/internal/domain/resource/patch"
	"github.com/peroute/hackwest-project/internal/logger"
	"github.com/peroute/hackwest-project/internal/metrics"
)

// MaxBatchSize is the default maximum number of items per batch request.
const MaxBatchSize = 100

// Service handles resource CRUD with automatic embedding.
type Service struct {
	repo            Repository
	embed           Embedder
	retriever       Retriever
	logger          *zap.Logger
	defaultPageSize int
	maxPageSize     int
	maxBatchSize    int
}

// New creates a catalog service.
func New(repo Repository, embed Embedder, retriever Retriever, logger *zap.Logger) *Service {
	return &Service{
		repo:            repo,
		embed:           embed,
		retriever:       retriever,
		logger:          logger,
		defaultPageSize: 100,
		maxPageSize:     500,
		maxBatchSize:    MaxBatchSize,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Create validates, embeds and stores a new resource.
func (s *Service) Create(ctx context.Context, p resource.Params) (resource.Resource, error) {
	r, err := resource.New(p)
	if err != nil {
		return resource.Resource{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	r.SetEmbedding(s.embed.Embed(ctx, r.EmbeddingText()))

	if err := s.repo.Insert(ctx, &r); err != nil {
		return resource.Resource{}, fmt.Errorf("insert resource: %w", err)
	}
	return r, nil
}

// Get returns a resource by id.
func (s *Service) Get(ctx context.Context, id string) (resource.Resource, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return resource.Resource{}, fmt.Errorf("get resource: %w", err)
	}
	return r, nil
}

// List returns a filtered page of resources in creation order.
func (s *Service) List(ctx context.Context, f resource.Filter, skip, limit int) ([]resource.Resource, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	rs, err := s.repo.List(ctx, f, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return rs, nil
}

// Count returns the number of resources matching f.
func (s *Service) Count(ctx context.Context, f resource.Filter) (int, error) {
	n, err := s.repo.Count(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("count resources: %w", err)
	}
	return n, nil
}

// Update applies a partial update. The embedding is recomputed when title or description changes.
func (s *Service) Update(ctx context.Context, id string, fields patch.Fields) (resource.Resource, error) {
	p, err := patch.New(fields)
	if err != nil {
		return resource.Resource{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return resource.Resource{}, fmt.Errorf("get resource: %w", err)
	}

	updated, err := current.Apply(p)
	if err != nil {
		return resource.Resource{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if p.TouchesEmbeddingText() {
		updated.SetEmbedding(s.embed.Embed(ctx, updated.EmbeddingText()))
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return resource.Resource{}, fmt.Errorf("update resource: %w", err)
	}
	return updated, nil
}

// Delete removes a resource.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return nil
}

// Search ranks the catalog against query.
func (s *Service) Search(
	ctx context.Context, query string, limit int, threshold float64,
) ([]candidate.Scored, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.NewValidationError("query", "is required")
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	found, err := s.retriever.Retrieve(ctx, query, limit, threshold)
	if err != nil {
		return nil, fmt.Errorf("search resources: %w", err)
	}
	return found, nil
}

// BatchCreate stores items one by one. A failing item does not stop the batch.
func (s *Service) BatchCreate(ctx context.Context, items []resource.Params) []dombatch.Result {
	results := make([]dombatch.Result, len(items))

	if len(items) > s.maxBatchSize {
		for i, item := range items {
			results[i] = dombatch.NewError(i, item.Title,
				fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrInvalidInput))
		}
		metrics.BatchItemsTotal.WithLabelValues(string(dombatch.StatusError)).Add(float64(len(items)))
		return results
	}

	for i, item := range items {
		r, err := s.Create(ctx, item)
		if err != nil {
			logger.FromContext(ctx, s.logger).Warn("Batch item failed",
				zap.Int("index", i),
				zap.String("title", item.Title),
				zap.Error(err),
			)
			results[i] = dombatch.NewError(i, item.Title, err)
		} else {
			results[i] = dombatch.NewOK(i, r.ID(), r.Title())
		}
		metrics.BatchItemsTotal.WithLabelValues(string(results[i].Status())).Inc()
	}
	return results
}
