// Package embedding turns text into fixed-size vectors, preferring a learned model
// and falling back to a deterministic digest.
package embedding

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/peroute/hackwest-project/internal/domain"
	"github.com/peroute/hackwest-project/internal/logger"
	"github.com/peroute/hackwest-project/internal/metrics"
)

// Embedding sources, used as the metric label.
const (
	SourceModel    = "model"
	SourceDigest   = "digest"
	SourceFallback = "fallback"
)

// Service produces embeddings of exactly dims components. It never fails.
type Service struct {
	model  domain.Embedder // nil when no learned model is configured
	dims   int
	logger *zap.Logger
}

// New creates an embedding service. model may be nil.
func New(model domain.Embedder, dims int, logger *zap.Logger) *Service {
	if dims <= 0 {
		dims = domain.DefaultDimensions
	}
	return &Service{model: model, dims: dims, logger: logger}
}

// Dimensions returns the vector length produced by Embed.
func (s *Service) Dimensions() int { return s.dims }

// Embed returns the model vector when available and well-formed, otherwise the digest.
func (s *Service) Embed(ctx context.Context, text string) []float32 {
	if text == "" {
		metrics.EmbeddingTotal.WithLabelValues(SourceDigest).Inc()
		return make([]float32, s.dims)
	}

	if s.model == nil {
		metrics.EmbeddingTotal.WithLabelValues(SourceDigest).Inc()
		return Digest(text, s.dims)
	}

	start := time.Now()
	vec, err := s.model.Embed(ctx, text)
	if err == nil && len(vec) == s.dims {
		metrics.EmbeddingTotal.WithLabelValues(SourceModel).Inc()
		return vec
	}

	log := logger.FromContext(ctx, s.logger)
	if err != nil {
		log.Warn("Embedding model failed, using digest",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
	} else {
		log.Warn("Embedding model returned wrong dimensions, using digest",
			zap.Int("expected", s.dims),
			zap.Int("got", len(vec)),
		)
	}
	metrics.EmbeddingTotal.WithLabelValues(SourceFallback).Inc()
	return Digest(text, s.dims)
}

// HealthCheck pings the model when one is configured.
func (s *Service) HealthCheck(ctx context.Context) error {
	if hc, ok := s.model.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
