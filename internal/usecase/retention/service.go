// Package retention prunes conversation history on a cron schedule.
package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/gorhill/cronexpr"
	"go.uber.org/zap"

	"github.com/peroute/hackwest-project/internal/metrics"
)

// DefaultSchedule runs retention daily at 03:00.
const DefaultSchedule = "0 3 * * *"

// Service runs PruneAll whenever the schedule fires.
type Service struct {
	pruner Pruner
	keep   int
	expr   *cronexpr.Expression
	logger *zap.Logger

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// New parses schedule and creates a retention service that keeps keep turns per user.
func New(pruner Pruner, schedule string, keep int, logger *zap.Logger) (*Service, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	expr, err := cronexpr.Parse(schedule)
	if err != nil {
		return nil, fmt.Errorf("parse retention schedule %q: %w", schedule, err)
	}
	if keep < 0 {
		return nil, fmt.Errorf("keep count must not be negative, got %d", keep)
	}
	return &Service{
		pruner: pruner,
		keep:   keep,
		expr:   expr,
		logger: logger,
		now:    time.Now,
		after:  time.After,
	}, nil
}

// Next returns the first fire time after t.
func (s *Service) Next(t time.Time) time.Time {
	return s.expr.Next(t)
}

// RunOnce prunes all users immediately.
func (s *Service) RunOnce(ctx context.Context) (int64, error) {
	n, err := s.pruner.PruneAll(ctx, s.keep)
	if n > 0 {
		metrics.RetentionDeletedTotal.Add(float64(n))
	}
	if err != nil {
		return n, fmt.Errorf("prune history: %w", err)
	}
	return n, nil
}

// Run blocks until ctx is cancelled, pruning at every scheduled time.
func (s *Service) Run(ctx context.Context) {
	for {
		now := s.now()
		next := s.expr.Next(now)
		if next.IsZero() {
			s.logger.Warn("Retention schedule has no future run, stopping")
			return
		}
		wait := next.Sub(now)
		s.logger.Debug("Next retention run", zap.Time("at", next))

		select {
		case <-ctx.Done():
			return
		case <-s.after(wait):
		}

		start := time.Now()
		n, err := s.RunOnce(ctx)
		if err != nil {
			s.logger.Error("Retention run failed", zap.Int64("deleted", n), zap.Error(err))
			continue
		}
		s.logger.Info("Retention run finished",
			zap.Int64("deleted", n),
			zap.Int("keep", s.keep),
			zap.Duration("took", time.Since(start)),
		)
	}
}
