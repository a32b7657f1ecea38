// Package ask runs the question answering pipeline and records its outcome.
package ask

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/peroute/hackwest-project/internal/domain"
	"github.com/peroute/hackwest-project/internal/domain/candidate"
	"github.com/peroute/hackwest-project/internal/domain/conversation"
	"github.com/peroute/hackwest-project/internal/domain/intent"
	"github.com/peroute/hackwest-project/internal/domain/searchlog"
	"github.com/peroute/hackwest-project/internal/logger"
	"github.com/peroute/hackwest-project/internal/metrics"
)

// FailureAnswer is returned when the pipeline breaks unexpectedly.
const FailureAnswer = "I'm sorry, something went wrong while processing your question. Please try again in a moment."

// Defaults for the ask path.
const (
	DefaultLimit     = 3
	DefaultThreshold = 0.1
	DefaultMaxTurns  = 5
)

// Request is one ask call.
type Request struct {
	Question   string
	UserID     *int64
	SearchType string
}

// Answer is the pipeline result.
type Answer struct {
	Question  string
	Answer    string
	Intent    intent.Intent
	Resources []candidate.Scored
	UserID    *int64
	Timestamp time.Time
	Latency   time.Duration
	Failed    bool
}

// TopScore returns the similarity of the best resource, or nil when none was used.
func (a *Answer) TopScore() *float64 {
	if len(a.Resources) == 0 {
		return nil
	}
	s := a.Resources[0].Similarity()
	return &s
}

// Service orchestrates classify, retrieve, assemble and synthesize.
type Service struct {
	classifier  Classifier
	retriever   Retriever
	assembler   ContextAssembler
	synthesizer Synthesizer
	turns       TurnWriter
	searchLogs  SearchLogWriter
	logger      *zap.Logger

	limit     int
	threshold float64
	maxTurns  int
}

// New creates an ask service with default limits.
func New(
	classifier Classifier,
	retriever Retriever,
	assembler ContextAssembler,
	synthesizer Synthesizer,
	turns TurnWriter,
	searchLogs SearchLogWriter,
	logger *zap.Logger,
) *Service {
	return &Service{
		classifier:  classifier,
		retriever:   retriever,
		assembler:   assembler,
		synthesizer: synthesizer,
		turns:       turns,
		searchLogs:  searchLogs,
		logger:      logger,
		limit:       DefaultLimit,
		threshold:   DefaultThreshold,
		maxTurns:    DefaultMaxTurns,
	}
}

// WithRetrieval overrides the candidate limit and similarity threshold.
func (s *Service) WithRetrieval(limit int, threshold float64) *Service {
	if limit > 0 {
		s.limit = limit
	}
	if threshold >= 0 && threshold <= 1 {
		s.threshold = threshold
	}
	return s
}

// WithMaxTurns overrides how many history turns feed the prompt.
func (s *Service) WithMaxTurns(n int) *Service {
	if n > 0 {
		s.maxTurns = n
	}
	return s
}

// Handle validates the request, runs the pipeline and persists the outcome.
// A search event is always written; a conversation turn only for successful answers.
// Persistence errors are logged and never returned.
func (s *Service) Handle(ctx context.Context, req Request) (Answer, error) {
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return Answer{}, domain.NewValidationError("question", "is required")
	}

	ans := s.Ask(ctx, req)
	s.record(ctx, req, &ans)
	return ans, nil
}

// Ask runs the pipeline. It never fails: unexpected errors yield FailureAnswer.
func (s *Service) Ask(ctx context.Context, req Request) (ans Answer) {
	start := time.Now()
	in := intent.Educational

	defer func() {
		if rec := recover(); rec != nil {
			logger.FromContext(ctx, s.logger).Error("Ask pipeline panicked",
				zap.String("question", req.Question),
				zap.Any("panic", rec),
			)
			ans = Answer{
				Question:  req.Question,
				Answer:    FailureAnswer,
				Intent:    in,
				Resources: []candidate.Scored{},
				UserID:    req.UserID,
				Timestamp: time.Now().UTC(),
				Failed:    true,
			}
		}
		ans.Latency = time.Since(start)

		status := "ok"
		if ans.Failed {
			status = "failed"
		}
		metrics.AskTotal.WithLabelValues(ans.Intent.String(), status).Inc()
		metrics.AskDuration.WithLabelValues(ans.Intent.String()).Observe(ans.Latency.Seconds())
	}()

	in = s.classifier.Classify(req.Question)

	cands := []candidate.Scored{}
	if in.NeedsRetrieval() {
		found, err := s.retriever.Retrieve(ctx, req.Question, s.limit, s.threshold)
		if err != nil {
			logger.FromContext(ctx, s.logger).Warn("Candidate retrieval failed, answering without resources",
				zap.Error(err),
			)
		} else {
			cands = found
		}
	}

	history := s.assembler.Assemble(ctx, req.UserID, s.maxTurns)
	text := s.synthesizer.Synthesize(ctx, req.Question, in, cands, history)

	return Answer{
		Question:  req.Question,
		Answer:    text,
		Intent:    in,
		Resources: cands,
		UserID:    req.UserID,
		Timestamp: time.Now().UTC(),
	}
}

func (s *Service) record(ctx context.Context, req Request, ans *Answer) {
	log := logger.FromContext(ctx, s.logger)

	results := len(ans.Resources)
	if ans.Failed {
		results = 0
	}
	_, err := s.searchLogs.Insert(ctx, searchlog.Event{
		Query:          req.Question,
		ResultsCount:   results,
		UserID:         req.UserID,
		SearchType:     req.SearchType,
		ResponseTimeMs: ans.Latency.Milliseconds(),
		CreatedAt:      ans.Timestamp,
	})
	if err != nil {
		log.Warn("Failed to record search event", zap.Error(err))
	}

	if ans.Failed {
		return
	}
	if _, err := s.turns.Append(ctx, conversation.Turn{
		UserID:    req.UserID,
		Question:  req.Question,
		Answer:    ans.Answer,
		TopScore:  ans.TopScore(),
		CreatedAt: ans.Timestamp,
	}); err != nil {
		log.Warn("Failed to record conversation turn", zap.Error(fmt.Errorf("append turn: %w", err)))
	}
}
