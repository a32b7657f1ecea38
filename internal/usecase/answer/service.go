// Package answer turns a classified question, its candidates and the conversation context into
// answer text, delegating to the AI collaborator and falling back to templates.
package answer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/peroute/hackwest-project/internal/domain"
	"github.com/peroute/hackwest-project/internal/domain/candidate"
	"github.com/peroute/hackwest-project/internal/domain/completion"
	"github.com/peroute/hackwest-project/internal/domain/intent"
	"github.com/peroute/hackwest-project/internal/logger"
)

// DefaultTimeout bounds a single AI call.
const DefaultTimeout = 20 * time.Second

// Service synthesizes answers. It never fails.
type Service struct {
	completer Completer
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates an answer service. completer can be nil: every answer is then templated.
func New(completer Completer, timeout time.Duration, logger *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{completer: completer, timeout: timeout, logger: logger}
}

// Synthesize produces the answer for question. history is the assembled conversation block.
func (s *Service) Synthesize(
	ctx context.Context, question string, in intent.Intent, candidates []candidate.Scored, history string,
) string {
	switch in {
	case intent.Greeting:
		return welcomeAnswer

	case intent.Resource:
		if len(candidates) == 0 {
			res := s.complete(ctx, in, generalPrompt(question, history))
			if res.Ok() {
				return noResourcesAnswer + "\n\n" + res.Text()
			}
			return noResourcesAnswer
		}
		res := s.complete(ctx, in, resourcePrompt(question, candidates, history))
		if res.Ok() {
			return res.Text()
		}
		return resourceList(candidates)

	default:
		res := s.complete(ctx, in, generalPrompt(question, history))
		if res.Ok() {
			return res.Text()
		}
		return topicAnswer(question)
	}
}

// complete runs one bounded AI call and logs non-OK outcomes.
func (s *Service) complete(ctx context.Context, in intent.Intent, prompt string) completion.Result {
	if s.completer == nil {
		return completion.Failed(completion.ReasonUnavailable, domain.ErrAIUnavailable)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res := s.completer.Complete(callCtx, prompt)
	if !res.Ok() {
		logger.FromContext(ctx, s.logger).Warn("AI completion failed, using template answer",
			zap.String("intent", in.String()),
			zap.String("reason", string(res.Reason())),
			zap.Error(res.Err()),
		)
	}
	return res
}
