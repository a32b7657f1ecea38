// Package conversation assembles bounded prompt context from a user's history
// and prunes that history.
package conversation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/peroute/hackwest-project/internal/logger"
)

// DefaultKeepCount is the number of turns retained per user by Prune.
const DefaultKeepCount = 10

// Service assembles context and applies retention.
type Service struct {
	store        TurnStore
	answerBudget int
	logger       *zap.Logger
}

// New creates a conversation service. answerBudget is the rune limit for each rendered answer.
func New(store TurnStore, answerBudget int, logger *zap.Logger) *Service {
	if answerBudget <= 0 {
		answerBudget = 200
	}
	return &Service{store: store, answerBudget: answerBudget, logger: logger}
}

// Assemble renders the user's maxTurns most recent turns in chronological order.
// Anonymous users, empty history and store failures all yield "".
func (s *Service) Assemble(ctx context.Context, userID *int64, maxTurns int) string {
	if userID == nil || maxTurns <= 0 {
		return ""
	}

	turns, err := s.store.Recent(ctx, *userID, maxTurns)
	if err != nil {
		logger.FromContext(ctx, s.logger).Warn("Failed to load conversation history",
			zap.Int64("user_id", *userID),
			zap.Error(err),
		)
		return ""
	}
	if len(turns) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Previous conversation:\n")
	for i := len(turns) - 1; i >= 0; i-- {
		b.WriteString("asker: ")
		b.WriteString(turns[i].Question)
		b.WriteString("\nassistant: ")
		b.WriteString(truncateRunes(turns[i].Answer, s.answerBudget))
		b.WriteString("\n")
	}
	return b.String()
}

// Prune keeps the keep most recent turns of a user.
func (s *Service) Prune(ctx context.Context, userID int64, keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep count must not be negative, got %d", keep)
	}
	n, err := s.store.Prune(ctx, userID, keep)
	if err != nil {
		return 0, fmt.Errorf("prune user %d: %w", userID, err)
	}
	return n, nil
}

// PruneAll applies Prune to every user with history and returns the total removed.
// A failure for one user is logged and does not stop the others.
func (s *Service) PruneAll(ctx context.Context, keep int) (int64, error) {
	users, err := s.store.UsersWithHistory(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users with history: %w", err)
	}

	var total int64
	for _, id := range users {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := s.Prune(ctx, id, keep)
		if err != nil {
			s.logger.Warn("Prune failed", zap.Int64("user_id", id), zap.Error(err))
			continue
		}
		total += n
	}
	return total, nil
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
