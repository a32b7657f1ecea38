package conversation

import (
	"context"

	"github.com/peroute/hackwest-project/internal/domain/conversation"
)

// TurnStore reads and prunes persisted question/answer turns.
type TurnStore interface {
	Recent(ctx context.Context, userID int64, limit int) ([]conversation.Turn, error)
	Prune(ctx context.Context, userID int64, keep int) (int64, error)
	UsersWithHistory(ctx context.Context) ([]int64, error)
}
