package answer

import (
	"context"

	"github.com/peroute/hackwest-project/internal/domain/completion"
)

// Completer is the generative AI collaborator.
type Completer interface {
	Complete(ctx context.Context, prompt string) completion.Result
}
