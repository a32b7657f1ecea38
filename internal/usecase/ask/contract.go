package ask

import (
	"context"

	"github.com/peroute/hackwest-project/internal/domain/candidate"
	"github.com/peroute/hackwest-project/internal/domain/conversation"
	"github.com/peroute/hackwest-project/internal/domain/intent"
	"github.com/peroute/hackwest-project/internal/domain/searchlog"
)

// Classifier assigns an intent to a question.
type Classifier interface {
	Classify(question string) intent.Intent
}

// Retriever ranks catalog resources against a question.
type Retriever interface {
	Retrieve(ctx context.Context, query string, limit int, threshold float64) ([]candidate.Scored, error)
}

// ContextAssembler renders recent conversation history.
type ContextAssembler interface {
	Assemble(ctx context.Context, userID *int64, maxTurns int) string
}

// Synthesizer produces answer text. It never fails.
type Synthesizer interface {
	Synthesize(
		ctx context.Context, question string, in intent.Intent, candidates []candidate.Scored, history string,
	) string
}

// TurnWriter persists question/answer turns.
type TurnWriter interface {
	Append(ctx context.Context, t conversation.Turn) (int64, error)
}

// SearchLogWriter persists search events.
type SearchLogWriter interface {
	Insert(ctx context.Context, e searchlog.Event) (searchlog.Event, error)
}
