package analytics

import (
	"context"
	"time"

	domanalytics "github.com/peroute/hackwest-project/internal/domain/analytics"
	"github.com/peroute/hackwest-project/internal/domain/conversation"
	"github.com/peroute/hackwest-project/internal/domain/resource"
	"github.com/peroute/hackwest-project/internal/domain/searchlog"
)

// TurnReader reads question/answer history.
type TurnReader interface {
	Recent(ctx context.Context, userID int64, limit int) ([]conversation.Turn, error)
	Count(ctx context.Context, since time.Time) (int, error)
	CountByUser(ctx context.Context, userID int64, since time.Time) (int, error)
}

// SearchLogStore writes and aggregates search events.
type SearchLogStore interface {
	Insert(ctx context.Context, e searchlog.Event) (searchlog.Event, error)
	Summary(ctx context.Context, since time.Time) (total int, avgMs float64, users int, err error)
	TypeDistribution(ctx context.Context, since time.Time) ([]domanalytics.CountEntry, error)
	TopQueries(ctx context.Context, since time.Time, n int) ([]domanalytics.CountEntry, error)
	CountByUser(ctx context.Context, userID int64, since time.Time) (int, error)
	RecentByUser(ctx context.Context, userID int64, since time.Time, n int) ([]domanalytics.RecentSearch, error)
	Stamps(ctx context.Context, since time.Time) ([]domanalytics.Stamp, error)
}

// UserCounter counts accounts.
type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

// ResourceCounter counts catalog resources.
type ResourceCounter interface {
	Count(ctx context.Context, f resource.Filter) (int, error)
}
