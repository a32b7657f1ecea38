// Package searchlog persists search events and computes analytics aggregates over them.
package searchlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/peroute/hackwest-project/internal/db/sqldb"
	"github.com/peroute/hackwest-project/internal/domain/analytics"
	"github.com/peroute/hackwest-project/internal/domain/searchlog"
)

// Repo implements the search log store of usecase/ask and usecase/analytics.
type Repo struct {
	db *sqldb.DB
}

// New creates a search log repository.
func New(d *sqldb.DB) *Repo {
	return &Repo{db: d}
}

// Insert stores an event and returns it with id and timestamp filled in.
func (r *Repo) Insert(ctx context.Context, e searchlog.Event) (searchlog.Event, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.SearchType == "" {
		e.SearchType = searchlog.TypeSemantic
	}
	var user any
	if e.UserID != nil {
		user = *e.UserID
	}

	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		INSERT INTO search_logs (query, results_count, user_id, search_type, response_time_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		e.Query, e.ResultsCount, user, e.SearchType, e.ResponseTimeMs, sqldb.Millis(e.CreatedAt),
	).Scan(&e.ID)
	if err != nil {
		return searchlog.Event{}, fmt.Errorf("insert search log: %w", err)
	}
	return e, nil
}

// Summary returns the event count, mean latency and distinct user count since a point in time.
// Zero since covers all events.
func (r *Repo) Summary(ctx context.Context, since time.Time) (total int, avgMs float64, users int, err error) {
	var avg sql.NullFloat64
	err = r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT COUNT(*), AVG(response_time_ms), COUNT(DISTINCT user_id)
		FROM search_logs WHERE created_at >= ?`), sinceMillis(since),
	).Scan(&total, &avg, &users)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("search log summary: %w", err)
	}
	return total, avg.Float64, users, nil
}

// TypeDistribution counts events per search type since a point in time.
func (r *Repo) TypeDistribution(ctx context.Context, since time.Time) ([]analytics.CountEntry, error) {
	return r.countBy(ctx, `
		SELECT search_type, COUNT(*) AS n FROM search_logs WHERE created_at >= ?
		GROUP BY search_type ORDER BY n DESC, search_type`, sinceMillis(since))
}

// TopQueries returns the n most frequent query strings since a point in time.
func (r *Repo) TopQueries(ctx context.Context, since time.Time, n int) ([]analytics.CountEntry, error) {
	return r.countBy(ctx, `
		SELECT query, COUNT(*) AS n FROM search_logs WHERE created_at >= ?
		GROUP BY query ORDER BY n DESC, query LIMIT ?`, sinceMillis(since), n)
}

// CountByUser counts a user's events since a point in time.
func (r *Repo) CountByUser(ctx context.Context, userID int64, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT COUNT(*) FROM search_logs WHERE user_id = ? AND created_at >= ?`),
		userID, sinceMillis(since)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count searches of user %d: %w", userID, err)
	}
	return n, nil
}

// RecentByUser returns a user's n newest events since a point in time.
func (r *Repo) RecentByUser(
	ctx context.Context, userID int64, since time.Time, n int,
) ([]analytics.RecentSearch, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT query, results_count, search_type, created_at FROM search_logs
		WHERE user_id = ? AND created_at >= ?
		ORDER BY created_at DESC, id DESC LIMIT ?`), userID, sinceMillis(since), n)
	if err != nil {
		return nil, fmt.Errorf("query recent searches: %w", err)
	}
	defer rows.Close()

	out := []analytics.RecentSearch{}
	for rows.Next() {
		var (
			s       analytics.RecentSearch
			created int64
		)
		if err := rows.Scan(&s.Query, &s.ResultsCount, &s.SearchType, &created); err != nil {
			return nil, fmt.Errorf("scan recent search: %w", err)
		}
		s.CreatedAt = sqldb.FromMillis(created)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Stamps returns type and time of every event since a point in time, oldest first.
func (r *Repo) Stamps(ctx context.Context, since time.Time) ([]analytics.Stamp, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT search_type, created_at FROM search_logs WHERE created_at >= ?
		ORDER BY created_at, id`), sinceMillis(since))
	if err != nil {
		return nil, fmt.Errorf("query search stamps: %w", err)
	}
	defer rows.Close()

	var out []analytics.Stamp
	for rows.Next() {
		var (
			s       analytics.Stamp
			created int64
		)
		if err := rows.Scan(&s.SearchType, &created); err != nil {
			return nil, fmt.Errorf("scan search stamp: %w", err)
		}
		s.CreatedAt = sqldb.FromMillis(created)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) countBy(ctx context.Context, query string, args ...any) ([]analytics.CountEntry, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	out := []analytics.CountEntry{}
	for rows.Next() {
		var e analytics.CountEntry
		if err := rows.Scan(&e.Label, &e.Count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func sinceMillis(since time.Time) int64 {
	if since.IsZero() {
		return 0
	}
	return sqldb.Millis(since)
}
