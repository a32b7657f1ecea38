// Package analytics serves read-only aggregates over questions and search events.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/peroute/hackwest-project/internal/domain"
	domanalytics "github.com/peroute/hackwest-project/internal/domain/analytics"
	"github.com/peroute/hackwest-project/internal/domain/conversation"
	"github.com/peroute/hackwest-project/internal/domain/resource"
	"github.com/peroute/hackwest-project/internal/domain/searchlog"
)

// Window and page limits.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
	DefaultStatsDays    = 7
	DefaultActivityDays = 30
	DefaultTrendDays    = 30
	MaxDays             = 365

	topQueryCount    = 10
	recentSearchRows = 10
	dayLayout        = "2006-01-02"
)

// Service computes analytics views.
type Service struct {
	turns     TurnReader
	logs      SearchLogStore
	users     UserCounter
	resources ResourceCounter
	now       func() time.Time
}

// New creates an analytics service.
func New(turns TurnReader, logs SearchLogStore, users UserCounter, resources ResourceCounter) *Service {
	return &Service{
		turns:     turns,
		logs:      logs,
		users:     users,
		resources: resources,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// History returns a user's most recent turns, newest first.
func (s *Service) History(ctx context.Context, userID int64, limit int) ([]conversation.Turn, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	turns, err := s.turns.Recent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return turns, nil
}

// QAOverview summarizes all questions and searches.
func (s *Service) QAOverview(ctx context.Context) (domanalytics.QAOverview, error) {
	questions, err := s.turns.Count(ctx, time.Time{})
	if err != nil {
		return domanalytics.QAOverview{}, fmt.Errorf("count questions: %w", err)
	}
	searches, avg, _, err := s.logs.Summary(ctx, time.Time{})
	if err != nil {
		return domanalytics.QAOverview{}, fmt.Errorf("summarize searches: %w", err)
	}
	recent, err := s.turns.Count(ctx, s.now().Add(-24*time.Hour))
	if err != nil {
		return domanalytics.QAOverview{}, fmt.Errorf("count recent questions: %w", err)
	}
	return domanalytics.QAOverview{
		TotalQuestions:     questions,
		TotalSearches:      searches,
		AvgResponseTimeMs:  round2(avg),
		RecentQuestions24h: recent,
	}, nil
}

// SearchStats summarizes search activity over the last days.
func (s *Service) SearchStats(ctx context.Context, days int) (domanalytics.SearchStats, error) {
	days, err := normalizeDays(days, DefaultStatsDays)
	if err != nil {
		return domanalytics.SearchStats{}, err
	}
	since := s.since(days)

	total, avg, users, err := s.logs.Summary(ctx, since)
	if err != nil {
		return domanalytics.SearchStats{}, fmt.Errorf("summarize searches: %w", err)
	}
	types, err := s.logs.TypeDistribution(ctx, since)
	if err != nil {
		return domanalytics.SearchStats{}, fmt.Errorf("search type distribution: %w", err)
	}
	top, err := s.logs.TopQueries(ctx, since, topQueryCount)
	if err != nil {
		return domanalytics.SearchStats{}, fmt.Errorf("top queries: %w", err)
	}
	return domanalytics.SearchStats{
		PeriodDays:        days,
		TotalSearches:     total,
		AvgResponseTimeMs: round2(avg),
		ActiveUsers:       users,
		SearchTypes:       types,
		TopQueries:        top,
	}, nil
}

// UserActivity summarizes one user's activity over the last days.
func (s *Service) UserActivity(ctx context.Context, userID int64, days int) (domanalytics.UserActivity, error) {
	days, err := normalizeDays(days, DefaultActivityDays)
	if err != nil {
		return domanalytics.UserActivity{}, err
	}
	since := s.since(days)

	searches, err := s.logs.CountByUser(ctx, userID, since)
	if err != nil {
		return domanalytics.UserActivity{}, fmt.Errorf("count user searches: %w", err)
	}
	questions, err := s.turns.CountByUser(ctx, userID, since)
	if err != nil {
		return domanalytics.UserActivity{}, fmt.Errorf("count user questions: %w", err)
	}
	recent, err := s.logs.RecentByUser(ctx, userID, since, recentSearchRows)
	if err != nil {
		return domanalytics.UserActivity{}, fmt.Errorf("recent user searches: %w", err)
	}
	return domanalytics.UserActivity{
		UserID:         userID,
		PeriodDays:     days,
		TotalSearches:  searches,
		TotalQuestions: questions,
		RecentSearches: recent,
	}, nil
}

// SearchTrends buckets search events by UTC day, and by day and type.
func (s *Service) SearchTrends(ctx context.Context, days int) (domanalytics.Trends, error) {
	days, err := normalizeDays(days, DefaultTrendDays)
	if err != nil {
		return domanalytics.Trends{}, err
	}
	stamps, err := s.logs.Stamps(ctx, s.since(days))
	if err != nil {
		return domanalytics.Trends{}, fmt.Errorf("load search stamps: %w", err)
	}

	daily := map[string]int{}
	byType := map[[2]string]int{}
	for _, st := range stamps {
		day := st.CreatedAt.UTC().Format(dayLayout)
		daily[day]++
		byType[[2]string{day, st.SearchType}]++
	}

	out := domanalytics.Trends{
		PeriodDays:  days,
		Daily:       make([]domanalytics.CountEntry, 0, len(daily)),
		DailyByType: make([]domanalytics.DailyTypeCount, 0, len(byType)),
	}
	for day, n := range daily {
		out.Daily = append(out.Daily, domanalytics.CountEntry{Label: day, Count: n})
	}
	sort.Slice(out.Daily, func(i, j int) bool { return out.Daily[i].Label < out.Daily[j].Label })

	for k, n := range byType {
		out.DailyByType = append(out.DailyByType, domanalytics.DailyTypeCount{Date: k[0], SearchType: k[1], Count: n})
	}
	sort.Slice(out.DailyByType, func(i, j int) bool {
		a, b := out.DailyByType[i], out.DailyByType[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.SearchType < b.SearchType
	})
	return out, nil
}

// SystemHealth reports table sizes and the last day's activity.
func (s *Service) SystemHealth(ctx context.Context) (domanalytics.SystemHealth, error) {
	var (
		h   domanalytics.SystemHealth
		err error
	)
	if h.TotalUsers, err = s.users.Count(ctx); err != nil {
		return domanalytics.SystemHealth{}, fmt.Errorf("count users: %w", err)
	}
	if h.TotalResources, err = s.resources.Count(ctx, resource.Filter{}); err != nil {
		return domanalytics.SystemHealth{}, fmt.Errorf("count resources: %w", err)
	}
	if h.TotalQuestions, err = s.turns.Count(ctx, time.Time{}); err != nil {
		return domanalytics.SystemHealth{}, fmt.Errorf("count questions: %w", err)
	}
	if h.TotalSearchLogs, _, _, err = s.logs.Summary(ctx, time.Time{}); err != nil {
		return domanalytics.SystemHealth{}, fmt.Errorf("count search logs: %w", err)
	}
	dayAgo := s.now().Add(-24 * time.Hour)
	if h.RecentSearches24h, _, _, err = s.logs.Summary(ctx, dayAgo); err != nil {
		return domanalytics.SystemHealth{}, fmt.Errorf("count recent searches: %w", err)
	}
	if h.RecentQuestions24h, err = s.turns.Count(ctx, dayAgo); err != nil {
		return domanalytics.SystemHealth{}, fmt.Errorf("count recent questions: %w", err)
	}
	return h, nil
}

// RecordSearch stores an externally reported search event.
func (s *Service) RecordSearch(ctx context.Context, e searchlog.Event) (searchlog.Event, error) {
	e.Query = strings.TrimSpace(e.Query)
	if e.Query == "" {
		return searchlog.Event{}, domain.NewValidationError("query", "is required")
	}
	if e.ResultsCount < 0 {
		return searchlog.Event{}, domain.NewValidationError("results_count", "must not be negative")
	}
	if e.ResponseTimeMs < 0 {
		return searchlog.Event{}, domain.NewValidationError("response_time_ms", "must not be negative")
	}
	e.ID = 0
	e.CreatedAt = s.now()

	saved, err := s.logs.Insert(ctx, e)
	if err != nil {
		return searchlog.Event{}, fmt.Errorf("record search: %w", err)
	}
	return saved, nil
}

func (s *Service) since(days int) time.Time {
	return s.now().Add(-time.Duration(days) * 24 * time.Hour)
}

func normalizeDays(days, def int) (int, error) {
	if days == 0 {
		return def, nil
	}
	if days < 0 || days > MaxDays {
		return 0, domain.NewValidationError("days", fmt.Sprintf("must be between 1 and %d", MaxDays))
	}
	return days, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
