// Package analytics holds read-only aggregate views over search and question history.
package analytics

import "time"

// CountEntry is one labelled count (query text, search type, day).
type CountEntry struct {
	Label string
	Count int
}

// SearchStats summarizes search activity over a trailing window.
type SearchStats struct {
	PeriodDays        int
	TotalSearches     int
	AvgResponseTimeMs float64
	ActiveUsers       int
	SearchTypes       []CountEntry
	TopQueries        []CountEntry
}

// UserActivity summarizes one user's activity over a trailing window.
type UserActivity struct {
	UserID         int64
	PeriodDays     int
	TotalSearches  int
	TotalQuestions int
	RecentSearches []RecentSearch
}

// RecentSearch is a trimmed search event for activity views.
type RecentSearch struct {
	Query        string
	ResultsCount int
	SearchType   string
	CreatedAt    time.Time
}

// SystemHealth carries table counts and recent activity.
type SystemHealth struct {
	TotalUsers         int
	TotalResources     int
	TotalQuestions     int
	TotalSearchLogs    int
	RecentSearches24h  int
	RecentQuestions24h int
}

// Trends carries per-day totals and per-day per-type counts, both in date order.
type Trends struct {
	PeriodDays  int
	Daily       []CountEntry
	DailyByType []DailyTypeCount
}

// DailyTypeCount is the count of one search type on one UTC day.
type DailyTypeCount struct {
	Date       string
	SearchType string
	Count      int
}

// Stamp is the minimal search event projection used for time bucketing.
type Stamp struct {
	SearchType string
	CreatedAt  time.Time
}

// QAOverview summarizes the ask endpoint.
type QAOverview struct {
	TotalQuestions     int
	TotalSearches      int
	AvgResponseTimeMs  float64
	RecentQuestions24h int
}
