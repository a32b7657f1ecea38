// Package searchlog holds the analytics record written for every search or ask.
package searchlog

import "time"

// Search type labels. They are informational only.
const (
	TypeSemantic = "semantic"
	TypeKeyword  = "keyword"
	TypeAsk      = "ask"
)

// Event is an append-only analytics record of one search or ask call.
type Event struct {
	ID             int64
	Query          string
	ResultsCount   int
	UserID         *int64
	SearchType     string
	ResponseTimeMs int64
	CreatedAt      time.Time
}
