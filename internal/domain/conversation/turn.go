// Package conversation holds the question/answer history record.
package conversation

import "time"

// Turn is one persisted question/answer exchange. Append-only.
type Turn struct {
	ID        int64
	UserID    *int64
	Question  string
	Answer    string
	TopScore  *float64 // similarity of the best resource used, nil when none
	CreatedAt time.Time
}
