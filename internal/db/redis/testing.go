package redis

import "github.com/redis/rueidis"

// NewStoreForTest wraps an existing client, typically a rueidis/mock one.
func NewStoreForTest(c rueidis.Client) *Store {
	return newStore(c, 0)
}
