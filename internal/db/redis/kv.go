package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/peroute/hackwest-project/internal/db"
)

// Get returns the value at key, or db.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.exec(ctx, db.OpGet, s.client.B().Get().Key(key).Build()).AsBytes()
	switch {
	case rueidis.IsRedisNil(err):
		return nil, db.ErrKeyNotFound
	case err != nil:
		return nil, opError(db.OpGet, err)
	}
	return data, nil
}

// Set stores value at key without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).Build()
	if err := s.exec(ctx, db.OpSet, cmd).Error(); err != nil {
		return opError(db.OpSet, err)
	}
	return nil
}

// SetWithTTL stores value at key, expiring after ttl (whole seconds).
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := s.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).Ex(ttl).Build()
	if err := s.exec(ctx, db.OpSet, cmd).Error(); err != nil {
		return opError(db.OpSet, err)
	}
	return nil
}
