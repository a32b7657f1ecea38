package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/peroute/hackwest-project/internal/db"
)

// HSet writes the given fields of the hash at key.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	fv := s.client.B().Hset().Key(key).FieldValue()
	for f, v := range fields {
		fv = fv.FieldValue(f, v)
	}
	if err := s.exec(ctx, db.OpHSet, fv.Build()).Error(); err != nil {
		return opError(db.OpHSet, err)
	}
	return nil
}

// HGetAll returns every field of the hash at key. A missing key yields an empty map.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := s.exec(ctx, db.OpHGetAll, s.client.B().Hgetall().Key(key).Build()).AsStrMap()
	if err != nil {
		return nil, opError(db.OpHGetAll, err)
	}
	return m, nil
}

// HGetAllMulti pipelines HGETALL for keys and returns the maps in key order.
// A key removed between SCAN and HGETALL shows up as an empty map.
func (s *Store) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make(rueidis.Commands, 0, len(keys))
	for _, k := range keys {
		cmds = append(cmds, s.client.B().Hgetall().Key(k).Build())
	}

	start := time.Now()
	results := s.client.DoMulti(ctx, cmds...)

	out := make([]map[string]string, len(results))
	for i, res := range results {
		m, err := res.AsStrMap()
		if err != nil {
			observe(db.OpHGetAll, start, err)
			return nil, opError(db.OpHGetAll, fmt.Errorf("key %s: %w", keys[i], err))
		}
		out[i] = m
	}
	observe(db.OpHGetAll, start, nil)
	return out, nil
}

// Del removes key and reports whether it was present.
func (s *Store) Del(ctx context.Context, key string) (bool, error) {
	n, err := s.exec(ctx, db.OpDel, s.client.B().Del().Key(key).Build()).AsInt64()
	if err != nil {
		return false, opError(db.OpDel, err)
	}
	return n > 0, nil
}

// Exists reports whether key is present.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.exec(ctx, db.OpExists, s.client.B().Exists().Key(key).Build()).AsInt64()
	if err != nil {
		return false, opError(db.OpExists, err)
	}
	return n > 0, nil
}

// Scan walks the keyspace with a cursor and returns every key matching pattern.
// Keys may repeat across pages while the keyspace is rehashing, so results are deduplicated.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	seen := make(map[string]struct{})

	for cursor := uint64(0); ; {
		cmd := s.client.B().Scan().Cursor(cursor).Match(pattern).Count(s.scanCount).Build()
		page, err := s.exec(ctx, db.OpScan, cmd).AsScanEntry()
		if err != nil {
			return nil, opError(db.OpScan, err)
		}
		for _, k := range page.Elements {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		if cursor = page.Cursor; cursor == 0 {
			return keys, nil
		}
	}
}
