// Package redis is the Redis-protocol document store behind the resource repository
// and the embedding cache.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/peroute/hackwest-project/internal/db"
	"github.com/peroute/hackwest-project/internal/metrics"
)

var _ db.Store = (*Store)(nil)

const (
	defaultScanCount = 100
	readyPollEvery   = 100 * time.Millisecond
)

// Config holds connection parameters. Valkey and other Redis-protocol servers work too:
// only core hash, string and keyspace commands are issued.
type Config struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	ScanCount int // keys requested per SCAN page; defaults to 100
}

// Store implements db.Store over a rueidis client.
type Store struct {
	client    rueidis.Client
	scanCount int64
}

// NewStore dials the configured addresses. Client-side caching is off because
// resources are rewritten in place by other replicas.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("docstore addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect docstore: %w", err)
	}

	return newStore(client, cfg.ScanCount), nil
}

func newStore(c rueidis.Client, scanCount int) *Store {
	if scanCount <= 0 {
		scanCount = defaultScanCount
	}
	return &Store{client: c, scanCount: int64(scanCount)}
}

// Ping round-trips a PING.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.exec(ctx, db.OpPing, s.client.B().Ping().Build()).Error(); err != nil {
		return opError(db.OpPing, err)
	}
	return nil
}

// Close releases the client's connections.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings until the server answers or timeout elapses.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tick := time.NewTicker(readyPollEvery)
	defer tick.Stop()

	var last error
	for {
		if last = s.Ping(ctx); last == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("docstore not ready after %s: %w", timeout, last)
		case <-tick.C:
		}
	}
}

// exec runs one command and records its latency under op.
func (s *Store) exec(ctx context.Context, op string, cmd rueidis.Completed) rueidis.RedisResult {
	start := time.Now()
	res := s.client.Do(ctx, cmd)
	observe(op, start, res.Error())
	return res
}

func observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil && !rueidis.IsRedisNil(err) {
		result = "error"
	}
	metrics.DocStoreOpDuration.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}

func opError(op string, err error) error {
	return &db.Error{Op: op, Err: err}
}
