package retention

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/peroute/hackwest-project/internal/metrics"
)

// --- Mocks ---

type mockPruner struct {
	mu    sync.Mutex
	n     int64
	err   error
	keeps []int
	calls chan struct{}
}

func (m *mockPruner) PruneAll(_ context.Context, keep int) (int64, error) {
	m.mu.Lock()
	m.keeps = append(m.keeps, keep)
	m.mu.Unlock()
	if m.calls != nil {
		m.calls <- struct{}{}
	}
	return m.n, m.err
}

func immediate(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

// --- Tests ---

func TestNew_InvalidSchedule(t *testing.T) {
	if _, err := New(&mockPruner{}, "not a cron", 10, zap.NewNop()); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := New(&mockPruner{}, "", -1, zap.NewNop()); err == nil {
		t.Fatal("expected keep count error")
	}
}

func TestNext_DefaultSchedule(t *testing.T) {
	svc, err := New(&mockPruner{}, "", 10, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	from := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	want := time.Date(2025, 3, 2, 3, 0, 0, 0, time.UTC)
	if got := svc.Next(from); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRunOnce(t *testing.T) {
	p := &mockPruner{n: 4}
	svc, _ := New(p, DefaultSchedule, 7, zap.NewNop())
	before := testutil.ToFloat64(metrics.RetentionDeletedTotal)

	n, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 deleted, got %d", n)
	}
	if len(p.keeps) != 1 || p.keeps[0] != 7 {
		t.Errorf("expected keep 7, got %v", p.keeps)
	}
	if got := testutil.ToFloat64(metrics.RetentionDeletedTotal) - before; got != 4 {
		t.Errorf("expected counter +4, got %v", got)
	}
}

func TestRunOnce_Error(t *testing.T) {
	p := &mockPruner{n: 1, err: errors.New("db down")}
	svc, _ := New(p, DefaultSchedule, 10, zap.NewNop())

	n, err := svc.RunOnce(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if n != 1 {
		t.Errorf("expected partial count 1, got %d", n)
	}
}

func TestRun_FiresUntilCancelled(t *testing.T) {
	p := &mockPruner{calls: make(chan struct{})}
	svc, _ := New(p, "* * * * *", 3, zap.NewNop())
	svc.after = immediate

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-p.calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected run %d", i+1)
		}
	}
	cancel()
	// Drain a run that may have started before cancellation was observed.
	go func() {
		for range p.calls {
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRun_WaitsFromInjectedClock(t *testing.T) {
	svc, _ := New(&mockPruner{}, "* * * * *", 3, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 1, 5, 10, 0, 30, 0, time.UTC) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	waits := make(chan time.Duration, 1)
	svc.after = func(d time.Duration) <-chan time.Time {
		waits <- d
		cancel()
		return make(chan time.Time)
	}

	svc.Run(ctx)

	select {
	case d := <-waits:
		if d != 30*time.Second {
			t.Errorf("expected wait of 30s, got %v", d)
		}
	default:
		t.Fatal("expected Run to schedule a wait")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	svc, _ := New(&mockPruner{}, DefaultSchedule, 10, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}
