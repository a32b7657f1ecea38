package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/peroute/hackwest-project/internal/db/sqldb"
	"github.com/peroute/hackwest-project/internal/domain"
	"github.com/peroute/hackwest-project/internal/domain/conversation"
	"github.com/peroute/hackwest-project/internal/domain/resource"
	"github.com/peroute/hackwest-project/internal/domain/searchlog"
	domuser "github.com/peroute/hackwest-project/internal/domain/user"
	questionrepo "github.com/peroute/hackwest-project/internal/repository/question"
	resrepo "github.com/peroute/hackwest-project/internal/repository/resource"
	searchlogrepo "github.com/peroute/hackwest-project/internal/repository/searchlog"
	userrepo "github.com/peroute/hackwest-project/internal/repository/user"
)

var base = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	turns *questionrepo.Repo
	logs  *searchlogrepo.Repo
}

// newFixture opens an in-memory SQLite store seeded with two users, one resource,
// four search events and two turns.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	d, err := sqldb.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	users := userrepo.New(d)
	for _, name := range []string{"alice", "bob"} {
		u, err := domuser.New(name, name+"@example.edu", "hash", true, false)
		if err != nil {
			t.Fatalf("new user: %v", err)
		}
		if _, err := users.Create(ctx, &u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	resources := resrepo.NewMemory()
	r, _ := resource.New(resource.Params{Title: "Gym", URL: "https://gym"})
	if err := resources.Insert(ctx, &r); err != nil {
		t.Fatalf("insert resource: %v", err)
	}

	one, two := int64(1), int64(2)
	logs := searchlogrepo.New(d)
	for _, e := range []searchlog.Event{
		{Query: "gym", UserID: &one, SearchType: "semantic", ResponseTimeMs: 100, CreatedAt: base.Add(-time.Hour)},
		{Query: "gym", SearchType: "keyword", ResponseTimeMs: 200, CreatedAt: base.Add(-2 * time.Hour)},
		{Query: "library", UserID: &two, SearchType: "semantic", ResponseTimeMs: 300, CreatedAt: base.Add(-72 * time.Hour)},
		{Query: "old", UserID: &one, SearchType: "semantic", ResponseTimeMs: 400, CreatedAt: base.Add(-240 * time.Hour)},
	} {
		if _, err := logs.Insert(ctx, e); err != nil {
			t.Fatalf("insert search log: %v", err)
		}
	}

	turns := questionrepo.New(d)
	for i, at := range []time.Time{base.Add(-48 * time.Hour), base.Add(-time.Hour)} {
		if _, err := turns.Append(ctx, conversation.Turn{
			UserID: &one, Question: "q" + string(rune('1'+i)), Answer: "a", CreatedAt: at,
		}); err != nil {
			t.Fatalf("append turn: %v", err)
		}
	}

	svc := New(turns, logs, users, resources)
	svc.now = func() time.Time { return base }
	return &fixture{svc: svc, turns: turns, logs: logs}
}

func TestSearchStats(t *testing.T) {
	f := newFixture(t)

	st, err := f.svc.SearchStats(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.PeriodDays != 7 || st.TotalSearches != 3 {
		t.Errorf("expected 7 days / 3 searches, got %d / %d", st.PeriodDays, st.TotalSearches)
	}
	if st.AvgResponseTimeMs != 200 {
		t.Errorf("expected avg 200, got %v", st.AvgResponseTimeMs)
	}
	if st.ActiveUsers != 2 {
		t.Errorf("expected 2 active users, got %d", st.ActiveUsers)
	}
	if len(st.SearchTypes) != 2 || st.SearchTypes[0].Label != "semantic" || st.SearchTypes[0].Count != 2 {
		t.Errorf("unexpected search types %+v", st.SearchTypes)
	}
	if len(st.TopQueries) != 2 || st.TopQueries[0].Label != "gym" || st.TopQueries[0].Count != 2 {
		t.Errorf("unexpected top queries %+v", st.TopQueries)
	}
}

func TestSearchStats_Days(t *testing.T) {
	f := newFixture(t)

	st, err := f.svc.SearchStats(context.Background(), 0)
	if err != nil || st.PeriodDays != DefaultStatsDays {
		t.Fatalf("expected default period, got %d (%v)", st.PeriodDays, err)
	}
	for _, days := range []int{-1, MaxDays + 1} {
		if _, err := f.svc.SearchStats(context.Background(), days); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("days=%d: expected ErrInvalidInput, got %v", days, err)
		}
	}
}

func TestQAOverview(t *testing.T) {
	f := newFixture(t)

	o, err := f.svc.QAOverview(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.TotalQuestions != 2 || o.TotalSearches != 4 || o.RecentQuestions24h != 1 {
		t.Errorf("unexpected overview %+v", o)
	}
	if o.AvgResponseTimeMs != 250 {
		t.Errorf("expected avg 250, got %v", o.AvgResponseTimeMs)
	}
}

func TestUserActivity(t *testing.T) {
	f := newFixture(t)

	a, err := f.svc.UserActivity(context.Background(), 1, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.UserID != 1 || a.PeriodDays != 30 || a.TotalSearches != 2 || a.TotalQuestions != 2 {
		t.Errorf("unexpected activity %+v", a)
	}
	if len(a.RecentSearches) != 2 || a.RecentSearches[0].Query != "gym" || a.RecentSearches[1].Query != "old" {
		t.Errorf("expected [gym old] newest first, got %+v", a.RecentSearches)
	}

	none, err := f.svc.UserActivity(context.Background(), 42, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if none.PeriodDays != DefaultActivityDays || none.TotalSearches != 0 || len(none.RecentSearches) != 0 {
		t.Errorf("expected empty activity, got %+v", none)
	}
}

func TestSearchTrends(t *testing.T) {
	f := newFixture(t)

	tr, err := f.svc.SearchTrends(context.Background(), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantDaily := []struct {
		day string
		n   int
	}{{"2025-02-19", 1}, {"2025-02-26", 1}, {"2025-03-01", 2}}
	if len(tr.Daily) != len(wantDaily) {
		t.Fatalf("expected %d days, got %+v", len(wantDaily), tr.Daily)
	}
	for i, w := range wantDaily {
		if tr.Daily[i].Label != w.day || tr.Daily[i].Count != w.n {
			t.Errorf("day %d: expected %s=%d, got %+v", i, w.day, w.n, tr.Daily[i])
		}
	}

	last := tr.DailyByType[len(tr.DailyByType)-2:]
	if last[0].Date != "2025-03-01" || last[0].SearchType != "keyword" || last[0].Count != 1 {
		t.Errorf("unexpected keyword bucket %+v", last[0])
	}
	if last[1].SearchType != "semantic" || last[1].Count != 1 {
		t.Errorf("unexpected semantic bucket %+v", last[1])
	}
}

func TestSystemHealth(t *testing.T) {
	f := newFixture(t)

	h, err := f.svc.SystemHealth(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.TotalUsers != 2 || h.TotalResources != 1 || h.TotalQuestions != 2 || h.TotalSearchLogs != 4 {
		t.Errorf("unexpected totals %+v", h)
	}
	if h.RecentSearches24h != 2 || h.RecentQuestions24h != 1 {
		t.Errorf("unexpected recent activity %+v", h)
	}
}

func TestHistory(t *testing.T) {
	f := newFixture(t)

	turns, err := f.svc.History(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turns) != 2 || turns[0].Question != "q2" {
		t.Errorf("expected newest first, got %+v", turns)
	}
	turns, _ = f.svc.History(context.Background(), 1, 1)
	if len(turns) != 1 {
		t.Errorf("expected 1 turn, got %d", len(turns))
	}
}

func TestRecordSearch(t *testing.T) {
	f := newFixture(t)

	saved, err := f.svc.RecordSearch(context.Background(), searchlog.Event{
		ID: 99, Query: " dining ", ResultsCount: 3, ResponseTimeMs: 12,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID == 99 || saved.ID == 0 {
		t.Errorf("expected store-assigned id, got %d", saved.ID)
	}
	if saved.Query != "dining" || saved.SearchType != searchlog.TypeSemantic || !saved.CreatedAt.Equal(base) {
		t.Errorf("unexpected saved event %+v", saved)
	}

	tests := []searchlog.Event{
		{Query: " "},
		{Query: "x", ResultsCount: -1},
		{Query: "x", ResponseTimeMs: -5},
	}
	for _, e := range tests {
		if _, err := f.svc.RecordSearch(context.Background(), e); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%+v: expected ErrInvalidInput, got %v", e, err)
		}
	}
}
