package ask

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/peroute/hackwest-project/internal/config"
	"github.com/peroute/hackwest-project/internal/domain"
	"github.com/peroute/hackwest-project/internal/domain/candidate"
	"github.com/peroute/hackwest-project/internal/domain/conversation"
	"github.com/peroute/hackwest-project/internal/domain/intent"
	"github.com/peroute/hackwest-project/internal/domain/resource"
	"github.com/peroute/hackwest-project/internal/domain/searchlog"
	"github.com/peroute/hackwest-project/internal/metrics"
	resrepo "github.com/peroute/hackwest-project/internal/repository/resource"
	"github.com/peroute/hackwest-project/internal/usecase/answer"
	intentuc "github.com/peroute/hackwest-project/internal/usecase/intent"
	"github.com/peroute/hackwest-project/internal/usecase/retrieval"
)

// --- Mocks ---

type mockClassifier struct{ in intent.Intent }

func (m *mockClassifier) Classify(string) intent.Intent { return m.in }

type mockRetriever struct {
	cands []candidate.Scored
	err   error
	calls int
}

func (m *mockRetriever) Retrieve(context.Context, string, int, float64) ([]candidate.Scored, error) {
	m.calls++
	return m.cands, m.err
}

type mockAssembler struct{ text string }

func (m *mockAssembler) Assemble(context.Context, *int64, int) string { return m.text }

type mockSynth struct {
	panicWith any
	history   string
}

func (m *mockSynth) Synthesize(
	_ context.Context, q string, in intent.Intent, c []candidate.Scored, history string,
) string {
	if m.panicWith != nil {
		panic(m.panicWith)
	}
	m.history = history
	return "answer to " + q
}

type mockTurns struct {
	turns []conversation.Turn
	err   error
}

func (m *mockTurns) Append(_ context.Context, t conversation.Turn) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.turns = append(m.turns, t)
	return int64(len(m.turns)), nil
}

type mockLogs struct {
	events []searchlog.Event
	err    error
}

func (m *mockLogs) Insert(_ context.Context, e searchlog.Event) (searchlog.Event, error) {
	if m.err != nil {
		return searchlog.Event{}, m.err
	}
	m.events = append(m.events, e)
	return e, nil
}

// --- Helpers ---

func fitnessDoc() resource.Resource {
	return resource.Reconstruct("r1", resource.Params{
		Title:    "Open Play Courts",
		URL:      "https://rec.example.edu/courts",
		Category: "Fitness",
	}, nil, time.Now(), time.Now())
}

// realPipeline wires the actual classifier, scorer and templated synthesizer over an in-memory catalog.
func realPipeline(t *testing.T, docs ...resource.Resource) (*Service, *mockTurns, *mockLogs) {
	t.Helper()
	store := resrepo.NewMemory()
	for i := range docs {
		if err := store.Insert(context.Background(), &docs[i]); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	classifier := intentuc.NewClassifier(
		config.DefaultGreetings(), config.DefaultResourcePhrases(), config.DefaultEducationalPhrases(),
	)
	scorer := retrieval.NewScorer(config.DefaultCategoryTerms(), config.DefaultKeyTerms())
	turns, logs := &mockTurns{}, &mockLogs{}
	svc := New(
		classifier,
		retrieval.New(store, scorer, 0),
		&mockAssembler{},
		answer.New(nil, time.Second, zap.NewNop()),
		turns, logs, zap.NewNop(),
	)
	return svc, turns, logs
}

// --- Tests ---

func TestAsk_FitnessScenario(t *testing.T) {
	svc, _, _ := realPipeline(t, fitnessDoc())

	ans := svc.Ask(context.Background(), Request{Question: "What fitness programs are available?"})
	if ans.Intent != intent.Resource {
		t.Fatalf("expected %q, got %q", intent.Resource, ans.Intent)
	}
	if len(ans.Resources) != 1 {
		t.Fatalf("expected 1 resource, got %d", len(ans.Resources))
	}
	got := ans.Resources[0]
	if got.RawScore() < 20 {
		t.Errorf("expected raw score >= 20, got %d", got.RawScore())
	}
	if got.Similarity() != 1.0 {
		t.Errorf("expected similarity 1.0, got %v", got.Similarity())
	}
	if !strings.Contains(ans.Answer, "Open Play Courts") {
		t.Errorf("expected resource in templated answer, got %q", ans.Answer)
	}
}

func TestAsk_GreetingScenario(t *testing.T) {
	svc, _, _ := realPipeline(t, fitnessDoc())

	for _, q := range []string{"hello", "hi", "thanks"} {
		ans := svc.Ask(context.Background(), Request{Question: q})
		if ans.Intent != intent.Greeting {
			t.Errorf("%q: expected greeting, got %q", q, ans.Intent)
		}
		if len(ans.Resources) != 0 {
			t.Errorf("%q: expected no resources, got %d", q, len(ans.Resources))
		}
		if ans.Answer == "" {
			t.Errorf("%q: expected non-empty answer", q)
		}
	}
}

func TestAsk_EducationalScenario(t *testing.T) {
	svc, _, _ := realPipeline(t)

	ans := svc.Ask(context.Background(), Request{Question: "What is photosynthesis?"})
	if ans.Intent != intent.Educational {
		t.Fatalf("expected educational, got %q", ans.Intent)
	}
	if len(ans.Resources) != 0 {
		t.Errorf("expected no resources, got %d", len(ans.Resources))
	}
	if ans.Answer == "" {
		t.Error("expected non-empty answer")
	}
}

func TestAsk_Idempotent(t *testing.T) {
	svc, _, _ := realPipeline(t, fitnessDoc())
	req := Request{Question: "What fitness programs are available?"}

	a := svc.Ask(context.Background(), req)
	b := svc.Ask(context.Background(), req)
	if a.Intent != b.Intent {
		t.Errorf("intent changed: %q vs %q", a.Intent, b.Intent)
	}
	if len(a.Resources) != len(b.Resources) {
		t.Fatalf("candidate count changed: %d vs %d", len(a.Resources), len(b.Resources))
	}
	for i := range a.Resources {
		ra, rb := a.Resources[i].Resource(), b.Resources[i].Resource()
		if ra.ID() != rb.ID() {
			t.Errorf("candidate %d changed: %q vs %q", i, ra.ID(), rb.ID())
		}
	}
}

func TestAsk_GreetingSkipsRetrieval(t *testing.T) {
	r := &mockRetriever{}
	svc := New(&mockClassifier{in: intent.Greeting}, r, &mockAssembler{}, &mockSynth{},
		&mockTurns{}, &mockLogs{}, zap.NewNop())

	svc.Ask(context.Background(), Request{Question: "hi"})
	if r.calls != 0 {
		t.Errorf("expected no retrieval, got %d calls", r.calls)
	}
}

func TestAsk_RetrievalErrorContinues(t *testing.T) {
	r := &mockRetriever{err: errors.New("redis down")}
	svc := New(&mockClassifier{in: intent.Resource}, r, &mockAssembler{}, &mockSynth{},
		&mockTurns{}, &mockLogs{}, zap.NewNop())

	ans := svc.Ask(context.Background(), Request{Question: "where is the gym"})
	if ans.Failed {
		t.Fatal("retrieval failure must not fail the pipeline")
	}
	if ans.Answer != "answer to where is the gym" {
		t.Errorf("unexpected answer %q", ans.Answer)
	}
	if ans.Resources == nil || len(ans.Resources) != 0 {
		t.Errorf("expected empty resource list, got %v", ans.Resources)
	}
}

func TestAsk_PassesContext(t *testing.T) {
	synth := &mockSynth{}
	svc := New(&mockClassifier{in: intent.Educational}, &mockRetriever{},
		&mockAssembler{text: "Previous conversation:\n"}, synth, &mockTurns{}, &mockLogs{}, zap.NewNop())

	svc.Ask(context.Background(), Request{Question: "why"})
	if synth.history != "Previous conversation:\n" {
		t.Errorf("expected history passed through, got %q", synth.history)
	}
}

func TestAsk_PanicBecomesFailureAnswer(t *testing.T) {
	before := testutil.ToFloat64(metrics.AskTotal.WithLabelValues("resource", "failed"))

	svc := New(&mockClassifier{in: intent.Resource},
		&mockRetriever{cands: []candidate.Scored{candidate.New(fitnessDoc(), 20, 1)}},
		&mockAssembler{}, &mockSynth{panicWith: "boom"}, &mockTurns{}, &mockLogs{}, zap.NewNop())

	ans := svc.Ask(context.Background(), Request{Question: "where is the gym"})
	if !ans.Failed {
		t.Fatal("expected failed answer")
	}
	if ans.Answer != FailureAnswer {
		t.Errorf("expected failure answer, got %q", ans.Answer)
	}
	if len(ans.Resources) != 0 {
		t.Errorf("expected no resources, got %d", len(ans.Resources))
	}

	after := testutil.ToFloat64(metrics.AskTotal.WithLabelValues("resource", "failed"))
	if after-before != 1 {
		t.Errorf("expected failed counter +1, got %v", after-before)
	}
}

func TestHandle_RecordsSuccess(t *testing.T) {
	turns, logs := &mockTurns{}, &mockLogs{}
	userID := int64(7)
	svc := New(&mockClassifier{in: intent.Resource},
		&mockRetriever{cands: []candidate.Scored{candidate.New(fitnessDoc(), 20, 0.75)}},
		&mockAssembler{}, &mockSynth{}, turns, logs, zap.NewNop())

	ans, err := svc.Handle(context.Background(), Request{
		Question: "  where is the gym  ", UserID: &userID, SearchType: "semantic",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ans.Question != "where is the gym" {
		t.Errorf("expected trimmed question, got %q", ans.Question)
	}

	if len(logs.events) != 1 {
		t.Fatalf("expected 1 search event, got %d", len(logs.events))
	}
	ev := logs.events[0]
	if ev.ResultsCount != 1 || ev.SearchType != "semantic" || ev.UserID == nil || *ev.UserID != 7 {
		t.Errorf("unexpected event %+v", ev)
	}

	if len(turns.turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns.turns))
	}
	turn := turns.turns[0]
	if turn.TopScore == nil || *turn.TopScore != 0.75 {
		t.Errorf("expected top score 0.75, got %v", turn.TopScore)
	}
	if turn.Answer != ans.Answer {
		t.Errorf("expected turn answer %q, got %q", ans.Answer, turn.Answer)
	}
}

func TestHandle_RecordsFailure(t *testing.T) {
	turns, logs := &mockTurns{}, &mockLogs{}
	svc := New(&mockClassifier{in: intent.Educational}, &mockRetriever{}, &mockAssembler{},
		&mockSynth{panicWith: errors.New("boom")}, turns, logs, zap.NewNop())

	ans, err := svc.Handle(context.Background(), Request{Question: "what is x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ans.Failed {
		t.Fatal("expected failed answer")
	}
	if len(logs.events) != 1 || logs.events[0].ResultsCount != 0 {
		t.Errorf("expected one zero-result event, got %+v", logs.events)
	}
	if len(turns.turns) != 0 {
		t.Errorf("expected no turn on failure, got %d", len(turns.turns))
	}
}

func TestHandle_PersistenceErrorsSwallowed(t *testing.T) {
	svc := New(&mockClassifier{in: intent.Educational}, &mockRetriever{}, &mockAssembler{},
		&mockSynth{}, &mockTurns{err: errors.New("db")}, &mockLogs{err: errors.New("db")}, zap.NewNop())

	ans, err := svc.Handle(context.Background(), Request{Question: "what is x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ans.Answer == "" {
		t.Error("expected answer despite persistence failures")
	}
}

func TestHandle_BlankQuestion(t *testing.T) {
	logs := &mockLogs{}
	svc := New(&mockClassifier{}, &mockRetriever{}, &mockAssembler{}, &mockSynth{},
		&mockTurns{}, logs, zap.NewNop())

	_, err := svc.Handle(context.Background(), Request{Question: "   "})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(logs.events) != 0 {
		t.Errorf("expected no event for rejected input, got %d", len(logs.events))
	}
}

func TestAnswer_TopScore(t *testing.T) {
	a := Answer{}
	if a.TopScore() != nil {
		t.Error("expected nil top score without resources")
	}
	a.Resources = []candidate.Scored{candidate.New(fitnessDoc(), 10, 0.5), candidate.New(fitnessDoc(), 5, 0.25)}
	if s := a.TopScore(); s == nil || *s != 0.5 {
		t.Errorf("expected 0.5, got %v", s)
	}
}

func TestWithRetrieval(t *testing.T) {
	svc := New(nil, nil, nil, nil, nil, nil, zap.NewNop()).WithRetrieval(5, 0.3).WithMaxTurns(2)
	if svc.limit != 5 || svc.threshold != 0.3 || svc.maxTurns != 2 {
		t.Errorf("unexpected limits %d %v %d", svc.limit, svc.threshold, svc.maxTurns)
	}
	svc.WithRetrieval(0, 2).WithMaxTurns(0)
	if svc.limit != 5 || svc.threshold != 0.3 || svc.maxTurns != 2 {
		t.Errorf("invalid overrides must be ignored, got %d %v %d", svc.limit, svc.threshold, svc.maxTurns)
	}
}
