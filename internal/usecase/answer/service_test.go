package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/peroute/hackwest-project/internal/domain/candidate"
	"github.com/peroute/hackwest-project/internal/domain/completion"
	"github.com/peroute/hackwest-project/internal/domain/intent"
	"github.com/peroute/hackwest-project/internal/domain/resource"
)

// --- Mocks ---

type mockCompleter struct {
	result  completion.Result
	block   bool
	prompts []string
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) completion.Result {
	m.prompts = append(m.prompts, prompt)
	if m.block {
		<-ctx.Done()
		return completion.Failed(completion.ReasonTimeout, ctx.Err())
	}
	return m.result
}

// --- Helpers ---

func scored(title, desc, category, url string) candidate.Scored {
	r := resource.Reconstruct("id-"+title, resource.Params{
		Title: title, Description: desc, URL: url, Category: category,
	}, nil, time.Time{}, time.Time{})
	return candidate.New(r, 20, 1)
}

// --- Tests ---

func TestSynthesize_GreetingSkipsAI(t *testing.T) {
	m := &mockCompleter{result: completion.OK("model text")}
	svc := New(m, time.Second, zap.NewNop())

	got := svc.Synthesize(context.Background(), "hello", intent.Greeting, nil, "")
	if got != welcomeAnswer {
		t.Errorf("expected welcome answer, got %q", got)
	}
	if len(m.prompts) != 0 {
		t.Errorf("expected no AI calls, got %d", len(m.prompts))
	}
}

func TestSynthesize_ResourceWithAI(t *testing.T) {
	m := &mockCompleter{result: completion.OK("Visit the courts.")}
	svc := New(m, time.Second, zap.NewNop())
	cands := []candidate.Scored{scored("Open Play Courts", "", "Fitness", "https://rec.example.edu/courts")}

	got := svc.Synthesize(context.Background(), "What fitness programs are available?",
		intent.Resource, cands, "Previous conversation:\nasker: hi\nassistant: hello\n")
	if got != "Visit the courts." {
		t.Errorf("expected %q, got %q", "Visit the courts.", got)
	}
	if len(m.prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(m.prompts))
	}
	p := m.prompts[0]
	for _, want := range []string{
		"- **Open Play Courts**: No description (Category: Fitness) - https://rec.example.edu/courts",
		"User Question: What fitness programs are available?",
		"Previous conversation:",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("expected prompt to contain %q, got %q", want, p)
		}
	}
	if strings.Index(p, "Previous conversation:") > strings.Index(p, "Available Resources:") {
		t.Error("expected context before the resource list")
	}
}

func TestSynthesize_ResourceFallbackList(t *testing.T) {
	m := &mockCompleter{result: completion.Failed(completion.ReasonUnavailable, errors.New("down"))}
	svc := New(m, time.Second, zap.NewNop())
	cands := []candidate.Scored{
		scored("Main Library", "Books and study rooms", "Library", "https://lib.example.edu"),
		scored("Gym", "", "", "https://gym.example.edu"),
	}

	got := svc.Synthesize(context.Background(), "where is the library", intent.Resource, cands, "")
	want := "Based on your question, here are some relevant resources:\n\n" +
		"1. **Main Library**\n   Books and study rooms\n   Category: Library\n   https://lib.example.edu\n\n" +
		"2. **Gym**\n   https://gym.example.edu"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSynthesize_ResourceNoCandidates(t *testing.T) {
	tests := []struct {
		name   string
		result completion.Result
		want   string
	}{
		{"ai answers", completion.OK("General advice."), noResourcesAnswer + "\n\nGeneral advice."},
		{"ai empty", completion.OK("   "), noResourcesAnswer},
		{"ai error", completion.Failed(completion.ReasonError, errors.New("bad request")), noResourcesAnswer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&mockCompleter{result: tt.result}, time.Second, zap.NewNop())
			got := svc.Synthesize(context.Background(), "where is the planetarium", intent.Resource, nil, "")
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSynthesize_EducationalWithAI(t *testing.T) {
	m := &mockCompleter{result: completion.OK("Photosynthesis converts light into chemical energy.")}
	svc := New(m, time.Second, zap.NewNop())

	got := svc.Synthesize(context.Background(), "What is photosynthesis?", intent.Educational, nil, "")
	if got != "Photosynthesis converts light into chemical energy." {
		t.Errorf("unexpected answer %q", got)
	}
	if !strings.Contains(m.prompts[0], "Student Question: What is photosynthesis?") {
		t.Errorf("expected question in prompt, got %q", m.prompts[0])
	}
}

func TestSynthesize_EducationalTopicFallback(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"Any tips on time management while I study?", topics[0].body},
		{"How should I prepare for my chemistry exam?", topics[1].body},
		{"What is the best way to study?", topics[2].body},
		{"Explain calculus limits", topics[3].body},
		{"How do I structure an essay?", topics[4].body},
		{"What is photosynthesis?", genericGuidance},
	}
	svc := New(nil, time.Second, zap.NewNop())
	for _, tt := range tests {
		got := svc.Synthesize(context.Background(), tt.question, intent.Educational, nil, "")
		if got != tt.want {
			t.Errorf("%q: expected %.40q..., got %.40q...", tt.question, tt.want, got)
		}
	}
}

func TestSynthesize_TimeoutFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	m := &mockCompleter{block: true}
	svc := New(m, 20*time.Millisecond, zap.New(core))

	start := time.Now()
	got := svc.Synthesize(context.Background(), "what is an essay", intent.Educational, nil, "")
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("expected bounded call, took %v", elapsed)
	}
	if got != topics[4].body {
		t.Errorf("expected writing template, got %q", got)
	}

	entries := logs.FilterMessage("AI completion failed, using template answer").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warn log, got %d", len(entries))
	}
	if r := entries[0].ContextMap()["reason"]; r != string(completion.ReasonTimeout) {
		t.Errorf("expected reason %q, got %v", completion.ReasonTimeout, r)
	}
}

func TestSynthesize_NilCompleterNeverEmpty(t *testing.T) {
	svc := New(nil, 0, zap.NewNop())
	for _, in := range []intent.Intent{intent.Greeting, intent.Resource, intent.Educational} {
		if got := svc.Synthesize(context.Background(), "", in, nil, ""); got == "" {
			t.Errorf("expected non-empty answer for %s", in)
		}
	}
}

func TestNew_DefaultTimeout(t *testing.T) {
	if svc := New(nil, 0, zap.NewNop()); svc.timeout != DefaultTimeout {
		t.Errorf("expected %v, got %v", DefaultTimeout, svc.timeout)
	}
}
