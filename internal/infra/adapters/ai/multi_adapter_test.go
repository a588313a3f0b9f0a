package ai_test

import (
	"context"
	"testing"

	"ai-research-orchestrator/internal/domain/ports/adapter"
	ai "ai-research-orchestrator/internal/infra/adapters/ai"
)

type stubClient struct {
	name      string
	completeN int
	countN    int
	lastModel string
}

func (s *stubClient) Complete(ctx context.Context, req adapter.CompletionRequest) (*adapter.CompletionResult, error) {
	s.completeN++
	s.lastModel = req.Model
	return &adapter.CompletionResult{Text: "ok"}, nil
}

func (s *stubClient) CountTokens(ctx context.Context, model, text string) (int, error) {
	s.countN++
	s.lastModel = model
	return 1, nil
}

func (s *stubClient) ListModels(ctx context.Context) ([]string, error) {
	return []string{s.name + "-model"}, nil
}

func TestRouting_ExplicitMap_Heuristics_And_Fallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	anth := &stubClient{name: "anthropic"}
	open := &stubClient{name: "openai"}
	gem := &stubClient{name: "gemini"}

	m := ai.NewMultiAdapter(
		"anthropic",
		map[string]adapter.CompletionClient{"anthropic": anth, "openai": open, "gemini": gem},
		map[string]string{"custom-x": "gemini"},
	)

	// explicit map wins
	_, _ = m.CountTokens(ctx, "custom-x", "hi")
	if gem.countN != 1 || open.countN != 0 || anth.countN != 0 {
		t.Fatalf("explicit map should route to gemini, got anth:%d open:%d gem:%d", anth.countN, open.countN, gem.countN)
	}

	// claude-* -> anthropic
	_, _ = m.Complete(ctx, adapter.CompletionRequest{Model: "claude-sonnet-4-20250514"})
	if anth.completeN != 1 {
		t.Fatalf("heuristic claude-* should go anthropic")
	}

	// gpt-* -> openai
	_, _ = m.Complete(ctx, adapter.CompletionRequest{Model: "gpt-4o-mini"})
	if open.completeN != 1 {
		t.Fatalf("heuristic gpt-* should go openai")
	}

	// gemini-* -> gemini
	_, _ = m.Complete(ctx, adapter.CompletionRequest{Model: "gemini-2.0-flash"})
	if gem.completeN != 1 {
		t.Fatalf("heuristic gemini-* should go gemini")
	}

	// unknown -> default provider (anthropic)
	_, _ = m.Complete(ctx, adapter.CompletionRequest{Model: "unknown"})
	if anth.completeN != 2 {
		t.Fatalf("unknown model should go to default provider (anthropic)")
	}
}

func TestListModelsUnion(t *testing.T) {
	t.Parallel()
	anth := &stubClient{name: "anthropic"}
	gem := &stubClient{name: "gemini"}
	m := ai.NewMultiAdapter(
		"anthropic",
		map[string]adapter.CompletionClient{"anthropic": anth, "gemini": gem},
		map[string]string{"custom-x": "gemini"},
	)
	models, err := m.ListModels(context.Background())
	if err != nil {
		t.Fatalf("list models: %v", err)
	}
	seen := map[string]bool{}
	for _, name := range models {
		seen[name] = true
	}
	for _, want := range []string{"custom-x", "anthropic-model", "gemini-model"} {
		if !seen[want] {
			t.Errorf("missing %s in %v", want, models)
		}
	}
}
