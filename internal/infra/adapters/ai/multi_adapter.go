// File: internal/infra/adapters/ai/multi_adapter.go
package ai

import (
	"context"
	"strings"
	"time"

	"ai-research-orchestrator/internal/domain/ports/adapter"
	"ai-research-orchestrator/internal/infra/metrics"
)

var _ adapter.CompletionClient = (*MultiAdapter)(nil)

type MultiAdapter struct {
	defaultProvider string // e.g., "anthropic", "openai" or "gemini"
	byProvider      map[string]adapter.CompletionClient
	modelToProvider map[string]string // model -> provider override
}

// NewMultiAdapter does not inject any default model; it only knows a default
// provider. Each provider adapter is responsible for its own default model.
func NewMultiAdapter(
	defaultProvider string,
	byProvider map[string]adapter.CompletionClient,
	modelToProvider map[string]string,
) *MultiAdapter {
	return &MultiAdapter{
		defaultProvider: strings.ToLower(defaultProvider),
		byProvider:      byProvider,
		modelToProvider: modelToProvider,
	}
}

func (m *MultiAdapter) resolveProvider(model string) string {
	if p := m.modelToProvider[model]; p != "" {
		return strings.ToLower(p)
	}
	l := strings.ToLower(model)
	switch {
	case strings.HasPrefix(l, "claude"):
		return "anthropic"
	case strings.HasPrefix(l, "gpt") || strings.HasPrefix(l, "o1") || strings.HasPrefix(l, "o3"):
		return "openai"
	case strings.HasPrefix(l, "gemini"):
		return "gemini"
	default:
		return m.defaultProvider
	}
}

func (m *MultiAdapter) pick(model string) adapter.CompletionClient {
	prov := m.resolveProvider(model)
	if a := m.byProvider[prov]; a != nil {
		return a
	}
	// last resort: first available
	for _, a := range m.byProvider {
		if a != nil {
			return a
		}
	}
	return nil
}

func (m *MultiAdapter) Complete(ctx context.Context, req adapter.CompletionRequest) (*adapter.CompletionResult, error) {
	a := m.pick(req.Model)
	if a == nil {
		return &adapter.CompletionResult{}, nil
	}
	start := time.Now()
	res, err := a.Complete(ctx, req)
	latency := int(time.Since(start).Milliseconds())
	if err != nil {
		metrics.ObserveCompletion(m.resolveProvider(req.Model), req.Model, 0, 0, 0, latency, false)
		return nil, err
	}
	metrics.ObserveCompletion(m.resolveProvider(req.Model), req.Model,
		res.Usage.InputTokens, res.Usage.OutputTokens, res.WebSearches, latency, true)
	return res, nil
}

func (m *MultiAdapter) CountTokens(ctx context.Context, model, text string) (int, error) {
	a := m.pick(model)
	if a == nil {
		return 0, nil
	}
	return a.CountTokens(ctx, model, text)
}

func (m *MultiAdapter) ListModels(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(m.modelToProvider)+4)

	// 1) models explicitly mapped in config
	for model := range m.modelToProvider {
		if _, ok := seen[model]; !ok {
			seen[model] = struct{}{}
			out = append(out, model)
		}
	}

	// 2) union of each provider's ListModels (often returns their default)
	for _, a := range m.byProvider {
		list, _ := a.ListModels(ctx)
		for _, name := range list {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				out = append(out, name)
			}
		}
	}
	return out, nil
}
