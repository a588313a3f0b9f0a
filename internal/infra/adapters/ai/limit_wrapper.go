// File: internal/infra/adapters/ai/limit_wrapper.go
package ai

import (
	"context"

	"ai-research-orchestrator/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.CompletionClient = (*limitedClient)(nil)

type limitedClient struct {
	inner adapter.CompletionClient
	sem   chan struct{}
}

// NewLimitedClient caps concurrent provider calls across all workers.
func NewLimitedClient(inner adapter.CompletionClient, maxConcurrent int) adapter.CompletionClient {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedClient{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedClient) Complete(ctx context.Context, req adapter.CompletionRequest) (*adapter.CompletionResult, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-l.sem }()
	return l.inner.Complete(ctx, req)
}

func (l *limitedClient) CountTokens(ctx context.Context, model, text string) (int, error) {
	l.sem <- struct{}{}
	defer func() { <-l.sem }()
	return l.inner.CountTokens(ctx, model, text)
}

func (l *limitedClient) ListModels(ctx context.Context) ([]string, error) {
	return l.inner.ListModels(ctx)
}
