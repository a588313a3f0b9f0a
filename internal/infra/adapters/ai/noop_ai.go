// File: internal/infra/adapters/ai/noop_ai.go
package ai

import (
	"context"
	"log"
	"time"

	"ai-research-orchestrator/internal/domain/ports/adapter"
)

var _ adapter.CompletionClient = (*NoopClient)(nil)

// NoopClient implements adapter.CompletionClient for local/dev testing.
// It logs requests instead of calling a real provider and answers with a
// canned response.
type NoopClient struct {
	Response string
}

func NewNoopClient() *NoopClient {
	return &NoopClient{Response: `{"sources": []}`}
}

func (n *NoopClient) Complete(ctx context.Context, req adapter.CompletionRequest) (*adapter.CompletionResult, error) {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	log.Printf("[noop-ai] model=%s system=%d bytes, %d messages\n", req.Model, len(req.System), len(req.Messages))
	return &adapter.CompletionResult{
		Text:       n.Response,
		StopReason: "end_turn",
	}, nil
}

func (n *NoopClient) CountTokens(_ context.Context, _, text string) (int, error) {
	// Rough heuristic, fine for a stub.
	return len(text) / 4, nil
}

func (n *NoopClient) ListModels(ctx context.Context) ([]string, error) {
	return []string{"noop-model"}, nil
}
