// Package adapter defines the outbound ports toward external systems: LLM
// providers and the messenger side channel. Implementations live under
// internal/infra/adapters.
package adapter

import "context"

// Message is one turn of a completion conversation.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Usage reports provider-side token accounting for a completion call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// WebSearchOption enables the provider's hosted web search tool for a call.
type WebSearchOption struct {
	Enabled bool
	MaxUses int
}

// CompletionRequest carries everything one completion call needs. Model is a
// provider-prefixed model name; routing happens in the multi adapter.
type CompletionRequest struct {
	Model       string
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	WebSearch   WebSearchOption
}

// CompletionResult is the provider-neutral outcome of a completion call.
type CompletionResult struct {
	Text        string
	Usage       Usage
	StopReason  string
	WebSearches int
}

// CompletionClient is the port every LLM provider adapter implements.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error)
	CountTokens(ctx context.Context, model, text string) (int, error)
	ListModels(ctx context.Context) ([]string, error)
}
