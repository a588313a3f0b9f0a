// File: internal/infra/adapters/ai/anthropic_adapter.go
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-research-orchestrator/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.CompletionClient = (*AnthropicAdapter)(nil)

const anthropicVersion = "2023-06-01"

// AnthropicAdapter implements adapter.CompletionClient against the Anthropic
// Messages API. Supports the server-side web_search tool; web search runs on
// the provider's side, so a single Complete call may cover multiple tool
// turns. Base URL defaults to https://api.anthropic.com (configurable).
type AnthropicAdapter struct {
	apiKey string
	base   string
	model  string
	client *http.Client
}

func NewAnthropicAdapter(apiKey, model, base string, timeout time.Duration) (*AnthropicAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic api key empty")
	}
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	if base == "" {
		base = "https://api.anthropic.com"
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &AnthropicAdapter{
		apiKey: apiKey,
		base:   strings.TrimRight(base, "/"),
		model:  model,
		client: &http.Client{Timeout: timeout},
	}, nil
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type anthropicUsage struct {
	InputTokens   int `json:"input_tokens"`
	OutputTokens  int `json:"output_tokens"`
	ServerToolUse struct {
		WebSearchRequests int `json:"web_search_requests"`
	} `json:"server_tool_use"`
}

type anthropicMessageResponse struct {
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
	Usage      anthropicUsage          `json:"usage"`
}

func (a *AnthropicAdapter) Complete(ctx context.Context, req adapter.CompletionRequest) (*adapter.CompletionResult, error) {
	model := req.Model
	if model == "" {
		model = a.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	payload := map[string]any{
		"model":      model,
		"max_tokens": maxTokens,
		"messages":   req.Messages,
	}
	if req.System != "" {
		payload["system"] = req.System
	}
	if req.Temperature > 0 {
		payload["temperature"] = req.Temperature
	}
	if req.WebSearch.Enabled {
		maxUses := req.WebSearch.MaxUses
		if maxUses <= 0 {
			maxUses = 5
		}
		payload["tools"] = []map[string]any{
			{
				"type":     "web_search_20250305",
				"name":     "web_search",
				"max_uses": maxUses,
			},
		}
	}

	var out anthropicMessageResponse
	if err := a.post(ctx, "/v1/messages", payload, &out); err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return &adapter.CompletionResult{
		Text: text.String(),
		Usage: adapter.Usage{
			InputTokens:  out.Usage.InputTokens,
			OutputTokens: out.Usage.OutputTokens,
		},
		StopReason:  out.StopReason,
		WebSearches: out.Usage.ServerToolUse.WebSearchRequests,
	}, nil
}

func (a *AnthropicAdapter) CountTokens(ctx context.Context, model, text string) (int, error) {
	if model == "" {
		model = a.model
	}
	payload := map[string]any{
		"model":    model,
		"messages": []adapter.Message{{Role: "user", Content: text}},
	}
	var out struct {
		InputTokens int `json:"input_tokens"`
	}
	if err := a.post(ctx, "/v1/messages/count_tokens", payload, &out); err != nil {
		return 0, err
	}
	return out.InputTokens, nil
}

func (a *AnthropicAdapter) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.base+"/v1/models", nil)
	if err != nil {
		return nil, err
	}
	a.setHeaders(req)
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("anthropic http %d", resp.StatusCode)
	}
	var payload struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(payload.Data))
	for _, m := range payload.Data {
		out = append(out, m.ID)
	}
	if len(out) == 0 {
		out = []string{a.model}
	}
	return out, nil
}

func (a *AnthropicAdapter) post(ctx context.Context, path string, payload any, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	a.setHeaders(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("anthropic http %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *AnthropicAdapter) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
}
