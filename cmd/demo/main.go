// File: cmd/demo/main.go
package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-research-orchestrator/internal/config"
	aiAdapters "ai-research-orchestrator/internal/infra/adapters/ai"
	"ai-research-orchestrator/internal/research"

	"github.com/rs/zerolog"
)

// Runs the full research chain offline against the noop AI client. Useful to
// eyeball prompts, stage ordering and the serialized result without keys,
// Postgres or Redis.
func main() {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	// 1. Noop client: every stage returns a minimal valid findings object.
	noop := aiAdapters.NewNoopClient()

	cfg := config.AIConfig{
		DefaultModel:     "noop",
		WebSearchMaxUses: 5,
		MaxTokens:        4000,
	}
	invoker := research.NewInProcessInvoker(noop, cfg, &logger)
	chain := research.NewChain(invoker, &logger)

	// 2. Execute the five stages plus synthesis.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := chain.Execute(ctx, "users forget passwords frequently")
	if err != nil {
		log.Fatalf("chain error: %v", err)
	}

	// 3. Print what would be persisted as the job result.
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("marshal error: %v", err)
	}
	log.Printf("chain result:\n%s", b)

	// 4. Show the extraction repair on a truncated fenced response.
	truncated := "```json\n{\"technical\": [\"brittle reset flows\""
	raw, repaired, err := research.ExtractObject(truncated)
	if err != nil {
		log.Fatalf("extract error: %v", err)
	}
	log.Printf("repaired=%v extracted=%s", repaired, raw)
}
