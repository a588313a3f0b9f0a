// File: internal/research/chain.go
package research

import (
	"context"
	"fmt"
	"time"

	"ai-research-orchestrator/internal/config"
	"ai-research-orchestrator/internal/domain/model"
	"ai-research-orchestrator/internal/domain/ports/adapter"
	"ai-research-orchestrator/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Invoker runs one chain stage and returns the raw model text. Kept as an
// interface so tests can script stage outputs and deployments can move stage
// execution out of process later.
type Invoker interface {
	Invoke(ctx context.Context, agent Agent, req StageRequest) (string, error)
}

// InProcessInvoker executes stages as direct completion calls.
type InProcessInvoker struct {
	ai  adapter.CompletionClient
	cfg config.AIConfig
	log zerolog.Logger
}

var _ Invoker = (*InProcessInvoker)(nil)

func NewInProcessInvoker(ai adapter.CompletionClient, cfg config.AIConfig, logger *zerolog.Logger) *InProcessInvoker {
	return &InProcessInvoker{
		ai:  ai,
		cfg: cfg,
		log: logger.With().Str("component", "stage_invoker").Logger(),
	}
}

func (v *InProcessInvoker) Invoke(ctx context.Context, agent Agent, req StageRequest) (string, error) {
	system, user := promptFor(agent, req)
	res, err := v.ai.Complete(ctx, adapter.CompletionRequest{
		Model:       v.cfg.DefaultModel,
		System:      system,
		Messages:    []adapter.Message{{Role: "user", Content: user}},
		MaxTokens:   v.cfg.MaxTokens,
		Temperature: 0.3,
		WebSearch: adapter.WebSearchOption{
			Enabled: agent != AgentSynthesis,
			MaxUses: v.cfg.WebSearchMaxUses,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s agent: %w", agent, err)
	}
	v.log.Debug().Str("agent", string(agent)).
		Int("tokens_in", res.Usage.InputTokens).
		Int("tokens_out", res.Usage.OutputTokens).
		Int("web_searches", res.WebSearches).
		Msg("stage completed")
	return res.Text, nil
}

func promptFor(agent Agent, req StageRequest) (system, user string) {
	switch agent {
	case AgentObstacles:
		return obstaclesSystemPrompt, buildObstaclesPrompt(req)
	case AgentSolutions:
		return solutionsSystemPrompt, buildSolutionsPrompt(req)
	case AgentLegal:
		return legalSystemPrompt, buildLegalPrompt(req)
	case AgentCompetitor:
		return competitorSystemPrompt, buildCompetitorPrompt(req)
	case AgentMarket:
		return marketSystemPrompt, buildMarketPrompt(req)
	case AgentSynthesis:
		return synthesisSystemPrompt, buildSynthesisPrompt(req)
	}
	return "", ""
}

// Chain runs the five research stages in strict sequence, then synthesis.
// Any stage invocation error aborts the remainder and the partial result is
// discarded. Unparseable stage output does not abort; the stage records a
// schema-shaped fallback and the chain continues.
type Chain struct {
	invoker Invoker
	log     zerolog.Logger
	now     func() time.Time
}

func NewChain(invoker Invoker, logger *zerolog.Logger) *Chain {
	return &Chain{
		invoker: invoker,
		log:     logger.With().Str("component", "research_chain").Logger(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (c *Chain) Execute(ctx context.Context, instructions string) (*model.ResearchResult, error) {
	var (
		prior    PriorFindings
		findings model.ResearchFindings
	)

	text, err := c.invoke(ctx, AgentObstacles, instructions, prior)
	if err != nil {
		return nil, err
	}
	obstacles, repaired := parseObstacles(text)
	c.recordParse(AgentObstacles, obstacles.ParseError, repaired)
	findings.Obstacles = obstacles
	prior.Obstacles = obstacles

	text, err = c.invoke(ctx, AgentSolutions, instructions, prior)
	if err != nil {
		return nil, err
	}
	solutions, repaired := parseSolutions(text)
	c.recordParse(AgentSolutions, solutions.ParseError, repaired)
	findings.Solutions = solutions
	prior.Solutions = solutions

	text, err = c.invoke(ctx, AgentLegal, instructions, prior)
	if err != nil {
		return nil, err
	}
	legal, repaired := parseLegal(text)
	c.recordParse(AgentLegal, legal.ParseError, repaired)
	findings.Legal = legal
	prior.Legal = legal

	text, err = c.invoke(ctx, AgentCompetitor, instructions, prior)
	if err != nil {
		return nil, err
	}
	competitors, repaired := parseCompetitor(text)
	c.recordParse(AgentCompetitor, competitors.ParseError, repaired)
	findings.Competitors = competitors
	prior.Competitors = competitors

	text, err = c.invoke(ctx, AgentMarket, instructions, prior)
	if err != nil {
		return nil, err
	}
	market, repaired := parseMarket(text)
	c.recordParse(AgentMarket, market.ParseError, repaired)
	findings.Market = market
	prior.Market = market

	synthesis, err := c.invoke(ctx, AgentSynthesis, instructions, prior)
	if err != nil {
		return nil, err
	}

	return &model.ResearchResult{
		Instructions: instructions,
		Findings:     findings,
		Synthesis:    synthesis,
		CompletedAt:  c.now(),
	}, nil
}

func (c *Chain) invoke(ctx context.Context, agent Agent, instructions string, prior PriorFindings) (string, error) {
	c.log.Info().Str("agent", string(agent)).Msg("invoking stage")
	text, err := c.invoker.Invoke(ctx, agent, StageRequest{Instructions: instructions, Prior: prior})
	if err != nil {
		c.log.Error().Err(err).Str("agent", string(agent)).Msg("stage failed")
		return "", err
	}
	return text, nil
}

func (c *Chain) recordParse(agent Agent, parseErr string, repaired bool) {
	switch {
	case parseErr != "":
		metrics.IncParseFallback(string(agent), "failed")
		c.log.Warn().Str("agent", string(agent)).Msg("stage output not parseable, recorded fallback")
	case repaired:
		metrics.IncParseFallback(string(agent), "repaired")
		c.log.Debug().Str("agent", string(agent)).Msg("stage output needed brace repair")
	}
}
