// File: cmd/app/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-research-orchestrator/internal/config"
	"ai-research-orchestrator/internal/domain/model"
	"ai-research-orchestrator/internal/domain/ports/adapter"
	aiAdapters "ai-research-orchestrator/internal/infra/adapters/ai"
	"ai-research-orchestrator/internal/infra/adapters/slack"
	pg "ai-research-orchestrator/internal/infra/db/postgres"
	"ai-research-orchestrator/internal/infra/logging"
	"ai-research-orchestrator/internal/infra/metrics"
	red "ai-research-orchestrator/internal/infra/redis"
	"ai-research-orchestrator/internal/infra/web"
	"ai-research-orchestrator/internal/infra/worker"
	"ai-research-orchestrator/internal/research"
	"ai-research-orchestrator/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema migration failed")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()

	// ---- Repositories ----
	jobRepo := pg.NewJobRepo(pool)
	convRepo := pg.NewConversationRepo(pool)
	chatRepo := pg.NewChatRepo(pool)

	// ---- Trigger queues, one per job type ----
	queues := make(map[model.JobType]*red.TriggerQueue)
	bindings := make([]usecase.QueueBinding, 0, len(cfg.Worker.JobTypes))
	for _, jt := range cfg.Worker.JobTypes {
		t := model.JobType(jt)
		q := red.NewTriggerQueue(redisClient, jt, logger)
		queues[t] = q
		bindings = append(bindings, usecase.QueueBinding{Type: t, Queue: q})
	}

	// ---- AI adapters (Anthropic primary; OpenAI / Gemini routed by model) ----
	byProvider := make(map[string]adapter.CompletionClient)
	if cfg.AI.AnthropicKey != "" {
		a, err := aiAdapters.NewAnthropicAdapter(cfg.AI.AnthropicKey, cfg.AI.DefaultModel, "", cfg.AI.CallTimeout)
		if err != nil {
			logger.Fatal().Err(err).Msg("anthropic adapter failed")
		}
		byProvider["anthropic"] = a
	}
	if cfg.AI.OpenAIKey != "" {
		a, err := aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, "gpt-4o")
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter failed")
		}
		byProvider["openai"] = a
	}
	if cfg.AI.GeminiKey != "" {
		a, err := aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, "", "gemini-2.0-flash")
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter failed")
		}
		byProvider["gemini"] = a
	}
	if len(byProvider) == 0 {
		logger.Fatal().Msg("no AI provider configured: set ai.anthropic_key, ai.openai_key or ai.gemini_key")
	}
	multi := aiAdapters.NewMultiAdapter("anthropic", byProvider, nil)
	aiClient := aiAdapters.NewLimitedClient(multi, cfg.AI.ConcurrentLimit)

	// ---- Research chain ----
	invoker := research.NewInProcessInvoker(aiClient, cfg.AI, logger)
	chain := research.NewChain(invoker, logger)

	// ---- Messenger ----
	var messenger adapter.MessengerAdapter
	if cfg.Slack.BotToken != "" {
		messenger, err = slack.NewClient(cfg.Slack.BotToken, "")
		if err != nil {
			logger.Fatal().Err(err).Msg("slack client failed")
		}
	} else {
		logger.Warn().Msg("slack.bot_token not set, using noop messenger")
		messenger = slack.NewNoopMessenger()
	}

	// ---- Workers ----
	workerPool := worker.NewPool(cfg.Worker.PoolSize)
	workerPool.Start(ctx)
	defer workerPool.Stop()

	for t, q := range queues {
		switch t {
		case model.JobTypeResearch, model.JobTypeExternalResearch:
			proc := worker.NewResearchProcessor(jobRepo, q, chain, logger)
			go proc.Start(ctx, workerPool, cfg.Worker.PollInterval)
		case model.JobTypeSlack:
			cw := worker.NewConversationWorker(jobRepo, convRepo, q, messenger, aiClient,
				cfg.AI.DefaultModel, cfg.Slack.RecheckDelay, logger)
			go cw.Start(ctx, workerPool, cfg.Worker.PollInterval)
		default:
			logger.Warn().Str("type", string(t)).Msg("no worker for configured job type")
		}
	}

	// ---- Use cases & HTTP ----
	jobUC := usecase.NewJobUseCase(jobRepo, bindings, logger)
	summaryUC := usecase.NewSummaryUseCase(jobRepo, aiClient, cfg.AI.DefaultModel, logger)
	convUC := usecase.NewConversationUseCase(jobRepo, convRepo, logger)
	chatUC := usecase.NewChatUseCase(chatRepo, aiClient, cfg.AI.DefaultModel, logger)

	auth := web.NewAuthManager(cfg.Web.JWTSecret, 0)
	srv := web.NewServer(jobUC, summaryUC, convUC, chatUC, auth, logger)
	go func() {
		if err := srv.Start(ctx, cfg.Web.Port); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
}
