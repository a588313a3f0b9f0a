// File: internal/usecase/summary_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"ai-research-orchestrator/internal/domain"
	"ai-research-orchestrator/internal/domain/model"
	"ai-research-orchestrator/internal/domain/ports/adapter"
	"ai-research-orchestrator/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

const summarySystemPrompt = `You are a research analyst. You receive the completed outputs of several
research jobs run for one investigation session. Write a concise prose summary
for a decision maker: the problem, the strongest findings across all jobs, the
key risks, and a recommendation. Plain text only, no JSON, no code blocks.`

// SummaryUseCase condenses a session's completed jobs into one prose summary
// via a single completion call.
type SummaryUseCase struct {
	jobs  repository.JobRepository
	ai    adapter.CompletionClient
	model string
	log   zerolog.Logger
}

func NewSummaryUseCase(jobs repository.JobRepository, ai adapter.CompletionClient, model string, logger *zerolog.Logger) *SummaryUseCase {
	return &SummaryUseCase{
		jobs:  jobs,
		ai:    ai,
		model: model,
		log:   logger.With().Str("component", "summary_uc").Logger(),
	}
}

// Summarize gathers the session's COMPLETED jobs and produces the summary.
// Returns domain.ErrInvalidArgument when the session has no completed jobs.
func (uc *SummaryUseCase) Summarize(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required: %w", domain.ErrInvalidArgument)
	}
	jobs, err := uc.jobs.Find(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load session jobs: %w", err)
	}

	var b strings.Builder
	completed := 0
	for _, job := range jobs {
		if job.Status != model.JobStatusCompleted {
			continue
		}
		completed++
		fmt.Fprintf(&b, "=== JOB %s (%s) ===\nInstructions: %s\nResult:\n%s\n\n",
			job.ID, job.Type, job.Instructions, job.Result)
	}
	if completed == 0 {
		return "", fmt.Errorf("no completed jobs for session %s: %w", sessionID, domain.ErrInvalidArgument)
	}

	res, err := uc.ai.Complete(ctx, adapter.CompletionRequest{
		Model:     uc.model,
		System:    summarySystemPrompt,
		Messages:  []adapter.Message{{Role: "user", Content: b.String()}},
		MaxTokens: 2000,
	})
	if err != nil {
		return "", fmt.Errorf("summary completion: %w", err)
	}
	uc.log.Info().Str("session_id", sessionID).Int("completed_jobs", completed).Msg("session summary produced")
	return res.Text, nil
}
