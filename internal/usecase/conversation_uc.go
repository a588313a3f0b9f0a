// File: internal/usecase/conversation_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"

	"ai-research-orchestrator/internal/domain"
	"ai-research-orchestrator/internal/domain/model"
	"ai-research-orchestrator/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// ConversationUseCase completes slack jobs from inbound webhook events. It is
// the push-based counterpart of the polling worker; both paths are idempotent
// on a job that already reached a terminal status.
type ConversationUseCase struct {
	jobs  repository.JobRepository
	convs repository.ConversationRepository
	log   zerolog.Logger
}

func NewConversationUseCase(jobs repository.JobRepository, convs repository.ConversationRepository, logger *zerolog.Logger) *ConversationUseCase {
	return &ConversationUseCase{
		jobs:  jobs,
		convs: convs,
		log:   logger.With().Str("component", "conversation_uc").Logger(),
	}
}

// HandleInboundReply resolves a channel message back to its conversation and
// completes the linked job. Messages that match no known conversation, or a
// job whose question has not been sent yet, are silently ignored.
func (uc *ConversationUseCase) HandleInboundReply(ctx context.Context, channel, userID, text string) error {
	if text == "" {
		return nil
	}
	conv, err := uc.convs.FindByChannelUser(ctx, channel, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("resolve conversation: %w", err)
	}

	job, err := uc.jobs.FindOne(ctx, conv.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warn().Str("conversation_id", conv.ID).Str("job_id", conv.JobID).
				Msg("conversation points at a missing job")
			return nil
		}
		return fmt.Errorf("load job: %w", err)
	}
	if job.Status != model.JobStatusInProgress {
		return nil
	}

	if err := uc.convs.SetUserResponse(ctx, conv.ID, text); err != nil {
		return fmt.Errorf("record response: %w", err)
	}
	result := text
	if job.Result != "" {
		result = job.Result + "\n" + text
	}
	if err := uc.jobs.MarkCompleted(ctx, job.ID, result); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	uc.log.Info().Str("job_id", job.ID).Msg("job completed from inbound reply")
	return nil
}
