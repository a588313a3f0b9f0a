// File: internal/usecase/job_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"ai-research-orchestrator/internal/domain"
	"ai-research-orchestrator/internal/domain/model"
	"ai-research-orchestrator/internal/domain/ports/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// QueueBinding routes one job type to its trigger queue. Order matters for
// deterministic fan-out.
type QueueBinding struct {
	Type  model.JobType
	Queue repository.TriggerQueue
}

// JobUseCase creates jobs and fans out their triggers.
type JobUseCase struct {
	jobs     repository.JobRepository
	bindings []QueueBinding
	log      zerolog.Logger
}

func NewJobUseCase(jobs repository.JobRepository, bindings []QueueBinding, logger *zerolog.Logger) *JobUseCase {
	return &JobUseCase{
		jobs:     jobs,
		bindings: bindings,
		log:      logger.With().Str("component", "job_uc").Logger(),
	}
}

// StartResearch creates one CREATED job per configured job type for the given
// problem and enqueues an id-only trigger on each type's queue. A missing
// sessionID gets a fresh one so the caller can correlate the returned jobs.
func (uc *JobUseCase) StartResearch(ctx context.Context, sessionID, problem, contextSummary string) ([]*model.Job, error) {
	if strings.TrimSpace(problem) == "" {
		return nil, fmt.Errorf("problem is required: %w", domain.ErrInvalidArgument)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	created := make([]*model.Job, 0, len(uc.bindings))
	for _, b := range uc.bindings {
		job := model.NewJob(sessionID, b.Type, problem, contextSummary)
		if err := uc.jobs.Create(ctx, job); err != nil {
			return created, fmt.Errorf("create %s job: %w", b.Type, err)
		}
		msg := repository.TriggerMessage{JobID: job.ID, SessionID: sessionID}
		if err := b.Queue.Enqueue(ctx, msg); err != nil {
			// The job row exists but will never be triggered; fail it so the
			// session does not hang on a permanently-CREATED job.
			if merr := uc.jobs.MarkFailed(ctx, job.ID, "trigger enqueue failed: "+err.Error()); merr != nil {
				uc.log.Error().Err(merr).Str("job_id", job.ID).Msg("failed to mark job failed")
			}
			return created, fmt.Errorf("enqueue %s trigger: %w", b.Type, err)
		}
		uc.log.Info().Str("job_id", job.ID).Str("session_id", sessionID).
			Str("type", string(b.Type)).Msg("job created and triggered")
		created = append(created, job)
	}
	return created, nil
}

// ListJobs returns every job recorded for a session.
func (uc *JobUseCase) ListJobs(ctx context.Context, sessionID string) ([]*model.Job, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required: %w", domain.ErrInvalidArgument)
	}
	return uc.jobs.Find(ctx, sessionID)
}

// GetJob looks up one job; both keys are required and must match.
func (uc *JobUseCase) GetJob(ctx context.Context, sessionID, id string) (*model.Job, error) {
	if sessionID == "" || id == "" {
		return nil, fmt.Errorf("session_id and job id are required: %w", domain.ErrInvalidArgument)
	}
	job, err := uc.jobs.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.SessionID != sessionID {
		return nil, domain.ErrNotFound
	}
	return job, nil
}
