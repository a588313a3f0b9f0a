// File: internal/infra/worker/research_processor.go
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-research-orchestrator/internal/domain"
	"ai-research-orchestrator/internal/domain/model"
	"ai-research-orchestrator/internal/domain/ports/repository"
	"ai-research-orchestrator/internal/infra/logging"
	"ai-research-orchestrator/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// submitRetryDelay is how long a dequeued trigger waits back on the queue
// when the worker pool has no free slot.
const submitRetryDelay = 2 * time.Second

// ChainRunner abstracts the research chain so tests can script outcomes.
type ChainRunner interface {
	Execute(ctx context.Context, instructions string) (*model.ResearchResult, error)
}

// ResearchProcessor consumes research trigger messages and drives each job
// through the agent chain. Message handling is isolated per message; a
// failure marks that job FAILED and surfaces the error without touching
// other messages.
type ResearchProcessor struct {
	jobs  repository.JobRepository
	queue repository.TriggerQueue
	chain ChainRunner
	log   zerolog.Logger
}

func NewResearchProcessor(
	jobs repository.JobRepository,
	queue repository.TriggerQueue,
	chain ChainRunner,
	logger *zerolog.Logger,
) *ResearchProcessor {
	return &ResearchProcessor{
		jobs:  jobs,
		queue: queue,
		chain: chain,
		log:   logger.With().Str("component", "research_processor").Logger(),
	}
}

// Start runs a loop to dequeue and process trigger messages.
// This should be run in a goroutine.
func (p *ResearchProcessor) Start(ctx context.Context, pool *Pool, pollWait time.Duration) {
	p.log.Info().Msg("research processor started")
	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("research processor stopping")
			return
		default:
		}

		msg, err := p.queue.Dequeue(ctx, pollWait)
		if err != nil {
			if !errors.Is(err, domain.ErrQueueEmpty) && ctx.Err() == nil {
				p.log.Error().Err(err).Msg("dequeue failed")
			}
			continue
		}
		m := msg
		err = pool.Submit(func(ctx context.Context) error {
			return p.Handle(ctx, m)
		})
		if err != nil {
			// Dequeue already removed the message; put it back or it is gone.
			p.log.Warn().Err(err).Str("job_id", m.JobID).Msg("worker pool full, returning trigger to queue")
			if qerr := p.queue.EnqueueDelayed(ctx, m, submitRetryDelay); qerr != nil {
				p.log.Error().Err(qerr).Str("job_id", m.JobID).Msg("re-enqueue failed, trigger lost")
			}
		}
	}
}

// Handle processes one trigger message end to end.
func (p *ResearchProcessor) Handle(ctx context.Context, msg repository.TriggerMessage) error {
	ctx = logging.WithJobID(ctx, msg.JobID)
	ctx = logging.WithSessID(ctx, msg.SessionID)
	log := *logging.With(ctx, &p.log)
	defer logging.TraceDuration(&log, "ResearchProcessor.Handle")()

	job, err := p.jobs.FindOne(ctx, msg.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Stale or duplicate trigger; nothing to do.
			log.Warn().Msg("job not found, skipping trigger")
			metrics.IncJob("research", "skipped")
			return nil
		}
		return fmt.Errorf("load job: %w", err)
	}

	if job.SessionID != msg.SessionID {
		// Both keys must match before the trigger can act on the job.
		log.Warn().Str("job_session_id", job.SessionID).Msg("trigger session does not match job, skipping")
		metrics.IncJob(string(job.Type), "skipped")
		return nil
	}

	if job.Status != model.JobStatusCreated {
		log.Warn().Str("status", string(job.Status)).Msg("job not in CREATED status, skipping")
		metrics.IncJob(string(job.Type), "skipped")
		return nil
	}

	if err := p.jobs.MarkInProgress(ctx, job.ID); err != nil {
		return fmt.Errorf("mark in progress: %w", err)
	}

	log.Info().Msg("starting research chain")
	start := time.Now()

	result, err := p.chain.Execute(ctx, job.Instructions)
	if err != nil {
		// Background context: the chain error may be a cancellation.
		if merr := p.jobs.MarkFailed(context.Background(), job.ID, err.Error()); merr != nil {
			log.Error().Err(merr).Msg("failed to mark job failed")
		}
		metrics.IncJob(string(job.Type), "failed")
		log.Error().Err(err).Msg("research chain failed")
		return err
	}

	serialized, err := json.Marshal(result)
	if err != nil {
		if merr := p.jobs.MarkFailed(ctx, job.ID, err.Error()); merr != nil {
			log.Error().Err(merr).Msg("failed to mark job failed")
		}
		metrics.IncJob(string(job.Type), "failed")
		return fmt.Errorf("serialize result: %w", err)
	}
	if err := p.jobs.MarkCompleted(ctx, job.ID, string(serialized)); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}

	metrics.IncJob(string(job.Type), "completed")
	metrics.ObserveJobDuration(string(job.Type), time.Since(start).Seconds())
	log.Info().Dur("duration", time.Since(start)).Msg("research job completed")
	return nil
}
