// Package repository defines persistence and queue ports. Postgres and Redis
// implementations live under internal/infra.
package repository

import (
	"context"

	"ai-research-orchestrator/internal/domain/model"
)

// JobRepository persists jobs and advances their status. Mark methods are
// conditionless single-row writes touching updated_at; callers check the
// current status before transitioning.
type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	Find(ctx context.Context, sessionID string) ([]*model.Job, error)
	FindOne(ctx context.Context, id string) (*model.Job, error)
	MarkInProgress(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string, result string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}
