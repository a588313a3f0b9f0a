package repository

import (
	"context"
	"time"
)

// TriggerMessage is the id-only payload moved through trigger queues. Workers
// re-read the job row for everything else, so a stale or duplicated message
// never carries stale state.
type TriggerMessage struct {
	JobID     string `json:"job_id"`
	SessionID string `json:"session_id"`
}

// TriggerQueue hands trigger messages to workers. Dequeue returns
// domain.ErrQueueEmpty when nothing is ready within the wait window.
// EnqueueDelayed makes the message visible no earlier than delay from now.
type TriggerQueue interface {
	Enqueue(ctx context.Context, msg TriggerMessage) error
	EnqueueDelayed(ctx context.Context, msg TriggerMessage, delay time.Duration) error
	Dequeue(ctx context.Context, wait time.Duration) (TriggerMessage, error)
	Depth(ctx context.Context) (int64, error)
}
