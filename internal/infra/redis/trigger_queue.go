// File: internal/infra/redis/trigger_queue.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"ai-research-orchestrator/internal/domain"
	"ai-research-orchestrator/internal/domain/ports/repository"
	"ai-research-orchestrator/internal/infra/metrics"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

var _ repository.TriggerQueue = (*TriggerQueue)(nil)

// TriggerQueue delivers trigger messages through a ready list plus a sorted
// set of delayed members scored by their ready-at time. Dequeue promotes due
// delayed members before blocking on the ready list. Delivery is
// at-least-once: a consumer crash after BRPOP loses nothing but a crash
// mid-handling is not redelivered here; the status guard downstream absorbs
// duplicates instead.
type TriggerQueue struct {
	rds  RedisClient
	name string
	log  zerolog.Logger
	now  func() time.Time
}

func NewTriggerQueue(rds RedisClient, name string, logger *zerolog.Logger) *TriggerQueue {
	return &TriggerQueue{
		rds:  rds,
		name: name,
		log:  logger.With().Str("component", "trigger_queue").Str("queue", name).Logger(),
		now:  time.Now,
	}
}

func (q *TriggerQueue) readyKey() string   { return "triggers:" + q.name }
func (q *TriggerQueue) delayedKey() string { return "triggers:" + q.name + ":delayed" }

func (q *TriggerQueue) Enqueue(ctx context.Context, msg repository.TriggerMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := q.rds.LPush(ctx, q.readyKey(), string(b)); err != nil {
		return fmt.Errorf("enqueue %s: %w", q.name, err)
	}
	metrics.IncQueueMessage(q.name, "enqueue")
	return nil
}

func (q *TriggerQueue) EnqueueDelayed(ctx context.Context, msg repository.TriggerMessage, delay time.Duration) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	readyAt := float64(q.now().Add(delay).UnixMilli())
	if err := q.rds.ZAdd(ctx, q.delayedKey(), readyAt, string(b)); err != nil {
		return fmt.Errorf("enqueue delayed %s: %w", q.name, err)
	}
	metrics.IncQueueMessage(q.name, "enqueue_delayed")
	return nil
}

func (q *TriggerQueue) Dequeue(ctx context.Context, wait time.Duration) (repository.TriggerMessage, error) {
	if err := q.promoteDue(ctx); err != nil {
		q.log.Warn().Err(err).Msg("delayed promotion failed")
	}

	res, err := q.rds.BRPop(ctx, wait, q.readyKey())
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return repository.TriggerMessage{}, domain.ErrQueueEmpty
		}
		return repository.TriggerMessage{}, fmt.Errorf("dequeue %s: %w", q.name, err)
	}
	// BRPOP replies [key, value].
	if len(res) < 2 {
		return repository.TriggerMessage{}, domain.ErrQueueEmpty
	}
	var msg repository.TriggerMessage
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		return repository.TriggerMessage{}, fmt.Errorf("dequeue %s: malformed message: %w", q.name, err)
	}
	metrics.IncQueueMessage(q.name, "dequeue")
	return msg, nil
}

func (q *TriggerQueue) Depth(ctx context.Context) (int64, error) {
	ready, err := q.rds.LLen(ctx, q.readyKey())
	if err != nil {
		return 0, err
	}
	delayed, err := q.rds.ZCard(ctx, q.delayedKey())
	if err != nil {
		return 0, err
	}
	metrics.SetQueueDepth(q.name, ready+delayed)
	return ready + delayed, nil
}

// promoteDue moves delayed members whose time has come onto the ready list.
// ZREM arbitrates between concurrent consumers: only the remover pushes.
func (q *TriggerQueue) promoteDue(ctx context.Context) error {
	max := strconv.FormatInt(q.now().UnixMilli(), 10)
	due, err := q.rds.ZRangeByScore(ctx, q.delayedKey(), "-inf", max)
	if err != nil {
		return err
	}
	for _, member := range due {
		removed, err := q.rds.ZRem(ctx, q.delayedKey(), member)
		if err != nil {
			return err
		}
		if removed == 0 {
			continue
		}
		if err := q.rds.LPush(ctx, q.readyKey(), member); err != nil {
			return err
		}
	}
	return nil
}
