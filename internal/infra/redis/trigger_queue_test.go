package redis

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"testing"
	"time"

	"ai-research-orchestrator/internal/domain"
	"ai-research-orchestrator/internal/domain/ports/repository"

	goredis "github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// fakeRedis implements RedisClient in memory, enough for queue semantics.
type fakeRedis struct {
	lists map[string][]string
	zsets map[string]map[string]float64
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		lists: map[string][]string{},
		zsets: map[string]map[string]float64{},
	}
}

func (f *fakeRedis) Ping(context.Context) error { return nil }
func (f *fakeRedis) Close() error               { return nil }

func (f *fakeRedis) LPush(_ context.Context, key string, values ...interface{}) error {
	for _, v := range values {
		f.lists[key] = append([]string{v.(string)}, f.lists[key]...)
	}
	return nil
}

func (f *fakeRedis) BRPop(_ context.Context, _ time.Duration, keys ...string) ([]string, error) {
	for _, key := range keys {
		l := f.lists[key]
		if len(l) == 0 {
			continue
		}
		v := l[len(l)-1]
		f.lists[key] = l[:len(l)-1]
		return []string{key, v}, nil
	}
	return nil, goredis.Nil
}

func (f *fakeRedis) LLen(_ context.Context, key string) (int64, error) {
	return int64(len(f.lists[key])), nil
}

func (f *fakeRedis) ZAdd(_ context.Context, key string, score float64, member string) error {
	if f.zsets[key] == nil {
		f.zsets[key] = map[string]float64{}
	}
	f.zsets[key][member] = score
	return nil
}

func (f *fakeRedis) ZRangeByScore(_ context.Context, key, _, max string) ([]string, error) {
	var cutoff float64
	if max == "+inf" {
		cutoff = 1 << 62
	} else {
		var err error
		cutoff, err = parseFloat(max)
		if err != nil {
			return nil, err
		}
	}
	type entry struct {
		member string
		score  float64
	}
	var due []entry
	for m, s := range f.zsets[key] {
		if s <= cutoff {
			due = append(due, entry{m, s})
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].score < due[j].score })
	out := make([]string, len(due))
	for i, e := range due {
		out[i] = e.member
	}
	return out, nil
}

func (f *fakeRedis) ZRem(_ context.Context, key string, members ...interface{}) (int64, error) {
	var n int64
	for _, m := range members {
		if _, ok := f.zsets[key][m.(string)]; ok {
			delete(f.zsets[key], m.(string))
			n++
		}
	}
	return n, nil
}

func (f *fakeRedis) ZCard(_ context.Context, key string) (int64, error) {
	return int64(len(f.zsets[key])), nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestEnqueueDequeueRoundTrip(t *testing.T) {
	q := NewTriggerQueue(newFakeRedis(), "research", testLogger())
	ctx := context.Background()

	msg := repository.TriggerMessage{JobID: "job-1", SessionID: "sess-1"}
	if err := q.Enqueue(ctx, msg); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	got, err := q.Dequeue(ctx, time.Second)
	if err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	if got != msg {
		t.Errorf("got %+v, want %+v", got, msg)
	}
}

func TestDequeueEmptyReturnsSentinel(t *testing.T) {
	q := NewTriggerQueue(newFakeRedis(), "research", testLogger())
	_, err := q.Dequeue(context.Background(), time.Millisecond)
	if !errors.Is(err, domain.ErrQueueEmpty) {
		t.Errorf("err = %v, want ErrQueueEmpty", err)
	}
}

func TestDelayedMessageNotVisibleEarly(t *testing.T) {
	fake := newFakeRedis()
	q := NewTriggerQueue(fake, "slack", testLogger())
	base := time.Now()
	q.now = func() time.Time { return base }
	ctx := context.Background()

	msg := repository.TriggerMessage{JobID: "job-2", SessionID: "sess-1"}
	if err := q.EnqueueDelayed(ctx, msg, 30*time.Second); err != nil {
		t.Fatalf("enqueue delayed: %v", err)
	}

	if _, err := q.Dequeue(ctx, time.Millisecond); !errors.Is(err, domain.ErrQueueEmpty) {
		t.Fatalf("delayed message visible before its time: %v", err)
	}

	q.now = func() time.Time { return base.Add(31 * time.Second) }
	got, err := q.Dequeue(ctx, time.Millisecond)
	if err != nil {
		t.Fatalf("dequeue after delay: %v", err)
	}
	if got.JobID != "job-2" {
		t.Errorf("got %+v", got)
	}
}

func TestDequeueOrderFIFO(t *testing.T) {
	q := NewTriggerQueue(newFakeRedis(), "research", testLogger())
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if err := q.Enqueue(ctx, repository.TriggerMessage{JobID: id, SessionID: "s"}); err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}
	for _, want := range []string{"a", "b", "c"} {
		got, err := q.Dequeue(ctx, time.Millisecond)
		if err != nil {
			t.Fatalf("dequeue: %v", err)
		}
		if got.JobID != want {
			t.Errorf("got %s, want %s", got.JobID, want)
		}
	}
}

func TestDepthCountsReadyAndDelayed(t *testing.T) {
	q := NewTriggerQueue(newFakeRedis(), "research", testLogger())
	ctx := context.Background()
	q.Enqueue(ctx, repository.TriggerMessage{JobID: "a", SessionID: "s"})
	q.EnqueueDelayed(ctx, repository.TriggerMessage{JobID: "b", SessionID: "s"}, time.Hour)

	depth, err := q.Depth(ctx)
	if err != nil {
		t.Fatalf("depth: %v", err)
	}
	if depth != 2 {
		t.Errorf("depth = %d, want 2", depth)
	}
}
