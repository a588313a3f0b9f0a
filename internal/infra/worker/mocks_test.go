// File: internal/infra/worker/mocks_test.go
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ai-research-orchestrator/internal/domain"
	"ai-research-orchestrator/internal/domain/model"
	"ai-research-orchestrator/internal/domain/ports/adapter"
	"ai-research-orchestrator/internal/domain/ports/repository"
)

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*model.Job
	seq  int
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*model.Job)}
}

func (r *fakeJobRepo) Create(_ context.Context, job *model.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == "" {
		r.seq++
		job.ID = fmt.Sprintf("job-%d", r.seq)
	}
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *fakeJobRepo) Find(_ context.Context, sessionID string) ([]*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Job
	for _, j := range r.jobs {
		if j.SessionID == sessionID {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) FindOne(_ context.Context, id string) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *fakeJobRepo) setStatus(id string, status model.JobStatus, result *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	j.Status = status
	if result != nil {
		j.Result = *result
	}
	j.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeJobRepo) MarkInProgress(_ context.Context, id string) error {
	return r.setStatus(id, model.JobStatusInProgress, nil)
}

func (r *fakeJobRepo) MarkCompleted(_ context.Context, id string, result string) error {
	return r.setStatus(id, model.JobStatusCompleted, &result)
}

func (r *fakeJobRepo) MarkFailed(_ context.Context, id string, reason string) error {
	return r.setStatus(id, model.JobStatusFailed, &reason)
}

type fakeConversationRepo struct {
	mu    sync.Mutex
	convs map[string]*model.Conversation
	seq   int
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{convs: make(map[string]*model.Conversation)}
}

func (r *fakeConversationRepo) Create(_ context.Context, conv *model.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conv.ID == "" {
		r.seq++
		conv.ID = fmt.Sprintf("conv-%d", r.seq)
	}
	cp := *conv
	r.convs[conv.ID] = &cp
	return nil
}

func (r *fakeConversationRepo) FindOne(_ context.Context, id string) (*model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeConversationRepo) FindByJob(_ context.Context, jobID string) (*model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.convs {
		if c.JobID == jobID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeConversationRepo) FindByChannelUser(_ context.Context, channel, userID string) (*model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.convs {
		if c.Channel == channel && c.TargetUserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeConversationRepo) SetUserResponse(_ context.Context, id string, response string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.UserResponse = &response
	return nil
}

type delayedMsg struct {
	msg   repository.TriggerMessage
	delay time.Duration
}

type fakeQueue struct {
	mu      sync.Mutex
	ready   []repository.TriggerMessage
	delayed []delayedMsg
}

func (q *fakeQueue) Enqueue(_ context.Context, msg repository.TriggerMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ready = append(q.ready, msg)
	return nil
}

func (q *fakeQueue) EnqueueDelayed(_ context.Context, msg repository.TriggerMessage, delay time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.delayed = append(q.delayed, delayedMsg{msg: msg, delay: delay})
	return nil
}

func (q *fakeQueue) Dequeue(_ context.Context, _ time.Duration) (repository.TriggerMessage, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.ready) == 0 {
		return repository.TriggerMessage{}, domain.ErrQueueEmpty
	}
	msg := q.ready[0]
	q.ready = q.ready[1:]
	return msg, nil
}

func (q *fakeQueue) Depth(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.ready) + len(q.delayed)), nil
}

func (q *fakeQueue) delayedCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.delayed)
}

func (q *fakeQueue) delayedAt(i int) repository.TriggerMessage {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.delayed[i].msg
}

// scriptedChain lets tests dictate the chain outcome and count invocations.
type scriptedChain struct {
	mu     sync.Mutex
	result *model.ResearchResult
	err    error
	calls  int
}

func (c *scriptedChain) Execute(_ context.Context, _ string) (*model.ResearchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func (c *scriptedChain) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// fakeMessenger records deliveries and plays back a scripted history.
type fakeMessenger struct {
	mu         sync.Mutex
	userByMail map[string]string
	history    []adapter.ChannelMessage
	lookupErr  error
	posted     []string
	channel    string
	oldestSeen string
	tsSeq      int
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		userByMail: map[string]string{"ana@example.com": "U123"},
		channel:    "D456",
	}
}

func (m *fakeMessenger) LookupUserByEmail(_ context.Context, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookupErr != nil {
		return "", m.lookupErr
	}
	id, ok := m.userByMail[email]
	if !ok {
		return "", fmt.Errorf("email %s: %w", email, domain.ErrUserNotFound)
	}
	return id, nil
}

func (m *fakeMessenger) OpenDirectChannel(_ context.Context, _ string) (string, error) {
	return m.channel, nil
}

func (m *fakeMessenger) PostMessage(_ context.Context, _, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posted = append(m.posted, text)
	m.tsSeq++
	return fmt.Sprintf("1700000000.%06d", m.tsSeq), nil
}

func (m *fakeMessenger) History(_ context.Context, _, oldestTS string, _ int) ([]adapter.ChannelMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.oldestSeen = oldestTS
	return append([]adapter.ChannelMessage(nil), m.history...), nil
}

// scriptedAI returns a fixed completion text for the extraction call.
type scriptedAI struct {
	text string
	err  error
}

func (a *scriptedAI) Complete(_ context.Context, _ adapter.CompletionRequest) (*adapter.CompletionResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &adapter.CompletionResult{Text: a.text}, nil
}

func (a *scriptedAI) CountTokens(_ context.Context, _, text string) (int, error) {
	return len(text) / 4, nil
}

func (a *scriptedAI) ListModels(_ context.Context) ([]string, error) {
	return nil, nil
}
