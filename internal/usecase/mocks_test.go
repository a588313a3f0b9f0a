// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"ai-research-orchestrator/internal/domain"
	"ai-research-orchestrator/internal/domain/model"
	"ai-research-orchestrator/internal/domain/ports/adapter"
	"ai-research-orchestrator/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type mockJobRepo struct {
	jobs      map[string]*model.Job
	seq       int
	createErr error
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{jobs: make(map[string]*model.Job)}
}

func (r *mockJobRepo) Create(_ context.Context, job *model.Job) error {
	if r.createErr != nil {
		return r.createErr
	}
	if job.ID == "" {
		r.seq++
		job.ID = fmt.Sprintf("job-%d", r.seq)
	}
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *mockJobRepo) Find(_ context.Context, sessionID string) ([]*model.Job, error) {
	var out []*model.Job
	for i := 1; i <= r.seq; i++ {
		j, ok := r.jobs[fmt.Sprintf("job-%d", i)]
		if ok && j.SessionID == sessionID {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *mockJobRepo) FindOne(_ context.Context, id string) (*model.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *mockJobRepo) mark(id string, status model.JobStatus, result *string) error {
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

func (r *mockJobRepo) MarkInProgress(_ context.Context, id string) error {
	return r.mark(id, model.JobStatusInProgress, nil)
}

func (r *mockJobRepo) MarkCompleted(_ context.Context, id string, result string) error {
	return r.mark(id, model.JobStatusCompleted, &result)
}

func (r *mockJobRepo) MarkFailed(_ context.Context, id string, reason string) error {
	return r.mark(id, model.JobStatusFailed, &reason)
}

type mockQueue struct {
	messages   []repository.TriggerMessage
	enqueueErr error
}

func (q *mockQueue) Enqueue(_ context.Context, msg repository.TriggerMessage) error {
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.messages = append(q.messages, msg)
	return nil
}

func (q *mockQueue) EnqueueDelayed(_ context.Context, msg repository.TriggerMessage, _ time.Duration) error {
	q.messages = append(q.messages, msg)
	return nil
}

func (q *mockQueue) Dequeue(_ context.Context, _ time.Duration) (repository.TriggerMessage, error) {
	if len(q.messages) == 0 {
		return repository.TriggerMessage{}, domain.ErrQueueEmpty
	}
	msg := q.messages[0]
	q.messages = q.messages[1:]
	return msg, nil
}

func (q *mockQueue) Depth(_ context.Context) (int64, error) {
	return int64(len(q.messages)), nil
}

type mockConversationRepo struct {
	convs map[string]*model.Conversation
	seq   int
}

func newMockConversationRepo() *mockConversationRepo {
	return &mockConversationRepo{convs: make(map[string]*model.Conversation)}
}

func (r *mockConversationRepo) Create(_ context.Context, conv *model.Conversation) error {
	if conv.ID == "" {
		r.seq++
		conv.ID = fmt.Sprintf("conv-%d", r.seq)
	}
	cp := *conv
	r.convs[conv.ID] = &cp
	return nil
}

func (r *mockConversationRepo) FindOne(_ context.Context, id string) (*model.Conversation, error) {
	c, ok := r.convs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *mockConversationRepo) FindByJob(_ context.Context, jobID string) (*model.Conversation, error) {
	for _, c := range r.convs {
		if c.JobID == jobID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *mockConversationRepo) FindByChannelUser(_ context.Context, channel, userID string) (*model.Conversation, error) {
	for _, c := range r.convs {
		if c.Channel == channel && c.TargetUserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *mockConversationRepo) SetUserResponse(_ context.Context, id string, response string) error {
	c, ok := r.convs[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.UserResponse = &response
	return nil
}

type mockChatRepo struct {
	byID     map[string]*model.ChatMessage
	order    []string
	seq      int
	saveErr  error
	histErr  error
	histSeen int
}

func newMockChatRepo() *mockChatRepo {
	return &mockChatRepo{byID: make(map[string]*model.ChatMessage)}
}

func (r *mockChatRepo) SaveMessage(_ context.Context, msg *model.ChatMessage) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if msg.ID == "" {
		r.seq++
		msg.ID = fmt.Sprintf("msg-%d", r.seq)
	}
	cp := *msg
	r.byID[msg.ID] = &cp
	r.order = append(r.order, msg.ID)
	return nil
}

func (r *mockChatRepo) History(_ context.Context, sessionID string, limit int) ([]model.ChatMessage, error) {
	if r.histErr != nil {
		return nil, r.histErr
	}
	r.histSeen = limit
	var out []model.ChatMessage
	for _, id := range r.order {
		m := r.byID[id]
		if m.SessionID == sessionID {
			out = append(out, *m)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *mockChatRepo) stored(sessionID string) []model.ChatMessage {
	out, _ := r.History(context.Background(), sessionID, 0)
	return out
}

type mockAI struct {
	text    string
	err     error
	lastReq adapter.CompletionRequest
	calls   int
}

func (a *mockAI) Complete(_ context.Context, req adapter.CompletionRequest) (*adapter.CompletionResult, error) {
	a.calls++
	a.lastReq = req
	if a.err != nil {
		return nil, a.err
	}
	return &adapter.CompletionResult{Text: a.text}, nil
}

func (a *mockAI) CountTokens(_ context.Context, _, text string) (int, error) {
	return len(text) / 4, nil
}

func (a *mockAI) ListModels(_ context.Context) ([]string, error) {
	return nil, nil
}
