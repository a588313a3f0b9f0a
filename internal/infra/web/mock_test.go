// File: internal/infra/web/mock_test.go
package web

import (
	"context"
	"fmt"
	"time"

	"ai-research-orchestrator/internal/domain"
	"ai-research-orchestrator/internal/domain/model"
	"ai-research-orchestrator/internal/domain/ports/adapter"
	"ai-research-orchestrator/internal/domain/ports/repository"
	"ai-research-orchestrator/internal/usecase"

	"github.com/rs/zerolog"
)

type memJobRepo struct {
	jobs map[string]*model.Job
	seq  int
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[string]*model.Job)}
}

func (r *memJobRepo) Create(_ context.Context, job *model.Job) error {
	if job.ID == "" {
		r.seq++
		job.ID = fmt.Sprintf("job-%d", r.seq)
	}
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *memJobRepo) Find(_ context.Context, sessionID string) ([]*model.Job, error) {
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

func (r *memJobRepo) FindOne(_ context.Context, id string) (*model.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *memJobRepo) mark(id string, status model.JobStatus, result *string) error {
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

func (r *memJobRepo) MarkInProgress(_ context.Context, id string) error {
	return r.mark(id, model.JobStatusInProgress, nil)
}

func (r *memJobRepo) MarkCompleted(_ context.Context, id string, result string) error {
	return r.mark(id, model.JobStatusCompleted, &result)
}

func (r *memJobRepo) MarkFailed(_ context.Context, id string, reason string) error {
	return r.mark(id, model.JobStatusFailed, &reason)
}

type memConversationRepo struct {
	convs map[string]*model.Conversation
	seq   int
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{convs: make(map[string]*model.Conversation)}
}

func (r *memConversationRepo) Create(_ context.Context, conv *model.Conversation) error {
	if conv.ID == "" {
		r.seq++
		conv.ID = fmt.Sprintf("conv-%d", r.seq)
	}
	cp := *conv
	r.convs[conv.ID] = &cp
	return nil
}

func (r *memConversationRepo) FindOne(_ context.Context, id string) (*model.Conversation, error) {
	c, ok := r.convs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memConversationRepo) FindByJob(_ context.Context, jobID string) (*model.Conversation, error) {
	for _, c := range r.convs {
		if c.JobID == jobID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memConversationRepo) FindByChannelUser(_ context.Context, channel, userID string) (*model.Conversation, error) {
	for _, c := range r.convs {
		if c.Channel == channel && c.TargetUserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memConversationRepo) SetUserResponse(_ context.Context, id string, response string) error {
	c, ok := r.convs[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.UserResponse = &response
	return nil
}

type memQueue struct {
	messages []repository.TriggerMessage
}

func (q *memQueue) Enqueue(_ context.Context, msg repository.TriggerMessage) error {
	q.messages = append(q.messages, msg)
	return nil
}

func (q *memQueue) EnqueueDelayed(_ context.Context, msg repository.TriggerMessage, _ time.Duration) error {
	q.messages = append(q.messages, msg)
	return nil
}

func (q *memQueue) Dequeue(_ context.Context, _ time.Duration) (repository.TriggerMessage, error) {
	if len(q.messages) == 0 {
		return repository.TriggerMessage{}, domain.ErrQueueEmpty
	}
	msg := q.messages[0]
	q.messages = q.messages[1:]
	return msg, nil
}

func (q *memQueue) Depth(_ context.Context) (int64, error) {
	return int64(len(q.messages)), nil
}

type stubAI struct {
	text string
	err  error
}

func (a *stubAI) Complete(_ context.Context, _ adapter.CompletionRequest) (*adapter.CompletionResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &adapter.CompletionResult{Text: a.text}, nil
}

func (a *stubAI) CountTokens(_ context.Context, _, text string) (int, error) {
	return len(text) / 4, nil
}

func (a *stubAI) ListModels(_ context.Context) ([]string, error) {
	return nil, nil
}

type memChatRepo struct {
	msgs []model.ChatMessage
	seq  int
}

func (r *memChatRepo) SaveMessage(_ context.Context, msg *model.ChatMessage) error {
	if msg.ID == "" {
		r.seq++
		msg.ID = fmt.Sprintf("msg-%d", r.seq)
	}
	r.msgs = append(r.msgs, *msg)
	return nil
}

func (r *memChatRepo) History(_ context.Context, sessionID string, limit int) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	for _, m := range r.msgs {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type fixture struct {
	server *Server
	jobs   *memJobRepo
	convs  *memConversationRepo
	queue  *memQueue
	chat   *memChatRepo
}

func newFixture(jwtSecret string) *fixture {
	logger := zerolog.Nop()
	jobs := newMemJobRepo()
	convs := newMemConversationRepo()
	queue := &memQueue{}
	chat := &memChatRepo{}

	jobUC := usecase.NewJobUseCase(jobs, []usecase.QueueBinding{
		{Type: model.JobTypeResearch, Queue: queue},
		{Type: model.JobTypeSlack, Queue: queue},
	}, &logger)
	summaryUC := usecase.NewSummaryUseCase(jobs, &stubAI{text: "Session summary."}, "m", &logger)
	convUC := usecase.NewConversationUseCase(jobs, convs, &logger)
	chatAI := &stubAI{text: `{"message": "¿Qué problema estás experimentando?", "temperature": 3}`}
	chatUC := usecase.NewChatUseCase(chat, chatAI, "m", &logger)

	srv := NewServer(jobUC, summaryUC, convUC, chatUC, NewAuthManager(jwtSecret, time.Hour), &logger)
	return &fixture{server: srv, jobs: jobs, convs: convs, queue: queue, chat: chat}
}
