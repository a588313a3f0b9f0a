// File: internal/infra/worker/slack_worker.go
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"ai-research-orchestrator/internal/domain"
	"ai-research-orchestrator/internal/domain/model"
	"ai-research-orchestrator/internal/domain/ports/adapter"
	"ai-research-orchestrator/internal/domain/ports/repository"
	"ai-research-orchestrator/internal/infra/logging"
	"ai-research-orchestrator/internal/infra/metrics"
	"ai-research-orchestrator/internal/research"

	"github.com/rs/zerolog"
)

const extractionSystemPrompt = `You extract a contact and a question from a task description.
Respond with ONLY a JSON object, no other text:
{"email": "the email address of the person to contact", "question": "the single question to ask them"}
If either value cannot be determined, use an empty string for it.`

type contactExtraction struct {
	Email    string `json:"email"`
	Question string `json:"question"`
}

// ConversationWorker drives slack-type jobs through their own state machine:
// send the question on CREATED, poll for a reply on IN_PROGRESS. There is no
// long-lived wait; each check re-enqueues a delayed trigger for the next one.
type ConversationWorker struct {
	jobs      repository.JobRepository
	convs     repository.ConversationRepository
	queue     repository.TriggerQueue
	messenger adapter.MessengerAdapter
	ai        adapter.CompletionClient
	model     string
	recheck   time.Duration
	log       zerolog.Logger
}

func NewConversationWorker(
	jobs repository.JobRepository,
	convs repository.ConversationRepository,
	queue repository.TriggerQueue,
	messenger adapter.MessengerAdapter,
	ai adapter.CompletionClient,
	model string,
	recheck time.Duration,
	logger *zerolog.Logger,
) *ConversationWorker {
	if recheck <= 0 {
		recheck = 30 * time.Second
	}
	return &ConversationWorker{
		jobs:      jobs,
		convs:     convs,
		queue:     queue,
		messenger: messenger,
		ai:        ai,
		model:     model,
		recheck:   recheck,
		log:       logger.With().Str("component", "conversation_worker").Logger(),
	}
}

// Start runs a loop to dequeue and process trigger messages.
// This should be run in a goroutine.
func (w *ConversationWorker) Start(ctx context.Context, pool *Pool, pollWait time.Duration) {
	w.log.Info().Msg("conversation worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("conversation worker stopping")
			return
		default:
		}

		msg, err := w.queue.Dequeue(ctx, pollWait)
		if err != nil {
			if !errors.Is(err, domain.ErrQueueEmpty) && ctx.Err() == nil {
				w.log.Error().Err(err).Msg("dequeue failed")
			}
			continue
		}
		m := msg
		err = pool.Submit(func(ctx context.Context) error {
			return w.Handle(ctx, m)
		})
		if err != nil {
			// Dequeue already removed the message; put it back or it is gone.
			w.log.Warn().Err(err).Str("job_id", m.JobID).Msg("worker pool full, returning trigger to queue")
			if qerr := w.queue.EnqueueDelayed(ctx, m, submitRetryDelay); qerr != nil {
				w.log.Error().Err(qerr).Str("job_id", m.JobID).Msg("re-enqueue failed, trigger lost")
			}
		}
	}
}

// Handle advances one conversation job by exactly one step.
func (w *ConversationWorker) Handle(ctx context.Context, msg repository.TriggerMessage) error {
	ctx = logging.WithJobID(ctx, msg.JobID)
	ctx = logging.WithSessID(ctx, msg.SessionID)
	log := *logging.With(ctx, &w.log)

	job, err := w.jobs.FindOne(ctx, msg.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn().Msg("job not found, skipping trigger")
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

	switch job.Status {
	case model.JobStatusCreated:
		return w.sendQuestion(ctx, job, log)
	case model.JobStatusInProgress:
		return w.checkForReply(ctx, job, log)
	default:
		log.Debug().Str("status", string(job.Status)).Msg("job already terminal")
		return nil
	}
}

// sendQuestion handles the CREATED step: extract who to ask and what to ask,
// deliver the question, record the conversation, and schedule the first check.
func (w *ConversationWorker) sendQuestion(ctx context.Context, job *model.Job, log zerolog.Logger) error {
	email, question, err := w.extractContact(ctx, job.Instructions)
	if err != nil {
		return w.fail(ctx, job, fmt.Errorf("extract contact: %w", err), log)
	}

	userID, err := w.messenger.LookupUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.IncConversationEvent("user_not_found")
		}
		return w.fail(ctx, job, fmt.Errorf("lookup user: %w", err), log)
	}

	channelID, err := w.messenger.OpenDirectChannel(ctx, userID)
	if err != nil {
		return w.fail(ctx, job, fmt.Errorf("open channel: %w", err), log)
	}

	ts, err := w.messenger.PostMessage(ctx, channelID, question)
	if err != nil {
		return w.fail(ctx, job, fmt.Errorf("post question: %w", err), log)
	}

	conv := &model.Conversation{
		Channel:           channelID,
		TargetUserID:      userID,
		SessionID:         job.SessionID,
		JobID:             job.ID,
		DeliveryTS:        ts,
		ExtractedEmail:    email,
		ExtractedQuestion: question,
	}
	if err := w.convs.Create(ctx, conv); err != nil {
		return w.fail(ctx, job, fmt.Errorf("create conversation: %w", err), log)
	}

	if err := w.jobs.MarkInProgress(ctx, job.ID); err != nil {
		return fmt.Errorf("mark in progress: %w", err)
	}
	metrics.IncConversationEvent("question_sent")
	log.Info().Str("channel", channelID).Str("delivery_ts", ts).Msg("question delivered")

	return w.scheduleRecheck(ctx, job, log)
}

// checkForReply handles the IN_PROGRESS step: one poll of the channel history.
func (w *ConversationWorker) checkForReply(ctx context.Context, job *model.Job, log zerolog.Logger) error {
	conv, err := w.convs.FindByJob(ctx, job.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return w.fail(ctx, job, errors.New("conversation record missing"), log)
		}
		return fmt.Errorf("load conversation: %w", err)
	}

	msgs, err := w.messenger.History(ctx, conv.Channel, afterTS(conv.DeliveryTS), 100)
	if err != nil {
		log.Error().Err(err).Msg("history poll failed, will retry")
		return w.scheduleRecheck(ctx, job, log)
	}

	reply := firstReply(msgs, conv.TargetUserID)
	if reply == "" {
		metrics.IncConversationEvent("recheck_scheduled")
		log.Debug().Msg("no reply yet")
		return w.scheduleRecheck(ctx, job, log)
	}

	if err := w.convs.SetUserResponse(ctx, conv.ID, reply); err != nil {
		return fmt.Errorf("record response: %w", err)
	}
	result := reply
	if job.Result != "" {
		result = job.Result + "\n" + reply
	}
	if err := w.jobs.MarkCompleted(ctx, job.ID, result); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	metrics.IncConversationEvent("reply_received")
	metrics.IncJob(string(job.Type), "completed")
	log.Info().Msg("reply received, job completed")
	return nil
}

func (w *ConversationWorker) extractContact(ctx context.Context, instructions string) (email, question string, err error) {
	res, err := w.ai.Complete(ctx, adapter.CompletionRequest{
		Model:     w.model,
		System:    extractionSystemPrompt,
		Messages:  []adapter.Message{{Role: "user", Content: instructions}},
		MaxTokens: 500,
	})
	if err != nil {
		return "", "", err
	}
	raw, _, err := research.ExtractObject(res.Text)
	if err != nil {
		return "", "", fmt.Errorf("extraction response: %w", err)
	}
	var out contactExtraction
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", "", fmt.Errorf("extraction response: %w", err)
	}
	if out.Email == "" || out.Question == "" {
		return "", "", fmt.Errorf("instructions yielded no contact: %w", domain.ErrInvalidArgument)
	}
	return out.Email, out.Question, nil
}

func (w *ConversationWorker) scheduleRecheck(ctx context.Context, job *model.Job, log zerolog.Logger) error {
	msg := repository.TriggerMessage{JobID: job.ID, SessionID: job.SessionID}
	if err := w.queue.EnqueueDelayed(ctx, msg, w.recheck); err != nil {
		log.Error().Err(err).Msg("failed to schedule recheck")
		return fmt.Errorf("schedule recheck: %w", err)
	}
	return nil
}

func (w *ConversationWorker) fail(ctx context.Context, job *model.Job, cause error, log zerolog.Logger) error {
	if merr := w.jobs.MarkFailed(ctx, job.ID, cause.Error()); merr != nil {
		log.Error().Err(merr).Msg("failed to mark job failed")
	}
	metrics.IncJob(string(job.Type), "failed")
	log.Error().Err(cause).Msg("conversation job failed")
	return cause
}

// afterTS returns a timestamp just past ts so the delivered question itself is
// excluded from history polls. Falls back to ts verbatim when it is not a
// numeric provider timestamp.
func afterTS(ts string) string {
	f, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return ts
	}
	return strconv.FormatFloat(f+0.000001, 'f', 6, 64)
}

// firstReply picks the earliest qualifying human message: from the targeted
// user, not from a bot, with non-empty text.
func firstReply(msgs []adapter.ChannelMessage, targetUserID string) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m.FromBot || m.UserID != targetUserID || m.Text == "" {
			continue
		}
		return m.Text
	}
	return ""
}
