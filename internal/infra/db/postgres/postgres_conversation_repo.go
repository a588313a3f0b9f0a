package postgres

import (
	"context"
	"errors"
	"fmt"

	"ai-research-orchestrator/internal/domain"
	"ai-research-orchestrator/internal/domain/model"
	"ai-research-orchestrator/internal/domain/ports/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var _ repository.ConversationRepository = (*conversationRepo)(nil)

type conversationRepo struct {
	pool *pgxpool.Pool
}

func NewConversationRepo(pool *pgxpool.Pool) *conversationRepo {
	return &conversationRepo{pool: pool}
}

func (r *conversationRepo) Create(ctx context.Context, conv *model.Conversation) error {
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	const q = `
INSERT INTO conversations (id, channel, target_user_id, session_id, job_id, delivery_ts, extracted_email, extracted_question, user_response)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (channel, target_user_id) DO UPDATE SET
  session_id = EXCLUDED.session_id,
  job_id = EXCLUDED.job_id,
  delivery_ts = EXCLUDED.delivery_ts,
  extracted_email = EXCLUDED.extracted_email,
  extracted_question = EXCLUDED.extracted_question,
  user_response = EXCLUDED.user_response;`
	_, err := r.pool.Exec(ctx, q,
		conv.ID, conv.Channel, conv.TargetUserID, conv.SessionID, conv.JobID,
		conv.DeliveryTS, conv.ExtractedEmail, conv.ExtractedQuestion, conv.UserResponse)
	if err != nil {
		return fmt.Errorf("create conversation: %w: %v", domain.ErrPersistence, err)
	}
	return nil
}

const conversationColumns = `id, channel, target_user_id, session_id, job_id, delivery_ts, extracted_email, extracted_question, user_response`

func (r *conversationRepo) FindOne(ctx context.Context, id string) (*model.Conversation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id=$1;`, id)
	return scanConversation(row)
}

func (r *conversationRepo) FindByJob(ctx context.Context, jobID string) (*model.Conversation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE job_id=$1;`, jobID)
	return scanConversation(row)
}

func (r *conversationRepo) FindByChannelUser(ctx context.Context, channel, userID string) (*model.Conversation, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE channel=$1 AND target_user_id=$2;`,
		channel, userID)
	return scanConversation(row)
}

func (r *conversationRepo) SetUserResponse(ctx context.Context, id string, response string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE conversations SET user_response=$2 WHERE id=$1;`, id, response)
	if err != nil {
		return fmt.Errorf("set user response: %w: %v", domain.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanConversation(row rowScanner) (*model.Conversation, error) {
	var c model.Conversation
	if err := row.Scan(
		&c.ID, &c.Channel, &c.TargetUserID, &c.SessionID, &c.JobID,
		&c.DeliveryTS, &c.ExtractedEmail, &c.ExtractedQuestion, &c.UserResponse,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
