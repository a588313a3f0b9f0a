package postgres

import (
	"context"
	"fmt"

	"ai-research-orchestrator/internal/domain"
	"ai-research-orchestrator/internal/domain/model"
	"ai-research-orchestrator/internal/domain/ports/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

var _ repository.ChatRepository = (*chatRepo)(nil)

type chatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) *chatRepo {
	return &chatRepo{pool: pool}
}

func (r *chatRepo) SaveMessage(ctx context.Context, msg *model.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	const q = `
INSERT INTO chat_messages (id, session_id, role, content, created_at)
VALUES ($1, $2, $3, $4, $5);`
	_, err := r.pool.Exec(ctx, q, msg.ID, msg.SessionID, msg.Role, msg.Content, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("save chat message: %w: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *chatRepo) History(ctx context.Context, sessionID string, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, role, content, created_at
		   FROM chat_messages WHERE session_id=$1
		  ORDER BY created_at ASC, id ASC LIMIT $2;`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("chat history: %w: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var out []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
