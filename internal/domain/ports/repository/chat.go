// File: internal/domain/ports/repository/chat.go
package repository

import (
	"context"

	"ai-research-orchestrator/internal/domain/model"
)

// ChatRepository persists problem-discovery conversation turns per session.
type ChatRepository interface {
	SaveMessage(ctx context.Context, msg *model.ChatMessage) error
	// History returns up to limit messages for the session in chronological
	// order. An unknown session yields an empty slice, not an error.
	History(ctx context.Context, sessionID string, limit int) ([]model.ChatMessage, error)
}
