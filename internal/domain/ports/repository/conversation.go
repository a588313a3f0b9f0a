package repository

import (
	"context"

	"ai-research-orchestrator/internal/domain/model"
)

// ConversationRepository persists side-channel conversations. FindByJob
// returns the conversation created for a job's outbound question;
// FindByChannelUser resolves an inbound message back to its conversation.
type ConversationRepository interface {
	Create(ctx context.Context, conv *model.Conversation) error
	FindOne(ctx context.Context, id string) (*model.Conversation, error)
	FindByJob(ctx context.Context, jobID string) (*model.Conversation, error)
	FindByChannelUser(ctx context.Context, channel, userID string) (*model.Conversation, error)
	SetUserResponse(ctx context.Context, id string, response string) error
}
