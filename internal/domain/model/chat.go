// File: internal/domain/model/chat.go
package model

import "time"

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one stored turn of a problem-discovery conversation.
type ChatMessage struct {
	ID        string
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}

func NewChatMessage(sessionID, role, content string) *ChatMessage {
	return &ChatMessage{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// ChatTurn is the outcome of one exchange: the assistant reply plus a 1-10
// score of how close the user is to a real, quantified problem.
type ChatTurn struct {
	SessionID          string
	Message            string
	Temperature        int
	ConversationLength int
}
