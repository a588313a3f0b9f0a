package adapter

import "context"

// ChannelMessage is one message read back from a messenger channel history.
type ChannelMessage struct {
	UserID    string
	Text      string
	Timestamp string // provider-native message timestamp, lexically sortable
	FromBot   bool
}

// MessengerAdapter is the port for the conversational side channel. The
// workflow: resolve a user by email, open a direct channel, post the
// question, then poll History for messages after the delivery timestamp.
type MessengerAdapter interface {
	LookupUserByEmail(ctx context.Context, email string) (userID string, err error)
	OpenDirectChannel(ctx context.Context, userID string) (channelID string, err error)
	PostMessage(ctx context.Context, channelID, text string) (timestamp string, err error)
	History(ctx context.Context, channelID, oldestTS string, limit int) ([]ChannelMessage, error)
}
