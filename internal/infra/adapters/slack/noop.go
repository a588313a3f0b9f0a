// File: internal/infra/adapters/slack/noop.go
package slack

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"ai-research-orchestrator/internal/domain/ports/adapter"
)

var _ adapter.MessengerAdapter = (*NoopMessenger)(nil)

// NoopMessenger implements adapter.MessengerAdapter for local/dev testing.
// Messages are logged; history is always empty.
type NoopMessenger struct {
	seq atomic.Int64
}

func NewNoopMessenger() *NoopMessenger {
	return &NoopMessenger{}
}

func (n *NoopMessenger) LookupUserByEmail(_ context.Context, email string) (string, error) {
	return "U-noop-" + email, nil
}

func (n *NoopMessenger) OpenDirectChannel(_ context.Context, userID string) (string, error) {
	return "D-noop-" + userID, nil
}

func (n *NoopMessenger) PostMessage(_ context.Context, channelID, text string) (string, error) {
	log.Printf("[noop-slack] To %s: %s\n", channelID, text)
	return fmt.Sprintf("%d.%06d", time.Now().Unix(), n.seq.Add(1)), nil
}

func (n *NoopMessenger) History(context.Context, string, string, int) ([]adapter.ChannelMessage, error) {
	return nil, nil
}
