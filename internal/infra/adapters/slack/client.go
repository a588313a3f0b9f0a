// File: internal/infra/adapters/slack/client.go
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ai-research-orchestrator/internal/domain"
	"ai-research-orchestrator/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.MessengerAdapter = (*Client)(nil)

// Client implements adapter.MessengerAdapter against the Slack Web API.
// Base URL defaults to https://slack.com/api (configurable for tests).
type Client struct {
	token  string
	base   string
	client *http.Client
}

func NewClient(token, base string) (*Client, error) {
	if token == "" {
		return nil, errors.New("slack bot token empty")
	}
	if base == "" {
		base = "https://slack.com/api"
	}
	return &Client{
		token:  token,
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *Client) LookupUserByEmail(ctx context.Context, email string) (string, error) {
	var out struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	err := c.get(ctx, "users.lookupByEmail", url.Values{"email": {email}}, &out)
	if err != nil {
		if strings.Contains(err.Error(), "users_not_found") {
			return "", fmt.Errorf("email %s: %w", email, domain.ErrUserNotFound)
		}
		return "", err
	}
	return out.User.ID, nil
}

func (c *Client) OpenDirectChannel(ctx context.Context, userID string) (string, error) {
	var out struct {
		Channel struct {
			ID string `json:"id"`
		} `json:"channel"`
	}
	if err := c.post(ctx, "conversations.open", map[string]any{"users": userID}, &out); err != nil {
		return "", err
	}
	return out.Channel.ID, nil
}

func (c *Client) PostMessage(ctx context.Context, channelID, text string) (string, error) {
	var out struct {
		TS string `json:"ts"`
	}
	payload := map[string]any{"channel": channelID, "text": text}
	if err := c.post(ctx, "chat.postMessage", payload, &out); err != nil {
		return "", err
	}
	return out.TS, nil
}

func (c *Client) History(ctx context.Context, channelID, oldestTS string, limit int) ([]adapter.ChannelMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	params := url.Values{
		"channel": {channelID},
		"limit":   {strconv.Itoa(limit)},
	}
	if oldestTS != "" {
		params.Set("oldest", oldestTS)
	}
	var out struct {
		Messages []struct {
			User  string `json:"user"`
			Text  string `json:"text"`
			TS    string `json:"ts"`
			BotID string `json:"bot_id"`
		} `json:"messages"`
	}
	if err := c.get(ctx, "conversations.history", params, &out); err != nil {
		return nil, err
	}
	msgs := make([]adapter.ChannelMessage, 0, len(out.Messages))
	for _, m := range out.Messages {
		msgs = append(msgs, adapter.ChannelMessage{
			UserID:    m.User,
			Text:      m.Text,
			Timestamp: m.TS,
			FromBot:   m.BotID != "",
		})
	}
	return msgs, nil
}

// AuthTest verifies the bot token; used at startup.
func (c *Client) AuthTest(ctx context.Context) (string, error) {
	var out struct {
		User string `json:"user"`
	}
	if err := c.get(ctx, "auth.test", nil, &out); err != nil {
		return "", err
	}
	return out.User, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	u := c.base + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, endpoint string, payload any, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do sends the request and decodes the envelope. Slack reports failures via
// {"ok": false, "error": "..."} with HTTP 200.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("slack http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var envelope struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("slack response decode: %w", err)
	}
	if !envelope.OK {
		return fmt.Errorf("slack api error: %s", envelope.Error)
	}
	if out != nil {
		return json.Unmarshal(body, out)
	}
	return nil
}
