package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	benrierrors "benri/internal/errors"
	"benri/internal/httpclient"
	"benri/internal/logging"
)

const defaultEndpoint = "https://api.line.me"

// MaxMessageRunes is the provider limit on a single text message.
const MaxMessageRunes = 2000

// Client talks to the LINE Messaging API over plain HTTP.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	logger   logging.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint overrides the API endpoint (used by tests).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = strings.TrimRight(endpoint, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient returns a Client authenticated with a channel access token.
func NewClient(token string, logger logging.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("line client requires a channel access token")
	}
	c := &Client{
		endpoint: defaultEndpoint,
		token:    token,
		http:     httpclient.NewWithCircuitBreaker(10*time.Second, logger, "line-api"),
		logger:   logging.OrNop(logger),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []textMessage `json:"messages"`
}

// Push sends a single text message to a user. The text must already fit the
// provider length limit; use PushLong for arbitrary text.
func (c *Client) Push(ctx context.Context, to, text string) error {
	body := pushRequest{To: to, Messages: []textMessage{{Type: "text", Text: text}}}
	return c.post(ctx, "/v2/bot/message/push", body)
}

// Reply answers an inbound webhook event via its reply token.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	body := replyRequest{ReplyToken: replyToken, Messages: []textMessage{{Type: "text", Text: text}}}
	return c.post(ctx, "/v2/bot/message/reply", body)
}

// PushLong sends text of any length, splitting it into ordered numbered
// parts when it exceeds the provider limit.
func (c *Client) PushLong(ctx context.Context, to, text string) error {
	parts := SplitMessage(text, MaxMessageRunes)
	for i, part := range parts {
		if err := c.Push(ctx, to, part); err != nil {
			return fmt.Errorf("push part %d/%d: %w", i+1, len(parts), err)
		}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("line api %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := httpclient.ReadAllWithLimit(resp.Body, 16*1024)
		return fmt.Errorf("line api %s: %w", path,
			&benrierrors.HTTPStatusError{Status: resp.StatusCode, Body: apiErrorMessage(raw)})
	}
	return nil
}

type apiError struct {
	Message string `json:"message"`
}

func apiErrorMessage(raw []byte) string {
	var payload apiError
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(raw))
}
