package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	benrierrors "benri/internal/errors"
	"benri/internal/httpclient"
	"benri/internal/logging"
)

const defaultBaseURL = "https://slack.com/api"

// userNameCacheSize bounds the users.info lookup cache.
const userNameCacheSize = 512

// Client talks to the Slack Web API with a bot token.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	logger  logging.Logger

	userNames *lru.Cache[string, string]
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient returns a Client for a bot token.
func NewClient(token string, logger logging.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("slack client requires a bot token")
	}
	cache, err := lru.New[string, string](userNameCacheSize)
	if err != nil {
		return nil, fmt.Errorf("user name cache: %w", err)
	}
	c := &Client{
		token:     token,
		baseURL:   defaultBaseURL,
		http:      httpclient.NewWithCircuitBreaker(15*time.Second, logger, "slack-api"),
		logger:    logging.OrNop(logger),
		userNames: cache,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIError is a Slack API-level failure (ok=false in the envelope).
type APIError struct {
	Method string
	Code   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack %s: %s", e.Method, e.Code)
}

// envelope is the common part of every Web API response.
type envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// call posts a form-encoded Web API method and decodes into out, which must
// embed the response envelope fields.
func (c *Client) call(ctx context.Context, method string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/"+method, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("slack %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := httpclient.ReadAllWithLimit(resp.Body, 16*1024)
		return fmt.Errorf("slack %s: %w", method,
			&benrierrors.HTTPStatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))})
	}

	raw, err := httpclient.ReadAllWithLimit(resp.Body, 4*1024*1024)
	if err != nil {
		return fmt.Errorf("slack %s: read response: %w", method, err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("slack %s: decode envelope: %w", method, err)
	}
	if !env.OK {
		return &APIError{Method: method, Code: env.Error}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("slack %s: decode response: %w", method, err)
		}
	}
	return nil
}

// AuthTestResponse identifies the authenticated bot.
type AuthTestResponse struct {
	URL    string `json:"url"`
	Team   string `json:"team"`
	User   string `json:"user"`
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
}

// AuthTest verifies the token and returns the workspace identity.
func (c *Client) AuthTest(ctx context.Context) (*AuthTestResponse, error) {
	var out AuthTestResponse
	if err := c.call(ctx, "auth.test", url.Values{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PostMessage posts text to a channel (name or ID).
func (c *Client) PostMessage(ctx context.Context, channel, text string) error {
	params := url.Values{}
	params.Set("channel", channel)
	params.Set("text", text)
	return c.call(ctx, "chat.postMessage", params, nil)
}
