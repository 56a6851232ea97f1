package zoom

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	benrierrors "benri/internal/errors"
	"benri/internal/httpclient"
	"benri/internal/logging"
)

const (
	defaultTokenURL = "https://zoom.us/oauth/token"
	defaultAPIBase  = "https://api.zoom.us/v2"

	// tokenExpirySlack refreshes tokens early to avoid using one that
	// expires mid-request.
	tokenExpirySlack = time.Minute
)

// Credentials hold a Server-to-Server OAuth app's identifiers.
type Credentials struct {
	AccountID    string
	ClientID     string
	ClientSecret string
}

func (c Credentials) validate() error {
	if c.AccountID == "" || c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("zoom credentials require account ID, client ID and client secret")
	}
	return nil
}

// Client creates meetings through the Zoom REST API using
// Server-to-Server OAuth.
type Client struct {
	creds    Credentials
	tokenURL string
	apiBase  string
	http     *http.Client
	logger   logging.Logger
	now      func() time.Time

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoints overrides the OAuth and API base URLs (used by tests).
func WithEndpoints(tokenURL, apiBase string) Option {
	return func(c *Client) {
		c.tokenURL = tokenURL
		c.apiBase = strings.TrimRight(apiBase, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient builds a Client for a Server-to-Server OAuth app.
func NewClient(creds Credentials, logger logging.Logger, opts ...Option) (*Client, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}
	c := &Client{
		creds:    creds,
		tokenURL: defaultTokenURL,
		apiBase:  defaultAPIBase,
		http:     httpclient.New(30 * time.Second),
		logger:   logging.OrNop(logger),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// token returns a valid access token, fetching a fresh one when the
// cached token is missing or about to expire.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.now().Before(c.tokenExpiry.Add(-tokenExpirySlack)) {
		return c.accessToken, nil
	}

	params := url.Values{}
	params.Set("grant_type", "account_credentials")
	params.Set("account_id", c.creds.AccountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.tokenURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	basic := base64.StdEncoding.EncodeToString(
		[]byte(c.creds.ClientID + ":" + c.creds.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch zoom token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := httpclient.ReadAllWithLimit(resp.Body, 64*1024)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch zoom token: %w",
			&benrierrors.HTTPStatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))})
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("zoom token response has no access_token")
	}

	c.accessToken = tok.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	c.logger.Debug("refreshed zoom access token, expires in %ds", tok.ExpiresIn)
	return c.accessToken, nil
}

// MeetingRequest describes the meeting to schedule.
type MeetingRequest struct {
	Topic     string
	StartTime time.Time
	Duration  time.Duration
	Timezone  string
	Password  string
}

// Meeting is the subset of the create-meeting response callers need.
type Meeting struct {
	ID       int64  `json:"id"`
	Topic    string `json:"topic"`
	Password string `json:"password"`
	JoinURL  string `json:"join_url"`
	StartURL string `json:"start_url"`
}

// CreateMeeting schedules a meeting for the authorized account's user.
// A zero StartTime means five minutes from now; a zero Duration means
// one hour.
func (c *Client) CreateMeeting(ctx context.Context, req MeetingRequest) (*Meeting, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, fmt.Errorf("meeting topic is required")
	}

	start := req.StartTime
	if start.IsZero() {
		start = c.now().Add(5 * time.Minute)
	}
	duration := req.Duration
	if duration <= 0 {
		duration = time.Hour
	}

	payload := map[string]any{
		"topic":      req.Topic,
		"type":       2, // scheduled meeting
		"start_time": start.UTC().Format("2006-01-02T15:04:05Z"),
		"duration":   int(duration.Minutes()),
		"settings": map[string]any{
			"host_video":        false,
			"participant_video": false,
			"waiting_room":      false,
			"join_before_host":  true,
			"mute_upon_entry":   true,
			"approval_type":     2,
		},
	}
	if req.Timezone != "" {
		payload["timezone"] = req.Timezone
	}
	if req.Password != "" {
		payload["password"] = req.Password
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode meeting request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiBase+"/users/me/meetings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build meeting request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := httpclient.ReadAllWithLimit(resp.Body, 1024*1024)
	if err != nil {
		return nil, fmt.Errorf("read meeting response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create meeting: %w",
			&benrierrors.HTTPStatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))})
	}

	var meeting Meeting
	if err := json.Unmarshal(respBody, &meeting); err != nil {
		return nil, fmt.Errorf("decode meeting response: %w", err)
	}
	c.logger.Info("created zoom meeting %d (%s)", meeting.ID, meeting.Topic)
	return &meeting, nil
}
