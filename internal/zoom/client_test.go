package zoom

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benri/internal/logging"
)

var testCreds = Credentials{
	AccountID:    "acct-1",
	ClientID:     "client-1",
	ClientSecret: "secret-1",
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(testCreds, logging.Nop(),
		WithEndpoints(srv.URL+"/oauth/token", srv.URL+"/v2"),
		WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c, srv
}

func tokenAndMeetingHandler(t *testing.T, tokenCalls *atomic.Int64) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-1:secret-1"))
		assert.Equal(t, expected, r.Header.Get("Authorization"))
		assert.Equal(t, "account_credentials", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "acct-1", r.URL.Query().Get("account_id"))
		fmt.Fprint(w, `{"access_token":"tok-123","expires_in":3600}`)
	})
	mux.HandleFunc("/v2/users/me/meetings", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, float64(2), payload["type"])
		assert.Equal(t, "テスト会議", payload["topic"])
		assert.Equal(t, float64(30), payload["duration"])
		settings := payload["settings"].(map[string]any)
		assert.Equal(t, true, settings["join_before_host"])
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":987654321,"topic":"テスト会議","password":"abc123","join_url":"https://zoom.us/j/987654321","start_url":"https://zoom.us/s/987654321"}`)
	})
	return mux
}

func TestNewClientValidatesCredentials(t *testing.T) {
	_, err := NewClient(Credentials{AccountID: "a"}, logging.Nop())
	assert.Error(t, err)
}

func TestCreateMeeting(t *testing.T) {
	var tokenCalls atomic.Int64
	c, _ := newTestClient(t, tokenAndMeetingHandler(t, &tokenCalls))

	meeting, err := c.CreateMeeting(context.Background(), MeetingRequest{
		Topic:     "テスト会議",
		StartTime: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Duration:  30 * time.Minute,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(987654321), meeting.ID)
	assert.Equal(t, "abc123", meeting.Password)
	assert.Equal(t, "https://zoom.us/j/987654321", meeting.JoinURL)
}

func TestTokenCachedAcrossCalls(t *testing.T) {
	var tokenCalls atomic.Int64
	c, _ := newTestClient(t, tokenAndMeetingHandler(t, &tokenCalls))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := c.CreateMeeting(ctx, MeetingRequest{Topic: "テスト会議", Duration: 30 * time.Minute})
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), tokenCalls.Load())
}

func TestTokenRefreshedAfterExpiry(t *testing.T) {
	var tokenCalls atomic.Int64
	c, _ := newTestClient(t, tokenAndMeetingHandler(t, &tokenCalls))

	now := time.Now()
	c.now = func() time.Time { return now }

	ctx := context.Background()
	_, err := c.CreateMeeting(ctx, MeetingRequest{Topic: "テスト会議", Duration: 30 * time.Minute})
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = c.CreateMeeting(ctx, MeetingRequest{Topic: "テスト会議", Duration: 30 * time.Minute})
	require.NoError(t, err)
	assert.Equal(t, int64(2), tokenCalls.Load())
}

func TestCreateMeetingRequiresTopic(t *testing.T) {
	c, err := NewClient(testCreds, logging.Nop())
	require.NoError(t, err)
	_, err = c.CreateMeeting(context.Background(), MeetingRequest{})
	assert.Error(t, err)
}

func TestCreateMeetingSurfacesAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"tok-123","expires_in":3600}`)
	})
	mux.HandleFunc("/v2/users/me/meetings", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"code":4711,"message":"scopes"}`)
	})
	c, _ := newTestClient(t, mux)

	_, err := c.CreateMeeting(context.Background(), MeetingRequest{Topic: "x"})
	assert.ErrorContains(t, err, "400")
}

func TestTokenFailureSurfaced(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"reason":"Invalid client"}`)
	}))

	_, err := c.CreateMeeting(context.Background(), MeetingRequest{Topic: "x"})
	assert.ErrorContains(t, err, "401")
}
