package bot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benri/internal/config"
	"benri/internal/line"
	"benri/internal/reminder"
)

const testSecret = "test-channel-secret"

// mockMessenger records pushes and replies.
type mockMessenger struct {
	mu      sync.Mutex
	pushes  []string
	replies []string
	err     error
}

func (m *mockMessenger) Push(_ context.Context, to, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.pushes = append(m.pushes, to+": "+text)
	return nil
}

func (m *mockMessenger) Reply(_ context.Context, replyToken, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.replies = append(m.replies, text)
	return nil
}

func (m *mockMessenger) lastReply() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.replies) == 0 {
		return ""
	}
	return m.replies[len(m.replies)-1]
}

func newTestServer(t *testing.T, messenger *mockMessenger, now time.Time) (*Server, *reminder.Registry) {
	t.Helper()
	registry := reminder.NewRegistry(reminder.RegistryConfig{}, NewNotifier(messenger, nil), nil)
	srv, err := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 0}, testSecret,
		messenger, registry, prometheus.NewRegistry(), nil,
		WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	return srv, registry
}

func webhookBody(text string) []byte {
	return []byte(fmt.Sprintf(`{"events":[{
		"type": "message",
		"replyToken": "rt-1",
		"source": {"type": "user", "userId": "U1"},
		"message": {"id": "m1", "type": "text", "text": %q}
	}]}`, text))
}

func postCallback(t *testing.T, srv *Server, body []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(string(body)))
	if signature != "" {
		req.Header.Set("X-Line-Signature", signature)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &mockMessenger{}, time.Now())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCallbackRejectsInvalidSignature(t *testing.T) {
	messenger := &mockMessenger{}
	srv, registry := newTestServer(t, messenger, time.Now())
	body := webhookBody("10時に宿題をやる")

	rec := postCallback(t, srv, body, "bogus-signature")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, messenger.replies)
	assert.Zero(t, registry.PendingCount())

	rec = postCallback(t, srv, body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallbackSchedulesReminder(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, reminder.JST)
	messenger := &mockMessenger{}
	srv, registry := newTestServer(t, messenger, now)
	body := webhookBody("10時に宿題をやる")

	rec := postCallback(t, srv, body, line.Sign(testSecret, body))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	pending, ok := registry.Pending("U1")
	require.True(t, ok)
	want := time.Date(2024, 6, 10, 10, 0, 0, 0, reminder.JST)
	assert.True(t, pending.FireAt.Equal(want), "fireAt = %v", pending.FireAt)
	assert.Equal(t, "10:00 になりました。「宿題をやる」の時間です。", pending.Text)

	assert.Equal(t, "了解！06/10 10:00 に「宿題をやる」をリマインドするね。", messenger.lastReply())
}

func TestCallbackRollsPastTimeToTomorrow(t *testing.T) {
	now := time.Date(2024, 6, 10, 18, 0, 0, 0, reminder.JST)
	messenger := &mockMessenger{}
	srv, registry := newTestServer(t, messenger, now)
	body := webhookBody("15:30に散歩する")

	postCallback(t, srv, body, line.Sign(testSecret, body))

	pending, ok := registry.Pending("U1")
	require.True(t, ok)
	want := time.Date(2024, 6, 11, 15, 30, 0, 0, reminder.JST)
	assert.True(t, pending.FireAt.Equal(want), "fireAt = %v", pending.FireAt)
}

func TestCallbackRepliesHelpOnUnparsedText(t *testing.T) {
	messenger := &mockMessenger{}
	srv, registry := newTestServer(t, messenger, time.Now())
	body := webhookBody("こんにちは")

	rec := postCallback(t, srv, body, line.Sign(testSecret, body))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, helpReply, messenger.lastReply())
	assert.Zero(t, registry.PendingCount())
}

func TestCallbackDefaultsTask(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, reminder.JST)
	messenger := &mockMessenger{}
	srv, _ := newTestServer(t, messenger, now)
	body := webhookBody("9時")

	postCallback(t, srv, body, line.Sign(testSecret, body))
	assert.Contains(t, messenger.lastReply(), "「宿題をやる」")
}

func TestCallbackReplacesPendingReminder(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, reminder.JST)
	messenger := &mockMessenger{}
	srv, registry := newTestServer(t, messenger, now)

	first := webhookBody("10時に宿題をやる")
	second := webhookBody("11時に買い物")
	postCallback(t, srv, first, line.Sign(testSecret, first))
	postCallback(t, srv, second, line.Sign(testSecret, second))

	assert.Equal(t, 1, registry.PendingCount())
	pending, ok := registry.Pending("U1")
	require.True(t, ok)
	assert.Contains(t, pending.Text, "買い物")
}

func TestCallbackIgnoresNonTextEvents(t *testing.T) {
	messenger := &mockMessenger{}
	srv, registry := newTestServer(t, messenger, time.Now())
	body := []byte(`{"events":[{"type":"follow","source":{"type":"user","userId":"U1"}}]}`)

	rec := postCallback(t, srv, body, line.Sign(testSecret, body))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, messenger.replies)
	assert.Zero(t, registry.PendingCount())
}

func TestCallbackMalformedBody(t *testing.T) {
	srv, _ := newTestServer(t, &mockMessenger{}, time.Now())
	body := []byte("not json")
	rec := postCallback(t, srv, body, line.Sign(testSecret, body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReplyFailureDoesNotUnwindSchedule(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, reminder.JST)
	messenger := &mockMessenger{err: fmt.Errorf("api down")}
	srv, registry := newTestServer(t, messenger, now)
	body := webhookBody("10時に宿題をやる")

	rec := postCallback(t, srv, body, line.Sign(testSecret, body))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, registry.PendingCount())
}

func TestNewServerRequiresSecret(t *testing.T) {
	registry := reminder.NewRegistry(reminder.RegistryConfig{}, NewNotifier(&mockMessenger{}, nil), nil)
	_, err := NewServer(config.ServerConfig{}, "", &mockMessenger{}, registry, nil, nil)
	assert.Error(t, err)
}
