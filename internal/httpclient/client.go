package httpclient

import (
	"net/http"
	"time"

	"benri/internal/logging"
)

// DefaultTimeout bounds outbound API calls when callers do not specify one.
const DefaultTimeout = 30 * time.Second

// New builds an HTTP client with a bounded timeout.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// NewWithLogging builds an HTTP client whose requests are logged at debug level.
func NewWithLogging(timeout time.Duration, logger logging.Logger) *http.Client {
	client := New(timeout)
	client.Transport = &loggingRoundTripper{
		base:   http.DefaultTransport,
		logger: logging.OrNop(logger),
	}
	return client
}

type loggingRoundTripper struct {
	base   http.RoundTripper
	logger logging.Logger
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Debug("%s %s failed after %v: %v", req.Method, req.URL.Host, time.Since(start), err)
		return nil, err
	}
	t.logger.Debug("%s %s -> %d (%v)", req.Method, req.URL.Host, resp.StatusCode, time.Since(start))
	return resp, nil
}
