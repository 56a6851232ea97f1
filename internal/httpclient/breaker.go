package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	benrierrors "benri/internal/errors"
	"benri/internal/logging"
)

// NewWithCircuitBreaker builds a client whose transport refuses calls
// while the named breaker is open.
func NewWithCircuitBreaker(timeout time.Duration, logger logging.Logger, name string) *http.Client {
	return NewWithCircuitBreakerConfig(timeout, logger, name, benrierrors.DefaultCircuitBreakerConfig())
}

// NewWithCircuitBreakerConfig is NewWithCircuitBreaker with explicit
// breaker thresholds.
func NewWithCircuitBreakerConfig(timeout time.Duration, logger logging.Logger, name string, config benrierrors.CircuitBreakerConfig) *http.Client {
	client := New(timeout)
	client.Transport = WrapTransportWithCircuitBreaker(client.Transport, name, config, logger)
	return client
}

// WrapTransportWithCircuitBreaker guards an existing transport with a
// circuit breaker.
func WrapTransportWithCircuitBreaker(base http.RoundTripper, name string, config benrierrors.CircuitBreakerConfig, logger logging.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if name == "" {
		name = "http-client"
	}
	return &breakerTransport{
		base:    base,
		breaker: benrierrors.NewCircuitBreaker(name, config, logger),
	}
}

type breakerTransport struct {
	base    http.RoundTripper
	breaker *benrierrors.CircuitBreaker
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if err := t.breaker.Allow(); err != nil {
		return nil, err
	}
	resp, err := t.base.RoundTrip(req)
	t.breaker.Mark(classify(resp, err))
	return resp, err
}

// classify maps a round-trip outcome to what the breaker should count.
// Caller cancellations and 4xx responses other than 429 say nothing
// about the remote service's health and do not count against it.
func classify(resp *http.Response, err error) error {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	statusErr := &benrierrors.HTTPStatusError{Status: resp.StatusCode}
	if benrierrors.IsTransient(statusErr) {
		return statusErr
	}
	return nil
}
