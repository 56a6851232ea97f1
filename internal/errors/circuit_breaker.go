package errors

import (
	"fmt"
	"sync"
	"time"

	"benri/internal/logging"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	// StateClosed - normal operation, requests allowed
	StateClosed CircuitState = iota
	// StateOpen - failing, requests blocked
	StateOpen
	// StateHalfOpen - testing if the upstream recovered
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitOpenError reports that the breaker rejected a request.
type CircuitOpenError struct {
	Name       string
	RetryAfter time.Duration
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit breaker open for %s (retry in %v)", e.Name, e.RetryAfter)
}

// CircuitBreakerConfig configures breaker behavior.
type CircuitBreakerConfig struct {
	FailureThreshold int           // consecutive failures to open (default 5)
	SuccessThreshold int           // consecutive half-open successes to close (default 2)
	Timeout          time.Duration // wait before attempting half-open (default 30s)
}

// DefaultCircuitBreakerConfig returns sensible defaults.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	}
}

// CircuitBreaker implements the circuit breaker pattern around outbound calls.
type CircuitBreaker struct {
	name   string
	config CircuitBreakerConfig
	logger logging.Logger

	mu              sync.Mutex
	state           CircuitState
	failureCount    int
	successCount    int
	lastFailureTime time.Time
}

// NewCircuitBreaker creates a breaker with the given name and config.
func NewCircuitBreaker(name string, config CircuitBreakerConfig, logger logging.Logger) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 2
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &CircuitBreaker{
		name:   name,
		config: config,
		logger: logging.OrNop(logger),
		state:  StateClosed,
	}
}

// Allow checks whether a request can proceed under the circuit breaker.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil
	case StateOpen:
		if time.Since(cb.lastFailureTime) >= cb.config.Timeout {
			cb.state = StateHalfOpen
			cb.successCount = 0
			cb.logger.Info("[%s] circuit breaker half-open, testing recovery", cb.name)
			return nil
		}
		return &CircuitOpenError{
			Name:       cb.name,
			RetryAfter: cb.config.Timeout - time.Since(cb.lastFailureTime),
		}
	case StateHalfOpen:
		return nil
	default:
		return fmt.Errorf("unknown circuit breaker state: %v", cb.state)
	}
}

// Mark records a request outcome. Pass nil to mark success.
func (cb *CircuitBreaker) Mark(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err == nil {
		cb.onSuccess()
	} else {
		cb.onFailure()
	}
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateClosed:
		cb.failureCount = 0
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.state = StateClosed
			cb.failureCount = 0
			cb.successCount = 0
			cb.logger.Info("[%s] circuit breaker closed (upstream recovered)", cb.name)
		}
	case StateOpen:
		cb.logger.Warn("[%s] unexpected success while open", cb.name)
	}
}

func (cb *CircuitBreaker) onFailure() {
	cb.lastFailureTime = time.Now()
	switch cb.state {
	case StateClosed:
		cb.failureCount++
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.state = StateOpen
			cb.logger.Warn("[%s] circuit breaker opened after %d failures", cb.name, cb.failureCount)
		}
	case StateHalfOpen:
		cb.state = StateOpen
		cb.successCount = 0
		cb.logger.Warn("[%s] circuit breaker re-opened (half-open probe failed)", cb.name)
	}
}
