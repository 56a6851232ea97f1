package reminder

import (
	"context"
	"sync"
	"time"

	"benri/internal/logging"
)

// Notifier delivers a fired reminder to its recipient.
type Notifier interface {
	Notify(ctx context.Context, recipientID, text string) error
}

// RegistryConfig tunes the timer registry.
type RegistryConfig struct {
	QueueSize       int           // buffered due-queue between timers and delivery (default 64)
	DeliveryTimeout time.Duration // bound on a single outbound delivery (default 10s)
}

type pendingEntry struct {
	reminder Reminder
	timer    *time.Timer
}

// Registry owns the one-shot reminder timers, keyed by job id. Inserting
// under an existing key cancels and replaces the pending timer; replacement
// order is the arrival order of Schedule calls. Expired timers hand their
// reminder to a delivery worker over a channel so timer bookkeeping never
// waits on network I/O.
type Registry struct {
	notifier Notifier
	logger   logging.Logger
	config   RegistryConfig

	mu      sync.Mutex
	pending map[string]*pendingEntry

	due      chan Reminder
	stopped  chan struct{}
	stopOnce sync.Once
	workerWG sync.WaitGroup
}

// NewRegistry creates a Registry delivering through notifier.
func NewRegistry(config RegistryConfig, notifier Notifier, logger logging.Logger) *Registry {
	if config.QueueSize <= 0 {
		config.QueueSize = 64
	}
	if config.DeliveryTimeout <= 0 {
		config.DeliveryTimeout = 10 * time.Second
	}
	return &Registry{
		notifier: notifier,
		logger:   logging.OrNop(logger),
		config:   config,
		pending:  make(map[string]*pendingEntry),
		due:      make(chan Reminder, config.QueueSize),
		stopped:  make(chan struct{}),
	}
}

// Start launches the delivery worker. The registry stops when ctx is
// cancelled or Stop is called.
func (r *Registry) Start(ctx context.Context) {
	r.workerWG.Add(1)
	go r.deliveryLoop(ctx)
	go func() {
		select {
		case <-ctx.Done():
			r.Stop()
		case <-r.stopped:
		}
	}()
}

// Stop cancels all pending timers and shuts the delivery worker down.
// Safe to call multiple times.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		for id, entry := range r.pending {
			entry.timer.Stop()
			delete(r.pending, id)
		}
		r.mu.Unlock()
		close(r.stopped)
		r.logger.Info("reminder registry stopped")
	})
	r.workerWG.Wait()
}

// Schedule registers rem, replacing any pending reminder with the same job
// id. It reports whether an existing reminder was superseded. Scheduling is
// fire-and-forget: the caller returns before the timer fires.
func (r *Registry) Schedule(rem Reminder) (replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.pending[rem.JobID]; ok {
		existing.timer.Stop()
		delete(r.pending, rem.JobID)
		replaced = true
	}

	delay := time.Until(rem.FireAt)
	if delay < 0 {
		delay = 0
	}
	entry := &pendingEntry{reminder: rem}
	jobID := rem.JobID
	entry.timer = time.AfterFunc(delay, func() {
		r.fire(jobID, entry)
	})
	r.pending[jobID] = entry

	r.logger.Info("scheduled reminder %s at %s (replaced=%v)",
		jobID, rem.FireAt.Format(time.RFC3339), replaced)
	return replaced
}

// Pending returns the reminder currently registered for a recipient.
func (r *Registry) Pending(recipientID string) (Reminder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.pending[JobID(recipientID)]
	if !ok {
		return Reminder{}, false
	}
	return entry.reminder, true
}

// PendingCount returns the number of registered reminders.
func (r *Registry) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// fire moves a due reminder from the timer map onto the delivery queue.
// The map entry is consumed only if it is still the one this timer was
// armed for: a Schedule racing with timer expiry may have already swapped
// in a replacement under the same job id, and that replacement must stay
// pending until its own timer fires.
func (r *Registry) fire(jobID string, expired *pendingEntry) {
	r.mu.Lock()
	current, ok := r.pending[jobID]
	if ok && current == expired {
		delete(r.pending, jobID)
	} else {
		ok = false
	}
	r.mu.Unlock()
	if !ok {
		return
	}

	select {
	case r.due <- expired.reminder:
	case <-r.stopped:
	}
}

func (r *Registry) deliveryLoop(ctx context.Context) {
	defer r.workerWG.Done()
	for {
		select {
		case rem := <-r.due:
			r.deliver(ctx, rem)
		case <-r.stopped:
			return
		case <-ctx.Done():
			return
		}
	}
}

// deliver pushes one notification. Delivery is best-effort: failures are
// logged and dropped, never retried, and nothing is surfaced to the sender.
func (r *Registry) deliver(ctx context.Context, rem Reminder) {
	deliverCtx, cancel := context.WithTimeout(ctx, r.config.DeliveryTimeout)
	defer cancel()

	if err := r.notifier.Notify(deliverCtx, rem.RecipientID, rem.Text); err != nil {
		r.logger.Error("reminder delivery failed for %s: %v", rem.JobID, err)
		return
	}
	r.logger.Info("delivered reminder %s", rem.JobID)
}
