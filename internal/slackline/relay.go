package slackline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"benri/internal/logging"
	"benri/internal/slack"
)

// slackSource is the slice of the Slack client the relay uses.
type slackSource interface {
	ResolveChannel(ctx context.Context, channel string) (string, error)
	History(ctx context.Context, channelID string, window time.Duration, limit int) ([]slack.Message, error)
	UserName(ctx context.Context, userID string) string
}

// lineSink pushes the digest to LINE.
type lineSink interface {
	PushLong(ctx context.Context, to, text string) error
}

// Options control a single relay run.
type Options struct {
	Channel   string
	Window    time.Duration
	Limit     int
	MaxLength int
	NoSummary bool
	DryRun    bool
}

// Result reports what a relay run produced.
type Result struct {
	ChannelID    string
	MessageCount int
	Summary      string
	Sent         bool
}

// Relay fetches channel history from Slack, formats it, and pushes it
// to a LINE recipient.
type Relay struct {
	slack  slackSource
	line   lineSink
	logger logging.Logger
}

// NewRelay wires a Slack source to a LINE sink.
func NewRelay(src slackSource, sink lineSink, logger logging.Logger) *Relay {
	return &Relay{slack: src, line: sink, logger: logging.OrNop(logger)}
}

// Run executes one fetch-summarize-push cycle.
func (r *Relay) Run(ctx context.Context, recipientID string, opts Options) (*Result, error) {
	if opts.Channel == "" {
		return nil, fmt.Errorf("channel is required")
	}
	if opts.Window <= 0 {
		opts.Window = 24 * time.Hour
	}
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	channelID, err := r.slack.ResolveChannel(ctx, opts.Channel)
	if err != nil {
		return nil, fmt.Errorf("resolve channel: %w", err)
	}

	messages, err := r.slack.History(ctx, channelID, opts.Window, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	r.logger.Info("fetched %d messages from %s", len(messages), opts.Channel)

	result := &Result{ChannelID: channelID, MessageCount: len(messages)}
	if len(messages) == 0 {
		result.Summary = emptyNotice
		return result, nil
	}

	names := r.resolveNames(ctx, messages)
	if opts.NoSummary {
		result.Summary = SimpleSummary(messages, names)
	} else {
		result.Summary = Summarize(messages, names, opts.MaxLength)
	}

	if opts.DryRun {
		return result, nil
	}
	if err := r.line.PushLong(ctx, recipientID, result.Summary); err != nil {
		return nil, fmt.Errorf("push to line: %w", err)
	}
	result.Sent = true
	return result, nil
}

// resolveNames warms user names for every distinct author concurrently
// and returns a lookup backed by the warmed map.
func (r *Relay) resolveNames(ctx context.Context, messages []slack.Message) func(string) string {
	ids := make(map[string]struct{})
	for _, m := range messages {
		if m.UserID != "" {
			ids[m.UserID] = struct{}{}
		}
	}

	var mu sync.Mutex
	resolved := make(map[string]string, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for id := range ids {
		g.Go(func() error {
			name := r.slack.UserName(gctx, id)
			mu.Lock()
			resolved[id] = name
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return func(id string) string {
		if name, ok := resolved[id]; ok {
			return name
		}
		return "不明"
	}
}
