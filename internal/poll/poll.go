// Package poll drives a just-created remote job to completion by checking
// its status at a fixed interval for a bounded number of attempts.
package poll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arnshyz/UGC/internal/fault"
)

// Default polling policy: 5 seconds between checks, 60 attempts, a 5-minute
// ceiling expressed as attempts x interval rather than a wall-clock deadline.
const (
	DefaultInterval    = 5 * time.Second
	DefaultMaxAttempts = 60
)

// Result is one observation of a remote job.
type Result struct {
	// Done is true when the job reached a terminal success status.
	Done bool
	// Failed is true when the job reached a failed, error or cancelled
	// terminal status.
	Failed bool
	// Handle is the result reference (e.g. a playable video URL),
	// populated only on success.
	Handle string
	// Detail carries the provider's failure detail, if any.
	Detail string
}

// CheckFunc performs one status check against the provider.
type CheckFunc func(ctx context.Context) (Result, error)

// SleepFunc waits for the poll interval. Injectable so tests can simulate
// time instead of spending it.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Poller awaits completion of long-running remote jobs.
type Poller struct {
	interval    time.Duration
	maxAttempts int
	sleep       SleepFunc
	logger      *slog.Logger
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval sets the wait between status checks.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithMaxAttempts sets the bounded attempt count.
func WithMaxAttempts(n int) Option {
	return func(p *Poller) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithSleeper replaces the real timer wait.
func WithSleeper(sleep SleepFunc) Option {
	return func(p *Poller) {
		p.sleep = sleep
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) {
		p.logger = logger
	}
}

// New creates a Poller with the default 5s x 60 policy.
func New(opts ...Option) *Poller {
	p := &Poller{
		interval:    DefaultInterval,
		maxAttempts: DefaultMaxAttempts,
		sleep:       timerSleep,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AwaitCompletion polls until the job reaches a terminal state or the
// attempt budget is exhausted, returning the result handle on success.
//
// A terminal failure status surfaces immediately as REMOTE_JOB_FAILURE. A
// success status with an empty handle is UNEXPECTED_PAYLOAD, not silently
// ignored. A transport failure on a status check propagates immediately:
// swallowing it and retrying on the next tick would understate total latency
// against the timeout budget. Exhausting every attempt while still pending
// is TIMEOUT.
func (p *Poller) AwaitCompletion(ctx context.Context, check CheckFunc) (string, error) {
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := p.sleep(ctx, p.interval); err != nil {
			return "", fmt.Errorf("poll: wait interrupted: %w", err)
		}

		res, err := check(ctx)
		if err != nil {
			return "", fmt.Errorf("poll: status check: %w", err)
		}

		switch {
		case res.Failed:
			p.logger.Warn("remote job failed",
				slog.Int("attempt", attempt),
				slog.String("detail", res.Detail),
			)
			return "", fault.RemoteJob(res.Detail)
		case res.Done:
			if res.Handle == "" {
				return "", fault.UnexpectedPayload("job succeeded but the result handle is missing")
			}
			p.logger.Info("remote job completed",
				slog.Int("attempts", attempt),
			)
			return res.Handle, nil
		}

		p.logger.Debug("remote job still pending",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", p.maxAttempts),
		)
	}

	return "", fault.Timeout(p.maxAttempts)
}

// timerSleep waits on a real timer, honouring cancellation.
func timerSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
