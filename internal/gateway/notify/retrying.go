package notify

import (
	"context"
	"errors"
	"time"

	"service-delivery/internal/logx"
)

type pusher interface {
	Push(context.Context, Notification) error
}

type counter interface {
	Inc()
}

// RetryConfig describes the retry behavior of RetryingGateway.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingGateway retries transient push failures with exponential backoff.
type RetryingGateway struct {
	next    pusher
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingGateway wraps next with retries. A nil next returns nil.
func NewRetryingGateway(next pusher, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingGateway {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &RetryingGateway{next: next, logger: logger, retries: retries, cfg: cfg}
}

// Push sends a notification, retrying transient failures.
func (g *RetryingGateway) Push(ctx context.Context, n Notification) error {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		err := g.next.Push(ctx, n)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("notify gateway retry",
			logx.String("recipient_id", n.RecipientID),
			logx.String("kind", n.Kind),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return lastErr
}

// isRetryable treats transport failures and throttling/5xx statuses as
// transient.
func isRetryable(err error) bool {
	var st *StatusError
	if errors.As(err, &st) {
		return st.Retryable()
	}
	return true
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
