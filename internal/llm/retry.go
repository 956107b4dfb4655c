package llm

import (
	"context"
	"time"
)

const (
	StrategyExponential = "exponential"
	StrategyFixed       = "fixed"

	DefaultExponentialBase = 1 * time.Second
	DefaultFixedBase       = 5 * time.Second
	DefaultMaxBackoff      = 60 * time.Second
)

// Policy decides how long to wait between completion attempts.
// Zero values pick the strategy defaults.
type Policy struct {
	Strategy string
	Base     time.Duration
	Max      time.Duration
}

// Next is called after attempt (1-based) failed. It returns the wait before the next attempt,
// or terminal=true when the budget of maxAttempts is spent.
func (p Policy) Next(attempt, maxAttempts int) (delay time.Duration, terminal bool) {
	if attempt >= maxAttempts {
		return 0, true
	}
	maxDelay := p.Max
	if maxDelay <= 0 {
		maxDelay = DefaultMaxBackoff
	}

	if p.Strategy == StrategyFixed {
		base := p.Base
		if base <= 0 {
			base = DefaultFixedBase
		}
		return min(base, maxDelay), false
	}

	base := p.Base
	if base <= 0 {
		base = DefaultExponentialBase
	}
	delay = base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxDelay {
			return maxDelay, false
		}
	}
	return min(delay, maxDelay), false
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the production Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
