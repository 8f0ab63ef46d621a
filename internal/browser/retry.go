package browser

import (
	"context"
	"fmt"
	"time"
)

// NavigationError means a page did not load or respond within the timeout,
// after all retries were spent.
type NavigationError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// Policy is the single retry/backoff policy applied at the browser boundary.
// Delay doubles on every failed attempt. Fatal short-circuits retrying for
// errors that will not heal (cancellation, bad input).
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Fatal       func(error) bool
}

// DefaultPolicy mirrors the retry cap the scrapers have always run with.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: 2 * time.Second}
}

// Do runs op until it succeeds, a fatal error occurs, the context is
// cancelled, or attempts run out. It returns the number of attempts made and
// the last error.
func (p Policy) Do(ctx context.Context, op func() error) (int, error) {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	delay := p.BaseDelay
	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return attempt, err
		}
		if err = op(); err == nil {
			return attempt, nil
		}
		if p.Fatal != nil && p.Fatal(err) {
			return attempt, err
		}
		if attempt == p.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return attempt, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return p.MaxAttempts, err
}
