package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicyRetriesUntilSuccess(t *testing.T) {
	calls := 0
	p := Policy{MaxAttempts: 5, BaseDelay: time.Millisecond}

	attempts, err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

func TestPolicyExhaustsAttempts(t *testing.T) {
	calls := 0
	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}

	attempts, err := p.Do(context.Background(), func() error {
		calls++
		return errors.New("still down")
	})

	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

func TestPolicyFatalShortCircuits(t *testing.T) {
	fatal := errors.New("bad credentials")
	calls := 0
	p := Policy{
		MaxAttempts: 5,
		BaseDelay:   time.Millisecond,
		Fatal:       func(err error) bool { return errors.Is(err, fatal) },
	}

	attempts, err := p.Do(context.Background(), func() error {
		calls++
		return fatal
	})

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestPolicyObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	_, err := p.Do(ctx, func() error { return errors.New("never reached") })

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNavigationErrorUnwraps(t *testing.T) {
	cause := errors.New("net::ERR_TIMED_OUT")
	navErr := &NavigationError{URL: "https://example.com", Attempts: 3, Err: cause}

	assert.ErrorIs(t, navErr, cause)
	assert.Contains(t, navErr.Error(), "https://example.com")
	assert.Contains(t, navErr.Error(), "3 attempt")
}
