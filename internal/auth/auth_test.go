package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleIndicatesChallenge(t *testing.T) {
	assert.True(t, TitleIndicatesChallenge("Security Verification | LinkedIn"))
	assert.True(t, TitleIndicatesChallenge("CAPTCHA check"))
	assert.False(t, TitleIndicatesChallenge("(30) Go jobs in Berlin | LinkedIn"))
}

func TestBodyIndicatesChallenge(t *testing.T) {
	assert.True(t, BodyIndicatesChallenge("Let's do a quick security check before you continue."))
	assert.True(t, BodyIndicatesChallenge("Please verify you're a human"))
	assert.False(t, BodyIndicatesChallenge("1,024 results for golang developer"))
}

func TestLoginRequiresCredentials(t *testing.T) {
	a := &Authenticator{}
	_, err := a.Login(context.Background(), nil)
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestConsoleGateResumesOnNewline(t *testing.T) {
	gate := &ConsoleGate{In: strings.NewReader("\n")}
	err := gate.AwaitResolution(context.Background())
	assert.NoError(t, err)
}

func TestConsoleGateAbortsOnClosedInput(t *testing.T) {
	gate := &ConsoleGate{In: strings.NewReader("")}
	err := gate.AwaitResolution(context.Background())
	assert.Error(t, err)
}

func TestConsoleGateObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gate := &ConsoleGate{In: blockedReader{}}
	err := gate.AwaitResolution(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type blockedReader struct{}

func (blockedReader) Read(p []byte) (int, error) {
	time.Sleep(time.Hour)
	return 0, nil
}

func TestChannelGateResumesOnSignal(t *testing.T) {
	resume := make(chan struct{})
	gate := &ChannelGate{Resume: resume}

	done := make(chan error, 1)
	go func() { done <- gate.AwaitResolution(context.Background()) }()
	close(resume)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("gate never resumed")
	}
}

func TestAuthenticationErrorMessage(t *testing.T) {
	err := &AuthenticationError{Username: "me@example.com", Reason: "bad password"}
	assert.Contains(t, err.Error(), "me@example.com")
	assert.Contains(t, err.Error(), "bad password")
}
