package browser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/fiscus-ingest/internal/browser"
	"github.com/donaldgifford/fiscus-ingest/internal/browser/browsertest"
)

func TestWithSession_ClosesOnSuccess(t *testing.T) {
	t.Parallel()

	l := browsertest.NewLauncher(map[string]string{"": "<html></html>"})
	err := browser.WithSession(context.Background(), l, func(s browser.Session) error {
		_, err := s.HTML(context.Background())
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 1, l.Opened())
	assert.Zero(t, l.Leaked())
}

func TestWithSession_ClosesOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	l := browsertest.NewLauncher(nil)
	err := browser.WithSession(context.Background(), l, func(browser.Session) error {
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Zero(t, l.Leaked())
}

func TestWithSession_ClosesOnPanic(t *testing.T) {
	t.Parallel()

	l := browsertest.NewLauncher(nil)
	assert.Panics(t, func() {
		_ = browser.WithSession(context.Background(), l, func(browser.Session) error {
			panic("driver crashed")
		})
	})
	assert.Zero(t, l.Leaked())
}

func TestWithSession_LaunchError(t *testing.T) {
	t.Parallel()

	l := &browsertest.Launcher{Err: errors.New("no chrome")}
	called := false
	err := browser.WithSession(context.Background(), l, func(browser.Session) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
	assert.Zero(t, l.Opened())
}

func TestRodLauncher_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := browser.NewRodLauncher(browser.RodConfig{RemoteURL: "ws://127.0.0.1:1/devtools"})
	_, err := l.NewSession(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, l.OpenSessions())
}
