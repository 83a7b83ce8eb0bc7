// Package browser provides the controllable headless browser session the
// scrapers drive. A Session is owned by exactly one task execution and must
// be closed on every exit path.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrWaitTimeout is returned by Session.WaitVisible when the selector does
// not appear before the deadline.
var ErrWaitTimeout = errors.New("browser: wait timed out")

// ErrClosed is returned when a closed session is used.
var ErrClosed = errors.New("browser: session closed")

// Cookie is a cookie injected before navigation.
type Cookie struct {
	Name  string
	Value string
	// Domain empty makes a host-only cookie for the page currently loaded.
	Domain string
	Path   string
}

// Session is a single browser tab.
type Session interface {
	// Navigate loads url and waits for the load event.
	Navigate(ctx context.Context, url string) error
	// Reload reloads the current page.
	Reload(ctx context.Context) error
	// HTML returns the rendered document.
	HTML(ctx context.Context) (string, error)
	// Eval runs a JavaScript function expression with args.
	Eval(ctx context.Context, js string, args ...any) error
	// SetCookies installs cookies for subsequent requests.
	SetCookies(ctx context.Context, cookies ...Cookie) error
	// WaitVisible blocks until selector matches an element or timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Click clicks the first element matching selector.
	Click(ctx context.Context, selector string) error
	// Type focuses the first element matching selector and types text.
	Type(ctx context.Context, selector, text string) error
	// Scroll scrolls the page down by pixels.
	Scroll(ctx context.Context, pixels int) error
	// Close releases the tab. It is safe to call more than once.
	Close() error
}

// Launcher opens sessions.
type Launcher interface {
	NewSession(ctx context.Context) (Session, error)
}

// WithSession opens a session, runs fn, and closes the session regardless
// of how fn returns.
func WithSession(ctx context.Context, l Launcher, fn func(Session) error) error {
	sess, err := l.NewSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()
	return fn(sess)
}
