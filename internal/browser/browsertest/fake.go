// Package browsertest provides a scriptable in-memory browser.Session for
// scraper and engine tests.
package browsertest

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/donaldgifford/fiscus-ingest/internal/browser"
)

// Session serves canned HTML keyed by URL and records every call.
type Session struct {
	mu sync.Mutex

	// Pages maps a URL to the document returned by HTML after navigating
	// there. The "" key is served for unknown URLs.
	Pages map[string]string

	NavigateErr error
	WaitErr     error
	ClickErr    error
	EvalErr     error
	CookieErr   error

	// Block, when set, makes Navigate wait until it is closed or ctx ends.
	Block chan struct{}

	current string
	calls   []string
	cookies []browser.Cookie
	scripts []string
	closed  int
}

var _ browser.Session = (*Session)(nil)

// NewSession returns a session serving pages.
func NewSession(pages map[string]string) *Session {
	return &Session{Pages: pages}
}

func (s *Session) record(format string, args ...any) {
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

func (s *Session) Navigate(ctx context.Context, pageURL string) error {
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("navigate %s", pageURL)
	if s.NavigateErr != nil {
		return s.NavigateErr
	}
	s.current = pageURL
	return nil
}

func (s *Session) Reload(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("reload")
	return nil
}

func (s *Session) HTML(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("html")
	if html, ok := s.Pages[s.current]; ok {
		return html, nil
	}
	return s.Pages[""], nil
}

func (s *Session) Eval(_ context.Context, js string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("eval")
	s.scripts = append(s.scripts, fmt.Sprint(append([]any{js}, args...)...))
	return s.EvalErr
}

func (s *Session) SetCookies(_ context.Context, cookies ...browser.Cookie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("cookies")
	if s.CookieErr != nil {
		return s.CookieErr
	}
	for _, c := range cookies {
		if c.Domain == "" {
			if u, err := url.Parse(s.current); err == nil {
				c.Domain = u.Hostname()
			}
		}
		s.cookies = append(s.cookies, c)
	}
	return nil
}

func (s *Session) WaitVisible(_ context.Context, selector string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("wait %s", selector)
	return s.WaitErr
}

func (s *Session) Click(_ context.Context, selector string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("click %s", selector)
	return s.ClickErr
}

func (s *Session) Type(_ context.Context, selector, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("type %s %s", selector, text)
	return nil
}

func (s *Session) Scroll(_ context.Context, pixels int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("scroll %d", pixels)
	return nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

// Calls returns the recorded call log.
func (s *Session) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Cookies returns the cookies installed so far. A cookie set without a
// domain reports the host of the page loaded at the time.
func (s *Session) Cookies() []browser.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]browser.Cookie(nil), s.cookies...)
}

// Scripts returns every evaluated script with its arguments.
func (s *Session) Scripts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.scripts...)
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed > 0
}

// Launcher hands out sessions built by New and tracks how many are still
// open.
type Launcher struct {
	mu sync.Mutex

	// New builds each session. Nil serves an empty document.
	New func() *Session
	Err error

	sessions []*Session
}

var _ browser.Launcher = (*Launcher)(nil)

// NewLauncher returns a launcher whose sessions all serve pages.
func NewLauncher(pages map[string]string) *Launcher {
	return &Launcher{New: func() *Session { return NewSession(pages) }}
}

func (l *Launcher) NewSession(_ context.Context) (browser.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	var s *Session
	if l.New != nil {
		s = l.New()
	} else {
		s = NewSession(nil)
	}
	l.sessions = append(l.sessions, s)
	return s, nil
}

// Opened returns how many sessions were handed out.
func (l *Launcher) Opened() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}

// Leaked returns how many sessions were never closed.
func (l *Launcher) Leaked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, s := range l.sessions {
		if !s.Closed() {
			n++
		}
	}
	return n
}

// Sessions returns the sessions handed out so far.
func (l *Launcher) Sessions() []*Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Session(nil), l.sessions...)
}
