package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

const (
	defaultActionTimeout = 5 * time.Second
	defaultNavTimeout    = 30 * time.Second
)

// RodConfig configures a RodLauncher.
type RodConfig struct {
	// RemoteURL is the DevTools WebSocket URL of an external Chrome.
	// Empty launches a local Chrome.
	RemoteURL string
	// BinPath overrides the Chrome binary used for local launches.
	BinPath  string
	Headless bool
	// Stealth applies go-rod/stealth evasions to every new page.
	Stealth           bool
	UserAgent         string
	NavigationTimeout time.Duration
	Logger            *slog.Logger
}

// RodLauncher opens stealth pages on a shared Chrome instance, one
// incognito browser context per session.
type RodLauncher struct {
	cfg RodConfig

	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher

	open atomic.Int64
}

// NewRodLauncher creates a launcher. Chrome is started lazily by the first
// NewSession call, or eagerly by Start.
func NewRodLauncher(cfg RodConfig) *RodLauncher {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = defaultNavTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &RodLauncher{cfg: cfg}
}

// Start launches or connects to Chrome.
func (l *RodLauncher) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.browserLocked()
	return err
}

func (l *RodLauncher) browserLocked() (*rod.Browser, error) {
	if l.browser != nil {
		return l.browser, nil
	}

	wsURL := l.cfg.RemoteURL
	if wsURL == "" {
		lc := launcher.New().
			Headless(l.cfg.Headless).
			Set("disable-blink-features", "AutomationControlled").
			Set("window-size", "1920,1080")
		if l.cfg.BinPath != "" {
			lc = lc.Bin(l.cfg.BinPath)
		}
		u, err := lc.Launch()
		if err != nil {
			return nil, fmt.Errorf("launching chrome: %w", err)
		}
		wsURL = u
		l.lnch = lc
		l.cfg.Logger.Info("launched local chrome", "headless", l.cfg.Headless)
	} else {
		l.cfg.Logger.Info("connecting to remote chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to chrome: %w", err)
	}
	l.browser = b
	return b, nil
}

// NewSession opens a new tab.
func (l *RodLauncher) NewSession(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	b, err := l.browserLocked()
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}

	// Each session gets its own browser context, so cookies and
	// localStorage set for one store never reach another session's tab.
	inc, err := b.Incognito()
	if err != nil {
		return nil, fmt.Errorf("creating browser context: %w", err)
	}

	var page *rod.Page
	if l.cfg.Stealth {
		page, err = stealth.Page(inc)
	} else {
		page, err = inc.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		if cerr := inc.Close(); cerr != nil {
			l.cfg.Logger.Warn("disposing browser context", "error", cerr)
		}
		return nil, fmt.Errorf("opening tab: %w", err)
	}

	if l.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: l.cfg.UserAgent}); err != nil {
			l.cfg.Logger.Warn("setting user agent", "error", err)
		}
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width: 1920, Height: 1080, DeviceScaleFactor: 1,
	}); err != nil {
		l.cfg.Logger.Warn("setting viewport", "error", err)
	}

	l.open.Add(1)
	return &rodSession{
		browserCtx: inc,
		page:       page,
		navTimeout: l.cfg.NavigationTimeout,
		log:        l.cfg.Logger,
		release:    func() { l.open.Add(-1) },
	}, nil
}

// OpenSessions returns the number of tabs not yet closed.
func (l *RodLauncher) OpenSessions() int64 { return l.open.Load() }

// Close shuts Chrome down.
func (l *RodLauncher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	if l.browser != nil {
		err = l.browser.Close()
		l.browser = nil
	}
	if l.lnch != nil {
		l.lnch.Cleanup()
		l.lnch = nil
	}
	return err
}

type rodSession struct {
	browserCtx *rod.Browser
	page       *rod.Page
	navTimeout time.Duration
	log        *slog.Logger
	closed     atomic.Bool
	release    func()
}

func (s *rodSession) live(ctx context.Context) (*rod.Page, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	return s.page.Context(ctx), nil
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.navTimeout)
	defer cancel()

	p, err := s.live(navCtx)
	if err != nil {
		return err
	}
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		s.log.Warn("page load did not settle", "url", url, "error", err)
	}
	return nil
}

func (s *rodSession) Reload(ctx context.Context) error {
	p, err := s.live(ctx)
	if err != nil {
		return err
	}
	if err := p.Reload(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		s.log.Warn("page load did not settle after reload", "error", err)
	}
	return nil
}

func (s *rodSession) HTML(ctx context.Context) (string, error) {
	p, err := s.live(ctx)
	if err != nil {
		return "", err
	}
	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return html, nil
}

func (s *rodSession) Eval(ctx context.Context, js string, args ...any) error {
	p, err := s.live(ctx)
	if err != nil {
		return err
	}
	if _, err := p.Eval(js, args...); err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	return nil
}

func (s *rodSession) SetCookies(ctx context.Context, cookies ...Cookie) error {
	p, err := s.live(ctx)
	if err != nil {
		return err
	}
	var pageURL string
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		path := c.Path
		if path == "" {
			path = "/"
		}
		param := &proto.NetworkCookieParam{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   path,
		}
		if c.Domain == "" {
			if pageURL == "" {
				info, err := p.Info()
				if err != nil {
					return fmt.Errorf("reading page url: %w", err)
				}
				pageURL = info.URL
			}
			param.URL = pageURL
		}
		params = append(params, param)
	}
	if err := p.SetCookies(params); err != nil {
		return fmt.Errorf("set cookies: %w", err)
	}
	return nil
}

func (s *rodSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	p, err := s.live(ctx)
	if err != nil {
		return err
	}
	tp := p.Timeout(timeout)
	defer tp.CancelTimeout()

	if _, err := tp.Element(selector); err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%q after %s: %w", selector, timeout, ErrWaitTimeout)
		}
		return fmt.Errorf("wait %q: %w", selector, err)
	}
	return nil
}

func (s *rodSession) element(ctx context.Context, selector string) (*rod.Element, func(), error) {
	p, err := s.live(ctx)
	if err != nil {
		return nil, func() {}, err
	}
	tp := p.Timeout(defaultActionTimeout)
	el, err := tp.Element(selector)
	if err != nil {
		tp.CancelTimeout()
		return nil, func() {}, fmt.Errorf("find %q: %w", selector, err)
	}
	return el, func() { tp.CancelTimeout() }, nil
}

func (s *rodSession) Click(ctx context.Context, selector string) error {
	el, done, err := s.element(ctx, selector)
	defer done()
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}

func (s *rodSession) Type(ctx context.Context, selector, text string) error {
	el, done, err := s.element(ctx, selector)
	defer done()
	if err != nil {
		return err
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("type into %q: %w", selector, err)
	}
	return nil
}

func (s *rodSession) Scroll(ctx context.Context, pixels int) error {
	return s.Eval(ctx, `(y) => window.scrollBy(0, y)`, pixels)
}

func (s *rodSession) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	defer s.release()

	var errs []error
	if err := s.page.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing tab: %w", err))
	}
	if err := s.browserCtx.Close(); err != nil {
		errs = append(errs, fmt.Errorf("disposing browser context: %w", err))
	}
	return errors.Join(errs...)
}
