package rodsession

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/elemops/element"
	"github.com/jonwraymond/elemops/observe"
)

// Default timeouts.
const (
	DefaultImplicitWait  = 5 * time.Second
	DefaultClickableWait = 5 * time.Second
	DefaultNavigateWait  = 30 * time.Second
)

// Session is a browser tab addressed through element handles.
type Session struct {
	page *rod.Page
	id   string
	caps element.Capabilities

	implicitWait  time.Duration
	clickableWait time.Duration

	refetches singleflight.Group
	logger    observe.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithImplicitWait sets how long lookups wait for a matching node.
// Zero disables waiting.
func WithImplicitWait(d time.Duration) Option {
	return func(s *Session) {
		s.implicitWait = d
	}
}

// WithClickableWait sets how long WaitUntilClickable waits.
func WithClickableWait(d time.Duration) Option {
	return func(s *Session) {
		s.clickableWait = d
	}
}

// WithCapabilities overrides the reported capabilities.
func WithCapabilities(c element.Capabilities) Option {
	return func(s *Session) {
		s.caps = c
	}
}

// WithLogger sets the session logger.
func WithLogger(l observe.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New wraps an existing page.
func New(page *rod.Page, opts ...Option) *Session {
	s := &Session{
		page:          page,
		id:            string(page.TargetID),
		caps:          element.Capabilities{BrowserName: "chrome"},
		implicitWait:  DefaultImplicitWait,
		clickableWait: DefaultClickableWait,
		logger:        observe.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a tab in b, optionally with stealth evasions applied, and
// navigates it to pageURL.
func Open(ctx context.Context, b *rod.Browser, pageURL string, useStealth bool, opts ...Option) (*Session, error) {
	if b == nil {
		return nil, ErrNoBrowser
	}

	var (
		page *rod.Page
		err  error
	)
	if useStealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("rodsession: create tab: %w", err)
	}

	caps := element.Capabilities{BrowserName: "chrome", PlatformName: "cdp"}
	if v, err := (proto.BrowserGetVersion{}).Call(b); err == nil {
		caps.BrowserVersion = productVersion(v.Product)
	}

	if pageURL != "" {
		navCtx, cancel := context.WithTimeout(ctx, DefaultNavigateWait)
		defer cancel()

		if err := page.Context(navCtx).Navigate(pageURL); err != nil {
			_ = page.Close()
			return nil, fmt.Errorf("rodsession: navigate %s: %w", pageURL, err)
		}
		if err := page.Context(navCtx).WaitLoad(); err != nil {
			_ = page.Close()
			return nil, fmt.Errorf("rodsession: wait load %s: %w", pageURL, err)
		}
	}

	return New(page, append([]Option{WithCapabilities(caps)}, opts...)...), nil
}

// productVersion extracts "120.0" from "HeadlessChrome/120.0".
func productVersion(product string) string {
	if i := strings.LastIndexByte(product, '/'); i >= 0 {
		return product[i+1:]
	}
	return product
}

// SessionID returns the CDP target ID.
func (s *Session) SessionID() string {
	return s.id
}

// Capabilities returns the session capabilities.
func (s *Session) Capabilities() element.Capabilities {
	return s.caps
}

// Session makes a Session usable as the root Scope of a handle.
func (s *Session) Session() element.Session {
	return s
}

// Page returns the underlying rod page.
func (s *Session) Page() *rod.Page {
	return s.page
}

// Navigate loads pageURL in the session's tab.
func (s *Session) Navigate(ctx context.Context, pageURL string) error {
	p := s.page.Context(ctx)
	if err := p.Navigate(pageURL); err != nil {
		return fmt.Errorf("rodsession: navigate %s: %w", pageURL, err)
	}
	return p.WaitLoad()
}

// Ping evaluates a trivial script in the page to prove the CDP connection
// and the renderer are alive.
func (s *Session) Ping(ctx context.Context) error {
	if _, err := s.page.Context(ctx).Eval(`() => document.readyState`); err != nil {
		return fmt.Errorf("rodsession: ping: %w", err)
	}
	return nil
}

// Close closes the tab.
func (s *Session) Close() error {
	return s.page.Close()
}

var (
	_ element.Session = (*Session)(nil)
	_ element.Scope   = (*Session)(nil)
)
