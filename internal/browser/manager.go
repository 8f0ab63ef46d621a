package browser

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Engine selects the browser binary driven by the session.
type Engine string

const (
	EngineChromium Engine = "chromium"
	EngineFirefox  Engine = "firefox"
	EngineWebkit   Engine = "webkit"
)

// AuthState tracks where a session is in the login lifecycle.
type AuthState string

const (
	AuthAnonymous      AuthState = "anonymous"
	AuthAuthenticating AuthState = "authenticating"
	AuthAuthenticated  AuthState = "authenticated"
	AuthChallenged     AuthState = "challenged"
)

const defaultTimeout = 20 * time.Second

// Options configure one session. Anti-detection is decided here, at open
// time, not per call.
type Options struct {
	Engine    Engine
	Headless  bool
	Proxy     string //http://host:port, https://… or socks5://…
	Anonymize bool
	Timeout   time.Duration
	Retry     Policy
	Seed      int64 //nonzero pins the fingerprint draw (tests)
}

// Manager owns the playwright runtime and opens sessions from it.
type Manager struct {
	opts Options
}

func NewManager(opts Options) (*Manager, error) {
	switch opts.Engine {
	case "", EngineChromium, EngineFirefox, EngineWebkit:
	default:
		return nil, fmt.Errorf("unsupported browser engine: %q", opts.Engine)
	}
	if opts.Engine == "" {
		opts.Engine = EngineChromium
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = DefaultPolicy()
	}
	return &Manager{opts: opts}, nil
}

// Session is one browser context plus its page. It is owned by the pipeline
// orchestrator and borrowed by every other component for the run's duration.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	Context playwright.BrowserContext
	Page    playwright.Page

	Profile   Fingerprint
	AuthState AuthState

	timeout time.Duration
	retry   Policy

	closeOnce sync.Once
	closeErr  error
}

// Open launches the browser and creates one stealth-configured context with
// a single page. Callers must Close the session, which is safe to do more
// than once.
func (m *Manager) Open(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var bt playwright.BrowserType
	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.opts.Headless),
	}
	switch m.opts.Engine {
	case EngineFirefox:
		bt = pw.Firefox
		launchOpts.Args = []string{"--disable-blink-features=AutomationControlled"}
	case EngineWebkit:
		bt = pw.WebKit
	default:
		bt = pw.Chromium
		launchOpts.Args = chromiumArgs
	}

	br, err := bt.Launch(launchOpts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", m.opts.Engine, err)
	}

	var profile Fingerprint
	if m.opts.Anonymize {
		seed := m.opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		profile = randomFingerprint(rand.New(rand.NewSource(seed)))
	} else {
		profile = defaultFingerprint(m.opts.Engine)
	}

	ctxOpts := playwright.BrowserNewContextOptions{
		UserAgent:  playwright.String(profile.UserAgent),
		TimezoneId: playwright.String(profile.Timezone),
		Locale:     playwright.String(profile.Locale),
		Viewport:   &playwright.Size{Width: 1920, Height: 1080},
	}
	if proxy := parseProxy(m.opts.Proxy); proxy != nil {
		log.Printf("🌐 Using proxy: %s", proxy.Server)
		ctxOpts.Proxy = proxy
	}

	bctx, err := br.NewContext(ctxOpts)
	if err != nil {
		br.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	script := webdriverScript
	if m.opts.Anonymize {
		script = stealthScript
	}
	if err := bctx.AddInitScript(playwright.Script{Content: playwright.String(script)}); err != nil {
		bctx.Close()
		br.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to install stealth script: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		br.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &Session{
		pw:        pw,
		browser:   br,
		Context:   bctx,
		Page:      page,
		Profile:   profile,
		AuthState: AuthAnonymous,
		timeout:   m.opts.Timeout,
		retry:     m.opts.Retry,
	}, nil
}

// parseProxy accepts http://, https:// and socks5:// endpoints; a bare
// host:port is treated as plain HTTP relay.
func parseProxy(s string) *playwright.Proxy {
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") && !strings.HasPrefix(s, "socks5://") {
		s = "http://" + s
	}
	return &playwright.Proxy{Server: s}
}

// Timeout is the per-operation wait budget, in playwright's milliseconds.
func (s *Session) Timeout() float64 {
	return float64(s.timeout.Milliseconds())
}

// Navigate loads url on the session page, retrying transient failures with
// exponential backoff. Exhausted retries surface as *NavigationError.
func (s *Session) Navigate(ctx context.Context, url string) error {
	attempts, err := s.retry.Do(ctx, func() error {
		_, gotoErr := s.Page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   playwright.Float(s.Timeout()),
		})
		return gotoErr
	})
	if err != nil {
		return &NavigationError{URL: url, Attempts: attempts, Err: err}
	}
	RandomDelay(1000, 2500)
	return nil
}

// WaitForAny waits until at least one of the selectors is attached.
func (s *Session) WaitForAny(selectors ...string) error {
	_, err := s.Page.WaitForSelector(strings.Join(selectors, ", "), playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(s.Timeout()),
	})
	return err
}

// ScrollElement scrolls the element matching selector down by increment
// pixels; a zero increment jumps to the bottom of the element.
func (s *Session) ScrollElement(selector string, increment int) error {
	expr := fmt.Sprintf(`() => {
		const el = document.querySelector(%q);
		if (!el) { return false; }
		if (%d > 0) { el.scrollTop += %d; } else { el.scrollTop = el.scrollHeight; }
		return true;
	}`, selector, increment, increment)
	_, err := s.Page.Evaluate(expr)
	return err
}

// Close releases page, context, browser and runtime. Idempotent, and safe to
// call after a partial failure.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.Page != nil {
			if err := s.Page.Close(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
		if s.Context != nil {
			if err := s.Context.Close(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
		if s.browser != nil {
			if err := s.browser.Close(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
		if s.pw != nil {
			if err := s.pw.Stop(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
		log.Println("🧹 Browser session released")
	})
	return s.closeErr
}
