package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"pagelens/internal/pkg/metrics"
)

// DefaultMaxPages bounds concurrently open browser pages
const DefaultMaxPages = 4

// Browser owns one headless Chromium process shared by all rendered
// extractions. The process launches lazily on first use and pages are
// bounded so concurrent fetches can't grow memory without limit. Close
// tears down every page and the process itself.
type Browser struct {
	logger    *slog.Logger
	pageSlots chan struct{}

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	closed   bool
}

// NewBrowser creates a browser manager allowing at most maxPages pages open
// at once. The Chromium process is not started until the first page is
// requested.
func NewBrowser(logger *slog.Logger, maxPages int) *Browser {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Browser{
		logger:    logger,
		pageSlots: make(chan struct{}, maxPages),
	}
}

// ensureConnected launches and connects the browser process once
func (b *Browser) ensureConnected() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("browser is closed")
	}
	if b.browser != nil {
		return b.browser, nil
	}

	l := launcher.New().
		Headless(true).
		Set("no-sandbox").
		Set("disable-extensions").
		Set("disable-plugins")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	b.logger.Info("Headless browser launched", "control_url", controlURL)
	b.launcher = l
	b.browser = browser
	return browser, nil
}

// acquirePage takes a page slot (waiting if the bound is reached), opens a
// fresh page, and returns it with a release func. The release func is
// idempotent and must be called on every exit path.
func (b *Browser) acquirePage(ctx context.Context) (*rod.Page, func(), error) {
	select {
	case b.pageSlots <- struct{}{}:
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}

	browser, err := b.ensureConnected()
	if err != nil {
		<-b.pageSlots
		return nil, nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		<-b.pageSlots
		return nil, nil, fmt.Errorf("failed to create page: %w", err)
	}

	metrics.RenderPagesOpen.Inc()

	var once sync.Once
	release := func() {
		once.Do(func() {
			if err := page.Close(); err != nil {
				b.logger.Warn("Failed to close browser page", "error", err)
			}
			metrics.RenderPagesOpen.Dec()
			<-b.pageSlots
		})
	}

	return page, release, nil
}

// Close shuts the browser process down. Safe to call more than once and
// while extractions are in flight: closing the browser aborts their pages.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			b.logger.Warn("Failed to close browser", "error", err)
		}
		b.browser = nil
	}
	if b.launcher != nil {
		b.launcher.Cleanup()
		b.launcher = nil
	}

	b.logger.Info("Headless browser closed")
	return nil
}
