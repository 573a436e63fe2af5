package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"pagelens/internal/domain"
	"pagelens/internal/pkg/urlnorm"
)

// Anchors beyond this many are not reported as navigation links
const maxNavbarLinks = 20

// RenderedExtractor drives a headless browser to execute client-side
// rendering before extracting metadata from the settled DOM
type RenderedExtractor struct {
	logger  *slog.Logger
	browser *Browser
}

// NewRenderedExtractor creates a rendered extractor sharing the given
// browser process
func NewRenderedExtractor(logger *slog.Logger, browser *Browser) *RenderedExtractor {
	return &RenderedExtractor{
		logger:  logger,
		browser: browser,
	}
}

// Extract navigates a fresh page to url, waits for the content to settle,
// and extracts the full field set plus navigation links and a screenshot.
// Timeouts and browser failures come back as warnings on a partial record.
func (e *RenderedExtractor) Extract(ctx context.Context, rawURL string, opts domain.FetchOptions) (*domain.RawExtraction, error) {
	opts = opts.Normalized()
	raw := &domain.RawExtraction{
		URL:         rawURL,
		FetchMethod: domain.FetchMethodRendered,
		HasJS:       true,
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	start := time.Now()

	page, release, err := e.browser.acquirePage(ctx)
	if err != nil {
		raw.AddWarning(classifyRenderError(err), fmt.Sprintf("failed to open page: %v", err))
		raw.LoadTimeMs = time.Since(start).Milliseconds()
		return raw, nil
	}
	defer release()

	page = page.Context(ctx)

	err = rod.Try(func() {
		page.MustSetViewport(opts.Viewport.Width, opts.Viewport.Height, 1, false)
		page.MustNavigate(rawURL)
		page.MustWaitLoad()
	})
	if err != nil {
		e.logger.Debug("Render navigation failed", "url", rawURL, "error", err)
		raw.AddWarning(classifyRenderError(err), fmt.Sprintf("navigation failed: %v", err))
		raw.LoadTimeMs = time.Since(start).Milliseconds()
		return raw, nil
	}

	// Give client-side rendering up to waitForTimeout to settle. Best
	// effort: a busy page just means we extract whatever is there.
	waitCtx, waitCancel := context.WithTimeout(ctx, opts.WaitForTimeout)
	if err := page.Context(waitCtx).WaitIdle(opts.WaitForTimeout); err != nil {
		e.logger.Debug("Page did not reach idle before deadline", "url", rawURL, "error", err)
	}
	waitCancel()

	raw.LoadTimeMs = time.Since(start).Milliseconds()

	htmlStr, err := page.HTML()
	if err != nil {
		raw.AddWarning(classifyRenderError(err), fmt.Sprintf("failed to read rendered DOM: %v", err))
		return raw, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		raw.AddWarning(domain.ErrKindParse, fmt.Sprintf("failed to parse rendered DOM: %v", err))
		extractWithRegex(htmlStr, rawURL, raw)
	} else {
		parseDocument(doc, rawURL, opts, raw)
	}
	// A rendered DOM is past the mount-node stage
	raw.CSRMount = false

	e.extractNavbarLinks(page, rawURL, raw)

	if opts.EnableImages {
		e.captureScreenshot(page, rawURL, raw)
	}

	synthesizeFaviconFallback(rawURL, raw)
	return raw, nil
}

// extractNavbarLinks reports clickable top-navigation anchors with their
// resolved URL and on-screen position
func (e *RenderedExtractor) extractNavbarLinks(page *rod.Page, baseURL string, raw *domain.RawExtraction) {
	err := rod.Try(func() {
		elements := page.MustElements("nav a[href], header a[href]")
		seen := make(map[string]bool)

		for _, el := range elements {
			if len(raw.NavbarLinks) >= maxNavbarLinks {
				break
			}

			href := el.MustAttribute("href")
			if href == nil || strings.TrimSpace(*href) == "" {
				continue
			}
			resolved := urlnorm.Resolve(baseURL, *href)
			if resolved == "" || strings.HasPrefix(resolved, "javascript:") || seen[resolved] {
				continue
			}

			text := strings.Join(strings.Fields(el.MustText()), " ")
			if text == "" {
				continue
			}

			link := domain.NavbarLink{Text: text, URL: resolved}
			if shape, err := el.Shape(); err == nil {
				if box := shape.Box(); box != nil {
					link.Position = domain.LinkPosition{X: int(box.X), Y: int(box.Y)}
				}
			}

			seen[resolved] = true
			raw.NavbarLinks = append(raw.NavbarLinks, link)
		}
	})
	if err != nil {
		e.logger.Debug("Navbar link extraction failed", "url", baseURL, "error", err)
		raw.AddWarning(domain.ErrKindRender, fmt.Sprintf("navbar link extraction failed: %v", err))
	}
}

// captureScreenshot takes one viewport capture of the rendered page. The
// pipeline stays on the single given URL, so navigation links are recorded
// but not visited.
func (e *RenderedExtractor) captureScreenshot(page *rod.Page, pageURL string, raw *domain.RawExtraction) {
	data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		e.logger.Debug("Screenshot capture failed", "url", pageURL, "error", err)
		raw.AddWarning(domain.ErrKindRender, fmt.Sprintf("screenshot capture failed: %v", err))
		return
	}
	raw.Screenshots = append(raw.Screenshots, domain.Screenshot{
		LinkURL: pageURL,
		Format:  "png",
		Data:    data,
	})
}

// classifyRenderError separates timeouts from browser failures
func classifyRenderError(err error) domain.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.ErrKindTimeout
	}
	return domain.ErrKindRender
}
