package extractor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"pagelens/internal/domain"
	"pagelens/internal/pkg/urlnorm"
)

// Response bodies larger than this are truncated before parsing
const maxBodyBytes = 5 * 1024 * 1024

// StaticExtractor fetches raw HTML over HTTP and parses metadata without
// executing any client-side code
type StaticExtractor struct {
	logger  *slog.Logger
	client  *http.Client
	limiter *rate.Limiter
}

// NewStaticExtractor creates a static extractor with a pooled HTTP client.
// Per-request timeouts come from FetchOptions, not the client.
func NewStaticExtractor(logger *slog.Logger) *StaticExtractor {
	return &StaticExtractor{
		logger: logger,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// Extract fetches url and parses every metadata source it can find. Network
// failures, bad status codes, and parse problems are recorded as warnings on
// the returned record, never returned as errors.
func (e *StaticExtractor) Extract(ctx context.Context, rawURL string, opts domain.FetchOptions) (*domain.RawExtraction, error) {
	opts = opts.Normalized()
	raw := &domain.RawExtraction{
		URL:         rawURL,
		FetchMethod: domain.FetchMethodStatic,
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	start := time.Now()

	if err := e.limiter.Wait(ctx); err != nil {
		raw.AddWarning(domain.ClassifyFetchError(err), fmt.Sprintf("rate limiter wait aborted: %v", err))
		return raw, nil
	}

	body, err := e.fetch(ctx, rawURL, opts.UserAgent)
	raw.LoadTimeMs = time.Since(start).Milliseconds()
	if err != nil {
		e.logger.Debug("Static fetch failed", "url", rawURL, "error", err)
		raw.AddWarning(domain.ClassifyFetchError(err), err.Error())
		return raw, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		// DOM parser gave up entirely, fall back to regex scraping
		e.logger.Debug("DOM parse failed, using regex fallback", "url", rawURL, "error", err)
		raw.AddWarning(domain.ErrKindParse, fmt.Sprintf("DOM parse failed: %v", err))
		extractWithRegex(body, rawURL, raw)
	} else {
		parseDocument(doc, rawURL, opts, raw)
		if extractionLooksEmpty(raw) {
			// The parser succeeded but recovered nothing usable. Broken
			// markup sometimes swallows whole subtrees, so give the regex
			// pass a chance before reporting an empty record.
			extractWithRegex(body, rawURL, raw)
		}
	}

	synthesizeFaviconFallback(rawURL, raw)
	return raw, nil
}

// fetch performs the HTTP GET and returns the (size-capped) body
func (e *StaticExtractor) fetch(ctx context.Context, rawURL, userAgent string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("bad status code: %d %s", resp.StatusCode, resp.Status)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bodyBytes) == 0 {
		return "", fmt.Errorf("empty response body")
	}

	return string(bodyBytes), nil
}

// parseDocument walks the parsed DOM and fills every per-source fragment
func parseDocument(doc *goquery.Document, baseURL string, opts domain.FetchOptions, raw *domain.RawExtraction) {
	raw.Sources.Plain.Title = strings.TrimSpace(doc.Find("title").First().Text())

	if val, exists := doc.Find("meta[name='description']").Attr("content"); exists {
		raw.Sources.Plain.MetaDescription = strings.TrimSpace(val)
	}
	if href, exists := doc.Find("link[rel='canonical']").Attr("href"); exists {
		raw.Sources.Plain.CanonicalURL = urlnorm.Resolve(baseURL, href)
	}

	parseSocialTags(doc, raw)
	raw.Sources.OpenGraph.Images = resolveCandidates(baseURL, raw.Sources.OpenGraph.Images)
	if raw.Sources.Twitter.Image != "" {
		raw.Sources.Twitter.Image = urlnorm.Resolve(baseURL, raw.Sources.Twitter.Image)
	}
	parseFavicons(doc, baseURL, raw)
	parseStructuredData(doc, raw)

	if opts.EnableImageAnalysis {
		parseInlineImages(doc, baseURL, raw)
	}

	// Confidence inputs: visible text length and SPA mount detection
	bodySel := doc.Find("body")
	if bodySel.Length() > 0 {
		clone := bodySel.Clone()
		clone.Find("script, style, noscript").Remove()
		text := strings.Join(strings.Fields(clone.Text()), " ")
		raw.BodyTextLen = len(text)
	}
	if doc.Find("#root, #app, [data-reactroot]").Length() > 0 && raw.BodyTextLen < 250 {
		raw.CSRMount = true
	}
	if doc.Find("template[data-dgst='BAILOUT_TO_CLIENT_SIDE_RENDERING']").Length() > 0 {
		raw.CSRMount = true
	}
}

// parseSocialTags collects og:, twitter:, fb:, and article: meta tags into
// their typed fragments, keeping every tag in the Raw maps
func parseSocialTags(doc *goquery.Document, raw *domain.RawExtraction) {
	og := &raw.Sources.OpenGraph
	tw := &raw.Sources.Twitter

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		if content == "" {
			return
		}
		content = strings.TrimSpace(content)

		key, _ := s.Attr("property")
		if key == "" {
			key, _ = s.Attr("name")
		}
		if key == "" {
			return
		}
		key = strings.ToLower(key)

		switch {
		case strings.HasPrefix(key, "og:"):
			recordOpenGraph(og, strings.TrimPrefix(key, "og:"), content)
		case strings.HasPrefix(key, "twitter:"):
			recordTwitter(tw, strings.TrimPrefix(key, "twitter:"), content)
		case strings.HasPrefix(key, "fb:") || strings.HasPrefix(key, "article:"):
			if raw.Sources.Facebook == nil {
				raw.Sources.Facebook = make(map[string]string)
			}
			if _, seen := raw.Sources.Facebook[key]; !seen {
				raw.Sources.Facebook[key] = content
			}
		}
	})
}

// recordOpenGraph files one og: tag. Image sub-properties (width/height)
// attach to the most recent og:image.
func recordOpenGraph(og *domain.OpenGraphFields, key, content string) {
	if og.Raw == nil {
		og.Raw = make(map[string]string)
	}
	if _, seen := og.Raw[key]; !seen {
		og.Raw[key] = content
	}

	switch key {
	case "title":
		if og.Title == "" {
			og.Title = content
		}
	case "description":
		if og.Description == "" {
			og.Description = content
		}
	case "type":
		if og.Type == "" {
			og.Type = content
		}
	case "url":
		if og.URL == "" {
			og.URL = content
		}
	case "site_name":
		if og.SiteName == "" {
			og.SiteName = content
		}
	case "image", "image:url", "image:secure_url":
		og.Images = append(og.Images, domain.ImageCandidate{URL: content})
	case "image:width":
		if n := len(og.Images); n > 0 {
			og.Images[n-1].Width = atoiSafe(content)
		}
	case "image:height":
		if n := len(og.Images); n > 0 {
			og.Images[n-1].Height = atoiSafe(content)
		}
	}
}

// recordTwitter files one twitter: card tag
func recordTwitter(tw *domain.TwitterFields, key, content string) {
	if tw.Raw == nil {
		tw.Raw = make(map[string]string)
	}
	if _, seen := tw.Raw[key]; !seen {
		tw.Raw[key] = content
	}

	switch key {
	case "card":
		if tw.Card == "" {
			tw.Card = content
		}
	case "title":
		if tw.Title == "" {
			tw.Title = content
		}
	case "description":
		if tw.Description == "" {
			tw.Description = content
		}
	case "image", "image:src":
		if tw.Image == "" {
			tw.Image = content
		}
	case "site":
		if tw.Site == "" {
			tw.Site = content
		}
	case "creator":
		if tw.Creator == "" {
			tw.Creator = content
		}
	}
}

// parseFavicons collects every <link rel=icon*> variant
func parseFavicons(doc *goquery.Document, baseURL string, raw *domain.RawExtraction) {
	doc.Find("link[rel]").Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		rel = strings.ToLower(strings.TrimSpace(rel))

		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		switch rel {
		case "icon", "shortcut icon", "mask-icon", "fluid-icon":
			sizes, _ := s.Attr("sizes")
			mime, _ := s.Attr("type")
			raw.Sources.Plain.Favicons = append(raw.Sources.Plain.Favicons, domain.FaviconEntry{
				URL:      urlnorm.Resolve(baseURL, href),
				Type:     rel,
				Sizes:    sizes,
				MimeType: mime,
			})
		case "apple-touch-icon", "apple-touch-icon-precomposed":
			sizes, _ := s.Attr("sizes")
			mime, _ := s.Attr("type")
			raw.Sources.Plain.Favicons = append(raw.Sources.Plain.Favicons, domain.FaviconEntry{
				URL:      urlnorm.Resolve(baseURL, href),
				Type:     rel,
				Sizes:    sizes,
				MimeType: mime,
			})
			w, h := parseSizes(sizes)
			raw.Sources.Plain.AppleTouchIcons = append(raw.Sources.Plain.AppleTouchIcons, domain.ImageCandidate{
				URL:    urlnorm.Resolve(baseURL, href),
				Width:  w,
				Height: h,
			})
		}
	})
}

// parseInlineImages collects <img> candidates, filtering out obvious
// trackers and tiny data URIs
func parseInlineImages(doc *goquery.Document, baseURL string, raw *domain.RawExtraction) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		src = strings.TrimSpace(src)
		if src == "" {
			src, _ = s.Attr("data-src") // lazy-loaded images
			src = strings.TrimSpace(src)
		}
		if src == "" {
			return
		}

		width := atoiSafe(s.AttrOr("width", ""))
		height := atoiSafe(s.AttrOr("height", ""))

		if !keepImageCandidate(src, width, height) {
			return
		}

		alt, _ := s.Attr("alt")
		raw.Sources.Plain.Images = append(raw.Sources.Plain.Images, domain.ImageCandidate{
			URL:    urlnorm.Resolve(baseURL, src),
			Width:  width,
			Height: height,
			Alt:    strings.TrimSpace(alt),
		})
	})
}

// extractionLooksEmpty reports whether DOM parsing recovered nothing at all,
// which is the signal to try the regex fallback
func extractionLooksEmpty(raw *domain.RawExtraction) bool {
	s := &raw.Sources
	return s.Plain.Title == "" &&
		s.Plain.MetaDescription == "" &&
		s.OpenGraph.Title == "" &&
		s.Twitter.Title == "" &&
		len(s.OpenGraph.Raw) == 0 &&
		len(s.Twitter.Raw) == 0 &&
		raw.BodyTextLen == 0
}
