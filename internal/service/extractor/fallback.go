package extractor

import (
	stdhtml "html"
	"regexp"
	"strings"

	"pagelens/internal/domain"
	"pagelens/internal/pkg/urlnorm"
)

// Regex-based extraction for markup too broken for the DOM parser. Patterns
// tolerate missing quotes and either attribute order.
var (
	titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

	// <meta property="og:x" content="..."> and the reversed attribute order
	metaKeyFirstRe = regexp.MustCompile(`(?is)<meta[^>]+(?:property|name)\s*=\s*["']?([^"'\s>]+)["']?[^>]*?content\s*=\s*["']([^"']*)["']`)
	metaValFirstRe = regexp.MustCompile(`(?is)<meta[^>]+content\s*=\s*["']([^"']*)["'][^>]*?(?:property|name)\s*=\s*["']?([^"'\s>]+)["']?`)

	linkIconRe = regexp.MustCompile(`(?is)<link[^>]+rel\s*=\s*["']?((?:shortcut\s+)?icon|apple-touch-icon(?:-precomposed)?)["']?[^>]*?href\s*=\s*["']?([^"'\s>]+)["']?`)

	jsonLDRe = regexp.MustCompile(`(?is)<script[^>]+type\s*=\s*["']application/ld\+json["'][^>]*>(.*?)</script>`)

	scriptStyleRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>|<style[^>]*>.*?</style>|<noscript[^>]*>.*?</noscript>`)
	tagStripRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// extractWithRegex scrapes metadata out of raw HTML text, decoding entities.
// It only fills fields the DOM pass left empty.
func extractWithRegex(htmlText, baseURL string, raw *domain.RawExtraction) {
	plain := &raw.Sources.Plain

	if plain.Title == "" {
		if m := titleRe.FindStringSubmatch(htmlText); m != nil {
			plain.Title = cleanRegexText(m[1])
		}
	}

	metas := collectMetaTags(htmlText)

	if plain.MetaDescription == "" {
		plain.MetaDescription = cleanRegexText(metas["description"])
	}

	for key, content := range metas {
		content = cleanRegexText(content)
		if content == "" {
			continue
		}
		switch {
		case strings.HasPrefix(key, "og:"):
			recordOpenGraph(&raw.Sources.OpenGraph, strings.TrimPrefix(key, "og:"), content)
		case strings.HasPrefix(key, "twitter:"):
			recordTwitter(&raw.Sources.Twitter, strings.TrimPrefix(key, "twitter:"), content)
		case strings.HasPrefix(key, "fb:") || strings.HasPrefix(key, "article:"):
			if raw.Sources.Facebook == nil {
				raw.Sources.Facebook = make(map[string]string)
			}
			if _, seen := raw.Sources.Facebook[key]; !seen {
				raw.Sources.Facebook[key] = content
			}
		}
	}
	raw.Sources.OpenGraph.Images = resolveCandidates(baseURL, raw.Sources.OpenGraph.Images)
	if raw.Sources.Twitter.Image != "" {
		raw.Sources.Twitter.Image = urlnorm.Resolve(baseURL, raw.Sources.Twitter.Image)
	}

	if len(plain.Favicons) == 0 {
		for _, m := range linkIconRe.FindAllStringSubmatch(htmlText, -1) {
			rel := strings.ToLower(whitespaceRe.ReplaceAllString(m[1], " "))
			plain.Favicons = append(plain.Favicons, domain.FaviconEntry{
				URL:  urlnorm.Resolve(baseURL, stdhtml.UnescapeString(m[2])),
				Type: rel,
			})
		}
	}

	if len(raw.Sources.JSONLD) == 0 {
		for _, m := range jsonLDRe.FindAllStringSubmatch(htmlText, -1) {
			if block, ok := parseJSONLDPayload(m[1]); ok {
				raw.Sources.JSONLD = append(raw.Sources.JSONLD, block...)
			}
		}
	}

	if raw.BodyTextLen == 0 {
		raw.BodyTextLen = len(visibleText(htmlText))
	}
}

// collectMetaTags scans both attribute orders, first occurrence wins
func collectMetaTags(htmlText string) map[string]string {
	metas := make(map[string]string)
	for _, m := range metaKeyFirstRe.FindAllStringSubmatch(htmlText, -1) {
		key := strings.ToLower(m[1])
		if _, seen := metas[key]; !seen {
			metas[key] = m[2]
		}
	}
	for _, m := range metaValFirstRe.FindAllStringSubmatch(htmlText, -1) {
		key := strings.ToLower(m[2])
		if _, seen := metas[key]; !seen {
			metas[key] = m[1]
		}
	}
	return metas
}

// visibleText strips scripts, styles, and tags, leaving collapsed body text
func visibleText(htmlText string) string {
	stripped := scriptStyleRe.ReplaceAllString(htmlText, " ")
	stripped = tagStripRe.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(stdhtml.UnescapeString(stripped), " "))
}

// cleanRegexText decodes entities and collapses whitespace
func cleanRegexText(s string) string {
	s = stdhtml.UnescapeString(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
