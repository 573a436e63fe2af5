package extractor

import (
	"net/url"
	"strconv"
	"strings"

	"pagelens/internal/domain"
	"pagelens/internal/pkg/urlnorm"
)

// Inline data: URIs shorter than this are almost certainly spacer pixels
const minDataURILen = 1500

// keepImageCandidate filters 1x1 trackers and tiny data URIs
func keepImageCandidate(src string, width, height int) bool {
	if width == 1 || height == 1 {
		return false
	}
	if strings.HasPrefix(src, "data:") {
		return len(src) >= minDataURILen
	}
	return true
}

// parseSizes parses a "WxH" sizes attribute value ("180x180"). Multi-value
// attributes use the first entry.
func parseSizes(sizes string) (width, height int) {
	sizes = strings.TrimSpace(strings.ToLower(sizes))
	if sizes == "" || sizes == "any" {
		return 0, 0
	}
	first := strings.Fields(sizes)[0]
	parts := strings.SplitN(first, "x", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	return atoiSafe(parts[0]), atoiSafe(parts[1])
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// synthesizeFaviconFallback adds the implicit /favicon.ico entry when the
// page declared no icons at all
func synthesizeFaviconFallback(rawURL string, raw *domain.RawExtraction) {
	if len(raw.Sources.Plain.Favicons) > 0 {
		return
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return
	}
	raw.Sources.Plain.Favicons = append(raw.Sources.Plain.Favicons, domain.FaviconEntry{
		URL:      u.Scheme + "://" + u.Host + "/favicon.ico",
		Type:     "icon",
		MimeType: "image/x-icon",
	})
}

// resolveCandidates resolves every candidate URL against the page URL
func resolveCandidates(baseURL string, candidates []domain.ImageCandidate) []domain.ImageCandidate {
	out := make([]domain.ImageCandidate, 0, len(candidates))
	for _, c := range candidates {
		c.URL = urlnorm.Resolve(baseURL, c.URL)
		if c.URL != "" {
			out = append(out, c)
		}
	}
	return out
}
