package urlnorm

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Validate checks that rawURL is an absolute http(s) URL with a host.
// It returns the parsed URL so callers don't have to parse twice.
func Validate(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("empty URL")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q: only http and https are allowed", u.Scheme)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("invalid URL: no host found")
	}

	return u, nil
}

// Normalize creates a canonical form of a URL for deduplication and caching.
// It handles:
// - Adding https:// protocol if missing
// - Lowercasing the domain
// - Removing www. prefix
// - Sorting query parameters for a stable key
// - Removing tracking parameters (utm_*, fbclid, gclid, ref, source)
// - Stripping the fragment and trailing slash
func Normalize(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("empty URL")
	}

	// Step 1: Add protocol if missing
	if !strings.HasPrefix(strings.ToLower(rawURL), "http://") &&
		!strings.HasPrefix(strings.ToLower(rawURL), "https://") {
		// Check if it looks like a domain (has at least one dot)
		if strings.Contains(rawURL, ".") {
			rawURL = "https://" + rawURL
		} else {
			return "", fmt.Errorf("invalid URL: no domain found")
		}
	}

	// Step 2: Parse URL
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}

	// Step 3: Validate URL has a host
	if u.Host == "" {
		return "", fmt.Errorf("invalid URL: no host found")
	}

	// Step 4: Normalize domain (lowercase, remove www.)
	u.Host = strings.ToLower(u.Host)
	u.Host = strings.TrimPrefix(u.Host, "www.")

	// Step 5: Remove tracking parameters and sort the rest
	q := u.Query()
	trackingParams := []string{
		// Google Analytics
		"utm_source",
		"utm_medium",
		"utm_campaign",
		"utm_content",
		"utm_term",
		// Platform-specific tracking
		"fbclid",  // Facebook click ID
		"gclid",   // Google click ID
		"msclkid", // Microsoft click ID
		"igshid",  // Instagram share ID
		"ref",     // Generic referrer
		"source",  // Generic source
	}

	for _, param := range trackingParams {
		q.Del(param)
	}
	u.RawQuery = encodeSorted(q)

	// Step 6: Drop fragment, strip trailing slash
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String(), nil
}

// encodeSorted encodes query values with keys in sorted order so the same
// parameters always yield the same cache key.
func encodeSorted(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		vs := q[k]
		sort.Strings(vs)
		for _, v := range vs {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// Resolve resolves a possibly-relative reference against a base URL.
// Returns the reference unchanged when it is already absolute or when
// resolution fails.
func Resolve(baseURL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if parsed.IsAbs() {
		return ref
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return ref
	}

	return base.ResolveReference(parsed).String()
}
