package domain

import (
	"context"
	"time"
)

// CacheRepository maps a normalized URL to a previously computed raw-fetch
// result. Misses are silent: Get returns found=false, never an error, for an
// absent or expired key. Implementations must be safe for concurrent use and
// must never block unrelated keys on one key's write.
type CacheRepository interface {
	Get(ctx context.Context, key string) (*RawExtraction, bool)
	Set(ctx context.Context, key string, value *RawExtraction, ttl time.Duration)
	Invalidate(ctx context.Context, key string)
}

// Extractor is one fetch strategy: static HTTP or rendered browser.
// Extract never fails for a reachable-but-unparseable page; it returns a
// best-effort RawExtraction with warnings recorded. A non-nil error is
// reserved for programming mistakes (nil receiver, closed extractor).
type Extractor interface {
	Extract(ctx context.Context, url string, opts FetchOptions) (*RawExtraction, error)
}
