package domain

import "time"

// Viewport is the browser window size used for rendered extraction
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FetchOptions controls one pipeline invocation. Zero values mean "use the
// default"; call Normalized() before use.
type FetchOptions struct {
	Timeout        time.Duration `json:"-"`
	WaitForTimeout time.Duration `json:"-"`
	UserAgent      string        `json:"-"`

	EnableImages  bool          `json:"enableImages"`
	EnableCaching bool          `json:"enableCaching"`
	CacheMaxAge   time.Duration `json:"-"`
	Viewport      Viewport      `json:"viewport"`

	PreferRendered      bool `json:"preferRendered"`
	FallbackToRendered  bool `json:"fallbackToRendered"`
	ConfidenceThreshold int  `json:"confidenceThreshold"`

	EnableImageAnalysis     bool `json:"enableImageAnalysis"`
	EnableContentAnalysis   bool `json:"enableContentAnalysis"`
	EnableSEOOptimization   bool `json:"enableSEOOptimization"`
	EnableSentimentAnalysis bool `json:"enableSentimentAnalysis"`
	EnableCategoryDetection bool `json:"enableCategoryDetection"`
}

// Option defaults
const (
	DefaultTimeout             = 15 * time.Second
	DefaultWaitForTimeout      = 5 * time.Second
	DefaultCacheMaxAge         = 3600 * time.Second
	DefaultViewportWidth       = 1280
	DefaultViewportHeight      = 800
	DefaultConfidenceThreshold = 40
	DefaultUserAgent           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// DefaultFetchOptions returns the documented defaults: caching on, static
// first with rendered fallback, all enrichment stages enabled.
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		Timeout:        DefaultTimeout,
		WaitForTimeout: DefaultWaitForTimeout,
		UserAgent:      DefaultUserAgent,
		EnableImages:   true,
		EnableCaching:  true,
		CacheMaxAge:    DefaultCacheMaxAge,
		Viewport: Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		},
		FallbackToRendered:      true,
		ConfidenceThreshold:     DefaultConfidenceThreshold,
		EnableImageAnalysis:     true,
		EnableContentAnalysis:   true,
		EnableSEOOptimization:   true,
		EnableSentimentAnalysis: true,
		EnableCategoryDetection: true,
	}
}

// Normalized fills unset scalar fields with their defaults. Boolean flags
// are left alone: false is a meaningful caller choice there.
func (o FetchOptions) Normalized() FetchOptions {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.WaitForTimeout <= 0 {
		o.WaitForTimeout = DefaultWaitForTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.CacheMaxAge <= 0 {
		o.CacheMaxAge = DefaultCacheMaxAge
	}
	if o.Viewport.Width <= 0 {
		o.Viewport.Width = DefaultViewportWidth
	}
	if o.Viewport.Height <= 0 {
		o.Viewport.Height = DefaultViewportHeight
	}
	if o.ConfidenceThreshold <= 0 {
		o.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	return o
}
