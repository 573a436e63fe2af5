package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"pagelens/internal/domain"
)

// Request bodies larger than this are rejected
const maxRequestBytes = 64 * 1024

// MetadataFetcher runs the extraction pipeline for one URL
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, rawURL string, opts domain.FetchOptions) (*domain.EnrichedMetadataRecord, error)
}

type MetadataHandler struct {
	logger   *slog.Logger
	fetcher  MetadataFetcher
	defaults domain.FetchOptions
}

// NewMetadataHandler builds the handler around defaults, the server's
// baseline fetch options. Per-request options override fields on top of it.
func NewMetadataHandler(logger *slog.Logger, fetcher MetadataFetcher, defaults domain.FetchOptions) *MetadataHandler {
	return &MetadataHandler{
		logger:   logger,
		fetcher:  fetcher,
		defaults: defaults.Normalized(),
	}
}

// FetchRequest is the POST /api/v1/metadata body. Durations arrive as
// milliseconds (cacheMaxAge as seconds); absent options keep their defaults.
type FetchRequest struct {
	URL     string           `json:"url"`
	Options *FetchOptionsDTO `json:"options,omitempty"`
}

// FetchOptionsDTO mirrors domain.FetchOptions with pointer fields so a
// caller can set a flag to false without clobbering the other defaults
type FetchOptionsDTO struct {
	Timeout             *int64           `json:"timeout,omitempty"`        // ms
	WaitForTimeout      *int64           `json:"waitForTimeout,omitempty"` // ms
	UserAgent           *string          `json:"userAgent,omitempty"`
	EnableImages        *bool            `json:"enableImages,omitempty"`
	EnableCaching       *bool            `json:"enableCaching,omitempty"`
	CacheMaxAge         *int64           `json:"cacheMaxAge,omitempty"` // seconds
	Viewport            *domain.Viewport `json:"viewport,omitempty"`
	PreferRendered      *bool            `json:"preferRendered,omitempty"`
	FallbackToRendered  *bool            `json:"fallbackToRendered,omitempty"`
	ConfidenceThreshold *int             `json:"confidenceThreshold,omitempty"`

	EnableImageAnalysis     *bool `json:"enableImageAnalysis,omitempty"`
	EnableContentAnalysis   *bool `json:"enableContentAnalysis,omitempty"`
	EnableSEOOptimization   *bool `json:"enableSEOOptimization,omitempty"`
	EnableSentimentAnalysis *bool `json:"enableSentimentAnalysis,omitempty"`
	EnableCategoryDetection *bool `json:"enableCategoryDetection,omitempty"`
}

// toFetchOptions applies the provided overrides on top of base
func (d *FetchOptionsDTO) toFetchOptions(base domain.FetchOptions) domain.FetchOptions {
	opts := base
	if d == nil {
		return opts
	}

	if d.Timeout != nil && *d.Timeout > 0 {
		opts.Timeout = time.Duration(*d.Timeout) * time.Millisecond
	}
	if d.WaitForTimeout != nil && *d.WaitForTimeout > 0 {
		opts.WaitForTimeout = time.Duration(*d.WaitForTimeout) * time.Millisecond
	}
	if d.UserAgent != nil && *d.UserAgent != "" {
		opts.UserAgent = *d.UserAgent
	}
	if d.EnableImages != nil {
		opts.EnableImages = *d.EnableImages
	}
	if d.EnableCaching != nil {
		opts.EnableCaching = *d.EnableCaching
	}
	if d.CacheMaxAge != nil && *d.CacheMaxAge > 0 {
		opts.CacheMaxAge = time.Duration(*d.CacheMaxAge) * time.Second
	}
	if d.Viewport != nil {
		opts.Viewport = *d.Viewport
	}
	if d.PreferRendered != nil {
		opts.PreferRendered = *d.PreferRendered
	}
	if d.FallbackToRendered != nil {
		opts.FallbackToRendered = *d.FallbackToRendered
	}
	if d.ConfidenceThreshold != nil && *d.ConfidenceThreshold > 0 {
		opts.ConfidenceThreshold = *d.ConfidenceThreshold
	}
	if d.EnableImageAnalysis != nil {
		opts.EnableImageAnalysis = *d.EnableImageAnalysis
	}
	if d.EnableContentAnalysis != nil {
		opts.EnableContentAnalysis = *d.EnableContentAnalysis
	}
	if d.EnableSEOOptimization != nil {
		opts.EnableSEOOptimization = *d.EnableSEOOptimization
	}
	if d.EnableSentimentAnalysis != nil {
		opts.EnableSentimentAnalysis = *d.EnableSentimentAnalysis
	}
	if d.EnableCategoryDetection != nil {
		opts.EnableCategoryDetection = *d.EnableCategoryDetection
	}
	return opts
}

// FetchMetadata handles POST /api/v1/metadata
func (h *MetadataHandler) FetchMetadata(w http.ResponseWriter, r *http.Request) {
	var req FetchRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := decoder.Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.URL == "" {
		h.writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	record, err := h.fetcher.FetchMetadata(r.Context(), req.URL, req.Options.toFetchOptions(h.defaults))
	if err != nil {
		if domain.IsValidationError(err) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Metadata fetch failed", "url", req.URL, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, record)
}

func (h *MetadataHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *MetadataHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
