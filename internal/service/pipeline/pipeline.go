package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"pagelens/internal/domain"
	"pagelens/internal/pkg/metrics"
	"pagelens/internal/pkg/urlnorm"
	"pagelens/internal/repository/cache"
	"pagelens/internal/service/enrich"
	"pagelens/internal/service/extractor"
	"pagelens/internal/service/merge"
)

// Service runs the full extraction pipeline: cache lookup, static fetch,
// rendered fallback, source merge and enrichment. Concurrent requests for
// the same normalized URL share a single fetch.
type Service struct {
	logger   *slog.Logger
	cache    domain.CacheRepository
	static   domain.Extractor
	rendered domain.Extractor
	engine   *enrich.Engine

	group   singleflight.Group
	closers []io.Closer
}

// New wires a pipeline from injected collaborators. Any closers passed in
// are released by Close, in reverse order.
func New(
	logger *slog.Logger,
	cacheRepo domain.CacheRepository,
	static domain.Extractor,
	rendered domain.Extractor,
	engine *enrich.Engine,
	closers ...io.Closer,
) *Service {
	return &Service{
		logger:   logger,
		cache:    cacheRepo,
		static:   static,
		rendered: rendered,
		engine:   engine,
		closers:  closers,
	}
}

// NewDefault builds a pipeline with the standard collaborators: an in-memory
// cache, a pooled HTTP extractor and a lazily launched headless browser. The
// caller owns the returned service and must Close it.
func NewDefault(logger *slog.Logger) *Service {
	memCache := cache.NewMemoryCache()
	browser := extractor.NewBrowser(logger, extractor.DefaultMaxPages)
	return New(
		logger,
		memCache,
		extractor.NewStaticExtractor(logger),
		extractor.NewRenderedExtractor(logger, browser),
		enrich.NewEngine(logger),
		browser,
		memCache,
	)
}

// Close releases the resources handed to New, last registered first
func (s *Service) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// FetchOnce is the one-shot form of the pipeline: it builds a default
// service, runs a single fetch and tears everything down again.
func FetchOnce(ctx context.Context, logger *slog.Logger, rawURL string, opts domain.FetchOptions) (*domain.EnrichedMetadataRecord, error) {
	svc := NewDefault(logger)
	defer svc.Close()
	return svc.FetchMetadata(ctx, rawURL, opts)
}

// FetchMetadata extracts, merges and enriches metadata for one URL. The only
// error it returns is a *domain.ValidationError for unusable input; every
// downstream failure is recorded as a warning on the result instead.
func (s *Service) FetchMetadata(ctx context.Context, rawURL string, opts domain.FetchOptions) (*domain.EnrichedMetadataRecord, error) {
	opts = opts.Normalized()

	if _, err := urlnorm.Validate(rawURL); err != nil {
		return nil, &domain.ValidationError{URL: rawURL, Reason: err}
	}
	key, err := urlnorm.Normalize(rawURL)
	if err != nil {
		return nil, &domain.ValidationError{URL: rawURL, Reason: err}
	}

	logger := s.logger.With("request_id", uuid.New().String(), "url", rawURL)

	raw := s.fetchRaw(ctx, logger, key, rawURL, opts)
	rec := merge.Merge(raw)
	ai := s.engine.Enhance(rec, opts)

	logger.Info("Metadata fetch completed",
		"fetch_method", raw.FetchMethod,
		"confidence", Confidence(raw),
		"warnings", len(raw.Errors),
		"load_time_ms", raw.LoadTimeMs)

	return domain.NewEnrichedRecord(rec, ai), nil
}

// fetchRaw consults the cache, then collapses concurrent fetches for the
// same key into one upstream extraction.
func (s *Service) fetchRaw(ctx context.Context, logger *slog.Logger, key, rawURL string, opts domain.FetchOptions) *domain.RawExtraction {
	if opts.EnableCaching {
		if cached, ok := s.cache.Get(ctx, key); ok {
			metrics.CacheHits.Inc()
			logger.Debug("Cache hit", "key", key)
			return cached
		}
		metrics.CacheMisses.Inc()
	}

	v, _, shared := s.group.Do(key, func() (interface{}, error) {
		raw := s.extract(ctx, logger, rawURL, opts)
		// A failed extraction with nothing recovered is likely a transient
		// outage; caching it would pin the empty record for CacheMaxAge.
		if opts.EnableCaching && cacheable(raw) {
			s.cache.Set(ctx, key, raw, opts.CacheMaxAge)
		}
		return raw, nil
	})
	if shared {
		metrics.SingleflightShared.Inc()
	}
	return v.(*domain.RawExtraction)
}

// cacheable reports whether an extraction is worth storing: clean results
// always are, failed ones only when they still recovered some fields.
func cacheable(raw *domain.RawExtraction) bool {
	return len(raw.Errors) == 0 || Confidence(raw) > 0
}

// extract picks the fetch strategy: rendered when asked for outright,
// otherwise static first with a rendered retry when the result scores
// below the confidence threshold.
func (s *Service) extract(ctx context.Context, logger *slog.Logger, rawURL string, opts domain.FetchOptions) *domain.RawExtraction {
	if opts.PreferRendered {
		return s.run(ctx, logger, s.rendered, domain.FetchMethodRendered, rawURL, opts)
	}

	raw := s.run(ctx, logger, s.static, domain.FetchMethodStatic, rawURL, opts)
	if !opts.FallbackToRendered {
		return raw
	}
	conf := Confidence(raw)
	if conf >= opts.ConfidenceThreshold {
		return raw
	}

	logger.Info("Static extraction below confidence threshold, retrying rendered",
		"confidence", conf,
		"threshold", opts.ConfidenceThreshold)

	rendered := s.run(ctx, logger, s.rendered, domain.FetchMethodRendered, rawURL, opts)
	// keep the static warnings so the caller sees the whole story
	rendered.Errors = append(append([]domain.ExtractionWarning{}, raw.Errors...), rendered.Errors...)
	return rendered
}

// run executes one extractor and folds a hard failure back into a warning
// so the pipeline always has a RawExtraction to work with.
func (s *Service) run(ctx context.Context, logger *slog.Logger, ext domain.Extractor, method domain.FetchMethod, rawURL string, opts domain.FetchOptions) *domain.RawExtraction {
	timer := metrics.NewFetchTimer(string(method))
	raw, err := ext.Extract(ctx, rawURL, opts)
	if err != nil || raw == nil {
		if raw == nil {
			raw = &domain.RawExtraction{URL: rawURL, FetchMethod: method}
		}
		if err != nil {
			logger.Warn("Extractor failed", "method", method, "error", err)
			raw.AddWarning(domain.ClassifyFetchError(err), err.Error())
		}
	}
	timer.Done(len(raw.Errors) == 0)
	return raw
}
