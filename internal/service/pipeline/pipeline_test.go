package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pagelens/internal/domain"
	"pagelens/internal/repository/cache"
	"pagelens/internal/service/enrich"
)

type fakeExtractor struct {
	method domain.FetchMethod
	raw    *domain.RawExtraction
	err    error
	calls  atomic.Int32
	block  chan struct{} // when non-nil, Extract waits for a receive
}

func (f *fakeExtractor) Extract(ctx context.Context, rawURL string, opts domain.FetchOptions) (*domain.RawExtraction, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.raw
	cp.URL = rawURL
	cp.FetchMethod = f.method
	return &cp, nil
}

// richRaw scores well above any sane confidence threshold
func richRaw() *domain.RawExtraction {
	return &domain.RawExtraction{
		Sources: domain.SourceSet{
			OpenGraph: domain.OpenGraphFields{
				Title:       "Example Product",
				Description: "A very detailed product description for testing.",
				Images:      []domain.ImageCandidate{{URL: "https://example.test/og.png"}},
				Raw:         map[string]string{"og:title": "Example Product"},
			},
		},
		BodyTextLen: 1200,
	}
}

// emptyRaw scores zero
func emptyRaw() *domain.RawExtraction {
	return &domain.RawExtraction{CSRMount: true, BodyTextLen: 10}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(static, rendered domain.Extractor) *Service {
	memCache := cache.NewMemoryCache()
	engine := enrich.NewEngineWithClock(testLogger(), func() time.Time {
		return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	})
	return New(testLogger(), memCache, static, rendered, engine, memCache)
}

func TestFetchMetadataRejectsInvalidURL(t *testing.T) {
	static := &fakeExtractor{method: domain.FetchMethodStatic, raw: richRaw()}
	rendered := &fakeExtractor{method: domain.FetchMethodRendered, raw: richRaw()}
	svc := newTestService(static, rendered)
	defer svc.Close()

	for _, bad := range []string{"", "   ", "ftp://example.test/file", "http://"} {
		rec, err := svc.FetchMetadata(context.Background(), bad, domain.FetchOptions{})
		if err == nil {
			t.Errorf("FetchMetadata(%q): expected error, got record %+v", bad, rec)
			continue
		}
		if !domain.IsValidationError(err) {
			t.Errorf("FetchMetadata(%q): expected ValidationError, got %v", bad, err)
		}
	}
	if n := static.calls.Load(); n != 0 {
		t.Errorf("static extractor called %d times for invalid input", n)
	}
}

func TestStaticSufficientSkipsRendered(t *testing.T) {
	static := &fakeExtractor{method: domain.FetchMethodStatic, raw: richRaw()}
	rendered := &fakeExtractor{method: domain.FetchMethodRendered, raw: richRaw()}
	svc := newTestService(static, rendered)
	defer svc.Close()

	opts := domain.DefaultFetchOptions()
	opts.EnableCaching = false

	rec, err := svc.FetchMetadata(context.Background(), "https://example.test/page", opts)
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}
	if rec.FetchMethod != domain.FetchMethodStatic {
		t.Errorf("fetchMethod = %q, want %q", rec.FetchMethod, domain.FetchMethodStatic)
	}
	if rec.Title != "Example Product" {
		t.Errorf("title = %q, want %q", rec.Title, "Example Product")
	}
	if n := rendered.calls.Load(); n != 0 {
		t.Errorf("rendered extractor called %d times for a confident static result", n)
	}
}

func TestLowConfidenceFallsBackToRendered(t *testing.T) {
	static := &fakeExtractor{method: domain.FetchMethodStatic, raw: emptyRaw()}
	rendered := &fakeExtractor{method: domain.FetchMethodRendered, raw: richRaw()}
	svc := newTestService(static, rendered)
	defer svc.Close()

	opts := domain.DefaultFetchOptions()
	opts.EnableCaching = false

	rec, err := svc.FetchMetadata(context.Background(), "https://example.test/spa", opts)
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}
	if rec.FetchMethod != domain.FetchMethodRendered {
		t.Errorf("fetchMethod = %q, want %q", rec.FetchMethod, domain.FetchMethodRendered)
	}
	if static.calls.Load() != 1 || rendered.calls.Load() != 1 {
		t.Errorf("calls static=%d rendered=%d, want 1 and 1", static.calls.Load(), rendered.calls.Load())
	}
}

func TestFallbackDisabledKeepsStaticResult(t *testing.T) {
	static := &fakeExtractor{method: domain.FetchMethodStatic, raw: emptyRaw()}
	rendered := &fakeExtractor{method: domain.FetchMethodRendered, raw: richRaw()}
	svc := newTestService(static, rendered)
	defer svc.Close()

	opts := domain.DefaultFetchOptions()
	opts.EnableCaching = false
	opts.FallbackToRendered = false

	rec, err := svc.FetchMetadata(context.Background(), "https://example.test/spa", opts)
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}
	if rec.FetchMethod != domain.FetchMethodStatic {
		t.Errorf("fetchMethod = %q, want %q", rec.FetchMethod, domain.FetchMethodStatic)
	}
	if n := rendered.calls.Load(); n != 0 {
		t.Errorf("rendered extractor called %d times with fallback disabled", n)
	}
}

func TestPreferRenderedSkipsStatic(t *testing.T) {
	static := &fakeExtractor{method: domain.FetchMethodStatic, raw: richRaw()}
	rendered := &fakeExtractor{method: domain.FetchMethodRendered, raw: richRaw()}
	svc := newTestService(static, rendered)
	defer svc.Close()

	opts := domain.DefaultFetchOptions()
	opts.EnableCaching = false
	opts.PreferRendered = true

	rec, err := svc.FetchMetadata(context.Background(), "https://example.test/page", opts)
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}
	if rec.FetchMethod != domain.FetchMethodRendered {
		t.Errorf("fetchMethod = %q, want %q", rec.FetchMethod, domain.FetchMethodRendered)
	}
	if n := static.calls.Load(); n != 0 {
		t.Errorf("static extractor called %d times with preferRendered set", n)
	}
}

func TestExtractorFailureBecomesWarning(t *testing.T) {
	static := &fakeExtractor{method: domain.FetchMethodStatic, err: errors.New("connection refused")}
	rendered := &fakeExtractor{method: domain.FetchMethodRendered, err: errors.New("browser crashed")}
	svc := newTestService(static, rendered)
	defer svc.Close()

	opts := domain.DefaultFetchOptions()
	opts.EnableCaching = false

	rec, err := svc.FetchMetadata(context.Background(), "https://down.example.test", opts)
	if err != nil {
		t.Fatalf("FetchMetadata should not fail on extractor errors, got %v", err)
	}
	if len(rec.Errors) == 0 {
		t.Fatal("expected warnings on the record, got none")
	}
	if rec.Title != "" {
		t.Errorf("title = %q, want empty", rec.Title)
	}
}

func TestCachingServesSecondRequest(t *testing.T) {
	static := &fakeExtractor{method: domain.FetchMethodStatic, raw: richRaw()}
	rendered := &fakeExtractor{method: domain.FetchMethodRendered, raw: richRaw()}
	svc := newTestService(static, rendered)
	defer svc.Close()

	opts := domain.DefaultFetchOptions()

	for i := 0; i < 3; i++ {
		if _, err := svc.FetchMetadata(context.Background(), "https://example.test/cached", opts); err != nil {
			t.Fatalf("FetchMetadata call %d: %v", i, err)
		}
	}
	if n := static.calls.Load(); n != 1 {
		t.Errorf("static extractor called %d times, want 1 (cache should absorb repeats)", n)
	}
}

func TestFailedExtractionIsNotCached(t *testing.T) {
	static := &fakeExtractor{method: domain.FetchMethodStatic, err: errors.New("connection refused")}
	rendered := &fakeExtractor{method: domain.FetchMethodRendered, err: errors.New("browser crashed")}
	svc := newTestService(static, rendered)
	defer svc.Close()

	opts := domain.DefaultFetchOptions()
	opts.FallbackToRendered = false

	for i := 0; i < 2; i++ {
		if _, err := svc.FetchMetadata(context.Background(), "https://down.test/page", opts); err != nil {
			t.Fatalf("FetchMetadata call %d: %v", i, err)
		}
	}
	if n := static.calls.Load(); n != 2 {
		t.Errorf("static extractor called %d times, want 2 (empty failures must not be cached)", n)
	}
}

func TestPartialExtractionIsStillCached(t *testing.T) {
	raw := richRaw()
	raw.Errors = []domain.ExtractionWarning{{Kind: domain.ErrKindParse, Message: "malformed meta tag"}}
	static := &fakeExtractor{method: domain.FetchMethodStatic, raw: raw}
	rendered := &fakeExtractor{method: domain.FetchMethodRendered, raw: richRaw()}
	svc := newTestService(static, rendered)
	defer svc.Close()

	opts := domain.DefaultFetchOptions()

	for i := 0; i < 2; i++ {
		if _, err := svc.FetchMetadata(context.Background(), "https://example.test/partial", opts); err != nil {
			t.Fatalf("FetchMetadata call %d: %v", i, err)
		}
	}
	if n := static.calls.Load(); n != 1 {
		t.Errorf("static extractor called %d times, want 1 (recovered fields make the result cacheable)", n)
	}
}

func TestCacheKeyIgnoresTrackingParams(t *testing.T) {
	static := &fakeExtractor{method: domain.FetchMethodStatic, raw: richRaw()}
	rendered := &fakeExtractor{method: domain.FetchMethodRendered, raw: richRaw()}
	svc := newTestService(static, rendered)
	defer svc.Close()

	opts := domain.DefaultFetchOptions()

	urls := []string{
		"https://example.test/article?utm_source=mail&utm_campaign=x",
		"https://www.example.test/article",
		"https://example.test/article#section",
	}
	for _, u := range urls {
		if _, err := svc.FetchMetadata(context.Background(), u, opts); err != nil {
			t.Fatalf("FetchMetadata(%q): %v", u, err)
		}
	}
	if n := static.calls.Load(); n != 1 {
		t.Errorf("static extractor called %d times, want 1 (urls normalize to one key)", n)
	}
}

func TestConcurrentRequestsShareOneFetch(t *testing.T) {
	static := &fakeExtractor{
		method: domain.FetchMethodStatic,
		raw:    richRaw(),
		block:  make(chan struct{}),
	}
	rendered := &fakeExtractor{method: domain.FetchMethodRendered, raw: richRaw()}
	svc := newTestService(static, rendered)
	defer svc.Close()

	opts := domain.DefaultFetchOptions()
	opts.EnableCaching = false

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.FetchMetadata(context.Background(), "https://example.test/hot", opts); err != nil {
				t.Errorf("FetchMetadata: %v", err)
			}
		}()
	}

	// let every worker reach the in-flight group before the fetch finishes
	deadline := time.Now().Add(2 * time.Second)
	for static.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	close(static.block)
	wg.Wait()

	if n := static.calls.Load(); n != 1 {
		t.Errorf("static extractor called %d times, want 1 shared fetch", n)
	}
}

func TestFetchMetadataResultShape(t *testing.T) {
	static := &fakeExtractor{method: domain.FetchMethodStatic, raw: richRaw()}
	rendered := &fakeExtractor{method: domain.FetchMethodRendered, raw: richRaw()}
	svc := newTestService(static, rendered)
	defer svc.Close()

	opts := domain.DefaultFetchOptions()
	opts.EnableCaching = false

	rec, err := svc.FetchMetadata(context.Background(), "https://example.test/page", opts)
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}
	if rec.Images.Primary != "https://example.test/og.png" {
		t.Errorf("primary image = %q", rec.Images.Primary)
	}
	if rec.AIEnhancements.ContentAnalysis == nil {
		t.Error("contentAnalysis missing with EnableContentAnalysis set")
	}
	if rec.AIEnhancements.Version == "" {
		t.Error("enrichment version missing")
	}
	if !rec.AIEnhancements.Timestamp.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %v, want injected clock value", rec.AIEnhancements.Timestamp)
	}
}
