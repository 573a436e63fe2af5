package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pagelens/internal/domain"
)

type stubFetcher struct {
	gotURL  string
	gotOpts domain.FetchOptions
	record  *domain.EnrichedMetadataRecord
	err     error
}

func (s *stubFetcher) FetchMetadata(ctx context.Context, rawURL string, opts domain.FetchOptions) (*domain.EnrichedMetadataRecord, error) {
	s.gotURL = rawURL
	s.gotOpts = opts
	return s.record, s.err
}

func newHandler(stub *stubFetcher) *MetadataHandler {
	return newHandlerWithDefaults(stub, domain.DefaultFetchOptions())
}

func newHandlerWithDefaults(stub *stubFetcher, defaults domain.FetchOptions) *MetadataHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMetadataHandler(logger, stub, defaults)
}

func postJSON(t *testing.T, h *MetadataHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/metadata", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.FetchMetadata(rr, req)
	return rr
}

func TestFetchMetadataSuccess(t *testing.T) {
	stub := &stubFetcher{
		record: &domain.EnrichedMetadataRecord{
			URL:   "https://example.test",
			Title: "Example",
		},
	}
	h := newHandler(stub)

	rr := postJSON(t, h, `{"url":"https://example.test"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}

	var got domain.EnrichedMetadataRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Title != "Example" {
		t.Errorf("title = %q", got.Title)
	}
	if stub.gotURL != "https://example.test" {
		t.Errorf("fetcher got url %q", stub.gotURL)
	}
}

func TestFetchMetadataDefaultsApplied(t *testing.T) {
	stub := &stubFetcher{record: &domain.EnrichedMetadataRecord{}}
	h := newHandler(stub)

	postJSON(t, h, `{"url":"https://example.test"}`)

	want := domain.DefaultFetchOptions()
	if stub.gotOpts.Timeout != want.Timeout || !stub.gotOpts.EnableCaching || !stub.gotOpts.FallbackToRendered {
		t.Errorf("opts = %+v, want defaults", stub.gotOpts)
	}
}

func TestFetchMetadataConfiguredBaseline(t *testing.T) {
	base := domain.DefaultFetchOptions()
	base.Timeout = 45 * time.Second
	base.WaitForTimeout = 8 * time.Second
	base.CacheMaxAge = 10 * time.Minute

	t.Run("no options", func(t *testing.T) {
		stub := &stubFetcher{record: &domain.EnrichedMetadataRecord{}}
		h := newHandlerWithDefaults(stub, base)

		postJSON(t, h, `{"url":"https://example.test"}`)

		if stub.gotOpts.Timeout != 45*time.Second {
			t.Errorf("timeout = %v, want the configured 45s", stub.gotOpts.Timeout)
		}
		if stub.gotOpts.WaitForTimeout != 8*time.Second {
			t.Errorf("waitForTimeout = %v, want the configured 8s", stub.gotOpts.WaitForTimeout)
		}
		if stub.gotOpts.CacheMaxAge != 10*time.Minute {
			t.Errorf("cacheMaxAge = %v, want the configured 10m", stub.gotOpts.CacheMaxAge)
		}
	})

	t.Run("partial overrides keep the baseline", func(t *testing.T) {
		stub := &stubFetcher{record: &domain.EnrichedMetadataRecord{}}
		h := newHandlerWithDefaults(stub, base)

		postJSON(t, h, `{"url":"https://example.test","options":{"timeout":2000}}`)

		if stub.gotOpts.Timeout != 2*time.Second {
			t.Errorf("timeout = %v, want the request override", stub.gotOpts.Timeout)
		}
		if stub.gotOpts.WaitForTimeout != 8*time.Second || stub.gotOpts.CacheMaxAge != 10*time.Minute {
			t.Errorf("baseline clobbered by partial override: %+v", stub.gotOpts)
		}
	})
}

func TestFetchMetadataOptionOverrides(t *testing.T) {
	stub := &stubFetcher{record: &domain.EnrichedMetadataRecord{}}
	h := newHandler(stub)

	postJSON(t, h, `{
		"url": "https://example.test",
		"options": {
			"timeout": 30000,
			"enableCaching": false,
			"preferRendered": true,
			"viewport": {"width": 1920, "height": 1080},
			"enableSentimentAnalysis": false
		}
	}`)

	opts := stub.gotOpts
	if opts.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", opts.Timeout)
	}
	if opts.EnableCaching {
		t.Error("enableCaching should be overridable to false")
	}
	if !opts.PreferRendered {
		t.Error("preferRendered not applied")
	}
	if opts.Viewport.Width != 1920 || opts.Viewport.Height != 1080 {
		t.Errorf("viewport = %+v", opts.Viewport)
	}
	if opts.EnableSentimentAnalysis {
		t.Error("enableSentimentAnalysis should be overridable to false")
	}
	// Untouched options keep their defaults
	if !opts.EnableContentAnalysis || opts.WaitForTimeout != domain.DefaultWaitForTimeout {
		t.Errorf("unrelated defaults clobbered: %+v", opts)
	}
}

func TestFetchMetadataBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"url": `},
		{"missing url", `{"options":{}}`},
		{"empty url", `{"url":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubFetcher{record: &domain.EnrichedMetadataRecord{}}
			rr := postJSON(t, newHandler(stub), tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
		})
	}
}

func TestFetchMetadataValidationErrorIs400(t *testing.T) {
	stub := &stubFetcher{
		err: &domain.ValidationError{URL: "nope", Reason: errors.New("unsupported scheme")},
	}
	rr := postJSON(t, newHandler(stub), `{"url":"nope"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for validation errors", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "error") {
		t.Errorf("body = %s, want an error payload", rr.Body.String())
	}
}

func TestFetchMetadataInternalErrorIs500(t *testing.T) {
	stub := &stubFetcher{err: errors.New("boom")}
	rr := postJSON(t, newHandler(stub), `{"url":"https://example.test"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "boom") {
		t.Error("internal error details must not leak to the client")
	}
}
