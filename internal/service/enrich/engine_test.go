package enrich

import (
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"pagelens/internal/domain"
)

func testEngine() *Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngineWithClock(logger, func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	})
}

func sampleRecord() *domain.MetadataRecord {
	return &domain.MetadataRecord{
		URL:         "https://example.test/guide",
		Title:       "The Complete Guide to Modern Web Design",
		Description: "Discover practical techniques for building fast, accessible websites, with step-by-step examples covering layout, color, and typography.",
		ContentType: domain.ContentTypeArticle,
		Images:      []domain.ImageSource{{URL: "https://example.test/og.png"}},
		Favicons:    []domain.FaviconEntry{{URL: "https://example.test/favicon.ico"}},
	}
}

func TestEnhanceStageGating(t *testing.T) {
	engine := testEngine()
	rec := sampleRecord()

	ai := engine.Enhance(rec, domain.FetchOptions{})
	if ai.ContentAnalysis != nil || ai.SEOOptimization != nil || ai.Sentiment != nil || ai.Category != nil {
		t.Error("disabled stages should stay nil")
	}
	if !ai.Timestamp.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %v, want injected clock value", ai.Timestamp)
	}
	if ai.Version != domain.EnrichmentVersion {
		t.Errorf("version = %q, want %q", ai.Version, domain.EnrichmentVersion)
	}

	ai = engine.Enhance(rec, domain.FetchOptions{
		EnableContentAnalysis:   true,
		EnableSEOOptimization:   true,
		EnableSentimentAnalysis: true,
		EnableCategoryDetection: true,
	})
	if ai.ContentAnalysis == nil || ai.SEOOptimization == nil || ai.Sentiment == nil || ai.Category == nil {
		t.Error("enabled stages should all be present")
	}
}

func TestEnhanceIsDeterministic(t *testing.T) {
	engine := testEngine()
	rec := sampleRecord()
	opts := domain.FetchOptions{
		EnableContentAnalysis:   true,
		EnableSEOOptimization:   true,
		EnableSentimentAnalysis: true,
		EnableCategoryDetection: true,
	}

	first := engine.Enhance(rec, opts)
	second := engine.Enhance(rec, opts)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated enrichment differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"punctuation stripped", "Hello, World!", []string{"hello", "world"}},
		{"hyphen and apostrophe kept inside", "it's a step-by-step guide", []string{"it's", "a", "step-by-step", "guide"}},
		{"edge quotes trimmed", "'quoted' -dashed-", []string{"quoted", "dashed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenize(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
