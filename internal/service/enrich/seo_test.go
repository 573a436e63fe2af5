package enrich

import (
	"strings"
	"testing"

	"pagelens/internal/domain"
)

func TestOptimizeTitle(t *testing.T) {
	tests := []struct {
		name            string
		title           string
		wantScore       int
		wantOptimal     bool
		wantSuggestions int
	}{
		{
			name:            "missing title",
			title:           "",
			wantScore:       75,
			wantSuggestions: 1,
		},
		{
			name:        "well sized title",
			title:       "The Complete Guide to Modern Web Design",
			wantScore:   100,
			wantOptimal: true,
		},
		{
			name:            "short all-caps title",
			title:           "BUY NOW",
			wantScore:       50,
			wantSuggestions: 2,
		},
		{
			name:            "overlong title",
			title:           strings.Repeat("word ", 20),
			wantScore:       75,
			wantSuggestions: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := optimizeTitle(tt.title)
			if got.Score != tt.wantScore {
				t.Errorf("score = %d, want %d", got.Score, tt.wantScore)
			}
			if got.Optimal != tt.wantOptimal {
				t.Errorf("optimal = %v, want %v", got.Optimal, tt.wantOptimal)
			}
			if len(got.Suggestions) != tt.wantSuggestions {
				t.Errorf("suggestions = %v, want %d entries", got.Suggestions, tt.wantSuggestions)
			}
		})
	}
}

func TestOptimizeDescription(t *testing.T) {
	optimal := "Discover practical techniques for building fast, accessible websites, with step-by-step examples covering layout, color, and typography."

	tests := []struct {
		name            string
		desc            string
		wantOptimal     bool
		wantSuggestions int
	}{
		{"missing description", "", false, 1},
		{"well sized with call to action", optimal, true, 0},
		{"short without call to action", "A nice page.", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := optimizeDescription(tt.desc)
			if got.Optimal != tt.wantOptimal {
				t.Errorf("optimal = %v, want %v", got.Optimal, tt.wantOptimal)
			}
			if len(got.Suggestions) != tt.wantSuggestions {
				t.Errorf("suggestions = %v, want %d entries", got.Suggestions, tt.wantSuggestions)
			}
		})
	}
}

func TestMetaTagSuggestions(t *testing.T) {
	bare := &domain.MetadataRecord{}
	got := metaTagSuggestions(bare)
	for _, tag := range []string{"og:title", "og:description", "og:image", "twitter:card"} {
		if _, ok := got[tag]; !ok {
			t.Errorf("missing suggestion for %s on a bare record", tag)
		}
	}

	full := &domain.MetadataRecord{
		Images: []domain.ImageSource{{URL: "https://example.test/og.png"}},
		Social: domain.SocialCardData{
			OpenGraph: map[string]string{"title": "T", "description": "D"},
			Twitter:   map[string]string{"card": "summary_large_image"},
		},
	}
	if got := metaTagSuggestions(full); len(got) != 0 {
		t.Errorf("expected no suggestions for a complete record, got %v", got)
	}
}

func TestStructuredDataSuggestions(t *testing.T) {
	article := &domain.MetadataRecord{ContentType: domain.ContentTypeArticle}
	got := structuredDataSuggestions(article)
	if !strings.Contains(got["jsonLd"], "Article") {
		t.Errorf("article suggestion = %q, want Article template", got["jsonLd"])
	}

	withJSONLD := &domain.MetadataRecord{
		ContentType: domain.ContentTypeArticle,
		StructuredData: []domain.StructuredDataBlock{
			{Format: domain.StructuredFormatJSONLD, Payload: map[string]interface{}{"@type": "Article"}},
		},
	}
	if got := structuredDataSuggestions(withJSONLD); len(got) != 0 {
		t.Errorf("expected no suggestions when JSON-LD exists, got %v", got)
	}
}

func TestKeywordSuggestionsCapped(t *testing.T) {
	rec := &domain.MetadataRecord{
		Title:       "alpha beta gamma delta epsilon zeta",
		Description: "alpha beta gamma delta epsilon zeta eta theta",
	}
	got := keywordSuggestions(rec)
	if len(got) != 5 {
		t.Errorf("keyword suggestions = %v, want 5 entries", got)
	}
}
