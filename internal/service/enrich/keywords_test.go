package enrich

import (
	"testing"

	"pagelens/internal/domain"
)

func TestKeywordDensity(t *testing.T) {
	got := keywordDensity("the quick brown fox jumps over the quick fence")

	if got.TotalWords != 9 {
		t.Errorf("totalWords = %d, want 9", got.TotalWords)
	}
	if got.UniqueWords != 7 {
		t.Errorf("uniqueWords = %d, want 7", got.UniqueWords)
	}
	if len(got.Keywords) != 5 {
		t.Fatalf("keywords = %v, want 5 entries", got.Keywords)
	}
	if got.Keywords[0].Word != "quick" || got.Keywords[0].Count != 2 {
		t.Errorf("top keyword = %+v, want quick x2", got.Keywords[0])
	}
	if got.Keywords[0].Density != 0.2222 {
		t.Errorf("top density = %v, want 0.2222", got.Keywords[0].Density)
	}
	// Singles sort alphabetically after the leader
	for i, want := range []string{"brown", "fence", "fox", "jumps"} {
		if got.Keywords[i+1].Word != want {
			t.Errorf("keyword[%d] = %q, want %q", i+1, got.Keywords[i+1].Word, want)
		}
	}
}

func TestKeywordDensityDropsStopwordsAndShortTokens(t *testing.T) {
	got := keywordDensity("it is an ox")
	if len(got.Keywords) != 0 {
		t.Errorf("keywords = %v, want none", got.Keywords)
	}
	if got.TotalWords != 4 {
		t.Errorf("totalWords = %d, want 4", got.TotalWords)
	}
}

func TestUniqueness(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantScore int
		wantLevel string
	}{
		{"empty", "", 0, "low"},
		{"all distinct", "alpha beta gamma delta", 100, "high"},
		{"heavy repetition", "go go go go", 25, "low"},
		{"half distinct", "red blue red blue", 50, "moderate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, level := uniqueness(tt.text)
			if score != tt.wantScore || level != tt.wantLevel {
				t.Errorf("uniqueness(%q) = (%d, %q), want (%d, %q)",
					tt.text, score, level, tt.wantScore, tt.wantLevel)
			}
		})
	}
}

func TestCompleteness(t *testing.T) {
	full := &domain.MetadataRecord{
		Title:       "T",
		Description: "D",
		ContentType: domain.ContentTypeArticle,
		Images:      []domain.ImageSource{{URL: "https://example.test/a.png"}},
		Favicons:    []domain.FaviconEntry{{URL: "https://example.test/favicon.ico"}},
	}
	got := completeness(full)
	if got.Score != 100 || got.CompletedFields != 5 {
		t.Errorf("completeness = %+v, want 5/5", got)
	}

	empty := completeness(&domain.MetadataRecord{})
	if empty.Score != 0 || empty.CompletedFields != 0 {
		t.Errorf("completeness = %+v, want 0/5", empty)
	}

	// "other" does not count as a classified content type
	other := completeness(&domain.MetadataRecord{Title: "T", ContentType: domain.ContentTypeOther})
	if other.CompletedFields != 1 {
		t.Errorf("completedFields = %d, want 1", other.CompletedFields)
	}
}

func TestAnalyzeContentLanguage(t *testing.T) {
	rec := &domain.MetadataRecord{
		Title:       "The Complete Guide to Modern Web Design",
		Description: "Discover practical techniques for building fast and accessible websites that your readers will actually enjoy using every day.",
	}
	got := analyzeContent(rec)
	if got.Language != "eng" {
		t.Errorf("language = %q, want eng", got.Language)
	}
	if got.ContentLength.Title != len(rec.Title) || got.ContentLength.Description != len(rec.Description) {
		t.Errorf("contentLength = %+v", got.ContentLength)
	}
}

func TestAnalyzeContentEmptyRecord(t *testing.T) {
	got := analyzeContent(&domain.MetadataRecord{})
	if got.Language != "" {
		t.Errorf("language = %q, want empty for no text", got.Language)
	}
	if got.ReadabilityScore.Level != "difficult" {
		t.Errorf("readability level = %q, want difficult", got.ReadabilityScore.Level)
	}
	if got.KeywordDensity.TotalWords != 0 {
		t.Errorf("totalWords = %d, want 0", got.KeywordDensity.TotalWords)
	}
}
