package enrich

import (
	"math"
	"sort"

	"github.com/abadojack/whatlanggo"

	"pagelens/internal/domain"
)

// Report at most this many keywords
const topKeywords = 10

// Fields the completeness score expects: title, description, image,
// favicon, category
const completenessTotalFields = 5

// analyzeContent runs the deterministic text-analytics stage
func analyzeContent(rec *domain.MetadataRecord) *domain.ContentAnalysis {
	text := joined(rec.Title, rec.Description)

	readScore, readLevel := readability(rec.Description)
	density := keywordDensity(text)
	uniqScore, uniqLevel := uniqueness(text)

	analysis := &domain.ContentAnalysis{
		ReadabilityScore: domain.ReadabilityScore{
			Score: readScore,
			Level: readLevel,
		},
		KeywordDensity: density,
		ContentLength: domain.ContentLength{
			Title:       len(rec.Title),
			Description: len(rec.Description),
		},
		UniquenessScore: domain.UniquenessScore{
			Score: uniqScore,
			Level: uniqLevel,
		},
		Completeness: completeness(rec),
	}

	if text != "" {
		info := whatlanggo.Detect(text)
		analysis.Language = info.Lang.Iso6393()
	}

	return analysis
}

func joined(title, description string) string {
	switch {
	case title == "":
		return description
	case description == "":
		return title
	default:
		return title + " " + description
	}
}

// keywordDensity tokenizes the text, drops stopwords and very short tokens,
// and reports the top keywords by count. Density is occurrences over the
// total word count including stopwords.
func keywordDensity(text string) domain.KeywordDensity {
	tokens := tokenize(text)
	totalWords := len(tokens)

	counts := make(map[string]int)
	unique := make(map[string]bool)
	for _, tok := range tokens {
		unique[tok] = true
		if stopWords[tok] || len(tok) < 3 {
			continue
		}
		counts[tok]++
	}

	keywords := make([]domain.Keyword, 0, len(counts))
	for word, count := range counts {
		keywords = append(keywords, domain.Keyword{
			Word:    word,
			Count:   count,
			Density: roundDensity(float64(count) / float64(totalWords)),
		})
	}

	// Count descending, then alphabetical, so output is stable
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return keywords[i].Word < keywords[j].Word
	})
	if len(keywords) > topKeywords {
		keywords = keywords[:topKeywords]
	}

	return domain.KeywordDensity{
		Keywords:    keywords,
		TotalWords:  totalWords,
		UniqueWords: len(unique),
	}
}

func roundDensity(d float64) float64 {
	return math.Round(d*10000) / 10000
}

// uniqueness maps the distinct-word ratio onto a 0-100 score
func uniqueness(text string) (score int, level string) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0, "low"
	}

	unique := make(map[string]bool)
	for _, tok := range tokens {
		unique[tok] = true
	}

	score = clampScore(int(float64(len(unique)) / float64(len(tokens)) * 100))
	switch {
	case score >= 80:
		level = "high"
	case score >= 50:
		level = "moderate"
	default:
		level = "low"
	}
	return score, level
}

// completeness reports how many of the expected fields are non-empty
func completeness(rec *domain.MetadataRecord) domain.Completeness {
	completed := 0
	if rec.Title != "" {
		completed++
	}
	if rec.Description != "" {
		completed++
	}
	if len(rec.Images) > 0 {
		completed++
	}
	if len(rec.Favicons) > 0 {
		completed++
	}
	if rec.ContentType != "" && rec.ContentType != domain.ContentTypeOther {
		completed++
	}

	return domain.Completeness{
		Score:           completed * 100 / completenessTotalFields,
		CompletedFields: completed,
		TotalFields:     completenessTotalFields,
	}
}
