// Package enrich runs deterministic text analytics and classification
// heuristics over a merged metadata record. Every stage is a pure function:
// identical input produces identical output, with the timestamp as the only
// clock dependence.
package enrich

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"pagelens/internal/domain"
)

// Engine runs the enrichment stages. The clock is injectable so tests can
// pin the timestamp.
type Engine struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine creates an enrichment engine using the wall clock
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{
		logger: logger,
		now:    time.Now,
	}
}

// NewEngineWithClock creates an engine with a fixed clock for tests
func NewEngineWithClock(logger *slog.Logger, now func() time.Time) *Engine {
	return &Engine{
		logger: logger,
		now:    now,
	}
}

// Enhance runs every enabled stage over the record. Disabled stages come
// back nil and are omitted from the JSON output.
func (e *Engine) Enhance(rec *domain.MetadataRecord, opts domain.FetchOptions) domain.AIEnhancements {
	ai := domain.AIEnhancements{
		Timestamp: e.now().UTC(),
		Version:   domain.EnrichmentVersion,
	}

	if opts.EnableContentAnalysis {
		ai.ContentAnalysis = analyzeContent(rec)
	}
	if opts.EnableSEOOptimization {
		ai.SEOOptimization = optimizeSEO(rec)
	}
	if opts.EnableSentimentAnalysis {
		ai.Sentiment = analyzeSentiment(rec)
	}
	if opts.EnableCategoryDetection {
		ai.Category = detectCategory(rec)
	}

	e.logger.Debug("Enrichment complete",
		"url", rec.URL,
		"content_analysis", ai.ContentAnalysis != nil,
		"seo", ai.SEOOptimization != nil,
		"sentiment", ai.Sentiment != nil,
		"category", ai.Category != nil,
	)

	return ai
}

var wordPunct = regexp.MustCompile(`[^\p{L}\p{N}'-]+`)

// tokenize splits text into lowercase word tokens with punctuation stripped
func tokenize(text string) []string {
	var tokens []string
	for _, field := range wordPunct.Split(strings.ToLower(text), -1) {
		field = strings.Trim(field, "'-")
		if field != "" {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
