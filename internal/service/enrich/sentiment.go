package enrich

import (
	"math"

	"pagelens/internal/domain"
)

// analyzeSentiment scans title+description against the polarity lexicons.
// Confidence scales with how lopsided the counts are.
func analyzeSentiment(rec *domain.MetadataRecord) *domain.SentimentResult {
	tokens := tokenize(joined(rec.Title, rec.Description))

	positive, negative := 0, 0
	for _, tok := range tokens {
		if positiveWords[tok] {
			positive++
		}
		if negativeWords[tok] {
			negative++
		}
	}

	result := &domain.SentimentResult{
		Emotions: domain.EmotionCounts{
			Positive: positive,
			Negative: negative,
		},
		Recommendations: []string{},
	}

	total := positive + negative
	switch {
	case total == 0 || positive == negative:
		result.Overall = "neutral"
		result.Confidence = 0.5
	case positive > negative:
		result.Overall = "positive"
		result.Confidence = scaleConfidence(positive, negative)
	default:
		result.Overall = "negative"
		result.Confidence = scaleConfidence(negative, positive)
	}
	result.Tone = result.Overall

	if result.Overall != "positive" {
		result.Recommendations = append(result.Recommendations,
			"Use more benefit-oriented wording in the title and description")
		if negative > 0 {
			result.Recommendations = append(result.Recommendations,
				"Replace negative terms with what the page helps the reader achieve")
		}
	}

	return result
}

// scaleConfidence maps the count imbalance onto (0.5, 1.0]
func scaleConfidence(majority, minority int) float64 {
	imbalance := float64(majority-minority) / float64(majority+minority)
	return math.Round((0.5+0.5*imbalance)*100) / 100
}
