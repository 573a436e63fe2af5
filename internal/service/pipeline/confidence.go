package pipeline

import "pagelens/internal/domain"

// minBodyTextLen is the visible-text length below which a page with a bare
// SPA mount node is treated as client-side rendered.
const minBodyTextLen = 250

// Confidence scores how complete a raw extraction looks, 0..100. The score
// decides whether a static fetch is good enough or the page needs a real
// browser pass.
//
//	title present        +30
//	description present  +20
//	any image candidate  +15
//	social card tags     +15
//	structured data      +10
//	body text >= 200     +10
//	empty SPA mount      -30
//
// Favicons are excluded on purpose: the static extractor synthesizes a
// /favicon.ico guess when none is declared, so their presence carries no
// signal.
func Confidence(raw *domain.RawExtraction) int {
	if raw == nil {
		return 0
	}
	s := &raw.Sources
	score := 0

	if s.OpenGraph.Title != "" || s.Twitter.Title != "" || s.Plain.Title != "" {
		score += 30
	}
	if s.OpenGraph.Description != "" || s.Twitter.Description != "" || s.Plain.MetaDescription != "" {
		score += 20
	}
	if len(s.OpenGraph.Images) > 0 || s.Twitter.Image != "" || len(s.Plain.Images) > 0 {
		score += 15
	}
	if len(s.OpenGraph.Raw) > 0 || len(s.Twitter.Raw) > 0 {
		score += 15
	}
	if len(s.JSONLD) > 0 || len(s.Microdata) > 0 {
		score += 10
	}
	if raw.BodyTextLen >= 200 {
		score += 10
	}
	if raw.CSRMount && raw.BodyTextLen < minBodyTextLen {
		score -= 30
	}
	if score < 0 {
		score = 0
	}
	return score
}
