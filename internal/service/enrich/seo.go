package enrich

import (
	"fmt"
	"strings"

	"pagelens/internal/domain"
)

// Character-count bounds for search-result snippets
const (
	titleMinLen = 30
	titleMaxLen = 60
	descMinLen  = 120
	descMaxLen  = 160
)

// optimizeSEO produces per-field suggestions, scores, and template tag
// suggestions
func optimizeSEO(rec *domain.MetadataRecord) *domain.SEOOptimization {
	return &domain.SEOOptimization{
		TitleOptimization:        optimizeTitle(rec.Title),
		DescriptionOptimization:  optimizeDescription(rec.Description),
		KeywordSuggestions:       keywordSuggestions(rec),
		MetaTagSuggestions:       metaTagSuggestions(rec),
		StructuredDataSuggestion: structuredDataSuggestions(rec),
	}
}

func optimizeTitle(title string) domain.FieldOptimization {
	suggestions := []string{}

	switch {
	case title == "":
		suggestions = append(suggestions, "Add a title: pages without one are hard to index and share")
	case len(title) < titleMinLen:
		suggestions = append(suggestions, fmt.Sprintf("Lengthen the title to at least %d characters for better search visibility", titleMinLen))
	case len(title) > titleMaxLen:
		suggestions = append(suggestions, fmt.Sprintf("Shorten the title to under %d characters so it isn't truncated in results", titleMaxLen))
	}

	if title != "" && title == strings.ToUpper(title) && strings.ToUpper(title) != strings.ToLower(title) {
		suggestions = append(suggestions, "Avoid an all-caps title; use sentence or title case")
	}

	score := 100 - 25*len(suggestions)
	return domain.FieldOptimization{
		Suggestions: suggestions,
		Score:       clampScore(score),
		Optimal:     len(suggestions) == 0,
	}
}

func optimizeDescription(desc string) domain.FieldOptimization {
	suggestions := []string{}

	switch {
	case desc == "":
		suggestions = append(suggestions, "Add a meta description: search engines fall back to arbitrary page text without one")
	case len(desc) < descMinLen:
		suggestions = append(suggestions, fmt.Sprintf("Expand the description to %d-%d characters to fill the search snippet", descMinLen, descMaxLen))
	case len(desc) > descMaxLen:
		suggestions = append(suggestions, fmt.Sprintf("Shorten the description to under %d characters so it isn't truncated", descMaxLen))
	}

	if desc != "" && !containsCTA(desc) {
		suggestions = append(suggestions, "Add a call-to-action verb (e.g. \"discover\", \"learn\", \"try\") to the description")
	}

	score := 100 - 25*len(suggestions)
	return domain.FieldOptimization{
		Suggestions: suggestions,
		Score:       clampScore(score),
		Optimal:     len(suggestions) == 0,
	}
}

func containsCTA(text string) bool {
	for _, tok := range tokenize(text) {
		if ctaWords[tok] {
			return true
		}
	}
	return false
}

// keywordSuggestions surfaces the top keywords as candidate focus terms
func keywordSuggestions(rec *domain.MetadataRecord) []string {
	density := keywordDensity(joined(rec.Title, rec.Description))
	out := []string{}
	for i, kw := range density.Keywords {
		if i >= 5 {
			break
		}
		out = append(out, kw.Word)
	}
	return out
}

// metaTagSuggestions templates the tags the page is missing
func metaTagSuggestions(rec *domain.MetadataRecord) map[string]string {
	suggestions := map[string]string{}

	if rec.Social.OpenGraph["title"] == "" {
		suggestions["og:title"] = "Add an og:title tag so shares render a proper headline"
	}
	if rec.Social.OpenGraph["description"] == "" {
		suggestions["og:description"] = "Add an og:description tag for link previews"
	}
	if rec.Social.OpenGraph["image"] == "" && len(rec.Images) == 0 {
		suggestions["og:image"] = "Add an og:image tag (1200x630 recommended) for rich link previews"
	}
	if rec.Social.Twitter["card"] == "" {
		suggestions["twitter:card"] = "Add a twitter:card tag (summary_large_image) for Twitter previews"
	}

	return suggestions
}

// structuredDataSuggestions templates missing structured-data blocks
func structuredDataSuggestions(rec *domain.MetadataRecord) map[string]string {
	suggestions := map[string]string{}

	hasJSONLD := false
	for _, block := range rec.StructuredData {
		if block.Format == domain.StructuredFormatJSONLD {
			hasJSONLD = true
			break
		}
	}

	if !hasJSONLD {
		switch rec.ContentType {
		case domain.ContentTypeArticle:
			suggestions["jsonLd"] = "Add an Article JSON-LD block with headline, author, and datePublished"
		case domain.ContentTypeProduct:
			suggestions["jsonLd"] = "Add a Product JSON-LD block with name, image, and offers"
		default:
			suggestions["jsonLd"] = "Add a WebSite JSON-LD block with name and url"
		}
	}

	return suggestions
}
