package enrich

import (
	"math"
	"sort"

	"pagelens/internal/domain"
)

// Runner-up categories scoring at least this fraction of the winner are
// reported as secondary
const secondaryCloseness = 0.6

// detectCategory scores the page text against the category keyword tables.
// Title matches count double.
func detectCategory(rec *domain.MetadataRecord) *domain.CategoryResult {
	titleTokens := tokenSet(tokenize(rec.Title))
	descTokens := tokenSet(tokenize(rec.Description))

	scores := make(map[string]int)
	matched := make(map[string]map[string]bool)

	for _, category := range categoryOrder {
		for _, keyword := range categoryTable[category] {
			hit := 0
			if titleTokens[keyword] {
				hit += 2
			}
			if descTokens[keyword] {
				hit++
			}
			if hit > 0 {
				scores[category] += hit
				if matched[category] == nil {
					matched[category] = make(map[string]bool)
				}
				matched[category][keyword] = true
			}
		}
	}

	if len(scores) == 0 {
		return &domain.CategoryResult{
			Primary:    "general",
			Confidence: 0.2,
			Tags:       []string{},
			Industry:   "General",
		}
	}

	primary, secondary := rankCategories(scores)

	result := &domain.CategoryResult{
		Primary:  primary,
		Tags:     sortedKeys(matched[primary]),
		Industry: categoryIndustry[primary],
	}

	if secondary != "" && float64(scores[secondary]) >= secondaryCloseness*float64(scores[primary]) {
		result.Secondary = secondary
	}

	// Confidence grows with match strength and saturates at 0.95
	result.Confidence = math.Min(0.95, math.Round((0.3+0.12*float64(scores[primary]))*100)/100)

	return result
}

// rankCategories returns the top two categories by score, breaking ties by
// the fixed category order
func rankCategories(scores map[string]int) (primary, secondary string) {
	for _, category := range categoryOrder {
		score, ok := scores[category]
		if !ok {
			continue
		}
		switch {
		case primary == "" || score > scores[primary]:
			secondary = primary
			primary = category
		case secondary == "" || score > scores[secondary]:
			secondary = category
		}
	}
	return primary, secondary
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	return set
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
