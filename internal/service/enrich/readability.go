package enrich

import (
	"strings"
)

// readability computes a Flesch-Reading-Ease-style score over the given
// text and buckets it into a level
func readability(text string) (score int, level string) {
	sentences := countSentences(text)
	words := tokenize(text)

	if len(words) == 0 || sentences == 0 {
		return 0, "difficult"
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(len(words))

	flesch := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	score = clampScore(int(flesch))

	switch {
	case score >= 70:
		level = "easy"
	case score >= 50:
		level = "standard"
	default:
		level = "difficult"
	}
	return score, level
}

// countSentences counts terminal punctuation runs, treating text without
// any as one sentence
func countSentences(text string) int {
	count := 0
	inTerminator := false
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			if !inTerminator {
				count++
				inTerminator = true
			}
		default:
			inTerminator = false
		}
	}
	if count == 0 && strings.TrimSpace(text) != "" {
		return 1
	}
	return count
}

// countSyllables approximates syllables as vowel groups, with a silent-e
// adjustment. Always at least 1 for a non-empty word.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}
