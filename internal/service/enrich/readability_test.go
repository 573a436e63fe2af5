package enrich

import "testing"

func TestReadability(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantScore int
		wantLevel string
	}{
		{
			name:      "empty text",
			text:      "",
			wantScore: 0,
			wantLevel: "difficult",
		},
		{
			name:      "short simple sentence",
			text:      "The cat sat.",
			wantScore: 100,
			wantLevel: "easy",
		},
		{
			name:      "dense academic prose",
			text:      "Notwithstanding considerable methodological heterogeneity, comprehensive interdisciplinary collaboration facilitates unprecedented organizational transformation initiatives.",
			wantScore: 0,
			wantLevel: "difficult",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, level := readability(tt.text)
			if score != tt.wantScore || level != tt.wantLevel {
				t.Errorf("readability(%q) = (%d, %q), want (%d, %q)",
					tt.text, score, level, tt.wantScore, tt.wantLevel)
			}
		})
	}
}

func TestCountSentences(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"No terminator here", 1},
		{"One. Two. Three.", 3},
		{"Really?! Yes...", 2},
	}
	for _, tt := range tests {
		if got := countSentences(tt.text); got != tt.want {
			t.Errorf("countSentences(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"cat", 1},
		{"table", 2},
		{"machine", 2},
		{"idea", 2},
		{"rhythm", 1},
	}
	for _, tt := range tests {
		if got := countSyllables(tt.word); got != tt.want {
			t.Errorf("countSyllables(%q) = %d, want %d", tt.word, got, tt.want)
		}
	}
}
