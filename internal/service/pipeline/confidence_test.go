package pipeline

import (
	"testing"

	"pagelens/internal/domain"
)

func TestConfidence(t *testing.T) {
	tests := []struct {
		name string
		raw  *domain.RawExtraction
		want int
	}{
		{
			name: "nil extraction",
			raw:  nil,
			want: 0,
		},
		{
			name: "empty extraction",
			raw:  &domain.RawExtraction{},
			want: 0,
		},
		{
			name: "title only",
			raw: &domain.RawExtraction{
				Sources: domain.SourceSet{
					Plain: domain.PlainTags{Title: "Hello"},
				},
			},
			want: 30,
		},
		{
			name: "full open graph page",
			raw: &domain.RawExtraction{
				Sources: domain.SourceSet{
					OpenGraph: domain.OpenGraphFields{
						Title:       "Hello",
						Description: "A page",
						Images:      []domain.ImageCandidate{{URL: "https://x.test/a.png"}},
						Raw:         map[string]string{"og:title": "Hello"},
					},
					JSONLD: []domain.JSONLDBlock{{Type: "Article"}},
				},
				BodyTextLen: 900,
			},
			want: 100,
		},
		{
			name: "spa shell with title",
			raw: &domain.RawExtraction{
				Sources: domain.SourceSet{
					Plain: domain.PlainTags{Title: "App"},
				},
				BodyTextLen: 12,
				CSRMount:    true,
			},
			want: 0,
		},
		{
			name: "spa mount but real body text",
			raw: &domain.RawExtraction{
				Sources: domain.SourceSet{
					Plain: domain.PlainTags{Title: "App"},
				},
				BodyTextLen: 600,
				CSRMount:    true,
			},
			want: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Confidence(tt.raw); got != tt.want {
				t.Errorf("Confidence() = %d, want %d", got, tt.want)
			}
		})
	}
}
