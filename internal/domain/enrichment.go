package domain

import "time"

// EnrichmentVersion is stamped into every aiEnhancements block so downstream
// consumers can tell which generation of heuristics produced it
const EnrichmentVersion = "1.0"

// ReadabilityScore is a Flesch-Reading-Ease-style score bucketed into levels
type ReadabilityScore struct {
	Score int    `json:"score"` // 0-100
	Level string `json:"level"` // "easy", "standard", "difficult"
}

// Keyword is one token with its occurrence count and density
type Keyword struct {
	Word    string  `json:"word"`
	Count   int     `json:"count"`
	Density float64 `json:"density"`
}

// KeywordDensity reports the most frequent non-stopword tokens
type KeywordDensity struct {
	Keywords    []Keyword `json:"keywords"`
	TotalWords  int       `json:"totalWords"`
	UniqueWords int       `json:"uniqueWords"`
}

// ContentLength reports raw character counts
type ContentLength struct {
	Title       int `json:"title"`
	Description int `json:"description"`
}

// UniquenessScore is a distinct-word-ratio heuristic
type UniquenessScore struct {
	Score int    `json:"score"` // 0-100
	Level string `json:"level"`
}

// Completeness reports how many of the expected fields are filled
type Completeness struct {
	Score           int `json:"score"` // 0-100
	CompletedFields int `json:"completedFields"`
	TotalFields     int `json:"totalFields"`
}

// ContentAnalysis is the deterministic text-analytics block
type ContentAnalysis struct {
	ReadabilityScore ReadabilityScore `json:"readabilityScore"`
	KeywordDensity   KeywordDensity   `json:"keywordDensity"`
	ContentLength    ContentLength    `json:"contentLength"`
	UniquenessScore  UniquenessScore  `json:"uniquenessScore"`
	Completeness     Completeness     `json:"completeness"`
	Language         string           `json:"language,omitempty"` // ISO 639-3
}

// FieldOptimization scores one text field and suggests improvements
type FieldOptimization struct {
	Suggestions []string `json:"suggestions"`
	Score       int      `json:"score"` // 0-100
	Optimal     bool     `json:"optimal"`
}

// SEOOptimization is the SEO-suggestion block
type SEOOptimization struct {
	TitleOptimization        FieldOptimization `json:"titleOptimization"`
	DescriptionOptimization  FieldOptimization `json:"descriptionOptimization"`
	KeywordSuggestions       []string          `json:"keywordSuggestions"`
	MetaTagSuggestions       map[string]string `json:"metaTagSuggestions"`
	StructuredDataSuggestion map[string]string `json:"structuredDataSuggestions"`
}

// EmotionCounts tallies lexicon hits by polarity
type EmotionCounts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

// SentimentResult is the lexicon-based sentiment block
type SentimentResult struct {
	Overall         string        `json:"overall"` // "positive", "neutral", "negative"
	Confidence      float64       `json:"confidence"`
	Emotions        EmotionCounts `json:"emotions"`
	Tone            string        `json:"tone"`
	Recommendations []string      `json:"recommendations"`
}

// CategoryResult is the keyword-lookup classification block
type CategoryResult struct {
	Primary    string   `json:"primary"`
	Secondary  string   `json:"secondary,omitempty"`
	Confidence float64  `json:"confidence"`
	Tags       []string `json:"tags"`
	Industry   string   `json:"industry"`
}

// AIEnhancements wraps every enrichment stage's output. Disabled stages are
// nil and omitted from JSON.
type AIEnhancements struct {
	ContentAnalysis *ContentAnalysis `json:"contentAnalysis,omitempty"`
	SEOOptimization *SEOOptimization `json:"seoOptimization,omitempty"`
	Sentiment       *SentimentResult `json:"sentiment,omitempty"`
	Category        *CategoryResult  `json:"category,omitempty"`
	Timestamp       time.Time        `json:"timestamp"`
	Version         string           `json:"version"`
}

// ImageSet is the external images shape: the winner plus every candidate
type ImageSet struct {
	Primary string        `json:"primary"`
	Sources []ImageSource `json:"sources"`
}

// StructuredDataSet is the external structured-data shape, split by format
type StructuredDataSet struct {
	JSONLD    []interface{}   `json:"jsonLd"`
	Microdata []MicrodataItem `json:"microdata"`
}

// EnrichedMetadataRecord is the external contract returned to callers.
// Field names here are consumed by downstream services and must stay stable.
type EnrichedMetadataRecord struct {
	URL            string              `json:"url"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	ContentType    ContentType         `json:"contentType"`
	Images         ImageSet            `json:"images"`
	Favicons       []FaviconEntry      `json:"favicons"`
	StructuredData StructuredDataSet   `json:"structuredData"`
	Social         SocialCardData      `json:"social"`
	NavbarLinks    []NavbarLink        `json:"navbarLinks,omitempty"`
	Screenshots    []Screenshot        `json:"screenshots,omitempty"`
	FetchMethod    FetchMethod         `json:"fetchMethod"`
	HasJavaScript  bool                `json:"hasJavaScript"`
	LoadTimeMs     int64               `json:"loadTimeMs"`
	Errors         []ExtractionWarning `json:"errors,omitempty"`
	AIEnhancements AIEnhancements      `json:"aiEnhancements"`
}

// NewEnrichedRecord shapes a merged record plus its enhancements into the
// external contract
func NewEnrichedRecord(rec *MetadataRecord, ai AIEnhancements) *EnrichedMetadataRecord {
	out := &EnrichedMetadataRecord{
		URL:         rec.URL,
		Title:       rec.Title,
		Description: rec.Description,
		ContentType: rec.ContentType,
		Images: ImageSet{
			Primary: rec.PrimaryImage(),
			Sources: rec.Images,
		},
		Favicons: rec.Favicons,
		StructuredData: StructuredDataSet{
			JSONLD:    []interface{}{},
			Microdata: []MicrodataItem{},
		},
		Social:         rec.Social,
		NavbarLinks:    rec.NavbarLinks,
		Screenshots:    rec.Screenshots,
		FetchMethod:    rec.FetchMethod,
		HasJavaScript:  rec.HasJavaScript,
		LoadTimeMs:     rec.LoadTimeMs,
		Errors:         rec.Errors,
		AIEnhancements: ai,
	}

	if out.Images.Sources == nil {
		out.Images.Sources = []ImageSource{}
	}
	if out.Favicons == nil {
		out.Favicons = []FaviconEntry{}
	}

	for _, block := range rec.StructuredData {
		switch block.Format {
		case StructuredFormatJSONLD:
			out.StructuredData.JSONLD = append(out.StructuredData.JSONLD, block.Payload)
		case StructuredFormatMicrodata:
			if item, ok := block.Payload.(MicrodataItem); ok {
				out.StructuredData.Microdata = append(out.StructuredData.Microdata, item)
			}
		}
	}

	return out
}
