package domain

// FetchMethod identifies which extraction path produced a record
type FetchMethod string

const (
	FetchMethodStatic   FetchMethod = "static"
	FetchMethodRendered FetchMethod = "rendered"
)

// ContentType classifies the kind of page a URL points at
type ContentType string

const (
	ContentTypeWebsite ContentType = "website"
	ContentTypeArticle ContentType = "article"
	ContentTypeVideo   ContentType = "video"
	ContentTypeProduct ContentType = "product"
	ContentTypeOther   ContentType = "other"
)

// Image source types, ordered roughly by trustworthiness
const (
	ImageTypeOpenGraph  = "og:image"
	ImageTypeTwitter    = "twitter:image"
	ImageTypeJSONLD     = "json-ld"
	ImageTypeAppleTouch = "apple-touch-icon"
	ImageTypeInline     = "inline"
)

// Image priority baselines per source type. Large inline images get a bonus
// on top of these (see the extractor's image collection).
const (
	PriorityOpenGraph  = 100
	PriorityTwitter    = 80
	PriorityJSONLD     = 70
	PriorityAppleTouch = 60
	PriorityInline     = 20
	PrioritySizeBonus  = 10
)

// ImageSource is a single discovered image candidate
type ImageSource struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	Priority int    `json:"priority"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// FaviconEntry is one <link rel=icon*> variant, or the synthesized
// /favicon.ico fallback
type FaviconEntry struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	Sizes    string `json:"sizes,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// StructuredDataBlock carries one structured-data payload found on the page
type StructuredDataBlock struct {
	Format  string      `json:"format"` // "json-ld" or "microdata"
	Payload interface{} `json:"payload"`
}

const (
	StructuredFormatJSONLD    = "json-ld"
	StructuredFormatMicrodata = "microdata"
)

// SocialCardData retains every social tag we saw, keyed by tag name with the
// prefix stripped (og:title -> title)
type SocialCardData struct {
	Twitter   map[string]string `json:"twitter"`
	OpenGraph map[string]string `json:"openGraph"`
	Facebook  map[string]string `json:"facebook"`
}

// NavbarLink is a clickable top-navigation anchor found on the rendered page
type NavbarLink struct {
	Text     string       `json:"text"`
	URL      string       `json:"url"`
	Position LinkPosition `json:"position"`
}

// LinkPosition is the on-screen position of a rendered element
type LinkPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Screenshot is a page capture associated with a detected navigation link.
// Data is JSON-encoded as base64.
type Screenshot struct {
	LinkURL string `json:"linkUrl"`
	Format  string `json:"format"`
	Data    []byte `json:"data"`
}

// MetadataRecord is the canonical merged output of extraction. Records are
// built once and never mutated afterwards.
type MetadataRecord struct {
	URL            string                `json:"url"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	ContentType    ContentType           `json:"contentType"`
	Images         []ImageSource         `json:"images"`
	Favicons       []FaviconEntry        `json:"favicons"`
	StructuredData []StructuredDataBlock `json:"structuredData"`
	Social         SocialCardData        `json:"social"`
	NavbarLinks    []NavbarLink          `json:"navbarLinks,omitempty"`
	Screenshots    []Screenshot          `json:"screenshots,omitempty"`
	FetchMethod    FetchMethod           `json:"fetchMethod"`
	HasJavaScript  bool                  `json:"hasJavaScript"`
	LoadTimeMs     int64                 `json:"loadTimeMs"`
	Errors         []ExtractionWarning   `json:"errors,omitempty"`
}

// PrimaryImage returns the URL of the highest-priority image, or ""
func (r *MetadataRecord) PrimaryImage() string {
	if len(r.Images) == 0 {
		return ""
	}
	return r.Images[0].URL
}

// HasErrors reports whether any extraction warnings were recorded
func (r *MetadataRecord) HasErrors() bool {
	return len(r.Errors) > 0
}
