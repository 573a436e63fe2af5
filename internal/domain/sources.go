package domain

import "encoding/json"

// Per-source metadata fragments. Each extraction path fills these with
// whatever it found; the merger reconciles them into one MetadataRecord.

// ImageCandidate is an image reference before priority assignment
type ImageCandidate struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Alt    string `json:"alt,omitempty"`
}

// OpenGraphFields holds the og:* tags found on a page. Raw retains every
// og:-prefixed tag, including ones without a dedicated field.
type OpenGraphFields struct {
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Type        string            `json:"type,omitempty"`
	URL         string            `json:"url,omitempty"`
	SiteName    string            `json:"siteName,omitempty"`
	Images      []ImageCandidate  `json:"images,omitempty"`
	Raw         map[string]string `json:"raw,omitempty"`
}

// TwitterFields holds the twitter:* card tags
type TwitterFields struct {
	Card        string            `json:"card,omitempty"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Image       string            `json:"image,omitempty"`
	Site        string            `json:"site,omitempty"`
	Creator     string            `json:"creator,omitempty"`
	Raw         map[string]string `json:"raw,omitempty"`
}

// JSONLDBlock is one parsed <script type="application/ld+json"> block with
// the handful of fields the merger cares about lifted out. Raw keeps the
// full payload for downstream inspection.
type JSONLDBlock struct {
	Type        string          `json:"type,omitempty"` // resolved @type
	Name        string          `json:"name,omitempty"`
	Headline    string          `json:"headline,omitempty"`
	Description string          `json:"description,omitempty"`
	Images      []string        `json:"images,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"`
}

// MicrodataItem is one itemscope element with its itemprops flattened
type MicrodataItem struct {
	Type  string            `json:"type,omitempty"` // itemtype URL
	Props map[string]string `json:"props,omitempty"`
}

// PlainTags holds values pulled from ordinary HTML: <title>, meta
// description, favicons, inline images, canonical link.
type PlainTags struct {
	Title           string           `json:"title,omitempty"`
	MetaDescription string           `json:"metaDescription,omitempty"`
	CanonicalURL    string           `json:"canonicalUrl,omitempty"`
	Favicons        []FaviconEntry   `json:"favicons,omitempty"`
	Images          []ImageCandidate `json:"images,omitempty"`
	AppleTouchIcons []ImageCandidate `json:"appleTouchIcons,omitempty"`
}

// SourceSet bundles every per-source fragment one extraction produced
type SourceSet struct {
	OpenGraph OpenGraphFields   `json:"openGraph"`
	Twitter   TwitterFields     `json:"twitter"`
	Facebook  map[string]string `json:"facebook,omitempty"`
	JSONLD    []JSONLDBlock     `json:"jsonLd,omitempty"`
	Microdata []MicrodataItem   `json:"microdata,omitempty"`
	Plain     PlainTags         `json:"plain"`
}

// RawExtraction is the unmerged result of one extraction pass. It is the
// value the cache layer stores, so everything on it must survive a JSON
// round trip.
type RawExtraction struct {
	URL         string              `json:"url"`
	FetchMethod FetchMethod         `json:"fetchMethod"`
	Sources     SourceSet           `json:"sources"`
	NavbarLinks []NavbarLink        `json:"navbarLinks,omitempty"`
	Screenshots []Screenshot        `json:"screenshots,omitempty"`
	HasJS       bool                `json:"hasJavaScript"`
	LoadTimeMs  int64               `json:"loadTimeMs"`
	Errors      []ExtractionWarning `json:"errors,omitempty"`

	// Confidence inputs, filled by the extractors
	BodyTextLen int  `json:"bodyTextLen"`
	CSRMount    bool `json:"csrMount"` // page has an empty SPA mount node
}

// AddWarning appends a non-fatal extraction warning
func (r *RawExtraction) AddWarning(kind ErrorKind, message string) {
	r.Errors = append(r.Errors, ExtractionWarning{Kind: kind, Message: message})
}
