// Package merge reconciles per-source metadata fragments into one canonical
// record using a fixed priority order: Open Graph > Twitter Card > JSON-LD >
// microdata > plain HTML tags.
package merge

import (
	"sort"
	"strings"

	"pagelens/internal/domain"
)

// JSON-LD types the merger trusts for title/description values
var trustedJSONLDTypes = map[string]bool{
	"Product":     true,
	"Article":     true,
	"NewsArticle": true,
	"BlogPosting": true,
	"WebSite":     true,
	"WebPage":     true,
	"VideoObject": true,
}

// Merge combines one extraction's source fragments into a canonical
// MetadataRecord. Unused source values are retained in Social and
// StructuredData for downstream inspection, never dropped.
func Merge(raw *domain.RawExtraction) *domain.MetadataRecord {
	rec := &domain.MetadataRecord{
		URL:           raw.URL,
		FetchMethod:   raw.FetchMethod,
		HasJavaScript: raw.HasJS,
		LoadTimeMs:    raw.LoadTimeMs,
		NavbarLinks:   raw.NavbarLinks,
		Screenshots:   raw.Screenshots,
		Errors:        raw.Errors,
	}

	s := &raw.Sources

	rec.Title = firstNonEmpty(
		s.OpenGraph.Title,
		s.Twitter.Title,
		jsonLDTitle(s.JSONLD),
		microdataProp(s.Microdata, "name", "headline"),
		s.Plain.Title,
	)

	rec.Description = firstNonEmpty(
		s.OpenGraph.Description,
		s.Twitter.Description,
		jsonLDDescription(s.JSONLD),
		microdataProp(s.Microdata, "description"),
		s.Plain.MetaDescription,
	)

	rec.ContentType = classifyContentType(s)
	rec.Images = mergeImages(s)
	rec.Favicons = s.Plain.Favicons
	rec.StructuredData = collectStructuredData(s)
	rec.Social = collectSocial(s)

	return rec
}

// firstNonEmpty returns the first non-blank candidate in priority order
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return strings.TrimSpace(c)
		}
	}
	return ""
}

func jsonLDTitle(blocks []domain.JSONLDBlock) string {
	for _, b := range blocks {
		if !trustedJSONLDTypes[b.Type] {
			continue
		}
		if b.Headline != "" {
			return b.Headline
		}
		if b.Name != "" {
			return b.Name
		}
	}
	return ""
}

func jsonLDDescription(blocks []domain.JSONLDBlock) string {
	for _, b := range blocks {
		if trustedJSONLDTypes[b.Type] && b.Description != "" {
			return b.Description
		}
	}
	return ""
}

// microdataProp returns the first matching prop across items, trying prop
// names in the given order per item
func microdataProp(items []domain.MicrodataItem, names ...string) string {
	for _, item := range items {
		for _, name := range names {
			if v := item.Props[name]; v != "" {
				return v
			}
		}
	}
	return ""
}

// classifyContentType maps og:type and JSON-LD @type onto the content enum
func classifyContentType(s *domain.SourceSet) domain.ContentType {
	ogType := strings.ToLower(s.OpenGraph.Type)
	switch {
	case ogType == "article" || strings.HasPrefix(ogType, "article:"):
		return domain.ContentTypeArticle
	case strings.HasPrefix(ogType, "video"):
		return domain.ContentTypeVideo
	case ogType == "product" || strings.HasPrefix(ogType, "product:"):
		return domain.ContentTypeProduct
	case ogType == "website":
		return domain.ContentTypeWebsite
	case ogType != "":
		return domain.ContentTypeOther
	}

	for _, b := range s.JSONLD {
		switch b.Type {
		case "Article", "NewsArticle", "BlogPosting":
			return domain.ContentTypeArticle
		case "Product":
			return domain.ContentTypeProduct
		case "VideoObject":
			return domain.ContentTypeVideo
		case "WebSite", "WebPage":
			return domain.ContentTypeWebsite
		}
	}

	return domain.ContentTypeWebsite
}

// mergedImage tracks declaration order for the tie-break rule
type mergedImage struct {
	img   domain.ImageSource
	order int
}

// mergeImages unions image candidates from every source, collapses URL
// duplicates keeping the maximum priority and any known dimensions, and
// sorts descending by priority with first-seen winning ties.
func mergeImages(s *domain.SourceSet) []domain.ImageSource {
	byURL := make(map[string]*mergedImage)
	order := 0

	add := func(img domain.ImageSource) {
		if img.URL == "" {
			return
		}
		existing, ok := byURL[img.URL]
		if !ok {
			byURL[img.URL] = &mergedImage{img: img, order: order}
			order++
			return
		}
		if img.Priority > existing.img.Priority {
			existing.img.Priority = img.Priority
			existing.img.Type = img.Type
		}
		// Fill dimensions from whichever duplicate has them
		if existing.img.Width == 0 && img.Width > 0 {
			existing.img.Width = img.Width
		}
		if existing.img.Height == 0 && img.Height > 0 {
			existing.img.Height = img.Height
		}
	}

	for _, c := range s.OpenGraph.Images {
		add(domain.ImageSource{
			URL:      c.URL,
			Type:     domain.ImageTypeOpenGraph,
			Priority: domain.PriorityOpenGraph,
			Width:    c.Width,
			Height:   c.Height,
		})
	}

	if s.Twitter.Image != "" {
		add(domain.ImageSource{
			URL:      s.Twitter.Image,
			Type:     domain.ImageTypeTwitter,
			Priority: domain.PriorityTwitter,
		})
	}

	for _, b := range s.JSONLD {
		for _, u := range b.Images {
			add(domain.ImageSource{
				URL:      u,
				Type:     domain.ImageTypeJSONLD,
				Priority: domain.PriorityJSONLD,
			})
		}
	}

	for _, c := range s.Plain.AppleTouchIcons {
		add(domain.ImageSource{
			URL:      c.URL,
			Type:     domain.ImageTypeAppleTouch,
			Priority: domain.PriorityAppleTouch,
			Width:    c.Width,
			Height:   c.Height,
		})
	}

	for _, c := range s.Plain.Images {
		priority := domain.PriorityInline
		if c.Width >= 500 || c.Height >= 500 {
			priority += domain.PrioritySizeBonus
		}
		add(domain.ImageSource{
			URL:      c.URL,
			Type:     domain.ImageTypeInline,
			Priority: priority,
			Width:    c.Width,
			Height:   c.Height,
		})
	}

	merged := make([]mergedImage, 0, len(byURL))
	for _, m := range byURL {
		merged = append(merged, *m)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].img.Priority != merged[j].img.Priority {
			return merged[i].img.Priority > merged[j].img.Priority
		}
		return merged[i].order < merged[j].order
	})

	out := make([]domain.ImageSource, len(merged))
	for i, m := range merged {
		out[i] = m.img
	}
	return out
}

// collectStructuredData retains every JSON-LD and microdata payload
func collectStructuredData(s *domain.SourceSet) []domain.StructuredDataBlock {
	var blocks []domain.StructuredDataBlock
	for _, b := range s.JSONLD {
		if len(b.Raw) > 0 {
			blocks = append(blocks, domain.StructuredDataBlock{
				Format:  domain.StructuredFormatJSONLD,
				Payload: b.Raw,
			})
		}
	}
	for _, item := range s.Microdata {
		blocks = append(blocks, domain.StructuredDataBlock{
			Format:  domain.StructuredFormatMicrodata,
			Payload: item,
		})
	}
	return blocks
}

// collectSocial keeps every social tag, with non-nil maps so the external
// JSON renders {} rather than null
func collectSocial(s *domain.SourceSet) domain.SocialCardData {
	social := domain.SocialCardData{
		Twitter:   s.Twitter.Raw,
		OpenGraph: s.OpenGraph.Raw,
		Facebook:  s.Facebook,
	}
	if social.Twitter == nil {
		social.Twitter = map[string]string{}
	}
	if social.OpenGraph == nil {
		social.OpenGraph = map[string]string{}
	}
	if social.Facebook == nil {
		social.Facebook = map[string]string{}
	}
	return social
}
