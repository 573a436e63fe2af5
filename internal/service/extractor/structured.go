package extractor

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pagelens/internal/domain"
)

// parseStructuredData collects JSON-LD blocks and microdata items from the
// parsed DOM. Malformed JSON-LD blocks are skipped, not fatal.
func parseStructuredData(doc *goquery.Document, raw *domain.RawExtraction) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		blocks, ok := parseJSONLDPayload(s.Text())
		if !ok {
			raw.AddWarning(domain.ErrKindParse, "skipped malformed JSON-LD block")
			return
		}
		raw.Sources.JSONLD = append(raw.Sources.JSONLD, blocks...)
	})

	doc.Find("[itemscope]").Each(func(_ int, s *goquery.Selection) {
		item := domain.MicrodataItem{Props: make(map[string]string)}
		item.Type, _ = s.Attr("itemtype")

		s.Find("[itemprop]").Each(func(_ int, p *goquery.Selection) {
			name, _ := p.Attr("itemprop")
			name = strings.TrimSpace(name)
			if name == "" {
				return
			}
			if _, seen := item.Props[name]; seen {
				return // first declaration wins
			}
			if value := microdataValue(p); value != "" {
				item.Props[name] = value
			}
		})

		if item.Type != "" || len(item.Props) > 0 {
			raw.Sources.Microdata = append(raw.Sources.Microdata, item)
		}
	})
}

// microdataValue extracts the value of one itemprop element per the HTML
// microdata rules: content attribute, then href/src for link-like tags,
// then text content
func microdataValue(p *goquery.Selection) string {
	if content, ok := p.Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	switch goquery.NodeName(p) {
	case "a", "link", "area":
		if href, ok := p.Attr("href"); ok {
			return strings.TrimSpace(href)
		}
	case "img", "audio", "video", "source", "iframe", "embed":
		if src, ok := p.Attr("src"); ok {
			return strings.TrimSpace(src)
		}
	case "time":
		if dt, ok := p.Attr("datetime"); ok {
			return strings.TrimSpace(dt)
		}
	case "meta":
		return ""
	}
	return strings.TrimSpace(p.Text())
}

// parseJSONLDPayload decodes one <script type="application/ld+json"> body.
// Top-level arrays and @graph containers flatten into multiple blocks.
func parseJSONLDPayload(payload string) ([]domain.JSONLDBlock, bool) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, false
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, false
	}

	var blocks []domain.JSONLDBlock
	switch v := decoded.(type) {
	case []interface{}:
		for _, entry := range v {
			if block, ok := jsonLDBlockFromValue(entry); ok {
				blocks = append(blocks, block)
			}
		}
	case map[string]interface{}:
		if graph, ok := v["@graph"].([]interface{}); ok {
			for _, entry := range graph {
				if block, ok := jsonLDBlockFromValue(entry); ok {
					blocks = append(blocks, block)
				}
			}
		} else if block, ok := jsonLDBlockFromValue(v); ok {
			blocks = append(blocks, block)
		}
	default:
		return nil, false
	}

	return blocks, len(blocks) > 0
}

// jsonLDBlockFromValue lifts the merge-relevant fields out of one JSON-LD
// object and keeps the full payload in Raw
func jsonLDBlockFromValue(value interface{}) (domain.JSONLDBlock, bool) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return domain.JSONLDBlock{}, false
	}

	block := domain.JSONLDBlock{
		Type:        jsonLDType(obj["@type"]),
		Name:        jsonLDString(obj["name"]),
		Headline:    jsonLDString(obj["headline"]),
		Description: jsonLDString(obj["description"]),
		Images:      jsonLDImages(obj["image"]),
	}

	if rawBytes, err := json.Marshal(obj); err == nil {
		block.Raw = rawBytes
	}

	return block, true
}

// jsonLDType resolves @type, which may be a string or an array of strings
func jsonLDType(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []interface{}:
		for _, entry := range t {
			if s, ok := entry.(string); ok {
				return s
			}
		}
	}
	return ""
}

func jsonLDString(v interface{}) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// jsonLDImages handles the three common image shapes: a URL string, an
// array of either, or an ImageObject with a url field
func jsonLDImages(v interface{}) []string {
	var out []string
	switch img := v.(type) {
	case string:
		if img != "" {
			out = append(out, img)
		}
	case []interface{}:
		for _, entry := range img {
			out = append(out, jsonLDImages(entry)...)
		}
	case map[string]interface{}:
		if u := jsonLDString(img["url"]); u != "" {
			out = append(out, u)
		} else if u := jsonLDString(img["contentUrl"]); u != "" {
			out = append(out, u)
		}
	}
	return out
}
