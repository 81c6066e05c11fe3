package cleaner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/docscrub/models"
	"github.com/use-agent/docscrub/render"
)

// ExtractMetadata reads document-level metadata from <head>: the title,
// Open Graph and standard <meta> tags, and the <html lang> attribute.
// Open Graph values win over their plain <meta> counterparts.
func ExtractMetadata(doc *goquery.Document) models.Metadata {
	meta := models.Metadata{
		Title: render.Title(doc),
	}
	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		meta.Language = strings.TrimSpace(lang)
	}

	var description, ogDescription, ogTitle string
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if content == "" {
			return
		}
		key := s.AttrOr("property", "")
		if key == "" {
			key = s.AttrOr("name", "")
		}
		switch strings.ToLower(key) {
		case "og:title":
			ogTitle = content
		case "og:description":
			ogDescription = content
		case "og:site_name":
			meta.SiteName = content
		case "description":
			description = content
		case "author", "article:author":
			if meta.Author == "" {
				meta.Author = content
			}
		}
	})

	if ogTitle != "" {
		meta.Title = ogTitle
	}
	meta.Excerpt = description
	if ogDescription != "" {
		meta.Excerpt = ogDescription
	}
	return meta
}
