package cleaner

import (
	"log/slog"
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the minimum TextContent length (in characters) for
// readability output to be considered valid. Below this threshold we assume
// the algorithm failed to locate the main content and keep the normalized
// body instead.
const minContentLength = 50

// ExtractArticle hands the normalized document to the Mozilla Readability
// algorithm, the downstream consumer the paragraph normalization is built
// for.
//
// On success it returns the Article with the selected HTML in Content, plain
// text in TextContent, and metadata (Title, Byline, Excerpt, SiteName,
// Language).
//
// Fallback behaviour (cleaning must never fail just because readability
// choked): on an unparsable source URL, an extraction error, or extracted
// text shorter than minContentLength, fallbackHTML and fallbackText are
// returned in Content and TextContent. The second result reports whether
// readability's selection was used.
func ExtractArticle(cleanedHTML, sourceURL, fallbackHTML, fallbackText string) (readability.Article, bool) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		slog.Warn("readability: invalid source URL, keeping normalized body",
			"url", sourceURL, "error", err,
		)
		return fallbackArticle(fallbackHTML, fallbackText), false
	}

	article, err := readability.FromReader(strings.NewReader(cleanedHTML), parsedURL)
	if err != nil {
		slog.Warn("readability: extraction failed, keeping normalized body",
			"url", sourceURL, "error", err,
		)
		return fallbackArticle(fallbackHTML, fallbackText), false
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Warn("readability: extracted content too short, keeping normalized body",
			"url", sourceURL, "length", len(article.TextContent),
		)
		// Metadata is still worth keeping when the content is not.
		fb := fallbackArticle(fallbackHTML, fallbackText)
		fb.Title = article.Title
		fb.Byline = article.Byline
		fb.Excerpt = article.Excerpt
		fb.SiteName = article.SiteName
		fb.Language = article.Language
		return fb, false
	}

	return article, true
}

func fallbackArticle(content, text string) readability.Article {
	return readability.Article{
		Content:     content,
		TextContent: text,
	}
}
