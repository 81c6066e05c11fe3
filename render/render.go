// Package render turns a cleaned document into one of the output formats:
// the body's HTML, plain text, or Markdown.
package render

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/use-agent/docscrub/dom"
	"github.com/use-agent/docscrub/models"
	"github.com/use-agent/docscrub/patterns"
)

// Renderer holds the Markdown converter, which is created once and reused
// across all requests (goroutine-safe).
type Renderer struct {
	md *converter.Converter
}

// New returns a Renderer.
func New() *Renderer {
	return &Renderer{md: newMarkdownConverter()}
}

// Render converts an HTML fragment to format. Unknown formats are treated
// as Markdown. domain is used to absolutize links in Markdown output.
func (r *Renderer) Render(fragment, format, domain string) (string, error) {
	switch format {
	case models.FormatHTML:
		return fragment, nil
	case models.FormatText:
		return TextFromHTML(fragment)
	default:
		out, err := toMarkdown(r.md, fragment, domain)
		if err != nil {
			return "", fmt.Errorf("render: markdown: %w", err)
		}
		return strings.TrimSpace(out), nil
	}
}

// BodyHTML returns the inner HTML of doc's <body>, or of the whole
// document when it has none.
func BodyHTML(doc *goquery.Document) (string, error) {
	root := dom.Root(doc)
	if root == nil {
		return "", nil
	}
	if bodies := dom.ByTag(root, "body"); len(bodies) > 0 {
		return dom.InnerHTML(bodies[0])
	}
	return dom.InnerHTML(root)
}

// Title returns the trimmed text of the document's first <title>.
func Title(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// TextFromHTML parses fragment and returns its text, one line per block.
func TextFromHTML(fragment string) (string, error) {
	doc, err := dom.ParseString(fragment)
	if err != nil {
		return "", err
	}
	return Text(dom.Root(doc)), nil
}

// Text flattens the tree under root to plain text. Block elements and
// <br> end a line; runs of whitespace inside a line collapse to a single
// space and blank lines collapse to one.
func Text(root *html.Node) string {
	if root == nil {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "head", "template", "noscript":
				return
			case "br":
				b.WriteByte('\n')
				return
			}
		case html.CommentNode:
			return
		}

		block := n.Type == html.ElementNode && !patterns.IsInline(n.Data)
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte('\n')
		}
	}
	walk(root)

	return collapseLines(b.String())
}

func collapseLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = strings.Join(strings.Fields(l), " ")
		if l == "" {
			// Keep a single blank line between paragraphs.
			if len(out) > 0 && !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, l)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
