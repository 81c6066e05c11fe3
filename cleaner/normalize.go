package cleaner

import (
	"strings"

	"github.com/use-agent/docscrub/dom"
	"github.com/use-agent/docscrub/models"
	"github.com/use-agent/docscrub/patterns"
	"golang.org/x/net/html"
)

// computeReplacementChildren rewrites container so that every run of
// consecutive inline elements and text that carries visible text is owned
// by a new <p> at the run's position. It returns the container's children
// afterwards and the number of paragraphs created.
//
// A run is flushed when a block child is met or the last child has been
// consumed. A <br> that ends a run is replaced by the paragraph boundary.
// Runs without text (bare inline elements) and whitespace-only runs stay
// where they are.
func computeReplacementChildren(container *html.Node) ([]*html.Node, int, error) {
	kids := dom.ChildNodes(container)

	var (
		run     []*html.Node
		hasText bool
		created int
	)
	for i, kid := range kids {
		if isInlineOrText(kid) {
			if dom.IsText(kid) {
				hasText = true
			}
			run = append(run, kid)
			if i < len(kids)-1 {
				continue
			}
		}

		// The run is contiguous and ends right before kid (or at kid when
		// kid is the last child), so leaving it alone keeps its position.
		if len(run) > 0 && hasText && strings.TrimSpace(runText(run)) != "" {
			if err := wrapRun(run, kid); err != nil {
				return nil, created, err
			}
			created++
		}

		run = nil
		hasText = false
	}

	return dom.ChildNodes(container), created, nil
}

// wrapRun moves run into a new paragraph inserted before kid, consuming kid
// when it is a line break.
func wrapRun(run []*html.Node, kid *html.Node) error {
	p := dom.CreateElement("p")
	if err := dom.InsertBefore(p, kid); err != nil {
		return err
	}
	if dom.TagName(kid) == "br" {
		dom.Remove(kid)
	}

	for _, n := range run {
		if dom.IsText(n) {
			appendText(p, n)
			continue
		}
		dom.AppendChild(p, n)
	}
	return nil
}

// appendText moves text node t to the end of p. Text following another
// text node is folded into it, so it reads as the tail of p's last child
// (or p's own leading text).
func appendText(p, t *html.Node) {
	if last := p.LastChild; dom.IsText(last) {
		last.Data += t.Data
		dom.Remove(t)
		return
	}
	dom.AppendChild(p, t)
}

func isInlineOrText(n *html.Node) bool {
	if dom.IsText(n) {
		return true
	}
	return dom.IsElement(n) && patterns.IsInline(n.Data)
}

func runText(run []*html.Node) string {
	var b strings.Builder
	for _, n := range run {
		b.WriteString(dom.TextContent(n))
	}
	return b.String()
}

// divToParagraphs normalizes every <div> in document order, then replaces
// each div's children with the computed list.
func divToParagraphs(root *html.Node, st *models.PassStats) error {
	for _, div := range dom.ByTag(root, "div") {
		kids, created, err := computeReplacementChildren(div)
		if err != nil {
			return err
		}
		st.Created += created

		for _, c := range dom.ChildNodes(div) {
			dom.Remove(c)
		}
		for _, c := range kids {
			dom.AppendChild(div, c)
		}
	}
	return nil
}

// spanToParagraph retags every <span> that is a direct child of a <div> or
// <article> to <p>, unless it sits under a paragraph.
func spanToParagraph(root *html.Node, st *models.PassStats) error {
	nested, err := dom.Select(root, patterns.ParagraphSpanSelector)
	if err != nil {
		return err
	}
	ignore := make(map[*html.Node]struct{}, len(nested))
	for _, n := range nested {
		ignore[n] = struct{}{}
	}

	spans, err := dom.Select(root, "div > span, article > span")
	if err != nil {
		return err
	}
	for _, span := range spans {
		if _, skip := ignore[span]; skip {
			continue
		}
		dom.Rename(span, "p")
		st.Retagged++
	}
	return nil
}
