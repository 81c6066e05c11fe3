package cleaner

import (
	"github.com/use-agent/docscrub/dom"
	"github.com/use-agent/docscrub/models"
	"github.com/use-agent/docscrub/patterns"
	"golang.org/x/net/html"
)

// articleIdentityAttrs are never a noise signal on <article> but can
// falsely match the attribute patterns.
var articleIdentityAttrs = []string{patterns.AttrID, patterns.AttrName, patterns.AttrClass}

// stripBodyClass deletes the class attribute of the first <body>. A body
// classed like boilerplate would otherwise take the whole document with it
// during attribute pruning.
func stripBodyClass(root *html.Node, st *models.PassStats) error {
	bodies := dom.ByTag(root, "body")
	if len(bodies) == 0 {
		return nil
	}
	if _, ok := dom.Attr(bodies[0], patterns.AttrClass); ok {
		dom.RemoveAttr(bodies[0], patterns.AttrClass)
		st.AttrsRemoved++
	}
	return nil
}

// stripArticleIdentityAttrs deletes id, name and class from every <article>.
func stripArticleIdentityAttrs(root *html.Node, st *models.PassStats) error {
	for _, article := range dom.ByTag(root, "article") {
		for _, attr := range articleIdentityAttrs {
			if _, ok := dom.Attr(article, attr); ok {
				dom.RemoveAttr(article, attr)
				st.AttrsRemoved++
			}
		}
	}
	return nil
}

// dropEmptyEmphasis unwraps every <em> that holds no image. An <em> around
// an image is usually a caption credit and stays.
func dropEmptyEmphasis(root *html.Node, st *models.PassStats) error {
	for _, em := range dom.ByTag(root, "em") {
		if len(dom.ByTag(em, "img")) > 0 {
			continue
		}
		dom.Unwrap(em)
		st.Unwrapped++
	}
	return nil
}

// dropDropCaps unwraps spans marking an oversized first letter.
func dropDropCaps(root *html.Node, st *models.PassStats) error {
	spans, err := dom.Select(root, patterns.DropCapSelector())
	if err != nil {
		return err
	}
	for _, span := range spans {
		dom.Unwrap(span)
		st.Unwrapped++
	}
	return nil
}

// removeNoiseContent deletes every <script>, <style> and comment node.
func removeNoiseContent(root *html.Node, st *models.PassStats) error {
	for _, tag := range []string{"script", "style"} {
		for _, n := range dom.ByTag(root, tag) {
			if attached(root, n) {
				st.Removed++
			}
			dom.Remove(n)
		}
	}
	for _, c := range dom.Comments(root) {
		dom.Remove(c)
		st.Removed++
	}
	return nil
}

// removeNoiseByAttribute deletes, with their subtrees, all elements whose
// value for any of the rule's attributes matches the rule. Attributes are
// scanned one after another, each against the tree left by the previous.
func removeNoiseByAttribute(rule patterns.Rule) passFunc {
	return func(root *html.Node, st *models.PassStats) error {
		for _, attr := range rule.Attrs {
			for _, n := range dom.ByAttr(root, attr, rule.Re) {
				// A match nested inside an earlier match is already gone.
				if !attached(root, n) {
					continue
				}
				dom.Remove(n)
				st.Removed++
			}
		}
		return nil
	}
}

// unwrapParagraphSpans unwraps every span nested under a paragraph.
func unwrapParagraphSpans(root *html.Node, st *models.PassStats) error {
	spans, err := dom.Select(root, patterns.ParagraphSpanSelector)
	if err != nil {
		return err
	}
	for _, span := range spans {
		dom.Unwrap(span)
		st.Unwrapped++
	}
	return nil
}

// attached reports whether n is still reachable from root.
func attached(root, n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}
