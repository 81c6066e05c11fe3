// Package dom is the tree manipulation layer the cleaning pipeline is built
// on. It wraps golang.org/x/net/html nodes with the handful of queries and
// structural edits the passes need.
//
// Every edit moves or deletes nodes; nothing is ever copied, so a node's
// pointer is its identity for the lifetime of the tree.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	shdom "github.com/go-shiori/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads an HTML document into a goquery document handle.
func Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return doc, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*goquery.Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node behind a goquery document.
func Root(doc *goquery.Document) *html.Node {
	if doc == nil || len(doc.Nodes) == 0 {
		return nil
	}
	return doc.Nodes[0]
}

// ByTag returns every descendant element of root with the given tag, in
// document order. root itself is not included.
func ByTag(root *html.Node, tag string) []*html.Node {
	if root == nil {
		return nil
	}
	return shdom.GetElementsByTagName(root, tag)
}

// Select returns the descendants of root matching a CSS selector group.
// An unparsable selector is returned as an error.
func Select(root *html.Node, selector string) ([]*html.Node, error) {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("dom: selector %q: %w", selector, err)
	}
	if root == nil {
		return nil, nil
	}
	return cascadia.QueryAll(root, sel), nil
}

// ByAttr returns every descendant element of root whose attr value matches
// re, in document order.
func ByAttr(root *html.Node, attr string, re *regexp.Regexp) []*html.Node {
	var out []*html.Node
	for _, n := range ByTag(root, "*") {
		if v, ok := Attr(n, attr); ok && re.MatchString(v) {
			out = append(out, n)
		}
	}
	return out
}

// Comments returns every comment node under root, in document order.
func Comments(root *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.CommentNode {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// Attr returns the value of an attribute and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// RemoveAttr deletes every occurrence of an attribute.
func RemoveAttr(n *html.Node, key string) {
	for shdom.HasAttribute(n, key) {
		shdom.RemoveAttribute(n, key)
	}
}

// TagName returns the element's tag, or "" for non-element nodes.
func TagName(n *html.Node) string {
	return shdom.TagName(n)
}

// IsText reports whether n is a text node.
func IsText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// ChildNodes returns n's direct children, text and comments included.
func ChildNodes(n *html.Node) []*html.Node {
	return shdom.ChildNodes(n)
}

// TextContent concatenates all text under n.
func TextContent(n *html.Node) string {
	return shdom.TextContent(n)
}

// CreateElement returns a new detached element.
func CreateElement(tag string) *html.Node {
	n := shdom.CreateElement(tag)
	n.DataAtom = atom.Lookup([]byte(tag))
	return n
}

// Rename changes an element's tag in place. Attributes and children are kept.
func Rename(n *html.Node, tag string) {
	n.Data = tag
	n.DataAtom = atom.Lookup([]byte(tag))
}

// Remove detaches n, and with it all of its descendants, from its parent.
// Removing an already detached node is a no-op.
func Remove(n *html.Node) {
	shdom.DetachChild(n)
}

// AppendChild moves child to the end of parent's children.
func AppendChild(parent, child *html.Node) {
	shdom.DetachChild(child)
	parent.AppendChild(child)
}

// InsertBefore moves n so that it immediately precedes ref.
func InsertBefore(n, ref *html.Node) error {
	if ref.Parent == nil {
		return fmt.Errorf("dom: insert before detached <%s>", TagName(ref))
	}
	if n == ref {
		return nil
	}
	shdom.DetachChild(n)
	ref.Parent.InsertBefore(n, ref)
	return nil
}

// Unwrap replaces n with its children, keeping their order and the text
// around them. Adjacent text nodes created by the splice are merged.
func Unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
	MergeText(parent)
}

// MergeText folds runs of adjacent text children of n into a single node.
func MergeText(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		for c.Type == html.TextNode && c.NextSibling != nil && c.NextSibling.Type == html.TextNode {
			next := c.NextSibling
			c.Data += next.Data
			n.RemoveChild(next)
		}
	}
}

// Render serializes n and its descendants.
func Render(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("dom: render: %w", err)
	}
	return buf.String(), nil
}

// InnerHTML serializes n's children.
func InnerHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("dom: render: %w", err)
		}
	}
	return buf.String(), nil
}
