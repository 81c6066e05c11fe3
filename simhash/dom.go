package simhash

import (
	"strings"

	"golang.org/x/net/html"
)

// shingleSize is the tag n-gram width used for structural fingerprints.
const shingleSize = 3

// FingerprintTree computes a structural SimHash of the element tree under
// root. Only tag names in document order count; text and attributes are
// ignored, so two pages built from the same template fingerprint alike.
func FingerprintTree(root *html.Node) uint64 {
	tags := elementTags(root)
	if len(tags) == 0 {
		return 0
	}
	if shingles := makeShingles(tags, shingleSize); len(shingles) > 0 {
		return FingerprintTokens(shingles)
	}
	return FingerprintTokens(tags)
}

// elementTags collects element tag names under root in pre-order. root
// itself is included when it is an element.
func elementTags(root *html.Node) []string {
	var tags []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			tags = append(tags, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return tags
}

// makeShingles joins every run of n consecutive tokens into one token.
func makeShingles(tokens []string, n int) []string {
	if len(tokens) < n {
		return nil
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+n], "_"))
	}
	return out
}
