package dom

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"
)

// ErrMalformedTree is returned by Validate for trees that break the
// single-parent, acyclic structure every pass relies on.
var ErrMalformedTree = errors.New("dom: malformed tree")

// Validate checks that the tree under root is well formed: the ancestor
// chain of root is acyclic, every child points back at its parent, sibling
// links agree in both directions, and no node is reachable twice.
func Validate(root *html.Node) error {
	if root == nil {
		return fmt.Errorf("%w: nil root", ErrMalformedTree)
	}

	seen := map[*html.Node]struct{}{root: {}}
	for p := root.Parent; p != nil; p = p.Parent {
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: cycle in parent chain of <%s>", ErrMalformedTree, TagName(root))
		}
		seen[p] = struct{}{}
	}

	visited := map[*html.Node]struct{}{root: {}}
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var prev *html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if _, dup := visited[c]; dup {
				return fmt.Errorf("%w: node <%s> reachable twice", ErrMalformedTree, label(c))
			}
			visited[c] = struct{}{}
			if c.Parent != n {
				return fmt.Errorf("%w: <%s> does not point at its parent <%s>", ErrMalformedTree, label(c), label(n))
			}
			if c.PrevSibling != prev {
				return fmt.Errorf("%w: broken sibling link at <%s>", ErrMalformedTree, label(c))
			}
			prev = c
			stack = append(stack, c)
		}
		if n.LastChild != prev {
			return fmt.Errorf("%w: last child of <%s> is stale", ErrMalformedTree, label(n))
		}
	}
	return nil
}

func label(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return "#text"
	case html.CommentNode:
		return "#comment"
	case html.DocumentNode:
		return "#document"
	default:
		return n.Data
	}
}
