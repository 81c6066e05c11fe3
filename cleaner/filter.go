package cleaner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/docscrub/models"
)

// FilterDocument applies CSS-selector-based content filtering to doc in
// place, before any cleaning pass runs.
//
// Processing order:
//  1. Remove elements matching excludeTags (if any).
//  2. Keep only elements matching includeTags (if any): the body's children
//     are replaced with the matches, outermost first, in document order.
//
// If no element matches the include selectors, the (already
// exclude-filtered) document is left as is. An unparsable selector is an
// INVALID_INPUT error and leaves doc untouched.
func FilterDocument(doc *goquery.Document, includeTags, excludeTags []string) error {
	if len(includeTags) == 0 && len(excludeTags) == 0 {
		return nil
	}

	exclude := make([]cascadia.Selector, 0, len(excludeTags))
	for _, s := range excludeTags {
		sel, err := compileSelector(s)
		if err != nil {
			return err
		}
		exclude = append(exclude, sel)
	}
	var include cascadia.Selector
	if len(includeTags) > 0 {
		sel, err := compileSelector(strings.Join(includeTags, ", "))
		if err != nil {
			return err
		}
		include = sel
	}

	// Step 1: Remove excluded elements.
	for _, sel := range exclude {
		doc.FindMatcher(sel).Remove()
	}

	// Step 2: Keep only included elements.
	if include == nil {
		return nil
	}
	matches := doc.FindMatcher(include)
	if matches.Length() == 0 {
		return nil
	}
	// Matches nested in another match travel with their ancestor.
	outer := matches.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsMatcher(include).Length() == 0
	})

	body := doc.Find("body").First()
	// Scoping to the body (or above it) keeps everything.
	if body.Length() == 0 || outer.Is("html, body") {
		return nil
	}
	outer.Remove()
	body.Empty()
	body.AppendSelection(outer)
	return nil
}

func compileSelector(s string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(s)
	if err != nil {
		return nil, models.NewCleanError(models.ErrCodeInvalidInput, "invalid selector "+strings.TrimSpace(s), err)
	}
	return sel, nil
}
