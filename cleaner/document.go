package cleaner

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/use-agent/docscrub/dom"
	"github.com/use-agent/docscrub/models"
	"github.com/use-agent/docscrub/patterns"
	"github.com/use-agent/docscrub/simhash"
)

// passFunc is one whole-tree transformation. It mutates the tree under root
// in place and records what it did in st.
type passFunc func(root *html.Node, st *models.PassStats) error

type pass struct {
	name string
	run  passFunc
}

// Options configures a DocumentCleaner.
type Options struct {
	// Catalog supplies the attribute patterns. Nil means patterns.Default().
	Catalog *patterns.Catalog

	// SkipValidation disables the structural check run before the first
	// pass. Only trees built by the html parser should skip it.
	SkipValidation bool
}

// DocumentCleaner runs the ordered pruning and normalization passes over a
// parsed document. It holds only compiled patterns and is safe for
// concurrent use across documents.
type DocumentCleaner struct {
	passes   []pass
	validate bool
}

// NewDocumentCleaner builds the pass sequence from opts.
func NewDocumentCleaner(opts Options) *DocumentCleaner {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = patterns.Default()
	}

	passes := []pass{
		{"stripBodyClass", stripBodyClass},
		{"stripArticleIdentityAttrs", stripArticleIdentityAttrs},
		{"dropEmptyEmphasis", dropEmptyEmphasis},
		{"dropDropCaps", dropDropCaps},
		{"removeNoiseContent", removeNoiseContent},
	}
	for _, rule := range catalog.Rules() {
		passes = append(passes, pass{"removeNoiseByAttribute:" + rule.Name, removeNoiseByAttribute(rule)})
	}
	passes = append(passes,
		pass{"unwrapParagraphSpans", unwrapParagraphSpans},
		pass{"divToParagraphs", divToParagraphs},
		pass{"spanToParagraph", spanToParagraph},
	)

	return &DocumentCleaner{passes: passes, validate: !opts.SkipValidation}
}

// PassNames lists the passes in the order Clean runs them.
func (c *DocumentCleaner) PassNames() []string {
	names := make([]string, len(c.passes))
	for i, p := range c.passes {
		names[i] = p.name
	}
	return names
}

// Clean mutates doc in place and returns a report of what every pass did.
//
// A tree that fails structural validation is rejected with a
// MALFORMED_TREE CleanError before anything is touched. Errors raised by a
// pass (an unparsable selector, for instance) are returned wrapped with the
// pass name; the tree may then be partially cleaned.
func (c *DocumentCleaner) Clean(doc *goquery.Document) (*models.CleanReport, error) {
	root := dom.Root(doc)
	return c.CleanNode(root)
}

// CleanNode is Clean over a bare node.
func (c *DocumentCleaner) CleanNode(root *html.Node) (*models.CleanReport, error) {
	if root == nil {
		return nil, models.NewCleanError(models.ErrCodeInvalidInput, "empty document", nil)
	}
	if c.validate {
		if err := dom.Validate(root); err != nil {
			return nil, models.NewCleanError(models.ErrCodeMalformedTree, "document tree is malformed", err)
		}
	}

	start := time.Now()
	report := &models.CleanReport{
		Passes:           make([]models.PassStats, 0, len(c.passes)),
		InputFingerprint: simhash.FingerprintTree(root),
	}

	for _, p := range c.passes {
		st := models.PassStats{Name: p.name}
		t0 := time.Now()
		if err := p.run(root, &st); err != nil {
			return report, fmt.Errorf("cleaner: %s: %w", p.name, err)
		}
		st.DurationUs = time.Since(t0).Microseconds()
		report.Passes = append(report.Passes, st)

		slog.Debug("cleaner: pass done",
			"pass", p.name,
			"removed", st.Removed,
			"unwrapped", st.Unwrapped,
			"attrs_removed", st.AttrsRemoved,
			"created", st.Created,
			"retagged", st.Retagged,
		)
	}

	report.OutputFingerprint = simhash.FingerprintTree(root)
	report.StructureDistance = simhash.Distance(report.InputFingerprint, report.OutputFingerprint)
	report.DurationUs = time.Since(start).Microseconds()
	return report, nil
}
