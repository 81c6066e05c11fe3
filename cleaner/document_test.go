package cleaner

import (
	"errors"
	"strings"
	"testing"

	"github.com/use-agent/docscrub/dom"
	"github.com/use-agent/docscrub/models"
	"github.com/use-agent/docscrub/patterns"
)

func TestRemoveNoiseByAttribute_EndToEnd(t *testing.T) {
	body := parseBody(t, `<div id="social-share">x</div><div id="body">keep</div>`)
	rule, ok := patterns.Default().Rule("noise")
	if !ok {
		t.Fatal("noise rule missing")
	}

	var st models.PassStats
	if err := removeNoiseByAttribute(rule)(body, &st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := innerHTML(t, body); got != `<div id="body">keep</div>` {
		t.Errorf("got %q", got)
	}
	if st.Removed != 1 {
		t.Errorf("removed = %d, want 1", st.Removed)
	}
}

func TestRemoveNoiseByAttribute_NestedMatchCountedOnce(t *testing.T) {
	body := parseBody(t, `<div class="footer"><div class="sponsor">ad</div></div><p>text</p>`)
	rule, _ := patterns.Default().Rule("noise")

	var st models.PassStats
	if err := removeNoiseByAttribute(rule)(body, &st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := innerHTML(t, body); got != `<p>text</p>` {
		t.Errorf("got %q", got)
	}
	if st.Removed != 1 {
		t.Errorf("removed = %d, want 1", st.Removed)
	}
}

func TestStripBodyClass(t *testing.T) {
	doc, err := dom.ParseString(`<html><body class="footer sidebar" id="b"><div>one</div><p>two</p></body></html>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root := dom.Root(doc)
	body := dom.ByTag(root, "body")[0]
	before := dom.ChildNodes(body)

	var st models.PassStats
	if err := stripBodyClass(root, &st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := dom.Attr(body, "class"); ok {
		t.Error("body class should be removed")
	}
	if v, _ := dom.Attr(body, "id"); v != "b" {
		t.Errorf("other attributes must survive, id = %q", v)
	}
	after := dom.ChildNodes(body)
	if len(after) != len(before) {
		t.Fatalf("children changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("child %d replaced", i)
		}
	}
	if st.AttrsRemoved != 1 {
		t.Errorf("attrs removed = %d, want 1", st.AttrsRemoved)
	}
}

func TestClean_BodyClassSafety(t *testing.T) {
	doc, err := dom.ParseString(`<html><body class="footer"><div>content here</div></body></html>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := NewDocumentCleaner(Options{}).Clean(doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bodies := dom.ByTag(dom.Root(doc), "body")
	if len(bodies) != 1 {
		t.Fatalf("body must survive cleaning, found %d", len(bodies))
	}
	if !strings.Contains(dom.TextContent(bodies[0]), "content here") {
		t.Error("body content lost")
	}
}

func TestStripArticleIdentityAttrs(t *testing.T) {
	body := parseBody(t, `<article id="a" class="comment" name="n" lang="en">x</article><article>y</article>`)
	var st models.PassStats
	if err := stripArticleIdentityAttrs(body, &st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := innerHTML(t, body); got != `<article lang="en">x</article><article>y</article>` {
		t.Errorf("got %q", got)
	}
	if st.AttrsRemoved != 3 {
		t.Errorf("attrs removed = %d, want 3", st.AttrsRemoved)
	}
}

func TestDropEmptyEmphasis(t *testing.T) {
	body := parseBody(t, `<p>a <em>b</em> c</p><p><em><img src="x.png"> credit</em></p>`)
	var st models.PassStats
	if err := dropEmptyEmphasis(body, &st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<p>a b c</p><p><em><img src="x.png"/> credit</em></p>`
	if got := innerHTML(t, body); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if st.Unwrapped != 1 {
		t.Errorf("unwrapped = %d, want 1", st.Unwrapped)
	}
}

func TestDropDropCaps(t *testing.T) {
	body := parseBody(t, `<p><span class="dropcap">O</span>nce <span class="big drop_cap">u</span>pon <span class="dropcaps">x</span></p>`)
	var st models.PassStats
	if err := dropDropCaps(body, &st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<p>Once upon <span class="dropcaps">x</span></p>`
	if got := innerHTML(t, body); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRemoveNoiseContent(t *testing.T) {
	doc, err := dom.ParseString(`<html><head><style>p{}</style><script>var a</script></head>` +
		`<body><!-- c --><p>text<script>x()</script></p></body></html>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root := dom.Root(doc)

	var st models.PassStats
	if err := removeNoiseContent(root, &st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(dom.ByTag(root, "script")) + len(dom.ByTag(root, "style")) + len(dom.Comments(root)); n != 0 {
		t.Errorf("%d noise nodes left", n)
	}
	if st.Removed != 4 {
		t.Errorf("removed = %d, want 4", st.Removed)
	}
}

func TestUnwrapParagraphSpans(t *testing.T) {
	body := parseBody(t, `<p>a <span>b <span>c</span></span> d</p><div><span>e</span></div>`)
	var st models.PassStats
	if err := unwrapParagraphSpans(body, &st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<p>a b c d</p><div><span>e</span></div>`
	if got := innerHTML(t, body); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestClean_PassOrder(t *testing.T) {
	names := NewDocumentCleaner(Options{}).PassNames()
	want := []string{
		"stripBodyClass",
		"stripArticleIdentityAttrs",
		"dropEmptyEmphasis",
		"dropDropCaps",
		"removeNoiseContent",
		"removeNoiseByAttribute:noise",
		"removeNoiseByAttribute:caption",
		"removeNoiseByAttribute:google",
		"removeNoiseByAttribute:entries",
		"removeNoiseByAttribute:facebook",
		"removeNoiseByAttribute:facebook_broadcasting",
		"removeNoiseByAttribute:twitter",
		"unwrapParagraphSpans",
		"divToParagraphs",
		"spanToParagraph",
	}
	if len(names) != len(want) {
		t.Fatalf("got %d passes, want %d: %v", len(names), len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("pass %d = %q, want %q", i, names[i], want[i])
		}
	}
}

const sampleArticle = `<html><head><title>T</title><script>track()</script></head>
<body class="page">
<div id="navbar"><a href="/">Home</a></div>
<article id="story" class="comment">
<div>Intro text with <b>bold</b> words.<br>Second line.<div><span>Loose span</span></div></div>
<p>A <span class="x">para</span> with <em>emphasis</em>.</p>
<div class="caption">Photo</div>
<div class="share-twitter">tweet</div>
</article>
<div class="footer">Copyright</div>
<!-- end -->
</body></html>`

func TestClean_FullPipeline(t *testing.T) {
	doc, err := dom.ParseString(sampleArticle)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	report, err := NewDocumentCleaner(Options{}).Clean(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := dom.ByTag(dom.Root(doc), "body")[0]
	out := innerHTML(t, body)
	for _, gone := range []string{"navbar", "Copyright", "track()", "<!--", "Photo", "tweet", "<span", "<em>", "<br"} {
		if strings.Contains(out, gone) {
			t.Errorf("output still contains %q:\n%s", gone, out)
		}
	}
	for _, kept := range []string{"<p>Intro text with <b>bold</b> words.</p>", "<p>Second line.</p>", "<p>Loose span</p>", "A para with emphasis."} {
		if !strings.Contains(out, kept) {
			t.Errorf("output missing %q:\n%s", kept, out)
		}
	}
	if _, ok := dom.Attr(body, "class"); ok {
		t.Error("body class should be stripped")
	}

	if len(report.Passes) != len(NewDocumentCleaner(Options{}).PassNames()) {
		t.Errorf("report has %d passes", len(report.Passes))
	}
	if p, _ := report.Pass("divToParagraphs"); p.Created == 0 {
		t.Error("expected paragraphs to be created")
	}
	if report.Totals().Removed == 0 {
		t.Error("expected removals to be counted")
	}
	if report.InputFingerprint == report.OutputFingerprint && report.StructureDistance != 0 {
		t.Error("distance must be zero for equal fingerprints")
	}
}

func TestClean_Idempotent(t *testing.T) {
	doc, err := dom.ParseString(sampleArticle)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c := NewDocumentCleaner(Options{})
	if _, err := c.Clean(doc); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, _ := dom.Render(dom.Root(doc))

	report, err := c.Clean(doc)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, _ := dom.Render(dom.Root(doc))

	if first != second {
		t.Errorf("second run changed the tree:\nfirst:  %s\nsecond: %s", first, second)
	}
	totals := report.Totals()
	if totals.Removed+totals.Unwrapped+totals.Created+totals.Retagged+totals.AttrsRemoved != 0 {
		t.Errorf("second run reported work: %+v", totals)
	}
	if report.StructureDistance != 0 {
		t.Errorf("structure distance = %d on second run", report.StructureDistance)
	}
}

func TestClean_PruningIdempotent(t *testing.T) {
	doc, err := dom.ParseString(sampleArticle)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root := dom.Root(doc)
	run := func() int {
		removed := 0
		for _, rule := range patterns.Default().Rules() {
			var st models.PassStats
			if err := removeNoiseByAttribute(rule)(root, &st); err != nil {
				t.Fatalf("%s: %v", rule.Name, err)
			}
			removed += st.Removed
		}
		return removed
	}
	if run() == 0 {
		t.Fatal("first run should remove noise")
	}
	if n := run(); n != 0 {
		t.Errorf("second run removed %d nodes", n)
	}
}

func TestClean_MalformedTree(t *testing.T) {
	root := dom.CreateElement("div")
	child := dom.CreateElement("p")
	root.FirstChild = child
	root.LastChild = child

	_, err := NewDocumentCleaner(Options{}).CleanNode(root)
	var ce *models.CleanError
	if !errors.As(err, &ce) || ce.Code != models.ErrCodeMalformedTree {
		t.Fatalf("expected MALFORMED_TREE, got %v", err)
	}
	if !errors.Is(err, dom.ErrMalformedTree) {
		t.Error("cause should be dom.ErrMalformedTree")
	}
}

func TestClean_NilDocument(t *testing.T) {
	_, err := NewDocumentCleaner(Options{}).Clean(nil)
	var ce *models.CleanError
	if !errors.As(err, &ce) || ce.Code != models.ErrCodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestClean_CustomCatalog(t *testing.T) {
	cat, err := patterns.Compile([]patterns.Definition{
		{Name: "promo", Expr: `^promo`, Attrs: []string{patterns.AttrClass}},
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	doc, err := dom.ParseString(`<div class="promo-box">buy</div><div class="footer">kept</div>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := NewDocumentCleaner(Options{Catalog: cat}).Clean(doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := dom.TextContent(dom.Root(doc))
	if strings.Contains(text, "buy") || !strings.Contains(text, "kept") {
		t.Errorf("unexpected text after custom catalog: %q", text)
	}
}
