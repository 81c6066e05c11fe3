package cleaner

import (
	"errors"
	"strings"
	"testing"

	"github.com/use-agent/docscrub/dom"
	"github.com/use-agent/docscrub/models"
)

func TestCleaner_Clean_Formats(t *testing.T) {
	cl := NewCleaner(Config{})

	tests := []struct {
		format   string
		contains []string
		absent   []string
	}{
		{models.FormatHTML, []string{"<p>Intro text with <b>bold</b> words.</p>", "<p>Second line.</p>"}, []string{"navbar", "<script"}},
		{models.FormatText, []string{"Intro text with bold words.\n\nSecond line."}, []string{"<p>", "Copyright"}},
		{models.FormatMarkdown, []string{"Intro text with **bold** words.", "Second line."}, []string{"<p>", "tweet"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, err := cl.Clean(sampleArticle, "https://example.com/story", tt.format, models.ExtractNone)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !resp.Success {
				t.Fatal("expected success")
			}
			for _, s := range tt.contains {
				if !strings.Contains(resp.Content, s) {
					t.Errorf("content missing %q:\n%s", s, resp.Content)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(resp.Content, s) {
					t.Errorf("content should not contain %q:\n%s", s, resp.Content)
				}
			}
			if resp.Metadata.Title != "T" {
				t.Errorf("title = %q, want %q", resp.Metadata.Title, "T")
			}
			if resp.Tokens.OriginalEstimate <= resp.Tokens.CleanedEstimate {
				t.Errorf("expected token savings, got %+v", resp.Tokens)
			}
			if resp.Report != nil {
				t.Error("report should only be attached on request")
			}
		})
	}
}

func TestCleaner_Clean_Report(t *testing.T) {
	cl := NewCleaner(Config{})
	resp, err := cl.Clean(sampleArticle, "", models.FormatHTML, models.ExtractNone, CleanOptions{IncludeReport: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Report == nil {
		t.Fatal("expected a report")
	}
	if p, ok := resp.Report.Pass("removeNoiseByAttribute:noise"); !ok || p.Removed == 0 {
		t.Errorf("noise pass should have removed nodes: %+v", p)
	}
	if resp.ContentFingerprint == 0 {
		t.Error("expected a content fingerprint")
	}
}

func TestCleaner_Clean_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		html string
		opts CleanOptions
		code string
	}{
		{"empty", Config{}, "   ", CleanOptions{}, models.ErrCodeInvalidInput},
		{"too large", Config{MaxInputBytes: 10}, "<p>this is longer than ten bytes</p>", CleanOptions{}, models.ErrCodeInputTooLarge},
		{"bad selector", Config{}, "<p>x</p>", CleanOptions{ExcludeTags: []string{"p[[["}}, models.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCleaner(tt.cfg).Clean(tt.html, "", models.FormatHTML, models.ExtractNone, tt.opts)
			var ce *models.CleanError
			if !errors.As(err, &ce) {
				t.Fatalf("expected CleanError, got %v", err)
			}
			if ce.Code != tt.code {
				t.Errorf("code = %q, want %q", ce.Code, tt.code)
			}
		})
	}
}

func TestFilterDocument(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		want    string
	}{
		{"no filters", nil, nil, `<header>h</header><main><p>m</p><aside>a</aside></main>`},
		{"exclude", nil, []string{"aside", "header"}, `<main><p>m</p></main>`},
		{"include", []string{"main"}, nil, `<main><p>m</p><aside>a</aside></main>`},
		{"include nested keeps outermost", []string{"main", "p"}, []string{"aside"}, `<main><p>m</p></main>`},
		{"include without match", []string{"article"}, nil, `<header>h</header><main><p>m</p><aside>a</aside></main>`},
		{"include body keeps everything", []string{"body"}, nil, `<header>h</header><main><p>m</p><aside>a</aside></main>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := dom.ParseString(`<header>h</header><main><p>m</p><aside>a</aside></main>`)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if err := FilterDocument(doc, tt.include, tt.exclude); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			body := dom.ByTag(dom.Root(doc), "body")[0]
			if got := innerHTML(t, body); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if err := dom.Validate(dom.Root(doc)); err != nil {
				t.Errorf("tree invalid: %v", err)
			}
		})
	}
}

func TestExtractArticle_Fallback(t *testing.T) {
	article, ok := ExtractArticle(`<html><body><p>short</p></body></html>`, "https://example.com", "<p>short</p>", "short")
	if ok {
		t.Fatal("short content should fall back")
	}
	if article.Content != "<p>short</p>" || article.TextContent != "short" {
		t.Errorf("unexpected fallback article: %+v", article)
	}

	_, ok = ExtractArticle(`<p>x</p>`, "://bad url", "<p>x</p>", "x")
	if ok {
		t.Error("invalid URL should fall back")
	}
}

func TestCleaner_Clean_Readability(t *testing.T) {
	long := strings.Repeat("This sentence carries enough words to count as real article content. ", 12)
	src := `<html><head><title>Story</title></head><body>` +
		`<div class="navbar"><a href="/">Home</a></div>` +
		`<article><h1>Story</h1><div>` + long + `</div><div>` + long + `</div></article>` +
		`</body></html>`

	resp, err := NewCleaner(Config{}).Clean(src, "https://example.com/story", models.FormatText, models.ExtractReadability)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(resp.Content, "real article content") {
		t.Errorf("article text missing:\n%s", resp.Content)
	}
	if strings.Contains(resp.Content, "Home") {
		t.Errorf("navigation leaked into output:\n%s", resp.Content)
	}
	if resp.Metadata.Title == "" {
		t.Error("expected a title")
	}
}

func TestSavingsPercent(t *testing.T) {
	tests := []struct {
		orig, cleaned int
		want          float64
	}{
		{0, 0, 0},
		{100, 25, 75},
		{3, 1, 66.67},
		{10, 20, -100},
	}
	for _, tt := range tests {
		if got := SavingsPercent(tt.orig, tt.cleaned); got != tt.want {
			t.Errorf("SavingsPercent(%d, %d) = %v, want %v", tt.orig, tt.cleaned, got, tt.want)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcdef", 2},
		{"日本語の文章", 2},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.in); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestExtractMetadata(t *testing.T) {
	tests := []struct {
		name string
		head string
		want models.Metadata
	}{
		{
			name: "plain meta",
			head: `<title> Plain </title><meta name="description" content="about"><meta name="author" content="Ann">`,
			want: models.Metadata{Title: "Plain", Excerpt: "about", Author: "Ann", Language: "en"},
		},
		{
			name: "open graph wins",
			head: `<title>Plain</title><meta name="description" content="about">` +
				`<meta property="og:title" content="OG"><meta property="og:description" content="og about">` +
				`<meta property="og:site_name" content="Site">`,
			want: models.Metadata{Title: "OG", Excerpt: "og about", SiteName: "Site", Language: "en"},
		},
		{
			name: "empty content ignored",
			head: `<title>X</title><meta name="author" content=" ">`,
			want: models.Metadata{Title: "X", Language: "en"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := dom.ParseString(`<html lang="en"><head>` + tt.head + `</head><body><p>x</p></body></html>`)
			if err != nil {
				t.Fatal(err)
			}
			if got := ExtractMetadata(doc); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func BenchmarkCleaner_Clean(b *testing.B) {
	cl := NewCleaner(Config{})
	for _, format := range []string{models.FormatHTML, models.FormatText, models.FormatMarkdown} {
		b.Run(format, func(b *testing.B) {
			b.SetBytes(int64(len(sampleArticle)))
			for b.Loop() {
				if _, err := cl.Clean(sampleArticle, "", format, models.ExtractNone); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
