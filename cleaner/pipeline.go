package cleaner

import (
	"log/slog"
	"strings"
	"time"

	"github.com/use-agent/docscrub/dom"
	"github.com/use-agent/docscrub/models"
	"github.com/use-agent/docscrub/render"
	"github.com/use-agent/docscrub/simhash"
)

// Cleaner orchestrates the full cleaning pipeline around DocumentCleaner:
//
//	Stage 1 (normalize): prune boilerplate and turn inline runs into paragraphs
//	Stage 2 (extract):   optionally hand the result to readability
//	Stage 3 (render):    serialize to Markdown, HTML or text
//
// The document cleaner and renderer are created once and reused across all
// requests (goroutine-safe).
type Cleaner struct {
	doc      *DocumentCleaner
	renderer *render.Renderer
	maxInput int
}

// Config tunes a Cleaner.
type Config struct {
	Options

	// MaxInputBytes rejects larger documents with INPUT_TOO_LARGE. 0 means
	// no limit.
	MaxInputBytes int
}

// NewCleaner initialises the Cleaner.
func NewCleaner(cfg Config) *Cleaner {
	return &Cleaner{
		doc:      NewDocumentCleaner(cfg.Options),
		renderer: render.New(),
		maxInput: cfg.MaxInputBytes,
	}
}

// CleanOptions carries optional parameters for one pipeline run.
type CleanOptions struct {
	IncludeTags   []string
	ExcludeTags   []string
	IncludeReport bool
}

// Clean runs the full pipeline over rawHTML and returns a partial
// CleanResponse (Content, Metadata, Tokens, Report; Timing is left to the
// caller).
//
// Flow:
//  1. Estimate original tokens from raw HTML.
//  2. Parse; apply include/exclude tag filters (if provided); read <head>
//     metadata.
//  3. DocumentCleaner: pruning and paragraph normalization, in place.
//  4. Optional readability extraction over the normalized document.
//  5. Convert to the requested output format.
//  6. Estimate cleaned tokens and compute savings.
func (c *Cleaner) Clean(rawHTML string, sourceURL string, format string, extractMode string, opts ...CleanOptions) (*models.CleanResponse, error) {
	var o CleanOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	if strings.TrimSpace(rawHTML) == "" {
		return nil, models.NewCleanError(models.ErrCodeInvalidInput, "html is empty", nil)
	}
	if c.maxInput > 0 && len(rawHTML) > c.maxInput {
		return nil, models.NewCleanError(models.ErrCodeInputTooLarge, "html exceeds the configured size limit", nil)
	}

	// ── 1. Original token estimate ──────────────────────────────────
	originalTokens := EstimateTokens(rawHTML)

	// ── 2. Parse + content filtering ────────────────────────────────
	doc, err := dom.ParseString(rawHTML)
	if err != nil {
		return nil, models.NewCleanError(models.ErrCodeParse, "html could not be parsed", err)
	}
	meta := ExtractMetadata(doc)
	meta.SourceURL = sourceURL
	if err := FilterDocument(doc, o.IncludeTags, o.ExcludeTags); err != nil {
		return nil, err
	}

	// ── 3. Normalize ────────────────────────────────────────────────
	report, err := c.doc.Clean(doc)
	if err != nil {
		if _, ok := err.(*models.CleanError); ok {
			return nil, err
		}
		return nil, models.NewCleanError(models.ErrCodeInternal, "cleaning failed", err)
	}

	body, err := render.BodyHTML(doc)
	if err != nil {
		return nil, models.NewCleanError(models.ErrCodeRender, "serializing cleaned body failed", err)
	}

	fragment := body

	// ── 4. Downstream extraction ────────────────────────────────────
	if extractMode == models.ExtractReadability {
		full, err := dom.Render(dom.Root(doc))
		if err != nil {
			return nil, models.NewCleanError(models.ErrCodeRender, "serializing cleaned document failed", err)
		}
		article, ok := ExtractArticle(full, sourceURL, body, render.Text(dom.Root(doc)))
		if ok {
			fragment = article.Content
		}
		meta.Title = firstNonEmpty(article.Title, meta.Title)
		meta.Excerpt = firstNonEmpty(article.Excerpt, meta.Excerpt)
		meta.SiteName = firstNonEmpty(article.SiteName, meta.SiteName)
		meta.Author = firstNonEmpty(article.Byline, meta.Author)
		meta.Language = firstNonEmpty(article.Language, meta.Language)
	}

	// ── 5. Format conversion ────────────────────────────────────────
	renderStart := time.Now()
	content, err := c.renderer.Render(fragment, format, sourceURL)
	if err != nil {
		return nil, models.NewCleanError(models.ErrCodeRender, format+" conversion failed", err)
	}
	slog.Debug("cleaner: rendered",
		"format", format,
		"bytes", len(content),
		"render_us", time.Since(renderStart).Microseconds(),
	)

	// ── 6. Cleaned token estimate, savings, fingerprint ─────────────
	cleanedTokens := EstimateTokens(content)

	resp := &models.CleanResponse{
		Success:            true,
		Content:            content,
		Metadata:           meta,
		ContentFingerprint: simhash.Fingerprint(content),
		Tokens: models.TokenInfo{
			OriginalEstimate: originalTokens,
			CleanedEstimate:  cleanedTokens,
			SavingsPercent:   SavingsPercent(originalTokens, cleanedTokens),
		},
	}
	if o.IncludeReport {
		resp.Report = report
	}
	return resp, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
