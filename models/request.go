package models

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatText     = "text"
)

// Extract modes. ExtractNone hands back the whole normalized body;
// ExtractReadability passes it on to the readability article extractor.
const (
	ExtractNone        = "none"
	ExtractReadability = "readability"
)

// CleanRequest is the payload for POST /api/v1/clean.
type CleanRequest struct {
	// HTML is the raw document to normalize. Required.
	HTML string `json:"html" binding:"required"`

	// URL is the document's source address. Used to resolve relative links
	// in markdown output and by the readability extractor. Optional.
	URL string `json:"url,omitempty" binding:"omitempty,url"`

	// OutputFormat controls the response body format.
	// Allowed: "markdown" (default), "html", "text".
	OutputFormat string `json:"output_format,omitempty" binding:"omitempty,oneof=markdown html text"`

	// ExtractMode controls what happens after normalization.
	// "none" (default): return the normalized body.
	// "readability": run readability over the normalized document.
	ExtractMode string `json:"extract_mode,omitempty" binding:"omitempty,oneof=none readability"`

	// IncludeTags scopes the body to elements matching these CSS selectors
	// before cleaning.
	IncludeTags []string `json:"include_tags,omitempty"`

	// ExcludeTags removes elements matching these CSS selectors before
	// cleaning.
	ExcludeTags []string `json:"exclude_tags,omitempty"`

	// IncludeReport attaches the per-pass report to the response.
	IncludeReport bool `json:"include_report,omitempty"`

	// MaxAge enables the response cache: a cached result younger than
	// MaxAge milliseconds is returned as-is. 0 disables caching.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *CleanRequest) Defaults() {
	if r.OutputFormat == "" {
		r.OutputFormat = FormatMarkdown
	}
	if r.ExtractMode == "" {
		r.ExtractMode = ExtractNone
	}
}
