// Package patterns holds the static catalog of boilerplate signatures used to
// prune a document before paragraph normalization.
//
// The catalog is data: every expression lives in a table so it can be tested
// without building a tree. Expressions are compiled once, case-insensitively,
// and applied with search (unanchored) semantics unless they anchor
// themselves.
package patterns

import (
	"fmt"
	"regexp"
	"strings"
)

// Attribute names a rule can be tested against.
const (
	AttrID    = "id"
	AttrClass = "class"
	AttrName  = "name"
)

// noiseTokens are the alternatives of the composite noise pattern:
// navigation, ads, footers, social widgets, bylines and similar chrome.
var noiseTokens = []string{
	"^side$", "combx", "retweet", "mediaarticlerelated", "menucontainer",
	"navbar", "storytopbar-bucket", "utility-bar", "inline-share-tools",
	"comment", "PopularQuestions", "contact", "foot", "footer", "Footer", "footnote",
	"cnn_strycaptiontxt", "cnn_html_slideshow", "cnn_strylftcntnt",
	"links", "meta$", "shoutbox", "sponsor",
	"tags", "socialnetworking", "socialNetworking", "cnnStryHghLght",
	"cnn_stryspcvbx", "^inset$", "pagetools", "post-attributes",
	"welcome_form", "contentTools2", "the_answers",
	"communitypromo", "runaroundLeft", "subscribe", "vcard", "articleheadings",
	"date", "^print$", "popup", "author-dropdown", "tools", "socialtools", "byline",
	"konafilter", "KonaFilter", "breadcrumbs", "^fn$", "wp-caption-text",
	"legende", "ajoutVideo", "timestamp", "js_replies",
	"social", "share", "advert", "navigation", "^nav$", "^ads?$",
}

// NoiseExpr is the composite noise alternation.
var NoiseExpr = strings.Join(noiseTokens, "|")

// Definition is an uncompiled catalog entry.
type Definition struct {
	Name  string
	Expr  string
	Attrs []string
}

// Definitions is the default catalog in application order. The composite
// noise pattern comes first; the narrow single-purpose patterns only make
// sense once boilerplate chrome has been removed.
var Definitions = []Definition{
	{Name: "noise", Expr: NoiseExpr, Attrs: []string{AttrID, AttrClass, AttrName}},
	{Name: "caption", Expr: `^caption$`, Attrs: []string{AttrID, AttrClass}},
	{Name: "google", Expr: ` google `, Attrs: []string{AttrID, AttrClass}},
	{Name: "entries", Expr: `^[^entry-]more.*$`, Attrs: []string{AttrID, AttrClass}},
	{Name: "facebook", Expr: `[^-]facebook`, Attrs: []string{AttrID, AttrClass}},
	{Name: "facebook_broadcasting", Expr: `facebook-broadcasting`, Attrs: []string{AttrID, AttrClass}},
	{Name: "twitter", Expr: `[^-]twitter`, Attrs: []string{AttrID, AttrClass}},
}

// Rule is a compiled catalog entry.
type Rule struct {
	Name  string
	Re    *regexp.Regexp
	Attrs []string
}

// Matches reports whether value matches the rule.
func (r Rule) Matches(value string) bool {
	return r.Re.MatchString(value)
}

// Catalog is an ordered, compiled set of rules. It is immutable after
// construction and safe for concurrent use.
type Catalog struct {
	rules []Rule
}

// Compile builds a Catalog from defs, preserving their order.
func Compile(defs []Definition) (*Catalog, error) {
	rules := make([]Rule, 0, len(defs))
	for _, d := range defs {
		if len(d.Attrs) == 0 {
			return nil, fmt.Errorf("patterns: %q has no attributes", d.Name)
		}
		re, err := regexp.Compile("(?i)" + d.Expr)
		if err != nil {
			return nil, fmt.Errorf("patterns: compile %q: %w", d.Name, err)
		}
		rules = append(rules, Rule{
			Name:  d.Name,
			Re:    re,
			Attrs: append([]string(nil), d.Attrs...),
		})
	}
	return &Catalog{rules: rules}, nil
}

var defaultCatalog = mustCompile(Definitions)

func mustCompile(defs []Definition) *Catalog {
	c, err := Compile(defs)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Rules returns the rules in application order.
func (c *Catalog) Rules() []Rule {
	return c.rules
}

// Rule looks up a rule by name.
func (c *Catalog) Rule(name string) (Rule, bool) {
	for _, r := range c.rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}
