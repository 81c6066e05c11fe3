package patterns

import "strings"

// inlineTags is the fixed set of tags treated as part of a textual run.
// br is deliberately absent: it breaks a run.
var inlineTags = map[string]struct{}{
	"a": {}, "abbr": {}, "acronym": {}, "b": {}, "basefont": {}, "bdo": {},
	"big": {}, "cite": {}, "code": {}, "dfn": {}, "em": {}, "font": {},
	"i": {}, "input": {}, "kbd": {}, "label": {}, "q": {}, "s": {},
	"samp": {}, "select": {}, "small": {}, "span": {}, "strike": {},
	"strong": {}, "sub": {}, "sup": {}, "textarea": {}, "tt": {}, "u": {},
	"var": {},
}

// IsInline reports whether tag belongs to the inline-tag set.
func IsInline(tag string) bool {
	_, ok := inlineTags[strings.ToLower(tag)]
	return ok
}

// DropCapClasses are class tokens marking an oversized first letter.
var DropCapClasses = []string{"dropcap", "drop_cap"}

// DropCapSelector matches spans carrying any drop-cap class token.
func DropCapSelector() string {
	parts := make([]string, 0, len(DropCapClasses))
	for _, c := range DropCapClasses {
		parts = append(parts, "span[class~="+c+"]")
	}
	return strings.Join(parts, ", ")
}

// ParagraphSpanSelector matches spans nested anywhere under a paragraph.
const ParagraphSpanSelector = "p span"
