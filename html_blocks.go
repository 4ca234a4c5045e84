//
//
// HTML block tag whitelist
//
//

package blackfriday

import "strings"

// blockTags lists the HTML tags that are recognised as block-level when
// they open a line: any of these can appear in markdown text without
// special escaping and the whole tag-delimited region is passed through
// verbatim as an HTML block. Lookup is case-insensitive (findBlockTag
// lowercases before indexing).
var blockTags = map[string]bool{
	"p":          true,
	"dl":         true,
	"dt":         true,
	"dd":         true,
	"h1":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"h5":         true,
	"h6":         true,
	"ol":         true,
	"ul":         true,
	"li":         true,
	"del":        true,
	"div":        true,
	"ins":        true,
	"pre":        true,
	"form":       true,
	"math":       true,
	"table":      true,
	"thead":      true,
	"tbody":      true,
	"tfoot":      true,
	"tr":         true,
	"td":         true,
	"th":         true,
	"iframe":     true,
	"script":     true,
	"noscript":   true,
	"style":      true,
	"section":    true,
	"article":    true,
	"aside":      true,
	"header":     true,
	"footer":     true,
	"nav":        true,
	"figure":     true,
	"figcaption": true,
	"fieldset":   true,
	"legend":     true,
	"blockquote": true,
	"address":    true,
	"details":    true,
	"summary":    true,
	"hr":         true,
	"video":      true,
	"audio":      true,
	"canvas":     true,
	"output":     true,
	"progress":   true,
	"colgroup":   true,
	"col":        true,
	"button":     true,
}

// findBlockTag reports whether name is a recognised HTML block tag,
// accepting either case, and returns its canonical (lowercase) spelling.
func findBlockTag(name []byte) (string, bool) {
	if len(name) == 0 {
		return "", false
	}
	lower := strings.ToLower(string(name))
	if blockTags[lower] {
		return lower, true
	}
	return "", false
}
