package main

import "github.com/blackfriday/blackfriday"

// extensionBits maps the config/CLI extension names to their bit.
var extensionBits = map[string]uint32{
	"no-intra-emphasis": blackfriday.EXTENSION_NO_INTRA_EMPHASIS,
	"tables":            blackfriday.EXTENSION_TABLES,
	"fenced-code":       blackfriday.EXTENSION_FENCED_CODE,
	"autolink":          blackfriday.EXTENSION_AUTOLINK,
	"strikethrough":     blackfriday.EXTENSION_STRIKETHROUGH,
	"ins":               blackfriday.EXTENSION_INS,
	"lax-spacing":       blackfriday.EXTENSION_LAX_SPACING,
	"space-headers":     blackfriday.EXTENSION_SPACE_HEADERS,
	"superscript":       blackfriday.EXTENSION_SUPERSCRIPT,
	"footnotes":         blackfriday.EXTENSION_FOOTNOTES,
	"hard-line-break":   blackfriday.EXTENSION_HARD_LINE_BREAK,
	"no-expand-tabs":    blackfriday.EXTENSION_NO_EXPAND_TABS,
	"tab-size-eight":    blackfriday.EXTENSION_TAB_SIZE_EIGHT,
}

// htmlFlagBits maps the config/CLI HTML renderer flag names to their bit.
var htmlFlagBits = map[string]int{
	"skip-html":   blackfriday.HTML_SKIP_HTML,
	"skip-style":  blackfriday.HTML_SKIP_STYLE,
	"skip-links":  blackfriday.HTML_SKIP_LINKS,
	"skip-images": blackfriday.HTML_SKIP_IMAGES,
	"expand-tabs": blackfriday.HTML_EXPAND_TABS,
	"safelink":    blackfriday.HTML_SAFELINK,
	"toc":         blackfriday.HTML_TOC,
	"hard-wrap":   blackfriday.HTML_HARD_WRAP,
	"use-xhtml":   blackfriday.HTML_USE_XHTML,
	"escape":      blackfriday.HTML_ESCAPE,
	"outline":     blackfriday.HTML_OUTLINE,
}

// commonExtensionNames is applied when no extensions are named at all,
// mirroring the package-level commonExtensions convenience combination.
var commonExtensionNames = []string{
	"no-intra-emphasis", "tables", "fenced-code", "autolink",
	"strikethrough", "space-headers", "footnotes",
}

func extensionsFromNames(names []string) uint32 {
	if len(names) == 0 {
		names = commonExtensionNames
	}
	var flags uint32
	for _, name := range names {
		if name == "common" {
			for _, n := range commonExtensionNames {
				flags |= extensionBits[n]
			}
			continue
		}
		flags |= extensionBits[name]
	}
	return flags
}

func htmlFlagsFromNames(names []string) int {
	var flags int
	for _, name := range names {
		flags |= htmlFlagBits[name]
	}
	return flags
}
