//
// Black Friday Markdown Processor
// Originally based on http://github.com/tanoku/upskirt
// by Russ Ross <russ@russross.com>
//

//
//
// Markdown parsing and processing
//
//

// Package blackfriday implements a two-pass Markdown-to-event parser in
// the Sundown/Upskirt lineage: a reference-scanning first pass extracts
// link and footnote definitions, and a block/inline second pass drives a
// caller-supplied Renderer through a fixed set of callbacks. The package
// itself never decides how a construct is serialized; it only recognises
// Markdown syntax and calls back into whatever Renderer the caller wires
// up (see html.go for the bundled HTML renderer).
package blackfriday

import (
	"bytes"
)

// VERSION is the current release of the parser.
const VERSION = "2.0"

// These are the supported markdown parsing extensions.
// OR these values together to select multiple extensions.
const (
	EXTENSION_NO_INTRA_EMPHASIS = 1 << iota
	EXTENSION_TABLES
	EXTENSION_FENCED_CODE
	EXTENSION_AUTOLINK
	EXTENSION_STRIKETHROUGH
	EXTENSION_INS
	EXTENSION_LAX_SPACING
	EXTENSION_SPACE_HEADERS
	EXTENSION_SUPERSCRIPT
	EXTENSION_FOOTNOTES
	EXTENSION_HARD_LINE_BREAK
	EXTENSION_NO_EXPAND_TABS
	EXTENSION_TAB_SIZE_EIGHT

	commonExtensions = EXTENSION_NO_INTRA_EMPHASIS | EXTENSION_TABLES |
		EXTENSION_FENCED_CODE | EXTENSION_AUTOLINK | EXTENSION_STRIKETHROUGH |
		EXTENSION_SPACE_HEADERS | EXTENSION_FOOTNOTES
)

// These are the possible flag values for the link renderer.
// Only a single one of these values will be used; they are not ORed together.
// These are mostly of interest if you are writing a new output format.
const (
	LINK_TYPE_NOT_AUTOLINK = iota
	LINK_TYPE_NORMAL
	LINK_TYPE_EMAIL
)

// These are the possible flag values for the listitem renderer.
// Multiple flag values may be ORed together.
// These are mostly of interest if you are writing a new output format.
const (
	LIST_TYPE_ORDERED = 1 << iota
	LIST_ITEM_CONTAINS_BLOCK
	LIST_ITEM_END_OF_LIST
	LIST_ITEM_BEGINNING_OF_LIST
)

// These are the possible flag values for the table cell renderer.
// Only a single one of these values will be used; they are not ORed together.
// These are mostly of interest if you are writing a new output format.
const (
	TABLE_ALIGNMENT_LEFT = 1 << iota
	TABLE_ALIGNMENT_RIGHT
	TABLE_ALIGNMENT_CENTER = (TABLE_ALIGNMENT_LEFT | TABLE_ALIGNMENT_RIGHT)
)

// The size of a tab stop.
const (
	TAB_SIZE_DEFAULT = 4
	TAB_SIZE_EIGHT   = 8
)

// defaultNesting bounds recursive block/inline re-entry; it is the one
// defence against adversarial deeply-nested input.
const defaultNesting = 16

// This struct defines the rendering interface.
// A series of callback functions are registered to form a complete renderer.
// A single interface{} value field is provided, and that value is handed to
// each callback. Leaving a field blank suppresses rendering that type of
// output except where noted.
//
// This is mostly of interest if you are implementing a new rendering format.
// Most users will use NewHtmlRenderer to fill in this structure.
type Renderer struct {
	// block-level callbacks---nil skips the block
	BlockCode    func(out *bytes.Buffer, text []byte, lang string, opaque interface{})
	BlockQuote   func(out *bytes.Buffer, text []byte, opaque interface{})
	BlockHtml    func(out *bytes.Buffer, text []byte, opaque interface{})
	Header       func(out *bytes.Buffer, text []byte, level int, opaque interface{})
	HRule        func(out *bytes.Buffer, opaque interface{})
	List         func(out *bytes.Buffer, text []byte, flags int, opaque interface{})
	ListItem     func(out *bytes.Buffer, text []byte, flags int, opaque interface{})
	Paragraph    func(out *bytes.Buffer, text []byte, opaque interface{})
	Table        func(out *bytes.Buffer, header []byte, body []byte, columns []int, opaque interface{})
	TableRow     func(out *bytes.Buffer, text []byte, opaque interface{})
	TableCell    func(out *bytes.Buffer, text []byte, flags int, opaque interface{})
	Footnotes    func(out *bytes.Buffer, text func() bool, opaque interface{})
	FootnoteItem func(out *bytes.Buffer, name []byte, text []byte, flags int, opaque interface{})

	// span-level callbacks---nil or return false prints the span verbatim
	AutoLink       func(out *bytes.Buffer, link []byte, kind int, opaque interface{}) bool
	CodeSpan       func(out *bytes.Buffer, text []byte, opaque interface{}) bool
	DoubleEmphasis func(out *bytes.Buffer, text []byte, opaque interface{}) bool
	Emphasis       func(out *bytes.Buffer, text []byte, opaque interface{}) bool
	Image          func(out *bytes.Buffer, link []byte, title []byte, alt []byte, opaque interface{}) bool
	LineBreak      func(out *bytes.Buffer, opaque interface{}) bool
	Link           func(out *bytes.Buffer, link []byte, title []byte, content []byte, opaque interface{}) bool
	RawHtmlTag     func(out *bytes.Buffer, tag []byte, opaque interface{}) bool
	TripleEmphasis func(out *bytes.Buffer, text []byte, opaque interface{}) bool
	StrikeThrough  func(out *bytes.Buffer, text []byte, opaque interface{}) bool
	Insert         func(out *bytes.Buffer, text []byte, opaque interface{}) bool
	Superscript    func(out *bytes.Buffer, text []byte, opaque interface{}) bool
	FootnoteRef    func(out *bytes.Buffer, ref []byte, id int, opaque interface{}) bool

	// low-level callbacks---nil copies input directly into the output
	Entity     func(out *bytes.Buffer, entity []byte, opaque interface{})
	NormalText func(out *bytes.Buffer, text []byte, opaque interface{})

	// header and footer
	DocumentHeader  func(out *bytes.Buffer, opaque interface{})
	DocumentFooter  func(out *bytes.Buffer, opaque interface{})
	DocumentOutline func(out *bytes.Buffer, opaque interface{})

	// user data---passed back to every callback
	Opaque interface{}
}

type inlineParser func(out *bytes.Buffer, rndr *render, data []byte, offset int) int

// render carries all per-invocation state for one call to Markdown. It is
// not safe for concurrent use; two concurrent renders need two of these.
type render struct {
	mk             *Renderer
	refs           *refTable
	footnotesFound *footnoteList
	footnotesUsed  *footnoteList
	inline         [256]inlineParser
	flags          uint32
	blockBufs      bufferPool
	spanBufs       bufferPool
	maxNesting     int
	inLinkBody     bool
}

// nestingOK reports whether one more level of block/inline recursion is
// allowed. It is the sole defence against adversarial deeply-nested input:
// when it returns false the caller must emit nothing and return.
func (rndr *render) nestingOK() bool {
	return rndr.blockBufs.size()+rndr.spanBufs.size() < rndr.maxNesting
}

//
//
// Public interface
//
//

// Markdown parses and renders a block of markdown-encoded text.
// The renderer is used to format the output, and extensions dictates which
// non-standard extensions are enabled.
func Markdown(input []byte, renderer *Renderer, extensions uint32) []byte {
	// no point in parsing if we can't render
	if renderer == nil {
		return nil
	}

	// fill in the render structure
	rndr := new(render)
	rndr.mk = renderer
	rndr.flags = extensions
	rndr.refs = newRefTable()
	rndr.footnotesFound = newFootnoteList()
	rndr.footnotesUsed = newFootnoteList()
	rndr.maxNesting = defaultNesting

	// register inline parsers: entries of the 256-entry active-character
	// dispatch table are filled only for triggers whose callback is
	// present, except '<', '\\' and '&', which are always armed.
	if rndr.mk.Emphasis != nil || rndr.mk.DoubleEmphasis != nil || rndr.mk.TripleEmphasis != nil {
		rndr.inline['*'] = inlineEmphasis
		rndr.inline['_'] = inlineEmphasis
		if extensions&EXTENSION_STRIKETHROUGH != 0 {
			rndr.inline['~'] = inlineEmphasis
		}
		if extensions&EXTENSION_INS != 0 {
			rndr.inline['+'] = inlineEmphasis
		}
	} else {
		if extensions&EXTENSION_STRIKETHROUGH != 0 && rndr.mk.StrikeThrough != nil {
			rndr.inline['~'] = inlineEmphasis
		}
		if extensions&EXTENSION_INS != 0 && rndr.mk.Insert != nil {
			rndr.inline['+'] = inlineEmphasis
		}
	}
	if rndr.mk.CodeSpan != nil {
		rndr.inline['`'] = inlineCodespan
	}
	if rndr.mk.LineBreak != nil {
		rndr.inline['\n'] = inlineLinebreak
	}
	if rndr.mk.Image != nil || rndr.mk.Link != nil || (extensions&EXTENSION_FOOTNOTES != 0 && rndr.mk.FootnoteRef != nil) {
		rndr.inline['['] = inlineLink
	}
	rndr.inline['<'] = inlineLangle
	rndr.inline['\\'] = inlineEscape
	rndr.inline['&'] = inlineEntity
	if extensions&EXTENSION_SUPERSCRIPT != 0 && rndr.mk.Superscript != nil {
		rndr.inline['^'] = inlineSuperscript
	}

	if extensions&EXTENSION_AUTOLINK != 0 && rndr.mk.AutoLink != nil {
		rndr.inline['h'] = inlineAutolink // http, https
		rndr.inline['H'] = inlineAutolink

		rndr.inline['f'] = inlineAutolink // ftp
		rndr.inline['F'] = inlineAutolink

		rndr.inline['m'] = inlineAutolink // mailto
		rndr.inline['M'] = inlineAutolink

		rndr.inline['w'] = inlineAutolink // www.
		rndr.inline['W'] = inlineAutolink

		rndr.inline[':'] = inlineAutolink
		rndr.inline['@'] = inlineAutolink
	}

	// first pass: expand tabs, normalise line endings, strip a BOM and
	// extract link/footnote reference definitions
	text := firstPass(rndr, input, extensions)

	// second pass: actual rendering
	output := bytes.NewBuffer(nil)
	output.Grow(len(input) + len(input)/2)

	if rndr.mk.DocumentHeader != nil {
		rndr.mk.DocumentHeader(output, rndr.mk.Opaque)
	}

	if text.Len() > 0 {
		// add a final newline if not already present so the block parser's
		// line-based state machine terminates cleanly
		finalchar := text.Bytes()[text.Len()-1]
		if finalchar != '\n' && finalchar != '\r' {
			text.WriteByte('\n')
		}
		parseBlock(output, rndr, text.Bytes())
	}

	if extensions&EXTENSION_FOOTNOTES != 0 && rndr.footnotesUsed.count > 0 {
		renderFootnotes(output, rndr)
	}

	if rndr.mk.DocumentFooter != nil {
		rndr.mk.DocumentFooter(output, rndr.mk.Opaque)
	}
	if rndr.mk.DocumentOutline != nil {
		rndr.mk.DocumentOutline(output, rndr.mk.Opaque)
	}

	if rndr.blockBufs.size() != 0 || rndr.spanBufs.size() != 0 {
		panic("blackfriday: work-buffer pool not empty at end of render")
	}

	return output.Bytes()
}
