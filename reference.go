//
//
// Link references
//
//
// This section implements support for references that (usually) appear
// as footnotes in a document, and can be referenced anywhere in the
// document. The basic format is:
//
//    [1]: http://www.google.com/ "Google"
//    [2]: http://www.github.com/ "Github"
//
// Anywhere in the document, the reference can be linked by referring to
// its label, i.e., 1 and 2 in this example, as in:
//
//    This library is hosted on [Github][2], a git hosting site.
//
// Footnotes use the same bucket of label syntax, prefixed with '^':
//
//    See the note.[^1]
//
//    [^1]: This is the note.

package blackfriday

import (
	"bytes"
	"strings"
)

// refTableWidth is the width of the fixed hash table backing reference
// and footnote lookups (§3: "a fixed-width hash table (open chaining)").
const refTableWidth = 256

// reference is one entry parsed out of a "[id]: url \"title\"" line.
type reference struct {
	id    string
	hash  uint32
	link  []byte
	title []byte
	next  *reference
}

// refTable is the link reference table: a fixed-width hash table with
// open chaining, keyed by a hash of the case-folded, whitespace-collapsed
// label.
//
// The original C implementation this package is modeled on compares
// entries by hash alone and never re-checks the raw label, which is a
// collision hazard on adversarial input. This port preserves the
// observable behaviour for well-formed documents but additionally
// compares the normalised label bytes on lookup, per the design note in
// spec §9; a hash collision between two distinct labels therefore no
// longer resolves to the wrong link here.
type refTable struct {
	buckets [refTableWidth]*reference
}

func newRefTable() *refTable {
	return &refTable{}
}

// normalizeLabel case-folds (ASCII) and collapses internal whitespace
// runs to a single space, trimming the ends. This is the label identity
// used both for the mixed-radix hash and the subsequent equality check.
func normalizeLabel(label []byte) string {
	var b strings.Builder
	b.Grow(len(label))
	sawSpace := true
	for _, c := range label {
		if isspace(c) {
			if !sawSpace {
				b.WriteByte(' ')
			}
			sawSpace = true
			continue
		}
		if c >= 'A' && c <= 'Z' {
			c = c - 'A' + 'a'
		}
		b.WriteByte(c)
		sawSpace = false
	}
	return strings.TrimRight(b.String(), " ")
}

// labelHash is a small mixed-radix hash, matching the spirit of the
// original source's id hash (not cryptographic; collisions are expected
// and tolerated via the chain + equality check above).
func labelHash(s string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(s); i++ {
		h = h*33 + uint32(s[i])
	}
	return h
}

func (t *refTable) add(label []byte, link, title []byte) {
	id := normalizeLabel(label)
	h := labelHash(id)
	idx := h % refTableWidth
	t.buckets[idx] = &reference{id: id, hash: h, link: link, title: title, next: t.buckets[idx]}
}

func (t *refTable) lookup(label []byte) (*reference, bool) {
	id := normalizeLabel(label)
	h := labelHash(id)
	idx := h % refTableWidth
	for r := t.buckets[idx]; r != nil; r = r.next {
		if r.hash == h && r.id == id {
			return r, true
		}
	}
	return nil, false
}

//
//
// First pass: reference and footnote extraction
//
//

// firstPass walks the raw document line by line, pulling out link and
// footnote reference definitions into rndr.refs / rndr.footnotesFound and
// copying everything else, tab-expanded, into the returned buffer. A
// leading UTF-8 BOM is skipped. CRLF and bare CR line endings are
// normalised to a single LF per original logical newline.
func firstPass(rndr *render, input []byte, extensions uint32) *boundedBuffer {
	data := input
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}

	tabSize := TAB_SIZE_DEFAULT
	if extensions&EXTENSION_TAB_SIZE_EIGHT != 0 {
		tabSize = TAB_SIZE_EIGHT
	}

	text := newBoundedBuffer()
	beg := 0
	for beg < len(data) {
		if extensions&EXTENSION_FOOTNOTES != 0 {
			if end := isFootnote(rndr, data, beg, len(data)); end > 0 {
				beg = end
				continue
			}
		}
		if end := isRef(rndr, data, beg, len(data)); end > 0 {
			beg = end
			continue
		}

		// not a reference line: copy through (tab-expanded) to the next
		// logical newline
		end := beg
		for end < len(data) && data[end] != '\n' && data[end] != '\r' {
			end++
		}
		if end > beg {
			if extensions&EXTENSION_NO_EXPAND_TABS != 0 {
				text.Put(data[beg:end])
				text.Put([]byte{'\n'})
			} else {
				expandTabs(&text.Buffer, data[beg:end], tabSize)
			}
		} else {
			text.Put([]byte{'\n'})
		}

		// consume the line ending, emitting exactly one '\n'
		if end < len(data) && data[end] == '\r' {
			end++
		}
		if end < len(data) && data[end] == '\n' {
			end++
		}
		beg = end
	}

	return text
}

// isRef recognises "^ {0,3}\[id\]:\s*<?url>?\s*(title)?" starting at
// data[beg:end) and, if it matches, registers the reference and returns
// the offset of the first byte after the construct. It returns 0 on no
// match.
func isRef(rndr *render, data []byte, beg, end int) int {
	i := beg
	if end-beg < 4 {
		return 0
	}

	n := 0
	for i < end && data[i] == ' ' && n < 3 {
		i++
		n++
	}
	if i >= end || data[i] != '[' {
		return 0
	}
	i++
	idOffset := i
	for i < end && data[i] != '\n' && data[i] != '\r' && data[i] != ']' {
		i++
	}
	if i >= end || data[i] != ']' {
		return 0
	}
	idEnd := i

	i++
	if i >= end || data[i] != ':' {
		return 0
	}
	i++
	for i < end && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	if i < end && (data[i] == '\n' || data[i] == '\r') {
		i++
		if i < end && data[i] == '\n' && data[i-1] == '\r' {
			i++
		}
	}
	for i < end && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	if i >= end {
		return 0
	}

	angled := false
	if data[i] == '<' {
		i++
		angled = true
	}
	linkOffset := i
	for i < end && data[i] != ' ' && data[i] != '\t' && data[i] != '\n' && data[i] != '\r' {
		if angled && data[i] == '>' {
			break
		}
		i++
	}
	linkEnd := i
	if angled && i < end && data[i] == '>' {
		i++
	}

	for i < end && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	if i < end && data[i] != '\n' && data[i] != '\r' && data[i] != '\'' && data[i] != '"' && data[i] != '(' {
		return 0
	}

	lineEnd := 0
	if i >= end || data[i] == '\r' || data[i] == '\n' {
		lineEnd = i
	}
	if i+1 < end && data[i] == '\r' && data[i+1] == '\n' {
		lineEnd++
	}

	if lineEnd > 0 {
		i = lineEnd + 1
		for i < end && (data[i] == ' ' || data[i] == '\t') {
			i++
		}
	}

	titleOffset, titleEnd := 0, 0
	if i+1 < end && (data[i] == '\'' || data[i] == '"' || data[i] == '(') {
		closing := data[i]
		if closing == '(' {
			closing = ')'
		}
		i++
		titleOffset = i
		for i < end && data[i] != '\n' && data[i] != '\r' {
			i++
		}
		if i+1 < end && data[i] == '\n' && data[i+1] == '\r' {
			titleEnd = i + 1
		} else {
			titleEnd = i
		}

		j := i - 1
		for j > titleOffset && (data[j] == ' ' || data[j] == '\t') {
			j--
		}
		if j > titleOffset && data[j] == closing {
			lineEnd = titleEnd
			titleEnd = j
		} else {
			titleOffset, titleEnd = 0, 0
		}
	}
	if lineEnd == 0 {
		return 0 // garbage after the link
	}

	rndr.refs.add(data[idOffset:idEnd], bytesClone(data[linkOffset:linkEnd]), bytesClone(data[titleOffset:titleEnd]))

	return lineEnd
}

// isFootnote recognises "^ {0,3}\[\^id\]:\s*", the rest of that line, and
// any following continuation lines indented by 4 or more spaces (blank
// lines between them are kept), accumulating the body (with newlines
// preserved) into a footnote registration. A non-indented, non-blank line
// ends the footnote. It returns the offset just past the whole construct,
// or 0 on no match.
func isFootnote(rndr *render, data []byte, beg, end int) int {
	i := beg
	n := 0
	for i < end && data[i] == ' ' && n < 3 {
		i++
		n++
	}
	if i >= end || data[i] != '[' || i+1 >= end || data[i+1] != '^' {
		return 0
	}
	i += 2
	idOffset := i
	for i < end && data[i] != '\n' && data[i] != '\r' && data[i] != ']' {
		i++
	}
	if i >= end || data[i] != ']' {
		return 0
	}
	idEnd := i
	i++
	if i >= end || data[i] != ':' {
		return 0
	}
	i++
	for i < end && (data[i] == ' ' || data[i] == '\t') {
		i++
	}

	contents := newBoundedBuffer()
	firstLineStart := i
	firstLineEnd := firstLineStart
	for firstLineEnd < end && data[firstLineEnd] != '\n' && data[firstLineEnd] != '\r' {
		firstLineEnd++
	}
	if firstLineEnd > firstLineStart {
		contents.Put(data[firstLineStart:firstLineEnd])
	}
	i = firstLineEnd
	if i < end && data[i] == '\r' {
		i++
	}
	if i < end && data[i] == '\n' {
		i++
	}

	// continuation lines: indented by >=4 spaces, or blank lines followed
	// by another indented line
	for i < end {
		lineStart := i
		lineEnd := lineStart
		for lineEnd < end && data[lineEnd] != '\n' && data[lineEnd] != '\r' {
			lineEnd++
		}
		line := data[lineStart:lineEnd]
		indent := 0
		for indent < len(line) && line[indent] == ' ' && indent < 4 {
			indent++
		}
		blank := len(bytes.TrimSpace(line)) == 0

		if indent >= 4 {
			contents.Put([]byte{'\n'})
			contents.Put(line[4:])
		} else if blank {
			// peek ahead: keep going only if another indented line follows
			peek := lineEnd
			if peek < end && data[peek] == '\r' {
				peek++
			}
			if peek < end && data[peek] == '\n' {
				peek++
			}
			peekIndent := 0
			for peekIndent < 4 && peek+peekIndent < end && data[peek+peekIndent] == ' ' {
				peekIndent++
			}
			if peekIndent < 4 {
				break
			}
			contents.Put([]byte{'\n'})
		} else {
			break
		}

		i = lineEnd
		if i < end && data[i] == '\r' {
			i++
		}
		if i < end && data[i] == '\n' {
			i++
		}
	}

	id := normalizeLabel(data[idOffset:idEnd])
	h := labelHash(id)
	ref := &footnoteRef{id: id, hash: h, contents: contents.Bytes()}
	idx := h % refTableWidth
	ref.hashNext = rndr.footnotesFound.buckets[idx]
	rndr.footnotesFound.buckets[idx] = ref
	rndr.footnotesFound.appendFound(ref)

	return i
}

func (rndr *render) lookupFootnote(label []byte) (*footnoteRef, bool) {
	id := normalizeLabel(label)
	h := labelHash(id)
	idx := h % refTableWidth
	for r := rndr.footnotesFound.buckets[idx]; r != nil; r = r.hashNext {
		if r.hash == h && r.id == id {
			return r, true
		}
	}
	return nil, false
}

func bytesClone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

//
//
// Miscellaneous helper functions
//
//

// Test if a character is a punctuation symbol.
// Taken from a private function in regexp in the stdlib.
func ispunct(c byte) bool {
	for _, r := range []byte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~") {
		if c == r {
			return true
		}
	}
	return false
}

// Test if a character is a whitespace character.
func isspace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// Test if a character is a letter or a digit.
func isalnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Test if a character is an ASCII digit.
func isdigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Replace tab characters with spaces, aligning to the next tabSize-column
// stop, counted from the start of line. Always ends output with a
// newline.
func expandTabs(out *bytes.Buffer, line []byte, tabSize int) {
	// first, check for common cases: no tabs, or only tabs at the
	// beginning of the line
	i, prefix := 0, 0
	slowcase := false
	for i = 0; i < len(line); i++ {
		if line[i] == '\t' {
			if prefix == i {
				prefix++
			} else {
				slowcase = true
				break
			}
		}
	}

	if !slowcase {
		for i = 0; i < prefix*tabSize; i++ {
			out.WriteByte(' ')
		}
		out.Write(line[prefix:])
		out.WriteByte('\n')
		return
	}

	// the slow case: count runes to figure out how many spaces to insert
	// for each tab
	column := 0
	i = 0
	for i < len(line) {
		start := i
		for i < len(line) && line[i] != '\t' {
			size := 1
			for size < len(line)-i && (line[i+size]&0xC0) == 0x80 {
				size++
			}
			i += size
			column++
		}

		if i > start {
			out.Write(line[start:i])
		}

		if i >= len(line) {
			break
		}

		for {
			out.WriteByte(' ')
			column++
			if column%tabSize == 0 {
				break
			}
		}

		i++
	}
	out.WriteByte('\n')
}
