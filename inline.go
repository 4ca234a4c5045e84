//
//
// Inline parsing (span-level)
//
//

package blackfriday

import "bytes"

// parseInline scans data left to right. The inactive run up to the next
// active character is emitted verbatim (via NormalText, or raw if that
// callback is absent); the active character then dispatches through
// rndr.inline. A handler returning 0 means "no match": the trigger byte
// is emitted as a literal and the cursor advances by exactly one byte
// (§7 CallbackRefusal covers the case where a handler recognises the
// syntax but its callback itself declines).
func parseInline(out *bytes.Buffer, rndr *render, data []byte) {
	if !rndr.nestingOK() {
		return
	}
	i := 0
	size := len(data)
	for i < size {
		start := i
		for i < size && rndr.inline[data[i]] == nil {
			i++
		}
		if i > start {
			emitNormalText(out, rndr, data[start:i])
		}
		if i >= size {
			break
		}
		if consumed := rndr.inline[data[i]](out, rndr, data, i); consumed > 0 {
			i += consumed
		} else {
			emitNormalText(out, rndr, data[i:i+1])
			i++
		}
	}
}

func emitNormalText(out *bytes.Buffer, rndr *render, text []byte) {
	if len(text) == 0 {
		return
	}
	if rndr.mk.NormalText != nil {
		rndr.mk.NormalText(out, text, rndr.mk.Opaque)
	} else {
		out.Write(text)
	}
}

func truncateOutBy(out *bytes.Buffer, n int) {
	if n <= 0 {
		return
	}
	if n > out.Len() {
		n = out.Len()
	}
	out.Truncate(out.Len() - n)
}

//
// Backslash escapes
//

func inlineEscape(out *bytes.Buffer, rndr *render, data []byte, offset int) int {
	size := len(data)
	if offset+1 >= size {
		return 0
	}
	c := data[offset+1]
	if ispunct(c) {
		emitNormalText(out, rndr, data[offset+1:offset+2])
		return 2
	}
	if c == '\n' && rndr.mk.LineBreak != nil {
		if rndr.mk.LineBreak(out, rndr.mk.Opaque) {
			return 2
		}
	}
	return 0
}

//
// Entities
//

func inlineEntity(out *bytes.Buffer, rndr *render, data []byte, offset int) int {
	size := len(data)
	i := offset + 1
	if i < size && data[i] == '#' {
		i++
	}
	start := i
	for i < size && isalnum(data[i]) {
		i++
	}
	if i == start || i >= size || data[i] != ';' {
		return 0
	}
	i++
	if rndr.mk.Entity != nil {
		rndr.mk.Entity(out, data[offset:i], rndr.mk.Opaque)
	} else {
		out.Write(data[offset:i])
	}
	return i - offset
}

//
// Hard line breaks
//

func inlineLinebreak(out *bytes.Buffer, rndr *render, data []byte, offset int) int {
	bs := out.Bytes()
	trailing := 0
	for trailing < len(bs) && bs[len(bs)-1-trailing] == ' ' {
		trailing++
	}
	hard := trailing >= 2
	if !hard && rndr.flags&EXTENSION_HARD_LINE_BREAK == 0 {
		return 0
	}
	truncateOutBy(out, trailing)
	if rndr.mk.LineBreak(out, rndr.mk.Opaque) {
		return 1
	}
	return 0
}

//
// Code spans
//

func inlineCodespan(out *bytes.Buffer, rndr *render, data []byte, offset int) int {
	size := len(data)
	i := offset
	n := 0
	for i < size && data[i] == '`' {
		n++
		i++
	}
	start := i
	end := -1
	j := i
	for j < size {
		if data[j] == '`' {
			k := j
			cnt := 0
			for k < size && data[k] == '`' {
				cnt++
				k++
			}
			if cnt == n {
				end = j
				break
			}
			j = k
			continue
		}
		j++
	}
	if end < 0 {
		return 0
	}
	content := data[start:end]
	if len(content) >= 2 && content[0] == ' ' && content[len(content)-1] == ' ' && len(bytes.TrimSpace(content)) > 0 {
		content = content[1 : len(content)-1]
	}
	if rndr.mk.CodeSpan(out, content, rndr.mk.Opaque) {
		return (end + n) - offset
	}
	return 0
}

//
// Emphasis (single, double, triple; strikethrough/insert variants)
//

func inlineEmphasis(out *bytes.Buffer, rndr *render, data []byte, offset int) int {
	c := data[offset]
	size := len(data)
	n := 0
	for n < 3 && offset+n < size && data[offset+n] == c {
		n++
	}

	if c == '~' || c == '+' {
		if n < 2 {
			return 0
		}
		return parseEmphN(out, rndr, data, offset, c, 2)
	}

	if n >= 3 {
		if m := parseEmphN(out, rndr, data, offset, c, 3); m > 0 {
			return m
		}
	}
	if n >= 2 {
		if m := parseEmphN(out, rndr, data, offset, c, 2); m > 0 {
			return m
		}
	}
	return parseEmphN(out, rndr, data, offset, c, 1)
}

// isEscaped reports whether data[i] is preceded by an odd run of
// backslashes, i.e. is itself escaped rather than a literal backslash
// followed by data[i].
func isEscaped(data []byte, i int) bool {
	n := 0
	for i-1-n >= 0 && data[i-1-n] == '\\' {
		n++
	}
	return n%2 == 1
}

func parseEmphN(out *bytes.Buffer, rndr *render, data []byte, offset int, c byte, n int) int {
	size := len(data)
	start := offset + n
	if start >= size || isspace(data[start]) {
		return 0
	}

	i := start
	for i < size {
		if data[i] != c {
			i++
			continue
		}
		j := i
		cnt := 0
		for j < size && data[j] == c {
			cnt++
			j++
		}
		if cnt < n {
			i = j
			continue
		}
		if isspace(data[i-1]) {
			i = j
			continue
		}
		if isEscaped(data, i) {
			i = j
			continue
		}
		if n == 1 && rndr.flags&EXTENSION_NO_INTRA_EMPHASIS != 0 && j < size && isalnum(data[j]) {
			i = j
			continue
		}

		content := data[start:i]
		end := i + n
		if !rndr.nestingOK() {
			return 0
		}
		buf := rndr.spanBufs.acquire()
		parseInline(&buf.Buffer, rndr, content)
		text := bytesClone(buf.Bytes())
		rndr.spanBufs.release()

		ok := false
		switch {
		case c == '~':
			if rndr.mk.StrikeThrough != nil {
				ok = rndr.mk.StrikeThrough(out, text, rndr.mk.Opaque)
			}
		case c == '+':
			if rndr.mk.Insert != nil {
				ok = rndr.mk.Insert(out, text, rndr.mk.Opaque)
			}
		case n == 1:
			if rndr.mk.Emphasis != nil {
				ok = rndr.mk.Emphasis(out, text, rndr.mk.Opaque)
			}
		case n == 2:
			if rndr.mk.DoubleEmphasis != nil {
				ok = rndr.mk.DoubleEmphasis(out, text, rndr.mk.Opaque)
			}
		case n == 3:
			if rndr.mk.TripleEmphasis != nil {
				ok = rndr.mk.TripleEmphasis(out, text, rndr.mk.Opaque)
			}
		}
		if ok {
			return end - offset
		}
		return 0
	}
	return 0
}

//
// Superscript
//

func inlineSuperscript(out *bytes.Buffer, rndr *render, data []byte, offset int) int {
	size := len(data)
	i := offset + 1
	if i >= size || rndr.mk.Superscript == nil {
		return 0
	}
	if data[i] == '(' {
		start := i + 1
		depth := 1
		j := start
		for j < size && depth > 0 {
			switch data[j] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				break
			}
			j++
		}
		if depth != 0 || j >= size {
			return 0
		}
		text := bytes.NewBuffer(nil)
		parseInline(text, rndr, data[start:j])
		if rndr.mk.Superscript(out, text.Bytes(), rndr.mk.Opaque) {
			return j + 1 - offset
		}
		return 0
	}

	start := i
	for i < size && !isspace(data[i]) && data[i] != '(' {
		i++
	}
	if i == start {
		return 0
	}
	text := bytes.NewBuffer(nil)
	parseInline(text, rndr, data[start:i])
	if rndr.mk.Superscript(out, text.Bytes(), rndr.mk.Opaque) {
		return i - offset
	}
	return 0
}

//
// Angle-bracket autolinks and raw HTML tags
//

func tagLength(data []byte, offset int) int {
	size := len(data)
	if offset >= size || data[offset] != '<' {
		return 0
	}
	i := offset + 1
	for i < size && data[i] != '>' && data[i] != '\n' {
		if data[i] == '<' {
			return 0
		}
		i++
	}
	if i >= size || data[i] != '>' {
		return 0
	}
	return i + 1
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAutolinkURI(s []byte) bool {
	if len(s) == 0 || !isAlpha(s[0]) {
		return false
	}
	i := 1
	for i < len(s) && (isalnum(s[i]) || s[i] == '+' || s[i] == '-' || s[i] == '.') {
		i++
	}
	return i < len(s) && s[i] == ':' && i >= 2
}

func inlineLangle(out *bytes.Buffer, rndr *render, data []byte, offset int) int {
	end := tagLength(data, offset)
	if end == 0 {
		return 0
	}
	tag := data[offset:end]
	inner := tag[1 : len(tag)-1]

	if !rndr.inLinkBody && rndr.mk.AutoLink != nil {
		if isAutolinkURI(inner) {
			if rndr.mk.AutoLink(out, inner, LINK_TYPE_NORMAL, rndr.mk.Opaque) {
				return end - offset
			}
		} else if at := bytes.IndexByte(inner, '@'); at > 0 && bytes.IndexByte(inner, ' ') < 0 {
			if rndr.mk.AutoLink(out, inner, LINK_TYPE_EMAIL, rndr.mk.Opaque) {
				return end - offset
			}
		}
	}

	if rndr.mk.RawHtmlTag != nil {
		if rndr.mk.RawHtmlTag(out, tag, rndr.mk.Opaque) {
			return end - offset
		}
	}
	return 0
}

//
// Bare autolinks (":" / "@" / "w" / scheme-leading letters)
//

func inlineAutolink(out *bytes.Buffer, rndr *render, data []byte, offset int) int {
	if rndr.inLinkBody || rndr.mk.AutoLink == nil {
		return 0
	}
	size := len(data)
	c := data[offset]

	if c == '@' {
		length, rewind := autolinkEmail(data, offset)
		if length == 0 {
			return 0
		}
		start := offset - rewind
		link := data[start : start+length]
		// the local part was already emitted as text: drop it before the
		// link is written, and put it back if the callback declines
		head := bytesClone(out.Bytes()[out.Len()-min(rewind, out.Len()):])
		truncateOutBy(out, rewind)
		if !rndr.mk.AutoLink(out, link, LINK_TYPE_EMAIL, rndr.mk.Opaque) {
			out.Write(head)
			return 0
		}
		return length - rewind
	}

	if c == ':' {
		return 0
	}

	lowerEnd := offset + 8
	if lowerEnd > size {
		lowerEnd = size
	}
	lower := bytes.ToLower(data[offset:lowerEnd])

	switch {
	case bytes.HasPrefix(lower, []byte("http://")), bytes.HasPrefix(lower, []byte("https://")),
		bytes.HasPrefix(lower, []byte("ftp://")):
		n := autolinkURL(data, offset)
		if n == 0 {
			return 0
		}
		link := data[offset : offset+n]
		if rndr.mk.AutoLink(out, link, LINK_TYPE_NORMAL, rndr.mk.Opaque) {
			return n
		}
		return 0

	case bytes.HasPrefix(lower, []byte("mailto:")):
		rest := offset + 7
		length, _ := autolinkEmail(data, indexOfAt(data, rest))
		if length == 0 {
			return 0
		}
		end := rest + length
		if end > size {
			return 0
		}
		link := data[offset:end]
		if rndr.mk.AutoLink(out, link, LINK_TYPE_EMAIL, rndr.mk.Opaque) {
			return end - offset
		}
		return 0

	case bytes.HasPrefix(lower, []byte("www.")):
		n := autolinkWWW(data, offset)
		if n == 0 {
			return 0
		}
		link := data[offset : offset+n]
		full := append([]byte("http://"), link...)
		if rndr.mk.AutoLink(out, full, LINK_TYPE_NORMAL, rndr.mk.Opaque) {
			return n
		}
		return 0
	}
	return 0
}

// indexOfAt returns the position of the first '@' at or after from, or
// from itself if none is found (autolinkEmail will then simply fail).
func indexOfAt(data []byte, from int) int {
	if from >= len(data) {
		return from
	}
	if at := bytes.IndexByte(data[from:], '@'); at >= 0 {
		return from + at
	}
	return from
}

//
// Links, images, and footnote references
//

func stripBangFromOut(out *bytes.Buffer) {
	b := out.Bytes()
	if len(b) > 0 && b[len(b)-1] == '!' {
		out.Truncate(len(b) - 1)
	}
}

func inlineLink(out *bytes.Buffer, rndr *render, data []byte, offset int) int {
	size := len(data)
	isImage := offset > 0 && data[offset-1] == '!'

	if rndr.flags&EXTENSION_FOOTNOTES != 0 && !isImage && offset+1 < size && data[offset+1] == '^' {
		return inlineFootnoteRef(out, rndr, data, offset)
	}

	i := offset + 1
	depth := 0
	for i < size {
		switch data[i] {
		case '\\':
			i += 2
			continue
		case '[':
			depth++
		case ']':
			if depth == 0 {
				goto foundClose
			}
			depth--
		}
		i++
	}
	return 0
foundClose:
	textStart := offset + 1
	textEnd := i
	linkText := data[textStart:textEnd]
	afterBracket := i + 1

	var linkURL, linkTitle []byte
	var consumed int

	if afterBracket < size && data[afterBracket] == '(' {
		j := afterBracket + 1
		for j < size && isspace(data[j]) {
			j++
		}
		var urlStart, urlEnd int
		if j < size && data[j] == '<' {
			j++
			urlStart = j
			for j < size && data[j] != '>' && data[j] != '\n' {
				j++
			}
			if j >= size || data[j] != '>' {
				return 0
			}
			urlEnd = j
			j++
		} else {
			urlStart = j
			depth2 := 0
			for j < size && !isspace(data[j]) {
				if data[j] == '(' {
					depth2++
				} else if data[j] == ')' {
					if depth2 == 0 {
						break
					}
					depth2--
				}
				j++
			}
			urlEnd = j
		}
		linkURL = data[urlStart:urlEnd]

		for j < size && isspace(data[j]) {
			j++
		}
		if j < size && (data[j] == '"' || data[j] == '\'') {
			quote := data[j]
			j++
			tstart := j
			for j < size && data[j] != quote {
				j++
			}
			if j < size {
				linkTitle = data[tstart:j]
				j++
			}
		} else if j < size && data[j] == '(' {
			j++
			tstart := j
			for j < size && data[j] != ')' {
				j++
			}
			if j < size {
				linkTitle = data[tstart:j]
				j++
			}
		}
		for j < size && isspace(data[j]) {
			j++
		}
		if j >= size || data[j] != ')' {
			return 0
		}
		j++
		consumed = j - offset
	} else {
		var label []byte
		refEnd := afterBracket
		if afterBracket < size && data[afterBracket] == '[' {
			k := afterBracket + 1
			lstart := k
			for k < size && data[k] != ']' && data[k] != '\n' {
				k++
			}
			if k >= size || data[k] != ']' {
				return 0
			}
			label = data[lstart:k]
			refEnd = k + 1
		} else {
			label = linkText
		}
		if len(bytes.TrimSpace(label)) == 0 {
			label = linkText
		}
		ref, ok := rndr.refs.lookup(label)
		if !ok {
			return 0
		}
		linkURL = ref.link
		linkTitle = ref.title
		consumed = refEnd - offset
	}

	if isImage {
		if rndr.mk.Image == nil {
			return 0
		}
		alt := bytes.NewBuffer(nil)
		parseInline(alt, rndr, linkText)
		if rndr.mk.Image(out, linkURL, linkTitle, alt.Bytes(), rndr.mk.Opaque) {
			stripBangFromOut(out)
			return consumed
		}
		return 0
	}

	if rndr.mk.Link == nil {
		return 0
	}
	content := bytes.NewBuffer(nil)
	wasInLinkBody := rndr.inLinkBody
	rndr.inLinkBody = true
	parseInline(content, rndr, linkText)
	rndr.inLinkBody = wasInLinkBody
	if rndr.mk.Link(out, linkURL, linkTitle, content.Bytes(), rndr.mk.Opaque) {
		return consumed
	}
	return 0
}

func inlineFootnoteRef(out *bytes.Buffer, rndr *render, data []byte, offset int) int {
	size := len(data)
	i := offset + 2
	start := i
	depth := 0
	for i < size {
		switch data[i] {
		case '\\':
			i += 2
			continue
		case '[':
			depth++
		case ']':
			if depth == 0 {
				goto found
			}
			depth--
		case '\n':
			return 0
		}
		i++
	}
	return 0
found:
	label := data[start:i]
	if rndr.mk.FootnoteRef == nil {
		return 0
	}
	ref, ok := rndr.lookupFootnote(label)
	if !ok {
		return 0
	}
	num := rndr.useFootnote(ref)
	if rndr.mk.FootnoteRef(out, label, num, rndr.mk.Opaque) {
		return i + 1 - offset
	}
	return 0
}
