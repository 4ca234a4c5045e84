//
//
// Block parsing (pass 2)
//
//

package blackfriday

import (
	"bytes"
)

// parseBlock recognises and renders every block construct in data, in
// document order, trying recognisers at each cursor position in the
// fixed precedence of §4.5. Recursive re-entry (block quotes, list items
// whose body contains a blank line) is gated by rndr.nestingOK.
func parseBlock(out *bytes.Buffer, rndr *render, data []byte) {
	if !rndr.nestingOK() {
		return
	}
	for len(data) > 0 {
		if n := blockAtxHeader(out, rndr, data); n > 0 {
			data = data[n:]
			continue
		}
		if n := blockHtml(out, rndr, data); n > 0 {
			data = data[n:]
			continue
		}
		if n := blockEmpty(data); n > 0 {
			data = data[n:]
			continue
		}
		if n := blockHRule(out, rndr, data); n > 0 {
			data = data[n:]
			continue
		}
		if rndr.flags&EXTENSION_FENCED_CODE != 0 {
			if n := blockFencedCode(out, rndr, data); n > 0 {
				data = data[n:]
				continue
			}
		}
		if rndr.flags&EXTENSION_TABLES != 0 {
			if n := blockTable(out, rndr, data); n > 0 {
				data = data[n:]
				continue
			}
		}
		if n := blockQuote(out, rndr, data); n > 0 {
			data = data[n:]
			continue
		}
		if n := blockCode(out, rndr, data); n > 0 {
			data = data[n:]
			continue
		}
		if n := blockList(out, rndr, data, false); n > 0 {
			data = data[n:]
			continue
		}
		if n := blockList(out, rndr, data, true); n > 0 {
			data = data[n:]
			continue
		}
		n := blockParagraph(out, rndr, data)
		if n <= 0 {
			n = lineEnd(data)
			if n == 0 {
				n = len(data)
			}
		}
		data = data[n:]
	}
}

//
// small line-oriented helpers
//

// lineEnd returns the offset just past the first '\n' in data, or 0 if
// data contains no newline (callers treat 0 as "consume everything").
func lineEnd(data []byte) int {
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		return 0
	}
	return i + 1
}

// firstLine returns data up to (excluding) the first '\n', or all of data
// if there is none.
func firstLine(data []byte) []byte {
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		return data
	}
	return data[:i]
}

// blockEmpty consumes a single blank (whitespace-only) line.
func blockEmpty(data []byte) int {
	i := 0
	for i < len(data) && data[i] != '\n' {
		if !isspace(data[i]) {
			return 0
		}
		i++
	}
	if i < len(data) {
		i++
	}
	return i
}

// leadingSpaces counts up to max leading space characters (not tabs).
func leadingSpaces(data []byte, max int) int {
	i := 0
	for i < len(data) && i < max && data[i] == ' ' {
		i++
	}
	return i
}

//
// ATX headers
//

func blockAtxHeader(out *bytes.Buffer, rndr *render, data []byte) int {
	level := 0
	i := 0
	for i < len(data) && data[i] == '#' && level < 6 {
		level++
		i++
	}
	if level == 0 || i >= len(data) {
		return 0
	}
	if rndr.flags&EXTENSION_SPACE_HEADERS != 0 {
		if data[i] != ' ' && data[i] != '\t' && data[i] != '\n' {
			return 0
		}
	}
	for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
		i++
	}

	end := i
	for end < len(data) && data[end] != '\n' {
		end++
	}
	line := data[i:end]
	// strip trailing '#'s
	trimmed := bytes.TrimRight(line, " \t")
	j := len(trimmed)
	for j > 0 && trimmed[j-1] == '#' {
		j--
	}
	trimmed = bytes.TrimRight(trimmed[:j], " \t")

	consumed := end
	if consumed < len(data) {
		consumed++
	}

	if rndr.mk.Header != nil {
		text := bytes.NewBuffer(nil)
		parseInline(text, rndr, trimmed)
		rndr.mk.Header(out, text.Bytes(), level, rndr.mk.Opaque)
	}
	return consumed
}

//
// Horizontal rule
//

func blockHRule(out *bytes.Buffer, rndr *render, data []byte) int {
	i := leadingSpaces(data, 3)
	if i >= len(data) {
		return 0
	}
	c := data[i]
	if c != '*' && c != '-' && c != '_' {
		return 0
	}
	count := 0
	j := i
	for j < len(data) && data[j] != '\n' {
		switch data[j] {
		case c:
			count++
		case ' ', '\t':
		default:
			return 0
		}
		j++
	}
	if count < 3 {
		return 0
	}
	consumed := j
	if consumed < len(data) {
		consumed++
	}
	if rndr.mk.HRule != nil {
		rndr.mk.HRule(out, rndr.mk.Opaque)
	}
	return consumed
}

//
// Fenced code blocks
//

func blockFencedCode(out *bytes.Buffer, rndr *render, data []byte) int {
	i := leadingSpaces(data, 3)
	if i >= len(data) {
		return 0
	}
	fenceChar := data[i]
	if fenceChar != '~' && fenceChar != '`' {
		return 0
	}
	fenceLen := 0
	j := i
	for j < len(data) && data[j] == fenceChar {
		fenceLen++
		j++
	}
	if fenceLen < 3 {
		return 0
	}
	// rest of the opening line is an optional language token
	lineStart := j
	for lineStart < len(data) && (data[lineStart] == ' ' || data[lineStart] == '\t') {
		lineStart++
	}
	langEnd := lineStart
	for langEnd < len(data) && data[langEnd] != '\n' {
		langEnd++
	}
	lang := string(bytes.TrimSpace(bytes.Trim(data[lineStart:langEnd], "{}")))

	pos := langEnd
	if pos < len(data) {
		pos++
	}

	content := newBoundedBuffer()
	for pos < len(data) {
		ls := pos
		le := ls
		for le < len(data) && data[le] != '\n' {
			le++
		}
		line := data[ls:le]
		trimmed := bytes.TrimRight(line, " \t")
		k := leadingSpaces(trimmed, 3)
		if k+fenceLen <= len(trimmed) {
			allFence := true
			for m := k; m < k+fenceLen; m++ {
				if trimmed[m] != fenceChar {
					allFence = false
					break
				}
			}
			if allFence {
				rest := trimmed[k+fenceLen:]
				onlyFenceChar := true
				for _, c := range rest {
					if c != fenceChar {
						onlyFenceChar = false
						break
					}
				}
				if onlyFenceChar {
					pos = le
					if pos < len(data) {
						pos++
					}
					break
				}
			}
		}
		content.Put(line)
		content.Put([]byte{'\n'})
		pos = le
		if pos < len(data) {
			pos++
		} else {
			break
		}
	}

	if rndr.mk.BlockCode != nil {
		rndr.mk.BlockCode(out, content.Bytes(), lang, rndr.mk.Opaque)
	}
	return pos
}

//
// Indented code blocks
//

func blockCode(out *bytes.Buffer, rndr *render, data []byte) int {
	if len(data) < 4 || data[0] != ' ' || data[1] != ' ' || data[2] != ' ' || data[3] != ' ' {
		return 0
	}
	content := newBoundedBuffer()
	pos := 0
	for pos < len(data) {
		ls := pos
		le := ls
		for le < len(data) && data[le] != '\n' {
			le++
		}
		line := data[ls:le]
		if len(line) >= 4 && line[0] == ' ' && line[1] == ' ' && line[2] == ' ' && line[3] == ' ' {
			content.Put(line[4:])
			content.Put([]byte{'\n'})
		} else if len(bytes.TrimSpace(line)) == 0 {
			// blank line: tentatively continue, but only keep it if
			// another indented line follows
			peek := le
			if peek < len(data) {
				peek++
			}
			pe := peek
			for pe < len(data) && data[pe] != '\n' {
				pe++
			}
			nextLine := data[peek:pe]
			if len(nextLine) >= 4 && nextLine[0] == ' ' && nextLine[1] == ' ' && nextLine[2] == ' ' && nextLine[3] == ' ' {
				content.Put([]byte{'\n'})
			} else {
				break
			}
		} else {
			break
		}
		pos = le
		if pos < len(data) {
			pos++
		} else {
			break
		}
	}
	if rndr.mk.BlockCode != nil {
		rndr.mk.BlockCode(out, content.Bytes(), "", rndr.mk.Opaque)
	}
	return pos
}

//
// Block quotes
//

func blockQuote(out *bytes.Buffer, rndr *render, data []byte) int {
	i := leadingSpaces(data, 3)
	if i >= len(data) || data[i] != '>' {
		return 0
	}

	stripped := newBoundedBuffer()
	pos := 0
	for pos < len(data) {
		ls := pos
		le := ls
		for le < len(data) && data[le] != '\n' {
			le++
		}
		line := data[ls:le]
		lead := leadingSpaces(line, 3)
		if lead < len(line) && line[lead] == '>' {
			rest := line[lead+1:]
			if len(rest) > 0 && rest[0] == ' ' {
				rest = rest[1:]
			}
			stripped.Put(rest)
			stripped.Put([]byte{'\n'})
		} else if len(bytes.TrimSpace(line)) == 0 {
			// a blank line ends the quote unless followed by another
			// prefixed line
			peek := le
			if peek < len(data) {
				peek++
			}
			pe := peek
			for pe < len(data) && data[pe] != '\n' {
				pe++
			}
			nextLine := data[peek:pe]
			nLead := leadingSpaces(nextLine, 3)
			if nLead < len(nextLine) && nextLine[nLead] == '>' {
				stripped.Put([]byte{'\n'})
			} else {
				pos = le
				if pos < len(data) {
					pos++
				}
				goto done
			}
		} else {
			break
		}
		pos = le
		if pos < len(data) {
			pos++
		} else {
			break
		}
	}
done:

	if rndr.mk.BlockQuote != nil {
		if !rndr.nestingOK() {
			return pos
		}
		inner := rndr.blockBufs.acquire()
		parseBlock(&inner.Buffer, rndr, stripped.Bytes())
		content := bytesClone(inner.Bytes())
		rndr.blockBufs.release()
		rndr.mk.BlockQuote(out, content, rndr.mk.Opaque)
	}
	return pos
}

//
// HTML blocks
//

func blockHtml(out *bytes.Buffer, rndr *render, data []byte) int {
	i := leadingSpaces(data, 3)
	if i >= len(data) || data[i] != '<' {
		return 0
	}

	// HTML comment
	if bytes.HasPrefix(data[i:], []byte("<!--")) {
		end := bytes.Index(data[i:], []byte("-->"))
		if end < 0 {
			return 0
		}
		absEnd := i + end + 3
		le := lineEnd(data[absEnd:])
		consumed := absEnd + le
		if le == 0 {
			consumed = len(data)
		}
		if rndr.mk.BlockHtml != nil {
			rndr.mk.BlockHtml(out, data[:consumed], rndr.mk.Opaque)
		}
		return consumed
	}

	j := i + 1
	if j < len(data) && data[j] == '/' {
		j++
	}
	tagStart := j
	for j < len(data) && (isalnum(data[j]) || data[j] == '-') {
		j++
	}
	tagName := data[tagStart:j]
	canon, ok := findBlockTag(tagName)
	if !ok {
		return 0
	}

	closeTagOpen := []byte("</" + canon)

	pos := 0
	for pos < len(data) {
		le := lineEnd(data[pos:])
		var lineAbsEnd int
		if le == 0 {
			lineAbsEnd = len(data)
		} else {
			lineAbsEnd = pos + le
		}
		line := data[pos:lineAbsEnd]
		if bytes.Contains(bytes.ToLower(line), bytes.ToLower(closeTagOpen)) {
			pos = lineAbsEnd
			break
		}
		if le == 0 {
			pos = len(data)
			break
		}
		pos = lineAbsEnd
	}

	if rndr.mk.BlockHtml != nil {
		rndr.mk.BlockHtml(out, data[:pos], rndr.mk.Opaque)
	}
	return pos
}

//
// Tables
//

func blockTable(out *bytes.Buffer, rndr *render, data []byte) int {
	header := firstLine(data)
	if !bytes.ContainsRune(header, '|') {
		return 0
	}
	headerLineLen := lineEnd(data)
	if headerLineLen == 0 {
		return 0
	}
	sepLine := firstLine(data[headerLineLen:])
	cols, aligns, ok := parseTableSeparator(sepLine)
	if !ok {
		return 0
	}

	headerCells := splitTableRow(header)
	headerCells = padTableRow(headerCells, cols)

	pos := headerLineLen + lineEnd(data[headerLineLen:])

	var bodyBuf bytes.Buffer
	var headerBuf bytes.Buffer

	renderRow := func(buf *bytes.Buffer, cells [][]byte, isHeader bool) {
		var row bytes.Buffer
		for ci, cell := range cells {
			text := bytes.NewBuffer(nil)
			parseInline(text, rndr, bytes.TrimSpace(cell))
			flags := aligns[ci]
			if isHeader {
				flags |= tableCellHeaderFlag
			}
			if rndr.mk.TableCell != nil {
				rndr.mk.TableCell(&row, text.Bytes(), flags, rndr.mk.Opaque)
			}
		}
		if rndr.mk.TableRow != nil {
			rndr.mk.TableRow(buf, row.Bytes(), rndr.mk.Opaque)
		}
	}

	renderRow(&headerBuf, headerCells, true)

	for pos < len(data) {
		line := firstLine(data[pos:])
		if len(bytes.TrimSpace(line)) == 0 || !bytes.ContainsRune(line, '|') {
			break
		}
		cells := padTableRow(splitTableRow(line), cols)
		renderRow(&bodyBuf, cells, false)
		n := lineEnd(data[pos:])
		if n == 0 {
			pos = len(data)
			break
		}
		pos += n
	}

	if rndr.mk.Table != nil {
		rndr.mk.Table(out, headerBuf.Bytes(), bodyBuf.Bytes(), aligns, rndr.mk.Opaque)
	}
	return pos
}

// tableCellHeaderFlag marks a table cell as belonging to the header row.
// It is kept distinct from the TABLE_ALIGNMENT_* bits.
const tableCellHeaderFlag = 1 << 4

func parseTableSeparator(line []byte) (cols int, aligns []int, ok bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return 0, nil, false
	}
	cells := splitTableRow(line)
	if len(cells) == 0 {
		return 0, nil, false
	}
	aligns = make([]int, len(cells))
	for i, cell := range cells {
		c := bytes.TrimSpace(cell)
		if len(c) == 0 {
			return 0, nil, false
		}
		left := len(c) > 0 && c[0] == ':'
		right := len(c) > 0 && c[len(c)-1] == ':'
		body := c
		if left {
			body = body[1:]
		}
		if right && len(body) > 0 {
			body = body[:len(body)-1]
		}
		if len(body) == 0 {
			return 0, nil, false
		}
		for _, ch := range body {
			if ch != '-' {
				return 0, nil, false
			}
		}
		switch {
		case left && right:
			aligns[i] = TABLE_ALIGNMENT_CENTER
		case left:
			aligns[i] = TABLE_ALIGNMENT_LEFT
		case right:
			aligns[i] = TABLE_ALIGNMENT_RIGHT
		default:
			aligns[i] = 0
		}
	}
	return len(cells), aligns, true
}

// splitTableRow splits a table row on unescaped '|', trimming a single
// leading/trailing empty cell produced by outer pipes.
func splitTableRow(line []byte) [][]byte {
	var cells [][]byte
	start := 0
	for i := 0; i < len(line); i++ {
		if line[i] == '\\' {
			i++
			continue
		}
		if line[i] == '|' {
			cells = append(cells, line[start:i])
			start = i + 1
		}
	}
	cells = append(cells, line[start:])

	if len(cells) > 0 && len(bytes.TrimSpace(cells[0])) == 0 {
		cells = cells[1:]
	}
	if len(cells) > 0 && len(bytes.TrimSpace(cells[len(cells)-1])) == 0 {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func padTableRow(cells [][]byte, cols int) [][]byte {
	if len(cells) > cols {
		cells = cells[:cols]
	}
	for len(cells) < cols {
		cells = append(cells, nil)
	}
	return cells
}

//
// Paragraphs and setext headers
//

// blockParagraph consumes lines into a paragraph span until it hits a
// blank line, a setext underline, an ATX header, a horizontal rule, a
// block quote, or (with lax spacing) a list item. If terminated by a
// setext underline the paragraph's final text line is promoted to a
// header instead.
func blockParagraph(out *bytes.Buffer, rndr *render, data []byte) int {
	pos := 0
	var lastLineStart, lastLineEnd int
	for pos < len(data) {
		le := lineEnd(data[pos:])
		var end int
		if le == 0 {
			end = len(data)
		} else {
			end = pos + le
		}
		line := data[pos:end]
		trimmedLine := bytes.TrimRight(line, "\n")

		if len(bytes.TrimSpace(trimmedLine)) == 0 {
			break
		}

		if level := setextLevel(trimmedLine); level > 0 && pos > 0 {
			// the previous line becomes the header text; this line (the
			// underline) is consumed as part of the paragraph's span,
			// matching the original's off-by-one: the underline itself
			// is not re-emitted as paragraph text.
			headerText := data[lastLineStart:lastLineEnd]
			work := bytes.NewBuffer(nil)
			if lastLineStart > 0 {
				parseInline(work, rndr, data[:lastLineStart])
				if rndr.mk.Paragraph != nil && work.Len() > 0 {
					rndr.mk.Paragraph(out, work.Bytes(), rndr.mk.Opaque)
				}
			}
			htext := bytes.NewBuffer(nil)
			parseInline(htext, rndr, bytes.TrimSpace(headerText))
			if rndr.mk.Header != nil {
				rndr.mk.Header(out, htext.Bytes(), level, rndr.mk.Opaque)
			}
			return end
		}

		if pos > 0 {
			// ATX headers, rules, and block quotes always interrupt a
			// paragraph; lists only do so under lax spacing.
			if blockAtxHeaderPeek(trimmedLine) || blockHRulePeek(trimmedLine) || blockQuotePeek(trimmedLine) {
				break
			}
			if rndr.flags&EXTENSION_LAX_SPACING != 0 && blockListPeek(trimmedLine) {
				break
			}
		}

		lastLineStart = pos
		lastLineEnd = end
		if lastLineEnd > 0 && data[lastLineEnd-1] == '\n' {
			lastLineEnd--
		}
		pos = end
	}

	if pos == 0 {
		return 0
	}
	text := bytes.NewBuffer(nil)
	parseInline(text, rndr, data[:pos])
	if rndr.mk.Paragraph != nil {
		rndr.mk.Paragraph(out, bytes.TrimRight(text.Bytes(), "\n"), rndr.mk.Opaque)
	}
	return pos
}

// setextLevel reports the header level (1 for '=', 2 for '-') if line is
// entirely one repeated setext underline character, else 0.
func setextLevel(line []byte) int {
	line = bytes.TrimRight(line, " \t")
	if len(line) == 0 {
		return 0
	}
	c := line[0]
	if c != '=' && c != '-' {
		return 0
	}
	for _, ch := range line {
		if ch != c {
			return 0
		}
	}
	if c == '=' {
		return 1
	}
	return 2
}

func blockAtxHeaderPeek(line []byte) bool {
	return len(line) > 0 && line[0] == '#'
}

func blockHRulePeek(line []byte) bool {
	i := leadingSpaces(line, 3)
	if i >= len(line) {
		return false
	}
	c := line[i]
	if c != '*' && c != '-' && c != '_' {
		return false
	}
	count := 0
	for j := i; j < len(line); j++ {
		switch line[j] {
		case c:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

func blockQuotePeek(line []byte) bool {
	i := leadingSpaces(line, 3)
	return i < len(line) && line[i] == '>'
}

func blockListPeek(line []byte) bool {
	i := leadingSpaces(line, 3)
	if i >= len(line) {
		return false
	}
	if c := line[i]; c == '*' || c == '+' || c == '-' {
		return i+1 < len(line) && (line[i+1] == ' ' || line[i+1] == '\t')
	}
	j := i
	for j < len(line) && isdigit(line[j]) {
		j++
	}
	return j > i && j+1 < len(line) && line[j] == '.' && (line[j+1] == ' ' || line[j+1] == '\t')
}
