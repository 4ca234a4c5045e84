//
//
// Lists
//
//

package blackfriday

import "bytes"

// blockList recognises a run of same-type list items (ordered or
// unordered) starting at data[0], renders each with ListItem, wraps the
// whole run with List, and returns the number of bytes consumed.
func blockList(out *bytes.Buffer, rndr *render, data []byte, ordered bool) int {
	if !isListMarker(data, ordered) {
		return 0
	}

	var items bytes.Buffer
	pos := 0
	flags := 0
	if ordered {
		flags |= LIST_TYPE_ORDERED
	}

	first := true
	for pos < len(data) {
		remaining := data[pos:]
		if !isListMarker(remaining, ordered) {
			break
		}
		n, itemText, isBlock := parseListItem(remaining)
		if n == 0 {
			break
		}

		itemFlags := 0
		if isBlock {
			itemFlags |= LIST_ITEM_CONTAINS_BLOCK
		}
		if first {
			itemFlags |= LIST_ITEM_BEGINNING_OF_LIST
		}

		if rndr.mk.ListItem != nil {
			var text []byte
			if isBlock && rndr.nestingOK() {
				buf := rndr.blockBufs.acquire()
				parseBlock(&buf.Buffer, rndr, itemText)
				text = bytesClone(buf.Bytes())
				rndr.blockBufs.release()
			} else {
				tmp := bytes.NewBuffer(nil)
				parseInline(tmp, rndr, bytes.TrimRight(itemText, "\n"))
				text = tmp.Bytes()
			}
			rndr.mk.ListItem(&items, text, itemFlags|flags, rndr.mk.Opaque)
		}

		pos += n
		first = false

		// a blank line between items doesn't necessarily end the list;
		// it only does so if the line right after it isn't another item
		for pos < len(data) {
			n2 := blockEmpty(data[pos:])
			if n2 == 0 {
				break
			}
			peek := data[pos+n2:]
			if isListMarker(peek, ordered) {
				pos += n2
				continue
			}
			goto endList
		}
	}
endList:

	if pos == 0 {
		return 0
	}
	if rndr.mk.List != nil {
		rndr.mk.List(out, items.Bytes(), flags, rndr.mk.Opaque)
	}
	return pos
}

// isListMarker reports whether line starts (after up to 3 leading
// spaces) with a bullet marker (for ordered == false) or a digit run
// followed by ". " (for ordered == true), each followed by a space.
func isListMarker(data []byte, ordered bool) bool {
	i := leadingSpaces(data, 3)
	if i >= len(data) {
		return false
	}
	if !ordered {
		c := data[i]
		if c != '*' && c != '+' && c != '-' {
			return false
		}
		return i+1 < len(data) && (data[i+1] == ' ' || data[i+1] == '\t' || data[i+1] == '\n')
	}
	j := i
	for j < len(data) && isdigit(data[j]) {
		j++
	}
	if j == i || j >= len(data) || data[j] != '.' {
		return false
	}
	return j+1 < len(data) && (data[j+1] == ' ' || data[j+1] == '\t')
}

// parseListItem consumes one list item starting at data[0] (the marker
// line) through its continuation lines, following the rules of §4.5:
// indent tracking, fenced-code suppression of marker detection, the
// "blank + indented continuation => multi-paragraph item" rule, and the
// "ul/ol switch at the same indent ends the list" rule (handled by the
// caller via isListMarker's ordered parameter). It returns the number of
// bytes consumed, the de-indented item body, and whether any interior
// blank line was seen (which the caller renders as a "loose" item).
func parseListItem(data []byte) (consumed int, body []byte, isBlock bool) {
	markerIndent := leadingSpaces(data, 3)
	i := markerIndent
	markerLen := 0
	if c := data[i]; c == '*' || c == '+' || c == '-' {
		markerLen = 1
	} else {
		for i+markerLen < len(data) && isdigit(data[i+markerLen]) {
			markerLen++
		}
		markerLen++ // the '.'
	}
	contentStart := i + markerLen
	for contentStart < len(data) && (data[contentStart] == ' ' || data[contentStart] == '\t') {
		contentStart++
	}
	itemIndent := contentStart

	var content bytes.Buffer
	le := lineEnd(data)
	var firstLineEnd int
	if le == 0 {
		firstLineEnd = len(data)
	} else {
		firstLineEnd = le
	}
	content.Write(data[contentStart:firstLineEnd])

	pos := firstLineEnd
	inFence := false
	var fenceChar byte
	var fenceLen int
	sawBlank := false

	for pos < len(data) {
		lstart := pos
		lend := lstart
		for lend < len(data) && data[lend] != '\n' {
			lend++
		}
		line := data[lstart:lend]

		if inFence {
			content.WriteByte('\n')
			content.Write(line)
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
					inFence = false
				}
			}
			pos = lend
			if pos < len(data) {
				pos++
			} else {
				break
			}
			continue
		}

		if len(bytes.TrimSpace(line)) == 0 {
			// blank line: keep scanning; if another item-indented line
			// follows, it's a continuation (loose item); otherwise stop
			peekPos := lend
			if peekPos < len(data) {
				peekPos++
			}
			if peekPos >= len(data) {
				break
			}
			peekEnd := peekPos
			for peekEnd < len(data) && data[peekEnd] != '\n' {
				peekEnd++
			}
			peekLine := data[peekPos:peekEnd]
			peekIndent := leadingSpaces(peekLine, itemIndent)
			if len(bytes.TrimSpace(peekLine)) == 0 {
				break
			}
			if peekIndent >= itemIndent || peekIndent >= 4 {
				sawBlank = true
				content.WriteByte('\n')
				content.WriteByte('\n')
				pos = lend
				if pos < len(data) {
					pos++
				}
				continue
			}
			break
		}

		indent := leadingSpaces(line, itemIndent)
		if indent < itemIndent {
			// not indented enough to belong to this item: a line with a
			// new list marker ends the item; otherwise (lazy
			// continuation) a plain text line still belongs to it only
			// if we haven't seen a blank line yet
			if isListMarker(line, false) || isListMarker(line, true) {
				break
			}
			li := leadingSpaces(line, 3)
			if li < len(line) && (line[li] == '>' || line[li] == '#') {
				break
			}
			if sawBlank {
				break
			}
			content.WriteByte('\n')
			content.Write(line)
			pos = lend
			if pos < len(data) {
				pos++
			} else {
				break
			}
			continue
		}

		stripped := line[indent:]
		if trimmed := bytes.TrimRight(stripped, " \t"); len(trimmed) >= 3 {
			c := trimmed[0]
			if c == '~' || c == '`' {
				n := 0
				for n < len(trimmed) && trimmed[n] == c {
					n++
				}
				if n >= 3 {
					inFence = true
					fenceChar = c
					fenceLen = n
				}
			}
		}

		content.WriteByte('\n')
		content.Write(stripped)
		pos = lend
		if pos < len(data) {
			pos++
		} else {
			break
		}
	}

	content.WriteByte('\n')
	return pos, content.Bytes(), sawBlank
}
