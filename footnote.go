//
//
// Footnotes
//
//

package blackfriday

import (
	"bytes"
	"strconv"
)

// footnoteRef is one footnote: either just registered ("found"), or also
// referenced from the document body ("used"). id/hash mirror reference's
// normalised-label identity. num is the 1-based order of first use and is
// assigned once, the first time the footnote is pulled into the "used"
// list; it never changes afterwards.
type footnoteRef struct {
	id       string
	hash     uint32
	used     bool
	num      int
	contents []byte

	hashNext  *footnoteRef // chains within a hash bucket
	foundNext *footnoteRef // ordering within footnotesFound
	usedNext  *footnoteRef // ordering within footnotesUsed
}

// footnoteList is a singly linked list with head/tail and count, used for
// both the "found" (all defined) and "used" (referenced, in first-use
// order) footnote collections. Only the "found" list populates buckets;
// "used" only needs the list for in-order iteration at render time.
type footnoteList struct {
	buckets [refTableWidth]*footnoteRef
	head    *footnoteRef
	tail    *footnoteRef
	count   int
}

func newFootnoteList() *footnoteList {
	return &footnoteList{}
}

func (l *footnoteList) appendFound(ref *footnoteRef) {
	if l.tail != nil {
		l.tail.foundNext = ref
	} else {
		l.head = ref
	}
	l.tail = ref
	l.count++
}

func (l *footnoteList) appendUsed(ref *footnoteRef) {
	if l.tail != nil {
		l.tail.usedNext = ref
	} else {
		l.head = ref
	}
	l.tail = ref
	l.count++
}

// useFootnote marks a found footnote as used, assigning it the next
// sequential number on first use, and appends it to rndr.footnotesUsed.
// Invariant: every entry ever appended to footnotesUsed is already
// present in footnotesFound (useFootnote only ever operates on a ref
// looked up from footnotesFound).
func (rndr *render) useFootnote(ref *footnoteRef) int {
	if !ref.used {
		ref.used = true
		ref.num = rndr.footnotesUsed.count + 1
		rndr.footnotesUsed.appendUsed(ref)
	}
	return ref.num
}

// renderFootnotes renders the deferred footnote block: each entry of
// footnotesUsed, in assignment order, via FootnoteItem, followed by the
// concluding Footnotes wrapper. Markdown calls it after the block pass
// and before the DocumentFooter and DocumentOutline callbacks.
func renderFootnotes(out *bytes.Buffer, rndr *render) {
	if rndr.mk.FootnoteItem == nil && rndr.mk.Footnotes == nil {
		return
	}

	items := make([]*footnoteRef, 0, rndr.footnotesUsed.count)
	for ref := rndr.footnotesUsed.head; ref != nil; ref = ref.usedNext {
		items = append(items, ref)
	}

	emit := func(buf *bytes.Buffer) func() bool {
		i := 0
		return func() bool {
			if i >= len(items) {
				return false
			}
			ref := items[i]
			i++
			if rndr.mk.FootnoteItem != nil {
				flags := 0
				if i == 1 {
					flags |= LIST_ITEM_BEGINNING_OF_LIST
				}
				if i == len(items) {
					flags |= LIST_ITEM_END_OF_LIST
				}
				rndr.mk.FootnoteItem(buf, []byte(strconv.Itoa(ref.num)), ref.contents, flags, rndr.mk.Opaque)
			}
			return true
		}
	}

	if rndr.mk.Footnotes != nil {
		rndr.mk.Footnotes(out, emit(out), rndr.mk.Opaque)
	} else {
		for next := emit(out); next(); {
		}
	}
}
