//
//
// Scratch buffers
//
//

package blackfriday

import (
	"bytes"
	"errors"
)

// maxBufferSize bounds any single scratch or output buffer used while
// rendering a document. It exists to keep adversarial input from driving
// unbounded allocation; it is not expected to be hit by well-formed
// Markdown.
const maxBufferSize = 16 << 20 // 16 MiB

// ErrBufferTooLarge names the condition of a buffer that would have to
// grow past maxBufferSize to satisfy a write. No function in this package
// returns it: boundedBuffer.Put drops the part of a write that would
// exceed the cap, which truncates output rather than crashing or
// allocating without bound, and callers get no error.
var ErrBufferTooLarge = errors.New("blackfriday: buffer exceeds maximum size")

// boundedBuffer is a bytes.Buffer with a hard allocation ceiling. It
// backs every scratch buffer drawn from the work-buffer pool (§4.1): the
// growth policy itself is bytes.Buffer's (the idiomatic Go "growable byte
// container"), and this type adds only the cap check and a handful of
// operations (PrefixMatches, Slurp, TruncateTo) that bytes.Buffer does
// not provide. The block and inline parsers do not call those three.
type boundedBuffer struct {
	bytes.Buffer
}

func newBoundedBuffer() *boundedBuffer {
	return new(boundedBuffer)
}

// Put appends p, unless doing so would grow the buffer past
// maxBufferSize, in which case it silently truncates the write.
func (b *boundedBuffer) Put(p []byte) {
	avail := maxBufferSize - b.Len()
	if avail <= 0 {
		return
	}
	if len(p) > avail {
		p = p[:avail]
	}
	b.Write(p)
}

// PrefixMatches reports whether the buffer's contents begin with prefix.
func (b *boundedBuffer) PrefixMatches(prefix []byte) bool {
	data := b.Bytes()
	if len(data) < len(prefix) {
		return false
	}
	return bytes.Equal(data[:len(prefix)], prefix)
}

// Slurp removes the first n bytes from the buffer, shifting the rest down.
func (b *boundedBuffer) Slurp(n int) {
	data := b.Bytes()
	if n <= 0 {
		return
	}
	if n >= len(data) {
		b.Reset()
		return
	}
	rest := append([]byte(nil), data[n:]...)
	b.Reset()
	b.Write(rest)
}

// TruncateTo shrinks the buffer to the first n bytes, discarding the rest.
// A negative n empties the buffer.
func (b *boundedBuffer) TruncateTo(n int) {
	if n < 0 {
		n = 0
	}
	if n >= b.Len() {
		return
	}
	data := append([]byte(nil), b.Bytes()[:n]...)
	b.Reset()
	b.Write(data)
}

// bufferPool models the "work-buffer pool" of §3: a bump-stack of owned
// scratch buffers whose lifetimes are tied to the recursion depth that
// acquired them. acquire pops (or allocates) the next slot and resets its
// size; release simply decrements the stack pointer, leaving the backing
// allocation in place for reuse. The invariant is strict LIFO: whatever is
// acquired last must be released first, which recursive parsing naturally
// guarantees.
type bufferPool struct {
	bufs []*boundedBuffer
	top  int
}

// size reports how many buffers are currently checked out.
func (p *bufferPool) size() int {
	return p.top
}

func (p *bufferPool) acquire() *boundedBuffer {
	if p.top < len(p.bufs) {
		b := p.bufs[p.top]
		b.Reset()
		p.top++
		return b
	}
	b := newBoundedBuffer()
	p.bufs = append(p.bufs, b)
	p.top++
	return b
}

func (p *bufferPool) release() {
	if p.top > 0 {
		p.top--
	}
}
