package blackfriday

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundedBufferPut(t *testing.T) {
	t.Parallel()

	b := newBoundedBuffer()
	b.Put([]byte("hello"))
	assert.Equal(t, "hello", b.String())
}

func TestBoundedBufferPutTruncatesAtCap(t *testing.T) {
	t.Parallel()

	b := newBoundedBuffer()
	b.Buffer.Grow(maxBufferSize)
	b.Put(make([]byte, maxBufferSize))
	assert.Equal(t, maxBufferSize, b.Len())

	b.Put([]byte("overflow"))
	assert.Equal(t, maxBufferSize, b.Len())
}

func TestBoundedBufferPrefixMatches(t *testing.T) {
	t.Parallel()

	b := newBoundedBuffer()
	b.Put([]byte("hello world"))
	assert.True(t, b.PrefixMatches([]byte("hello")))
	assert.False(t, b.PrefixMatches([]byte("world")))
	assert.False(t, b.PrefixMatches([]byte("hello world and more")))
}

func TestBoundedBufferSlurp(t *testing.T) {
	t.Parallel()

	b := newBoundedBuffer()
	b.Put([]byte("hello world"))
	b.Slurp(6)
	assert.Equal(t, "world", b.String())

	b.Slurp(100)
	assert.Equal(t, 0, b.Len())
}

func TestBoundedBufferTruncateTo(t *testing.T) {
	t.Parallel()

	b := newBoundedBuffer()
	b.Put([]byte("hello world"))
	b.TruncateTo(5)
	assert.Equal(t, "hello", b.String())

	b.TruncateTo(-1)
	assert.Equal(t, 0, b.Len())
}

func TestBufferPoolLIFO(t *testing.T) {
	t.Parallel()

	var p bufferPool
	assert.Equal(t, 0, p.size())

	a := p.acquire()
	assert.Equal(t, 1, p.size())
	a.Put([]byte("x"))

	b := p.acquire()
	assert.Equal(t, 2, p.size())
	b.Put([]byte("y"))

	p.release()
	assert.Equal(t, 1, p.size())

	// re-acquiring the same slot resets it
	c := p.acquire()
	assert.Equal(t, 2, p.size())
	assert.Equal(t, 0, c.Len())

	p.release()
	p.release()
	assert.Equal(t, 0, p.size())
}
