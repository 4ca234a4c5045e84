package blackfriday

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSafeURL(t *testing.T) {
	t.Parallel()

	assert.True(t, IsSafeURL([]byte("http://example.com")))
	assert.True(t, IsSafeURL([]byte("https://example.com")))
	assert.True(t, IsSafeURL([]byte("mailto:a@b.com")))
	assert.True(t, IsSafeURL([]byte("//example.com/path")))
	assert.True(t, IsSafeURL([]byte("/relative/path")))
	assert.False(t, IsSafeURL([]byte("javascript:alert(1)")))
}

func TestAutolinkURL(t *testing.T) {
	t.Parallel()

	data := []byte("http://example.com/path, more text")
	n := autolinkURL(data, 0)
	assert.Equal(t, len("http://example.com/path"), n)
}

func TestAutolinkURLBalancesParens(t *testing.T) {
	t.Parallel()

	data := []byte("http://example.com/wiki_(disambiguation) rest")
	n := autolinkURL(data, 0)
	assert.Equal(t, len("http://example.com/wiki_(disambiguation)"), n)
}

func TestAutolinkWWW(t *testing.T) {
	t.Parallel()

	data := []byte("www.example.com is a site")
	n := autolinkWWW(data, 0)
	assert.Equal(t, len("www.example.com"), n)
}

func TestAutolinkEmail(t *testing.T) {
	t.Parallel()

	data := []byte("contact me at a.b+c@example.com.")
	at := bytes.IndexByte(data, '@')
	require.GreaterOrEqual(t, at, 0)

	length, rewind := autolinkEmail(data, at)
	assert.Equal(t, "a.b+c@example.com", string(data[at-rewind:at+length-rewind]))
}
