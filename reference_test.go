package blackfriday

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefTableAddAndLookup(t *testing.T) {
	t.Parallel()

	table := newRefTable()
	table.add([]byte("Go  Lang"), []byte("http://golang.org"), []byte("The Go language"))

	ref, ok := table.lookup([]byte("go lang"))
	require.True(t, ok)
	assert.Equal(t, "http://golang.org", string(ref.link))
	assert.Equal(t, "The Go language", string(ref.title))

	_, ok = table.lookup([]byte("nonexistent"))
	assert.False(t, ok)
}

func TestNormalizeLabelFoldsCaseAndCollapsesSpace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "go lang", normalizeLabel([]byte("  Go   LANG  ")))
	assert.Equal(t, "a b", normalizeLabel([]byte("A\tB")))
}

func TestRefTableDistinguishesHashCollisionViaLabelCheck(t *testing.T) {
	t.Parallel()

	// "aa" and "b@" hash alike (33*'a'+'a' == 33*'b'+'@'), so they share a
	// bucket and only the label comparison tells them apart.
	require.Equal(t, labelHash("aa"), labelHash("b@"))

	table := newRefTable()
	table.add([]byte("aa"), []byte("http://one.example"), nil)
	table.add([]byte("b@"), []byte("http://two.example"), nil)

	one, ok := table.lookup([]byte("aa"))
	require.True(t, ok)
	assert.Equal(t, "http://one.example", string(one.link))

	two, ok := table.lookup([]byte("b@"))
	require.True(t, ok)
	assert.Equal(t, "http://two.example", string(two.link))
}

func TestIsRefParsesLinkWithTitle(t *testing.T) {
	t.Parallel()

	rndr := &render{refs: newRefTable()}
	data := []byte("[go]: http://golang.org \"The Go language\"\nnext line\n")
	n := isRef(rndr, data, 0, len(data))
	require.Greater(t, n, 0)

	ref, ok := rndr.refs.lookup([]byte("go"))
	require.True(t, ok)
	assert.Equal(t, "http://golang.org", string(ref.link))
	assert.Equal(t, "The Go language", string(ref.title))
}

func TestIsRefRejectsNonReferenceLine(t *testing.T) {
	t.Parallel()

	rndr := &render{refs: newRefTable()}
	data := []byte("not a reference line\n")
	assert.Equal(t, 0, isRef(rndr, data, 0, len(data)))
}

func TestIsFootnoteCollectsIndentedContinuation(t *testing.T) {
	t.Parallel()

	rndr := &render{footnotesFound: newFootnoteList()}
	data := []byte("[^note]: first line\n    second line\n\nnot part of it\n")
	n := isFootnote(rndr, data, 0, len(data))
	require.Greater(t, n, 0)

	ref, ok := rndr.lookupFootnote([]byte("note"))
	require.True(t, ok)
	assert.Contains(t, string(ref.contents), "first line")
	assert.Contains(t, string(ref.contents), "second line")
}

func TestExpandTabsAlignsToStops(t *testing.T) {
	t.Parallel()

	var out boundedBuffer
	expandTabs(&out.Buffer, []byte("a\tb"), 4)
	assert.Equal(t, "a   b\n", out.String())

	out.Reset()
	expandTabs(&out.Buffer, []byte("\tx"), 4)
	assert.Equal(t, "    x\n", out.String())
}

func TestFirstPassExtractsReferencesAndCopiesBody(t *testing.T) {
	t.Parallel()

	rndr := &render{refs: newRefTable(), footnotesFound: newFootnoteList()}
	input := []byte("see [x][y]\n\n[y]: http://e.com\n")
	text := firstPass(rndr, input, 0)

	assert.Contains(t, text.String(), "see [x][y]")
	_, ok := rndr.refs.lookup([]byte("y"))
	assert.True(t, ok)
}
