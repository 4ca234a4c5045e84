package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFindFilesSingleFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "readme.md", "# hi\n")

	files, err := FindFiles(ScanOptions{Root: filepath.Join(dir, "readme.md")})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "readme.md")
}

func TestFindFilesDirectorySkipsNonMarkdown(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "a")
	writeFile(t, dir, "b.md", "b")
	writeFile(t, dir, "notes.txt", "ignore me")

	files, err := FindFiles(ScanOptions{Root: dir})
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.Equal(t, ".md", filepath.Ext(f))
	}
}

func TestFindFilesNestedDirectories(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "root.md", "root")
	writeFile(t, dir, "sub/nested.md", "nested")

	files, err := FindFiles(ScanOptions{Root: dir})
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	sort.Strings(names)
	assert.Equal(t, []string{"nested.md", "root.md"}, names)
}

func TestFindFilesEmptyDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	files, err := FindFiles(ScanOptions{Root: dir})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFindFilesSkipsHiddenDirectories(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "visible.md", "v")
	writeFile(t, dir, ".hidden/ignored.md", "ignored")

	files, err := FindFiles(ScanOptions{Root: dir})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "visible.md")
}

func TestFindFilesExcludeGlob(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "keep.md", "k")
	writeFile(t, dir, "vendor/drop.md", "d")

	files, err := FindFiles(ScanOptions{Root: dir, Exclude: []string{"vendor/**"}})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "keep.md")
}

func TestFindFilesIncludeGlob(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "docs/guide.md", "g")
	writeFile(t, dir, "other.md", "o")

	files, err := FindFiles(ScanOptions{Root: dir, Include: []string{"docs/**"}})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "guide.md")
}

func TestFindFilesRejectsInvalidGlob(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "a")

	_, err := FindFiles(ScanOptions{Root: dir, Include: []string{"[unterminated"}})
	assert.Error(t, err)
}
