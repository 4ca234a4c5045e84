package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom(t *testing.T) {
	t.Parallel()

	t.Run("ValidFullConfig", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/valid_full.yaml")
		require.NoError(t, err)

		assert.Len(t, cfg.Extensions, 3)
		assert.Contains(t, cfg.Extensions, "tables")
		assert.Contains(t, cfg.Extensions, "fenced-code")
		assert.Contains(t, cfg.Extensions, "footnotes")

		assert.Contains(t, cfg.HTML, "safelink")
		assert.Contains(t, cfg.HTML, "toc")

		assert.Equal(t, []string{"docs/**.md"}, cfg.Scan.Include)
		assert.Equal(t, []string{"vendor/**"}, cfg.Scan.Exclude)

		assert.Equal(t, "out", cfg.Output.Dir)
		assert.Equal(t, ".htm", cfg.Output.Ext)

		require.NoError(t, cfg.Validate())
	})

	t.Run("ValidPartialConfig", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/valid_partial.yaml")
		require.NoError(t, err)

		assert.Equal(t, []string{"common"}, cfg.Extensions)
		assert.Empty(t, cfg.HTML)
	})

	t.Run("EmptyFile", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/empty.yaml")
		require.NoError(t, err)
		assert.True(t, cfg.IsEmpty())
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/invalid.yaml")
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("FileNotExists", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/nonexistent.yaml")
		require.NoError(t, err)
		assert.True(t, cfg.IsEmpty())
	})

	t.Run("ExtraFields", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/extra_fields.yaml")
		require.NoError(t, err)
		assert.Contains(t, cfg.Extensions, "tables")
	})
}

func TestValidateRejectsUnknownNames(t *testing.T) {
	t.Parallel()

	cfg := &Config{Extensions: []string{"not-a-real-extension"}}
	assert.Error(t, cfg.Validate())

	cfg = &Config{HTML: []string{"not-a-real-flag"}}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Scan: ScanConfig{Include: []string{"[unterminated"}}}
	assert.Error(t, cfg.Validate())
}

func TestMergeIsAdditiveForSlicesOverridingForScalars(t *testing.T) {
	t.Parallel()

	base := &Config{Extensions: []string{"tables"}, Output: OutputConfig{Dir: "a"}}
	base.Merge(&Config{Extensions: []string{"footnotes"}, Output: OutputConfig{Dir: "b", Ext: ".xhtml"}})

	assert.Equal(t, []string{"tables", "footnotes"}, base.Extensions)
	assert.Equal(t, "b", base.Output.Dir)
	assert.Equal(t, ".xhtml", base.Output.Ext)
}

func TestFindAndLoadWalksUpToParent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := FindAndLoad(nested)
	require.NoError(t, err)
	assert.True(t, cfg.IsEmpty())

	// a config file three levels up is found from nested
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFileName), []byte("extensions:\n  - tables\n"), 0o644))
	cfg, err = FindAndLoad(nested)
	require.NoError(t, err)
	assert.Equal(t, []string{"tables"}, cfg.Extensions)
}
