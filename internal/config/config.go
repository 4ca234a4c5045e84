// Package config handles loading configuration from .blackfriday.yaml files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFileName is the default configuration file name.
const DefaultConfigFileName = ".blackfriday.yaml"

// Config represents the complete configuration structure for the CLI.
type Config struct {
	// Extensions lists parser extensions to enable, by name (see
	// validExtensions). If empty, the "common" set is used at runtime.
	Extensions []string `yaml:"extensions"`

	// HTML holds HTML-renderer option flags, by name (see validHTMLFlags).
	HTML []string `yaml:"html"`

	// Scan holds file-discovery settings for multi-file invocations.
	Scan ScanConfig `yaml:"scan"`

	// Output holds output preferences.
	Output OutputConfig `yaml:"output"`
}

// ScanConfig holds glob patterns that filter the Markdown files found
// under a directory argument.
type ScanConfig struct {
	// Include specifies glob patterns for paths to include.
	// Example: ["docs/**.md", "README.md"]
	Include []string `yaml:"include"`

	// Exclude specifies glob patterns for paths to exclude.
	// Example: ["vendor/**", "**/testdata/**"]
	Exclude []string `yaml:"exclude"`
}

// OutputConfig holds output preferences.
type OutputConfig struct {
	// Dir is the directory converted files are written to. Empty means
	// stdout (single-file invocations only).
	Dir string `yaml:"dir"`

	// Ext overrides the output file extension (default ".html").
	Ext string `yaml:"ext"`
}

// validExtensions names every parser extension recognised in config and
// on the command line, independent of its bit position in markdown.go.
var validExtensions = []string{
	"no-intra-emphasis", "tables", "fenced-code", "autolink",
	"strikethrough", "ins", "lax-spacing", "space-headers",
	"superscript", "footnotes", "hard-line-break", "no-expand-tabs",
	"tab-size-eight", "common",
}

var validHTMLFlags = []string{
	"skip-html", "skip-style", "skip-links", "skip-images",
	"expand-tabs", "safelink", "toc", "hard-wrap", "use-xhtml",
	"escape", "outline",
}

// Load reads configuration from .blackfriday.yaml in the current directory.
// A missing file is not an error; it yields an empty Config.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFileName)
}

// LoadFrom reads configuration from a specific path. A missing file is
// not an error; it yields an empty Config.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindAndLoad searches for a config file starting at startDir and
// walking up through parent directories until one is found or the
// filesystem root is reached.
func FindAndLoad(startDir string) (*Config, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, DefaultConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return LoadFrom(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return &Config{}, nil
		}
		dir = parent
	}
}

// Validate checks the configuration for unrecognised extension/flag
// names and malformed glob patterns.
func (c *Config) Validate() error {
	for _, e := range c.Extensions {
		if !slices.Contains(validExtensions, e) {
			return fmt.Errorf("invalid extension %q: valid extensions are %v", e, validExtensions)
		}
	}
	for _, f := range c.HTML {
		if !slices.Contains(validHTMLFlags, f) {
			return fmt.Errorf("invalid html flag %q: valid flags are %v", f, validHTMLFlags)
		}
	}
	for _, p := range c.Scan.Include {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("invalid scan.include pattern %q: %w", p, err)
		}
	}
	for _, p := range c.Scan.Exclude {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("invalid scan.exclude pattern %q: %w", p, err)
		}
	}
	return nil
}

// IsEmpty reports whether the config has no settings defined.
func (c *Config) IsEmpty() bool {
	return len(c.Extensions) == 0 &&
		len(c.HTML) == 0 &&
		len(c.Scan.Include) == 0 &&
		len(c.Scan.Exclude) == 0 &&
		c.Output.Dir == "" &&
		c.Output.Ext == ""
}

// Merge combines another config into this one; slice fields are
// additive, scalar fields in other win when set. Used to layer CLI
// flags over a loaded file.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	c.Extensions = append(c.Extensions, other.Extensions...)
	c.HTML = append(c.HTML, other.HTML...)
	c.Scan.Include = append(c.Scan.Include, other.Scan.Include...)
	c.Scan.Exclude = append(c.Scan.Exclude, other.Scan.Exclude...)
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
	if other.Output.Ext != "" {
		c.Output.Ext = other.Output.Ext
	}
}
