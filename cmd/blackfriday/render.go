package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackfriday/blackfriday"
	"github.com/blackfriday/blackfriday/internal/config"
	"github.com/blackfriday/blackfriday/internal/scanner"
)

// Flag variables, set by root.go's init().
var (
	flagExtensions []string
	flagHTML       []string
	flagInclude    []string
	flagExclude    []string
	flagOutDir     string
	flagOutExt     string
	flagNoConfig   bool
)

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadEffectiveConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	extFlags := extensionsFromNames(cfg.Extensions)
	htmlFlags := htmlFlagsFromNames(cfg.HTML)
	renderer := blackfriday.NewHtmlRenderer(htmlFlags)

	if len(args) == 0 {
		return renderStream(os.Stdin, os.Stdout, renderer, extFlags)
	}

	var files []string
	for _, arg := range args {
		found, err := scanner.FindFiles(scanner.ScanOptions{
			Root:    arg,
			Include: cfg.Scan.Include,
			Exclude: cfg.Scan.Exclude,
		})
		if err != nil {
			return fmt.Errorf("scanning %s: %w", arg, err)
		}
		files = append(files, found...)
	}

	outDir := cfg.Output.Dir
	outExt := cfg.Output.Ext
	if outExt == "" {
		outExt = ".html"
	}

	if len(files) == 1 && outDir == "" {
		return renderFile(files[0], os.Stdout, renderer, extFlags)
	}
	if outDir == "" {
		return fmt.Errorf("--out (or output.dir in .blackfriday.yaml) is required when converting more than one file")
	}

	for _, in := range files {
		rel := filepath.Base(in)
		rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + outExt
		out := filepath.Join(outDir, rel)
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		renderErr := renderFile(in, f, renderer, extFlags)
		closeErr := f.Close()
		if renderErr != nil {
			return renderErr
		}
		if closeErr != nil {
			return closeErr
		}
	}
	return nil
}

func renderFile(path string, w io.Writer, renderer *blackfriday.Renderer, extFlags uint32) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return renderStream(f, w, renderer, extFlags)
}

func renderStream(r io.Reader, w io.Writer, renderer *blackfriday.Renderer, extFlags uint32) error {
	input, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	output := blackfriday.Markdown(input, renderer, extFlags)
	_, err = w.Write(output)
	return err
}

// loadEffectiveConfig loads .blackfriday.yaml (unless --no-config) and
// layers the CLI flags over it; CLI flags win, Scan/Extensions/HTML
// accumulate additively with the file's settings. --out-ext carries a
// non-empty default, so it only overrides the config file's value when
// the user actually passed it on the command line.
func loadEffectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}
	if !flagNoConfig {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	outExt := ""
	if cmd.Flags().Changed("out-ext") {
		outExt = flagOutExt
	}

	cfg.Merge(&config.Config{
		Extensions: flagExtensions,
		HTML:       flagHTML,
		Scan: config.ScanConfig{
			Include: flagInclude,
			Exclude: flagExclude,
		},
		Output: config.OutputConfig{
			Dir: flagOutDir,
			Ext: outExt,
		},
	})
	return cfg, nil
}
