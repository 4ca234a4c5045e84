// Package scanner finds Markdown files to convert, given a file or
// directory argument and a set of include/exclude glob patterns.
package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
	".mkd":      true,
}

// ScanOptions holds options for discovering input files.
type ScanOptions struct {
	// Root is a file or directory argument from the command line.
	Root string

	// Include patterns (glob, matched against the path relative to
	// Root) - if set, only matching files are kept.
	Include []string

	// Exclude patterns (glob) - matching files are dropped.
	Exclude []string
}

// FindFiles resolves opts.Root to a list of Markdown files: the file
// itself if it's a regular file (Include/Exclude are not applied to it),
// or every Markdown file under it that passes Include/Exclude if it's a
// directory. It skips hidden directories (like .git) during a directory
// walk.
func FindFiles(opts ScanOptions) ([]string, error) {
	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, err
	}

	var files []string
	if !info.IsDir() {
		return []string{opts.Root}, nil
	} else {
		err := filepath.WalkDir(opts.Root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != opts.Root {
					return filepath.SkipDir
				}
				return nil
			}
			if markdownExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(opts.Include) > 0 {
		files, err = filterByGlobPatterns(files, opts.Root, opts.Include, true)
		if err != nil {
			return nil, err
		}
	}
	if len(opts.Exclude) > 0 {
		files, err = filterByGlobPatterns(files, opts.Root, opts.Exclude, false)
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

func filterByGlobPatterns(files []string, root string, patterns []string, include bool) ([]string, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}

	result := make([]string, 0, len(files))
	for _, f := range files {
		relPath, err := filepath.Rel(root, f)
		if err != nil {
			relPath = f
		}
		relPath = filepath.ToSlash(relPath)

		matches := matchesAnyGlob(relPath, compiled)
		if include && matches {
			result = append(result, f)
		} else if !include && !matches {
			result = append(result, f)
		}
	}
	return result, nil
}

func matchesAnyGlob(path string, patterns []glob.Glob) bool {
	for _, g := range patterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}
