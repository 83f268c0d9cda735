// Package project discovers the files a run operates on. Filespecs are
// paths, directories, or doublestar globs, resolved against the project
// root; the result is sorted so every downstream stage sees files in a
// stable order.
package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand resolves filespecs to a sorted, de-duplicated list of file
// paths. Without specs the whole project root is walked. A spec that
// names a missing path or matches nothing is an error: silently
// checking zero files would report a compliant project by accident.
func Expand(root string, specs []string) ([]string, error) {
	if len(specs) == 0 {
		return walk(root)
	}

	seen := make(map[string]bool)
	var out []string
	add := func(paths ...string) {
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}

	for _, spec := range specs {
		path := spec
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}

		if info, err := os.Stat(path); err == nil {
			if info.IsDir() {
				files, err := walk(path)
				if err != nil {
					return nil, err
				}
				add(files...)
			} else {
				add(path)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(path)
		if err != nil {
			return nil, fmt.Errorf("bad filespec %q: %w", spec, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("filespec %q matched no files", spec)
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, err
			}
			if info.IsDir() {
				files, err := walk(match)
				if err != nil {
					return nil, err
				}
				add(files...)
				continue
			}
			add(match)
		}
	}

	sort.Strings(out)
	return out, nil
}

// walk lists every regular file under dir, skipping hidden directories
// (.git and friends). Hidden files themselves are kept; conventions
// apply to .gitignore as much as to anything else.
func walk(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
