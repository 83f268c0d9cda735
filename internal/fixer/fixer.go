// Package fixer writes proposed fixes back to disk. Each file is
// replaced atomically: content goes to a temp file in the same
// directory, gets the original's permissions, and is renamed over the
// target, so a crash mid-run never leaves a half-written file.
package fixer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/benji-york/fend/internal/scanner"
)

// ErrNoFixes is returned when no file had anything to apply.
var ErrNoFixes = errors.New("no applicable fixes found")

// FileChange summarises one successfully rewritten file.
type FileChange struct {
	Path        string
	RelPath     string
	BytesBefore int
	BytesAfter  int
}

// SkippedFile records a file whose fix could not be written, with a
// reason. Skips are degraded outcomes, not fatal errors; the run
// continues with the remaining files.
type SkippedFile struct {
	Path    string
	RelPath string
	Reason  string
}

// Result aggregates applied changes and skips.
type Result struct {
	Changed []FileChange
	Skipped []SkippedFile
}

// Options configures Apply.
type Options struct {
	// DryRun reports what would change without touching disk.
	DryRun bool
	// Backup saves the original content next to the file as path.bak
	// before rewriting.
	Backup bool
}

// Apply writes every non-nil Fixed content from the scan results to
// disk. Per-file write failures become Skipped entries; ErrNoFixes is
// returned when no result carried a fix at all.
func Apply(results []scanner.FileResult, opts Options) (*Result, error) {
	out := &Result{}

	for _, res := range results {
		if res.Fixed == nil {
			continue
		}
		if opts.DryRun {
			out.Changed = append(out.Changed, FileChange{
				Path:       res.Path,
				RelPath:    res.RelPath,
				BytesAfter: len(res.Fixed),
			})
			continue
		}
		change, err := applyOne(res, opts.Backup)
		if err != nil {
			out.Skipped = append(out.Skipped, SkippedFile{
				Path:    res.Path,
				RelPath: res.RelPath,
				Reason:  err.Error(),
			})
			continue
		}
		out.Changed = append(out.Changed, change)
	}

	if len(out.Changed) == 0 && len(out.Skipped) == 0 {
		return out, ErrNoFixes
	}
	return out, nil
}

func applyOne(res scanner.FileResult, backup bool) (FileChange, error) {
	info, err := os.Stat(res.Path)
	if err != nil {
		return FileChange{}, fmt.Errorf("stat target: %w", err)
	}
	mode := info.Mode().Perm()

	if backup {
		// #nosec G304 -- path comes from project discovery
		original, err := os.ReadFile(res.Path)
		if err != nil {
			return FileChange{}, fmt.Errorf("read original for backup: %w", err)
		}
		if err := os.WriteFile(res.Path+".bak", original, mode); err != nil {
			return FileChange{}, fmt.Errorf("write backup: %w", err)
		}
	}

	dir := filepath.Dir(res.Path)
	tmp, err := os.CreateTemp(dir, ".fend-*")
	if err != nil {
		return FileChange{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after rename

	if _, err := tmp.Write(res.Fixed); err != nil {
		tmp.Close() //nolint:errcheck // already failing
		return FileChange{}, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close() //nolint:errcheck // already failing
		return FileChange{}, fmt.Errorf("set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return FileChange{}, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), res.Path); err != nil {
		return FileChange{}, fmt.Errorf("replace target: %w", err)
	}

	return FileChange{
		Path:        res.Path,
		RelPath:     res.RelPath,
		BytesBefore: int(info.Size()),
		BytesAfter:  len(res.Fixed),
	}, nil
}
