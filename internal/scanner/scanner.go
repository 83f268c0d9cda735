// Package scanner runs patterns over a set of files in parallel and
// folds the per-file results into one deterministic report.
//
// Workers share the read-only FileSet and suppression resolver and
// write into index-addressed slots, so no locking is needed; the final
// merge walks slots in file order and sorts, making output independent
// of worker count and completion order.
package scanner

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/benji-york/fend/internal/pattern"
	"github.com/benji-york/fend/internal/report"
	"github.com/benji-york/fend/internal/source"
	"github.com/benji-york/fend/internal/suppress"
	"github.com/benji-york/fend/internal/textdiff"
)

// Options tunes a scan.
type Options struct {
	// Jobs caps worker parallelism; <=0 means GOMAXPROCS.
	Jobs int

	// ComputeFixes chains each fix-capable pattern's rewrite over the
	// file and records per-pattern diffs. Used by fix mode and by
	// check --diff.
	ComputeFixes bool

	// Cache, when non-nil, short-circuits detection for unchanged
	// content.
	Cache *DCache

	// Events receives per-file progress notifications.
	Events Sink
}

// FileResult is the per-file outcome a fix run needs beyond the report.
type FileResult struct {
	// Path is the file as discovered on disk.
	Path string
	// RelPath is the slash-separated project-relative path violations
	// are reported under.
	RelPath string
	// Fixed is the proposed content after all applicable fixes, nil
	// when nothing changed or fixes were not computed.
	Fixed []byte
}

// Scan loads paths into fileSet, runs every pattern over every file in
// parallel, applies suppression, and returns the merged report plus
// per-file results in path order.
//
// Pattern panics and unreadable files never abort the run; they become
// degraded report entries for their file. The returned error is
// reserved for cancellation.
func Scan(ctx context.Context, fileSet *source.FileSet, paths []string, patterns []pattern.Pattern, base *suppress.Resolver, opts Options) (*report.Report, []FileResult, error) {
	results := make([]FileResult, len(paths))
	reports := make([]*report.Report, len(paths))

	top := report.New()
	if base != nil {
		top.Warnings = base.Warnings()
	}
	if len(paths) == 0 {
		return top, results, nil
	}

	// Preload everything up front; workers only read.
	fileIDs := make(map[string]source.FileID, len(paths))
	loadErrors := make(map[string]error, len(paths))
	for _, path := range paths {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		emit(opts.Events, Event{Path: path, Status: StatusQueued})
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			emit(opts.Events, Event{Path: path, Status: StatusScanning})

			rep := report.New()
			reports[i] = rep

			if loadErr, failed := loadErrors[path]; failed {
				relPath := relTo(fileSet.BaseDir(), path)
				results[i] = FileResult{Path: path, RelPath: relPath}
				rep.Add(pattern.Violation{
					Pattern: pattern.KindIOError.String(),
					Path:    relPath,
					Message: "cannot read file: " + loadErr.Error(),
					Kind:    pattern.KindIOError,
				})
				emit(opts.Events, Event{Path: path, Status: StatusError})
				return nil
			}

			file := fileSet.Get(fileIDs[path])
			relPath := file.RelPath(fileSet.BaseDir())
			results[i] = FileResult{Path: path, RelPath: relPath}
			scanFile(file, relPath, patterns, base, opts, rep, &results[i])

			genuine, degraded := rep.Counts()
			status := StatusDone
			if degraded > 0 {
				status = StatusError
			}
			emit(opts.Events, Event{Path: path, Status: status, Violations: genuine})
			return nil
		})
	}

	err := g.Wait()

	for _, rep := range reports {
		top.Merge(rep)
	}
	top.Sort()
	return top, results, err
}

// scanFile runs detection and, when requested, fix preview for one file.
func scanFile(file *source.File, relPath string, patterns []pattern.Pattern, base *suppress.Resolver, opts Options, rep *report.Report, result *FileResult) {
	inline := suppress.NewResolver(suppress.ExtractInline(relPath, file.Content), nil)

	// Live (unsuppressed) genuine violations per pattern, in pattern
	// order; the fix stage only rewrites for patterns that still have
	// something to fix.
	live := make(map[string]int, len(patterns))

	for _, p := range patterns {
		name := p.Name()
		if fileScopeSuppressed(base, inline, name, relPath) {
			continue
		}

		violations, degraded := detect(p, file, opts.Cache)
		if degraded != nil {
			v := *degraded
			v.Path = relPath
			rep.Add(v)
			continue
		}

		for _, v := range violations {
			v.Path = relPath
			if suppressed(base, inline, name, relPath, v.Line) {
				continue
			}
			rep.Add(v)
			live[name]++
		}
	}

	if !opts.ComputeFixes {
		return
	}

	content := file.Content
	for _, p := range patterns {
		name := p.Name()
		if live[name] == 0 {
			continue
		}
		fx, fixable := p.(pattern.Fixer)
		if !fixable {
			rep.Unfixable += live[name]
			continue
		}
		fixed, changed, degraded := applyFix(fx, name, content)
		if degraded != nil {
			v := *degraded
			v.Path = relPath
			rep.Add(v)
			continue
		}
		if !changed {
			continue
		}
		rep.AddDiff(relPath, name, textdiff.Compute(content, fixed))
		content = fixed
	}
	if !bytes.Equal(content, file.Content) {
		result.Fixed = content
	}
}

// detect runs a pattern with panic isolation and an optional cache in
// front. Only clean results are cached; a degraded entry is returned as
// the second result instead.
func detect(p pattern.Pattern, file *source.File, cache *DCache) (violations []pattern.Violation, degraded *pattern.Violation) {
	name := p.Name()
	if cached, ok := cache.Get(file, name); ok {
		return cached, nil
	}

	defer func() {
		if r := recover(); r != nil {
			violations = nil
			degraded = &pattern.Violation{
				Pattern: name,
				Path:    file.Path,
				Message: fmt.Sprintf("pattern panicked during detection: %v", r),
				Kind:    pattern.KindPatternError,
			}
		}
	}()

	violations = p.Detect(file)
	cache.Put(file, name, violations)
	return violations, nil
}

// applyFix runs a pattern's rewrite with the same panic isolation
// detect gets. A fixer that panics skips its own rewrite only; the
// remaining patterns keep chaining over the unrewritten content.
func applyFix(fx pattern.Fixer, name string, content []byte) (fixed []byte, changed bool, degraded *pattern.Violation) {
	defer func() {
		if r := recover(); r != nil {
			fixed, changed = nil, false
			degraded = &pattern.Violation{
				Pattern: name,
				Message: fmt.Sprintf("pattern panicked during fix: %v", r),
				Kind:    pattern.KindPatternError,
			}
		}
	}()

	fixed, changed = fx.Fix(content)
	return fixed, changed, nil
}

func fileScopeSuppressed(base, inline *suppress.Resolver, name, relPath string) bool {
	return (base != nil && base.FileSuppressed(name, relPath)) ||
		inline.FileSuppressed(name, relPath)
}

func suppressed(base, inline *suppress.Resolver, name, relPath string, line int) bool {
	return (base != nil && base.IsSuppressed(name, relPath, line)) ||
		inline.IsSuppressed(name, relPath, line)
}

// relTo renders path relative to base with forward slashes; paths that
// escape the base stay as given.
func relTo(base, path string) string {
	if base == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
