package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/benji-york/fend/internal/report"
)

// debounceWindow batches the burst of events an editor save produces
// into one re-check.
const debounceWindow = 300 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [filespec...]",
	Short: "Re-run check whenever project files change",
	Long: `Watch runs a check, then waits for filesystem changes under the project
root and re-checks on every change until interrupted. Files are never
modified.`,
	RunE: runWatch,
}

func init() {
	addSelectionFlags(watchCmd)
	watchCmd.Flags().Bool("diff", false, "show the fix each fixable pattern proposes")
}

func runWatch(cmd *cobra.Command, args []string) error {
	sel, err := selectionFromFlags(cmd)
	if err != nil {
		return err
	}
	showDiff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)

	// First pass also tells us the project root to watch.
	s, err := newSession(cmd, args, sel)
	if err != nil {
		return err
	}
	if err := checkOnce(cmd, s, showDiff); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close() //nolint:errcheck // shutting down

	if err := watchTree(watcher, s.cfg.Root); err != nil {
		return err
	}

	var (
		debounce *time.Timer
		rescan   = make(chan struct{}, 1)
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ignoreEvent(event) {
				continue
			}
			// New directories need explicit watches.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						slog.Warn("cannot watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			if debounce == nil {
				debounce = time.AfterFunc(debounceWindow, func() {
					select {
					case rescan <- struct{}{}:
					default:
					}
				})
			} else {
				debounce.Reset(debounceWindow)
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", watchErr)

		case <-rescan:
			debounce = nil
			// Re-discover: the change may have added or removed files.
			s, err = newSession(cmd, args, sel)
			if err != nil {
				return err
			}
			if err := checkOnce(cmd, s, showDiff); err != nil {
				return err
			}
		}
	}
}

// checkOnce runs one scan/render cycle without terminating the process
// on violations; watch keeps going either way.
func checkOnce(cmd *cobra.Command, s *session, showDiff bool) error {
	rep, _, err := runScan(cmd, s, showDiff)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	if err := rep.Render(os.Stdout, report.RenderOptions{ShowDiffs: showDiff, Quiet: s.quiet}); err != nil {
		return err
	}
	if !s.quiet {
		fmt.Printf("watching %s for changes...\n", s.cfg.Root)
	}
	return nil
}

// watchTree adds dir and every non-hidden subdirectory to the watcher.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// ignoreEvent filters noise: chmods, our own temp files, and backup
// copies.
func ignoreEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return true
	}
	base := filepath.Base(event.Name)
	return strings.HasPrefix(base, ".fend-") || strings.HasSuffix(base, ".bak")
}
