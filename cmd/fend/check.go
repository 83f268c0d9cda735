package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/benji-york/fend/internal/report"
	"github.com/benji-york/fend/internal/scanner"
	"github.com/benji-york/fend/internal/source"
	"github.com/benji-york/fend/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [filespec...]",
	Short: "Check files against the selected patterns",
	Long: `Check scans the given files (or the whole project when no filespec is
given) and reports every pattern violation. Files never change during a
check. Exit status is 0 when the project complies, 1 when violations
were found.`,
	RunE: runCheck,
}

func init() {
	addSelectionFlags(checkCmd)
	checkCmd.Flags().Bool("diff", false, "show the fix each fixable pattern proposes")
	checkCmd.Flags().Bool("progress", false, "show interactive scan progress")
	checkCmd.Flags().Bool("cache", false, "reuse detection results for unchanged files")
	checkCmd.Flags().Bool("clear-cache", false, "drop the detection cache before scanning")
}

func runCheck(cmd *cobra.Command, args []string) error {
	sel, err := selectionFromFlags(cmd)
	if err != nil {
		return err
	}
	showDiff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}

	s, err := newSession(cmd, args, sel)
	if err != nil {
		return err
	}

	rep, _, err := runScan(cmd, s, showDiff)
	if err != nil {
		return err
	}

	if err := rep.Render(os.Stdout, report.RenderOptions{ShowDiffs: showDiff, Quiet: s.quiet}); err != nil {
		return err
	}
	printTimings(s)

	if code := rep.CheckExitCode(); code != 0 {
		os.Exit(code)
	}
	return nil
}

// runScan performs the scan for check, fix and watch, wiring in the
// cache and the progress UI when asked for.
func runScan(cmd *cobra.Command, s *session, computeFixes bool) (*report.Report, []scanner.FileResult, error) {
	opts := scanner.Options{Jobs: s.jobs, ComputeFixes: computeFixes}

	if cache, err := openCache(cmd); err != nil {
		return nil, nil, err
	} else if cache != nil {
		opts.Cache = cache
	}

	var progressWG sync.WaitGroup
	if wantProgress(cmd) {
		events := make(chan scanner.Event, 256)
		opts.Events = scanner.ChannelSink{Ch: events}
		progressWG.Add(1)
		go func() {
			defer progressWG.Done()
			if err := ui.Run("fend "+cmd.Name(), len(s.files), events); err != nil {
				slog.Warn("progress display failed", "error", err)
			}
		}()
		defer func() {
			close(events)
			progressWG.Wait()
		}()
	}

	done := s.timer.Track("scan")
	fileSet := source.NewFileSetWithBase(s.cfg.Root)
	rep, results, err := scanner.Scan(cmd.Context(), fileSet, s.files, s.patterns, s.resolver, opts)
	if err != nil {
		return nil, nil, err
	}
	genuine, degraded := rep.Counts()
	done(fmt.Sprintf("%d violations, %d errors", genuine, degraded))
	return rep, results, nil
}

func openCache(cmd *cobra.Command) (*scanner.DCache, error) {
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		// The command does not offer caching.
		return nil, nil //nolint:nilerr // absent flag means no cache
	}
	clearCache, _ := cmd.Flags().GetBool("clear-cache")
	if !useCache && !clearCache {
		return nil, nil
	}

	cache, err := scanner.OpenDCache("fend")
	if err != nil {
		slog.Warn("detection cache unavailable", "error", err)
		return nil, nil
	}
	if clearCache {
		if err := cache.DropAll(); err != nil {
			return nil, fmt.Errorf("clear cache: %w", err)
		}
		if !useCache {
			return nil, nil
		}
		// DropAll moved the directory away; reopen to recreate it.
		return scanner.OpenDCache("fend")
	}
	return cache, nil
}

func wantProgress(cmd *cobra.Command) bool {
	progress, err := cmd.Flags().GetBool("progress")
	return err == nil && progress && isTerminal(os.Stderr)
}
