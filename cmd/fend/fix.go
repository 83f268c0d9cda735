package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benji-york/fend/internal/fixer"
	"github.com/benji-york/fend/internal/pattern"
	"github.com/benji-york/fend/internal/report"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [filespec...]",
	Short: "Apply available fixes to violating files",
	Long: `Fix scans like check, then rewrites every file whose violations have a
known fix. Each file is replaced atomically; a file is only touched
when at least one of its patterns proposes a change. Exit status is 0
when everything found was fixed, 1 when unfixable violations remain.`,
	RunE: runFix,
}

func init() {
	addSelectionFlags(fixCmd)
	fixCmd.Flags().Bool("diff", false, "show the applied changes as diffs")
	fixCmd.Flags().Bool("dry-run", false, "report what would change without writing")
	fixCmd.Flags().Bool("backup", false, "save the original next to the file as .bak")
	fixCmd.Flags().Bool("progress", false, "show interactive scan progress")
}

func runFix(cmd *cobra.Command, args []string) error {
	sel, err := selectionFromFlags(cmd)
	if err != nil {
		return err
	}
	showDiff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	backup, err := cmd.Flags().GetBool("backup")
	if err != nil {
		return err
	}

	s, err := newSession(cmd, args, sel)
	if err != nil {
		return err
	}

	rep, results, err := runScan(cmd, s, true)
	if err != nil {
		return err
	}

	done := s.timer.Track("apply")
	applied, err := fixer.Apply(results, fixer.Options{DryRun: dryRun, Backup: backup})
	if err != nil && !errors.Is(err, fixer.ErrNoFixes) {
		return err
	}
	done(fmt.Sprintf("%d files", len(applied.Changed)))

	// A fix that could not be written degrades the report the same way
	// an unreadable file does on check.
	for _, skipped := range applied.Skipped {
		rep.Add(pattern.Violation{
			Pattern: pattern.KindIOError.String(),
			Path:    skipped.RelPath,
			Message: "cannot write fix: " + skipped.Reason,
			Kind:    pattern.KindIOError,
		})
	}
	rep.Sort()

	if err := rep.Render(os.Stdout, report.RenderOptions{ShowDiffs: showDiff, Quiet: s.quiet}); err != nil {
		return err
	}
	if !s.quiet {
		printFixSummary(applied, dryRun)
	}
	printTimings(s)

	if code := rep.FixExitCode(); code != 0 {
		os.Exit(code)
	}
	return nil
}

func printFixSummary(applied *fixer.Result, dryRun bool) {
	verb := "fixed"
	if dryRun {
		verb = "would fix"
	}
	fmt.Printf("%s %d file(s)\n", verb, len(applied.Changed))
}
