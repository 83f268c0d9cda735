package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/benji-york/fend/internal/config"
	"github.com/benji-york/fend/internal/observ"
	"github.com/benji-york/fend/internal/pattern"
	"github.com/benji-york/fend/internal/pattern/builtin"
	"github.com/benji-york/fend/internal/project"
	"github.com/benji-york/fend/internal/suppress"
)

// session carries everything a check or fix run needs: the loaded
// manifest, the resolved pattern list, the suppression resolver, and
// the discovered files.
type session struct {
	cfg      *config.Config
	registry *pattern.Registry
	patterns []pattern.Pattern
	resolver *suppress.Resolver
	files    []string
	jobs     int
	quiet    bool
	timer    *observ.Timer
}

// selection is the pattern choice made on the command line. Any
// explicit choice replaces the manifest's [patterns] selection; pins
// merge, with flags winning over the manifest.
type selection struct {
	enable []string
	sets   []string
	pins   map[string]int
	all    bool
}

func (s selection) explicit() bool {
	return s.all || len(s.enable) > 0 || len(s.sets) > 0
}

// addSelectionFlags installs the pattern selection flags shared by
// check, fix and watch.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("enable", nil, "run only these patterns")
	cmd.Flags().StringSlice("set", nil, "run the patterns of these sets")
	cmd.Flags().StringToInt("pin", nil, "pin a set to a version (name=version)")
	cmd.Flags().Bool("all", false, "run every registered pattern")
}

func selectionFromFlags(cmd *cobra.Command) (selection, error) {
	var sel selection
	var err error
	if sel.enable, err = cmd.Flags().GetStringSlice("enable"); err != nil {
		return sel, err
	}
	if sel.sets, err = cmd.Flags().GetStringSlice("set"); err != nil {
		return sel, err
	}
	if sel.pins, err = cmd.Flags().GetStringToInt("pin"); err != nil {
		return sel, err
	}
	sel.all, err = cmd.Flags().GetBool("all")
	return sel, err
}

// newSession loads configuration, resolves patterns, and expands the
// filespec arguments. It also applies the global color mode.
func newSession(cmd *cobra.Command, args []string, sel selection) (*session, error) {
	if err := setupColor(cmd); err != nil {
		return nil, err
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return nil, err
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, err
	}
	jobsFlag, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return nil, err
	}

	var timer *observ.Timer
	if timings {
		timer = observ.NewTimer()
	}

	cfg, err := config.Load(".")
	if err != nil {
		return nil, err
	}

	registry := pattern.NewRegistry()
	if err := builtin.Register(registry); err != nil {
		return nil, err
	}

	request := cfg.Request()
	if sel.explicit() {
		request = pattern.Request{Names: sel.enable, Sets: sel.sets, All: sel.all}
	}
	request.Pins = mergePins(cfg.Patterns.Pin, sel.pins)

	patterns, err := registry.Resolve(request)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no patterns selected")
	}

	resolver := suppress.NewResolver(cfg.Directives(), func(name string) bool {
		_, ok := registry.Lookup(name)
		return ok
	})

	done := timer.Track("discover")
	files, err := project.Expand(cfg.Root, args)
	if err != nil {
		return nil, err
	}
	done(fmt.Sprintf("%d files", len(files)))

	jobs := jobsFlag
	if jobs <= 0 {
		jobs = cfg.Patterns.Jobs
	}

	return &session{
		cfg:      cfg,
		registry: registry,
		patterns: patterns,
		resolver: resolver,
		files:    files,
		jobs:     jobs,
		quiet:    quiet,
		timer:    timer,
	}, nil
}

func mergePins(base, override map[string]int) map[string]int {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	merged := make(map[string]int, len(base)+len(override))
	for set, version := range base {
		merged[set] = version
	}
	for set, version := range override {
		merged[set] = version
	}
	return merged
}

func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("unsupported --color mode %q (must be auto, on or off)", mode)
	}
	return nil
}

func printTimings(s *session) {
	if s.timer != nil {
		fmt.Fprint(os.Stderr, s.timer.Summary())
	}
}
