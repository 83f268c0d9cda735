package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/benji-york/fend/internal/pattern"
	"github.com/benji-york/fend/internal/pattern/builtin"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List registered patterns and pattern sets",
	RunE:  runPatterns,
}

func init() {
	patternsCmd.Flags().Bool("sets", false, "list pattern sets with their versions")
}

func runPatterns(cmd *cobra.Command, _ []string) error {
	if err := setupColor(cmd); err != nil {
		return err
	}
	showSets, err := cmd.Flags().GetBool("sets")
	if err != nil {
		return err
	}

	registry := pattern.NewRegistry()
	if err := builtin.Register(registry); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showSets {
		return listSets(out, registry)
	}
	return listPatterns(out, registry)
}

func listPatterns(out io.Writer, registry *pattern.Registry) error {
	nameColor := color.New(color.FgCyan)
	fixableColor := color.New(color.Faint)

	for _, name := range registry.Names() {
		p, _ := registry.Lookup(name)
		suffix := ""
		if _, ok := p.(pattern.Fixer); ok {
			suffix = fixableColor.Sprint("  [fixable]")
		}
		if _, err := fmt.Fprintf(out, "%-32s %s%s\n",
			nameColor.Sprint(name), p.Description(), suffix); err != nil {
			return err
		}
	}
	return nil
}

func listSets(out io.Writer, registry *pattern.Registry) error {
	nameColor := color.New(color.FgCyan)

	for _, setName := range registry.Sets() {
		for _, set := range registry.SetDefinitions(setName) {
			if _, err := fmt.Fprintf(out, "%s v%d: %s\n",
				nameColor.Sprint(set.Name), set.Version,
				strings.Join(set.Patterns, ", ")); err != nil {
				return err
			}
		}
	}
	return nil
}
