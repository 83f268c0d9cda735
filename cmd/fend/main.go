package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/benji-york/fend/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "fend",
	Short: "Cross-project pattern enforcement",
	Long: `Fend checks files against named patterns (conventions a project has
agreed to keep), reports violations, and applies fixes where a pattern
knows how to rewrite the offending content.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("jobs", 0, "scan parallelism (0 = all cores)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
