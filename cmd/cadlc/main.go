package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cadl/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "cadlc",
	Short:         "CADL compiler and toolchain",
	Long:          `cadlc compiles CADL API descriptions and ships the tokenize/parse debug tools`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("jsondiag", false, "emit diagnostics as JSON, one object per line")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "cap printed diagnostics (0 = unlimited)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a TTY.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag against the stream's TTY status.
func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}

func maxDiagnostics(cmd *cobra.Command) int {
	n, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	return n
}
