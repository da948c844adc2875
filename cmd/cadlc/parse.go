package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cadl/internal/diagfmt"
	"cadl/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.cadl|dir>",
	Short: "Parse CADL source and report syntax diagnostics",
	Long:  `Parse runs the scanner and parser over a CADL source file (or every *.cadl file under a directory) and prints the syntax diagnostics; unchanged files are answered from the on-disk parse cache`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().Bool("no-cache", false, "ignore and bypass the on-disk parse cache")
	parseCmd.Flags().Int("jobs", 0, "parallel workers for directory runs (0 = GOMAXPROCS)")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	var cache *driver.DiskCache
	if !noCache {
		cache, err = driver.OpenDiskCache("cadlc")
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: parse cache unavailable: %v\n", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	jsonDiag, _ := cmd.Root().PersistentFlags().GetBool("jsondiag")
	opts := diagfmt.PrettyOpts{Color: useColor(cmd, os.Stdout), Context: 1, Max: maxDiagnostics(cmd)}

	if info.IsDir() {
		fileSet, results, err := driver.ParseDir(cmd.Context(), path, jobs, cache)
		if err != nil {
			return fmt.Errorf("parse failed: %w", err)
		}
		failed := false
		for _, res := range results {
			res.Bag.Sort()
			if jsonDiag {
				if err := diagfmt.JSONLines(os.Stdout, res.Bag, fileSet); err != nil {
					return err
				}
			} else {
				diagfmt.Pretty(os.Stdout, res.Bag, fileSet, opts)
			}
			if res.Bag.HasErrors() {
				failed = true
			}
		}
		if failed {
			return fmt.Errorf("parse found errors")
		}
		return nil
	}

	result, err := driver.Parse(path, cache)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	result.Bag.Sort()
	if jsonDiag {
		if err := diagfmt.JSONLines(os.Stdout, result.Bag, result.FileSet); err != nil {
			return err
		}
	} else {
		diagfmt.Pretty(os.Stdout, result.Bag, result.FileSet, opts)
	}
	if result.Bag.HasErrors() {
		return fmt.Errorf("parse found errors")
	}
	return nil
}
