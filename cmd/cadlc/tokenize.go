package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cadl/internal/diagfmt"
	"cadl/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file.cadl|dir>",
	Short: "Tokenize CADL source",
	Long:  `Tokenize breaks a CADL source file into its token stream; given a directory it tokenizes every *.cadl file under it`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Int("jobs", 0, "parallel workers for directory runs (0 = GOMAXPROCS)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return tokenizeDir(cmd, path, format, jobs)
	}

	result, err := driver.Tokenize(path)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	if len(result.Bag.Items()) > 0 {
		opts := diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr), Context: 0}
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, opts)
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func tokenizeDir(cmd *cobra.Command, dir, format string, jobs int) error {
	fileSet, results, err := driver.TokenizeDir(cmd.Context(), dir, jobs)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	opts := diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr), Context: 0}
	for _, res := range results {
		if len(res.Bag.Items()) > 0 {
			diagfmt.Pretty(os.Stderr, res.Bag, fileSet, opts)
		}
		fmt.Fprintf(os.Stdout, "== %s\n", res.Path)
		switch format {
		case "pretty":
			if err := diagfmt.FormatTokensPretty(os.Stdout, res.Tokens, fileSet); err != nil {
				return err
			}
		case "json":
			if err := diagfmt.FormatTokensJSON(os.Stdout, res.Tokens); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format: %s", format)
		}
	}
	return nil
}
