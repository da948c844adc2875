package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cadl/internal/diagfmt"
	"cadl/internal/driver"
	"cadl/internal/loader"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <entry.cadl|dir>",
	Short: "Compile a CADL program",
	Long:  `Compile loads the entry file (or project directory), resolves its imports, type-checks the program, and runs any configured emitters`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringArray("emit", nil, "emitter package, `<package>[:<name>]` (repeatable)")
	compileCmd.Flags().String("output-dir", "", "directory emitters write into")
	compileCmd.Flags().Bool("no-emit", false, "run validators but skip emitters")
	compileCmd.Flags().Bool("no-std-lib", false, "do not load the bundled standard library")
	compileCmd.Flags().StringArray("option", nil, "extra `key=value` option handed to emitters (repeatable)")
	compileCmd.Flags().String("diagnostic-level", "", "minimum severity emitters should care about")
}

func runCompile(cmd *cobra.Command, args []string) error {
	entry := args[0]

	opts, err := compileOptions(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Compile(cmd.Context(), entry, opts)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}

	prog := result.Program
	bag := prog.Diagnostics()

	jsonDiag, _ := cmd.Root().PersistentFlags().GetBool("jsondiag")
	if jsonDiag {
		if err := diagfmt.JSONLines(os.Stdout, bag, prog.SourceFiles()); err != nil {
			return err
		}
	} else {
		popts := diagfmt.PrettyOpts{Color: useColor(cmd, os.Stdout), Context: 1, Max: maxDiagnostics(cmd)}
		diagfmt.Pretty(os.Stdout, bag, prog.SourceFiles(), popts)
		stats := diagfmt.CountStats(bag, len(prog.Scripts()), result.Elapsed)
		diagfmt.Summary(os.Stdout, stats, isTerminal(os.Stdout))
	}

	if prog.HasError() {
		return fmt.Errorf("compilation failed")
	}
	return nil
}

// compileOptions turns the compile flags into loader options.
func compileOptions(cmd *cobra.Command) (loader.CompilerOptions, error) {
	var opts loader.CompilerOptions
	var err error

	if opts.Emitters, err = cmd.Flags().GetStringArray("emit"); err != nil {
		return opts, err
	}
	if opts.OutputDir, err = cmd.Flags().GetString("output-dir"); err != nil {
		return opts, err
	}
	if opts.NoEmit, err = cmd.Flags().GetBool("no-emit"); err != nil {
		return opts, err
	}
	if opts.NoStdLib, err = cmd.Flags().GetBool("no-std-lib"); err != nil {
		return opts, err
	}
	if opts.DiagnosticLevel, err = cmd.Flags().GetString("diagnostic-level"); err != nil {
		return opts, err
	}

	pairs, err := cmd.Flags().GetStringArray("option")
	if err != nil {
		return opts, err
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return opts, fmt.Errorf("malformed --option %q, want key=value", pair)
		}
		if opts.Options == nil {
			opts.Options = make(map[string]string)
		}
		opts.Options[key] = value
	}
	return opts, nil
}
