// Package driver orchestrates the CLI-facing pipelines: full compilation
// through the loader, plus the tokenize and parse debug surfaces.
package driver

import (
	"context"
	"os"
	"time"

	"cadl/internal/diag"
	"cadl/internal/host"
	"cadl/internal/lexer"
	"cadl/internal/loader"
	"cadl/internal/parser"
	"cadl/internal/source"
	"cadl/internal/token"
)

// CompileResult bundles the program with timing for the summary block.
type CompileResult struct {
	Program *loader.Program
	Elapsed time.Duration
}

// Compile runs a full compilation of entry on the local filesystem.
func Compile(ctx context.Context, entry string, opts loader.CompilerOptions, hostOpts ...host.OSOption) (*CompileResult, error) {
	if opts.CompilerPath == "" {
		if exe, err := os.Executable(); err == nil {
			opts.CompilerPath = exe
		}
	}
	started := time.Now()
	prog, err := loader.Compile(ctx, host.NewOSHost(hostOpts...), entry, opts)
	if err != nil {
		return nil, err
	}
	prog.Diagnostics().Sort()
	return &CompileResult{Program: prog, Elapsed: time.Since(started)}, nil
}

// TokenizeResult is the token stream of one file.
type TokenizeResult struct {
	Path    string
	FileID  source.FileID
	Tokens  []token.Token
	Bag     *diag.Bag
	FileSet *source.FileSet
}

// Tokenize scans a single file and returns every token up to EOF.
func Tokenize(path string) (*TokenizeResult, error) {
	fileSet := source.NewFileSet()
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	id := fileSet.AddNormalized(path, content, 0)

	bag := diag.NewBag()
	lx := lexer.New(fileSet.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return &TokenizeResult{Path: path, FileID: id, Tokens: tokens, Bag: bag, FileSet: fileSet}, nil
}

// ParseResult is the parse outcome of one file. Cached reports whether
// the diagnostics came from the disk cache instead of a fresh parse.
type ParseResult struct {
	Path    string
	FileID  source.FileID
	Bag     *diag.Bag
	FileSet *source.FileSet
	Cached  bool
}

// Parse parses a single file, consulting cache for unchanged content.
// A nil cache always parses.
func Parse(path string, cache *DiskCache) (*ParseResult, error) {
	fileSet := source.NewFileSet()
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	id := fileSet.AddNormalized(path, content, 0)
	file := fileSet.Get(id)

	if payload, ok := cache.Lookup(file.Hash); ok {
		bag := diag.NewBag()
		payload.restore(bag, id)
		return &ParseResult{Path: path, FileID: id, Bag: bag, FileSet: fileSet, Cached: true}, nil
	}

	bag := diag.NewBag()
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	parser.ParseFile(lx, parser.Options{Reporter: rep})

	if err := cache.Store(file.Hash, newPayload(path, bag)); err != nil {
		return nil, err
	}
	return &ParseResult{Path: path, FileID: id, Bag: bag, FileSet: fileSet}, nil
}
