package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"cadl/internal/diag"
	"cadl/internal/lexer"
	"cadl/internal/parser"
	"cadl/internal/source"
	"cadl/internal/token"
)

// listCadlFiles returns every *.cadl file under dir, sorted for
// deterministic output.
func listCadlFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".cadl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// TokenizeDirResult is the token stream of one file in a directory run.
type TokenizeDirResult struct {
	Path   string
	FileID source.FileID
	Tokens []token.Token
	Bag    *diag.Bag
}

// TokenizeDir tokenizes every *.cadl file under dir, up to jobs files in
// parallel. Results come back in path order regardless of scheduling.
func TokenizeDir(ctx context.Context, dir string, jobs int) (*source.FileSet, []TokenizeDirResult, error) {
	files, err := listCadlFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return source.NewFileSet(), nil, nil
	}

	fileSet, fileIDs, loadErrors := preloadFiles(files)

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]TokenizeDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bag := diag.NewBag()
			if loadErr, failed := loadErrors[path]; failed {
				bag.Add(diag.NewError(diag.LdrIOError, source.Span{},
					"failed to load file: "+loadErr.Error()))
				results[i] = TokenizeDirResult{Path: path, Bag: bag}
				return nil
			}

			id := fileIDs[path]
			lx := lexer.New(fileSet.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
			var tokens []token.Token
			for {
				tok := lx.Next()
				tokens = append(tokens, tok)
				if tok.Kind == token.EOF {
					break
				}
			}
			results[i] = TokenizeDirResult{Path: path, FileID: id, Tokens: tokens, Bag: bag}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// ParseDirResult is the parse outcome of one file in a directory run.
type ParseDirResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Cached bool
}

// ParseDir parses every *.cadl file under dir in parallel, consulting
// cache per file when non-nil.
func ParseDir(ctx context.Context, dir string, jobs int, cache *DiskCache) (*source.FileSet, []ParseDirResult, error) {
	files, err := listCadlFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return source.NewFileSet(), nil, nil
	}

	fileSet, fileIDs, loadErrors := preloadFiles(files)

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]ParseDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bag := diag.NewBag()
			if loadErr, failed := loadErrors[path]; failed {
				bag.Add(diag.NewError(diag.LdrIOError, source.Span{},
					"failed to load file: "+loadErr.Error()))
				results[i] = ParseDirResult{Path: path, Bag: bag}
				return nil
			}

			id := fileIDs[path]
			file := fileSet.Get(id)
			if payload, ok := cache.Lookup(file.Hash); ok {
				payload.restore(bag, id)
				results[i] = ParseDirResult{Path: path, FileID: id, Bag: bag, Cached: true}
				return nil
			}

			rep := diag.BagReporter{Bag: bag}
			lx := lexer.New(file, lexer.Options{Reporter: rep})
			parser.ParseFile(lx, parser.Options{Reporter: rep})
			if err := cache.Store(file.Hash, newPayload(path, bag)); err != nil {
				return err
			}
			results[i] = ParseDirResult{Path: path, FileID: id, Bag: bag}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// preloadFiles reads every file up front; the FileSet is not safe for
// concurrent mutation, so loading stays on the caller's goroutine.
func preloadFiles(files []string) (*source.FileSet, map[string]source.FileID, map[string]error) {
	fileSet := source.NewFileSet()
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error)
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileSet.AddNormalized(path, content, 0)
	}
	return fileSet, fileIDs, loadErrors
}
