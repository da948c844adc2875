package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"cadl/internal/ast"
	"cadl/internal/binder"
	"cadl/internal/checker"
	"cadl/internal/diag"
	"cadl/internal/host"
	"cadl/internal/lexer"
	"cadl/internal/parser"
	"cadl/internal/project"
	"cadl/internal/source"
	"cadl/internal/state"
)

// localCompilerDir is where a package-local compiler install lives,
// relative to the main file's directory.
const localCompilerDir = "cadl_modules/cadl-compiler"

type loaderState struct {
	ctx    context.Context
	host   host.Host
	prog   *Program
	binder *binder.Binder
	index  *suppressIndex
	seen   map[string]bool
	// names is shared by every file's lexer so identifier text dedupes
	// program-wide.
	names *source.Interner
}

// Compile loads, binds, and checks the program rooted at entry, then runs
// the registered validation and emit callbacks. Diagnostics land in the
// program's sink; the returned error is reserved for cancellation and
// callback failures.
func Compile(ctx context.Context, h host.Host, entry string, opts CompilerOptions) (*Program, error) {
	globals := ast.NewSymbolTable()
	prog := &Program{
		fileSet:  source.NewFileSet(),
		bag:      diag.NewBag(),
		globals:  globals,
		registry: state.NewRegistry(),
		host:     h,
		opts:     opts,
	}
	ls := &loaderState{
		ctx:    ctx,
		host:   h,
		prog:   prog,
		binder: binder.New(globals, diag.BagReporter{Bag: prog.bag}),
		index:  &suppressIndex{},
		seen:   make(map[string]bool),
		names:  source.NewInterner(),
	}
	prog.bag.SetSuppressor(ls.index)

	mainPath, err := h.ResolveAbsolutePath(entry)
	if err != nil {
		return prog, fmt.Errorf("resolve entry path: %w", err)
	}
	mainPath, mainDir, err := ls.resolveMain(mainPath)
	if err != nil {
		return prog, err
	}
	if mainPath == "" {
		return prog, nil // diagnostic already reported
	}

	ok, err := ls.checkCompilerVersion(mainDir, opts.CompilerPath)
	if err != nil {
		return prog, err
	}
	if !ok {
		return prog, nil // fatal mismatch, loading aborted
	}

	if !opts.NoStdLib {
		for _, dir := range h.GetLibDirs() {
			if err := ls.loadLibDir(dir); err != nil {
				return prog, err
			}
		}
	}

	if err := ls.loadPath(mainPath, source.Span{}); err != nil {
		return prog, err
	}

	for _, spec := range opts.Emitters {
		if err := ls.loadEmitter(spec, mainDir); err != nil {
			return prog, err
		}
	}

	binder.ReportDuplicates(globals, diag.BagReporter{Bag: prog.bag})

	prog.checker = checker.New(checker.Options{
		Globals:  globals,
		Reporter: diag.BagReporter{Bag: prog.bag},
		Registry: prog.registry,
		Program:  prog,
	})
	for _, script := range prog.scripts {
		prog.checker.CheckScript(script)
	}

	for _, fn := range prog.validators {
		if err := fn(prog); err != nil {
			return prog, fmt.Errorf("validation callback: %w", err)
		}
	}
	if !opts.NoEmit {
		for _, em := range prog.emitters {
			if err := em.fn(prog); err != nil {
				if em.name != "" {
					return prog, fmt.Errorf("emitter %s: %w", em.name, err)
				}
				return prog, fmt.Errorf("emitter: %w", err)
			}
		}
	}
	return prog, nil
}

// resolveMain turns the entry path into a concrete .cadl file. A
// directory entry resolves through its package descriptor.
func (ls *loaderState) resolveMain(mainPath string) (file, dir string, err error) {
	info, err := ls.host.Stat(ls.ctx, mainPath)
	if err != nil {
		if errors.Is(err, host.ErrNotFound) {
			ls.errNoTarget(diag.LdrFileNotFound, fmt.Sprintf("entry %q not found", mainPath))
			return "", "", nil
		}
		return "", "", err
	}
	if info.IsDirectory {
		resolved, err := ls.descriptorMain(mainPath, source.Span{})
		return resolved, mainPath, err
	}
	return mainPath, filepath.Dir(mainPath), nil
}

// checkCompilerVersion rejects running a global compiler against a
// package that carries its own local install. The locally installed
// launcher must be the same real file as the one executing.
func (ls *loaderState) checkCompilerVersion(mainDir, compilerPath string) (bool, error) {
	if compilerPath == "" {
		return true, nil
	}
	launcher := filepath.Join(mainDir, filepath.FromSlash(localCompilerDir), "bin", "cadlc")
	if _, err := ls.host.Stat(ls.ctx, launcher); err != nil {
		if errors.Is(err, host.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	localReal, err := ls.realpathOr(launcher)
	if err != nil {
		return false, err
	}
	currentReal, err := ls.realpathOr(compilerPath)
	if err != nil {
		return false, err
	}
	if localReal != currentReal {
		ls.errNoTarget(diag.LdrCompilerVersionMismatch, fmt.Sprintf(
			"package has its own compiler installed, run it via %s", launcher))
		return false, nil
	}
	return true, nil
}

// loadLibDir loads one standard-library directory through its descriptor,
// falling back to main.cadl.
func (ls *loaderState) loadLibDir(dir string) error {
	info, err := ls.host.Stat(ls.ctx, dir)
	if err != nil || !info.IsDirectory {
		if err != nil && !errors.Is(err, host.ErrNotFound) {
			return err
		}
		ls.errNoTarget(diag.LdrLibraryNotFound, fmt.Sprintf("standard library directory %q not found", dir))
		return nil
	}
	main, err := ls.descriptorMain(dir, source.Span{})
	if err != nil || main == "" {
		return err
	}
	return ls.loadPath(main, source.Span{})
}

// loadPath dispatches a resolved path: directories through their
// descriptor, .cadl files into the parser, .js/.mjs into external-module
// binding.
func (ls *loaderState) loadPath(path string, at source.Span) error {
	info, err := ls.host.Stat(ls.ctx, path)
	if err != nil {
		if errors.Is(err, host.ErrNotFound) {
			ls.errAt(diag.LdrFileNotFound, at, fmt.Sprintf("file %q not found", path))
			return nil
		}
		return err
	}
	if info.IsDirectory {
		main, err := ls.descriptorMain(path, at)
		if err != nil || main == "" {
			return err
		}
		return ls.loadPath(main, at)
	}
	switch {
	case strings.HasSuffix(path, ".cadl"):
		return ls.loadCadlFile(path, at)
	case strings.HasSuffix(path, ".js"), strings.HasSuffix(path, ".mjs"):
		return ls.loadExternalModule(path, at)
	default:
		ls.errAt(diag.LdrInvalidImport, at, fmt.Sprintf("cannot import %q: unknown extension", path))
		return nil
	}
}

// descriptorMain reads dir's cadl.toml and resolves its entry file. A
// directory without a descriptor falls back to main.cadl.
func (ls *loaderState) descriptorMain(dir string, at source.Span) (string, error) {
	descPath := filepath.Join(dir, project.DescriptorName)
	text, err := ls.host.ReadFile(ls.ctx, descPath)
	if err != nil {
		if errors.Is(err, host.ErrNotFound) {
			fallback := filepath.Join(dir, "main.cadl")
			if _, statErr := ls.host.Stat(ls.ctx, fallback); statErr == nil {
				return fallback, nil
			} else if !errors.Is(statErr, host.ErrNotFound) {
				return "", statErr
			}
			ls.errAt(diag.LdrFileNotFound, at, fmt.Sprintf(
				"directory %q has no %s and no main.cadl", dir, project.DescriptorName))
			return "", nil
		}
		return "", err
	}
	desc, err := project.Parse(descPath, []byte(text.Text))
	if err != nil {
		ls.errAt(diag.LdrInvalidImport, at, err.Error())
		return "", nil
	}
	return desc.MainPath(), nil
}

// loadCadlFile parses, binds, and recurses into one source file. Each
// real path is loaded at most once.
func (ls *loaderState) loadCadlFile(path string, at source.Span) error {
	real, err := ls.realpathOr(path)
	if err != nil {
		return err
	}
	if ls.seen[real] {
		return nil
	}
	ls.seen[real] = true

	text, err := ls.host.ReadFile(ls.ctx, path)
	if err != nil {
		switch {
		case errors.Is(err, host.ErrNotFound):
			ls.errAt(diag.LdrFileNotFound, at, fmt.Sprintf("file %q not found", path))
			return nil
		case errors.Is(err, host.ErrIO):
			ls.errAt(diag.LdrIOError, at, err.Error())
			return nil
		default:
			return err
		}
	}

	id := ls.prog.fileSet.AddNormalized(text.Path, []byte(text.Text), 0)
	file := ls.prog.fileSet.Get(id)

	// Parse into a local bag so the file's own #suppress directives are
	// indexed before its diagnostics reach the program sink.
	fileBag := diag.NewBag()
	rep := diag.BagReporter{Bag: fileBag}
	lx := lexer.New(file, lexer.Options{Reporter: rep, Interner: ls.names})
	script := parser.ParseFile(lx, parser.Options{Reporter: rep})
	script.Path = text.Path
	ls.index.addScript(script)
	for _, d := range fileBag.Items() {
		ls.prog.bag.Add(d)
	}

	ls.binder.BindScript(script)
	ls.prog.scripts = append(ls.prog.scripts, script)

	dir := filepath.Dir(path)
	for _, stmt := range script.Statements {
		imp, ok := stmt.(*ast.ImportNode)
		if !ok {
			continue
		}
		if err := ls.resolveImport(imp, dir); err != nil {
			return err
		}
	}
	return nil
}

// resolveImport handles one import statement. Relative and absolute
// specifiers resolve as paths; anything else goes through the package
// lookup.
func (ls *loaderState) resolveImport(imp *ast.ImportNode, fromDir string) error {
	if imp.Path == nil {
		return nil
	}
	spec := imp.Path.Value
	at := imp.Span
	switch {
	case spec == "":
		ls.errAt(diag.LdrInvalidImport, at, "empty import path")
		return nil
	case strings.HasPrefix(spec, "./"), strings.HasPrefix(spec, "../"):
		return ls.loadPath(filepath.Join(fromDir, filepath.FromSlash(spec)), at)
	case filepath.IsAbs(spec):
		return ls.loadPath(spec, at)
	default:
		return ls.resolvePackage(spec, fromDir, at)
	}
}

// resolvePackage performs the node-style lookup: from the importing
// file's directory upward, the first cadl_modules/<spec> entry wins.
func (ls *loaderState) resolvePackage(spec, fromDir string, at source.Span) error {
	for dir := fromDir; ; {
		candidate := filepath.Join(dir, "cadl_modules", filepath.FromSlash(spec))
		if _, err := ls.host.Stat(ls.ctx, candidate); err == nil {
			return ls.loadPath(candidate, at)
		} else if !errors.Is(err, host.ErrNotFound) {
			return err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	ls.errAt(diag.LdrLibraryNotFound, at, fmt.Sprintf("library %q not found", spec))
	return nil
}

// loadExternalModule binds a decorator module's exports and registers its
// lifecycle callbacks.
func (ls *loaderState) loadExternalModule(path string, at source.Span) error {
	real, err := ls.realpathOr(path)
	if err != nil {
		return err
	}
	if ls.seen[real] {
		return nil
	}
	ls.seen[real] = true

	exports, err := ls.host.GetExternalModuleExports(ls.ctx, path)
	if err != nil {
		if errors.Is(err, host.ErrNotFound) {
			ls.errAt(diag.LdrFileNotFound, at, fmt.Sprintf("external module %q not found", path))
			return nil
		}
		return err
	}
	ns, _ := exports["namespace"].(string)
	cb := ls.binder.BindExternalModule(&binder.ExternalModule{
		Path:      path,
		Namespace: ns,
		Exports:   exports,
	})
	if fn, ok := cb.OnValidate.(ValidateFn); ok {
		ls.prog.validators = append(ls.prog.validators, fn)
	}
	if fn, ok := cb.OnEmit.(EmitFn); ok {
		ls.prog.emitters = append(ls.prog.emitters, namedEmitter{fn: fn})
	}
	return nil
}

// loadEmitter resolves `<package>[:<name>]` and registers the selected
// emit entry point.
func (ls *loaderState) loadEmitter(spec, fromDir string) error {
	pkg, name, _ := strings.Cut(spec, ":")
	path, err := ls.resolveEmitterPath(pkg, fromDir)
	if err != nil || path == "" {
		return err
	}
	if info, err := ls.host.Stat(ls.ctx, path); err == nil && info.IsDirectory {
		path, err = ls.descriptorMain(path, source.Span{})
		if err != nil || path == "" {
			return err
		}
	}
	exports, err := ls.host.GetExternalModuleExports(ls.ctx, path)
	if err != nil {
		if errors.Is(err, host.ErrNotFound) {
			ls.errNoTarget(diag.LdrLibraryNotFound, fmt.Sprintf("emitter %q not found", spec))
			return nil
		}
		return err
	}
	key := "$onEmit"
	if name != "" {
		key = "$" + name
	}
	fn, ok := exports[key].(EmitFn)
	if !ok {
		ls.errNoTarget(diag.LdrInvalidImport, fmt.Sprintf("emitter %q exports no %s function", spec, key))
		return nil
	}
	ns, _ := exports["namespace"].(string)
	ls.binder.BindExternalModule(&binder.ExternalModule{Path: path, Namespace: ns, Exports: exports})
	ls.prog.emitters = append(ls.prog.emitters, namedEmitter{name: spec, fn: fn})
	return nil
}

func (ls *loaderState) resolveEmitterPath(pkg, fromDir string) (string, error) {
	if strings.HasPrefix(pkg, "./") || strings.HasPrefix(pkg, "../") {
		return filepath.Join(fromDir, filepath.FromSlash(pkg)), nil
	}
	if filepath.IsAbs(pkg) {
		return pkg, nil
	}
	for dir := fromDir; ; {
		candidate := filepath.Join(dir, "cadl_modules", filepath.FromSlash(pkg))
		if _, err := ls.host.Stat(ls.ctx, candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, host.ErrNotFound) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	ls.errNoTarget(diag.LdrLibraryNotFound, fmt.Sprintf("emitter package %q not found", pkg))
	return "", nil
}

// realpathOr resolves symlinks, passing the path through when the host
// cannot resolve it.
func (ls *loaderState) realpathOr(path string) (string, error) {
	real, err := ls.host.Realpath(ls.ctx, path)
	if err != nil {
		if errors.Is(err, host.ErrNotFound) || errors.Is(err, host.ErrIO) {
			return path, nil
		}
		return "", err
	}
	return real, nil
}

func (ls *loaderState) errAt(code diag.Code, at source.Span, msg string) {
	ls.prog.bag.Add(diag.NewError(code, at, msg))
}

func (ls *loaderState) errNoTarget(code diag.Code, msg string) {
	ls.prog.bag.Add(diag.NewError(code, source.Span{}, msg))
}
