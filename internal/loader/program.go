// Package loader assembles a program: it loads the standard library and
// the main file through a Host, follows imports, binds and checks every
// script, and drives the validation and emit callbacks external modules
// register. All I/O goes through the Host; the loader owns the order.
package loader

import (
	"cadl/internal/ast"
	"cadl/internal/checker"
	"cadl/internal/diag"
	"cadl/internal/host"
	"cadl/internal/source"
	"cadl/internal/state"
	"cadl/internal/types"
)

// DecoratorFn is the callable shape external modules export under
// '$'-prefixed names.
type DecoratorFn = checker.DecoratorFn

// ValidateFn runs after checking, before emit.
type ValidateFn func(p *Program) error

// EmitFn writes outputs through the program's host.
type EmitFn func(p *Program) error

// CompilerOptions are the options surface handed to the loader and
// exposed to emitters.
type CompilerOptions struct {
	// Emitters are `<package>[:<name>]` specifiers.
	Emitters  []string
	OutputDir string
	NoEmit    bool
	NoStdLib  bool
	// DiagnosticLevel is advisory for emitters; the core reports
	// everything.
	DiagnosticLevel string
	// CompilerPath locates the running compiler for the local-install
	// check. Empty disables the check.
	CompilerPath string
	// Options carries miscellaneous `k=v` pairs from the CLI.
	Options map[string]string
}

// Program is the completed compilation handed to validators and
// emitters.
type Program struct {
	fileSet  *source.FileSet
	bag      *diag.Bag
	globals  *ast.SymbolTable
	scripts  []*ast.ScriptNode
	registry *state.Registry
	checker  *checker.Checker
	host     host.Host
	opts     CompilerOptions

	validators []ValidateFn
	emitters   []namedEmitter
}

type namedEmitter struct {
	name string
	fn   EmitFn
}

// SourceFiles is the loaded source-file map.
func (p *Program) SourceFiles() *source.FileSet { return p.fileSet }

// Scripts are the parsed files in import-discovery order.
func (p *Program) Scripts() []*ast.ScriptNode { return p.scripts }

// Globals is the bound global scope.
func (p *Program) Globals() *ast.SymbolTable { return p.globals }

// Root is the type graph's global namespace. Nil before checking.
func (p *Program) Root() *types.Namespace {
	if p.checker == nil {
		return nil
	}
	return p.checker.Root()
}

// Checker exposes the program's checker after Compile.
func (p *Program) Checker() *checker.Checker { return p.checker }

// StateMap returns the shared map for key, materializing it on first
// read.
func (p *Program) StateMap(key *state.Key) *state.Map { return p.registry.StateMap(key) }

// StateSet returns the shared set for key.
func (p *Program) StateSet(key *state.Key) *state.Set { return p.registry.StateSet(key) }

// Diagnostics is the program-level sink.
func (p *Program) Diagnostics() *diag.Bag { return p.bag }

// ReportDiagnostic pushes one diagnostic through the sink.
func (p *Program) ReportDiagnostic(d diag.Diagnostic) { p.bag.Add(d) }

// HasError reports whether any error-severity diagnostic was accepted.
func (p *Program) HasError() bool { return p.bag.HasErrors() }

// Host is the I/O surface emitters write through.
func (p *Program) Host() host.Host { return p.host }

// Options returns the compiler options the program was loaded with.
func (p *Program) Options() CompilerOptions { return p.opts }

// OnValidate registers a callback to run after checking.
func (p *Program) OnValidate(fn ValidateFn) { p.validators = append(p.validators, fn) }

// OnEmit registers an emit callback.
func (p *Program) OnEmit(fn EmitFn) { p.emitters = append(p.emitters, namedEmitter{fn: fn}) }
