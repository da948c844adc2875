// Package binder wires symbols onto the syntax tree. Binding is a single
// pass per file: it sets parent links, creates scope tables, declares
// every named entity into its enclosing scope, and merges namespaces that
// share a name. Name collisions are recorded in the tables and reported
// once the whole program is bound; the first declaration always stays
// authoritative.
package binder

import (
	"fmt"
	"strings"

	"cadl/internal/ast"
	"cadl/internal/diag"
	"cadl/internal/source"
)

// Binder binds scripts and external modules into one shared global scope.
type Binder struct {
	reporter diag.Reporter
	globals  *ast.SymbolTable
}

// New creates a binder around the global exports table shared by every
// file of the program.
func New(globals *ast.SymbolTable, reporter diag.Reporter) *Binder {
	return &Binder{
		reporter: reporter,
		globals:  globals,
	}
}

// Globals returns the shared global scope.
func (b *Binder) Globals() *ast.SymbolTable { return b.globals }

// BindScript annotates one parsed file: parent links, scope tables, and
// symbol declarations. Scripts share the program-wide global exports.
func (b *Binder) BindScript(script *ast.ScriptNode) {
	setParents(script)
	script.Locals = ast.NewSymbolTable()
	script.Exports = b.globals
	for _, stmt := range script.Statements {
		b.bindStatement(stmt, b.globals)
	}
}

func (b *Binder) bindStatement(stmt ast.Node, exports *ast.SymbolTable) {
	switch n := stmt.(type) {
	case *ast.NamespaceNode:
		b.bindNamespace(n, exports)
	case *ast.ModelNode:
		n.Sym = declare(exports, ast.SymType, n.Name, n)
		n.Locals = b.bindTemplateParams(n.TemplateParams)
	case *ast.InterfaceNode:
		n.Sym = declare(exports, ast.SymType, n.Name, n)
		n.Locals = b.bindTemplateParams(n.TemplateParams)
	case *ast.OperationNode:
		// Interface members are reached through the interface, not by
		// name lookup in the enclosing scope.
		if _, inInterface := n.Parent.(*ast.InterfaceNode); !inInterface {
			n.Sym = declare(exports, ast.SymType, n.Name, n)
		}
	case *ast.UnionNode:
		n.Sym = declare(exports, ast.SymType, n.Name, n)
		n.Locals = b.bindTemplateParams(n.TemplateParams)
	case *ast.EnumNode:
		n.Sym = declare(exports, ast.SymType, n.Name, n)
	case *ast.AliasNode:
		n.Sym = declare(exports, ast.SymType, n.Name, n)
		n.Locals = b.bindTemplateParams(n.TemplateParams)
	}
}

// bindNamespace declares or merges a namespace. Two namespace
// declarations with one name share a single symbol and exports table; a
// namespace colliding with a non-namespace is a duplicate like any other.
func (b *Binder) bindNamespace(n *ast.NamespaceNode, exports *ast.SymbolTable) {
	if existing, ok := exports.Get(n.Name.Value); ok && isNamespaceSymbol(existing) {
		n.Sym = existing
		n.Exports = existing.Exports
	} else {
		sym := &ast.Symbol{
			Kind:    ast.SymType,
			Name:    n.Name.Value,
			Decl:    n,
			Exports: ast.NewSymbolTable(),
		}
		exports.Set(sym)
		n.Sym = sym
		n.Exports = sym.Exports
	}
	// A namespace's lexical scope is its merged exports.
	n.Locals = n.Exports

	for _, stmt := range n.Statements {
		b.bindStatement(stmt, n.Exports)
	}
}

func isNamespaceSymbol(s *ast.Symbol) bool {
	if s.Kind != ast.SymType || s.Exports == nil {
		return false
	}
	if s.Decl == nil {
		return true // synthetic namespace from an external module
	}
	_, ok := s.Decl.(*ast.NamespaceNode)
	return ok
}

func declare(exports *ast.SymbolTable, kind ast.SymbolKind, name *ast.IdentifierNode, decl ast.Node) *ast.Symbol {
	sym := &ast.Symbol{Kind: kind, Name: name.Value, Decl: decl}
	exports.Set(sym)
	return sym
}

// bindTemplateParams declares the parameters into a fresh locals table.
// Collisions cannot merge across files, so they are reported right away.
func (b *Binder) bindTemplateParams(params []*ast.TemplateParamNode) *ast.SymbolTable {
	locals := ast.NewSymbolTable()
	for _, tp := range params {
		sym := &ast.Symbol{Kind: ast.SymType, Name: tp.Name.Value, Decl: tp}
		if auth := locals.Set(sym); auth != sym {
			diag.ReportError(b.reporter, diag.BndDuplicateSymbol, tp.Name.Span,
				fmt.Sprintf("duplicate name: %q", tp.Name.Value))
			tp.Sym = auth
			continue
		}
		tp.Sym = sym
	}
	return locals
}

// setParents fills the Parent back-reference on every descendant.
func setParents(root ast.Node) {
	ast.VisitChildren(root, func(c ast.Node) bool {
		c.Base().Parent = root
		setParents(c)
		return true
	})
}

// --- external modules -------------------------------------------------

// ExternalModule is a loaded decorator library: exports keyed by their
// source names, with callable values. Exports starting with '$' become
// decorators; the declared namespace places them in the global tree.
type ExternalModule struct {
	Path      string
	Namespace string // dotted, empty means global scope
	Exports   map[string]any
}

// Callbacks are the program-lifecycle hooks an external module may
// export.
type Callbacks struct {
	OnValidate any
	OnEmit     any
}

// BindExternalModule declares the module's '$'-prefixed exports as
// decorator symbols under its namespace. $onValidate and $onEmit are not
// decorators; they are returned for the loader to register.
func (b *Binder) BindExternalModule(mod *ExternalModule) Callbacks {
	exports := b.ensureNamespacePath(mod.Namespace)
	var cb Callbacks
	for name, value := range mod.Exports {
		if !strings.HasPrefix(name, "$") {
			continue
		}
		switch name {
		case "$onValidate":
			cb.OnValidate = value
			continue
		case "$onEmit":
			cb.OnEmit = value
			continue
		}
		exports.Set(&ast.Symbol{
			Kind:  ast.SymDecorator,
			Name:  "@" + name[1:],
			Value: value,
			Path:  mod.Path,
		})
	}
	return cb
}

// ensureNamespacePath walks (creating as needed) the dotted namespace
// chain and returns the innermost exports table.
func (b *Binder) ensureNamespacePath(path string) *ast.SymbolTable {
	exports := b.globals
	if path == "" {
		return exports
	}
	for _, part := range strings.Split(path, ".") {
		if existing, ok := exports.Get(part); ok && isNamespaceSymbol(existing) {
			exports = existing.Exports
			continue
		}
		sym := &ast.Symbol{
			Kind:    ast.SymType,
			Name:    part,
			Exports: ast.NewSymbolTable(),
		}
		exports.Set(sym)
		exports = sym.Exports
	}
	return exports
}

// --- duplicate reporting ----------------------------------------------

// ReportDuplicates emits one duplicate-symbol error per colliding
// declaration, the authoritative one included, then recurses into
// namespaces. Called once after every file is bound so cross-file
// collisions inside merged namespaces are seen.
func ReportDuplicates(table *ast.SymbolTable, reporter diag.Reporter) {
	for _, sym := range table.Iter() {
		dups := table.DuplicatesOf(sym)
		if len(dups) > 0 {
			reportDuplicate(sym, reporter)
			for _, d := range dups {
				reportDuplicate(d, reporter)
			}
		}
		if isNamespaceSymbol(sym) {
			ReportDuplicates(sym.Exports, reporter)
		}
	}
}

func reportDuplicate(sym *ast.Symbol, reporter diag.Reporter) {
	span := declNameSpan(sym.Decl)
	diag.ReportError(reporter, diag.BndDuplicateSymbol, span,
		fmt.Sprintf("duplicate name: %q", sym.Name))
}

func declNameSpan(decl ast.Node) (span source.Span) {
	switch n := decl.(type) {
	case *ast.NamespaceNode:
		return n.Name.Span
	case *ast.ModelNode:
		return n.Name.Span
	case *ast.InterfaceNode:
		return n.Name.Span
	case *ast.OperationNode:
		return n.Name.Span
	case *ast.UnionNode:
		return n.Name.Span
	case *ast.EnumNode:
		return n.Name.Span
	case *ast.AliasNode:
		return n.Name.Span
	case *ast.TemplateParamNode:
		return n.Name.Span
	case nil:
		return span
	default:
		return decl.Base().Span
	}
}
