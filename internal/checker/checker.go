// Package checker turns the bound syntax tree into the type graph: name
// resolution, template instantiation, namespace merging at the type
// level, using resolution, composition, decorator application, and
// literal interning. Checking is synchronous and processes declarations
// in source order, files in the order they are handed in.
package checker

import (
	"cadl/internal/ast"
	"cadl/internal/diag"
	"cadl/internal/state"
	"cadl/internal/types"
)

// Options configure a program checker.
type Options struct {
	// Globals is the shared global scope populated by the binder.
	Globals  *ast.SymbolTable
	Reporter diag.Reporter
	// Registry receives decorator side effects.
	Registry *state.Registry
	// Program is an opaque handle surfaced to decorator contexts.
	Program any
}

// Checker holds all memoization state for one program.
type Checker struct {
	opts Options
	pool *types.InternPool

	root *types.Namespace
	cadl *ast.SymbolTable

	// memo caches the type of every non-template declaration; entries are
	// registered before bodies are populated so cycles resolve.
	memo map[ast.Node]types.Type
	// instances memoizes template instantiation on (declaration, argument
	// identity tuple).
	instances map[ast.Node]map[string]types.Type
	// inProgress guards alias and reference resolution against cycles.
	inProgress map[ast.Node]bool

	// namespaceTypes maps merged exports tables to their single type-level
	// namespace.
	namespaceTypes map[*ast.SymbolTable]*types.Namespace

	// usingScopes is the per-file collapsed using set.
	usingScopes map[*ast.ScriptNode]map[string]*ast.Symbol

	// bindings is the template-argument substitution stack; the top frame
	// is consulted when a template parameter symbol resolves.
	bindings []map[*ast.Symbol]types.Type
}

// New prepares a checker and installs the built-in Cadl namespace into
// the global scope so intrinsics resolve like ordinary symbols.
func New(opts Options) *Checker {
	c := &Checker{
		opts:           opts,
		pool:           types.NewInternPool(),
		memo:           make(map[ast.Node]types.Type),
		instances:      make(map[ast.Node]map[string]types.Type),
		inProgress:     make(map[ast.Node]bool),
		namespaceTypes: make(map[*ast.SymbolTable]*types.Namespace),
		usingScopes:    make(map[*ast.ScriptNode]map[string]*ast.Symbol),
	}
	c.root = &types.Namespace{Members: types.NewMemberMap()}
	c.namespaceTypes[opts.Globals] = c.root
	c.cadl = c.installIntrinsics()
	return c
}

// Root returns the global namespace the type graph hangs off.
func (c *Checker) Root() *types.Namespace { return c.root }

// Pool returns the program's literal intern pool.
func (c *Checker) Pool() *types.InternPool { return c.pool }

// CheckScript checks one file's statements in source order. Files are
// expected in import-discovery order, libraries before user code.
func (c *Checker) CheckScript(script *ast.ScriptNode) {
	c.buildUsingScope(script)
	for _, stmt := range script.Statements {
		c.checkStatement(stmt, c.root)
	}
}

func (c *Checker) checkStatement(stmt ast.Node, ns *types.Namespace) {
	switch n := stmt.(type) {
	case *ast.NamespaceNode:
		c.checkNamespace(n, ns)
	case *ast.ModelNode:
		if len(n.TemplateParams) > 0 {
			return // realized only on instantiation
		}
		c.checkModel(n, nil)
	case *ast.InterfaceNode:
		if len(n.TemplateParams) > 0 {
			return
		}
		c.checkInterface(n, nil)
	case *ast.UnionNode:
		if len(n.TemplateParams) > 0 {
			return
		}
		c.checkUnion(n, nil)
	case *ast.EnumNode:
		c.checkEnum(n)
	case *ast.OperationNode:
		c.checkOperation(n, nil)
	case *ast.AliasNode:
		if len(n.TemplateParams) > 0 {
			return
		}
		c.checkAlias(n, nil)
	}
}

// checkNamespace materializes the type-level namespace for a (merged)
// declaration and checks its body. Merged declarations share one exports
// table, hence one namespace type.
func (c *Checker) checkNamespace(n *ast.NamespaceNode, parent *types.Namespace) {
	ns := c.namespaceFor(n.Exports, n.Name.Value, parent, n)
	if len(n.Decorators) > 0 {
		c.applyDecorators(ns, n.Decorators)
	}
	for _, stmt := range n.Statements {
		c.checkStatement(stmt, ns)
	}
}

// namespaceFor returns the single namespace type behind an exports table,
// creating and registering it on first sight.
func (c *Checker) namespaceFor(exports *ast.SymbolTable, name string, parent *types.Namespace, node ast.Node) *types.Namespace {
	if ns, ok := c.namespaceTypes[exports]; ok {
		return ns
	}
	ns := &types.Namespace{
		TypeBase: types.TypeBase{Node: node, Namespace: parent},
		Name:     name,
		Parent:   parent,
		Members:  types.NewMemberMap(),
	}
	c.namespaceTypes[exports] = ns
	parent.Members.Set(name, ns)
	return ns
}

// register records a named declaration's type in its namespace. The
// first-wins rule mirrors the symbol tables; duplicate names were already
// reported from the binder's duplicate sets.
func (c *Checker) register(ns *types.Namespace, name string, t types.Type) {
	if ns == nil {
		ns = c.root
	}
	ns.Members.Set(name, t)
}

// enclosingNamespaceType finds the type-level namespace a declaration
// lives in by walking parent links to the nearest namespace node.
func (c *Checker) enclosingNamespaceType(n ast.Node) *types.Namespace {
	for cur := n.Base().Parent; cur != nil; cur = cur.Base().Parent {
		if nsNode, ok := cur.(*ast.NamespaceNode); ok {
			parent := c.enclosingNamespaceType(nsNode)
			return c.namespaceFor(nsNode.Exports, nsNode.Name.Value, parent, nsNode)
		}
	}
	return c.root
}

func (c *Checker) errAt(code diag.Code, n ast.Node, msg string) {
	diag.ReportError(c.opts.Reporter, code, n.Base().Span, msg)
}

func (c *Checker) warnAt(code diag.Code, n ast.Node, msg string) {
	diag.ReportWarning(c.opts.Reporter, code, n.Base().Span, msg)
}

// pushBindings installs a template substitution frame.
func (c *Checker) pushBindings(frame map[*ast.Symbol]types.Type) {
	c.bindings = append(c.bindings, frame)
}

func (c *Checker) popBindings() {
	c.bindings = c.bindings[:len(c.bindings)-1]
}

// boundTemplateArg consults the innermost frame that binds sym.
func (c *Checker) boundTemplateArg(sym *ast.Symbol) (types.Type, bool) {
	for i := len(c.bindings) - 1; i >= 0; i-- {
		if t, ok := c.bindings[i][sym]; ok {
			return t, true
		}
	}
	return nil, false
}
