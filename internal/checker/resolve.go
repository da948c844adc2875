package checker

import (
	"fmt"

	"cadl/internal/ast"
	"cadl/internal/diag"
	"cadl/internal/types"
)

// buildUsingScope collapses a file's using statements into one name set.
// Collisions are only marked here; the diagnostic fires at each use site.
func (c *Checker) buildUsingScope(script *ast.ScriptNode) {
	if _, ok := c.usingScopes[script]; ok {
		return
	}
	scope := make(map[string]*ast.Symbol)
	c.usingScopes[script] = scope

	seen := make(map[*ast.SymbolTable]bool)
	for _, u := range script.Usings {
		sym := c.resolveTargetSymbol(u.Target, u)
		if sym == nil {
			c.errAt(diag.SemUnresolvedReference, u.Target,
				"unknown namespace in using statement")
			continue
		}
		if sym.Kind == ast.SymUsing {
			if sym.Duplicate {
				c.errAt(diag.SemAmbiguousReference, u.Target,
					fmt.Sprintf("%s is an ambiguous name between multiple using statements", sym.Name))
				continue
			}
			sym = sym.Target
		}
		if sym.Exports == nil {
			c.errAt(diag.SemUnresolvedReference, u.Target,
				fmt.Sprintf("using target %q is not a namespace", sym.Name))
			continue
		}
		if seen[sym.Exports] {
			c.warnAt(diag.BndDuplicateUsing, u.Target,
				fmt.Sprintf("namespace %q is already in scope", sym.Name))
			continue
		}
		seen[sym.Exports] = true

		for _, exp := range sym.Exports.Iter() {
			if existing, ok := scope[exp.Name]; ok {
				if existing.Target != exp {
					existing.Duplicate = true
				}
				continue
			}
			scope[exp.Name] = &ast.Symbol{Kind: ast.SymUsing, Name: exp.Name, Target: exp}
		}
	}
}

// lookupName resolves a bare name from a lexical position: nearest
// declaration locals, enclosing scopes, the file's usings, then the
// implicit Cadl namespace. Using results come back as their SymUsing
// wrapper so callers can detect ambiguity.
func (c *Checker) lookupName(name string, at ast.Node) *ast.Symbol {
	var script *ast.ScriptNode
	for cur := at; cur != nil; cur = cur.Base().Parent {
		switch n := cur.(type) {
		case *ast.ModelNode:
			if n.Locals != nil {
				if s, ok := n.Locals.Get(name); ok {
					return s
				}
			}
		case *ast.InterfaceNode:
			if n.Locals != nil {
				if s, ok := n.Locals.Get(name); ok {
					return s
				}
			}
		case *ast.UnionNode:
			if n.Locals != nil {
				if s, ok := n.Locals.Get(name); ok {
					return s
				}
			}
		case *ast.AliasNode:
			if n.Locals != nil {
				if s, ok := n.Locals.Get(name); ok {
					return s
				}
			}
		case *ast.NamespaceNode:
			if n.Exports != nil {
				if s, ok := n.Exports.Get(name); ok {
					return s
				}
			}
		case *ast.ScriptNode:
			script = n
			if n.Locals != nil {
				if s, ok := n.Locals.Get(name); ok {
					return s
				}
			}
			if s, ok := c.opts.Globals.Get(name); ok {
				return s
			}
		}
	}

	if script != nil {
		if s, ok := c.usingScopes[script][name]; ok {
			return s
		}
	}
	if s, ok := c.cadl.Get(name); ok {
		return s
	}
	return nil
}

// resolveTargetSymbol resolves a dotted reference target to its symbol
// without reporting; callers decide how a miss is surfaced. An ambiguous
// using wrapper is passed through undecided, so every caller sees the
// Duplicate flag and reports at its own use site.
func (c *Checker) resolveTargetSymbol(target ast.Expr, at ast.Node) *ast.Symbol {
	switch e := target.(type) {
	case *ast.IdentifierNode:
		return c.lookupName(e.Value, at)
	case *ast.MemberExprNode:
		base := c.resolveTargetSymbol(e.Expr, at)
		if base == nil {
			return nil
		}
		if base.Kind == ast.SymUsing {
			if base.Duplicate {
				return base
			}
			base = base.Target
		}
		if base.Exports == nil {
			return nil
		}
		s, _ := base.Exports.Get(e.ID.Value)
		return s
	default:
		return nil
	}
}

// resolveReference is the checked entry: it resolves the target, reports
// unresolved and ambiguous references at the use site, evaluates template
// arguments, and produces the referenced type.
func (c *Checker) resolveReference(ref *ast.ReferenceNode, at ast.Node) types.Type {
	if at == nil {
		at = ref
	}
	sym := c.resolveTargetSymbol(ref.Target, at)
	if sym == nil {
		if !suppressedBySyntaxError(ref) {
			c.errAt(diag.SemUnresolvedReference, ref.Target,
				fmt.Sprintf("unknown identifier %s", referenceName(ref.Target)))
		}
		return nil
	}
	if sym.Kind == ast.SymUsing {
		if sym.Duplicate {
			c.errAt(diag.SemAmbiguousReference, ref.Target,
				fmt.Sprintf("%s is an ambiguous name between multiple using statements", sym.Name))
			return nil
		}
		sym = sym.Target
	}

	var args []types.Type
	for _, argExpr := range ref.Args {
		arg := c.checkExpr(argExpr, at)
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}
	return c.symbolType(sym, args, ref, at)
}

// symbolType turns a resolved symbol (plus template arguments) into a
// type, instantiating templates and checking declarations on demand.
func (c *Checker) symbolType(sym *ast.Symbol, args []types.Type, ref ast.Node, at ast.Node) types.Type {
	if t, ok := sym.Value.(types.Type); ok && sym.Kind != ast.SymDecorator {
		if len(args) > 0 {
			c.errAt(diag.SemInvalidTemplateArgs, ref,
				fmt.Sprintf("%s does not take template arguments", sym.Name))
		}
		return t
	}
	if sym.Kind == ast.SymDecorator {
		c.errAt(diag.SemUnresolvedReference, ref,
			fmt.Sprintf("%s is a decorator, not a type", sym.Name))
		return nil
	}
	if sym.Decl == nil {
		if sym.Exports != nil {
			return c.namespaceSymbolType(sym, args, ref)
		}
		return nil
	}

	switch decl := sym.Decl.(type) {
	case *ast.NamespaceNode:
		return c.namespaceSymbolType(sym, args, ref)

	case *ast.TemplateParamNode:
		if bound, ok := c.boundTemplateArg(sym); ok {
			return bound
		}
		if t, ok := c.memo[decl]; ok {
			return t
		}
		t := &types.TemplateParameter{
			TypeBase: types.TypeBase{Node: decl},
			Name:     decl.Name.Value,
		}
		c.memo[decl] = t
		return t

	case *ast.ModelNode:
		if len(decl.TemplateParams) > 0 {
			return c.instantiate(decl, args, ref)
		}
		c.rejectArgs(sym.Name, args, ref)
		return c.checkModel(decl, nil)

	case *ast.InterfaceNode:
		if len(decl.TemplateParams) > 0 {
			return c.instantiate(decl, args, ref)
		}
		c.rejectArgs(sym.Name, args, ref)
		return c.checkInterface(decl, nil)

	case *ast.UnionNode:
		if len(decl.TemplateParams) > 0 {
			return c.instantiate(decl, args, ref)
		}
		c.rejectArgs(sym.Name, args, ref)
		return c.checkUnion(decl, nil)

	case *ast.AliasNode:
		if len(decl.TemplateParams) > 0 {
			return c.instantiate(decl, args, ref)
		}
		c.rejectArgs(sym.Name, args, ref)
		return c.checkAlias(decl, nil)

	case *ast.EnumNode:
		c.rejectArgs(sym.Name, args, ref)
		return c.checkEnum(decl)

	case *ast.OperationNode:
		c.rejectArgs(sym.Name, args, ref)
		return c.checkOperation(decl, nil)

	default:
		return nil
	}
}

func (c *Checker) namespaceSymbolType(sym *ast.Symbol, args []types.Type, ref ast.Node) types.Type {
	if len(args) > 0 {
		c.errAt(diag.SemInvalidTemplateArgs, ref,
			fmt.Sprintf("namespace %s does not take template arguments", sym.Name))
	}
	if ns, ok := c.namespaceTypes[sym.Exports]; ok {
		return ns
	}
	// First reference to a namespace that was not checked yet (external
	// module namespaces): materialize it at the root.
	return c.namespaceFor(sym.Exports, sym.Name, c.root, sym.Decl)
}

func (c *Checker) rejectArgs(name string, args []types.Type, ref ast.Node) {
	if len(args) > 0 {
		c.errAt(diag.SemInvalidTemplateArgs, ref,
			fmt.Sprintf("%s does not take template arguments", name))
	}
}

// referenceName renders a dotted target for messages.
func referenceName(target ast.Expr) string {
	switch e := target.(type) {
	case *ast.IdentifierNode:
		return e.Value
	case *ast.MemberExprNode:
		return referenceName(e.Expr) + "." + e.ID.Value
	default:
		return "<expression>"
	}
}

// suppressedBySyntaxError avoids piling resolution errors onto subtrees
// the parser already flagged.
func suppressedBySyntaxError(n ast.Node) bool {
	for cur := n; cur != nil; cur = cur.Base().Parent {
		if cur.Base().Flags&ast.FlagSynthetic != 0 {
			return true
		}
		if cur.Base().HasParseError() {
			return true
		}
	}
	return false
}
