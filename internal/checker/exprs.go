package checker

import (
	"fmt"
	"strconv"

	"cadl/internal/ast"
	"cadl/internal/diag"
	"cadl/internal/types"
)

// checkExpr produces the type of a type expression. A nil result means a
// diagnostic was already emitted; callers skip rather than re-report.
func (c *Checker) checkExpr(expr ast.Expr, at ast.Node) types.Type {
	if at == nil {
		at = expr
	}
	switch e := expr.(type) {
	case *ast.ReferenceNode:
		return c.resolveReference(e, at)

	case *ast.IdentifierNode, *ast.MemberExprNode:
		// Bare targets outside a reference wrapper resolve the same way.
		sym := c.resolveTargetSymbol(e, at)
		if sym == nil {
			if !suppressedBySyntaxError(expr) {
				c.errAt(diag.SemUnresolvedReference, expr,
					fmt.Sprintf("unknown identifier %s", referenceName(e)))
			}
			return nil
		}
		if sym.Kind == ast.SymUsing {
			if sym.Duplicate {
				c.errAt(diag.SemAmbiguousReference, expr,
					fmt.Sprintf("%s is an ambiguous name between multiple using statements", sym.Name))
				return nil
			}
			sym = sym.Target
		}
		return c.symbolType(sym, nil, expr, at)

	case *ast.StringLiteralNode:
		return c.pool.String(e.Value)

	case *ast.NumericLiteralNode:
		v, err := strconv.ParseFloat(e.Text, 64)
		if err != nil {
			c.errAt(diag.LexBadNumber, expr,
				fmt.Sprintf("invalid numeric literal %q", e.Text))
			return nil
		}
		return c.pool.Number(v, e.Text)

	case *ast.BooleanLiteralNode:
		return c.pool.Boolean(e.Value)

	case *ast.ArrayExprNode:
		el := c.checkExpr(e.Element, at)
		if el == nil {
			return nil
		}
		return &types.Array{TypeBase: types.TypeBase{Node: e}, Element: el}

	case *ast.TupleExprNode:
		tup := &types.Tuple{TypeBase: types.TypeBase{Node: e}}
		for _, elExpr := range e.Elements {
			el := c.checkExpr(elExpr, at)
			if el == nil {
				return nil
			}
			tup.Elements = append(tup.Elements, el)
		}
		return tup

	case *ast.UnionExprNode:
		// Anonymous unions deduplicate options by type identity.
		u := &types.Union{TypeBase: types.TypeBase{Node: e}}
		seen := make(map[types.Type]bool)
		for _, optExpr := range e.Options {
			opt := c.checkExpr(optExpr, at)
			if opt == nil || seen[opt] {
				continue
			}
			seen[opt] = true
			u.Options = append(u.Options, opt)
		}
		return u

	case *ast.IntersectionExprNode:
		return c.checkIntersection(e, at)

	case *ast.ModelExprNode:
		m := &types.Model{
			TypeBase:   types.TypeBase{Node: e},
			Properties: types.NewPropertyMap(),
		}
		c.checkModelBody(m, e.Body)
		for _, p := range m.Properties.Values() {
			if p.SourceProperty == nil && len(p.Decorators) > 0 {
				c.applyDecorators(p, p.Decorators)
			}
		}
		return m

	default:
		return nil
	}
}

// checkIntersection builds the anonymous model whose properties are the
// union of all (model) operands.
func (c *Checker) checkIntersection(e *ast.IntersectionExprNode, at ast.Node) types.Type {
	m := &types.Model{
		TypeBase:   types.TypeBase{Node: e},
		Properties: types.NewPropertyMap(),
	}
	for _, optExpr := range e.Options {
		opt := c.checkExpr(optExpr, at)
		if opt == nil {
			continue
		}
		om, ok := opt.(*types.Model)
		if !ok {
			c.errAt(diag.SemIntersectNonModel, optExpr,
				fmt.Sprintf("cannot intersect %s, only model types", opt.TypeKind()))
			continue
		}
		for _, p := range om.Properties.Values() {
			if !m.Properties.Set(p.Name, c.cloneProperty(p, m)) {
				c.errAt(diag.SemDuplicateProperty, optExpr,
					fmt.Sprintf("Intersection has multiple properties named %q.", p.Name))
			}
		}
	}
	return m
}
