package checker

import (
	"fmt"

	"cadl/internal/ast"
	"cadl/internal/diag"
	"cadl/internal/source"
	"cadl/internal/state"
	"cadl/internal/types"
)

// DecoratorContext is handed to every decorator invocation: the program
// handle, the state registry for side effects, a reporter, and the
// decorator's source location.
type DecoratorContext struct {
	Program  any
	Registry *state.Registry
	Reporter diag.Reporter
	Target   source.Span
}

// DecoratorFn is the callable shape of an external decorator. Arguments
// arrive evaluated: literals as Go values (string, float64, bool), type
// references as types.Type. A returned error aborts the declaration's
// checking with a diagnostic; other declarations continue.
type DecoratorFn func(ctx *DecoratorContext, target types.Type, args ...any) error

// applyDecorators invokes each decorator once, in source order, against
// the fully-instantiated target.
func (c *Checker) applyDecorators(target types.Type, decs []*ast.DecoratorNode) {
	for _, d := range decs {
		c.applyDecorator(target, d)
	}
}

func (c *Checker) applyDecorator(target types.Type, d *ast.DecoratorNode) {
	sym := c.resolveDecoratorSymbol(d.Target, d)
	if sym == nil {
		c.warnAt(diag.SemUnresolvedReference, d,
			fmt.Sprintf("unknown decorator @%s", referenceName(d.Target)))
		return
	}
	if sym.Kind == ast.SymUsing {
		if sym.Duplicate {
			c.errAt(diag.SemAmbiguousReference, d,
				fmt.Sprintf("%s is an ambiguous name between multiple using statements", sym.Name))
			return
		}
		sym = sym.Target
	}
	fn, ok := sym.Value.(DecoratorFn)
	if !ok {
		c.errAt(diag.SemInvalidDecoratorTarget, d,
			fmt.Sprintf("%s is not a decorator", sym.Name))
		return
	}

	args := make([]any, 0, len(d.Args))
	for _, argExpr := range d.Args {
		args = append(args, c.evalDecoratorArg(argExpr))
	}

	ctx := &DecoratorContext{
		Program:  c.opts.Program,
		Registry: c.opts.Registry,
		Reporter: c.opts.Reporter,
		Target:   d.Span,
	}
	c.invoke(sym.Name, fn, ctx, target, args, d)
}

// invoke isolates one decorator call: a panic or returned error becomes a
// diagnostic on this declaration and checking moves on.
func (c *Checker) invoke(name string, fn DecoratorFn, ctx *DecoratorContext, target types.Type, args []any, d *ast.DecoratorNode) {
	defer func() {
		if r := recover(); r != nil {
			c.errAt(diag.SemDecoratorFailure, d,
				fmt.Sprintf("decorator %s failed: %v", name, r))
		}
	}()
	if err := fn(ctx, target, args...); err != nil {
		c.errAt(diag.SemDecoratorFailure, d,
			fmt.Sprintf("decorator %s failed: %v", name, err))
	}
}

// resolveDecoratorSymbol looks up `@name` through the usual scope walk;
// the '@' prefix lives on the symbol, not in the source reference. Like
// resolveTargetSymbol, an ambiguous using wrapper passes through for the
// caller to report.
func (c *Checker) resolveDecoratorSymbol(target ast.Expr, at ast.Node) *ast.Symbol {
	switch e := target.(type) {
	case *ast.IdentifierNode:
		return c.lookupName("@"+e.Value, at)
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
		s, _ := base.Exports.Get("@" + e.ID.Value)
		return s
	default:
		return nil
	}
}

// evalDecoratorArg evaluates one decorator argument: literals become
// their constant value, everything else its checked type.
func (c *Checker) evalDecoratorArg(expr ast.Expr) any {
	switch e := expr.(type) {
	case *ast.StringLiteralNode:
		return e.Value
	case *ast.NumericLiteralNode:
		if lit, ok := c.checkExpr(e, e).(*types.NumberLiteral); ok {
			return lit.Value
		}
		return nil
	case *ast.BooleanLiteralNode:
		return e.Value
	default:
		t := c.checkExpr(expr, expr)
		if t == nil {
			return nil
		}
		if _, isNS := t.(*types.Namespace); isNS {
			c.errAt(diag.SemInvalidDecoratorArgument, expr,
				"a namespace cannot be used as a decorator argument")
			return nil
		}
		return t
	}
}
