package checker

import (
	"fmt"
	"strings"

	"cadl/internal/ast"
	"cadl/internal/diag"
	"cadl/internal/types"
)

// instantiate realizes a templated declaration with concrete arguments.
// Memoization is on (declaration, argument identity tuple); recursive
// instantiation with identical arguments lands on the in-progress type
// registered before the body is populated.
func (c *Checker) instantiate(decl ast.Node, args []types.Type, ref ast.Node) types.Type {
	params := templateParamsOf(decl)
	if len(args) != len(params) {
		c.errAt(diag.SemInvalidTemplateArgs, ref, fmt.Sprintf(
			"wrong number of template arguments: expected %d, got %d", len(params), len(args)))
		return nil
	}

	key := argsKey(args)
	insts, ok := c.instances[decl]
	if !ok {
		insts = make(map[string]types.Type)
		c.instances[decl] = insts
	}
	if t, done := insts[key]; done {
		if t == nil {
			// Only aliases hit this: they have no identity to hand back
			// while still resolving.
			c.errAt(diag.SemCircularTemplateInstance, ref,
				"circular template instantiation")
		}
		return t
	}

	frame := make(map[*ast.Symbol]types.Type, len(params))
	for i, p := range params {
		frame[p.Sym] = args[i]
	}
	c.pushBindings(frame)
	defer c.popBindings()

	inst := &instanceInfo{key: key, args: args}
	switch d := decl.(type) {
	case *ast.ModelNode:
		return c.checkModel(d, inst)
	case *ast.InterfaceNode:
		return c.checkInterface(d, inst)
	case *ast.UnionNode:
		return c.checkUnion(d, inst)
	case *ast.AliasNode:
		insts[key] = nil
		t := c.checkAlias(d, inst)
		insts[key] = t
		return t
	default:
		return nil
	}
}

func templateParamsOf(decl ast.Node) []*ast.TemplateParamNode {
	switch d := decl.(type) {
	case *ast.ModelNode:
		return d.TemplateParams
	case *ast.InterfaceNode:
		return d.TemplateParams
	case *ast.UnionNode:
		return d.TemplateParams
	case *ast.AliasNode:
		return d.TemplateParams
	default:
		return nil
	}
}

// argsKey is the identity tuple of the arguments. Literal interning and
// declaration memoization make pointer identity coincide with structural
// equality.
func argsKey(args []types.Type) string {
	var b strings.Builder
	for _, a := range args {
		fmt.Fprintf(&b, "%p;", a)
	}
	return b.String()
}
