package ast

// VisitChildren calls visit for every direct child of n in source order.
// Visiting stops early when visit returns false; the return value reports
// whether the enumeration ran to completion.
func VisitChildren(n Node, visit func(Node) bool) bool {
	each := func(nodes ...Node) bool {
		for _, c := range nodes {
			if c == nil {
				continue
			}
			if !visit(c) {
				return false
			}
		}
		return true
	}
	eachExpr := func(exprs ...Expr) bool {
		for _, c := range exprs {
			if c == nil {
				continue
			}
			if !visit(c) {
				return false
			}
		}
		return true
	}
	eachDecorators := func(decs []*DecoratorNode) bool {
		for _, d := range decs {
			if !visit(d) {
				return false
			}
		}
		return true
	}

	switch v := n.(type) {
	case *ScriptNode:
		return each(v.Statements...)
	case *ImportNode:
		return each(v.Path)
	case *NamespaceNode:
		return eachDecorators(v.Decorators) && each(v.Name) && each(v.Statements...)
	case *UsingNode:
		return eachExpr(v.Target)
	case *ModelNode:
		if !eachDecorators(v.Decorators) || !each(v.Name) {
			return false
		}
		for _, tp := range v.TemplateParams {
			if !visit(tp) {
				return false
			}
		}
		return eachExpr(v.Extends, v.IsExpr) && each(v.Body...)
	case *ModelPropertyNode:
		return eachDecorators(v.Decorators) && each(v.Name) && eachExpr(v.Value, v.Default)
	case *ModelSpreadNode:
		return eachExpr(v.Target)
	case *InterfaceNode:
		if !eachDecorators(v.Decorators) || !each(v.Name) {
			return false
		}
		for _, tp := range v.TemplateParams {
			if !visit(tp) {
				return false
			}
		}
		if !eachExpr(v.Mixes...) {
			return false
		}
		for _, op := range v.Operations {
			if !visit(op) {
				return false
			}
		}
		return true
	case *OperationNode:
		return eachDecorators(v.Decorators) && each(v.Name, v.Parameters) && eachExpr(v.ReturnType)
	case *UnionNode:
		if !eachDecorators(v.Decorators) || !each(v.Name) {
			return false
		}
		for _, tp := range v.TemplateParams {
			if !visit(tp) {
				return false
			}
		}
		for _, variant := range v.Variants {
			if !visit(variant) {
				return false
			}
		}
		return true
	case *UnionVariantNode:
		return eachDecorators(v.Decorators) && each(v.Name) && eachExpr(v.Value)
	case *EnumNode:
		if !eachDecorators(v.Decorators) || !each(v.Name) {
			return false
		}
		for _, m := range v.Members {
			if !visit(m) {
				return false
			}
		}
		return true
	case *EnumMemberNode:
		return eachDecorators(v.Decorators) && each(v.Name) && eachExpr(v.Value)
	case *AliasNode:
		if !each(v.Name) {
			return false
		}
		for _, tp := range v.TemplateParams {
			if !visit(tp) {
				return false
			}
		}
		return eachExpr(v.Value)
	case *TemplateParamNode:
		return each(v.Name)
	case *DecoratorNode:
		return eachExpr(v.Target) && eachExpr(v.Args...)
	case *DirectiveNode:
		return each(v.Name) && each(v.Args...)
	case *ReferenceNode:
		return eachExpr(v.Target) && eachExpr(v.Args...)
	case *MemberExprNode:
		return eachExpr(v.Expr) && each(v.ID)
	case *ModelExprNode:
		return each(v.Body...)
	case *ArrayExprNode:
		return eachExpr(v.Element)
	case *TupleExprNode:
		return eachExpr(v.Elements...)
	case *UnionExprNode:
		return eachExpr(v.Options...)
	case *IntersectionExprNode:
		return eachExpr(v.Options...)
	}
	return true
}

// Walk visits n and all its descendants pre-order.
func Walk(n Node, visit func(Node) bool) bool {
	if !visit(n) {
		return false
	}
	return VisitChildren(n, func(c Node) bool {
		return Walk(c, visit)
	})
}
