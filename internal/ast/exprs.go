package ast

// IdentifierNode carries an interned identifier. Synthetic identifiers
// created during error recovery have FlagSynthetic set and a unique
// non-source name so later phases do not re-report the same location.
type IdentifierNode struct {
	NodeBase
	Value string
}

// StringLiteralNode carries the decoded string value.
type StringLiteralNode struct {
	NodeBase
	Value string
}

// NumericLiteralNode keeps the literal textual; it is parsed at use.
type NumericLiteralNode struct {
	NodeBase
	Text string
}

// BooleanLiteralNode is `true` or `false`.
type BooleanLiteralNode struct {
	NodeBase
	Value bool
}

// ReferenceNode is a (possibly dotted) type reference with optional
// template arguments: `A.B.C<X, Y>`.
type ReferenceNode struct {
	NodeBase
	// Target is an IdentifierNode or MemberExprNode.
	Target Expr
	Args   []Expr
}

// MemberExprNode is `<base>.<id>`.
type MemberExprNode struct {
	NodeBase
	Expr Expr
	ID   *IdentifierNode
}

// ModelExprNode is an anonymous model body `{ ... }`, also used for
// operation parameter lists.
type ModelExprNode struct {
	NodeBase
	Body []Node
}

// ArrayExprNode is the postfix `T[]`.
type ArrayExprNode struct {
	NodeBase
	Element Expr
}

// TupleExprNode is `[A, B, C]`.
type TupleExprNode struct {
	NodeBase
	Elements []Expr
}

// UnionExprNode is `A | B | C`, flattened left to right.
type UnionExprNode struct {
	NodeBase
	Options []Expr
}

// IntersectionExprNode is `A & B & C`, flattened left to right.
type IntersectionExprNode struct {
	NodeBase
	Options []Expr
}

func (*IdentifierNode) exprNode()       {}
func (*StringLiteralNode) exprNode()    {}
func (*NumericLiteralNode) exprNode()   {}
func (*BooleanLiteralNode) exprNode()   {}
func (*ReferenceNode) exprNode()        {}
func (*MemberExprNode) exprNode()       {}
func (*ModelExprNode) exprNode()        {}
func (*ArrayExprNode) exprNode()        {}
func (*TupleExprNode) exprNode()        {}
func (*UnionExprNode) exprNode()        {}
func (*IntersectionExprNode) exprNode() {}
