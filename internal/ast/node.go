// Package ast defines the syntax tree produced by the parser. Nodes are
// created once and only annotated afterwards: the binder sets parent links,
// symbols, and scope tables; nothing else mutates the tree.
package ast

import (
	"cadl/internal/source"
)

// NodeKind tags every node variant.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota
	KindScript
	KindImport
	KindNamespace
	KindUsing
	KindModel
	KindModelProperty
	KindModelSpread
	KindInterface
	KindOperation
	KindUnion
	KindUnionVariant
	KindEnum
	KindEnumMember
	KindAlias
	KindTemplateParam
	KindDecorator
	KindDirective
	KindIdentifier
	KindStringLiteral
	KindNumericLiteral
	KindBooleanLiteral
	KindReference
	KindMemberExpr
	KindModelExpr
	KindArrayExpr
	KindTupleExpr
	KindUnionExpr
	KindIntersectionExpr
	KindEmptyStmt
	KindInvalidStmt
)

var kindNames = [...]string{
	KindInvalid:          "invalid",
	KindScript:           "script",
	KindImport:           "import",
	KindNamespace:        "namespace",
	KindUsing:            "using",
	KindModel:            "model",
	KindModelProperty:    "model property",
	KindModelSpread:      "model spread",
	KindInterface:        "interface",
	KindOperation:        "operation",
	KindUnion:            "union",
	KindUnionVariant:     "union variant",
	KindEnum:             "enum",
	KindEnumMember:       "enum member",
	KindAlias:            "alias",
	KindTemplateParam:    "template parameter",
	KindDecorator:        "decorator",
	KindDirective:        "directive",
	KindIdentifier:       "identifier",
	KindStringLiteral:    "string literal",
	KindNumericLiteral:   "numeric literal",
	KindBooleanLiteral:   "boolean literal",
	KindReference:        "reference",
	KindMemberExpr:       "member expression",
	KindModelExpr:        "model expression",
	KindArrayExpr:        "array expression",
	KindTupleExpr:        "tuple expression",
	KindUnionExpr:        "union expression",
	KindIntersectionExpr: "intersection expression",
	KindEmptyStmt:        "empty statement",
	KindInvalidStmt:      "invalid statement",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// NodeFlags carry parse and traversal state.
type NodeFlags uint8

const (
	// FlagHasParseError marks a node the parser could not fully produce.
	FlagHasParseError NodeFlags = 1 << iota
	// FlagDescendantHasError propagates parse errors upward so later
	// phases skip re-reporting inside a broken subtree.
	FlagDescendantHasError
	FlagDescendantExamined
	// FlagSynthetic marks nodes invented during recovery (missing
	// identifiers) that have no real source text.
	FlagSynthetic
)

// NodeBase is the mixin embedded in every node variant: kind tag, span,
// parent back-reference, leading directives, and flags. There is no node
// class hierarchy beyond this shared struct.
type NodeBase struct {
	Kind       NodeKind
	Span       source.Span
	Parent     Node
	Directives []*DirectiveNode
	Flags      NodeFlags
}

// Base gives generic code access to the shared fields.
func (b *NodeBase) Base() *NodeBase { return b }

func (b *NodeBase) Pos() uint32 { return b.Span.Start }
func (b *NodeBase) End() uint32 { return b.Span.End }

func (b *NodeBase) HasParseError() bool {
	return b.Flags&FlagHasParseError != 0
}

// Node is any syntax tree node.
type Node interface {
	Base() *NodeBase
}

// Expr is a type-expression node (references, literals, composites).
type Expr interface {
	Node
	exprNode()
}

// IsDeclaration reports whether the node introduces a named entity.
func IsDeclaration(n Node) bool {
	switch n.Base().Kind {
	case KindNamespace, KindModel, KindInterface, KindOperation, KindUnion,
		KindEnum, KindAlias, KindTemplateParam:
		return true
	default:
		return false
	}
}

// IsScoped reports whether the node owns a locals table. Scripts and block
// namespaces additionally own exports.
func IsScoped(n Node) bool {
	switch n.Base().Kind {
	case KindScript, KindNamespace, KindModel, KindInterface, KindUnion, KindAlias:
		return true
	default:
		return false
	}
}
