package ast

// ScriptNode is the root of one parsed file.
type ScriptNode struct {
	NodeBase
	Path       string
	Statements []Node
	// Usings collects the file's using statements for per-file lookup.
	Usings []*UsingNode
	// Printable is set when the tree is syntactically clean enough to be
	// re-printed; missing punctuation clears it.
	Printable bool

	Locals  *SymbolTable
	Exports *SymbolTable
	Sym     *Symbol
}

// ImportNode is `import "<specifier>";`.
type ImportNode struct {
	NodeBase
	Path *StringLiteralNode
}

// NamespaceNode is a block (`namespace N { ... }`) or blockless
// (`namespace N;`) namespace declaration. Dotted names are desugared by the
// parser into nested single-name nodes sharing one span.
type NamespaceNode struct {
	NodeBase
	Name       *IdentifierNode
	Decorators []*DecoratorNode
	// Statements is nil only for the inner namespaces of a desugared
	// dotted declaration; a blockless namespace owns the rest of the
	// file's statements.
	Statements []Node
	Blockless  bool

	Locals  *SymbolTable
	Exports *SymbolTable
	Sym     *Symbol
}

// UsingNode is `using <reference>;`.
type UsingNode struct {
	NodeBase
	Target Expr
}

// ModelNode is a named model declaration.
type ModelNode struct {
	NodeBase
	Name           *IdentifierNode
	TemplateParams []*TemplateParamNode
	Extends        Expr
	IsExpr         Expr
	Decorators     []*DecoratorNode
	// Body holds ModelPropertyNode and ModelSpreadNode entries in source
	// order.
	Body []Node

	Locals *SymbolTable
	Sym    *Symbol
}

// ModelPropertyNode is one `name?: Type = default` entry.
type ModelPropertyNode struct {
	NodeBase
	// Name is an IdentifierNode or StringLiteralNode.
	Name       Node
	Value      Expr
	Optional   bool
	Default    Expr
	Decorators []*DecoratorNode
}

// ModelSpreadNode is `...M`.
type ModelSpreadNode struct {
	NodeBase
	Target Expr
}

// InterfaceNode is an interface declaration with optional `mixes` clause.
type InterfaceNode struct {
	NodeBase
	Name           *IdentifierNode
	TemplateParams []*TemplateParamNode
	Mixes          []Expr
	Decorators     []*DecoratorNode
	Operations     []*OperationNode

	Locals *SymbolTable
	Sym    *Symbol
}

// OperationNode is `op name(params): ReturnType`.
type OperationNode struct {
	NodeBase
	Name       *IdentifierNode
	Parameters *ModelExprNode
	ReturnType Expr
	Decorators []*DecoratorNode

	Sym *Symbol
}

// UnionNode is a named union declaration.
type UnionNode struct {
	NodeBase
	Name           *IdentifierNode
	TemplateParams []*TemplateParamNode
	Decorators     []*DecoratorNode
	Variants       []*UnionVariantNode

	Locals *SymbolTable
	Sym    *Symbol
}

// UnionVariantNode is one `name: Type` entry of a named union.
type UnionVariantNode struct {
	NodeBase
	Name       Node
	Value      Expr
	Decorators []*DecoratorNode
}

// EnumNode is an enum declaration.
type EnumNode struct {
	NodeBase
	Name       *IdentifierNode
	Decorators []*DecoratorNode
	Members    []*EnumMemberNode

	Sym *Symbol
}

// EnumMemberNode is one `name` or `name: <literal>` entry.
type EnumMemberNode struct {
	NodeBase
	Name       Node
	Value      Expr
	Decorators []*DecoratorNode
}

// AliasNode is `alias Name<T> = <expr>;`.
type AliasNode struct {
	NodeBase
	Name           *IdentifierNode
	TemplateParams []*TemplateParamNode
	Value          Expr

	Locals *SymbolTable
	Sym    *Symbol
}

// TemplateParamNode declares one template parameter.
type TemplateParamNode struct {
	NodeBase
	Name *IdentifierNode

	Sym *Symbol
}

// DecoratorNode is `@target(args)`.
type DecoratorNode struct {
	NodeBase
	// Target is an IdentifierNode or MemberExprNode naming the decorator.
	Target Expr
	Args   []Expr
}

// DirectiveNode is `#name arg arg`, newline-terminated.
type DirectiveNode struct {
	NodeBase
	Name *IdentifierNode
	// Args are IdentifierNode or StringLiteralNode entries.
	Args []Node
}

// EmptyStmtNode is a stray `;`.
type EmptyStmtNode struct {
	NodeBase
}

// InvalidStmtNode stands in for source the parser could not recognize.
type InvalidStmtNode struct {
	NodeBase
}
