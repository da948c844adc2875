// Package types defines the type graph the checker constructs. The graph
// is pointer-based and admits cycles: a declaration's type is created and
// registered before its body is populated so self-referencing properties
// resolve to the same instance. Identity is pointer identity; the intern
// pool guarantees it for literal types.
package types

import (
	"strings"

	"cadl/internal/ast"
)

// Kind tags every type variant.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNamespace
	KindModel
	KindModelProperty
	KindInterface
	KindOperation
	KindUnion
	KindUnionVariant
	KindEnum
	KindEnumMember
	KindTuple
	KindArray
	KindIntrinsic
	KindTemplateParameter
	KindStringLiteral
	KindNumberLiteral
	KindBooleanLiteral
)

var kindNames = [...]string{
	KindInvalid:           "invalid",
	KindNamespace:         "namespace",
	KindModel:             "model",
	KindModelProperty:     "model property",
	KindInterface:         "interface",
	KindOperation:         "operation",
	KindUnion:             "union",
	KindUnionVariant:      "union variant",
	KindEnum:              "enum",
	KindEnumMember:        "enum member",
	KindTuple:             "tuple",
	KindArray:             "array",
	KindIntrinsic:         "intrinsic",
	KindTemplateParameter: "template parameter",
	KindStringLiteral:     "string literal",
	KindNumberLiteral:     "number literal",
	KindBooleanLiteral:    "boolean literal",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Type is any node of the type graph.
type Type interface {
	TypeKind() Kind
}

// TypeBase carries what every constructed type shares: the syntax node it
// came from (nil for intrinsics and synthesized types) and the enclosing
// namespace.
type TypeBase struct {
	Node      ast.Node
	Namespace *Namespace
}

// Namespace is the type-level view of a (merged) namespace: one instance
// per fully-qualified name, holding every checked member.
type Namespace struct {
	TypeBase
	Name    string
	Parent  *Namespace
	Members *MemberMap
}

func (*Namespace) TypeKind() Kind { return KindNamespace }

// FullName is the dot-joined path from the root. The root itself has an
// empty name.
func (n *Namespace) FullName() string {
	var parts []string
	for cur := n; cur != nil && cur.Name != ""; cur = cur.Parent {
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Model is a record type with ordered properties.
type Model struct {
	TypeBase
	Name       string // empty for model expressions
	Properties *PropertyMap
	BaseModel  *Model
	// TemplateArgs is non-nil only on instantiated templates.
	TemplateArgs []Type
	// TemplateNode points at the templated declaration an instance came
	// from; nil on plain models.
	TemplateNode ast.Node
	Decorators   []*ast.DecoratorNode
}

func (*Model) TypeKind() Kind { return KindModel }

// ModelProperty is one property of a model. SourceProperty links a copied
// property (spread, is, intersection) back to the original so per-property
// decoration survives composition.
type ModelProperty struct {
	TypeBase
	Name           string
	Type           Type
	Optional       bool
	Default        Type
	Model          *Model
	SourceProperty *ModelProperty
	Decorators     []*ast.DecoratorNode
}

func (*ModelProperty) TypeKind() Kind { return KindModelProperty }

// Root follows the SourceProperty chain to the originally declared
// property.
func (p *ModelProperty) Root() *ModelProperty {
	for p.SourceProperty != nil {
		p = p.SourceProperty
	}
	return p
}

// Interface is a set of operations plus the interfaces mixed into it.
type Interface struct {
	TypeBase
	Name         string
	Operations   *OperationMap
	Mixes        []*Interface
	TemplateArgs []Type
	TemplateNode ast.Node
	Decorators   []*ast.DecoratorNode
}

func (*Interface) TypeKind() Kind { return KindInterface }

// Operation pairs a parameters model with a return type. Interface is nil
// for namespace-level operations.
type Operation struct {
	TypeBase
	Name       string
	Parameters *Model
	ReturnType Type
	Interface  *Interface
	Decorators []*ast.DecoratorNode
}

func (*Operation) TypeKind() Kind { return KindOperation }

// Union is a named union declaration or an anonymous `A | B` expression.
// Options are deduplicated by type identity; named unions additionally
// keep their variants.
type Union struct {
	TypeBase
	Name         string
	Options      []Type
	Variants     *VariantMap
	TemplateArgs []Type
	TemplateNode ast.Node
	Decorators   []*ast.DecoratorNode
}

func (*Union) TypeKind() Kind { return KindUnion }

// UnionVariant is one named option of a union declaration.
type UnionVariant struct {
	TypeBase
	Name       string
	Type       Type
	Union      *Union
	Decorators []*ast.DecoratorNode
}

func (*UnionVariant) TypeKind() Kind { return KindUnionVariant }

// Enum is a closed set of named members.
type Enum struct {
	TypeBase
	Name       string
	Members    []*EnumMember
	Decorators []*ast.DecoratorNode
}

func (*Enum) TypeKind() Kind { return KindEnum }

// EnumMember carries an optional literal value type.
type EnumMember struct {
	TypeBase
	Name       string
	Value      Type
	Enum       *Enum
	Decorators []*ast.DecoratorNode
}

func (*EnumMember) TypeKind() Kind { return KindEnumMember }

// Tuple is `[A, B, C]`.
type Tuple struct {
	TypeBase
	Elements []Type
}

func (*Tuple) TypeKind() Kind { return KindTuple }

// Array is the postfix `T[]`.
type Array struct {
	TypeBase
	Element Type
}

func (*Array) TypeKind() Kind { return KindArray }

// Intrinsic is a built-in primitive such as string or int32.
type Intrinsic struct {
	TypeBase
	Name string
}

func (*Intrinsic) TypeKind() Kind { return KindIntrinsic }

// TemplateParameter stands for an unbound parameter inside an
// uninstantiated template body.
type TemplateParameter struct {
	TypeBase
	Name string
}

func (*TemplateParameter) TypeKind() Kind { return KindTemplateParameter }

// StringLiteral, NumberLiteral, and BooleanLiteral are interned: obtain
// them through the InternPool, never construct them directly.
type StringLiteral struct {
	Value string
}

func (*StringLiteral) TypeKind() Kind { return KindStringLiteral }

type NumberLiteral struct {
	Value float64
	Text  string
}

func (*NumberLiteral) TypeKind() Kind { return KindNumberLiteral }

type BooleanLiteral struct {
	Value bool
}

func (*BooleanLiteral) TypeKind() Kind { return KindBooleanLiteral }

// NameOf returns the declared name of a type, or "" for anonymous ones.
func NameOf(t Type) string {
	switch v := t.(type) {
	case *Namespace:
		return v.Name
	case *Model:
		return v.Name
	case *Interface:
		return v.Name
	case *Operation:
		return v.Name
	case *Union:
		return v.Name
	case *Enum:
		return v.Name
	case *Intrinsic:
		return v.Name
	case *TemplateParameter:
		return v.Name
	default:
		return ""
	}
}
