package checker

import (
	"cadl/internal/ast"
	"cadl/internal/types"
)

// intrinsicNames are the built-in primitives of the implicit Cadl
// namespace, which is using'd everywhere.
var intrinsicNames = []string{
	"string",
	"boolean",
	"bytes",
	"int8",
	"int16",
	"int32",
	"int64",
	"uint8",
	"uint16",
	"uint32",
	"uint64",
	"safeint",
	"float32",
	"float64",
	"plainDate",
	"plainTime",
	"zonedDateTime",
	"duration",
	"null",
	"void",
}

var numericIntrinsics = map[string]bool{
	"int8": true, "int16": true, "int32": true, "int64": true,
	"uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"safeint": true, "float32": true, "float64": true,
}

// installIntrinsics declares the Cadl namespace into the global scope.
// Intrinsic symbols have no declaration node; their type lives directly
// in Symbol.Value. A source-level `namespace Cadl` merges with it.
func (c *Checker) installIntrinsics() *ast.SymbolTable {
	exports := ast.NewSymbolTable()
	cadlNS := &types.Namespace{
		TypeBase: types.TypeBase{Namespace: c.root},
		Name:     "Cadl",
		Parent:   c.root,
		Members:  types.NewMemberMap(),
	}
	for _, name := range intrinsicNames {
		t := &types.Intrinsic{
			TypeBase: types.TypeBase{Namespace: cadlNS},
			Name:     name,
		}
		exports.Set(&ast.Symbol{Kind: ast.SymType, Name: name, Value: t})
		cadlNS.Members.Set(name, t)
	}

	if existing, ok := c.opts.Globals.Get("Cadl"); ok && existing.Exports != nil {
		// A library or source file already declared Cadl; merge intrinsics
		// into its exports.
		for _, sym := range exports.Iter() {
			existing.Exports.Set(sym)
		}
		c.namespaceTypes[existing.Exports] = cadlNS
		c.root.Members.Set("Cadl", cadlNS)
		return existing.Exports
	}

	c.opts.Globals.Set(&ast.Symbol{
		Kind:    ast.SymType,
		Name:    "Cadl",
		Exports: exports,
	})
	c.namespaceTypes[exports] = cadlNS
	c.root.Members.Set("Cadl", cadlNS)
	return exports
}

// IsNumericIntrinsic reports whether t is one of the numeric primitives.
func IsNumericIntrinsic(t types.Type) bool {
	in, ok := t.(*types.Intrinsic)
	return ok && numericIntrinsics[in.Name]
}
