package types_test

import (
	"testing"

	"cadl/internal/types"
)

func TestInternPoolIdentity(t *testing.T) {
	pool := types.NewInternPool()

	if pool.String("a") != pool.String("a") {
		t.Error("equal strings must intern to one type")
	}
	if pool.String("a") == pool.String("b") {
		t.Error("distinct strings must not share a type")
	}
	if pool.Number(1, "1") != pool.Number(1, "1.0") {
		t.Error("numbers intern by value, not spelling")
	}
	if pool.Number(1, "1").Text != "1" {
		t.Error("first spelling should be retained")
	}
	if pool.Boolean(true) != pool.Boolean(true) || pool.Boolean(true) == pool.Boolean(false) {
		t.Error("boolean interning broken")
	}
}

func TestPropertyMapOrderAndFirstWins(t *testing.T) {
	m := types.NewPropertyMap()
	first := &types.ModelProperty{Name: "x"}
	if !m.Set("x", first) {
		t.Fatal("fresh insert should succeed")
	}
	if m.Set("x", &types.ModelProperty{Name: "x"}) {
		t.Error("second insert under one name must be rejected")
	}
	m.Set("y", &types.ModelProperty{Name: "y"})

	got, _ := m.Get("x")
	if got != first {
		t.Error("first entry must stay authoritative")
	}
	names := m.Names()
	if len(names) != 2 || names[0] != "x" || names[1] != "y" {
		t.Errorf("order = %v, want [x y]", names)
	}
}

func TestNamespaceFullName(t *testing.T) {
	root := &types.Namespace{Members: types.NewMemberMap()}
	a := &types.Namespace{Name: "A", Parent: root, Members: types.NewMemberMap()}
	b := &types.Namespace{Name: "B", Parent: a, Members: types.NewMemberMap()}

	if got := root.FullName(); got != "" {
		t.Errorf("root full name = %q, want empty", got)
	}
	if got := b.FullName(); got != "A.B" {
		t.Errorf("full name = %q, want A.B", got)
	}
}

func TestSourcePropertyRoot(t *testing.T) {
	orig := &types.ModelProperty{Name: "p"}
	copy1 := &types.ModelProperty{Name: "p", SourceProperty: orig}
	copy2 := &types.ModelProperty{Name: "p", SourceProperty: copy1}
	if copy2.Root() != orig {
		t.Error("Root should follow the provenance chain to the declaration")
	}
}
