package binder_test

import (
	"testing"

	"cadl/internal/ast"
	"cadl/internal/binder"
	"cadl/internal/diag"
	"cadl/internal/lexer"
	"cadl/internal/parser"
	"cadl/internal/source"
)

type fixture struct {
	bag     *diag.Bag
	binder  *binder.Binder
	fileSet *source.FileSet
}

func newFixture() *fixture {
	bag := diag.NewBag()
	return &fixture{
		bag:     bag,
		binder:  binder.New(ast.NewSymbolTable(), diag.BagReporter{Bag: bag}),
		fileSet: source.NewFileSet(),
	}
}

func (f *fixture) bind(t *testing.T, name, src string) *ast.ScriptNode {
	t.Helper()
	id := f.fileSet.AddVirtual(name, []byte(src))
	rep := diag.BagReporter{Bag: f.bag}
	lx := lexer.New(f.fileSet.Get(id), lexer.Options{Reporter: rep})
	script := parser.ParseFile(lx, parser.Options{Reporter: rep})
	if f.bag.HasErrors() {
		t.Fatalf("parse of %s failed: %v", name, f.bag.Items())
	}
	f.binder.BindScript(script)
	return script
}

func TestBindDeclarations(t *testing.T) {
	f := newFixture()
	script := f.bind(t, "main.cadl", `
model Pet<T> { name: string }
op ping(): bool;
enum Color { Red }
`)
	globals := f.binder.Globals()
	for _, name := range []string{"Pet", "ping", "Color"} {
		if _, ok := globals.Get(name); !ok {
			t.Errorf("global %q not bound", name)
		}
	}

	m := script.Statements[0].(*ast.ModelNode)
	if m.Sym == nil || m.Sym.Decl != m {
		t.Error("model symbol should round-trip to its declaration")
	}
	if tp, ok := m.Locals.Get("T"); !ok || tp.Decl != m.TemplateParams[0] {
		t.Error("template parameter not in model locals")
	}
	if m.TemplateParams[0].Parent != m {
		t.Error("parent link not set on template parameter")
	}
}

func TestInterfaceMembersNotInScope(t *testing.T) {
	f := newFixture()
	script := f.bind(t, "main.cadl", `
interface Store {
  get(key: string): string;
}
`)
	if _, ok := f.binder.Globals().Get("get"); ok {
		t.Error("interface member leaked into the enclosing scope")
	}
	iface := script.Statements[0].(*ast.InterfaceNode)
	if iface.Operations[0].Sym != nil {
		t.Error("interface member should carry no scope symbol")
	}
}

func TestNamespaceMergingAcrossFiles(t *testing.T) {
	f := newFixture()
	a := f.bind(t, "a.cadl", "namespace Lib { model A {} }\n")
	b := f.bind(t, "b.cadl", "namespace Lib { model B {} }\n")

	nsA := a.Statements[0].(*ast.NamespaceNode)
	nsB := b.Statements[0].(*ast.NamespaceNode)
	if nsA.Sym != nsB.Sym {
		t.Fatal("merged namespaces must share one symbol")
	}
	if nsA.Exports != nsB.Exports {
		t.Fatal("merged namespaces must share one exports table")
	}
	if _, ok := nsA.Exports.Get("A"); !ok {
		t.Error("A missing from merged exports")
	}
	if _, ok := nsA.Exports.Get("B"); !ok {
		t.Error("B missing from merged exports")
	}

	binder.ReportDuplicates(f.binder.Globals(), diag.BagReporter{Bag: f.bag})
	if f.bag.HasErrors() {
		t.Errorf("merging must not produce duplicates: %v", f.bag.Items())
	}
}

func TestDuplicateAcrossMergedNamespaces(t *testing.T) {
	f := newFixture()
	f.bind(t, "a.cadl", "namespace Lib { model Same {} }\n")
	f.bind(t, "b.cadl", "namespace Lib { model Same {} }\n")

	binder.ReportDuplicates(f.binder.Globals(), diag.BagReporter{Bag: f.bag})
	errs := 0
	for _, d := range f.bag.Items() {
		if d.Code == diag.BndDuplicateSymbol {
			errs++
		}
	}
	if errs != 2 {
		t.Errorf("duplicate-symbol count = %d, want one per declaration (2)", errs)
	}
}

func TestDuplicateFirstWins(t *testing.T) {
	f := newFixture()
	script := f.bind(t, "main.cadl", "model M { a: string }\nmodel M { b: string }\n")

	first := script.Statements[0].(*ast.ModelNode)
	sym, _ := f.binder.Globals().Get("M")
	if sym.Decl != first {
		t.Error("first declaration must stay authoritative")
	}
	dups := f.binder.Globals().DuplicatesOf(sym)
	if len(dups) != 1 {
		t.Fatalf("duplicates = %d, want 1", len(dups))
	}
}

func TestNamespaceModelCollisionIsDuplicate(t *testing.T) {
	f := newFixture()
	f.bind(t, "main.cadl", "model X {}\nnamespace X { }\n")
	binder.ReportDuplicates(f.binder.Globals(), diag.BagReporter{Bag: f.bag})
	if !f.bag.HasErrors() {
		t.Error("namespace colliding with a model must be a duplicate")
	}
}

func TestDuplicateTemplateParams(t *testing.T) {
	f := newFixture()
	f.bind(t, "main.cadl", "model M<T, T> {}\n")
	found := false
	for _, d := range f.bag.Items() {
		if d.Code == diag.BndDuplicateSymbol {
			found = true
		}
	}
	if !found {
		t.Error("expected duplicate-symbol for repeated template parameter")
	}
}

func TestBindExternalModule(t *testing.T) {
	f := newFixture()
	validate := func() {}
	deco := func() {}
	cb := f.binder.BindExternalModule(&binder.ExternalModule{
		Path:      "lib/decorators.js",
		Namespace: "My.Lib",
		Exports: map[string]any{
			"$tag":        deco,
			"$onValidate": validate,
			"helper":      func() {},
		},
	})
	if cb.OnValidate == nil {
		t.Error("$onValidate should surface as a callback")
	}
	if cb.OnEmit != nil {
		t.Error("no $onEmit was exported")
	}

	my, ok := f.binder.Globals().Get("My")
	if !ok || my.Exports == nil {
		t.Fatal("namespace My not created")
	}
	lib, ok := my.Exports.Get("Lib")
	if !ok || lib.Exports == nil {
		t.Fatal("namespace My.Lib not created")
	}
	tag, ok := lib.Exports.Get("@tag")
	if !ok {
		t.Fatal("decorator @tag not bound")
	}
	if tag.Kind != ast.SymDecorator || tag.Path != "lib/decorators.js" {
		t.Errorf("decorator symbol = %+v", tag)
	}
	if _, ok := lib.Exports.Get("helper"); ok {
		t.Error("non-$ exports must not be bound")
	}
	if _, ok := lib.Exports.Get("@onValidate"); ok {
		t.Error("$onValidate must not become a decorator")
	}
}

func TestExternalNamespaceMergesWithSource(t *testing.T) {
	f := newFixture()
	f.binder.BindExternalModule(&binder.ExternalModule{
		Path:      "lib/decorators.js",
		Namespace: "Lib",
		Exports:   map[string]any{"$blue": func() {}},
	})
	script := f.bind(t, "main.cadl", "namespace Lib { model M {} }\n")

	ns := script.Statements[0].(*ast.NamespaceNode)
	if _, ok := ns.Exports.Get("@blue"); !ok {
		t.Error("source namespace should merge with the external one")
	}
	binder.ReportDuplicates(f.binder.Globals(), diag.BagReporter{Bag: f.bag})
	if f.bag.HasErrors() {
		t.Errorf("merge must not be a duplicate: %v", f.bag.Items())
	}
}
