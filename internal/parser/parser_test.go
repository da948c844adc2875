package parser_test

import (
	"strings"
	"testing"

	"cadl/internal/ast"
	"cadl/internal/diag"
	"cadl/internal/lexer"
	"cadl/internal/parser"
	"cadl/internal/source"
)

func parseSrc(t *testing.T, src string) (*ast.ScriptNode, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cadl", []byte(src))
	bag := diag.NewBag()
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	script := parser.ParseFile(lx, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return script, bag
}

func requireClean(t *testing.T, bag *diag.Bag) {
	t.Helper()
	for _, d := range bag.Items() {
		t.Errorf("unexpected diagnostic: %s %s", d.Code.ID(), d.Message)
	}
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestParseModel(t *testing.T) {
	script, bag := parseSrc(t, `
model Pet {
  name: string,
  age?: int32 = 1,
  @tagged kind: "dog" | "cat",
  ...Base,
}
`)
	requireClean(t, bag)
	if len(script.Statements) != 1 {
		t.Fatalf("statements = %d, want 1", len(script.Statements))
	}
	m, ok := script.Statements[0].(*ast.ModelNode)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ModelNode", script.Statements[0])
	}
	if m.Name.Value != "Pet" {
		t.Errorf("name = %q, want Pet", m.Name.Value)
	}
	if len(m.Body) != 4 {
		t.Fatalf("body = %d items, want 4", len(m.Body))
	}

	age := m.Body[1].(*ast.ModelPropertyNode)
	if !age.Optional {
		t.Error("age should be optional")
	}
	if age.Default == nil {
		t.Error("age should have a default")
	}

	kind := m.Body[2].(*ast.ModelPropertyNode)
	if len(kind.Decorators) != 1 {
		t.Fatalf("kind decorators = %d, want 1", len(kind.Decorators))
	}
	if _, ok := kind.Value.(*ast.UnionExprNode); !ok {
		t.Errorf("kind value is %T, want *ast.UnionExprNode", kind.Value)
	}

	if _, ok := m.Body[3].(*ast.ModelSpreadNode); !ok {
		t.Errorf("last item is %T, want *ast.ModelSpreadNode", m.Body[3])
	}
	if !script.Printable {
		t.Error("clean parse should stay printable")
	}
}

func TestParseModelHeritage(t *testing.T) {
	script, bag := parseSrc(t, `
model A<T> extends Base<T> {}
model B is Template<string> {}
`)
	requireClean(t, bag)
	a := script.Statements[0].(*ast.ModelNode)
	if len(a.TemplateParams) != 1 || a.TemplateParams[0].Name.Value != "T" {
		t.Errorf("template params = %v", a.TemplateParams)
	}
	if a.Extends == nil {
		t.Error("A should have an extends clause")
	}
	b := script.Statements[1].(*ast.ModelNode)
	if b.IsExpr == nil {
		t.Error("B should have an is clause")
	}
}

func TestDottedNamespaceDesugars(t *testing.T) {
	script, bag := parseSrc(t, `
@svc
namespace A.B.C {
  model M {}
}
`)
	requireClean(t, bag)
	outer := script.Statements[0].(*ast.NamespaceNode)
	if outer.Name.Value != "A" {
		t.Fatalf("outer name = %q, want A", outer.Name.Value)
	}
	mid := outer.Statements[0].(*ast.NamespaceNode)
	inner := mid.Statements[0].(*ast.NamespaceNode)
	if mid.Name.Value != "B" || inner.Name.Value != "C" {
		t.Fatalf("chain = %s.%s", mid.Name.Value, inner.Name.Value)
	}
	if outer.Span != mid.Span || mid.Span != inner.Span {
		t.Error("desugared namespaces must share one span")
	}
	if len(inner.Decorators) != 1 {
		t.Errorf("decorators should attach to the innermost namespace, got %d", len(inner.Decorators))
	}
	if len(outer.Decorators) != 0 {
		t.Errorf("outer namespace should carry no decorators, got %d", len(outer.Decorators))
	}
	if _, ok := inner.Statements[0].(*ast.ModelNode); !ok {
		t.Errorf("inner body is %T, want *ast.ModelNode", inner.Statements[0])
	}
}

func TestBlocklessNamespace(t *testing.T) {
	script, bag := parseSrc(t, `
import "./other.cadl";
namespace Service;
model A {}
model B {}
`)
	requireClean(t, bag)
	if len(script.Statements) != 2 {
		t.Fatalf("top-level statements = %d, want 2 (import + namespace)", len(script.Statements))
	}
	ns := script.Statements[1].(*ast.NamespaceNode)
	if !ns.Blockless {
		t.Fatal("namespace should be blockless")
	}
	if len(ns.Statements) != 2 {
		t.Fatalf("namespace body = %d, want the 2 trailing models", len(ns.Statements))
	}
}

func TestBlocklessNamespaceAfterStatement(t *testing.T) {
	_, bag := parseSrc(t, "model A {}\nnamespace Late;\n")
	if !hasCode(bag, diag.SynBlocklessNamespaceFirst) {
		t.Error("expected blockless-namespace-first error")
	}
}

func TestMultipleBlocklessNamespaces(t *testing.T) {
	_, bag := parseSrc(t, "namespace One;\nnamespace Two;\n")
	if !hasCode(bag, diag.SynMultipleBlocklessNS) {
		t.Error("expected multiple-blockless-namespace error")
	}
}

func TestImportAfterStatement(t *testing.T) {
	_, bag := parseSrc(t, "model A {}\nimport \"./x.cadl\";\n")
	if !hasCode(bag, diag.SynImportsFirst) {
		t.Error("expected imports-first error")
	}
}

func TestParseOperationAndInterface(t *testing.T) {
	script, bag := parseSrc(t, `
op ping(name: string): bool;

interface Store mixes Readable, Writable {
  get(key: string): string;
  op del(key: string): bool;
}
`)
	requireClean(t, bag)

	op := script.Statements[0].(*ast.OperationNode)
	if op.Name.Value != "ping" {
		t.Errorf("op name = %q", op.Name.Value)
	}
	if len(op.Parameters.Body) != 1 {
		t.Errorf("op params = %d, want 1", len(op.Parameters.Body))
	}

	iface := script.Statements[1].(*ast.InterfaceNode)
	if len(iface.Mixes) != 2 {
		t.Fatalf("mixes = %d, want 2", len(iface.Mixes))
	}
	if len(iface.Operations) != 2 {
		t.Fatalf("operations = %d, want 2", len(iface.Operations))
	}
	if iface.Operations[0].Name.Value != "get" || iface.Operations[1].Name.Value != "del" {
		t.Errorf("operation names = %q, %q", iface.Operations[0].Name.Value, iface.Operations[1].Name.Value)
	}
}

func TestMixesIsContextual(t *testing.T) {
	script, bag := parseSrc(t, "model mixes { mixes: string }\n")
	requireClean(t, bag)
	m := script.Statements[0].(*ast.ModelNode)
	if m.Name.Value != "mixes" {
		t.Errorf("mixes should parse as a model name, got %q", m.Name.Value)
	}
}

func TestParseUnionEnumAlias(t *testing.T) {
	script, bag := parseSrc(t, `
union Shape<T> {
  circle: Circle<T>,
  "odd name": Square,
}
enum Color { Red, Green: "g", Blue: 3 }
alias Pair<T> = [T, T];
`)
	requireClean(t, bag)

	u := script.Statements[0].(*ast.UnionNode)
	if len(u.Variants) != 2 {
		t.Fatalf("variants = %d, want 2", len(u.Variants))
	}
	if name, ok := u.Variants[1].Name.(*ast.StringLiteralNode); !ok || name.Value != "odd name" {
		t.Errorf("second variant name = %#v", u.Variants[1].Name)
	}

	e := script.Statements[1].(*ast.EnumNode)
	if len(e.Members) != 3 {
		t.Fatalf("members = %d, want 3", len(e.Members))
	}
	if e.Members[0].Value != nil {
		t.Error("Red should have no explicit value")
	}

	a := script.Statements[2].(*ast.AliasNode)
	if _, ok := a.Value.(*ast.TupleExprNode); !ok {
		t.Errorf("alias value is %T, want *ast.TupleExprNode", a.Value)
	}
}

func TestExprPrecedence(t *testing.T) {
	script, bag := parseSrc(t, "alias X = A | B & C[] | D;\n")
	requireClean(t, bag)
	a := script.Statements[0].(*ast.AliasNode)
	u, ok := a.Value.(*ast.UnionExprNode)
	if !ok {
		t.Fatalf("value is %T, want union", a.Value)
	}
	if len(u.Options) != 3 {
		t.Fatalf("union options = %d, want 3", len(u.Options))
	}
	ix, ok := u.Options[1].(*ast.IntersectionExprNode)
	if !ok {
		t.Fatalf("middle option is %T, want intersection", u.Options[1])
	}
	if _, ok := ix.Options[1].(*ast.ArrayExprNode); !ok {
		t.Errorf("C[] should bind tighter than &, got %T", ix.Options[1])
	}
}

func TestReferenceWithArgs(t *testing.T) {
	script, bag := parseSrc(t, "alias X = Lib.Types.Map<string, int32[]>;\n")
	requireClean(t, bag)
	a := script.Statements[0].(*ast.AliasNode)
	ref := a.Value.(*ast.ReferenceNode)
	if len(ref.Args) != 2 {
		t.Fatalf("args = %d, want 2", len(ref.Args))
	}
	member, ok := ref.Target.(*ast.MemberExprNode)
	if !ok || member.ID.Value != "Map" {
		t.Fatalf("target = %#v", ref.Target)
	}
}

func TestSuppressDirectiveAttaches(t *testing.T) {
	script, bag := parseSrc(t, `
#suppress "duplicate-symbol" legacy layout
model A {}
`)
	requireClean(t, bag)
	m := script.Statements[0].(*ast.ModelNode)
	if len(m.Directives) != 1 {
		t.Fatalf("directives = %d, want 1", len(m.Directives))
	}
	d := m.Directives[0]
	if d.Name.Value != "suppress" {
		t.Errorf("directive name = %q", d.Name.Value)
	}
	if len(d.Args) != 3 {
		t.Fatalf("directive args = %d, want 3", len(d.Args))
	}
	if code, ok := d.Args[0].(*ast.StringLiteralNode); !ok || code.Value != "duplicate-symbol" {
		t.Errorf("first arg = %#v", d.Args[0])
	}
}

func TestUnknownDirective(t *testing.T) {
	_, bag := parseSrc(t, "#frobnicate now\nmodel A {}\n")
	if !hasCode(bag, diag.SynUnknownDirective) {
		t.Error("expected unknown-directive error")
	}
}

func TestToleratedDelimiterWarns(t *testing.T) {
	script, bag := parseSrc(t, "model A { x: string; y: string }\n")
	if !hasCode(bag, diag.SynWrongDelimiter) {
		t.Error("expected wrong-delimiter warning")
	}
	if bag.HasErrors() {
		t.Error("tolerated delimiter must not be an error")
	}
	m := script.Statements[0].(*ast.ModelNode)
	if len(m.Body) != 2 {
		t.Errorf("body = %d, want 2", len(m.Body))
	}
}

func TestTrailingDelimiterInArgsRejected(t *testing.T) {
	_, bag := parseSrc(t, "@dec(1, 2,)\nmodel A {}\n")
	if !hasCode(bag, diag.SynTrailingDelimiter) {
		t.Error("expected trailing-delimiter error")
	}
}

func TestDecoratorOnImportRejected(t *testing.T) {
	_, bag := parseSrc(t, "@dec import \"./x.cadl\";\n")
	if !hasCode(bag, diag.SynInvalidDecoratorLocation) {
		t.Error("expected invalid-decorator-location error")
	}
}

func TestReservedIdentifier(t *testing.T) {
	_, bag := parseSrc(t, "model model {}\n")
	if !hasCode(bag, diag.SynReservedIdentifier) {
		t.Error("expected reserved-identifier error")
	}
}

func TestMissingIdentifierRecovery(t *testing.T) {
	script, bag := parseSrc(t, "model {}\nmodel B {}\n")
	if !bag.HasErrors() {
		t.Fatal("expected an error")
	}
	if len(script.Statements) != 2 {
		t.Fatalf("statements = %d, want 2 (recovery should keep B)", len(script.Statements))
	}
	m := script.Statements[0].(*ast.ModelNode)
	if !strings.HasPrefix(m.Name.Value, "<missing identifier>") {
		t.Errorf("name = %q, want synthetic placeholder", m.Name.Value)
	}
	if m.Name.Flags&ast.FlagSynthetic == 0 {
		t.Error("synthetic identifier should carry FlagSynthetic")
	}
	if script.Printable {
		t.Error("recovered parse must not be printable")
	}
	b := script.Statements[1].(*ast.ModelNode)
	if b.Name.Value != "B" {
		t.Errorf("second model = %q, want B", b.Name.Value)
	}
}

func TestErrorFlagsPropagate(t *testing.T) {
	script, _ := parseSrc(t, "model A { x string }\n")
	m := script.Statements[0].(*ast.ModelNode)
	base := m.Base()
	if base.Flags&(ast.FlagHasParseError|ast.FlagDescendantHasError) == 0 {
		t.Error("model should carry an error flag after a broken property")
	}
	if script.Flags&ast.FlagDescendantHasError == 0 {
		t.Error("script should see the descendant error")
	}
}

func TestErrorDedupAtPosition(t *testing.T) {
	_, bag := parseSrc(t, "model A { : }\n")
	count := 0
	for i, d := range bag.Items() {
		if i > 0 && d.Primary.Start == bag.Items()[i-1].Primary.Start &&
			d.Severity == diag.SevError && bag.Items()[i-1].Severity == diag.SevError {
			count++
		}
	}
	if count > 1 {
		t.Errorf("got %d duplicate error positions in a row, want at most 1", count)
	}
}

func TestParseNeverPanicsOnGarbage(t *testing.T) {
	inputs := []string{
		"",
		";;;",
		"model",
		"model A { x: }",
		"namespace {",
		"@@ ##",
		"op (): ;",
		"interface I { ( }",
		"alias = ;",
		"} } }",
		"model A extends {",
		"union U { : }",
	}
	for _, src := range inputs {
		script, _ := parseSrc(t, src)
		if script == nil {
			t.Errorf("ParseFile(%q) returned nil script", src)
		}
	}
}

func TestUsingCollected(t *testing.T) {
	script, bag := parseSrc(t, "using Lib.Std;\nusing Other;\nmodel A {}\n")
	requireClean(t, bag)
	if len(script.Usings) != 2 {
		t.Fatalf("usings = %d, want 2", len(script.Usings))
	}
}

func TestEmptyStatement(t *testing.T) {
	script, bag := parseSrc(t, ";\nmodel A {}\n")
	requireClean(t, bag)
	if _, ok := script.Statements[0].(*ast.EmptyStmtNode); !ok {
		t.Errorf("first statement is %T, want *ast.EmptyStmtNode", script.Statements[0])
	}
}

func TestListSkipsNonExpressionTokens(t *testing.T) {
	// Tokens no list item can start with must still be consumed, or the
	// list loop never reaches the close token.
	cases := []struct{ name, src string }{
		{"template args", "alias A = Foo<;>;"},
		{"tuple", "alias A = [;];"},
		{"decorator args", "@blue(;) model M {}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			script, bag := parseSrc(t, tc.src)
			if script == nil {
				t.Fatal("no script produced")
			}
			if !bag.HasErrors() {
				t.Error("stray token in list produced no diagnostic")
			}
		})
	}
}

func TestDirectiveAtEndOfBlock(t *testing.T) {
	_, bag := parseSrc(t, "model M {\n  x: string,\n  #suppress \"wrong-delimiter\" tail\n}\n")
	if !hasCode(bag, diag.SynInvalidDirectiveLocation) {
		t.Errorf("directive with nothing to attach to, got %v", bag.Items())
	}
}

func TestDecoratorAtEndOfFile(t *testing.T) {
	_, bag := parseSrc(t, "model M {}\n@orphan\n")
	if !hasCode(bag, diag.SynInvalidDecoratorLocation) {
		t.Errorf("trailing decorator should be flagged, got %v", bag.Items())
	}
}
