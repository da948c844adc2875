package loader

import (
	"cadl/internal/ast"
	"cadl/internal/diag"
	"cadl/internal/source"
)

// suppressIndex implements diag.Suppressor from the parsed #suppress
// directives. A directive on a node covers the node's span, which also
// covers every descendant; on a blockless namespace the span extends to
// the captured statements, so the directive scopes to the namespace body.
type suppressIndex struct {
	entries []suppressEntry
}

type suppressEntry struct {
	code diag.Code
	span source.Span
}

func (ix *suppressIndex) Suppressed(d diag.Diagnostic) bool {
	for _, e := range ix.entries {
		if e.code == d.Code && e.span.File == d.Primary.File && e.span.Contains(d.Primary) {
			return true
		}
	}
	return false
}

// addScript indexes every #suppress directive in one file. Directives
// naming a code the compiler does not define are ignored; they may be
// aimed at a future version.
func (ix *suppressIndex) addScript(script *ast.ScriptNode) {
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		for _, d := range n.Base().Directives {
			ix.addDirective(n, d)
		}
		ast.VisitChildren(n, func(c ast.Node) bool {
			walk(c)
			return true
		})
	}
	walk(script)
}

func (ix *suppressIndex) addDirective(target ast.Node, d *ast.DirectiveNode) {
	if d.Name == nil || d.Name.Value != "suppress" || len(d.Args) == 0 {
		return
	}
	name := directiveArgText(d.Args[0])
	code, ok := diag.CodeByName(name)
	if !ok {
		return
	}
	ix.entries = append(ix.entries, suppressEntry{code: code, span: target.Base().Span})
}

func directiveArgText(n ast.Node) string {
	switch v := n.(type) {
	case *ast.IdentifierNode:
		return v.Value
	case *ast.StringLiteralNode:
		return v.Value
	default:
		return ""
	}
}
