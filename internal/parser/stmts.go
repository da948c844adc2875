package parser

import (
	"fmt"

	"cadl/internal/ast"
	"cadl/internal/diag"
	"cadl/internal/source"
	"cadl/internal/token"
)

// statementPrelude carries the directives and decorators collected before
// a statement or list item. Directives propagate to the next node;
// statements that forbid decorators report them instead of dropping them
// silently.
type statementPrelude struct {
	directives []*ast.DirectiveNode
	decorators []*ast.DecoratorNode
}

// parsePrelude collects leading #directives and @decorators in any order.
func (p *Parser) parsePrelude(forbidDecorators bool) statementPrelude {
	var pre statementPrelude
	for {
		switch {
		case p.at(token.Hash):
			if d := p.parseDirective(); d != nil {
				pre.directives = append(pre.directives, d)
			}
		case p.at(token.At):
			dec := p.parseDecorator()
			if forbidDecorators {
				p.errAt(diag.SynInvalidDecoratorLocation, dec.Span,
					"decorators are not allowed here")
			}
			pre.decorators = append(pre.decorators, dec)
		default:
			return pre
		}
	}
}

func (pre statementPrelude) attach(n ast.Node) {
	n.Base().Directives = pre.directives
}

// forbidDecorators reports stray decorators on statements that take none.
func (p *Parser) forbidDecorators(pre statementPrelude, what string) {
	if len(pre.decorators) > 0 {
		p.errAt(diag.SynInvalidDecoratorLocation, pre.decorators[0].Span,
			"cannot decorate "+what)
	}
}

// reportStrayPrelude flags decorators and directives with nothing left to
// attach to (end of a list, block, or file).
func (p *Parser) reportStrayPrelude(pre statementPrelude) {
	if len(pre.decorators) > 0 {
		p.errAt(diag.SynInvalidDecoratorLocation, pre.decorators[0].Span,
			"decorators must precede a declaration")
	}
	if len(pre.directives) > 0 {
		p.errAt(diag.SynInvalidDirectiveLocation, pre.directives[0].Span,
			"directives must precede a declaration")
	}
}

// --- script -----------------------------------------------------------

func (p *Parser) parseScript() {
	startSpan := p.peek().Span
	var blockless *ast.NamespaceNode
	seenNonImport := false

	for !p.at(token.EOF) {
		pre := p.parsePrelude(false)
		if p.at(token.EOF) {
			p.reportStrayPrelude(pre)
			break
		}

		stmt, ok := p.parseStatement(pre)
		if !ok {
			p.resyncStatement()
		}
		if stmt == nil {
			continue
		}

		switch s := stmt.(type) {
		case *ast.ImportNode:
			if seenNonImport || blockless != nil {
				p.errAt(diag.SynImportsFirst, s.Span, "imports must come before any other statement")
			}
		case *ast.NamespaceNode:
			if s.Blockless {
				switch {
				case blockless != nil:
					p.errAt(diag.SynMultipleBlocklessNS, s.Span,
						"only one blockless namespace is allowed per file")
				case seenNonImport:
					p.errAt(diag.SynBlocklessNamespaceFirst, s.Span,
						"a blockless namespace must be declared before any other statement")
				default:
					// The rest of the file becomes the namespace body.
					blockless = innermostNamespace(s)
					p.script.Statements = append(p.script.Statements, stmt)
					seenNonImport = true
					continue
				}
			}
			seenNonImport = true
		default:
			seenNonImport = true
		}

		if blockless != nil {
			blockless.Statements = append(blockless.Statements, stmt)
			blockless.Span = blockless.Span.Cover(stmt.Base().Span)
		} else {
			p.script.Statements = append(p.script.Statements, stmt)
		}
	}

	p.script.Span = startSpan.Cover(p.lastSpan)
	p.script.Span.File = p.lx.File().ID
	propagateErrorFlags(p.script)
}

// innermostNamespace follows a desugared dotted chain down to the node
// that owns the body.
func innermostNamespace(n *ast.NamespaceNode) *ast.NamespaceNode {
	for {
		if len(n.Statements) == 1 {
			if inner, ok := n.Statements[0].(*ast.NamespaceNode); ok {
				n = inner
				continue
			}
		}
		return n
	}
}

// parseStatement dispatches on the first token of a statement. The bool
// result is false when recovery is required.
func (p *Parser) parseStatement(pre statementPrelude) (ast.Node, bool) {
	switch p.peek().Kind {
	case token.KwImport:
		p.forbidDecorators(pre, "an import statement")
		return p.parseImport(pre)
	case token.KwNamespace:
		return p.parseNamespace(pre)
	case token.KwUsing:
		p.forbidDecorators(pre, "a using statement")
		return p.parseUsing(pre)
	case token.KwModel:
		return p.parseModel(pre)
	case token.KwOp:
		return p.parseOperation(pre)
	case token.KwInterface:
		return p.parseInterface(pre)
	case token.KwUnion:
		return p.parseUnion(pre)
	case token.KwEnum:
		return p.parseEnum(pre)
	case token.KwAlias:
		p.forbidDecorators(pre, "an alias statement")
		return p.parseAlias(pre)
	case token.Semicolon:
		p.forbidDecorators(pre, "an empty statement")
		t := p.advance()
		n := &ast.EmptyStmtNode{NodeBase: ast.NodeBase{Kind: ast.KindEmptyStmt, Span: t.Span}}
		pre.attach(n)
		return n, true
	default:
		t := p.advance()
		p.errAt(diag.SynUnexpectedToken, t.Span,
			fmt.Sprintf("unexpected %s, expected a statement", t.Kind))
		n := &ast.InvalidStmtNode{NodeBase: ast.NodeBase{
			Kind:  ast.KindInvalidStmt,
			Span:  t.Span,
			Flags: ast.FlagHasParseError,
		}}
		pre.attach(n)
		return n, false
	}
}

// resyncStatement skips ahead to the next plausible statement start.
func (p *Parser) resyncStatement() {
	for {
		switch p.peek().Kind {
		case token.EOF, token.KwImport, token.KwNamespace, token.KwUsing,
			token.KwModel, token.KwOp, token.KwInterface, token.KwUnion,
			token.KwEnum, token.KwAlias, token.At, token.Hash, token.RBrace:
			return
		case token.Semicolon:
			p.advance()
			return
		default:
			p.advance()
		}
	}
}

// --- individual statements -------------------------------------------

func (p *Parser) parseImport(pre statementPrelude) (ast.Node, bool) {
	start := p.advance() // import
	n := &ast.ImportNode{NodeBase: ast.NodeBase{Kind: ast.KindImport, Span: start.Span}}
	pre.attach(n)

	if p.at(token.StringLit) {
		t := p.advance()
		n.Path = &ast.StringLiteralNode{
			NodeBase: ast.NodeBase{Kind: ast.KindStringLiteral, Span: t.Span},
			Value:    t.Value,
		}
	} else {
		p.errAt(diag.SynMissingToken, p.lastSpan.Collapse(), "expected import path string")
		n.Flags |= ast.FlagHasParseError
		n.Path = &ast.StringLiteralNode{
			NodeBase: ast.NodeBase{Kind: ast.KindStringLiteral, Span: p.lastSpan.Collapse(), Flags: ast.FlagSynthetic},
		}
	}
	p.expect(token.Semicolon)
	n.Span = n.Span.Cover(p.lastSpan)
	return n, true
}

func (p *Parser) parseNamespace(pre statementPrelude) (ast.Node, bool) {
	start := p.advance() // namespace

	names := []*ast.IdentifierNode{p.parseIdent()}
	for p.at(token.Dot) {
		p.advance()
		names = append(names, p.parseIdent())
	}

	inner := &ast.NamespaceNode{
		NodeBase:   ast.NodeBase{Kind: ast.KindNamespace, Span: start.Span},
		Name:       names[len(names)-1],
		Decorators: pre.decorators,
	}

	switch {
	case p.at(token.LBrace):
		p.advance()
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			stmtPre := p.parsePrelude(false)
			if p.at(token.RBrace) || p.at(token.EOF) {
				p.reportStrayPrelude(stmtPre)
				break
			}
			stmt, ok := p.parseStatement(stmtPre)
			if !ok {
				p.resyncStatement()
			}
			if stmt != nil {
				if ns, isNS := stmt.(*ast.NamespaceNode); isNS && ns.Blockless {
					p.errAt(diag.SynBlocklessNamespaceFirst, ns.Span,
						"a blockless namespace is only allowed at the top of a file")
				}
				inner.Statements = append(inner.Statements, stmt)
			}
		}
		p.expect(token.RBrace)
	case p.at(token.Semicolon):
		p.advance()
		inner.Blockless = true
		inner.Statements = []ast.Node{}
	default:
		p.expect(token.LBrace)
		inner.Flags |= ast.FlagHasParseError
	}

	fullSpan := start.Span.Cover(p.lastSpan)
	inner.Span = fullSpan

	// Desugar `namespace A.B.C { ... }` into nested nodes sharing one
	// span so merging and scope walking see a normal namespace chain.
	node := inner
	for i := len(names) - 2; i >= 0; i-- {
		node = &ast.NamespaceNode{
			NodeBase:   ast.NodeBase{Kind: ast.KindNamespace, Span: fullSpan},
			Name:       names[i],
			Statements: []ast.Node{node},
			Blockless:  inner.Blockless,
		}
	}
	pre.attach(node)
	return node, true
}

func (p *Parser) parseUsing(pre statementPrelude) (ast.Node, bool) {
	start := p.advance() // using
	n := &ast.UsingNode{NodeBase: ast.NodeBase{Kind: ast.KindUsing, Span: start.Span}}
	pre.attach(n)
	n.Target = p.parseReferenceTarget()
	p.expect(token.Semicolon)
	n.Span = n.Span.Cover(p.lastSpan)
	p.script.Usings = append(p.script.Usings, n)
	return n, true
}

func (p *Parser) parseModel(pre statementPrelude) (ast.Node, bool) {
	start := p.advance() // model
	n := &ast.ModelNode{
		NodeBase:   ast.NodeBase{Kind: ast.KindModel, Span: start.Span},
		Decorators: pre.decorators,
	}
	pre.attach(n)

	n.Name = p.parseIdent()
	n.TemplateParams = p.parseTemplateParams()

	if p.at(token.KwExtends) {
		p.advance()
		n.Extends = p.parseExpr()
	}
	if p.at(token.KwIs) {
		p.advance()
		n.IsExpr = p.parseExpr()
	}

	n.Body = p.parseModelBody()
	n.Span = n.Span.Cover(p.lastSpan)
	return n, true
}

// parseModelBody parses `{ properties and spreads }` with ',' primary and
// ';' tolerated; a trailing delimiter is valid.
func (p *Parser) parseModelBody() []ast.Node {
	var body []ast.Node
	p.parseList(listOptions{
		open:          token.LBrace,
		close:         token.RBrace,
		delimiter:     token.Comma,
		tolerated:     token.Semicolon,
		allowTrailing: true,
	}, func(pre statementPrelude) bool {
		item, ok := p.parseModelBodyItem(pre)
		if item != nil {
			body = append(body, item)
		}
		return ok
	})
	return body
}

func (p *Parser) parseModelBodyItem(pre statementPrelude) (ast.Node, bool) {
	if p.at(token.Ellipsis) {
		p.forbidDecorators(pre, "a spread")
		start := p.advance()
		n := &ast.ModelSpreadNode{NodeBase: ast.NodeBase{Kind: ast.KindModelSpread, Span: start.Span}}
		pre.attach(n)
		n.Target = p.parseReference()
		n.Span = n.Span.Cover(p.lastSpan)
		return n, true
	}
	return p.parseModelProperty(pre)
}

func (p *Parser) parseModelProperty(pre statementPrelude) (ast.Node, bool) {
	startSpan := p.peek().Span
	n := &ast.ModelPropertyNode{
		NodeBase:   ast.NodeBase{Kind: ast.KindModelProperty, Span: startSpan},
		Decorators: pre.decorators,
	}
	pre.attach(n)

	switch {
	case p.at(token.StringLit):
		t := p.advance()
		n.Name = &ast.StringLiteralNode{
			NodeBase: ast.NodeBase{Kind: ast.KindStringLiteral, Span: t.Span},
			Value:    t.Value,
		}
	case p.at(token.Ident):
		n.Name = p.parseIdent()
	default:
		p.errAt(diag.SynUnexpectedToken, p.peek().Span,
			fmt.Sprintf("unexpected %s, expected a property name", p.peek().Kind))
		n.Flags |= ast.FlagHasParseError
		n.Name = p.missingIdent(p.lastSpan.Collapse())
		return n, false
	}

	if p.at(token.Question) {
		p.advance()
		n.Optional = true
	}
	if _, ok := p.expect(token.Colon); !ok {
		n.Flags |= ast.FlagHasParseError
	}
	n.Value = p.parseExpr()
	if p.at(token.Assign) {
		p.advance()
		n.Default = p.parseExpr()
	}
	n.Span = n.Span.Cover(p.lastSpan)
	return n, true
}

func (p *Parser) parseOperation(pre statementPrelude) (ast.Node, bool) {
	start := p.advance() // op
	n := p.parseOperationTail(pre, start.Span)
	p.expect(token.Semicolon)
	n.Span = n.Span.Cover(p.lastSpan)
	return n, true
}

// parseOperationTail parses `name(params): ReturnType`, shared by
// top-level operations and interface members.
func (p *Parser) parseOperationTail(pre statementPrelude, startSpan source.Span) *ast.OperationNode {
	n := &ast.OperationNode{
		NodeBase:   ast.NodeBase{Kind: ast.KindOperation, Span: startSpan},
		Decorators: pre.decorators,
	}
	pre.attach(n)

	n.Name = p.parseIdent()

	params := &ast.ModelExprNode{NodeBase: ast.NodeBase{Kind: ast.KindModelExpr, Span: p.peek().Span}}
	p.parseList(listOptions{
		open:      token.LParen,
		close:     token.RParen,
		delimiter: token.Comma,
	}, func(itemPre statementPrelude) bool {
		item, ok := p.parseModelBodyItem(itemPre)
		if item != nil {
			params.Body = append(params.Body, item)
		}
		return ok
	})
	params.Span = params.Span.Cover(p.lastSpan)
	n.Parameters = params

	p.expect(token.Colon)
	n.ReturnType = p.parseExpr()
	n.Span = n.Span.Cover(p.lastSpan)
	return n
}

func (p *Parser) parseInterface(pre statementPrelude) (ast.Node, bool) {
	start := p.advance() // interface
	n := &ast.InterfaceNode{
		NodeBase:   ast.NodeBase{Kind: ast.KindInterface, Span: start.Span},
		Decorators: pre.decorators,
	}
	pre.attach(n)

	n.Name = p.parseIdent()
	n.TemplateParams = p.parseTemplateParams()

	// `mixes` is contextual: only this position treats the identifier as a
	// clause keyword.
	if p.at(token.Ident) && p.peek().Text == "mixes" {
		p.advance()
		n.Mixes = append(n.Mixes, p.parseReference())
		for p.at(token.Comma) {
			p.advance()
			n.Mixes = append(n.Mixes, p.parseReference())
		}
	}

	p.parseList(listOptions{
		open:          token.LBrace,
		close:         token.RBrace,
		delimiter:     token.Semicolon,
		tolerated:     token.Comma,
		allowTrailing: true,
	}, func(itemPre statementPrelude) bool {
		startSpan := p.peek().Span
		if p.at(token.KwOp) {
			startSpan = p.advance().Span
		}
		if !p.at(token.Ident) && !p.peek().IsKeyword() {
			p.errAt(diag.SynUnexpectedToken, p.peek().Span,
				fmt.Sprintf("unexpected %s, expected an operation", p.peek().Kind))
			return false
		}
		op := p.parseOperationTail(itemPre, startSpan)
		n.Operations = append(n.Operations, op)
		return true
	})
	n.Span = n.Span.Cover(p.lastSpan)
	return n, true
}

func (p *Parser) parseUnion(pre statementPrelude) (ast.Node, bool) {
	start := p.advance() // union
	n := &ast.UnionNode{
		NodeBase:   ast.NodeBase{Kind: ast.KindUnion, Span: start.Span},
		Decorators: pre.decorators,
	}
	pre.attach(n)

	n.Name = p.parseIdent()
	n.TemplateParams = p.parseTemplateParams()

	p.parseList(listOptions{
		open:          token.LBrace,
		close:         token.RBrace,
		delimiter:     token.Comma,
		tolerated:     token.Semicolon,
		allowTrailing: true,
	}, func(itemPre statementPrelude) bool {
		v := &ast.UnionVariantNode{
			NodeBase:   ast.NodeBase{Kind: ast.KindUnionVariant, Span: p.peek().Span},
			Decorators: itemPre.decorators,
		}
		itemPre.attach(v)
		name, ok := p.parseMemberName("a variant name")
		v.Name = name
		if !ok {
			v.Flags |= ast.FlagHasParseError
			n.Variants = append(n.Variants, v)
			return false
		}
		p.expect(token.Colon)
		v.Value = p.parseExpr()
		v.Span = v.Span.Cover(p.lastSpan)
		n.Variants = append(n.Variants, v)
		return true
	})
	n.Span = n.Span.Cover(p.lastSpan)
	return n, true
}

func (p *Parser) parseEnum(pre statementPrelude) (ast.Node, bool) {
	start := p.advance() // enum
	n := &ast.EnumNode{
		NodeBase:   ast.NodeBase{Kind: ast.KindEnum, Span: start.Span},
		Decorators: pre.decorators,
	}
	pre.attach(n)

	n.Name = p.parseIdent()

	p.parseList(listOptions{
		open:          token.LBrace,
		close:         token.RBrace,
		delimiter:     token.Comma,
		tolerated:     token.Semicolon,
		allowTrailing: true,
	}, func(itemPre statementPrelude) bool {
		m := &ast.EnumMemberNode{
			NodeBase:   ast.NodeBase{Kind: ast.KindEnumMember, Span: p.peek().Span},
			Decorators: itemPre.decorators,
		}
		itemPre.attach(m)
		name, ok := p.parseMemberName("a member name")
		m.Name = name
		if !ok {
			m.Flags |= ast.FlagHasParseError
			n.Members = append(n.Members, m)
			return false
		}
		if p.at(token.Colon) {
			p.advance()
			m.Value = p.parseExpr()
		}
		m.Span = m.Span.Cover(p.lastSpan)
		n.Members = append(n.Members, m)
		return true
	})
	n.Span = n.Span.Cover(p.lastSpan)
	return n, true
}

func (p *Parser) parseAlias(pre statementPrelude) (ast.Node, bool) {
	start := p.advance() // alias
	n := &ast.AliasNode{NodeBase: ast.NodeBase{Kind: ast.KindAlias, Span: start.Span}}
	pre.attach(n)

	n.Name = p.parseIdent()
	n.TemplateParams = p.parseTemplateParams()
	p.expect(token.Assign)
	n.Value = p.parseExpr()
	p.expect(token.Semicolon)
	n.Span = n.Span.Cover(p.lastSpan)
	return n, true
}

// parseMemberName accepts an identifier or string literal name.
func (p *Parser) parseMemberName(what string) (ast.Node, bool) {
	if p.at(token.StringLit) {
		t := p.advance()
		return &ast.StringLiteralNode{
			NodeBase: ast.NodeBase{Kind: ast.KindStringLiteral, Span: t.Span},
			Value:    t.Value,
		}, true
	}
	if p.at(token.Ident) {
		return p.parseIdent(), true
	}
	p.errAt(diag.SynUnexpectedToken, p.peek().Span,
		fmt.Sprintf("unexpected %s, expected %s", p.peek().Kind, what))
	return p.missingIdent(p.lastSpan.Collapse()), false
}

// parseTemplateParams parses an optional `<T, U>` list.
func (p *Parser) parseTemplateParams() []*ast.TemplateParamNode {
	if !p.at(token.Lt) {
		return nil
	}
	var params []*ast.TemplateParamNode
	p.parseList(listOptions{
		open:             token.Lt,
		close:            token.Gt,
		delimiter:        token.Comma,
		forbidDecorators: true,
	}, func(statementPrelude) bool {
		if !p.at(token.Ident) {
			p.errAt(diag.SynUnexpectedToken, p.peek().Span,
				fmt.Sprintf("unexpected %s, expected a template parameter name", p.peek().Kind))
			return false
		}
		name := p.parseIdent()
		params = append(params, &ast.TemplateParamNode{
			NodeBase: ast.NodeBase{Kind: ast.KindTemplateParam, Span: name.Span},
			Name:     name,
		})
		return true
	})
	return params
}

// propagateErrorFlags sets FlagDescendantHasError on every ancestor of a
// node with a parse error.
func propagateErrorFlags(n ast.Node) bool {
	hasErr := n.Base().HasParseError()
	ast.VisitChildren(n, func(c ast.Node) bool {
		if propagateErrorFlags(c) {
			hasErr = true
		}
		return true
	})
	if hasErr && !n.Base().HasParseError() {
		n.Base().Flags |= ast.FlagDescendantHasError
	}
	n.Base().Flags |= ast.FlagDescendantExamined
	return hasErr
}
