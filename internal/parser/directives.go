package parser

import (
	"fmt"

	"cadl/internal/ast"
	"cadl/internal/diag"
	"cadl/internal/token"
)

// parseDecorator parses `@target(args)`. Arguments must not carry a
// trailing comma.
func (p *Parser) parseDecorator() *ast.DecoratorNode {
	start := p.advance() // @
	n := &ast.DecoratorNode{NodeBase: ast.NodeBase{Kind: ast.KindDecorator, Span: start.Span}}
	n.Target = p.parseReferenceTarget()

	if p.at(token.LParen) {
		p.parseList(listOptions{
			open:             token.LParen,
			close:            token.RParen,
			delimiter:        token.Comma,
			forbidDecorators: true,
		}, func(statementPrelude) bool {
			n.Args = append(n.Args, p.parseExpr())
			return true
		})
	}
	n.Span = n.Span.Cover(p.lastSpan)
	return n
}

// parseDirective parses `#name arg arg ...` up to the end of the line.
// Newlines are significant only here; everywhere else they are skipped.
func (p *Parser) parseDirective() *ast.DirectiveNode {
	start := p.advance() // #
	p.newlineSignificant = true
	defer func() { p.newlineSignificant = false }()

	n := &ast.DirectiveNode{NodeBase: ast.NodeBase{Kind: ast.KindDirective, Span: start.Span}}

	if !p.at(token.Ident) {
		p.errAt(diag.SynUnexpectedToken, p.peek().Span,
			fmt.Sprintf("unexpected %s, expected a directive name", p.peek().Kind))
		p.skipToLineEnd()
		n.Span = n.Span.Cover(p.lastSpan)
		n.Flags |= ast.FlagHasParseError
		return n
	}
	n.Name = p.parseIdent()

	for !p.at(token.Newline) && !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Ident:
			n.Args = append(n.Args, p.parseIdent())
		case token.StringLit:
			t := p.advance()
			n.Args = append(n.Args, &ast.StringLiteralNode{
				NodeBase: ast.NodeBase{Kind: ast.KindStringLiteral, Span: t.Span},
				Value:    t.Value,
			})
		default:
			t := p.advance()
			p.errAt(diag.SynUnexpectedToken, t.Span,
				fmt.Sprintf("unexpected %s in directive arguments", t.Kind))
		}
	}
	if p.at(token.Newline) {
		p.advance()
	}
	n.Span = n.Span.Cover(p.lastSpan)

	if n.Name.Value != "suppress" {
		p.errAt(diag.SynUnknownDirective, n.Name.Span,
			fmt.Sprintf("unknown directive #%s", n.Name.Value))
	}
	return n
}

func (p *Parser) skipToLineEnd() {
	for !p.at(token.Newline) && !p.at(token.EOF) {
		p.advance()
	}
	if p.at(token.Newline) {
		p.advance()
	}
}
