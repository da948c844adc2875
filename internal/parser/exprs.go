package parser

import (
	"fmt"

	"cadl/internal/ast"
	"cadl/internal/diag"
	"cadl/internal/token"
)

// parseExpr parses a type expression. Precedence from loosest to
// tightest: union `|`, intersection `&`, postfix `[]`, primary.
func (p *Parser) parseExpr() ast.Expr {
	startSpan := p.peek().Span

	// A leading `|` before the first option is allowed.
	if p.at(token.Pipe) {
		p.advance()
	}

	first := p.parseIntersection()
	if !p.at(token.Pipe) {
		return first
	}

	u := &ast.UnionExprNode{
		NodeBase: ast.NodeBase{Kind: ast.KindUnionExpr, Span: startSpan},
		Options:  []ast.Expr{first},
	}
	for p.at(token.Pipe) {
		p.advance()
		u.Options = append(u.Options, p.parseIntersection())
	}
	u.Span = u.Span.Cover(p.lastSpan)
	return u
}

func (p *Parser) parseIntersection() ast.Expr {
	startSpan := p.peek().Span
	first := p.parsePostfix()
	if !p.at(token.Amp) {
		return first
	}

	ix := &ast.IntersectionExprNode{
		NodeBase: ast.NodeBase{Kind: ast.KindIntersectionExpr, Span: startSpan},
		Options:  []ast.Expr{first},
	}
	for p.at(token.Amp) {
		p.advance()
		ix.Options = append(ix.Options, p.parsePostfix())
	}
	ix.Span = ix.Span.Cover(p.lastSpan)
	return ix
}

// parsePostfix applies `[]` array suffixes; `T[][]` nests left to right.
func (p *Parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()
	for p.at(token.LBracket) {
		p.advance()
		p.expect(token.RBracket)
		e = &ast.ArrayExprNode{
			NodeBase: ast.NodeBase{Kind: ast.KindArrayExpr, Span: e.Base().Span.Cover(p.lastSpan)},
			Element:  e,
		}
	}
	return e
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.peek().Kind {
	case token.Ident:
		return p.parseReference()

	case token.StringLit:
		t := p.advance()
		return &ast.StringLiteralNode{
			NodeBase: ast.NodeBase{Kind: ast.KindStringLiteral, Span: t.Span},
			Value:    t.Value,
		}

	case token.NumericLit:
		t := p.advance()
		return &ast.NumericLiteralNode{
			NodeBase: ast.NodeBase{Kind: ast.KindNumericLiteral, Span: t.Span},
			Text:     t.Text,
		}

	case token.KwTrue, token.KwFalse:
		t := p.advance()
		return &ast.BooleanLiteralNode{
			NodeBase: ast.NodeBase{Kind: ast.KindBooleanLiteral, Span: t.Span},
			Value:    t.Kind == token.KwTrue,
		}

	case token.LBrace:
		startSpan := p.peek().Span
		m := &ast.ModelExprNode{NodeBase: ast.NodeBase{Kind: ast.KindModelExpr, Span: startSpan}}
		m.Body = p.parseModelBody()
		m.Span = m.Span.Cover(p.lastSpan)
		return m

	case token.LBracket:
		startSpan := p.peek().Span
		tup := &ast.TupleExprNode{NodeBase: ast.NodeBase{Kind: ast.KindTupleExpr, Span: startSpan}}
		p.parseList(listOptions{
			open:             token.LBracket,
			close:            token.RBracket,
			delimiter:        token.Comma,
			forbidDecorators: true,
		}, func(statementPrelude) bool {
			tup.Elements = append(tup.Elements, p.parseExpr())
			return true
		})
		tup.Span = tup.Span.Cover(p.lastSpan)
		return tup

	case token.LParen:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RParen)
		return e

	default:
		t := p.peek()
		p.errAt(diag.SynUnexpectedToken, t.Span,
			fmt.Sprintf("unexpected %s, expected a type expression", t.Kind))
		return p.missingIdent(p.lastSpan.Collapse())
	}
}

// parseReference parses `A.B.C<Args>`.
func (p *Parser) parseReference() ast.Expr {
	startSpan := p.peek().Span
	target := p.parseReferenceTarget()

	ref := &ast.ReferenceNode{
		NodeBase: ast.NodeBase{Kind: ast.KindReference, Span: startSpan},
		Target:   target,
	}
	if p.at(token.Lt) {
		p.parseList(listOptions{
			open:             token.Lt,
			close:            token.Gt,
			delimiter:        token.Comma,
			forbidDecorators: true,
		}, func(statementPrelude) bool {
			ref.Args = append(ref.Args, p.parseExpr())
			return true
		})
	}
	ref.Span = ref.Span.Cover(p.lastSpan)
	return ref
}

// parseReferenceTarget parses the dotted name part of a reference,
// producing an identifier or a left-leaning member chain.
func (p *Parser) parseReferenceTarget() ast.Expr {
	var e ast.Expr = p.parseIdent()
	for p.at(token.Dot) {
		p.advance()
		id := p.parseIdent()
		e = &ast.MemberExprNode{
			NodeBase: ast.NodeBase{Kind: ast.KindMemberExpr, Span: e.Base().Span.Cover(id.Span)},
			Expr:     e,
			ID:       id,
		}
	}
	return e
}
