package lexer

import (
	"cadl/internal/diag"
	"cadl/internal/token"
)

// scanNumber consumes a decimal literal: optional leading '-', digits,
// optional fraction, optional exponent. The text stays unparsed; the
// checker converts it at use.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	lx.cursor.Eat('-')
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		exp := lx.cursor.PeekAt(1)
		expDigit := lx.cursor.PeekAt(2)
		if isDec(exp) || ((exp == '+' || exp == '-') && isDec(expDigit)) {
			lx.cursor.Bump() // e
			lx.cursor.Bump() // sign or first digit
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		} else {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumber, sp, "malformed exponent in numeric literal")
		}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.NumericLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
