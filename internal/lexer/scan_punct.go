package lexer

import (
	"cadl/internal/diag"
	"cadl/internal/token"
)

// scanPunct consumes one punctuation token. Unknown bytes become Invalid
// tokens with a diagnostic; the lexer always makes progress.
func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()

	kind := token.Invalid
	switch b {
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case '<':
		kind = token.Lt
	case '>':
		kind = token.Gt
	case ',':
		kind = token.Comma
	case ';':
		kind = token.Semicolon
	case ':':
		kind = token.Colon
	case '?':
		kind = token.Question
	case '=':
		kind = token.Assign
	case '|':
		kind = token.Pipe
	case '&':
		kind = token.Amp
	case '@':
		kind = token.At
	case '#':
		kind = token.Hash
	case '.':
		if lx.cursor.Peek() == '.' && lx.cursor.PeekAt(1) == '.' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			kind = token.Ellipsis
		} else {
			kind = token.Dot
		}
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if kind == token.Invalid {
		lx.errLex(diag.LexUnknownChar, sp, "unexpected character "+text)
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}
