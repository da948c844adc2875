package lexer

import (
	"strings"

	"cadl/internal/diag"
	"cadl/internal/token"
)

// scanString consumes a double-quoted literal and decodes its escapes into
// Value. Recognized escapes: \\ \" \n \r \t \$. A newline or EOF before
// the closing quote is a malformed-string diagnostic; the token is still
// produced so the parser can continue.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'

	var val strings.Builder
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '"':
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{
				Kind:  token.StringLit,
				Span:  sp,
				Text:  string(lx.file.Content[sp.Start:sp.End]),
				Value: val.String(),
			}
		case '\\':
			escStart := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				break
			}
			switch e := lx.cursor.Bump(); e {
			case '\\':
				val.WriteByte('\\')
			case '"':
				val.WriteByte('"')
			case 'n':
				val.WriteByte('\n')
			case 'r':
				val.WriteByte('\r')
			case 't':
				val.WriteByte('\t')
			case '$':
				val.WriteByte('$')
			default:
				lx.errLex(diag.LexInvalidEscape, lx.cursor.SpanFrom(escStart), "invalid escape sequence in string literal")
				val.WriteByte(e)
			}
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.SynUnterminatedLiteral, sp, "unterminated string literal")
			return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End]), Value: val.String()}
		default:
			val.WriteByte(lx.cursor.Bump())
		}
	}

	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.SynUnterminatedLiteral, sp, "unterminated string literal")
	return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End]), Value: val.String()}
}
