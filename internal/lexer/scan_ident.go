package lexer

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"cadl/internal/diag"
	"cadl/internal/token"
)

const utf8RuneSelf = 0x80

func isIdentStartByte(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

// scanIdentOrKeyword consumes an identifier, classifying keywords. Unicode
// identifiers are accepted and NFC-normalized so that visually equal names
// intern to the same string.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	sawUnicode := false

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isIdentContinueByte(b) {
			lx.cursor.Bump()
			continue
		}
		if b < utf8RuneSelf {
			break
		}
		r, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
		if r == utf8.RuneError && size == 1 {
			sp := lx.cursor.SpanFrom(lx.cursor.Mark())
			lx.errLex(diag.LexUnknownChar, sp, "invalid UTF-8 byte in identifier")
			lx.cursor.Bump()
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		sawUnicode = true
		for range size {
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if sawUnicode {
		text = norm.NFC.String(text)
	}

	if kw, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kw, Span: sp, Text: text}
	}
	// Identifiers carry the interned spelling so equal names share one
	// backing string program-wide.
	text = lx.opts.Interner.MustLookup(lx.opts.Interner.Intern(text))
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
