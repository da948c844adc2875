package lexer

import (
	"cadl/internal/source"
	"cadl/internal/token"
)

// Lexer turns one source file into a token stream. Whitespace and comments
// become leading trivia on the next token; newlines are emitted as tokens
// of their own so the parser can treat them as significant inside
// directives and as trivia everywhere else.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token
	hold   []token.Trivia
}

func New(file *source.File, opts Options) *Lexer {
	if opts.Interner == nil {
		opts.Interner = source.NewInterner()
	}
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next token with its collected leading trivia. After the
// end of input it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		tok := token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
		tok.Leading = lx.takeHold()
		return tok
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '\n':
		tok = lx.scanNewlineRun()

	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '-' && isDec(lx.cursor.PeekAt(1)):
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanString()

	default:
		tok = lx.scanPunct()
	}

	tok.Leading = lx.takeHold()
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan is the zero-width span at the current offset.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// File returns the file this lexer reads from.
func (lx *Lexer) File() *source.File { return lx.file }

func (lx *Lexer) takeHold() []token.Trivia {
	h := lx.hold
	lx.hold = nil
	return h
}

// scanNewlineRun coalesces consecutive newlines into one Newline token.
func (lx *Lexer) scanNewlineRun() token.Token {
	start := lx.cursor.Mark()
	for lx.cursor.Peek() == '\n' {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Newline, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
