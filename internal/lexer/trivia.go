package lexer

import (
	"cadl/internal/diag"
	"cadl/internal/token"
)

// collectLeadingTrivia gathers spaces and comments preceding the next
// significant token. Newlines stop the collection: they are tokens.
//   - runs of ' ' and '\t' coalesce into one TriviaSpace
//   - "//..." up to (not including) the newline -> TriviaLineComment
//   - "/* ... */" -> TriviaBlockComment; unterminated comments are
//     reported and clipped at EOF
//   - "#!..." on the very first byte of the file -> TriviaShebang
func (lx *Lexer) collectLeadingTrivia() {
	if lx.cursor.Off == 0 && lx.cursor.Peek() == '#' && lx.cursor.PeekAt(1) == '!' {
		start := lx.cursor.Mark()
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.hold = append(lx.hold, token.Trivia{
			Kind: token.TriviaShebang,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		})
	}

	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if b == ' ' || b == '\t' {
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' {
					break
				}
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaSpace,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		if b == '/' && lx.scanCommentIntoHold() {
			continue
		}

		break
	}
}

func (lx *Lexer) scanCommentIntoHold() bool {
	start := lx.cursor.Mark()
	next := lx.cursor.PeekAt(1)

	switch next {
	case '/':
		lx.cursor.Bump()
		lx.cursor.Bump()
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.hold = append(lx.hold, token.Trivia{
			Kind: token.TriviaLineComment,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		})
		return true

	case '*':
		lx.cursor.Bump()
		lx.cursor.Bump()
		closed := false
		for !lx.cursor.EOF() {
			if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				closed = true
				break
			}
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		if !closed {
			lx.errLex(diag.LexUnterminatedComment, sp, "unterminated multi-line comment")
		}
		lx.hold = append(lx.hold, token.Trivia{
			Kind: token.TriviaBlockComment,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		})
		return true
	}
	return false
}
