package token

import "cadl/internal/source"

// TriviaKind classifies non-semantic source text attached to tokens.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaLineComment
	TriviaBlockComment
	TriviaShebang
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "space"
	case TriviaLineComment:
		return "line-comment"
	case TriviaBlockComment:
		return "block-comment"
	case TriviaShebang:
		return "shebang"
	default:
		return "unknown"
	}
}

// Trivia is whitespace or comment text preceding a token. Newlines are not
// trivia: the scanner emits them as real tokens so directive parsing can
// see line ends.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
