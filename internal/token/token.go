package token

import (
	"cadl/internal/source"
)

// Token represents a single source token with its location and trivia.
// Text is the raw slice of the source; Value holds the decoded payload for
// string literals.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Value   string
	Leading []Trivia
}

// IsLiteral reports whether the token is a string, numeric, or boolean
// literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case StringLit, NumericLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwImport, KwModel, KwNamespace, KwUsing, KwOp, KwInterface,
		KwUnion, KwEnum, KwAlias, KwExtends, KwIs, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsTrivialKind reports whether the kind never carries meaning for the
// statement grammar (EOF excluded).
func (t Token) IsTrivialKind() bool { return t.Kind == Newline }
