package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline is a significant token: the parser treats it as trivia
	// everywhere except inside # directives, which are newline-terminated.
	Newline

	// Ident represents an identifier token.
	Ident
	// StringLit is a double-quoted string literal; Value carries the
	// decoded text with quotes stripped and escapes resolved.
	StringLit
	// NumericLit is a decimal numeric literal, kept textual until use.
	NumericLit

	// KwImport represents the 'import' keyword.
	KwImport // import
	// KwModel represents the 'model' keyword.
	KwModel // model
	// KwNamespace represents the 'namespace' keyword.
	KwNamespace // namespace
	// KwUsing represents the 'using' keyword.
	KwUsing // using
	// KwOp represents the 'op' keyword.
	KwOp // op
	// KwInterface represents the 'interface' keyword.
	KwInterface // interface
	// KwUnion represents the 'union' keyword.
	KwUnion // union
	// KwEnum represents the 'enum' keyword.
	KwEnum // enum
	// KwAlias represents the 'alias' keyword.
	KwAlias // alias
	// KwExtends represents the 'extends' keyword.
	KwExtends // extends
	// KwIs represents the 'is' keyword.
	KwIs // is
	// KwTrue represents the 'true' keyword.
	KwTrue // true
	// KwFalse represents the 'false' keyword.
	KwFalse // false

	// LBrace represents '{'.
	LBrace // {
	// RBrace represents '}'.
	RBrace // }
	// LParen represents '('.
	LParen // (
	// RParen represents ')'.
	RParen // )
	// LBracket represents '['.
	LBracket // [
	// RBracket represents ']'.
	RBracket // ]
	// Lt represents '<'.
	Lt // <
	// Gt represents '>'.
	Gt // >
	// Comma represents ','.
	Comma // ,
	// Semicolon represents ';'.
	Semicolon // ;
	// Colon represents ':'.
	Colon // :
	// Dot represents '.'.
	Dot // .
	// Question represents '?'.
	Question // ?
	// Assign represents '='.
	Assign // =
	// Pipe represents '|'.
	Pipe // |
	// Amp represents '&'.
	Amp // &
	// At represents '@'.
	At // @
	// Hash represents '#'.
	Hash // #
	// Ellipsis represents '...'.
	Ellipsis // ...
)

var kindNames = [...]string{
	Invalid:     "invalid",
	EOF:         "end of file",
	Newline:     "newline",
	Ident:       "identifier",
	StringLit:   "string literal",
	NumericLit:  "numeric literal",
	KwImport:    "'import'",
	KwModel:     "'model'",
	KwNamespace: "'namespace'",
	KwUsing:     "'using'",
	KwOp:        "'op'",
	KwInterface: "'interface'",
	KwUnion:     "'union'",
	KwEnum:      "'enum'",
	KwAlias:     "'alias'",
	KwExtends:   "'extends'",
	KwIs:        "'is'",
	KwTrue:      "'true'",
	KwFalse:     "'false'",
	LBrace:      "'{'",
	RBrace:      "'}'",
	LParen:      "'('",
	RParen:      "')'",
	LBracket:    "'['",
	RBracket:    "']'",
	Lt:          "'<'",
	Gt:          "'>'",
	Comma:       "','",
	Semicolon:   "';'",
	Colon:       "':'",
	Dot:         "'.'",
	Question:    "'?'",
	Assign:      "'='",
	Pipe:        "'|'",
	Amp:         "'&'",
	At:          "'@'",
	Hash:        "'#'",
	Ellipsis:    "'...'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
