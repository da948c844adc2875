package token

var keywords = map[string]Kind{
	"import":    KwImport,
	"model":     KwModel,
	"namespace": KwNamespace,
	"using":     KwUsing,
	"op":        KwOp,
	"interface": KwInterface,
	"union":     KwUnion,
	"enum":      KwEnum,
	"alias":     KwAlias,
	"extends":   KwExtends,
	"is":        KwIs,
	"true":      KwTrue,
	"false":     KwFalse,
}

// LookupKeyword returns the keyword kind for ident, if it is one. Keywords
// are case-sensitive; contextual words like "mixes" stay identifiers and
// are recognized by the parser.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
