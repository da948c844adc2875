package diag

import "fmt"

// Code is a compact numeric identifier with a stable string name. The name
// is what #suppress directives and the JSON output refer to; the numeric
// ranges group codes by the phase that emits them.
type Code uint16

const (
	UnknownCode Code = 0

	// Scanner.
	LexUnknownChar         Code = 1001
	LexUnterminatedComment Code = 1003
	LexInvalidEscape       Code = 1004
	LexBadNumber           Code = 1005

	// Parser.
	SynMissingToken              Code = 2001
	SynUnknownDirective          Code = 2002
	SynReservedIdentifier        Code = 2003
	SynUnterminatedLiteral       Code = 2004
	SynTrailingDelimiter         Code = 2005
	SynInvalidDecoratorLocation  Code = 2006
	SynInvalidDirectiveLocation  Code = 2007
	SynWrongDelimiter            Code = 2008
	SynUnexpectedToken           Code = 2009
	SynBlocklessNamespaceFirst   Code = 2010
	SynMultipleBlocklessNS       Code = 2011
	SynImportsFirst              Code = 2012
	SynListStall                 Code = 2013

	// Binder.
	BndDuplicateSymbol Code = 3001
	BndDuplicateUsing  Code = 3002

	// Loader.
	LdrFileNotFound            Code = 4001
	LdrLibraryNotFound         Code = 4002
	LdrInvalidImport           Code = 4003
	LdrCompilerVersionMismatch Code = 4004
	LdrIOError                 Code = 4006

	// Checker.
	SemUnresolvedReference       Code = 5001
	SemAmbiguousReference        Code = 5002
	SemRecursiveBase             Code = 5003
	SemDefaultTypeMismatch       Code = 5004
	SemDefaultOnRequired         Code = 5005
	SemDuplicateProperty         Code = 5006
	SemInvalidDecoratorTarget    Code = 5007
	SemInvalidDecoratorArgument  Code = 5008
	SemCircularTemplateInstance  Code = 5009
	SemInvalidTemplateArgs       Code = 5010
	SemSpreadNonModel            Code = 5011
	SemIntersectNonModel         Code = 5012
	SemDecoratorFailure          Code = 5013
	SemMixesNonInterface         Code = 5014
	SemInvalidBase               Code = 5015
	SemInvalidEnumValue          Code = 5016

	// Meta.
	MetSuppressError Code = 9001
)

// codeNames are the stable string codes: the vocabulary of #suppress
// directives and of the JSON diagnostic shape.
var codeNames = map[Code]string{
	UnknownCode: "unknown",

	LexUnknownChar:         "unknown-character",
	LexUnterminatedComment: "unterminated-comment",
	LexInvalidEscape:       "invalid-escape",
	LexBadNumber:           "invalid-number",

	SynMissingToken:             "missing-token",
	SynUnknownDirective:         "unknown-directive",
	SynReservedIdentifier:       "reserved-identifier-used",
	SynUnterminatedLiteral:      "unterminated-literal",
	SynTrailingDelimiter:        "trailing-delimiter-disallowed",
	SynInvalidDecoratorLocation: "invalid-decorator-location",
	SynInvalidDirectiveLocation: "invalid-directive-location",
	SynWrongDelimiter:           "wrong-delimiter",
	SynUnexpectedToken:          "unexpected-token",
	SynBlocklessNamespaceFirst:  "blockless-namespace-first",
	SynMultipleBlocklessNS:      "multiple-blockless-namespace",
	SynImportsFirst:             "imports-first",
	SynListStall:                "list-stall",

	BndDuplicateSymbol: "duplicate-symbol",
	BndDuplicateUsing:  "duplicate-using",

	LdrFileNotFound:            "file-not-found",
	LdrLibraryNotFound:         "library-not-found",
	LdrInvalidImport:           "invalid-import",
	LdrCompilerVersionMismatch: "compiler-version-mismatch",
	LdrIOError:                 "io-error",

	SemUnresolvedReference:      "unresolved-reference",
	SemAmbiguousReference:       "ambiguous-reference",
	SemRecursiveBase:            "recursive-base",
	SemDefaultTypeMismatch:      "default-type-mismatch",
	SemDefaultOnRequired:        "default-on-required",
	SemDuplicateProperty:        "duplicate-property",
	SemInvalidDecoratorTarget:   "invalid-decorator-target",
	SemInvalidDecoratorArgument: "invalid-decorator-argument-type",
	SemCircularTemplateInstance: "circular-template-instantiation",
	SemInvalidTemplateArgs:      "invalid-template-args",
	SemSpreadNonModel:           "spread-non-model",
	SemIntersectNonModel:        "intersect-non-model",
	SemDecoratorFailure:         "decorator-failure",
	SemMixesNonInterface:        "mixes-non-interface",
	SemInvalidBase:              "invalid-base",
	SemInvalidEnumValue:         "invalid-enum-value",

	MetSuppressError: "suppress-error",
}

var codesByName = func() map[string]Code {
	m := make(map[string]Code, len(codeNames))
	for c, n := range codeNames {
		m[n] = c
	}
	return m
}()

// Name returns the stable string code, e.g. "duplicate-symbol".
func (c Code) Name() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return codeNames[UnknownCode]
}

// ID returns the compact phase-prefixed identifier, e.g. "SEM5006".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("BND%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LDR%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("MET%04d", ic)
	}
	return "E0000"
}

func (c Code) String() string {
	return fmt.Sprintf("[%s] %s", c.ID(), c.Name())
}

// CodeByName resolves a stable string code back to its Code; used by the
// #suppress directive. Unknown names return false.
func CodeByName(name string) (Code, bool) {
	c, ok := codesByName[name]
	return c, ok
}
