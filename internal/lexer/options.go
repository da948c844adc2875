package lexer

import (
	"cadl/internal/diag"
	"cadl/internal/source"
)

// Options configure a Lexer. A nil Reporter drops scan diagnostics but the
// lexer keeps producing tokens either way.
type Options struct {
	Reporter diag.Reporter
	// Interner dedupes identifier text across tokens; loaders share one
	// across every file of a program. New installs a private one when nil.
	Interner *source.Interner
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(diag.NewError(code, sp, msg))
	}
}
