package diag

import (
	"cadl/internal/source"
)

// Note attaches secondary context to a diagnostic ("declared here").
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is the central record shared by every pipeline phase.
// Primary.File == source.NoFileID means the diagnostic has no source
// target (load-level failures before any file exists).
type Diagnostic struct {
	Severity   Severity
	Code       Code
	Message    string
	Primary    source.Span
	Notes      []Note
	FormatArgs map[string]string
}

// HasTarget reports whether the diagnostic points at real source text.
func (d Diagnostic) HasTarget() bool {
	return d.Primary.File != source.NoFileID
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithArg(name, value string) Diagnostic {
	if d.FormatArgs == nil {
		d.FormatArgs = make(map[string]string, 2)
	}
	d.FormatArgs[name] = value
	return d
}
