package diag

import "cadl/internal/source"

// Reporter is the minimal contract phases use to emit diagnostics without
// coupling to storage. The canonical implementation is BagReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter forwards diagnostics into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// ReportError is a shorthand for emitting an error diagnostic.
func ReportError(r Reporter, code Code, primary source.Span, msg string) {
	if r != nil {
		r.Report(NewError(code, primary, msg))
	}
}

// ReportWarning is a shorthand for emitting a warning diagnostic.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) {
	if r != nil {
		r.Report(NewWarning(code, primary, msg))
	}
}

// NopReporter drops everything; useful in tests and speculative parses.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}
