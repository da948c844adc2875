package diag

import (
	"sort"
)

// Suppressor decides whether a diagnostic at a given span is covered by a
// #suppress directive. The loader installs an implementation built from the
// parsed directive lists once scripts are available.
type Suppressor interface {
	Suppressed(d Diagnostic) bool
}

// Bag is the single program-level diagnostic sink. Emission order is
// preserved; suppression is consulted here and nowhere else. Errors are
// never removed: a #suppress that covers an error keeps the error and adds
// one suppress-error meta-diagnostic per attempt.
type Bag struct {
	items      []Diagnostic
	suppressor Suppressor
	hasError   bool
}

func NewBag() *Bag {
	return &Bag{items: make([]Diagnostic, 0, 16)}
}

// SetSuppressor installs the suppression index. A nil suppressor disables
// suppression (the default).
func (b *Bag) SetSuppressor(s Suppressor) {
	b.suppressor = s
}

// Add accepts a diagnostic, applying the suppression policy. It returns
// false when the diagnostic was suppressed and dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if b.suppressor != nil && d.HasTarget() && b.suppressor.Suppressed(d) {
		if d.Severity < SevError {
			return false
		}
		b.push(Diagnostic{
			Severity: SevWarning,
			Code:     MetSuppressError,
			Message:  "errors cannot be suppressed",
			Primary:  d.Primary,
		})
	}
	b.push(d)
	return true
}

func (b *Bag) push(d Diagnostic) {
	if d.Severity == SevError {
		b.hasError = true
	}
	b.items = append(b.items, d)
}

// HasErrors reports whether at least one error-severity diagnostic was
// accepted.
func (b *Bag) HasErrors() bool { return b.hasError }

func (b *Bag) Len() int { return len(b.items) }

// Items returns a read-only view of the accepted diagnostics in emission
// order.
func (b *Bag) Items() []Diagnostic { return b.items }

// Merge appends all diagnostics from other, preserving its order. The
// other bag's items bypass this bag's suppressor: they already passed
// their own sink.
func (b *Bag) Merge(other *Bag) {
	for _, d := range other.items {
		b.push(d)
	}
}

// Sort orders diagnostics by file, start, end, severity (errors first),
// then code, for deterministic output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
