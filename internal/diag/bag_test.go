package diag

import (
	"testing"

	"cadl/internal/source"
)

type spanSuppressor struct {
	code Code
	span source.Span
}

func (s spanSuppressor) Suppressed(d Diagnostic) bool {
	return d.Code == s.code && s.span.Contains(d.Primary)
}

func TestBagPreservesEmissionOrder(t *testing.T) {
	b := NewBag()
	b.Add(NewWarning(SynWrongDelimiter, source.Span{File: 1, Start: 5, End: 6}, "second"))
	b.Add(NewError(SemDuplicateProperty, source.Span{File: 1, Start: 0, End: 1}, "first"))

	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("Len = %d", len(items))
	}
	if items[0].Message != "second" || items[1].Message != "first" {
		t.Fatal("emission order not preserved")
	}
}

func TestHasErrorsFlips(t *testing.T) {
	b := NewBag()
	if b.HasErrors() {
		t.Fatal("empty bag has errors")
	}
	b.Add(NewWarning(SynWrongDelimiter, source.Span{File: 1}, "w"))
	if b.HasErrors() {
		t.Fatal("warning flipped HasErrors")
	}
	b.Add(NewError(SemRecursiveBase, source.Span{File: 1}, "e"))
	if !b.HasErrors() {
		t.Fatal("error did not flip HasErrors")
	}
}

func TestSuppressionDropsWarnings(t *testing.T) {
	b := NewBag()
	b.SetSuppressor(spanSuppressor{
		code: SynWrongDelimiter,
		span: source.Span{File: 1, Start: 0, End: 100},
	})

	if b.Add(NewWarning(SynWrongDelimiter, source.Span{File: 1, Start: 10, End: 12}, "w")) {
		t.Fatal("suppressed warning was accepted")
	}
	if b.Len() != 0 {
		t.Fatalf("Len = %d", b.Len())
	}

	// Outside the suppressed region the warning passes.
	if !b.Add(NewWarning(SynWrongDelimiter, source.Span{File: 2, Start: 10, End: 12}, "w")) {
		t.Fatal("unsuppressed warning was dropped")
	}
}

func TestSuppressionNeverRemovesErrors(t *testing.T) {
	b := NewBag()
	b.SetSuppressor(spanSuppressor{
		code: SemDuplicateProperty,
		span: source.Span{File: 1, Start: 0, End: 100},
	})

	b.Add(NewError(SemDuplicateProperty, source.Span{File: 1, Start: 3, End: 8}, "dup"))

	var meta, orig int
	for _, d := range b.Items() {
		switch d.Code {
		case MetSuppressError:
			meta++
		case SemDuplicateProperty:
			orig++
		}
	}
	if orig != 1 {
		t.Fatalf("original error count = %d, want 1", orig)
	}
	if meta != 1 {
		t.Fatalf("suppress-error meta count = %d, want 1", meta)
	}
	if !b.HasErrors() {
		t.Fatal("HasErrors must remain true")
	}
}

func TestSortStable(t *testing.T) {
	b := NewBag()
	b.Add(NewWarning(SynWrongDelimiter, source.Span{File: 2, Start: 0, End: 1}, "b"))
	b.Add(NewError(SemRecursiveBase, source.Span{File: 1, Start: 4, End: 5}, "a2"))
	b.Add(NewError(SemDuplicateProperty, source.Span{File: 1, Start: 0, End: 1}, "a1"))
	b.Sort()

	items := b.Items()
	if items[0].Message != "a1" || items[1].Message != "a2" || items[2].Message != "b" {
		t.Fatalf("sort order: %q %q %q", items[0].Message, items[1].Message, items[2].Message)
	}
}

func TestCodeNames(t *testing.T) {
	cases := []struct {
		code Code
		name string
		id   string
	}{
		{SemDuplicateProperty, "duplicate-property", "SEM5006"},
		{SynMissingToken, "missing-token", "SYN2001"},
		{LdrFileNotFound, "file-not-found", "LDR4001"},
		{MetSuppressError, "suppress-error", "MET9001"},
	}
	for _, tc := range cases {
		if got := tc.code.Name(); got != tc.name {
			t.Errorf("%d.Name() = %q, want %q", tc.code, got, tc.name)
		}
		if got := tc.code.ID(); got != tc.id {
			t.Errorf("%d.ID() = %q, want %q", tc.code, got, tc.id)
		}
		back, ok := CodeByName(tc.name)
		if !ok || back != tc.code {
			t.Errorf("CodeByName(%q) = %v, %v", tc.name, back, ok)
		}
	}
}
