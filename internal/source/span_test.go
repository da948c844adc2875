package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 5, End: 10}
	b := Span{File: 1, Start: 2, End: 7}
	got := a.Cover(b)
	if got.Start != 2 || got.End != 10 {
		t.Fatalf("Cover = %v", got)
	}

	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("Cover across files changed span: %v", got)
	}
}

func TestSpanCollapse(t *testing.T) {
	s := Span{File: 1, Start: 3, End: 9}
	c := s.Collapse()
	if !c.Empty() || c.Start != 9 {
		t.Fatalf("Collapse = %v", c)
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{File: 1, Start: 0, End: 20}
	inner := Span{File: 1, Start: 5, End: 10}
	if !outer.Contains(inner) {
		t.Fatal("outer should contain inner")
	}
	if inner.Contains(outer) {
		t.Fatal("inner should not contain outer")
	}
	if outer.Contains(Span{File: 2, Start: 5, End: 10}) {
		t.Fatal("containment across files")
	}
}
