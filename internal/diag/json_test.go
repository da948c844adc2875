package diag

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cadl/internal/source"
)

func TestMarshalJSONWithTarget(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.cadl", []byte("model A {}"))

	d := NewError(SemUnresolvedReference, source.Span{File: id, Start: 6, End: 7}, "unknown identifier A").
		WithArg("name", "A")
	raw, err := MarshalJSON(d, fs)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"code":     "unresolved-reference",
		"severity": "error",
		"message":  "unknown identifier A",
		"target": map[string]any{
			"file": "main.cadl",
			"pos":  float64(6),
			"end":  float64(7),
		},
		"format_args": map[string]any{"name": "A"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalJSONNoTarget(t *testing.T) {
	d := NewError(LdrFileNotFound, source.Span{}, "File missing.cadl not found.")
	raw, err := MarshalJSON(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if got["target"] != "no-target" {
		t.Fatalf("target = %v, want no-target", got["target"])
	}
}
