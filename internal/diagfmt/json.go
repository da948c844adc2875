package diagfmt

import (
	"fmt"
	"io"

	"cadl/internal/diag"
	"cadl/internal/source"
)

// JSONLines writes one diagnostic JSON object per line, in bag order,
// using the stable LSP-facing shape.
func JSONLines(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	for _, d := range bag.Items() {
		data, err := diag.MarshalJSON(d, fs)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return err
		}
	}
	return nil
}
