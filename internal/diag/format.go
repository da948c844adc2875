package diag

import (
	"fmt"
	"strings"

	"cadl/internal/source"
)

// FormatShort renders diagnostics one per line in a stable form suitable
// for golden comparisons and CLI short output:
//
//	error unresolved-reference main.cadl:3:9 unknown identifier Foo
func FormatShort(diags []Diagnostic, fs *source.FileSet) string {
	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteByte('\n')
		}
		if d.HasTarget() && fs != nil {
			start, _ := fs.Resolve(d.Primary)
			path := fs.Get(d.Primary.File).Path
			fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code.Name(), path, start.Line, start.Col, d.Message)
		} else {
			fmt.Fprintf(&b, "%s %s %s", d.Severity, d.Code.Name(), d.Message)
		}
	}
	return b.String()
}
