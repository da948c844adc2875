// Package diagfmt renders diagnostics and token streams for the CLI:
// a human format with source excerpts and carets, the stable JSON shape
// for tooling, and the compile summary block.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cadl/internal/diag"
	"cadl/internal/source"
)

// PrettyOpts configures the human diagnostic format.
type PrettyOpts struct {
	Color bool
	// Context is how many source lines to show around the primary line.
	Context int
	// Max caps how many diagnostics are printed; 0 means no cap.
	Max int
}

var (
	errorColor  = color.New(color.FgRed, color.Bold)
	warnColor   = color.New(color.FgYellow, color.Bold)
	locColor    = color.New(color.Bold)
	caretColor  = color.New(color.FgGreen, color.Bold)
	gutterColor = color.New(color.FgCyan)
)

// Pretty writes each diagnostic as
//
//	<path>:<line>:<col>: <severity> <code>: <message>
//
// followed by the source line with a caret/underline under the span.
// Callers sort the bag first for deterministic output.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	items := bag.Items()
	for i, d := range items {
		if opts.Max > 0 && i == opts.Max {
			fmt.Fprintf(w, "... and %d more diagnostic(s)\n", len(items)-i)
			return
		}
		prettyOne(w, d, fs, opts)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := severityLabel(d.Severity, opts.Color)
	code := d.Code.Name()

	if !d.HasTarget() || fs == nil {
		fmt.Fprintf(w, "%s %s: %s\n", sev, code, d.Message)
		return
	}

	start, end := fs.Resolve(d.Primary)
	file := fs.Get(d.Primary.File)
	loc := fmt.Sprintf("%s:%d:%d:", file.Path, start.Line, start.Col)
	if opts.Color {
		loc = locColor.Sprint(loc)
	}
	fmt.Fprintf(w, "%s %s %s: %s\n", loc, sev, code, d.Message)
	excerpt(w, file, start, end, opts)

	for _, note := range d.Notes {
		fmt.Fprintf(w, "  note: %s\n", note.Msg)
	}
}

// excerpt prints the primary line plus Context lines around it, with a
// caret line under the span. Column math is display-width aware so wide
// runes keep the caret aligned.
func excerpt(w io.Writer, file *source.File, start, end source.LineCol, opts PrettyOpts) {
	ctx := uint32(0)
	if opts.Context > 0 {
		ctx = uint32(opts.Context)
	}
	first := start.Line
	if first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	last := start.Line + ctx

	for line := first; line <= last; line++ {
		text := file.Line(line)
		if text == "" && line != start.Line {
			continue
		}
		gutter := fmt.Sprintf("%5d | ", line)
		if opts.Color {
			gutter = gutterColor.Sprint(gutter)
		}
		fmt.Fprintf(w, "%s%s\n", gutter, text)
		if line == start.Line {
			fmt.Fprintf(w, "      | %s\n", caretLine(text, start, end, opts.Color))
		}
	}
}

// caretLine builds the `^~~~` underline for the span on its first line.
func caretLine(text string, start, end source.LineCol, useColor bool) string {
	pad := displayWidth(text, int(start.Col)-1)
	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = displayWidth(text[min(len(text), int(start.Col)-1):], int(end.Col-start.Col))
	}
	marker := "^"
	if width > 1 {
		marker += strings.Repeat("~", width-1)
	}
	if useColor {
		marker = caretColor.Sprint(marker)
	}
	return strings.Repeat(" ", pad) + marker
}

// displayWidth measures the terminal width of the first n bytes of text.
func displayWidth(text string, n int) int {
	if n <= 0 {
		return 0
	}
	if n > len(text) {
		n = len(text)
	}
	return runewidth.StringWidth(text[:n])
}

func severityLabel(sev diag.Severity, useColor bool) string {
	label := sev.String()
	if !useColor {
		return label
	}
	switch sev {
	case diag.SevError:
		return errorColor.Sprint(label)
	case diag.SevWarning:
		return warnColor.Sprint(label)
	default:
		return label
	}
}
