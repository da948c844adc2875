package diagfmt

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"cadl/internal/diag"
)

// SummaryStats feeds the compile summary block.
type SummaryStats struct {
	Files    int
	Errors   int
	Warnings int
	Elapsed  time.Duration
}

var (
	summaryBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	summaryOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	summaryFail = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	summaryDim  = lipgloss.NewStyle().Faint(true)
)

// CountStats tallies a bag into summary stats.
func CountStats(bag *diag.Bag, files int, elapsed time.Duration) SummaryStats {
	s := SummaryStats{Files: files, Elapsed: elapsed}
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			s.Errors++
		case diag.SevWarning:
			s.Warnings++
		}
	}
	return s
}

// Summary renders the compile summary block. Styled is for TTY output;
// without it the block degrades to one plain line.
func Summary(w io.Writer, s SummaryStats, styled bool) {
	status := "compiled"
	if s.Errors > 0 {
		status = "failed"
	}
	line := fmt.Sprintf("%s  %d file(s), %d error(s), %d warning(s) in %s",
		status, s.Files, s.Errors, s.Warnings, s.Elapsed.Round(time.Millisecond))
	if !styled {
		fmt.Fprintln(w, line)
		return
	}

	statusStyle := summaryOK
	if s.Errors > 0 {
		statusStyle = summaryFail
	}
	content := statusStyle.Render(status) + summaryDim.Render(
		fmt.Sprintf("  %d file(s), %d error(s), %d warning(s) in %s",
			s.Files, s.Errors, s.Warnings, s.Elapsed.Round(time.Millisecond)))
	fmt.Fprintln(w, summaryBox.Render(content))
}
