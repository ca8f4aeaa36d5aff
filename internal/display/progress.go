// Package display provides terminal output for user-facing status messages.
//
// All functions accept io.Writer interfaces for testability. Output is
// observational only and never affects control flow.
package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter receives notices about long-running waits. Implementations must
// be safe for use from a single goroutine at a time.
type Reporter interface {
	// Blocked reports that an operation is blocked behind another process,
	// with a caller-supplied description of what is being waited on.
	Blocked(message string)
}

// ConsoleReporter writes wait notices to a terminal.
type ConsoleReporter struct {
	writer io.Writer
}

// NewConsoleReporter creates a reporter writing to w.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{writer: w}
}

// Blocked prints a single "Blocking" notice. The cyan tag is dropped
// automatically when the writer is not a TTY (fatih/color's detection).
func (r *ConsoleReporter) Blocked(message string) {
	if r.writer == nil {
		return
	}
	tag := color.New(color.FgCyan).Sprint("Blocking")
	fmt.Fprintf(r.writer, "%s %s\n", tag, message)
}

// ProgressIndicator manages multi-step progress display.
type ProgressIndicator struct {
	writer  io.Writer
	total   int
	current int
}

// NewProgressIndicator creates a new progress indicator for total steps.
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{writer: w, total: total}
}

// Step displays progress for the current item: [N/Total] label (cyan).
func (p *ProgressIndicator) Step(label string) {
	p.current++
	line := fmt.Sprintf("  [%d/%d] %s", p.current, p.total, label)
	fmt.Fprintln(p.writer, color.New(color.FgCyan).Sprint(line))
}

// Complete displays a success message with a green checkmark.
func (p *ProgressIndicator) Complete(message string) {
	fmt.Fprintf(p.writer, "%s %s\n", color.New(color.FgGreen).Sprint("✓"), message)
}
