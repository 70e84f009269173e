// Copyright © 2025 The Wisp authors

package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Renderer formats diagnostics as annotated source excerpts.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	// Header: "error: message" or "warning: message"
	r.writeHeader(ew, d, p)

	// Excerpts share a gutter wide enough for the longest label.
	gutter := 0
	for _, e := range d.Excerpts {
		if n := displayWidth(e.Label); n > gutter {
			gutter = n
		}
	}
	for _, e := range d.Excerpts {
		r.writeExcerpt(ew, e, gutter, p)
	}

	// Notes
	for _, note := range d.Notes {
		ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// errWriter wraps a writer and captures the first error, short-circuiting
// subsequent writes. This avoids checking every fmt.Fprintf return value.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (r *Renderer) writeHeader(ew *errWriter, d Diagnostic, p palette) {
	var sevColor, sevText string
	switch d.Severity {
	case SeverityError:
		sevColor = p.boldRed
		sevText = "error"
	case SeverityWarning:
		sevColor = p.yellow
		sevText = "warning"
	case SeverityNote:
		sevColor = p.boldCyan
		sevText = "note"
	}
	ew.printf("%s%s%s%s:%s %s%s%s\n",
		sevColor, p.bold, sevText, p.reset,
		p.reset,
		p.bold, d.Message, p.reset)
}

// writeExcerpt prints one excerpt as a source line and a caret line:
//
//	:in: |  (f 1)
//	     |  ^^^^^
//
// The label sits in the gutter where a line number would otherwise go.
func (r *Renderer) writeExcerpt(ew *errWriter, e Excerpt, gutter int, p palette) {
	start, end := clampRange(e.Start, e.End, len(e.Text))

	label := strings.Repeat(" ", gutter-displayWidth(e.Label)) + e.Label
	pad := strings.Repeat(" ", gutter)

	// Replace tabs with spaces for consistent alignment
	displayText := strings.ReplaceAll(e.Text, "\t", "    ")
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, label, p.reset, displayText)

	underPad := strings.Repeat(" ", displayWidth(e.Text[:start]))
	underLen := displayWidth(e.Text[start:end])
	if underLen == 0 {
		// Zero-width range, still draw one caret just past the fault.
		underLen = 1
	}
	underline := strings.Repeat("^", underLen)
	ew.printf(" %s%s |%s  %s%s%s%s\n", p.boldBlue, pad, p.reset, underPad, p.boldRed, underline, p.reset)
}

// clampRange bounds a highlight to the excerpt text so that stale or
// truncated offsets degrade to a visible caret instead of a panic.
func clampRange(start, end, n int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if end < start {
		end = start
	}
	if end > n {
		end = n
	}
	return start, end
}

// displayWidth returns the display width of a string, expanding tabs to 4 spaces.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}

// fileFromWriter attempts to extract an *os.File from a writer for terminal
// detection. Returns nil if the writer is not backed by a file.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
