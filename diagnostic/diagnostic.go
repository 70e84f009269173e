// Copyright © 2025 The Wisp authors

// Package diagnostic renders annotated error reports for wisp CLI and
// REPL output. It is intentionally independent of the lisp/ package so
// that it can be used by any frontend without creating import cycles:
// callers supply rendered source text and byte offsets directly.
package diagnostic

import "strings"

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Excerpt is a rendered piece of source with a highlighted range.
// Start and End are byte offsets into Text, with End exclusive. An
// empty range still draws a single caret just past Start so that
// zero-width faults (an unterminated string, a missing operand) remain
// visible.
type Excerpt struct {
	Text  string // single rendered source line
	Start int    // byte offset of the highlight start
	End   int    // byte offset one past the highlight end
	Label string // gutter text naming the excerpt's role
}

// Diagnostic represents a single error, warning, or note with optional
// source excerpts and trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Excerpts []Excerpt
	Notes    []string // "= note:" lines (hints, followups, etc.)
}

// LineExcerpt builds an Excerpt for the source line containing the byte
// range [start, end) in src. Offsets are rebased onto the extracted
// line, and a range spanning multiple lines is clipped at the first
// line break. Out-of-bounds offsets are clamped.
func LineExcerpt(src string, start, end int, label string) Excerpt {
	if start < 0 {
		start = 0
	}
	if start > len(src) {
		start = len(src)
	}
	if end < start {
		end = start
	}
	if end > len(src) {
		end = len(src)
	}
	lineStart := strings.LastIndexByte(src[:start], '\n') + 1
	lineEnd := strings.IndexByte(src[lineStart:], '\n')
	if lineEnd < 0 {
		lineEnd = len(src)
	} else {
		lineEnd += lineStart
	}
	if end > lineEnd {
		end = lineEnd
	}
	return Excerpt{
		Text:  src[lineStart:lineEnd],
		Start: start - lineStart,
		End:   end - lineStart,
		Label: label,
	}
}
