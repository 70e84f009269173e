// Copyright © 2025 The Wisp authors

package repl

import (
	"github.com/wisplang/wisp/diagnostic"
	"github.com/wisplang/wisp/lisp"
	"github.com/wisplang/wisp/parser/reader"
	"github.com/wisplang/wisp/symbol"
)

// readErrorDiagnostic converts a read error to a Diagnostic highlighting
// the offending range of the input line.
func readErrorDiagnostic(rerr *reader.Error, chunk string) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  rerr.Error(),
		Excerpts: []diagnostic.Excerpt{
			diagnostic.LineExcerpt(chunk, rerr.Start, rerr.End, ""),
		},
	}
}

// evalErrorDiagnostic converts an evaluation error to a Diagnostic with
// one excerpt per recorded frame, innermost first. Each frame's trace is
// resolved to an exact highlight range within the frame's form.
func evalErrorDiagnostic(eerr *lisp.Error, names symbol.Namer) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  eerr.Message,
	}
	for _, f := range eerr.Frames {
		text, start, end := lisp.Locate(f.Form, f.Trace, names)
		d.Excerpts = append(d.Excerpts, diagnostic.Excerpt{
			Text:  text,
			Start: start,
			End:   end,
			Label: f.Label,
		})
	}
	return d
}
