// Copyright © 2025 The Wisp authors

package cmd

import (
	"os"

	"github.com/spf13/viper"
	"github.com/wisplang/wisp/diagnostic"
	"github.com/wisplang/wisp/lisp"
	"github.com/wisplang/wisp/parser/reader"
	"github.com/wisplang/wisp/symbol"
)

// colorMode resolves the effective color mode, honoring the --color flag
// and the color config key.
func colorMode() diagnostic.ColorMode {
	switch viper.GetString("color") {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}

// readErrorToDiagnostic converts a read error to a Diagnostic highlighting
// the offending range of the source line that contains it.
func readErrorToDiagnostic(rerr *reader.Error, src string) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  rerr.Error(),
		Excerpts: []diagnostic.Excerpt{
			diagnostic.LineExcerpt(src, rerr.Start, rerr.End, ""),
		},
	}
	if rerr.Kind == reader.ErrUnexpectedEOF {
		d.Notes = append(d.Notes, "the source ends inside an open form")
	}
	return d
}

// evalErrorToDiagnostic converts an evaluation error to a Diagnostic with
// one excerpt per recorded frame, innermost first.
func evalErrorToDiagnostic(eerr *lisp.Error, names symbol.Namer) diagnostic.Diagnostic {
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

// renderReadError renders a read error with diagnostic formatting to stderr.
func renderReadError(src string, rerr *reader.Error) {
	r := newRenderer()
	_ = r.Render(os.Stderr, readErrorToDiagnostic(rerr, src))
}

// renderEvalError renders an evaluation error with diagnostic formatting
// to stderr.
func renderEvalError(eerr *lisp.Error, names symbol.Namer) {
	r := newRenderer()
	_ = r.Render(os.Stderr, evalErrorToDiagnostic(eerr, names))
}
