// Copyright © 2025 The Wisp authors

// Package wisptest runs table-driven interpreter tests.  A TestSequence
// is a conversation with one interpreter: each step evaluates one
// expression and asserts either its serialized result or its error
// message, so definitions made early in the table stay visible to later
// steps.
package wisptest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wisplang/wisp/diagnostic"
	"github.com/wisplang/wisp/lisp"
	"github.com/wisplang/wisp/parser"
	"github.com/wisplang/wisp/symbol"
)

// TestStep evaluates Input and checks what comes back.
type TestStep struct {
	// Input is one wisp expression.
	Input string
	// Result is the expected serialization of the evaluated value.
	// Ignored when ErrMessage is set.
	Result string
	// ErrMessage, when non-empty, requires evaluation to fail with a
	// message containing it.
	ErrMessage string
}

// TestSequence is a sequence of expressions evaluated in order against a
// single interpreter.
type TestSequence []TestStep

// TestSuite is a set of named TestSequences.
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence as a subtest on an isolated
// interpreter.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for _, test := range tests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			RunTestSequence(t, test.TestSequence)
		})
	}
}

// RunTestSequence evaluates every step against one fresh interpreter.  A
// failed step does not stop the steps after it.
func RunTestSequence(t *testing.T, steps TestSequence) {
	t.Helper()
	syms := symbol.NewTable()
	interp := lisp.NewInterp(syms)
	for j, step := range steps {
		forms, rerr := parser.Parse(syms, step.Input)
		if !assert.Nil(t, rerr, "step %d %s: read error: %v", j, step.Input, rerr) {
			continue
		}
		if !assert.Equal(t, 1, len(forms), "step %d %s: want exactly one expression", j, step.Input) {
			continue
		}
		v, err := interp.EvalTopLevel(forms[0])
		if step.ErrMessage != "" {
			if assert.NotNil(t, err, "step %d %s: expected an error", j, step.Input) {
				assert.Contains(t, err.Message, step.ErrMessage, "step %d %s", j, step.Input)
			}
			continue
		}
		if !assert.Nil(t, err, "step %d %s: eval error: %v", j, step.Input, err) {
			continue
		}
		assert.Equal(t, step.Result, lisp.Serialize(v, syms), "step %d %s", j, step.Input)
	}
}

// Runner executes wisp source files as tests.
type Runner struct {
	// Setup seeds extra bindings before each file runs.  Nil is fine.
	Setup func(interp *lisp.Interp) error
}

// NewInterp returns a fresh interpreter for one test with Setup applied.
func (r *Runner) NewInterp(t testing.TB) *lisp.Interp {
	t.Helper()
	interp := lisp.NewInterp(symbol.NewTable())
	if r.Setup != nil {
		if err := r.Setup(interp); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	return interp
}

// RunTestFile evaluates every form in the file at path, failing the test
// at the first read or eval error.  Eval failures report the rendered
// frame excerpts, the same view the CLI prints.
func (r *Runner) RunTestFile(t *testing.T, path string) {
	t.Helper()
	source, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		t.Errorf("unable to read test file: %v", err)
		return
	}
	interp := r.NewInterp(t)
	forms, rerr := parser.Parse(interp.Symbols(), string(source))
	if rerr != nil {
		t.Errorf("%s: read error: %v", filepath.Base(path), rerr)
		return
	}
	for _, form := range forms {
		if _, err := interp.EvalTopLevel(form); err != nil {
			r.lispError(t, err, interp.Symbols())
			return
		}
	}
}

// lispError reports an eval failure with its frame excerpts.
func (r *Runner) lispError(t testing.TB, err *lisp.Error, names symbol.Namer) {
	t.Helper()
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  err.Message,
	}
	for _, f := range err.Frames {
		text, start, end := lisp.Locate(f.Form, f.Trace, names)
		d.Excerpts = append(d.Excerpts, diagnostic.Excerpt{
			Text:  text,
			Start: start,
			End:   end,
			Label: f.Label,
		})
	}
	var buf bytes.Buffer
	renderer := &diagnostic.Renderer{Color: diagnostic.ColorNever}
	if rerr := renderer.Render(&buf, d); rerr != nil {
		t.Errorf("rendering %v: %v", err, rerr)
		return
	}
	t.Error(buf.String())
}

// RunBenchmark evaluates every form in source b.N times, each round on a
// fresh interpreter sharing one symbol table.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	syms := symbol.NewTable()
	forms, rerr := parser.Parse(syms, source)
	if rerr != nil {
		b.Fatalf("read error: %v", rerr)
	}
	for i := 0; i < b.N; i++ {
		interp := lisp.NewInterp(syms)
		b.StartTimer()
		for j, form := range forms {
			if _, err := interp.EvalTopLevel(form); err != nil {
				b.Fatalf("form %d: %v", j, err)
			}
		}
		b.StopTimer()
	}
}
