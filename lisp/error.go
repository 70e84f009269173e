// Copyright © 2025 The Wisp authors

package lisp

import "fmt"

// Frame is a localized error site recorded at a call boundary: the form
// being evaluated at that layer, the trace accumulated within it, and an
// optional display label.  The evaluator uses ":in:" for the top-level
// input form, "~>" for a failed macro-expansion re-evaluation, and the
// callee's name (when the call head was a bare symbol) for definition
// frames.
type Frame struct {
	Form  *Value
	Trace []int
	Label string
}

// Error is an evaluation failure.  Trace accumulates child indices while
// the error unwinds through nested evaluations of one source form; Frames
// snapshot (form, trace) pairs each time the unwind crosses a call
// boundary, innermost first.  Locate turns a (form, trace) pair back into
// an exact highlight range.
type Error struct {
	Message string
	Trace   []int
	Frames  []Frame
}

// Errorf returns an Error with a formatted message, an empty trace and no
// frames.
func Errorf(format string, v ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, v...)}
}

func (e *Error) Error() string {
	return e.Message
}

// Traced appends a child index to the trace and returns e.  Evaluation
// call sites use it to record which child of the current form the error
// came out of.
func (e *Error) Traced(i int) *Error {
	e.Trace = append(e.Trace, i)
	return e
}

// Framed snapshots the current trace against form, resets the trace for
// the enclosing layer, and returns e.
func (e *Error) Framed(form *Value, label string) *Error {
	e.Frames = append(e.Frames, Frame{Form: form, Trace: e.Trace, Label: label})
	e.Trace = nil
	return e
}
