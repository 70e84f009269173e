// Copyright © 2025 The Wisp authors

package lisp

// Version is the wisp language version.
const Version = "0.1"

// Profiler hooks the evaluator.  Start is invoked before every lambda,
// macro and native invocation and the returned function when the
// invocation finishes; implementations live in lisp/x/profiler.
type Profiler interface {
	// IsEnabled reports whether the profiler is collecting.
	IsEnabled() bool
	// Enable starts collection.  Enabling twice is an error.
	Enable() error
	// SetFile directs output to filename for profilers that write files.
	SetFile(filename string) error
	// Complete ends the session and flushes output.
	Complete() error
	// Start marks a function entry; the returned func marks its exit.
	Start(fun *Value) func()
}
