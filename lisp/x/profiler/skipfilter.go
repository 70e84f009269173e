// Copyright © 2025 The Wisp authors

package profiler

import (
	"github.com/wisplang/wisp/lisp"
)

// SkipFilter reports whether fun should be left out of the profile.
// Filters only ever see callable values.
type SkipFilter func(fun *lisp.Value) bool

// WithSkipFilter replaces the default filter, which drops native
// functions.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithNatives keeps native functions in the profile.  Natives like +
// dominate call counts while costing almost nothing each, so the default
// filter drops them.
func WithNatives() Option {
	return WithSkipFilter(func(*lisp.Value) bool { return false })
}

func defaultSkipFilter(fun *lisp.Value) bool {
	return fun.Type == lisp.TNative
}
