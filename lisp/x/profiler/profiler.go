// Copyright © 2025 The Wisp authors

// Package profiler implements lisp.Profiler backends: pprof goroutine
// labels, callgrind output files, and OpenCensus or OpenTelemetry spans.
// A backend observes every lambda, macro and native invocation once it is
// installed with Interp.SetProfiler and enabled.
package profiler

import (
	"errors"
	"fmt"

	"github.com/wisplang/wisp/lisp"
	"github.com/wisplang/wisp/symbol"
)

// profiler is a minimal lisp.Profiler that the concrete backends embed.
type profiler struct {
	names      symbol.Namer
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

var _ lisp.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

// Option configures a profiler backend.
type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) SetFile(filename string) error {
	return errors.New("profiler writes no output file")
}

func (p *profiler) Complete() error {
	return nil
}

func (p *profiler) Start(fun *lisp.Value) func() {
	return func() {}
}

func callable(v *lisp.Value) bool {
	switch v.Type {
	case lisp.TNative, lisp.TLambda, lisp.TMacro:
		return true
	default:
		return false
	}
}

// defaultFunName returns the name def stamped on fun.  Anonymous
// callables report their type, so an unnamed function shows up as
// "lambda" rather than as an empty label.
func defaultFunName(names symbol.Namer, fun *lisp.Value) string {
	if !callable(fun) {
		return ""
	}
	if fun.Name != symbol.None {
		if name, ok := names.Name(fun.Name); ok {
			return name
		}
	}
	return fun.Type.String()
}

// prettyFunName returns a display label and the plain name for fun.  The
// label follows the configured labeler when it yields something; both
// fall back to the def-stamped name.
func (p *profiler) prettyFunName(fun *lisp.Value) (string, string) {
	origLabel := defaultFunName(p.names, fun)
	if origLabel == "" {
		return "", ""
	}
	prettyLabel := origLabel
	if p.funLabeler != nil {
		if label := sanitizeLabel(p.funLabeler(p.names, fun)); label != "" {
			prettyLabel = label
		}
	}
	return prettyLabel, origLabel
}

// skipTrace decides whether fun gets a span.  Non-callables never do;
// callables pass through the configured filter.
func (p *profiler) skipTrace(fun *lisp.Value) bool {
	if !p.enabled || !callable(fun) {
		return true
	}
	if p.skipFilter != nil {
		return p.skipFilter(fun)
	}
	return defaultSkipFilter(fun)
}
