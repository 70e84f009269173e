// Copyright © 2025 The Wisp authors

package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/wisplang/wisp/lisp"
	"github.com/wisplang/wisp/symbol"
)

// pprofAnnotator tags pprof samples with the name of the wisp function
// they fall inside.  It does not start a profile of its own; the caller
// decides when runtime/pprof collects.  The fixed 100Hz sampling rate
// means only long-running programs produce meaningful splits.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ lisp.Profiler = &pprofAnnotator{}

// NewPprofAnnotator labels samples under parentContext, which may carry
// labels of its own.  A nil context means background.
func NewPprofAnnotator(names symbol.Namer, parentContext context.Context, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{
		profiler: profiler{
			names: names,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

func (p *pprofAnnotator) Start(fun *lisp.Value) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	oldContext := p.currentContext
	prettyLabel, _ := p.prettyFunName(fun)
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels("function", prettyLabel))
	// the labels only reach the sampler once applied to the goroutine
	pprof.SetGoroutineLabels(p.currentContext)

	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(p.currentContext)
	}
}
