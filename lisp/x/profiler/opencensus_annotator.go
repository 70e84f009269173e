// Copyright © 2025 The Wisp authors

package profiler

import (
	"context"
	"errors"

	"go.opencensus.io/trace"

	"github.com/wisplang/wisp/lisp"
	"github.com/wisplang/wisp/symbol"
)

// ocAnnotator appends an OpenCensus span per call.  Each Start closure
// captures the parent context, so unwinding needs no explicit stack.
type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
}

var _ lisp.Profiler = &ocAnnotator{}

// NewOpenCensusAnnotator appends spans under parentContext, which must be
// linked to OpenCensus before Enable.
func NewOpenCensusAnnotator(names symbol.Namer, parentContext context.Context, opts ...Option) *ocAnnotator {
	p := &ocAnnotator{
		profiler: profiler{
			names: names,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *ocAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

// EnableWithContext installs ctx as the parent for new spans and enables
// the profiler.
func (p *ocAnnotator) EnableWithContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("a parent context is required")
	}
	p.currentContext = ctx
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func (p *ocAnnotator) Start(fun *lisp.Value) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	oldContext := p.currentContext
	prettyLabel, funName := p.prettyFunName(fun)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, prettyLabel)
	p.currentSpan.AddAttributes(trace.StringAttribute("function", funName))
	return func() {
		p.currentSpan.End()
		// And pop the current context back
		p.currentContext = oldContext
		p.currentSpan = trace.FromContext(p.currentContext)
	}
}
