// Copyright © 2025 The Wisp authors

package profiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/wisplang/wisp/lisp"
	"github.com/wisplang/wisp/symbol"
)

// errWriter wraps an io.Writer and captures the first write error,
// short-circuiting subsequent writes after a failure.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprint(ew.w, s)
}

// pseudoFile stands in for source positions in fl= and cfl= records.
// Wisp values carry no locations, so every frame shares it.
const pseudoFile = "-"

// callgrindProfiler writes profiles in the callgrind format, one record
// per finished activation.  The resulting files open in KCacheGrind or
// QCacheGrind.
type callgrindProfiler struct {
	profiler
	sync.Mutex
	writer     *os.File
	writeErr   error
	startTime  time.Time
	refs       map[string]int
	refCounter int
	current    *callRef
}

var _ lisp.Profiler = &callgrindProfiler{}

// NewCallgrindProfiler returns a callgrind profiler.  SetFile must be
// called before Enable.
func NewCallgrindProfiler(names symbol.Namer, opts ...Option) *callgrindProfiler {
	p := new(callgrindProfiler)
	p.names = names
	p.applyConfigs(opts...)
	return p
}

// callRef is one activation of a function.  Evaluation is depth-first on
// a single goroutine, so activations form a simple chain of prev links;
// children are the calls the activation made, not its callers.
type callRef struct {
	start       time.Time
	prev        *callRef
	name        string
	children    []*callRef
	duration    time.Duration
	startMemory uint64
	endMemory   uint64
}

func (p *callgrindProfiler) Enable() error {
	p.Lock()
	if p.enabled {
		p.Unlock()
		return errors.New("profiler already enabled")
	}
	if p.writer == nil {
		p.Unlock()
		return errors.New("no output set in profiler")
	}
	w := &errWriter{w: p.writer}
	w.printf("version: 1\ncreator: wisp %s (Go %s)\n", lisp.Version, runtime.Version())
	w.printf("cmd: wisp\npart: 1\npositions: line\n\n")
	w.printf("events: Time_(ns) Memory_(bytes)\n\n")
	if w.err != nil {
		p.Unlock()
		return w.err
	}
	p.startTime = time.Now()
	p.refs = make(map[string]int)
	p.refCounter = 0
	p.Unlock()
	p.pushRef("ENTRYPOINT")
	return p.profiler.Enable()
}

func (p *callgrindProfiler) SetFile(filename string) error {
	p.Lock()
	defer p.Unlock()
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	pointer, err := os.Create(filename) //#nosec G304
	if err != nil {
		return err
	}
	p.writer = pointer
	return nil
}

func (p *callgrindProfiler) Complete() error {
	p.Lock()
	defer p.Unlock()
	if p.writeErr != nil {
		return p.writeErr
	}
	if p.current == nil {
		return errors.New("profiler not enabled")
	}
	// Close out the entrypoint record
	ref := p.popRef()
	ref.duration = time.Since(ref.start)
	w := &errWriter{w: p.writer}
	w.printf("fl=%s\n", p.getRef(pseudoFile))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", 0, ref.duration.Nanoseconds(), 0)
	for _, entry := range ref.children {
		w.printf("cfl=%s\n", p.getRef(pseudoFile))
		w.printf("cfn=%s\n", p.getRef(entry.name))
		w.print("calls=1 0 0\n")
		w.printf("%d %d %d\n", 0, entry.duration.Nanoseconds(), 0)
	}
	w.print("\n")
	duration := time.Since(p.startTime)
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	w.printf("summary: %d %d\n\n", duration.Nanoseconds(), ms.TotalAlloc)
	if w.err != nil {
		return w.err
	}
	return p.writer.Close()
}

// getRef compresses repeated names to "(N)" position references.  The
// caller must hold the lock.
func (p *callgrindProfiler) getRef(name string) string {
	if ref, ok := p.refs[name]; ok {
		return fmt.Sprintf("(%d)", ref)
	}
	p.refCounter++
	p.refs[name] = p.refCounter
	return fmt.Sprintf("(%d) %s", p.refCounter, name)
}

func (p *callgrindProfiler) Start(fun *lisp.Value) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	prettyLabel, _ := p.prettyFunName(fun)
	p.pushRef(prettyLabel)
	return func() {
		p.end(fun)
	}
}

// pushRef opens an activation under the current one.
func (p *callgrindProfiler) pushRef(name string) *callRef {
	p.Lock()
	defer p.Unlock()
	ref := &callRef{name: name}
	if p.current != nil {
		ref.prev = p.current
		p.current.children = append(p.current.children, ref)
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	ref.startMemory = ms.TotalAlloc
	ref.start = time.Now()
	p.current = ref
	return ref
}

// popRef closes the current activation.  The caller must hold the lock.
func (p *callgrindProfiler) popRef() *callRef {
	ref := p.current
	p.current = ref.prev
	return ref
}

func (p *callgrindProfiler) end(fun *lisp.Value) {
	if !p.enabled {
		return
	}
	p.Lock()
	defer p.Unlock()
	if p.writeErr != nil {
		return
	}
	fName, _ := p.prettyFunName(fun)
	w := &errWriter{w: p.writer}
	// Write what function we have been observing
	w.printf("fl=%s\n", p.getRef(pseudoFile))
	w.printf("fn=%s\n", p.getRef(fName))
	ref := p.popRef()
	ref.duration = time.Since(ref.start)
	if ref.duration == 0 {
		ref.duration = 1
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	ref.endMemory = ms.TotalAlloc
	memory := ref.endMemory - ref.startMemory
	// Cost line, then the calls this activation made
	w.printf("%d %d %d\n", 0, ref.duration.Nanoseconds(), memory)
	for _, entry := range ref.children {
		w.printf("cfl=%s\n", p.getRef(pseudoFile))
		w.printf("cfn=%s\n", p.getRef(entry.name))
		w.print("calls=1 0 0\n")
		w.printf("%d %d %d\n", 0, entry.duration.Nanoseconds(), memory)
	}
	w.print("\n")
	if w.err != nil {
		p.writeErr = w.err
	}
}
