// Copyright © 2025 The Wisp authors

package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisplang/wisp/symbol"
)

// evalFixture builds forms by hand so tests can assert exact trace and
// frame structure without going through a reader.
type evalFixture struct {
	syms   *symbol.Table
	interp *Interp
}

func newFixture() *evalFixture {
	syms := symbol.NewTable()
	return &evalFixture{syms: syms, interp: NewInterp(syms)}
}

func (f *evalFixture) sym(name string) *Value {
	return Symbol(f.syms.Intern(name))
}

func (f *evalFixture) list(cells ...*Value) *Value {
	return List(cells)
}

func (f *evalFixture) mustEval(t *testing.T, form *Value) *Value {
	t.Helper()
	v, err := f.interp.EvalTopLevel(form)
	require.Nil(t, err, "eval %s: %v", Serialize(form, f.syms), err)
	return v
}

func TestEvalSelfEvaluating(t *testing.T) {
	f := newFixture()
	for _, v := range []*Value{Number(7), String("abc"), Bool(true), Bool(false)} {
		res, err := f.interp.Eval(v)
		require.Nil(t, err)
		assert.True(t, v.Equal(res))
	}
}

func TestEvalSymbol(t *testing.T) {
	f := newFixture()
	x := f.syms.Intern("x")
	f.interp.Env().Define(x, Number(3))

	res, err := f.interp.Eval(Symbol(x))
	require.Nil(t, err)
	assert.True(t, Number(3).Equal(res))

	_, err = f.interp.Eval(f.sym("nope"))
	require.NotNil(t, err)
	assert.Equal(t, "unbound symbol 'nope'", err.Message)
	assert.Empty(t, err.Trace)
	assert.Empty(t, err.Frames)
}

func TestEvalEmptyApplication(t *testing.T) {
	f := newFixture()
	_, err := f.interp.Eval(EmptyList())
	require.NotNil(t, err)
	assert.Equal(t, "cannot evaluate empty expression", err.Message)
}

// EvalTopLevel wraps every failure in a final ":in:" frame holding the
// whole input form, leaving the error's own trace empty.
func TestEvalTopLevelFrame(t *testing.T) {
	f := newFixture()
	_, err := f.interp.EvalTopLevel(f.sym("nope"))
	require.NotNil(t, err)
	assert.Empty(t, err.Trace)
	require.Len(t, err.Frames, 1)
	assert.Equal(t, ":in:", err.Frames[0].Label)
	assert.Equal(t, "nope", Serialize(err.Frames[0].Form, f.syms))
}

// The failing operand of a nested call must be recoverable exactly:
// Locate on the ":in:" frame of (+ 1 (+ 2 "x")) highlights the substring
// "x" with its quotes.
func TestEvalErrorLocalization(t *testing.T) {
	f := newFixture()
	inner := f.list(f.sym("+"), Number(2), String("x"))
	form := f.list(f.sym("+"), Number(1), inner)

	_, err := f.interp.EvalTopLevel(form)
	require.NotNil(t, err)
	assert.Equal(t, "expected a number", err.Message)
	assert.Empty(t, err.Trace)
	require.Len(t, err.Frames, 1)

	frame := err.Frames[0]
	assert.Equal(t, ":in:", frame.Label)
	assert.Equal(t, []int{2, 2}, frame.Trace)
	text, start, end := Locate(frame.Form, frame.Trace, f.syms)
	assert.Equal(t, `(+ 1 (+ 2 "x"))`, text)
	assert.Equal(t, `"x"`, text[start:end])
}

// Arity is checked before any operand is evaluated, so a side-effecting
// operand of a miscalled function must not run.
func TestCallArityCheckedBeforeOperands(t *testing.T) {
	f := newFixture()
	form := f.list(f.sym("="), f.list(f.sym("def"), f.sym("zz"), Number(1)))

	_, err := f.interp.EvalTopLevel(form)
	require.NotNil(t, err)
	assert.Equal(t, "param list (a b) requires exactly 2 arguments, got 1", err.Message)

	zz, ok := f.syms.Peek("zz")
	require.True(t, ok)
	_, bound := f.interp.env.Resolve(zz)
	assert.False(t, bound, "operand ran before the arity check")

	// The trace lands on the first operand position of the call.
	require.Len(t, err.Frames, 1)
	text, start, end := Locate(err.Frames[0].Form, err.Frames[0].Trace, f.syms)
	assert.Equal(t, "(def zz 1)", text[start:end])
}

func TestCallLambda(t *testing.T) {
	f := newFixture()
	fnForm := f.list(f.sym("fn"),
		f.list(f.sym("x"), f.sym("&rest"), f.sym("ys")),
		f.list(f.sym("list"), f.sym("x"), f.sym("ys")))

	res := f.mustEval(t, f.list(fnForm, Number(1), Number(2), Number(3)))
	assert.Equal(t, "(1 (2 3))", Serialize(res, f.syms))

	// A rest parameter accepts the minimum count and binds an empty list.
	res = f.mustEval(t, f.list(fnForm.Copy(), Number(1)))
	assert.Equal(t, "(1 ())", Serialize(res, f.syms))
}

// An arity fault belongs to the callee: the error carries a frame holding
// the reconstructed definition with the trace on its parameter list, then
// a frame pointing at the call's head position.
func TestCallLambdaArityFrames(t *testing.T) {
	f := newFixture()
	fnForm := f.list(f.sym("fn"), f.list(f.sym("x")), f.sym("x"))

	_, err := f.interp.EvalTopLevel(f.list(fnForm, Number(1), Number(2)))
	require.NotNil(t, err)
	assert.Equal(t, "param list (x) requires exactly 1 arguments, got 2", err.Message)
	require.Len(t, err.Frames, 2)

	def := err.Frames[0]
	assert.Equal(t, "", def.Label)
	text, start, end := Locate(def.Form, def.Trace, f.syms)
	assert.Equal(t, "(fn (x) x)", text)
	assert.Equal(t, "(x)", text[start:end])

	top := err.Frames[1]
	assert.Equal(t, ":in:", top.Label)
	text, start, end = Locate(top.Form, top.Trace, f.syms)
	assert.Equal(t, "(fn (x) x)", text[start:end])
}

// When the call head is a bare symbol the definition frame is labeled
// with it.
func TestCallNamedCalleeLabel(t *testing.T) {
	f := newFixture()
	fnForm := f.list(f.sym("fn"), f.list(f.sym("x")), f.sym("x"))
	f.mustEval(t, f.list(f.sym("def"), f.sym("f"), fnForm))

	_, err := f.interp.EvalTopLevel(f.list(f.sym("f"), Number(1), Number(2)))
	require.NotNil(t, err)
	require.Len(t, err.Frames, 2)
	assert.Equal(t, "f", err.Frames[0].Label)
	assert.Equal(t, ":in:", err.Frames[1].Label)
}

// Errors in caller-supplied operands stay attributed to the caller; no
// definition frame is added for them.
func TestCallOperandFaultSkipsDefinitionFrame(t *testing.T) {
	f := newFixture()
	fnForm := f.list(f.sym("fn"), f.list(f.sym("x")), f.sym("x"))
	f.mustEval(t, f.list(f.sym("def"), f.sym("f"), fnForm))

	form := f.list(f.sym("f"), f.sym("nope"))
	_, err := f.interp.EvalTopLevel(form)
	require.NotNil(t, err)
	assert.Equal(t, "unbound symbol 'nope'", err.Message)
	require.Len(t, err.Frames, 1)
	text, start, end := Locate(err.Frames[0].Form, err.Frames[0].Trace, f.syms)
	assert.Equal(t, "(f nope)", text)
	assert.Equal(t, "nope", text[start:end])
}

// A macro binds operands unevaluated and evaluates its expansion exactly
// once; an expansion that is itself a quoting form therefore yields the
// still-unevaluated operand.
func TestMacroSingleStep(t *testing.T) {
	f := newFixture()
	macroForm := f.list(f.sym("macro"),
		f.list(f.sym("a")),
		f.list(f.sym("list"), f.list(f.sym("quote"), f.sym("quote")), f.sym("a")))
	f.mustEval(t, f.list(f.sym("def"), f.sym("m"), macroForm))

	res := f.mustEval(t, f.list(f.sym("m"), f.list(f.sym("+"), Number(1), Number(2))))
	assert.Equal(t, "(+ 1 2)", Serialize(res, f.syms))
}

// A failed expansion re-evaluation records the expansion under a "~>"
// frame before the callee's definition frame.
func TestMacroExpansionFrames(t *testing.T) {
	f := newFixture()
	macroForm := f.list(f.sym("macro"), f.list(),
		f.list(f.sym("quote"), f.sym("nope")))
	f.mustEval(t, f.list(f.sym("def"), f.sym("bad"), macroForm))

	_, err := f.interp.EvalTopLevel(f.list(f.sym("bad")))
	require.NotNil(t, err)
	assert.Equal(t, "unbound symbol 'nope'", err.Message)
	require.Len(t, err.Frames, 3)

	assert.Equal(t, "~>", err.Frames[0].Label)
	assert.Equal(t, "nope", Serialize(err.Frames[0].Form, f.syms))
	assert.Empty(t, err.Frames[0].Trace)

	assert.Equal(t, "bad", err.Frames[1].Label)
	assert.Equal(t, "(macro () (quote nope))", Serialize(err.Frames[1].Form, f.syms))

	assert.Equal(t, ":in:", err.Frames[2].Label)
}

func TestApplyNonCallable(t *testing.T) {
	f := newFixture()
	_, err := f.interp.EvalTopLevel(f.list(Number(7), Number(1)))
	require.NotNil(t, err)
	assert.Equal(t, "cannot apply number value", err.Message)
}

// A list value in call position is parsed as a callable definition, so a
// quoted (fn ...) literal can be applied.
func TestApplyQuotedDefinition(t *testing.T) {
	f := newFixture()
	fnForm := f.list(f.sym("fn"), f.list(f.sym("x")), f.sym("x"))
	quoted := f.list(f.sym("quote"), fnForm)

	res := f.mustEval(t, f.list(quoted, Number(5)))
	assert.Equal(t, "5", Serialize(res, f.syms))

	// A list that does not parse as a definition is not applicable.
	bad := f.list(f.sym("quote"), f.list(Number(1), Number(2)))
	_, err := f.interp.EvalTopLevel(f.list(bad, Number(3)))
	require.NotNil(t, err)
	assert.Equal(t, "fn definition requires at least 2 arguments, got 1", err.Message)
}

// A failing body form must not leave its scope on the stack.
func TestBodyScopeBalancedOnError(t *testing.T) {
	f := newFixture()
	depth := f.interp.env.Depth()
	form := f.list(f.list(f.sym("fn"), f.list(), f.sym("nope")))

	_, err := f.interp.EvalTopLevel(form)
	require.NotNil(t, err)
	assert.Equal(t, "unbound symbol 'nope'", err.Message)
	assert.Equal(t, depth, f.interp.env.Depth())
}

// Natives are ordinary values; rebinding one under a new name keeps it
// callable.
func TestNativeValueRebinding(t *testing.T) {
	f := newFixture()
	f.mustEval(t, f.list(f.sym("def"), f.sym("plus"), f.sym("+")))
	res := f.mustEval(t, f.list(f.sym("plus"), Number(1), Number(2)))
	assert.Equal(t, "3", Serialize(res, f.syms))
}

type recordingProfiler struct {
	starts []*Value
	ends   int
}

func (p *recordingProfiler) IsEnabled() bool               { return true }
func (p *recordingProfiler) Enable() error                 { return nil }
func (p *recordingProfiler) SetFile(filename string) error { return nil }
func (p *recordingProfiler) Complete() error               { return nil }

func (p *recordingProfiler) Start(fun *Value) func() {
	p.starts = append(p.starts, fun)
	return func() { p.ends++ }
}

// The profiler hook sees every lambda, macro and native invocation and
// every returned stop function runs.
func TestProfilerHook(t *testing.T) {
	f := newFixture()
	prof := &recordingProfiler{}
	f.interp.SetProfiler(prof)

	fnForm := f.list(f.sym("fn"), f.list(f.sym("x")), f.list(f.sym("+"), f.sym("x"), Number(1)))
	f.mustEval(t, f.list(f.sym("def"), f.sym("incr"), fnForm))
	f.mustEval(t, f.list(f.sym("incr"), Number(1)))

	// One lambda invocation plus the native + inside its body.
	require.Len(t, prof.starts, 2)
	assert.Equal(t, prof.ends, len(prof.starts))
	assert.Equal(t, TLambda, prof.starts[0].Type)
	assert.Equal(t, TNative, prof.starts[1].Type)
}
