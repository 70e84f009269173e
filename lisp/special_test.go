// Copyright © 2025 The Wisp authors

package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	f := newFixture()
	res := f.mustEval(t, f.list(f.sym("quote"), f.sym("nope")))
	assert.Equal(t, "nope", Serialize(res, f.syms))

	res = f.mustEval(t, f.list(f.sym("quote"), f.list(Number(1), f.sym("x"))))
	assert.Equal(t, "(1 x)", Serialize(res, f.syms))
}

func TestBegin(t *testing.T) {
	f := newFixture()
	res := f.mustEval(t, f.list(f.sym("begin"),
		f.list(f.sym("def"), f.sym("x"), Number(1)),
		f.list(f.sym("+"), f.sym("x"), Number(2))))
	assert.Equal(t, "3", Serialize(res, f.syms))
}

func TestBeginErrorTrace(t *testing.T) {
	f := newFixture()
	_, err := f.interp.EvalTopLevel(f.list(f.sym("begin"), Number(1), f.sym("nope")))
	require.NotNil(t, err)
	require.Len(t, err.Frames, 1)
	text, start, end := Locate(err.Frames[0].Form, err.Frames[0].Trace, f.syms)
	assert.Equal(t, "(begin 1 nope)", text)
	assert.Equal(t, "nope", text[start:end])
}

// def binds in the global scope no matter how deep the evaluation is; set
// binds in the innermost scope and dies with it.
func TestDefSetScopes(t *testing.T) {
	f := newFixture()

	res := f.mustEval(t, f.list(f.sym("def"), f.sym("x"), Number(1)))
	assert.Equal(t, "1", Serialize(res, f.syms))
	assert.Equal(t, "1", Serialize(f.mustEval(t, f.sym("x")), f.syms))

	f.mustEval(t, f.list(f.list(f.sym("fn"), f.list(),
		f.list(f.sym("def"), f.sym("g"), Number(7)))))
	assert.Equal(t, "7", Serialize(f.mustEval(t, f.sym("g")), f.syms))

	f.mustEval(t, f.list(f.list(f.sym("fn"), f.list(),
		f.list(f.sym("set"), f.sym("s"), Number(7)))))
	_, err := f.interp.EvalTopLevel(f.sym("s"))
	require.NotNil(t, err)
	assert.Equal(t, "unbound symbol 's'", err.Message)
}

// set at the top level writes the global scope, which is also the
// innermost one there.
func TestSetAtTopLevel(t *testing.T) {
	f := newFixture()
	f.mustEval(t, f.list(f.sym("set"), f.sym("x"), Number(4)))
	assert.Equal(t, "4", Serialize(f.mustEval(t, f.sym("x")), f.syms))
}

func TestDefNonSymbol(t *testing.T) {
	f := newFixture()
	_, err := f.interp.EvalTopLevel(f.list(f.sym("def"), Number(1), Number(2)))
	require.NotNil(t, err)
	assert.Equal(t, "special form def requires a symbol as its first operand", err.Message)
	require.Len(t, err.Frames, 1)
	assert.Equal(t, []int{1}, err.Frames[0].Trace)
}

// def stamps a display name on anonymous callables but never renames one
// already stamped.
func TestDefStampsName(t *testing.T) {
	f := newFixture()
	fnForm := f.list(f.sym("fn"), f.list(f.sym("x")), f.sym("x"))
	f.mustEval(t, f.list(f.sym("def"), f.sym("f"), fnForm))

	fID, ok := f.syms.Peek("f")
	require.True(t, ok)
	v, bound := f.interp.env.Resolve(fID)
	require.True(t, bound)
	assert.Equal(t, fID, v.Name)

	f.mustEval(t, f.list(f.sym("def"), f.sym("g"), f.sym("f")))
	gID, _ := f.syms.Peek("g")
	v, bound = f.interp.env.Resolve(gID)
	require.True(t, bound)
	assert.Equal(t, fID, v.Name, "second def must not restamp")
}

func TestIf(t *testing.T) {
	f := newFixture()
	tests := []struct {
		form   *Value
		result string
	}{
		{f.list(f.sym("if"), Bool(true), Number(1), Number(2)), "1"},
		{f.list(f.sym("if"), Bool(false), Number(1), Number(2)), "2"},
		{f.list(f.sym("if"), Bool(false), Number(1)), "#f"},
		// Extra alternative forms evaluate in order; the last one wins.
		{f.list(f.sym("if"), Bool(false), Number(1),
			f.list(f.sym("def"), f.sym("x"), Number(3)),
			f.list(f.sym("+"), f.sym("x"), Number(1))), "4"},
		// Only the taken branch evaluates.
		{f.list(f.sym("if"), Bool(true), Number(1), f.sym("nope")), "1"},
	}
	for i, test := range tests {
		res := f.mustEval(t, test.form)
		assert.Equalf(t, test.result, Serialize(res, f.syms), "test %d", i)
	}
}

func TestIfNonBoolPredicate(t *testing.T) {
	f := newFixture()
	_, err := f.interp.EvalTopLevel(f.list(f.sym("if"), Number(1), Number(2)))
	require.NotNil(t, err)
	assert.Equal(t, "expected a bool", err.Message)
	require.Len(t, err.Frames, 1)
	assert.Equal(t, []int{1}, err.Frames[0].Trace)
}

func TestLetScoping(t *testing.T) {
	f := newFixture()

	// Inner bindings shadow outer ones and die with their scope.
	res := f.mustEval(t, f.list(f.sym("let"),
		f.list(f.list(f.sym("x"), Number(1))),
		f.list(f.sym("let"),
			f.list(f.list(f.sym("x"), Number(2))),
			f.sym("x"))))
	assert.Equal(t, "2", Serialize(res, f.syms))

	_, err := f.interp.EvalTopLevel(f.sym("x"))
	require.NotNil(t, err)
	assert.Equal(t, "unbound symbol 'x'", err.Message)
}

// Binding expressions evaluate in the enclosing scope: siblings are
// invisible to each other and an outer binding of the same name stays
// visible while the expressions run.
func TestLetSimultaneousBinding(t *testing.T) {
	f := newFixture()
	f.mustEval(t, f.list(f.sym("def"), f.sym("x"), Number(10)))

	res := f.mustEval(t, f.list(f.sym("let"),
		f.list(
			f.list(f.sym("x"), Number(1)),
			f.list(f.sym("y"), f.sym("x"))),
		f.sym("y")))
	assert.Equal(t, "10", Serialize(res, f.syms))
}

func TestLetShapeErrors(t *testing.T) {
	f := newFixture()
	tests := []struct {
		form      *Value
		message   string
		highlight string
	}{
		{
			f.list(f.sym("let"), f.list(f.sym("x")), Number(1)),
			"expected a list",
			"x",
		},
		{
			f.list(f.sym("let"), f.list(f.list(f.sym("x"))), Number(1)),
			"let binding must be a (symbol expression) pair",
			"(x)",
		},
		{
			f.list(f.sym("let"), f.list(f.list(Number(1), Number(2))), Number(3)),
			"expected a symbol",
			"1",
		},
		{
			f.list(f.sym("let"), f.list(f.list(f.sym("x"), f.sym("nope"))), f.sym("x")),
			"unbound symbol 'nope'",
			"nope",
		},
	}
	for i, test := range tests {
		_, err := f.interp.EvalTopLevel(test.form)
		if !assert.NotNilf(t, err, "test %d", i) {
			continue
		}
		assert.Equalf(t, test.message, err.Message, "test %d", i)
		if !assert.Lenf(t, err.Frames, 1, "test %d", i) {
			continue
		}
		text, start, end := Locate(err.Frames[0].Form, err.Frames[0].Trace, f.syms)
		assert.Equalf(t, test.highlight, text[start:end], "test %d: in %q", i, text)
	}
}

func TestLetBodyErrorTrace(t *testing.T) {
	f := newFixture()
	form := f.list(f.sym("let"),
		f.list(f.list(f.sym("x"), Number(1))),
		f.sym("x"),
		f.sym("nope"))
	_, err := f.interp.EvalTopLevel(form)
	require.NotNil(t, err)
	require.Len(t, err.Frames, 1)
	text, start, end := Locate(err.Frames[0].Form, err.Frames[0].Trace, f.syms)
	assert.Equal(t, "nope", text[start:end])
}

// Operators are ordinary bindings with fixed identity: aliasing one keeps
// it working under the new name.
func TestSpecialOpAlias(t *testing.T) {
	f := newFixture()
	f.mustEval(t, f.list(f.sym("def"), f.sym("when"), f.sym("if")))
	res := f.mustEval(t, f.list(f.sym("when"), Bool(true), Number(1), Number(2)))
	assert.Equal(t, "1", Serialize(res, f.syms))
}

// A resolved operator is a value like any other and self-evaluates.
func TestSpecialValueSelfEvaluates(t *testing.T) {
	f := newFixture()
	res := f.mustEval(t, f.sym("quote"))
	require.Equal(t, TSpecial, res.Type)
	assert.Equal(t, OpQuote, res.Op)

	res, err := f.interp.Eval(res)
	require.Nil(t, err)
	assert.Equal(t, OpQuote, res.Op)
}

func TestSpecialFormArityMessages(t *testing.T) {
	f := newFixture()
	tests := []struct {
		form    *Value
		message string
	}{
		{f.list(f.sym("quote")), "special form quote requires exactly 1 arguments, got 0"},
		{f.list(f.sym("quote"), Number(1), Number(2)), "special form quote requires exactly 1 arguments, got 2"},
		{f.list(f.sym("begin")), "special form begin requires at least 1 arguments, got 0"},
		{f.list(f.sym("def"), f.sym("x")), "special form def requires exactly 2 arguments, got 1"},
		{f.list(f.sym("set"), f.sym("x")), "special form set requires exactly 2 arguments, got 1"},
		{f.list(f.sym("if"), Bool(true)), "special form if requires at least 2 arguments, got 1"},
		{f.list(f.sym("let"), f.list()), "special form let requires at least 2 arguments, got 1"},
		{f.list(f.sym("fn"), f.list()), "fn definition requires at least 2 arguments, got 1"},
	}
	for i, test := range tests {
		_, err := f.interp.EvalTopLevel(test.form)
		if assert.NotNilf(t, err, "test %d", i) {
			assert.Equalf(t, test.message, err.Message, "test %d", i)
		}
	}
}
