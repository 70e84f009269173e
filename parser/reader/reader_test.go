// Copyright © 2025 The Wisp authors

package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisplang/wisp/lisp"
	"github.com/wisplang/wisp/symbol"
)

// render serializes parsed forms so tables can state expectations as
// source text.
func render(forms []*lisp.Value, syms *symbol.Table) []string {
	var out []string
	for _, v := range forms {
		out = append(out, lisp.Serialize(v, syms))
	}
	return out
}

func TestPartial(t *testing.T) {
	tests := []struct {
		input string
		forms []string
	}{
		{``, nil},
		{`7`, []string{"7"}},
		{`-0.5e3`, []string{"-500"}},
		{`#t #f`, []string{"#t", "#f"}},
		{`"a\nb"`, []string{`"a\nb"`}},
		{`()`, []string{"()"}},
		{`(+ 1 2)`, []string{"(+ 1 2)"}},
		{`(a (b (c)) d)`, []string{"(a (b (c)) d)"}},
		{`1 2 3`, []string{"1", "2", "3"}},
		{`'x`, []string{"(quote x)"}},
		{`''x`, []string{"(quote (quote x))"}},
		{`'()`, []string{"(quote ())"}},
		{`'(1 2)`, []string{"(quote (1 2))"}},
		{"`(a ,b ,@c)", []string{"(quasiquote (a (unquote b) (unquote-splice c)))"}},
		{`(list 'a 'b)`, []string{"(list (quote a) (quote b))"}},
		{"; comment\n42 ; trailing", []string{"42"}},
	}
	for i, test := range tests {
		syms := symbol.NewTable()
		r := New(syms)
		forms, err := r.Partial(test.input)
		if !assert.Nilf(t, err, "test %d: %q: unexpected error", i, test.input) {
			continue
		}
		assert.Equalf(t, 0, r.PendingDepth(), "test %d: %q: forms left open", i, test.input)
		assert.Equalf(t, test.forms, render(forms, syms), "test %d: %q", i, test.input)
	}
}

func TestPartialContinuation(t *testing.T) {
	syms := symbol.NewTable()
	r := New(syms)

	forms, err := r.Partial("(+ 1")
	require.Nil(t, err)
	assert.Empty(t, forms)
	assert.Equal(t, 1, r.PendingDepth())

	forms, err = r.Partial(" 2)")
	require.Nil(t, err)
	assert.Equal(t, []string{"(+ 1 2)"}, render(forms, syms))
	assert.Equal(t, 0, r.PendingDepth())
}

func TestPartialContinuationDepth(t *testing.T) {
	syms := symbol.NewTable()
	r := New(syms)

	forms, err := r.Partial("(a (b (c")
	require.Nil(t, err)
	assert.Empty(t, forms)
	assert.Equal(t, 3, r.PendingDepth())

	forms, err = r.Partial(")")
	require.Nil(t, err)
	assert.Empty(t, forms)
	assert.Equal(t, 2, r.PendingDepth())

	forms, err = r.Partial(") d)")
	require.Nil(t, err)
	assert.Equal(t, []string{"(a (b (c)) d)"}, render(forms, syms))
	assert.Equal(t, 0, r.PendingDepth())
}

// A quotation prefix at the end of a chunk waits for its object just like
// an open paren does.
func TestPartialPrefixContinuation(t *testing.T) {
	syms := symbol.NewTable()
	r := New(syms)

	forms, err := r.Partial("'")
	require.Nil(t, err)
	assert.Empty(t, forms)
	assert.Equal(t, 1, r.PendingDepth())

	forms, err = r.Partial("(1 2)")
	require.Nil(t, err)
	assert.Equal(t, []string{"(quote (1 2))"}, render(forms, syms))
	assert.Equal(t, 0, r.PendingDepth())
}

// Top-level forms completed early in a chunk are returned even when the
// chunk ends inside a later form.
func TestPartialCompletedPrefixForms(t *testing.T) {
	syms := symbol.NewTable()
	r := New(syms)

	forms, err := r.Partial("1 (2")
	require.Nil(t, err)
	assert.Equal(t, []string{"1"}, render(forms, syms))
	assert.Equal(t, 1, r.PendingDepth())
}

func TestPartialErrors(t *testing.T) {
	tests := []struct {
		input   string
		kind    Kind
		message string
	}{
		{`)`, ErrUnexpectedClose, "unexpected ')'"},
		{`(a))`, ErrUnexpectedClose, "unexpected ')'"},
		{`')`, ErrUnexpectedClose, "unexpected ')'"},
		{`"abc`, ErrUnterminatedString, "unterminated string literal"},
		{`("x`, ErrUnterminatedString, "unterminated string literal"},
		{`"ab\qc"`, ErrUnknownChar, `unknown character "\\q"`},
	}
	for i, test := range tests {
		syms := symbol.NewTable()
		r := New(syms)
		forms, err := r.Partial(test.input)
		if !assert.NotNilf(t, err, "test %d: %q: error expected", i, test.input) {
			continue
		}
		assert.Nilf(t, forms, "test %d: %q: no forms on error", i, test.input)
		assert.Equalf(t, test.kind, err.Kind, "test %d: %q", i, test.input)
		assert.Equalf(t, test.message, err.Error(), "test %d: %q", i, test.input)
		assert.Equalf(t, 0, r.PendingDepth(), "test %d: %q: state kept after error", i, test.input)
	}
}

// Error spans are byte offsets into the failing chunk.  An unterminated
// string reports the chunk's end, where the closing quote was expected.
func TestPartialErrorSpans(t *testing.T) {
	r := New(symbol.NewTable())
	_, err := r.Partial(`(a) )`)
	require.NotNil(t, err)
	assert.Equal(t, 4, err.Start)
	assert.Equal(t, 5, err.End)

	r = New(symbol.NewTable())
	_, err = r.Partial(`"abc`)
	require.NotNil(t, err)
	assert.Equal(t, ErrUnterminatedString, err.Kind)
	assert.Equal(t, 4, err.Start)
	assert.Equal(t, 4, err.End)
}

// After an error the next chunk starts from a clean slate; nesting opened
// before the failure must not leak into it.
func TestPartialErrorResetsState(t *testing.T) {
	syms := symbol.NewTable()
	r := New(syms)

	_, err := r.Partial("(a b")
	require.Nil(t, err)
	require.Equal(t, 1, r.PendingDepth())

	_, err = r.Partial(`"oops`)
	require.NotNil(t, err)
	assert.Equal(t, ErrUnterminatedString, err.Kind)
	assert.Equal(t, 0, r.PendingDepth())

	forms, err := r.Partial("7")
	require.Nil(t, err)
	assert.Equal(t, []string{"7"}, render(forms, syms))
}

func TestPartialInternsSymbols(t *testing.T) {
	syms := symbol.NewTable()
	r := New(syms)

	forms, err := r.Partial("foo foo bar")
	require.Nil(t, err)
	require.Len(t, forms, 3)
	assert.Equal(t, forms[0].Sym, forms[1].Sym)
	assert.NotEqual(t, forms[0].Sym, forms[2].Sym)

	name, ok := syms.Name(forms[0].Sym)
	require.True(t, ok)
	assert.Equal(t, "foo", name)
}
