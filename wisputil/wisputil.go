// Copyright © 2025 The Wisp authors

// Package wisputil provides conveniences for embedding the interpreter.
package wisputil

import (
	"fmt"
	"io"
	"os"

	"github.com/wisplang/wisp/lisp"
	"github.com/wisplang/wisp/parser"
	"github.com/wisplang/wisp/parser/reader"
	"github.com/wisplang/wisp/symbol"
)

// Session bundles one symbol table, one interpreter and one incremental
// reader sharing the table.  The pieces are exported so embedders can mix
// the session helpers with direct calls.
type Session struct {
	Syms   *symbol.Table
	Interp *lisp.Interp
	Reader *reader.Reader
	echo   io.Writer
}

// Option configures a Session.
type Option func(*Session)

// WithEcho directs the value of every evaluated top-level form to w,
// serialized one per line, mirroring the interactive session.
func WithEcho(w io.Writer) Option {
	return func(s *Session) {
		s.echo = w
	}
}

// New returns a session with a fresh standard environment.
func New(opts ...Option) *Session {
	syms := symbol.NewTable()
	s := &Session{
		Syms:   syms,
		Interp: lisp.NewInterp(syms),
		Reader: parser.NewReader(syms),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EvalString parses src as a complete program and evaluates it, returning
// the value of the last form.  A program with no forms yields the empty
// list.  The error is the *reader.Error or *lisp.Error of the failing
// stage.
func (s *Session) EvalString(src string) (*lisp.Value, error) {
	forms, rerr := parser.Parse(s.Syms, src)
	if rerr != nil {
		return nil, rerr
	}
	res := lisp.EmptyList()
	for _, form := range forms {
		val, eerr := s.Interp.EvalTopLevel(form)
		if eerr != nil {
			return nil, eerr
		}
		if s.echo != nil {
			fmt.Fprintln(s.echo, lisp.Serialize(val, s.Syms)) //nolint:errcheck // best-effort echo
		}
		res = val
	}
	return res, nil
}

// RunFile reads and evaluates the named file, returning the value of its
// last form.
func (s *Session) RunFile(path string) (*lisp.Value, error) {
	b, err := os.ReadFile(path) //nolint:gosec // runs caller-specified source files
	if err != nil {
		return nil, err
	}
	return s.EvalString(string(b))
}

// Load applies loaders to the session's interpreter.
func (s *Session) Load(loaders ...Loader) error {
	return LoadAll(loaders...)(s.Interp)
}

// Loader populates an interpreter with bindings implemented in Go or in
// wisp itself.  A chain of loaders may be formed to load a library.
type Loader func(interp *lisp.Interp) error

// LoadAll combines loaders into one; the first error stops the chain.
func LoadAll(loaders ...Loader) Loader {
	return func(interp *lisp.Interp) error {
		for _, load := range loaders {
			if err := load(interp); err != nil {
				return err
			}
		}
		return nil
	}
}

// Builtin pairs a native implementation with the name and parameter shape
// it binds under, so Go packages can export their functions as data.
type Builtin struct {
	Name       string
	Positional []string
	Rest       string
	Fn         lisp.NativeFn
}

// Function is a helper to construct builtins.
func Function(name string, positional []string, rest string, fn lisp.NativeFn) *Builtin {
	return &Builtin{Name: name, Positional: positional, Rest: rest, Fn: fn}
}

// Natives returns a loader that registers each builtin.
func Natives(funs ...*Builtin) Loader {
	return func(interp *lisp.Interp) error {
		for _, fun := range funs {
			interp.RegisterNative(fun.Name, fun.Positional, fun.Rest, fun.Fn)
		}
		return nil
	}
}

// SourceLoader returns a loader that evaluates src, for library code
// written in wisp itself.
func SourceLoader(src string) Loader {
	return func(interp *lisp.Interp) error {
		forms, rerr := parser.Parse(interp.Symbols(), src)
		if rerr != nil {
			return rerr
		}
		for _, form := range forms {
			if _, eerr := interp.EvalTopLevel(form); eerr != nil {
				return eerr
			}
		}
		return nil
	}
}
