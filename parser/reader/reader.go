// Copyright © 2025 The Wisp authors

// Package reader turns text chunks into wisp values.  A Reader is
// stateful: a chunk may end in the middle of a list and the next Partial
// call continues where the previous one stopped, which is how multi-line
// REPL input works.  Strings are the exception; a string literal must be
// terminated within the chunk that started it.
package reader

import (
	"strconv"
	"strings"

	"github.com/wisplang/wisp/lisp"
	"github.com/wisplang/wisp/parser/lexer"
	"github.com/wisplang/wisp/parser/token"
	"github.com/wisplang/wisp/symbol"
)

// Reader builds values from successive text chunks.  It interns symbols in
// the table given to New, which must be the same table used by the
// evaluator consuming the values.
type Reader struct {
	syms  *symbol.Table
	stack []*frame
}

// frame is one level of nesting under construction: an open list
// collecting cells, or a quotation prefix awaiting exactly one object.
type frame struct {
	prefix symbol.ID // symbol.None for an open list
	cells  []*lisp.Value
}

func New(syms *symbol.Table) *Reader {
	return &Reader{syms: syms}
}

// PendingDepth returns how many nesting levels are still open across
// chunks.  Callers use it to size continuation prompts; zero means the
// reader is between top-level forms.
func (r *Reader) PendingDepth() int {
	return len(r.stack)
}

// Partial consumes one chunk and returns the top-level forms completed by
// it.  Unfinished nesting is carried over to the next call.  On error the
// carried state is discarded so the next chunk starts clean, and any forms
// completed earlier in the chunk are dropped with it.
func (r *Reader) Partial(chunk string) ([]*lisp.Value, *Error) {
	lex := lexer.New(chunk)
	var done []*lisp.Value
	for {
		tok := lex.ReadToken()
		switch tok.Type {
		case token.EOF:
			if lex.InString() {
				return nil, r.fail(&Error{Kind: ErrUnterminatedString, Start: tok.Start, End: tok.End})
			}
			return done, nil
		case token.COMMENT:
		case token.PAREN_L:
			r.stack = append(r.stack, &frame{})
		case token.PAREN_R:
			n := len(r.stack)
			if n == 0 || r.stack[n-1].prefix != symbol.None {
				return nil, r.fail(&Error{Kind: ErrUnexpectedClose, Text: tok.Text, Start: tok.Start, End: tok.End})
			}
			f := r.stack[n-1]
			r.stack = r.stack[:n-1]
			done = r.resolve(lisp.List(f.cells), done)
		case token.QUOTE:
			r.stack = append(r.stack, &frame{prefix: r.syms.Quote})
		case token.QUASIQUOTE:
			r.stack = append(r.stack, &frame{prefix: r.syms.Quasiquote})
		case token.UNQUOTE:
			r.stack = append(r.stack, &frame{prefix: r.syms.Unquote})
		case token.UNQUOTE_SPLICE:
			r.stack = append(r.stack, &frame{prefix: r.syms.UnquoteSplice})
		case token.TRUE:
			done = r.resolve(lisp.Bool(true), done)
		case token.FALSE:
			done = r.resolve(lisp.Bool(false), done)
		case token.NUMBER:
			x, err := strconv.ParseFloat(tok.Text, 64)
			if err != nil {
				// The lexer's number pattern is a subset of what
				// ParseFloat accepts, so this cannot happen.
				return nil, r.fail(&Error{Kind: ErrInternal, Text: tok.Text, Start: tok.Start, End: tok.End})
			}
			done = r.resolve(lisp.Number(x), done)
		case token.SYMBOL:
			done = r.resolve(lisp.Symbol(r.syms.Intern(tok.Text)), done)
		case token.STRING_START:
			s, err := r.readString(lex)
			if err != nil {
				return nil, r.fail(err)
			}
			done = r.resolve(s, done)
		case token.INVALID:
			return nil, r.fail(&Error{Kind: ErrUnknownChar, Text: tok.Text, Start: tok.Start, End: tok.End})
		default:
			// A string-mode token outside a string literal means the
			// lexer and reader disagree about the current mode.
			return nil, r.fail(&Error{Kind: ErrInternal, Text: tok.Text, Start: tok.Start, End: tok.End})
		}
	}
}

// readString assembles a string literal after a STRING_START token.
func (r *Reader) readString(lex *lexer.Lexer) (*lisp.Value, *Error) {
	var sb strings.Builder
	for {
		tok := lex.ReadToken()
		switch tok.Type {
		case token.STRING_TEXT, token.STRING_ESC:
			sb.WriteString(tok.Text)
		case token.STRING_END:
			return lisp.String(sb.String()), nil
		case token.INVALID:
			return nil, &Error{Kind: ErrUnknownChar, Text: tok.Text, Start: tok.Start, End: tok.End}
		case token.EOF:
			return nil, &Error{Kind: ErrUnterminatedString, Start: tok.Start, End: tok.End}
		default:
			return nil, &Error{Kind: ErrInternal, Text: tok.Text, Start: tok.Start, End: tok.End}
		}
	}
}

// resolve routes a completed object: prefix frames wrap it, an open list
// collects it, and with nothing on the stack it is a finished top-level
// form.
func (r *Reader) resolve(obj *lisp.Value, done []*lisp.Value) []*lisp.Value {
	for len(r.stack) > 0 {
		top := r.stack[len(r.stack)-1]
		if top.prefix == symbol.None {
			top.cells = append(top.cells, obj)
			return done
		}
		r.stack = r.stack[:len(r.stack)-1]
		obj = lisp.List([]*lisp.Value{lisp.Symbol(top.prefix), obj})
	}
	return append(done, obj)
}

func (r *Reader) fail(err *Error) *Error {
	r.stack = nil
	return err
}
