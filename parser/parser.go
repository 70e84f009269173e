// Copyright © 2025 The Wisp authors

// Package parser provides the wisp source frontends.  The incremental
// reader in parser/reader is the canonical one; this package wraps it for
// whole-source callers and constructs readers for interactive ones.
package parser

import (
	"github.com/wisplang/wisp/lisp"
	"github.com/wisplang/wisp/parser/reader"
	"github.com/wisplang/wisp/symbol"
)

// NewReader returns an incremental reader interning into syms.
func NewReader(syms *symbol.Table) *reader.Reader {
	return reader.New(syms)
}

// Parse reads every top-level form in src with a fresh reader.  Source
// ending inside an open form fails with ErrUnexpectedEOF spanning the end
// of src.
func Parse(syms *symbol.Table, src string) ([]*lisp.Value, *reader.Error) {
	r := reader.New(syms)
	forms, err := r.Partial(src)
	if err != nil {
		return nil, err
	}
	if r.PendingDepth() > 0 {
		return nil, &reader.Error{
			Kind:  reader.ErrUnexpectedEOF,
			Start: len(src),
			End:   len(src),
		}
	}
	return forms, nil
}
