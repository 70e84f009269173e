// Copyright © 2025 The Wisp authors

// Package symbol implements the string interner backing wisp symbols.
// Symbols occurring in source text are mapped to small integer ids exactly
// once; all later comparisons are id equality.  The table owns the only
// authoritative mapping in both directions, so holding a Table (or its
// Namer view) is required to turn an id back into text.
package symbol

// ID identifies an interned symbol.  Ids are unique within one Table and
// grow monotonically from 1 in interning order.
type ID uint64

// None is the zero ID.  A Table never issues it, so it is safe to use as
// an "absent" marker.
const None ID = 0

// Namer resolves ids back to their interned names.  It is the minimal
// read-only view of a Table needed to render values.
type Namer interface {
	Name(id ID) (string, bool)
}

// Table is a symbol interner.  It is not safe for concurrent use; every
// interpreter instance owns exactly one Table and shares it with its
// reader.
type Table struct {
	ids   map[string]ID
	names map[ID]string
	last  ID

	// Symbols below are interned at construction.  The reader compares
	// against the quotation ids when expanding prefix sugar and the
	// evaluator compares against Rest, Fn and Macro while parsing
	// parameter lists and callable list literals.
	Quote         ID
	Quasiquote    ID
	Unquote       ID
	UnquoteSplice ID
	Rest          ID
	Fn            ID
	Macro         ID
}

// NewTable returns an empty table with the built-in symbols interned.
func NewTable() *Table {
	t := &Table{
		ids:   make(map[string]ID),
		names: make(map[ID]string),
	}
	t.Quote = t.Intern("quote")
	t.Quasiquote = t.Intern("quasiquote")
	t.Unquote = t.Intern("unquote")
	t.UnquoteSplice = t.Intern("unquote-splice")
	t.Rest = t.Intern("&rest")
	t.Fn = t.Intern("fn")
	t.Macro = t.Intern("macro")
	return t
}

// Intern returns the id for name, assigning a fresh one on first sight.
func (t *Table) Intern(name string) ID {
	if id, ok := t.ids[name]; ok {
		return id
	}
	t.last++
	t.ids[name] = t.last
	t.names[t.last] = name
	return t.last
}

// Peek returns the id for name without interning it.
func (t *Table) Peek(name string) (ID, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// Name returns the interned name for id.
func (t *Table) Name(id ID) (string, bool) {
	name, ok := t.names[id]
	return name, ok
}

// Len returns the number of interned symbols.
func (t *Table) Len() int {
	return len(t.ids)
}

var _ Namer = (*Table)(nil)
