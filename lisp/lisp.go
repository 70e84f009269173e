// Copyright © 2025 The Wisp authors

// Package lisp implements the wisp value model and evaluator.
package lisp

import (
	"reflect"

	"github.com/wisplang/wisp/symbol"
)

// Type is the type of a Value.
type Type uint

// Possible Type values.
const (
	// TInvalid (0) is not a valid wisp type.
	TInvalid Type = iota
	// TBool values store their truth in the Value.Bool field.
	TBool
	// TNumber values store a float64 in the Value.Num field.
	TNumber
	// TString values store decoded text in the Value.Str field.
	TString
	// TSymbol values store an interned id in the Value.Sym field.
	TSymbol
	// TList values store their elements in the Value.Cells slice, which
	// the list owns outright.
	TList
	// TSpecial values store a special form tag in the Value.Op field.
	TSpecial
	// TNative values store a parameter list in Value.Params and a Go
	// function in Value.Fn.
	TNative
	// TLambda values store a parameter list in Value.Params and body
	// forms in Value.Cells.
	TLambda
	// TMacro values have the same layout as TLambda but bind their
	// arguments unevaluated and re-evaluate their result once.
	TMacro

	typeMax
)

var typeStrings = []string{
	TInvalid: "INVALID",
	TBool:    "bool",
	TNumber:  "number",
	TString:  "string",
	TSymbol:  "symbol",
	TList:    "list",
	TSpecial: "special-form",
	TNative:  "native-function",
	TLambda:  "lambda",
	TMacro:   "macro",
}

func (t Type) String() string {
	if t >= typeMax {
		return typeStrings[TInvalid]
	}
	return typeStrings[t]
}

// SpecialOp tags the fixed-identity operators.  They are bound in the root
// environment by name but dispatched by tag, so rebinding a name does not
// change what an already-resolved operator value does.
type SpecialOp uint

const (
	OpInvalid SpecialOp = iota
	OpQuote
	OpBegin
	OpDef
	OpSet
	OpFn
	OpMacro
	OpIf
	OpLet

	numSpecialOps
)

var specialOpStrings = []string{
	OpInvalid: "INVALID",
	OpQuote:   "quote",
	OpBegin:   "begin",
	OpDef:     "def",
	OpSet:     "set",
	OpFn:      "fn",
	OpMacro:   "macro",
	OpIf:      "if",
	OpLet:     "let",
}

func (op SpecialOp) String() string {
	if op >= numSpecialOps {
		return specialOpStrings[OpInvalid]
	}
	return specialOpStrings[op]
}

// NativeFn is the Go implementation of a native function.  It receives the
// bound positional arguments in order; a declared rest parameter arrives
// collected into a single trailing TList argument.  Returned errors carry
// trace indices relative to the call form (argument i is child i+1).
type NativeFn func(args []*Value) (*Value, *Error)

// Value is a wisp value.  Values are immutable once constructed; every
// transformation allocates.  The value graph is a strict tree with no
// sharing, which keeps Copy and structural equality straightforward.
type Value struct {
	// Type is the wisp type of the value and decides which payload
	// fields below are meaningful.
	Type Type

	// Bool is used by TBool values.
	Bool bool

	// Num is used by TNumber values.
	Num float64

	// Str is used by TString values.
	Str string

	// Sym is used by TSymbol values.
	Sym symbol.ID

	// Op is used by TSpecial values.
	Op SpecialOp

	// Cells holds list elements for TList and body forms for TLambda and
	// TMacro.
	Cells []*Value

	// Params is used by TNative, TLambda and TMacro values.
	Params *ParamList

	// Fn is used by TNative values.
	Fn NativeFn

	// Name is an optional display name for callables, stamped by def when
	// it binds an anonymous function, macro or native.  It never affects
	// equality or serialization; profilers and diagnostics read it.
	Name symbol.ID
}

// Bool returns a Value representing b.
func Bool(b bool) *Value {
	return &Value{Type: TBool, Bool: b}
}

// Number returns a Value representing the number x.
func Number(x float64) *Value {
	return &Value{Type: TNumber, Num: x}
}

// String returns a Value representing the text str.
func String(str string) *Value {
	return &Value{Type: TString, Str: str}
}

// Symbol returns a Value referencing the interned symbol id.
func Symbol(id symbol.ID) *Value {
	return &Value{Type: TSymbol, Sym: id}
}

// List returns a Value owning the given cells.  The caller must not retain
// the slice.
func List(cells []*Value) *Value {
	return &Value{Type: TList, Cells: cells}
}

// EmptyList returns a fresh empty list, the unit value of wisp.
func EmptyList() *Value {
	return &Value{Type: TList}
}

// Special returns a Value for a special form tag.
func Special(op SpecialOp) *Value {
	return &Value{Type: TSpecial, Op: op}
}

// Native returns a native function value.
func Native(params *ParamList, fn NativeFn) *Value {
	return &Value{Type: TNative, Params: params, Fn: fn}
}

// Lambda returns a function value with the given parameters and body.
func Lambda(params *ParamList, body []*Value) *Value {
	return &Value{Type: TLambda, Params: params, Cells: body}
}

// Macro returns a macro value with the given parameters and body.
func Macro(params *ParamList, body []*Value) *Value {
	return &Value{Type: TMacro, Params: params, Cells: body}
}

// Len returns the number of cells in a list (or body forms in a callable).
func (v *Value) Len() int {
	return len(v.Cells)
}

// Copy returns a structural copy of v.  Cells are copied recursively;
// parameter lists and native functions are immutable and shared.
func (v *Value) Copy() *Value {
	if v == nil {
		return nil
	}
	cp := &Value{}
	*cp = *v
	cp.Cells = copyCells(v.Cells)
	return cp
}

func copyCells(cells []*Value) []*Value {
	if cells == nil {
		return nil
	}
	cp := make([]*Value, len(cells))
	for i := range cells {
		cp[i] = cells[i].Copy()
	}
	return cp
}

// Equal reports structural equality.  Callables compare by parameter list
// and body; native functions additionally require the same underlying Go
// function, which makes two independently registered natives unequal even
// when their signatures match.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case TBool:
		return v.Bool == other.Bool
	case TNumber:
		return v.Num == other.Num
	case TString:
		return v.Str == other.Str
	case TSymbol:
		return v.Sym == other.Sym
	case TSpecial:
		return v.Op == other.Op
	case TNative:
		return v.Params.equal(other.Params) &&
			reflect.ValueOf(v.Fn).Pointer() == reflect.ValueOf(other.Fn).Pointer()
	case TLambda, TMacro:
		if !v.Params.equal(other.Params) {
			return false
		}
	case TList:
	default:
		return false
	}
	if len(v.Cells) != len(other.Cells) {
		return false
	}
	for i := range v.Cells {
		if !v.Cells[i].Equal(other.Cells[i]) {
			return false
		}
	}
	return true
}
