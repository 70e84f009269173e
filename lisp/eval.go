// Copyright © 2025 The Wisp authors

package lisp

import (
	"fmt"

	"github.com/wisplang/wisp/symbol"
)

// Interp evaluates wisp values.  It owns its environment and shares a
// symbol table with the reader that produces its input.  An Interp is not
// safe for concurrent use; evaluation is single-threaded and depth-first.
type Interp struct {
	syms *symbol.Table
	env  *Env
	prof Profiler
}

// NewInterp returns an interpreter whose root environment binds the
// special form operators and the language's native functions.
func NewInterp(syms *symbol.Table) *Interp {
	interp := &Interp{syms: syms, env: NewEnv()}
	interp.addSpecialOps()
	interp.addBuiltins()
	return interp
}

// Symbols returns the interner shared by this interpreter and its reader.
func (interp *Interp) Symbols() *symbol.Table {
	return interp.syms
}

// Env exposes the interpreter's environment, primarily for embedders that
// seed additional global bindings.
func (interp *Interp) Env() *Env {
	return interp.env
}

// SetProfiler installs a profiler whose Start hook wraps every lambda,
// macro and native invocation.  A nil profiler disables profiling.
func (interp *Interp) SetProfiler(p Profiler) {
	interp.prof = p
}

// RegisterNative interns name and binds a native function with the given
// positional parameter names and optional rest parameter name (empty
// string for none) in the global scope.
func (interp *Interp) RegisterNative(name string, positional []string, rest string, fn NativeFn) {
	params := &ParamList{}
	for _, p := range positional {
		params.Positional = append(params.Positional, interp.syms.Intern(p))
	}
	if rest != "" {
		params.Rest = interp.syms.Intern(rest)
	}
	v := Native(params, fn)
	v.Name = interp.syms.Intern(name)
	interp.env.Define(v.Name, v)
}

// EvalTopLevel evaluates one top-level form.  Errors come back with at
// least one frame: the final frame is always the top-level form itself,
// labeled ":in:", and the error's trace is empty.
func (interp *Interp) EvalTopLevel(v *Value) (*Value, *Error) {
	res, err := interp.Eval(v)
	if err != nil {
		return nil, err.Framed(v, ":in:")
	}
	return res, nil
}

// Eval evaluates a value.  Atoms other than symbols evaluate to
// themselves; symbols resolve in the environment; non-empty lists are
// applications.
func (interp *Interp) Eval(v *Value) (*Value, *Error) {
	switch v.Type {
	case TBool, TNumber, TString, TSpecial, TNative, TLambda, TMacro:
		return v.Copy(), nil
	case TSymbol:
		if bound, ok := interp.env.Resolve(v.Sym); ok {
			return bound.Copy(), nil
		}
		return nil, Errorf("unbound symbol '%s'", interp.symbolName(v.Sym))
	case TList:
		if len(v.Cells) == 0 {
			return nil, Errorf("cannot evaluate empty expression")
		}
		return interp.evalList(v)
	}
	return nil, Errorf("internal error: cannot evaluate %s value", v.Type)
}

// evalList applies a non-empty list.  The head is evaluated first and the
// resulting value decides how the remaining cells are treated.
func (interp *Interp) evalList(form *Value) (*Value, *Error) {
	head, err := interp.Eval(form.Cells[0])
	if err != nil {
		return nil, err.Traced(0)
	}
	switch head.Type {
	case TSpecial:
		return interp.evalSpecialOp(head.Op, form)
	case TNative:
		return interp.callNative(head, form)
	case TLambda, TMacro:
		return interp.call(head, form)
	case TList:
		// A list value in call position must be a (fn ...) or
		// (macro ...) definition; quoted definitions are callable.
		fun, perr := interp.parseCallable(head)
		if perr != nil {
			return nil, perr.Framed(head, interp.headLabel(form)).Traced(0)
		}
		return interp.call(fun, form)
	}
	err = Errorf("cannot apply %s value", head.Type)
	return nil, err.Framed(head, interp.headLabel(form)).Traced(0)
}

func (interp *Interp) callNative(fun *Value, form *Value) (*Value, *Error) {
	args, err, _ := interp.bindParams(fun.Params, form.Cells[1:], true)
	if err != nil {
		return nil, err
	}
	if interp.prof != nil {
		defer interp.prof.Start(fun)()
	}
	return fun.Fn(args)
}

// call invokes a lambda or macro.  Errors in the callee's own shape (its
// arity contract, body, or expansion) are framed here with the callee's
// definition form so the failure can be localized inside the definition as
// well as at the call site; errors from evaluating caller-supplied
// arguments pass through and stay attributed to the caller's form.
func (interp *Interp) call(fun *Value, form *Value) (*Value, *Error) {
	res, err, calleeFault := interp.callInner(fun, form)
	if err != nil {
		if calleeFault {
			err = err.Framed(interp.definitionForm(fun), interp.headLabel(form)).Traced(0)
		}
		return nil, err
	}
	return res, nil
}

func (interp *Interp) callInner(fun *Value, form *Value) (*Value, *Error, bool) {
	evalArgs := fun.Type != TMacro
	args, err, calleeFault := interp.bindParams(fun.Params, form.Cells[1:], evalArgs)
	if err != nil {
		return nil, err, calleeFault
	}
	if interp.prof != nil {
		defer interp.prof.Start(fun)()
	}
	res, err := interp.evalBody(bindArgs(fun.Params, args), fun.Cells)
	if err != nil {
		return nil, err, true
	}
	if fun.Type == TMacro {
		expansion := res
		res, err = interp.Eval(expansion)
		if err != nil {
			return nil, err.Framed(expansion, "~>").Traced(0), true
		}
	}
	return res, nil, false
}

// bindParams checks arity before evaluating anything, then evaluates the
// operands left-to-right (or copies them through unevaluated for macro
// binding) and returns the bound vector: positional values in order, then
// the collected rest list when one is declared.  The returned flag
// distinguishes callee faults (arity, traced at the definition's parameter
// list position) from caller faults (operand evaluation, traced at the
// failing operand).
func (interp *Interp) bindParams(params *ParamList, operands []*Value, evalArgs bool) ([]*Value, *Error, bool) {
	n := len(params.Positional)
	if params.HasRest() {
		if len(operands) < n {
			desc := "param list " + serializeParams(params, interp.syms)
			return nil, errArityAtLeast(desc, n, len(operands)).Traced(1), true
		}
	} else if len(operands) != n {
		desc := "param list " + serializeParams(params, interp.syms)
		return nil, errArityExact(desc, n, len(operands)).Traced(1), true
	}
	values := make([]*Value, len(operands))
	for i, operand := range operands {
		if !evalArgs {
			values[i] = operand.Copy()
			continue
		}
		v, err := interp.Eval(operand)
		if err != nil {
			return nil, err.Traced(i + 1), false
		}
		values[i] = v
	}
	if !params.HasRest() {
		return values, nil, false
	}
	bound := make([]*Value, 0, n+1)
	bound = append(bound, values[:n]...)
	bound = append(bound, List(values[n:]))
	return bound, nil, false
}

type binding struct {
	sym symbol.ID
	val *Value
}

func bindArgs(params *ParamList, args []*Value) []binding {
	bindings := make([]binding, 0, len(args))
	for i, sym := range params.Positional {
		bindings = append(bindings, binding{sym, args[i]})
	}
	if params.HasRest() {
		bindings = append(bindings, binding{params.Rest, args[len(args)-1]})
	}
	return bindings
}

// evalBody evaluates body forms in one fresh scope seeded with bindings,
// popping the scope on every exit path.  An empty body yields the empty
// list.  Error traces index into the definition form, where body form j is
// child j+2.
func (interp *Interp) evalBody(bindings []binding, body []*Value) (*Value, *Error) {
	interp.env.PushScope()
	defer interp.env.PopScope()
	for _, b := range bindings {
		interp.env.Set(b.sym, b.val)
	}
	res := EmptyList()
	for j, form := range body {
		var err *Error
		res, err = interp.Eval(form)
		if err != nil {
			return nil, err.Traced(j + 2)
		}
	}
	return res, nil
}

// parseCallable parses a (fn ...) or (macro ...) definition list into a
// callable value.  Error traces index into the definition list.
func (interp *Interp) parseCallable(form *Value) (*Value, *Error) {
	operands := form.Cells[1:]
	if len(operands) < 2 {
		return nil, errArityAtLeast("fn definition", 2, len(operands))
	}
	head := form.Cells[0]
	isMacro := false
	switch {
	case head.Type == TSymbol && head.Sym == interp.syms.Fn:
	case head.Type == TSymbol && head.Sym == interp.syms.Macro:
		isMacro = true
	default:
		return nil, Errorf("expected 'fn' or 'macro' in callable position, got %s",
			Serialize(head, interp.syms)).Traced(0)
	}
	raw := operands[0]
	if raw.Type != TList {
		return nil, Errorf("expected a list").Traced(1)
	}
	params, err := parseParams(raw.Cells, interp.syms.Rest)
	if err != nil {
		return nil, err.Traced(1)
	}
	body := copyCells(operands[1:])
	if isMacro {
		return Macro(params, body), nil
	}
	return Lambda(params, body), nil
}

// definitionForm reconstructs the source shape of a callable, rendering
// identically to the value itself, for use as a frame form.
func (interp *Interp) definitionForm(fun *Value) *Value {
	head := interp.syms.Fn
	if fun.Type == TMacro {
		head = interp.syms.Macro
	}
	cells := make([]*Value, 0, len(fun.Cells)+2)
	cells = append(cells, Symbol(head), interp.paramsForm(fun.Params))
	cells = append(cells, copyCells(fun.Cells)...)
	return List(cells)
}

func (interp *Interp) paramsForm(params *ParamList) *Value {
	cells := make([]*Value, 0, len(params.Positional)+2)
	for _, sym := range params.Positional {
		cells = append(cells, Symbol(sym))
	}
	if params.HasRest() {
		cells = append(cells, Symbol(interp.syms.Rest), Symbol(params.Rest))
	}
	return List(cells)
}

// headLabel returns the display label for a call form: the head symbol's
// name when the head is a bare symbol, otherwise the empty string.
func (interp *Interp) headLabel(form *Value) string {
	if form.Cells[0].Type == TSymbol {
		if name, ok := interp.syms.Name(form.Cells[0].Sym); ok {
			return name
		}
	}
	return ""
}

func (interp *Interp) symbolName(id symbol.ID) string {
	if name, ok := interp.syms.Name(id); ok {
		return name
	}
	return fmt.Sprintf("#<symbol 0x%x>", uint64(id))
}

func errArityExact(desc string, want, got int) *Error {
	return Errorf("%s requires exactly %d arguments, got %d", desc, want, got)
}

func errArityAtLeast(desc string, want, got int) *Error {
	return Errorf("%s requires at least %d arguments, got %d", desc, want, got)
}
