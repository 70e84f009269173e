// Copyright © 2025 The Wisp authors

package lisp

import "github.com/wisplang/wisp/symbol"

// addSpecialOps binds the special form operators in the global scope.
// Operators are ordinary bindings (a program can shadow or alias them) but
// each bound value carries a fixed tag, so a resolved operator keeps its
// identity wherever it flows.
func (interp *Interp) addSpecialOps() {
	for _, op := range []SpecialOp{
		OpQuote,
		OpBegin,
		OpDef,
		OpSet,
		OpFn,
		OpMacro,
		OpIf,
		OpLet,
	} {
		v := Special(op)
		v.Name = interp.syms.Intern(op.String())
		interp.env.Define(v.Name, v)
	}
}

// evalSpecialOp dispatches a special form application.  Operands reach the
// handlers unevaluated; each form controls its own evaluation order.
func (interp *Interp) evalSpecialOp(op SpecialOp, form *Value) (*Value, *Error) {
	operands := form.Cells[1:]
	switch op {
	case OpQuote:
		return interp.evalQuote(operands)
	case OpBegin:
		return interp.evalBegin(operands)
	case OpDef:
		return interp.evalDef(operands, false)
	case OpSet:
		return interp.evalDef(operands, true)
	case OpFn, OpMacro:
		return interp.parseCallable(form)
	case OpIf:
		return interp.evalIf(operands)
	case OpLet:
		return interp.evalLet(operands)
	}
	// Reaching this point means a special value carries a tag missing
	// from the dispatch table, which is a defect in the interpreter.
	return nil, Errorf("internal error: unexpected special form %s", op)
}

func (interp *Interp) evalQuote(operands []*Value) (*Value, *Error) {
	if len(operands) != 1 {
		return nil, errArityExact("special form quote", 1, len(operands))
	}
	return operands[0].Copy(), nil
}

func (interp *Interp) evalBegin(operands []*Value) (*Value, *Error) {
	if len(operands) < 1 {
		return nil, errArityAtLeast("special form begin", 1, len(operands))
	}
	var res *Value
	for i, operand := range operands {
		var err *Error
		res, err = interp.Eval(operand)
		if err != nil {
			return nil, err.Traced(i + 1)
		}
	}
	return res, nil
}

// evalDef implements both def and set; they differ only in which scope
// receives the binding.
func (interp *Interp) evalDef(operands []*Value, setScope bool) (*Value, *Error) {
	desc := "special form def"
	if setScope {
		desc = "special form set"
	}
	if len(operands) != 2 {
		return nil, errArityExact(desc, 2, len(operands))
	}
	if operands[0].Type != TSymbol {
		return nil, Errorf("%s requires a symbol as its first operand", desc).Traced(1)
	}
	val, err := interp.Eval(operands[1])
	if err != nil {
		return nil, err.Traced(2)
	}
	stampName(val, operands[0].Sym)
	if setScope {
		interp.env.Set(operands[0].Sym, val.Copy())
	} else {
		interp.env.Define(operands[0].Sym, val.Copy())
	}
	return val, nil
}

// stampName records a display name on a callable being bound for the
// first time.  The stamp happens before the value becomes visible through
// the environment, so values stay immutable as observed by programs.
func stampName(val *Value, sym symbol.ID) {
	switch val.Type {
	case TLambda, TMacro, TNative:
		if val.Name == symbol.None {
			val.Name = sym
		}
	}
}

func (interp *Interp) evalIf(operands []*Value) (*Value, *Error) {
	if len(operands) < 2 {
		return nil, errArityAtLeast("special form if", 2, len(operands))
	}
	pred, err := interp.Eval(operands[0])
	if err != nil {
		return nil, err.Traced(1)
	}
	if pred.Type != TBool {
		return nil, Errorf("expected a bool").Traced(1)
	}
	if pred.Bool {
		res, err := interp.Eval(operands[1])
		if err != nil {
			return nil, err.Traced(2)
		}
		return res, nil
	}
	if len(operands) == 2 {
		return Bool(false), nil
	}
	var res *Value
	for i, alt := range operands[2:] {
		res, err = interp.Eval(alt)
		if err != nil {
			return nil, err.Traced(3 + i)
		}
	}
	return res, nil
}

// evalLet evaluates binding expressions in the enclosing scope, then runs
// the body in one fresh scope with all bindings applied simultaneously; a
// binding expression never sees its siblings.
func (interp *Interp) evalLet(operands []*Value) (*Value, *Error) {
	if len(operands) < 2 {
		return nil, errArityAtLeast("special form let", 2, len(operands))
	}
	raw := operands[0]
	if raw.Type != TList {
		return nil, Errorf("expected a list").Traced(1)
	}
	bindings := make([]binding, 0, len(raw.Cells))
	for i, pair := range raw.Cells {
		if pair.Type != TList {
			return nil, Errorf("expected a list").Traced(i).Traced(1)
		}
		if len(pair.Cells) != 2 {
			return nil, Errorf("let binding must be a (symbol expression) pair").Traced(i).Traced(1)
		}
		if pair.Cells[0].Type != TSymbol {
			return nil, Errorf("expected a symbol").Traced(0).Traced(i).Traced(1)
		}
		val, err := interp.Eval(pair.Cells[1])
		if err != nil {
			return nil, err.Traced(1).Traced(i).Traced(1)
		}
		bindings = append(bindings, binding{pair.Cells[0].Sym, val})
	}
	return interp.evalBody(bindings, operands[1:])
}
