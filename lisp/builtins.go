// Copyright © 2025 The Wisp authors

package lisp

type langBuiltin struct {
	name       string
	positional []string
	rest       string
	fun        NativeFn
}

// langBuiltins is the fixed native function set of the language.  Trace
// indices in the implementations are call-form relative: argument i is
// child i+1 of the call.
var langBuiltins = []*langBuiltin{
	{"+", nil, "terms", builtinAdd},
	{"*", nil, "factors", builtinMul},
	{"-", []string{"min"}, "subs", builtinSub},
	{"=", []string{"a", "b"}, "", builtinEqual},
	{"first", []string{"lst"}, "", builtinFirst},
	{"rest", []string{"lst"}, "", builtinRest},
	{"list", nil, "elems", builtinList},
	{"concat", nil, "lsts", builtinConcat},
	{"is-list", []string{"v"}, "", builtinIsList},
	{"length", []string{"lst"}, "", builtinLength},
}

func (interp *Interp) addBuiltins() {
	for _, b := range langBuiltins {
		interp.RegisterNative(b.name, b.positional, b.rest, b.fun)
	}
}

func builtinAdd(args []*Value) (*Value, *Error) {
	sum := 0.0
	for i, term := range args[0].Cells {
		if term.Type != TNumber {
			return nil, Errorf("expected a number").Traced(i + 1)
		}
		sum += term.Num
	}
	return Number(sum), nil
}

func builtinMul(args []*Value) (*Value, *Error) {
	product := 1.0
	for i, factor := range args[0].Cells {
		if factor.Type != TNumber {
			return nil, Errorf("expected a number").Traced(i + 1)
		}
		product *= factor.Num
	}
	return Number(product), nil
}

func builtinSub(args []*Value) (*Value, *Error) {
	if args[0].Type != TNumber {
		return nil, Errorf("expected a number").Traced(1)
	}
	diff := args[0].Num
	for i, sub := range args[1].Cells {
		if sub.Type != TNumber {
			return nil, Errorf("expected a number").Traced(i + 2)
		}
		diff -= sub.Num
	}
	return Number(diff), nil
}

// builtinEqual compares numbers to numbers and symbols to symbols; other
// types have no equality operator in the language.
func builtinEqual(args []*Value) (*Value, *Error) {
	a, b := args[0], args[1]
	switch a.Type {
	case TNumber:
		if b.Type != TNumber {
			return nil, Errorf("expected a number").Traced(2)
		}
		return Bool(a.Num == b.Num), nil
	case TSymbol:
		if b.Type != TSymbol {
			return nil, Errorf("expected a symbol").Traced(2)
		}
		return Bool(a.Sym == b.Sym), nil
	}
	return nil, Errorf("equality is defined for numbers and symbols").Traced(1)
}

func builtinFirst(args []*Value) (*Value, *Error) {
	lst := args[0]
	if lst.Type != TList {
		return nil, Errorf("expected a list").Traced(1)
	}
	if len(lst.Cells) == 0 {
		return nil, Errorf("first of empty list").Traced(1)
	}
	return lst.Cells[0].Copy(), nil
}

func builtinRest(args []*Value) (*Value, *Error) {
	lst := args[0]
	if lst.Type != TList {
		return nil, Errorf("expected a list").Traced(1)
	}
	if len(lst.Cells) == 0 {
		return EmptyList(), nil
	}
	return List(copyCells(lst.Cells[1:])), nil
}

func builtinList(args []*Value) (*Value, *Error) {
	return args[0], nil
}

func builtinConcat(args []*Value) (*Value, *Error) {
	var cells []*Value
	for i, lst := range args[0].Cells {
		if lst.Type != TList {
			return nil, Errorf("expected a list").Traced(i + 1)
		}
		cells = append(cells, copyCells(lst.Cells)...)
	}
	return List(cells), nil
}

func builtinIsList(args []*Value) (*Value, *Error) {
	return Bool(args[0].Type == TList), nil
}

func builtinLength(args []*Value) (*Value, *Error) {
	if args[0].Type != TList {
		return nil, Errorf("expected a list").Traced(1)
	}
	return Number(float64(len(args[0].Cells))), nil
}
