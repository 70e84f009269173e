// Copyright © 2025 The Wisp authors

package lisp

import "github.com/wisplang/wisp/symbol"

// ParamList describes the formal parameters of a callable: positional
// symbols bound in order, plus an optional rest symbol collecting whatever
// trailing arguments remain.  ParamLists are immutable and may be shared
// between value copies.
type ParamList struct {
	Positional []symbol.ID
	Rest       symbol.ID // symbol.None when no rest parameter is declared
}

// HasRest reports whether a rest parameter is declared.
func (p *ParamList) HasRest() bool {
	return p.Rest != symbol.None
}

func (p *ParamList) equal(other *ParamList) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.Rest != other.Rest || len(p.Positional) != len(other.Positional) {
		return false
	}
	for i := range p.Positional {
		if p.Positional[i] != other.Positional[i] {
			return false
		}
	}
	return true
}

// parseParams validates a raw parameter list.  Every element must be a
// symbol and the rest sentinel, when present, must sit exactly second to
// last; the element after it names the rest parameter.  Error traces index
// into the raw list.
func parseParams(cells []*Value, rest symbol.ID) (*ParamList, *Error) {
	for i, cell := range cells {
		if cell.Type != TSymbol {
			return nil, Errorf("expected a symbol").Traced(i)
		}
	}
	params := &ParamList{}
	for i, cell := range cells {
		if cell.Sym != rest {
			continue
		}
		if i != len(cells)-2 {
			return nil, Errorf("&rest must be second to last in parameter list").Traced(i)
		}
		for _, pos := range cells[:i] {
			params.Positional = append(params.Positional, pos.Sym)
		}
		params.Rest = cells[i+1].Sym
		return params, nil
	}
	for _, pos := range cells {
		params.Positional = append(params.Positional, pos.Sym)
	}
	return params, nil
}
