// Copyright © 2025 The Wisp authors

package lisp

import "github.com/wisplang/wisp/symbol"

// Env is an ordered stack of scopes mapping symbols to values, innermost
// scope last.  A fresh Env has exactly one scope, the global one.  The
// evaluator pushes a scope on entering any function, macro or let body and
// pops it on every exit path.
type Env struct {
	scopes []map[symbol.ID]*Value
}

// NewEnv returns an environment holding only an empty global scope.
func NewEnv() *Env {
	return &Env{scopes: []map[symbol.ID]*Value{{}}}
}

// PushScope enters a new innermost scope.
func (env *Env) PushScope() {
	env.scopes = append(env.scopes, map[symbol.ID]*Value{})
}

// PopScope discards the innermost scope.  Popping the global scope is a
// caller bug and panics.
func (env *Env) PopScope() {
	if len(env.scopes) == 1 {
		panic("pop of global scope")
	}
	env.scopes = env.scopes[:len(env.scopes)-1]
}

// Define binds sym in the global scope regardless of the current depth.
func (env *Env) Define(sym symbol.ID, v *Value) {
	env.scopes[0][sym] = v
}

// Set binds sym in the innermost scope.  It is a binding operation in the
// current frame, not a search-and-mutate of an enclosing binding.
func (env *Env) Set(sym symbol.ID, v *Value) {
	env.scopes[len(env.scopes)-1][sym] = v
}

// Globals returns the symbols bound in the global scope, in no
// particular order.
func (env *Env) Globals() []symbol.ID {
	ids := make([]symbol.ID, 0, len(env.scopes[0]))
	for id := range env.scopes[0] {
		ids = append(ids, id)
	}
	return ids
}

// Resolve scans innermost to outermost and returns the first binding.
func (env *Env) Resolve(sym symbol.ID) (*Value, bool) {
	for i := len(env.scopes) - 1; i >= 0; i-- {
		if v, ok := env.scopes[i][sym]; ok {
			return v, true
		}
	}
	return nil, false
}

// Depth returns the number of scopes currently on the stack.
func (env *Env) Depth() int {
	return len(env.scopes)
}
