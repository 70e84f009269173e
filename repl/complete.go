// Copyright © 2025 The Wisp authors

package repl

import (
	"sort"
	"strings"

	"github.com/wisplang/wisp/lisp"
)

// symbolCompleter implements readline.AutoCompleter by enumerating global
// bindings from the interpreter's environment.
type symbolCompleter struct {
	interp *lisp.Interp
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to whitespace,
	// an open paren, or a quote prefix).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '(' || ch == '\'' || ch == '`' || ch == ',' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectSymbols(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, sym := range candidates {
		result = append(result, []rune(sym[len(prefix):]))
	}
	return result, len(prefix)
}

func (c *symbolCompleter) collectSymbols(prefix string) []string {
	syms := c.interp.Symbols()
	var result []string
	for _, id := range c.interp.Env().Globals() {
		name, ok := syms.Name(id)
		if ok && strings.HasPrefix(name, prefix) {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}
