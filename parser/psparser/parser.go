// Copyright © 2025 The Wisp authors

/*
Package psparser provides a batch parser for complete wisp programs.

	program := <expr>*
	expr    := '(' <expr>* ')' | <prefix> <expr> | <number> | <string> | <symbol>
	prefix  := ' | ` | , | ,@
	number  := /-?([0-9]*\.[0-9]+|[0-9]+)([eE][+-]?[0-9]+)?/
	string  := '"' (<text> | <escape>)* '"'
	symbol  := /[^\s()"'`,;]+/

It produces the same values as parser/reader for inputs both frontends
accept, but it has no incremental mode: the input must contain only
complete top-level forms.
*/
package psparser

import (
	"fmt"
	"strconv"
	"strings"

	parsec "github.com/prataprc/goparsec"
	"github.com/wisplang/wisp/lisp"
	"github.com/wisplang/wisp/symbol"
)

const (
	nodeInvalid nodeType = iota
	nodeTerm
	nodeSExpr
	nodePrefix
	nodeSExprOUnmatched
)

var nodeTypeStrings = []string{
	nodeInvalid:         "INVALID",
	nodeTerm:            "TERM",
	nodeSExpr:           "SEXPR",
	nodePrefix:          "PREFIX",
	nodeSExprOUnmatched: "SEXPROPENUNMATCHED",
}

// Parse parses every top-level form in text, interning symbols into syms.
// The number of bytes consumed is returned along with any error that was
// encountered in parsing.
func Parse(syms *symbol.Table, text []byte) ([]*lisp.Value, int, error) {
	var forms []*lisp.Value
	s := parsec.NewScanner(text)
	parser := newParser(syms)
	root, s := parser(s)
	for root != nil {
		v, err := rootValue(root)
		if err != nil {
			return forms, s.GetCursor(), err
		}
		if v != nil {
			forms = append(forms, v)
		}
		root, s = parser(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		b, _ := s.Match(`.{1,16}`)
		if len(b) > 15 {
			b = append(b[:15:15], []byte("...")...)
		}
		return forms, s.GetCursor(), fmt.Errorf("unexpected source text possibly starting: %s", b)
	}
	return forms, s.GetCursor(), nil
}

func newParser(syms *symbol.Table) parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	quote := parsec.Atom("'", "QUOTE")
	quasiquote := parsec.Atom("`", "QUASIQUOTE")
	unquoteSplice := parsec.Atom(",@", "UNQUOTESPLICE")
	unquote := parsec.Atom(",", "UNQUOTE")
	comment := parsec.Token(`;[^\n]*`, "COMMENT")
	number := parsec.Token(`-?([0-9]*\.[0-9]+|[0-9]+)([eE][+-]?[0-9]+)?`, "NUMBER")
	// The symbol token swallows anything, so it comes last; #t and #f are
	// carved out of its matches when terms become values.
	symbolTok := parsec.Token("[^\\s()\"'`,;]+", "SYMBOL")
	term := parsec.OrdChoice(astNode(syms, nodeTerm),
		parsec.String(),
		number,
		symbolTok,
	)
	var expr parsec.Parser // forward declaration allows recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	sexpr := parsec.And(astNode(syms, nodeSExpr), openP, exprList, closeP)
	sexprOUnmatched := parsec.And(astNode(syms, nodeSExprOUnmatched), openP, exprList, parsec.End())
	prefix := parsec.OrdChoice(nil, quote, quasiquote, unquoteSplice, unquote)
	prefixExpr := parsec.And(astNode(syms, nodePrefix), prefix, &expr)
	expr = parsec.OrdChoice(nil,
		comment,
		term,
		sexpr,
		prefixExpr,
		// Error matching cases come last because they have the lowest
		// precedence.
		sexprOUnmatched,
	)
	return expr
}

type nodeType uint

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

func astNode(syms *symbol.Table, t nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return newAST(syms, t, nodes)
	}
}

func newAST(syms *symbol.Table, typ nodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes, ok := cleanNodeList(nodes)
	if len(nodes) == 0 {
		return lisp.EmptyList()
	}
	if !ok {
		// There is an error in the first position.
		return nodes[0]
	}
	switch typ {
	case nodeTerm:
		return termValue(syms, nodes[0])
	case nodeSExpr:
		// The terminal parsec nodes '(' and ')' are dropped.
		cells := make([]*lisp.Value, 0, len(nodes)-2)
		for _, c := range nodes {
			if v, ok := c.(*lisp.Value); ok {
				cells = append(cells, v)
			}
		}
		return lisp.List(cells)
	case nodePrefix:
		mark := nodes[0].(*parsec.Terminal)
		obj := nodes[1].(*lisp.Value)
		return lisp.List([]*lisp.Value{lisp.Symbol(prefixSymbol(syms, mark.GetName())), obj})
	case nodeSExprOUnmatched:
		open := nodes[0].(*parsec.Terminal)
		rest := open.GetValue() + stringifyNodes(syms, nodes[1:len(nodes)-1])
		if len(rest) > 10 {
			rest = rest[:10] + "..."
		}
		return fmt.Errorf("unmatched %q starting: %v", open.GetValue(), rest)
	default:
		panic(fmt.Sprintf("unknown nodeType: %s (%d)", typ, typ))
	}
}

// termValue turns a terminal parse node into a wisp value.  goparsec's
// String() parser unescapes the source text but wraps the result back in
// double quotes, which are trimmed here.
func termValue(syms *symbol.Table, node parsec.ParsecNode) parsec.ParsecNode {
	switch term := node.(type) {
	case string:
		return lisp.String(term[1 : len(term)-1])
	case *parsec.Terminal:
		switch term.Name {
		case "NUMBER":
			x, err := strconv.ParseFloat(term.Value, 64)
			if err != nil {
				return fmt.Errorf("bad number: %v (%s)", err, term.Value)
			}
			return lisp.Number(x)
		case "SYMBOL":
			switch term.Value {
			case "#t":
				return lisp.Bool(true)
			case "#f":
				return lisp.Bool(false)
			}
			return lisp.Symbol(syms.Intern(term.Value))
		}
	}
	return fmt.Errorf("internal error: unexpected term node %T", node)
}

func prefixSymbol(syms *symbol.Table, name string) symbol.ID {
	switch name {
	case "QUOTE":
		return syms.Quote
	case "QUASIQUOTE":
		return syms.Quasiquote
	case "UNQUOTE":
		return syms.Unquote
	case "UNQUOTESPLICE":
		return syms.UnquoteSplice
	}
	return symbol.None
}

func rootValue(root parsec.ParsecNode) (*lisp.Value, error) {
	nodes, ok := cleanNodeList([]parsec.ParsecNode{root})
	if !ok {
		return nil, nodes[0].(error)
	}
	if len(nodes) == 0 {
		// Only whitespace matched.
		return nil, nil
	}
	v, ok := nodes[0].(*lisp.Value)
	if !ok {
		// Only a comment matched.
		return nil, nil
	}
	return v, nil
}

// cleanNodeList flattens nested node slices, drops comments and surfaces
// error nodes.  The flag is false when the returned list holds an error in
// its first position.
func cleanNodeList(lis []parsec.ParsecNode) ([]parsec.ParsecNode, bool) {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case *parsec.Terminal:
			if node.Name == "COMMENT" {
				continue
			}
			nodes = append(nodes, node)
		case error:
			return []parsec.ParsecNode{node}, false
		case []parsec.ParsecNode:
			clean, ok := cleanNodeList(node)
			if !ok {
				return clean, false
			}
			nodes = append(nodes, clean...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes, true
}

func stringifyNodes(syms *symbol.Table, nodes []parsec.ParsecNode) string {
	var s []string
	for _, node := range nodes {
		switch node := node.(type) {
		case *parsec.Terminal:
			switch node.GetName() {
			case "OPENP", "CLOSEP":
				continue
			}
			s = append(s, node.GetValue())
		case []parsec.ParsecNode:
			s = append(s, "("+stringifyNodes(syms, node)+")")
		case *lisp.Value:
			s = append(s, lisp.Serialize(node, syms))
		default:
			s = append(s, fmt.Sprint(node))
		}
	}
	return strings.Join(s, " ")
}
