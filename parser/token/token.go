// Copyright © 2025 The Wisp authors

// Package token defines the lexical tokens produced by the wisp lexer.
// Tokens carry half-open byte-offset spans into the text chunk they were
// lexed from; the chunk itself is not retained.
package token

import "fmt"

// Token is a single lexeme.  Text holds the decoded payload, which for
// most types is the raw source slice.  For STRING_ESC it holds the decoded
// character while the span still covers the two-byte escape sequence.
type Token struct {
	Type  Type
	Text  string
	Start int // byte offset of the first byte
	End   int // byte offset one past the last byte
}

func (tok *Token) String() string {
	return fmt.Sprintf("%s(%q)[%d:%d]", tok.Type, tok.Text, tok.Start, tok.End)
}

type Type uint

// Token types for the two lexer modes.  The STRING_ prefixed types other
// than STRING_START are only produced in string mode.
const (
	INVALID Type = iota
	EOF

	// Delimiters
	PAREN_L
	PAREN_R

	// Quotation prefixes
	QUOTE
	QUASIQUOTE
	UNQUOTE
	UNQUOTE_SPLICE

	// Atoms
	TRUE
	FALSE
	NUMBER
	SYMBOL

	COMMENT

	// String mode
	STRING_START
	STRING_TEXT
	STRING_ESC
	STRING_END

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:        "invalid",
		EOF:            "EOF",
		PAREN_L:        "(",
		PAREN_R:        ")",
		QUOTE:          "'",
		QUASIQUOTE:     "`",
		UNQUOTE:        ",",
		UNQUOTE_SPLICE: ",@",
		TRUE:           "#t",
		FALSE:          "#f",
		NUMBER:         "number",
		SYMBOL:         "symbol",
		COMMENT:        ";",
		STRING_START:   `"`,
		STRING_TEXT:    "string-text",
		STRING_ESC:     "string-escape",
		STRING_END:     `close-"`,
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// StringMode reports whether typ is only produced while the lexer is
// inside a string literal.
func (typ Type) StringMode() bool {
	switch typ {
	case STRING_TEXT, STRING_ESC, STRING_END:
		return true
	}
	return false
}
