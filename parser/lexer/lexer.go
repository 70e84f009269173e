// Copyright © 2025 The Wisp authors

// Package lexer implements the wisp tokenizer.  It has two modes, normal
// and string, sharing one cursor over a single text chunk.  Producing a
// STRING_START token flips the lexer into string mode and STRING_END flips
// it back; the switch is a state-function swap invisible to the caller.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wisplang/wisp/parser/token"
)

type LexFn func(*Lexer) *token.Token

// delimRunes terminate a symbol run in normal mode.  Whitespace does too.
const delimRunes = "()\"'`,;"

type Lexer struct {
	src      string
	pos      int
	start    int
	lex      LexFn
	inString bool
}

func New(src string) *Lexer {
	return &Lexer{
		src: src,
		lex: (*Lexer).readToken,
	}
}

// ReadToken returns the next token.  After the chunk is exhausted it
// returns EOF tokens forever, with spans fixed at the end of the chunk.
func (lex *Lexer) ReadToken() *token.Token {
	return lex.lex(lex)
}

// InString reports whether the lexer stopped inside an unterminated string
// literal.  Meaningful once ReadToken has returned EOF.
func (lex *Lexer) InString() bool {
	return lex.inString
}

func (lex *Lexer) readToken() *token.Token {
	lex.skipSpace()
	lex.start = lex.pos
	if lex.pos >= len(lex.src) {
		return lex.emit(token.EOF, "")
	}
	c, size := lex.rune()
	switch c {
	case '(':
		lex.pos += size
		return lex.emitText(token.PAREN_L)
	case ')':
		lex.pos += size
		return lex.emitText(token.PAREN_R)
	case '\'':
		lex.pos += size
		return lex.emitText(token.QUOTE)
	case '`':
		lex.pos += size
		return lex.emitText(token.QUASIQUOTE)
	case ',':
		lex.pos += size
		if lex.pos < len(lex.src) && lex.src[lex.pos] == '@' {
			lex.pos++
			return lex.emitText(token.UNQUOTE_SPLICE)
		}
		return lex.emitText(token.UNQUOTE)
	case '"':
		lex.pos += size
		lex.inString = true
		lex.lex = (*Lexer).readString
		return lex.emitText(token.STRING_START)
	case ';':
		for lex.pos < len(lex.src) && lex.src[lex.pos] != '\n' {
			lex.pos++
		}
		return lex.emitText(token.COMMENT)
	}
	if n := scanNumber(lex.src[lex.pos:]); n > 0 {
		lex.pos += n
		return lex.emitText(token.NUMBER)
	}
	return lex.readSymbol()
}

func (lex *Lexer) readSymbol() *token.Token {
	for lex.pos < len(lex.src) {
		c, size := lex.rune()
		if unicode.IsSpace(c) || strings.ContainsRune(delimRunes, c) {
			break
		}
		lex.pos += size
	}
	switch lex.src[lex.start:lex.pos] {
	case "#t":
		return lex.emitText(token.TRUE)
	case "#f":
		return lex.emitText(token.FALSE)
	}
	return lex.emitText(token.SYMBOL)
}

func (lex *Lexer) readString() *token.Token {
	lex.start = lex.pos
	if lex.pos >= len(lex.src) {
		return lex.emit(token.EOF, "")
	}
	switch lex.src[lex.pos] {
	case '"':
		lex.pos++
		lex.inString = false
		lex.lex = (*Lexer).readToken
		return lex.emitText(token.STRING_END)
	case '\\':
		lex.pos++
		if lex.pos >= len(lex.src) {
			return lex.emit(token.INVALID, `\`)
		}
		c, size := lex.rune()
		lex.pos += size
		text, ok := unescape(c)
		if !ok {
			return lex.emit(token.INVALID, lex.src[lex.start:lex.pos])
		}
		return lex.emit(token.STRING_ESC, text)
	}
	for lex.pos < len(lex.src) && lex.src[lex.pos] != '"' && lex.src[lex.pos] != '\\' {
		lex.pos++
	}
	return lex.emitText(token.STRING_TEXT)
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	return &token.Token{Type: typ, Text: text, Start: lex.start, End: lex.pos}
}

func (lex *Lexer) emitText(typ token.Type) *token.Token {
	return lex.emit(typ, lex.src[lex.start:lex.pos])
}

func (lex *Lexer) skipSpace() {
	for lex.pos < len(lex.src) {
		c, size := lex.rune()
		if !unicode.IsSpace(c) {
			return
		}
		lex.pos += size
	}
}

func (lex *Lexer) rune() (rune, int) {
	return utf8.DecodeRuneInString(lex.src[lex.pos:])
}

func unescape(c rune) (string, bool) {
	switch c {
	case '"':
		return `"`, true
	case '\\':
		return `\`, true
	case 'n':
		return "\n", true
	case 't':
		return "\t", true
	}
	return "", false
}

// scanNumber returns the length of the number literal at the start of s, or
// 0 if s does not start with one.  The pattern is an optional minus sign, a
// mantissa (digits, or digits around a decimal point with at least one
// fractional digit), and an optional exponent.  The number pattern wins
// over the symbol pattern on ambiguous prefixes, so "-12x" scans as the
// number -12 followed by the symbol x while a lone "-" is a symbol.
func scanNumber(s string) int {
	pos := 0
	if pos < len(s) && s[pos] == '-' {
		pos++
	}
	intDigits := countDigits(s[pos:])
	pos += intDigits
	fracDigits := 0
	if pos < len(s) && s[pos] == '.' {
		fracDigits = countDigits(s[pos+1:])
		if fracDigits > 0 {
			pos += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0
	}
	if pos < len(s) && (s[pos] == 'e' || s[pos] == 'E') {
		expPos := pos + 1
		if expPos < len(s) && (s[expPos] == '+' || s[expPos] == '-') {
			expPos++
		}
		if n := countDigits(s[expPos:]); n > 0 {
			pos = expPos + n
		}
		// An incomplete exponent is not part of the number.
	}
	return pos
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && isDigit(rune(s[n])) {
		n++
	}
	return n
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
