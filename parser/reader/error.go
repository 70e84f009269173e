// Copyright © 2025 The Wisp authors

package reader

import "fmt"

// Kind classifies read errors.  ErrInternal indicates a defect in the
// lexer/reader pairing rather than a problem with the input text.
type Kind int

const (
	ErrUnknownChar Kind = iota
	ErrUnexpectedClose
	ErrUnterminatedString
	// ErrUnexpectedEOF reports source that ended inside an open form.
	// The reader itself never returns it; whole-source frontends do when
	// a Reader is left pending after the final chunk.
	ErrUnexpectedEOF
	ErrInternal
)

// Error describes a failed Partial call.  Start and End are byte offsets
// into the chunk passed to Partial; for ErrUnterminatedString they sit at
// the end of the chunk.
type Error struct {
	Kind  Kind
	Text  string // offending source text, when there is any
	Start int
	End   int
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnknownChar:
		return fmt.Sprintf("unknown character %q", e.Text)
	case ErrUnexpectedClose:
		return "unexpected ')'"
	case ErrUnterminatedString:
		return "unterminated string literal"
	case ErrUnexpectedEOF:
		return "unexpected end of file"
	case ErrInternal:
		return fmt.Sprintf("internal error: unexpected token %q", e.Text)
	}
	return "unknown read error"
}
