// Copyright © 2025 The Wisp authors

package lisp

import (
	"strconv"
	"strings"

	"github.com/wisplang/wisp/symbol"
)

// Serialize renders v as source text.  Bool, Number, String, Symbol and
// List values (and lambda/macro values, which render as their defining
// forms) re-read to structurally equal values; natives and special forms
// render as opaque placeholders.  The REPL printer and Locate both use
// this one rendering so that computed offsets stay valid against printed
// output.  A nil names resolver renders every symbol as a placeholder.
func Serialize(v *Value, names symbol.Namer) string {
	var sb strings.Builder
	writeValue(&sb, v, names)
	return sb.String()
}

func writeValue(sb *strings.Builder, v *Value, names symbol.Namer) {
	switch v.Type {
	case TBool:
		if v.Bool {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case TNumber:
		sb.WriteString(strconv.FormatFloat(v.Num, 'g', -1, 64))
	case TString:
		writeString(sb, v.Str)
	case TSymbol:
		writeSymbol(sb, v.Sym, names)
	case TList:
		sb.WriteByte('(')
		for i, cell := range v.Cells {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeValue(sb, cell, names)
		}
		sb.WriteByte(')')
	case TLambda:
		writeCallable(sb, "fn", v, names)
	case TMacro:
		writeCallable(sb, "macro", v, names)
	case TNative:
		sb.WriteString("#<native-function ")
		writeParams(sb, v.Params, names)
		sb.WriteByte('>')
	case TSpecial:
		sb.WriteString("#<special-form ")
		sb.WriteString(v.Op.String())
		sb.WriteByte('>')
	default:
		sb.WriteString("#<invalid>")
	}
}

// writeString quotes str with the same escapes the lexer decodes, so the
// output re-reads to an equal value.
func writeString(sb *strings.Builder, str string) {
	sb.WriteByte('"')
	for _, c := range []byte(str) {
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
}

func writeSymbol(sb *strings.Builder, id symbol.ID, names symbol.Namer) {
	if names != nil {
		if name, ok := names.Name(id); ok {
			sb.WriteString(name)
			return
		}
	}
	sb.WriteString("#<symbol ")
	sb.WriteString("0x" + strconv.FormatUint(uint64(id), 16))
	sb.WriteByte('>')
}

// writeCallable renders a lambda or macro as its defining form, matching
// what the evaluator reconstructs for definition frames.
func writeCallable(sb *strings.Builder, head string, v *Value, names symbol.Namer) {
	sb.WriteByte('(')
	sb.WriteString(head)
	sb.WriteByte(' ')
	writeParams(sb, v.Params, names)
	for _, form := range v.Cells {
		sb.WriteByte(' ')
		writeValue(sb, form, names)
	}
	sb.WriteByte(')')
}

func writeParams(sb *strings.Builder, params *ParamList, names symbol.Namer) {
	sb.WriteByte('(')
	for i, sym := range params.Positional {
		if i > 0 {
			sb.WriteByte(' ')
		}
		writeSymbol(sb, sym, names)
	}
	if params.HasRest() {
		if len(params.Positional) > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString("&rest ")
		writeSymbol(sb, params.Rest, names)
	}
	sb.WriteByte(')')
}

func serializeParams(params *ParamList, names symbol.Namer) string {
	var sb strings.Builder
	writeParams(&sb, params, names)
	return sb.String()
}

// Locate maps a (form, trace) pair back to a highlight range: it renders
// form exactly as Serialize does and returns the rendered text along with
// the byte range of the sub-expression the trace points at.  Traces are
// consumed from the end, since the most recently pushed index belongs to
// the outermost layer of the form.  An empty or unusable trace highlights
// the whole form.
func Locate(form *Value, trace []int, names symbol.Namer) (text string, start, end int) {
	if len(trace) == 0 || form.Type != TList || len(form.Cells) == 0 {
		text = Serialize(form, names)
		return text, 0, len(text)
	}
	i := trace[len(trace)-1]
	if i < 0 || i >= len(form.Cells) {
		text = Serialize(form, names)
		return text, 0, len(text)
	}
	var sb strings.Builder
	sb.WriteByte('(')
	for j, cell := range form.Cells {
		if j > 0 {
			sb.WriteByte(' ')
		}
		if j == i {
			sub, s, e := Locate(cell, trace[:len(trace)-1], names)
			start = sb.Len() + s
			end = sb.Len() + e
			sb.WriteString(sub)
		} else {
			writeValue(&sb, cell, names)
		}
	}
	sb.WriteByte(')')
	return sb.String(), start, end
}
