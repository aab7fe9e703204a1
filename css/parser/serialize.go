package parser

import (
	"strconv"
	"strings"
)

// Serialize writes back the tokens as CSS text.
// The output is not guaranteed to be byte-identical to the source,
// but re-tokenizing it yields the same tokens.
func Serialize(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		serializeTo(&b, t)
	}
	return b.String()
}

func serializeTo(b *strings.Builder, t Token) {
	switch t := t.(type) {
	case Whitespace:
		b.WriteByte(' ')
	case Ident:
		b.WriteString(string(t))
	case AtKeyword:
		b.WriteByte('@')
		b.WriteString(string(t))
	case Hash:
		b.WriteByte('#')
		b.WriteString(t.Value)
	case String:
		serializeString(b, string(t))
	case URL:
		b.WriteString("url(")
		serializeString(b, string(t))
		b.WriteByte(')')
	case Literal:
		b.WriteString(string(t))
	case Number:
		b.WriteString(t.Representation)
	case Percentage:
		b.WriteString(t.Representation)
		b.WriteByte('%')
	case Dimension:
		b.WriteString(t.Representation)
		b.WriteString(t.Unit)
	case FunctionBlock:
		b.WriteString(t.Name)
		b.WriteByte('(')
		for _, a := range t.Arguments {
			serializeTo(b, a)
		}
		b.WriteByte(')')
	case ParenthesesBlock:
		b.WriteByte('(')
		for _, a := range t.Content {
			serializeTo(b, a)
		}
		b.WriteByte(')')
	case SquareBracketsBlock:
		b.WriteByte('[')
		for _, a := range t.Content {
			serializeTo(b, a)
		}
		b.WriteByte(']')
	case CurlyBracketsBlock:
		b.WriteByte('{')
		for _, a := range t.Content {
			serializeTo(b, a)
		}
		b.WriteByte('}')
	}
}

// serializeString writes `value` as a double quoted CSS string.
// Control characters use hexadecimal escapes, since
// CSS reads \n as a plain 'n'.
func serializeString(b *strings.Builder, value string) {
	b.WriteByte('"')
	for _, c := range value {
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteRune(c)
		case c < 0x20 || c == 0x7F:
			b.WriteByte('\\')
			b.WriteString(strconv.FormatInt(int64(c), 16))
			b.WriteByte(' ')
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('"')
}
