// Package parser splits CSS text into component values and declarations.
// The low level lexing is delegated to github.com/tdewolff/parse/v2/css;
// this package only groups the lexer tokens into functions, blocks and
// declarations.
package parser

import (
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Token is one component value.
type Token interface {
	isToken()
}

type (
	Whitespace struct{}
	Ident      string
	AtKeyword  string
	Hash       struct {
		Value string
		IsID  bool
	}
	String     string
	URL        string
	Literal    string // delimiters, commas, colons, etc...
	Number     NumericToken
	Percentage NumericToken
	Dimension  struct {
		NumericToken
		Unit string
	}
	// FunctionBlock is a function call with its already grouped arguments.
	FunctionBlock struct {
		Name      string
		Arguments []Token
	}
	ParenthesesBlock    struct{ Content []Token }
	SquareBracketsBlock struct{ Content []Token }
	CurlyBracketsBlock  struct{ Content []Token }
)

type NumericToken struct {
	Value     float64
	IsInteger bool
	// Representation is the text of the number, as written in the source.
	Representation string
}

// Int returns the integer value, only meaningfull if `IsInteger` is true.
func (n NumericToken) Int() int { return int(n.Value) }

func (Whitespace) isToken()          {}
func (Ident) isToken()               {}
func (AtKeyword) isToken()           {}
func (Hash) isToken()                {}
func (String) isToken()              {}
func (URL) isToken()                 {}
func (Literal) isToken()             {}
func (Number) isToken()              {}
func (Percentage) isToken()          {}
func (Dimension) isToken()           {}
func (FunctionBlock) isToken()       {}
func (ParenthesesBlock) isToken()    {}
func (SquareBracketsBlock) isToken() {}
func (CurlyBracketsBlock) isToken()  {}

type rawToken struct {
	kind css.TokenType
	data string
}

func lex(input string) []rawToken {
	lexer := css.NewLexer(parse.NewInputString(input))
	var out []rawToken
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			return out
		}
		if tt == css.CommentToken {
			continue
		}
		out = append(out, rawToken{kind: tt, data: string(data)})
	}
}

// Tokenize parses a list of component values. Comments are always skipped.
// Functions and blocks are nested; unbalanced closing tokens are kept as
// [Literal] and unclosed blocks are implicitly closed at the end of input.
func Tokenize(input string) []Token {
	raw := lex(input)
	pos := 0
	return group(raw, &pos, css.ErrorToken)
}

// group consumes tokens until `closing` (excluded) or the end of input.
func group(raw []rawToken, pos *int, closing css.TokenType) []Token {
	var out []Token
	for *pos < len(raw) {
		tok := raw[*pos]
		*pos++
		value := tok.data
		switch tok.kind {
		case css.WhitespaceToken:
			out = append(out, Whitespace{})
		case css.IdentToken, css.CustomPropertyNameToken:
			out = append(out, Ident(unescape(value)))
		case css.AtKeywordToken:
			out = append(out, AtKeyword(strings.ToLower(unescape(value[1:]))))
		case css.HashToken:
			name := unescape(value[1:])
			out = append(out, Hash{Value: name, IsID: isIdentifier(name)})
		case css.StringToken:
			out = append(out, String(unquote(value)))
		case css.URLToken:
			out = append(out, URL(parseURL(value)))
		case css.NumberToken:
			out = append(out, Number(numeric(value)))
		case css.PercentageToken:
			out = append(out, Percentage(numeric(value[:len(value)-1])))
		case css.DimensionToken:
			num, unit := splitDimension(value)
			out = append(out, Dimension{NumericToken: numeric(num), Unit: strings.ToLower(unit)})
		case css.FunctionToken:
			name := strings.ToLower(unescape(value[:len(value)-1]))
			args := group(raw, pos, css.RightParenthesisToken)
			out = append(out, FunctionBlock{Name: name, Arguments: args})
		case css.LeftParenthesisToken:
			out = append(out, ParenthesesBlock{Content: group(raw, pos, css.RightParenthesisToken)})
		case css.LeftBracketToken:
			out = append(out, SquareBracketsBlock{Content: group(raw, pos, css.RightBracketToken)})
		case css.LeftBraceToken:
			out = append(out, CurlyBracketsBlock{Content: group(raw, pos, css.RightBraceToken)})
		case css.RightParenthesisToken, css.RightBracketToken, css.RightBraceToken:
			if tok.kind == closing {
				return out
			}
			out = append(out, Literal(value))
		default: // delimiters, comma, colon, semicolon, bad strings and urls, CDO/CDC
			out = append(out, Literal(value))
		}
	}
	return out
}

func numeric(s string) NumericToken {
	v, _ := strconv.ParseFloat(s, 64)
	isInt := !strings.ContainsAny(s, ".eE")
	return NumericToken{Value: v, IsInteger: isInt, Representation: s}
}

// splitDimension separates "12.5px" into "12.5" and "px".
func splitDimension(s string) (string, string) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}
	// exponent, only if followed by a digit
	if i+1 < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if s[j] == '+' || s[j] == '-' {
			j++
		}
		if j < len(s) && s[j] >= '0' && s[j] <= '9' {
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			i = j
		}
	}
	return s[:i], unescape(s[i:])
}

func unquote(s string) string {
	if len(s) >= 2 {
		s = s[1 : len(s)-1]
	} else if len(s) == 1 {
		s = ""
	}
	s = strings.ReplaceAll(s, "\\\n", "")
	return unescape(s)
}

func parseURL(s string) string {
	// url( ... )
	inner := strings.TrimSuffix(s[4:], ")")
	inner = strings.TrimSpace(inner)
	if len(inner) != 0 && (inner[0] == '"' || inner[0] == '\'') {
		return unquote(inner)
	}
	return unescape(inner)
}

// unescape resolves CSS escapes : \x and hexadecimal \41 sequences.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		j := i
		for j < len(s) && j-i < 6 && isHex(s[j]) {
			j++
		}
		if j == i {
			b.WriteByte(s[i])
			continue
		}
		code, _ := strconv.ParseUint(s[i:j], 16, 32)
		if code == 0 || code > 0x10FFFF || (code >= 0xD800 && code <= 0xDFFF) {
			code = 0xFFFD
		}
		b.WriteRune(rune(code))
		if j < len(s) && (s[j] == ' ' || s[j] == '\n' || s[j] == '\t') {
			j++
		}
		i = j - 1
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	if c == '-' {
		if len(s) == 1 {
			return false
		}
		c = s[1]
		if c == '-' {
			return true
		}
	}
	return c == '_' || c >= 0x80 || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
