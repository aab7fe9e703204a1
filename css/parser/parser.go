package parser

import (
	"strings"
)

// Declaration is one `name: value [!important]` item.
type Declaration struct {
	Name      string // lower cased, except for custom properties
	Value     []Token
	Important bool
}

// Rule is either a qualified rule (`AtKeyword` is empty)
// or an at-rule. `Content` is nil for at-rules without block,
// such as `@import`.
type Rule struct {
	AtKeyword string
	Prelude   []Token
	Content   []Token
	HasBlock  bool
}

// ParseDeclarations parses a declaration list, as found in a
// style attribute or inside a rule block.
// Invalid declarations are silently dropped.
func ParseDeclarations(input string) []Declaration {
	return ParseDeclarationList(Tokenize(input))
}

// ParseDeclarationList is the same as [ParseDeclarations], for already
// tokenized input.
func ParseDeclarationList(tokens []Token) []Declaration {
	var out []Declaration
	for _, item := range splitOn(tokens, ";") {
		if decl, ok := parseDeclaration(item); ok {
			out = append(out, decl)
		}
	}
	return out
}

func parseDeclaration(tokens []Token) (Declaration, bool) {
	tokens = trim(tokens)
	if len(tokens) < 2 {
		return Declaration{}, false
	}
	name, ok := tokens[0].(Ident)
	if !ok {
		return Declaration{}, false
	}
	rest := trimLeft(tokens[1:])
	if len(rest) == 0 || rest[0] != Literal(":") {
		return Declaration{}, false
	}
	value := trim(rest[1:])
	important := false
	// look for a trailing "! important"
	if n := len(value); n >= 2 {
		if id, ok := value[n-1].(Ident); ok && strings.EqualFold(string(id), "important") {
			before := trim(value[:n-1])
			if k := len(before); k >= 1 && before[k-1] == Literal("!") {
				important = true
				value = trim(before[:k-1])
			}
		}
	}
	n := string(name)
	if !strings.HasPrefix(n, "--") {
		n = strings.ToLower(n)
	}
	return Declaration{Name: n, Value: value, Important: important}, true
}

// ParseRules parses a stylesheet into a flat list of rules.
// Nested at-rules (such as @media) keep their block content
// unparsed in `Content`, so that the caller may call [ParseRulesTokens] on it.
func ParseRules(input string) []Rule {
	return ParseRulesTokens(Tokenize(input))
}

// ParseRulesTokens is the same as [ParseRules], for already tokenized input.
func ParseRulesTokens(tokens []Token) []Rule {
	var (
		out     []Rule
		prelude []Token
		atKw    string
		inAt    bool
	)
	for _, token := range tokens {
		switch token := token.(type) {
		case AtKeyword:
			if len(trim(prelude)) == 0 && !inAt {
				atKw, inAt = string(token), true
				prelude = nil
				continue
			}
			prelude = append(prelude, token)
		case CurlyBracketsBlock:
			out = append(out, Rule{AtKeyword: atKw, Prelude: trim(prelude), Content: token.Content, HasBlock: true})
			atKw, inAt, prelude = "", false, nil
		case Literal:
			if token == ";" && inAt { // at-rule without block
				out = append(out, Rule{AtKeyword: atKw, Prelude: trim(prelude)})
				atKw, inAt, prelude = "", false, nil
				continue
			}
			if (token == "<!--" || token == "-->") && !inAt && len(trim(prelude)) == 0 {
				continue
			}
			prelude = append(prelude, token)
		default:
			prelude = append(prelude, token)
		}
	}
	return out
}

// SplitOnComma splits the tokens on top-level commas.
// Whitespace around each item is trimmed.
func SplitOnComma(tokens []Token) [][]Token {
	return splitOn(tokens, ",")
}

func splitOn(tokens []Token, sep Literal) [][]Token {
	var (
		out     [][]Token
		current []Token
	)
	for _, t := range tokens {
		if lit, ok := t.(Literal); ok && lit == sep {
			out = append(out, trim(current))
			current = nil
			continue
		}
		current = append(current, t)
	}
	if len(trim(current)) != 0 || len(out) != 0 {
		out = append(out, trim(current))
	}
	return out
}

// RemoveWhitespace returns the tokens which are not whitespace.
func RemoveWhitespace(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := t.(Whitespace); !ok {
			out = append(out, t)
		}
	}
	return out
}

func trimLeft(tokens []Token) []Token {
	for len(tokens) != 0 {
		if _, ok := tokens[0].(Whitespace); !ok {
			break
		}
		tokens = tokens[1:]
	}
	return tokens
}

func trim(tokens []Token) []Token {
	tokens = trimLeft(tokens)
	for len(tokens) != 0 {
		if _, ok := tokens[len(tokens)-1].(Whitespace); !ok {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}
