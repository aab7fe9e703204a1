package tree

import (
	"strings"

	pa "github.com/benoitkugler/printlayout/css/parser"
	"github.com/benoitkugler/printlayout/logger"
)

// Origin is the source of a stylesheet.
type Origin uint8

const (
	OriginUserAgent Origin = iota
	OriginUser
	OriginAuthor
)

func (o Origin) String() string {
	switch o {
	case OriginUserAgent:
		return "user-agent"
	case OriginUser:
		return "user"
	case OriginAuthor:
		return "author"
	default:
		return "<invalid origin>"
	}
}

// Specificity is the (ids, classes, tags) triple of a selector.
type Specificity [3]uint8

// Less compares specificities lexicographically.
func (s Specificity) Less(other Specificity) bool {
	if s[0] != other[0] {
		return s[0] < other[0]
	}
	if s[1] != other[1] {
		return s[1] < other[1]
	}
	return s[2] < other[2]
}

// Declaration is an unvalidated property declaration.
type Declaration struct {
	Name      string
	Value     string
	Important bool
}

// MatchedRule is one rule applying to an element.
// PseudoType is empty when the rule targets the element itself,
// or one of "before", "after", "first-letter", "first-line" and "marker".
type MatchedRule struct {
	PseudoType   string
	Specificity  Specificity
	Declarations []Declaration
}

// Matcher returns the rules applying to an element, in document order.
// Selector matching is not performed by the cascade: any implementation
// may be plugged in.
type Matcher interface {
	Match(element Element) []MatchedRule
}

// Stylesheet is a [Matcher] tagged with its origin.
type Stylesheet struct {
	Origin  Origin
	Matcher Matcher
}

var pseudoElements = map[string]bool{
	"before": true, "after": true, "first-letter": true, "first-line": true, "marker": true,
}

// Selector is a compound selector, like `p.note::before`.
// An empty Tag matches any element.
type Selector struct {
	Tag        string
	ID         string
	Classes    []string
	PseudoType string
}

// Specificity returns the specificity of the selector.
func (s Selector) Specificity() Specificity {
	var out Specificity
	if s.ID != "" {
		out[0] = 1
	}
	out[1] = uint8(len(s.Classes))
	if s.Tag != "" {
		out[2]++
	}
	if s.PseudoType != "" {
		out[2]++
	}
	return out
}

// Matches returns true if the selector applies to the element
// (ignoring the pseudo element part).
func (s Selector) Matches(element Element) bool {
	if element == PageContext || element.Tag() == "" {
		return false
	}
	if s.Tag != "" && element.Tag() != s.Tag {
		return false
	}
	if s.ID != "" {
		if id, _ := element.Attr("id"); id != s.ID {
			return false
		}
	}
	if len(s.Classes) != 0 {
		attr, _ := element.Attr("class")
		classes := strings.Fields(attr)
		for _, c := range s.Classes {
			found := false
			for _, ec := range classes {
				if ec == c {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

type styleRule struct {
	match        func(Element) bool
	pseudoType   string
	specificity  Specificity
	declarations []Declaration
}

// RuleSet is a [Matcher] built from simple compound selectors
// and @page rules. The zero value is an empty, usable set.
type RuleSet struct {
	rules []styleRule
}

var _ Matcher = (*RuleSet)(nil)

// AddRule appends a rule.
func (rs *RuleSet) AddRule(selector Selector, declarations ...Declaration) {
	rs.rules = append(rs.rules, styleRule{
		match:        selector.Matches,
		pseudoType:   selector.PseudoType,
		specificity:  selector.Specificity(),
		declarations: declarations,
	})
}

// AddPredicate appends a rule applying to the elements accepted by `match`.
func (rs *RuleSet) AddPredicate(match func(Element) bool, specificity Specificity, declarations ...Declaration) {
	rs.rules = append(rs.rules, styleRule{match: match, specificity: specificity, declarations: declarations})
}

// AddPageRule appends a rule for the page context.
func (rs *RuleSet) AddPageRule(declarations ...Declaration) {
	rs.rules = append(rs.rules, styleRule{
		match:        func(e Element) bool { return e == PageContext },
		declarations: declarations,
	})
}

// Len returns the number of rules in the set.
func (rs *RuleSet) Len() int { return len(rs.rules) }

// Match implements [Matcher].
func (rs *RuleSet) Match(element Element) []MatchedRule {
	var out []MatchedRule
	for _, rule := range rs.rules {
		if rule.match(element) {
			out = append(out, MatchedRule{
				PseudoType:   rule.pseudoType,
				Specificity:  rule.specificity,
				Declarations: rule.declarations,
			})
		}
	}
	return out
}

// ParseStylesheet parses CSS source into a [RuleSet].
// Only compound selectors (type, class, id, universal and pseudo elements),
// comma separated, are supported; rules with other selectors are ignored
// with a warning. @media rules are kept if they apply to `medium`, and
// @page rules are supported without page selectors.
func ParseStylesheet(css string, medium string) *RuleSet {
	var rs RuleSet
	rs.addRules(pa.ParseRules(css), medium)
	return &rs
}

func (rs *RuleSet) addRules(rules []pa.Rule, medium string) {
	for _, rule := range rules {
		switch rule.AtKeyword {
		case "":
			if !rule.HasBlock {
				continue
			}
			selectors, ok := parseSelectorList(rule.Prelude)
			if !ok {
				logger.WarningLogger.With("selector", pa.Serialize(rule.Prelude)).Warnf("Ignored rule: unsupported selector")
				continue
			}
			decls := toDeclarations(pa.ParseDeclarationList(rule.Content))
			for _, sel := range selectors {
				rs.AddRule(sel, decls...)
			}
		case "media":
			if !rule.HasBlock {
				continue
			}
			if mediaMatches(rule.Prelude, medium) {
				rs.addRules(pa.ParseRulesTokens(rule.Content), medium)
			}
		case "page":
			if !rule.HasBlock {
				continue
			}
			if len(pa.RemoveWhitespace(rule.Prelude)) != 0 {
				logger.WarningLogger.With("selector", pa.Serialize(rule.Prelude)).Warnf("Ignored @page rule: page selectors are not supported")
				continue
			}
			rs.AddPageRule(toDeclarations(pa.ParseDeclarationList(rule.Content))...)
		default:
			logger.WarningLogger.Printf("Ignored unsupported @%s rule", rule.AtKeyword)
		}
	}
}

func toDeclarations(decls []pa.Declaration) []Declaration {
	out := make([]Declaration, len(decls))
	for i, d := range decls {
		out[i] = Declaration{Name: d.Name, Value: pa.Serialize(d.Value), Important: d.Important}
	}
	return out
}

// mediaMatches evaluates a list of media types.
func mediaMatches(prelude []pa.Token, medium string) bool {
	for _, query := range pa.SplitOnComma(prelude) {
		query = pa.RemoveWhitespace(query)
		if len(query) == 0 {
			continue
		}
		ident, ok := query[0].(pa.Ident)
		if !ok {
			continue
		}
		kw := strings.ToLower(string(ident))
		if kw == "only" && len(query) > 1 {
			if next, ok := query[1].(pa.Ident); ok {
				kw = strings.ToLower(string(next))
			}
		}
		if kw == "all" || kw == medium {
			return true
		}
	}
	return false
}

func parseSelectorList(prelude []pa.Token) ([]Selector, bool) {
	var out []Selector
	for _, part := range pa.SplitOnComma(prelude) {
		sel, ok := parseSelector(trimWhitespace(part))
		if !ok {
			return nil, false
		}
		out = append(out, sel)
	}
	return out, len(out) != 0
}

func trimWhitespace(tokens []pa.Token) []pa.Token {
	for len(tokens) != 0 {
		if _, ok := tokens[0].(pa.Whitespace); !ok {
			break
		}
		tokens = tokens[1:]
	}
	for len(tokens) != 0 {
		if _, ok := tokens[len(tokens)-1].(pa.Whitespace); !ok {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// parseSelector parses a compound selector. Whitespace
// (descendant combinators) is not supported.
func parseSelector(tokens []pa.Token) (Selector, bool) {
	var sel Selector
	if len(tokens) == 0 {
		return sel, false
	}
	for i := 0; i < len(tokens); i++ {
		switch token := tokens[i].(type) {
		case pa.Ident:
			if i != 0 {
				return sel, false
			}
			sel.Tag = strings.ToLower(string(token))
		case pa.Hash:
			if sel.PseudoType != "" {
				return sel, false
			}
			sel.ID = token.Value
		case pa.Literal:
			switch token {
			case "*":
				if i != 0 {
					return sel, false
				}
			case ".":
				if i+1 >= len(tokens) || sel.PseudoType != "" {
					return sel, false
				}
				class, ok := tokens[i+1].(pa.Ident)
				if !ok {
					return sel, false
				}
				sel.Classes = append(sel.Classes, string(class))
				i++
			case ":":
				// both the CSS 2 `:before` and the CSS 3 `::before` syntax
				if i+1 < len(tokens) && tokens[i+1] == pa.Literal(":") {
					i++
				}
				if i+1 >= len(tokens) || sel.PseudoType != "" {
					return sel, false
				}
				name, ok := tokens[i+1].(pa.Ident)
				if !ok || !pseudoElements[strings.ToLower(string(name))] {
					return sel, false
				}
				sel.PseudoType = strings.ToLower(string(name))
				i++
			default:
				return sel, false
			}
		default:
			return sel, false
		}
	}
	return sel, true
}
