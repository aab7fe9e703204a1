package parser

import (
	"testing"

	tu "github.com/benoitkugler/printlayout/utils/testutils"
)

func TestTokenize(t *testing.T) {
	got := Tokenize(`1px solid  rgb(1, 2%, 3) "a\"b" url(img.png) #fff`)
	exp := []Token{
		Dimension{NumericToken: NumericToken{Value: 1, IsInteger: true, Representation: "1"}, Unit: "px"},
		Whitespace{},
		Ident("solid"),
		Whitespace{},
		FunctionBlock{Name: "rgb", Arguments: []Token{
			Number{Value: 1, IsInteger: true, Representation: "1"},
			Literal(","),
			Whitespace{},
			Percentage{Value: 2, IsInteger: true, Representation: "2"},
			Literal(","),
			Whitespace{},
			Number{Value: 3, IsInteger: true, Representation: "3"},
		}},
		Whitespace{},
		String(`a"b`),
		Whitespace{},
		URL("img.png"),
		Whitespace{},
		Hash{Value: "fff", IsID: true},
	}
	tu.AssertEqual(t, got, exp)
}

func TestTokenizeUnbalanced(t *testing.T) {
	tu.AssertEqual(t, Tokenize("a) b"), []Token{Ident("a"), Literal(")"), Whitespace{}, Ident("b")})
	tu.AssertEqual(t, Tokenize("f(a"), []Token{FunctionBlock{Name: "f", Arguments: []Token{Ident("a")}}})
}

func TestDeclarations(t *testing.T) {
	decls := ParseDeclarations(`color: red; MARGIN : 1em !important;; invalid; --custom: 4`)
	tu.AssertEqual(t, len(decls), 3)
	tu.AssertEqual(t, decls[0].Name, "color")
	tu.AssertEqual(t, decls[0].Important, false)
	tu.AssertEqual(t, decls[1].Name, "margin")
	tu.AssertEqual(t, decls[1].Important, true)
	tu.AssertEqual(t, Serialize(decls[1].Value), "1em")
	tu.AssertEqual(t, decls[2].Name, "--custom")
}

func TestRules(t *testing.T) {
	rules := ParseRules(`
	<!-- p, div.a { color: red }
	@import "foo.css";
	@page { margin: 1px }
	@media print { em { color: blue } } -->
	`)
	tu.AssertEqual(t, len(rules), 4)
	tu.AssertEqual(t, Serialize(rules[0].Prelude), "p, div.a")
	tu.AssertEqual(t, rules[1].AtKeyword, "import")
	tu.AssertEqual(t, rules[1].HasBlock, false)
	tu.AssertEqual(t, rules[2].AtKeyword, "page")
	tu.AssertEqual(t, len(ParseDeclarationList(rules[2].Content)), 1)
	tu.AssertEqual(t, rules[3].AtKeyword, "media")
	nested := ParseRulesTokens(rules[3].Content)
	tu.AssertEqual(t, len(nested), 1)
	tu.AssertEqual(t, Serialize(nested[0].Prelude), "em")
}

func TestSplitOnComma(t *testing.T) {
	parts := SplitOnComma(Tokenize("a b, c ,d"))
	tu.AssertEqual(t, len(parts), 3)
	tu.AssertEqual(t, Serialize(parts[0]), "a b")
	tu.AssertEqual(t, Serialize(parts[2]), "d")
}

func TestColor(t *testing.T) {
	for _, test := range []struct {
		css string
		exp Color
	}{
		{"red", Color{Type: ColorRGBA, RGBA: RGBA{1, 0, 0, 1}}},
		{"#00f", Color{Type: ColorRGBA, RGBA: RGBA{0, 0, 1, 1}}},
		{"#ffffff00", Color{Type: ColorRGBA, RGBA: RGBA{1, 1, 1, 0}}},
		{"rgba(255, 0, 0, 0.5)", Color{Type: ColorRGBA, RGBA: RGBA{1, 0, 0, 0.5}}},
		{"rgb(100%, 0%, 0%)", Color{Type: ColorRGBA, RGBA: RGBA{1, 0, 0, 1}}},
		{"currentColor", Color{Type: ColorCurrentColor}},
		{"transparent", Color{Type: ColorRGBA}},
		{"#ab", Color{}},
		{"rgb(1, 2)", Color{}},
		{"notacolor", Color{}},
	} {
		tu.AssertEqual(t, ParseColorString(test.css), test.exp)
	}
}

func TestSerializeStrings(t *testing.T) {
	for _, s := range []string{"\n", "a\tb", `q"uo\te`, "\x7f1", "été"} {
		tokens := []Token{String(s), Whitespace{}, URL(s)}
		tu.AssertEqual(t, Tokenize(Serialize(tokens)), tokens)
	}
	tu.AssertEqual(t, Serialize([]Token{String("\n")}), `"\a "`)
}
