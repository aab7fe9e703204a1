// Package counters formats counter values, as used by
// the counter() and counters() functions and by list markers.
package counters

import (
	"strconv"
	"strings"
)

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

var greekLetters = []rune("αβγδεζηθικλμνξοπρστυφχψω")

// Format returns the representation of `value` for the given counter style.
// Unknown styles fall back to decimal. Values out of the range
// of a style (such as 0 for roman numerals) also fall back to decimal.
func Format(value int, style string) string {
	switch style {
	case "none":
		return ""
	case "disc":
		return "•"
	case "circle":
		return "◦"
	case "square":
		return "▪"
	case "decimal-leading-zero":
		if value >= 0 && value < 10 {
			return "0" + strconv.Itoa(value)
		}
	case "lower-roman":
		if s, ok := roman(value); ok {
			return strings.ToLower(s)
		}
	case "upper-roman":
		if s, ok := roman(value); ok {
			return s
		}
	case "lower-alpha", "lower-latin":
		if s, ok := alphabetic(value, []rune("abcdefghijklmnopqrstuvwxyz")); ok {
			return s
		}
	case "upper-alpha", "upper-latin":
		if s, ok := alphabetic(value, []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ")); ok {
			return s
		}
	case "lower-greek":
		if s, ok := alphabetic(value, greekLetters); ok {
			return s
		}
	}
	return strconv.Itoa(value)
}

// roman supports the additive range [1, 3999].
func roman(value int) (string, bool) {
	if value < 1 || value > 3999 {
		return "", false
	}
	var b strings.Builder
	for _, n := range romanNumerals {
		for value >= n.value {
			b.WriteString(n.symbol)
			value -= n.value
		}
	}
	return b.String(), true
}

// alphabetic is the "alphabetic" counter system: a, b, ..., z, aa, ab, ...
func alphabetic(value int, symbols []rune) (string, bool) {
	if value < 1 {
		return "", false
	}
	n := len(symbols)
	var out []rune
	for value > 0 {
		value--
		out = append([]rune{symbols[value%n]}, out...)
		value /= n
	}
	return string(out), true
}
