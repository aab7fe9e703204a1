package counters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	for _, test := range []struct {
		value    int
		style    string
		expected string
	}{
		{7, "decimal", "7"},
		{-3, "decimal", "-3"},
		{7, "decimal-leading-zero", "07"},
		{1994, "upper-roman", "MCMXCIV"},
		{4, "lower-roman", "iv"},
		{0, "lower-roman", "0"},
		{1, "lower-alpha", "a"},
		{26, "upper-alpha", "Z"},
		{27, "lower-latin", "aa"},
		{2, "lower-greek", "β"},
		{3, "disc", "•"},
		{3, "none", ""},
		{12, "unknown", "12"},
	} {
		assert.Equal(t, test.expected, Format(test.value, test.style), "%d %s", test.value, test.style)
	}
}
