package parser

import (
	"strconv"
	"strings"
)

// RGBA components are in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// IsNone returns true for a fully transparent color.
func (c RGBA) IsNone() bool { return c.A == 0 }

type ColorType uint8

const (
	ColorInvalid ColorType = iota
	ColorCurrentColor
	ColorRGBA
)

type Color struct {
	Type ColorType
	RGBA RGBA
}

// IsNone returns true for invalid or transparent colors.
func (c Color) IsNone() bool {
	return c.Type == ColorInvalid || (c.Type == ColorRGBA && c.RGBA.IsNone())
}

func rgb(r, g, b uint8) Color {
	return Color{Type: ColorRGBA, RGBA: RGBA{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: 1}}
}

var colorKeywords = map[string]Color{
	"transparent":  {Type: ColorRGBA},
	"currentcolor": {Type: ColorCurrentColor},

	"black":   rgb(0, 0, 0),
	"silver":  rgb(192, 192, 192),
	"gray":    rgb(128, 128, 128),
	"grey":    rgb(128, 128, 128),
	"white":   rgb(255, 255, 255),
	"maroon":  rgb(128, 0, 0),
	"red":     rgb(255, 0, 0),
	"purple":  rgb(128, 0, 128),
	"fuchsia": rgb(255, 0, 255),
	"magenta": rgb(255, 0, 255),
	"green":   rgb(0, 128, 0),
	"lime":    rgb(0, 255, 0),
	"olive":   rgb(128, 128, 0),
	"yellow":  rgb(255, 255, 0),
	"navy":    rgb(0, 0, 128),
	"blue":    rgb(0, 0, 255),
	"teal":    rgb(0, 128, 128),
	"aqua":    rgb(0, 255, 255),
	"cyan":    rgb(0, 255, 255),

	"orange":     rgb(255, 165, 0),
	"pink":       rgb(255, 192, 203),
	"brown":      rgb(165, 42, 42),
	"gold":       rgb(255, 215, 0),
	"indigo":     rgb(75, 0, 130),
	"violet":     rgb(238, 130, 238),
	"beige":      rgb(245, 245, 220),
	"ivory":      rgb(255, 255, 240),
	"khaki":      rgb(240, 230, 140),
	"salmon":     rgb(250, 128, 114),
	"tomato":     rgb(255, 99, 71),
	"coral":      rgb(255, 127, 80),
	"crimson":    rgb(220, 20, 60),
	"darkblue":   rgb(0, 0, 139),
	"darkgreen":  rgb(0, 100, 0),
	"darkred":    rgb(139, 0, 0),
	"darkgray":   rgb(169, 169, 169),
	"darkgrey":   rgb(169, 169, 169),
	"lightgray":  rgb(211, 211, 211),
	"lightgrey":  rgb(211, 211, 211),
	"lightblue":  rgb(173, 216, 230),
	"lightgreen": rgb(144, 238, 144),
	"skyblue":    rgb(135, 206, 235),
	"steelblue":  rgb(70, 130, 180),
	"royalblue":  rgb(65, 105, 225),
	"slategray":  rgb(112, 128, 144),
	"slategrey":  rgb(112, 128, 144),
	"whitesmoke": rgb(245, 245, 245),
}

// ParseColorString tokenizes `s` and parses it as a color.
func ParseColorString(s string) Color {
	tokens := RemoveWhitespace(Tokenize(s))
	if len(tokens) != 1 {
		return Color{}
	}
	return ParseColor(tokens[0])
}

// ParseColor parses a color value, as defined in CSS Color Level 3.
// An invalid color is returned for unsupported input.
func ParseColor(token Token) Color {
	switch token := token.(type) {
	case Ident:
		return colorKeywords[strings.ToLower(string(token))]
	case Hash:
		return parseHashColor(token.Value)
	case FunctionBlock:
		args := parseColorArgs(token.Arguments)
		switch token.Name {
		case "rgb", "rgba":
			return parseRgb(args)
		}
	}
	return Color{}
}

func parseHashColor(v string) Color {
	expand := func(s string) (uint8, bool) {
		n, err := strconv.ParseUint(s, 16, 8)
		return uint8(n), err == nil
	}
	var parts []string
	switch len(v) {
	case 3, 4:
		for _, c := range v {
			parts = append(parts, string(c)+string(c))
		}
	case 6, 8:
		for i := 0; i < len(v); i += 2 {
			parts = append(parts, v[i:i+2])
		}
	default:
		return Color{}
	}
	var comps [4]uint8
	comps[3] = 255
	for i, p := range parts {
		c, ok := expand(p)
		if !ok {
			return Color{}
		}
		comps[i] = c
	}
	out := rgb(comps[0], comps[1], comps[2])
	out.RGBA.A = float64(comps[3]) / 255
	return out
}

func parseColorArgs(tokens []Token) []Token {
	var out []Token
	for _, t := range RemoveWhitespace(tokens) {
		if t == Literal(",") || t == Literal("/") {
			continue
		}
		out = append(out, t)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	} else if v > 1 {
		return 1
	}
	return v
}

func parseRgb(args []Token) Color {
	if len(args) != 3 && len(args) != 4 {
		return Color{}
	}
	var comps [3]float64
	for i, arg := range args[:3] {
		switch arg := arg.(type) {
		case Number:
			comps[i] = clamp01(arg.Value / 255)
		case Percentage:
			comps[i] = clamp01(arg.Value / 100)
		default:
			return Color{}
		}
	}
	alpha := 1.
	if len(args) == 4 {
		switch arg := args[3].(type) {
		case Number:
			alpha = clamp01(arg.Value)
		case Percentage:
			alpha = clamp01(arg.Value / 100)
		default:
			return Color{}
		}
	}
	return Color{Type: ColorRGBA, RGBA: RGBA{R: comps[0], G: comps[1], B: comps[2], A: alpha}}
}
