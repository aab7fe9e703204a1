package utils

import "math"

// Fl is the floating point type used for geometry, in CSS pixels.
type Fl = float64

func MinInt(x, y int) int {
	if x < y {
		return x
	}
	return y
}

// RoundPrec rounds f with n digits precision
func RoundPrec(f Fl, n int) Fl {
	n10 := math.Pow10(n)
	return math.Round(f*n10) / n10
}
