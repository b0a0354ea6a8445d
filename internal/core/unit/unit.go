// Package unit holds helpers for values that live on the unit interval
package unit

import "math"

// Clamp bounds x to [0,1]. NaN maps to 0 and infinities saturate
func Clamp(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}

// Confidence maps a unit score to the shared 0.5 + x/2 confidence curve
func Confidence(x float64) float64 {
	return Clamp(0.5 + Clamp(x)*0.5)
}

// Ratio is n/d clamped, with a zero denominator giving 0
func Ratio(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return Clamp(float64(n) / float64(d))
}
