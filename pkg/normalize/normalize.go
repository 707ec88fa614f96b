// Package normalize provides the numeric primitives every pillar score is built from.
// All functions are total: they return a finite value for any real input.
package normalize

import "math"

// Clamp01 bounds x to [0, 1]. NaN maps to 0.
func Clamp01(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Linear maps value onto [0, 1] over the range [min, max].
// A degenerate range (max <= min) carries no signal and yields 0.
func Linear(value, min, max float64) float64 {
	if max <= min {
		return 0
	}
	return Clamp01((value - min) / (max - min))
}

// Log maps value onto [0, 1] with a logarithmic curve that reaches 1 at value == baseline.
// Non-positive values yield 0. baseline must be > 0; scale <= 0 is treated as 1.
func Log(value, baseline, scale float64) float64 {
	if value <= 0 {
		return 0
	}
	if scale <= 0 {
		scale = 1
	}
	return Clamp01(math.Log(value/baseline*scale+1) / math.Log(scale+1))
}

// PctChange returns the relative change from previous to current.
// Growth from nothing (previous == 0) is reported as 1 when current > 0, else 0.
func PctChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 1
		}
		return 0
	}
	v := (current - previous) / previous
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Points scales a [0, 1] fraction to an integer point budget, rounding to nearest.
func Points(fraction, budget float64) int {
	v := fraction * budget
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}
