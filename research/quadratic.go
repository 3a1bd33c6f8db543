package research

import "math"

// SolveQuadratic returns the positive root of a*x^2 + b*x + c = 0.
//
// Integrating a rate that changes linearly per day over d days gives a
// quadratic in d; with a > 0 and c < 0 exactly one root is positive:
//
//	x = -b' + sqrt(b'^2 - c'),  b' = b/(2a), c' = c/a
func SolveQuadratic(a, b, c float64) (float64, error) {
	if a == 0 {
		return 0, &SolverError{A: a, B: b, C: c}
	}
	bh := b / (2 * a)
	ch := c / a
	disc := bh*bh - ch
	if !(disc > 0) || math.IsInf(disc, 0) {
		return 0, &SolverError{A: a, B: b, C: c}
	}
	return -bh + math.Sqrt(disc), nil
}
