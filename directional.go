package numbench

import (
	"iter"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultAlphas returns the default step sweep for the directional
// derivative check: 15 values logarithmically spaced from 1e-1 down to 1e-8.
func DefaultAlphas() []float64 {
	return LogSpace(-1, -8, 15)
}

// LogSpace returns n values spaced logarithmically from 10^lo to 10^hi.
func LogSpace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{math.Pow(10, lo)}
	}
	out := make([]float64, n)
	for i := range out {
		e := lo + (hi-lo)*float64(i)/float64(n-1)
		out[i] = math.Pow(10, e)
	}
	return out
}

// DirectionalErrors validates the first-order Taylor approximation
//
//	f(x+αd) ≈ f(x) + α·(∇f(x)·d)
//
// for each step α in alphas (DefaultAlphas when nil), yielding (α, relative
// error) pairs. The error is normalized by |f(x+αd) − f(x)|, falling back to
// the unnormalized absolute error when that denominator is zero.
//
// For a correct gradient the error shrinks linearly with α until subtractive
// cancellation takes over at the smallest steps; the eventual degradation is
// expected floating-point behavior, not a failed check. The sequence is
// evaluated lazily: breaking out of the range stops further evaluations of f.
func DirectionalErrors(f Func, grad GradientFunc, x, d []float64, alphas []float64) iter.Seq2[float64, float64] {
	if alphas == nil {
		alphas = DefaultAlphas()
	}

	f0 := f(x)
	slope := floats.Dot(grad(x), d)

	return func(yield func(float64, float64) bool) {
		xa := make([]float64, len(x))
		for _, alpha := range alphas {
			floats.AddScaledTo(xa, x, alpha, d)
			fa := f(xa)
			predicted := f0 + alpha*slope

			err := math.Abs(fa - predicted)
			if diff := math.Abs(fa - f0); diff > 0 {
				err /= diff
			}
			if !yield(alpha, err) {
				return
			}
		}
	}
}
