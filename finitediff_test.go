package numbench

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// affine f(x) = aᵀx + b has zero second derivative, so the central scheme's
// O(ε²) truncation term vanishes and the estimate is exact up to rounding.
func TestGradient_CentralExactOnAffine(t *testing.T) {
	a := []float64{2, -3, 0.5, 7}
	f := func(x []float64) float64 { return floats.Dot(a, x) + 4 }

	for _, eps := range []float64{1e-2, 1e-5, 1e-8} {
		grad, err := Gradient(f, []float64{1, -2, 3, 0}, GradientSettings{Scheme: Central, Step: eps})
		require.NoError(t, err)

		for i := range a {
			require.InDeltaf(t, a[i], grad[i], 1e-6,
				"component %d at ε=%g", i, eps)
		}
	}
}

func TestGradient_ForwardFirstOrder(t *testing.T) {
	f := func(x []float64) float64 { return x[0] * x[0] }

	// Forward truncation error is ε·f''/2 = ε at this point.
	grad, err := Gradient(f, []float64{1}, GradientSettings{Scheme: Forward, Step: 1e-3})
	require.NoError(t, err)
	require.InDelta(t, 2.0, grad[0], 2e-3)
	require.Greater(t, math.Abs(grad[0]-2.0), 1e-5, "forward error should sit near ε, not vanish")
}

// The complex step has no subtractive cancellation, so accuracy does not
// depend on ε anywhere in [1e-10, 1e-6].
func TestGradient_ComplexStepEpsIndependent(t *testing.T) {
	f := func(x []float64) float64 { return x[0]*x[0]*x[0] + x[1]*x[1] }
	ext := func(z []complex128) complex128 { return z[0]*z[0]*z[0] + z[1]*z[1] }

	x := []float64{1.5, -2}
	want := []float64{3 * 1.5 * 1.5, -4}

	for _, eps := range []float64{1e-10, 1e-8, 1e-6} {
		grad, err := Gradient(f, x, GradientSettings{Scheme: ComplexStep, Step: eps, Extension: ext})
		require.NoError(t, err)
		for i := range want {
			require.InDeltaf(t, want[i], grad[i], 1e-10, "component %d at ε=%g", i, eps)
		}
	}
}

func TestGradient_ComplexStepRequiresExtension(t *testing.T) {
	f := func(x []float64) float64 { return x[0] }
	_, err := Gradient(f, []float64{1}, GradientSettings{Scheme: ComplexStep})
	require.Error(t, err)
}

func TestGradient_UnknownScheme(t *testing.T) {
	f := func(x []float64) float64 { return x[0] }
	_, err := Gradient(f, []float64{1}, GradientSettings{Scheme: Scheme(99)})
	require.ErrorIs(t, err, ErrUnknownScheme)
}

func TestGradient_DoesNotMutateX(t *testing.T) {
	f := func(x []float64) float64 { return x[0] * x[1] }
	x := []float64{3, 4}

	_, err := Gradient(f, x, GradientSettings{Scheme: Central})
	require.NoError(t, err)
	require.Equal(t, []float64{3, 4}, x)
}

func TestGradient_ConcurrentMatchesSequential(t *testing.T) {
	f := func(x []float64) float64 {
		var s float64
		for i, v := range x {
			s += math.Sin(v) * float64(i+1)
		}
		return s
	}
	x := RandomVector(32, nil)

	seq, err := Gradient(f, x, GradientSettings{Scheme: Central})
	require.NoError(t, err)
	con, err := Gradient(f, x, GradientSettings{Scheme: Central, Concurrent: true})
	require.NoError(t, err)
	require.Equal(t, seq, con, "concurrent assembly must be deterministic by index")
}

// quadratic f(x) = ½xᵀQx has Hessian exactly Q; the central estimate must
// recover it to O(ε²) and return an exactly symmetric matrix.
func TestHessian_Quadratic(t *testing.T) {
	q := mat.NewSymDense(3, []float64{
		4, 1, -2,
		1, 3, 0.5,
		-2, 0.5, 5,
	})
	f := func(x []float64) float64 {
		v := mat.NewVecDense(3, x)
		var qx mat.VecDense
		qx.MulVec(q, v)
		return 0.5 * mat.Dot(v, &qx)
	}

	h, err := Hessian(f, []float64{0.3, -1, 2}, HessianSettings{})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			require.InDeltaf(t, q.At(i, j), h.At(i, j), 1e-4, "entry (%d,%d)", i, j)
			require.Equal(t, h.At(i, j), h.At(j, i), "must be symmetric by construction")
		}
	}
}

func TestHessian_ConcurrentMatchesSequential(t *testing.T) {
	f := func(x []float64) float64 {
		return math.Exp(x[0]) * math.Cos(x[1]) * (1 + x[2]*x[2])
	}
	x := []float64{0.1, 0.2, 0.3}

	seq, err := Hessian(f, x, HessianSettings{})
	require.NoError(t, err)
	con, err := Hessian(f, x, HessianSettings{Concurrent: true})
	require.NoError(t, err)
	require.True(t, mat.Equal(seq, con))
}

func TestParseScheme(t *testing.T) {
	cases := []struct {
		name string
		want Scheme
	}{
		{"forward", Forward},
		{"central", Central},
		{"complex", ComplexStep},
		{"complex-step", ComplexStep},
	}
	for _, c := range cases {
		got, err := ParseScheme(c.name)
		require.NoError(t, err)
		require.Equal(t, c.want, got)
		if c.name != "complex-step" {
			require.Equal(t, c.name, got.String())
		}
	}

	_, err := ParseScheme("backward")
	require.ErrorIs(t, err, ErrUnknownScheme)
}
