package numbench

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Problem generators for the timing sampler's setup functions. Every
// generator takes an explicit *rand.Rand so sweeps are reproducible from a
// seed; a nil source falls back to a fixed seed rather than global state.

func ensureRand(rng *rand.Rand) *rand.Rand {
	if rng == nil {
		return rand.New(rand.NewSource(1))
	}
	return rng
}

// RandomVector returns an n-vector of standard normal entries.
func RandomVector(n int, rng *rand.Rand) []float64 {
	rng = ensureRand(rng)
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.NormFloat64()
	}
	return v
}

// RandomMatrix returns an m×n matrix of standard normal entries.
func RandomMatrix(m, n int, rng *rand.Rand) *mat.Dense {
	return mat.NewDense(m, n, RandomVector(m*n, rng))
}

// SPDMatrix returns a random symmetric positive definite matrix QᵀQ + 0.1·I.
// The diagonal shift keeps the smallest eigenvalue away from zero.
func SPDMatrix(n int, rng *rand.Rand) *mat.SymDense {
	q := RandomMatrix(n, n, rng)
	var qtq mat.Dense
	qtq.Mul(q.T(), q)

	a := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			a.SetSym(i, j, qtq.At(i, j))
		}
		a.SetSym(i, i, a.At(i, i)+0.1)
	}
	return a
}

// LowerTriangular returns a random lower-triangular matrix with its diagonal
// shifted away from zero, suitable for substitution benchmarks.
func LowerTriangular(n int, rng *rand.Rand) *mat.TriDense {
	rng = ensureRand(rng)
	t := mat.NewTriDense(n, mat.Lower, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			t.SetTri(i, j, rng.NormFloat64())
		}
		d := rng.NormFloat64()
		t.SetTri(i, i, d+math.Copysign(float64(n), d))
	}
	return t
}

// Tridiagonal returns the n×n matrix with constant sub-, main and
// super-diagonals a, b, c. With (-1, 2, -1) it is the 1-D Poisson stencil.
func Tridiagonal(n int, a, b, c float64) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, b)
		if i > 0 {
			m.Set(i, i-1, a)
		}
		if i < n-1 {
			m.Set(i, i+1, c)
		}
	}
	return m
}

// LinearSystem returns a random n×n system A, b with b = A·xTrue, so solvers
// under test have a known answer.
func LinearSystem(n int, rng *rand.Rand) (a *mat.Dense, b *mat.VecDense, xTrue []float64) {
	rng = ensureRand(rng)
	a = RandomMatrix(n, n, rng)
	xTrue = RandomVector(n, rng)
	b = mat.NewVecDense(n, nil)
	b.MulVec(a, mat.NewVecDense(n, xTrue))
	return a, b, xTrue
}

// LeastSquaresProblem returns an overdetermined m×n system with
// b = A·xTrue + noiseLevel·η, η standard normal. Requires m ≥ n.
func LeastSquaresProblem(m, n int, noiseLevel float64, rng *rand.Rand) (a *mat.Dense, b *mat.VecDense, xTrue []float64) {
	if m < n {
		panic("numbench: least-squares problem needs m >= n")
	}
	rng = ensureRand(rng)

	a = RandomMatrix(m, n, rng)
	xTrue = RandomVector(n, rng)

	b = mat.NewVecDense(m, nil)
	b.MulVec(a, mat.NewVecDense(n, xTrue))
	for i := 0; i < m; i++ {
		b.SetVec(i, b.AtVec(i)+noiseLevel*rng.NormFloat64())
	}
	return a, b, xTrue
}
