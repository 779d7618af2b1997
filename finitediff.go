package numbench

import (
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Func is a scalar-valued objective evaluated at an n-vector. The estimator
// never mutates x; every perturbation happens on a private copy, so
// implementations may retain no state and must be safe for concurrent calls
// when Settings.Concurrent is set.
type Func func(x []float64) float64

// ComplexFunc is the analytic (holomorphic) extension of a Func to complex
// arguments. It must agree with the real function on the real axis and must
// not conjugate its inputs. Feeding a non-holomorphic extension to the
// complex-step scheme yields garbage derivatives; this is a caller contract,
// not something the estimator can detect.
type ComplexFunc func(x []complex128) complex128

// GradientFunc is an analytically coded gradient, the object under test in
// the checkers below.
type GradientFunc func(x []float64) []float64

// HessianFunc is an analytically coded Hessian.
type HessianFunc func(x []float64) *mat.SymDense

// Scheme selects the finite-difference formula used for gradients.
//
// Truncation error and evaluation cost per scheme for an n-dimensional
// gradient:
//
//	Forward      O(eps)    n+1 evaluations
//	Central      O(eps²)   2n evaluations
//	ComplexStep  exact*    n evaluations (*machine precision, holomorphic f)
//
// Shrinking eps reduces truncation error but amplifies subtractive
// cancellation for Forward and Central; the default steps balance the two.
// ComplexStep has no subtraction and is eps-independent within the
// extension's validity.
type Scheme int

const (
	Forward Scheme = iota
	Central
	ComplexStep
)

// String returns the scheme name accepted by ParseScheme.
func (s Scheme) String() string {
	switch s {
	case Forward:
		return "forward"
	case Central:
		return "central"
	case ComplexStep:
		return "complex"
	default:
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
}

// ParseScheme maps a scheme name to its Scheme value.
func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "forward":
		return Forward, nil
	case "central":
		return Central, nil
	case "complex", "complex-step":
		return ComplexStep, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
}

// Default step sizes. Gradients use a smaller step than Hessians because the
// second-difference formulas divide by eps², so rounding noise grows faster.
const (
	DefaultGradientStep = 1e-5
	DefaultHessianStep  = 1e-4
)

// GradientSettings controls a finite-difference gradient estimate.
// The zero value selects the central scheme with the default step.
type GradientSettings struct {
	Scheme Scheme

	// Step is the perturbation magnitude eps. Zero selects
	// DefaultGradientStep. Must not be negative.
	Step float64

	// Extension is the holomorphic extension of the objective, required by
	// the ComplexStep scheme and ignored otherwise.
	Extension ComplexFunc

	// Concurrent evaluates the per-coordinate perturbations on a worker
	// pool. Results are assembled by coordinate index, so the output is
	// identical to the sequential one. The objective must be safe for
	// concurrent invocation.
	Concurrent bool
}

// HessianSettings controls a finite-difference Hessian estimate.
type HessianSettings struct {
	// Step is the perturbation magnitude eps. Zero selects
	// DefaultHessianStep.
	Step float64

	// Concurrent evaluates independent entries on a worker pool, assembled
	// by index.
	Concurrent bool
}

// Gradient estimates the gradient of f at x using the configured scheme.
//
// Forward evaluates f once at x and once per perturbed coordinate; Central
// evaluates twice per coordinate and never at x; ComplexStep evaluates the
// extension once per coordinate, reading the derivative off the imaginary
// part. x is never modified.
func Gradient(f Func, x []float64, s GradientSettings) ([]float64, error) {
	if s.Step < 0 {
		return nil, fmt.Errorf("numbench: negative step %v", s.Step)
	}
	eps := s.Step
	if eps == 0 {
		eps = DefaultGradientStep
	}

	n := len(x)
	grad := make([]float64, n)

	switch s.Scheme {
	case Forward:
		f0 := f(x)
		eachIndex(n, s.Concurrent, func(i int) {
			xp := perturb(x, i, eps)
			grad[i] = (f(xp) - f0) / eps
		})
	case Central:
		eachIndex(n, s.Concurrent, func(i int) {
			xp := perturb(x, i, eps)
			xm := perturb(x, i, -eps)
			grad[i] = (f(xp) - f(xm)) / (2 * eps)
		})
	case ComplexStep:
		if s.Extension == nil {
			return nil, fmt.Errorf("numbench: complex-step scheme requires an Extension")
		}
		eachIndex(n, s.Concurrent, func(i int) {
			z := make([]complex128, n)
			for j, v := range x {
				z[j] = complex(v, 0)
			}
			z[i] += complex(0, eps)
			grad[i] = imag(s.Extension(z)) / eps
		})
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownScheme, s.Scheme)
	}

	return grad, nil
}

// Hessian estimates the Hessian of f at x using second-order central
// differences: the 3-point second difference on the diagonal and the 4-point
// mixed difference off it. Each off-diagonal entry is computed once and
// mirrored, so the result is symmetric by construction. Cost is O(n)
// evaluations for the diagonal plus four per unordered pair.
func Hessian(f Func, x []float64, s HessianSettings) (*mat.SymDense, error) {
	if s.Step < 0 {
		return nil, fmt.Errorf("numbench: negative step %v", s.Step)
	}
	eps := s.Step
	if eps == 0 {
		eps = DefaultHessianStep
	}

	n := len(x)
	h := mat.NewSymDense(n, nil)
	f0 := f(x)

	eachIndex(n, s.Concurrent, func(i int) {
		xp := perturb(x, i, eps)
		xm := perturb(x, i, -eps)
		h.SetSym(i, i, (f(xp)-2*f0+f(xm))/(eps*eps))
	})

	// Unordered pairs (i, j), i < j, flattened so the worker pool sees a
	// single index space.
	pairs := make([][2]int, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	eachIndex(len(pairs), s.Concurrent, func(k int) {
		i, j := pairs[k][0], pairs[k][1]
		fpp := f(perturb2(x, i, eps, j, eps))
		fpm := f(perturb2(x, i, eps, j, -eps))
		fmp := f(perturb2(x, i, -eps, j, eps))
		fmm := f(perturb2(x, i, -eps, j, -eps))
		h.SetSym(i, j, (fpp-fpm-fmp+fmm)/(4*eps*eps))
	})

	return h, nil
}

// perturb returns a copy of x with coordinate i shifted by delta.
func perturb(x []float64, i int, delta float64) []float64 {
	xp := make([]float64, len(x))
	copy(xp, x)
	xp[i] += delta
	return xp
}

func perturb2(x []float64, i int, di float64, j int, dj float64) []float64 {
	xp := make([]float64, len(x))
	copy(xp, x)
	xp[i] += di
	xp[j] += dj
	return xp
}

// eachIndex runs fn for every index in [0, n), either sequentially or on a
// bounded worker pool. Each fn call owns its index exclusively, so writes
// into index i of a shared output need no synchronization and ordering is
// determined by index, not completion.
func eachIndex(n int, concurrent bool, fn func(i int)) {
	if !concurrent || n < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}

	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}
	wg.Wait()
}
