// Package numbench verifies the numerical claims optimization and
// linear-algebra code makes about itself.
//
// # Overview
//
// Two independent pipelines share no state and compose only through the
// caller:
//
//   - Derivative verification: finite-difference gradient and Hessian
//     estimates (forward, central, complex-step) cross-check analytically
//     coded derivatives, with directional-derivative and smoothness probes.
//   - Complexity verification: a FLOP model of the standard dense kernels
//     and a median-filtered timing sampler feed a log-log regression that
//     recovers an operation's empirical polynomial exponent and compares it
//     against the theoretical one.
//
// # Checking a gradient
//
//	f := func(x []float64) float64 { return x[0]*x[0] + x[1]*x[1] }
//	grad := func(x []float64) []float64 { return []float64{2 * x[0], 2 * x[1]} }
//
//	r, err := numbench.CheckGradient(f, grad, []float64{1, 1}, numbench.GradientCheckConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("passed=%v relative error=%.2e\n", r.Passed, r.RelativeError)
//
// The schemes trade cost against accuracy: forward differences need n+1
// evaluations with O(ε) truncation error, central differences 2n evaluations
// with O(ε²), and the complex step n evaluations of a holomorphic extension
// with no subtractive cancellation at all. Shrinking ε below the default does
// not help the real-valued schemes: rounding error grows as truncation error
// shrinks, and the defaults sit near the crossover.
//
// # Verifying a complexity
//
//	setup := func(n int) numbench.Operation {
//	    a := numbench.RandomMatrix(n, n, rng)
//	    b := numbench.RandomMatrix(n, n, rng)
//	    c := mat.NewDense(n, n, nil)
//	    return func() { c.Mul(a, b) }
//	}
//
//	r, err := numbench.VerifyComplexity(setup, []int{64, 128, 256, 512}, "n^3", numbench.VerifyConfig{})
//
// Problem construction runs outside the timed region, each size gets a
// discarded warm-up call, and the median over the repetitions feeds the
// fit log(time) = log(c) + p·log(n). Timed repetitions are strictly
// sequential; only the per-coordinate derivative loops may run concurrently.
//
// # Testing
//
// The Assert helpers integrate with the standard testing package:
//
//	func TestRosenbrockGradient(t *testing.T) {
//	    numbench.AssertGradient(t, rosenbrock, rosenbrockGrad, x0, numbench.GradientCheckConfig{})
//	    numbench.AssertConsistency(t, rosenbrockGrad, x0, rand.New(rand.NewSource(7)))
//	}
//
// Every check returns a structured result; the slog-based reports are an
// optional side channel and never carry the verdict.
package numbench
