package numbench

import (
	"math/rand"
	"testing"
)

// Testing helpers for numerical verification. Optimization code can call
// these from its own test suites to assert that hand-coded derivatives and
// kernel complexities hold the properties they claim.

// AssertGradient verifies an analytically coded gradient against the
// finite-difference estimate at x.
func AssertGradient(t *testing.T, f Func, grad GradientFunc, x []float64, cfg GradientCheckConfig) {
	t.Helper()

	r, err := CheckGradient(f, grad, x, cfg)
	if err != nil {
		t.Fatalf("gradient check could not run: %v", err)
	}

	if !r.Passed {
		t.Errorf("gradient mismatch: relative error %.6e (tolerance %.6e)\n"+
			"worst component %d: analytic=%.6e numeric=%.6e diff=%.6e\n"+
			"The analytic gradient disagrees with the %s-difference estimate; check signs and chain-rule terms.",
			r.RelativeError, r.Tolerance,
			r.WorstIndex, r.WorstAnalytic, r.WorstNumeric, r.WorstDiff,
			r.Scheme)
		return
	}

	t.Logf("✓ gradient matches: relative error %.6e (scheme %s, step %.1e)",
		r.RelativeError, r.Scheme, r.Step)
}

// AssertHessian verifies an analytically coded Hessian against the central
// finite-difference estimate at x.
func AssertHessian(t *testing.T, f Func, hess HessianFunc, x []float64, cfg HessianCheckConfig) {
	t.Helper()

	r, err := CheckHessian(f, hess, x, cfg)
	if err != nil {
		t.Fatalf("hessian check could not run: %v", err)
	}

	if !r.Passed {
		t.Errorf("hessian mismatch: relative Frobenius error %.6e (tolerance %.6e)\n"+
			"‖analytic‖=%.6e ‖numeric‖=%.6e ‖diff‖=%.6e",
			r.RelativeError, r.Tolerance, r.NormAnalytic, r.NormNumeric, r.NormDiff)
		return
	}

	t.Logf("✓ hessian matches: relative error %.6e (step %.1e)", r.RelativeError, r.Step)
}

// AssertDirectionalDecay verifies that the first-order Taylor error shrinks
// as the step α shrinks over the leading part of the sweep, before
// floating-point cancellation dominates. minAlpha controls how far into the
// sweep the decay must hold; zero checks α down to 1e-4.
func AssertDirectionalDecay(t *testing.T, f Func, grad GradientFunc, x, d []float64, minAlpha float64) {
	t.Helper()

	if minAlpha == 0 {
		minAlpha = 1e-4
	}

	var (
		prevAlpha, prevErr float64
		first              = true
	)
	for alpha, relErr := range DirectionalErrors(f, grad, x, d, nil) {
		t.Logf("  α=%.3e relative error=%.6e", alpha, relErr)
		if alpha < minAlpha {
			break
		}
		if !first && relErr > prevErr {
			t.Errorf("Taylor error grew while α shrank: α=%.3e err=%.6e (was α=%.3e err=%.6e)\n"+
				"The gradient's directional derivative does not predict f to first order.",
				alpha, relErr, prevAlpha, prevErr)
		}
		prevAlpha, prevErr = alpha, relErr
		first = false
	}
}

// AssertConsistency verifies the gradient's local smoothness probe passes.
func AssertConsistency(t *testing.T, grad GradientFunc, x []float64, rng *rand.Rand) {
	t.Helper()

	r := CheckConsistency(grad, x, ConsistencyConfig{Rand: rng})
	if !r.Passed {
		t.Errorf("gradient inconsistent near x: max variation %.6e exceeds 10× expected %.6e\n"+
			"The gradient jumps under tiny perturbations; look for hidden state or branches.",
			r.MaxVariation, r.ExpectedVariation)
		return
	}

	t.Logf("✓ gradient consistent: max variation %.6e (expected %.6e over %d samples)",
		r.MaxVariation, r.ExpectedVariation, r.Samples)
}

// AssertComplexity verifies an operation's empirical exponent matches the
// expected descriptor ("n", "n^2" or "n^3").
func AssertComplexity(t *testing.T, setup Setup, sizes []int, expected string, cfg VerifyConfig) {
	t.Helper()

	r, err := VerifyComplexity(setup, sizes, expected, cfg)
	if err != nil {
		t.Fatalf("complexity verification could not run: %v", err)
	}

	if !r.Passed {
		t.Errorf("complexity mismatch: empirical exponent %.2f, expected %.1f (deviation %.2f > %.2f)\n"+
			"R²=%.4f. Noisy fits (low R²) usually mean the sizes are too small to dominate constant costs.",
			r.Empirical, r.Expected, r.Deviation, r.Tolerance, r.Fit.RSquared)
		return
	}

	t.Logf("✓ complexity verified: exponent %.2f ≈ %.1f (R²=%.4f)",
		r.Empirical, r.Expected, r.Fit.RSquared)
}
