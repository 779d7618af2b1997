package numbench

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Default pass thresholds for the checkers. The Hessian tolerance is looser
// because the second-difference formulas sit on an O(eps²) truncation floor
// at the default step.
const (
	DefaultGradientTol = 1e-4
	DefaultHessianTol  = 1e-3
)

// CheckResult is the structured outcome of a derivative check. It is always
// fully populated whether or not a report is emitted; textual reporting is a
// side channel, never the carrier of the verdict.
type CheckResult struct {
	Kind          string // "gradient" or "hessian"
	Passed        bool
	RelativeError float64
	Tolerance     float64

	Scheme Scheme
	Step   float64

	NormAnalytic float64 // Euclidean for gradients, Frobenius for Hessians
	NormNumeric  float64
	NormDiff     float64

	// Worst-offending component, populated on gradient failures.
	// WorstIndex is -1 when not applicable.
	WorstIndex    int
	WorstAnalytic float64
	WorstNumeric  float64
	WorstDiff     float64
}

// Report logs a human-readable account of the check. A nil logger is a no-op.
func (r CheckResult) Report(log *slog.Logger) {
	if log == nil {
		return
	}
	attrs := []any{
		"scheme", r.Scheme.String(),
		"step", r.Step,
		"norm_analytic", r.NormAnalytic,
		"norm_numeric", r.NormNumeric,
		"norm_diff", r.NormDiff,
		"relative_error", r.RelativeError,
		"tolerance", r.Tolerance,
	}
	if r.Passed {
		log.Info(r.Kind+" check passed", attrs...)
		return
	}
	log.Error(r.Kind+" check failed", attrs...)
	if r.WorstIndex >= 0 {
		log.Error("worst component",
			"index", r.WorstIndex,
			"analytic", r.WorstAnalytic,
			"numeric", r.WorstNumeric,
			"diff", r.WorstDiff,
		)
	}
}

// GradientCheckConfig controls CheckGradient. The zero value selects the
// central scheme, default step and default tolerance.
type GradientCheckConfig struct {
	Scheme     Scheme
	Step       float64 // 0 selects DefaultGradientStep
	Tol        float64 // 0 selects DefaultGradientTol
	Extension  ComplexFunc
	Concurrent bool
	Log        *slog.Logger // optional report channel
}

// HessianCheckConfig controls CheckHessian.
type HessianCheckConfig struct {
	Step       float64 // 0 selects DefaultHessianStep
	Tol        float64 // 0 selects DefaultHessianTol
	Concurrent bool
	Log        *slog.Logger
}

// CheckGradient compares an analytically coded gradient against a
// finite-difference estimate at x. The relative error is the Euclidean norm
// of the difference over the norm of the analytic gradient; a zero-norm
// analytic gradient falls back to the absolute difference, reported as +Inf
// when that difference is itself nonzero. On failure the single worst
// component (maximum absolute difference) is identified for diagnostics.
func CheckGradient(f Func, grad GradientFunc, x []float64, cfg GradientCheckConfig) (CheckResult, error) {
	tol := cfg.Tol
	if tol == 0 {
		tol = DefaultGradientTol
	}
	step := cfg.Step
	if step == 0 {
		step = DefaultGradientStep
	}

	analytic := grad(x)
	if len(analytic) != len(x) {
		return CheckResult{}, fmt.Errorf("%w: gradient has %d components for %d variables",
			ErrDimensionMismatch, len(analytic), len(x))
	}

	numeric, err := Gradient(f, x, GradientSettings{
		Scheme:     cfg.Scheme,
		Step:       step,
		Extension:  cfg.Extension,
		Concurrent: cfg.Concurrent,
	})
	if err != nil {
		return CheckResult{}, err
	}

	diff := make([]float64, len(x))
	floats.SubTo(diff, analytic, numeric)

	r := CheckResult{
		Kind:         "gradient",
		Scheme:       cfg.Scheme,
		Step:         step,
		Tolerance:    tol,
		NormAnalytic: floats.Norm(analytic, 2),
		NormNumeric:  floats.Norm(numeric, 2),
		NormDiff:     floats.Norm(diff, 2),
		WorstIndex:   -1,
	}
	r.RelativeError = relativeError(r.NormDiff, r.NormAnalytic)
	r.Passed = r.RelativeError < tol

	if !r.Passed && r.NormDiff > 0 {
		worst := 0
		for i := range diff {
			if math.Abs(diff[i]) > math.Abs(diff[worst]) {
				worst = i
			}
		}
		r.WorstIndex = worst
		r.WorstAnalytic = analytic[worst]
		r.WorstNumeric = numeric[worst]
		r.WorstDiff = diff[worst]
	}

	r.Report(cfg.Log)
	return r, nil
}

// CheckHessian compares an analytically coded Hessian against the central
// finite-difference estimate at x, using the Frobenius norm for the relative
// error. The same zero-norm fallback as CheckGradient applies.
func CheckHessian(f Func, hess HessianFunc, x []float64, cfg HessianCheckConfig) (CheckResult, error) {
	tol := cfg.Tol
	if tol == 0 {
		tol = DefaultHessianTol
	}
	step := cfg.Step
	if step == 0 {
		step = DefaultHessianStep
	}

	analytic := hess(x)
	if ra, _ := analytic.Dims(); ra != len(x) {
		return CheckResult{}, fmt.Errorf("%w: hessian is %d×%d for %d variables",
			ErrDimensionMismatch, ra, ra, len(x))
	}

	numeric, err := Hessian(f, x, HessianSettings{Step: step, Concurrent: cfg.Concurrent})
	if err != nil {
		return CheckResult{}, err
	}

	n := len(x)
	diff := mat.NewDense(n, n, nil)
	diff.Sub(analytic, numeric)

	r := CheckResult{
		Kind:         "hessian",
		Scheme:       Central,
		Step:         step,
		Tolerance:    tol,
		NormAnalytic: mat.Norm(analytic, 2),
		NormNumeric:  mat.Norm(numeric, 2),
		NormDiff:     mat.Norm(diff, 2),
		WorstIndex:   -1,
	}
	r.RelativeError = relativeError(r.NormDiff, r.NormAnalytic)
	r.Passed = r.RelativeError < tol

	r.Report(cfg.Log)
	return r, nil
}

// relativeError divides normDiff by normRef with the degenerate-reference
// policy: a zero-norm reference yields the absolute difference when that is
// zero too, and +Inf otherwise, so a spurious mismatch against a zero
// reference can never pass.
func relativeError(normDiff, normRef float64) float64 {
	if normRef > 0 {
		return normDiff / normRef
	}
	if normDiff == 0 {
		return 0
	}
	return math.Inf(1)
}
