package numbench

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

// A ComplexitySample records the median running time of an operation at one
// problem size.
type ComplexitySample struct {
	Size int
	Time time.Duration
}

// A ComplexityCurve is a sweep of samples over increasing problem sizes.
type ComplexityCurve []ComplexitySample

// A ComplexityFit is the result of the log-log regression
//
//	log(time) = log(c) + p·log(n)
//
// Exponent is the fitted slope p, the empirical polynomial order of the
// operation's cost. Intercept is log(c). RSquared reports how well a pure
// power law explains the sweep.
type ComplexityFit struct {
	Exponent  float64
	Intercept float64
	RSquared  float64
}

// FitCurve performs the log-log least-squares regression over a curve.
// It needs at least two samples, strictly positive times and at least two
// distinct sizes; anything less leaves the slope undefined.
func FitCurve(curve ComplexityCurve) (ComplexityFit, error) {
	if len(curve) < 2 {
		return ComplexityFit{}, fmt.Errorf("%w: got %d", ErrInsufficientSamples, len(curve))
	}

	logN := make([]float64, len(curve))
	logT := make([]float64, len(curve))
	for i, s := range curve {
		if s.Time <= 0 {
			return ComplexityFit{}, fmt.Errorf("%w: size %d measured %v", ErrNonPositiveTime, s.Size, s.Time)
		}
		logN[i] = math.Log(float64(s.Size))
		logT[i] = math.Log(s.Time.Seconds())
	}

	distinct := false
	for _, s := range curve[1:] {
		if s.Size != curve[0].Size {
			distinct = true
			break
		}
	}
	if !distinct {
		return ComplexityFit{}, fmt.Errorf("%w: size %d", ErrDegenerateSweep, curve[0].Size)
	}

	intercept, slope := stat.LinearRegression(logN, logT, nil, false)
	return ComplexityFit{
		Exponent:  slope,
		Intercept: intercept,
		RSquared:  stat.RSquared(logN, logT, nil, intercept, slope),
	}, nil
}

// EstimateComplexity measures the operation over the size sweep and fits the
// empirical exponent. Each size is sampled sequentially through the setup
// function with construction excluded from the timed region.
func EstimateComplexity(setup Setup, sizes []int, runs int) (ComplexityFit, ComplexityCurve, error) {
	curve := make(ComplexityCurve, 0, len(sizes))
	for _, n := range sizes {
		stats := SampleSize(setup, n, runs)
		curve = append(curve, ComplexitySample{Size: n, Time: stats.Median})
	}

	fit, err := FitCurve(curve)
	if err != nil {
		return ComplexityFit{}, curve, err
	}
	return fit, curve, nil
}

// ParseExpectedExponent maps a complexity descriptor to its exponent:
// a descriptor containing "n^3" or "n^2" selects 3 or 2, a bare "n" with no
// caret selects 1, anything else is unparsable.
func ParseExpectedExponent(desc string) (float64, error) {
	switch {
	case strings.Contains(desc, "n^3"):
		return 3, nil
	case strings.Contains(desc, "n^2"):
		return 2, nil
	case strings.Contains(desc, "n") && !strings.Contains(desc, "^"):
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnparsableComplexity, desc)
	}
}

// DefaultExponentTol is the default allowed deviation between the empirical
// and the expected exponent. Wall-clock exponents wander with cache effects
// and allocator noise, so the band is deliberately wide.
const DefaultExponentTol = 0.3

// VerifyConfig controls VerifyComplexity.
type VerifyConfig struct {
	Runs int     // timed repetitions per size, 0 selects DefaultRuns
	Tol  float64 // 0 selects DefaultExponentTol
	Log  *slog.Logger
}

// VerifyResult is the structured verdict of a complexity verification.
type VerifyResult struct {
	Passed    bool
	Expected  float64
	Empirical float64
	Deviation float64
	Tolerance float64

	Fit   ComplexityFit
	Curve ComplexityCurve
}

// Report logs a human-readable account of the verification. A nil logger is
// a no-op.
func (r VerifyResult) Report(log *slog.Logger) {
	if log == nil {
		return
	}
	attrs := []any{
		"expected", r.Expected,
		"empirical", r.Empirical,
		"deviation", r.Deviation,
		"tolerance", r.Tolerance,
		"r_squared", r.Fit.RSquared,
	}
	if r.Passed {
		log.Info("complexity verified", attrs...)
	} else {
		log.Error("complexity mismatch", attrs...)
	}
	for _, s := range r.Curve {
		log.Debug("sample", "size", s.Size, "time", s.Time)
	}
}

// VerifyComplexity measures the operation over the size sweep and checks the
// empirical exponent against the expected descriptor within tolerance.
func VerifyComplexity(setup Setup, sizes []int, expected string, cfg VerifyConfig) (VerifyResult, error) {
	want, err := ParseExpectedExponent(expected)
	if err != nil {
		return VerifyResult{}, err
	}

	tol := cfg.Tol
	if tol == 0 {
		tol = DefaultExponentTol
	}

	fit, curve, err := EstimateComplexity(setup, sizes, cfg.Runs)
	if err != nil {
		return VerifyResult{}, err
	}

	r := VerifyResult{
		Expected:  want,
		Empirical: fit.Exponent,
		Deviation: math.Abs(fit.Exponent - want),
		Tolerance: tol,
		Fit:       fit,
		Curve:     curve,
	}
	r.Passed = r.Deviation < tol

	r.Report(cfg.Log)
	return r, nil
}
