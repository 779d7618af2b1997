package numbench

import (
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// ConsistencyConfig controls CheckConsistency.
type ConsistencyConfig struct {
	// Samples is the number of random perturbations to draw. Zero selects 10.
	Samples int

	// Step is the perturbation magnitude. Zero selects 1e-7.
	Step float64

	// Rand is the randomness source for the perturbations. It is
	// caller-owned so a seeded source gives reproducible probes; nil selects
	// a fixed-seed source rather than ambient global state.
	Rand *rand.Rand

	Log *slog.Logger
}

// ConsistencyResult is the structured outcome of a consistency probe.
type ConsistencyResult struct {
	Passed bool

	Samples int
	Step    float64

	NormBase          float64 // ‖∇f(x)‖ at the base point
	MeanVariation     float64
	MaxVariation      float64
	ExpectedVariation float64 // first-order estimate Step·‖∇f(x)‖
}

// Report logs a human-readable account of the probe. A nil logger is a no-op.
func (r ConsistencyResult) Report(log *slog.Logger) {
	if log == nil {
		return
	}
	attrs := []any{
		"samples", r.Samples,
		"step", r.Step,
		"norm_base", r.NormBase,
		"mean_variation", r.MeanVariation,
		"max_variation", r.MaxVariation,
		"expected_variation", r.ExpectedVariation,
	}
	if r.Passed {
		log.Info("gradient consistency check passed", attrs...)
	} else {
		log.Warn("gradient consistency check failed", attrs...)
	}
}

// CheckConsistency probes the local smoothness of an analytically coded
// gradient: it evaluates grad at Samples random Gaussian perturbations of x
// with magnitude Step and measures how much the value moves. The probe
// passes when the maximum observed variation stays below ten times the
// first-order expectation Step·‖∇f(x)‖.
//
// This is a Lipschitz-style sanity heuristic, not a correctness proof. It
// catches implementations that are discontinuous or non-deterministic at
// nearby points, such as an unintended dependence on mutable global state.
func CheckConsistency(grad GradientFunc, x []float64, cfg ConsistencyConfig) ConsistencyResult {
	samples := cfg.Samples
	if samples == 0 {
		samples = 10
	}
	step := cfg.Step
	if step == 0 {
		step = 1e-7
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	base := grad(x)
	n := len(x)

	var sum, max float64
	xp := make([]float64, n)
	diff := make([]float64, len(base))
	for s := 0; s < samples; s++ {
		copy(xp, x)
		for i := range xp {
			xp[i] += step * rng.NormFloat64()
		}
		floats.SubTo(diff, grad(xp), base)
		v := floats.Norm(diff, 2)
		sum += v
		if v > max {
			max = v
		}
	}

	r := ConsistencyResult{
		Samples:           samples,
		Step:              step,
		NormBase:          floats.Norm(base, 2),
		MeanVariation:     sum / float64(samples),
		MaxVariation:      max,
		ExpectedVariation: step * floats.Norm(base, 2),
	}
	r.Passed = r.MaxVariation < 10*r.ExpectedVariation

	r.Report(cfg.Log)
	return r
}
