package numbench

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// syntheticCurve builds a noise-free curve time = c·n^p.
func syntheticCurve(sizes []int, c, p float64) ComplexityCurve {
	curve := make(ComplexityCurve, 0, len(sizes))
	for _, n := range sizes {
		secs := c * math.Pow(float64(n), p)
		curve = append(curve, ComplexitySample{
			Size: n,
			Time: time.Duration(secs * float64(time.Second)),
		})
	}
	return curve
}

func TestFitCurve_RecoversCubic(t *testing.T) {
	curve := syntheticCurve([]int{64, 128, 256, 512, 1024}, 1e-9, 3)

	fit, err := FitCurve(curve)
	require.NoError(t, err)
	require.InDelta(t, 3.0, fit.Exponent, 0.3)
	require.Greater(t, fit.RSquared, 0.999, "noise-free power law must fit almost perfectly")
	t.Logf("exponent %.4f intercept %.4f R²=%.6f", fit.Exponent, fit.Intercept, fit.RSquared)
}

func TestFitCurve_RecoversQuadraticAndLinear(t *testing.T) {
	for _, p := range []float64{1, 2} {
		fit, err := FitCurve(syntheticCurve([]int{100, 200, 400, 800}, 1e-6, p))
		require.NoError(t, err)
		require.InDeltaf(t, p, fit.Exponent, 0.05, "p=%v", p)
	}
}

func TestFitCurve_Degenerate(t *testing.T) {
	// Fewer than two samples.
	_, err := FitCurve(ComplexityCurve{{Size: 10, Time: time.Millisecond}})
	require.ErrorIs(t, err, ErrInsufficientSamples)

	// Non-positive time.
	_, err = FitCurve(ComplexityCurve{
		{Size: 10, Time: time.Millisecond},
		{Size: 20, Time: 0},
	})
	require.ErrorIs(t, err, ErrNonPositiveTime)

	// All sizes equal: zero-variance regressor.
	_, err = FitCurve(ComplexityCurve{
		{Size: 10, Time: time.Millisecond},
		{Size: 10, Time: 2 * time.Millisecond},
	})
	require.ErrorIs(t, err, ErrDegenerateSweep)
}

func TestParseExpectedExponent(t *testing.T) {
	cases := []struct {
		desc string
		want float64
	}{
		{"n", 1},
		{"O(n)", 1},
		{"n^2", 2},
		{"m*n^2", 2},
		{"n^3", 3},
		{"2n^3/3", 3},
	}
	for _, c := range cases {
		got, err := ParseExpectedExponent(c.desc)
		require.NoErrorf(t, err, "desc %q", c.desc)
		require.Equalf(t, c.want, got, "desc %q", c.desc)
	}

	// Substring matching is deliberate and crude: any stray "n" with no
	// caret reads as linear, so the rejects here avoid the letter entirely.
	for _, bad := range []string{"", "cubic", "n^4", "2^n"} {
		_, err := ParseExpectedExponent(bad)
		require.ErrorIsf(t, err, ErrUnparsableComplexity, "desc %q", bad)
	}
}

// A sleeping operation is a clean stand-in for real work: its wall-clock
// cost scales exactly linearly with the size knob.
func sleepSetup(unit time.Duration) Setup {
	return func(n int) Operation {
		d := time.Duration(n) * unit
		return func() { time.Sleep(d) }
	}
}

func TestEstimateComplexity_LinearSleep(t *testing.T) {
	if testing.Short() {
		t.Skip("timing-based")
	}

	fit, curve, err := EstimateComplexity(sleepSetup(time.Millisecond), []int{10, 20, 40}, 2)
	require.NoError(t, err)
	require.Len(t, curve, 3)
	require.InDelta(t, 1.0, fit.Exponent, 0.3)
	t.Logf("empirical exponent %.3f over %v", fit.Exponent, curve)
}

func TestVerifyComplexity_LinearSleep(t *testing.T) {
	if testing.Short() {
		t.Skip("timing-based")
	}

	r, err := VerifyComplexity(sleepSetup(time.Millisecond), []int{10, 20, 40}, "n", VerifyConfig{Runs: 2})
	require.NoError(t, err)
	require.True(t, r.Passed, "empirical %.3f vs expected %.1f", r.Empirical, r.Expected)
	require.Equal(t, 1.0, r.Expected)
	require.Equal(t, DefaultExponentTol, r.Tolerance)
}

func TestVerifyComplexity_UnparsableDescriptor(t *testing.T) {
	_, err := VerifyComplexity(sleepSetup(time.Microsecond), []int{1, 2}, "exp", VerifyConfig{})
	require.ErrorIs(t, err, ErrUnparsableComplexity)
}
