package numbench

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Operation is a zero-argument function under measurement, already closed
// over its problem data.
type Operation func()

// Setup constructs the Operation for a given problem size. Construction cost
// is never part of the timed region.
type Setup func(size int) Operation

// DefaultRuns is the number of timed repetitions when a config leaves it zero.
const DefaultRuns = 5

// Stats summarizes the timed repetitions of one measurement. Median is the
// headline number: it shrugs off scheduler hiccups that drag a mean.
type Stats struct {
	Runs   int
	Median time.Duration
	Mean   time.Duration
	Stddev time.Duration
	Min    time.Duration
	Max    time.Duration
}

// Sample times op over runs sequential repetitions after one discarded
// warm-up call. Repetitions are never run concurrently: parallel timed runs
// would contend for CPU and corrupt the wall-clock readings.
func Sample(op Operation, runs int) Stats {
	if runs <= 0 {
		runs = DefaultRuns
	}

	op() // warm-up, discarded

	secs := make([]float64, runs)
	s := Stats{Runs: runs}
	for i := 0; i < runs; i++ {
		start := time.Now()
		op()
		elapsed := time.Since(start)

		secs[i] = elapsed.Seconds()
		if i == 0 || elapsed < s.Min {
			s.Min = elapsed
		}
		if elapsed > s.Max {
			s.Max = elapsed
		}
	}

	sort.Float64s(secs)
	s.Median = durationSeconds(stat.Quantile(0.5, stat.Empirical, secs, nil))
	mean, std := stat.MeanStdDev(secs, nil)
	s.Mean = durationSeconds(mean)
	if runs > 1 {
		s.Stddev = durationSeconds(std)
	}
	return s
}

// SampleSize builds the size-n problem through setup and times the resulting
// operation. Only the operation is measured.
func SampleSize(setup Setup, n, runs int) Stats {
	return Sample(setup(n), runs)
}

func durationSeconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// A Timer measures one scoped region of wall-clock time. Stop captures the
// elapsed time exactly once no matter how many exit paths call it, so it is
// safe to defer alongside an early return or a propagated error.
type Timer struct {
	name    string
	start   time.Time
	elapsed time.Duration
	stopped bool
}

// StartTimer begins timing a named region.
func StartTimer(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Stop freezes the timer and returns the elapsed time. Further calls return
// the captured value without re-reading the clock.
func (t *Timer) Stop() time.Duration {
	if !t.stopped {
		t.elapsed = time.Since(t.start)
		t.stopped = true
	}
	return t.elapsed
}

// Elapsed returns the captured time of a stopped timer, or the running total
// of a live one.
func (t *Timer) Elapsed() time.Duration {
	if t.stopped {
		return t.elapsed
	}
	return time.Since(t.start)
}

// Log stops the timer and reports it. A nil logger still stops the timer.
func (t *Timer) Log(log *slog.Logger) {
	d := t.Stop()
	if log != nil {
		log.Info("timer", "name", t.name, "elapsed", d)
	}
}

// Measurement pairs a kernel's timing with its theoretical FLOP model,
// giving an observed throughput.
type Measurement struct {
	Kernel  Kernel
	Size    int
	Flops   int64
	Elapsed time.Duration // median over the repetitions
	Gflops  float64
	Stats   Stats
}

// BenchmarkKernel measures the throughput of a standard dense kernel at size
// n against its FLOP model. Problem data is drawn from rng (a fixed-seed
// source when nil) and built before timing starts. The kernels with a
// library implementation here are DotProduct, MatVec and MatMul.
func BenchmarkKernel(k Kernel, n, runs int, rng *rand.Rand) (Measurement, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	var op Operation
	switch k {
	case DotProduct:
		x := RandomVector(n, rng)
		y := RandomVector(n, rng)
		op = func() { floats.Dot(x, y) }
	case MatVec:
		a := RandomMatrix(n, n, rng)
		x := mat.NewVecDense(n, RandomVector(n, rng))
		y := mat.NewVecDense(n, nil)
		op = func() { y.MulVec(a, x) }
	case MatMul:
		a := RandomMatrix(n, n, rng)
		b := RandomMatrix(n, n, rng)
		c := mat.NewDense(n, n, nil)
		op = func() { c.Mul(a, b) }
	default:
		return Measurement{}, fmt.Errorf("%w: no reference implementation for %v", ErrUnknownKernel, k)
	}

	flops, err := k.Flops(n)
	if err != nil {
		return Measurement{}, err
	}

	stats := Sample(op, runs)
	return Measurement{
		Kernel:  k,
		Size:    n,
		Flops:   flops,
		Elapsed: stats.Median,
		Gflops:  Gflops(flops, stats.Median),
		Stats:   stats,
	}, nil
}
