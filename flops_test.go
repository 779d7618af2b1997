package numbench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFlopCounts_KnownValues(t *testing.T) {
	require.EqualValues(t, 2*100-1, DotProductFlops(100))
	require.EqualValues(t, 2*30*40, MatVecFlops(30, 40))
	require.EqualValues(t, 2*4*5*6, MatMulFlops(5, 6, 4))

	// n=3 substitution: rows cost 1, 3, 5.
	require.EqualValues(t, 9, TriangularSolveFlops(3))

	// n=2 elimination: one step, 2 divides... the model counts (n-k) divides
	// plus 2(n-k)² updates at k=0: 2 + 8.
	require.EqualValues(t, 10, LUFlops(2))

	// QR at m=n: 2n³ − 2n³/3.
	require.EqualValues(t, 2*8*8*8-(2*8*8*8)/3, QRFlops(8, 8))
}

// Cholesky is defined as half the LU count (integer floor) at every size.
func TestCholeskyHalfOfLU(t *testing.T) {
	for n := 2; n <= 64; n++ {
		require.Equal(t, LUFlops(n)/2, CholeskyFlops(n), "n=%d", n)
	}
}

func TestKernelLookupTable(t *testing.T) {
	sum := FlopsSummary(16)
	require.Len(t, sum, 7)
	require.Equal(t, DotProductFlops(16), sum[DotProduct])
	require.Equal(t, MatMulFlops(16, 16, 16), sum[MatMul])

	for k := range sum {
		got, err := k.Flops(16)
		require.NoError(t, err)
		require.Equal(t, sum[k], got)

		parsed, err := ParseKernel(k.String())
		require.NoError(t, err)
		require.Equal(t, k, parsed)
	}

	_, err := ParseKernel("svd")
	require.ErrorIs(t, err, ErrUnknownKernel)

	_, err = Kernel(42).Flops(8)
	require.ErrorIs(t, err, ErrUnknownKernel)
}

func TestGflops(t *testing.T) {
	// 2e9 FLOPs in one second is 2 GFLOP/s.
	require.InDelta(t, 2.0, Gflops(2e9, time.Second), 1e-12)
	require.InDelta(t, 4.0, Gflops(2e9, 500*time.Millisecond), 1e-12)
}

func TestFlopCounter(t *testing.T) {
	var c FlopCounter
	c.Add()
	c.Mul()
	c.Div()
	c.Sqrt()
	require.EqualValues(t, 4, c.Count())

	c.Dot(10)
	require.EqualValues(t, 24, c.Count())

	c.MatVec(3, 4)
	require.EqualValues(t, 24+24, c.Count())

	c.Reset()
	require.EqualValues(t, 0, c.Count())
}

func TestMemoryBytes(t *testing.T) {
	b, err := MemoryBytes("float64", 1000)
	require.NoError(t, err)
	require.EqualValues(t, 8000, b)

	b, err = MemoryBytes("float32", 100, 100)
	require.NoError(t, err)
	require.EqualValues(t, 40000, b)

	_, err = MemoryBytes("float16", 10)
	require.ErrorIs(t, err, ErrUnknownDType)
}

func TestFormatBytes(t *testing.T) {
	require.Equal(t, "512 B", FormatBytes(512))
	require.Equal(t, "1.00 KB", FormatBytes(1024))
	require.Equal(t, "2.00 MB", FormatBytes(2<<20))
	require.Equal(t, "1.50 GB", FormatBytes(3<<29))
}

func TestMemorySummary(t *testing.T) {
	s, err := MemorySummary(1000, "float64")
	require.NoError(t, err)
	require.Equal(t, "7.81 KB", s["vector"])
	require.Contains(t, s, "matrix")
	require.Contains(t, s, "rank_k")

	_, err = MemorySummary(10, "bool")
	require.ErrorIs(t, err, ErrUnknownDType)
}
